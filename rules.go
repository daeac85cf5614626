package modernize

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// NodeKind is the category of syntax node a rule targets.
type NodeKind int

const (
	KindMethodCall NodeKind = iota + 1
	KindCall
	KindLiteral
)

func (k NodeKind) String() string {
	switch k {
	case KindMethodCall:
		return "method_call"
	case KindCall:
		return "call"
	case KindLiteral:
		return "literal"
	}
	return fmt.Sprintf("NodeKind(%d)", int(k))
}

var nodeKinds = map[string]NodeKind{
	"method_call":    KindMethodCall,
	"exprmethodcall": KindMethodCall,
	"call":           KindCall,
	"exprcall":       KindCall,
	"literal":        KindLiteral,
	"exprlit":        KindLiteral,
}

// Rule is one declarative match-and-rewrite instruction. Rules are tried in
// list order and the first one that matches a node wins.
type Rule struct {
	ID          string
	NodeKind    NodeKind
	TriggerName string
	Arity       int
	// NestedTrigger, when set, requires the receiver of a method call to be a
	// method call with this name.
	NestedTrigger string
	Severity      string
	DocReference  string
}

// ErrNoRules is returned when a rule source holds no rules.
var ErrNoRules = errors.New("no rules defined")

// RuleError describes a rule that violates the rule schema.
type RuleError struct {
	Index  int
	ID     string
	Reason string
}

func (e *RuleError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("rule #%d: %s", e.Index+1, e.Reason)
	}
	return fmt.Sprintf("rule #%d (%s): %s", e.Index+1, e.ID, e.Reason)
}

// ruleRecord is the on-disk form of a rule. The second name of each pair is
// the older spelling, still accepted.
type ruleRecord struct {
	ID string `yaml:"id"`

	NodeKind string `yaml:"node_kind"`
	ASTType  string `yaml:"ast_type"`

	TriggerName string `yaml:"trigger_name"`
	MethodName  string `yaml:"method_name"`

	Arity     *int `yaml:"arity"`
	ArgsCount *int `yaml:"args_count"`

	NestedTrigger *string `yaml:"nested_trigger"`
	NestedMethod  *string `yaml:"nested_method"`

	Severity  string `yaml:"severity"`
	LevelIcon string `yaml:"level_icon"`

	DocReference string `yaml:"doc_reference"`
	DocURL       string `yaml:"doc_url"`
}

type rulePack struct {
	Rules []ruleRecord `yaml:"rules"`
}

//go:embed rules.yaml
var defaultRules []byte

// DefaultRules returns the built-in rule set.
func DefaultRules() []Rule {
	rules, err := ParseRules(defaultRules)
	if err != nil {
		panic(fmt.Sprintf("modernize: bad built-in rules: %v", err))
	}
	return rules
}

// LoadRulesOrDefault loads path, or returns the built-in rules when path is
// empty.
func LoadRulesOrDefault(path string) ([]Rule, error) {
	if path == "" {
		return DefaultRules(), nil
	}
	return LoadRules(path)
}

// LoadRules reads a YAML or JSON rule file.
func LoadRules(path string) ([]Rule, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rule file: %w", err)
	}
	rules, err := ParseRules(b)
	if err != nil {
		return nil, fmt.Errorf("rule file %s: %w", path, err)
	}
	return rules, nil
}

// ParseRules decodes a rule list. The document is either a sequence of rules
// or a mapping with a "rules" key.
func ParseRules(b []byte) ([]Rule, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("parse rules: %w", err)
	}
	if len(doc.Content) == 0 {
		return nil, ErrNoRules
	}
	var records []ruleRecord
	switch root := doc.Content[0]; root.Kind {
	case yaml.SequenceNode:
		if err := root.Decode(&records); err != nil {
			return nil, fmt.Errorf("parse rules: %w", err)
		}
	case yaml.MappingNode:
		var pack rulePack
		if err := root.Decode(&pack); err != nil {
			return nil, fmt.Errorf("parse rules: %w", err)
		}
		records = pack.Rules
	default:
		return nil, fmt.Errorf("parse rules: expected a list or a mapping with a rules key")
	}

	rules := make([]Rule, 0, len(records))
	for i, rec := range records {
		r, err := rec.rule(i)
		if err != nil {
			return nil, err
		}
		rules = append(rules, r)
	}
	if err := ValidateRules(rules); err != nil {
		return nil, err
	}
	return rules, nil
}

func (rec ruleRecord) rule(i int) (Rule, error) {
	r := Rule{
		ID:           strings.TrimSpace(rec.ID),
		TriggerName:  firstNonEmpty(rec.TriggerName, rec.MethodName),
		Severity:     firstNonEmpty(rec.Severity, rec.LevelIcon),
		DocReference: firstNonEmpty(rec.DocReference, rec.DocURL),
	}
	kind := strings.ToLower(strings.TrimSpace(firstNonEmpty(rec.NodeKind, rec.ASTType)))
	k, ok := nodeKinds[kind]
	if !ok {
		return Rule{}, &RuleError{Index: i, ID: r.ID, Reason: fmt.Sprintf("unknown node_kind %q", kind)}
	}
	r.NodeKind = k

	switch {
	case rec.Arity != nil:
		r.Arity = *rec.Arity
	case rec.ArgsCount != nil:
		r.Arity = *rec.ArgsCount
	case k != KindLiteral:
		return Rule{}, &RuleError{Index: i, ID: r.ID, Reason: "missing arity"}
	}

	switch {
	case rec.NestedTrigger != nil:
		r.NestedTrigger = strings.TrimSpace(*rec.NestedTrigger)
	case rec.NestedMethod != nil:
		r.NestedTrigger = strings.TrimSpace(*rec.NestedMethod)
	}
	return r, nil
}

// ValidateRules checks a rule list before any traversal uses it.
func ValidateRules(rules []Rule) error {
	if len(rules) == 0 {
		return ErrNoRules
	}
	seen := make(map[string]bool, len(rules))
	for i, r := range rules {
		bad := func(reason string) error { return &RuleError{Index: i, ID: r.ID, Reason: reason} }
		switch {
		case r.ID == "":
			return bad("missing id")
		case seen[r.ID]:
			return bad("duplicate id")
		case r.NodeKind < KindMethodCall || r.NodeKind > KindLiteral:
			return bad("unknown node kind")
		case r.TriggerName == "":
			return bad("missing trigger_name")
		case r.Arity < 0:
			return bad("negative arity")
		case r.NodeKind == KindLiteral && r.Arity != 0:
			return bad("literal rules take no arguments")
		case r.NestedTrigger != "" && r.NodeKind != KindMethodCall:
			return bad("nested_trigger needs a method_call rule")
		}
		seen[r.ID] = true
	}
	return nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
