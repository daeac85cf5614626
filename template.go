package modernize

import (
	"fmt"

	"github.com/jonbodner/modernize/syntax"
)

// Rule ids with a dedicated rewrite.
const (
	RuleUnwrapToTry      = "unwrap_to_try"
	RuleExpectToTry      = "expect_to_try"
	RuleOkUnwrapToTry    = "ok_unwrap_to_try"
	RuleMemUninitialized = "mem_uninitialized_to_maybeuninit"

	RuleDeprecatedInLiteral = "deprecated_api_in_literal"
)

const (
	docRecoverableErrors = "https://doc.rust-lang.org/book/ch09-02-recoverable-errors-with-result.html"
	docMemUninitialized  = "https://doc.rust-lang.org/std/mem/fn.uninitialized.html"

	nonLiteralMessage = "<non-literal message>"

	reviewWarning = "WARNING: this conversion is still unsafe and MUST be manually reviewed for initialization correctness."
)

// A family with a nil build only reports what it finds.
type family struct {
	build   func(n syntax.Node, r *Rule, note string) syntax.Node
	summary string
	doc     string
	// review marks replacements that are more dangerous than the code they
	// replace. They always carry a warning.
	review bool
	// literal gives the text a string literal must contain to be flagged
	// under RuleDeprecatedInLiteral when the rule list has no literal rule.
	literal func(r *Rule) string
}

var families = map[string]family{
	RuleUnwrapToTry: {
		build:   propagate,
		summary: "converted `.unwrap()` to `?`",
		doc:     docRecoverableErrors,
	},
	RuleExpectToTry: {
		build:   propagateWithMessage,
		summary: "converted `.expect()` to `?`, the message is kept as a comment",
		doc:     docRecoverableErrors,
	},
	RuleOkUnwrapToTry: {
		build:   collapseChained,
		summary: "converted `.ok().unwrap()` to `?`",
		doc:     docRecoverableErrors,
	},
	RuleMemUninitialized: {
		build:   maybeUninit,
		summary: "replaced deprecated `mem::uninitialized` with `MaybeUninit`",
		doc:     docMemUninitialized,
		review:  true,
		literal: func(r *Rule) string { return "mem::" + r.TriggerName },
	},
	RuleDeprecatedInLiteral: {
		summary: "string literal mentions a deprecated API",
		doc:     docMemUninitialized,
	},
}

// familyFor returns the family for r. A literal rule can only ever be
// reported, so literal rules without a family of their own get the
// detection family.
func familyFor(r *Rule) (family, bool) {
	f, ok := families[r.ID]
	if !ok && r.NodeKind == KindLiteral {
		return families[RuleDeprecatedInLiteral], true
	}
	return f, ok
}

// withLiteralRules appends the literal detection rules implied by rules when
// rules has no literal rule of its own. Rule files written before literal
// rules existed still get string literals flagged.
func withLiteralRules(rules []Rule) []Rule {
	ids := map[string]bool{}
	for _, r := range rules {
		if r.NodeKind == KindLiteral {
			return rules
		}
		ids[r.ID] = true
	}
	out := rules[:len(rules):len(rules)]
	for i := range rules {
		r := &rules[i]
		f, ok := families[r.ID]
		if !ok || f.literal == nil || ids[RuleDeprecatedInLiteral] {
			continue
		}
		ids[RuleDeprecatedInLiteral] = true
		out = append(out, Rule{
			ID:           RuleDeprecatedInLiteral,
			NodeKind:     KindLiteral,
			TriggerName:  f.literal(r),
			Severity:     r.Severity,
			DocReference: r.DocReference,
		})
	}
	return out
}

// Instantiate builds the replacement for n under rule r. It returns nil when
// r has no rewrite or when n does not have the shape the rewrite needs.
func Instantiate(n syntax.Node, r *Rule) syntax.Node {
	f, ok := familyFor(r)
	if !ok || f.build == nil {
		return nil
	}
	return f.build(n, r, f.note(r))
}

func (f family) docFor(r *Rule) string {
	if r.DocReference != "" {
		return r.DocReference
	}
	return f.doc
}

func (f family) note(r *Rule) string {
	return fmt.Sprintf("modernize(%s): %s. Ref: %s", r.ID, f.summary, f.docFor(r))
}

func propagate(n syntax.Node, r *Rule, note string) syntax.Node {
	m, ok := n.(*syntax.MethodCall)
	if !ok || m.Receiver == nil {
		return nil
	}
	return &syntax.Try{
		X:    m.Receiver,
		Decs: syntax.Decs{Start: []string{note}},
	}
}

func propagateWithMessage(n syntax.Node, r *Rule, note string) syntax.Node {
	m, ok := n.(*syntax.MethodCall)
	if !ok || m.Receiver == nil || len(m.Args) != 1 {
		return nil
	}
	msg := nonLiteralMessage
	if l, ok := m.Args[0].(*syntax.Lit); ok {
		msg = fmt.Sprintf("%q", l.Value)
	}
	return &syntax.Try{
		X: m.Receiver,
		Decs: syntax.Decs{Start: []string{
			note,
			"original expect message: " + msg,
		}},
	}
}

// collapseChained turns a.ok().unwrap() into a? by reaching through the
// inner call to its receiver.
func collapseChained(n syntax.Node, r *Rule, note string) syntax.Node {
	m, ok := n.(*syntax.MethodCall)
	if !ok {
		return nil
	}
	inner, ok := m.Receiver.(*syntax.MethodCall)
	if !ok || inner.Receiver == nil {
		return nil
	}
	if r.NestedTrigger != "" && inner.Method != r.NestedTrigger {
		return nil
	}
	return &syntax.Try{
		X:    inner.Receiver,
		Decs: syntax.Decs{Start: []string{note}},
	}
}

func maybeUninit(n syntax.Node, r *Rule, note string) syntax.Node {
	c, ok := n.(*syntax.Call)
	if !ok || len(c.Args) != 0 {
		return nil
	}
	p, ok := c.Func.(*syntax.Path)
	if !ok || p.Name() != r.TriggerName {
		return nil
	}
	ctor := syntax.NewPath("std::mem::MaybeUninit::uninit")
	if p.TypeArgs != "" {
		ctor.WithRaw("std::mem::MaybeUninit::" + p.TypeArgs + "::uninit")
	}
	return &syntax.Unsafe{
		Body: &syntax.MethodCall{
			Receiver: &syntax.Call{Func: ctor},
			Method:   "assume_init",
		},
		Decs: syntax.Decs{Start: []string{
			note,
			reviewWarning,
		}},
	}
}
