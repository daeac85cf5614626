package modernize

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

const legacyJSON = `[
  {
    "id": "ok_unwrap_to_try",
    "ast_type": "ExprMethodCall",
    "method_name": "unwrap",
    "args_count": 0,
    "level_icon": "✅",
    "doc_url": "https://doc.rust-lang.org/book/ch09-02-recoverable-errors-with-result.html",
    "nested_method": "ok"
  },
  {
    "id": "mem_uninitialized_to_maybeuninit",
    "ast_type": "ExprCall",
    "method_name": "uninitialized",
    "args_count": 0,
    "level_icon": "⚠️",
    "doc_url": "https://doc.rust-lang.org/std/mem/fn.uninitialized",
    "nested_method": null
  }
]`

func TestParseRulesLegacyJSON(t *testing.T) {
	rules, err := ParseRules([]byte(legacyJSON))
	if err != nil {
		t.Fatalf("ParseRules: %v", err)
	}
	if len(rules) != 2 {
		t.Fatalf("got %d rules, want 2", len(rules))
	}
	r := rules[0]
	if r.NodeKind != KindMethodCall || r.TriggerName != "unwrap" || r.NestedTrigger != "ok" || r.Severity != "✅" {
		t.Errorf("rule 0 = %+v", r)
	}
	if rules[1].NodeKind != KindCall || rules[1].NestedTrigger != "" {
		t.Errorf("rule 1 = %+v", rules[1])
	}
}

func TestParseRulesKeepsOrder(t *testing.T) {
	rules := DefaultRules()
	want := []string{RuleOkUnwrapToTry, RuleUnwrapToTry, RuleExpectToTry, RuleMemUninitialized, RuleDeprecatedInLiteral}
	if len(rules) != len(want) {
		t.Fatalf("got %d default rules, want %d", len(rules), len(want))
	}
	for i, id := range want {
		if rules[i].ID != id {
			t.Errorf("rule %d = %s, want %s", i, rules[i].ID, id)
		}
	}
}

func TestParseRulesErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"unknown kind", `[{id: a, node_kind: macro, trigger_name: x, arity: 0}]`},
		{"missing arity", `[{id: a, node_kind: call, trigger_name: x}]`},
		{"missing id", `[{node_kind: call, trigger_name: x, arity: 0}]`},
		{"duplicate id", `[{id: a, node_kind: call, trigger_name: x, arity: 0}, {id: a, node_kind: call, trigger_name: y, arity: 0}]`},
		{"negative arity", `{rules: [{id: a, node_kind: method_call, trigger_name: x, arity: -1}]}`},
		{"nested on call", `[{id: a, node_kind: call, trigger_name: x, arity: 0, nested_trigger: ok}]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseRules([]byte(tt.data))
			var re *RuleError
			if !errors.As(err, &re) {
				t.Errorf("err = %v, want *RuleError", err)
			}
		})
	}

	for _, data := range []string{"", "[]", "rules: []"} {
		if _, err := ParseRules([]byte(data)); !errors.Is(err, ErrNoRules) {
			t.Errorf("ParseRules(%q) err = %v, want ErrNoRules", data, err)
		}
	}
	if _, err := ParseRules([]byte("just a string")); err == nil {
		t.Error("scalar document accepted")
	}
}

func TestLoadRules(t *testing.T) {
	path := filepath.Join(t.TempDir(), "modernizer_rules.json")
	if err := os.WriteFile(path, []byte(legacyJSON), 0o644); err != nil {
		t.Fatal(err)
	}
	rules, err := LoadRulesOrDefault(path)
	if err != nil || len(rules) != 2 {
		t.Fatalf("LoadRulesOrDefault = %d rules, %v", len(rules), err)
	}
	if _, err := LoadRules(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("missing file accepted")
	}
	rules, err = LoadRules(filepath.Join("testdata", "modernizer_rules.json"))
	if err != nil || len(rules) != 4 || rules[3].Severity != "❌" {
		t.Errorf("testdata rules = %+v, %v", rules, err)
	}
	rules, err = LoadRulesOrDefault("")
	if err != nil || len(rules) != len(DefaultRules()) {
		t.Errorf("empty path should give the built-in rules, got %d, %v", len(rules), err)
	}
}
