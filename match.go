package modernize

import (
	"strings"

	"github.com/jonbodner/modernize/syntax"
)

// Match returns the first rule in rules that applies to n, or nil if none
// does. Later rules are never consulted once an earlier one matches.
func Match(n syntax.Node, rules []Rule) *Rule {
	return match(n, rules, nestedName(n))
}

// match checks n against rules using nested as the name of the method call n
// was originally chained on, so the check sees the tree as it was before the
// receiver was rewritten.
func match(n syntax.Node, rules []Rule, nested string) *Rule {
	kind := kindOf(n)
	if kind == 0 {
		return nil
	}
	for i := range rules {
		r := &rules[i]
		if r.NodeKind != kind {
			continue
		}
		if kind == KindLiteral {
			if r.Arity == 0 && strings.Contains(n.(*syntax.Lit).Value, r.TriggerName) {
				return r
			}
			continue
		}
		name, ok := syntax.Callee(n)
		if !ok || name != r.TriggerName || syntax.Arity(n) != r.Arity {
			continue
		}
		// no nested trigger means any receiver
		if r.NestedTrigger != "" && (kind != KindMethodCall || nested != r.NestedTrigger) {
			continue
		}
		return r
	}
	return nil
}

func kindOf(n syntax.Node) NodeKind {
	switch n.(type) {
	case *syntax.MethodCall:
		return KindMethodCall
	case *syntax.Call:
		return KindCall
	case *syntax.Lit:
		return KindLiteral
	}
	return 0
}

// nestedName is the method name of n's receiver when n is a method call
// chained on another method call.
func nestedName(n syntax.Node) string {
	m, ok := n.(*syntax.MethodCall)
	if !ok {
		return ""
	}
	if inner, ok := m.Receiver.(*syntax.MethodCall); ok {
		return inner.Method
	}
	return ""
}
