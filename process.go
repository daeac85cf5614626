// Package modernize rewrites legacy Rust idioms into their modern forms.
//
// Rules are data: each one names the kind of node it targets, the method or
// function name and argument count that trigger it, and optionally the name
// of the call it must be chained on. The first rule in list order that
// matches a node wins. Rewriting happens in a single post-order pass over the
// tree, and every applied rule is counted in the returned Report.
package modernize

import (
	"bytes"
	"context"
	"fmt"

	"github.com/jonbodner/modernize/rustsrc"
	"github.com/jonbodner/modernize/syntax"
)

// Process parses src, applies rules and returns the rewritten source. Invalid
// rules and unparseable input are reported before anything is rewritten.
func Process(ctx context.Context, rules []Rule, src []byte, opts ...Option) ([]byte, Report, error) {
	if err := ValidateRules(rules); err != nil {
		return nil, Report{}, fmt.Errorf("invalid rules: %w", err)
	}
	root, err := rustsrc.Parse(ctx, src)
	if err != nil {
		return nil, Report{}, fmt.Errorf("parse input: %w", err)
	}

	root, rep := NewRewriter(rules, opts...).Rewrite(root)

	out, err := printResult(root)
	if err != nil {
		return nil, Report{}, err
	}
	return out, rep, nil
}

func printResult(root syntax.Node) ([]byte, error) {
	var out bytes.Buffer
	if err := syntax.Fprint(&out, root); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}
