// Package rustsrc turns Rust source text into a syntax tree using the
// tree-sitter Rust grammar.
//
// Method calls, bare calls through a path and string literals become
// structured nodes; everything else is kept as opaque text so that printing
// an untouched tree reproduces the input exactly.
package rustsrc

import (
	"context"
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/rust"

	"github.com/jonbodner/modernize/syntax"
)

const (
	nodeCall          = "call_expression"
	nodeField         = "field_expression"
	nodeFieldIdent    = "field_identifier"
	nodeGenericFunc   = "generic_function"
	nodeIdent         = "identifier"
	nodeScopedIdent   = "scoped_identifier"
	nodeString        = "string_literal"
	nodeRawString     = "raw_string_literal"
	nodeAttributeItem = "attribute_item"
)

// SyntaxError reports the first position tree-sitter could not parse.
type SyntaxError struct {
	Line, Col int
	Near      string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at %d:%d near %q", e.Line, e.Col, e.Near)
}

// Parse parses src as a Rust source file.
func Parse(ctx context.Context, src []byte) (syntax.Node, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("rust parse canceled before start: %w", err)
	}
	parser := sitter.NewParser()
	parser.SetLanguage(rust.GetLanguage())
	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("tree-sitter parse failed: %w", err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		return nil, syntaxError(root, src)
	}
	c := converter{src: src}
	return c.opaque(root, 0, uint32(len(src))), nil
}

func syntaxError(root *sitter.Node, src []byte) error {
	bad := firstError(root)
	if bad == nil {
		bad = root
	}
	near := bad.Content(src)
	if len(near) > 40 {
		near = near[:40]
	}
	p := bad.StartPoint()
	return &SyntaxError{Line: int(p.Row) + 1, Col: int(p.Column) + 1, Near: near}
}

func firstError(n *sitter.Node) *sitter.Node {
	if n.Type() == "ERROR" || n.IsMissing() {
		return n
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		ch := n.Child(i)
		if ch == nil || !(ch.HasError() || ch.IsMissing()) {
			continue
		}
		if bad := firstError(ch); bad != nil {
			return bad
		}
	}
	return nil
}

type converter struct {
	src []byte
}

func (c *converter) text(start, end uint32) string {
	return string(c.src[start:end])
}

func pos(n *sitter.Node) syntax.Pos {
	p := n.StartPoint()
	return syntax.Pos{Line: int(p.Row) + 1, Col: int(p.Column) + 1}
}

func (c *converter) convert(n *sitter.Node) syntax.Node {
	switch n.Type() {
	case nodeCall:
		if call := c.call(n); call != nil {
			return call
		}
	case nodeString, nodeRawString:
		return c.lit(n)
	}
	return c.opaque(n, n.StartByte(), n.EndByte())
}

// opaque keeps the text of n between start and end, turning every non-leaf
// child into a hole so calls nested anywhere below are still reachable.
func (c *converter) opaque(n *sitter.Node, start, end uint32) *syntax.Opaque {
	o := &syntax.Opaque{Kind: n.Type()}
	at := start
	for i := 0; i < int(n.ChildCount()); i++ {
		ch := n.Child(i)
		if ch == nil || (ch.ChildCount() == 0 && !isString(ch)) {
			continue
		}
		o.Text = append(o.Text, c.text(at, ch.StartByte()))
		o.Kids = append(o.Kids, c.convert(ch))
		at = ch.EndByte()
	}
	o.Text = append(o.Text, c.text(at, end))
	return o
}

func isString(n *sitter.Node) bool {
	return n.Type() == nodeString || n.Type() == nodeRawString
}

func (c *converter) call(n *sitter.Node) syntax.Node {
	fn := n.ChildByFieldName("function")
	argList := n.ChildByFieldName("arguments")
	if fn == nil || argList == nil {
		return nil
	}
	target, typeArgs := fn, ""
	if fn.Type() == nodeGenericFunc {
		target = fn.ChildByFieldName("function")
		if ta := fn.ChildByFieldName("type_arguments"); ta != nil {
			typeArgs = ta.Content(c.src)
		}
		if target == nil {
			return nil
		}
	}
	args := c.arguments(argList)

	switch target.Type() {
	case nodeField:
		value := target.ChildByFieldName("value")
		field := target.ChildByFieldName("field")
		if value == nil || field == nil || field.Type() != nodeFieldIdent {
			return nil
		}
		m := &syntax.MethodCall{
			Receiver: c.convert(value),
			Method:   field.Content(c.src),
			TypeArgs: typeArgs,
			Pos:      pos(field),
		}
		m.Args = c.convertAll(args)
		return m.WithLayout(c.layout(n, value, args))
	case nodeIdent, nodeScopedIdent:
		p := syntax.NewPath(target.Content(c.src))
		p.TypeArgs = typeArgs
		p.Pos = pos(fn)
		call := &syntax.Call{
			Func: p.WithRaw(fn.Content(c.src)),
			Pos:  pos(n),
		}
		call.Args = c.convertAll(args)
		return call.WithLayout(c.layout(n, fn, args))
	default:
		call := &syntax.Call{Func: c.convert(fn), Pos: pos(n)}
		call.Args = c.convertAll(args)
		return call.WithLayout(c.layout(n, fn, args))
	}
}

// arguments returns the argument expressions of an argument list. Comments
// and attributes stay in the surrounding text.
func (c *converter) arguments(list *sitter.Node) []*sitter.Node {
	var args []*sitter.Node
	for i := 0; i < int(list.NamedChildCount()); i++ {
		a := list.NamedChild(i)
		if a == nil || strings.Contains(a.Type(), "comment") || a.Type() == nodeAttributeItem {
			continue
		}
		args = append(args, a)
	}
	return args
}

func (c *converter) convertAll(ns []*sitter.Node) []syntax.Node {
	out := make([]syntax.Node, 0, len(ns))
	for _, n := range ns {
		out = append(out, c.convert(n))
	}
	return out
}

// layout collects the source text around the first child and the arguments
// of a call node.
func (c *converter) layout(n, first *sitter.Node, args []*sitter.Node) []string {
	seps := []string{c.text(n.StartByte(), first.StartByte())}
	at := first.EndByte()
	for _, a := range args {
		seps = append(seps, c.text(at, a.StartByte()))
		at = a.EndByte()
	}
	return append(seps, c.text(at, n.EndByte()))
}

func (c *converter) lit(n *sitter.Node) *syntax.Lit {
	raw := n.Content(c.src)
	l := &syntax.Lit{Raw: raw, Pos: pos(n)}
	if n.Type() == nodeRawString {
		l.Kind = syntax.RawStringLit
		l.Value = decodeRaw(raw)
	} else {
		l.Kind = syntax.StringLit
		l.Value = decodeString(raw)
	}
	return l
}
