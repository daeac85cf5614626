// Package syntax is the expression tree the rewrite engine works on.
//
// The set of node types is closed: every Node is one of *MethodCall, *Call,
// *Path, *Lit, *Try, *Unsafe or *Opaque. Nodes produced by a parser carry the
// source text between their children so that an untouched tree prints back
// exactly as it was read.
package syntax

import "strings"

type Node interface {
	node()
}

// Pos is a 1-based line and byte column.
type Pos struct {
	Line int
	Col  int
}

// Decs are comments printed before a node. They never affect evaluation.
type Decs struct {
	Start []string
}

// MethodCall is recv.method(args) or recv.method::<T>(args).
type MethodCall struct {
	Receiver Node
	Method   string
	TypeArgs string
	Args     []Node
	Pos      Pos

	seps []string
}

// Call is a bare function call. Func is a *Path when the callee is a plain or
// qualified name.
type Call struct {
	Func Node
	Args []Node
	Pos  Pos

	seps []string
}

// Path is a possibly qualified name such as std::mem::uninitialized, with an
// optional turbofish kept as raw text (including the angle brackets).
type Path struct {
	Segments []string
	TypeArgs string
	Pos      Pos

	raw string
}

type LitKind int

const (
	StringLit LitKind = iota
	RawStringLit
)

// Lit is a string literal. Value is the decoded content, Raw the source text.
type Lit struct {
	Kind  LitKind
	Value string
	Raw   string
	Pos   Pos
}

// Try is X followed by the error propagation operator.
type Try struct {
	X    Node
	Decs Decs
}

// Unsafe is an unsafe block holding a single expression.
type Unsafe struct {
	Body Node
	Decs Decs
}

// Opaque is anything the engine has no rule for. It is source text with holes
// for child nodes: Text has exactly one more element than Kids.
type Opaque struct {
	Kind string
	Text []string
	Kids []Node
}

func (*MethodCall) node() {}
func (*Call) node()       {}
func (*Path) node()       {}
func (*Lit) node()        {}
func (*Try) node()        {}
func (*Unsafe) node()     {}
func (*Opaque) node()     {}

// Name returns the last segment of the path.
func (p *Path) Name() string {
	if len(p.Segments) == 0 {
		return ""
	}
	return p.Segments[len(p.Segments)-1]
}

// NewPath builds a path from a "::" separated string.
func NewPath(s string) *Path {
	var segs []string
	for _, seg := range strings.Split(s, "::") {
		if seg = strings.TrimSpace(seg); seg != "" {
			segs = append(segs, seg)
		}
	}
	return &Path{Segments: segs}
}

// Callee returns the identifier a call is made through: the method name of a
// MethodCall or the last path segment of a Call. It reports false for calls
// through anything other than a name.
func Callee(n Node) (string, bool) {
	switch n := n.(type) {
	case *MethodCall:
		return n.Method, true
	case *Call:
		if p, ok := n.Func.(*Path); ok {
			return p.Name(), true
		}
	}
	return "", false
}

// Arity returns the number of call arguments, or -1 for non-calls.
func Arity(n Node) int {
	switch n := n.(type) {
	case *MethodCall:
		return len(n.Args)
	case *Call:
		return len(n.Args)
	}
	return -1
}

// WithLayout attaches the source separators read by a parser. seps must have
// one more element than the node has children; anything else is ignored and
// the node prints in canonical form.
func (m *MethodCall) WithLayout(seps []string) *MethodCall {
	if len(seps) == len(m.Args)+2 {
		m.seps = seps
	}
	return m
}

func (c *Call) WithLayout(seps []string) *Call {
	if len(seps) == len(c.Args)+2 {
		c.seps = seps
	}
	return c
}

func (p *Path) WithRaw(raw string) *Path {
	p.raw = raw
	return p
}
