package syntax

import (
	"fmt"
	"io"
	"strings"
)

// Dump writes an indented listing of the tree rooted at n, one node per line.
// Opaque nodes with no call, literal or rewritten node beneath them are
// skipped unless all is set.
func Dump(w io.Writer, n Node, all bool) error {
	d := dumper{w: w, all: all}
	d.node("root", n)
	return d.err
}

type dumper struct {
	w     io.Writer
	all   bool
	depth int
	err   error
}

func (d *dumper) line(name, typ, info string) {
	if d.err != nil {
		return
	}
	_, d.err = fmt.Fprintf(d.w, "%s%s: %s%s\n", strings.Repeat("    ", d.depth), name, typ, info)
}

func (d *dumper) node(name string, n Node) {
	if o, ok := n.(*Opaque); ok && !d.all && !interesting(o) {
		return
	}
	d.depth++
	defer func() { d.depth-- }()
	switch n := n.(type) {
	case *MethodCall:
		d.line(name, "MethodCall", fmt.Sprintf(": %s/%d @%d:%d", n.Method, len(n.Args), n.Pos.Line, n.Pos.Col))
		d.node("Receiver", n.Receiver)
		for i, a := range n.Args {
			d.node(fmt.Sprintf("Args[%d]", i), a)
		}
	case *Call:
		d.line(name, "Call", fmt.Sprintf(": /%d @%d:%d", len(n.Args), n.Pos.Line, n.Pos.Col))
		d.node("Func", n.Func)
		for i, a := range n.Args {
			d.node(fmt.Sprintf("Args[%d]", i), a)
		}
	case *Path:
		d.line(name, "Path", ": "+Print(n))
	case *Lit:
		d.line(name, "Lit", fmt.Sprintf(": %q", n.Value))
	case *Try:
		d.line(name, "Try", "")
		d.node("X", n.X)
	case *Unsafe:
		d.line(name, "Unsafe", "")
		d.node("Body", n.Body)
	case *Opaque:
		d.line(name, "Opaque", ": "+n.Kind)
		for i, k := range n.Kids {
			d.node(fmt.Sprintf("Kids[%d]", i), k)
		}
	case nil:
		d.line(name, "nil", "")
	}
}

func interesting(o *Opaque) bool {
	for _, k := range o.Kids {
		if ko, ok := k.(*Opaque); !ok || interesting(ko) {
			return true
		}
	}
	return false
}
