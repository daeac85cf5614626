package syntax

import (
	"fmt"
	"io"
	"strings"
)

// Print renders n as source text.
func Print(n Node) string {
	var b strings.Builder
	render(&b, n)
	return b.String()
}

// Fprint writes the source text of n to w.
func Fprint(w io.Writer, n Node) error {
	_, err := io.WriteString(w, Print(n))
	return err
}

func render(b *strings.Builder, n Node) {
	switch n := n.(type) {
	case nil:
	case *MethodCall:
		if n.seps != nil {
			b.WriteString(n.seps[0])
			render(b, n.Receiver)
			for i, a := range n.Args {
				b.WriteString(n.seps[i+1])
				render(b, a)
			}
			b.WriteString(n.seps[len(n.seps)-1])
			return
		}
		render(b, n.Receiver)
		b.WriteString(".")
		b.WriteString(n.Method)
		if n.TypeArgs != "" {
			b.WriteString("::")
			b.WriteString(n.TypeArgs)
		}
		printArgs(b, n.Args)
	case *Call:
		if n.seps != nil {
			b.WriteString(n.seps[0])
			render(b, n.Func)
			for i, a := range n.Args {
				b.WriteString(n.seps[i+1])
				render(b, a)
			}
			b.WriteString(n.seps[len(n.seps)-1])
			return
		}
		render(b, n.Func)
		printArgs(b, n.Args)
	case *Path:
		if n.raw != "" {
			b.WriteString(n.raw)
			return
		}
		b.WriteString(strings.Join(n.Segments, "::"))
		if n.TypeArgs != "" {
			b.WriteString("::")
			b.WriteString(n.TypeArgs)
		}
	case *Lit:
		if n.Raw != "" {
			b.WriteString(n.Raw)
			return
		}
		b.WriteString(quote(n.Value))
	case *Try:
		printDecs(b, n.Decs)
		render(b, n.X)
		b.WriteString("?")
	case *Unsafe:
		printDecs(b, n.Decs)
		b.WriteString("unsafe { ")
		render(b, n.Body)
		b.WriteString(" }")
	case *Opaque:
		for i, t := range n.Text {
			b.WriteString(t)
			if i < len(n.Kids) {
				render(b, n.Kids[i])
			}
		}
	default:
		panic(fmt.Sprintf("syntax: unexpected node %T", n))
	}
}

func printArgs(b *strings.Builder, args []Node) {
	b.WriteString("(")
	for i, a := range args {
		if i > 0 {
			b.WriteString(", ")
		}
		render(b, a)
	}
	b.WriteString(")")
}

func printDecs(b *strings.Builder, d Decs) {
	for _, c := range d.Start {
		b.WriteString("/* ")
		b.WriteString(commentSafe(c))
		b.WriteString(" */ ")
	}
}

// commentSafe breaks up comment delimiters in s. Rust block comments nest,
// so an opener left in the text would swallow the closing delimiter.
func commentSafe(s string) string {
	s = strings.ReplaceAll(s, "*/", "* /")
	return strings.ReplaceAll(s, "/*", "/ *")
}

func quote(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		case 0:
			b.WriteString(`\0`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}
