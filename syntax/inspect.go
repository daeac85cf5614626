package syntax

// Inspect visits n and its descendants in depth-first order. If f returns
// false the children of that node are skipped.
func Inspect(n Node, f func(Node) bool) {
	if n == nil || !f(n) {
		return
	}
	switch n := n.(type) {
	case *MethodCall:
		Inspect(n.Receiver, f)
		for _, a := range n.Args {
			Inspect(a, f)
		}
	case *Call:
		Inspect(n.Func, f)
		for _, a := range n.Args {
			Inspect(a, f)
		}
	case *Try:
		Inspect(n.X, f)
	case *Unsafe:
		Inspect(n.Body, f)
	case *Opaque:
		for _, k := range n.Kids {
			Inspect(k, f)
		}
	}
}
