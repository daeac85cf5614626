package modernize

import (
	"fmt"
	"log/slog"

	"github.com/jonbodner/modernize/syntax"
)

// Rewriter applies a rule list to syntax trees.
type Rewriter struct {
	rules  []Rule
	logger *slog.Logger
}

type Option func(*Rewriter)

// WithLogger sets the logger used for per-rewrite log lines.
func WithLogger(l *slog.Logger) Option {
	return func(rw *Rewriter) {
		rw.logger = l
	}
}

// NewRewriter returns a Rewriter for rules. The rules are not validated; see
// ValidateRules. A rule list without literal rules gets the literal checks
// its rewrite rules imply.
func NewRewriter(rules []Rule, opts ...Option) *Rewriter {
	rw := &Rewriter{rules: withLiteralRules(rules)}
	for _, o := range opts {
		o(rw)
	}
	if rw.logger == nil {
		rw.logger = slog.Default()
	}
	return rw
}

// Rewrite walks the tree rooted at root once, children before parents, and
// replaces every node a rule applies to. It returns the new root, which is
// root itself unless the root node was replaced.
func (rw *Rewriter) Rewrite(root syntax.Node) (syntax.Node, Report) {
	w := walker{rules: rw.rules, logger: rw.logger}
	root = w.visit(root)
	return root, w.tracker.Snapshot()
}

type walker struct {
	rules   []Rule
	logger  *slog.Logger
	tracker Tracker
}

func (w *walker) visit(n syntax.Node) syntax.Node {
	switch n := n.(type) {
	case *syntax.MethodCall:
		nested := nestedName(n)
		n.Receiver = w.visit(n.Receiver)
		for i, a := range n.Args {
			n.Args[i] = w.visit(a)
		}
		return w.apply(n, nested)
	case *syntax.Call:
		n.Func = w.visit(n.Func)
		for i, a := range n.Args {
			n.Args[i] = w.visit(a)
		}
		return w.apply(n, "")
	case *syntax.Lit:
		return w.apply(n, "")
	case *syntax.Try:
		n.X = w.visit(n.X)
	case *syntax.Unsafe:
		n.Body = w.visit(n.Body)
	case *syntax.Opaque:
		for i, k := range n.Kids {
			n.Kids[i] = w.visit(k)
		}
	}
	return n
}

// apply rewrites n if a rule matches. A replacement is not visited again.
func (w *walker) apply(n syntax.Node, nested string) syntax.Node {
	r := match(n, w.rules, nested)
	if r == nil {
		return n
	}
	at := posOf(n)

	f, ok := familyFor(r)
	if !ok {
		w.logger.Debug("rule has no rewrite", "rule", r.ID, "line", at.Line, "col", at.Col)
		return n
	}
	if f.build == nil {
		w.tracker.Detect(Diagnostic{
			RuleID:       r.ID,
			Severity:     r.Severity,
			Line:         at.Line,
			Col:          at.Col,
			Message:      fmt.Sprintf("string literal mentions deprecated %s", r.TriggerName),
			DocReference: f.docFor(r),
		})
		w.logger.Warn("deprecated pattern in string literal", "rule", r.ID, "pattern", r.TriggerName, "line", at.Line, "col", at.Col)
		return n
	}
	out := f.build(n, r, f.note(r))
	if out == nil {
		w.logger.Debug("rule matched but node has the wrong shape", "rule", r.ID, "line", at.Line, "col", at.Col)
		return n
	}

	w.tracker.Record(r.ID)
	d := Diagnostic{
		RuleID:       r.ID,
		Severity:     r.Severity,
		Line:         at.Line,
		Col:          at.Col,
		Message:      f.summary,
		DocReference: f.docFor(r),
	}
	w.logger.Info("rule applied", "rule", r.ID, "severity", r.Severity, "line", at.Line, "col", at.Col)
	if f.review {
		d.Review = true
		d.Message += ". " + reviewWarning
		w.logger.Warn("manual review required", "rule", r.ID, "line", at.Line, "col", at.Col, "reason", reviewWarning)
	}
	w.tracker.Note(d)
	return out
}

func posOf(n syntax.Node) syntax.Pos {
	switch n := n.(type) {
	case *syntax.MethodCall:
		return n.Pos
	case *syntax.Call:
		return n.Pos
	case *syntax.Lit:
		return n.Pos
	}
	return syntax.Pos{}
}
