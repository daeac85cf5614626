package modernize

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/jonbodner/modernize/rustsrc"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func run(t *testing.T, rules []Rule, src string) (string, Report) {
	t.Helper()
	out, rep, err := Process(context.Background(), rules, []byte(src), WithLogger(quietLogger()))
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	return string(out), rep
}

func wrapFn(body string) string {
	return "fn f() -> Result<(), Error> {\n    " + body + "\n    Ok(())\n}\n"
}

func TestUnwrapToTry(t *testing.T) {
	out, rep := run(t, DefaultRules(), wrapFn("let x = value.unwrap();"))
	if !strings.Contains(out, "value?;") {
		t.Errorf("want value?, got:\n%s", out)
	}
	if strings.Contains(out, "value.unwrap()") {
		t.Errorf("unwrap call left behind:\n%s", out)
	}
	if !strings.Contains(out, "modernize(unwrap_to_try)") || !strings.Contains(out, docRecoverableErrors) {
		t.Errorf("missing diagnostic annotation:\n%s", out)
	}
	if rep.Count(RuleUnwrapToTry) != 1 || !rep.Changed {
		t.Errorf("report = %+v, want unwrap_to_try=1 and changed", rep)
	}
}

func TestExpectKeepsMessage(t *testing.T) {
	out, rep := run(t, DefaultRules(), wrapFn(`let x = value.expect("boom");`))
	if !strings.Contains(out, "value?;") {
		t.Errorf("want value?, got:\n%s", out)
	}
	if !strings.Contains(out, `original expect message: "boom"`) {
		t.Errorf("message not preserved:\n%s", out)
	}
	if rep.Count(RuleExpectToTry) != 1 {
		t.Errorf("expect_to_try = %d, want 1", rep.Count(RuleExpectToTry))
	}
}

func TestExpectNonLiteralMessage(t *testing.T) {
	out, _ := run(t, DefaultRules(), wrapFn(`let x = value.expect(&msg);`))
	if !strings.Contains(out, nonLiteralMessage) {
		t.Errorf("missing placeholder:\n%s", out)
	}
}

func TestChainedUnwrapCollapses(t *testing.T) {
	out, rep := run(t, DefaultRules(), wrapFn("let x = value.ok().unwrap();"))
	if !strings.Contains(out, "value?;") || strings.Contains(out, "value.ok()") {
		t.Errorf("want value? without ok(), got:\n%s", out)
	}
	if rep.Count(RuleOkUnwrapToTry) != 1 || rep.Count(RuleUnwrapToTry) != 0 {
		t.Errorf("counts = %v, want ok_unwrap_to_try=1 unwrap_to_try=0", rep.Counts)
	}
}

func TestMemUninitialized(t *testing.T) {
	out, rep := run(t, DefaultRules(), "fn f() -> Foo {\n    unsafe { mem::uninitialized() }\n}\n")
	if !strings.Contains(out, "unsafe { std::mem::MaybeUninit::uninit().assume_init() }") {
		t.Errorf("missing MaybeUninit construct:\n%s", out)
	}
	if !strings.Contains(out, reviewWarning) {
		t.Errorf("missing review warning:\n%s", out)
	}
	if rep.Count(RuleMemUninitialized) != 1 {
		t.Errorf("mem_uninitialized_to_maybeuninit = %d, want 1", rep.Count(RuleMemUninitialized))
	}
	var review bool
	for _, d := range rep.Diagnostics {
		if d.RuleID == RuleMemUninitialized && d.Review {
			review = true
		}
	}
	if !review {
		t.Errorf("no review diagnostic in %+v", rep.Diagnostics)
	}
}

func TestMemUninitializedTurbofish(t *testing.T) {
	out, _ := run(t, DefaultRules(), "fn f() -> Foo {\n    unsafe { std::mem::uninitialized::<Foo>() }\n}\n")
	if !strings.Contains(out, "std::mem::MaybeUninit::<Foo>::uninit().assume_init()") {
		t.Errorf("type arguments not carried over:\n%s", out)
	}
}

func TestMethodNamedUninitializedIsNotACall(t *testing.T) {
	src := wrapFn("let x = pool.uninitialized();")
	out, rep := run(t, DefaultRules(), src)
	if out != src || rep.Changed {
		t.Errorf("method call rewritten by a bare-call rule:\n%s", out)
	}
}

func TestLiteralDetectionOnly(t *testing.T) {
	src := wrapFn(`let s = "uses mem::uninitialized somewhere";`)
	out, rep := run(t, DefaultRules(), src)
	if out != src {
		t.Errorf("literal was modified:\n%s", out)
	}
	if !rep.Changed {
		t.Error("changed flag not set by detection")
	}
	if len(rep.Counts) != 0 {
		t.Errorf("counts = %v, want none", rep.Counts)
	}
	if len(rep.Diagnostics) != 1 || rep.Diagnostics[0].RuleID != "deprecated_api_in_literal" {
		t.Errorf("diagnostics = %+v", rep.Diagnostics)
	}
}

func TestLiteralDetectionFromLegacyRules(t *testing.T) {
	rules, err := LoadRules("testdata/modernizer_rules.json")
	if err != nil {
		t.Fatal(err)
	}
	src := wrapFn(`let s = "uses mem::uninitialized here";`)
	out, rep := run(t, rules, src)
	if out != src {
		t.Errorf("literal was modified:\n%s", out)
	}
	if !rep.Changed || len(rep.Counts) != 0 {
		t.Errorf("report = %+v, want changed with no counts", rep)
	}
	if len(rep.Diagnostics) != 1 || rep.Diagnostics[0].RuleID != RuleDeprecatedInLiteral {
		t.Errorf("diagnostics = %+v", rep.Diagnostics)
	}
}

func TestExpectMessageWithCommentOpener(t *testing.T) {
	out, rep := run(t, DefaultRules(), wrapFn(`let a = g().expect("see /* note"); let b = h().unwrap();`))
	if rep.Count(RuleExpectToTry) != 1 || rep.Count(RuleUnwrapToTry) != 1 {
		t.Errorf("counts = %v", rep.Counts)
	}
	if _, err := rustsrc.Parse(context.Background(), []byte(out)); err != nil {
		t.Fatalf("output does not parse: %v\n%s", err, out)
	}
	if !strings.Contains(out, "h()?;") {
		t.Errorf("code after the annotation was lost:\n%s", out)
	}
}

func TestNoPatterns(t *testing.T) {
	src := wrapFn(`let s = "hello"; let n = a.len() + b.first().map(|v| v * 2).unwrap_or(0);`)
	out, rep := run(t, DefaultRules(), src)
	if out != src {
		t.Errorf("tree modified:\n%s", out)
	}
	if rep.Changed || len(rep.Counts) != 0 || len(rep.Diagnostics) != 0 {
		t.Errorf("report = %+v, want empty", rep)
	}
}

func TestIdempotent(t *testing.T) {
	src := wrapFn(`let a = x.unwrap(); let b = y.expect("why"); let c = z.ok().unwrap(); let d = w.parse::<u8>().unwrap();`)
	once, rep := run(t, DefaultRules(), src)
	if rep.Count(RuleUnwrapToTry) != 2 || rep.Count(RuleExpectToTry) != 1 || rep.Count(RuleOkUnwrapToTry) != 1 {
		t.Fatalf("first pass counts = %v", rep.Counts)
	}
	twice, rep := run(t, DefaultRules(), once)
	if twice != once {
		t.Errorf("second pass changed output:\n%s\n---\n%s", once, twice)
	}
	if rep.Changed || len(rep.Counts) != 0 {
		t.Errorf("second pass report = %+v, want no changes", rep)
	}
}

func TestFirstRuleWins(t *testing.T) {
	rules := []Rule{
		{ID: RuleUnwrapToTry, NodeKind: KindMethodCall, TriggerName: "unwrap"},
		{ID: RuleOkUnwrapToTry, NodeKind: KindMethodCall, TriggerName: "unwrap", NestedTrigger: "ok"},
	}
	out, rep := run(t, rules, wrapFn("let x = value.ok().unwrap();"))
	if rep.Count(RuleUnwrapToTry) != 1 || rep.Count(RuleOkUnwrapToTry) != 0 {
		t.Errorf("counts = %v, want unwrap_to_try=1 ok_unwrap_to_try=0", rep.Counts)
	}
	if !strings.Contains(out, "value.ok()?;") {
		t.Errorf("want value.ok()?, got:\n%s", out)
	}
}

func TestNestedInnerRewrittenFirst(t *testing.T) {
	// unwrap_to_try is keyed on "ok" here, so the inner call is rewritten
	// before the outer chained rule looks at it.
	rules := []Rule{
		{ID: RuleOkUnwrapToTry, NodeKind: KindMethodCall, TriggerName: "unwrap", NestedTrigger: "ok"},
		{ID: RuleUnwrapToTry, NodeKind: KindMethodCall, TriggerName: "ok"},
	}
	out, rep := run(t, rules, wrapFn("let x = value.ok().unwrap();"))
	if rep.Count(RuleUnwrapToTry) != 1 || rep.Count(RuleOkUnwrapToTry) != 0 {
		t.Errorf("counts = %v", rep.Counts)
	}
	if !strings.Contains(out, "value?.unwrap();") {
		t.Errorf("outer call should be left alone, got:\n%s", out)
	}
}

func TestRuleWithoutRewrite(t *testing.T) {
	rules := []Rule{{ID: "clone_on_copy", NodeKind: KindMethodCall, TriggerName: "clone"}}
	src := wrapFn("let x = n.clone();")
	out, rep := run(t, rules, src)
	if out != src || rep.Changed {
		t.Errorf("rule without a template changed the tree:\n%s", out)
	}
}

func TestProcessErrors(t *testing.T) {
	ctx := context.Background()
	if _, _, err := Process(ctx, nil, []byte("fn main() {}")); !errors.Is(err, ErrNoRules) {
		t.Errorf("empty rules: err = %v, want ErrNoRules", err)
	}
	_, _, err := Process(ctx, DefaultRules(), []byte("fn main( {"), WithLogger(quietLogger()))
	var se *rustsrc.SyntaxError
	if !errors.As(err, &se) {
		t.Errorf("bad input: err = %v, want *rustsrc.SyntaxError", err)
	}
}

func TestRewriterDirect(t *testing.T) {
	root, err := rustsrc.Parse(context.Background(), []byte("fn f() { a.unwrap() }"))
	if err != nil {
		t.Fatal(err)
	}
	rw := NewRewriter(DefaultRules(), WithLogger(quietLogger()))
	_, rep := rw.Rewrite(root)
	if rep.Count(RuleUnwrapToTry) != 1 {
		t.Errorf("counts = %v", rep.Counts)
	}
}
