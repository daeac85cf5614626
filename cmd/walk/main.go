package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/jonbodner/modernize/rustsrc"
	"github.com/jonbodner/modernize/syntax"
)

func main() {
	all := flag.Bool("all", false, "List every node, not only the ones rules can see")
	flag.Parse()
	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: walk [-all] file.rs")
		os.Exit(2)
	}
	src, err := os.ReadFile(flag.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	root, err := rustsrc.Parse(context.Background(), src)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := syntax.Dump(os.Stdout, root, *all); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
