package main

import (
	"context"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/jonbodner/modernize"
	"github.com/jonbodner/modernize/config"
	"github.com/jonbodner/modernize/report"
)

/*
modernize_tree -rules modernizer_rules.json ./legacy ./modern
*/
func main() {
	flags := flag.NewFlagSet("modernize_tree", flag.ExitOnError)
	configPath := flags.String("config", "", "Path to YAML config (optional)")
	rulesFile := flags.String("rules", "", "Rule file (YAML or JSON); built-in rules when empty")
	format := flags.String("format", "", "Report format: text or json")
	_ = flags.Parse(os.Args[1:])
	if flags.NArg() != 2 {
		fmt.Fprintln(os.Stderr, "usage: modernize_tree [flags] src_dir dst_dir")
		os.Exit(2)
	}
	srcDir, dstDir := flags.Arg(0), flags.Arg(1)

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "modernize_tree:", err)
		os.Exit(1)
	}
	logger := config.InitLogger(os.Stderr, cfg.Logging.Format, cfg.Logging.Level)
	set := map[string]bool{}
	flags.Visit(func(f *flag.Flag) {
		set[f.Name] = true
	})
	if !set["rules"] {
		*rulesFile = cfg.Rules.File
	}
	if !set["format"] {
		*format = cfg.Report.Format
	}

	rules, err := modernize.LoadRulesOrDefault(*rulesFile)
	if err != nil {
		logger.Error("load rules", "err", err)
		os.Exit(1)
	}

	ctx := context.Background()
	var failed int
	err = filepath.WalkDir(srcDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".rs") {
			return nil
		}
		rel, err := filepath.Rel(srcDir, path)
		if err != nil {
			return err
		}
		src, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		out, rep, err := modernize.Process(ctx, rules, src, modernize.WithLogger(logger.With("file", rel)))
		if err != nil {
			// one bad file does not stop the rest of the tree
			logger.Error("skipping file", "file", rel, "err", err)
			failed++
			return nil
		}
		if err := report.Write(os.Stdout, *format, rel, rep); err != nil {
			return err
		}
		dst := filepath.Join(dstDir, rel)
		if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
			return err
		}
		return os.WriteFile(dst, out, 0o644)
	})
	if err != nil {
		logger.Error("walk failed", "err", err)
		os.Exit(1)
	}
	if failed > 0 {
		logger.Warn("some files were not modernized", "count", failed)
		os.Exit(1)
	}
}
