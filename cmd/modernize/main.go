package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/jonbodner/modernize"
	"github.com/jonbodner/modernize/config"
	"github.com/jonbodner/modernize/report"
)

const defaultOutput = "modernized_output.rs"

type options struct {
	rulesFile string
	format    string
	dryRun    bool
	showDiff  bool
}

func (o *options) register(fs *flag.FlagSet) {
	fs.StringVar(&o.rulesFile, "rules", "", "Rule file (YAML or JSON); built-in rules when empty")
	fs.StringVar(&o.format, "format", "", "Report format: text or json")
	fs.BoolVar(&o.dryRun, "dry-run", false, "Print the result instead of writing it")
	fs.BoolVar(&o.showDiff, "diff", false, "Print a unified diff of the changes")
}

// resolve fills every option whose flag was not given on the command line
// from cfg, which already carries the environment over the config file.
func resolve(fs *flag.FlagSet, cfg config.Config, o *options) {
	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) {
		set[f.Name] = true
	})
	if !set["rules"] {
		o.rulesFile = cfg.Rules.File
	}
	if !set["format"] {
		o.format = cfg.Report.Format
	}
	if !set["dry-run"] {
		o.dryRun = cfg.Output.DryRun
	}
	if !set["diff"] {
		o.showDiff = cfg.Output.Diff
	}
}

func main() {
	fs := flag.NewFlagSet("modernize", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "usage: modernize [flags] input.rs")
		fs.PrintDefaults()
	}
	var opts options
	configPath := fs.String("config", "", "Path to YAML config (optional)")
	output := fs.String("o", "", "Output file (default "+defaultOutput+")")
	inplace := fs.Bool("inplace", false, "Overwrite the input file")
	opts.register(fs)
	_ = fs.Parse(os.Args[1:])

	if fs.NArg() != 1 {
		fs.Usage()
		os.Exit(2)
	}
	input := fs.Arg(0)

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "modernize:", err)
		os.Exit(1)
	}
	logger := config.InitLogger(os.Stderr, cfg.Logging.Format, cfg.Logging.Level)

	// precedence: flags > env > config file > defaults
	resolve(fs, cfg, &opts)

	rules, err := modernize.LoadRulesOrDefault(opts.rulesFile)
	if err != nil {
		logger.Error("load rules", "err", err)
		os.Exit(1)
	}

	outPath := *output
	switch {
	case outPath != "":
	case *inplace:
		outPath = input
	default:
		outPath = defaultOutput
	}

	src, err := os.ReadFile(input)
	if err != nil {
		logger.Error("read input", "err", err)
		os.Exit(1)
	}
	out, rep, err := modernize.Process(context.Background(), rules, src, modernize.WithLogger(logger))
	if err != nil {
		logger.Error("modernize failed", "input", input, "err", err)
		os.Exit(1)
	}

	if err := report.Write(os.Stdout, opts.format, input, rep); err != nil {
		logger.Error("write report", "err", err)
		os.Exit(1)
	}
	if !rep.Changed {
		return
	}
	if opts.showDiff {
		d, err := report.Diff(input, src, out)
		if err != nil {
			logger.Error("diff", "err", err)
			os.Exit(1)
		}
		fmt.Print(d)
	}
	if opts.dryRun {
		if !opts.showDiff {
			fmt.Print(string(out))
		}
		return
	}
	if err := os.WriteFile(outPath, out, 0o644); err != nil {
		logger.Error("write output", "err", err)
		os.Exit(1)
	}
	slog.Info("wrote output", "path", outPath, "rules", len(rep.Counts))
}
