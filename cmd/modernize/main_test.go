package main

import (
	"flag"
	"io"
	"testing"

	"github.com/jonbodner/modernize/config"
)

func TestResolve(t *testing.T) {
	cfg := config.Default()
	cfg.Rules.File = "from-config.yaml"
	cfg.Report.Format = "json"
	cfg.Output.DryRun = true
	cfg.Output.Diff = true

	tests := []struct {
		name string
		args []string
		want options
	}{
		{"config fills unset flags", nil, options{rulesFile: "from-config.yaml", format: "json", dryRun: true, showDiff: true}},
		{"flags turn config off", []string{"-dry-run=false", "-diff=false"}, options{rulesFile: "from-config.yaml", format: "json"}},
		{"flags win", []string{"-rules", "mine.json", "-format", "text"}, options{rulesFile: "mine.json", format: "text", dryRun: true, showDiff: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := flag.NewFlagSet("modernize", flag.ContinueOnError)
			fs.SetOutput(io.Discard)
			var o options
			o.register(fs)
			if err := fs.Parse(tt.args); err != nil {
				t.Fatal(err)
			}
			resolve(fs, cfg, &o)
			if o != tt.want {
				t.Errorf("resolve = %+v, want %+v", o, tt.want)
			}
		})
	}
}
