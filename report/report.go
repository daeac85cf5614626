// Package report renders the outcome of a modernize run.
package report

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/jonbodner/modernize"
)

type filePayload struct {
	Path string `json:"path"`
	modernize.Report
}

// WriteText writes a short human summary of rep for path.
func WriteText(w io.Writer, path string, rep modernize.Report) error {
	if !rep.Changed {
		_, err := fmt.Fprintf(w, "%s: no changes\n", path)
		return err
	}
	if _, err := fmt.Fprintf(w, "%s:\n", path); err != nil {
		return err
	}
	for _, id := range rep.RuleIDs() {
		if _, err := fmt.Fprintf(w, "  - %d x %s\n", rep.Count(id), id); err != nil {
			return err
		}
	}
	for _, d := range rep.Diagnostics {
		mark := ""
		if d.Review {
			mark = " [review]"
		}
		if _, err := fmt.Fprintf(w, "  %d:%d %s%s: %s\n", d.Line, d.Col, d.RuleID, mark, d.Message); err != nil {
			return err
		}
	}
	return nil
}

// WriteJSON writes rep for path as an indented JSON object.
func WriteJSON(w io.Writer, path string, rep modernize.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(filePayload{Path: path, Report: rep})
}

// Write dispatches on format ("json" or anything else for text).
func Write(w io.Writer, format, path string, rep modernize.Report) error {
	if format == "json" {
		return WriteJSON(w, path, rep)
	}
	return WriteText(w, path, rep)
}

// Diff returns a unified diff between the original and rewritten source, or
// "" when they are equal.
func Diff(path string, before, after []byte) (string, error) {
	return difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(before)),
		B:        difflib.SplitLines(string(after)),
		FromFile: "a/" + path,
		ToFile:   "b/" + path,
		Context:  3,
	})
}
