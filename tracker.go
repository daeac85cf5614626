package modernize

import "sort"

// Diagnostic is one human-facing finding produced during a rewrite.
type Diagnostic struct {
	RuleID       string `json:"rule_id"`
	Severity     string `json:"severity,omitempty"`
	Line         int    `json:"line"`
	Col          int    `json:"col"`
	Message      string `json:"message"`
	DocReference string `json:"doc_reference,omitempty"`
	// Review is set when the finding must be checked by a person before the
	// output is trusted.
	Review bool `json:"review,omitempty"`
}

// Report is what a traversal leaves behind for the reporting side.
type Report struct {
	Counts      map[string]int `json:"counts"`
	Changed     bool           `json:"changed"`
	Diagnostics []Diagnostic   `json:"diagnostics,omitempty"`
}

// Count returns how often rule id fired.
func (r Report) Count(id string) int {
	return r.Counts[id]
}

// RuleIDs returns the ids of rules that fired, sorted.
func (r Report) RuleIDs() []string {
	ids := make([]string, 0, len(r.Counts))
	for id := range r.Counts {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Tracker accumulates per-rule counts and the changed flag over a single
// traversal. The zero value is ready to use.
type Tracker struct {
	counts  map[string]int
	changed bool
	diags   []Diagnostic
}

// Record counts one application of rule id.
func (t *Tracker) Record(id string) {
	if t.counts == nil {
		t.counts = map[string]int{}
	}
	t.counts[id]++
	t.changed = true
}

// Detect registers a finding that changes nothing in the tree. It marks the
// run as changed without touching any rule count.
func (t *Tracker) Detect(d Diagnostic) {
	t.changed = true
	t.diags = append(t.diags, d)
}

// Note adds a diagnostic in visit order.
func (t *Tracker) Note(d Diagnostic) {
	t.diags = append(t.diags, d)
}

// Snapshot returns a copy of the accumulated state.
func (t *Tracker) Snapshot() Report {
	counts := make(map[string]int, len(t.counts))
	for id, n := range t.counts {
		counts[id] = n
	}
	return Report{
		Counts:      counts,
		Changed:     t.changed,
		Diagnostics: append([]Diagnostic(nil), t.diags...),
	}
}
