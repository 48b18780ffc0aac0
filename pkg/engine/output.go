package engine

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"time"
)

// CheckSummary counts the outcomes of one check over a run.
type CheckSummary struct {
	Name string `json:"name"`
	Pass int    `json:"pass"`
	Fail int    `json:"fail"`
	Skip int    `json:"skip"`
}

// Failure records one failed check on one sample.
type Failure struct {
	Sample int    `json:"sample"`
	Check  string `json:"check"`
	Tree   string `json:"tree"`
	Expr   string `json:"expr,omitempty"`
	Detail string `json:"detail"`
	// Shrunk is the smallest tree found that still fails the check.
	Shrunk     string `json:"shrunk,omitempty"`
	ShrunkExpr string `json:"shrunk_expr,omitempty"`
}

// Report summarizes the entire run.
type Report struct {
	Pool       string         `json:"pool"`
	Seed       int64          `json:"seed"`
	Samples    int            `json:"samples"`
	Checks     []CheckSummary `json:"checks"`
	Failures   []Failure      `json:"failures,omitempty"`
	CacheNodes int            `json:"cache_nodes"`
	CacheCalls int            `json:"cache_calls"`
	Elapsed    time.Duration  `json:"elapsed_ns"`
}

// sortByFailures returns a copy of checks sorted by failures descending,
// then by name.
func sortByFailures(checks []CheckSummary) []CheckSummary {
	sorted := make([]CheckSummary, len(checks))
	copy(sorted, checks)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Fail != sorted[j].Fail {
			return sorted[i].Fail > sorted[j].Fail
		}
		return sorted[i].Name < sorted[j].Name
	})
	return sorted
}

// WriteFailure writes a single failure.
func WriteFailure(w io.Writer, n int, f Failure) {
	fmt.Fprintf(w, "  #%d: [sample %d, %s] %s\n", n, f.Sample, f.Check, f.Detail)
	fmt.Fprintf(w, "      tree:   %s\n", f.Tree)
	if f.Expr != "" {
		fmt.Fprintf(w, "      expr:   %s\n", f.Expr)
	}
	if f.Shrunk != "" {
		fmt.Fprintf(w, "      shrunk: %s => %s\n", f.Shrunk, f.ShrunkExpr)
	}
}

// WriteText writes the report in human-readable format.
func WriteText(w io.Writer, r Report) {
	fmt.Fprintln(w, "--- Checks ---")
	for _, c := range sortByFailures(r.Checks) {
		fmt.Fprintf(w, "  %-18s pass %5d | fail %5d | skip %5d\n", c.Name, c.Pass, c.Fail, c.Skip)
	}
	if len(r.Failures) > 0 {
		fmt.Fprintln(w, "\n--- Failures ---")
		for i, f := range r.Failures {
			WriteFailure(w, i+1, f)
		}
	}
	fmt.Fprintln(w, "\n========== SUMMARY ==========")
	fmt.Fprintf(w, "Pool:      %s\n", r.Pool)
	fmt.Fprintf(w, "Seed:      %d\n", r.Seed)
	fmt.Fprintf(w, "Samples:   %d\n", r.Samples)
	fmt.Fprintf(w, "Failures:  %d\n", len(r.Failures))
	fmt.Fprintf(w, "Cache:     %d nodes, %d memoized calls\n", r.CacheNodes, r.CacheCalls)
	fmt.Fprintf(w, "Elapsed:   %s\n", r.Elapsed.Round(time.Millisecond))
	fmt.Fprintln(w, "=============================")
}

// WriteJSON writes the report as JSON.
func WriteJSON(w io.Writer, r Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}
