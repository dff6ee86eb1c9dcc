package datasource

import (
	"fmt"
	"sort"
	"strings"

	"github.com/vanderheijden86/sitebook/pkg/model"
)

// SourceDiff represents differences between two data sources
type SourceDiff struct {
	SourceA string
	SourceB string
	// MissingInA contains client IDs present in B but not in A
	MissingInA []string
	// MissingInB contains client IDs present in A but not in B
	MissingInB     []string
	StatusMismatch []StatusDifference
	CountA         int
	CountB         int
}

// StatusDifference represents a status mismatch for a single client
type StatusDifference struct {
	ID      string `json:"id"`
	StatusA string `json:"status_a"`
	StatusB string `json:"status_b"`
}

// HasInconsistencies returns true if there are any differences between sources
func (d SourceDiff) HasInconsistencies() bool {
	return len(d.MissingInA) > 0 || len(d.MissingInB) > 0 || len(d.StatusMismatch) > 0
}

// Summary returns a human-readable summary of the differences
func (d SourceDiff) Summary() string {
	if !d.HasInconsistencies() {
		return fmt.Sprintf("Sources match (%d clients each)", d.CountA)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Inconsistencies found between %s and %s:\n", d.SourceA, d.SourceB)

	if d.CountA != d.CountB {
		fmt.Fprintf(&b, "  - Count mismatch: %d vs %d\n", d.CountA, d.CountB)
	}

	writeIDs := func(ids []string, in, notIn string) {
		if len(ids) == 0 {
			return
		}
		fmt.Fprintf(&b, "  - %d clients in %s but not %s\n", len(ids), in, notIn)
		if len(ids) <= 5 {
			for _, id := range ids {
				fmt.Fprintf(&b, "    - %s\n", id)
			}
		}
	}
	writeIDs(d.MissingInA, d.SourceB, d.SourceA)
	writeIDs(d.MissingInB, d.SourceA, d.SourceB)

	if len(d.StatusMismatch) > 0 {
		fmt.Fprintf(&b, "  - %d clients with different status\n", len(d.StatusMismatch))
		if len(d.StatusMismatch) <= 5 {
			for _, m := range d.StatusMismatch {
				fmt.Fprintf(&b, "    - %s: %s vs %s\n", m.ID, m.StatusA, m.StatusB)
			}
		}
	}

	return b.String()
}

// DiffOptions configures the diff operation
type DiffOptions struct {
	// MaxDifferences limits the number of differences tracked per kind (0 = unlimited)
	MaxDifferences int
}

// DefaultDiffOptions returns sensible default diff options
func DefaultDiffOptions() DiffOptions {
	return DiffOptions{MaxDifferences: 100}
}

// DetectInconsistencies compares two sets of clients. Result slices are
// sorted by ID.
func DetectInconsistencies(clientsA, clientsB []model.Client, sourceA, sourceB string, opts DiffOptions) SourceDiff {
	diff := SourceDiff{
		SourceA: sourceA,
		SourceB: sourceB,
	}

	mapA := make(map[string]model.Client, len(clientsA))
	for _, c := range clientsA {
		mapA[c.ID] = c
	}
	mapB := make(map[string]model.Client, len(clientsB))
	for _, c := range clientsB {
		mapB[c.ID] = c
	}
	diff.CountA = len(mapA)
	diff.CountB = len(mapB)

	for id := range mapA {
		if _, ok := mapB[id]; !ok {
			diff.MissingInB = append(diff.MissingInB, id)
		}
	}
	for id, cb := range mapB {
		ca, ok := mapA[id]
		if !ok {
			diff.MissingInA = append(diff.MissingInA, id)
			continue
		}
		if ca.Status != cb.Status {
			diff.StatusMismatch = append(diff.StatusMismatch, StatusDifference{
				ID:      id,
				StatusA: string(ca.Status),
				StatusB: string(cb.Status),
			})
		}
	}

	sort.Strings(diff.MissingInA)
	sort.Strings(diff.MissingInB)
	sort.Slice(diff.StatusMismatch, func(i, j int) bool {
		return diff.StatusMismatch[i].ID < diff.StatusMismatch[j].ID
	})

	if n := opts.MaxDifferences; n > 0 {
		if len(diff.MissingInA) > n {
			diff.MissingInA = diff.MissingInA[:n]
		}
		if len(diff.MissingInB) > n {
			diff.MissingInB = diff.MissingInB[:n]
		}
		if len(diff.StatusMismatch) > n {
			diff.StatusMismatch = diff.StatusMismatch[:n]
		}
	}

	return diff
}

// CompareSources loads and compares two data sources
func CompareSources(sourceA, sourceB DataSource, opts DiffOptions) (*SourceDiff, error) {
	clientsA, err := LoadFromSource(sourceA)
	if err != nil {
		return nil, fmt.Errorf("failed to load source A (%s): %w", sourceA.Path, err)
	}

	clientsB, err := LoadFromSource(sourceB)
	if err != nil {
		return nil, fmt.Errorf("failed to load source B (%s): %w", sourceB.Path, err)
	}

	diff := DetectInconsistencies(clientsA, clientsB, sourceA.Path, sourceB.Path, opts)
	return &diff, nil
}

// CheckAllSourcesConsistent compares every pair of valid sources and returns
// the pairs that disagree.
func CheckAllSourcesConsistent(sources []DataSource, opts DiffOptions) ([]SourceDiff, error) {
	var diffs []SourceDiff
	var errs []string

	for i := 0; i < len(sources); i++ {
		if !sources[i].Valid {
			continue
		}
		for j := i + 1; j < len(sources); j++ {
			if !sources[j].Valid {
				continue
			}
			diff, err := CompareSources(sources[i], sources[j], opts)
			if err != nil {
				errs = append(errs, err.Error())
				continue
			}
			if diff.HasInconsistencies() {
				diffs = append(diffs, *diff)
			}
		}
	}

	if len(errs) > 0 && len(diffs) == 0 {
		return nil, fmt.Errorf("comparing sources: %s", strings.Join(errs, "; "))
	}
	return diffs, nil
}
