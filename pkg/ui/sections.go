package ui

import (
	"github.com/vanderheijden86/sitebook/pkg/model"
)

// SectionState holds the collapse flag of each status section. The zero
// value has every section expanded.
type SectionState struct {
	collapsed [3]bool
}

// Collapsed reports whether the section for s is collapsed.
func (s SectionState) Collapsed(status model.Status) bool {
	if i := sectionIndex(status); i >= 0 {
		return s.collapsed[i]
	}
	return false
}

// Toggle flips the collapse flag of exactly one section. Non-canonical
// statuses are ignored.
func (s *SectionState) Toggle(status model.Status) {
	if i := sectionIndex(status); i >= 0 {
		s.collapsed[i] = !s.collapsed[i]
	}
}

// SetCollapsed sets one section's flag.
func (s *SectionState) SetCollapsed(status model.Status, collapsed bool) {
	if i := sectionIndex(status); i >= 0 {
		s.collapsed[i] = collapsed
	}
}
