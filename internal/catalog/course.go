package catalog

import (
	"slices"
	"strings"
)

// Course is a single catalog entry.
type Course struct {
	ID            string   `json:"id" yaml:"id"`                       // Canonical (upper-cased) course id: "CS200"
	Title         string   `json:"title" yaml:"title"`                 // Display title: "Data Structures"
	Prerequisites []string `json:"prerequisites" yaml:"prerequisites"` // Prerequisite ids in catalog order
}

// CanonicalID trims surrounding whitespace and upper-cases a course id so
// lookups are case-insensitive for callers.
func CanonicalID(id string) string {
	return strings.ToUpper(strings.TrimSpace(id))
}

// Clone returns a deep copy of c.
func (c Course) Clone() Course {
	c.Prerequisites = slices.Clone(c.Prerequisites)
	return c
}

// HasPrerequisites reports whether the course lists any prerequisite.
func (c Course) HasPrerequisites() bool {
	return len(c.Prerequisites) > 0
}
