package catalog

import (
	"fmt"
	"io"
)

// IssueKind classifies a prerequisite problem.
type IssueKind string

const (
	IssueSelfReference IssueKind = "self_reference" // Course lists itself
	IssueNotFound      IssueKind = "not_found"      // Prerequisite id is not stored
)

// Issue is a single broken prerequisite reference.
type Issue struct {
	Kind         IssueKind `json:"kind"`
	CourseID     string    `json:"courseId"`
	Prerequisite string    `json:"prerequisite"`
}

// String returns the warning line for the issue.
func (i Issue) String() string {
	if i.Kind == IssueSelfReference {
		return fmt.Sprintf("Warning: %s lists itself as a prerequisite.", i.CourseID)
	}
	return fmt.Sprintf("Warning: prerequisite %s referenced by %s was not found in the dataset.",
		i.Prerequisite, i.CourseID)
}

// CheckPrereqs returns every broken prerequisite reference in courses.
//
// Courses are visited in slice order and prerequisites in list order, so the
// result order is deterministic for a given snapshot. Duplicated references
// are reported once per occurrence.
func CheckPrereqs(courses []Course) []Issue {
	known := make(map[string]struct{}, len(courses))
	for _, c := range courses {
		known[c.ID] = struct{}{}
	}

	var issues []Issue
	for _, c := range courses {
		for _, p := range c.Prerequisites {
			if p == c.ID {
				issues = append(issues, Issue{Kind: IssueSelfReference, CourseID: c.ID, Prerequisite: p})
				continue
			}
			if _, ok := known[p]; !ok {
				issues = append(issues, Issue{Kind: IssueNotFound, CourseID: c.ID, Prerequisite: p})
			}
		}
	}
	return issues
}

// ValidateAllPrereqs sweeps every course in t, writes one warning line per
// issue to w and reports whether the sweep was clean. The table is not
// modified.
func ValidateAllPrereqs(t *Table, w io.Writer) bool {
	issues := CheckPrereqs(t.All())
	for _, issue := range issues {
		fmt.Fprintln(w, issue.String())
	}
	return len(issues) == 0
}
