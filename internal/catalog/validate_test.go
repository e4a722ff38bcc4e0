package catalog

import (
	"bytes"
	"strings"
	"testing"
)

func tableOf(courses ...Course) *Table {
	t := NewTable(DefaultCapacity)
	for _, c := range courses {
		t.Insert(c)
	}
	return t
}

func warningLines(buf *bytes.Buffer) []string {
	out := strings.TrimSpace(buf.String())
	if out == "" {
		return nil
	}
	return strings.Split(out, "\n")
}

func TestValidateAllPrereqs(t *testing.T) {
	tests := []struct {
		name    string
		courses []Course
		wantOK  bool
		want    []string
	}{
		{
			name:    "missing prerequisite",
			courses: []Course{{ID: "CS101", Prerequisites: []string{"CS050"}}},
			wantOK:  false,
			want:    []string{"Warning: prerequisite CS050 referenced by CS101 was not found in the dataset."},
		},
		{
			name:    "self reference",
			courses: []Course{{ID: "CS200", Prerequisites: []string{"CS200"}}},
			wantOK:  false,
			want:    []string{"Warning: CS200 lists itself as a prerequisite."},
		},
		{
			name: "clean pass",
			courses: []Course{
				{ID: "CS100"},
				{ID: "CS200", Prerequisites: []string{"CS100"}},
			},
			wantOK: true,
		},
		{
			name:   "empty table",
			wantOK: true,
		},
		{
			name: "duplicates reported per occurrence",
			courses: []Course{
				{ID: "CS300", Prerequisites: []string{"CS999", "CS300", "CS999"}},
			},
			wantOK: false,
			want: []string{
				"Warning: prerequisite CS999 referenced by CS300 was not found in the dataset.",
				"Warning: CS300 lists itself as a prerequisite.",
				"Warning: prerequisite CS999 referenced by CS300 was not found in the dataset.",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			ok := ValidateAllPrereqs(tableOf(tt.courses...), &buf)
			if ok != tt.wantOK {
				t.Errorf("ValidateAllPrereqs() = %v, want %v", ok, tt.wantOK)
			}

			got := warningLines(&buf)
			if len(got) != len(tt.want) {
				t.Fatalf("warnings = %q, want %q", got, tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("warning[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestValidateAllPrereqs_DoesNotModifyTable(t *testing.T) {
	table := tableOf(
		Course{ID: "CS100", Title: "Intro"},
		Course{ID: "CS200", Title: "Data Structures", Prerequisites: []string{"CS100", "CS050"}},
	)

	var buf bytes.Buffer
	ValidateAllPrereqs(table, &buf)

	if table.Len() != 2 {
		t.Errorf("Len() = %d after validation, want 2", table.Len())
	}
	c, _ := table.Find("CS200")
	if len(c.Prerequisites) != 2 {
		t.Errorf("Prerequisites = %v after validation, want unchanged", c.Prerequisites)
	}
}

func TestCheckPrereqs_OrderFollowsSnapshot(t *testing.T) {
	courses := []Course{
		{ID: "B", Prerequisites: []string{"X1", "X2"}},
		{ID: "A", Prerequisites: []string{"A"}},
		{ID: "C", Prerequisites: []string{"A", "Y"}},
	}

	issues := CheckPrereqs(courses)

	want := []Issue{
		{Kind: IssueNotFound, CourseID: "B", Prerequisite: "X1"},
		{Kind: IssueNotFound, CourseID: "B", Prerequisite: "X2"},
		{Kind: IssueSelfReference, CourseID: "A", Prerequisite: "A"},
		{Kind: IssueNotFound, CourseID: "C", Prerequisite: "Y"},
	}
	if len(issues) != len(want) {
		t.Fatalf("CheckPrereqs() = %+v, want %+v", issues, want)
	}
	for i := range want {
		if issues[i] != want[i] {
			t.Errorf("issue[%d] = %+v, want %+v", i, issues[i], want[i])
		}
	}
}
