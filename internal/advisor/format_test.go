package advisor

import (
	"bytes"
	"testing"

	"github.com/JonMunkholm/advisor/internal/catalog"
)

func TestWriteCourseList(t *testing.T) {
	var buf bytes.Buffer
	WriteCourseList(&buf, []catalog.Course{
		{ID: "CS100", Title: "Intro"},
		{ID: "CS200", Title: "Data Structures"},
	})

	want := "All Computer Science courses (A–Z):\nCS100, Intro\nCS200, Data Structures\n"
	if buf.String() != want {
		t.Errorf("output = %q, want %q", buf.String(), want)
	}
}

func TestWriteCourse(t *testing.T) {
	tests := []struct {
		name   string
		course catalog.Course
		want   string
	}{
		{
			name:   "no prerequisites",
			course: catalog.Course{ID: "CS100", Title: "Intro"},
			want:   "CS100, Intro\nPrerequisites: None\n",
		},
		{
			name:   "several prerequisites",
			course: catalog.Course{ID: "CS300", Title: "Algorithms", Prerequisites: []string{"CS200", "MATH201"}},
			want:   "CS300, Algorithms\nPrerequisites: CS200, MATH201\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			WriteCourse(&buf, tt.course)
			if buf.String() != tt.want {
				t.Errorf("output = %q, want %q", buf.String(), tt.want)
			}
		})
	}
}
