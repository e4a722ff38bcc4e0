package source

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleYAML = `courses:
  - id: cs100
    title: Intro to Programming
  - id: CS200
    title: Data Structures
    prerequisites: [cs100, "", MATH201]
  - id: CS300
  - title: No id here
  - id: [not, a, string]
    title: Broken
`

func TestParseYAML(t *testing.T) {
	batch, err := ParseYAML(context.Background(), strings.NewReader(sampleYAML))
	if err != nil {
		t.Fatalf("ParseYAML() error = %v", err)
	}

	if len(batch.Courses) != 3 {
		t.Fatalf("courses = %+v, want 3", batch.Courses)
	}
	if batch.Courses[0].ID != "CS100" {
		t.Errorf("courses[0].ID = %q, want CS100", batch.Courses[0].ID)
	}
	if got := strings.Join(batch.Courses[1].Prerequisites, ","); got != "CS100,MATH201" {
		t.Errorf("CS200 prerequisites = %q, want CS100,MATH201", got)
	}

	if batch.Courses[2].ID != "CS300" || batch.Courses[2].Title != "" {
		t.Errorf("courses[2] = %+v, want CS300 with empty title", batch.Courses[2])
	}

	wantLines := []int{8, 9}
	if len(batch.Skipped) != len(wantLines) {
		t.Fatalf("skipped = %+v, want lines %v", batch.Skipped, wantLines)
	}
	for i, line := range wantLines {
		if batch.Skipped[i].Line != line {
			t.Errorf("skipped[%d].Line = %d, want %d", i, batch.Skipped[i].Line, line)
		}
	}
	if batch.Skipped[0].Reason != ReasonMissingID {
		t.Errorf("skipped[0].Reason = %q, want %q", batch.Skipped[0].Reason, ReasonMissingID)
	}
}

func TestParseYAML_EmptyDocuments(t *testing.T) {
	for _, input := range []string{"", "courses:\n", "other: 1\n"} {
		batch, err := ParseYAML(context.Background(), strings.NewReader(input))
		if err != nil {
			t.Errorf("ParseYAML(%q) error = %v", input, err)
			continue
		}
		if len(batch.Courses) != 0 || len(batch.Skipped) != 0 {
			t.Errorf("ParseYAML(%q) = %+v, want empty batch", input, batch)
		}
	}
}

func TestParseYAML_InvalidDocuments(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"not yaml", "courses: [unclosed\n"},
		{"top level list", "- id: CS100\n"},
		{"courses not a list", "courses: CS100\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseYAML(context.Background(), strings.NewReader(tt.input))
			if !errors.Is(err, ErrSourceUnavailable) {
				t.Errorf("ParseYAML() error = %v, want ErrSourceUnavailable", err)
			}
		})
	}
}

func TestYAMLFile_Read(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	if err := os.WriteFile(path, []byte(sampleYAML), 0o644); err != nil {
		t.Fatal(err)
	}

	batch, err := (&YAMLFile{Path: path}).Read(context.Background())
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if len(batch.Courses) != 2 {
		t.Errorf("courses = %d, want 2", len(batch.Courses))
	}

	_, err = (&YAMLFile{Path: path + ".missing"}).Read(context.Background())
	if !errors.Is(err, ErrSourceUnavailable) {
		t.Errorf("Read() missing file error = %v, want ErrSourceUnavailable", err)
	}

	_, err = (&YAMLFile{}).Read(context.Background())
	if !errors.Is(err, ErrSourceRequired) {
		t.Errorf("Read() empty path error = %v, want ErrSourceRequired", err)
	}
}
