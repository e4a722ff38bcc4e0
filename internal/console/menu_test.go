package console

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/JonMunkholm/advisor/internal/advisor"
)

func writeCatalog(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "courses.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// runSession feeds input lines to a fresh console and returns everything it printed.
func runSession(t *testing.T, lines ...string) string {
	t.Helper()
	var out bytes.Buffer
	svc := advisor.NewService(advisor.Options{Output: &out})
	c := New(svc, strings.NewReader(strings.Join(lines, "\n")+"\n"), &out, Options{})
	if err := c.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	return out.String()
}

func TestRun_MenuAndExit(t *testing.T) {
	got := runSession(t, "9")

	want := "Welcome to the CS Advising Assistance Program\n" +
		"\n" +
		"  1. Load data from file\n" +
		"  2. Print course list (A Through Z)\n" +
		"  3. Print course info\n" +
		"  9. Exit\n" +
		"Select an option: Good bye.\n"
	if got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestRun_EndOfInputSaysGoodBye(t *testing.T) {
	var out bytes.Buffer
	c := New(advisor.NewService(advisor.Options{}), strings.NewReader(""), &out, Options{})
	if err := c.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !strings.HasSuffix(out.String(), "Select an option: Good bye.\n") {
		t.Errorf("output = %q, want trailing good bye", out.String())
	}
}

func TestRun_QueriesBeforeLoad(t *testing.T) {
	got := runSession(t, "2", "3", "9")

	if n := strings.Count(got, "Please load data first (Option 1).\n"); n != 2 {
		t.Errorf("not-loaded message count = %d, want 2 in %q", n, got)
	}
	if strings.Contains(got, "Enter course ID") {
		t.Error("course id prompt shown before any load")
	}
}

func TestRun_InvalidOption(t *testing.T) {
	got := runSession(t, "7", "abc", "9")

	if n := strings.Count(got, "Invalid option. Please choose 1, 2, 3, or 9.\n"); n != 2 {
		t.Errorf("invalid option count = %d, want 2 in %q", n, got)
	}
}

func TestRun_LoadErrors(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.csv")

	tests := []struct {
		name string
		path string
		want string
	}{
		{"empty path", "", "Error: file path is required.\n"},
		{"missing file", missing, "Error: could not open file '" + missing + "'.\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := runSession(t, "1", tt.path, "2", "9")
			if !strings.Contains(got, "Enter CSV file path: "+tt.want) {
				t.Errorf("output = %q, want %q", got, tt.want)
			}
			if !strings.Contains(got, "Please load data first (Option 1).") {
				t.Error("session left the empty state after a failed load")
			}
		})
	}
}

func TestRun_LoadListAndLookup(t *testing.T) {
	path := writeCatalog(t, strings.Join([]string{
		"CSCI300,Introduction to Algorithms,CSCI200,MATH201",
		"CSCI100,Introduction to Computer Science",
		"CSCI200,Data Structures,CSCI100",
		"MATH201,Discrete Mathematics",
	}, "\n"))

	got := runSession(t, "1", path, "2", "3", "csci300", "3", "", "3", "CS999", "9")

	wants := []string{
		"Load complete. Courses loaded: 4\n",
		"Prerequisite validation: OK\n",
		"All Computer Science courses (A–Z):\n" +
			"CSCI100, Introduction to Computer Science\n" +
			"CSCI200, Data Structures\n" +
			"CSCI300, Introduction to Algorithms\n" +
			"MATH201, Discrete Mathematics\n",
		"Enter course ID (e.g., CS200): CSCI300, Introduction to Algorithms\n" +
			"Prerequisites: CSCI200, MATH201\n",
		"Enter course ID (e.g., CS200): No course ID entered.\n",
		"Enter course ID (e.g., CS200): Course CS999 not found.\n",
	}
	for _, want := range wants {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q\nfull output:\n%s", want, got)
		}
	}
	if !strings.HasSuffix(got, "Good bye.\n") {
		t.Errorf("output does not end with good bye: %q", got)
	}
}

func TestChoiceList(t *testing.T) {
	c := New(advisor.NewService(advisor.Options{}), strings.NewReader(""), &bytes.Buffer{}, Options{})
	if got := c.choiceList(); got != "1, 2, 3, or 9" {
		t.Errorf("choiceList() = %q", got)
	}
}
