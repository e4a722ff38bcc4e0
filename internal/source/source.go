// Package source reads course records from external catalogs.
//
// A [Source] stages every record it can parse into a [Batch] before the
// caller touches its table. A source that cannot be opened or read fails the
// whole batch, so a broken file never leaves a half-applied load behind.
package source

import (
	"context"
	"errors"
	"path/filepath"
	"strings"

	"github.com/JonMunkholm/advisor/internal/catalog"
)

// ContextCheckInterval is how often (in records) sources check for cancellation.
var ContextCheckInterval = 100

var (
	// ErrSourceRequired is returned when no file path or connection was given.
	ErrSourceRequired = errors.New("file path is required")

	// ErrSourceUnavailable wraps failures to open or read a source.
	ErrSourceUnavailable = errors.New("source unavailable")
)

// Skip reasons reported in SkippedLine.Reason.
const (
	ReasonMissingFields = "need at least id and title"
	ReasonMissingID     = "missing course id"
)

// Source produces course records.
type Source interface {
	// Name identifies the source in logs and messages (a path or "postgres").
	Name() string

	// Read stages every record. It returns an error wrapping
	// ErrSourceUnavailable if the source cannot be read at all.
	Read(ctx context.Context) (*Batch, error)
}

// SkippedLine is a record that could not become a course.
type SkippedLine struct {
	Line   int    `json:"line"`   // 1-indexed line (or row) number
	Reason string `json:"reason"` // Why the record was skipped
}

// Batch holds the staged result of reading a source.
type Batch struct {
	Courses []catalog.Course
	Skipped []SkippedLine
}

// ForPath returns the file source matching path's extension.
// ".yaml" and ".yml" select YAML; everything else is read as CSV.
func ForPath(path string) Source {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return &YAMLFile{Path: path}
	default:
		return &CSVFile{Path: path}
	}
}

// buildCourse canonicalizes raw fields into a course.
// Returns false when the id is empty. The title may be empty.
func buildCourse(id, title string, prereqs []string) (catalog.Course, bool) {
	id = catalog.CanonicalID(id)
	title = strings.TrimSpace(title)
	if id == "" {
		return catalog.Course{}, false
	}

	c := catalog.Course{ID: id, Title: title, Prerequisites: []string{}}
	for _, p := range prereqs {
		if p = catalog.CanonicalID(p); p != "" {
			c.Prerequisites = append(c.Prerequisites, p)
		}
	}
	return c, true
}

// checkContext returns ctx.Err() every ContextCheckInterval records.
func checkContext(ctx context.Context, n int) error {
	if ContextCheckInterval > 0 && n%ContextCheckInterval == 0 {
		return ctx.Err()
	}
	return nil
}
