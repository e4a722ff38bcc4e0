package source

import (
	"bufio"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
)

// maxLineSize bounds a single catalog line.
const maxLineSize = 1024 * 1024

// CSVFile reads a catalog file of "id,title[,prereq...]" lines.
type CSVFile struct {
	Path string
}

// Name returns the file path.
func (f *CSVFile) Name() string {
	return f.Path
}

// Read opens the file and stages every course in it.
// The file is closed before Read returns.
func (f *CSVFile) Read(ctx context.Context) (*Batch, error) {
	if strings.TrimSpace(f.Path) == "" {
		return nil, ErrSourceRequired
	}

	file, err := os.Open(f.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: could not open file '%s': %w", ErrSourceUnavailable, f.Path, err)
	}
	defer file.Close()

	return ParseCSV(ctx, file)
}

// ParseCSV stages courses from CSV text, one record per line.
//
// Whitespace around fields is ignored and blank lines are skipped silently.
// Lines with fewer than two fields or an empty id are reported in
// Batch.Skipped. A title may be empty. Empty prerequisite fields are dropped.
func ParseCSV(ctx context.Context, r io.Reader) (*Batch, error) {
	scanner := bufio.NewScanner(NewCleanReader(r))
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	batch := &Batch{}
	for line := 1; scanner.Scan(); line++ {
		if err := checkContext(ctx, line-1); err != nil {
			return nil, fmt.Errorf("read cancelled: %w", err)
		}

		text := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(text) == "" {
			continue
		}

		fields := splitLine(text)
		if len(fields) < 2 {
			batch.Skipped = append(batch.Skipped, SkippedLine{Line: line, Reason: ReasonMissingFields})
			continue
		}

		course, ok := buildCourse(fields[0], fields[1], fields[2:])
		if !ok {
			batch.Skipped = append(batch.Skipped, SkippedLine{Line: line, Reason: ReasonMissingID})
			continue
		}
		batch.Courses = append(batch.Courses, course)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: read csv: %w", ErrSourceUnavailable, err)
	}

	return batch, nil
}

// splitLine splits one line into fields. Well-formed quoted fields may hold
// commas; any other quote is kept as text and the line is split on every comma.
func splitLine(line string) []string {
	reader := csv.NewReader(strings.NewReader(line))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	if record, err := reader.Read(); err == nil {
		return record
	}
	return strings.Split(line, ",")
}
