package source

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// YAMLFile reads a catalog document of the form:
//
//	courses:
//	  - id: CS200
//	    title: Data Structures
//	    prerequisites: [CS100]
type YAMLFile struct {
	Path string
}

// yamlCourse is one entry of the courses sequence.
type yamlCourse struct {
	ID            string   `yaml:"id"`
	Title         string   `yaml:"title"`
	Prerequisites []string `yaml:"prerequisites"`
}

// Name returns the file path.
func (f *YAMLFile) Name() string {
	return f.Path
}

// Read opens the file and stages every course in it.
func (f *YAMLFile) Read(ctx context.Context) (*Batch, error) {
	if strings.TrimSpace(f.Path) == "" {
		return nil, ErrSourceRequired
	}

	file, err := os.Open(f.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: could not open file '%s': %w", ErrSourceUnavailable, f.Path, err)
	}
	defer file.Close()

	return ParseYAML(ctx, file)
}

// ParseYAML stages courses from a YAML catalog document.
//
// Entries that do not decode, or that lack an id or title, are reported in
// Batch.Skipped with the line the entry starts on. A document that is not
// YAML at all fails the batch.
func ParseYAML(ctx context.Context, r io.Reader) (*Batch, error) {
	var doc yaml.Node
	if err := yaml.NewDecoder(NewCleanReader(r)).Decode(&doc); err != nil {
		if err == io.EOF {
			return &Batch{}, nil
		}
		return nil, fmt.Errorf("%w: parse yaml: %w", ErrSourceUnavailable, err)
	}

	entries, err := courseEntries(&doc)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
	}

	batch := &Batch{}
	for n, entry := range entries {
		if err := checkContext(ctx, n); err != nil {
			return nil, fmt.Errorf("read cancelled: %w", err)
		}

		var yc yamlCourse
		if err := entry.Decode(&yc); err != nil {
			batch.Skipped = append(batch.Skipped, SkippedLine{Line: entry.Line, Reason: err.Error()})
			continue
		}

		course, ok := buildCourse(yc.ID, yc.Title, yc.Prerequisites)
		if !ok {
			batch.Skipped = append(batch.Skipped, SkippedLine{Line: entry.Line, Reason: ReasonMissingID})
			continue
		}
		batch.Courses = append(batch.Courses, course)
	}

	return batch, nil
}

// courseEntries returns the items of the top-level "courses" sequence.
func courseEntries(doc *yaml.Node) ([]*yaml.Node, error) {
	root := doc
	if root.Kind == yaml.DocumentNode && len(root.Content) > 0 {
		root = root.Content[0]
	}
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("yaml catalog must be a mapping with a courses list (line %d)", root.Line)
	}

	for i := 0; i+1 < len(root.Content); i += 2 {
		if root.Content[i].Value != "courses" {
			continue
		}
		list := root.Content[i+1]
		if list.Kind == yaml.ScalarNode && list.Tag == "!!null" {
			return nil, nil
		}
		if list.Kind != yaml.SequenceNode {
			return nil, fmt.Errorf("courses must be a list (line %d)", list.Line)
		}
		return list.Content, nil
	}
	return nil, nil
}
