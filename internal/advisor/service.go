// Package advisor holds the advising session: one course table, its load
// state, and the operations the menu, CLI and HTTP layers call.
package advisor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/JonMunkholm/advisor/internal/catalog"
	"github.com/JonMunkholm/advisor/internal/logging"
	"github.com/JonMunkholm/advisor/internal/source"
	"github.com/google/uuid"
)

var (
	// ErrNotLoaded is returned by queries issued before any successful load.
	ErrNotLoaded = errors.New("please load data first")

	// ErrCourseNotFound is returned when a lookup id is not stored.
	ErrCourseNotFound = errors.New("course not found")

	// ErrEmptyCourseID is returned when a lookup id is blank.
	ErrEmptyCourseID = errors.New("no course id entered")
)

// State tells whether the session has data to query.
type State int

const (
	StateEmpty State = iota
	StateLoaded
)

func (s State) String() string {
	if s == StateLoaded {
		return "loaded"
	}
	return "empty"
}

// Options configures a Service.
type Options struct {
	Capacity      int          // Table bucket count (catalog.DefaultCapacity if <= 0)
	ClearOnReload bool         // Reset the table before applying a successful reload
	Output        io.Writer    // Sink for load warnings and status lines (io.Discard if nil)
	Limiter       *LoadLimiter // Caps concurrent source reads (unbounded if nil)
}

// LoadReport summarizes one load.
type LoadReport struct {
	ID        string               `json:"id"`
	Source    string               `json:"source"`
	StartedAt time.Time            `json:"startedAt"`
	Duration  time.Duration        `json:"duration"`
	Loaded    int                  `json:"loaded"`
	Total     int                  `json:"total"`
	Skipped   []source.SkippedLine `json:"skipped"`
	Valid     bool                 `json:"valid"`
	Issues    []catalog.Issue      `json:"issues"`
}

// Service is an advising session over a single course table.
//
// The table itself is not synchronized; Service serializes every operation
// so a load never overlaps a query.
type Service struct {
	mu            sync.Mutex
	table         *catalog.Table
	state         State
	clearOnReload bool
	out           io.Writer
	limiter       *LoadLimiter
	lastLoad      *LoadReport
}

// NewService creates an empty session.
func NewService(opts Options) *Service {
	out := opts.Output
	if out == nil {
		out = io.Discard
	}
	return &Service{
		table:         catalog.NewTable(opts.Capacity),
		state:         StateEmpty,
		clearOnReload: opts.ClearOnReload,
		out:           out,
		limiter:       opts.Limiter,
	}
}

// State returns the current load state.
func (s *Service) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Len returns the number of stored courses.
func (s *Service) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.table.Len()
}

// LastLoad returns the report of the most recent successful load, or nil.
func (s *Service) LastLoad() *LoadReport {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastLoad
}

// Load reads src and applies every staged course to the table, then runs
// the prerequisite sweep.
//
// Malformed records are reported on the output sink and skipped. If src
// cannot be read the table is left exactly as it was and the error is
// returned.
func (s *Service) Load(ctx context.Context, src source.Source) (*LoadReport, error) {
	report := &LoadReport{
		ID:        uuid.New().String(),
		Source:    src.Name(),
		StartedAt: time.Now(),
	}
	logger := logging.WithFields(ctx, "load_id", report.ID, "source", report.Source)
	if s.limiter != nil {
		if err := s.limiter.Acquire(ctx); err != nil {
			logger.Warn("load rejected", "error", err)
			return nil, fmt.Errorf("load %s: %w", report.Source, err)
		}
		defer s.limiter.Release()
	}
	logger.Info("load started")

	batch, err := src.Read(ctx)
	if err != nil {
		logger.Warn("load failed", "error", err)
		return nil, fmt.Errorf("load %s: %w", report.Source, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, skipped := range batch.Skipped {
		fmt.Fprintf(s.out, "Warning: malformed line %d (%s). Skipped.\n", skipped.Line, skipped.Reason)
	}

	if s.clearOnReload {
		s.table.Reset()
	}
	for _, c := range batch.Courses {
		s.table.Insert(c)
	}
	s.state = StateLoaded

	report.Loaded = len(batch.Courses)
	report.Total = s.table.Len()
	report.Skipped = batch.Skipped
	fmt.Fprintf(s.out, "Load complete. Courses loaded: %d\n", report.Loaded)

	report.Issues = catalog.CheckPrereqs(s.table.All())
	for _, issue := range report.Issues {
		fmt.Fprintln(s.out, issue.String())
	}
	report.Valid = len(report.Issues) == 0
	if report.Valid {
		fmt.Fprintln(s.out, "Prerequisite validation: OK")
	} else {
		fmt.Fprintln(s.out, "Prerequisite validation: issues found (see warnings above)")
	}

	report.Duration = time.Since(report.StartedAt)
	s.lastLoad = report

	logger.Info("load complete",
		"loaded", report.Loaded,
		"total", report.Total,
		"skipped", len(report.Skipped),
		"issues", len(report.Issues),
		"duration_ms", report.Duration.Milliseconds(),
	)
	return report, nil
}

// WaitForLoads blocks until in-flight loads finish or ctx is done.
// Returns immediately when the service has no limiter.
func (s *Service) WaitForLoads(ctx context.Context) error {
	if s.limiter == nil {
		return nil
	}
	return s.limiter.WaitForDrain(ctx)
}

// List returns every stored course sorted by id.
func (s *Service) List() ([]catalog.Course, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateLoaded {
		return nil, ErrNotLoaded
	}

	courses := s.table.All()
	sort.Slice(courses, func(i, j int) bool {
		return courses[i].ID < courses[j].ID
	})
	return courses, nil
}

// Lookup returns the course stored under id. The id is canonicalized first,
// so "cs200 " finds "CS200".
func (s *Service) Lookup(id string) (catalog.Course, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateLoaded {
		return catalog.Course{}, ErrNotLoaded
	}

	id = catalog.CanonicalID(id)
	if id == "" {
		return catalog.Course{}, ErrEmptyCourseID
	}

	c, ok := s.table.Find(id)
	if !ok {
		return catalog.Course{}, &NotFoundError{ID: id}
	}
	return c, nil
}

// Validate runs the prerequisite sweep, writing one warning per issue to w.
// Returns true if no issues were found.
func (s *Service) Validate(w io.Writer) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateLoaded {
		return false, ErrNotLoaded
	}
	return catalog.ValidateAllPrereqs(s.table, w), nil
}

// Issues returns every broken prerequisite reference.
func (s *Service) Issues() ([]catalog.Issue, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateLoaded {
		return nil, ErrNotLoaded
	}
	return catalog.CheckPrereqs(s.table.All()), nil
}

// NotFoundError reports a lookup miss for a specific id.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("course %s not found", e.ID)
}

// Unwrap makes errors.Is(err, ErrCourseNotFound) hold.
func (e *NotFoundError) Unwrap() error {
	return ErrCourseNotFound
}
