package web

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/JonMunkholm/advisor/internal/advisor"
	"github.com/JonMunkholm/advisor/internal/catalog"
	"github.com/JonMunkholm/advisor/internal/logging"
	"github.com/JonMunkholm/advisor/internal/source"
	"github.com/JonMunkholm/advisor/internal/web/templates"
	"github.com/a-h/templ"
	"github.com/go-chi/chi/v5"
)

// CourseResponse is the JSON form of a course. Prerequisites is never null.
type CourseResponse struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	Prerequisites []string `json:"prerequisites"`
}

// CourseListResponse wraps the sorted course listing.
type CourseListResponse struct {
	Count   int              `json:"count"`
	Courses []CourseResponse `json:"courses"`
}

// LoadRequest is the optional body of POST /api/load.
type LoadRequest struct {
	Path string `json:"path"`
}

// LoadResponse summarizes a completed load.
type LoadResponse struct {
	ID       string               `json:"id"`
	Source   string               `json:"source"`
	Loaded   int                  `json:"loaded"`
	Total    int                  `json:"total"`
	Skipped  []source.SkippedLine `json:"skipped"`
	Valid    bool                 `json:"valid"`
	Issues   []IssueResponse      `json:"issues"`
	Duration string               `json:"duration"`
}

// IssueResponse is one prerequisite warning.
type IssueResponse struct {
	catalog.Issue
	Message string `json:"message"`
}

// ValidateResponse reports the result of a prerequisite sweep.
type ValidateResponse struct {
	Valid  bool            `json:"valid"`
	Issues []IssueResponse `json:"issues"`
}

// HealthResponse reports liveness and load state.
type HealthResponse struct {
	Status  string `json:"status"`
	State   string `json:"state"`
	Courses int    `json:"courses"`
}

func toCourseResponse(c catalog.Course) CourseResponse {
	prereqs := c.Prerequisites
	if prereqs == nil {
		prereqs = []string{}
	}
	return CourseResponse{ID: c.ID, Title: c.Title, Prerequisites: prereqs}
}

func toIssueResponses(issues []catalog.Issue) []IssueResponse {
	out := make([]IssueResponse, len(issues))
	for i, issue := range issues {
		out[i] = IssueResponse{Issue: issue, Message: issue.String()}
	}
	return out
}

/* ----------------------------------------
	PAGES
---------------------------------------- */

// handleCatalogPage renders the course list.
func (s *Server) handleCatalogPage(w http.ResponseWriter, r *http.Request) {
	data := templates.CatalogPageData{LastLoad: s.service.LastLoad()}

	courses, err := s.service.List()
	switch {
	case errors.Is(err, advisor.ErrNotLoaded):
	case err != nil:
		s.respondError(w, r, err)
		return
	default:
		data.Loaded = true
		data.Courses = courses
		if data.Issues, err = s.service.Issues(); err != nil {
			s.respondError(w, r, err)
			return
		}
	}

	s.render(w, r, templates.CatalogPage(data))
}

// handleCoursePage renders a single course.
func (s *Server) handleCoursePage(w http.ResponseWriter, r *http.Request) {
	course, err := s.service.Lookup(chi.URLParam(r, "courseID"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.render(w, r, templates.CoursePage(course))
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, page templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := page.Render(r.Context(), w); err != nil {
		logging.FromContext(r.Context()).Error("render page", "path", r.URL.Path, "error", err)
	}
}

/* ----------------------------------------
	API
---------------------------------------- */

// handleListCourses returns every course sorted by id.
func (s *Server) handleListCourses(w http.ResponseWriter, r *http.Request) {
	courses, err := s.service.List()
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	resp := CourseListResponse{Count: len(courses), Courses: make([]CourseResponse, len(courses))}
	for i, c := range courses {
		resp.Courses[i] = toCourseResponse(c)
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleGetCourse returns one course by id (case-insensitive).
func (s *Server) handleGetCourse(w http.ResponseWriter, r *http.Request) {
	course, err := s.service.Lookup(chi.URLParam(r, "courseID"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toCourseResponse(course))
}

// handleLoad loads the catalog named in the body, or the configured default
// source when the body is empty or names no path.
func (s *Server) handleLoad(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxLoadBodySize)

	var req LoadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		logging.FromContext(r.Context()).Info("invalid load body", "error", err)
		respondErrorJSON(w, badBodyMessage, http.StatusBadRequest)
		return
	}

	src := s.defaultSource
	if path := strings.TrimSpace(req.Path); path != "" {
		resolved, err := resolveLoadPath(s.cfg.Catalog.LoadDir, path)
		if err != nil {
			logging.FromContext(r.Context()).Warn("load path rejected", "path", path, "error", err)
			respondErrorJSON(w, pathNotAllowedMessage, http.StatusForbidden)
			return
		}
		src = s.sourceFor(resolved)
	} else if src == nil {
		src = s.sourceFor("")
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.cfg.Catalog.LoadTimeout)
	defer cancel()

	report, err := s.service.Load(ctx, src)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, LoadResponse{
		ID:       report.ID,
		Source:   report.Source,
		Loaded:   report.Loaded,
		Total:    report.Total,
		Skipped:  nonNil(report.Skipped),
		Valid:    report.Valid,
		Issues:   toIssueResponses(report.Issues),
		Duration: report.Duration.Round(time.Millisecond).String(),
	})
}

// handleValidate runs the prerequisite sweep over the loaded table.
func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	issues, err := s.service.Issues()
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ValidateResponse{
		Valid:  len(issues) == 0,
		Issues: toIssueResponses(issues),
	})
}

// handleHealth reports liveness; it succeeds before the first load too.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:  "ok",
		State:   s.service.State().String(),
		Courses: s.service.Len(),
	})
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
