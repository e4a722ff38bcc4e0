package web

// errors.go provides unified error response handling for the web layer.
//
// Every handler error goes through respondError, which:
//  1. Maps the error via advisor.MapError to a user-friendly message and code
//  2. Logs the technical error with the request id for correlation
//  3. Writes JSON for API clients and a plain page for browsers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/JonMunkholm/advisor/internal/advisor"
	"github.com/JonMunkholm/advisor/internal/logging"
	"github.com/JonMunkholm/advisor/internal/source"
	"github.com/JonMunkholm/advisor/internal/web/templates"
)

// ErrorResponse represents the JSON structure for API error responses.
// Includes both machine-readable (Code) and human-readable (Message, Action) fields.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Action  string `json:"action,omitempty"`
	Code    string `json:"code"`
}

var (
	rateLimitMessage = advisor.UserMessage{
		Message: "Too many load requests",
		Action:  "Wait a minute before loading again",
		Code:    "REQ003",
	}

	pathNotAllowedMessage = advisor.UserMessage{
		Message: "Loading that path is not allowed",
		Action:  "Place the catalog in CATALOG_LOAD_DIR or load the configured source with an empty body",
		Code:    "REQ006",
	}

	badBodyMessage = advisor.UserMessage{
		Message: "The request body is not valid JSON",
		Action:  `Send {"path": "<catalog file>"} or an empty body`,
		Code:    "REQ004",
	}
)

// statusFor picks the HTTP status for a service error.
func statusFor(err error) int {
	switch {
	case errors.Is(err, advisor.ErrCourseNotFound):
		return http.StatusNotFound
	case errors.Is(err, advisor.ErrNotLoaded):
		return http.StatusConflict
	case errors.Is(err, advisor.ErrEmptyCourseID), errors.Is(err, source.ErrSourceRequired):
		return http.StatusBadRequest
	case errors.Is(err, source.ErrSourceUnavailable):
		return http.StatusUnprocessableEntity
	case errors.Is(err, advisor.ErrTooManyLoads):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// respondError logs err and writes a user-friendly response with the status
// chosen by statusFor.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	statusCode := statusFor(err)
	userMsg := advisor.MapError(err)

	logger := logging.FromContext(r.Context())
	attrs := []any{
		"path", r.URL.Path,
		"method", r.Method,
		"status", statusCode,
		"error", err.Error(),
		"code", userMsg.Code,
	}
	if statusCode >= http.StatusInternalServerError {
		logger.Error("request error", attrs...)
	} else {
		logger.Info("request error", attrs...)
	}

	if wantsJSON(r) {
		respondErrorJSON(w, userMsg, statusCode)
		return
	}
	respondErrorHTML(w, r, userMsg, statusCode)
}

// respondErrorJSON writes a JSON error response.
func respondErrorJSON(w http.ResponseWriter, msg advisor.UserMessage, statusCode int) {
	writeJSON(w, statusCode, ErrorResponse{
		Error:   msg.Message,
		Message: msg.Message,
		Action:  msg.Action,
		Code:    msg.Code,
	})
}

// respondErrorHTML renders the error page.
func respondErrorHTML(w http.ResponseWriter, r *http.Request, msg advisor.UserMessage, statusCode int) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(statusCode)
	if err := templates.ErrorPage(msg).Render(r.Context(), w); err != nil {
		logging.FromContext(r.Context()).Error("render error page", "error", err)
	}
}

// wantsJSON checks if the client prefers JSON response.
func wantsJSON(r *http.Request) bool {
	if strings.Contains(r.Header.Get("Accept"), "application/json") {
		return true
	}
	if strings.Contains(r.Header.Get("Content-Type"), "application/json") {
		return true
	}

	// API routes default to JSON
	return strings.HasPrefix(r.URL.Path, "/api/")
}
