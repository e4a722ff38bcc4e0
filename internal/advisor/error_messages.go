package advisor

// error_messages.go maps technical errors to user-facing messages with a
// code that can be quoted in support requests.
//
//	SRC001 - No source given           (file path is required)
//	SRC002 - Source unreadable         (missing file, bad YAML, database down)
//	CRS001 - Catalog not loaded        (query before the first load)
//	CRS002 - Course not found          (lookup miss)
//	CRS003 - Empty course id           (blank lookup)
//	REQ001 - Request timed out         (context deadline exceeded)
//	REQ002 - Request cancelled         (context canceled)
//	REQ005 - Too many loads            (every load slot busy)
//	ERR000 - Unknown error             (anything else; check the logs)
//
// Sentinel errors are matched with errors.Is first. Errors that lost their
// chain (e.g. crossed a process boundary) fall back to case-insensitive
// substring patterns. The first matching rule wins.

import (
	"context"
	"errors"
	"strings"

	"github.com/JonMunkholm/advisor/internal/source"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

// errorRule matches an error by sentinel or by pattern.
type errorRule struct {
	target  error
	pattern string
	msg     UserMessage
}

var errorRules = []errorRule{
	{
		target:  source.ErrSourceRequired,
		pattern: "file path is required",
		msg: UserMessage{
			Message: "No catalog file was given",
			Action:  "Provide the path of a CSV or YAML catalog",
			Code:    "SRC001",
		},
	},
	{
		target:  source.ErrSourceUnavailable,
		pattern: "source unavailable",
		msg: UserMessage{
			Message: "The catalog could not be read",
			Action:  "Check that the file exists and is readable, or that the database is reachable",
			Code:    "SRC002",
		},
	},
	{
		target:  ErrNotLoaded,
		pattern: "please load data first",
		msg: UserMessage{
			Message: "No catalog has been loaded yet",
			Action:  "Load a catalog first",
			Code:    "CRS001",
		},
	},
	{
		target:  ErrCourseNotFound,
		pattern: "not found",
		msg: UserMessage{
			Message: "Course not found",
			Action:  "Check the course id and try again",
			Code:    "CRS002",
		},
	},
	{
		target:  ErrEmptyCourseID,
		pattern: "no course id entered",
		msg: UserMessage{
			Message: "No course id was entered",
			Action:  "Enter a course id such as CS200",
			Code:    "CRS003",
		},
	},
	{
		target:  context.DeadlineExceeded,
		pattern: "context deadline exceeded",
		msg: UserMessage{
			Message: "The request timed out",
			Action:  "Try again, or load a smaller catalog",
			Code:    "REQ001",
		},
	},
	{
		target:  context.Canceled,
		pattern: "context canceled",
		msg: UserMessage{
			Message: "The request was cancelled",
			Action:  "Please try again",
			Code:    "REQ002",
		},
	},
	{
		target:  ErrTooManyLoads,
		pattern: "too many concurrent loads",
		msg: UserMessage{
			Message: "Another load is already running",
			Action:  "Wait for it to finish and try again",
			Code:    "REQ005",
		},
	},
}

var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or check the application logs",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
// Returns an empty UserMessage for nil.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	for _, rule := range errorRules {
		if errors.Is(err, rule.target) {
			return rule.msg
		}
	}

	lower := strings.ToLower(err.Error())
	for _, rule := range errorRules {
		if strings.Contains(lower, rule.pattern) {
			return rule.msg
		}
	}

	return defaultMessage
}
