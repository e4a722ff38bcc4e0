package advisor

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/JonMunkholm/advisor/internal/source"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode string
	}{
		{"nil error returns empty", nil, ""},
		{"missing path", source.ErrSourceRequired, "SRC001"},
		{"wrapped unreadable source", fmt.Errorf("load x.csv: %w", source.ErrSourceUnavailable), "SRC002"},
		{"not loaded", ErrNotLoaded, "CRS001"},
		{"not found error type", &NotFoundError{ID: "CS999"}, "CRS002"},
		{"empty id", ErrEmptyCourseID, "CRS003"},
		{"deadline", fmt.Errorf("load: %w", context.DeadlineExceeded), "REQ001"},
		{"cancelled", context.Canceled, "REQ002"},
		{"load slots busy", fmt.Errorf("load x.csv: %w", ErrTooManyLoads), "REQ005"},
		{"pattern fallback", errors.New("remote: SOURCE UNAVAILABLE: boom"), "SRC002"},
		{"unknown error returns default", errors.New("some random internal error"), "ERR000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapError(tt.err)
			if got.Code != tt.wantCode {
				t.Errorf("MapError() code = %q, want %q", got.Code, tt.wantCode)
			}
			if tt.err != nil && (got.Message == "" || got.Action == "") {
				t.Errorf("MapError() = %+v, want message and action", got)
			}
		})
	}
}
