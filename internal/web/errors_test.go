package web

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/JonMunkholm/advisor/internal/advisor"
	"github.com/JonMunkholm/advisor/internal/source"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", &advisor.NotFoundError{ID: "CS1"}, http.StatusNotFound},
		{"not loaded", advisor.ErrNotLoaded, http.StatusConflict},
		{"empty id", advisor.ErrEmptyCourseID, http.StatusBadRequest},
		{"no source", fmt.Errorf("load : %w", source.ErrSourceRequired), http.StatusBadRequest},
		{"unreadable source", fmt.Errorf("load x: %w", source.ErrSourceUnavailable), http.StatusUnprocessableEntity},
		{"busy", advisor.ErrTooManyLoads, http.StatusServiceUnavailable},
		{"timeout", context.DeadlineExceeded, http.StatusGatewayTimeout},
		{"other", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := statusFor(tt.err); got != tt.want {
				t.Errorf("statusFor() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestWantsJSON(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		accept string
		want   bool
	}{
		{"api path", "/api/courses", "", true},
		{"accept header", "/courses/CS1", "application/json", true},
		{"browser page", "/courses/CS1", "text/html", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.accept != "" {
				r.Header.Set("Accept", tt.accept)
			}
			if got := wantsJSON(r); got != tt.want {
				t.Errorf("wantsJSON() = %v, want %v", got, tt.want)
			}
		})
	}
}
