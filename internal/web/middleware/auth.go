package middleware

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"

	"github.com/JonMunkholm/advisor/internal/config"
	"github.com/JonMunkholm/advisor/internal/logging"
)

// APIKeyHeader carries the client's key.
const APIKeyHeader = "X-API-Key"

type authError struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// APIKeyAuth returns middleware that checks X-API-Key against cfg.APIKeys.
// When cfg.RequireAPIKey is false every request passes through; when it is
// true and no keys are configured every request is rejected.
func APIKeyAuth(cfg *config.SecurityConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !cfg.RequireAPIKey {
				next.ServeHTTP(w, r)
				return
			}

			logger := logging.WithFields(r.Context(),
				"path", r.URL.Path,
				"method", r.Method,
				"remote_addr", r.RemoteAddr,
			)

			key := r.Header.Get(APIKeyHeader)
			switch {
			case key == "":
				logger.Warn("auth: missing API key")
				rejectAuth(w, http.StatusUnauthorized, authError{Error: "missing API key", Code: "AUTH001"})
			case !isValidAPIKey(key, cfg.APIKeys):
				logger.Warn("auth: invalid API key")
				rejectAuth(w, http.StatusForbidden, authError{Error: "invalid API key", Code: "AUTH002"})
			default:
				next.ServeHTTP(w, r)
			}
		})
	}
}

func rejectAuth(w http.ResponseWriter, status int, body authError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// isValidAPIKey compares key against every configured key in constant time,
// so timing does not reveal which key (if any) matched.
func isValidAPIKey(key string, validKeys []string) bool {
	valid := 0
	for _, validKey := range validKeys {
		valid |= subtle.ConstantTimeCompare([]byte(key), []byte(validKey))
	}
	return valid == 1
}
