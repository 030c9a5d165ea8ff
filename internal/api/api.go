// Package api exposes the service over a local HTTP command surface. Every
// response is a JSON object with a "success" field.
package api

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/nikbrunner/synthcache/internal/dispatch"
	"github.com/nikbrunner/synthcache/internal/model"
	"github.com/nikbrunner/synthcache/internal/service"
	"github.com/nikbrunner/synthcache/internal/vault"
)

const (
	maxBodySize   = 1 << 20  // 1MB
	maxImportSize = 20 << 20 // 20MB
)

// AppDeps are the handler dependencies.
type AppDeps struct {
	Service    *service.Service
	Dispatcher *dispatch.Dispatcher
	Token      string // optional; when set every request needs a bearer token
}

// NewAppHandler builds the router.
func NewAppHandler(deps AppDeps) http.Handler {
	r := chi.NewRouter()
	if deps.Token != "" {
		r.Use(BearerAuth(deps.Token))
	}

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"success": true})
	})

	r.Route("/analyze", func(r chi.Router) {
		r.Post("/page", handleAnalyzePage(deps))
		r.Post("/url", handleAnalyzeURL(deps))
		r.Post("/all", handleAnalyzeAll(deps))
		r.Post("/ai", handleScoreText(deps))
		r.Post("/keywords", handleExplainKeywords(deps))
	})

	r.Route("/events", func(r chi.Router) {
		r.Post("/page-loaded", handlePageLoaded(deps))
		r.Post("/bookmark-created", handleBookmarkCreated(deps))
	})

	r.Post("/import", handleImport(deps))

	r.Route("/vault", func(r chi.Router) {
		r.Post("/flag", handleFlagPrivate(deps))
		r.Post("/unlock", handleUnlock(deps))
	})

	r.Get("/folders", handleFolders(deps))
	r.Get("/progress", handleProgress(deps))

	r.Get("/bookmarks", handleListBookmarks(deps))
	r.Get("/bookmarks/recent", handleRecent(deps))
	r.Get("/tags", handleTags(deps))
	r.Get("/stats", handleStats(deps))
	r.Get("/export", handleExport(deps))

	r.Route("/diagnostics", func(r chi.Router) {
		r.Get("/", handleDiagnosticCounts(deps))
		r.Post("/save", handleSaveDiagnostics(deps))
		r.Delete("/", handleClearDiagnostics(deps))
	})

	return r
}

// BearerAuth rejects requests without the expected bearer token.
func BearerAuth(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")
			const prefix = "Bearer "
			if !strings.HasPrefix(auth, prefix) || subtle.ConstantTimeCompare([]byte(auth[len(prefix):]), []byte(token)) != 1 {
				httpError(w, http.StatusUnauthorized, "invalid or missing bearer token")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func ok(w http.ResponseWriter, fields map[string]any) {
	if fields == nil {
		fields = map[string]any{}
	}
	fields["success"] = true
	writeJSON(w, http.StatusOK, fields)
}

func httpError(w http.ResponseWriter, code int, format string, args ...any) {
	writeJSON(w, code, map[string]any{
		"success": false,
		"error":   fmt.Sprintf(format, args...),
	})
}

// statusFor maps service errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, vault.ErrVaultAuth):
		return http.StatusUnauthorized
	case errors.Is(err, vault.ErrEmptyPassphrase):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrBulkRunning):
		return http.StatusConflict
	case errors.Is(err, dispatch.ErrQueueFull), errors.Is(err, dispatch.ErrClosed):
		return http.StatusServiceUnavailable
	case errors.Is(err, model.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func fail(w http.ResponseWriter, err error) {
	httpError(w, statusFor(err), "%v", err)
}

func decode(w http.ResponseWriter, r *http.Request, limit int64, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, limit)
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		httpError(w, http.StatusBadRequest, "invalid request body: %v", err)
		return false
	}
	return true
}

func parseMode(w http.ResponseWriter, s string) (model.PrivacyMode, bool) {
	mode, err := model.ParsePrivacyMode(s)
	if err != nil {
		httpError(w, http.StatusBadRequest, "%v", err)
		return model.ModeNormal, false
	}
	return mode, true
}
