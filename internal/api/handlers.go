package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/nikbrunner/synthcache/internal/analyzer"
	"github.com/nikbrunner/synthcache/internal/dispatch"
	"github.com/nikbrunner/synthcache/internal/visibility"
)

// PageRequest is a page signal extracted by a client.
type PageRequest struct {
	URL         string   `json:"url"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Headings    []string `json:"headings"`
	VisibleText string   `json:"visibleText"`
	HasVideo    bool     `json:"hasVideo"`
	Mode        string   `json:"mode"`
}

func (p PageRequest) signal() analyzer.PageSignal {
	headings := p.Headings
	if headings == nil {
		headings = []string{}
	}
	return analyzer.PageSignal{
		URL:         p.URL,
		Title:       p.Title,
		Description: p.Description,
		Headings:    headings,
		VisibleText: p.VisibleText,
	}
}

type urlRequest struct {
	URL  string `json:"url"`
	Mode string `json:"mode"`
}

func handleAnalyzePage(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req PageRequest
		if !decode(w, r, maxBodySize, &req) {
			return
		}
		if req.URL == "" {
			httpError(w, http.StatusBadRequest, "url is required")
			return
		}
		mode, valid := parseMode(w, req.Mode)
		if !valid {
			return
		}

		a, err := deps.Service.AnalyzePage(r.Context(), req.signal(), req.HasVideo, mode)
		if err != nil {
			fail(w, err)
			return
		}
		ok(w, map[string]any{"analysis": a})
	}
}

func handleAnalyzeURL(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req urlRequest
		if !decode(w, r, maxBodySize, &req) {
			return
		}
		if req.URL == "" {
			httpError(w, http.StatusBadRequest, "url is required")
			return
		}
		mode, valid := parseMode(w, req.Mode)
		if !valid {
			return
		}

		a, err := deps.Service.AnalyzeURL(r.Context(), req.URL, mode)
		if err != nil {
			fail(w, err)
			return
		}
		ok(w, map[string]any{"analysis": a})
	}
}

func handleAnalyzeAll(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mode, valid := parseMode(w, r.URL.Query().Get("mode"))
		if !valid {
			return
		}
		n, err := deps.Service.StartAnalyzeAll(r.Context(), mode)
		if err != nil {
			fail(w, err)
			return
		}
		writeJSON(w, http.StatusAccepted, map[string]any{"success": true, "queued": n})
	}
}

func handleScoreText(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Text string `json:"text"`
		}
		if !decode(w, r, maxBodySize, &req) {
			return
		}
		score := deps.Service.ScoreText(req.Text)
		ok(w, map[string]any{"analysis": score, "summary": score.Summary()})
	}
}

func handleExplainKeywords(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req PageRequest
		if !decode(w, r, maxBodySize, &req) {
			return
		}
		ok(w, map[string]any{"report": deps.Service.ExplainKeywords(req.signal())})
	}
}

func handlePageLoaded(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req PageRequest
		if !decode(w, r, maxBodySize, &req) {
			return
		}
		if req.URL == "" {
			httpError(w, http.StatusBadRequest, "url is required")
			return
		}
		mode, valid := parseMode(w, req.Mode)
		if !valid {
			return
		}

		err := deps.Dispatcher.TrySubmit(dispatch.Event{
			Kind:     dispatch.PageLoaded,
			URL:      req.URL,
			Mode:     mode,
			Signal:   req.signal(),
			HasVideo: req.HasVideo,
		})
		if err != nil {
			fail(w, err)
			return
		}
		writeJSON(w, http.StatusAccepted, map[string]any{"success": true})
	}
}

func handleBookmarkCreated(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req urlRequest
		if !decode(w, r, maxBodySize, &req) {
			return
		}
		if req.URL == "" {
			httpError(w, http.StatusBadRequest, "url is required")
			return
		}
		mode, valid := parseMode(w, req.Mode)
		if !valid {
			return
		}

		err := deps.Dispatcher.TrySubmit(dispatch.Event{Kind: dispatch.BookmarkCreated, URL: req.URL, Mode: mode})
		if err != nil {
			fail(w, err)
			return
		}
		writeJSON(w, http.StatusAccepted, map[string]any{"success": true})
	}
}

func handleImport(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			HTML string `json:"html"`
			Mode string `json:"mode"`
		}
		if !decode(w, r, maxImportSize, &req) {
			return
		}
		mode, valid := parseMode(w, req.Mode)
		if !valid {
			return
		}

		res, err := deps.Service.Import(r.Context(), strings.NewReader(req.HTML), mode)
		if err != nil {
			fail(w, err)
			return
		}
		ok(w, map[string]any{"import": res})
	}
}

func handleFlagPrivate(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			URL        string `json:"url"`
			Title      string `json:"title"`
			Passphrase string `json:"passphrase"`
		}
		if !decode(w, r, maxBodySize, &req) {
			return
		}
		if req.URL == "" {
			httpError(w, http.StatusBadRequest, "url is required")
			return
		}

		res, err := deps.Service.FlagPrivate(r.Context(), req.URL, req.Title, req.Passphrase)
		if err != nil {
			fail(w, err)
			return
		}
		ok(w, map[string]any{"key": res.Key, "removed": res.Removed})
	}
}

func handleUnlock(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Passphrase string `json:"passphrase"`
		}
		if !decode(w, r, maxBodySize, &req) {
			return
		}
		entries, err := deps.Service.UnlockVault(req.Passphrase)
		if err != nil {
			fail(w, err)
			return
		}
		ok(w, map[string]any{"bookmarks": entries})
	}
}

func handleFolders(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		reg, err := deps.Service.FolderIDs(r.Context())
		if err != nil {
			fail(w, err)
			return
		}
		ok(w, map[string]any{"folders": reg})
	}
}

func handleProgress(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ok(w, map[string]any{"progress": deps.Service.LastProgress()})
	}
}

// filtersFromQuery reads ?search=&tags=a,b&sort=&normal=&nsfw=.
func filtersFromQuery(r *http.Request) (visibility.Filters, error) {
	q := r.URL.Query()
	f := visibility.DefaultFilters()
	f.Search = q.Get("search")
	if v := q.Get("normal"); v != "" {
		f.ShowNormal = v != "false" && v != "0"
	}
	if v := q.Get("nsfw"); v != "" {
		f.ShowNSFW = v == "true" || v == "1"
	}
	if tags := q.Get("tags"); tags != "" {
		for _, t := range strings.Split(tags, ",") {
			if t = strings.TrimSpace(t); t != "" {
				f.Tags = append(f.Tags, t)
			}
		}
	}
	sort, err := visibility.ParseSortMode(q.Get("sort"))
	if err != nil {
		return f, err
	}
	f.Sort = sort
	return f, nil
}

func handleListBookmarks(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mode, valid := parseMode(w, r.URL.Query().Get("mode"))
		if !valid {
			return
		}
		f, err := filtersFromQuery(r)
		if err != nil {
			httpError(w, http.StatusBadRequest, "%v", err)
			return
		}

		list, err := deps.Service.List(r.Context(), mode, f)
		if err != nil {
			fail(w, err)
			return
		}
		ok(w, map[string]any{"bookmarks": list, "count": len(list)})
	}
}

func handleRecent(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mode, valid := parseMode(w, r.URL.Query().Get("mode"))
		if !valid {
			return
		}
		limit := intParam(r, "limit", 10)

		list, err := deps.Service.Recent(r.Context(), mode, limit)
		if err != nil {
			fail(w, err)
			return
		}
		ok(w, map[string]any{"bookmarks": list})
	}
}

func handleTags(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mode, valid := parseMode(w, r.URL.Query().Get("mode"))
		if !valid {
			return
		}
		tags, err := deps.Service.Tags(r.Context(), mode, intParam(r, "limit", visibility.DefaultTagCloudSize))
		if err != nil {
			fail(w, err)
			return
		}
		ok(w, map[string]any{"tags": tags})
	}
}

func handleStats(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mode, valid := parseMode(w, r.URL.Query().Get("mode"))
		if !valid {
			return
		}
		stats, err := deps.Service.Stats(r.Context(), mode)
		if err != nil {
			fail(w, err)
			return
		}
		ok(w, map[string]any{"stats": stats})
	}
}

func handleExport(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mode, valid := parseMode(w, r.URL.Query().Get("mode"))
		if !valid {
			return
		}
		f, err := filtersFromQuery(r)
		if err != nil {
			httpError(w, http.StatusBadRequest, "%v", err)
			return
		}

		html, err := deps.Service.Export(r.Context(), mode, f)
		if err != nil {
			fail(w, err)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="synthcache-export.html"`)
		w.Write([]byte(html))
	}
}

func handleDiagnosticCounts(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ok(w, map[string]any{"categories": deps.Service.DiagnosticCounts()})
	}
}

func handleSaveDiagnostics(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		paths, err := deps.Service.SaveDiagnostics()
		if err != nil {
			fail(w, err)
			return
		}
		if paths == nil {
			paths = []string{}
		}
		ok(w, map[string]any{"files": paths})
	}
}

func handleClearDiagnostics(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		deps.Service.ClearDiagnostics()
		ok(w, nil)
	}
}

func intParam(r *http.Request, name string, def int) int {
	v := r.URL.Query().Get(name)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return def
	}
	return n
}
