// Package service implements the command surface: page analysis, bulk
// analysis, import, the private vault, browsing and diagnostics. The HTTP
// API and the CLI are thin layers over it.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/nikbrunner/synthcache/internal/analyzer"
	"github.com/nikbrunner/synthcache/internal/diag"
	"github.com/nikbrunner/synthcache/internal/dispatch"
	"github.com/nikbrunner/synthcache/internal/fetch"
	"github.com/nikbrunner/synthcache/internal/folders"
	"github.com/nikbrunner/synthcache/internal/kv"
	"github.com/nikbrunner/synthcache/internal/model"
	"github.com/nikbrunner/synthcache/internal/router"
	"github.com/nikbrunner/synthcache/internal/storage"
	"github.com/nikbrunner/synthcache/internal/vault"
)

// ErrBulkRunning is returned when a bulk run is already in progress.
var ErrBulkRunning = errors.New("a bulk run is already in progress")

// PageFetcher loads a page and extracts its signal.
type PageFetcher interface {
	Fetch(ctx context.Context, url string) (fetch.Page, error)
}

// Deps are the collaborators a Service is built from.
type Deps struct {
	Config  storage.Config
	Store   storage.BookmarkStore
	Records *kv.Store
	Fetcher PageFetcher
	Ring    *diag.Ring   // optional; diagnostics commands are no-ops without it
	Codec   *vault.Codec // optional; defaults to vault.NewCodec()
	Logger  *slog.Logger
}

// Service wires the analysis pipeline to the stores.
type Service struct {
	cfg       storage.Config
	store     storage.BookmarkStore
	fetcher   PageFetcher
	ring      *diag.Ring
	logger    *slog.Logger
	registry  *folders.Registry
	router    *router.Router
	vault     *vault.Vault
	extractor *analyzer.Extractor
	now       func() time.Time

	base context.Context

	mu          sync.Mutex
	bulkRunning bool
	progress    dispatch.Progress
	subscribers []dispatch.ProgressFunc
}

// New creates a Service. Call Start before serving commands.
func New(deps Deps) *Service {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	fetcher := deps.Fetcher
	if fetcher == nil {
		fetcher = fetch.New(deps.Config.FetchTimeout.Std())
	}
	names := folders.Names{
		Root:    deps.Config.RootFolder,
		Normal:  deps.Config.NormalFolder,
		Private: deps.Config.PrivateFolder,
	}
	return &Service{
		cfg:       deps.Config,
		store:     deps.Store,
		fetcher:   fetcher,
		ring:      deps.Ring,
		logger:    logger,
		registry:  folders.New(deps.Store, deps.Records, names, logger),
		router:    router.New(deps.Store, logger),
		vault:     vault.New(deps.Records, deps.Store, deps.Codec, logger),
		extractor: analyzer.NewExtractor(),
		now:       time.Now,
		base:      context.Background(),
	}
}

// Start resolves the managed folders. Background work started later by
// the service (bulk runs, import analysis) is bound to ctx.
func (s *Service) Start(ctx context.Context) (model.FolderRegistry, error) {
	s.base = ctx
	reg, err := s.registry.Load(ctx)
	if err != nil {
		return model.FolderRegistry{}, fmt.Errorf("resolving folders: %w", err)
	}
	return reg, nil
}

// FolderIDs returns the managed folder ids, resolving them again if the
// stored ones no longer exist.
func (s *Service) FolderIDs(ctx context.Context) (model.FolderRegistry, error) {
	return s.registry.Refresh(ctx)
}

func (s *Service) folders(ctx context.Context) (model.FolderRegistry, error) {
	if reg := s.registry.Current(); reg.Valid() {
		return reg, nil
	}
	return s.registry.Load(ctx)
}

// Analysis is the result of running the pipeline for one URL.
type Analysis struct {
	URL         string            `json:"url"`
	Keywords    []string          `json:"keywords"`
	HasVideo    bool              `json:"hasVideo"`
	AI          *analyzer.AIScore `json:"ai,omitempty"`
	Outcome     router.Outcome    `json:"outcome"`
	Skipped     bool              `json:"skipped,omitempty"`
	URLFallback bool              `json:"urlFallback,omitempty"`
}

// AnalyzePage runs the pipeline on a signal extracted by the caller.
func (s *Service) AnalyzePage(ctx context.Context, sig analyzer.PageSignal, hasVideo bool, mode model.PrivacyMode) (Analysis, error) {
	if s.cfg.SkipURL(sig.URL) {
		s.logger.Debug("skipping special url", "url", sig.URL)
		return Analysis{URL: sig.URL, Keywords: []string{}, Skipped: true}, nil
	}
	keywords := s.keywords(sig)
	score := analyzer.ScoreAIContent(sig.VisibleText)
	return s.route(ctx, Analysis{URL: sig.URL, Keywords: keywords, HasVideo: hasVideo, AI: &score}, mode)
}

// AnalyzeURL fetches the page and runs the pipeline. When the page cannot
// be loaded it falls back to the URL alone: the domain as keyword and a
// video-host check.
func (s *Service) AnalyzeURL(ctx context.Context, url string, mode model.PrivacyMode) (Analysis, error) {
	if url == "" || s.cfg.SkipURL(url) {
		s.logger.Debug("skipping special url", "url", url)
		return Analysis{URL: url, Keywords: []string{}, Skipped: true}, nil
	}

	page, err := s.fetcher.Fetch(ctx, url)
	if err != nil {
		s.logger.Warn("page fetch failed, using url analysis", diag.Attr(diag.GeneralError),
			"url", url, "reason", "PAGE_FETCH_FAILED", "error", err)
		fb := analyzer.FromURL(url)
		return s.route(ctx, Analysis{URL: url, Keywords: fb.Keywords, HasVideo: fb.HasVideo, URLFallback: true}, mode)
	}

	a := Analysis{URL: url, Keywords: s.keywords(page.Signal), HasVideo: page.HasVideo}
	score := analyzer.ScoreAIContent(page.Signal.VisibleText)
	a.AI = &score
	if page.HasVideo {
		s.logger.Debug("video detected", diag.Attr(diag.NSFWClassification), "url", url, "selector", page.VideoSelector)
	}
	return s.route(ctx, a, mode)
}

func (s *Service) keywords(sig analyzer.PageSignal) []string {
	keywords := s.extractor.Keywords(sig)
	if len(keywords) == 0 {
		s.logger.Warn("no keywords extracted", diag.Attr(diag.KeywordExtraction),
			"url", sig.URL, "reason", "NO_VALID_KEYWORDS",
			"titleLength", len(sig.Title), "headings", len(sig.Headings), "hasDescription", sig.Description != "")
	}
	return keywords
}

func (s *Service) route(ctx context.Context, a Analysis, mode model.PrivacyMode) (Analysis, error) {
	if a.AI != nil {
		s.logger.Debug("ai content score", "url", a.URL, "probability", string(a.AI.Probability),
			"total", a.AI.Total, "reason", a.AI.Reason)
	}

	reg, err := s.folders(ctx)
	if err != nil {
		return a, err
	}
	out, err := s.router.Apply(ctx, reg, router.Signal{
		URL:      a.URL,
		Keywords: a.Keywords,
		HasVideo: a.HasVideo,
		Mode:     mode,
	})
	a.Outcome = out
	return a, err
}

// HandleEvent runs the pipeline for a dispatched event.
func (s *Service) HandleEvent(ctx context.Context, ev dispatch.Event) error {
	var err error
	switch ev.Kind {
	case dispatch.PageLoaded:
		ctx, cancel := context.WithTimeout(ctx, s.itemTimeout())
		defer cancel()
		_, err = s.AnalyzePage(ctx, ev.Signal, ev.HasVideo, ev.Mode)
	case dispatch.BookmarkCreated:
		ctx, cancel := context.WithTimeout(ctx, s.itemTimeout())
		defer cancel()
		_, err = s.AnalyzeURL(ctx, ev.URL, ev.Mode)
	default:
		err = fmt.Errorf("unknown event kind %d", ev.Kind)
	}
	return err
}

func (s *Service) itemTimeout() time.Duration {
	if d := s.cfg.ItemTimeout.Std(); d > 0 {
		return d
	}
	return dispatch.DefaultTimeout
}

// ScoreText scores text for AI-generation markers without touching any
// bookmark.
func (s *Service) ScoreText(text string) analyzer.AIScore {
	return analyzer.ScoreAIContent(text)
}

// KeywordReport shows how keywords were chosen for a signal.
type KeywordReport struct {
	Candidates []analyzer.Candidate `json:"candidates"`
	Domain     string               `json:"domain"`
	Keywords   []string             `json:"keywords"`
}

// ExplainKeywords returns the ranked candidates behind a keyword choice.
func (s *Service) ExplainKeywords(sig analyzer.PageSignal) KeywordReport {
	c := s.extractor.Candidates(sig)
	domain := analyzer.DomainToken(sig.URL)
	return KeywordReport{
		Candidates: c.Ranked(),
		Domain:     domain,
		Keywords:   s.extractor.Select(c, domain),
	}
}
