package service

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/nikbrunner/synthcache/internal/diag"
	"github.com/nikbrunner/synthcache/internal/dispatch"
	"github.com/nikbrunner/synthcache/internal/importer"
	"github.com/nikbrunner/synthcache/internal/model"
)

// Subscribe registers fn to receive every progress snapshot.
func (s *Service) Subscribe(fn dispatch.ProgressFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscribers = append(s.subscribers, fn)
}

// LastProgress returns the most recent progress snapshot.
func (s *Service) LastProgress() dispatch.Progress {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.progress
}

func (s *Service) publish(p dispatch.Progress) {
	s.mu.Lock()
	s.progress = p
	subs := append([]dispatch.ProgressFunc(nil), s.subscribers...)
	s.mu.Unlock()

	for _, fn := range subs {
		fn(p)
	}
}

func (s *Service) beginBulk() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.bulkRunning {
		return false
	}
	s.bulkRunning = true
	return true
}

func (s *Service) endBulk() {
	s.mu.Lock()
	s.bulkRunning = false
	s.mu.Unlock()
}

// analysisTasks builds one task per URL, skipping special URLs.
func (s *Service) analysisTasks(urls []string, mode model.PrivacyMode) []dispatch.Task {
	tasks := make([]dispatch.Task, 0, len(urls))
	for _, u := range urls {
		if s.cfg.SkipURL(u) {
			continue
		}
		url := u
		tasks = append(tasks, dispatch.Task{
			Name: url,
			Run: func(ctx context.Context) error {
				_, err := s.AnalyzeURL(ctx, url, mode)
				if err != nil {
					s.logger.Warn("bookmark analysis failed", diag.Attr(diag.FailedTagging),
						"url", url, "reason", "BOOKMARK_ANALYSIS_FAILED", "error", err)
				}
				return err
			},
		})
	}
	return tasks
}

// runBulk runs tasks through a rate-limited queue, publishing progress and
// saving diagnostics on completion. The caller must hold the bulk slot.
func (s *Service) runBulk(ctx context.Context, label string, tasks []dispatch.Task, delay time.Duration) (dispatch.Progress, error) {
	defer s.endBulk()

	q := dispatch.NewQueue(delay, s.itemTimeout(), s.logger)
	q.OnProgress = func(p dispatch.Progress) {
		if p.IsRunning && p.Processed == 0 {
			p.Status = fmt.Sprintf("Starting %s of %d bookmarks", label, p.Total)
		}
		s.publish(p)
	}

	s.logger.Info("bulk run started", "run", label, "total", len(tasks))
	final, err := q.Run(ctx, tasks)
	s.logger.Info("bulk run finished", "run", label, "processed", final.Processed,
		"success", final.Success, "failed", final.Failed, "status", final.Status)

	if paths, serr := s.SaveDiagnostics(); serr != nil {
		s.logger.Error("saving diagnostics failed", "error", serr)
	} else if len(paths) > 0 {
		s.logger.Info("diagnostics saved", "files", len(paths), "dir", s.cfg.DiagnosticsDir)
	}
	return final, err
}

func (s *Service) staggerDelay() time.Duration {
	if d := s.cfg.StaggerDelay.Std(); d >= 0 {
		return d
	}
	return dispatch.DefaultDelay
}

// AnalyzeAll analyzes every stored bookmark one at a time and returns the
// final progress.
func (s *Service) AnalyzeAll(ctx context.Context, mode model.PrivacyMode) (dispatch.Progress, error) {
	if !s.beginBulk() {
		return s.LastProgress(), ErrBulkRunning
	}
	tasks, err := s.allTasks(ctx, mode)
	if err != nil {
		s.endBulk()
		return dispatch.Progress{}, err
	}
	return s.runBulk(ctx, "analysis", tasks, s.staggerDelay())
}

// StartAnalyzeAll starts AnalyzeAll in the background and returns the
// number of bookmarks queued.
func (s *Service) StartAnalyzeAll(ctx context.Context, mode model.PrivacyMode) (int, error) {
	if !s.beginBulk() {
		return 0, ErrBulkRunning
	}
	tasks, err := s.allTasks(ctx, mode)
	if err != nil {
		s.endBulk()
		return 0, err
	}
	go s.runBulk(s.base, "analysis", tasks, s.staggerDelay())
	return len(tasks), nil
}

func (s *Service) allTasks(ctx context.Context, mode model.PrivacyMode) ([]dispatch.Task, error) {
	bookmarks, err := s.store.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing bookmarks: %w", err)
	}
	urls := make([]string, 0, len(bookmarks))
	for _, b := range bookmarks {
		urls = append(urls, b.URL)
	}
	return s.analysisTasks(urls, mode), nil
}

// ImportResult summarizes an import.
type ImportResult struct {
	Found     int    `json:"found"`
	Imported  int    `json:"imported"`
	Skipped   int    `json:"skipped"`
	Folder    string `json:"folderId"`
	Scheduled int    `json:"scheduled"`
}

// Import reads bookmark markup and creates every new link in the Normal
// folder, or the Private folder in incognito mode. Links already
// bookmarked are skipped. The new bookmarks are then analyzed in the
// background with the import stagger delay.
func (s *Service) Import(ctx context.Context, r io.Reader, mode model.PrivacyMode) (ImportResult, error) {
	parsed, err := importer.ParseHTMLBookmarks(r)
	if err != nil {
		return ImportResult{}, fmt.Errorf("parsing bookmarks: %w", err)
	}

	reg, err := s.folders(ctx)
	if err != nil {
		return ImportResult{}, err
	}
	target := reg.NormalFolderID
	if mode == model.ModeIncognito {
		target = reg.NSFWHiddenFolderID
	}

	if !s.beginBulk() {
		return ImportResult{}, ErrBulkRunning
	}

	s.publish(dispatch.Progress{
		Status:    fmt.Sprintf("Importing %d bookmarks...", parsed.Found),
		Total:     parsed.Found,
		IsRunning: true,
	})

	created, err := s.store.ImportBatch(ctx, parsed.Params(target))
	if err != nil {
		s.endBulk()
		s.logger.Error("import failed", diag.Attr(diag.GeneralError), "reason", "IMPORT_FAILED", "error", err)
		s.publish(dispatch.Progress{Status: "Import failed", IsComplete: true})
		return ImportResult{}, fmt.Errorf("importing bookmarks: %w", err)
	}

	res := ImportResult{
		Found:    parsed.Found,
		Imported: len(created),
		Skipped:  parsed.Found - len(created),
		Folder:   target,
	}
	s.publish(dispatch.Progress{
		Status:     fmt.Sprintf("Import complete, %d bookmarks imported", res.Imported),
		Total:      res.Found,
		Processed:  res.Found,
		Success:    res.Imported,
		Failed:     res.Skipped,
		IsComplete: true,
	})
	s.logger.Info("imported bookmarks", "found", res.Found, "imported", res.Imported, "skipped", res.Skipped, "mode", mode.String())

	urls := make([]string, 0, len(created))
	for _, b := range created {
		urls = append(urls, b.URL)
	}
	tasks := s.analysisTasks(urls, mode)
	res.Scheduled = len(tasks)
	if len(tasks) == 0 {
		s.endBulk()
		return res, nil
	}

	go s.runBulk(s.base, "import analysis", tasks, s.cfg.ImportStaggerDelay.Std())
	return res, nil
}

// Wait blocks until no bulk run is in progress or ctx is done.
func (s *Service) Wait(ctx context.Context) error {
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()
	for {
		s.mu.Lock()
		running := s.bulkRunning
		s.mu.Unlock()
		if !running {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
