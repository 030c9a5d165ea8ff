package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nikbrunner/synthcache/internal/diag"
	"github.com/nikbrunner/synthcache/internal/kv"
	"github.com/nikbrunner/synthcache/internal/model"
	"github.com/nikbrunner/synthcache/internal/service"
	"github.com/nikbrunner/synthcache/internal/storage"
)

var version = "dev"

var (
	configPath string
	incognito  bool
	noColor    bool
)

var rootCmd = &cobra.Command{
	Use:           "synthcache",
	Short:         "Auto-tagging bookmark manager with a private vault",
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.config/synthcache/config.json)")
	rootCmd.PersistentFlags().BoolVar(&incognito, "incognito", false, "act in incognito mode (private content visible)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	rootCmd.AddCommand(
		serveCmd,
		analyzeCmd,
		analyzeAllCmd,
		importCmd,
		flagPrivateCmd,
		vaultCmd,
		foldersCmd,
		diagCmd,
		listCmd,
		recentCmd,
		searchCmd,
		tagsCmd,
		statsCmd,
		exportCmd,
		manageCmd,
		keywordsCmd,
		aiScoreCmd,
	)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		printError("%v", err)
		os.Exit(1)
	}
}

// mode returns the privacy mode selected by --incognito.
func mode() model.PrivacyMode {
	if incognito {
		return model.ModeIncognito
	}
	return model.ModeNormal
}

// env is everything a command needs, opened from the config.
type env struct {
	cfg     *storage.Config
	store   *storage.SQLiteStorage
	records *kv.Store
	ring    *diag.Ring
	logger  *slog.Logger
	svc     *service.Service
}

func loadConfig() (*storage.Config, error) {
	path := configPath
	if path == "" {
		var err error
		path, err = storage.DefaultConfigFilePath()
		if err != nil {
			return nil, fmt.Errorf("resolving config path: %w", err)
		}
	}
	cfg, err := storage.LoadConfig(path)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// newLogger builds the process logger: a diagnostics ring that forwards to
// a text handler on stderr at the configured level.
func newLogger(cfg *storage.Config) (*slog.Logger, *diag.Ring) {
	text := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: parseLevel(cfg.LogLevel)})
	ring := diag.NewRing(text, cfg.RingSize)
	return slog.New(ring), ring
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func openEnv(ctx context.Context) (*env, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	logger, ring := newLogger(cfg)
	slog.SetDefault(logger)

	store, err := storage.OpenStorage(*cfg)
	if err != nil {
		return nil, fmt.Errorf("opening bookmarks: %w", err)
	}
	records, err := kv.Open(cfg.StatePath())
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("opening state: %w", err)
	}

	svc := service.New(service.Deps{
		Config:  *cfg,
		Store:   store,
		Records: records,
		Ring:    ring,
		Logger:  logger,
	})
	if _, err := svc.Start(ctx); err != nil {
		records.Close()
		store.Close()
		return nil, fmt.Errorf("resolving folders: %w", err)
	}

	return &env{cfg: cfg, store: store, records: records, ring: ring, logger: logger, svc: svc}, nil
}

func (e *env) Close() {
	if err := e.records.Close(); err != nil {
		e.logger.Error("closing state", "error", err)
	}
	if err := e.store.Close(); err != nil {
		e.logger.Error("closing bookmarks", "error", err)
	}
}

// withEnv opens the env for the duration of fn.
func withEnv(cmd *cobra.Command, fn func(ctx context.Context, e *env) error) error {
	ctx := cmd.Context()
	e, err := openEnv(ctx)
	if err != nil {
		return err
	}
	defer e.Close()
	return fn(ctx, e)
}
