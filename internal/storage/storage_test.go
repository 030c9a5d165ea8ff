package storage_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/nikbrunner/synthcache/internal/storage"
)

func TestLoadConfig_CreatesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "synthcache", "config.json")

	cfg, err := storage.LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Fatal("config file was not created")
	}

	want := storage.DefaultConfig()
	if cfg.ServerAddr != want.ServerAddr || cfg.StaggerDelay.Std() != 2*time.Second {
		t.Errorf("unexpected defaults %+v", cfg)
	}
	if cfg.ImportStaggerDelay.Std() != 1500*time.Millisecond || cfg.ItemTimeout.Std() != 10*time.Second {
		t.Errorf("unexpected delays %+v", cfg)
	}
	if cfg.RootFolder != "SynthCache" || cfg.NormalFolder != "Normal Browsing" || cfg.PrivateFolder != "Private Content" {
		t.Errorf("unexpected folder names %+v", cfg)
	}
}

func TestLoadConfig_FillsMissingFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	data := `{"dataDir": "/srv/synthcache", "staggerDelay": "500ms"}`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := storage.LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.StaggerDelay.Std() != 500*time.Millisecond {
		t.Errorf("StaggerDelay = %v", cfg.StaggerDelay.Std())
	}
	if cfg.DiagnosticsDir != filepath.Join("/srv/synthcache", "diagnostics") {
		t.Errorf("DiagnosticsDir = %q", cfg.DiagnosticsDir)
	}
	if cfg.RingSize != 500 || len(cfg.SkipURLPrefixes) == 0 {
		t.Errorf("expected defaults for missing fields, got %+v", cfg)
	}
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	t.Setenv("SYNTHCACHE_DATA_DIR", "/tmp/elsewhere")
	t.Setenv("SYNTHCACHE_ADDR", "127.0.0.1:9999")
	t.Setenv("SYNTHCACHE_STAGGER", "250ms")
	t.Setenv("SYNTHCACHE_ITEM_TIMEOUT", "not-a-duration")
	t.Setenv("SYNTHCACHE_LOG_LEVEL", "DEBUG")

	cfg, err := storage.LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.DataDir != "/tmp/elsewhere" || cfg.ServerAddr != "127.0.0.1:9999" || cfg.LogLevel != "debug" {
		t.Errorf("env overrides not applied: %+v", cfg)
	}
	if cfg.StaggerDelay.Std() != 250*time.Millisecond {
		t.Errorf("StaggerDelay = %v", cfg.StaggerDelay.Std())
	}
	if cfg.ItemTimeout.Std() != 10*time.Second {
		t.Errorf("invalid override should keep default, got %v", cfg.ItemTimeout.Std())
	}
}

func TestLoadConfig_InvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	os.WriteFile(path, []byte("{not json"), 0644)

	if _, err := storage.LoadConfig(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestSaveConfig_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	cfg := storage.DefaultConfig()
	cfg.PrivateFolder = "Vault"
	cfg.FetchTimeout = storage.Duration(3 * time.Second)

	if err := storage.SaveConfig(path, &cfg); err != nil {
		t.Fatal(err)
	}
	loaded, err := storage.LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.PrivateFolder != "Vault" || loaded.FetchTimeout.Std() != 3*time.Second {
		t.Errorf("round trip lost values: %+v", loaded)
	}
}

func TestConfig_SkipURL(t *testing.T) {
	cfg := storage.DefaultConfig()
	tests := []struct {
		url  string
		want bool
	}{
		{"chrome://settings", true},
		{"about:blank", true},
		{"moz-extension://abc/manager.html", true},
		{"JavaScript:alert(1)", true},
		{"data:text/html,hi", true},
		{"https://go.dev", false},
	}
	for _, tt := range tests {
		if got := cfg.SkipURL(tt.url); got != tt.want {
			t.Errorf("SkipURL(%q) = %v, want %v", tt.url, got, tt.want)
		}
	}
}
