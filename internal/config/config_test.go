package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

// =============================================================================
// GetDefault Tests
// =============================================================================

func TestGetDefault(t *testing.T) {
	cfg := GetDefault()

	if cfg == nil {
		t.Fatal("GetDefault returned nil")
	}

	want := []string{"images", "documents", "videos", "audio", "archives", "code"}
	if got := cfg.FileTypes.Names(); !reflect.DeepEqual(got, want) {
		t.Errorf("expected categories %v, got %v", want, got)
	}
	if cfg.DefaultOrganizeMethod != "type" {
		t.Errorf("expected default method 'type', got %q", cfg.DefaultOrganizeMethod)
	}
	if cfg.DateFormat != "%Y-%m" {
		t.Errorf("expected date format '%%Y-%%m', got %q", cfg.DateFormat)
	}
	if cfg.DuplicatesFolder != "duplicates" {
		t.Errorf("expected duplicates folder 'duplicates', got %q", cfg.DuplicatesFolder)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should be valid: %v", err)
	}
}

func TestGetDefaultReturnsFreshCopy(t *testing.T) {
	a := GetDefault()
	a.FileTypes.Add("images", ".heic")

	b := GetDefault()
	exts, _ := b.FileTypes.Lookup("images")
	for _, e := range exts {
		if e == ".heic" {
			t.Fatal("GetDefault shares state between calls")
		}
	}
}

// =============================================================================
// Load Tests
// =============================================================================

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	return path
}

func TestLoadNonExistentFile(t *testing.T) {
	cfg, err := Load("/nonexistent/path/config.json")
	if err != nil {
		t.Fatalf("Load should not error for non-existent file: %v", err)
	}
	if cfg == nil {
		t.Fatal("Load returned nil config")
	}
	if len(cfg.FileTypes) != len(DefaultFileTypes()) {
		t.Error("expected default file types")
	}
}

func TestLoadJSONKeepsCategoryOrder(t *testing.T) {
	path := writeConfig(t, "config.json", `{
  "file_types": {
    "scans": ["PDF", ".tif"],
    "books": [".epub"]
  },
  "date_format": "%Y/%m",
  "theme": "dark",
  "create_duplicates_folder": true
}`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if got := cfg.FileTypes.Names(); !reflect.DeepEqual(got, []string{"scans", "books"}) {
		t.Errorf("expected [scans books], got %v", got)
	}
	exts, _ := cfg.FileTypes.Lookup("scans")
	if !reflect.DeepEqual(exts, []string{".pdf", ".tif"}) {
		t.Errorf("expected normalized extensions, got %v", exts)
	}
	if cfg.DateFormat != "%Y/%m" {
		t.Errorf("expected date format override, got %q", cfg.DateFormat)
	}
	// Unspecified keys keep their defaults
	if cfg.DuplicatesFolder != "duplicates" {
		t.Errorf("expected default duplicates folder, got %q", cfg.DuplicatesFolder)
	}
}

func TestLoadJSONRepeatedKeysLastWins(t *testing.T) {
	path := writeConfig(t, "config.json", `{
	"date_format": "%Y",
	"file_types": {
		"scans": [".pdf"],
		"books": [".epub"],
		"scans": [".tif"]
	},
	"date_format": "%Y-%m"
}`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.DateFormat != "%Y-%m" {
		t.Errorf("expected the last date_format, got %q", cfg.DateFormat)
	}
	if got := cfg.FileTypes.Names(); !reflect.DeepEqual(got, []string{"scans", "books"}) {
		t.Errorf("expected [scans books], got %v", got)
	}
	exts, _ := cfg.FileTypes.Lookup("scans")
	if !reflect.DeepEqual(exts, []string{".tif"}) {
		t.Errorf("expected the last scans list, got %v", exts)
	}
}

func TestLoadPartialConfig(t *testing.T) {
	path := writeConfig(t, "config.yaml", "default_organize_method: date\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.DefaultOrganizeMethod != "date" {
		t.Errorf("expected method 'date', got %q", cfg.DefaultOrganizeMethod)
	}
	if len(cfg.FileTypes) != len(DefaultFileTypes()) {
		t.Errorf("expected default file types to be kept, got %v", cfg.FileTypes.Names())
	}
}

func TestLoadTOML(t *testing.T) {
	path := writeConfig(t, "config.toml", `
hash_algorithm = "sha256"

[file_types]
videos = [".mp4"]
audio = ["mp3"]
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if got := cfg.FileTypes.Names(); !reflect.DeepEqual(got, []string{"audio", "videos"}) {
		t.Errorf("expected alphabetical categories, got %v", got)
	}
	if cfg.HashAlgorithm != "sha256" {
		t.Errorf("expected sha256, got %q", cfg.HashAlgorithm)
	}
	if cfg.DateFormat != DefaultDateFormat {
		t.Errorf("expected default date format, got %q", cfg.DateFormat)
	}
}

func TestLoadInvalidJSON(t *testing.T) {
	path := writeConfig(t, "config.json", `{"file_types": {"images": [".jpg"`)

	if _, err := Load(path); err == nil {
		t.Error("Load should fail for malformed JSON")
	}
}

func TestLoadEmptyConfig(t *testing.T) {
	path := writeConfig(t, "config.json", "")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed on empty file: %v", err)
	}
	if cfg.DefaultOrganizeMethod != DefaultOrganizeMethod {
		t.Errorf("expected defaults, got %q", cfg.DefaultOrganizeMethod)
	}
}

func TestLoadOrDefaultRecovers(t *testing.T) {
	path := writeConfig(t, "config.json", `{"file_types": ["not", "a", "map"]}`)

	cfg := LoadOrDefault(path, slog.New(slog.DiscardHandler))
	if cfg == nil {
		t.Fatal("LoadOrDefault returned nil")
	}
	if !reflect.DeepEqual(cfg.FileTypes, DefaultFileTypes()) {
		t.Errorf("expected default file types, got %v", cfg.FileTypes.Names())
	}
}

// =============================================================================
// Validate Tests
// =============================================================================

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid default", func(*Config) {}, ""},
		{"nested date folders", func(c *Config) { c.DateFormat = "%Y/%m" }, ""},
		{"unknown method", func(c *Config) { c.DefaultOrganizeMethod = "size" }, "default_organize_method"},
		{"empty date format", func(c *Config) { c.DateFormat = "" }, "date_format"},
		{"escaping date format", func(c *Config) { c.DateFormat = "../%Y" }, "date_format"},
		{"absolute date format", func(c *Config) { c.DateFormat = "/%Y" }, "date_format"},
		{"nested duplicates folder", func(c *Config) { c.DuplicatesFolder = "a/b" }, "duplicates_folder"},
		{"dot duplicates folder", func(c *Config) { c.DuplicatesFolder = ".." }, "duplicates_folder"},
		{"bad hash", func(c *Config) { c.HashAlgorithm = "crc32" }, "hash algorithm"},
		{"bad log level", func(c *Config) { c.LogLevel = "loud" }, "log_level"},
		{"bad log format", func(c *Config) { c.LogFormat = "xml" }, "log_format"},
		{"category with slash", func(c *Config) { c.FileTypes.Add("a/b", ".x") }, "invalid category"},
		{"extension without dot", func(c *Config) { c.FileTypes[0].Extensions = []string{"jpg"} }, "invalid extension"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := GetDefault()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("expected valid config, got %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

// =============================================================================
// Save Tests
// =============================================================================

func TestSaveAndLoadRoundTrip(t *testing.T) {
	for _, name := range []string{"config.json", "config.yaml", "config.toml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)

			cfg := GetDefault()
			cfg.DefaultOrganizeMethod = "duplicates"
			cfg.HashAlgorithm = "sha1"
			if _, err := cfg.AddFileType("fonts", "TTF"); err != nil {
				t.Fatalf("AddFileType failed: %v", err)
			}

			if err := Save(cfg, path); err != nil {
				t.Fatalf("Save failed: %v", err)
			}

			loaded, err := Load(path)
			if err != nil {
				t.Fatalf("Load failed: %v", err)
			}

			if loaded.DefaultOrganizeMethod != "duplicates" || loaded.HashAlgorithm != "sha1" {
				t.Errorf("scalar settings not preserved: %+v", loaded)
			}
			exts, ok := loaded.FileTypes.Lookup("fonts")
			if !ok || !reflect.DeepEqual(exts, []string{".ttf"}) {
				t.Errorf("expected fonts [.ttf], got %v (found=%v)", exts, ok)
			}
			if name != "config.toml" && !reflect.DeepEqual(loaded.FileTypes.Names(), cfg.FileTypes.Names()) {
				t.Errorf("category order not preserved: %v", loaded.FileTypes.Names())
			}
		})
	}
}

func TestSaveCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "config.json")

	if err := Save(GetDefault(), path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("config file not created: %v", err)
	}
}

func TestAddFileType(t *testing.T) {
	cfg := GetDefault()

	added, err := cfg.AddFileType("images", ".heic")
	if err != nil || !added {
		t.Fatalf("expected .heic to be added, got added=%v err=%v", added, err)
	}
	added, err = cfg.AddFileType("images", "HEIC")
	if err != nil || added {
		t.Errorf("expected duplicate extension to be ignored, got added=%v err=%v", added, err)
	}
	if _, err := cfg.AddFileType("", ".x"); err == nil {
		t.Error("expected error for empty category")
	}
	if _, err := cfg.AddFileType("misc", "."); err == nil {
		t.Error("expected error for empty extension")
	}
}

func TestGetConfigPath(t *testing.T) {
	path, err := GetConfigPath()
	if err != nil {
		t.Fatalf("GetConfigPath failed: %v", err)
	}
	if filepath.Base(path) != "config.json" {
		t.Errorf("expected config.json, got %s", path)
	}
	if filepath.Base(filepath.Dir(path)) != ".file_organizer" {
		t.Errorf("expected .file_organizer directory, got %s", path)
	}
}
