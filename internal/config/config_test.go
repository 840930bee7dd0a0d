package config

import (
	"os"
	"path/filepath"
	"testing"
)

const validYAML = `
data_dir: "/var/lib/liftlog"
dataset:
  dir: "/srv/exercisedb"
query:
  search_threshold: 0.3
  page_size: 50
progression:
  increase_factor: 1.025
  deload_factor: 0.9
  low_rep_ratio: 0.75
`

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

// TestLoadValid verifies that a well-formed YAML config loads with all fields
// populated.
func TestLoadValid(t *testing.T) {
	cfg, err := Load(writeTemp(t, validYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.DataDir != "/var/lib/liftlog" {
		t.Errorf("data_dir = %q, want %q", cfg.DataDir, "/var/lib/liftlog")
	}
	if cfg.Dataset.Dir != "/srv/exercisedb" {
		t.Errorf("dataset.dir = %q, want %q", cfg.Dataset.Dir, "/srv/exercisedb")
	}
	if cfg.Query.SearchThreshold != 0.3 {
		t.Errorf("query.search_threshold = %v, want 0.3", cfg.Query.SearchThreshold)
	}
	if cfg.Query.PageSize != 50 {
		t.Errorf("query.page_size = %d, want 50", cfg.Query.PageSize)
	}
	if cfg.Progression.IncreaseFactor != 1.025 {
		t.Errorf("progression.increase_factor = %v, want 1.025", cfg.Progression.IncreaseFactor)
	}
}

// TestLoadEmptyPath verifies that an empty path yields the built-in defaults.
func TestLoadEmptyPath(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Query.SearchThreshold != DefaultSearchThreshold {
		t.Errorf("search_threshold = %v, want %v", cfg.Query.SearchThreshold, DefaultSearchThreshold)
	}
	if cfg.Query.PageSize != DefaultPageSize {
		t.Errorf("page_size = %d, want %d", cfg.Query.PageSize, DefaultPageSize)
	}
	if cfg.Progression.LowRepRatio != DefaultLowRepRatio {
		t.Errorf("low_rep_ratio = %v, want %v", cfg.Progression.LowRepRatio, DefaultLowRepRatio)
	}
}

// TestPartialFileGetsDefaults verifies that fields absent from the file are
// filled with defaults rather than zero values.
func TestPartialFileGetsDefaults(t *testing.T) {
	cfg, err := Load(writeTemp(t, "query:\n  page_size: 5\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Query.PageSize != 5 {
		t.Errorf("page_size = %d, want 5", cfg.Query.PageSize)
	}
	if cfg.Query.SearchThreshold != DefaultSearchThreshold {
		t.Errorf("search_threshold = %v, want default %v", cfg.Query.SearchThreshold, DefaultSearchThreshold)
	}
	if cfg.Progression.IncreaseFactor != DefaultIncreaseFactor {
		t.Errorf("increase_factor = %v, want default %v", cfg.Progression.IncreaseFactor, DefaultIncreaseFactor)
	}
}

// TestEnvOverride verifies that LIFTLOG_ env vars take precedence over YAML
// values.
func TestEnvOverride(t *testing.T) {
	t.Setenv("LIFTLOG_DATA_DIR", "/tmp/override")
	t.Setenv("LIFTLOG_QUERY_THRESHOLD", "0.25")
	t.Setenv("LIFTLOG_QUERY_PAGE_SIZE", "10")

	cfg, err := Load(writeTemp(t, validYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.DataDir != "/tmp/override" {
		t.Errorf("data_dir = %q, want env override", cfg.DataDir)
	}
	if cfg.Query.SearchThreshold != 0.25 {
		t.Errorf("search_threshold = %v, want 0.25", cfg.Query.SearchThreshold)
	}
	if cfg.Query.PageSize != 10 {
		t.Errorf("page_size = %d, want 10", cfg.Query.PageSize)
	}
}

// TestValidateRejectsBadValues verifies the validation pass.
func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name string
		yaml string
	}{
		{"threshold above one", "query:\n  search_threshold: 1.5\n"},
		{"negative page size", "query:\n  page_size: -1\n"},
		{"deload above one", "progression:\n  deload_factor: 1.2\n"},
		{"increase below one", "progression:\n  increase_factor: 0.9\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Load(writeTemp(t, tc.yaml)); err == nil {
				t.Error("expected validation error, got nil")
			}
		})
	}
}

// TestLoadMissingFile verifies that a nonexistent explicit path is an error.
func TestLoadMissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/config.yaml"); err == nil {
		t.Error("expected error for missing file, got nil")
	}
}
