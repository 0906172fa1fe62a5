package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/kirillkom/paperless-archiver/internal/core/domain"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()
	if cfg.PaperlessURL != "http://localhost:8000" {
		t.Fatalf("unexpected default url: %s", cfg.PaperlessURL)
	}
	if cfg.VerifyTimeout != 3*time.Minute {
		t.Fatalf("unexpected default verify timeout: %s", cfg.VerifyTimeout)
	}
	if cfg.NATSSubject != "documents.archive" {
		t.Fatalf("unexpected default subject: %s", cfg.NATSSubject)
	}
}

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("PAPERLESS_URL", "https://paperless.example.com")
	t.Setenv("VERIFY_POLL_INTERVAL", "500ms")
	t.Setenv("PAPERLESS_REQUESTS_PER_SECOND", "2.5")

	cfg := Load()
	if cfg.PaperlessURL != "https://paperless.example.com" {
		t.Fatalf("env url not applied: %s", cfg.PaperlessURL)
	}
	if cfg.VerifyPollInterval != 500*time.Millisecond {
		t.Fatalf("env poll interval not applied: %s", cfg.VerifyPollInterval)
	}
	if cfg.RequestsPerSecond != 2.5 {
		t.Fatalf("env rate not applied: %f", cfg.RequestsPerSecond)
	}
}

func TestLoadFieldTableDefault(t *testing.T) {
	table, err := LoadFieldTable("")
	if err != nil {
		t.Fatalf("LoadFieldTable() error = %v", err)
	}
	if table["year"].Type != domain.FieldTypeInteger {
		t.Fatalf("expected integer year in default table, got %+v", table["year"])
	}
}

func TestLoadFieldTableFromYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fields.yaml")
	content := []byte("case_number:\n  label: Case Number\n  type: string\n")
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	table, err := LoadFieldTable(path)
	if err != nil {
		t.Fatalf("LoadFieldTable() error = %v", err)
	}
	spec, ok := table["case_number"]
	if !ok || spec.Label != "Case Number" || spec.Type != domain.FieldTypeString {
		t.Fatalf("unexpected table: %+v", table)
	}
}

func TestLoadFieldTableEmptyFileFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.yaml")
	if err := os.WriteFile(path, []byte("{}\n"), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	if _, err := LoadFieldTable(path); err == nil {
		t.Fatalf("expected error for empty table")
	}
}
