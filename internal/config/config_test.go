package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
)

func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load("", nil)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Store != StoreLevelDB || cfg.Clock != ClockManual || cfg.LogLevel != "info" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}

func TestLoadPrecedence(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "amm.yaml")
	content := "store: memory\nowner: \"0x00000000000000000000000000000000000000aa\"\nheight: 7\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("AMM_LOG_LEVEL", "debug")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.Uint64("height", 0, "")
	if err := flags.Parse([]string{"--height=42"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}

	cfg, err := Load(path, flags)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Store != StoreMemory {
		t.Fatalf("store: got %q", cfg.Store)
	}
	if cfg.Owner != "0x00000000000000000000000000000000000000aa" {
		t.Fatalf("owner: got %q", cfg.Owner)
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("log level: got %q", cfg.LogLevel)
	}
	if cfg.Height != 42 {
		t.Fatalf("height: got %d, want flag value 42", cfg.Height)
	}
}

func TestLoadRejectsUnknownStore(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("AMM_STORE", "redis")

	if _, err := Load("", nil); err == nil {
		t.Fatalf("expected error for unknown store")
	}
}

func TestParseHeight(t *testing.T) {
	if h, err := ParseHeight(" "); err != nil || h != 0 {
		t.Fatalf("blank: got %d, %v", h, err)
	}
	if h, err := ParseHeight("120"); err != nil || h != 120 {
		t.Fatalf("numeric: got %d, %v", h, err)
	}
	if _, err := ParseHeight("2024-01-01"); err == nil {
		t.Fatalf("expected error")
	}
}
