package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfigFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "relaycat.conf")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("unable to write test config: %s", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfigFile(t, `
# relaycat test config
listen-host = 0.0.0.0
listen-port = 6667
server-name = irc.example.org
motd = Welcome aboard.
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: unexpected error: %s", err)
	}

	if cfg.ListenHost != "0.0.0.0" {
		t.Errorf("ListenHost = %q, want 0.0.0.0", cfg.ListenHost)
	}
	if cfg.ListenPort != "6667" {
		t.Errorf("ListenPort = %q, want 6667", cfg.ListenPort)
	}
	if cfg.ServerName != "irc.example.org" {
		t.Errorf("ServerName = %q, want irc.example.org", cfg.ServerName)
	}
	if cfg.MOTD != "Welcome aboard." {
		t.Errorf("MOTD = %q, want %q", cfg.MOTD, "Welcome aboard.")
	}
}

func TestLoadMissingKey(t *testing.T) {
	path := writeConfigFile(t, `
listen-host = 0.0.0.0
listen-port = 6667
`)

	if _, err := Load(path); err == nil {
		t.Fatalf("Load should fail when required keys are missing")
	}
}
