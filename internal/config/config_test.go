package config

import (
	"os"
	"path/filepath"
	"testing"
)

func withCwd(t *testing.T, dir string) {
	t.Helper()
	orig, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(orig) })
}

func TestInitializeFallsBackToDefaultsWithNoConfigFile(t *testing.T) {
	withCwd(t, t.TempDir())
	if err := Initialize(); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	if got := StorePath(); got != "" {
		t.Fatalf("expected empty default db path, got %q", got)
	}
	if GitDisabled() {
		t.Fatalf("expected no-git default to be false")
	}
	if got := LockTimeout().String(); got != "30s" {
		t.Fatalf("expected default lock-timeout 30s, got %s", got)
	}
}

func TestInitializeDiscoversProjectConfigYAML(t *testing.T) {
	dir := t.TempDir()
	oapsDir := filepath.Join(dir, ".oaps")
	if err := os.MkdirAll(oapsDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	yaml := "db: /custom/store.db\nactor: alice\nno-git: true\n"
	if err := os.WriteFile(filepath.Join(oapsDir, "config.yaml"), []byte(yaml), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	sub := filepath.Join(dir, "nested", "deeper")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatalf("mkdir nested: %v", err)
	}
	withCwd(t, sub)

	if err := Initialize(); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	if got := StorePath(); got != "/custom/store.db" {
		t.Fatalf("expected db from config file, got %q", got)
	}
	if !GitDisabled() {
		t.Fatalf("expected no-git true from config file")
	}
	if got := GetIdentity(""); got != "alice" {
		t.Fatalf("expected actor from config file, got %q", got)
	}
}

func TestInitializeReadsLegacyTOML(t *testing.T) {
	dir := t.TempDir()
	tomlContents := "db = \"/legacy/store.db\"\nactor = \"legacy-bot\"\n"
	if err := os.WriteFile(filepath.Join(dir, ".oaps.toml"), []byte(tomlContents), 0o644); err != nil {
		t.Fatalf("write legacy toml: %v", err)
	}
	withCwd(t, dir)

	if err := Initialize(); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	if got := StorePath(); got != "/legacy/store.db" {
		t.Fatalf("expected db from legacy toml, got %q", got)
	}
	if got := GetIdentity(""); got != "legacy-bot" {
		t.Fatalf("expected actor from legacy toml, got %q", got)
	}
}

func TestEnvVarOverridesConfigFile(t *testing.T) {
	dir := t.TempDir()
	oapsDir := filepath.Join(dir, ".oaps")
	if err := os.MkdirAll(oapsDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(oapsDir, "config.yaml"), []byte("actor: from-file\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	withCwd(t, dir)

	t.Setenv("OAPS_ACTOR", "from-env")
	if err := Initialize(); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	if got := GetIdentity(""); got != "from-env" {
		t.Fatalf("expected env var to win, got %q", got)
	}
	if source := GetValueSource("actor"); source != SourceEnvVar {
		t.Fatalf("expected SourceEnvVar, got %v", source)
	}
}

func TestGetIdentityFlagTakesPrecedenceOverEverything(t *testing.T) {
	withCwd(t, t.TempDir())
	t.Setenv("OAPS_ACTOR", "from-env")
	if err := Initialize(); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	if got := GetIdentity("from-flag"); got != "from-flag" {
		t.Fatalf("expected flag value to win, got %q", got)
	}
}
