package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, ConfigFileName)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestNewDefaults(t *testing.T) {
	cfg := New()
	if cfg.Devtools.Port != DefaultPort {
		t.Errorf("Port = %d, want %d", cfg.Devtools.Port, DefaultPort)
	}
	if cfg.Devtools.Host != DefaultHost {
		t.Errorf("Host = %q, want %q", cfg.Devtools.Host, DefaultHost)
	}
	if cfg.Metrics.Namespace != DefaultNamespace {
		t.Errorf("Namespace = %q, want %q", cfg.Metrics.Namespace, DefaultNamespace)
	}
	if cfg.Bench.Profile != DefaultProfile {
		t.Errorf("Profile = %q, want %q", cfg.Bench.Profile, DefaultProfile)
	}
}

func TestLoadAppliesDefaults(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `{"name": "demo", "devtools": {"port": 9000}}`)

	cfg, err := Load(dir)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Name != "demo" {
		t.Errorf("Name = %q, want demo", cfg.Name)
	}
	if cfg.Devtools.Port != 9000 {
		t.Errorf("Port = %d, want 9000", cfg.Devtools.Port)
	}
	if cfg.Devtools.Host != DefaultHost {
		t.Errorf("Host = %q, want default", cfg.Devtools.Host)
	}
	if cfg.Metrics.Namespace != DefaultNamespace {
		t.Errorf("Namespace = %q, want default", cfg.Metrics.Namespace)
	}
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(t.TempDir())
	if err == nil {
		t.Fatal("expected error for missing config")
	}
}

func TestLoadInvalidJSON(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `{"name": `)

	_, err := Load(dir)
	if err == nil {
		t.Fatal("expected error for invalid JSON")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	cfg := New()
	cfg.Name = "roundtrip"
	cfg.Devtools.Port = 8123

	if err := cfg.SaveTo(filepath.Join(dir, ConfigFileName)); err != nil {
		t.Fatal(err)
	}

	loaded, err := Load(dir)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Name != "roundtrip" || loaded.Devtools.Port != 8123 {
		t.Errorf("loaded = %+v", loaded)
	}
}

func TestValidate(t *testing.T) {
	cfg := New()
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}

	cfg.Devtools.Port = 70000
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for out-of-range port")
	}
}

func TestDevtoolsAddress(t *testing.T) {
	cfg := New()
	cfg.Devtools.Host = "0.0.0.0"
	cfg.Devtools.Port = 8080
	if got := cfg.DevtoolsAddress(); got != "0.0.0.0:8080" {
		t.Errorf("DevtoolsAddress = %q", got)
	}
	if got := cfg.DevtoolsURL(); got != "http://0.0.0.0:8080" {
		t.Errorf("DevtoolsURL = %q", got)
	}
}

func TestFindProjectRoot(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, `{}`)
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatal(err)
	}

	got, err := FindProjectRoot(nested)
	if err != nil {
		t.Fatal(err)
	}
	// TempDir may be behind a symlink; compare resolved paths.
	wantResolved, _ := filepath.EvalSymlinks(root)
	gotResolved, _ := filepath.EvalSymlinks(got)
	if gotResolved != wantResolved {
		t.Errorf("FindProjectRoot = %q, want %q", got, root)
	}
}

func TestBenchProfilePath(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `{"bench": {"profileFile": "profiles/heavy.toml"}}`)

	cfg, err := Load(dir)
	if err != nil {
		t.Fatal(err)
	}
	want := filepath.Join(dir, "profiles", "heavy.toml")
	if got := cfg.BenchProfilePath(); got != want {
		t.Errorf("BenchProfilePath = %q, want %q", got, want)
	}
}
