package pkgconfig

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestViperConfigValues(t *testing.T) {
	path := writeConfigFile(t, "int: 42\nbool: true\nstring: hi\ntimeout: 1500ms\narray: a,b,c\n")

	cfg, err := NewViper(path)
	if err != nil {
		t.Fatalf("NewViper: %v", err)
	}
	defer func() {
		if err := cfg.Close(); err != nil {
			t.Fatalf("Close: %v", err)
		}
	}()

	if got := cfg.GetInt("int"); got != 42 {
		t.Fatalf("GetInt: expected 42, got %d", got)
	}
	if got := cfg.GetBool("bool"); got != true {
		t.Fatalf("GetBool: expected true, got %v", got)
	}
	if got := cfg.GetString("string"); got != "hi" {
		t.Fatalf("GetString: expected hi, got %q", got)
	}
	if got := cfg.GetDuration("timeout"); got != 1500*time.Millisecond {
		t.Fatalf("GetDuration: expected 1.5s, got %v", got)
	}
	if got := cfg.GetArray("array"); !reflect.DeepEqual(got, []string{"a", "b", "c"}) {
		t.Fatalf("GetArray: unexpected value: %#v", got)
	}
}

func TestViperArrayFromYAMLSequence(t *testing.T) {
	path := writeConfigFile(t, "instrument:\n  disabled_envs:\n    - test\n    - \" bench \"\n")
	cfg, err := NewViper(path)
	if err != nil {
		t.Fatalf("NewViper: %v", err)
	}

	if got := cfg.GetArray("instrument.disabled_envs"); !reflect.DeepEqual(got, []string{"test", "bench"}) {
		t.Fatalf("GetArray: unexpected value: %#v", got)
	}
	if got := cfg.GetArray("missing"); len(got) != 0 {
		t.Fatalf("GetArray: expected empty for missing key, got %#v", got)
	}
}

func TestViperDefaultsAndDuration(t *testing.T) {
	path := writeConfigFile(t, "shutdown:\n  timeout: 3s\n")
	cfg, err := NewViper(path)
	if err != nil {
		t.Fatalf("NewViper: %v", err)
	}

	if got := cfg.GetDuration("shutdown.timeout"); got != 3*time.Second {
		t.Fatalf("GetDuration: expected 3s, got %v", got)
	}
	if got := cfg.GetString("instrument.sink"); got != "slog" {
		t.Fatalf("expected default sink slog, got %q", got)
	}
	if !cfg.GetBool("instrument.enabled") {
		t.Fatalf("expected instrumentation enabled by default")
	}
}

func TestViperEnvOverride(t *testing.T) {
	path := writeConfigFile(t, "app:\n  env: development\n")
	t.Setenv("APP_APP_ENV", "test")

	cfg, err := NewViper(path)
	if err != nil {
		t.Fatalf("NewViper: %v", err)
	}

	if got := cfg.GetString("app.env"); got != "test" {
		t.Fatalf("expected env override, got %q", got)
	}
}

func TestNewViperMissingFile(t *testing.T) {
	if _, err := NewViper(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatalf("expected error for missing config file")
	}
}

var _ Config = (*Viper)(nil)
