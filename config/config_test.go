package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap/zapcore"
)

func TestDefaultConfig(t *testing.T) {
	cfg := Default()

	if cfg.Loader.Prefix != "bindings" {
		t.Errorf("Expected prefix 'bindings', got '%s'", cfg.Loader.Prefix)
	}
	if cfg.Loader.Extension != ".node" {
		t.Errorf("Expected extension '.node', got '%s'", cfg.Loader.Extension)
	}
	if cfg.Loader.LinkerPath != "/usr/bin/ldd" {
		t.Errorf("Expected linker path '/usr/bin/ldd', got '%s'", cfg.Loader.LinkerPath)
	}
	if cfg.Repeater.Interval != 500*time.Millisecond {
		t.Errorf("Expected repeater interval 500ms, got %s", cfg.Repeater.Interval)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoad_FromFile(t *testing.T) {
	clearEnv(t)

	path := writeConfig(t, `
loader:
  dir: /opt/app
  packagePaths:
    - /opt/app/packages
    - /usr/lib/bindings
  linkerPath: /lib/ld-musl-x86_64.so.1
repeater:
  interval: 250ms
engine:
  memoryLimitPages: 256
logging:
  level: debug
  format: json
`)

	cfg, source, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if source != path {
		t.Errorf("Expected source %s, got %s", path, source)
	}
	if cfg.Loader.Dir != "/opt/app" {
		t.Errorf("Expected dir '/opt/app', got '%s'", cfg.Loader.Dir)
	}
	if !reflect.DeepEqual(cfg.Loader.PackagePaths, []string{"/opt/app/packages", "/usr/lib/bindings"}) {
		t.Errorf("unexpected package paths: %v", cfg.Loader.PackagePaths)
	}
	if cfg.Loader.LinkerPath != "/lib/ld-musl-x86_64.so.1" {
		t.Errorf("unexpected linker path: %s", cfg.Loader.LinkerPath)
	}
	if cfg.Repeater.Interval != 250*time.Millisecond {
		t.Errorf("Expected 250ms, got %s", cfg.Repeater.Interval)
	}
	if cfg.Engine.MemoryLimitPages != 256 {
		t.Errorf("Expected 256 pages, got %d", cfg.Engine.MemoryLimitPages)
	}
	// untouched keys keep defaults
	if cfg.Loader.Prefix != "bindings" {
		t.Errorf("Expected default prefix, got '%s'", cfg.Loader.Prefix)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	clearEnv(t)

	path := writeConfig(t, `
loader:
  dir: /from/file
  prefix: fromfile
repeater:
  interval: 1s
`)
	t.Setenv("BINDINGS_DIR", "/from/env")
	t.Setenv("BINDINGS_PATH", strings.Join([]string{"/a", "/b"}, string(os.PathListSeparator)))
	t.Setenv("BINDINGS_REPEAT_INTERVAL", "100ms")
	t.Setenv("BINDINGS_LOG_LEVEL", "warn")
	t.Setenv("BINDINGS_OS", "linux")
	t.Setenv("BINDINGS_ARCH", "arm64")
	t.Setenv("BINDINGS_INTERPRETER", "1")

	cfg, _, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Loader.Dir != "/from/env" {
		t.Errorf("Expected env dir, got '%s'", cfg.Loader.Dir)
	}
	if cfg.Loader.Prefix != "fromfile" {
		t.Errorf("Expected file prefix, got '%s'", cfg.Loader.Prefix)
	}
	if !reflect.DeepEqual(cfg.Loader.PackagePaths, []string{"/a", "/b"}) {
		t.Errorf("unexpected package paths: %v", cfg.Loader.PackagePaths)
	}
	if cfg.Repeater.Interval != 100*time.Millisecond {
		t.Errorf("Expected 100ms, got %s", cfg.Repeater.Interval)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("Expected warn, got %s", cfg.Logging.Level)
	}
	if cfg.Loader.OS != "linux" || cfg.Loader.Arch != "arm64" {
		t.Errorf("unexpected host override: %s/%s", cfg.Loader.OS, cfg.Loader.Arch)
	}
	if !cfg.Engine.Interpreter {
		t.Error("Expected interpreter enabled")
	}
}

func TestLoad_ConfigEnvVar(t *testing.T) {
	clearEnv(t)

	path := writeConfig(t, "loader:\n  prefix: viaenv\n")
	t.Setenv("BINDINGS_CONFIG", path)

	cfg, source, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if source != path {
		t.Errorf("Expected source %s, got %s", path, source)
	}
	if cfg.Loader.Prefix != "viaenv" {
		t.Errorf("Expected prefix 'viaenv', got '%s'", cfg.Loader.Prefix)
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		env  map[string]string
	}{
		{name: "bad yaml", yaml: "loader: [unclosed"},
		{name: "bad interval env", yaml: "{}", env: map[string]string{"BINDINGS_REPEAT_INTERVAL": "soon"}},
		{name: "bad pages env", yaml: "{}", env: map[string]string{"BINDINGS_MEMORY_LIMIT_PAGES": "-1"}},
		{name: "bad level", yaml: "logging:\n  level: loud\n"},
		{name: "bad format", yaml: "logging:\n  format: xml\n"},
		{name: "zero interval", yaml: "repeater:\n  interval: 0s\n"},
		{name: "prefix with slash", yaml: "loader:\n  prefix: a/b\n"},
		{name: "extension without dot", yaml: "loader:\n  extension: node\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			path := writeConfig(t, tt.yaml)
			if _, _, err := Load(path); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	clearEnv(t)
	if _, _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing explicit file")
	}
}

func TestParse(t *testing.T) {
	cfg, err := Parse([]byte("loader:\n  extension: .wasm\n"))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if cfg.Loader.Extension != ".wasm" {
		t.Errorf("Expected .wasm, got %s", cfg.Loader.Extension)
	}
}

func TestSearchPaths(t *testing.T) {
	cfg := Default()
	got := cfg.SearchPaths("/opt/app")
	want := []string{filepath.Join("/opt/app", "packages")}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}

	cfg.Loader.PackagePaths = []string{"/x"}
	if got := cfg.SearchPaths("/opt/app"); !reflect.DeepEqual(got, []string{"/x"}) {
		t.Errorf("Expected configured paths, got %v", got)
	}
}

func TestArtifactDir(t *testing.T) {
	cfg := Default()
	cfg.Loader.Dir = "/srv/bindings"
	dir, err := cfg.ArtifactDir()
	if err != nil || dir != "/srv/bindings" {
		t.Errorf("unexpected dir %q, %v", dir, err)
	}

	cfg.Loader.Dir = ""
	dir, err = cfg.ArtifactDir()
	if err != nil {
		t.Fatalf("ArtifactDir failed: %v", err)
	}
	if dir == "" {
		t.Error("expected executable directory")
	}
}

func TestNewLogger(t *testing.T) {
	for _, format := range []string{"console", "json"} {
		logger, err := LoggingConfig{Level: "debug", Format: format}.NewLogger()
		if err != nil {
			t.Fatalf("%s: NewLogger failed: %v", format, err)
		}
		if !logger.Core().Enabled(zapcore.DebugLevel) {
			t.Errorf("%s: debug should be enabled", format)
		}
	}

	if _, err := (LoggingConfig{Level: "loud", Format: "json"}).NewLogger(); err == nil {
		t.Error("expected error for bad level")
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bindings.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"BINDINGS_CONFIG", "BINDINGS_DIR", "BINDINGS_PREFIX", "BINDINGS_EXTENSION",
		"BINDINGS_PATH", "BINDINGS_LINKER_PATH", "BINDINGS_OS", "BINDINGS_ARCH",
		"BINDINGS_MEMORY_LIMIT_PAGES", "BINDINGS_INTERPRETER", "BINDINGS_REPEAT_INTERVAL",
		"BINDINGS_LOG_LEVEL", "BINDINGS_LOG_FORMAT",
	} {
		t.Setenv(key, "")
	}
}
