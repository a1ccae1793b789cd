package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// isolateEnv clears every variable Load reads so host settings and a
// stray .env file cannot leak into a test.
func isolateEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{EnvConfigPath, EnvDataDir, EnvLogLevel, EnvHTTPAddr, EnvHistory} {
		t.Setenv(key, "")
	}
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_DATA_HOME", t.TempDir())
	t.Chdir(t.TempDir())
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

// --- Default ---

func TestDefault_IsValid(t *testing.T) {
	isolateEnv(t)
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default() should validate: %v", err)
	}
	if cfg.Server.Transport != "stdio" {
		t.Errorf("Transport = %s, want stdio", cfg.Server.Transport)
	}
	if !cfg.History.Enabled {
		t.Error("history should be enabled by default")
	}
}

func TestDefault_DataDirFollowsXDG(t *testing.T) {
	isolateEnv(t)
	xdg := t.TempDir()
	t.Setenv("XDG_DATA_HOME", xdg)
	if got := Default().History.DataDir; got != filepath.Join(xdg, "storybeat") {
		t.Errorf("DataDir = %s, want under %s", got, xdg)
	}
}

// --- Load ---

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	isolateEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Limits != DefaultLimits() {
		t.Errorf("Limits = %+v, want defaults", cfg.Limits)
	}
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	isolateEnv(t)
	path := writeConfig(t, `
server:
  transport: http
  http_addr: "localhost:9000"
log:
  level: debug
  format: json
limits:
  max_scenes: 50
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Server.Transport != "http" || cfg.Server.HTTPAddr != "localhost:9000" {
		t.Errorf("Server = %+v", cfg.Server)
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != "json" {
		t.Errorf("Log = %+v", cfg.Log)
	}
	if cfg.Limits.MaxScenes != 50 {
		t.Errorf("MaxScenes = %d, want 50", cfg.Limits.MaxScenes)
	}
	// Untouched fields keep their defaults.
	if cfg.Limits.BatchWorkers != DefaultLimits().BatchWorkers {
		t.Errorf("BatchWorkers = %d, want default", cfg.Limits.BatchWorkers)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	isolateEnv(t)
	dataDir := t.TempDir()
	t.Setenv(EnvDataDir, dataDir)
	t.Setenv(EnvLogLevel, "WARN")
	t.Setenv(EnvHistory, "false")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.History.DataDir != dataDir {
		t.Errorf("DataDir = %s, want %s", cfg.History.DataDir, dataDir)
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("Level = %s, want warn", cfg.Log.Level)
	}
	if cfg.History.Enabled {
		t.Error("history should be disabled by env")
	}
}

func TestLoad_BadHistoryEnv(t *testing.T) {
	isolateEnv(t)
	t.Setenv(EnvHistory, "sometimes")
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected error for unparsable STORYBEAT_HISTORY")
	}
}

func TestLoad_ConfigPathFromEnv(t *testing.T) {
	isolateEnv(t)
	path := writeConfig(t, "limits:\n  batch_workers: 9\n")
	t.Setenv(EnvConfigPath, path)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Limits.BatchWorkers != 9 {
		t.Errorf("BatchWorkers = %d, want 9", cfg.Limits.BatchWorkers)
	}
}

func TestLoad_DotEnv(t *testing.T) {
	isolateEnv(t)
	// isolateEnv set the variable to ""; unset it so godotenv may fill it.
	os.Unsetenv(EnvLogLevel)
	if err := os.WriteFile(".env", []byte(EnvLogLevel+"=error\n"), 0o644); err != nil {
		t.Fatalf("writing .env: %v", err)
	}
	t.Cleanup(func() { os.Unsetenv(EnvLogLevel) })

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Log.Level != "error" {
		t.Errorf("Level = %s, want error from .env", cfg.Log.Level)
	}
}

func TestLoad_ValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		field   string
	}{
		{"bad transport", "server:\n  transport: grpc\n", "Transport"},
		{"bad level", "log:\n  level: loud\n", "Level"},
		{"bad format", "log:\n  format: xml\n", "Format"},
		{"too many workers", "limits:\n  batch_workers: 500\n", "BatchWorkers"},
		{"bad addr", "server:\n  http_addr: \"not an address\"\n", "HTTPAddr"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolateEnv(t)
			_, err := Load(writeConfig(t, tt.content))
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.field) {
				t.Errorf("error %q should mention %s", err.Error(), tt.field)
			}
		})
	}
}

func TestLoad_MalformedYAML(t *testing.T) {
	isolateEnv(t)
	if _, err := Load(writeConfig(t, "server: [unclosed\n")); err == nil {
		t.Error("expected parse error")
	}
}

func TestLoad_ExpandsTilde(t *testing.T) {
	isolateEnv(t)
	home := t.TempDir()
	t.Setenv("HOME", home)
	cfg, err := Load(writeConfig(t, "history:\n  data_dir: ~/stories\n"))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.History.DataDir != filepath.Join(home, "stories") {
		t.Errorf("DataDir = %s, want %s", cfg.History.DataDir, filepath.Join(home, "stories"))
	}
}

// --- Path ---

func TestPath_Resolution(t *testing.T) {
	isolateEnv(t)
	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)
	if got := Path(); got != filepath.Join(xdg, "storybeat", "config.yaml") {
		t.Errorf("Path() = %s", got)
	}
	t.Setenv(EnvConfigPath, "/etc/storybeat.yaml")
	if got := Path(); got != "/etc/storybeat.yaml" {
		t.Errorf("Path() = %s, want env path", got)
	}
}

// --- Marshal ---

func TestMarshal_RoundTrip(t *testing.T) {
	isolateEnv(t)
	cfg := Default()
	data, err := cfg.Marshal()
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}
	if !strings.Contains(string(data), "max_scenes: 500") {
		t.Errorf("YAML should use snake_case keys:\n%s", data)
	}
	loaded, err := Load(writeConfig(t, string(data)))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if loaded.Limits != cfg.Limits || loaded.Server != cfg.Server {
		t.Errorf("round trip mismatch: %+v vs %+v", loaded, cfg)
	}
}
