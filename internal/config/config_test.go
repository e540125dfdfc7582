package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Convert.OutputDir != "out" {
		t.Errorf("expected output dir 'out', got %s", cfg.Convert.OutputDir)
	}
	if cfg.Convert.Workers != runtime.NumCPU() {
		t.Errorf("expected %d workers, got %d", runtime.NumCPU(), cfg.Convert.Workers)
	}
	if len(cfg.Convert.Extensions) != 1 || cfg.Convert.Extensions[0] != "obj" {
		t.Errorf("expected extensions [obj], got %v", cfg.Convert.Extensions)
	}
	if !cfg.Convert.Validate {
		t.Error("expected validate to be true by default")
	}

	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "" {
		t.Errorf("expected empty log file, got %s", cfg.Logging.LogFile)
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "objtool.yaml")

	yamlContent := `
convert:
  output_dir: "meshes"
  workers: 3
  extensions: ["obj", "OBJ"]
  validate: false

logging:
  level: "debug"
  log_file: "objtool.log"
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Convert.OutputDir != "meshes" {
		t.Errorf("expected output dir 'meshes', got %s", cfg.Convert.OutputDir)
	}
	if cfg.Convert.Workers != 3 {
		t.Errorf("expected 3 workers, got %d", cfg.Convert.Workers)
	}
	if len(cfg.Convert.Extensions) != 2 {
		t.Errorf("expected 2 extensions, got %v", cfg.Convert.Extensions)
	}
	if cfg.Convert.Validate {
		t.Error("expected validate to be false")
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "objtool.log" {
		t.Errorf("expected log file 'objtool.log', got %s", cfg.Logging.LogFile)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name: "bad yaml",
			content: `
convert:
  workers: not a number
  invalid syntax here
`,
		},
		{
			name:    "zero workers",
			content: "convert:\n  workers: 0\n",
		},
		{
			name:    "no extensions",
			content: "convert:\n  extensions: []\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			configPath := filepath.Join(t.TempDir(), "invalid.yaml")
			if err := os.WriteFile(configPath, []byte(tt.content), 0644); err != nil {
				t.Fatalf("failed to write test config: %v", err)
			}

			cfg := Default()
			if err := loadFromFile(cfg, configPath); err == nil {
				t.Error("expected error loading invalid config, got nil")
			}
		})
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg := Default()
	err := loadFromFile(cfg, "/nonexistent/path/objtool.yaml")
	if err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()

	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}
	if !filepath.IsAbs(dir) {
		t.Errorf("ConfigDir should return absolute path, got %s", dir)
	}
}

func TestFindConfigFile(t *testing.T) {
	origDir, _ := os.Getwd()
	defer os.Chdir(origDir)

	tmpDir := t.TempDir()
	os.Chdir(tmpDir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "xdg"))

	if path := findConfigFile(); path != "" {
		t.Errorf("expected empty path when no config exists, got %s", path)
	}

	configPath := filepath.Join(tmpDir, "objtool.yaml")
	if err := os.WriteFile(configPath, []byte("convert:\n  workers: 2\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}

	if path := findConfigFile(); path == "" {
		t.Error("expected to find objtool.yaml in current directory")
	}
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name     string
		setup    func()
		verify   func(*Config)
		teardown func()
	}{
		{
			name:  "debug flag",
			setup: func() { *flagDebug = true },
			verify: func(cfg *Config) {
				if cfg.Logging.Level != "debug" {
					t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
				}
			},
			teardown: func() { *flagDebug = false },
		},
		{
			name:  "workers flag",
			setup: func() { *flagWorkers = 7 },
			verify: func(cfg *Config) {
				if cfg.Convert.Workers != 7 {
					t.Errorf("expected 7 workers, got %d", cfg.Convert.Workers)
				}
			},
			teardown: func() { *flagWorkers = 0 },
		},
		{
			name:  "out flag",
			setup: func() { *flagOut = "/tmp/meshes" },
			verify: func(cfg *Config) {
				if cfg.Convert.OutputDir != "/tmp/meshes" {
					t.Errorf("expected output dir /tmp/meshes, got %s", cfg.Convert.OutputDir)
				}
			},
			teardown: func() { *flagOut = "" },
		},
		{
			name:  "log flag",
			setup: func() { *flagLogFile = "run.log" },
			verify: func(cfg *Config) {
				if cfg.Logging.LogFile != "run.log" {
					t.Errorf("expected log file run.log, got %s", cfg.Logging.LogFile)
				}
			},
			teardown: func() { *flagLogFile = "" },
		},
		{
			name:  "no-validate flag",
			setup: func() { *flagNoVerify = true },
			verify: func(cfg *Config) {
				if cfg.Convert.Validate {
					t.Error("expected validate to be false with no-validate flag")
				}
			},
			teardown: func() { *flagNoVerify = false },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()
			defer tt.teardown()

			cfg := Default()
			applyFlags(cfg)

			tt.verify(cfg)
		})
	}
}

func TestLoadPriority(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "objtool.yaml")

	yamlContent := `
convert:
  output_dir: "from-file"
  workers: 2
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	*flagConfig = configPath
	*flagWorkers = 5
	defer func() {
		*flagConfig = ""
		*flagWorkers = 0
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// Workers should be from flag (5), not file (2)
	if cfg.Convert.Workers != 5 {
		t.Errorf("expected 5 workers from flag, got %d", cfg.Convert.Workers)
	}

	// Output dir should be from file since no flag override
	if cfg.Convert.OutputDir != "from-file" {
		t.Errorf("expected output dir from file, got %s", cfg.Convert.OutputDir)
	}
}

func TestLoadSearchesConfigLocations(t *testing.T) {
	origDir, _ := os.Getwd()
	defer os.Chdir(origDir)

	tmpDir := t.TempDir()
	os.Chdir(tmpDir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "xdg"))

	// No file anywhere: defaults
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load without config file failed: %v", err)
	}
	def := Default()
	if cfg.Convert.OutputDir != def.Convert.OutputDir || cfg.Convert.Workers != def.Convert.Workers {
		t.Errorf("expected defaults, got %+v", cfg.Convert)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected default log level, got %s", cfg.Logging.Level)
	}

	// User config directory, only redirected through XDG_CONFIG_HOME on Linux
	if runtime.GOOS != "linux" {
		t.Skip("user config directory is not redirectable on " + runtime.GOOS)
	}
	userDir := filepath.Join(tmpDir, "xdg", "midgard-obj")
	if err := os.MkdirAll(userDir, 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(userDir, "objtool.yaml"), []byte("convert:\n  workers: 4\n"), 0644); err != nil {
		t.Fatalf("failed to write user config: %v", err)
	}
	cfg, err = Load()
	if err != nil {
		t.Fatalf("Load with user config failed: %v", err)
	}
	if cfg.Convert.Workers != 4 {
		t.Errorf("expected 4 workers from user config, got %d", cfg.Convert.Workers)
	}

	// Working directory wins over the user config directory
	yamlContent := `
convert:
  output_dir: "local-out"
  workers: 3
logging:
  level: "warn"
`
	if err := os.WriteFile("objtool.yaml", []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write local config: %v", err)
	}
	cfg, err = Load()
	if err != nil {
		t.Fatalf("Load with local config failed: %v", err)
	}
	if cfg.Convert.Workers != 3 {
		t.Errorf("expected 3 workers from ./objtool.yaml, got %d", cfg.Convert.Workers)
	}
	if cfg.Convert.OutputDir != "local-out" {
		t.Errorf("expected output dir local-out, got %s", cfg.Convert.OutputDir)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("expected log level warn, got %s", cfg.Logging.Level)
	}
	// Unset keys keep their defaults
	if !cfg.Convert.Validate || len(cfg.Convert.Extensions) != 1 {
		t.Errorf("expected default validate/extensions, got %+v", cfg.Convert)
	}
}

func TestSaveToRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "objtool.yaml")

	cfg := Default()
	cfg.Convert.Workers = 9
	cfg.Logging.Level = "warn"
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo failed: %v", err)
	}

	loaded := Default()
	if err := loadFromFile(loaded, path); err != nil {
		t.Fatalf("failed to reload saved config: %v", err)
	}
	if loaded.Convert.Workers != 9 {
		t.Errorf("expected 9 workers, got %d", loaded.Convert.Workers)
	}
	if loaded.Logging.Level != "warn" {
		t.Errorf("expected level warn, got %s", loaded.Logging.Level)
	}
}
