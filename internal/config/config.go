package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is the promptstack application configuration, loaded from
// .promptstack.yaml in the project root.
type Config struct {
	// TemplatesDir is the project-scoped template directory, relative to
	// the project root.
	TemplatesDir string `yaml:"templates_dir,omitempty"`
	// GlobalDir is the global fallback directory holding templates and
	// companion files shared across projects.
	GlobalDir string `yaml:"global_dir,omitempty"`

	Engine  EngineConfig  `yaml:"engine,omitempty"`
	History HistoryConfig `yaml:"history,omitempty"`
	Tokens  TokensConfig  `yaml:"tokens,omitempty"`
	FileSet FileSetConfig `yaml:"fileset,omitempty"`
	Logging LoggingConfig `yaml:"logging"`
}

// EngineConfig tunes the template expansion engine.
type EngineConfig struct {
	// MaxDepth bounds nested template expansion independently of cycle
	// detection.
	MaxDepth int `yaml:"max_depth,omitempty"`
}

// HistoryConfig configures the SQLite render history.
type HistoryConfig struct {
	Enabled bool   `yaml:"enabled,omitempty"`
	DBPath  string `yaml:"db_path,omitempty"`
}

// TokensConfig configures token estimation.
type TokensConfig struct {
	// Model selects the tiktoken encoding used for estimates.
	Model string `yaml:"model,omitempty"`
}

// FileSetConfig configures file snapshot loading.
type FileSetConfig struct {
	// IgnoreFile is an additional ignore file merged with .gitignore,
	// relative to the project root.
	IgnoreFile string `yaml:"ignore_file,omitempty"`
	// MaxFileBytes skips files larger than this when snapshotting.
	MaxFileBytes int64 `yaml:"max_file_bytes,omitempty"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		TemplatesDir: filepath.Join(".promptstack", "templates"),
		GlobalDir:    defaultGlobalDir(),
		Engine: EngineConfig{
			MaxDepth: 10,
		},
		History: HistoryConfig{
			Enabled: true,
			DBPath:  filepath.Join(".promptstack", "history.db"),
		},
		Tokens: TokensConfig{
			Model: "gpt-4o",
		},
		FileSet: FileSetConfig{
			IgnoreFile:   filepath.Join(".promptstack", ".ignore"),
			MaxFileBytes: 1 << 20,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

func defaultGlobalDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".promptstack-global"
	}
	return filepath.Join(home, ".promptstack")
}

// ConfigPath returns the config file path inside the given project root.
func ConfigPath(root string) string {
	return filepath.Join(root, ".promptstack.yaml")
}

// Load reads the config for a project root, falling back to defaults when
// no config file exists.
func Load(root string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(ConfigPath(root))
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes the config into the given project root.
func (c *Config) Save(root string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(ConfigPath(root), data, 0600)
}
