// Package config resolves podscript settings from defaults, an optional YAML
// file, the environment, and command line overrides, in that order.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/csheth/podscript/internal/markers"
	"github.com/csheth/podscript/internal/script"
)

const (
	defaultLibraryFile    = "podscript.json"
	defaultBorderInterval = 90 * time.Millisecond
	minBorderInterval     = 16 * time.Millisecond
	configDirName         = "podscript"
	configFileName        = "config.yaml"
)

// LLM configures the drafting backend.
type LLM struct {
	Provider string `yaml:"provider"`
	Model    string `yaml:"model"`
	Endpoint string `yaml:"endpoint"`
	APIKey   string `yaml:"api_key"`
}

// Config is the resolved runtime configuration.
type Config struct {
	LibraryPath    string        `yaml:"library"`
	CacheDir       string        `yaml:"cache_dir"`
	Cast           script.Cast   `yaml:"cast"`
	Markers        []string      `yaml:"markers"`
	BorderInterval time.Duration `yaml:"border_interval"`
	LLM            LLM           `yaml:"llm"`
	LogFile        string        `yaml:"log_file"`
	Debug          bool          `yaml:"debug"`
}

// Options controls how Load finds its inputs.
type Options struct {
	// Path is an explicit config file. A missing explicit file is an error,
	// a missing default file is not.
	Path string
	// SkipDotEnv disables reading .env from the working directory.
	SkipDotEnv bool
}

// Overrides carries command line flags. Empty fields leave values untouched.
type Overrides struct {
	LibraryPath string
	LLMModel    string
	LLMEndpoint string
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		LibraryPath:    filepath.Join(".", defaultLibraryFile),
		Cast:           script.DefaultCast,
		BorderInterval: defaultBorderInterval,
		LogFile:        "podscript-debug.log",
	}
}

// Load resolves configuration from every source except flags.
func Load(opts Options) (Config, error) {
	if !opts.SkipDotEnv {
		if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("load .env: %w", err)
		}
	}

	cfg := Default()
	path, explicit := opts.Path, opts.Path != ""
	if !explicit {
		path = DefaultPath()
	}
	if path != "" {
		if err := cfg.mergeFile(path); err != nil {
			if explicit || !errors.Is(err, os.ErrNotExist) {
				return Config{}, err
			}
		}
	}
	cfg.mergeEnv()
	cfg.Cast = cfg.Cast.Canonical()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// DefaultPath is $XDG_CONFIG_HOME/podscript/config.yaml or the platform
// equivalent. It returns "" when no config dir is known.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, configDirName, configFileName)
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var file Config
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	if file.LibraryPath != "" {
		c.LibraryPath = expandHome(file.LibraryPath)
	}
	if file.CacheDir != "" {
		c.CacheDir = expandHome(file.CacheDir)
	}
	if file.Cast.A != "" {
		c.Cast.A = file.Cast.A
	}
	if file.Cast.B != "" {
		c.Cast.B = file.Cast.B
	}
	if len(file.Markers) > 0 {
		c.Markers = file.Markers
	}
	if file.BorderInterval != 0 {
		c.BorderInterval = file.BorderInterval
	}
	if file.LogFile != "" {
		c.LogFile = expandHome(file.LogFile)
	}
	c.Debug = c.Debug || file.Debug
	mergeLLM(&c.LLM, file.LLM)
	return nil
}

func mergeLLM(dst *LLM, src LLM) {
	if src.Provider != "" {
		dst.Provider = src.Provider
	}
	if src.Model != "" {
		dst.Model = src.Model
	}
	if src.Endpoint != "" {
		dst.Endpoint = src.Endpoint
	}
	if src.APIKey != "" {
		dst.APIKey = src.APIKey
	}
}

func (c *Config) mergeEnv() {
	if v := os.Getenv("PODSCRIPT_LIBRARY"); v != "" {
		c.LibraryPath = expandHome(v)
	}
	if v := os.Getenv("PODSCRIPT_CACHE_DIR"); v != "" {
		c.CacheDir = expandHome(v)
	}
	if v := os.Getenv("PODSCRIPT_DEBUG"); v != "" && v != "0" && !strings.EqualFold(v, "false") {
		c.Debug = true
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		c.LLM.APIKey = v
		if c.LLM.Provider == "" {
			c.LLM.Provider = "openai"
		}
	}
	if c.LLM.Provider == "openai" {
		if v := os.Getenv("OPENAI_MODEL"); v != "" {
			c.LLM.Model = v
		}
		if v := os.Getenv("OPENAI_BASE_URL"); v != "" {
			c.LLM.Endpoint = strings.TrimRight(v, "/")
		}
		return
	}
	if v := os.Getenv("OLLAMA_HOST"); v != "" {
		c.LLM.Endpoint = strings.TrimRight(v, "/")
	}
	if v := os.Getenv("OLLAMA_MODEL"); v != "" {
		c.LLM.Model = v
	}
}

// Apply layers command line overrides on top of the resolved config.
func (c *Config) Apply(o Overrides) {
	if o.LibraryPath != "" {
		c.LibraryPath = expandHome(o.LibraryPath)
	}
	if o.LLMModel != "" {
		c.LLM.Model = o.LLMModel
	}
	if o.LLMEndpoint != "" {
		c.LLM.Endpoint = strings.TrimRight(o.LLMEndpoint, "/")
	}
}

// Validate reports settings the program cannot run with.
func (c Config) Validate() error {
	if strings.TrimSpace(c.LibraryPath) == "" {
		return errors.New("config: library path is empty")
	}
	if err := c.Cast.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if c.BorderInterval < minBorderInterval {
		return fmt.Errorf("config: border_interval %s is below %s", c.BorderInterval, minBorderInterval)
	}
	switch c.LLM.Provider {
	case "", "ollama", "openai":
	default:
		return fmt.Errorf("config: unknown llm provider %q", c.LLM.Provider)
	}
	return nil
}

// Palette builds the marker palette, falling back to the defaults.
func (c Config) Palette() markers.Palette {
	if len(c.Markers) == 0 {
		return markers.Default()
	}
	p := markers.New(c.Markers)
	if p.Len() == 0 {
		return markers.Default()
	}
	return p
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
