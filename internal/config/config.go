package config

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const DefaultPath = "inkanalyzer.yaml"

type Config struct {
	Project struct {
		Root    string   `yaml:"root"`
		Include []string `yaml:"include"`
		Exclude []string `yaml:"exclude"`
	} `yaml:"project"`
	Storage struct {
		DBPath string `yaml:"db_path"`
	} `yaml:"storage"`
	Scan struct {
		Workers int `yaml:"workers"`
	} `yaml:"scan"`
	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
}

// Default returns the configuration used when no config file exists.
func Default() *Config {
	var cfg Config
	cfg.applyDefaults()
	return &cfg
}

func (c *Config) applyDefaults() {
	if c.Project.Root == "" {
		c.Project.Root = "."
	}
	if len(c.Project.Include) == 0 {
		c.Project.Include = []string{"**/*.rs"}
	}
	if len(c.Project.Exclude) == 0 {
		c.Project.Exclude = []string{"**/target/**", "**/.git/**", "**/node_modules/**"}
	}
	if c.Storage.DBPath == "" {
		c.Storage.DBPath = "inkanalyzer.db"
	}
	if c.Scan.Workers <= 0 {
		c.Scan.Workers = runtime.NumCPU()
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

// LoadConfig reads path, falling back to defaults when it does not exist.
func LoadConfig(path string) (*Config, error) {
	// 1. Load .env if exists
	_ = godotenv.Load()

	// 2. Load YAML config
	var cfg Config
	file, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, err
	default:
		if err := yaml.Unmarshal(file, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	}

	// 3. Override with Environment Variables if present
	if dbPath := os.Getenv("INKANALYZER_DB"); dbPath != "" {
		cfg.Storage.DBPath = dbPath
	}
	if level := os.Getenv("INKANALYZER_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}
	if workers := os.Getenv("INKANALYZER_WORKERS"); workers != "" {
		n, err := strconv.Atoi(workers)
		if err != nil {
			return nil, fmt.Errorf("invalid INKANALYZER_WORKERS %q: %w", workers, err)
		}
		cfg.Scan.Workers = n
	}

	cfg.applyDefaults()
	return &cfg, nil
}
