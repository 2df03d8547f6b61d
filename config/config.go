// Package config loads the run configuration. Precedence, lowest first:
// defaults, config file, environment (optionally seeded from a .env file),
// command-line flags (applied by the caller).
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// DefaultCommonInterfacesFolderName is used under src/common when no
// destination folder is configured.
const DefaultCommonInterfacesFolderName = "schemas-to-ts"

// Environment variables read by ApplyEnv.
const (
	EnvDestinationFolder          = "SCHEMAS_TO_TS_DESTINATION_FOLDER"
	EnvCommonInterfacesFolderName = "SCHEMAS_TO_TS_COMMON_INTERFACES_FOLDER_NAME"
	EnvLogLevel                   = "SCHEMAS_TO_TS_LOG_LEVEL"
	EnvExclude                    = "SCHEMAS_TO_TS_EXCLUDE"
	EnvKeepOrphanBarrels          = "SCHEMAS_TO_TS_KEEP_ORPHAN_BARRELS"
)

// Config is the plugin configuration relevant to writing output.
type Config struct {
	DestinationFolder          string   `yaml:"destinationFolder" toml:"destinationFolder"`
	CommonInterfacesFolderName string   `yaml:"commonInterfacesFolderName" toml:"commonInterfacesFolderName"`
	Exclude                    []string `yaml:"exclude" toml:"exclude"`
	LogLevel                   string   `yaml:"logLevel" toml:"logLevel"`
	KeepOrphanBarrels          bool     `yaml:"keepOrphanBarrels" toml:"keepOrphanBarrels"`
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		CommonInterfacesFolderName: DefaultCommonInterfacesFolderName,
		LogLevel:                   "info",
	}
}

// Load reads a YAML or TOML file over the defaults. An empty path returns
// the defaults; a named file that does not exist is an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &cfg)
	case ".toml":
		err = toml.Unmarshal(data, &cfg)
	default:
		return cfg, fmt.Errorf("unsupported config format %q (want .yaml, .yml or .toml)", filepath.Ext(path))
	}
	if err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}

	cfg.normalize()
	return cfg, nil
}

// ApplyEnv loads envFile if it exists, then overlays any set variables.
func (c *Config) ApplyEnv(envFile string) error {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("loading env file %s: %w", envFile, err)
		}
	}

	if v, ok := os.LookupEnv(EnvDestinationFolder); ok {
		c.DestinationFolder = strings.TrimSpace(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvCommonInterfacesFolderName)); v != "" {
		c.CommonInterfacesFolderName = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		c.LogLevel = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvExclude)); v != "" {
		for _, pattern := range strings.Split(v, ",") {
			if pattern = strings.TrimSpace(pattern); pattern != "" {
				c.Exclude = append(c.Exclude, pattern)
			}
		}
	}
	if v := strings.TrimSpace(os.Getenv(EnvKeepOrphanBarrels)); v != "" {
		keep, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("parsing %s: %w", EnvKeepOrphanBarrels, err)
		}
		c.KeepOrphanBarrels = keep
	}

	c.normalize()
	return nil
}

func (c *Config) normalize() {
	c.DestinationFolder = strings.TrimSpace(c.DestinationFolder)
	if strings.TrimSpace(c.CommonInterfacesFolderName) == "" {
		c.CommonInterfacesFolderName = DefaultCommonInterfacesFolderName
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}
