package config

import (
	"fmt"
	"os"

	"github.com/ilyakaznacheev/cleanenv"

	"github.com/schematic-io/schematic/utils"
)

// ConfigFile is read when present; environment variables override it.
const ConfigFile = "schematic.yaml"

// Config is the ambient process configuration. Safety-gate controls are not
// here on purpose: those arrive as explicit flags per invocation.
type Config struct {
	DatabaseURL string `yaml:"database_url" env:"DATABASE_URL" env-default:"sqlite://./app.db"`
	MetaPath    string `yaml:"meta_path" env:"MODEL_META_PATH" env-default:"schema.meta.json"`
	LogLevel    string `yaml:"log_level" env:"LOG_LEVEL" env-default:"info"`
}

// Load reads .env, then the optional config file, then the environment.
func Load() (*Config, error) {
	utils.LoadEnv()

	cfg := &Config{}
	if _, err := os.Stat(ConfigFile); err == nil {
		if err := cleanenv.ReadConfig(ConfigFile, cfg); err != nil {
			return nil, fmt.Errorf("reading %s: %w", ConfigFile, err)
		}
		return cfg, nil
	}
	if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("reading environment: %w", err)
	}
	return cfg, nil
}
