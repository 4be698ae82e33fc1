package config

import (
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env       string          `yaml:"env" env-default:"prod"`
	Source    SourceConfig    `yaml:"source"`
	Parser    ParserConfig    `yaml:"parser"`
	Classify  ClassifyConfig  `yaml:"classify"`
	Aggregate AggregateConfig `yaml:"aggregate"`
	HTTP      HTTPConfig      `yaml:"http"`
	Health    HealthConfig    `yaml:"health"`
	Log       LogConfig       `yaml:"log"`
	Menu      MenuRef         `yaml:"menu"`
}

type SourceConfig struct {
	URL string `yaml:"url" env:"SOURCE_URL" env-required:"true"`
	// Timeout of zero leaves the fetch unbounded.
	Timeout time.Duration `yaml:"timeout" env-default:"0s"`
}

type ParserConfig struct {
	Delimiter string `yaml:"delimiter" env-default:","`
}

type ClassifyConfig struct {
	StateColumns []string `yaml:"state_columns" env-default:"State,STATUS"`
}

type AggregateConfig struct {
	SampleInterval time.Duration `yaml:"sample_interval" env-default:"5s"`
}

type HTTPConfig struct {
	Address string `yaml:"address" env:"HTTP_ADDRESS" env-default:":8081"`
}

type HealthConfig struct {
	Address string `yaml:"address" env-default:":8080"`
}

type LogConfig struct {
	Level  string `yaml:"level" env-default:"info"`
	Format string `yaml:"format" env-default:"json"`
	File   string `yaml:"file"`
}

type MenuRef struct {
	ConfigPath string `yaml:"config_path"`
}

const defaultConfigPath = "config/config.yaml"

// ResolvePath picks the config file: the explicit path, then CONFIG_PATH,
// then the default location.
func ResolvePath(configPath string) string {
	switch {
	case configPath != "":
		return configPath
	case os.Getenv("CONFIG_PATH") != "":
		return os.Getenv("CONFIG_PATH")
	default:
		return defaultConfigPath
	}
}

// Load reads the YAML file at path. Environment variables override it and
// env-default tags fill whatever both leave unset.
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("config file not found: %s: %w", path, err)
	}

	var cfg Config
	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	if cfg.Aggregate.SampleInterval <= 0 {
		return nil, fmt.Errorf("aggregate.sample_interval must be positive, got %s", cfg.Aggregate.SampleInterval)
	}

	return &cfg, nil
}

func MustLoad(configPath string) *Config {
	cfg, err := Load(ResolvePath(configPath))
	if err != nil {
		panic(err.Error())
	}
	return cfg
}
