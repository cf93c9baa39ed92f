package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Port        string `yaml:"port"`
	GinMode     string `yaml:"gin_mode"`
	Environment string `yaml:"environment"`
	LogLevel    string `yaml:"log_level"`

	DBDriver   string `yaml:"db_driver"`
	DBHost     string `yaml:"db_host"`
	DBPort     string `yaml:"db_port"`
	DBUser     string `yaml:"db_user"`
	DBPassword string `yaml:"db_password"`
	DBName     string `yaml:"db_name"`
	DBPath     string `yaml:"db_path"`

	RedisHost     string `yaml:"redis_host"`
	RedisPort     string `yaml:"redis_port"`
	SessionSecret string `yaml:"session_secret"`

	OpenAIAPIKey   string        `yaml:"openai_api_key"`
	OpenAIModel    string        `yaml:"openai_model"`
	DistillTimeout time.Duration `yaml:"distill_timeout"`

	ImportDefaultPassword string `yaml:"import_default_password"`
}

// Load reads configuration from the environment. A .env file is loaded first
// when present, and a YAML file named by CONFIG_FILE may supply values that
// the environment leaves unset.
func Load() (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	fileCfg := &Config{}
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		var err error
		fileCfg, err = LoadFile(path)
		if err != nil {
			return nil, err
		}
	}

	timeout, err := time.ParseDuration(getEnv("DISTILL_TIMEOUT", durationOr(fileCfg.DistillTimeout, "30s")))
	if err != nil {
		return nil, fmt.Errorf("invalid DISTILL_TIMEOUT: %w", err)
	}

	return &Config{
		Port:        getEnv("PORT", or(fileCfg.Port, "8080")),
		GinMode:     getEnv("GIN_MODE", or(fileCfg.GinMode, "debug")),
		Environment: getEnv("APP_ENV", or(fileCfg.Environment, "development")),
		LogLevel:    getEnv("LOG_LEVEL", or(fileCfg.LogLevel, "info")),

		DBDriver:   getEnv("DB_DRIVER", or(fileCfg.DBDriver, "mysql")),
		DBHost:     getEnv("DB_HOST", or(fileCfg.DBHost, "localhost")),
		DBPort:     getEnv("DB_PORT", or(fileCfg.DBPort, "3306")),
		DBUser:     getEnv("DB_USER", or(fileCfg.DBUser, "crewdesk")),
		DBPassword: getEnv("DB_PASSWORD", or(fileCfg.DBPassword, "crewdesk")),
		DBName:     getEnv("DB_NAME", or(fileCfg.DBName, "crewdesk")),
		DBPath:     getEnv("DB_PATH", or(fileCfg.DBPath, "crewdesk.db")),

		RedisHost:     getEnv("REDIS_HOST", fileCfg.RedisHost),
		RedisPort:     getEnv("REDIS_PORT", or(fileCfg.RedisPort, "6379")),
		SessionSecret: getEnv("SESSION_SECRET", or(fileCfg.SessionSecret, "default-secret-key-change-me")),

		OpenAIAPIKey:   getEnv("OPENAI_API_KEY", fileCfg.OpenAIAPIKey),
		OpenAIModel:    getEnv("OPENAI_MODEL", or(fileCfg.OpenAIModel, "gpt-4o")),
		DistillTimeout: timeout,

		ImportDefaultPassword: getEnv("IMPORT_DEFAULT_PASSWORD", or(fileCfg.ImportDefaultPassword, "changeme")),
	}, nil
}

// LoadFile parses a YAML configuration file.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return cfg, nil
}

// IsProduction reports whether cookies and logs should use production settings.
func (c *Config) IsProduction() bool {
	return c.GinMode == "release" || c.Environment == "production"
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func or(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

func durationOr(d time.Duration, fallback string) string {
	if d == 0 {
		return fallback
	}
	return d.String()
}
