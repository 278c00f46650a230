package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	pkglogger "github.com/wiremail/wiremail-backend/pkg/logger"
	"gopkg.in/yaml.v3"
)

// Config is the resolved application configuration.
// Values come from the YAML file for the current APP_ENV, with
// environment variables taking precedence for secrets and endpoints.
type Config struct {
	App      AppConfig      `yaml:"app"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	JWT      JWTConfig      `yaml:"jwt"`
	Storage  StorageConfig  `yaml:"storage"`
	Mailbox  MailboxConfig  `yaml:"mailbox"`
}

type AppConfig struct {
	Env            string `yaml:"env"`
	Port           int    `yaml:"port"`
	AllowedOrigins string `yaml:"allowed_origins"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
}

type RedisConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	PoolSize int    `yaml:"pool_size"`
}

type JWTConfig struct {
	Secret      string `yaml:"secret"`
	ExpiryHours int    `yaml:"expiry_hours"`
}

type StorageConfig struct {
	Enabled         bool   `yaml:"enabled"`
	Endpoint        string `yaml:"endpoint"`
	Region          string `yaml:"region"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
	Bucket          string `yaml:"bucket"`
	CDNURL          string `yaml:"cdn_url"`
	BasePath        string `yaml:"base_path"`
	ForcePathStyle  bool   `yaml:"force_path_style"`
}

type MailboxConfig struct {
	// ReservedRecipients are always reachable regardless of presence,
	// in the order they should appear in autocomplete.
	ReservedRecipients []string `yaml:"reserved_recipients"`
}

// Load reads the YAML config file and applies environment overrides
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	cfg.applyEnvOverrides()
	cfg.applyDefaults()

	if cfg.JWT.Secret == "" {
		return nil, fmt.Errorf("jwt secret is required (JWT_SECRET)")
	}

	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	overrideString(&c.App.Env, "APP_ENV")
	overrideInt(&c.App.Port, "APP_PORT")
	overrideString(&c.App.AllowedOrigins, "ALLOWED_ORIGINS")

	overrideString(&c.Database.Host, "DB_HOST")
	overrideInt(&c.Database.Port, "DB_PORT")
	overrideString(&c.Database.User, "DB_USER")
	overrideString(&c.Database.Password, "DB_PASSWORD")
	overrideString(&c.Database.Name, "DB_NAME")

	overrideString(&c.Redis.Host, "REDIS_HOST")
	overrideInt(&c.Redis.Port, "REDIS_PORT")
	overrideString(&c.Redis.Password, "REDIS_PASSWORD")

	overrideString(&c.JWT.Secret, "JWT_SECRET")

	overrideString(&c.Storage.Endpoint, "S3_ENDPOINT")
	overrideString(&c.Storage.AccessKeyID, "S3_ACCESS_KEY_ID")
	overrideString(&c.Storage.SecretAccessKey, "S3_SECRET_ACCESS_KEY")
	overrideString(&c.Storage.Bucket, "S3_BUCKET")

	if v := os.Getenv("RESERVED_RECIPIENTS"); v != "" {
		parts := strings.Split(v, ",")
		reserved := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				reserved = append(reserved, trimmed)
			}
		}
		c.Mailbox.ReservedRecipients = reserved
	}
}

func (c *Config) applyDefaults() {
	if c.App.Env == "" {
		c.App.Env = "local"
	}
	if c.App.Port == 0 {
		c.App.Port = 8080
	}
	if c.Database.Port == 0 {
		c.Database.Port = 3306
	}
	if c.Redis.Port == 0 {
		c.Redis.Port = 6379
	}
	if c.Redis.PoolSize == 0 {
		c.Redis.PoolSize = 10
	}
	if c.JWT.ExpiryHours == 0 {
		c.JWT.ExpiryHours = 24
	}
	if c.Storage.Region == "" {
		c.Storage.Region = "auto"
	}
}

func overrideString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func overrideInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

// LogResolved logs the effective configuration with secrets masked
func LogResolved(c *Config) {
	pkglogger.GetLogger().Info().
		Str("env", c.App.Env).
		Int("port", c.App.Port).
		Str("db", fmt.Sprintf("%s@%s:%d/%s", c.Database.User, c.Database.Host, c.Database.Port, c.Database.Name)).
		Bool("redis", c.Redis.Enabled).
		Bool("storage", c.Storage.Enabled).
		Str("jwt_secret", mask(c.JWT.Secret)).
		Strs("reserved_recipients", c.Mailbox.ReservedRecipients).
		Msg("configuration resolved")
}

func mask(s string) string {
	if len(s) <= 4 {
		return "****"
	}
	return s[:2] + "****" + s[len(s)-2:]
}
