package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	App     AppConfig     `yaml:"app"`
	Log     LogConfig     `yaml:"log"`
	DB      DBConfig      `yaml:"db"`
	Redis   RedisConfig   `yaml:"redis"`
	GRPC    GRPCConfig    `yaml:"grpc"`
	HTTP    HTTPConfig    `yaml:"http"`
	Bot     BotConfig     `yaml:"bot"`
	Session SessionConfig `yaml:"session"`
	Match   MatchConfig   `yaml:"match"`
}

type AppConfig struct {
	ENV string `yaml:"env"`
}

type LogConfig struct {
	Level     string `yaml:"level"`
	Format    string `yaml:"format"`
	Component string `yaml:"component"`
	Source    bool   `yaml:"source"`
}

type DBConfig struct {
	Driver   string `yaml:"driver"`
	DSN      string `yaml:"dsn"`
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type GRPCConfig struct {
	Host string `yaml:"host"`
	Port string `yaml:"port"`
}

type HTTPConfig struct {
	Addr string `yaml:"addr"`
}

type BotConfig struct {
	Token       string `yaml:"token"`
	PollTimeout int    `yaml:"poll_timeout"`
	Workers     int    `yaml:"workers"`
	Debug       bool   `yaml:"debug"`
}

// SessionConfig controls where in-flight registrations and open chats live.
// A zero TTL keeps entries until they are explicitly removed.
type SessionConfig struct {
	Backend         string        `yaml:"backend"`
	RegistrationTTL time.Duration `yaml:"registration_ttl"`
	ChatTTL         time.Duration `yaml:"chat_ttl"`
}

type MatchConfig struct {
	CandidateBatch int `yaml:"candidate_batch"`
}

// New builds the configuration from defaults and environment variables.
func New() *Config {
	cfg := defaults()
	applyEnv(cfg)
	return cfg
}

// Load reads an optional YAML file on top of the defaults, then applies
// environment overrides. An empty path behaves like New.
func Load(path string) (*Config, error) {
	cfg := defaults()

	if path = strings.TrimSpace(path); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	applyEnv(cfg)
	return cfg, nil
}

func defaults() *Config {
	cfg := &Config{}

	cfg.App.ENV = "production"

	cfg.Log.Level = "info"
	cfg.Log.Format = "text"
	cfg.Log.Component = "mysticmatch"

	cfg.DB.Driver = "mysql"
	cfg.DB.Host = "localhost"
	cfg.DB.Port = "3306"
	cfg.DB.User = "root"
	cfg.DB.Password = "root"
	cfg.DB.Name = "mysticmatch"

	cfg.Redis.Addr = "localhost:6379"

	cfg.GRPC.Host = "127.0.0.1"
	cfg.GRPC.Port = "50051"

	cfg.HTTP.Addr = ":8080"

	cfg.Bot.PollTimeout = 30
	cfg.Bot.Workers = 8

	cfg.Session.Backend = "redis"
	cfg.Session.RegistrationTTL = 24 * time.Hour
	cfg.Session.ChatTTL = 12 * time.Hour

	cfg.Match.CandidateBatch = 50

	return cfg
}

func applyEnv(cfg *Config) {
	// App
	cfg.App.ENV = getEnvDefault("APP_ENV", cfg.App.ENV)

	// Logger
	cfg.Log.Level = getEnvDefault("LOG_LEVEL", cfg.Log.Level)
	cfg.Log.Format = getEnvDefault("LOG_FORMAT", cfg.Log.Format)
	cfg.Log.Component = getEnvDefault("LOG_COMPONENT", cfg.Log.Component)
	if v, ok := lookupEnv("LOG_SOURCE"); ok {
		cfg.Log.Source = isTruthy(v)
	}

	// Database
	cfg.DB.Driver = strings.ToLower(getEnvDefault("DB_DRIVER", cfg.DB.Driver))
	cfg.DB.DSN = getEnvDefault("DB_DSN", cfg.DB.DSN)
	if cfg.DB.Driver == "mysql" {
		cfg.DB.DSN = getEnvDefault("MYSQL_DSN", cfg.DB.DSN)
	}
	cfg.DB.Host = getEnvDefault("DB_HOST", cfg.DB.Host)
	cfg.DB.Port = getEnvDefault("DB_PORT", cfg.DB.Port)
	cfg.DB.User = getEnvDefault("DB_USER", cfg.DB.User)
	cfg.DB.Password = getEnvDefault("DB_PASSWORD", cfg.DB.Password)
	cfg.DB.Name = getEnvDefault("DB_NAME", cfg.DB.Name)
	if cfg.DB.DSN == "" {
		switch cfg.DB.Driver {
		case "sqlite":
			cfg.DB.DSN = fmt.Sprintf("file:%s.db?_foreign_keys=on", cfg.DB.Name)
		default:
			cfg.DB.DSN = fmt.Sprintf(
				"%s:%s@tcp(%s:%s)/%s?parseTime=true&charset=utf8mb4&loc=UTC",
				cfg.DB.User, cfg.DB.Password, cfg.DB.Host, cfg.DB.Port, cfg.DB.Name,
			)
		}
	}

	// Redis
	cfg.Redis.Addr = getEnvDefault("REDIS_ADDR", cfg.Redis.Addr)
	cfg.Redis.Password = getEnvDefault("REDIS_PASSWORD", cfg.Redis.Password)
	cfg.Redis.DB = getEnvInt("REDIS_DB", cfg.Redis.DB)

	// gRPC
	cfg.GRPC.Host = getEnvDefault("GRPC_HOST", cfg.GRPC.Host)
	cfg.GRPC.Port = getEnvDefault("GRPC_PORT", cfg.GRPC.Port)

	// HTTP (metrics + health)
	cfg.HTTP.Addr = getEnvDefault("HTTP_ADDR", cfg.HTTP.Addr)

	// Telegram
	cfg.Bot.Token = getEnvDefault("BOT_TOKEN", cfg.Bot.Token)
	cfg.Bot.PollTimeout = getEnvInt("BOT_POLL_TIMEOUT", cfg.Bot.PollTimeout)
	cfg.Bot.Workers = getEnvInt("BOT_WORKERS", cfg.Bot.Workers)
	if v, ok := lookupEnv("BOT_DEBUG"); ok {
		cfg.Bot.Debug = isTruthy(v)
	}

	// Sessions
	cfg.Session.Backend = strings.ToLower(getEnvDefault("SESSION_BACKEND", cfg.Session.Backend))
	cfg.Session.RegistrationTTL = getEnvDuration("SESSION_REGISTRATION_TTL", cfg.Session.RegistrationTTL)
	cfg.Session.ChatTTL = getEnvDuration("SESSION_CHAT_TTL", cfg.Session.ChatTTL)

	// Matching
	cfg.Match.CandidateBatch = getEnvInt("MATCH_CANDIDATE_BATCH", cfg.Match.CandidateBatch)
}

func lookupEnv(k string) (string, bool) {
	v := strings.TrimSpace(os.Getenv(k))
	return v, v != ""
}

func getEnvDefault(k, def string) string {
	if v, ok := lookupEnv(k); ok {
		return v
	}
	return def
}

func getEnvInt(k string, def int) int {
	if v, ok := lookupEnv(k); ok {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getEnvDuration(k string, def time.Duration) time.Duration {
	if v, ok := lookupEnv(k); ok {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func isTruthy(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "y", "on":
		return true
	}
	return false
}
