package config

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/caarlos0/env/v6"
)

// Значения по умолчанию
const (
	defaultServerAddress  = "localhost:8080"
	defaultLoggerLevel    = "info"
	defaultSessionSecret  = "secret"
	defaultSessionIdleTTL = 30 * time.Minute
)

// ErrMissingAPIBaseURL возвращается, если адрес бэкенда не задан ни одним способом
var ErrMissingAPIBaseURL = errors.New("API_BASE_URL is not defined: set it in the environment, with -b or in the config file")

// Config содержит все конфигурационные параметры приложения
type Config struct {
	ServerAddress  string        `json:"server_address" env:"SERVER_ADDRESS" envDefault:"localhost:8080"`
	APIBaseURL     string        `json:"api_base_url" env:"API_BASE_URL"`
	LoggerLevel    string        `json:"log_level" env:"LOG_LEVEL" envDefault:"info"`
	SessionSecret  string        `json:"session_secret" env:"SESSION_SECRET" envDefault:"secret"`
	SessionIdleTTL time.Duration `json:"session_idle_ttl" env:"SESSION_IDLE_TTL" envDefault:"30m"`
	TrustedSubnet  string        `json:"trusted_subnet" env:"TRUSTED_SUBNET"`
	PprofAddress   string        `json:"pprof_address" env:"PPROF_ADDRESS"`
	ConfigFile     string        `json:"-" env:"CONFIG"`
}

// fileConfig повторяет Config для JSON-файла; длительность задаётся строкой вида "30m"
type fileConfig struct {
	ServerAddress  string `json:"server_address"`
	APIBaseURL     string `json:"api_base_url"`
	LoggerLevel    string `json:"log_level"`
	SessionSecret  string `json:"session_secret"`
	SessionIdleTTL string `json:"session_idle_ttl"`
	TrustedSubnet  string `json:"trusted_subnet"`
	PprofAddress   string `json:"pprof_address"`
}

// LoadConfig загружает конфигурацию из переменных окружения, флагов командной строки
// и JSON конфиг файла. Без адреса бэкенда запуск невозможен.
func LoadConfig() (*Config, error) {
	config := &Config{}
	if err := env.Parse(config); err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}

	fs := flag.NewFlagSet(os.Args[0], flag.ContinueOnError)
	if err := ParseFlags(fs, config, os.Args[1:]); err != nil {
		return nil, err
	}

	if config.ConfigFile != "" {
		fileConfig, err := loadConfigFromFile(config.ConfigFile)
		if err != nil {
			return nil, fmt.Errorf("loading config file: %w", err)
		}
		mergeConfigs(config, fileConfig)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// ParseFlags добавляет флаги командной строки для параметров конфигурации
// и переопределяет значения, если они указаны в аргументах запуска.
func ParseFlags(fs *flag.FlagSet, config *Config, args []string) error {
	fs.StringVar(&config.ServerAddress, "a", config.ServerAddress, "address and port to run server")
	fs.StringVar(&config.APIBaseURL, "b", config.APIBaseURL, "base URL of the paste backend API")
	fs.StringVar(&config.LoggerLevel, "l", config.LoggerLevel, "log level")
	fs.StringVar(&config.SessionSecret, "k", config.SessionSecret, "secret used to sign session cookies")
	fs.DurationVar(&config.SessionIdleTTL, "i", config.SessionIdleTTL, "idle time after which a session is dropped")
	fs.StringVar(&config.TrustedSubnet, "t", config.TrustedSubnet, "trusted subnet in CIDR format")
	fs.StringVar(&config.PprofAddress, "p", config.PprofAddress, "pprof listen address, empty to disable")
	fs.StringVar(&config.ConfigFile, "c", config.ConfigFile, "path to JSON config file")

	return fs.Parse(args)
}

// Validate проверяет обязательные параметры
func (c *Config) Validate() error {
	if c.APIBaseURL == "" {
		return ErrMissingAPIBaseURL
	}
	u, err := url.Parse(c.APIBaseURL)
	if err != nil {
		return fmt.Errorf("invalid API_BASE_URL %q: %w", c.APIBaseURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid API_BASE_URL %q: must be an absolute URL", c.APIBaseURL)
	}
	return nil
}

func loadConfigFromFile(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var raw fileConfig
	if err := json.NewDecoder(file).Decode(&raw); err != nil {
		return nil, err
	}

	cfg := &Config{
		ServerAddress: raw.ServerAddress,
		APIBaseURL:    raw.APIBaseURL,
		LoggerLevel:   raw.LoggerLevel,
		SessionSecret: raw.SessionSecret,
		TrustedSubnet: raw.TrustedSubnet,
		PprofAddress:  raw.PprofAddress,
	}
	if raw.SessionIdleTTL != "" {
		cfg.SessionIdleTTL, err = time.ParseDuration(raw.SessionIdleTTL)
		if err != nil {
			return nil, fmt.Errorf("session_idle_ttl: %w", err)
		}
	}

	return cfg, nil
}

func (c *Config) isDefault(field string) bool {
	switch field {
	case "ServerAddress":
		return c.ServerAddress == defaultServerAddress
	case "APIBaseURL":
		return c.APIBaseURL == ""
	case "LoggerLevel":
		return c.LoggerLevel == defaultLoggerLevel
	case "SessionSecret":
		return c.SessionSecret == defaultSessionSecret
	case "SessionIdleTTL":
		return c.SessionIdleTTL == defaultSessionIdleTTL
	case "TrustedSubnet":
		return c.TrustedSubnet == ""
	case "PprofAddress":
		return c.PprofAddress == ""
	default:
		return false
	}
}

// UsesDefaultSecret сообщает, что cookie сессий подписываются секретом по умолчанию
func (c *Config) UsesDefaultSecret() bool {
	return c.isDefault("SessionSecret")
}

func mergeConfigs(dst, src *Config) {
	if src.ServerAddress != "" && dst.isDefault("ServerAddress") {
		dst.ServerAddress = src.ServerAddress
	}
	if src.APIBaseURL != "" && dst.isDefault("APIBaseURL") {
		dst.APIBaseURL = src.APIBaseURL
	}
	if src.LoggerLevel != "" && dst.isDefault("LoggerLevel") {
		dst.LoggerLevel = src.LoggerLevel
	}
	if src.SessionSecret != "" && dst.isDefault("SessionSecret") {
		dst.SessionSecret = src.SessionSecret
	}
	if src.SessionIdleTTL != 0 && dst.isDefault("SessionIdleTTL") {
		dst.SessionIdleTTL = src.SessionIdleTTL
	}
	if src.TrustedSubnet != "" && dst.isDefault("TrustedSubnet") {
		dst.TrustedSubnet = src.TrustedSubnet
	}
	if src.PprofAddress != "" && dst.isDefault("PprofAddress") {
		dst.PprofAddress = src.PprofAddress
	}
}
