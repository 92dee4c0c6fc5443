package config

import (
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"ragchat/internal/models"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

const (
	DefaultBaseURL  = "http://127.0.0.1:8000"
	DefaultTopK     = 3
	DefaultLogLevel = "info"
)

type Config struct {
	BaseURL      string
	TopK         int
	Mode         string
	Category     string
	Rerank       bool
	Timeout      time.Duration // 0 means no client-side timeout
	SingleFlight bool          // reject submissions while one is in flight
	LogFile      string
	LogLevel     string
}

// Load reads defaults, then an optional .env file, then the process
// environment. Command-line flags are applied on top by the caller.
func Load() *Config {
	// A missing .env is fine, the environment may already be set
	_ = godotenv.Load()

	return &Config{
		BaseURL:      getEnv("RAGCHAT_BASE_URL", DefaultBaseURL),
		TopK:         getEnvAsInt("RAGCHAT_TOP_K", DefaultTopK),
		Mode:         getEnv("RAGCHAT_MODE", string(models.ModeNormalRAG)),
		Category:     getEnv("RAGCHAT_QUERY_CATEGORY", string(models.CategoryAuto)),
		Rerank:       getEnvAsBool("RAGCHAT_RERANK", false),
		Timeout:      getEnvAsDuration("RAGCHAT_TIMEOUT", 0),
		SingleFlight: getEnvAsBool("RAGCHAT_SINGLE_FLIGHT", false),
		LogFile:      getEnv("RAGCHAT_LOG_FILE", defaultLogFile()),
		LogLevel:     getEnv("RAGCHAT_LOG_LEVEL", DefaultLogLevel),
	}
}

func (c *Config) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return errors.Wrapf(err, "invalid base url %q", c.BaseURL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return errors.Errorf("base url %q must use http or https", c.BaseURL)
	}
	if u.Host == "" {
		return errors.Errorf("base url %q has no host", c.BaseURL)
	}
	if _, err := models.ParseRAGMode(c.Mode); err != nil {
		return err
	}
	if _, err := models.ParseQueryCategory(c.Category); err != nil {
		return err
	}
	if c.Timeout < 0 {
		return errors.Errorf("timeout must not be negative, got %s", c.Timeout)
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return errors.Wrapf(err, "invalid log level %q", c.LogLevel)
	}
	return nil
}

// RAGMode and QueryCategory are only safe to call after Validate
func (c *Config) RAGMode() models.RAGMode {
	m, _ := models.ParseRAGMode(c.Mode)
	return m
}

func (c *Config) QueryCategory() models.QueryCategory {
	q, _ := models.ParseQueryCategory(c.Category)
	return q
}

func defaultLogFile() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "ragchat", "ragchat.log")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
