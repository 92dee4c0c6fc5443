package config

import (
	"testing"
	"time"

	"ragchat/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"RAGCHAT_BASE_URL", "RAGCHAT_TOP_K", "RAGCHAT_MODE", "RAGCHAT_QUERY_CATEGORY", "RAGCHAT_RERANK", "RAGCHAT_TIMEOUT", "RAGCHAT_SINGLE_FLIGHT"} {
		t.Setenv(k, "")
	}

	cfg := Load()
	assert.Equal(t, DefaultBaseURL, cfg.BaseURL)
	assert.Equal(t, DefaultTopK, cfg.TopK)
	assert.Equal(t, models.ModeNormalRAG, cfg.RAGMode())
	assert.Equal(t, models.CategoryAuto, cfg.QueryCategory())
	assert.False(t, cfg.Rerank)
	assert.False(t, cfg.SingleFlight)
	assert.Zero(t, cfg.Timeout)
	require.NoError(t, cfg.Validate())
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("RAGCHAT_BASE_URL", "http://search.local:9000")
	t.Setenv("RAGCHAT_TOP_K", "7")
	t.Setenv("RAGCHAT_MODE", "Self-RAG")
	t.Setenv("RAGCHAT_QUERY_CATEGORY", "Analytical")
	t.Setenv("RAGCHAT_RERANK", "true")
	t.Setenv("RAGCHAT_TIMEOUT", "15s")
	t.Setenv("RAGCHAT_SINGLE_FLIGHT", "1")

	cfg := Load()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "http://search.local:9000", cfg.BaseURL)
	assert.Equal(t, 7, cfg.TopK)
	assert.Equal(t, models.ModeSelfRAG, cfg.RAGMode())
	assert.Equal(t, models.CategoryAnalytical, cfg.QueryCategory())
	assert.True(t, cfg.Rerank)
	assert.True(t, cfg.SingleFlight)
	assert.Equal(t, 15*time.Second, cfg.Timeout)
}

func TestLoad_MalformedNumbersFallBack(t *testing.T) {
	t.Setenv("RAGCHAT_TOP_K", "many")
	t.Setenv("RAGCHAT_RERANK", "maybe")
	t.Setenv("RAGCHAT_TIMEOUT", "soon")

	cfg := Load()
	assert.Equal(t, DefaultTopK, cfg.TopK)
	assert.False(t, cfg.Rerank)
	assert.Zero(t, cfg.Timeout)
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			BaseURL:  DefaultBaseURL,
			Mode:     string(models.ModeNormalRAG),
			Category: string(models.CategoryAuto),
			LogLevel: "debug",
		}
	}

	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{"valid", func(*Config) {}, ""},
		{"bad scheme", func(c *Config) { c.BaseURL = "ftp://host" }, "must use http or https"},
		{"no host", func(c *Config) { c.BaseURL = "http://" }, "has no host"},
		{"bad mode", func(c *Config) { c.Mode = "CRAG" }, "unknown RAG mode"},
		{"bad category", func(c *Config) { c.Category = "Opinion" }, "unknown query category"},
		{"negative timeout", func(c *Config) { c.Timeout = -time.Second }, "must not be negative"},
		{"bad log level", func(c *Config) { c.LogLevel = "loud" }, "invalid log level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.errMsg == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}
