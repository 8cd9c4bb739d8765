// File path: internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/vibeworks/academy/internal/common"
)

// Config carries the runtime settings for the academy API server. Values are
// resolved in precedence order: flags (applied by main), environment,
// config file, defaults.
type Config struct {
	Addr    string
	DocsDir string

	OpenAIAPIKey   string
	OpenAIEndpoint string
	ChatModel      string

	RedisAddr string

	ChatTimeout     time.Duration
	MaxChunkLen     int
	MaxDocumentLen  int
	MaxSummariesLen int

	StateTTL        time.Duration
	CleanupInterval time.Duration
	StuckJobTTL     time.Duration
}

// fileConfig is the YAML shape; durations are strings so they can be written
// as "15s" or "30m".
type fileConfig struct {
	Addr            string `yaml:"addr"`
	DocsDir         string `yaml:"docs_dir"`
	OpenAIEndpoint  string `yaml:"openai_endpoint"`
	ChatModel       string `yaml:"chat_model"`
	RedisAddr       string `yaml:"redis_addr"`
	ChatTimeout     string `yaml:"chat_timeout"`
	MaxChunkLen     int    `yaml:"max_chunk_len"`
	MaxDocumentLen  int    `yaml:"max_document_len"`
	MaxSummariesLen int    `yaml:"max_summaries_len"`
	StateTTL        string `yaml:"state_ttl"`
	CleanupInterval string `yaml:"cleanup_interval"`
	StuckJobTTL     string `yaml:"stuck_job_ttl"`
}

// Default returns the configuration used when nothing is overridden.
func Default() Config {
	return Config{
		Addr:            ":8080",
		DocsDir:         "content/docs",
		ChatModel:       "gpt-4o",
		ChatTimeout:     15 * time.Second,
		MaxChunkLen:     4000,
		MaxDocumentLen:  50000,
		MaxSummariesLen: 10000,
		StateTTL:        time.Hour,
		CleanupInterval: 15 * time.Minute,
		StuckJobTTL:     30 * time.Minute,
	}
}

// Load resolves configuration from the optional YAML file at path and the
// environment. A missing file is not an error; a malformed one is.
func Load(path string) (Config, error) {
	logger := common.Logger()
	cfg := Default()
	if trimmed := strings.TrimSpace(path); trimmed != "" {
		data, err := os.ReadFile(trimmed)
		switch {
		case os.IsNotExist(err):
			logger.Debug("config: file absent, using defaults", "path", trimmed)
		case err != nil:
			return Config{}, fmt.Errorf("read config: %w", err)
		default:
			var file fileConfig
			if err := yaml.Unmarshal(data, &file); err != nil {
				return Config{}, fmt.Errorf("parse config: %w", err)
			}
			if err := cfg.applyFile(file); err != nil {
				return Config{}, err
			}
			logger.Info("config: loaded file", "path", trimmed)
		}
	}
	cfg.applyEnv()
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyFile(file fileConfig) error {
	setString(&c.Addr, file.Addr)
	setString(&c.DocsDir, file.DocsDir)
	setString(&c.OpenAIEndpoint, file.OpenAIEndpoint)
	setString(&c.ChatModel, file.ChatModel)
	setString(&c.RedisAddr, file.RedisAddr)
	if file.MaxChunkLen > 0 {
		c.MaxChunkLen = file.MaxChunkLen
	}
	if file.MaxDocumentLen > 0 {
		c.MaxDocumentLen = file.MaxDocumentLen
	}
	if file.MaxSummariesLen > 0 {
		c.MaxSummariesLen = file.MaxSummariesLen
	}
	for _, field := range []struct {
		name  string
		raw   string
		value *time.Duration
	}{
		{"chat_timeout", file.ChatTimeout, &c.ChatTimeout},
		{"state_ttl", file.StateTTL, &c.StateTTL},
		{"cleanup_interval", file.CleanupInterval, &c.CleanupInterval},
		{"stuck_job_ttl", file.StuckJobTTL, &c.StuckJobTTL},
	} {
		if strings.TrimSpace(field.raw) == "" {
			continue
		}
		dur, err := time.ParseDuration(strings.TrimSpace(field.raw))
		if err != nil {
			return fmt.Errorf("parse config %s: %w", field.name, err)
		}
		*field.value = dur
	}
	return nil
}

func (c *Config) applyEnv() {
	if v := strings.TrimSpace(os.Getenv("OPENAI_API_KEY")); v != "" {
		c.OpenAIAPIKey = v
	}
	if v := strings.TrimSpace(os.Getenv("OPENAI_ENDPOINT")); v != "" {
		c.OpenAIEndpoint = v
	}
	if v := strings.TrimSpace(os.Getenv("OPENAI_CHAT_MODEL")); v != "" {
		c.ChatModel = v
	}
	if v := strings.TrimSpace(os.Getenv("REDIS_ADDR")); v != "" {
		c.RedisAddr = v
	}
	if v := strings.TrimSpace(os.Getenv("ACADEMY_ADDR")); v != "" {
		c.Addr = v
	}
	if v := strings.TrimSpace(os.Getenv("ACADEMY_DOCS_DIR")); v != "" {
		c.DocsDir = v
	}
	if v := strings.TrimSpace(os.Getenv("ACADEMY_CHAT_TIMEOUT")); v != "" {
		if dur, err := time.ParseDuration(v); err == nil && dur > 0 {
			c.ChatTimeout = dur
		} else {
			common.Logger().Warn("config: invalid ACADEMY_CHAT_TIMEOUT, keeping default", "value", v)
		}
	}
	if v := strings.TrimSpace(os.Getenv("ACADEMY_MAX_CHUNK_LEN")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.MaxChunkLen = n
		}
	}
}

func (c *Config) validate() error {
	if c.MaxChunkLen <= 0 {
		return fmt.Errorf("max_chunk_len must be positive")
	}
	if c.MaxDocumentLen < c.MaxChunkLen {
		return fmt.Errorf("max_document_len must be at least max_chunk_len")
	}
	if c.ChatTimeout <= 0 {
		return fmt.Errorf("chat_timeout must be positive")
	}
	return nil
}

func setString(dst *string, value string) {
	if trimmed := strings.TrimSpace(value); trimmed != "" {
		*dst = trimmed
	}
}
