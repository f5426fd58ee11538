// Load envs from .env
// Load YAML config
// Override with env vars
// Provide default values
// Validate config

package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"go-jobhunter/internal/filter"
	"go-jobhunter/internal/memory"
	"go-jobhunter/internal/models"
)

const (
	DefaultPath = "configs/config.yaml"

	EnvDevelopment = "development"
	EnvProduction  = "production"
)

var ErrMissingAPIKey = errors.New("GROQ_API_KEY is required in production")

type Config struct {
	Env         string              `yaml:"env"`
	Profile     models.Profile      `yaml:"profile"`
	Preferences *filter.Preferences `yaml:"preferences"`
	Sources     Sources             `yaml:"sources"`
	Paths       Paths               `yaml:"paths"`
	Memory      Memory              `yaml:"memory"`
	Schedule    Schedule            `yaml:"schedule"`
	Telegram    Telegram            `yaml:"telegram"`
	Server      Server              `yaml:"server"`
	AI          AI                  `yaml:"ai"`
	RedisURL    string              `yaml:"redis_url"`
}

type Sources struct {
	// Disabled lists scraper groups to skip: linkedin, research, programs.
	Disabled        []string `yaml:"disabled"`
	LinkedInQueries []string `yaml:"linkedin_queries"`
	// Browser renders pages with playwright instead of plain HTTP.
	Browser bool `yaml:"browser"`
}

func (s Sources) Enabled(name string) bool {
	for _, d := range s.Disabled {
		if strings.EqualFold(strings.TrimSpace(d), name) {
			return false
		}
	}
	return true
}

type Paths struct {
	DataDir    string `yaml:"data_dir"`
	CookiesDir string `yaml:"cookies_dir"`
	CacheDir   string `yaml:"cache_dir"`
	ExportDir  string `yaml:"export_dir"`
}

type Memory struct {
	Backend     string `yaml:"backend"`
	DatabaseURL string `yaml:"database_url"`
}

type Schedule struct {
	IntervalMinutes int   `yaml:"interval_minutes"`
	Enabled         *bool `yaml:"enabled"`
}

// AutoSearch reports whether the background search runs; on by default.
func (s Schedule) AutoSearch() bool {
	return s.Enabled == nil || *s.Enabled
}

type Telegram struct {
	Token  string `yaml:"token"`
	ChatID int64  `yaml:"chat_id"`
}

func (t Telegram) Configured() bool {
	return t.Token != "" && t.ChatID != 0
}

type Server struct {
	Port string `yaml:"port"`
}

type AI struct {
	GroqAPIKey string `yaml:"groq_api_key"`
	Model      string `yaml:"model"`
	BaseURL    string `yaml:"base_url"`
}

// Load reads .env and configs/config.yaml. CONFIG_PATH overrides the file
// location.
func Load() (*Config, error) {
	_ = godotenv.Load()

	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = DefaultPath
	}
	return LoadFrom(path)
}

// LoadFrom reads the YAML file at path (a missing file is not an error),
// applies env overrides and defaults, then validates.
func LoadFrom(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		log.Printf("⚠️ Could not read %s, using defaults", path)
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	setString := func(dst *string, key string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}

	setString(&c.Env, "APP_ENV")
	setString(&c.AI.GroqAPIKey, "GROQ_API_KEY")
	setString(&c.Telegram.Token, "TELEGRAM_BOT_TOKEN")
	setString(&c.Paths.DataDir, "DATA_DIR")
	setString(&c.Server.Port, "PORT")
	setString(&c.Memory.DatabaseURL, "DATABASE_URL")
	setString(&c.Memory.Backend, "MEMORY_BACKEND")
	setString(&c.RedisURL, "REDIS_URL")
	setString(&c.Profile.FullName, "PROFILE_NAME")
	setString(&c.Profile.Email, "PROFILE_EMAIL")
	setString(&c.Profile.Portfolio, "PROFILE_GITHUB")
	setString(&c.Profile.Country, "PROFILE_COUNTRY")

	if chatID := os.Getenv("TELEGRAM_CHAT_ID"); chatID != "" {
		id, err := strconv.ParseInt(chatID, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid TELEGRAM_CHAT_ID: %w", err)
		}
		c.Telegram.ChatID = id
	}

	if v := os.Getenv("SEARCH_INTERVAL_MINUTES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid SEARCH_INTERVAL_MINUTES: %w", err)
		}
		c.Schedule.IntervalMinutes = n
	}

	if v := os.Getenv("AUTO_SEARCH_ENABLED"); v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid AUTO_SEARCH_ENABLED: %w", err)
		}
		c.Schedule.Enabled = &enabled
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.Env == "" {
		c.Env = EnvDevelopment
	}

	def := models.DefaultProfile()
	fill := func(dst *string, v string) {
		if *dst == "" {
			*dst = v
		}
	}
	fill(&c.Profile.FullName, def.FullName)
	fill(&c.Profile.Country, def.Country)
	fill(&c.Profile.City, def.City)
	fill(&c.Profile.Email, def.Email)
	fill(&c.Profile.Timezone, def.Timezone)
	fill(&c.Profile.Availability, def.Availability)
	fill(&c.Profile.Education, def.Education)
	fill(&c.Profile.ExperienceLevel, def.ExperienceLevel)
	fill(&c.Profile.LinkedIn, def.LinkedIn)
	fill(&c.Profile.Portfolio, def.Portfolio)

	c.Preferences = c.Preferences.WithDefaults()

	fill(&c.Paths.DataDir, "data")
	fill(&c.Paths.CookiesDir, ".cookies")
	fill(&c.Paths.CacheDir, ".cache")
	fill(&c.Paths.ExportDir, "exports")

	fill(&c.Memory.Backend, memory.BackendJSON)
	c.Memory.Backend = strings.ToLower(c.Memory.Backend)

	if c.Schedule.IntervalMinutes <= 0 {
		c.Schedule.IntervalMinutes = 10
	}
	fill(&c.Server.Port, "8080")
}

// Validate fails fast on settings that would break a run later.
func (c *Config) Validate() error {
	if c.IsProduction() && c.AI.GroqAPIKey == "" {
		return ErrMissingAPIKey
	}
	switch c.Memory.Backend {
	case memory.BackendJSON, memory.BackendSQLite:
	case memory.BackendPostgres:
		if c.Memory.DatabaseURL == "" {
			return errors.New("DATABASE_URL is required for the postgres memory backend")
		}
	default:
		return fmt.Errorf("unknown memory backend %q", c.Memory.Backend)
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, EnvProduction)
}
