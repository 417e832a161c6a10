package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	domain "github.com/bryanwahyu/wireframe-extract/internal/domain/analysis"
)

type ProviderConfig struct {
	BaseURL   string `yaml:"base_url"`
	APIKeyEnv string `yaml:"api_key_env"` // name of the env var holding the key
	Referer   string `yaml:"referer"`
	Title     string `yaml:"title"`
}

type PriceConfig struct {
	InputPer1K  float64 `yaml:"input_per_1k"`
	OutputPer1K float64 `yaml:"output_per_1k"`
}

type Config struct {
	Provider       string                    `yaml:"provider"`
	Model          string                    `yaml:"model"`
	MaxTokens      int                       `yaml:"max_tokens"`
	Temperature    float32                   `yaml:"temperature"`
	Detail         string                    `yaml:"detail"`
	TimeoutSeconds int                       `yaml:"timeout_seconds"`
	Providers      map[string]ProviderConfig `yaml:"providers"`

	Paths struct {
		InputDir  string `yaml:"input_dir"`
		OutputDir string `yaml:"output_dir"`
	} `yaml:"paths"`

	Scan struct {
		Extensions []string `yaml:"extensions"`
	} `yaml:"scan"`

	Pricing map[string]PriceConfig `yaml:"pricing"`

	Server struct {
		Port           int               `yaml:"port"`
		APIKeys        map[string]string `yaml:"api_keys"` // tenant -> key, empty disables auth
		AllowedOrigins []string          `yaml:"allowed_origins"`
	} `yaml:"server"`

	Database struct {
		Driver   string `yaml:"driver"` // sqlite | mysql | postgres | none; empty leaves the choice to the caller
		DSN      string `yaml:"dsn"`
		Host     string `yaml:"host"`
		Port     int    `yaml:"port"`
		User     string `yaml:"user"`
		Password string `yaml:"password"`
		Name     string `yaml:"name"`
		Path     string `yaml:"path"` // sqlite file
	} `yaml:"database"`

	Minio struct {
		Enabled    bool   `yaml:"enabled"`
		Endpoint   string `yaml:"endpoint"`
		AccessKey  string `yaml:"accessKey"`
		SecretKey  string `yaml:"secretKey"`
		BucketName string `yaml:"bucketName"`
		Region     string `yaml:"region"`
		UseSSL     bool   `yaml:"useSSL"`
	} `yaml:"minio"`
}

var defaultProviders = map[string]ProviderConfig{
	"openai":     {APIKeyEnv: "OPENAI_API_KEY"},
	"openrouter": {BaseURL: "https://openrouter.ai/api/v1", APIKeyEnv: "OPENROUTER_API_KEY", Title: "wireframe-extract"},
	"local":      {BaseURL: "http://localhost:11434/v1", APIKeyEnv: "LOCAL_API_KEY"},
}

// Default config used when no file exists
func Default() *Config {
	cfg := &Config{
		Provider:       "openai",
		Model:          "gpt-4o",
		MaxTokens:      4000,
		Temperature:    0.1,
		Detail:         "high",
		TimeoutSeconds: 120,
		Providers:      map[string]ProviderConfig{},
	}
	for k, v := range defaultProviders {
		cfg.Providers[k] = v
	}
	cfg.Paths.InputDir = "input"
	cfg.Paths.OutputDir = "output"
	cfg.Scan.Extensions = []string{"png", "jpg", "jpeg", "gif", "webp"}
	cfg.Server.Port = 8080
	cfg.Database.Path = "wireframe.db"
	cfg.Minio.Region = "us-east-1"
	return cfg
}

// DefaultDriver sets the database driver when config leaves it empty.
// The API server keeps its audit trail in sqlite by default; the CLI runs without a database.
func (c *Config) DefaultDriver(driver string) {
	if strings.TrimSpace(c.Database.Driver) == "" {
		c.Database.Driver = driver
	}
}

// Load baca file config.yaml; missing file -> defaults
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// LoadEnvFile loads a .env file into the process env. A missing file is not an error.
func LoadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overrides provider and model from WIREFRAME_PROVIDER / WIREFRAME_MODEL
func (c *Config) ApplyEnv() {
	if v := strings.TrimSpace(os.Getenv("WIREFRAME_PROVIDER")); v != "" {
		c.Provider = v
	}
	if v := strings.TrimSpace(os.Getenv("WIREFRAME_MODEL")); v != "" {
		c.Model = v
	}
}

// ProviderSettings for the selected provider, filled from defaults where the file left gaps
func (c *Config) ProviderSettings() ProviderConfig {
	name := strings.ToLower(c.Provider)
	p := c.Providers[name]
	def := defaultProviders[name]
	if p.BaseURL == "" {
		p.BaseURL = def.BaseURL
	}
	if p.APIKeyEnv == "" {
		p.APIKeyEnv = def.APIKeyEnv
	}
	if p.Title == "" {
		p.Title = def.Title
	}
	return p
}

// APIKey reads the selected provider's key from the environment
func (c *Config) APIKey() string {
	env := c.ProviderSettings().APIKeyEnv
	if env == "" {
		return ""
	}
	return os.Getenv(env)
}

func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

func (c *Config) Params() domain.Params {
	return domain.Params{
		Model:       c.Model,
		MaxTokens:   c.MaxTokens,
		Temperature: c.Temperature,
		Detail:      c.Detail,
	}
}

// PricingTable returns the configured prices, or the built-in table when none are set
func (c *Config) PricingTable() domain.PricingTable {
	if len(c.Pricing) == 0 {
		return domain.DefaultPricing()
	}
	t := make(domain.PricingTable, len(c.Pricing))
	for model, p := range c.Pricing {
		t[model] = domain.Price{InputPer1K: p.InputPer1K, OutputPer1K: p.OutputPer1K}
	}
	return t
}

// Helper untuk build DSN MySQL
func (c *Config) MySQLDSN() string {
	if c.Database.DSN != "" {
		return c.Database.DSN
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&charset=utf8mb4&loc=UTC",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
	)
}

func (c *Config) PostgresDSN() string {
	if c.Database.DSN != "" {
		return c.Database.DSN
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
	)
}
