package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"pptx-generator/internal/domain"

	"gopkg.in/yaml.v3"
)

const (
	defaultServerPort  = "5000"
	defaultMaxFileSize = 50 * 1024 * 1024
)

// AppConfig implements the domain.Config interface
type AppConfig struct {
	ServerPort      string   `yaml:"port"`
	TemplateDir     string   `yaml:"template_dir"`
	DefaultTemplate string   `yaml:"default_template"`
	UploadPath      string   `yaml:"upload_path"`
	MaxFileSize     int64    `yaml:"max_file_size"`
	LogLevel        string   `yaml:"log_level"`
	PDFEngine       string   `yaml:"pdf_engine"`
	AllowedOrigins  []string `yaml:"cors_allowed_origins"`
	SupabaseURL     string   `yaml:"supabase_url"`
	SupabaseKey     string   `yaml:"supabase_anon_key"`
	TemplateBucket  string   `yaml:"template_bucket"`
}

// NewConfig creates a new configuration instance from the environment and defaults
func NewConfig() domain.Config {
	cfg := defaults()
	cfg.applyEnv()
	return cfg
}

// LoadConfig reads an optional YAML file and then applies environment
// overrides. An empty path behaves like NewConfig.
func LoadConfig(path string) (domain.Config, error) {
	cfg := defaults()
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		var fileCfg AppConfig
		if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", path, err)
		}
		cfg.merge(&fileCfg)
	}
	cfg.applyEnv()
	return cfg, nil
}

func defaults() *AppConfig {
	return &AppConfig{
		ServerPort:      defaultServerPort,
		TemplateDir:     "templates",
		DefaultTemplate: "default.pptx",
		UploadPath:      os.TempDir(),
		MaxFileSize:     defaultMaxFileSize,
		LogLevel:        "info",
		PDFEngine:       "mupdf",
		AllowedOrigins:  []string{"*"},
	}
}

func (c *AppConfig) merge(o *AppConfig) {
	if o.ServerPort != "" {
		c.ServerPort = o.ServerPort
	}
	if o.TemplateDir != "" {
		c.TemplateDir = o.TemplateDir
	}
	if o.DefaultTemplate != "" {
		c.DefaultTemplate = o.DefaultTemplate
	}
	if o.UploadPath != "" {
		c.UploadPath = o.UploadPath
	}
	if o.MaxFileSize > 0 {
		c.MaxFileSize = o.MaxFileSize
	}
	if o.LogLevel != "" {
		c.LogLevel = o.LogLevel
	}
	if o.PDFEngine != "" {
		c.PDFEngine = o.PDFEngine
	}
	if len(o.AllowedOrigins) > 0 {
		c.AllowedOrigins = o.AllowedOrigins
	}
	if o.SupabaseURL != "" {
		c.SupabaseURL = o.SupabaseURL
	}
	if o.SupabaseKey != "" {
		c.SupabaseKey = o.SupabaseKey
	}
	if o.TemplateBucket != "" {
		c.TemplateBucket = o.TemplateBucket
	}
}

func (c *AppConfig) applyEnv() {
	// Render and most PaaS provide the listening port via PORT.
	// Keep SERVER_PORT for local/dev compatibility.
	c.ServerPort = getEnvOrDefault("PORT", getEnvOrDefault("SERVER_PORT", c.ServerPort))
	c.TemplateDir = getEnvOrDefault("TEMPLATE_DIR", c.TemplateDir)
	c.DefaultTemplate = getEnvOrDefault("DEFAULT_TEMPLATE", c.DefaultTemplate)
	c.UploadPath = getEnvOrDefault("UPLOAD_PATH", c.UploadPath)
	c.MaxFileSize = getEnvInt64OrDefault("MAX_FILE_SIZE", c.MaxFileSize)
	c.LogLevel = getEnvOrDefault("LOG_LEVEL", c.LogLevel)
	c.PDFEngine = strings.ToLower(getEnvOrDefault("PDF_ENGINE", c.PDFEngine))
	if origins := getEnvOrDefault("CORS_ALLOWED_ORIGINS", ""); origins != "" {
		c.AllowedOrigins = splitList(origins)
	}
	c.SupabaseURL = getEnvOrDefault("SUPABASE_URL", c.SupabaseURL)
	c.SupabaseKey = getEnvOrDefault("SUPABASE_ANON_KEY", c.SupabaseKey)
	c.TemplateBucket = getEnvOrDefault("TEMPLATE_BUCKET", c.TemplateBucket)
}

// GetServerPort returns the server port
func (c *AppConfig) GetServerPort() string {
	return c.ServerPort
}

// GetTemplateDir returns the directory named templates are resolved against
func (c *AppConfig) GetTemplateDir() string {
	return c.TemplateDir
}

// GetDefaultTemplate returns the template used when a request names none
func (c *AppConfig) GetDefaultTemplate() string {
	return c.DefaultTemplate
}

// GetUploadPath returns the directory for temporary uploads
func (c *AppConfig) GetUploadPath() string {
	return c.UploadPath
}

// GetMaxFileSize returns the maximum allowed request body size
func (c *AppConfig) GetMaxFileSize() int64 {
	return c.MaxFileSize
}

// GetLogLevel returns the logging level
func (c *AppConfig) GetLogLevel() string {
	return c.LogLevel
}

// GetPDFEngine returns the preferred PDF text engine
func (c *AppConfig) GetPDFEngine() string {
	return c.PDFEngine
}

// GetAllowedOrigins returns the CORS origin allow-list
func (c *AppConfig) GetAllowedOrigins() []string {
	return c.AllowedOrigins
}

// GetSupabaseURL returns the Supabase URL
func (c *AppConfig) GetSupabaseURL() string {
	return c.SupabaseURL
}

// GetSupabaseKey returns the Supabase anon key
func (c *AppConfig) GetSupabaseKey() string {
	return c.SupabaseKey
}

// GetTemplateBucket returns the storage bucket holding remote templates
func (c *AppConfig) GetTemplateBucket() string {
	return c.TemplateBucket
}

// Helper functions for environment variable handling
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt64OrDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil && intValue > 0 {
			return intValue
		}
	}
	return defaultValue
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
