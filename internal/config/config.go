package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ericksa/lexanalyzer/internal/lex"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. LEX_SERVER_ADDR.
const EnvPrefix = "LEX"

// Config represents the complete service configuration
// The structure matches the config.yaml file and can be overridden by environment variables
type Config struct {
	Server     ServerConfig     `json:"server" mapstructure:"server"`
	Auth       AuthConfig       `json:"auth" mapstructure:"auth"`
	Log        LogConfig        `json:"log" mapstructure:"log"`
	Audit      AuditConfig      `json:"audit" mapstructure:"audit"`
	Extraction ExtractionConfig `json:"extraction" mapstructure:"extraction"`
	Workers    WorkersConfig    `json:"workers" mapstructure:"workers"`
}

type ServerConfig struct {
	Addr            string        `json:"addr" mapstructure:"addr"`
	ReadTimeout     time.Duration `json:"read_timeout" mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `json:"write_timeout" mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `json:"shutdown_timeout" mapstructure:"shutdown_timeout"`
	MaxBodyBytes    int64         `json:"max_body_bytes" mapstructure:"max_body_bytes"`
	// CORSOrigins enables CORS for the listed origins; empty disables it.
	CORSOrigins     []string      `json:"cors_origins" mapstructure:"cors_origins"`
}

// AuthConfig contains authentication configuration
type AuthConfig struct {
	Enabled     bool     `json:"enabled" mapstructure:"enabled"`
	Token       string   `json:"token" mapstructure:"token"`
	ExemptPaths []string `json:"exempt_paths" mapstructure:"exempt_paths"`
}

type LogConfig struct {
	Level  string `json:"level" mapstructure:"level"`
	Format string `json:"format" mapstructure:"format"`
}

type AuditConfig struct {
	Enabled bool   `json:"enabled" mapstructure:"enabled"`
	Path    string `json:"path" mapstructure:"path"`
}

// ExtractionConfig mirrors lex.Policy.
type ExtractionConfig struct {
	PartyMinPersonWords  int `json:"party_min_person_words" mapstructure:"party_min_person_words"`
	PartyMinOrgWords     int `json:"party_min_org_words" mapstructure:"party_min_org_words"`
	PartyMaxWords        int `json:"party_max_words" mapstructure:"party_max_words"`
	LateFeeWindowChars   int `json:"late_fee_window_chars" mapstructure:"late_fee_window_chars"`
	ConstraintContextMax int `json:"constraint_context_max" mapstructure:"constraint_context_max"`
	DateKeywordWindow    int `json:"date_keyword_window" mapstructure:"date_keyword_window"`
}

// WorkersConfig contains all worker configurations
type WorkersConfig struct {
	Files FilesConfig `json:"files" mapstructure:"files"`
	Batch BatchConfig `json:"batch" mapstructure:"batch"`
	Web   WebConfig   `json:"web" mapstructure:"web"`
	MinIO MinIOConfig `json:"minio" mapstructure:"minio"`
}

type FilesConfig struct {
	Enabled    bool     `json:"enabled" mapstructure:"enabled"`
	BasePath   string   `json:"base_path" mapstructure:"base_path"`
	MaxBytes   int64    `json:"max_bytes" mapstructure:"max_bytes"`
	Extensions []string `json:"extensions" mapstructure:"extensions"`
}

type BatchConfig struct {
	Enabled      bool          `json:"enabled" mapstructure:"enabled"`
	MaxParallel  int           `json:"max_parallel" mapstructure:"max_parallel"`
	MaxDocuments int           `json:"max_documents" mapstructure:"max_documents"`
	Timeout      time.Duration `json:"timeout" mapstructure:"timeout"`
}

type WebConfig struct {
	Enabled   bool          `json:"enabled" mapstructure:"enabled"`
	Timeout   time.Duration `json:"timeout" mapstructure:"timeout"`
	MaxBytes  int64         `json:"max_bytes" mapstructure:"max_bytes"`
	UserAgent string        `json:"user_agent" mapstructure:"user_agent"`
}

type MinIOConfig struct {
	Enabled        bool     `json:"enabled" mapstructure:"enabled"`
	Endpoint       string   `json:"endpoint" mapstructure:"endpoint"`
	AccessKey      string   `json:"access_key" mapstructure:"access_key"`
	SecretKey      string   `json:"secret_key" mapstructure:"secret_key"`
	UseSSL         bool     `json:"use_ssl" mapstructure:"use_ssl"`
	AllowedBuckets []string `json:"allowed_buckets" mapstructure:"allowed_buckets"`
	DefaultBucket  string   `json:"default_bucket" mapstructure:"default_bucket"`
	MaxBytes       int64    `json:"max_bytes" mapstructure:"max_bytes"`
}

// Policy converts the extraction section into a lex.Policy.
func (c *Config) Policy() lex.Policy {
	e := c.Extraction
	return lex.Policy{
		PartyMinPersonWords:  e.PartyMinPersonWords,
		PartyMinOrgWords:     e.PartyMinOrgWords,
		PartyMaxWords:        e.PartyMaxWords,
		LateFeeWindowChars:   e.LateFeeWindowChars,
		ConstraintContextMax: e.ConstraintContextMax,
		DateKeywordWindow:    e.DateKeywordWindow,
	}
}

// Load loads the configuration from a config.yaml found in paths (default "." and
// "$HOME/.lexanalyzer") and from environment variables
func Load(paths ...string) (*Config, error) {
	v := newViper()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if len(paths) == 0 {
		paths = []string{".", "$HOME/.lexanalyzer"}
	}
	for _, p := range paths {
		v.AddConfigPath(p)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		slog.Info("no config file found, using defaults")
	}
	return decode(v)
}

// LoadFile loads an explicit config file plus environment overrides.
func LoadFile(file string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(file)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", file, err)
	}
	return decode(v)
}

// Default returns the configuration built from defaults and the environment only.
func Default() *Config {
	cfg, err := decode(newViper())
	if err != nil {
		// Defaults always decode.
		panic(err)
	}
	return cfg
}

func newViper() *viper.Viper {
	// Load .env first (ignore error if not present)
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg.Workers.Files.BasePath = resolvePath(cfg.Workers.Files.BasePath)
	cfg.Audit.Path = resolvePath(cfg.Audit.Path)
	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "60s")
	v.SetDefault("server.shutdown_timeout", "10s")
	v.SetDefault("server.max_body_bytes", 10<<20)
	v.SetDefault("server.cors_origins", []string{})

	v.SetDefault("auth.enabled", false)
	v.SetDefault("auth.token", "")
	v.SetDefault("auth.exempt_paths", []string{"/health"})

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("audit.enabled", true)
	v.SetDefault("audit.path", "~/.lexanalyzer/audit.db")

	p := lex.DefaultPolicy()
	v.SetDefault("extraction.party_min_person_words", p.PartyMinPersonWords)
	v.SetDefault("extraction.party_min_org_words", p.PartyMinOrgWords)
	v.SetDefault("extraction.party_max_words", p.PartyMaxWords)
	v.SetDefault("extraction.late_fee_window_chars", p.LateFeeWindowChars)
	v.SetDefault("extraction.constraint_context_max", p.ConstraintContextMax)
	v.SetDefault("extraction.date_keyword_window", p.DateKeywordWindow)

	// File defaults
	v.SetDefault("workers.files.enabled", true)
	v.SetDefault("workers.files.base_path", ".")
	v.SetDefault("workers.files.max_bytes", 5<<20)
	v.SetDefault("workers.files.extensions", []string{".txt", ".md", ".html", ".htm"})

	// Batch defaults
	v.SetDefault("workers.batch.enabled", true)
	v.SetDefault("workers.batch.max_parallel", 4)
	v.SetDefault("workers.batch.max_documents", 100)
	v.SetDefault("workers.batch.timeout", "30s")

	// Web defaults
	v.SetDefault("workers.web.enabled", true)
	v.SetDefault("workers.web.timeout", "15s")
	v.SetDefault("workers.web.max_bytes", 5<<20)
	v.SetDefault("workers.web.user_agent", "lexanalyzer/1.0")

	// MinIO defaults
	v.SetDefault("workers.minio.enabled", false)
	v.SetDefault("workers.minio.endpoint", "127.0.0.1:9000")
	v.SetDefault("workers.minio.access_key", "minioadmin")
	v.SetDefault("workers.minio.secret_key", "minioadmin")
	v.SetDefault("workers.minio.use_ssl", false)
	v.SetDefault("workers.minio.allowed_buckets", []string{"*"})
	v.SetDefault("workers.minio.default_bucket", "contracts")
	v.SetDefault("workers.minio.max_bytes", 20<<20)
}

// resolvePath resolves ~ to home directory and cleans the path
func resolvePath(p string) string {
	if p == "" {
		return p
	}
	if p[0] == '~' {
		home, err := os.UserHomeDir()
		if err == nil {
			p = filepath.Join(home, p[1:])
		}
	}
	return filepath.Clean(p)
}
