package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
	StoreSQLite   = "sqlite"

	defaultJWTSecret = "your-secret-key-change-in-production"
)

type Config struct {
	Port               string        `yaml:"port"`
	AllowedOrigins     []string      `yaml:"allowed_origins"`
	JWTSecret          string        `yaml:"jwt_secret"`
	TokenTTL           time.Duration `yaml:"token_ttl"`
	RateLimitPerMinute int           `yaml:"rate_limit_per_minute"`
	LogMode            string        `yaml:"log_mode"`

	Store StoreConfig `yaml:"store"`

	PassThreshold            float64 `yaml:"pass_threshold"`
	ProgressForwardOnlySteps bool    `yaml:"progress_forward_only_steps"`
	CertificateBaseURL       string  `yaml:"certificate_base_url"`

	SeedDefaults  bool   `yaml:"seed_defaults"`
	AdminEmail    string `yaml:"admin_email"`
	AdminPassword string `yaml:"admin_password"`
}

type StoreConfig struct {
	Driver      string `yaml:"driver"`
	DatabaseURL string `yaml:"database_url"`
	Host        string `yaml:"host"`
	Port        string `yaml:"port"`
	User        string `yaml:"user"`
	Password    string `yaml:"password"`
	Name        string `yaml:"name"`
	SSLMode     string `yaml:"sslmode"`
	SQLitePath  string `yaml:"sqlite_path"`
}

// Load reads .env (if present), takes defaults from the environment and
// then overlays the YAML file named by path or CONFIG_FILE.
func Load(path string) (*Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	cfg, err := FromEnv()
	if err != nil {
		return nil, err
	}

	if path == "" {
		path = os.Getenv("CONFIG_FILE")
	}
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("error opening config file: %w", err)
		}
		defer f.Close()

		dec := yaml.NewDecoder(f)
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil {
			return nil, fmt.Errorf("error parsing config file %s: %w", path, err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FromEnv builds a Config from environment variables and defaults only.
func FromEnv() (*Config, error) {
	var errs []error

	tokenTTL, err := getEnvDuration("TOKEN_TTL", 7*24*time.Hour)
	errs = append(errs, err)
	rateLimit, err := getEnvInt("RATE_LIMIT_PER_MINUTE", 100)
	errs = append(errs, err)
	threshold, err := getEnvFloat("PASS_THRESHOLD", 0.7)
	errs = append(errs, err)
	forwardOnly, err := getEnvBool("PROGRESS_FORWARD_ONLY_STEPS", false)
	errs = append(errs, err)
	seed, err := getEnvBool("SEED_DEFAULTS", true)
	errs = append(errs, err)

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}

	return &Config{
		Port:               getEnv("PORT", "8080"),
		AllowedOrigins:     ParseCommaSeparated(getEnv("ALLOWED_ORIGINS", "*")),
		JWTSecret:          getEnv("JWT_SECRET", defaultJWTSecret),
		TokenTTL:           tokenTTL,
		RateLimitPerMinute: rateLimit,
		LogMode:            getEnv("LOG_MODE", "dev"),
		Store: StoreConfig{
			Driver:      getEnv("STORE_DRIVER", StoreMemory),
			DatabaseURL: os.Getenv("DATABASE_URL"),
			Host:        getEnv("DB_HOST", "localhost"),
			Port:        getEnv("DB_PORT", "5432"),
			User:        getEnv("DB_USER", "postgres"),
			Password:    os.Getenv("DB_PASSWORD"),
			Name:        getEnv("DB_NAME", "safeedu"),
			SSLMode:     getEnv("DB_SSLMODE", "disable"),
			SQLitePath:  getEnv("SQLITE_PATH", "safeedu.db"),
		},
		PassThreshold:            threshold,
		ProgressForwardOnlySteps: forwardOnly,
		CertificateBaseURL:       strings.TrimRight(os.Getenv("CERTIFICATE_BASE_URL"), "/"),
		SeedDefaults:             seed,
		AdminEmail:               getEnv("ADMIN_EMAIL", "admin@example.com"),
		AdminPassword:            os.Getenv("ADMIN_PASSWORD"),
	}, nil
}

func (c *Config) Validate() error {
	if c.Port == "" {
		return errors.New("port is required")
	}
	if c.JWTSecret == "" {
		return errors.New("jwt_secret is required")
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("token_ttl must be positive, got %v", c.TokenTTL)
	}
	if c.RateLimitPerMinute <= 0 {
		return fmt.Errorf("rate_limit_per_minute must be positive, got %d", c.RateLimitPerMinute)
	}
	if c.PassThreshold <= 0 || c.PassThreshold > 1 {
		return fmt.Errorf("pass_threshold must be in (0, 1], got %v", c.PassThreshold)
	}
	switch c.Store.Driver {
	case StoreMemory, StorePostgres:
	case StoreSQLite:
		if c.Store.SQLitePath == "" {
			return errors.New("sqlite_path is required for the sqlite store")
		}
	default:
		return fmt.Errorf("unknown store driver %q", c.Store.Driver)
	}
	return nil
}

// InsecureSecret reports whether the built-in development JWT secret is in use.
func (c *Config) InsecureSecret() bool {
	return c.JWTSecret == defaultJWTSecret
}

// DatabaseDSN returns the connection string for the configured SQL driver.
func (c *Config) DatabaseDSN() string {
	s := c.Store
	switch s.Driver {
	case StoreSQLite:
		return s.SQLitePath
	case StorePostgres:
		if s.DatabaseURL != "" {
			return s.DatabaseURL
		}
		return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
			s.Host, s.Port, s.User, s.Password, s.Name, s.SSLMode)
	}
	return ""
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getEnvFloat(key string, def float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return f, nil
}

func getEnvBool(key string, def bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return b, nil
}

func getEnvDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

// ParseCommaSeparated splits a comma separated list, dropping blanks and
// surrounding spaces.
func ParseCommaSeparated(s string) []string {
	result := []string{}
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	return result
}
