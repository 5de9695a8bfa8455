package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

// Storage drivers understood by the server.
const (
	StorageMemory   = "memory"
	StorageMySQL    = "mysql"
	StoragePostgres = "postgres"
)

// Upload drivers.
const (
	UploadLocal = "local"
	UploadS3    = "s3"
)

// Config holds application level configuration loaded from an optional YAML file and environment variables.
type Config struct {
	ServerPort    string `yaml:"server_port"`
	StorageDriver string `yaml:"storage_driver"`
	MySQLDSN      string `yaml:"mysql_dsn"`
	PostgresDSN   string `yaml:"postgres_dsn"`
	DBLogLevel    string `yaml:"db_log_level"`
	ResetDB       bool   `yaml:"reset_db"`

	RedisAddr string `yaml:"redis_addr"`
	RedisDB   int    `yaml:"redis_db"`
	RedisPass string `yaml:"redis_password"`

	SessionSecret string        `yaml:"session_secret"`
	SessionTTL    time.Duration `yaml:"session_ttl"`
	CookieSecure  bool          `yaml:"cookie_secure"`

	UploadDriver string   `yaml:"upload_driver"`
	UploadDir    string   `yaml:"upload_dir"`
	S3           S3Config `yaml:"s3"`

	CORSOrigins   []string `yaml:"cors_origins"`
	SwaggerHost   string   `yaml:"swagger_host"`
	FeaturedLimit int      `yaml:"featured_limit"`
}

// S3Config describes an S3-compatible bucket used for property images.
type S3Config struct {
	Bucket    string `yaml:"bucket"`
	Region    string `yaml:"region"`
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	PublicURL string `yaml:"public_url"`
}

func defaults() *Config {
	return &Config{
		ServerPort:    "8080",
		StorageDriver: StorageMemory,
		MySQLDSN:      "user:password@tcp(localhost:3306)/homefinder?charset=utf8mb4&parseTime=True&loc=Local",
		PostgresDSN:   "host=localhost user=postgres password=postgres dbname=homefinder port=5432 sslmode=disable",
		DBLogLevel:    "warn",
		SessionSecret: "change-me",
		SessionTTL:    24 * time.Hour,
		UploadDriver:  UploadLocal,
		UploadDir:     "uploads",
		S3:            S3Config{Region: "us-east-1"},
		CORSOrigins:   []string{"http://localhost:5173", "http://localhost:3000"},
		FeaturedLimit: 6,
	}
}

// Load builds Config from .env, CONFIG_FILE and the environment, in that order of precedence (lowest first).
func Load() (*Config, error) {
	// a missing .env is normal outside local development
	_ = godotenv.Load()

	cfg := defaults()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := loadFile(path, cfg); err != nil {
			return nil, err
		}
	}
	applyEnv(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func applyEnv(cfg *Config) {
	cfg.ServerPort = getEnv("SERVER_PORT", cfg.ServerPort)
	cfg.StorageDriver = strings.ToLower(getEnv("STORAGE_DRIVER", cfg.StorageDriver))
	cfg.MySQLDSN = getEnv("MYSQL_DSN", cfg.MySQLDSN)
	cfg.PostgresDSN = getEnv("POSTGRES_DSN", cfg.PostgresDSN)
	cfg.DBLogLevel = getEnv("DB_LOG_LEVEL", cfg.DBLogLevel)
	cfg.ResetDB = getEnvBool("RESET_DB", cfg.ResetDB)

	cfg.RedisAddr = getEnv("REDIS_ADDR", cfg.RedisAddr)
	cfg.RedisDB = getEnvInt("REDIS_DB", cfg.RedisDB)
	cfg.RedisPass = getEnv("REDIS_PASSWORD", cfg.RedisPass)

	cfg.SessionSecret = getEnv("SESSION_SECRET", cfg.SessionSecret)
	cfg.SessionTTL = getEnvDuration("SESSION_TTL", cfg.SessionTTL)
	cfg.CookieSecure = getEnvBool("COOKIE_SECURE", cfg.CookieSecure)

	cfg.UploadDriver = strings.ToLower(getEnv("UPLOAD_DRIVER", cfg.UploadDriver))
	cfg.UploadDir = getEnv("UPLOAD_DIR", cfg.UploadDir)
	cfg.S3.Bucket = getEnv("S3_BUCKET", cfg.S3.Bucket)
	cfg.S3.Region = getEnv("S3_REGION", cfg.S3.Region)
	cfg.S3.Endpoint = getEnv("S3_ENDPOINT", cfg.S3.Endpoint)
	cfg.S3.AccessKey = getEnv("S3_ACCESS_KEY", cfg.S3.AccessKey)
	cfg.S3.SecretKey = getEnv("S3_SECRET_KEY", cfg.S3.SecretKey)
	cfg.S3.PublicURL = getEnv("S3_PUBLIC_URL", cfg.S3.PublicURL)

	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		cfg.CORSOrigins = splitList(v)
	}
	cfg.SwaggerHost = getEnv("SWAGGER_HOST", cfg.SwaggerHost)
	cfg.FeaturedLimit = getEnvInt("FEATURED_LIMIT", cfg.FeaturedLimit)
}

func (c *Config) validate() error {
	switch c.StorageDriver {
	case StorageMemory, StorageMySQL, StoragePostgres:
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q", c.StorageDriver)
	}
	switch c.UploadDriver {
	case UploadLocal:
	case UploadS3:
		if c.S3.Bucket == "" {
			return fmt.Errorf("S3_BUCKET is required when UPLOAD_DRIVER=s3")
		}
	default:
		return fmt.Errorf("unknown UPLOAD_DRIVER %q", c.UploadDriver)
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive")
	}
	return nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.ParseBool(v); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			return parsed
		}
	}
	return def
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
