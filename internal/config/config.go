package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config aggregates application settings that may be sourced from files or environment variables.
type Config struct {
	API      APIConfig      `mapstructure:"api"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	MinIO    MinIOConfig    `mapstructure:"minio"`
	Mail     MailConfig     `mapstructure:"mail"`
	Log      LogConfig      `mapstructure:"log"`
}

// APIConfig contains HTTP server settings.
type APIConfig struct {
	Port           int    `mapstructure:"port"`
	BasePath       string `mapstructure:"base_path"`
	MediaBaseURL   string `mapstructure:"media_base_url"`
	AllowedOrigins string `mapstructure:"allowed_origins"`
	AdminSecret    string `mapstructure:"admin_secret"`
	SeedOnStartup  bool   `mapstructure:"seed_on_startup"`
}

// CORSOrigins 将逗号分隔的来源列表拆分为切片。
func (a APIConfig) CORSOrigins() []string {
	var origins []string
	for _, part := range strings.Split(a.AllowedOrigins, ",") {
		if origin := strings.TrimSpace(part); origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}

// DatabaseConfig contains connection options for PostgreSQL or a local SQLite file.
type DatabaseConfig struct {
	Driver     string `mapstructure:"driver"`
	Host       string `mapstructure:"host"`
	Port       int    `mapstructure:"port"`
	Name       string `mapstructure:"name"`
	User       string `mapstructure:"user"`
	Password   string `mapstructure:"password"`
	SSLMode    string `mapstructure:"sslmode"`
	SQLitePath string `mapstructure:"sqlite_path"`
}

// DSN builds a lib/pq compatible connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host,
		d.Port,
		d.User,
		d.Password,
		d.Name,
		d.SSLMode,
	)
}

// RedisConfig 包含 Redis 连接配置，Host 为空表示不启用。
type RedisConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// Enabled 表示是否配置了 Redis。
func (r RedisConfig) Enabled() bool { return strings.TrimSpace(r.Host) != "" }

// Addr 返回 host:port 形式的地址。
func (r RedisConfig) Addr() string { return fmt.Sprintf("%s:%d", r.Host, r.Port) }

// MinIOConfig contains connection options for MinIO/S3-compatible storage.
// An empty endpoint disables object storage; media values are then treated as paths.
type MinIOConfig struct {
	Endpoint         string        `mapstructure:"endpoint"`
	PublicEndpoint   string        `mapstructure:"public_endpoint"`
	AccessKeyID      string        `mapstructure:"access_key_id"`
	SecretAccessKey  string        `mapstructure:"secret_access_key"`
	UseSSL           bool          `mapstructure:"use_ssl"`
	Bucket           string        `mapstructure:"bucket"`
	Region           string        `mapstructure:"region"`
	BucketLookup     string        `mapstructure:"bucket_lookup"`
	AutoCreateBucket bool          `mapstructure:"auto_create_bucket"`
	PresignTTL       time.Duration `mapstructure:"presign_ttl"`
}

// Enabled 表示是否配置了对象存储。
func (m MinIOConfig) Enabled() bool { return strings.TrimSpace(m.Endpoint) != "" }

// MailConfig 描述联系表单通知所用的 SMTP 发送配置，Host 为空表示不发送。
type MailConfig struct {
	Host      string        `mapstructure:"host"`
	Port      int           `mapstructure:"port"`
	Username  string        `mapstructure:"username"`
	Password  string        `mapstructure:"password"`
	From      string        `mapstructure:"from"`
	ContactTo string        `mapstructure:"contact_to"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

// Enabled 表示是否配置了 SMTP。
func (m MailConfig) Enabled() bool { return strings.TrimSpace(m.Host) != "" }

// LogConfig 控制 slog 输出。
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	File   string `mapstructure:"file"`
}

// Load reads configuration solely from environment variables (with optional defaults).
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if err := bindEnv(v); err != nil {
		return nil, fmt.Errorf("bind env: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	cfg.API.BasePath = normalizeBasePath(cfg.API.BasePath)
	if cfg.MinIO.PublicEndpoint == "" && cfg.MinIO.Enabled() {
		scheme := "http"
		if cfg.MinIO.UseSSL {
			scheme = "https"
		}
		cfg.MinIO.PublicEndpoint = scheme + "://" + cfg.MinIO.Endpoint
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// MustLoad wraps Load and panics on failure.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api.port", 8080)
	v.SetDefault("api.base_path", "/api")
	v.SetDefault("api.media_base_url", "")
	v.SetDefault("api.allowed_origins", "")
	v.SetDefault("api.admin_secret", "")
	v.SetDefault("api.seed_on_startup", true)
	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "portfolio")
	v.SetDefault("database.user", "portfolio")
	v.SetDefault("database.password", "portfolio")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.sqlite_path", "portfolio.db")
	v.SetDefault("redis.host", "")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("minio.endpoint", "")
	v.SetDefault("minio.use_ssl", false)
	v.SetDefault("minio.bucket", "portfolio-media")
	v.SetDefault("minio.bucket_lookup", "auto")
	v.SetDefault("minio.auto_create_bucket", true)
	v.SetDefault("minio.presign_ttl", time.Hour)
	v.SetDefault("mail.host", "")
	v.SetDefault("mail.port", 587)
	v.SetDefault("mail.from", "noreply@example.com")
	v.SetDefault("mail.contact_to", "your.email@example.com")
	v.SetDefault("mail.timeout", 10*time.Second)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("log.file", "")
}

func bindEnv(v *viper.Viper) error {
	mappings := map[string]string{
		"api.port":                 "API_PORT",
		"api.base_path":            "API_BASE_PATH",
		"api.media_base_url":       "API_MEDIA_BASE_URL",
		"api.allowed_origins":      "CORS_ALLOWED_ORIGINS",
		"api.admin_secret":         "ADMIN_SECRET",
		"api.seed_on_startup":      "SEED_ON_STARTUP",
		"database.driver":          "DATABASE_DRIVER",
		"database.host":            "DATABASE_HOST",
		"database.port":            "DATABASE_PORT",
		"database.name":            "POSTGRES_DB",
		"database.user":            "POSTGRES_USER",
		"database.password":        "POSTGRES_PASSWORD",
		"database.sslmode":         "DATABASE_SSLMODE",
		"database.sqlite_path":     "SQLITE_PATH",
		"redis.host":               "REDIS_HOST",
		"redis.port":               "REDIS_PORT",
		"minio.endpoint":           "MINIO_ENDPOINT",
		"minio.public_endpoint":    "MINIO_PUBLIC_ENDPOINT",
		"minio.access_key_id":      "MINIO_ACCESS_KEY_ID",
		"minio.secret_access_key":  "MINIO_SECRET_ACCESS_KEY",
		"minio.use_ssl":            "MINIO_USE_SSL",
		"minio.bucket":             "MINIO_BUCKET",
		"minio.region":             "MINIO_REGION",
		"minio.bucket_lookup":      "MINIO_BUCKET_LOOKUP",
		"minio.auto_create_bucket": "MINIO_AUTO_CREATE_BUCKET",
		"minio.presign_ttl":        "MINIO_PRESIGN_TTL",
		"mail.host":                "SMTP_HOST",
		"mail.port":                "SMTP_PORT",
		"mail.username":            "SMTP_USERNAME",
		"mail.password":            "SMTP_PASSWORD",
		"mail.from":                "MAIL_FROM",
		"mail.contact_to":          "MAIL_CONTACT_TO",
		"mail.timeout":             "MAIL_TIMEOUT",
		"log.level":                "LOG_LEVEL",
		"log.format":               "LOG_FORMAT",
		"log.file":                 "LOG_FILE",
	}

	for key, env := range mappings {
		if err := v.BindEnv(key, env); err != nil {
			return fmt.Errorf("bind %s to %s: %w", key, env, err)
		}
	}

	return nil
}

func normalizeBasePath(p string) string {
	p = strings.TrimSpace(p)
	if p == "" || p == "/" {
		return ""
	}
	return "/" + strings.Trim(p, "/")
}

func validate(cfg Config) error {
	if cfg.API.Port <= 0 {
		return errors.New("api port must be positive")
	}
	if cfg.API.MediaBaseURL != "" {
		if u, err := url.Parse(cfg.API.MediaBaseURL); err != nil || u.Scheme == "" || u.Host == "" {
			return errors.New("api media base url must be an absolute url")
		}
	}

	switch cfg.Database.Driver {
	case "postgres":
		if cfg.Database.Host == "" {
			return errors.New("database host is required")
		}
		if cfg.Database.Port <= 0 {
			return errors.New("database port must be positive")
		}
		if cfg.Database.Name == "" {
			return errors.New("database name is required")
		}
		if cfg.Database.User == "" {
			return errors.New("database user is required")
		}
		if cfg.Database.Password == "" {
			return errors.New("database password is required")
		}
		if cfg.Database.SSLMode == "" {
			return errors.New("database sslmode is required")
		}
	case "sqlite":
		if cfg.Database.SQLitePath == "" {
			return errors.New("sqlite path is required")
		}
	default:
		return fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}

	if cfg.Redis.Enabled() && cfg.Redis.Port <= 0 {
		return errors.New("redis port must be positive")
	}

	if cfg.MinIO.Enabled() {
		if cfg.MinIO.AccessKeyID == "" {
			return errors.New("minio access key id is required")
		}
		if cfg.MinIO.SecretAccessKey == "" {
			return errors.New("minio secret access key is required")
		}
		if cfg.MinIO.Bucket == "" {
			return errors.New("minio bucket is required")
		}
		if cfg.MinIO.PresignTTL <= 0 {
			return errors.New("minio presign ttl must be positive")
		}
	}

	if cfg.Mail.Enabled() {
		if cfg.Mail.Port <= 0 {
			return errors.New("smtp port must be positive")
		}
		if cfg.Mail.From == "" {
			return errors.New("mail from address is required")
		}
		if cfg.Mail.ContactTo == "" {
			return errors.New("mail contact recipient is required")
		}
	}
	if cfg.Mail.Timeout <= 0 {
		return errors.New("mail timeout must be positive")
	}
	return nil
}
