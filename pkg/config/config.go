package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Database DatabaseConfig
	Redis    RedisConfig
	Log      LogConfig
	CORS     CORSConfig
	Admin    AdminConfig
	Backup   BackupConfig
	Catalog  CatalogConfig
	Cache    CacheConfig
	Receipt  ReceiptConfig
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type LogConfig struct {
	Level  string
	Format string
}

// CORSConfig lists origins allowed to call the API. Empty means allow all.
type CORSConfig struct {
	AllowedOrigins []string
}

// AdminConfig gates the audit/catalog/backup admin endpoints. The password is
// a simple shared constant, same as the desktop app this service replaces; it
// is not a hardened security boundary.
type AdminConfig struct {
	Password     string
	PasswordHash string
	TokenSecret  string
	TokenExpiry  time.Duration
}

// BackupConfig controls the daily CSV exports.
type BackupConfig struct {
	Enabled bool
	Dir     string
}

// CatalogConfig locates the course catalog file.
type CatalogConfig struct {
	Path string
}

// CacheConfig tunes the optional student-list cache.
type CacheConfig struct {
	Enabled bool
	TTL     time.Duration
}

// ReceiptConfig carries the institute letterhead printed on fee receipts.
type ReceiptConfig struct {
	InstituteName    string
	InstituteAddress string
	InstitutePhone   string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.CORS = CORSConfig{
		AllowedOrigins: splitAndTrim(v.GetString("CORS_ALLOWED_ORIGINS")),
	}

	cfg.Admin = AdminConfig{
		Password:     v.GetString("ADMIN_PASSWORD"),
		PasswordHash: v.GetString("ADMIN_PASSWORD_HASH"),
		TokenSecret:  v.GetString("ADMIN_TOKEN_SECRET"),
		TokenExpiry:  parseDuration(v.GetString("ADMIN_TOKEN_EXPIRY"), 2*time.Hour),
	}

	cfg.Backup = BackupConfig{
		Enabled: v.GetBool("ENABLE_BACKUPS"),
		Dir:     v.GetString("BACKUP_DIR"),
	}

	cfg.Catalog = CatalogConfig{
		Path: v.GetString("COURSE_CATALOG_PATH"),
	}

	cfg.Cache = CacheConfig{
		Enabled: v.GetBool("ENABLE_CACHE"),
		TTL:     parseDuration(v.GetString("CACHE_TTL"), 5*time.Minute),
	}

	cfg.Receipt = ReceiptConfig{
		InstituteName:    v.GetString("INSTITUTE_NAME"),
		InstituteAddress: v.GetString("INSTITUTE_ADDRESS"),
		InstitutePhone:   v.GetString("INSTITUTE_PHONE"),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "student_crm")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("CORS_ALLOWED_ORIGINS", "")

	v.SetDefault("ADMIN_PASSWORD", "admin")
	v.SetDefault("ADMIN_PASSWORD_HASH", "")
	v.SetDefault("ADMIN_TOKEN_SECRET", "dev_admin_secret")
	v.SetDefault("ADMIN_TOKEN_EXPIRY", "2h")

	v.SetDefault("ENABLE_BACKUPS", true)
	v.SetDefault("BACKUP_DIR", "./backups")

	v.SetDefault("COURSE_CATALOG_PATH", "./course_catalog.json")

	v.SetDefault("ENABLE_CACHE", false)
	v.SetDefault("CACHE_TTL", "5m")

	v.SetDefault("INSTITUTE_NAME", "Progressive Computers")
	v.SetDefault("INSTITUTE_ADDRESS", "Budhi Mai colony, Raigarh (CG)")
	v.SetDefault("INSTITUTE_PHONE", "9425252051, 7489715491")
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}
