package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server          ServerConfig          `yaml:"server"`
	Database        DatabaseConfig        `yaml:"database"`
	Redis           RedisConfig           `yaml:"redis"`
	JWT             JWTConfig             `yaml:"jwt"`
	AuthAPI         AuthAPIConfig         `yaml:"auth_api"`
	NotificationAPI NotificationAPIConfig `yaml:"notification_api"`
	S3              S3Config              `yaml:"s3"`
	Cache           CacheConfig           `yaml:"cache"`
	Moderation      ModerationConfig      `yaml:"moderation"`
	Logger          LoggerConfig          `yaml:"logger"`
	CORS            CORSConfig            `yaml:"cors"`
}

type ServerConfig struct {
	Port            string        `yaml:"port"`
	Mode            string        `yaml:"mode"`
	Env             string        `yaml:"env"`
	BasePath        string        `yaml:"base_path"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

type DatabaseConfig struct {
	URL             string        `yaml:"url"`
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	User            string        `yaml:"user"`
	Password        string        `yaml:"password"`
	DBName          string        `yaml:"dbname"`
	SSLMode         string        `yaml:"sslmode"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
}

// GetDSN returns DATABASE_URL when set, otherwise a DSN built from the parts
func (d DatabaseConfig) GetDSN() string {
	if d.URL != "" {
		return d.URL
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

type RedisConfig struct {
	URL      string `yaml:"url"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type JWTConfig struct {
	Secret string `yaml:"secret"`
}

// AuthAPIConfig points at the hosted auth service. When BaseURL is empty tokens
// are verified locally with JWT.Secret.
type AuthAPIConfig struct {
	BaseURL string        `yaml:"base_url"`
	APIKey  string        `yaml:"api_key"`
	Timeout time.Duration `yaml:"timeout"`
}

type NotificationAPIConfig struct {
	BaseURL          string        `yaml:"base_url"`
	APIKey           string        `yaml:"api_key"`
	Timeout          time.Duration `yaml:"timeout"`
	DispatchSchedule string        `yaml:"dispatch_schedule"`
	BatchSize        int           `yaml:"batch_size"`
}

type S3Config struct {
	Bucket    string `yaml:"bucket"`
	Region    string `yaml:"region"`
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
}

type CacheConfig struct {
	Backend string        `yaml:"backend"` // memory | redis
	TTL     time.Duration `yaml:"ttl"`
	Size    int           `yaml:"size"`
}

type ModerationConfig struct {
	MaxDepth              int    `yaml:"max_depth"`
	ReportThreshold       int    `yaml:"report_threshold"`
	AutoApproveReputation int    `yaml:"auto_approve_reputation"`
	MaxContentLength      int    `yaml:"max_content_length"`
	AutoFlagReason        string `yaml:"auto_flag_reason"`
}

type LoggerConfig struct {
	Level string `yaml:"level"`
}

type CORSConfig struct {
	AllowedOrigins string `yaml:"allowed_origins"`
}

// Default returns the configuration used when no file or env var overrides a value
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            "8080",
			Mode:            "debug",
			Env:             "dev",
			BasePath:        "/api",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    10 * time.Second,
			ShutdownTimeout: 15 * time.Second,
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			User:            "postgres",
			DBName:          "tinkbyte",
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 5 * time.Minute,
		},
		Redis: RedisConfig{
			Host: "localhost",
			Port: 6379,
		},
		AuthAPI: AuthAPIConfig{
			Timeout: 5 * time.Second,
		},
		NotificationAPI: NotificationAPIConfig{
			Timeout:          5 * time.Second,
			DispatchSchedule: "@every 30s",
			BatchSize:        50,
		},
		Cache: CacheConfig{
			Backend: "memory",
			TTL:     5 * time.Minute,
			Size:    1000,
		},
		Moderation: ModerationConfig{
			MaxDepth:              4,
			ReportThreshold:       3,
			AutoApproveReputation: 10,
			MaxContentLength:      5000,
			AutoFlagReason:        "Auto-flagged: reported by multiple users",
		},
		Logger: LoggerConfig{
			Level: "info",
		},
		CORS: CORSConfig{
			AllowedOrigins: "*",
		},
	}
}

// Load reads the yaml file at path if it exists and applies environment overrides
func Load(path string) (*Config, error) {
	cfg := Default()

	// Load from yaml file if exists
	if data, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (cfg *Config) applyEnv() {
	// Server
	if port := os.Getenv("PORT"); port != "" {
		cfg.Server.Port = port
	}
	if mode := os.Getenv("GIN_MODE"); mode != "" {
		cfg.Server.Mode = mode
	}
	if env := os.Getenv("ENV"); env != "" {
		cfg.Server.Env = env
	}
	if basePath := os.Getenv("BASE_PATH"); basePath != "" {
		cfg.Server.BasePath = basePath
	}
	if logLevel := os.Getenv("LOG_LEVEL"); logLevel != "" {
		cfg.Logger.Level = logLevel
	}

	// Database
	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		cfg.Database.URL = dbURL
	}
	if host := os.Getenv("DB_HOST"); host != "" {
		cfg.Database.Host = host
	}
	if port := envInt("DB_PORT"); port != nil {
		cfg.Database.Port = *port
	}
	if user := os.Getenv("DB_USER"); user != "" {
		cfg.Database.User = user
	}
	if password := os.Getenv("DB_PASSWORD"); password != "" {
		cfg.Database.Password = password
	}
	if name := os.Getenv("DB_NAME"); name != "" {
		cfg.Database.DBName = name
	}
	if sslMode := os.Getenv("DB_SSLMODE"); sslMode != "" {
		cfg.Database.SSLMode = sslMode
	}

	// Redis
	if redisURL := os.Getenv("REDIS_URL"); redisURL != "" {
		cfg.Redis.URL = redisURL
	}
	if redisHost := os.Getenv("REDIS_HOST"); redisHost != "" {
		cfg.Redis.Host = redisHost
	}
	if redisPort := envInt("REDIS_PORT"); redisPort != nil {
		cfg.Redis.Port = *redisPort
	}
	if redisPassword := os.Getenv("REDIS_PASSWORD"); redisPassword != "" {
		cfg.Redis.Password = redisPassword
	}

	// Auth
	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		cfg.JWT.Secret = secret
	}
	if authURL := os.Getenv("AUTH_SERVICE_URL"); authURL != "" {
		cfg.AuthAPI.BaseURL = authURL
	}
	if apiKey := os.Getenv("AUTH_SERVICE_API_KEY"); apiKey != "" {
		cfg.AuthAPI.APIKey = apiKey
	}

	// Notifications
	if notiURL := os.Getenv("NOTIFICATION_SERVICE_URL"); notiURL != "" {
		cfg.NotificationAPI.BaseURL = notiURL
	}
	if apiKey := os.Getenv("INTERNAL_API_KEY"); apiKey != "" {
		cfg.NotificationAPI.APIKey = apiKey
	}

	// S3
	if bucket := os.Getenv("S3_BUCKET"); bucket != "" {
		cfg.S3.Bucket = bucket
	}
	if region := os.Getenv("S3_REGION"); region != "" {
		cfg.S3.Region = region
	}
	if endpoint := os.Getenv("S3_ENDPOINT"); endpoint != "" {
		cfg.S3.Endpoint = endpoint
	}
	if accessKey := os.Getenv("S3_ACCESS_KEY"); accessKey != "" {
		cfg.S3.AccessKey = accessKey
	}
	if secretKey := os.Getenv("S3_SECRET_KEY"); secretKey != "" {
		cfg.S3.SecretKey = secretKey
	}

	// Cache
	if backend := os.Getenv("CACHE_BACKEND"); backend != "" {
		cfg.Cache.Backend = backend
	}

	// Moderation
	if maxDepth := envInt("MODERATION_MAX_DEPTH"); maxDepth != nil {
		cfg.Moderation.MaxDepth = *maxDepth
	}
	if threshold := envInt("MODERATION_REPORT_THRESHOLD"); threshold != nil {
		cfg.Moderation.ReportThreshold = *threshold
	}
	if reputation := envInt("MODERATION_AUTO_APPROVE_REPUTATION"); reputation != nil {
		cfg.Moderation.AutoApproveReputation = *reputation
	}

	// CORS
	if origins := os.Getenv("CORS_ALLOWED_ORIGINS"); origins != "" {
		cfg.CORS.AllowedOrigins = origins
	}
}

func envInt(key string) *int {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return nil
	}
	return &n
}

// Validate rejects settings the comment rules cannot run with
func (cfg *Config) Validate() error {
	if cfg.Moderation.MaxDepth < 1 {
		return fmt.Errorf("moderation.max_depth must be at least 1, got %d", cfg.Moderation.MaxDepth)
	}
	if cfg.Moderation.ReportThreshold < 1 {
		return fmt.Errorf("moderation.report_threshold must be at least 1, got %d", cfg.Moderation.ReportThreshold)
	}
	if cfg.Moderation.MaxContentLength < 1 {
		return fmt.Errorf("moderation.max_content_length must be at least 1, got %d", cfg.Moderation.MaxContentLength)
	}
	switch cfg.Cache.Backend {
	case "memory", "redis":
	default:
		return fmt.Errorf("cache.backend must be memory or redis, got %q", cfg.Cache.Backend)
	}
	return nil
}

// Origins splits the comma separated CORS origin list
func (c CORSConfig) Origins() []string {
	var out []string
	for _, o := range strings.Split(c.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
