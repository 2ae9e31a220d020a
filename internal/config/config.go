package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type AIBackend string

const (
	AIBackendGemini AIBackend = "gemini"
	AIBackendBridge AIBackend = "bridge"
	AIBackendMock   AIBackend = "mock"
)

type Config struct {
	Port        string
	LogLevel    string
	CORSOrigins []string

	AIBackend     AIBackend
	APIKey        string
	ModelName     string
	SearchTimeout time.Duration
	PlainTimeout  time.Duration
	BridgeURL     string

	StorageBackend string // "memory", "firestore" or "sqlite"
	SQLitePath     string
	GCPProjectID   string

	CacheBackend  string // "memory" or "redis"
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	AdminPINHash string

	OTLPEndpoint string

	NewsRefreshInterval time.Duration
	CachePurgeInterval  time.Duration
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	v.SetDefault("log_level", "info")
	v.SetDefault("cors_origins", "*")

	v.SetDefault("ai_backend", string(AIBackendGemini))
	v.SetDefault("model_name", "gemini-3-flash-preview")
	v.SetDefault("search_timeout", "45s")
	v.SetDefault("plain_timeout", "25s")

	v.SetDefault("storage_backend", "memory")
	v.SetDefault("sqlite_path", "portal.db")

	v.SetDefault("cache_backend", "memory")
	v.SetDefault("redis_db", 0)

	v.SetDefault("news_refresh_interval", "30m")
	v.SetDefault("cache_purge_interval", "1h")
}

// Load reads .env (if present), an optional config file and PORTAL_*
// environment variables. The credential is also read from API_KEY or
// GEMINI_API_KEY, and the log level from LOG_LEVEL.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("PORTAL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("api_key", "PORTAL_API_KEY", "API_KEY", "GEMINI_API_KEY")
	_ = v.BindEnv("log_level", "PORTAL_LOG_LEVEL", "LOG_LEVEL")

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
	}

	cfg := &Config{
		Port:        v.GetString("port"),
		LogLevel:    v.GetString("log_level"),
		CORSOrigins: splitList(v.GetString("cors_origins")),

		AIBackend:     AIBackend(strings.ToLower(v.GetString("ai_backend"))),
		APIKey:        strings.TrimSpace(v.GetString("api_key")),
		ModelName:     v.GetString("model_name"),
		SearchTimeout: v.GetDuration("search_timeout"),
		PlainTimeout:  v.GetDuration("plain_timeout"),
		BridgeURL:     v.GetString("bridge_url"),

		StorageBackend: strings.ToLower(v.GetString("storage_backend")),
		SQLitePath:     v.GetString("sqlite_path"),
		GCPProjectID:   v.GetString("gcp_project"),

		CacheBackend:  strings.ToLower(v.GetString("cache_backend")),
		RedisAddr:     v.GetString("redis_addr"),
		RedisPassword: v.GetString("redis_password"),
		RedisDB:       v.GetInt("redis_db"),

		AdminPINHash: v.GetString("admin_pin_hash"),

		OTLPEndpoint: v.GetString("otlp_endpoint"),

		NewsRefreshInterval: v.GetDuration("news_refresh_interval"),
		CachePurgeInterval:  v.GetDuration("cache_purge_interval"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	var errs []error

	switch c.AIBackend {
	case AIBackendGemini, AIBackendMock:
	case AIBackendBridge:
		if c.BridgeURL == "" {
			errs = append(errs, errors.New("PORTAL_BRIDGE_URL must be set for the bridge backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown ai backend %q", c.AIBackend))
	}

	switch c.StorageBackend {
	case "memory":
	case "sqlite":
		if c.SQLitePath == "" {
			errs = append(errs, errors.New("PORTAL_SQLITE_PATH must be set for sqlite storage"))
		}
	case "firestore":
		if c.GCPProjectID == "" {
			errs = append(errs, errors.New("PORTAL_GCP_PROJECT must be set for firestore storage"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown storage backend %q", c.StorageBackend))
	}

	switch c.CacheBackend {
	case "memory":
	case "redis":
		if c.RedisAddr == "" {
			errs = append(errs, errors.New("PORTAL_REDIS_ADDR must be set for the redis cache"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown cache backend %q", c.CacheBackend))
	}

	if c.SearchTimeout <= 0 || c.PlainTimeout <= 0 {
		errs = append(errs, errors.New("ai timeouts must be positive"))
	}

	return errors.Join(errs...)
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
