package config

import (
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds the application-level settings. Database and Redis settings
// are read by the database package from the same viper instance.
type Config struct {
	Port           string
	AllowedOrigins []string
	Auth           AuthConfig
	Reconcile      ReconcileConfig
	Cache          CacheConfig
}

type AuthConfig struct {
	JWTSecret string
	// TrustedDevMode lets requests with an unverifiable credential act as
	// DefaultUserID. Never enable outside a local sandbox.
	TrustedDevMode bool
	DefaultUserID  string
}

type ReconcileConfig struct {
	Interval time.Duration // 0 disables the background job
	Repair   bool
}

type CacheConfig struct {
	SummaryTTL            time.Duration
	IdempotencyTTL        time.Duration
	IdempotencyPendingTTL time.Duration // must outlive the request timeout
}

var envBindings = map[string]string{
	"server.port":                   "PORT",
	"cors.allowed_origins":          "CORS_ALLOWED_ORIGINS",
	"database.host":                 "DATABASE_HOST",
	"database.port":                 "DATABASE_PORT",
	"database.user":                 "DATABASE_USER",
	"database.password":             "DATABASE_PASSWORD",
	"database.name":                 "DATABASE_NAME",
	"database.ssl_mode":             "DATABASE_SSL_MODE",
	"database.max_open_conns":       "DATABASE_MAX_OPEN_CONNS",
	"database.max_idle_conns":       "DATABASE_MAX_IDLE_CONNS",
	"database.conn_max_lifetime":    "DATABASE_CONN_MAX_LIFETIME",
	"database.migrate":              "DATABASE_MIGRATE",
	"redis.host":                    "REDIS_HOST",
	"redis.port":                    "REDIS_PORT",
	"redis.password":                "REDIS_PASSWORD",
	"redis.db":                      "REDIS_DB",
	"auth.jwt_secret":               "AUTH_JWT_SECRET",
	"auth.trusted_dev_mode":         "AUTH_TRUSTED_DEV_MODE",
	"auth.default_user_id":          "AUTH_DEFAULT_USER_ID",
	"reconcile.interval":            "RECONCILE_INTERVAL",
	"reconcile.repair":              "RECONCILE_REPAIR",
	"cache.summary_ttl":             "CACHE_SUMMARY_TTL",
	"cache.idempotency_ttl":         "CACHE_IDEMPOTENCY_TTL",
	"cache.idempotency_pending_ttl": "CACHE_IDEMPOTENCY_PENDING_TTL",
}

// Init points viper at the .env file and binds every environment variable.
func Init(configFile string) {
	viper.SetConfigFile(configFile)
	viper.AutomaticEnv()

	for key, env := range envBindings {
		viper.BindEnv(key, env)
	}

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Config file not found, using defaults: %v", err)
	}
}

// Load returns the application config with defaults applied.
func Load() *Config {
	viper.SetDefault("server.port", "8080")
	viper.SetDefault("cors.allowed_origins", "https://*,http://*")
	viper.SetDefault("auth.trusted_dev_mode", false)
	viper.SetDefault("auth.default_user_id", "")
	viper.SetDefault("reconcile.interval", time.Hour)
	viper.SetDefault("reconcile.repair", false)
	viper.SetDefault("cache.summary_ttl", 5*time.Minute)
	viper.SetDefault("cache.idempotency_ttl", 24*time.Hour)
	viper.SetDefault("cache.idempotency_pending_ttl", 2*time.Minute)

	return &Config{
		Port:           viper.GetString("server.port"),
		AllowedOrigins: splitList(viper.GetString("cors.allowed_origins")),
		Auth: AuthConfig{
			JWTSecret:      viper.GetString("auth.jwt_secret"),
			TrustedDevMode: viper.GetBool("auth.trusted_dev_mode"),
			DefaultUserID:  viper.GetString("auth.default_user_id"),
		},
		Reconcile: ReconcileConfig{
			Interval: viper.GetDuration("reconcile.interval"),
			Repair:   viper.GetBool("reconcile.repair"),
		},
		Cache: CacheConfig{
			SummaryTTL:            viper.GetDuration("cache.summary_ttl"),
			IdempotencyTTL:        viper.GetDuration("cache.idempotency_ttl"),
			IdempotencyPendingTTL: viper.GetDuration("cache.idempotency_pending_ttl"),
		},
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
