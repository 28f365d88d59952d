package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	APIRateLimit  APIRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	Sendgrid      SendgridConfig
	CORS          CORSConfig
	Cron          CronConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	if err := cfg.App.validateBaseURL(); err != nil {
		return nil, err
	}
	// Unset, the login cookie is Secure only in prod so plain-http dev keeps it.
	if _, ok := os.LookupEnv(EnvJWTCookieSecure); !ok {
		cfg.JWT.CookieSecure = cfg.App.IsProd()
	}
	return &cfg, nil
}

type AppConfig struct {
	Env             string        `envconfig:"FUNNELHUB_APP_ENV" required:"true"`
	Port            string        `envconfig:"FUNNELHUB_APP_PORT" default:"8080"`
	LogLevel        string        `envconfig:"FUNNELHUB_LOG_LEVEL" default:"info"`
	LogWarnStack    bool          `envconfig:"FUNNELHUB_LOG_WARN_STACK" default:"false"`
	BaseURL         string        `envconfig:"FUNNELHUB_BASE_URL" required:"true"`
	ShutdownTimeout time.Duration `envconfig:"FUNNELHUB_SHUTDOWN_TIMEOUT" default:"15s"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// ResetLink builds the link mailed to a principal for the given reset.
// Admins land on the console route, users on the public one.
func (a AppConfig) ResetLink(admin bool, token, resetUUID string) string {
	path := "/reset/submit"
	if admin {
		path = "/admin/reset/submit"
	}
	q := url.Values{}
	q.Set("token", token)
	q.Set("resetUuid", resetUUID)
	return strings.TrimRight(a.BaseURL, "/") + path + "?" + q.Encode()
}

func (a AppConfig) validateBaseURL() error {
	u, err := url.Parse(a.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%s must be an absolute url, got %q", EnvBaseURL, a.BaseURL)
	}
	return nil
}

type DBConfig struct {
	DSN    string `envconfig:"FUNNELHUB_DB_DSN"`
	Driver string `envconfig:"FUNNELHUB_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"FUNNELHUB_DB_HOST"`
	LegacyPort     int    `envconfig:"FUNNELHUB_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"FUNNELHUB_DB_USER"`
	LegacyPassword string `envconfig:"FUNNELHUB_DB_PASSWORD"`
	LegacyName     string `envconfig:"FUNNELHUB_DB_NAME"`
	LegacySSLMode  string `envconfig:"FUNNELHUB_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"FUNNELHUB_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"FUNNELHUB_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"FUNNELHUB_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"FUNNELHUB_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

func (db DBConfig) IsSQLite() bool {
	return strings.EqualFold(db.Driver, DriverSQLite)
}

// RedisConfig is optional; an empty URL and address disables the redis-backed features.
type RedisConfig struct {
	URL          string        `envconfig:"FUNNELHUB_REDIS_URL"`
	Address      string        `envconfig:"FUNNELHUB_REDIS_ADDR"`
	Password     string        `envconfig:"FUNNELHUB_REDIS_PASSWORD"`
	DB           int           `envconfig:"FUNNELHUB_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"FUNNELHUB_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"FUNNELHUB_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"FUNNELHUB_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"FUNNELHUB_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"FUNNELHUB_REDIS_WRITE_TIMEOUT" default:"5s"`
}

func (r RedisConfig) Enabled() bool {
	return r.URL != "" || r.Address != ""
}

type JWTConfig struct {
	Secret            string `envconfig:"FUNNELHUB_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"FUNNELHUB_JWT_ISSUER" default:"funnelhub"`
	ExpirationMinutes int    `envconfig:"FUNNELHUB_JWT_EXPIRATION_MINUTES" default:"120"`
	CookieName        string `envconfig:"FUNNELHUB_JWT_COOKIE_NAME" default:"token"`
	CookieSecure      bool   `envconfig:"FUNNELHUB_JWT_COOKIE_SECURE"`
}

// TTL returns the access token lifetime.
func (j JWTConfig) TTL() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return 0
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"FUNNELHUB_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"FUNNELHUB_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"FUNNELHUB_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"FUNNELHUB_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"FUNNELHUB_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow     time.Duration `envconfig:"FUNNELHUB_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit int           `envconfig:"FUNNELHUB_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit    int           `envconfig:"FUNNELHUB_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	ResetWindow     time.Duration `envconfig:"FUNNELHUB_AUTH_RATE_LIMIT_RESET_WINDOW" default:"10m"`
	ResetEmailLimit int           `envconfig:"FUNNELHUB_AUTH_RATE_LIMIT_RESET_EMAIL_LIMIT" default:"3"`
	ResetIPLimit    int           `envconfig:"FUNNELHUB_AUTH_RATE_LIMIT_RESET_IP_LIMIT" default:"20"`
}

// APIRateLimitConfig uses the limiter's formatted rates ("300-M", "50-S"); empty disables it.
type APIRateLimitConfig struct {
	PerIP string `envconfig:"FUNNELHUB_API_RATE_LIMIT_PER_IP" default:"300-M"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"FUNNELHUB_AUTO_MIGRATE" default:"false"`
}

type SendgridConfig struct {
	APIKey      string `envconfig:"FUNNELHUB_SENDGRID_API_KEY"`
	DefaultFrom string `envconfig:"FUNNELHUB_SENDGRID_FROM_EMAIL" default:"no-reply@funnelhub.io"`
	FromName    string `envconfig:"FUNNELHUB_SENDGRID_FROM_NAME" default:"FunnelHub"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"FUNNELHUB_CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`
}

// CronConfig drives the maintenance worker.
type CronConfig struct {
	Interval       time.Duration `envconfig:"FUNNELHUB_CRON_INTERVAL" default:"1h"`
	ResetRetention time.Duration `envconfig:"FUNNELHUB_CRON_RESET_RETENTION" default:"168h"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}
	if db.IsSQLite() {
		return fmt.Errorf("%s is required for the sqlite driver", EnvDBDSN)
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if strings.TrimSpace(legacyValues[env]) == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
