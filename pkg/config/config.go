package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	ERP          ERPConfig
	Pagination   PaginationConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	if err := cfg.ERP.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"UNIFORMS_APP_ENV" required:"true"`
	Port         string `envconfig:"UNIFORMS_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"UNIFORMS_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"UNIFORMS_LOG_WARN_STACK" default:"false"`

	CORSOrigins []string `envconfig:"UNIFORMS_CORS_ORIGINS" default:"http://localhost:3000"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"UNIFORMS_DB_DSN"`
	Driver string `envconfig:"UNIFORMS_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"UNIFORMS_DB_HOST"`
	LegacyPort     int    `envconfig:"UNIFORMS_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"UNIFORMS_DB_USER"`
	LegacyPassword string `envconfig:"UNIFORMS_DB_PASSWORD"`
	LegacyName     string `envconfig:"UNIFORMS_DB_NAME"`
	LegacySSLMode  string `envconfig:"UNIFORMS_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"UNIFORMS_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"UNIFORMS_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"UNIFORMS_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"UNIFORMS_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"UNIFORMS_REDIS_URL" required:"true"`
	Address      string        `envconfig:"UNIFORMS_REDIS_ADDR"`
	Password     string        `envconfig:"UNIFORMS_REDIS_PASSWORD"`
	DB           int           `envconfig:"UNIFORMS_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"UNIFORMS_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"UNIFORMS_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"UNIFORMS_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"UNIFORMS_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"UNIFORMS_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"UNIFORMS_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"UNIFORMS_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"UNIFORMS_JWT_EXPIRATION_MINUTES" default:"60"`
}

// ERPConfig points at the remote ERP journal gateway.
type ERPConfig struct {
	BaseURL string        `envconfig:"UNIFORMS_ERP_BASE_URL" required:"true"`
	Token   string        `envconfig:"UNIFORMS_ERP_TOKEN" required:"true"`
	Timeout time.Duration `envconfig:"UNIFORMS_ERP_TIMEOUT" default:"30s"`
}

type PaginationConfig struct {
	DefaultPerPage int `envconfig:"UNIFORMS_DEFAULT_PER_PAGE" default:"15"`
	MaxPerPage     int `envconfig:"UNIFORMS_MAX_PER_PAGE" default:"100"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"UNIFORMS_AUTO_MIGRATE" default:"false"`
}

func (e ERPConfig) validate() error {
	parsed, err := url.Parse(strings.TrimSpace(e.BaseURL))
	if err != nil {
		return fmt.Errorf("parsing %s: %w", EnvERPBaseURL, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("%s must be an http(s) url", EnvERPBaseURL)
	}
	if e.Timeout <= 0 {
		return fmt.Errorf("%s must be positive", EnvERPTimeout)
	}
	return nil
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
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
