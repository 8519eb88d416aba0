package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = ""

	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App   AppConfig
	DB    DBConfig
	Redis RedisConfig
	Files FilesConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"RECON_APP_ENV" default:"dev"`
	Port         string `envconfig:"RECON_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"RECON_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"RECON_LOG_WARN_STACK" default:"false"`
	AutoMigrate  bool   `envconfig:"RECON_AUTO_MIGRATE" default:"true"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"RECON_DB_DSN"`
	Driver string `envconfig:"RECON_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"RECON_DB_HOST"`
	Port     int    `envconfig:"RECON_DB_PORT" default:"5432"`
	User     string `envconfig:"RECON_DB_USER"`
	Password string `envconfig:"RECON_DB_PASSWORD"`
	Name     string `envconfig:"RECON_DB_NAME"`
	SSLMode  string `envconfig:"RECON_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"RECON_DB_MAX_OPEN_CONNS" default:"10"`
	MaxIdleConns    int           `envconfig:"RECON_DB_MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetime time.Duration `envconfig:"RECON_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"RECON_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// RedisConfig drives the optional stats cache. Leaving both URL and
// Address empty disables caching entirely.
type RedisConfig struct {
	URL          string        `envconfig:"RECON_REDIS_URL"`
	Address      string        `envconfig:"RECON_REDIS_ADDR"`
	Password     string        `envconfig:"RECON_REDIS_PASSWORD"`
	DB           int           `envconfig:"RECON_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"RECON_REDIS_POOL_SIZE" default:"5"`
	DialTimeout  time.Duration `envconfig:"RECON_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"RECON_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"RECON_REDIS_WRITE_TIMEOUT" default:"5s"`
	StatsTTL     time.Duration `envconfig:"RECON_REDIS_STATS_TTL" default:"5m"`
}

func (r RedisConfig) Enabled() bool {
	return r.URL != "" || r.Address != ""
}

type FilesConfig struct {
	MaxUploadMB int `envconfig:"RECON_MAX_UPLOAD_MB" default:"50"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	required := map[string]string{
		"RECON_DB_HOST": db.Host,
		"RECON_DB_USER": db.User,
		"RECON_DB_NAME": db.Name,
	}
	for _, envVar := range []string{"RECON_DB_HOST", "RECON_DB_USER", "RECON_DB_NAME"} {
		if required[envVar] == "" {
			missing = append(missing, envVar)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either RECON_DB_DSN or %s are required", strings.Join(missing, ", "))
	}

	userInfo := url.User(db.User)
	if db.Password != "" {
		userInfo = url.UserPassword(db.User, db.Password)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.Host, db.Port),
		Path:   db.Name,
	}

	if db.SSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.SSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
