package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App     AppConfig
	DB      DBConfig
	Redis   RedisConfig
	S3      S3Config
	Catalog CatalogConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Catalog.validate(); err != nil {
		return nil, err
	}
	if cfg.Catalog.UsesPostgres() && !cfg.App.UseSQLite {
		if err := cfg.DB.ensureDSN(); err != nil {
			return nil, err
		}
	}
	if err := cfg.S3.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"CARBON_APP_ENV" required:"true"`
	Port         string `envconfig:"CARBON_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"CARBON_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"CARBON_LOG_WARN_STACK" default:"false"`
	UseSQLite    bool   `envconfig:"CARBON_USE_SQLITE" default:"false"`
	AutoMigrate  bool   `envconfig:"CARBON_AUTO_MIGRATE" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN string `envconfig:"CARBON_DB_DSN"`

	LegacyHost     string `envconfig:"CARBON_DB_HOST"`
	LegacyPort     int    `envconfig:"CARBON_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"CARBON_DB_USER"`
	LegacyPassword string `envconfig:"CARBON_DB_PASSWORD"`
	LegacyName     string `envconfig:"CARBON_DB_NAME"`
	LegacySSLMode  string `envconfig:"CARBON_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"CARBON_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"CARBON_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"CARBON_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"CARBON_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"CARBON_REDIS_URL"`
	Address      string        `envconfig:"CARBON_REDIS_ADDR"`
	Password     string        `envconfig:"CARBON_REDIS_PASSWORD"`
	DB           int           `envconfig:"CARBON_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"CARBON_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"CARBON_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"CARBON_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"CARBON_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"CARBON_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// S3Config covers the S3-compatible object store that holds product images.
// AccountID builds an R2-style account endpoint unless Endpoint overrides it.
type S3Config struct {
	AccountID       string        `envconfig:"CARBON_S3_ACCOUNT_ID"`
	Endpoint        string        `envconfig:"CARBON_S3_ENDPOINT"`
	AccessKeyID     string        `envconfig:"CARBON_S3_ACCESS_KEY_ID" required:"true"`
	SecretAccessKey string        `envconfig:"CARBON_S3_SECRET_ACCESS_KEY" required:"true"`
	Bucket          string        `envconfig:"CARBON_S3_BUCKET" required:"true"`
	Region          string        `envconfig:"CARBON_S3_REGION" default:"auto"`
	PublicBaseURL   string        `envconfig:"CARBON_S3_PUBLIC_BASE_URL" required:"true"`
	UploadURLExpiry time.Duration `envconfig:"CARBON_S3_UPLOAD_URL_EXPIRY" default:"10m"`
}

// EndpointURL resolves the explicit endpoint or derives the account endpoint.
func (s S3Config) EndpointURL() string {
	if s.Endpoint != "" {
		return s.Endpoint
	}
	return fmt.Sprintf("https://%s.r2.cloudflarestorage.com", s.AccountID)
}

func (s S3Config) validate() error {
	if s.Endpoint == "" && s.AccountID == "" {
		return fmt.Errorf("either %s or %s is required", EnvS3Endpoint, EnvS3AccountID)
	}
	if s.UploadURLExpiry <= 0 {
		return fmt.Errorf("%s must be positive", EnvS3UploadURLExpiry)
	}
	return nil
}

// CatalogConfig selects the product record backend. The postgres backend
// enforces uniqueness of the display index through the schema; the redis
// backend stores flat hashes and enforces nothing.
type CatalogConfig struct {
	Backend string `envconfig:"CARBON_CATALOG_BACKEND" default:"postgres"`
}

func (c CatalogConfig) UsesPostgres() bool {
	return strings.EqualFold(c.Backend, CatalogBackendPostgres)
}

func (c CatalogConfig) UsesRedis() bool {
	return strings.EqualFold(c.Backend, CatalogBackendRedis)
}

func (c CatalogConfig) validate() error {
	if !c.UsesPostgres() && !c.UsesRedis() {
		return fmt.Errorf("unknown catalog backend %q", c.Backend)
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
