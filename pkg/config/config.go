package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const EnvPrefix = ""

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	Report        ReportConfig
	GCP           GCPConfig
	GCS           GCSConfig
	Media         MediaConfig
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
	Env          string `envconfig:"KASIRPOINT_APP_ENV" required:"true"`
	Port         string `envconfig:"KASIRPOINT_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"KASIRPOINT_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"KASIRPOINT_LOG_WARN_STACK" default:"false"`
	AutoMigrate  bool   `envconfig:"KASIRPOINT_AUTO_MIGRATE" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN string `envconfig:"KASIRPOINT_DB_DSN"`

	Host     string `envconfig:"KASIRPOINT_DB_HOST"`
	Port     int    `envconfig:"KASIRPOINT_DB_PORT" default:"5432"`
	User     string `envconfig:"KASIRPOINT_DB_USER"`
	Password string `envconfig:"KASIRPOINT_DB_PASSWORD"`
	Name     string `envconfig:"KASIRPOINT_DB_NAME"`
	SSLMode  string `envconfig:"KASIRPOINT_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"KASIRPOINT_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"KASIRPOINT_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"KASIRPOINT_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"KASIRPOINT_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	for env, value := range map[string]string{
		"KASIRPOINT_DB_HOST": db.Host,
		"KASIRPOINT_DB_USER": db.User,
		"KASIRPOINT_DB_NAME": db.Name,
	} {
		if value == "" {
			missing = append(missing, env)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("either KASIRPOINT_DB_DSN or %s are required", strings.Join(missing, ", "))
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

type RedisConfig struct {
	URL          string        `envconfig:"KASIRPOINT_REDIS_URL" required:"true"`
	DB           int           `envconfig:"KASIRPOINT_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"KASIRPOINT_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"KASIRPOINT_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"KASIRPOINT_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"KASIRPOINT_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"KASIRPOINT_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"KASIRPOINT_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"KASIRPOINT_JWT_ISSUER" default:"kasirpoint"`
	ExpirationMinutes int    `envconfig:"KASIRPOINT_JWT_EXPIRATION_MINUTES" default:"720"`
}

func (j JWTConfig) Expiration() time.Duration {
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"KASIRPOINT_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"KASIRPOINT_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"KASIRPOINT_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"KASIRPOINT_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"KASIRPOINT_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"KASIRPOINT_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginUsernameLimit int           `envconfig:"KASIRPOINT_AUTH_RATE_LIMIT_LOGIN_USERNAME_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"KASIRPOINT_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
}

type ReportConfig struct {
	PageSize int `envconfig:"KASIRPOINT_REPORT_PAGE_SIZE" default:"10"`
}

type GCPConfig struct {
	ProjectID       string `envconfig:"KASIRPOINT_GCP_PROJECT_ID"`
	CredentialsJSON string `envconfig:"KASIRPOINT_GCP_CREDENTIALS_JSON"`
}

type GCSConfig struct {
	BucketName string `envconfig:"KASIRPOINT_GCS_BUCKET_NAME"`
}

type MediaConfig struct {
	MaxUploadMB int `envconfig:"KASIRPOINT_MAX_UPLOAD_MB" default:"10"`
}
