package config

import (
	"fmt"
	"net/url"
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
	Checkout      CheckoutConfig
	Admin         AdminSeedConfig
	FeatureFlags  FeatureFlagsConfig
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
	Env          string `envconfig:"CARTFRONT_APP_ENV" required:"true"`
	Port         string `envconfig:"CARTFRONT_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"CARTFRONT_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"CARTFRONT_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN string `envconfig:"CARTFRONT_DB_DSN"`

	Host     string `envconfig:"CARTFRONT_DB_HOST"`
	Port     int    `envconfig:"CARTFRONT_DB_PORT" default:"5432"`
	User     string `envconfig:"CARTFRONT_DB_USER"`
	Password string `envconfig:"CARTFRONT_DB_PASSWORD"`
	Name     string `envconfig:"CARTFRONT_DB_NAME"`
	SSLMode  string `envconfig:"CARTFRONT_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"CARTFRONT_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"CARTFRONT_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"CARTFRONT_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"CARTFRONT_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"CARTFRONT_REDIS_URL" required:"true"`
	Address      string        `envconfig:"CARTFRONT_REDIS_ADDR"`
	Password     string        `envconfig:"CARTFRONT_REDIS_PASSWORD"`
	DB           int           `envconfig:"CARTFRONT_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"CARTFRONT_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"CARTFRONT_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"CARTFRONT_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"CARTFRONT_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"CARTFRONT_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"CARTFRONT_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"CARTFRONT_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"CARTFRONT_JWT_EXPIRATION_MINUTES" default:"30"`
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"CARTFRONT_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"CARTFRONT_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"CARTFRONT_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"CARTFRONT_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"CARTFRONT_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow      time.Duration `envconfig:"CARTFRONT_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit  int           `envconfig:"CARTFRONT_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit     int           `envconfig:"CARTFRONT_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	SignupWindow     time.Duration `envconfig:"CARTFRONT_AUTH_RATE_LIMIT_SIGNUP_WINDOW" default:"5m"`
	SignupEmailLimit int           `envconfig:"CARTFRONT_AUTH_RATE_LIMIT_SIGNUP_EMAIL_LIMIT" default:"3"`
	SignupIPLimit    int           `envconfig:"CARTFRONT_AUTH_RATE_LIMIT_SIGNUP_IP_LIMIT" default:"20"`
}

type CheckoutConfig struct {
	MaxAttempts int `envconfig:"CARTFRONT_CHECKOUT_MAX_ATTEMPTS" default:"3"`
}

// AdminSeedConfig drives cmd/seed-admin; never used by the API process.
type AdminSeedConfig struct {
	Email     string `envconfig:"CARTFRONT_ADMIN_EMAIL" default:"admin@example.com"`
	Password  string `envconfig:"CARTFRONT_ADMIN_PASSWORD"`
	FirstName string `envconfig:"CARTFRONT_ADMIN_FIRST_NAME" default:"Admin"`
	LastName  string `envconfig:"CARTFRONT_ADMIN_LAST_NAME" default:"User"`
	Phone     string `envconfig:"CARTFRONT_ADMIN_PHONE" default:"1234567890"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"CARTFRONT_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	parts := map[string]string{
		EnvDBHost: db.Host,
		EnvDBUser: db.User,
		EnvDBName: db.Name,
	}
	for _, env := range fallbackDBEnvVars {
		if parts[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
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
