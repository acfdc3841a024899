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
	Service       ServiceConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	OpenAI        OpenAIConfig
	Webhooks      WebhooksConfig
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
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"LEADSPARK_APP_ENV" required:"true"`
	Port         string `envconfig:"LEADSPARK_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"LEADSPARK_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"LEADSPARK_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"LEADSPARK_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"LEADSPARK_DB_DSN"`
	Driver string `envconfig:"LEADSPARK_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"LEADSPARK_DB_HOST"`
	LegacyPort     int    `envconfig:"LEADSPARK_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"LEADSPARK_DB_USER"`
	LegacyPassword string `envconfig:"LEADSPARK_DB_PASSWORD"`
	LegacyName     string `envconfig:"LEADSPARK_DB_NAME"`
	LegacySSLMode  string `envconfig:"LEADSPARK_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"LEADSPARK_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"LEADSPARK_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"LEADSPARK_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"LEADSPARK_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"LEADSPARK_REDIS_URL" required:"true"`
	Address      string        `envconfig:"LEADSPARK_REDIS_ADDR"`
	Password     string        `envconfig:"LEADSPARK_REDIS_PASSWORD"`
	DB           int           `envconfig:"LEADSPARK_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"LEADSPARK_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"LEADSPARK_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"LEADSPARK_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"LEADSPARK_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"LEADSPARK_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"LEADSPARK_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"LEADSPARK_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"LEADSPARK_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"LEADSPARK_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"LEADSPARK_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"LEADSPARK_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"LEADSPARK_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"LEADSPARK_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"LEADSPARK_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"LEADSPARK_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"LEADSPARK_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"LEADSPARK_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"LEADSPARK_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"LEADSPARK_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"LEADSPARK_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"LEADSPARK_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"LEADSPARK_AUTO_MIGRATE" default:"false"`
}

type OpenAIConfig struct {
	APIKey      string        `envconfig:"LEADSPARK_OPENAI_API_KEY"`
	Model       string        `envconfig:"LEADSPARK_OPENAI_MODEL" default:"gpt-4o-mini"`
	MaxTokens   int           `envconfig:"LEADSPARK_OPENAI_MAX_TOKENS" default:"2000"`
	Temperature float32       `envconfig:"LEADSPARK_OPENAI_TEMPERATURE" default:"0.7"`
	Timeout     time.Duration `envconfig:"LEADSPARK_OPENAI_TIMEOUT" default:"30s"`
}

type WebhooksConfig struct {
	LMSSignupURL string        `envconfig:"LEADSPARK_WEBHOOK_LMS_SIGNUP_URL"`
	CRMFlowURL   string        `envconfig:"LEADSPARK_WEBHOOK_CRM_FLOW_URL"`
	Timeout      time.Duration `envconfig:"LEADSPARK_WEBHOOK_TIMEOUT" default:"10s"`
}

type CronConfig struct {
	Interval time.Duration `envconfig:"LEADSPARK_CRON_INTERVAL" default:"1h"`
	LockTTL  time.Duration `envconfig:"LEADSPARK_CRON_LOCK_TTL" default:"55m"`
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
