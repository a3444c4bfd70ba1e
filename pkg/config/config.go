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
	Uploads       UploadsConfig
	Admin         AdminConfig
	CORS          CORSConfig
	FeatureFlags  FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(cfg.FeatureFlags.UseSQLite); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"GIFTONLINE_APP_ENV" default:"development"`
	Port         string `envconfig:"GIFTONLINE_APP_PORT" default:"5000"`
	LogLevel     string `envconfig:"GIFTONLINE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"GIFTONLINE_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev) || strings.EqualFold(a.Env, "dev")
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd) || strings.EqualFold(a.Env, "prod")
}

type DBConfig struct {
	DSN    string `envconfig:"GIFTONLINE_DB_DSN"`
	Driver string `envconfig:"GIFTONLINE_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"GIFTONLINE_DB_HOST"`
	LegacyPort     int    `envconfig:"GIFTONLINE_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"GIFTONLINE_DB_USER"`
	LegacyPassword string `envconfig:"GIFTONLINE_DB_PASSWORD"`
	LegacyName     string `envconfig:"GIFTONLINE_DB_NAME"`
	LegacySSLMode  string `envconfig:"GIFTONLINE_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"GIFTONLINE_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"GIFTONLINE_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"GIFTONLINE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"GIFTONLINE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// ensureDSN composes the postgres DSN from the legacy discrete variables when a
// full DSN was not supplied. SQLite mode keeps whatever path the DSN holds.
func (db *DBConfig) ensureDSN(sqlite bool) error {
	if sqlite {
		if db.DSN == "" {
			db.DSN = "file:giftonline.db?cache=shared"
		}
		return nil
	}
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

type RedisConfig struct {
	URL          string        `envconfig:"GIFTONLINE_REDIS_URL"`
	Address      string        `envconfig:"GIFTONLINE_REDIS_ADDR"`
	Password     string        `envconfig:"GIFTONLINE_REDIS_PASSWORD"`
	DB           int           `envconfig:"GIFTONLINE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"GIFTONLINE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"GIFTONLINE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"GIFTONLINE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"GIFTONLINE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"GIFTONLINE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// Enabled reports whether a Redis endpoint was configured. Rate limiting is
// skipped when it was not.
func (r RedisConfig) Enabled() bool {
	return r.URL != "" || r.Address != ""
}

type JWTConfig struct {
	Secret            string `envconfig:"GIFTONLINE_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"GIFTONLINE_JWT_ISSUER" default:"giftonline"`
	ExpirationMinutes int    `envconfig:"GIFTONLINE_JWT_EXPIRATION_MINUTES" default:"10080"`
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"GIFTONLINE_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"GIFTONLINE_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"GIFTONLINE_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"GIFTONLINE_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"GIFTONLINE_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"GIFTONLINE_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"GIFTONLINE_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"GIFTONLINE_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"GIFTONLINE_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"GIFTONLINE_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"GIFTONLINE_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type UploadsConfig struct {
	Dir          string `envconfig:"GIFTONLINE_UPLOADS_DIR" default:"uploads"`
	MaxUploadMB  int    `envconfig:"GIFTONLINE_MAX_UPLOAD_MB" default:"10"`
	MaxBatchSize int    `envconfig:"GIFTONLINE_UPLOADS_MAX_BATCH" default:"5"`
}

// MaxUploadBytes returns the per-file size cap in bytes.
func (u UploadsConfig) MaxUploadBytes() int64 {
	return int64(u.MaxUploadMB) << 20
}

type AdminConfig struct {
	Email    string `envconfig:"GIFTONLINE_ADMIN_EMAIL"`
	Password string `envconfig:"GIFTONLINE_ADMIN_PASSWORD"`
	Name     string `envconfig:"GIFTONLINE_ADMIN_NAME" default:"Admin User"`
}

// Enabled reports whether startup should seed the admin account.
func (a AdminConfig) Enabled() bool {
	return a.Email != "" && a.Password != ""
}

type CORSConfig struct {
	Origins []string `envconfig:"GIFTONLINE_CORS_ORIGINS" default:"http://localhost:5173"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"GIFTONLINE_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"GIFTONLINE_AUTO_MIGRATE" default:"false"`
}
