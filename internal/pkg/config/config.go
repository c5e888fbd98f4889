package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// -----------------------------------------------------------------------------
// Environment variable configuration guidelines:
// - required: Values that differ between environments (port, DB connection, etc.), security settings
// - default: Values common across all environments (timezone, timeout, etc.), standard settings
// -----------------------------------------------------------------------------

type Config struct {
	Server    ServerConfig
	DB        DBConfig
	Redis     RedisConfig
	MQ        MQConfig
	CORS      CORSConfig
	Cookie    CookieConfig
	Log       LogConfig
	JWT       JWTConfig
	RateLimit RateLimitConfig
	Token     TokenConfig
	Sweep     SweepConfig
}

type ServerConfig struct {
	Port string `envconfig:"PORT" required:"true"`
}

type DBConfig struct {
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER" required:"true"`
	Password string `envconfig:"DB_PASSWORD" required:"true"`
	DBName   string `envconfig:"DB_NAME" required:"true"`
	SSLMode  string `envconfig:"DB_SSL_MODE" default:"disable"`
	TimeZone string `envconfig:"DB_TIMEZONE" default:"Asia/Kolkata"`
	MaxConns int32  `envconfig:"DB_MAX_CONNS" default:"20"`
}

type RedisConfig struct {
	Addr     string `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	Password string `envconfig:"REDIS_PASSWORD" default:""`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
}

// MQConfig: an empty URL disables the outbox relay; jobs stay queued in the database.
type MQConfig struct {
	URL          string        `envconfig:"MQ_URL" default:""`
	Exchange     string        `envconfig:"MQ_EXCHANGE" default:"cng.events"`
	PollInterval time.Duration `envconfig:"MQ_POLL_INTERVAL" default:"5s"`
	BatchSize    int32         `envconfig:"MQ_BATCH_SIZE" default:"50"`
}

type CORSConfig struct {
	AllowOrigins     []string      `envconfig:"CORS_ALLOW_ORIGINS" default:"http://localhost:3000,http://localhost:8080"`
	AllowMethods     []string      `envconfig:"CORS_ALLOW_METHODS" default:"GET,POST,PUT,PATCH,DELETE,OPTIONS"`
	AllowHeaders     []string      `envconfig:"CORS_ALLOW_HEADERS" default:"Origin,Content-Type,Accept,Authorization"`
	ExposeHeaders    []string      `envconfig:"CORS_EXPOSE_HEADERS" default:"Content-Length"`
	AllowCredentials bool          `envconfig:"CORS_ALLOW_CREDENTIALS" default:"true"`
	MaxAge           time.Duration `envconfig:"CORS_MAX_AGE" default:"12h"`
}

type CookieConfig struct {
	Domain   string `envconfig:"COOKIE_DOMAIN" default:""`
	Secure   bool   `envconfig:"COOKIE_SECURE" default:"false"`
	SameSite string `envconfig:"COOKIE_SAME_SITE" default:"Lax"`
}

type LogConfig struct {
	Level          string `envconfig:"LOG_LEVEL" default:"info"`
	TimeZone       string `envconfig:"LOG_TIMEZONE" default:"Asia/Kolkata"`
	TimeFormat     string `envconfig:"LOG_TIME_FORMAT" default:"2006-01-02 15:04:05.000"`
	TimeZoneOffset int    `envconfig:"LOG_TIMEZONE_OFFSET" default:"19800"` // 5.5*60*60
}

type JWTConfig struct {
	Secret   string `envconfig:"JWT_SECRET" required:"true"`
	Duration string `envconfig:"JWT_DURATION" default:"24h"`
}

type RateLimitConfig struct {
	RedeemRequests int           `envconfig:"RATE_LIMIT_REDEEM_REQUESTS" default:"30"`
	RedeemWindow   time.Duration `envconfig:"RATE_LIMIT_REDEEM_WINDOW" default:"1m"`
	KeyPrefix      string        `envconfig:"RATE_LIMIT_KEY_PREFIX" default:"cng"`
}

// TokenConfig is the single source for the scan window.
// The late bound is persisted per token at booking time (slot + ExpiryGrace);
// the early bound is evaluated at scan time (slot - EarlyScanWindow).
type TokenConfig struct {
	EarlyScanWindow   time.Duration `envconfig:"TOKEN_EARLY_SCAN_WINDOW" default:"15m"`
	ExpiryGrace       time.Duration `envconfig:"TOKEN_EXPIRY_GRACE" default:"20m"`
	SlotTimeZone      string        `envconfig:"TOKEN_SLOT_TIMEZONE" default:"Asia/Kolkata"`
	CodeMaxAttempts   int           `envconfig:"TOKEN_CODE_MAX_ATTEMPTS" default:"5"`
	AuditWriteTimeout time.Duration `envconfig:"TOKEN_AUDIT_WRITE_TIMEOUT" default:"2s"`
}

type SweepConfig struct {
	Enabled  bool          `envconfig:"SWEEP_ENABLED" default:"true"`
	Interval time.Duration `envconfig:"SWEEP_INTERVAL" default:"1m"`
}

func (c *DBConfig) BuildDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&timezone=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode, c.TimeZone,
	)
}

func (c TokenConfig) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.SlotTimeZone)
	if err != nil {
		return nil, fmt.Errorf("invalid TOKEN_SLOT_TIMEZONE %q: %w", c.SlotTimeZone, err)
	}
	return loc, nil
}

func LoadConfig() (Config, error) {
	// .env is optional; real environment variables win over it.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to load .env: %w", err)
	}

	var cfg Config
	err := envconfig.Process("", &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to process env config: %w", err)
	}
	return cfg, nil
}

func NewTestConfig() Config {
	return Config{
		Server: ServerConfig{
			Port: "8889", // Test port
		},
		DB: DBConfig{
			Host:     "localhost",
			Port:     "15433", // Test DB port
			User:     "test",
			Password: "test",
			DBName:   "test_db",
			SSLMode:  "disable",
			TimeZone: "Asia/Kolkata",
			MaxConns: 10,
		},
		Cookie: CookieConfig{
			SameSite: "Lax",
		},
		Log: LogConfig{
			Level:          "error", // Error level only for tests
			TimeZone:       "Asia/Kolkata",
			TimeFormat:     "2006-01-02 15:04:05.000",
			TimeZoneOffset: 19800,
		},
		JWT: JWTConfig{
			Secret:   "test-secret",
			Duration: "1h",
		},
		RateLimit: RateLimitConfig{
			RedeemRequests: 1000,
			RedeemWindow:   time.Minute,
			KeyPrefix:      "cng-test",
		},
		Token: TokenConfig{
			EarlyScanWindow:   15 * time.Minute,
			ExpiryGrace:       20 * time.Minute,
			SlotTimeZone:      "Asia/Kolkata",
			CodeMaxAttempts:   5,
			AuditWriteTimeout: 2 * time.Second,
		},
		Sweep: SweepConfig{
			Enabled:  false,
			Interval: time.Minute,
		},
	}
}
