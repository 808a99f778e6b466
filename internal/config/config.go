package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

const (
	StoreSQLite = "sqlite"
	StoreMySQL  = "mysql"
	StoreRedis  = "redis"
)

type Config struct {
	AppPort string `validate:"required,numeric"`

	APIBaseURL      string `validate:"required,url"`
	APICredentials  bool
	APITimeoutSecs  int    `validate:"gte=0"`
	DefaultCurrency string `validate:"required,len=3,alpha"`
	UILocale        string `validate:"required,bcp47_language_tag"`

	SessionSecret string `validate:"required,min=16"`
	SessionCookie string `validate:"required"`

	// browsers idle this long lose their in-memory page state
	SessionIdleMins int `validate:"gt=0"`

	TokenStore string `validate:"oneof=sqlite mysql redis"`
	SQLitePath string

	MySQLHost string
	MySQLPort string
	MySQLDB   string
	MySQLUser string
	MySQLPass string

	RedisAddr     string
	RedisPassword string
	RedisDB       int `validate:"gte=0"`
	// 0 keeps redis-stored tokens until logout
	TokenTTLHours int `validate:"gte=0"`

	InFlightTTLSecs int `validate:"gt=0"`

	LogLevel string `validate:"oneof=debug info warn error"`
}

func getenv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func getint(k string, d int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return d
}

func getbool(k string, d bool) bool {
	if v := os.Getenv(k); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return d
}

func Load() *Config {
	return &Config{
		AppPort: getenv("APP_PORT", "3000"),

		APIBaseURL:      getenv("API_BASE_URL", "http://localhost:8080/api"),
		APICredentials:  getbool("API_WITH_CREDENTIALS", true),
		APITimeoutSecs:  getint("API_TIMEOUT_SECONDS", 0),
		DefaultCurrency: strings.ToUpper(getenv("DEFAULT_CURRENCY", "USD")),
		UILocale:        getenv("UI_LOCALE", "en-US"),

		SessionSecret: getenv("SESSION_SECRET", ""),
		SessionCookie: getenv("SESSION_COOKIE", "bk_session"),

		SessionIdleMins: getint("SESSION_IDLE_MINUTES", 120),

		TokenStore: strings.ToLower(getenv("TOKEN_STORE", StoreSQLite)),
		SQLitePath: getenv("SQLITE_PATH", "bookkeeping-web.db"),

		MySQLHost: getenv("MYSQL_HOST", "mysql"),
		MySQLPort: getenv("MYSQL_PORT", "3306"),
		MySQLDB:   getenv("MYSQL_DB", "bookkeeping"),
		MySQLUser: getenv("MYSQL_USER", "bookkeeping"),
		MySQLPass: getenv("MYSQL_PASS", "bookkeeping"),

		RedisAddr:     getenv("REDIS_ADDR", ""),
		RedisPassword: getenv("REDIS_PASSWORD", ""),
		RedisDB:       getint("REDIS_DB", 0),
		TokenTTLHours: getint("TOKEN_TTL_HOURS", 720),

		InFlightTTLSecs: getint("INFLIGHT_TTL_SECONDS", 60),

		LogLevel: strings.ToLower(getenv("LOG_LEVEL", "info")),
	}
}

func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	switch c.TokenStore {
	case StoreSQLite:
		if c.SQLitePath == "" {
			return errors.New("missing SQLITE_PATH")
		}
	case StoreMySQL:
		if c.MySQLHost == "" || c.MySQLPort == "" || c.MySQLDB == "" || c.MySQLUser == "" {
			return errors.New("missing MySQL config (MYSQL_HOST/PORT/DB/USER)")
		}
		// ensure port is valid
		if _, err := net.LookupPort("tcp", c.MySQLPort); err != nil {
			return fmt.Errorf("invalid MYSQL_PORT %q: %w", c.MySQLPort, err)
		}
	case StoreRedis:
		if c.RedisAddr == "" {
			return errors.New("TOKEN_STORE=redis requires REDIS_ADDR")
		}
	}
	return nil
}

func (c *Config) APITimeout() time.Duration { return time.Duration(c.APITimeoutSecs) * time.Second }

func (c *Config) InFlightTTL() time.Duration { return time.Duration(c.InFlightTTLSecs) * time.Second }

func (c *Config) SessionIdle() time.Duration { return time.Duration(c.SessionIdleMins) * time.Minute }

func (c *Config) TokenTTL() time.Duration { return time.Duration(c.TokenTTLHours) * time.Hour }

func (c *Config) mysqlAddr() string { return net.JoinHostPort(c.MySQLHost, c.MySQLPort) }

func (c *Config) MySQLDSN() string {
	// parseTime needed for DATETIME
	return fmt.Sprintf("%s:%s@tcp(%s)/%s?parseTime=true&charset=utf8mb4,utf8",
		c.MySQLUser, c.MySQLPass, c.mysqlAddr(), c.MySQLDB)
}
