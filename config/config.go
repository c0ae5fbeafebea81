package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/labstack/gommon/log"
)

const DEV_ENV = "dev"
const PRO_ENV = "pro"

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

const defaultSQLiteURL = "./blog.db?_pragma=busy_timeout(5000)"

type Config struct {
	Environment   string
	Address       string
	WhitelistHost string
	CertCacheDir  string
	DBDriver      string
	DBURL         string
	DBMaxConns    int
	LogLevel      log.Lvl
}

// Load reads the configuration from the environment.
func Load() (Config, error) {
	cfg := Config{
		Environment:   getEnv("ENV", PRO_ENV),
		Address:       os.Getenv("ADDRESS_LISTEN"),
		WhitelistHost: os.Getenv("WHITELIST_HOST"),
		CertCacheDir:  getEnv("CERT_CACHE_DIR", "/var/www/.cache"),
		DBDriver:      getEnv("DB_DRIVER", DriverSQLite),
		DBURL:         os.Getenv("DB_URL"),
	}
	if cfg.Environment != DEV_ENV && cfg.Environment != PRO_ENV {
		return Config{}, fmt.Errorf("unknown ENV %q", cfg.Environment)
	}
	if cfg.Environment == DEV_ENV && cfg.Address == "" {
		cfg.Address = ":8080"
	}

	switch cfg.DBDriver {
	case DriverSQLite:
		if cfg.DBURL == "" {
			cfg.DBURL = defaultSQLiteURL
		}
	case DriverPostgres:
		if cfg.DBURL == "" {
			return Config{}, errors.New("DB_URL is required for the postgres driver")
		}
	default:
		return Config{}, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}

	if v := os.Getenv("DB_MAX_CONNS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return Config{}, fmt.Errorf("invalid DB_MAX_CONNS %q", v)
		}
		cfg.DBMaxConns = n
	}

	lvl, err := parseLevel(getEnv("LOG_LEVEL", "info"))
	if err != nil {
		return Config{}, err
	}
	cfg.LogLevel = lvl

	return cfg, nil
}

// UseAutoTLS reports whether the server should obtain certificates itself
// instead of listening on a plain address.
func (c Config) UseAutoTLS() bool {
	return c.Address == ""
}

func parseLevel(s string) (log.Lvl, error) {
	switch strings.ToLower(s) {
	case "debug":
		return log.DEBUG, nil
	case "info":
		return log.INFO, nil
	case "warn":
		return log.WARN, nil
	case "error":
		return log.ERROR, nil
	case "off":
		return log.OFF, nil
	}
	return 0, fmt.Errorf("unknown LOG_LEVEL %q", s)
}

func getEnv(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}
