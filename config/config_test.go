package config

import (
	"testing"

	"github.com/labstack/gommon/log"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"ENV", "ADDRESS_LISTEN", "WHITELIST_HOST", "CERT_CACHE_DIR", "DB_DRIVER", "DB_URL", "DB_MAX_CONNS", "LOG_LEVEL"} {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Environment != PRO_ENV {
		t.Fatalf("env=%q", cfg.Environment)
	}
	if !cfg.UseAutoTLS() {
		t.Fatalf("expected AutoTLS in pro without ADDRESS_LISTEN")
	}
	if cfg.DBDriver != DriverSQLite || cfg.DBURL != defaultSQLiteURL {
		t.Fatalf("db=%q %q", cfg.DBDriver, cfg.DBURL)
	}
	if cfg.CertCacheDir != "/var/www/.cache" {
		t.Fatalf("cert cache=%q", cfg.CertCacheDir)
	}
	if cfg.LogLevel != log.INFO {
		t.Fatalf("log level=%v", cfg.LogLevel)
	}
}

func TestLoadDevListensOn8080(t *testing.T) {
	clearEnv(t)
	t.Setenv("ENV", DEV_ENV)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Address != ":8080" || cfg.UseAutoTLS() {
		t.Fatalf("address=%q", cfg.Address)
	}
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("ENV", DEV_ENV)
	t.Setenv("ADDRESS_LISTEN", ":9000")
	t.Setenv("DB_DRIVER", DriverPostgres)
	t.Setenv("DB_URL", "postgres://localhost/blog")
	t.Setenv("DB_MAX_CONNS", "4")
	t.Setenv("LOG_LEVEL", "DEBUG")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Address != ":9000" || cfg.DBURL != "postgres://localhost/blog" || cfg.DBMaxConns != 4 || cfg.LogLevel != log.DEBUG {
		t.Fatalf("unexpected config %+v", cfg)
	}
}

func TestLoadErrors(t *testing.T) {
	cases := map[string]map[string]string{
		"unknown env":        {"ENV": "staging"},
		"unknown driver":     {"DB_DRIVER": "mysql"},
		"postgres needs url": {"DB_DRIVER": DriverPostgres},
		"bad max conns":      {"DB_MAX_CONNS": "many"},
		"negative max conns": {"DB_MAX_CONNS": "-1"},
		"bad log level":      {"LOG_LEVEL": "loud"},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range env {
				t.Setenv(k, v)
			}
			if _, err := Load(); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}
