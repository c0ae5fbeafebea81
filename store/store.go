// Package store owns the relational store: opening it, bringing its schema up
// and handing out one dedicated connection per unit of work.
package store

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	migratepgx "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/jackc/pgx/v5/stdlib"
	"gorm.io/driver/postgres"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite"
)

//go:embed migrations
var migrationsFS embed.FS

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type Config struct {
	Driver       string
	DSN          string
	MaxOpenConns int
	// Debug logs every SQL statement.
	Debug bool
}

// Provider is created once at startup and shared by all requests. Requests
// never use it directly; they borrow a connection through Connection.
type Provider struct {
	db     *gorm.DB
	sqlDB  *sql.DB
	driver string
}

func Open(ctx context.Context, cfg Config) (*Provider, error) {
	if cfg.DSN == "" {
		return nil, errors.New("store: dsn is required")
	}

	var sqlDriver string
	switch cfg.Driver {
	case DriverSQLite:
		sqlDriver = "sqlite"
	case DriverPostgres:
		sqlDriver = "pgx"
	default:
		return nil, fmt.Errorf("store: unsupported driver %q", cfg.Driver)
	}

	sqlDB, err := sql.Open(sqlDriver, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", cfg.Driver, err)
	}
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("store: ping %s: %w", cfg.Driver, err)
	}

	if err := migrateUp(sqlDB, cfg.Driver); err != nil {
		sqlDB.Close()
		return nil, err
	}

	var dialector gorm.Dialector
	if cfg.Driver == DriverSQLite {
		dialector = gormsqlite.New(gormsqlite.Config{DriverName: sqlDriver, Conn: sqlDB})
	} else {
		dialector = postgres.New(postgres.Config{Conn: sqlDB})
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 newSQLLogger(log.New(os.Stdout, "\r\n", log.LstdFlags), cfg.Debug),
	})
	if err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("store: gorm %s: %w", cfg.Driver, err)
	}

	return &Provider{db: db, sqlDB: sqlDB, driver: cfg.Driver}, nil
}

// newSQLLogger logs slow and failing statements, or every statement when
// debug is set. A lookup that finds no row is not a failure.
func newSQLLogger(w logger.Writer, debug bool) logger.Interface {
	level := logger.Warn
	if debug {
		level = logger.Info
	}
	return logger.New(w, logger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  level,
		IgnoreRecordNotFoundError: true,
		Colorful:                  true,
	})
}

// migrateUp creates the schema if it is absent. An up-to-date schema is not
// an error.
func migrateUp(sqlDB *sql.DB, driverName string) error {
	src, err := iofs.New(migrationsFS, "migrations/"+driverName)
	if err != nil {
		return fmt.Errorf("store: migrations source: %w", err)
	}

	var driver database.Driver
	switch driverName {
	case DriverSQLite:
		driver, err = migratesqlite.WithInstance(sqlDB, &migratesqlite.Config{})
	case DriverPostgres:
		driver, err = migratepgx.WithInstance(sqlDB, &migratepgx.Config{})
	}
	if err != nil {
		return fmt.Errorf("store: migrations driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, driverName, driver)
	if err != nil {
		return fmt.Errorf("store: migrations: %w", err)
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("store: migrate up: %w", err)
	}
	return nil
}

// Connection runs fn with a connection reserved for it alone. The connection
// goes back to the pool when fn returns or panics.
func (p *Provider) Connection(ctx context.Context, fn func(conn *gorm.DB) error) error {
	return p.db.WithContext(ctx).Connection(func(tx *gorm.DB) error {
		return fn(tx.Session(&gorm.Session{NewDB: true}))
	})
}

func (p *Provider) Ping(ctx context.Context) error {
	return p.sqlDB.PingContext(ctx)
}

func (p *Provider) Driver() string {
	return p.driver
}

// Stats exposes the pool counters, mostly for tests.
func (p *Provider) Stats() sql.DBStats {
	return p.sqlDB.Stats()
}

func (p *Provider) Close() error {
	return p.sqlDB.Close()
}
