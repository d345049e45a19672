// Package persistence implements the domain repositories on gorm, over
// PostgreSQL in production and sqlite for local runs and tests.
package persistence

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/storefront/backend/internal/infrastructure/persistence/models"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Database is an open gorm connection and its pool
type Database struct {
	DB     *gorm.DB
	Driver string
	pool   *sql.DB
}

// Option adjusts Open
type Option func(*gorm.Config)

// WithGormLogger replaces the default silent gorm logger
func WithGormLogger(l logger.Interface) Option {
	return func(c *gorm.Config) { c.Logger = l }
}

// Open connects, sizes the pool and pings the database
func Open(cfg *config.DatabaseConfig, opts ...Option) (*Database, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case DriverPostgres, "":
		dialector = postgres.Open(cfg.DSN())
	case DriverSQLite:
		dialector = sqlite.Open(cfg.SQLitePath)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	gormCfg := &gorm.Config{
		Logger:                 logger.Default.LogMode(logger.Silent),
		SkipDefaultTransaction: true,
		PrepareStmt:            cfg.Driver != DriverSQLite,
	}
	for _, opt := range opts {
		opt(gormCfg)
	}

	db, err := gorm.Open(dialector, gormCfg)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", cfg.Driver, err)
	}
	pool, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", cfg.Driver, err)
	}
	sizePool(pool, cfg)

	if err := pool.Ping(); err != nil {
		_ = pool.Close()
		return nil, fmt.Errorf("ping %s: %w", cfg.Driver, err)
	}
	return &Database{DB: db, Driver: cfg.Driver, pool: pool}, nil
}

func sizePool(pool *sql.DB, cfg *config.DatabaseConfig) {
	if cfg.Driver == DriverSQLite {
		// One writer at a time, and :memory: databases are per connection.
		pool.SetMaxOpenConns(1)
		return
	}
	pool.SetMaxOpenConns(cfg.MaxOpenConns)
	pool.SetMaxIdleConns(cfg.MaxIdleConns)
	pool.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Minute)
	pool.SetConnMaxIdleTime(time.Duration(cfg.ConnMaxIdleTime) * time.Minute)
}

// AutoMigrate creates or updates the tables from the models. Postgres
// deployments run the SQL migrations instead.
func (d *Database) AutoMigrate() error {
	if err := d.DB.AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	return nil
}

func (d *Database) Close() error { return d.sqlDB().Close() }

func (d *Database) Ping() error { return d.sqlDB().Ping() }

// sqlDB tolerates a Database built around an existing gorm handle
func (d *Database) sqlDB() *sql.DB {
	if d.pool == nil {
		d.pool, _ = d.DB.DB()
	}
	return d.pool
}

// ConnectionStats is the pool usage reported by the health endpoint
type ConnectionStats struct {
	MaxOpenConnections int           `json:"max_open_connections"`
	OpenConnections    int           `json:"open_connections"`
	InUse              int           `json:"in_use"`
	Idle               int           `json:"idle"`
	WaitCount          int64         `json:"wait_count"`
	WaitDuration       time.Duration `json:"wait_duration"`
}

func (d *Database) Stats() (ConnectionStats, error) {
	s := d.sqlDB().Stats()
	return ConnectionStats{
		MaxOpenConnections: s.MaxOpenConnections,
		OpenConnections:    s.OpenConnections,
		InUse:              s.InUse,
		Idle:               s.Idle,
		WaitCount:          s.WaitCount,
		WaitDuration:       s.WaitDuration,
	}, nil
}

// supportsRowLocks reports whether SELECT ... FOR UPDATE is available.
// sqlite serializes writers at the database level instead.
func supportsRowLocks(db *gorm.DB) bool {
	return db.Dialector.Name() != DriverSQLite
}
