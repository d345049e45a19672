// Package migration applies the versioned SQL files under migrations/ to a
// PostgreSQL database. SQLite deployments use gorm AutoMigrate instead.
package migration

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"go.uber.org/zap"
)

// ErrUsage is returned by Execute for a malformed command line
var ErrUsage = errors.New("invalid migrate usage")

// Runner is the set of operations the migrate CLI drives
type Runner interface {
	Up() error
	Down() error
	Steps(n int) error
	GoTo(version uint) error
	Force(version int) error
	Version() (uint, bool, error)
}

// Migrator runs golang-migrate against one database
type Migrator struct {
	migrate *migrate.Migrate
	logger  *zap.Logger
}

var _ Runner = (*Migrator)(nil)

// New creates a Migrator over an open PostgreSQL connection
func New(db *sql.DB, migrationsPath string, logger *zap.Logger) (*Migrator, error) {
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to create postgres driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance("file://"+migrationsPath, "postgres", driver)
	if err != nil {
		return nil, fmt.Errorf("failed to create migrate instance: %w", err)
	}
	return &Migrator{migrate: m, logger: logger.Named("migrate")}, nil
}

// Up applies every pending migration
func (m *Migrator) Up() error {
	if err := m.migrate.Up(); err != nil {
		return m.settle(err, "Schema already up to date", "migration up failed")
	}
	return m.logVersion("Migrations applied")
}

// Down rolls back every migration
func (m *Migrator) Down() error {
	if err := m.migrate.Down(); err != nil {
		return m.settle(err, "Nothing to roll back", "migration down failed")
	}
	m.logger.Info("All migrations rolled back")
	return nil
}

// Steps applies n migrations, rolling back when n is negative
func (m *Migrator) Steps(n int) error {
	if err := m.migrate.Steps(n); err != nil {
		return m.settle(err, "No migrations to apply", "migration steps failed")
	}
	return m.logVersion("Migration steps applied")
}

// GoTo migrates up or down to version
func (m *Migrator) GoTo(version uint) error {
	if err := m.migrate.Migrate(version); err != nil {
		return m.settle(err, "Already at target version", fmt.Sprintf("migration to version %d failed", version))
	}
	return m.logVersion("Migrated to target version")
}

// Force records version as applied without running anything. It is the way
// out of a dirty state left by a failed migration.
func (m *Migrator) Force(version int) error {
	m.logger.Warn("Forcing migration version", zap.Int("version", version))
	if err := m.migrate.Force(version); err != nil {
		return fmt.Errorf("failed to force version %d: %w", version, err)
	}
	return nil
}

// Version returns the applied version, zero when nothing was applied
func (m *Migrator) Version() (uint, bool, error) {
	version, dirty, err := m.migrate.Version()
	if err != nil {
		if errors.Is(err, migrate.ErrNilVersion) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("failed to get migration version: %w", err)
	}
	return version, dirty, nil
}

// settle treats ErrNoChange as success and wraps anything else
func (m *Migrator) settle(err error, noChange, failure string) error {
	if errors.Is(err, migrate.ErrNoChange) {
		m.logger.Info(noChange)
		return nil
	}
	return fmt.Errorf("%s: %w", failure, err)
}

func (m *Migrator) logVersion(msg string) error {
	version, dirty, err := m.Version()
	if err != nil {
		return err
	}
	m.logger.Info(msg, zap.Uint("version", version), zap.Bool("dirty", dirty))
	return nil
}

// Close releases the source and database handles
func (m *Migrator) Close() error {
	sourceErr, dbErr := m.migrate.Close()
	return errors.Join(sourceErr, dbErr)
}

// Execute runs one CLI command against r. args excludes the command name.
func Execute(r Runner, command string, args []string, logger *zap.Logger) error {
	switch command {
	case "up":
		return r.Up()
	case "down":
		return r.Down()
	case "step":
		n, err := intArg(args, "step <n>")
		if err != nil {
			return err
		}
		if n == 0 {
			return fmt.Errorf("%w: step count must not be zero", ErrUsage)
		}
		return r.Steps(n)
	case "goto":
		n, err := intArg(args, "goto <version>")
		if err != nil {
			return err
		}
		if n < 0 {
			return fmt.Errorf("%w: version must not be negative", ErrUsage)
		}
		return r.GoTo(uint(n))
	case "force":
		n, err := intArg(args, "force <version>")
		if err != nil {
			return err
		}
		return r.Force(n)
	case "version":
		version, dirty, err := r.Version()
		if err != nil {
			return err
		}
		if version == 0 {
			logger.Info("No migrations applied")
			return nil
		}
		logger.Info("Current migration version", zap.Uint("version", version), zap.Bool("dirty", dirty))
		return nil
	default:
		return fmt.Errorf("%w: unknown command %q", ErrUsage, command)
	}
}

func intArg(args []string, usage string) (int, error) {
	if len(args) < 1 {
		return 0, fmt.Errorf("%w: migrate %s", ErrUsage, usage)
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", ErrUsage, args[0])
	}
	return n, nil
}
