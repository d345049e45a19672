// Command migrate applies the SQL migrations under migrations/ to the
// configured PostgreSQL database.
package main

import (
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/lib/pq"
	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"github.com/storefront/backend/internal/infrastructure/migration"
	"github.com/storefront/backend/internal/infrastructure/persistence"
	"go.uber.org/zap"
)

const usage = `Storefront schema migrations

Usage:
  migrate [flags] <command> [arguments]

Commands:
  up                    Apply all pending migrations
  down                  Roll back all migrations
  step <n>              Apply n migrations (negative rolls back)
  goto <version>        Migrate to a specific version
  version               Show current migration version
  force <version>       Record a version without running it (clears dirty state)
  create <name> [desc]  Create the next numbered migration pair
  list                  List available migrations

Flags:
  -path string          Migrations directory (default: ./migrations)
  -log-level string     debug, info, warn or error (default: info)

The database is read from STORE_DATABASE_* like the server.

Examples:
  migrate up
  migrate step -1
  migrate create add_order_notes "Free-text note per order"`

func main() {
	dir := flag.String("path", "", "migrations directory")
	level := flag.String("log-level", "info", "log level")
	flag.Usage = func() { fmt.Fprintln(os.Stderr, usage) }
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(1)
	}

	log, err := logger.NewConsole(*level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}

	code := run(log, *dir, flag.Args())
	_ = logger.Sync(log)
	os.Exit(code)
}

// run executes one command and returns the process exit code
func run(log *zap.Logger, dir string, args []string) int {
	dir, err := migrationsDir(dir)
	if err != nil {
		log.Error("Cannot resolve migrations directory", zap.Error(err))
		return 1
	}

	switch args[0] {
	case "create":
		return create(log, dir, args[1:])
	case "list":
		return list(log, dir)
	}

	m, closeDB, err := openMigrator(log, dir)
	if err != nil {
		log.Error("Cannot reach the database", zap.Error(err))
		return 1
	}
	defer closeDB()

	log.Info("Running migration command", zap.String("command", args[0]), zap.String("dir", dir))
	err = migration.Execute(m, args[0], args[1:], log)
	switch {
	case errors.Is(err, migration.ErrUsage):
		log.Error("Invalid command", zap.Error(err))
		fmt.Fprintln(os.Stderr, usage)
		return 2
	case err != nil:
		log.Error("Migration failed", zap.Error(err))
		return 1
	}
	return 0
}

func create(log *zap.Logger, dir string, args []string) int {
	if len(args) == 0 {
		log.Error("Migration name required: migrate create <name> [description]")
		return 2
	}
	var description string
	if len(args) > 1 {
		description = args[1]
	}
	mf, err := migration.CreateMigration(dir, args[0], description)
	if err != nil {
		log.Error("Failed to create migration", zap.Error(err))
		return 1
	}
	log.Info("Migration created",
		zap.String("version", mf.Version),
		zap.String("up_file", mf.UpPath),
		zap.String("down_file", mf.DownPath),
	)
	return 0
}

func list(log *zap.Logger, dir string) int {
	names, err := migration.ListMigrations(dir)
	if err != nil {
		log.Error("Failed to list migrations", zap.Error(err))
		return 1
	}
	log.Info("Available migrations", zap.Int("count", len(names)))
	for _, name := range names {
		fmt.Println("  -", name)
	}
	return 0
}

// openMigrator connects with the server's database settings. The returned
// func closes the migrator and the connection.
func openMigrator(log *zap.Logger, dir string) (*migration.Migrator, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	if cfg.Database.Driver == persistence.DriverSQLite {
		return nil, nil, errors.New("SQL migrations target PostgreSQL; sqlite schemas come from the server's auto-migrate")
	}

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		return nil, nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, nil, err
	}

	m, err := migration.New(db, dir, log)
	if err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	return m, func() {
		if err := m.Close(); err != nil {
			log.Warn("Failed to close migrator", zap.Error(err))
		}
		_ = db.Close()
	}, nil
}

// migrationsDir prefers an explicit path, then ./migrations, then the
// migrations directory two levels above the executable.
func migrationsDir(path string) (string, error) {
	if path != "" {
		return filepath.Abs(path)
	}
	path = "migrations"
	if _, err := os.Stat(path); err != nil {
		if exe, err := os.Executable(); err == nil {
			candidate := filepath.Join(filepath.Dir(exe), "..", "..", "migrations")
			if _, err := os.Stat(candidate); err == nil {
				path = candidate
			}
		}
	}
	return filepath.Abs(path)
}
