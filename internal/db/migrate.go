package db

import (
	"embed"
	"fmt"
	"io/fs"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	log "github.com/sirupsen/logrus"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

func setupGoose() error {
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}

	migrationsDir, err := fs.Sub(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("get migrations dir: %w", err)
	}

	goose.SetBaseFS(migrationsDir)
	goose.SetLogger(gooseLogger{})
	return nil
}

// RunMigrations applies all pending migrations on the pool's database.
func RunMigrations(pool *pgxpool.Pool) error {
	if err := setupGoose(); err != nil {
		return err
	}

	sqlDB := stdlib.OpenDBFromPool(pool)
	defer func() {
		if err := sqlDB.Close(); err != nil {
			log.Warnf("close migrations sql db: %s", err)
		}
	}()

	if err := goose.Up(sqlDB, "."); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	log.Infoln("db migrations completed")
	return nil
}

// MigrateDown rolls back the most recent migration.
func MigrateDown(pool *pgxpool.Pool) error {
	if err := setupGoose(); err != nil {
		return err
	}

	sqlDB := stdlib.OpenDBFromPool(pool)
	defer func() {
		if err := sqlDB.Close(); err != nil {
			log.Warnf("close migrations sql db: %s", err)
		}
	}()

	if err := goose.Down(sqlDB, "."); err != nil {
		return fmt.Errorf("rollback migration: %w", err)
	}

	log.Infoln("rolled back one migration")
	return nil
}

// MigrationsVersion returns the currently applied schema version.
func MigrationsVersion(pool *pgxpool.Pool) (int64, error) {
	if err := setupGoose(); err != nil {
		return 0, err
	}

	sqlDB := stdlib.OpenDBFromPool(pool)
	defer func() {
		_ = sqlDB.Close()
	}()

	return goose.GetDBVersion(sqlDB)
}

type gooseLogger struct{}

func (gooseLogger) Fatalf(format string, v ...interface{}) {
	log.Fatalf(format, v...)
}

func (gooseLogger) Printf(format string, v ...interface{}) {
	log.Debugf(format, v...)
}
