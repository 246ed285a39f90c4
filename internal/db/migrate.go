package db

import (
	"errors"
	"fmt"

	migrate "github.com/golang-migrate/migrate/v4"
	// Blank imports register the postgres driver and file source for golang-migrate.
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"gorm.io/gorm"

	"github.com/seobrien/jobledger/internal/models"
)

// Migrate brings the schema up to date. SQL migrations via golang-migrate
// run against PostgreSQL when requested; otherwise GORM AutoMigrate covers
// the dev/SQLite path.
func Migrate(db *gorm.DB, dsn string, useSQLMigrations bool) error {
	if useSQLMigrations && IsPostgres(dsn) {
		if err := runSQLMigrations(dsn); err != nil {
			return fmt.Errorf("sql migrations failed: %w", err)
		}
	} else {
		modelsToMigrate := []any{
			&models.Customer{}, &models.Job{}, &models.LabourItem{},
			&models.MaterialItem{}, &models.Task{}, &models.Vendor{},
			&models.JobImage{}, &models.Quote{}, &models.Invoice{},
			&models.DocumentCounter{}, &models.BusinessProfile{},
			&models.AppSetting{},
		}
		for _, m := range modelsToMigrate {
			if err := db.AutoMigrate(m); err != nil {
				return fmt.Errorf("automigrate %T: %w", m, err)
			}
		}
	}

	// sanity check: ensure required core tables exist
	for _, table := range []string{"customers", "jobs", "business_profile", "app_settings"} {
		if !db.Migrator().HasTable(table) {
			return errors.New("missing table after migration: " + table)
		}
	}
	return nil
}

// runSQLMigrations executes migrations in ./migrations using the
// golang-migrate file source.
func runSQLMigrations(dsn string) error {
	m, err := migrate.New("file://migrations", dsn)
	if err != nil {
		return err
	}
	if err = m.Up(); err != nil && err != migrate.ErrNoChange {
		return err
	}
	return nil
}
