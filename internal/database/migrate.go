package database

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/internal/models"
)

// RunMigrations brings the schema up to date with the models, then applies
// any SQL files from migrationsDir on postgres. An empty dir skips the SQL step.
func RunMigrations(db *gorm.DB, migrationsDir string, log *zap.SugaredLogger) error {
	if err := db.AutoMigrate(models.All()...); err != nil {
		return errors.Wrap(err, "failed to auto-migrate models")
	}
	log.Info("schema auto-migration complete")

	if migrationsDir == "" || db.Dialector.Name() != DriverPostgres {
		return nil
	}

	entries, err := os.ReadDir(migrationsDir)
	if err != nil {
		return errors.Wrap(err, "failed to read migrations directory")
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name() < entries[j].Name()
	})

	if err := db.Exec(`
		CREATE TABLE IF NOT EXISTS migrations (
			id SERIAL PRIMARY KEY,
			name VARCHAR(255) NOT NULL UNIQUE,
			applied_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT CURRENT_TIMESTAMP
		)
	`).Error; err != nil {
		return errors.Wrap(err, "failed to create migrations table")
	}

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".sql") {
			continue
		}

		var count int64
		if err := db.Table("migrations").Where("name = ?", name).Count(&count).Error; err != nil {
			return errors.Wrap(err, "failed to check migration status")
		}
		if count > 0 {
			log.Debugw("skipping migration", "name", name)
			continue
		}

		content, err := os.ReadFile(filepath.Join(migrationsDir, name))
		if err != nil {
			return errors.Wrapf(err, "failed to read migration file %s", name)
		}

		err = db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Exec(string(content)).Error; err != nil {
				return errors.Wrapf(err, "failed to execute migration %s", name)
			}
			if err := tx.Exec("INSERT INTO migrations (name) VALUES (?)", name).Error; err != nil {
				return errors.Wrapf(err, "failed to record migration %s", name)
			}
			return nil
		})
		if err != nil {
			return err
		}
		log.Infow("applied migration", "name", name)
	}

	return nil
}
