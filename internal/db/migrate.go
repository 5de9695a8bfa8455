package db

import (
	"fmt"

	"gorm.io/gorm"

	"homefinder/internal/model"
)

// Models lists every persisted entity, parents first.
func Models() []interface{} {
	return []interface{}{
		&model.User{},
		&model.Property{},
		&model.Inquiry{},
		&model.Favorite{},
	}
}

// Reset drops all tables, children first.
func Reset(db *gorm.DB) error {
	models := Models()
	for i := len(models) - 1; i >= 0; i-- {
		if err := db.Migrator().DropTable(models[i]); err != nil {
			return fmt.Errorf("drop table: %w", err)
		}
	}
	return nil
}

// Migrate creates or updates the schema, including the ON DELETE CASCADE constraints.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	return nil
}
