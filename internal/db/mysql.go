package db

import (
	"fmt"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"clarity/internal/model"
)

// NewMySQL returns a connected GORM DB instance.
// Driver errors are translated so duplicate keys surface as gorm.ErrDuplicatedKey.
func NewMySQL(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("connect mysql: %w", err)
	}
	return db, nil
}

// Models lists every table owned by the application, children first.
func Models() []interface{} {
	return []interface{}{
		&model.Transaction{},
		&model.User{},
	}
}

// Migrate creates or updates the schema. When reset is set every table is dropped first.
func Migrate(db *gorm.DB, reset bool) error {
	if reset {
		for _, table := range Models() {
			if err := db.Migrator().DropTable(table); err != nil {
				return fmt.Errorf("drop table: %w", err)
			}
		}
	}
	if err := db.AutoMigrate(&model.User{}, &model.Transaction{}); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	return nil
}
