package database

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	contentmodels "github.com/pokerpath/backend/internal/content/models"
	progressionmodels "github.com/pokerpath/backend/internal/progression/models"
)

// Connect opens the configured database and returns the handle. All
// consumers take the *gorm.DB as a dependency; there is no package-level
// instance.
func Connect(dbType, dsn string) (*gorm.DB, error) {
	var (
		db  *gorm.DB
		err error
	)

	gormCfg := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	}

	if dbType == "postgres" {
		db, err = gorm.Open(postgres.Open(dsn), gormCfg)
	} else {
		db, err = gorm.Open(sqlite.Open(dsn), gormCfg)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if dbType == "sqlite" {
		sqlDB.SetMaxIdleConns(5)
		sqlDB.SetMaxOpenConns(10)
	} else {
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetMaxOpenConns(100)
	}

	return db, nil
}

// Migrate runs AutoMigrate for every persisted model.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&contentmodels.Module{},
		&contentmodels.Question{},
		&progressionmodels.UserStats{},
		&progressionmodels.StreakRecord{},
		&progressionmodels.ModuleProgress{},
		&progressionmodels.Achievement{},
		&progressionmodels.UnlockedAchievement{},
		&progressionmodels.AnswerRecord{},
		&progressionmodels.PlacementAttempt{},
		&progressionmodels.SessionResult{},
	)
}

// Close closes the underlying connection pool.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
