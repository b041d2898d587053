// internal/database/connection.go
package database

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/lgtm-migrator/gateway-api-sub001/internal/config"
	"github.com/lgtm-migrator/gateway-api-sub001/internal/models"
)

func Initialize(cfg config.DatabaseConfig) (*gorm.DB, error) {
	var gormConfig *gorm.Config

	// Configure GORM logger
	if cfg.LogLevel == "silent" {
		gormConfig = &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		}
	} else {
		gormConfig = &gorm.Config{
			Logger: logger.Default.LogMode(logger.Info),
		}
	}

	db, err := gorm.Open(postgres.Open(cfg.DSN()), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	// Configure connection pool
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.MaxLifetime) * time.Second)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logrus.Info("Database connection established successfully")
	return db, nil
}

func Close(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		logrus.WithError(err).Error("Error getting underlying sql.DB")
		return
	}

	if err := sqlDB.Close(); err != nil {
		logrus.WithError(err).Error("Error closing database connection")
	} else {
		logrus.Info("Database connection closed successfully")
	}
}

func RunMigrations(db *gorm.DB) error {
	logrus.Info("Running database migrations...")

	// pgcrypto provides gen_random_uuid for primary keys
	if err := db.Exec("CREATE EXTENSION IF NOT EXISTS \"pgcrypto\"").Error; err != nil {
		return fmt.Errorf("failed to create pgcrypto extension: %w", err)
	}

	err := db.AutoMigrate(
		&models.User{},
		&models.Publisher{},
		&models.Team{},
		&models.Dataset{},
		&models.MetadataQuality{},
		&models.DataAccessRequest{},
		&models.Notification{},
		&models.ActivityLog{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	if err := createIndexes(db); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}

	logrus.Info("Database migrations completed successfully")
	return nil
}

func createIndexes(db *gorm.DB) error {
	indexes := []string{
		// Dataset indexes
		"CREATE INDEX IF NOT EXISTS idx_datasets_pid_activeflag ON datasets(pid, active_flag)",
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_datasets_pid_active ON datasets(pid) WHERE active_flag = 'active'",
		"CREATE INDEX IF NOT EXISTS idx_datasets_publisher ON datasets(publisher_id, active_flag)",
		"CREATE INDEX IF NOT EXISTS idx_datasets_created_at ON datasets(created_at DESC)",

		// Metadata quality indexes
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_metadata_qualities_dataset ON metadata_qualities(dataset_id)",
		"CREATE INDEX IF NOT EXISTS idx_metadata_qualities_pid ON metadata_qualities(pid)",

		// Application indexes
		"CREATE INDEX IF NOT EXISTS idx_applications_applicant ON data_access_requests(applicant_id)",
		"CREATE INDEX IF NOT EXISTS idx_applications_publisher_status ON data_access_requests(publisher_id, application_status)",
		"CREATE INDEX IF NOT EXISTS idx_applications_dataset_ids ON data_access_requests USING GIN(dataset_ids)",
		"CREATE INDEX IF NOT EXISTS idx_applications_created_at ON data_access_requests(created_at DESC)",

		// Team membership lookups
		"CREATE INDEX IF NOT EXISTS idx_teams_members ON teams USING GIN(members)",

		// Sink indexes
		"CREATE INDEX IF NOT EXISTS idx_activity_logs_created ON activity_logs(created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_notifications_created ON notifications(created_at DESC)",
	}

	for _, index := range indexes {
		if err := db.Exec(index).Error; err != nil {
			logrus.WithError(err).Warnf("Failed to create index: %s", index)
			// Continue with other indexes instead of failing completely
		}
	}

	return nil
}

// Transaction helper
func WithTransaction(db *gorm.DB, fn func(*gorm.DB) error) error {
	tx := db.Begin()
	if tx.Error != nil {
		return tx.Error
	}

	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit().Error
}
