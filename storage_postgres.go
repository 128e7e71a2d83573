package careermentor

import (
	"context"
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var _ UsageRecorder = &PostgresUsage{}

// PostgresUsage implements UsageRecorder on top of PostgreSQL.
type PostgresUsage struct {
	db *gorm.DB
}

// NewPostgresUsage connects to the database behind dsn and migrates the
// usage_records table.
func NewPostgresUsage(dsn string) (*PostgresUsage, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return NewPostgresUsageFromDB(db)
}

// NewPostgresUsageFromDB wraps an open gorm connection.
func NewPostgresUsageFromDB(db *gorm.DB) (*PostgresUsage, error) {
	if err := db.AutoMigrate(&UsageRecord{}); err != nil {
		return nil, fmt.Errorf("failed to migrate usage records: %w", err)
	}
	return &PostgresUsage{db: db}, nil
}

func (p *PostgresUsage) Record(ctx context.Context, record UsageRecord) error {
	if err := p.db.WithContext(ctx).Create(&record).Error; err != nil {
		return fmt.Errorf("failed to insert usage record: %w", err)
	}
	return nil
}

func (p *PostgresUsage) SessionUsage(ctx context.Context, sessionID string) ([]UsageRecord, error) {
	var records []UsageRecord
	err := p.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("created_at").
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query usage records: %w", err)
	}
	return records, nil
}

// Close closes the database connection.
func (p *PostgresUsage) Close() error {
	sqlDB, err := p.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
