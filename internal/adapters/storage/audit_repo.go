// Package storage holds the durable adapters backed by SQLite.
package storage

import (
	"context"
	"fmt"

	"github.com/moriartysec/moriarty/internal/core/domain"
	"github.com/moriartysec/moriarty/internal/core/ports"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/plugin/opentelemetry/tracing"
)

// AuditRepository implements ports.AuditRepository using GORM and SQLite.
type AuditRepository struct {
	db *gorm.DB
}

var _ ports.AuditRepository = (*AuditRepository)(nil)

// NewAuditRepository opens the audit database and migrates its schema.
func NewAuditRepository(dbPath string) (*AuditRepository, error) {
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open audit database: %w", err)
	}

	if err := db.Use(tracing.NewPlugin(tracing.WithoutMetrics())); err != nil {
		return nil, fmt.Errorf("failed to enable query tracing: %w", err)
	}

	if err := db.AutoMigrate(&domain.AuditEntry{}); err != nil {
		return nil, fmt.Errorf("failed to migrate audit schema: %w", err)
	}

	return &AuditRepository{db: db}, nil
}

// Save appends one audit entry.
func (r *AuditRepository) Save(ctx context.Context, entry domain.AuditEntry) error {
	return r.db.WithContext(ctx).Create(&entry).Error
}

// List returns up to limit entries, newest first.
func (r *AuditRepository) List(ctx context.Context, limit int) ([]domain.AuditEntry, error) {
	var entries []domain.AuditEntry
	if err := r.db.WithContext(ctx).Order("timestamp desc").Limit(limit).Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}
