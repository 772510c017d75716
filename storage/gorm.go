package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/phturb/domain-randomizer/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type gormStore struct {
	db *gorm.DB
}

var _ DocumentStore = (*gormStore)(nil)

// NewGormStore migrates the documents table and stores each key as one row.
// It works with any gorm dialector; sqlite and postgres are wired in.
func NewGormStore(db *gorm.DB) (*gormStore, error) {
	slog.Info("executing database auto migration")
	if err := db.AutoMigrate(&model.Document{}); err != nil {
		return nil, err
	}
	return &gormStore{db: db}, nil
}

func (s *gormStore) Get(ctx context.Context, key string) ([]byte, error) {
	var doc model.Document
	err := s.db.WithContext(ctx).Where(&model.Document{Key: key}).First(&doc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("storage: read %s: %w", key, err)
	}
	return []byte(doc.Body), nil
}

func (s *gormStore) Put(ctx context.Context, key string, body []byte) error {
	if err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		UpdateAll: true,
	}).Create(&model.Document{
		Key:  key,
		Body: string(body),
	}).Error; err != nil {
		return fmt.Errorf("storage: write %s: %w", key, err)
	}
	return nil
}
