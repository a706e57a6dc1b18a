package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang-storefront/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type postgresKVStore struct {
	db *gorm.DB
}

func NewPostgresKVStore(db *gorm.DB) KVStore {
	return &postgresKVStore{db: db}
}

func (r *postgresKVStore) Get(ctx context.Context, key string) ([]byte, error) {
	var entry models.KVEntry
	err := r.db.WithContext(ctx).Where("key = ?", key).First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrKeyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("db.First: %w", err)
	}
	return entry.Value, nil
}

// Set upserts the row so a concurrent first write cannot fail on the primary key.
func (r *postgresKVStore) Set(ctx context.Context, key string, value []byte) error {
	entry := models.KVEntry{
		Key:       key,
		Value:     value,
		UpdatedAt: time.Now(),
	}

	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&entry).Error
	if err != nil {
		return fmt.Errorf("db.Create: %w", err)
	}
	return nil
}

func (r *postgresKVStore) Delete(ctx context.Context, key string) error {
	err := r.db.WithContext(ctx).Where("key = ?", key).Delete(&models.KVEntry{}).Error
	if err != nil {
		return fmt.Errorf("db.Delete: %w", err)
	}
	return nil
}
