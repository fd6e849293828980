package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/urjaconsultants/lead-pipeline/internal/apperrors"
	"github.com/urjaconsultants/lead-pipeline/internal/observer"
	"github.com/urjaconsultants/lead-pipeline/pkg/utils"
)

// KVEntry is one row of the small-payload key/value table backing
// snapshots and saved views.
type KVEntry struct {
	Key       string         `gorm:"primaryKey;type:text"`
	Value     datatypes.JSON `gorm:"type:jsonb"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime"`
}

func (KVEntry) TableName() string {
	return "kv_entries"
}

// Get fetches the value stored under key.
func (r *PostgresRepo) Get(ctx context.Context, key string) ([]byte, error) {
	var entry KVEntry

	operation := func() error {
		return r.db.WithContext(ctx).Where("key = ?", key).First(&entry).Error
	}

	policy := newRetryPolicy(ctx, readRetryMaxElapsedTime)
	startTime := utils.Now()
	err := retryableOperation(ctx, policy, "GetKV", operation)
	observer.ObserveDbOperationDuration("get", "kv", time.Since(startTime), err)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: key %s", apperrors.ErrNotFound, key)
		}
		return nil, checkConstraintViolation(err)
	}
	return entry.Value, nil
}

// Set upserts the value stored under key.
func (r *PostgresRepo) Set(ctx context.Context, key string, value []byte) error {
	entry := KVEntry{Key: key, Value: value, UpdatedAt: utils.Now()}

	operation := func() error {
		err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).Create(&entry).Error
		if err != nil {
			return checkConstraintViolation(err)
		}
		return nil
	}

	policy := newRetryPolicy(ctx, commitRetryMaxElapsedTime)
	startTime := utils.Now()
	err := retryableOperation(ctx, policy, "SetKV", operation)
	observer.ObserveDbOperationDuration("set", "kv", time.Since(startTime), err)
	return err
}
