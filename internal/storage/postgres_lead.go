package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/urjaconsultants/lead-pipeline/internal/apperrors"
	"github.com/urjaconsultants/lead-pipeline/internal/model"
	"github.com/urjaconsultants/lead-pipeline/internal/observer"
	"github.com/urjaconsultants/lead-pipeline/pkg/logger"
	"github.com/urjaconsultants/lead-pipeline/pkg/utils"
)

// --- Lead Repository Methods ---

// Save creates the lead or, if the ID already exists, overwrites it inside
// a row-locked transaction.
func (r *PostgresRepo) Save(ctx context.Context, lead model.Lead) error {
	operation := func() error {
		tx := r.db.WithContext(ctx).Begin()
		if tx.Error != nil {
			return fmt.Errorf("%w: failed to begin transaction: %w", apperrors.ErrDatabase, tx.Error)
		}
		var txErr error
		defer func() {
			if p := recover(); p != nil {
				tx.Rollback()
				panic(p)
			} else if txErr != nil {
				if rbErr := tx.Rollback().Error; rbErr != nil {
					logger.FromContext(ctx).Error("Failed to rollback transaction after error",
						zap.Error(rbErr), zap.NamedError("originalTxError", txErr))
				}
			}
		}()

		var existing model.Lead
		findErr := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", lead.ID).
			First(&existing).Error

		if findErr != nil {
			if errors.Is(findErr, gorm.ErrRecordNotFound) {
				if createErr := tx.Create(&lead).Error; createErr != nil {
					txErr = checkConstraintViolation(createErr)
					return txErr
				}
			} else {
				txErr = fmt.Errorf("%w: failed to lock lead row: %w", apperrors.ErrDatabase, findErr)
				return txErr
			}
		} else {
			if updateErr := tx.Model(&existing).Updates(&lead).Error; updateErr != nil {
				txErr = checkConstraintViolation(updateErr)
				return txErr
			}
		}

		if commitErr := tx.Commit().Error; commitErr != nil {
			txErr = fmt.Errorf("%w: failed to commit save transaction: %w", apperrors.ErrDatabase, commitErr)
			return txErr
		}
		return nil
	}

	policy := newRetryPolicy(ctx, commitRetryMaxElapsedTime)
	startTime := utils.Now()
	err := retryableOperation(ctx, policy, "SaveLead", operation)
	observer.ObserveDbOperationDuration("save", "lead", time.Since(startTime), err)
	if err != nil {
		logger.FromContext(ctx).Error("Failed to save lead after retries",
			zap.String("lead_id", lead.ID), zap.Error(err))
		return err
	}
	return nil
}

// Update replaces the stored lead. The record must already exist.
func (r *PostgresRepo) Update(ctx context.Context, lead model.Lead) error {
	lead.UpdatedAt = utils.Now()

	operation := func() error {
		result := r.db.WithContext(ctx).
			Model(&model.Lead{}).
			Where("id = ?", lead.ID).
			Select("*").
			Omit("id", "created_at").
			Updates(&lead)
		if result.Error != nil {
			return checkConstraintViolation(result.Error)
		}
		if result.RowsAffected == 0 {
			return leadNotFound(lead.ID)
		}
		return nil
	}

	policy := newRetryPolicy(ctx, commitRetryMaxElapsedTime)
	startTime := utils.Now()
	err := retryableOperation(ctx, policy, "UpdateLead", operation)
	observer.ObserveDbOperationDuration("update", "lead", time.Since(startTime), err)
	if err != nil {
		logger.FromContext(ctx).Error("Failed to update lead after retries",
			zap.String("lead_id", lead.ID), zap.Error(err))
		return err
	}
	return nil
}

// FindByID fetches one lead, deleted or not.
func (r *PostgresRepo) FindByID(ctx context.Context, id string) (*model.Lead, error) {
	var lead model.Lead

	operation := func() error {
		return r.db.WithContext(ctx).Where("id = ?", id).First(&lead).Error
	}

	policy := newRetryPolicy(ctx, readRetryMaxElapsedTime)
	startTime := utils.Now()
	err := retryableOperation(ctx, policy, "FindLeadByID", operation)
	observer.ObserveDbOperationDuration("find", "lead", time.Since(startTime), err)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: lead %s", apperrors.ErrNotFound, id)
		}
		return nil, checkConstraintViolation(err)
	}
	return &lead, nil
}

// FindAll returns every lead in insertion order. Visibility rules are the
// filter engine's concern, not storage's, so deleted leads are included.
func (r *PostgresRepo) FindAll(ctx context.Context) ([]model.Lead, error) {
	var leads []model.Lead

	operation := func() error {
		return r.db.WithContext(ctx).Order("created_at ASC").Find(&leads).Error
	}

	policy := newRetryPolicy(ctx, readRetryMaxElapsedTime)
	startTime := utils.Now()
	err := retryableOperation(ctx, policy, "FindAllLeads", operation)
	observer.ObserveDbOperationDuration("find_all", "lead", time.Since(startTime), err)
	if err != nil {
		return nil, checkConstraintViolation(err)
	}
	return leads, nil
}

// AppendLeads inserts a batch of freshly imported leads. It is a plain
// insert, never an upsert: re-importing a file adds rows instead of
// silently overwriting edited leads.
func (r *PostgresRepo) AppendLeads(ctx context.Context, leads []model.Lead) error {
	if len(leads) == 0 {
		return nil
	}

	operation := func() error {
		if err := r.db.WithContext(ctx).Create(&leads).Error; err != nil {
			return checkConstraintViolation(err)
		}
		return nil
	}

	policy := newRetryPolicy(ctx, commitRetryMaxElapsedTime)
	startTime := utils.Now()
	err := retryableOperation(ctx, policy, "AppendLeads", operation)
	observer.ObserveDbOperationDuration("append", "lead", time.Since(startTime), err)
	if err != nil {
		logger.FromContext(ctx).Error("Failed to append leads after retries",
			zap.Int("count", len(leads)), zap.Error(err))
		return err
	}
	return nil
}

// Remove hard-deletes the lead row. Soft deletion is an update of the
// is_deleted flag and goes through Update instead.
func (r *PostgresRepo) Remove(ctx context.Context, id string) error {
	operation := func() error {
		result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Lead{})
		if result.Error != nil {
			return checkConstraintViolation(result.Error)
		}
		if result.RowsAffected == 0 {
			return leadNotFound(id)
		}
		return nil
	}

	policy := newRetryPolicy(ctx, commitRetryMaxElapsedTime)
	startTime := utils.Now()
	err := retryableOperation(ctx, policy, "RemoveLead", operation)
	observer.ObserveDbOperationDuration("remove", "lead", time.Since(startTime), err)
	if err != nil {
		logger.FromContext(ctx).Error("Failed to remove lead after retries",
			zap.String("lead_id", id), zap.Error(err))
		return err
	}
	return nil
}

func leadNotFound(id string) error {
	return fmt.Errorf("%w: lead %s", apperrors.ErrNotFound, id)
}
