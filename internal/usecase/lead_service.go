package usecase

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/urjaconsultants/lead-pipeline/internal/apperrors"
	"github.com/urjaconsultants/lead-pipeline/internal/ingest"
	"github.com/urjaconsultants/lead-pipeline/internal/model"
	"github.com/urjaconsultants/lead-pipeline/internal/query"
	"github.com/urjaconsultants/lead-pipeline/internal/storage"
	"github.com/urjaconsultants/lead-pipeline/internal/validator"
	"github.com/urjaconsultants/lead-pipeline/pkg/logger"
	"github.com/urjaconsultants/lead-pipeline/pkg/utils"
)

const savedViewKeyPrefix = "views:"

// LeadService implements lead lifecycle, import, listing, and export
// operations on top of the storage layer.
type LeadService struct {
	repo       storage.LeadRepo
	kv         storage.KVStore
	importer   *ingest.Importer
	snapshots  ISnapshotWorker
	allowPurge bool
}

// NewLeadService creates a new lead service. allowPurge gates the
// irreversible hard-delete path; it is off outside of admin deployments.
func NewLeadService(
	repo storage.LeadRepo,
	kv storage.KVStore,
	importer *ingest.Importer,
	snapshots ISnapshotWorker,
	allowPurge bool,
) *LeadService {
	return &LeadService{
		repo:       repo,
		kv:         kv,
		importer:   importer,
		snapshots:  snapshots,
		allowPurge: allowPurge,
	}
}

// CreateLead validates and persists a manually entered lead.
func (s *LeadService) CreateLead(ctx context.Context, lead model.Lead) (*model.Lead, error) {
	if lead.ID == "" {
		lead.ID = model.NewLeadID()
	}
	if lead.Status == "" {
		lead.Status = model.StatusNew
	}
	now := utils.Now()
	lead.CreatedAt = now
	lead.UpdatedAt = now
	lead.NormalizeContacts()
	lead.SyncMobileMirror()

	if err := validator.Validate(&lead); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}

	if err := s.repo.Save(ctx, lead); err != nil {
		return nil, err
	}
	s.notifyChange()

	logger.FromContext(ctx).Info("Lead created",
		zap.String("lead_id", lead.ID),
		zap.String("status", string(lead.Status)))
	return &lead, nil
}

// UpdateLead replaces the stored lead with the given one. The lead is
// flagged as updated, its last activity date moves to today, and an audit
// trail entry records the edit. The deleted flag is carried from storage:
// only RestoreLead clears it.
func (s *LeadService) UpdateLead(ctx context.Context, lead model.Lead) (*model.Lead, error) {
	existing, err := s.repo.FindByID(ctx, lead.ID)
	if err != nil {
		return nil, err
	}

	now := utils.Now()
	lead.CreatedAt = existing.CreatedAt
	lead.Activities = existing.Activities
	lead.IsDeleted = existing.IsDeleted
	lead.IsUpdated = true
	lead.LastActivityDate = utils.FormatDDMMYYYY(now)
	lead.AddActivity("Lead details updated", now)
	lead.NormalizeContacts()
	lead.SyncMobileMirror()

	if err := validator.Validate(&lead); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}

	if err := s.repo.Update(ctx, lead); err != nil {
		return nil, err
	}
	s.notifyChange()

	logger.FromContext(ctx).Info("Lead updated", zap.String("lead_id", lead.ID))
	return &lead, nil
}

// DeleteLead soft-deletes the lead. The record stays in storage and
// remains visible in the archive view.
func (s *LeadService) DeleteLead(ctx context.Context, id string) error {
	lead, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if lead.IsDeleted {
		return fmt.Errorf("%w: lead %s is already deleted", apperrors.ErrConflict, id)
	}

	now := utils.Now()
	lead.IsDeleted = true
	lead.LastActivityDate = utils.FormatDDMMYYYY(now)
	lead.AddActivity("Lead deleted", now)

	if err := s.repo.Update(ctx, *lead); err != nil {
		return err
	}
	s.notifyChange()

	logger.FromContext(ctx).Info("Lead soft-deleted", zap.String("lead_id", id))
	return nil
}

// RestoreLead clears the deleted flag on a soft-deleted lead.
func (s *LeadService) RestoreLead(ctx context.Context, id string) error {
	lead, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !lead.IsDeleted {
		return fmt.Errorf("%w: lead %s is not deleted", apperrors.ErrConflict, id)
	}

	now := utils.Now()
	lead.IsDeleted = false
	lead.LastActivityDate = utils.FormatDDMMYYYY(now)
	lead.AddActivity("Lead restored", now)

	if err := s.repo.Update(ctx, *lead); err != nil {
		return err
	}
	s.notifyChange()

	logger.FromContext(ctx).Info("Lead restored", zap.String("lead_id", id))
	return nil
}

// PurgeLead permanently removes a soft-deleted lead. Only available when
// the service was constructed with purging enabled, and only for leads
// that are already soft-deleted.
func (s *LeadService) PurgeLead(ctx context.Context, id string) error {
	if !s.allowPurge {
		return fmt.Errorf("%w: purge is disabled", apperrors.ErrUnauthorized)
	}

	lead, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !lead.IsDeleted {
		return fmt.Errorf("%w: lead %s must be deleted before purge", apperrors.ErrConflict, id)
	}

	if err := s.repo.Remove(ctx, id); err != nil {
		return err
	}
	s.notifyChange()

	logger.FromContext(ctx).Warn("Lead purged", zap.String("lead_id", id))
	return nil
}

// AddActivity appends a note to the lead's audit trail and refreshes its
// last activity date.
func (s *LeadService) AddActivity(ctx context.Context, id, description string) (*model.Lead, error) {
	if description == "" {
		return nil, fmt.Errorf("%w: activity description is required", apperrors.ErrValidation)
	}

	lead, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	now := utils.Now()
	lead.AddActivity(description, now)
	lead.LastActivityDate = utils.FormatDDMMYYYY(now)

	if err := s.repo.Update(ctx, *lead); err != nil {
		return nil, err
	}
	s.notifyChange()
	return lead, nil
}

// GetLead fetches one lead by ID.
func (s *LeadService) GetLead(ctx context.Context, id string) (*model.Lead, error) {
	return s.repo.FindByID(ctx, id)
}

// ImportTable streams a tabular source into the repository and returns
// the number of leads admitted.
func (s *LeadService) ImportTable(ctx context.Context, src ingest.TableSource) (int, error) {
	admitted, err := s.importer.Import(ctx, src)
	if err != nil {
		return 0, err
	}
	if admitted > 0 {
		s.notifyChange()
	}
	return admitted, nil
}

// ListLeads loads every lead and evaluates the filters under the given
// view's visibility policy.
func (s *LeadService) ListLeads(ctx context.Context, filters model.LeadFilters, view query.View) ([]model.Lead, error) {
	leads, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return query.Filter(leads, filters, view), nil
}

// ExportLeads returns every non-deleted lead for tabular export, after
// applying the optional filters.
func (s *LeadService) ExportLeads(ctx context.Context, filters model.LeadFilters) ([]model.Lead, error) {
	leads, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]model.Lead, 0, len(leads))
	for _, lead := range leads {
		if lead.IsDeleted || !query.Matches(lead, filters) {
			continue
		}
		out = append(out, lead)
	}
	return out, nil
}

// SaveView persists a named filter preset.
func (s *LeadService) SaveView(ctx context.Context, name string, filters model.LeadFilters) error {
	if name == "" {
		return fmt.Errorf("%w: view name is required", apperrors.ErrValidation)
	}
	payload, err := json.Marshal(filters)
	if err != nil {
		return fmt.Errorf("failed to serialize view: %w", err)
	}
	return s.kv.Set(ctx, savedViewKeyPrefix+name, payload)
}

// LoadView fetches a named filter preset.
func (s *LeadService) LoadView(ctx context.Context, name string) (model.LeadFilters, error) {
	var filters model.LeadFilters
	payload, err := s.kv.Get(ctx, savedViewKeyPrefix+name)
	if err != nil {
		return filters, err
	}
	if err := json.Unmarshal(payload, &filters); err != nil {
		return filters, fmt.Errorf("failed to decode view %s: %w", name, err)
	}
	return filters, nil
}

func (s *LeadService) notifyChange() {
	if s.snapshots != nil {
		s.snapshots.NotifyChange()
	}
}
