package storage

import (
	"context"

	"github.com/urjaconsultants/lead-pipeline/internal/model"
)

// LeadRepo defines lead storage operations
type LeadRepo interface {
	Save(ctx context.Context, lead model.Lead) error
	Update(ctx context.Context, lead model.Lead) error
	FindByID(ctx context.Context, id string) (*model.Lead, error)
	FindAll(ctx context.Context) ([]model.Lead, error)
	AppendLeads(ctx context.Context, leads []model.Lead) error
	Remove(ctx context.Context, id string) error
	Close(ctx context.Context) error
}

// KVStore defines small-payload key/value storage, used for snapshots
// and saved views.
type KVStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Close(ctx context.Context) error
}
