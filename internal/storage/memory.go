package storage

import (
	"context"
	"fmt"
	"sync"

	"github.com/urjaconsultants/lead-pipeline/internal/apperrors"
	"github.com/urjaconsultants/lead-pipeline/internal/model"
	"github.com/urjaconsultants/lead-pipeline/pkg/utils"
)

// MemoryRepo is an in-memory LeadRepo. It preserves insertion order so
// listings behave like the database-backed repository. Used in tests and
// when no database is configured.
type MemoryRepo struct {
	mu    sync.RWMutex
	leads []model.Lead
	index map[string]int
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{index: make(map[string]int)}
}

func (m *MemoryRepo) Save(_ context.Context, lead model.Lead) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if i, ok := m.index[lead.ID]; ok {
		m.leads[i] = lead
		return nil
	}
	m.index[lead.ID] = len(m.leads)
	m.leads = append(m.leads, lead)
	return nil
}

func (m *MemoryRepo) Update(_ context.Context, lead model.Lead) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	i, ok := m.index[lead.ID]
	if !ok {
		return fmt.Errorf("%w: lead %s", apperrors.ErrNotFound, lead.ID)
	}
	lead.UpdatedAt = utils.Now()
	m.leads[i] = lead
	return nil
}

func (m *MemoryRepo) FindByID(_ context.Context, id string) (*model.Lead, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	i, ok := m.index[id]
	if !ok {
		return nil, fmt.Errorf("%w: lead %s", apperrors.ErrNotFound, id)
	}
	lead := m.leads[i]
	return &lead, nil
}

func (m *MemoryRepo) FindAll(_ context.Context) ([]model.Lead, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]model.Lead, len(m.leads))
	copy(out, m.leads)
	return out, nil
}

func (m *MemoryRepo) AppendLeads(_ context.Context, leads []model.Lead) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, lead := range leads {
		if _, ok := m.index[lead.ID]; ok {
			return fmt.Errorf("%w: lead %s", apperrors.ErrDuplicate, lead.ID)
		}
		m.index[lead.ID] = len(m.leads)
		m.leads = append(m.leads, lead)
	}
	return nil
}

func (m *MemoryRepo) Remove(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	i, ok := m.index[id]
	if !ok {
		return fmt.Errorf("%w: lead %s", apperrors.ErrNotFound, id)
	}
	m.leads = append(m.leads[:i], m.leads[i+1:]...)
	delete(m.index, id)
	for j := i; j < len(m.leads); j++ {
		m.index[m.leads[j].ID] = j
	}
	return nil
}

func (m *MemoryRepo) Close(_ context.Context) error {
	return nil
}

// MemoryKV is an in-memory KVStore.
type MemoryKV struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMemoryKV() *MemoryKV {
	return &MemoryKV{data: make(map[string][]byte)}
}

func (m *MemoryKV) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	value, ok := m.data[key]
	if !ok {
		return nil, fmt.Errorf("%w: key %s", apperrors.ErrNotFound, key)
	}
	out := make([]byte, len(value))
	copy(out, value)
	return out, nil
}

func (m *MemoryKV) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored := make([]byte, len(value))
	copy(stored, value)
	m.data[key] = stored
	return nil
}

func (m *MemoryKV) Close(_ context.Context) error {
	return nil
}
