package usecase

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/urjaconsultants/lead-pipeline/internal/apperrors"
	"github.com/urjaconsultants/lead-pipeline/internal/ingest"
	"github.com/urjaconsultants/lead-pipeline/internal/model"
	"github.com/urjaconsultants/lead-pipeline/internal/query"
	"github.com/urjaconsultants/lead-pipeline/internal/storage"
)

type stubSnapshots struct {
	notified int
}

func (s *stubSnapshots) NotifyChange()                 { s.notified++ }
func (s *stubSnapshots) Flush(_ context.Context) error { return nil }
func (s *stubSnapshots) Stop()                         {}

type serviceFixture struct {
	svc       *LeadService
	repo      *storage.MemoryRepo
	kv        *storage.MemoryKV
	snapshots *stubSnapshots
}

func newServiceFixture(t *testing.T, allowPurge bool) *serviceFixture {
	t.Helper()

	repo := storage.NewMemoryRepo()
	kv := storage.NewMemoryKV()
	snapshots := &stubSnapshots{}
	importer := ingest.NewImporter(repo, 0)
	return &serviceFixture{
		svc:       NewLeadService(repo, kv, importer, snapshots, allowPurge),
		repo:      repo,
		kv:        kv,
		snapshots: snapshots,
	}
}

func TestCreateLead_Defaults(t *testing.T) {
	f := newServiceFixture(t, false)
	ctx := context.Background()

	created, err := f.svc.CreateLead(ctx, model.Lead{
		ConsumerNumber: "CN-100",
		KVA:            "150",
		MobileNumbers: []model.MobileNumber{
			{Number: "9876543210", Name: "Raj", IsMain: true},
		},
	})
	require.NoError(t, err)

	assert.NotEmpty(t, created.ID)
	assert.Equal(t, model.StatusNew, created.Status)
	assert.Equal(t, "9876543210", created.MobileNumber, "scalar mirror synced")
	assert.False(t, created.CreatedAt.IsZero())
	assert.Equal(t, 1, f.snapshots.notified)

	stored, err := f.repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "CN-100", stored.ConsumerNumber)
}

func TestCreateLead_ValidationRejected(t *testing.T) {
	f := newServiceFixture(t, false)

	_, err := f.svc.CreateLead(context.Background(), model.Lead{
		ConsumerNumber: "CN-100",
		Status:         model.LeadStatus("Definitely Not Real"),
	})
	assert.True(t, apperrors.IsValidationError(err))
	assert.Zero(t, f.snapshots.notified, "no snapshot on rejected write")
}

func TestCreateLead_ContactSlotsValidated(t *testing.T) {
	ctx := context.Background()

	t.Run("malformed number", func(t *testing.T) {
		f := newServiceFixture(t, false)
		_, err := f.svc.CreateLead(ctx, model.Lead{
			ConsumerNumber: "CN-100",
			KVA:            "150",
			MobileNumbers: []model.MobileNumber{
				{Number: "not-a-number-123456789012345", IsMain: true},
				{Number: "9123456780", IsMain: true},
			},
		})
		assert.True(t, apperrors.IsValidationError(err))
		assert.Zero(t, f.snapshots.notified, "no snapshot on rejected write")
	})

	t.Run("too many slots", func(t *testing.T) {
		f := newServiceFixture(t, false)
		_, err := f.svc.CreateLead(ctx, model.Lead{
			ConsumerNumber: "CN-100",
			KVA:            "150",
			MobileNumbers: []model.MobileNumber{
				{Number: "9000000001"}, {Number: "9000000002"},
				{Number: "9000000003"}, {Number: "9000000004"},
			},
		})
		assert.True(t, apperrors.IsValidationError(err))
	})
}

func TestCreateLead_SingleMainContact(t *testing.T) {
	f := newServiceFixture(t, false)

	created, err := f.svc.CreateLead(context.Background(), model.Lead{
		ConsumerNumber: "CN-100",
		KVA:            "150",
		MobileNumbers: []model.MobileNumber{
			{Number: "9876543210", Name: "Raj", IsMain: true},
			{Number: "9123456780", Name: "Amit", IsMain: true},
		},
	})
	require.NoError(t, err)

	assert.True(t, created.MobileNumbers[0].IsMain)
	assert.False(t, created.MobileNumbers[1].IsMain, "only the first flagged contact stays main")
	assert.Equal(t, "9876543210", created.MobileNumber)
}

func TestUpdateLead_FlagsAndAuditTrail(t *testing.T) {
	f := newServiceFixture(t, false)
	ctx := context.Background()

	created, err := f.svc.CreateLead(ctx, model.Lead{ConsumerNumber: "CN-100", KVA: "150"})
	require.NoError(t, err)

	edited := *created
	edited.ClientName = "Mehul Patel"
	updated, err := f.svc.UpdateLead(ctx, edited)
	require.NoError(t, err)

	assert.True(t, updated.IsUpdated)
	assert.NotEmpty(t, updated.LastActivityDate)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt, "creation time preserved")
	require.Len(t, updated.Activities, 1)
	assert.Equal(t, "Lead details updated", updated.Activities[0].Description)
}

func TestUpdateLead_KeepsDeletedFlag(t *testing.T) {
	f := newServiceFixture(t, false)
	ctx := context.Background()

	created, err := f.svc.CreateLead(ctx, model.Lead{ConsumerNumber: "CN-100", KVA: "150"})
	require.NoError(t, err)
	require.NoError(t, f.svc.DeleteLead(ctx, created.ID))

	edited := *created
	edited.IsDeleted = false
	edited.ClientName = "Mehul Patel"
	updated, err := f.svc.UpdateLead(ctx, edited)
	require.NoError(t, err)
	assert.True(t, updated.IsDeleted, "a plain update must not undelete")

	require.NoError(t, f.svc.RestoreLead(ctx, created.ID))
	stored, err := f.repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsDeleted)
}

func TestUpdateLead_NotFound(t *testing.T) {
	f := newServiceFixture(t, false)

	_, err := f.svc.UpdateLead(context.Background(), model.Lead{ID: "missing"})
	assert.True(t, apperrors.IsNotFoundError(err))
}

func TestDeleteRestoreLifecycle(t *testing.T) {
	f := newServiceFixture(t, false)
	ctx := context.Background()

	created, err := f.svc.CreateLead(ctx, model.Lead{ConsumerNumber: "CN-100", KVA: "150"})
	require.NoError(t, err)

	require.NoError(t, f.svc.DeleteLead(ctx, created.ID))
	stored, err := f.repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsDeleted)

	assert.True(t, apperrors.IsConflictError(f.svc.DeleteLead(ctx, created.ID)),
		"double delete must conflict")

	require.NoError(t, f.svc.RestoreLead(ctx, created.ID))
	stored, err = f.repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsDeleted)

	assert.True(t, apperrors.IsConflictError(f.svc.RestoreLead(ctx, created.ID)),
		"restoring an active lead must conflict")
}

func TestPurgeLead(t *testing.T) {
	ctx := context.Background()

	t.Run("disabled", func(t *testing.T) {
		f := newServiceFixture(t, false)
		err := f.svc.PurgeLead(ctx, "any")
		assert.True(t, apperrors.IsUnauthorizedError(err))
	})

	t.Run("requires prior soft delete", func(t *testing.T) {
		f := newServiceFixture(t, true)
		created, err := f.svc.CreateLead(ctx, model.Lead{ConsumerNumber: "CN-100", KVA: "150"})
		require.NoError(t, err)

		assert.True(t, apperrors.IsConflictError(f.svc.PurgeLead(ctx, created.ID)))

		require.NoError(t, f.svc.DeleteLead(ctx, created.ID))
		require.NoError(t, f.svc.PurgeLead(ctx, created.ID))

		_, err = f.repo.FindByID(ctx, created.ID)
		assert.True(t, apperrors.IsNotFoundError(err))
	})
}

func TestAddActivity(t *testing.T) {
	f := newServiceFixture(t, false)
	ctx := context.Background()

	created, err := f.svc.CreateLead(ctx, model.Lead{ConsumerNumber: "CN-100", KVA: "150"})
	require.NoError(t, err)

	updated, err := f.svc.AddActivity(ctx, created.ID, "Called, asked to ring back Monday")
	require.NoError(t, err)
	require.Len(t, updated.Activities, 1)
	assert.Equal(t, "Called, asked to ring back Monday", updated.Activities[0].Description)
	assert.NotEmpty(t, updated.LastActivityDate)

	_, err = f.svc.AddActivity(ctx, created.ID, "")
	assert.True(t, apperrors.IsValidationError(err))
}

func TestImportTable(t *testing.T) {
	f := newServiceFixture(t, false)
	ctx := context.Background()

	csvData := strings.Join([]string{
		"con.no,KVA,Company Name,Lead Status",
		"CN-1,100,Shakti Industries,hot lead",
		"CN-2,250,Ambica Polymers,",
	}, "\n")

	admitted, err := f.svc.ImportTable(ctx, ingest.NewCSVSource(strings.NewReader(csvData)))
	require.NoError(t, err)
	assert.Equal(t, 2, admitted)
	assert.Equal(t, 1, f.snapshots.notified)

	all, err := f.repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, model.StatusHotlead, all[0].Status)
	assert.Equal(t, model.StatusNew, all[1].Status)
}

func TestImportTable_StructuralRejectionNotifiesNothing(t *testing.T) {
	f := newServiceFixture(t, false)
	ctx := context.Background()

	_, err := f.svc.ImportTable(ctx, ingest.NewCSVSource(strings.NewReader("")))
	assert.True(t, apperrors.IsStructuralError(err))
	assert.Zero(t, f.snapshots.notified)
}

func TestListLeads_AppliesViewPolicy(t *testing.T) {
	f := newServiceFixture(t, false)
	ctx := context.Background()

	active, err := f.svc.CreateLead(ctx, model.Lead{ConsumerNumber: "CN-1", KVA: "100"})
	require.NoError(t, err)
	deleted, err := f.svc.CreateLead(ctx, model.Lead{ConsumerNumber: "CN-2", KVA: "200"})
	require.NoError(t, err)
	require.NoError(t, f.svc.DeleteLead(ctx, deleted.ID))

	listed, err := f.svc.ListLeads(ctx, model.LeadFilters{}, query.ViewGeneric)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, active.ID, listed[0].ID)

	archived, err := f.svc.ListLeads(ctx, model.LeadFilters{}, query.ViewArchive)
	require.NoError(t, err)
	assert.Len(t, archived, 2)
}

func TestExportLeads_ExcludesDeleted(t *testing.T) {
	f := newServiceFixture(t, false)
	ctx := context.Background()

	kept, err := f.svc.CreateLead(ctx, model.Lead{ConsumerNumber: "CN-1", KVA: "100", IsDone: true})
	require.NoError(t, err)
	gone, err := f.svc.CreateLead(ctx, model.Lead{ConsumerNumber: "CN-2", KVA: "200"})
	require.NoError(t, err)
	require.NoError(t, f.svc.DeleteLead(ctx, gone.ID))

	exported, err := f.svc.ExportLeads(ctx, model.LeadFilters{})
	require.NoError(t, err)
	require.Len(t, exported, 1)
	assert.Equal(t, kept.ID, exported[0].ID, "done leads export, deleted leads never do")
}

func TestSaveLoadView(t *testing.T) {
	f := newServiceFixture(t, false)
	ctx := context.Background()

	filters := model.LeadFilters{
		Status:            []model.LeadStatus{model.StatusHotlead, model.StatusFollowUp},
		Discom:            "PGVCL",
		FollowUpDateStart: "01-01-2024",
		SearchTerm:        "shakti",
	}
	require.NoError(t, f.svc.SaveView(ctx, "hot-pgvcl", filters))

	loaded, err := f.svc.LoadView(ctx, "hot-pgvcl")
	require.NoError(t, err)
	assert.Equal(t, filters, loaded)

	_, err = f.svc.LoadView(ctx, "missing")
	assert.True(t, apperrors.IsNotFoundError(err))

	assert.True(t, apperrors.IsValidationError(f.svc.SaveView(ctx, "", filters)))
}
