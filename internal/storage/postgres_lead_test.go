package storage

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/urjaconsultants/lead-pipeline/internal/apperrors"
)

func TestPostgresRepo_FindByID(t *testing.T) {
	repo, mock := newTestRepo(t)

	selectQuery := `SELECT * FROM "leads" WHERE id = $1 ORDER BY "leads"."id" LIMIT $2`
	rows := sqlmock.NewRows([]string{"id", "kva", "consumer_number", "client_name", "status"}).
		AddRow("lead-1", "100", "CN-1", "Suresh", "Hotlead")
	mock.ExpectQuery(selectQuery).WithArgs("lead-1", 1).WillReturnRows(rows)

	lead, err := repo.FindByID(context.Background(), "lead-1")
	assert.NoError(t, err)
	assert.Equal(t, "CN-1", lead.ConsumerNumber)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepo_FindByID_NotFound(t *testing.T) {
	repo, mock := newTestRepo(t)

	selectQuery := `SELECT * FROM "leads" WHERE id = $1 ORDER BY "leads"."id" LIMIT $2`
	mock.ExpectQuery(selectQuery).WithArgs("missing", 1).WillReturnError(gorm.ErrRecordNotFound)

	_, err := repo.FindByID(context.Background(), "missing")
	assert.True(t, apperrors.IsNotFoundError(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepo_FindAll(t *testing.T) {
	repo, mock := newTestRepo(t)

	selectQuery := `SELECT * FROM "leads" ORDER BY created_at ASC`
	rows := sqlmock.NewRows([]string{"id", "consumer_number", "is_deleted", "created_at"}).
		AddRow("lead-1", "CN-1", false, time.Now().Add(-time.Hour)).
		AddRow("lead-2", "CN-2", true, time.Now())
	mock.ExpectQuery(selectQuery).WillReturnRows(rows)

	leads, err := repo.FindAll(context.Background())
	assert.NoError(t, err)
	assert.Len(t, leads, 2)
	// Deleted leads are included; visibility is the filter engine's job.
	assert.True(t, leads[1].IsDeleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepo_Remove(t *testing.T) {
	repo, mock := newTestRepo(t)

	deleteQuery := `DELETE FROM "leads" WHERE id = $1`
	mock.ExpectExec(deleteQuery).WithArgs("lead-1").WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, repo.Remove(context.Background(), "lead-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepo_Remove_NotFound(t *testing.T) {
	repo, mock := newTestRepo(t)

	deleteQuery := `DELETE FROM "leads" WHERE id = $1`
	mock.ExpectExec(deleteQuery).WithArgs("missing").WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Remove(context.Background(), "missing")
	assert.True(t, apperrors.IsNotFoundError(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepo_AppendLeads_Empty(t *testing.T) {
	repo, mock := newTestRepo(t)

	// No SQL expected for an empty batch.
	assert.NoError(t, repo.AppendLeads(context.Background(), nil))
	assert.NoError(t, mock.ExpectationsWereMet())
}
