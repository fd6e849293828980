package storage

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/urjaconsultants/lead-pipeline/internal/apperrors"
)

func TestPostgresRepo_GetKV(t *testing.T) {
	repo, mock := newTestRepo(t)

	selectQuery := `SELECT * FROM "kv_entries" WHERE key = $1 ORDER BY "kv_entries"."key" LIMIT $2`
	rows := sqlmock.NewRows([]string{"key", "value"}).
		AddRow("leads:snapshot", []byte(`[{"id":"lead-1"}]`))
	mock.ExpectQuery(selectQuery).WithArgs("leads:snapshot", 1).WillReturnRows(rows)

	value, err := repo.Get(context.Background(), "leads:snapshot")
	assert.NoError(t, err)
	assert.JSONEq(t, `[{"id":"lead-1"}]`, string(value))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepo_GetKV_NotFound(t *testing.T) {
	repo, mock := newTestRepo(t)

	selectQuery := `SELECT * FROM "kv_entries" WHERE key = $1 ORDER BY "kv_entries"."key" LIMIT $2`
	mock.ExpectQuery(selectQuery).WithArgs("views:missing", 1).WillReturnError(gorm.ErrRecordNotFound)

	_, err := repo.Get(context.Background(), "views:missing")
	assert.True(t, apperrors.IsNotFoundError(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepo_SetKV_Upsert(t *testing.T) {
	repo, mock := newTestRepo(t)

	insertQuery := `INSERT INTO "kv_entries" ("key","value","updated_at") VALUES ($1,$2,$3) ON CONFLICT ("key") DO UPDATE SET "value"="excluded"."value","updated_at"="excluded"."updated_at"`
	// datatypes.JSON serializes to a string driver value.
	mock.ExpectExec(insertQuery).
		WithArgs("views:hot", `{"status":["Hotlead"]}`, AnyTime{}).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Set(context.Background(), "views:hot", []byte(`{"status":["Hotlead"]}`))
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
