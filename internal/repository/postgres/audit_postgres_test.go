package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"libraryfront/internal/model"
	"libraryfront/internal/repository"
)

var auditColumns = []string{"id", "action", "document_id", "detail", "outcome", "created_at"}

func TestAuditPostgres_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewAuditPostgres(db)
	ctx := context.Background()
	now := time.Now().UTC()
	docID := int64(42)

	t.Run("with document", func(t *testing.T) {
		ev := &model.AuditEvent{ID: "ev-1", Action: model.ActionDeleteBook, DocumentID: &docID, Detail: "", Outcome: model.OutcomeSuccess, CreatedAt: now}
		mock.ExpectQuery("INSERT INTO audit_events").
			WithArgs(ev.ID, ev.Action, int64(42), ev.Detail, ev.Outcome, ev.CreatedAt).
			WillReturnRows(sqlmock.NewRows(auditColumns).AddRow(ev.ID, ev.Action, int64(42), ev.Detail, ev.Outcome, now))

		got, err := repo.Create(ctx, ev)

		require.NoError(t, err)
		require.NotNil(t, got.DocumentID)
		assert.Equal(t, int64(42), *got.DocumentID)
		assert.Equal(t, "ev-1", got.ID)
	})

	t.Run("without document", func(t *testing.T) {
		ev := &model.AuditEvent{ID: "ev-2", Action: model.ActionBulkUpload, Detail: "3 files", Outcome: model.OutcomeFailure, CreatedAt: now}
		mock.ExpectQuery("INSERT INTO audit_events").
			WithArgs(ev.ID, ev.Action, nil, ev.Detail, ev.Outcome, ev.CreatedAt).
			WillReturnRows(sqlmock.NewRows(auditColumns).AddRow(ev.ID, ev.Action, nil, ev.Detail, ev.Outcome, now))

		got, err := repo.Create(ctx, ev)

		require.NoError(t, err)
		assert.Nil(t, got.DocumentID)
		assert.Equal(t, "3 files", got.Detail)
	})

	t.Run("db error", func(t *testing.T) {
		mock.ExpectQuery("INSERT INTO audit_events").WillReturnError(errors.New("insert failed"))

		got, err := repo.Create(ctx, &model.AuditEvent{ID: "ev-3", CreatedAt: now})

		assert.EqualError(t, err, "insert failed")
		assert.Nil(t, got)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAuditPostgres_List(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewAuditPostgres(db)
	ctx := context.Background()
	now := time.Now().UTC()

	t.Run("page", func(t *testing.T) {
		mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM audit_events").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(12))
		mock.ExpectQuery("SELECT (.+) FROM audit_events ORDER BY").
			WithArgs(2, 4).
			WillReturnRows(sqlmock.NewRows(auditColumns).
				AddRow("b", model.ActionAddBook, nil, "Clean Code", model.OutcomeSuccess, now).
				AddRow("a", model.ActionDeleteBook, int64(7), "", model.OutcomeFailure, now.Add(-time.Minute)))

		res, err := repo.List(ctx, repository.PageQuery{Limit: 2, Offset: 4})

		require.NoError(t, err)
		assert.Equal(t, 12, res.Total)
		require.Len(t, res.Items, 2)
		assert.Equal(t, "b", res.Items[0].ID)
		assert.Nil(t, res.Items[0].DocumentID)
		require.NotNil(t, res.Items[1].DocumentID)
		assert.Equal(t, int64(7), *res.Items[1].DocumentID)
	})

	t.Run("count error", func(t *testing.T) {
		mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM audit_events").WillReturnError(errors.New("boom"))

		res, err := repo.List(ctx, repository.PageQuery{Limit: 10})

		assert.Error(t, err)
		assert.Nil(t, res)
	})

	t.Run("empty", func(t *testing.T) {
		mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM audit_events").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
		mock.ExpectQuery("SELECT (.+) FROM audit_events ORDER BY").
			WithArgs(10, 0).
			WillReturnRows(sqlmock.NewRows(auditColumns))

		res, err := repo.List(ctx, repository.PageQuery{Limit: 10})

		require.NoError(t, err)
		assert.NotNil(t, res.Items)
		assert.Empty(t, res.Items)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}
