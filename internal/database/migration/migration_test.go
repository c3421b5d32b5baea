package migration

import (
	"bytes"
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const checkQuery = "SELECT to_regclass\\(\\$1\\) IS NOT NULL"

func TestEnsureMigrated_SkipsWhenSchemaExists(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(checkQuery).
		WithArgs("public.audit_events").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	var buf bytes.Buffer
	err = EnsureMigrated(context.Background(), db, zerolog.New(&buf), "db.local")

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "db_migration_skip")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnsureMigrated_RunsAllSteps(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(checkQuery).
		WithArgs("public.audit_events").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	for _, step := range steps {
		mock.ExpectExec(regexp.QuoteMeta(step.SQL)).WillReturnResult(sqlmock.NewResult(0, 0))
	}

	var buf bytes.Buffer
	err = EnsureMigrated(context.Background(), db, zerolog.New(&buf), "db.local")

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "db_migration_success")
	assert.Contains(t, buf.String(), `"db_host":"db.local"`)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnsureMigrated_StepFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(checkQuery).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectExec(regexp.QuoteMeta(steps[0].SQL)).WillReturnError(errors.New("permission denied"))

	var buf bytes.Buffer
	err = EnsureMigrated(context.Background(), db, zerolog.New(&buf), "db.local")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "migration step create_table_audit_events failed")
	assert.Contains(t, buf.String(), `"level":"error"`)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnsureMigrated_CheckFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(checkQuery).WillReturnError(errors.New("connection refused"))

	err = EnsureMigrated(context.Background(), db, zerolog.Nop(), "db.local")

	assert.ErrorContains(t, err, "failed to check sentinel table")
}
