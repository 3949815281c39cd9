package incident_test

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linkit/relay/internal/database"
	"github.com/linkit/relay/internal/incident"
)

type sqlDatabase struct {
	database.Database
	db *sql.DB
}

func (d sqlDatabase) DB() *sql.DB {
	return d.db
}

func newSQLMock(t *testing.T) (incident.Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})
	return incident.NewRepository(sqlDatabase{db: db}), mock
}

func storedIncident() *incident.Incident {
	return &incident.Incident{
		ID:        "6b0ea1b3-3f43-4b6e-9a43-2d1f6b8c9e10",
		Kind:      "task",
		Message:   "target did not accept payload",
		Cause:     "target answered 503",
		Source:    incident.SourceWorker,
		TaskType:  "relay:forward",
		TaskID:    "task-1",
		CreatedAt: time.Date(2022, 11, 20, 10, 0, 0, 0, time.UTC),
	}
}

func TestRepository_Save(t *testing.T) {
	repo, mock := newSQLMock(t)
	inc := storedIncident()
	mock.ExpectExec(regexp.QuoteMeta(
		"INSERT INTO incidents (id, kind, message, cause, source, task_type, task_id, created_at) "+
			"VALUES ($1,$2,$3,$4,$5,$6,$7,$8)",
	)).
		WithArgs(inc.ID, inc.Kind, inc.Message, inc.Cause, "worker", inc.TaskType, inc.TaskID, inc.CreatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Save(context.Background(), inc))
}

func TestRepository_SaveFailure(t *testing.T) {
	repo, mock := newSQLMock(t)
	mock.ExpectExec("INSERT INTO incidents").WillReturnError(errors.New("duplicate key value"))

	err := repo.Save(context.Background(), storedIncident())

	require.ErrorContains(t, err, "unable to save incident")
	require.ErrorContains(t, err, "duplicate key value")
}

func TestRepository_Get(t *testing.T) {
	expected := storedIncident()
	columns := []string{"id", "kind", "message", "cause", "source", "task_type", "task_id", "created_at"}
	query := regexp.QuoteMeta(
		"SELECT id, kind, message, cause, source, task_type, task_id, created_at FROM incidents WHERE id = $1",
	)

	t.Run("found", func(t *testing.T) {
		repo, mock := newSQLMock(t)
		mock.ExpectQuery(query).WithArgs(expected.ID).WillReturnRows(
			sqlmock.NewRows(columns).AddRow(
				expected.ID, expected.Kind, expected.Message, expected.Cause,
				"worker", expected.TaskType, expected.TaskID, expected.CreatedAt,
			),
		)

		got, err := repo.Get(context.Background(), expected.ID)
		require.NoError(t, err)
		assert.Equal(t, expected, got)
	})

	t.Run("not found", func(t *testing.T) {
		repo, mock := newSQLMock(t)
		mock.ExpectQuery(query).WithArgs(expected.ID).WillReturnRows(sqlmock.NewRows(columns))

		_, err := repo.Get(context.Background(), expected.ID)
		require.ErrorIs(t, err, incident.ErrNotFound)
	})

	t.Run("query failure", func(t *testing.T) {
		repo, mock := newSQLMock(t)
		mock.ExpectQuery(query).WithArgs(expected.ID).WillReturnError(errors.New("connection reset"))

		_, err := repo.Get(context.Background(), expected.ID)
		require.ErrorContains(t, err, "unable to fetch incident from database")
		require.NotErrorIs(t, err, incident.ErrNotFound)
	})
}

func TestRepository_NotConnected(t *testing.T) {
	repo := incident.NewRepository(sqlDatabase{})

	require.EqualError(t, repo.Save(context.Background(), storedIncident()), "database is not connected")
	_, err := repo.Get(context.Background(), "6b0ea1b3-3f43-4b6e-9a43-2d1f6b8c9e10")
	require.EqualError(t, err, "database is not connected")
}
