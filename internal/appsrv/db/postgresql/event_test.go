package postgresql

import (
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/appcloud/appcloud-internal/internal/appsrv/db/dberror"
	"github.com/appcloud/appcloud-internal/internal/appsrv/db/models"
)

func TestCreateEvent(t *testing.T) {
	mm, mock, ctx := newTestDb(t)

	event := &models.Event{Name: "build", Status: "succeeded", Description: "build 42 ok"}

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO events`)).
		WithArgs("build", "succeeded", testTenantID, "build 42 ok", "9234567890").
		WillReturnRows(sqlmock.NewRows([]string{"id", "version_id", "created_at"}).
			AddRow(int64(41), int64(21), time.Now()))

	err := mm.CreateEvent(ctx, "9234567890", event)
	require.NoError(t, err)
	assert.Equal(t, int64(41), event.ID)
	assert.Equal(t, int64(21), event.VersionID)
	assert.Equal(t, testTenantID, event.TenantID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateEventVersionNotFound(t *testing.T) {
	mm, mock, ctx := newTestDb(t)

	event := &models.Event{Name: "build", Status: "succeeded"}

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO events`)).
		WillReturnError(sql.ErrNoRows)

	err := mm.CreateEvent(ctx, "9234567890", event)
	require.Error(t, err)
	assert.ErrorIs(t, err, dberror.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListCurrentEvents(t *testing.T) {
	mm, mock, ctx := newTestDb(t)

	createdAt := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta(`FROM events e`)).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "name", "status", "version_id", "tenant_id", "description", "created_at"}).
			AddRow(int64(41), "build", "succeeded", int64(21), testTenantID, "", createdAt).
			AddRow(int64(43), "deploy", "in_progress", int64(21), testTenantID, "", createdAt))

	events, err := mm.ListCurrentEvents(ctx, "9234567890", nil)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "build", events[0].Name)
	assert.Equal(t, "deploy", events[1].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListCurrentEventsFiltered(t *testing.T) {
	mm, mock, ctx := newTestDb(t)

	createdAt := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta(`FROM events e`)).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "name", "status", "version_id", "tenant_id", "description", "created_at"}).
			AddRow(int64(41), "build", "succeeded", int64(21), testTenantID, "", createdAt))

	events, err := mm.ListCurrentEvents(ctx, "9234567890", []string{"build"})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "build", events[0].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteVersionEvents(t *testing.T) {
	mm, mock, ctx := newTestDb(t)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM events`)).
		WithArgs("9234567890", testTenantID).
		WillReturnResult(sqlmock.NewResult(0, 3))

	err := mm.DeleteVersionEvents(ctx, "9234567890")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
