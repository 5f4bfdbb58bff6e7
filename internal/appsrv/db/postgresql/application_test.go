package postgresql

import (
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/appcloud/appcloud-internal/internal/appsrv/db/dberror"
	"github.com/appcloud/appcloud-internal/internal/appsrv/db/models"
)

func TestCreateApplication(t *testing.T) {
	mm, mock, ctx := newTestDb(t)

	app := &models.Application{
		Name:    "orders",
		HashID:  "8234567890",
		AppType: "war",
		Versions: []models.Version{
			{Name: "1.0.0", HashID: "9234567890", RuntimeID: 3},
		},
	}

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO applications`)).
		WithArgs("orders", "8234567890", "", testTenantID, "", "", "war", "", "").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(11)))
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO versions`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(21), time.Now()))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO events`)).
		WithArgs("application_creation", "completed", int64(21), testTenantID, "application created").
		WillReturnResult(sqlmock.NewResult(41, 1))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO app_icons`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := mm.CreateApplication(ctx, app, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(11), app.ID)
	assert.Equal(t, int64(21), app.Versions[0].ID)
	assert.Equal(t, int64(11), app.Versions[0].ApplicationID)
	assert.Equal(t, testTenantID, app.TenantID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateApplicationAlreadyExists(t *testing.T) {
	mm, mock, ctx := newTestDb(t)

	app := &models.Application{Name: "orders", HashID: "8234567890", AppType: "war"}

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO applications`)).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "applications_hash_id_key"})
	mock.ExpectRollback()

	err := mm.CreateApplication(ctx, app, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, dberror.ErrAlreadyExists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateApplicationUnknownType(t *testing.T) {
	mm, mock, ctx := newTestDb(t)

	app := &models.Application{Name: "orders", HashID: "8234567890", AppType: "bogus"}

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO applications`)).
		WillReturnError(&pgconn.PgError{Code: "23503", ConstraintName: "applications_app_type_fkey"})
	mock.ExpectRollback()

	err := mm.CreateApplication(ctx, app, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, dberror.ErrInvalidInput)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetApplicationNotFound(t *testing.T) {
	mm, mock, ctx := newTestDb(t)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM applications a`)).
		WithArgs("8234567890", testTenantID).
		WillReturnError(sql.ErrNoRows)

	app, err := mm.GetApplication(ctx, "8234567890")
	require.Error(t, err)
	assert.Nil(t, app)
	assert.ErrorIs(t, err, dberror.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetApplication(t *testing.T) {
	mm, mock, ctx := newTestDb(t)

	createdAt := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta(`FROM applications a`)).
		WithArgs("8234567890", testTenantID).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "name", "hash_id", "description", "tenant_id", "default_version",
			"source_bundle_name", "app_type", "param_configuration", "task_configuration",
			"created_at", "buildable", "icon"}).
			AddRow(int64(11), "orders", "8234567890", "order service", testTenantID, "1.0.0",
				"orders.war", "war", "", "", createdAt, true, nil))
	mock.ExpectQuery(regexp.QuoteMeta(`FROM versions v`)).
		WithArgs("8234567890", testTenantID).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "name", "hash_id", "application_id", "runtime_id", "tenant_id", "status",
			"is_white_listed", "deployment_id", "created_at", "name"}).
			AddRow(int64(21), "1.0.0", "9234567890", int64(11), int64(3), testTenantID, "running",
				false, nil, createdAt, "tomcat-9"))

	app, err := mm.GetApplication(ctx, "8234567890")
	require.NoError(t, err)
	assert.Equal(t, "orders", app.Name)
	assert.True(t, app.Buildable)
	require.Len(t, app.Versions, 1)
	assert.Equal(t, "tomcat-9", app.Versions[0].RuntimeName)
	assert.False(t, app.Versions[0].DeploymentID.Valid)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateDefaultVersionNotFound(t *testing.T) {
	mm, mock, ctx := newTestDb(t)

	mock.ExpectQuery(regexp.QuoteMeta(`UPDATE applications`)).
		WithArgs("2.0.0", "8234567890", testTenantID).
		WillReturnError(sql.ErrNoRows)

	err := mm.UpdateDefaultVersion(ctx, "8234567890", "2.0.0")
	require.Error(t, err)
	assert.ErrorIs(t, err, dberror.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCountApplications(t *testing.T) {
	mm, mock, ctx := newTestDb(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM applications`)).
		WithArgs(testTenantID).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	count, err := mm.CountApplications(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteApplication(t *testing.T) {
	mm, mock, ctx := newTestDb(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM deployments`)).
		WithArgs("8234567890", testTenantID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM events`)).
		WithArgs("8234567890", testTenantID).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM versions`)).
		WithArgs("8234567890", testTenantID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM app_icons`)).
		WithArgs("8234567890", testTenantID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM applications`)).
		WithArgs("8234567890", testTenantID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := mm.DeleteApplication(ctx, "8234567890")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteApplicationNotFound(t *testing.T) {
	mm, mock, ctx := newTestDb(t)

	mock.ExpectBegin()
	for i := 0; i < 4; i++ {
		mock.ExpectExec(`DELETE FROM`).
			WithArgs("8234567890", testTenantID).
			WillReturnResult(sqlmock.NewResult(0, 0))
	}
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM applications`)).
		WithArgs("8234567890", testTenantID).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := mm.DeleteApplication(ctx, "8234567890")
	require.Error(t, err)
	assert.ErrorIs(t, err, dberror.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
