package appmanager

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/appcloud/appcloud-internal/internal/appsrv/appcommon"
	"github.com/appcloud/appcloud-internal/internal/appsrv/db"
	"github.com/appcloud/appcloud-internal/internal/appsrv/db/dbmanager"
	"github.com/appcloud/appcloud-internal/internal/appsrv/db/dberror"
	"github.com/appcloud/appcloud-internal/internal/appsrv/hashid"
	"github.com/appcloud/appcloud-internal/pkg/types"
)

const testTenantID types.TenantId = "T10001"

// newTestContext builds a request-like context carrying the tenant ID and a
// scoped connection backed by sqlmock.
func newTestContext(t *testing.T) (context.Context, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	mock.ExpectExec(regexp.QuoteMeta(`SET lock_timeout`)).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta(`SET statement_timeout`)).WillReturnResult(sqlmock.NewResult(0, 0))

	pool := dbmanager.NewScopedDbFromSQLDB(sqlDB, nil)
	conn, err := pool.Conn(context.Background())
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close(context.Background()) })

	ctx := appcommon.SetTenantIdInContext(context.Background(), testTenantID)
	return db.WithScopedConn(ctx, conn), mock
}

func TestCreateApplicationRequestValidation(t *testing.T) {
	ctx, _ := newTestContext(t)

	_, err := CreateApplication(ctx, &ApplicationRequest{Name: "orders"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidRequest)

	_, err = CreateApplication(ctx, &ApplicationRequest{Name: "bad name", AppType: "war"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestCreateApplicationQuotaExceeded(t *testing.T) {
	ctx, mock := newTestContext(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM applications`)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	// no whitelist row, the configured default of 3 applies
	mock.ExpectQuery(regexp.QuoteMeta(`FROM white_listed_tenants`)).
		WillReturnRows(sqlmock.NewRows([]string{"max_app_count"}))

	_, err := CreateApplication(ctx, &ApplicationRequest{Name: "orders", AppType: "war"})
	require.Error(t, err)
	assert.ErrorIs(t, err, dberror.ErrQuotaExceeded)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateApplicationWhitelistOverride(t *testing.T) {
	ctx, mock := newTestContext(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM applications`)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	mock.ExpectQuery(regexp.QuoteMeta(`FROM white_listed_tenants`)).
		WillReturnRows(sqlmock.NewRows([]string{"max_app_count"}).AddRow(25))

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO applications`)).
		WithArgs("orders", hashid.ApplicationHashID("orders", testTenantID), "", testTenantID,
			"", "", "war", "", "").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(11)))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO app_icons`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	rsp, err := CreateApplication(ctx, &ApplicationRequest{Name: "orders", AppType: "war"})
	require.NoError(t, err)
	assert.Equal(t, "orders", rsp.Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetApplicationMissingName(t *testing.T) {
	ctx, _ := newTestContext(t)

	_, err := GetApplication(ctx, "")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestGetApplicationMissingTenant(t *testing.T) {
	_, err := GetApplication(context.Background(), "orders")
	require.Error(t, err)
	assert.ErrorIs(t, err, dberror.ErrMissingTenantID)
}

func TestGetApplication(t *testing.T) {
	ctx, mock := newTestContext(t)

	hashID := hashid.ApplicationHashID("orders", testTenantID)
	createdAt := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta(`FROM applications a`)).
		WithArgs(hashID, testTenantID).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "name", "hash_id", "description", "tenant_id", "default_version",
			"source_bundle_name", "app_type", "param_configuration", "task_configuration",
			"created_at", "buildable", "icon"}).
			AddRow(int64(11), "orders", hashID, "", testTenantID, "1.0.0", "", "war", "", "",
				createdAt, true, nil))
	mock.ExpectQuery(regexp.QuoteMeta(`FROM versions v`)).
		WithArgs(hashID, testTenantID).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "name", "hash_id", "application_id", "runtime_id", "tenant_id", "status",
			"is_white_listed", "deployment_id", "created_at", "name"}).
			AddRow(int64(21), "1.0.0", hashid.VersionHashID("orders", "1.0.0", testTenantID),
				int64(11), int64(3), testTenantID, "running", false, int64(31), createdAt, "tomcat-9"))

	rsp, err := GetApplication(ctx, "orders")
	require.NoError(t, err)
	assert.Equal(t, "orders", rsp.Name)
	require.Len(t, rsp.Versions, 1)
	assert.True(t, rsp.Versions[0].Deployed)
	assert.Equal(t, "tomcat-9", rsp.Versions[0].RuntimeName)
	assert.NoError(t, mock.ExpectationsWereMet())
}
