package appmanager

import (
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/appcloud/appcloud-internal/internal/appsrv/hashid"
)

func TestCreateVersionRequestValidation(t *testing.T) {
	ctx, _ := newTestContext(t)

	_, err := CreateVersion(ctx, "orders", &VersionRequest{Name: "1.0.0"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidRequest)

	_, err = CreateVersion(ctx, "orders", &VersionRequest{RuntimeID: 3})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestCreateVersion(t *testing.T) {
	ctx, mock := newTestContext(t)

	appHashID := hashid.ApplicationHashID("orders", testTenantID)
	versionHashID := hashid.VersionHashID("orders", "1.0.0", testTenantID)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id FROM applications`)).
		WithArgs(appHashID, testTenantID).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(11)))
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO versions`)).
		WithArgs("1.0.0", versionHashID, int64(11), int64(3), testTenantID, "created", false, "", "").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(21), time.Now()))
	mock.ExpectCommit()

	rsp, err := CreateVersion(ctx, "orders", &VersionRequest{Name: "1.0.0", RuntimeID: 3})
	require.NoError(t, err)
	assert.Equal(t, "1.0.0", rsp.Name)
	assert.Equal(t, "created", rsp.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateVersionStatusRejectsUnknownStatus(t *testing.T) {
	ctx, _ := newTestContext(t)

	err := UpdateVersionStatus(ctx, "orders", "1.0.0", "hibernating")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidVersionStatus)
}

func TestUpdateVersionStatus(t *testing.T) {
	ctx, mock := newTestContext(t)

	hashID := hashid.VersionHashID("orders", "1.0.0", testTenantID)
	mock.ExpectQuery(regexp.QuoteMeta(`UPDATE versions`)).
		WithArgs("stopped", hashID, testTenantID).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(21)))

	err := UpdateVersionStatus(ctx, "orders", "1.0.0", "stopped")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeployVersion(t *testing.T) {
	ctx, mock := newTestContext(t)

	hashID := hashid.VersionHashID("orders", "1.0.0", testTenantID)
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO deployments`)).
		WithArgs(hashID, testTenantID).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(31)))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE versions SET deployment_id`)).
		WithArgs(int64(31), hashID, testTenantID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	deploymentID, err := DeployVersion(ctx, "orders", "1.0.0")
	require.NoError(t, err)
	assert.Equal(t, int64(31), deploymentID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordEvent(t *testing.T) {
	ctx, mock := newTestContext(t)

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO events`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "version_id", "created_at"}).
			AddRow(int64(41), int64(21), time.Now()))

	rsp, err := RecordEvent(ctx, "orders", "1.0.0", &EventRequest{Name: "build", Status: "succeeded"})
	require.NoError(t, err)
	assert.Equal(t, "build", rsp.Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordEventValidation(t *testing.T) {
	ctx, _ := newTestContext(t)

	_, err := RecordEvent(ctx, "orders", "1.0.0", &EventRequest{Name: "build"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidRequest)
}
