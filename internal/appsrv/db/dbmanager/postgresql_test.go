package dbmanager

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testScopes = []string{"appcloud.curr_tenantid"}

func newMockPool(t *testing.T) (ScopedDb, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })
	return NewScopedDbFromSQLDB(sqlDB, testScopes), mock
}

func expectConnSetup(mock sqlmock.Sqlmock) {
	mock.ExpectExec("SET lock_timeout = '5s'").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("SET statement_timeout = '5s'").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("RESET appcloud.curr_tenantid").WillReturnResult(sqlmock.NewResult(0, 0))
}

func TestConnAppliesSessionSettings(t *testing.T) {
	pool, mock := newMockPool(t)
	expectConnSetup(mock)

	ctx := context.Background()
	conn, err := pool.Conn(ctx)
	require.NoError(t, err)
	require.NotNil(t, conn.Conn())

	requests, returns := pool.Stats()
	assert.Equal(t, uint64(1), requests)
	assert.Equal(t, uint64(0), returns)

	mock.ExpectExec("RESET appcloud.curr_tenantid").WillReturnResult(sqlmock.NewResult(0, 0))
	conn.Close(ctx)
	_, returns = pool.Stats()
	assert.Equal(t, uint64(1), returns)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScopeLifecycle(t *testing.T) {
	pool, mock := newMockPool(t)
	expectConnSetup(mock)

	ctx := context.Background()
	conn, err := pool.Conn(ctx)
	require.NoError(t, err)

	mock.ExpectExec("SET appcloud.curr_tenantid TO \\$1").
		WithArgs("T12345").
		WillReturnResult(sqlmock.NewResult(0, 0))
	require.NoError(t, conn.AddScope(ctx, "appcloud.curr_tenantid", "T12345"))

	// A scope that was never configured is rejected without touching the db.
	assert.Error(t, conn.AddScope(ctx, "appcloud.curr_projectid", "P1"))

	mock.ExpectExec("RESET appcloud.curr_tenantid").WillReturnResult(sqlmock.NewResult(0, 0))
	require.NoError(t, conn.DropScope(ctx, "appcloud.curr_tenantid"))

	mock.ExpectExec("RESET appcloud.curr_tenantid").WillReturnResult(sqlmock.NewResult(0, 0))
	conn.Close(ctx)

	// Close is idempotent.
	conn.Close(ctx)

	assert.NoError(t, mock.ExpectationsWereMet())
}
