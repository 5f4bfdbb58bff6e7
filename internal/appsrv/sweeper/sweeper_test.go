package sweeper

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/robfig/cron/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/appcloud/appcloud-internal/internal/appsrv/db"
	"github.com/appcloud/appcloud-internal/internal/appsrv/db/dbmanager"
)

func TestNewRejectsBadSchedule(t *testing.T) {
	s := &Sweeper{cron: cron.New(), idleHours: 12}
	_, err := s.cron.AddFunc("not a schedule", s.run)
	require.Error(t, err)
}

func TestSweep(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	mock.ExpectExec(regexp.QuoteMeta(`SET lock_timeout`)).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta(`SET statement_timeout`)).WillReturnResult(sqlmock.NewResult(0, 0))

	pool := dbmanager.NewScopedDbFromSQLDB(sqlDB, nil)
	conn, err := pool.Conn(context.Background())
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close(context.Background()) })

	mock.ExpectQuery(regexp.QuoteMeta(`FROM versions v`)).
		WithArgs("running", 12).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "name", "hash_id", "application_id", "runtime_id", "tenant_id", "status",
			"is_white_listed", "deployment_id", "created_at"}).
			AddRow(int64(21), "1.0.0", "9234567890", int64(11), int64(3), "T10001", "running",
				false, nil, time.Now().Add(-48*time.Hour)))

	s := &Sweeper{cron: cron.New(), idleHours: 12}
	s.Sweep(db.WithScopedConn(context.Background(), conn))

	assert.NoError(t, mock.ExpectationsWereMet())
}
