package postgresql

import (
	"database/sql"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/appcloud/appcloud-internal/internal/appsrv/db/dberror"
	"github.com/appcloud/appcloud-internal/internal/appsrv/db/models"
)

func TestListPlans(t *testing.T) {
	mm, mock, ctx := newTestDb(t)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM subscription_plans`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "plan_name", "max_applications"}).
			AddRow(int64(1), "Free", 3).
			AddRow(int64(2), "Pro", 20))

	plans, err := mm.ListPlans(ctx)
	require.NoError(t, err)
	require.Len(t, plans, 2)
	assert.Equal(t, "Free", plans[0].PlanName)
	assert.Equal(t, 20, plans[1].MaxApplications)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetPlanNotFound(t *testing.T) {
	mm, mock, ctx := newTestDb(t)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM subscription_plans`)).
		WithArgs(int64(9)).
		WillReturnError(sql.ErrNoRows)

	plan, err := mm.GetPlan(ctx, 9)
	require.Error(t, err)
	assert.Nil(t, plan)
	assert.ErrorIs(t, err, dberror.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreatePlanAlreadyExists(t *testing.T) {
	mm, mock, ctx := newTestDb(t)

	plan := &models.Plan{PlanName: "Free", MaxApplications: 3}

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO subscription_plans`)).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "subscription_plans_plan_name_key"})

	err := mm.CreatePlan(ctx, plan)
	require.Error(t, err)
	assert.ErrorIs(t, err, dberror.ErrAlreadyExists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeletePlanNotFound(t *testing.T) {
	mm, mock, ctx := newTestDb(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM restricted_plan_container_specs`)).
		WithArgs(int64(9)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM subscription_plans`)).
		WithArgs(int64(9)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := mm.DeletePlan(ctx, 9)
	require.Error(t, err)
	assert.ErrorIs(t, err, dberror.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListAllowedContainerSpecsForPlan(t *testing.T) {
	mm, mock, ctx := newTestDb(t)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM container_specs c`)).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "cpu", "memory", "cost_per_hour"}).
			AddRow(int64(1), "0.5x1", 500, 1024, 1).
			AddRow(int64(2), "1x2", 1000, 2048, 2))

	specs, err := mm.ListAllowedContainerSpecsForPlan(ctx, 1)
	require.NoError(t, err)
	require.Len(t, specs, 2)
	assert.Equal(t, "0.5x1", specs[0].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}
