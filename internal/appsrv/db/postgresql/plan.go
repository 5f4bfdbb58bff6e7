package postgresql

import (
	"context"
	"database/sql"

	"github.com/appcloud/appcloud-internal/internal/appsrv/db/dberror"
	"github.com/appcloud/appcloud-internal/internal/appsrv/db/models"
	"github.com/appcloud/appcloud-internal/internal/common/apperrors"
	"github.com/jackc/pgconn"
	"github.com/rs/zerolog/log"
)

// Subscription plans are platform data, not tenant scoped. Plan ids arrive as
// path parameters; every query binds them as parameters.

// ListPlans returns all subscription plans.
func (mm *metadataManager) ListPlans(ctx context.Context) ([]*models.Plan, apperrors.Error) {
	query := `SELECT id, plan_name, max_applications FROM subscription_plans ORDER BY id;`
	rows, err := mm.conn().QueryContext(ctx, query)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("failed to list plans")
		return nil, dberror.ErrDatabase.Err(err)
	}
	defer rows.Close()

	var plans []*models.Plan
	for rows.Next() {
		p := &models.Plan{}
		err = rows.Scan(&p.ID, &p.PlanName, &p.MaxApplications)
		if err != nil {
			log.Ctx(ctx).Error().Err(err).Msg("failed to scan plan")
			return nil, dberror.ErrDatabase.Err(err)
		}
		plans = append(plans, p)
	}
	if err = rows.Err(); err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("failed to iterate plans")
		return nil, dberror.ErrDatabase.Err(err)
	}
	return plans, nil
}

// GetPlan retrieves a subscription plan by its id.
func (mm *metadataManager) GetPlan(ctx context.Context, planID int64) (*models.Plan, apperrors.Error) {
	query := `SELECT id, plan_name, max_applications FROM subscription_plans WHERE id = $1;`
	p := &models.Plan{}
	err := mm.conn().QueryRowContext(ctx, query, planID).Scan(&p.ID, &p.PlanName, &p.MaxApplications)
	if err != nil {
		if err == sql.ErrNoRows {
			log.Ctx(ctx).Info().Int64("plan_id", planID).Msg("plan not found")
			return nil, dberror.ErrNotFound.Msg("plan not found")
		}
		log.Ctx(ctx).Error().Err(err).Int64("plan_id", planID).Msg("failed to retrieve plan")
		return nil, dberror.ErrDatabase.Err(err)
	}
	return p, nil
}

// CreatePlan inserts a new subscription plan and writes the generated id back.
func (mm *metadataManager) CreatePlan(ctx context.Context, plan *models.Plan) apperrors.Error {
	query := `
		INSERT INTO subscription_plans (plan_name, max_applications)
		VALUES ($1, $2)
		RETURNING id;
	`
	err := mm.conn().QueryRowContext(ctx, query, plan.PlanName, plan.MaxApplications).Scan(&plan.ID)
	if err != nil {
		if pgErr, ok := err.(*pgconn.PgError); ok && pgErr.Code == "23505" {
			log.Ctx(ctx).Info().Str("plan_name", plan.PlanName).Msg("plan already exists")
			return dberror.ErrAlreadyExists.Msg("plan already exists")
		}
		log.Ctx(ctx).Error().Err(err).Str("plan_name", plan.PlanName).Msg("failed to insert plan")
		return dberror.ErrDatabase.Err(err)
	}
	return nil
}

// UpdatePlan replaces the name and quota of an existing plan.
func (mm *metadataManager) UpdatePlan(ctx context.Context, plan *models.Plan) apperrors.Error {
	query := `
		UPDATE subscription_plans
		SET plan_name = $1, max_applications = $2
		WHERE id = $3
		RETURNING id;
	`
	var id int64
	err := mm.conn().QueryRowContext(ctx, query, plan.PlanName, plan.MaxApplications, plan.ID).Scan(&id)
	if err != nil {
		if err == sql.ErrNoRows {
			log.Ctx(ctx).Info().Int64("plan_id", plan.ID).Msg("plan not found")
			return dberror.ErrNotFound.Msg("plan not found")
		}
		if pgErr, ok := err.(*pgconn.PgError); ok && pgErr.Code == "23505" {
			log.Ctx(ctx).Info().Str("plan_name", plan.PlanName).Msg("plan name already exists")
			return dberror.ErrAlreadyExists.Msg("plan name already exists")
		}
		log.Ctx(ctx).Error().Err(err).Int64("plan_id", plan.ID).Msg("failed to update plan")
		return dberror.ErrDatabase.Err(err)
	}
	return nil
}

// DeletePlan removes a subscription plan and its container spec restrictions.
func (mm *metadataManager) DeletePlan(ctx context.Context, planID int64) (err apperrors.Error) {
	tx, errdb := mm.conn().BeginTx(ctx, &sql.TxOptions{})
	if errdb != nil {
		log.Ctx(ctx).Error().Err(errdb).Msg("failed to start transaction")
		return dberror.ErrDatabase.Err(errdb)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	if _, errdb = tx.ExecContext(ctx,
		`DELETE FROM restricted_plan_container_specs WHERE plan_id = $1;`, planID); errdb != nil {
		log.Ctx(ctx).Error().Err(errdb).Int64("plan_id", planID).Msg("failed to delete plan restrictions")
		return dberror.ErrDatabase.Err(errdb)
	}

	result, errdb := tx.ExecContext(ctx, `DELETE FROM subscription_plans WHERE id = $1;`, planID)
	if errdb != nil {
		log.Ctx(ctx).Error().Err(errdb).Int64("plan_id", planID).Msg("failed to delete plan")
		return dberror.ErrDatabase.Err(errdb)
	}
	rowsAffected, errdb := result.RowsAffected()
	if errdb != nil {
		log.Ctx(ctx).Error().Err(errdb).Msg("failed to retrieve result information")
		return dberror.ErrDatabase.Err(errdb)
	}
	if rowsAffected == 0 {
		err = dberror.ErrNotFound.Msg("plan not found")
		return err
	}

	errdb = tx.Commit()
	if errdb != nil {
		log.Ctx(ctx).Error().Err(errdb).Msg("failed to commit transaction")
		return dberror.ErrDatabase.Err(errdb)
	}
	return nil
}

// ListAllowedContainerSpecsForPlan returns the container specifications the
// plan may use. A spec is allowed unless it appears in the exclusion list for
// the plan.
func (mm *metadataManager) ListAllowedContainerSpecsForPlan(ctx context.Context, planID int64) ([]*models.ContainerSpec, apperrors.Error) {
	query := `
		SELECT c.id, c.name, c.cpu, c.memory, c.cost_per_hour
		FROM container_specs c
		WHERE c.id NOT IN (
		    SELECT container_spec_id FROM restricted_plan_container_specs WHERE plan_id = $1)
		ORDER BY c.id;
	`
	rows, err := mm.conn().QueryContext(ctx, query, planID)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Int64("plan_id", planID).Msg("failed to list allowed container specs")
		return nil, dberror.ErrDatabase.Err(err)
	}
	defer rows.Close()

	return scanContainerSpecs(ctx, rows)
}
