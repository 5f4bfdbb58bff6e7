package postgresql

import (
	"context"
	"database/sql"

	"github.com/appcloud/appcloud-internal/internal/appsrv/db/dberror"
	"github.com/appcloud/appcloud-internal/internal/appsrv/db/models"
	"github.com/appcloud/appcloud-internal/internal/common/apperrors"
	"github.com/rs/zerolog/log"
)

func scanContainerSpecs(ctx context.Context, rows *sql.Rows) ([]*models.ContainerSpec, apperrors.Error) {
	var specs []*models.ContainerSpec
	for rows.Next() {
		s := &models.ContainerSpec{}
		err := rows.Scan(&s.ID, &s.Name, &s.CPU, &s.Memory, &s.CostPerHour)
		if err != nil {
			log.Ctx(ctx).Error().Err(err).Msg("failed to scan container spec")
			return nil, dberror.ErrDatabase.Err(err)
		}
		specs = append(specs, s)
	}
	if err := rows.Err(); err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("failed to iterate container specs")
		return nil, dberror.ErrDatabase.Err(err)
	}
	return specs, nil
}

// ListContainerSpecs returns all container specifications.
func (mm *metadataManager) ListContainerSpecs(ctx context.Context) ([]*models.ContainerSpec, apperrors.Error) {
	query := `SELECT id, name, cpu, memory, cost_per_hour FROM container_specs ORDER BY id;`
	rows, err := mm.conn().QueryContext(ctx, query)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("failed to list container specs")
		return nil, dberror.ErrDatabase.Err(err)
	}
	defer rows.Close()

	return scanContainerSpecs(ctx, rows)
}

// GetContainerSpec retrieves a container specification by its id.
func (mm *metadataManager) GetContainerSpec(ctx context.Context, specID int64) (*models.ContainerSpec, apperrors.Error) {
	query := `SELECT id, name, cpu, memory, cost_per_hour FROM container_specs WHERE id = $1;`
	s := &models.ContainerSpec{}
	err := mm.conn().QueryRowContext(ctx, query, specID).Scan(&s.ID, &s.Name, &s.CPU, &s.Memory, &s.CostPerHour)
	if err != nil {
		if err == sql.ErrNoRows {
			log.Ctx(ctx).Info().Int64("container_spec_id", specID).Msg("container spec not found")
			return nil, dberror.ErrNotFound.Msg("container spec not found")
		}
		log.Ctx(ctx).Error().Err(err).Int64("container_spec_id", specID).Msg("failed to retrieve container spec")
		return nil, dberror.ErrDatabase.Err(err)
	}
	return s, nil
}

// CreateContainerSpec inserts a new container specification and writes the
// generated id back.
func (mm *metadataManager) CreateContainerSpec(ctx context.Context, spec *models.ContainerSpec) apperrors.Error {
	query := `
		INSERT INTO container_specs (name, cpu, memory, cost_per_hour)
		VALUES ($1, $2, $3, $4)
		RETURNING id;
	`
	err := mm.conn().QueryRowContext(ctx, query, spec.Name, spec.CPU, spec.Memory, spec.CostPerHour).Scan(&spec.ID)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("name", spec.Name).Msg("failed to insert container spec")
		return dberror.ErrDatabase.Err(err)
	}
	return nil
}

// UpdateContainerSpec replaces the attributes of an existing container spec.
func (mm *metadataManager) UpdateContainerSpec(ctx context.Context, spec *models.ContainerSpec) apperrors.Error {
	query := `
		UPDATE container_specs
		SET name = $1, cpu = $2, memory = $3, cost_per_hour = $4
		WHERE id = $5
		RETURNING id;
	`
	var id int64
	err := mm.conn().QueryRowContext(ctx, query, spec.Name, spec.CPU, spec.Memory, spec.CostPerHour, spec.ID).Scan(&id)
	if err != nil {
		if err == sql.ErrNoRows {
			log.Ctx(ctx).Info().Int64("container_spec_id", spec.ID).Msg("container spec not found")
			return dberror.ErrNotFound.Msg("container spec not found")
		}
		log.Ctx(ctx).Error().Err(err).Int64("container_spec_id", spec.ID).Msg("failed to update container spec")
		return dberror.ErrDatabase.Err(err)
	}
	return nil
}

// DeleteContainerSpec removes a container specification together with its
// plan restrictions and runtime associations.
func (mm *metadataManager) DeleteContainerSpec(ctx context.Context, specID int64) (err apperrors.Error) {
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

	steps := []string{
		`DELETE FROM restricted_plan_container_specs WHERE container_spec_id = $1;`,
		`DELETE FROM runtime_container_specs WHERE container_spec_id = $1;`,
	}
	for _, step := range steps {
		if _, errdb = tx.ExecContext(ctx, step, specID); errdb != nil {
			log.Ctx(ctx).Error().Err(errdb).Int64("container_spec_id", specID).Msg("failed to delete container spec associations")
			return dberror.ErrDatabase.Err(errdb)
		}
	}

	result, errdb := tx.ExecContext(ctx, `DELETE FROM container_specs WHERE id = $1;`, specID)
	if errdb != nil {
		log.Ctx(ctx).Error().Err(errdb).Int64("container_spec_id", specID).Msg("failed to delete container spec")
		return dberror.ErrDatabase.Err(errdb)
	}
	rowsAffected, errdb := result.RowsAffected()
	if errdb != nil {
		log.Ctx(ctx).Error().Err(errdb).Msg("failed to retrieve result information")
		return dberror.ErrDatabase.Err(errdb)
	}
	if rowsAffected == 0 {
		err = dberror.ErrNotFound.Msg("container spec not found")
		return err
	}

	errdb = tx.Commit()
	if errdb != nil {
		log.Ctx(ctx).Error().Err(errdb).Msg("failed to commit transaction")
		return dberror.ErrDatabase.Err(errdb)
	}
	return nil
}
