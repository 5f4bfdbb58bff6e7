package postgresql

import (
	"context"
	"database/sql"

	"github.com/appcloud/appcloud-internal/internal/appsrv/db/dberror"
	"github.com/appcloud/appcloud-internal/internal/appsrv/db/models"
	"github.com/appcloud/appcloud-internal/internal/common/apperrors"
	"github.com/rs/zerolog/log"
)

// GetRuntime retrieves a runtime by its numeric id. Runtimes are platform
// data, not tenant scoped.
func (mm *metadataManager) GetRuntime(ctx context.Context, runtimeID int64) (*models.Runtime, apperrors.Error) {
	query := `
		SELECT id, name, image_name, COALESCE(repo_url, ''), COALESCE(tag, ''), COALESCE(description, '')
		FROM runtimes
		WHERE id = $1;
	`
	runtime := &models.Runtime{}
	err := mm.conn().QueryRowContext(ctx, query, runtimeID).Scan(
		&runtime.ID, &runtime.Name, &runtime.ImageName, &runtime.RepoURL, &runtime.Tag, &runtime.Description)
	if err != nil {
		if err == sql.ErrNoRows {
			log.Ctx(ctx).Info().Int64("runtime_id", runtimeID).Msg("runtime not found")
			return nil, dberror.ErrNotFound.Msg("runtime not found")
		}
		log.Ctx(ctx).Error().Err(err).Int64("runtime_id", runtimeID).Msg("failed to retrieve runtime")
		return nil, dberror.ErrDatabase.Err(err)
	}
	return runtime, nil
}

// ListRuntimesForAppType returns the runtimes usable by an application type.
func (mm *metadataManager) ListRuntimesForAppType(ctx context.Context, appType string) ([]*models.Runtime, apperrors.Error) {
	query := `
		SELECT r.id, r.name, r.image_name, COALESCE(r.repo_url, ''), COALESCE(r.tag, ''), COALESCE(r.description, '')
		FROM runtimes r
		JOIN app_type_runtimes atr ON atr.runtime_id = r.id
		WHERE atr.app_type = $1
		ORDER BY r.id;
	`
	rows, err := mm.conn().QueryContext(ctx, query, appType)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("app_type", appType).Msg("failed to list runtimes")
		return nil, dberror.ErrDatabase.Err(err)
	}
	defer rows.Close()

	var runtimes []*models.Runtime
	for rows.Next() {
		r := &models.Runtime{}
		err = rows.Scan(&r.ID, &r.Name, &r.ImageName, &r.RepoURL, &r.Tag, &r.Description)
		if err != nil {
			log.Ctx(ctx).Error().Err(err).Msg("failed to scan runtime")
			return nil, dberror.ErrDatabase.Err(err)
		}
		runtimes = append(runtimes, r)
	}
	if err = rows.Err(); err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("failed to iterate runtimes")
		return nil, dberror.ErrDatabase.Err(err)
	}
	return runtimes, nil
}

// ListTransportsForRuntime returns the transports exposed by a runtime.
func (mm *metadataManager) ListTransportsForRuntime(ctx context.Context, runtimeID int64) ([]*models.Transport, apperrors.Error) {
	query := `
		SELECT t.id, t.service_name, COALESCE(t.service_name_prefix, ''), t.protocol, t.port
		FROM transports t
		JOIN runtime_transports rt ON rt.transport_id = t.id
		WHERE rt.runtime_id = $1
		ORDER BY t.id;
	`
	rows, err := mm.conn().QueryContext(ctx, query, runtimeID)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Int64("runtime_id", runtimeID).Msg("failed to list transports")
		return nil, dberror.ErrDatabase.Err(err)
	}
	defer rows.Close()

	var transports []*models.Transport
	for rows.Next() {
		t := &models.Transport{}
		err = rows.Scan(&t.ID, &t.ServiceName, &t.ServiceNamePrefix, &t.Protocol, &t.Port)
		if err != nil {
			log.Ctx(ctx).Error().Err(err).Msg("failed to scan transport")
			return nil, dberror.ErrDatabase.Err(err)
		}
		transports = append(transports, t)
	}
	if err = rows.Err(); err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("failed to iterate transports")
		return nil, dberror.ErrDatabase.Err(err)
	}
	return transports, nil
}

// ListContainerSpecsForRuntime returns the container specifications a runtime
// may be scheduled on.
func (mm *metadataManager) ListContainerSpecsForRuntime(ctx context.Context, runtimeID int64) ([]*models.ContainerSpec, apperrors.Error) {
	query := `
		SELECT c.id, c.name, c.cpu, c.memory, c.cost_per_hour
		FROM container_specs c
		JOIN runtime_container_specs rc ON rc.container_spec_id = c.id
		WHERE rc.runtime_id = $1
		ORDER BY c.id;
	`
	rows, err := mm.conn().QueryContext(ctx, query, runtimeID)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Int64("runtime_id", runtimeID).Msg("failed to list container specs for runtime")
		return nil, dberror.ErrDatabase.Err(err)
	}
	defer rows.Close()

	return scanContainerSpecs(ctx, rows)
}
