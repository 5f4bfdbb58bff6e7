package postgresql

import (
	"context"
	"database/sql"

	"github.com/appcloud/appcloud-internal/internal/appsrv/db/dberror"
	"github.com/appcloud/appcloud-internal/internal/appsrv/db/models"
	"github.com/appcloud/appcloud-internal/internal/common/apperrors"
	"github.com/appcloud/appcloud-internal/pkg/types"
	"github.com/jackc/pgconn"
	"github.com/rs/zerolog/log"
)

// CreateVersion inserts a version under an existing application, resolved by
// its hash ID.
func (mm *metadataManager) CreateVersion(ctx context.Context, appHashID string, version *models.Version) (err apperrors.Error) {
	tenantID, err := tenantIdFromContext(ctx)
	if err != nil {
		return err
	}
	version.TenantID = tenantID

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

	query := `SELECT id FROM applications WHERE hash_id = $1 AND tenant_id = $2;`
	errdb = tx.QueryRowContext(ctx, query, appHashID, tenantID).Scan(&version.ApplicationID)
	if errdb != nil {
		if errdb == sql.ErrNoRows {
			log.Ctx(ctx).Info().Str("hash_id", appHashID).Msg("application not found")
			return dberror.ErrNotFound.Msg("application not found")
		}
		log.Ctx(ctx).Error().Err(errdb).Str("hash_id", appHashID).Msg("failed to resolve application")
		return dberror.ErrDatabase.Err(errdb)
	}

	if err = mm.createVersionWithTransaction(ctx, version, tx); err != nil {
		return err
	}

	errdb = tx.Commit()
	if errdb != nil {
		log.Ctx(ctx).Error().Err(errdb).Msg("failed to commit transaction")
		return dberror.ErrDatabase.Err(errdb)
	}
	return nil
}

func (mm *metadataManager) createVersionWithTransaction(ctx context.Context, version *models.Version, tx *sql.Tx) apperrors.Error {
	if version.Status == "" {
		version.Status = types.VersionStatusCreated.String()
	}
	query := `
		INSERT INTO versions (name, hash_id, application_id, runtime_id, tenant_id, status, is_white_listed, param_configuration, task_configuration)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at;
	`
	err := tx.QueryRowContext(ctx, query,
		version.Name, version.HashID, version.ApplicationID, version.RuntimeID, version.TenantID,
		version.Status, version.IsWhiteListed, version.ParamConfiguration, version.TaskConfiguration).
		Scan(&version.ID, &version.CreatedAt)
	if err != nil {
		if pgErr, ok := err.(*pgconn.PgError); ok {
			if pgErr.Code == "23505" {
				log.Ctx(ctx).Info().Str("name", version.Name).Str("hash_id", version.HashID).Msg("version already exists")
				return dberror.ErrAlreadyExists.Msg("version already exists")
			}
			if pgErr.Code == "23503" && pgErr.ConstraintName == "versions_runtime_id_fkey" {
				log.Ctx(ctx).Error().Int64("runtime_id", version.RuntimeID).Msg("runtime not found")
				return dberror.ErrInvalidRuntime
			}
		}
		log.Ctx(ctx).Error().Err(err).Str("name", version.Name).Msg("failed to insert version")
		return dberror.ErrDatabase.Err(err)
	}
	return nil
}

// GetVersion retrieves a version by its hash ID with the runtime name joined in.
func (mm *metadataManager) GetVersion(ctx context.Context, hashID string) (*models.Version, apperrors.Error) {
	tenantID, err := tenantIdFromContext(ctx)
	if err != nil {
		return nil, err
	}

	query := `
		SELECT v.id, v.name, v.hash_id, v.application_id, v.runtime_id, v.tenant_id, v.status,
		       v.is_white_listed, v.deployment_id, COALESCE(v.param_configuration, ''),
		       COALESCE(v.task_configuration, ''), v.created_at, r.name
		FROM versions v
		JOIN runtimes r ON r.id = v.runtime_id
		WHERE v.hash_id = $1 AND v.tenant_id = $2;
	`
	version := &models.Version{}
	errdb := mm.conn().QueryRowContext(ctx, query, hashID, tenantID).Scan(
		&version.ID, &version.Name, &version.HashID, &version.ApplicationID, &version.RuntimeID,
		&version.TenantID, &version.Status, &version.IsWhiteListed, &version.DeploymentID,
		&version.ParamConfiguration, &version.TaskConfiguration, &version.CreatedAt, &version.RuntimeName)
	if errdb != nil {
		if errdb == sql.ErrNoRows {
			log.Ctx(ctx).Info().Str("hash_id", hashID).Msg("version not found")
			return nil, dberror.ErrNotFound.Msg("version not found")
		}
		log.Ctx(ctx).Error().Err(errdb).Str("hash_id", hashID).Msg("failed to retrieve version")
		return nil, dberror.ErrDatabase.Err(errdb)
	}
	return version, nil
}

// ListVersions returns all versions of the application identified by its hash
// ID, runtime names joined in.
func (mm *metadataManager) ListVersions(ctx context.Context, appHashID string) ([]*models.Version, apperrors.Error) {
	tenantID, err := tenantIdFromContext(ctx)
	if err != nil {
		return nil, err
	}

	query := `
		SELECT v.id, v.name, v.hash_id, v.application_id, v.runtime_id, v.tenant_id, v.status,
		       v.is_white_listed, v.deployment_id, v.created_at, r.name
		FROM versions v
		JOIN runtimes r ON r.id = v.runtime_id
		JOIN applications a ON a.id = v.application_id
		WHERE a.hash_id = $1 AND v.tenant_id = $2
		ORDER BY v.id;
	`
	rows, errdb := mm.conn().QueryContext(ctx, query, appHashID, tenantID)
	if errdb != nil {
		log.Ctx(ctx).Error().Err(errdb).Str("hash_id", appHashID).Msg("failed to list versions")
		return nil, dberror.ErrDatabase.Err(errdb)
	}
	defer rows.Close()

	var versions []*models.Version
	for rows.Next() {
		v := &models.Version{}
		errdb = rows.Scan(&v.ID, &v.Name, &v.HashID, &v.ApplicationID, &v.RuntimeID, &v.TenantID,
			&v.Status, &v.IsWhiteListed, &v.DeploymentID, &v.CreatedAt, &v.RuntimeName)
		if errdb != nil {
			log.Ctx(ctx).Error().Err(errdb).Msg("failed to scan version")
			return nil, dberror.ErrDatabase.Err(errdb)
		}
		versions = append(versions, v)
	}
	if errdb = rows.Err(); errdb != nil {
		log.Ctx(ctx).Error().Err(errdb).Msg("failed to iterate versions")
		return nil, dberror.ErrDatabase.Err(errdb)
	}
	return versions, nil
}

// UpdateVersionStatus sets the lifecycle status of a version. The caller
// validates the status value; any row not found is reported explicitly.
func (mm *metadataManager) UpdateVersionStatus(ctx context.Context, hashID string, status string) apperrors.Error {
	return mm.updateVersionColumn(ctx, hashID, "status", status)
}

// UpdateVersionParamConfiguration replaces the opaque parameter configuration
// blob of the version.
func (mm *metadataManager) UpdateVersionParamConfiguration(ctx context.Context, hashID string, paramConfiguration string) apperrors.Error {
	return mm.updateVersionColumn(ctx, hashID, "param_configuration", paramConfiguration)
}

// UpdateVersionTaskConfiguration replaces the opaque task configuration blob
// of the version.
func (mm *metadataManager) UpdateVersionTaskConfiguration(ctx context.Context, hashID string, taskConfiguration string) apperrors.Error {
	return mm.updateVersionColumn(ctx, hashID, "task_configuration", taskConfiguration)
}

// updateVersionColumn updates a single column of a version row. The column
// name comes from the callers above, never from input.
func (mm *metadataManager) updateVersionColumn(ctx context.Context, hashID, column, value string) apperrors.Error {
	tenantID, err := tenantIdFromContext(ctx)
	if err != nil {
		return err
	}

	query := `
		UPDATE versions
		SET ` + column + ` = $1
		WHERE hash_id = $2 AND tenant_id = $3
		RETURNING id;
	`
	var id int64
	errdb := mm.conn().QueryRowContext(ctx, query, value, hashID, tenantID).Scan(&id)
	if errdb != nil {
		if errdb == sql.ErrNoRows {
			log.Ctx(ctx).Info().Str("hash_id", hashID).Msg("version not found")
			return dberror.ErrNotFound.Msg("version not found")
		}
		log.Ctx(ctx).Error().Err(errdb).Str("hash_id", hashID).Msg("failed to update version")
		return dberror.ErrDatabase.Err(errdb)
	}
	return nil
}

// WhitelistVersion exempts or un-exempts a version from idle-running expiry.
func (mm *metadataManager) WhitelistVersion(ctx context.Context, hashID string, whitelisted bool) apperrors.Error {
	tenantID, err := tenantIdFromContext(ctx)
	if err != nil {
		return err
	}

	query := `
		UPDATE versions
		SET is_white_listed = $1
		WHERE hash_id = $2 AND tenant_id = $3
		RETURNING id;
	`
	var id int64
	errdb := mm.conn().QueryRowContext(ctx, query, whitelisted, hashID, tenantID).Scan(&id)
	if errdb != nil {
		if errdb == sql.ErrNoRows {
			log.Ctx(ctx).Info().Str("hash_id", hashID).Msg("version not found")
			return dberror.ErrNotFound.Msg("version not found")
		}
		log.Ctx(ctx).Error().Err(errdb).Str("hash_id", hashID).Msg("failed to whitelist version")
		return dberror.ErrDatabase.Err(errdb)
	}
	return nil
}

// CreateDeployment records a deployment for the version and links it through
// versions.deployment_id, in one transaction.
func (mm *metadataManager) CreateDeployment(ctx context.Context, versionHashID string) (deploymentID int64, err apperrors.Error) {
	tenantID, err := tenantIdFromContext(ctx)
	if err != nil {
		return 0, err
	}

	tx, errdb := mm.conn().BeginTx(ctx, &sql.TxOptions{})
	if errdb != nil {
		log.Ctx(ctx).Error().Err(errdb).Msg("failed to start transaction")
		return 0, dberror.ErrDatabase.Err(errdb)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	query := `
		INSERT INTO deployments (version_id)
		SELECT id FROM versions WHERE hash_id = $1 AND tenant_id = $2
		RETURNING id;
	`
	errdb = tx.QueryRowContext(ctx, query, versionHashID, tenantID).Scan(&deploymentID)
	if errdb != nil {
		if errdb == sql.ErrNoRows {
			log.Ctx(ctx).Info().Str("hash_id", versionHashID).Msg("version not found")
			return 0, dberror.ErrNotFound.Msg("version not found")
		}
		log.Ctx(ctx).Error().Err(errdb).Str("hash_id", versionHashID).Msg("failed to insert deployment")
		return 0, dberror.ErrDatabase.Err(errdb)
	}

	updateQuery := `
		UPDATE versions SET deployment_id = $1 WHERE hash_id = $2 AND tenant_id = $3;
	`
	if _, errdb = tx.ExecContext(ctx, updateQuery, deploymentID, versionHashID, tenantID); errdb != nil {
		log.Ctx(ctx).Error().Err(errdb).Str("hash_id", versionHashID).Msg("failed to link deployment")
		return 0, dberror.ErrDatabase.Err(errdb)
	}

	errdb = tx.Commit()
	if errdb != nil {
		log.Ctx(ctx).Error().Err(errdb).Msg("failed to commit transaction")
		return 0, dberror.ErrDatabase.Err(errdb)
	}
	return deploymentID, nil
}

// DeleteDeployment removes the deployment of a version and clears the link.
// Deleting a deployment that does not exist is not an error.
func (mm *metadataManager) DeleteDeployment(ctx context.Context, versionHashID string) (err apperrors.Error) {
	tenantID, err := tenantIdFromContext(ctx)
	if err != nil {
		return err
	}

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

	clearQuery := `
		UPDATE versions SET deployment_id = NULL WHERE hash_id = $1 AND tenant_id = $2;
	`
	if _, errdb = tx.ExecContext(ctx, clearQuery, versionHashID, tenantID); errdb != nil {
		log.Ctx(ctx).Error().Err(errdb).Str("hash_id", versionHashID).Msg("failed to unlink deployment")
		return dberror.ErrDatabase.Err(errdb)
	}

	deleteQuery := `
		DELETE FROM deployments
		WHERE version_id IN (SELECT id FROM versions WHERE hash_id = $1 AND tenant_id = $2);
	`
	if _, errdb = tx.ExecContext(ctx, deleteQuery, versionHashID, tenantID); errdb != nil {
		log.Ctx(ctx).Error().Err(errdb).Str("hash_id", versionHashID).Msg("failed to delete deployment")
		return dberror.ErrDatabase.Err(errdb)
	}

	errdb = tx.Commit()
	if errdb != nil {
		log.Ctx(ctx).Error().Err(errdb).Msg("failed to commit transaction")
		return dberror.ErrDatabase.Err(errdb)
	}
	return nil
}

// DeleteVersion removes a version together with its deployment and events, in
// one transaction, children before the version row.
func (mm *metadataManager) DeleteVersion(ctx context.Context, hashID string) (err apperrors.Error) {
	tenantID, err := tenantIdFromContext(ctx)
	if err != nil {
		return err
	}

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
		`UPDATE versions SET deployment_id = NULL WHERE hash_id = $1 AND tenant_id = $2;`,
		`DELETE FROM deployments
		 WHERE version_id IN (SELECT id FROM versions WHERE hash_id = $1 AND tenant_id = $2);`,
		`DELETE FROM events
		 WHERE version_id IN (SELECT id FROM versions WHERE hash_id = $1 AND tenant_id = $2);`,
	}
	for _, step := range steps {
		if _, errdb = tx.ExecContext(ctx, step, hashID, tenantID); errdb != nil {
			log.Ctx(ctx).Error().Err(errdb).Str("hash_id", hashID).Msg("failed to delete version children")
			return dberror.ErrDatabase.Err(errdb)
		}
	}

	result, errdb := tx.ExecContext(ctx,
		`DELETE FROM versions WHERE hash_id = $1 AND tenant_id = $2;`, hashID, tenantID)
	if errdb != nil {
		log.Ctx(ctx).Error().Err(errdb).Str("hash_id", hashID).Msg("failed to delete version")
		return dberror.ErrDatabase.Err(errdb)
	}
	rowsAffected, errdb := result.RowsAffected()
	if errdb != nil {
		log.Ctx(ctx).Error().Err(errdb).Msg("failed to retrieve result information")
		return dberror.ErrDatabase.Err(errdb)
	}
	if rowsAffected == 0 {
		err = dberror.ErrNotFound.Msg("version not found")
		return err
	}

	errdb = tx.Commit()
	if errdb != nil {
		log.Ctx(ctx).Error().Err(errdb).Msg("failed to commit transaction")
		return dberror.ErrDatabase.Err(errdb)
	}
	return nil
}

// ListVersionsRunningLongerThan returns non-whitelisted versions that have
// been in the running state since before now() - the given number of hours.
// This feeds the idle-version sweep; it is not tenant scoped.
func (mm *metadataManager) ListVersionsRunningLongerThan(ctx context.Context, hours int) ([]*models.Version, apperrors.Error) {
	query := `
		SELECT v.id, v.name, v.hash_id, v.application_id, v.runtime_id, v.tenant_id, v.status,
		       v.is_white_listed, v.deployment_id, v.created_at
		FROM versions v
		WHERE v.is_white_listed = false
		  AND v.status = $1
		  AND v.created_at < now() - make_interval(hours => $2);
	`
	rows, errdb := mm.conn().QueryContext(ctx, query, types.VersionStatusRunning.String(), hours)
	if errdb != nil {
		log.Ctx(ctx).Error().Err(errdb).Msg("failed to list long-running versions")
		return nil, dberror.ErrDatabase.Err(errdb)
	}
	defer rows.Close()

	var versions []*models.Version
	for rows.Next() {
		v := &models.Version{}
		errdb = rows.Scan(&v.ID, &v.Name, &v.HashID, &v.ApplicationID, &v.RuntimeID, &v.TenantID,
			&v.Status, &v.IsWhiteListed, &v.DeploymentID, &v.CreatedAt)
		if errdb != nil {
			log.Ctx(ctx).Error().Err(errdb).Msg("failed to scan version")
			return nil, dberror.ErrDatabase.Err(errdb)
		}
		versions = append(versions, v)
	}
	if errdb = rows.Err(); errdb != nil {
		log.Ctx(ctx).Error().Err(errdb).Msg("failed to iterate versions")
		return nil, dberror.ErrDatabase.Err(errdb)
	}
	return versions, nil
}
