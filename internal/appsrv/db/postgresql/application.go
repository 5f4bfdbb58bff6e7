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

// CreateApplication inserts the application row, its nested versions and the
// icon in a single transaction. The icon is always written, nil payload
// included, so a replaced application never keeps a stale icon. The caller
// supplies precomputed hash IDs; the generated numeric id is written back
// into app.
func (mm *metadataManager) CreateApplication(ctx context.Context, app *models.Application, icon []byte) (err apperrors.Error) {
	tenantID, err := tenantIdFromContext(ctx)
	if err != nil {
		return err
	}
	app.TenantID = tenantID

	tx, errdb := mm.conn().BeginTx(ctx, &sql.TxOptions{})
	if errdb != nil {
		log.Ctx(ctx).Error().Err(errdb).Msg("failed to start transaction")
		return dberror.ErrDatabase.Err(errdb)
	}
	defer func() {
		// Ensure transaction is rolled back if not committed
		if err != nil {
			tx.Rollback()
		}
	}()

	query := `
		INSERT INTO applications (name, hash_id, description, tenant_id, default_version, source_bundle_name, app_type, param_configuration, task_configuration)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id;
	`
	errdb = tx.QueryRowContext(ctx, query,
		app.Name, app.HashID, app.Description, tenantID, app.DefaultVersion,
		app.SourceBundleName, app.AppType, app.ParamConfiguration, app.TaskConfiguration).Scan(&app.ID)
	if errdb != nil {
		if pgErr, ok := errdb.(*pgconn.PgError); ok {
			if pgErr.Code == "23505" {
				log.Ctx(ctx).Info().Str("name", app.Name).Str("hash_id", app.HashID).Msg("application already exists")
				return dberror.ErrAlreadyExists.Msg("application already exists")
			}
			if pgErr.Code == "23503" && pgErr.ConstraintName == "applications_app_type_fkey" {
				log.Ctx(ctx).Error().Str("app_type", app.AppType).Msg("unknown application type")
				return dberror.ErrInvalidInput.Msg("unknown application type")
			}
		}
		log.Ctx(ctx).Error().Err(errdb).Str("name", app.Name).Msg("failed to insert application")
		return dberror.ErrDatabase.Err(errdb)
	}

	for i := range app.Versions {
		app.Versions[i].ApplicationID = app.ID
		app.Versions[i].TenantID = tenantID
		if err = mm.createVersionWithTransaction(ctx, &app.Versions[i], tx); err != nil {
			log.Ctx(ctx).Error().Err(err).Str("name", app.Name).Str("version", app.Versions[i].Name).Msg("failed to insert application version")
			return err
		}
		if err = mm.recordCreationEventWithTransaction(ctx, app.Versions[i].ID, tenantID, tx); err != nil {
			return err
		}
	}

	if err = mm.upsertIconWithTransaction(ctx, app.ID, icon, tx); err != nil {
		return err
	}

	errdb = tx.Commit()
	if errdb != nil {
		log.Ctx(ctx).Error().Err(errdb).Msg("failed to commit transaction")
		return dberror.ErrDatabase.Err(errdb)
	}

	return nil
}

func (mm *metadataManager) upsertIconWithTransaction(ctx context.Context, applicationID int64, icon []byte, tx *sql.Tx) apperrors.Error {
	query := `
		INSERT INTO app_icons (application_id, icon)
		VALUES ($1, $2)
		ON CONFLICT (application_id) DO UPDATE SET icon = EXCLUDED.icon;
	`
	_, err := tx.ExecContext(ctx, query, applicationID, icon)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Int64("application_id", applicationID).Msg("failed to upsert application icon")
		return dberror.ErrDatabase.Err(err)
	}
	return nil
}

// recordCreationEventWithTransaction seeds the event log of a freshly created
// version, so every version carries its creation event from the same
// transaction that created it.
func (mm *metadataManager) recordCreationEventWithTransaction(ctx context.Context, versionID int64, tenantID types.TenantId, tx *sql.Tx) apperrors.Error {
	query := `
		INSERT INTO events (name, status, version_id, tenant_id, description)
		VALUES ($1, $2, $3, $4, $5);
	`
	_, err := tx.ExecContext(ctx, query, "application_creation", "completed", versionID, tenantID, "application created")
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Int64("version_id", versionID).Msg("failed to record creation event")
		return dberror.ErrDatabase.Err(err)
	}
	return nil
}

// UpsertApplicationIcon replaces the icon of an existing application. A nil
// payload clears it.
func (mm *metadataManager) UpsertApplicationIcon(ctx context.Context, hashID string, icon []byte) apperrors.Error {
	tenantID, err := tenantIdFromContext(ctx)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO app_icons (application_id, icon)
		SELECT id, $1 FROM applications WHERE hash_id = $2 AND tenant_id = $3
		ON CONFLICT (application_id) DO UPDATE SET icon = EXCLUDED.icon;
	`
	result, errdb := mm.conn().ExecContext(ctx, query, icon, hashID, tenantID)
	if errdb != nil {
		log.Ctx(ctx).Error().Err(errdb).Str("hash_id", hashID).Msg("failed to upsert application icon")
		return dberror.ErrDatabase.Err(errdb)
	}
	rowsAffected, errdb := result.RowsAffected()
	if errdb != nil {
		log.Ctx(ctx).Error().Err(errdb).Msg("failed to retrieve result information")
		return dberror.ErrDatabase.Err(errdb)
	}
	if rowsAffected == 0 {
		return dberror.ErrNotFound.Msg("application not found")
	}
	return nil
}

// GetApplication retrieves an application by its hash ID along with its type,
// icon and versions. The versions are loaded in a follow-up query on the same
// connection.
func (mm *metadataManager) GetApplication(ctx context.Context, hashID string) (*models.Application, apperrors.Error) {
	tenantID, err := tenantIdFromContext(ctx)
	if err != nil {
		return nil, err
	}

	query := `
		SELECT a.id, a.name, a.hash_id, a.description, a.tenant_id, COALESCE(a.default_version, ''),
		       COALESCE(a.source_bundle_name, ''), a.app_type, COALESCE(a.param_configuration, ''),
		       COALESCE(a.task_configuration, ''), a.created_at, t.buildable, i.icon
		FROM applications a
		JOIN app_types t ON t.name = a.app_type
		LEFT JOIN app_icons i ON i.application_id = a.id
		WHERE a.hash_id = $1 AND a.tenant_id = $2;
	`
	app := &models.Application{}
	errdb := mm.conn().QueryRowContext(ctx, query, hashID, tenantID).Scan(
		&app.ID, &app.Name, &app.HashID, &app.Description, &app.TenantID, &app.DefaultVersion,
		&app.SourceBundleName, &app.AppType, &app.ParamConfiguration, &app.TaskConfiguration,
		&app.CreatedAt, &app.Buildable, &app.Icon)
	if errdb != nil {
		if errdb == sql.ErrNoRows {
			log.Ctx(ctx).Info().Str("hash_id", hashID).Msg("application not found")
			return nil, dberror.ErrNotFound.Msg("application not found")
		}
		log.Ctx(ctx).Error().Err(errdb).Str("hash_id", hashID).Msg("failed to retrieve application")
		return nil, dberror.ErrDatabase.Err(errdb)
	}

	versions, err := mm.ListVersions(ctx, hashID)
	if err != nil {
		return nil, err
	}
	for _, v := range versions {
		app.Versions = append(app.Versions, *v)
	}

	return app, nil
}

// ListApplications returns all applications of the tenant with their type and
// icon joined in. Versions are not populated.
func (mm *metadataManager) ListApplications(ctx context.Context) ([]*models.Application, apperrors.Error) {
	tenantID, err := tenantIdFromContext(ctx)
	if err != nil {
		return nil, err
	}

	query := `
		SELECT a.id, a.name, a.hash_id, a.description, a.tenant_id, COALESCE(a.default_version, ''),
		       COALESCE(a.source_bundle_name, ''), a.app_type, a.created_at, t.buildable, i.icon
		FROM applications a
		JOIN app_types t ON t.name = a.app_type
		LEFT JOIN app_icons i ON i.application_id = a.id
		WHERE a.tenant_id = $1
		ORDER BY a.name;
	`
	rows, errdb := mm.conn().QueryContext(ctx, query, tenantID)
	if errdb != nil {
		log.Ctx(ctx).Error().Err(errdb).Msg("failed to list applications")
		return nil, dberror.ErrDatabase.Err(errdb)
	}
	defer rows.Close()

	var apps []*models.Application
	for rows.Next() {
		app := &models.Application{}
		errdb = rows.Scan(&app.ID, &app.Name, &app.HashID, &app.Description, &app.TenantID,
			&app.DefaultVersion, &app.SourceBundleName, &app.AppType, &app.CreatedAt,
			&app.Buildable, &app.Icon)
		if errdb != nil {
			log.Ctx(ctx).Error().Err(errdb).Msg("failed to scan application")
			return nil, dberror.ErrDatabase.Err(errdb)
		}
		apps = append(apps, app)
	}
	if errdb = rows.Err(); errdb != nil {
		log.Ctx(ctx).Error().Err(errdb).Msg("failed to iterate applications")
		return nil, dberror.ErrDatabase.Err(errdb)
	}

	return apps, nil
}

// UpdateDefaultVersion sets the default version name of the application.
func (mm *metadataManager) UpdateDefaultVersion(ctx context.Context, hashID string, versionName string) apperrors.Error {
	tenantID, err := tenantIdFromContext(ctx)
	if err != nil {
		return err
	}

	query := `
		UPDATE applications
		SET default_version = $1
		WHERE hash_id = $2 AND tenant_id = $3
		RETURNING id;
	`
	var id int64
	errdb := mm.conn().QueryRowContext(ctx, query, versionName, hashID, tenantID).Scan(&id)
	if errdb != nil {
		if errdb == sql.ErrNoRows {
			log.Ctx(ctx).Info().Str("hash_id", hashID).Msg("application not found")
			return dberror.ErrNotFound.Msg("application not found")
		}
		log.Ctx(ctx).Error().Err(errdb).Str("hash_id", hashID).Msg("failed to update default version")
		return dberror.ErrDatabase.Err(errdb)
	}
	return nil
}

// UpdateApplicationParamConfiguration replaces the opaque parameter
// configuration blob of the application.
func (mm *metadataManager) UpdateApplicationParamConfiguration(ctx context.Context, hashID string, paramConfiguration string) apperrors.Error {
	return mm.updateApplicationColumn(ctx, hashID, "param_configuration", paramConfiguration)
}

// UpdateApplicationTaskConfiguration replaces the opaque task configuration
// blob of the application.
func (mm *metadataManager) UpdateApplicationTaskConfiguration(ctx context.Context, hashID string, taskConfiguration string) apperrors.Error {
	return mm.updateApplicationColumn(ctx, hashID, "task_configuration", taskConfiguration)
}

// updateApplicationColumn updates one of the configuration columns. The
// column name comes from the two callers above, never from input.
func (mm *metadataManager) updateApplicationColumn(ctx context.Context, hashID, column, value string) apperrors.Error {
	tenantID, err := tenantIdFromContext(ctx)
	if err != nil {
		return err
	}

	query := `
		UPDATE applications
		SET ` + column + ` = $1
		WHERE hash_id = $2 AND tenant_id = $3
		RETURNING id;
	`
	var id int64
	errdb := mm.conn().QueryRowContext(ctx, query, value, hashID, tenantID).Scan(&id)
	if errdb != nil {
		if errdb == sql.ErrNoRows {
			log.Ctx(ctx).Info().Str("hash_id", hashID).Msg("application not found")
			return dberror.ErrNotFound.Msg("application not found")
		}
		log.Ctx(ctx).Error().Err(errdb).Str("hash_id", hashID).Msg("failed to update application")
		return dberror.ErrDatabase.Err(errdb)
	}
	return nil
}

// CountApplications returns the number of applications owned by the tenant.
func (mm *metadataManager) CountApplications(ctx context.Context) (int, apperrors.Error) {
	tenantID, err := tenantIdFromContext(ctx)
	if err != nil {
		return 0, err
	}

	query := `SELECT COUNT(*) FROM applications WHERE tenant_id = $1;`
	var count int
	errdb := mm.conn().QueryRowContext(ctx, query, tenantID).Scan(&count)
	if errdb != nil {
		log.Ctx(ctx).Error().Err(errdb).Msg("failed to count applications")
		return 0, dberror.ErrDatabase.Err(errdb)
	}
	return count, nil
}

// DeleteApplication removes the application and everything under it in one
// transaction: deployments first, then events, versions, icon, and finally
// the application row. The schema does not cascade; ordering is enforced
// here, children before parents.
func (mm *metadataManager) DeleteApplication(ctx context.Context, hashID string) (err apperrors.Error) {
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
		`DELETE FROM deployments
		 WHERE version_id IN (
		     SELECT v.id FROM versions v
		     JOIN applications a ON a.id = v.application_id
		     WHERE a.hash_id = $1 AND a.tenant_id = $2);`,
		`DELETE FROM events
		 WHERE version_id IN (
		     SELECT v.id FROM versions v
		     JOIN applications a ON a.id = v.application_id
		     WHERE a.hash_id = $1 AND a.tenant_id = $2);`,
		`DELETE FROM versions
		 WHERE application_id IN (
		     SELECT id FROM applications WHERE hash_id = $1 AND tenant_id = $2);`,
		`DELETE FROM app_icons
		 WHERE application_id IN (
		     SELECT id FROM applications WHERE hash_id = $1 AND tenant_id = $2);`,
	}
	for _, step := range steps {
		if _, errdb = tx.ExecContext(ctx, step, hashID, tenantID); errdb != nil {
			log.Ctx(ctx).Error().Err(errdb).Str("hash_id", hashID).Msg("failed to delete application children")
			return dberror.ErrDatabase.Err(errdb)
		}
	}

	result, errdb := tx.ExecContext(ctx,
		`DELETE FROM applications WHERE hash_id = $1 AND tenant_id = $2;`, hashID, tenantID)
	if errdb != nil {
		log.Ctx(ctx).Error().Err(errdb).Str("hash_id", hashID).Msg("failed to delete application")
		return dberror.ErrDatabase.Err(errdb)
	}
	rowsAffected, errdb := result.RowsAffected()
	if errdb != nil {
		log.Ctx(ctx).Error().Err(errdb).Msg("failed to retrieve result information")
		return dberror.ErrDatabase.Err(errdb)
	}
	if rowsAffected == 0 {
		err = dberror.ErrNotFound.Msg("application not found")
		return err
	}

	errdb = tx.Commit()
	if errdb != nil {
		log.Ctx(ctx).Error().Err(errdb).Msg("failed to commit transaction")
		return dberror.ErrDatabase.Err(errdb)
	}
	return nil
}
