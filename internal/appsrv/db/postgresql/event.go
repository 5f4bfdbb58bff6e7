package postgresql

import (
	"context"
	"database/sql"

	"github.com/appcloud/appcloud-internal/internal/appsrv/db/dberror"
	"github.com/appcloud/appcloud-internal/internal/appsrv/db/models"
	"github.com/appcloud/appcloud-internal/internal/common/apperrors"
	"github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

// CreateEvent appends an event to the log of the version identified by its
// hash ID. The version is resolved in the same statement.
func (mm *metadataManager) CreateEvent(ctx context.Context, versionHashID string, event *models.Event) apperrors.Error {
	tenantID, err := tenantIdFromContext(ctx)
	if err != nil {
		return err
	}
	event.TenantID = tenantID

	query := `
		INSERT INTO events (name, status, version_id, tenant_id, description)
		SELECT $1, $2, v.id, $3, $4 FROM versions v WHERE v.hash_id = $5 AND v.tenant_id = $3
		RETURNING id, version_id, created_at;
	`
	errdb := mm.conn().QueryRowContext(ctx, query,
		event.Name, event.Status, tenantID, event.Description, versionHashID).
		Scan(&event.ID, &event.VersionID, &event.CreatedAt)
	if errdb != nil {
		if errdb == sql.ErrNoRows {
			log.Ctx(ctx).Info().Str("hash_id", versionHashID).Msg("version not found")
			return dberror.ErrNotFound.Msg("version not found")
		}
		log.Ctx(ctx).Error().Err(errdb).Str("hash_id", versionHashID).Str("event", event.Name).Msg("failed to insert event")
		return dberror.ErrDatabase.Err(errdb)
	}
	return nil
}

// ListCurrentEvents returns the most recent event row per event name for the
// version, optionally filtered to a set of names. The log is append-only, so
// "most recent" is the row with the highest id among rows sharing a name.
func (mm *metadataManager) ListCurrentEvents(ctx context.Context, versionHashID string, names []string) ([]*models.Event, apperrors.Error) {
	tenantID, err := tenantIdFromContext(ctx)
	if err != nil {
		return nil, err
	}

	query := `
		SELECT e.id, e.name, e.status, e.version_id, e.tenant_id, COALESCE(e.description, ''), e.created_at
		FROM events e
		JOIN versions v ON v.id = e.version_id
		WHERE v.hash_id = $1 AND e.tenant_id = $2
		  AND ($3::text[] IS NULL OR e.name = ANY($3))
		  AND e.id >= (
		      SELECT MAX(e2.id) FROM events e2
		      WHERE e2.version_id = e.version_id AND e2.name = e.name)
		ORDER BY e.id;
	`
	var nameFilter interface{}
	if len(names) > 0 {
		nameFilter = pq.Array(names)
	}
	rows, errdb := mm.conn().QueryContext(ctx, query, versionHashID, tenantID, nameFilter)
	if errdb != nil {
		log.Ctx(ctx).Error().Err(errdb).Str("hash_id", versionHashID).Msg("failed to list events")
		return nil, dberror.ErrDatabase.Err(errdb)
	}
	defer rows.Close()

	var events []*models.Event
	for rows.Next() {
		e := &models.Event{}
		errdb = rows.Scan(&e.ID, &e.Name, &e.Status, &e.VersionID, &e.TenantID, &e.Description, &e.CreatedAt)
		if errdb != nil {
			log.Ctx(ctx).Error().Err(errdb).Msg("failed to scan event")
			return nil, dberror.ErrDatabase.Err(errdb)
		}
		events = append(events, e)
	}
	if errdb = rows.Err(); errdb != nil {
		log.Ctx(ctx).Error().Err(errdb).Msg("failed to iterate events")
		return nil, dberror.ErrDatabase.Err(errdb)
	}
	return events, nil
}

// DeleteVersionEvents removes the whole event log of a version. Used before
// deleting the version itself.
func (mm *metadataManager) DeleteVersionEvents(ctx context.Context, versionHashID string) apperrors.Error {
	tenantID, err := tenantIdFromContext(ctx)
	if err != nil {
		return err
	}

	query := `
		DELETE FROM events
		WHERE version_id IN (SELECT id FROM versions WHERE hash_id = $1 AND tenant_id = $2);
	`
	_, errdb := mm.conn().ExecContext(ctx, query, versionHashID, tenantID)
	if errdb != nil {
		log.Ctx(ctx).Error().Err(errdb).Str("hash_id", versionHashID).Msg("failed to delete events")
		return dberror.ErrDatabase.Err(errdb)
	}
	return nil
}
