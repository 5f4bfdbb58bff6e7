package postgresql

import (
	"context"
	"database/sql"

	"github.com/appcloud/appcloud-internal/internal/appsrv/db/dberror"
	"github.com/appcloud/appcloud-internal/internal/common/apperrors"
	"github.com/appcloud/appcloud-internal/pkg/types"
	"github.com/rs/zerolog/log"
)

// WhitelistTenant sets or replaces the application quota override for a
// tenant.
func (mm *metadataManager) WhitelistTenant(ctx context.Context, tenantID types.TenantId, maxAppCount int) apperrors.Error {
	if tenantID == "" {
		return dberror.ErrMissingTenantID
	}

	query := `
		INSERT INTO white_listed_tenants (tenant_id, max_app_count)
		VALUES ($1, $2)
		ON CONFLICT (tenant_id) DO UPDATE SET max_app_count = EXCLUDED.max_app_count;
	`
	_, err := mm.conn().ExecContext(ctx, query, tenantID, maxAppCount)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("tenant_id", string(tenantID)).Msg("failed to whitelist tenant")
		return dberror.ErrDatabase.Err(err)
	}
	return nil
}

// WhitelistedTenantMaxAppCount returns the quota override for the tenant, or
// types.NotWhitelisted when no override row exists. The sentinel keeps "not
// whitelisted" distinct from a legitimate zero quota.
func (mm *metadataManager) WhitelistedTenantMaxAppCount(ctx context.Context, tenantID types.TenantId) (int, apperrors.Error) {
	if tenantID == "" {
		return types.NotWhitelisted, dberror.ErrMissingTenantID
	}

	query := `SELECT max_app_count FROM white_listed_tenants WHERE tenant_id = $1;`
	var maxAppCount int
	err := mm.conn().QueryRowContext(ctx, query, tenantID).Scan(&maxAppCount)
	if err != nil {
		if err == sql.ErrNoRows {
			return types.NotWhitelisted, nil
		}
		log.Ctx(ctx).Error().Err(err).Str("tenant_id", string(tenantID)).Msg("failed to retrieve whitelisted tenant")
		return types.NotWhitelisted, dberror.ErrDatabase.Err(err)
	}
	return maxAppCount, nil
}
