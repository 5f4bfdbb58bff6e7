// Description: This file contains the implementation of the appCloudDb interface for the PostgreSQL database.
package postgresql

import (
	"context"
	"database/sql"

	"github.com/appcloud/appcloud-internal/internal/appsrv/appcommon"
	"github.com/appcloud/appcloud-internal/internal/appsrv/db/dberror"
	"github.com/appcloud/appcloud-internal/internal/appsrv/db/dbmanager"
	"github.com/appcloud/appcloud-internal/internal/common/apperrors"
	"github.com/appcloud/appcloud-internal/pkg/types"
	"github.com/rs/zerolog/log"
)

type appCloudDb struct {
	mm *metadataManager
	cm *connectionManager
}

// metadataManager executes the entity SQL against the scoped connection it
// was constructed with. Single statements run directly on the connection;
// multi-step operations open an explicit transaction.
type metadataManager struct {
	c dbmanager.ScopedConn
}

func newMetadataManager(c dbmanager.ScopedConn) *metadataManager {
	return &metadataManager{c: c}
}

func (mm *metadataManager) conn() *sql.Conn {
	return mm.c.Conn()
}

// connectionManager exposes scope management and close on the underlying
// scoped connection.
type connectionManager struct {
	c dbmanager.ScopedConn
}

func newConnectionManager(c dbmanager.ScopedConn) *connectionManager {
	return &connectionManager{c: c}
}

func (cm *connectionManager) AddScopes(ctx context.Context, scopes map[string]string) {
	if err := cm.c.AddScopes(ctx, scopes); err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("failed to add scopes")
	}
}

func (cm *connectionManager) AddScope(ctx context.Context, scope, value string) {
	if err := cm.c.AddScope(ctx, scope, value); err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("failed to add scope")
	}
}

func (cm *connectionManager) DropScopes(ctx context.Context, scopes []string) error {
	return cm.c.DropScopes(ctx, scopes)
}

func (cm *connectionManager) DropScope(ctx context.Context, scope string) error {
	return cm.c.DropScope(ctx, scope)
}

func (cm *connectionManager) DropAllScopes(ctx context.Context) error {
	return cm.c.DropAllScopes(ctx)
}

func (cm *connectionManager) Close(ctx context.Context) {
	cm.c.Close(ctx)
}

func NewAppCloudDb(c dbmanager.ScopedConn) (*metadataManager, *connectionManager) {
	h := &appCloudDb{}
	h.mm = newMetadataManager(c)
	h.cm = newConnectionManager(c)
	return h.mm, h.cm
}

func tenantIdFromContext(ctx context.Context) (types.TenantId, apperrors.Error) {
	tenantID := appcommon.TenantIdFromContext(ctx)
	if tenantID == "" {
		log.Ctx(ctx).Error().Msg("failed to retrieve tenant ID from context")
		return "", dberror.ErrMissingTenantID
	}
	return tenantID, nil
}
