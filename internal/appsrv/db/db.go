package db

import (
	"context"
	"errors"

	"github.com/appcloud/appcloud-internal/internal/appsrv/db/dbmanager"
	"github.com/appcloud/appcloud-internal/internal/appsrv/db/models"
	"github.com/appcloud/appcloud-internal/internal/appsrv/db/postgresql"
	"github.com/appcloud/appcloud-internal/internal/common/apperrors"
	"github.com/appcloud/appcloud-internal/pkg/types"
	"github.com/rs/zerolog/log"
)

// DB_ is an interface for the database connection. It wraps the underlying
// sql.Conn while adding the ability to manage tenant scopes. The two
// interfaces are separately initialized to allow for wrapping each one
// separately.

type MetadataManager interface {
	// Application
	CreateApplication(ctx context.Context, app *models.Application, icon []byte) apperrors.Error
	GetApplication(ctx context.Context, hashID string) (*models.Application, apperrors.Error)
	ListApplications(ctx context.Context) ([]*models.Application, apperrors.Error)
	DeleteApplication(ctx context.Context, hashID string) apperrors.Error
	UpdateDefaultVersion(ctx context.Context, hashID string, versionName string) apperrors.Error
	UpdateApplicationParamConfiguration(ctx context.Context, hashID string, paramConfiguration string) apperrors.Error
	UpdateApplicationTaskConfiguration(ctx context.Context, hashID string, taskConfiguration string) apperrors.Error
	UpsertApplicationIcon(ctx context.Context, hashID string, icon []byte) apperrors.Error
	CountApplications(ctx context.Context) (int, apperrors.Error)

	// Version
	CreateVersion(ctx context.Context, appHashID string, version *models.Version) apperrors.Error
	GetVersion(ctx context.Context, hashID string) (*models.Version, apperrors.Error)
	ListVersions(ctx context.Context, appHashID string) ([]*models.Version, apperrors.Error)
	DeleteVersion(ctx context.Context, hashID string) apperrors.Error
	UpdateVersionStatus(ctx context.Context, hashID string, status string) apperrors.Error
	UpdateVersionParamConfiguration(ctx context.Context, hashID string, paramConfiguration string) apperrors.Error
	UpdateVersionTaskConfiguration(ctx context.Context, hashID string, taskConfiguration string) apperrors.Error
	WhitelistVersion(ctx context.Context, hashID string, whitelisted bool) apperrors.Error
	CreateDeployment(ctx context.Context, versionHashID string) (int64, apperrors.Error)
	DeleteDeployment(ctx context.Context, versionHashID string) apperrors.Error
	ListVersionsRunningLongerThan(ctx context.Context, hours int) ([]*models.Version, apperrors.Error)

	// Event
	CreateEvent(ctx context.Context, versionHashID string, event *models.Event) apperrors.Error
	ListCurrentEvents(ctx context.Context, versionHashID string, names []string) ([]*models.Event, apperrors.Error)
	DeleteVersionEvents(ctx context.Context, versionHashID string) apperrors.Error

	// Runtime
	GetRuntime(ctx context.Context, runtimeID int64) (*models.Runtime, apperrors.Error)
	ListRuntimesForAppType(ctx context.Context, appType string) ([]*models.Runtime, apperrors.Error)
	ListTransportsForRuntime(ctx context.Context, runtimeID int64) ([]*models.Transport, apperrors.Error)
	ListContainerSpecsForRuntime(ctx context.Context, runtimeID int64) ([]*models.ContainerSpec, apperrors.Error)

	// Plan
	ListPlans(ctx context.Context) ([]*models.Plan, apperrors.Error)
	GetPlan(ctx context.Context, planID int64) (*models.Plan, apperrors.Error)
	CreatePlan(ctx context.Context, plan *models.Plan) apperrors.Error
	UpdatePlan(ctx context.Context, plan *models.Plan) apperrors.Error
	DeletePlan(ctx context.Context, planID int64) apperrors.Error
	ListAllowedContainerSpecsForPlan(ctx context.Context, planID int64) ([]*models.ContainerSpec, apperrors.Error)

	// ContainerSpec
	ListContainerSpecs(ctx context.Context) ([]*models.ContainerSpec, apperrors.Error)
	GetContainerSpec(ctx context.Context, specID int64) (*models.ContainerSpec, apperrors.Error)
	CreateContainerSpec(ctx context.Context, spec *models.ContainerSpec) apperrors.Error
	UpdateContainerSpec(ctx context.Context, spec *models.ContainerSpec) apperrors.Error
	DeleteContainerSpec(ctx context.Context, specID int64) apperrors.Error

	// Whitelisted tenant
	WhitelistTenant(ctx context.Context, tenantID types.TenantId, maxAppCount int) apperrors.Error
	WhitelistedTenantMaxAppCount(ctx context.Context, tenantID types.TenantId) (int, apperrors.Error)
}

type ConnectionManager interface {
	// Scope Management
	AddScopes(ctx context.Context, scopes map[string]string)
	DropScopes(ctx context.Context, scopes []string) error
	AddScope(ctx context.Context, scope, value string)
	DropScope(ctx context.Context, scope string) error
	DropAllScopes(ctx context.Context) error

	// Close the connection to the database.
	Close(ctx context.Context)
}

type DB_ interface {
	MetadataManager
	ConnectionManager
}

const (
	Scope_TenantId string = "appcloud.curr_tenantid"
)

var configuredScopes = []string{
	Scope_TenantId,
}

var pool dbmanager.ScopedDb

// Init creates the connection pool for the given DSN. It must be called once
// at startup before any connection is requested; a bad DSN or unreachable
// server fails here, not per request.
func Init(ctx context.Context, dsn string) error {
	pg := dbmanager.NewScopedDb(ctx, "postgresql", dsn, configuredScopes)
	if pg == nil {
		return errors.New("unable to create db pool")
	}
	pool = pg
	return nil
}

func Conn(ctx context.Context) (dbmanager.ScopedConn, error) {
	if pool == nil {
		return nil, errors.New("db pool is not initialized")
	}
	conn, err := pool.Conn(ctx)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("unable to get db connection")
		return nil, err
	}
	return conn, nil
}

type ctxDbKeyType string

const ctxDbKey ctxDbKeyType = "AppCloudDb"

// ConnCtx acquires a connection from the pool and stores it in the returned
// context. The caller owns the connection and must Close it via DB(ctx).
func ConnCtx(ctx context.Context) (context.Context, error) {
	conn, err := Conn(ctx)
	if err != nil {
		return ctx, err
	}
	return WithScopedConn(ctx, conn), nil
}

// WithScopedConn stores an already-acquired scoped connection in the context.
func WithScopedConn(ctx context.Context, conn dbmanager.ScopedConn) context.Context {
	return context.WithValue(ctx, ctxDbKey, conn)
}

type appCloudDb struct {
	MetadataManager
	ConnectionManager
}

func DB(ctx context.Context) DB_ {
	if conn, ok := ctx.Value(ctxDbKey).(dbmanager.ScopedConn); ok {
		mm, cm := postgresql.NewAppCloudDb(conn)
		return &appCloudDb{
			MetadataManager:   mm,
			ConnectionManager: cm,
		}
	}
	log.Ctx(ctx).Error().Msg("unable to get db connection from context")
	return nil
}
