// Package appmanager implements the application metadata operations on top of
// the db layer. It validates requests, derives the hash IDs entities are
// addressed by, and enforces the per-tenant application quota.
package appmanager

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/appcloud/appcloud-internal/internal/appsrv/appcommon"
	"github.com/appcloud/appcloud-internal/internal/appsrv/config"
	"github.com/appcloud/appcloud-internal/internal/appsrv/db"
	"github.com/appcloud/appcloud-internal/internal/appsrv/db/dberror"
	"github.com/appcloud/appcloud-internal/internal/appsrv/db/models"
	"github.com/appcloud/appcloud-internal/internal/appsrv/hashid"
	"github.com/appcloud/appcloud-internal/internal/common/apperrors"
	"github.com/appcloud/appcloud-internal/pkg/types"
)

type ApplicationRequest struct {
	Name               string           `json:"name" validate:"required,nameFormat,max=128"`
	Description        string           `json:"description,omitempty" validate:"max=1024"`
	AppType            string           `json:"appType" validate:"required"`
	DefaultVersion     string           `json:"defaultVersion,omitempty"`
	SourceBundleName   string           `json:"sourceBundleName,omitempty"`
	ParamConfiguration string           `json:"paramConfiguration,omitempty"`
	TaskConfiguration  string           `json:"taskConfiguration,omitempty"`
	Icon               []byte           `json:"icon,omitempty"`
	Versions           []VersionRequest `json:"versions,omitempty" validate:"dive"`
}

type ApplicationResponse struct {
	Name               string            `json:"name"`
	Description        string            `json:"description,omitempty"`
	AppType            string            `json:"appType"`
	Buildable          bool              `json:"buildable"`
	DefaultVersion     string            `json:"defaultVersion,omitempty"`
	SourceBundleName   string            `json:"sourceBundleName,omitempty"`
	ParamConfiguration string            `json:"paramConfiguration,omitempty"`
	TaskConfiguration  string            `json:"taskConfiguration,omitempty"`
	Icon               []byte            `json:"icon,omitempty"`
	CreatedAt          time.Time         `json:"createdAt"`
	Versions           []VersionResponse `json:"versions,omitempty"`
}

func applicationResponse(app *models.Application) *ApplicationResponse {
	rsp := &ApplicationResponse{
		Name:               app.Name,
		Description:        app.Description,
		AppType:            app.AppType,
		Buildable:          app.Buildable,
		DefaultVersion:     app.DefaultVersion,
		SourceBundleName:   app.SourceBundleName,
		ParamConfiguration: app.ParamConfiguration,
		TaskConfiguration:  app.TaskConfiguration,
		Icon:               app.Icon,
		CreatedAt:          app.CreatedAt,
	}
	for i := range app.Versions {
		rsp.Versions = append(rsp.Versions, *versionResponse(&app.Versions[i]))
	}
	return rsp
}

func tenantAndDb(ctx context.Context) (types.TenantId, db.DB_, apperrors.Error) {
	tenantID := appcommon.TenantIdFromContext(ctx)
	if tenantID.IsNil() {
		return "", nil, dberror.ErrMissingTenantID
	}
	dbm := db.DB(ctx)
	if dbm == nil {
		return "", nil, ErrNoDatabase
	}
	return tenantID, dbm, nil
}

// maxApplicationsFor returns the application quota for the tenant, the
// whitelist override when one exists, the configured default otherwise.
func maxApplicationsFor(ctx context.Context, dbm db.DB_, tenantID types.TenantId) (int, apperrors.Error) {
	maxApps, err := dbm.WhitelistedTenantMaxAppCount(ctx, tenantID)
	if err != nil {
		return 0, err
	}
	if maxApps == types.NotWhitelisted {
		maxApps = config.Config().DefaultMaxAppCount
	}
	return maxApps, nil
}

// CreateApplication validates the request, checks the tenant quota and
// creates the application with its nested versions and icon.
func CreateApplication(ctx context.Context, req *ApplicationRequest) (*ApplicationResponse, apperrors.Error) {
	if errv := V().Struct(req); errv != nil {
		log.Ctx(ctx).Info().Err(errv).Msg("invalid application request")
		return nil, ErrInvalidRequest.New(errv.Error())
	}
	tenantID, dbm, err := tenantAndDb(ctx)
	if err != nil {
		return nil, err
	}

	count, err := dbm.CountApplications(ctx)
	if err != nil {
		return nil, err
	}
	maxApps, err := maxApplicationsFor(ctx, dbm, tenantID)
	if err != nil {
		return nil, err
	}
	if count >= maxApps {
		log.Ctx(ctx).Info().Int("count", count).Int("max", maxApps).Msg("application quota exceeded")
		return nil, dberror.ErrQuotaExceeded
	}

	app := &models.Application{
		Name:               req.Name,
		HashID:             hashid.ApplicationHashID(req.Name, tenantID),
		Description:        req.Description,
		AppType:            req.AppType,
		DefaultVersion:     req.DefaultVersion,
		SourceBundleName:   req.SourceBundleName,
		ParamConfiguration: req.ParamConfiguration,
		TaskConfiguration:  req.TaskConfiguration,
	}
	for _, vr := range req.Versions {
		app.Versions = append(app.Versions, models.Version{
			Name:               vr.Name,
			HashID:             hashid.VersionHashID(req.Name, vr.Name, tenantID),
			RuntimeID:          vr.RuntimeID,
			ParamConfiguration: vr.ParamConfiguration,
			TaskConfiguration:  vr.TaskConfiguration,
		})
	}

	if err = dbm.CreateApplication(ctx, app, req.Icon); err != nil {
		return nil, err
	}
	app.Icon = req.Icon
	return applicationResponse(app), nil
}

// GetApplication retrieves an application by name with its versions.
func GetApplication(ctx context.Context, name string) (*ApplicationResponse, apperrors.Error) {
	tenantID, dbm, err := tenantAndDb(ctx)
	if err != nil {
		return nil, err
	}
	hashID := hashid.ApplicationHashID(name, tenantID)
	if hashID == "" {
		return nil, ErrInvalidRequest.New("missing application name")
	}
	app, err := dbm.GetApplication(ctx, hashID)
	if err != nil {
		return nil, err
	}
	return applicationResponse(app), nil
}

// ListApplications returns all applications of the tenant, versions omitted.
func ListApplications(ctx context.Context) ([]*ApplicationResponse, apperrors.Error) {
	_, dbm, err := tenantAndDb(ctx)
	if err != nil {
		return nil, err
	}
	apps, err := dbm.ListApplications(ctx)
	if err != nil {
		return nil, err
	}
	rsp := []*ApplicationResponse{}
	for _, app := range apps {
		rsp = append(rsp, applicationResponse(app))
	}
	return rsp, nil
}

// DeleteApplication removes the application and everything under it.
func DeleteApplication(ctx context.Context, name string) apperrors.Error {
	tenantID, dbm, err := tenantAndDb(ctx)
	if err != nil {
		return err
	}
	hashID := hashid.ApplicationHashID(name, tenantID)
	if hashID == "" {
		return ErrInvalidRequest.New("missing application name")
	}
	return dbm.DeleteApplication(ctx, hashID)
}

// SetDefaultVersion marks the named version as the application default.
func SetDefaultVersion(ctx context.Context, name, versionName string) apperrors.Error {
	tenantID, dbm, err := tenantAndDb(ctx)
	if err != nil {
		return err
	}
	hashID := hashid.ApplicationHashID(name, tenantID)
	if hashID == "" || versionName == "" {
		return ErrInvalidRequest.New("missing application or version name")
	}
	return dbm.UpdateDefaultVersion(ctx, hashID, versionName)
}

// UpdateApplicationParamConfiguration replaces the parameter configuration
// blob of the application. The blob is opaque at this layer.
func UpdateApplicationParamConfiguration(ctx context.Context, name, paramConfiguration string) apperrors.Error {
	tenantID, dbm, err := tenantAndDb(ctx)
	if err != nil {
		return err
	}
	hashID := hashid.ApplicationHashID(name, tenantID)
	if hashID == "" {
		return ErrInvalidRequest.New("missing application name")
	}
	return dbm.UpdateApplicationParamConfiguration(ctx, hashID, paramConfiguration)
}

// UpdateApplicationTaskConfiguration replaces the task configuration blob of
// the application.
func UpdateApplicationTaskConfiguration(ctx context.Context, name, taskConfiguration string) apperrors.Error {
	tenantID, dbm, err := tenantAndDb(ctx)
	if err != nil {
		return err
	}
	hashID := hashid.ApplicationHashID(name, tenantID)
	if hashID == "" {
		return ErrInvalidRequest.New("missing application name")
	}
	return dbm.UpdateApplicationTaskConfiguration(ctx, hashID, taskConfiguration)
}

// UploadApplicationIcon replaces the icon of the application. A nil payload
// clears it.
func UploadApplicationIcon(ctx context.Context, name string, icon []byte) apperrors.Error {
	tenantID, dbm, err := tenantAndDb(ctx)
	if err != nil {
		return err
	}
	hashID := hashid.ApplicationHashID(name, tenantID)
	if hashID == "" {
		return ErrInvalidRequest.New("missing application name")
	}
	return dbm.UpsertApplicationIcon(ctx, hashID, icon)
}
