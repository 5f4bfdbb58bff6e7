package appmanager

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/appcloud/appcloud-internal/internal/appsrv/db/models"
	"github.com/appcloud/appcloud-internal/internal/appsrv/hashid"
	"github.com/appcloud/appcloud-internal/internal/common/apperrors"
	"github.com/appcloud/appcloud-internal/pkg/types"
)

type VersionRequest struct {
	Name               string `json:"name" validate:"required,nameFormat,max=128"`
	RuntimeID          int64  `json:"runtimeId" validate:"required,gt=0"`
	ParamConfiguration string `json:"paramConfiguration,omitempty"`
	TaskConfiguration  string `json:"taskConfiguration,omitempty"`
}

type VersionResponse struct {
	Name               string    `json:"name"`
	RuntimeID          int64     `json:"runtimeId"`
	RuntimeName        string    `json:"runtimeName,omitempty"`
	Status             string    `json:"status"`
	IsWhiteListed      bool      `json:"isWhiteListed"`
	Deployed           bool      `json:"deployed"`
	ParamConfiguration string    `json:"paramConfiguration,omitempty"`
	TaskConfiguration  string    `json:"taskConfiguration,omitempty"`
	CreatedAt          time.Time `json:"createdAt"`
}

func versionResponse(v *models.Version) *VersionResponse {
	return &VersionResponse{
		Name:               v.Name,
		RuntimeID:          v.RuntimeID,
		RuntimeName:        v.RuntimeName,
		Status:             v.Status,
		IsWhiteListed:      v.IsWhiteListed,
		Deployed:           v.DeploymentID.Valid,
		ParamConfiguration: v.ParamConfiguration,
		TaskConfiguration:  v.TaskConfiguration,
		CreatedAt:          v.CreatedAt,
	}
}

// CreateVersion validates the request and creates a version under the named
// application.
func CreateVersion(ctx context.Context, appName string, req *VersionRequest) (*VersionResponse, apperrors.Error) {
	if errv := V().Struct(req); errv != nil {
		log.Ctx(ctx).Info().Err(errv).Msg("invalid version request")
		return nil, ErrInvalidRequest.New(errv.Error())
	}
	tenantID, dbm, err := tenantAndDb(ctx)
	if err != nil {
		return nil, err
	}
	appHashID := hashid.ApplicationHashID(appName, tenantID)
	if appHashID == "" {
		return nil, ErrInvalidRequest.New("missing application name")
	}

	version := &models.Version{
		Name:               req.Name,
		HashID:             hashid.VersionHashID(appName, req.Name, tenantID),
		RuntimeID:          req.RuntimeID,
		ParamConfiguration: req.ParamConfiguration,
		TaskConfiguration:  req.TaskConfiguration,
	}
	if err = dbm.CreateVersion(ctx, appHashID, version); err != nil {
		return nil, err
	}
	return versionResponse(version), nil
}

// GetVersion retrieves a version by application and version name.
func GetVersion(ctx context.Context, appName, versionName string) (*VersionResponse, apperrors.Error) {
	tenantID, dbm, err := tenantAndDb(ctx)
	if err != nil {
		return nil, err
	}
	hashID := hashid.VersionHashID(appName, versionName, tenantID)
	if hashID == "" {
		return nil, ErrInvalidRequest.New("missing application or version name")
	}
	version, err := dbm.GetVersion(ctx, hashID)
	if err != nil {
		return nil, err
	}
	return versionResponse(version), nil
}

// ListVersions returns all versions of the named application.
func ListVersions(ctx context.Context, appName string) ([]*VersionResponse, apperrors.Error) {
	tenantID, dbm, err := tenantAndDb(ctx)
	if err != nil {
		return nil, err
	}
	appHashID := hashid.ApplicationHashID(appName, tenantID)
	if appHashID == "" {
		return nil, ErrInvalidRequest.New("missing application name")
	}
	versions, err := dbm.ListVersions(ctx, appHashID)
	if err != nil {
		return nil, err
	}
	rsp := []*VersionResponse{}
	for _, v := range versions {
		rsp = append(rsp, versionResponse(v))
	}
	return rsp, nil
}

// DeleteVersion removes a version together with its deployment and events.
func DeleteVersion(ctx context.Context, appName, versionName string) apperrors.Error {
	tenantID, dbm, err := tenantAndDb(ctx)
	if err != nil {
		return err
	}
	hashID := hashid.VersionHashID(appName, versionName, tenantID)
	if hashID == "" {
		return ErrInvalidRequest.New("missing application or version name")
	}
	return dbm.DeleteVersion(ctx, hashID)
}

// UpdateVersionStatus sets the lifecycle status of a version. The status
// value is validated here; the db layer stores whatever it is given.
func UpdateVersionStatus(ctx context.Context, appName, versionName, status string) apperrors.Error {
	if !types.VersionStatus(status).IsValid() {
		log.Ctx(ctx).Info().Str("status", status).Msg("invalid version status")
		return ErrInvalidVersionStatus
	}
	tenantID, dbm, err := tenantAndDb(ctx)
	if err != nil {
		return err
	}
	hashID := hashid.VersionHashID(appName, versionName, tenantID)
	if hashID == "" {
		return ErrInvalidRequest.New("missing application or version name")
	}
	return dbm.UpdateVersionStatus(ctx, hashID, status)
}

// UpdateVersionParamConfiguration replaces the parameter configuration blob
// of the version.
func UpdateVersionParamConfiguration(ctx context.Context, appName, versionName, paramConfiguration string) apperrors.Error {
	tenantID, dbm, err := tenantAndDb(ctx)
	if err != nil {
		return err
	}
	hashID := hashid.VersionHashID(appName, versionName, tenantID)
	if hashID == "" {
		return ErrInvalidRequest.New("missing application or version name")
	}
	return dbm.UpdateVersionParamConfiguration(ctx, hashID, paramConfiguration)
}

// UpdateVersionTaskConfiguration replaces the task configuration blob of the
// version.
func UpdateVersionTaskConfiguration(ctx context.Context, appName, versionName, taskConfiguration string) apperrors.Error {
	tenantID, dbm, err := tenantAndDb(ctx)
	if err != nil {
		return err
	}
	hashID := hashid.VersionHashID(appName, versionName, tenantID)
	if hashID == "" {
		return ErrInvalidRequest.New("missing application or version name")
	}
	return dbm.UpdateVersionTaskConfiguration(ctx, hashID, taskConfiguration)
}

// WhitelistVersion exempts or un-exempts a version from idle-running expiry.
func WhitelistVersion(ctx context.Context, appName, versionName string, whitelisted bool) apperrors.Error {
	tenantID, dbm, err := tenantAndDb(ctx)
	if err != nil {
		return err
	}
	hashID := hashid.VersionHashID(appName, versionName, tenantID)
	if hashID == "" {
		return ErrInvalidRequest.New("missing application or version name")
	}
	return dbm.WhitelistVersion(ctx, hashID, whitelisted)
}

// DeployVersion records a deployment for the version and returns its id.
func DeployVersion(ctx context.Context, appName, versionName string) (int64, apperrors.Error) {
	tenantID, dbm, err := tenantAndDb(ctx)
	if err != nil {
		return 0, err
	}
	hashID := hashid.VersionHashID(appName, versionName, tenantID)
	if hashID == "" {
		return 0, ErrInvalidRequest.New("missing application or version name")
	}
	return dbm.CreateDeployment(ctx, hashID)
}

// UndeployVersion removes the deployment of the version. Undeploying a
// version that is not deployed is not an error.
func UndeployVersion(ctx context.Context, appName, versionName string) apperrors.Error {
	tenantID, dbm, err := tenantAndDb(ctx)
	if err != nil {
		return err
	}
	hashID := hashid.VersionHashID(appName, versionName, tenantID)
	if hashID == "" {
		return ErrInvalidRequest.New("missing application or version name")
	}
	return dbm.DeleteDeployment(ctx, hashID)
}

type EventRequest struct {
	Name        string `json:"name" validate:"required,max=128"`
	Status      string `json:"status" validate:"required,max=32"`
	Description string `json:"description,omitempty" validate:"max=1024"`
}

type EventResponse struct {
	Name        string    `json:"name"`
	Status      string    `json:"status"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// RecordEvent appends an event to the log of the version.
func RecordEvent(ctx context.Context, appName, versionName string, req *EventRequest) (*EventResponse, apperrors.Error) {
	if errv := V().Struct(req); errv != nil {
		log.Ctx(ctx).Info().Err(errv).Msg("invalid event request")
		return nil, ErrInvalidRequest.New(errv.Error())
	}
	tenantID, dbm, err := tenantAndDb(ctx)
	if err != nil {
		return nil, err
	}
	hashID := hashid.VersionHashID(appName, versionName, tenantID)
	if hashID == "" {
		return nil, ErrInvalidRequest.New("missing application or version name")
	}

	event := &models.Event{
		Name:        req.Name,
		Status:      req.Status,
		Description: req.Description,
	}
	if err = dbm.CreateEvent(ctx, hashID, event); err != nil {
		return nil, err
	}
	return &EventResponse{
		Name:        event.Name,
		Status:      event.Status,
		Description: event.Description,
		CreatedAt:   event.CreatedAt,
	}, nil
}

// CurrentEvents returns the latest event per event name for the version,
// optionally filtered to a set of names.
func CurrentEvents(ctx context.Context, appName, versionName string, names []string) ([]*EventResponse, apperrors.Error) {
	tenantID, dbm, err := tenantAndDb(ctx)
	if err != nil {
		return nil, err
	}
	hashID := hashid.VersionHashID(appName, versionName, tenantID)
	if hashID == "" {
		return nil, ErrInvalidRequest.New("missing application or version name")
	}
	events, err := dbm.ListCurrentEvents(ctx, hashID, names)
	if err != nil {
		return nil, err
	}
	rsp := []*EventResponse{}
	for _, e := range events {
		rsp = append(rsp, &EventResponse{
			Name:        e.Name,
			Status:      e.Status,
			Description: e.Description,
			CreatedAt:   e.CreatedAt,
		})
	}
	return rsp, nil
}
