package appmanager

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/appcloud/appcloud-internal/internal/appsrv/db"
	"github.com/appcloud/appcloud-internal/internal/appsrv/db/models"
	"github.com/appcloud/appcloud-internal/internal/common/apperrors"
)

// Plans, container specs and runtimes are platform data, not tenant scoped.
// They only need a database connection in the context.

type PlanRequest struct {
	PlanName        string `json:"planName" validate:"required,max=128"`
	MaxApplications int    `json:"maxApplications" validate:"gte=0"`
}

type PlanResponse struct {
	ID              int64  `json:"id"`
	PlanName        string `json:"planName"`
	MaxApplications int    `json:"maxApplications"`
}

type ContainerSpecRequest struct {
	Name        string `json:"name" validate:"required,max=128"`
	CPU         int    `json:"cpu" validate:"gt=0"`
	Memory      int    `json:"memory" validate:"gt=0"`
	CostPerHour int    `json:"costPerHour" validate:"gte=0"`
}

type ContainerSpecResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	CPU         int    `json:"cpu"`
	Memory      int    `json:"memory"`
	CostPerHour int    `json:"costPerHour"`
}

type RuntimeResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	ImageName   string `json:"imageName"`
	RepoURL     string `json:"repoUrl,omitempty"`
	Tag         string `json:"tag,omitempty"`
	Description string `json:"description,omitempty"`
}

type TransportResponse struct {
	ID                int64  `json:"id"`
	ServiceName       string `json:"serviceName"`
	ServiceNamePrefix string `json:"serviceNamePrefix,omitempty"`
	Protocol          string `json:"protocol"`
	Port              int    `json:"port"`
}

func planResponse(p *models.Plan) *PlanResponse {
	return &PlanResponse{ID: p.ID, PlanName: p.PlanName, MaxApplications: p.MaxApplications}
}

func containerSpecResponse(s *models.ContainerSpec) *ContainerSpecResponse {
	return &ContainerSpecResponse{
		ID:          s.ID,
		Name:        s.Name,
		CPU:         s.CPU,
		Memory:      s.Memory,
		CostPerHour: s.CostPerHour,
	}
}

func containerSpecResponses(specs []*models.ContainerSpec) []*ContainerSpecResponse {
	rsp := []*ContainerSpecResponse{}
	for _, s := range specs {
		rsp = append(rsp, containerSpecResponse(s))
	}
	return rsp
}

func dbFromContext(ctx context.Context) (db.DB_, apperrors.Error) {
	dbm := db.DB(ctx)
	if dbm == nil {
		return nil, ErrNoDatabase
	}
	return dbm, nil
}

// ListPlans returns all subscription plans.
func ListPlans(ctx context.Context) ([]*PlanResponse, apperrors.Error) {
	dbm, err := dbFromContext(ctx)
	if err != nil {
		return nil, err
	}
	plans, err := dbm.ListPlans(ctx)
	if err != nil {
		return nil, err
	}
	rsp := []*PlanResponse{}
	for _, p := range plans {
		rsp = append(rsp, planResponse(p))
	}
	return rsp, nil
}

// GetPlan retrieves a subscription plan by id.
func GetPlan(ctx context.Context, planID int64) (*PlanResponse, apperrors.Error) {
	dbm, err := dbFromContext(ctx)
	if err != nil {
		return nil, err
	}
	plan, err := dbm.GetPlan(ctx, planID)
	if err != nil {
		return nil, err
	}
	return planResponse(plan), nil
}

// CreatePlan validates the request and creates a subscription plan.
func CreatePlan(ctx context.Context, req *PlanRequest) (*PlanResponse, apperrors.Error) {
	if errv := V().Struct(req); errv != nil {
		log.Ctx(ctx).Info().Err(errv).Msg("invalid plan request")
		return nil, ErrInvalidRequest.New(errv.Error())
	}
	dbm, err := dbFromContext(ctx)
	if err != nil {
		return nil, err
	}
	plan := &models.Plan{PlanName: req.PlanName, MaxApplications: req.MaxApplications}
	if err = dbm.CreatePlan(ctx, plan); err != nil {
		return nil, err
	}
	return planResponse(plan), nil
}

// UpdatePlan replaces the name and quota of an existing plan.
func UpdatePlan(ctx context.Context, planID int64, req *PlanRequest) (*PlanResponse, apperrors.Error) {
	if errv := V().Struct(req); errv != nil {
		log.Ctx(ctx).Info().Err(errv).Msg("invalid plan request")
		return nil, ErrInvalidRequest.New(errv.Error())
	}
	dbm, err := dbFromContext(ctx)
	if err != nil {
		return nil, err
	}
	plan := &models.Plan{ID: planID, PlanName: req.PlanName, MaxApplications: req.MaxApplications}
	if err = dbm.UpdatePlan(ctx, plan); err != nil {
		return nil, err
	}
	return planResponse(plan), nil
}

// DeletePlan removes a subscription plan.
func DeletePlan(ctx context.Context, planID int64) apperrors.Error {
	dbm, err := dbFromContext(ctx)
	if err != nil {
		return err
	}
	return dbm.DeletePlan(ctx, planID)
}

// AllowedContainerSpecsForPlan returns the container specs the plan may use.
func AllowedContainerSpecsForPlan(ctx context.Context, planID int64) ([]*ContainerSpecResponse, apperrors.Error) {
	dbm, err := dbFromContext(ctx)
	if err != nil {
		return nil, err
	}
	specs, err := dbm.ListAllowedContainerSpecsForPlan(ctx, planID)
	if err != nil {
		return nil, err
	}
	return containerSpecResponses(specs), nil
}

// ListContainerSpecs returns all container specifications.
func ListContainerSpecs(ctx context.Context) ([]*ContainerSpecResponse, apperrors.Error) {
	dbm, err := dbFromContext(ctx)
	if err != nil {
		return nil, err
	}
	specs, err := dbm.ListContainerSpecs(ctx)
	if err != nil {
		return nil, err
	}
	return containerSpecResponses(specs), nil
}

// GetContainerSpec retrieves a container specification by id.
func GetContainerSpec(ctx context.Context, specID int64) (*ContainerSpecResponse, apperrors.Error) {
	dbm, err := dbFromContext(ctx)
	if err != nil {
		return nil, err
	}
	spec, err := dbm.GetContainerSpec(ctx, specID)
	if err != nil {
		return nil, err
	}
	return containerSpecResponse(spec), nil
}

// CreateContainerSpec validates the request and creates a container spec.
func CreateContainerSpec(ctx context.Context, req *ContainerSpecRequest) (*ContainerSpecResponse, apperrors.Error) {
	if errv := V().Struct(req); errv != nil {
		log.Ctx(ctx).Info().Err(errv).Msg("invalid container spec request")
		return nil, ErrInvalidRequest.New(errv.Error())
	}
	dbm, err := dbFromContext(ctx)
	if err != nil {
		return nil, err
	}
	spec := &models.ContainerSpec{
		Name:        req.Name,
		CPU:         req.CPU,
		Memory:      req.Memory,
		CostPerHour: req.CostPerHour,
	}
	if err = dbm.CreateContainerSpec(ctx, spec); err != nil {
		return nil, err
	}
	return containerSpecResponse(spec), nil
}

// UpdateContainerSpec replaces the attributes of an existing container spec.
func UpdateContainerSpec(ctx context.Context, specID int64, req *ContainerSpecRequest) (*ContainerSpecResponse, apperrors.Error) {
	if errv := V().Struct(req); errv != nil {
		log.Ctx(ctx).Info().Err(errv).Msg("invalid container spec request")
		return nil, ErrInvalidRequest.New(errv.Error())
	}
	dbm, err := dbFromContext(ctx)
	if err != nil {
		return nil, err
	}
	spec := &models.ContainerSpec{
		ID:          specID,
		Name:        req.Name,
		CPU:         req.CPU,
		Memory:      req.Memory,
		CostPerHour: req.CostPerHour,
	}
	if err = dbm.UpdateContainerSpec(ctx, spec); err != nil {
		return nil, err
	}
	return containerSpecResponse(spec), nil
}

// DeleteContainerSpec removes a container specification.
func DeleteContainerSpec(ctx context.Context, specID int64) apperrors.Error {
	dbm, err := dbFromContext(ctx)
	if err != nil {
		return err
	}
	return dbm.DeleteContainerSpec(ctx, specID)
}

// ContainerSpecsForRuntime returns the container specs a runtime may be
// scheduled on.
func ContainerSpecsForRuntime(ctx context.Context, runtimeID int64) ([]*ContainerSpecResponse, apperrors.Error) {
	dbm, err := dbFromContext(ctx)
	if err != nil {
		return nil, err
	}
	specs, err := dbm.ListContainerSpecsForRuntime(ctx, runtimeID)
	if err != nil {
		return nil, err
	}
	return containerSpecResponses(specs), nil
}

// GetRuntime retrieves a runtime by id.
func GetRuntime(ctx context.Context, runtimeID int64) (*RuntimeResponse, apperrors.Error) {
	dbm, err := dbFromContext(ctx)
	if err != nil {
		return nil, err
	}
	runtime, err := dbm.GetRuntime(ctx, runtimeID)
	if err != nil {
		return nil, err
	}
	return &RuntimeResponse{
		ID:          runtime.ID,
		Name:        runtime.Name,
		ImageName:   runtime.ImageName,
		RepoURL:     runtime.RepoURL,
		Tag:         runtime.Tag,
		Description: runtime.Description,
	}, nil
}

// RuntimesForAppType returns the runtimes usable by an application type.
func RuntimesForAppType(ctx context.Context, appType string) ([]*RuntimeResponse, apperrors.Error) {
	if appType == "" {
		return nil, ErrInvalidRequest.New("missing application type")
	}
	dbm, err := dbFromContext(ctx)
	if err != nil {
		return nil, err
	}
	runtimes, err := dbm.ListRuntimesForAppType(ctx, appType)
	if err != nil {
		return nil, err
	}
	rsp := []*RuntimeResponse{}
	for _, r := range runtimes {
		rsp = append(rsp, &RuntimeResponse{
			ID:          r.ID,
			Name:        r.Name,
			ImageName:   r.ImageName,
			RepoURL:     r.RepoURL,
			Tag:         r.Tag,
			Description: r.Description,
		})
	}
	return rsp, nil
}

// TransportsForRuntime returns the transports exposed by a runtime.
func TransportsForRuntime(ctx context.Context, runtimeID int64) ([]*TransportResponse, apperrors.Error) {
	dbm, err := dbFromContext(ctx)
	if err != nil {
		return nil, err
	}
	transports, err := dbm.ListTransportsForRuntime(ctx, runtimeID)
	if err != nil {
		return nil, err
	}
	rsp := []*TransportResponse{}
	for _, tr := range transports {
		rsp = append(rsp, &TransportResponse{
			ID:                tr.ID,
			ServiceName:       tr.ServiceName,
			ServiceNamePrefix: tr.ServiceNamePrefix,
			Protocol:          tr.Protocol,
			Port:              tr.Port,
		})
	}
	return rsp, nil
}
