package apis

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/appcloud/appcloud-internal/internal/appsrv/appmanager"
	"github.com/appcloud/appcloud-internal/internal/common/httpx"
)

func listPlans(r *http.Request) (*httpx.Response, error) {
	rsp, err := appmanager.ListPlans(r.Context())
	if err != nil {
		return nil, err
	}
	return &httpx.Response{
		StatusCode: http.StatusOK,
		Response:   rsp,
	}, nil
}

func getPlan(r *http.Request) (*httpx.Response, error) {
	planID, ok := parseIdParam(r, "planId")
	if !ok {
		return nil, httpx.ErrInvalidPlan()
	}
	rsp, err := appmanager.GetPlan(r.Context(), planID)
	if err != nil {
		return nil, err
	}
	return &httpx.Response{
		StatusCode: http.StatusOK,
		Response:   rsp,
	}, nil
}

func createPlan(r *http.Request) (*httpx.Response, error) {
	req := &appmanager.PlanRequest{}
	if err := httpx.GetRequestData(r, req); err != nil {
		return nil, err
	}
	rsp, err := appmanager.CreatePlan(r.Context(), req)
	if err != nil {
		return nil, err
	}
	return &httpx.Response{
		StatusCode: http.StatusCreated,
		Location:   "/plans/" + strconv.FormatInt(rsp.ID, 10),
		Response:   rsp,
	}, nil
}

func updatePlan(r *http.Request) (*httpx.Response, error) {
	planID, ok := parseIdParam(r, "planId")
	if !ok {
		return nil, httpx.ErrInvalidPlan()
	}
	req := &appmanager.PlanRequest{}
	if err := httpx.GetRequestData(r, req); err != nil {
		return nil, err
	}
	rsp, err := appmanager.UpdatePlan(r.Context(), planID, req)
	if err != nil {
		return nil, err
	}
	return &httpx.Response{
		StatusCode: http.StatusOK,
		Response:   rsp,
	}, nil
}

func deletePlan(r *http.Request) (*httpx.Response, error) {
	planID, ok := parseIdParam(r, "planId")
	if !ok {
		return nil, httpx.ErrInvalidPlan()
	}
	if err := appmanager.DeletePlan(r.Context(), planID); err != nil {
		return nil, err
	}
	return &httpx.Response{
		StatusCode: http.StatusNoContent,
	}, nil
}

func allowedContainerSpecs(r *http.Request) (*httpx.Response, error) {
	planID, ok := parseIdParam(r, "planId")
	if !ok {
		return nil, httpx.ErrInvalidPlan()
	}
	rsp, err := appmanager.AllowedContainerSpecsForPlan(r.Context(), planID)
	if err != nil {
		return nil, err
	}
	return &httpx.Response{
		StatusCode: http.StatusOK,
		Response:   rsp,
	}, nil
}

func listContainerSpecs(r *http.Request) (*httpx.Response, error) {
	rsp, err := appmanager.ListContainerSpecs(r.Context())
	if err != nil {
		return nil, err
	}
	return &httpx.Response{
		StatusCode: http.StatusOK,
		Response:   rsp,
	}, nil
}

func getContainerSpec(r *http.Request) (*httpx.Response, error) {
	specID, ok := parseIdParam(r, "containerSpecId")
	if !ok {
		return nil, httpx.ErrInvalidContainerSpec()
	}
	rsp, err := appmanager.GetContainerSpec(r.Context(), specID)
	if err != nil {
		return nil, err
	}
	return &httpx.Response{
		StatusCode: http.StatusOK,
		Response:   rsp,
	}, nil
}

func createContainerSpec(r *http.Request) (*httpx.Response, error) {
	req := &appmanager.ContainerSpecRequest{}
	if err := httpx.GetRequestData(r, req); err != nil {
		return nil, err
	}
	rsp, err := appmanager.CreateContainerSpec(r.Context(), req)
	if err != nil {
		return nil, err
	}
	return &httpx.Response{
		StatusCode: http.StatusCreated,
		Location:   "/containerSpecs/" + strconv.FormatInt(rsp.ID, 10),
		Response:   rsp,
	}, nil
}

func updateContainerSpec(r *http.Request) (*httpx.Response, error) {
	specID, ok := parseIdParam(r, "containerSpecId")
	if !ok {
		return nil, httpx.ErrInvalidContainerSpec()
	}
	req := &appmanager.ContainerSpecRequest{}
	if err := httpx.GetRequestData(r, req); err != nil {
		return nil, err
	}
	rsp, err := appmanager.UpdateContainerSpec(r.Context(), specID, req)
	if err != nil {
		return nil, err
	}
	return &httpx.Response{
		StatusCode: http.StatusOK,
		Response:   rsp,
	}, nil
}

func deleteContainerSpec(r *http.Request) (*httpx.Response, error) {
	specID, ok := parseIdParam(r, "containerSpecId")
	if !ok {
		return nil, httpx.ErrInvalidContainerSpec()
	}
	if err := appmanager.DeleteContainerSpec(r.Context(), specID); err != nil {
		return nil, err
	}
	return &httpx.Response{
		StatusCode: http.StatusNoContent,
	}, nil
}

func containerSpecsForRuntime(r *http.Request) (*httpx.Response, error) {
	runtimeID, ok := parseIdParam(r, "runtimeId")
	if !ok {
		return nil, httpx.ErrInvalidRuntime()
	}
	rsp, err := appmanager.ContainerSpecsForRuntime(r.Context(), runtimeID)
	if err != nil {
		return nil, err
	}
	return &httpx.Response{
		StatusCode: http.StatusOK,
		Response:   rsp,
	}, nil
}

func getRuntime(r *http.Request) (*httpx.Response, error) {
	runtimeID, ok := parseIdParam(r, "runtimeId")
	if !ok {
		return nil, httpx.ErrInvalidRuntime()
	}
	rsp, err := appmanager.GetRuntime(r.Context(), runtimeID)
	if err != nil {
		return nil, err
	}
	return &httpx.Response{
		StatusCode: http.StatusOK,
		Response:   rsp,
	}, nil
}

func transportsForRuntime(r *http.Request) (*httpx.Response, error) {
	runtimeID, ok := parseIdParam(r, "runtimeId")
	if !ok {
		return nil, httpx.ErrInvalidRuntime()
	}
	rsp, err := appmanager.TransportsForRuntime(r.Context(), runtimeID)
	if err != nil {
		return nil, err
	}
	return &httpx.Response{
		StatusCode: http.StatusOK,
		Response:   rsp,
	}, nil
}

func runtimesForAppType(r *http.Request) (*httpx.Response, error) {
	appType := chi.URLParam(r, "appType")
	if appType == "" {
		return nil, httpx.ErrInvalidRequest("missing application type")
	}
	rsp, err := appmanager.RuntimesForAppType(r.Context(), appType)
	if err != nil {
		return nil, err
	}
	return &httpx.Response{
		StatusCode: http.StatusOK,
		Response:   rsp,
	}, nil
}
