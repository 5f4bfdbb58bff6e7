package apis

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/appcloud/appcloud-internal/internal/appsrv/appmanager"
	"github.com/appcloud/appcloud-internal/internal/common/httpx"
)

func createApplication(r *http.Request) (*httpx.Response, error) {
	ctx := r.Context()

	req := &appmanager.ApplicationRequest{}
	if err := httpx.GetRequestData(r, req); err != nil {
		return nil, err
	}

	rsp, err := appmanager.CreateApplication(ctx, req)
	if err != nil {
		return nil, err
	}
	return &httpx.Response{
		StatusCode: http.StatusCreated,
		Location:   "/applications/" + rsp.Name,
		Response:   rsp,
	}, nil
}

func listApplications(r *http.Request) (*httpx.Response, error) {
	rsp, err := appmanager.ListApplications(r.Context())
	if err != nil {
		return nil, err
	}
	return &httpx.Response{
		StatusCode: http.StatusOK,
		Response:   rsp,
	}, nil
}

func getApplication(r *http.Request) (*httpx.Response, error) {
	appName := chi.URLParam(r, "appName")
	if appName == "" {
		return nil, httpx.ErrInvalidApplication()
	}
	rsp, err := appmanager.GetApplication(r.Context(), appName)
	if err != nil {
		return nil, err
	}
	return &httpx.Response{
		StatusCode: http.StatusOK,
		Response:   rsp,
	}, nil
}

func deleteApplication(r *http.Request) (*httpx.Response, error) {
	appName := chi.URLParam(r, "appName")
	if appName == "" {
		return nil, httpx.ErrInvalidApplication()
	}
	if err := appmanager.DeleteApplication(r.Context(), appName); err != nil {
		return nil, err
	}
	return &httpx.Response{
		StatusCode: http.StatusNoContent,
	}, nil
}

func setDefaultVersion(r *http.Request) (*httpx.Response, error) {
	appName := chi.URLParam(r, "appName")
	versionName := chi.URLParam(r, "versionName")
	if appName == "" || versionName == "" {
		return nil, httpx.ErrInvalidRequest()
	}
	if err := appmanager.SetDefaultVersion(r.Context(), appName, versionName); err != nil {
		return nil, err
	}
	return &httpx.Response{
		StatusCode: http.StatusOK,
	}, nil
}

// configurationRequest carries an opaque configuration blob. The contents are
// interpreted by the deployment orchestrator, never here.
type configurationRequest struct {
	Configuration string `json:"configuration"`
}

func updateApplicationParamConfiguration(r *http.Request) (*httpx.Response, error) {
	appName := chi.URLParam(r, "appName")
	if appName == "" {
		return nil, httpx.ErrInvalidApplication()
	}
	req := &configurationRequest{}
	if err := httpx.GetRequestData(r, req); err != nil {
		return nil, err
	}
	if err := appmanager.UpdateApplicationParamConfiguration(r.Context(), appName, req.Configuration); err != nil {
		return nil, err
	}
	return &httpx.Response{
		StatusCode: http.StatusOK,
	}, nil
}

func updateApplicationTaskConfiguration(r *http.Request) (*httpx.Response, error) {
	appName := chi.URLParam(r, "appName")
	if appName == "" {
		return nil, httpx.ErrInvalidApplication()
	}
	req := &configurationRequest{}
	if err := httpx.GetRequestData(r, req); err != nil {
		return nil, err
	}
	if err := appmanager.UpdateApplicationTaskConfiguration(r.Context(), appName, req.Configuration); err != nil {
		return nil, err
	}
	return &httpx.Response{
		StatusCode: http.StatusOK,
	}, nil
}

type iconRequest struct {
	Icon []byte `json:"icon"`
}

func uploadApplicationIcon(r *http.Request) (*httpx.Response, error) {
	appName := chi.URLParam(r, "appName")
	if appName == "" {
		return nil, httpx.ErrInvalidApplication()
	}
	req := &iconRequest{}
	if err := httpx.GetRequestData(r, req); err != nil {
		return nil, err
	}
	if err := appmanager.UploadApplicationIcon(r.Context(), appName, req.Icon); err != nil {
		return nil, err
	}
	return &httpx.Response{
		StatusCode: http.StatusOK,
	}, nil
}
