package apis

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/appcloud/appcloud-internal/internal/appsrv/appmanager"
	"github.com/appcloud/appcloud-internal/internal/common/httpx"
)

func versionParams(r *http.Request) (appName, versionName string, err error) {
	appName = chi.URLParam(r, "appName")
	versionName = chi.URLParam(r, "versionName")
	if appName == "" {
		return "", "", httpx.ErrInvalidApplication()
	}
	if versionName == "" {
		return "", "", httpx.ErrInvalidVersion()
	}
	return appName, versionName, nil
}

func createVersion(r *http.Request) (*httpx.Response, error) {
	appName := chi.URLParam(r, "appName")
	if appName == "" {
		return nil, httpx.ErrInvalidApplication()
	}
	req := &appmanager.VersionRequest{}
	if err := httpx.GetRequestData(r, req); err != nil {
		return nil, err
	}
	rsp, err := appmanager.CreateVersion(r.Context(), appName, req)
	if err != nil {
		return nil, err
	}
	return &httpx.Response{
		StatusCode: http.StatusCreated,
		Location:   "/applications/" + appName + "/versions/" + rsp.Name,
		Response:   rsp,
	}, nil
}

func listVersions(r *http.Request) (*httpx.Response, error) {
	appName := chi.URLParam(r, "appName")
	if appName == "" {
		return nil, httpx.ErrInvalidApplication()
	}
	rsp, err := appmanager.ListVersions(r.Context(), appName)
	if err != nil {
		return nil, err
	}
	return &httpx.Response{
		StatusCode: http.StatusOK,
		Response:   rsp,
	}, nil
}

func getVersion(r *http.Request) (*httpx.Response, error) {
	appName, versionName, err := versionParams(r)
	if err != nil {
		return nil, err
	}
	rsp, aerr := appmanager.GetVersion(r.Context(), appName, versionName)
	if aerr != nil {
		return nil, aerr
	}
	return &httpx.Response{
		StatusCode: http.StatusOK,
		Response:   rsp,
	}, nil
}

func deleteVersion(r *http.Request) (*httpx.Response, error) {
	appName, versionName, err := versionParams(r)
	if err != nil {
		return nil, err
	}
	if aerr := appmanager.DeleteVersion(r.Context(), appName, versionName); aerr != nil {
		return nil, aerr
	}
	return &httpx.Response{
		StatusCode: http.StatusNoContent,
	}, nil
}

type statusRequest struct {
	Status string `json:"status"`
}

func updateVersionStatus(r *http.Request) (*httpx.Response, error) {
	appName, versionName, err := versionParams(r)
	if err != nil {
		return nil, err
	}
	req := &statusRequest{}
	if err := httpx.GetRequestData(r, req); err != nil {
		return nil, err
	}
	if aerr := appmanager.UpdateVersionStatus(r.Context(), appName, versionName, req.Status); aerr != nil {
		return nil, aerr
	}
	return &httpx.Response{
		StatusCode: http.StatusOK,
	}, nil
}

func updateVersionParamConfiguration(r *http.Request) (*httpx.Response, error) {
	appName, versionName, err := versionParams(r)
	if err != nil {
		return nil, err
	}
	req := &configurationRequest{}
	if err := httpx.GetRequestData(r, req); err != nil {
		return nil, err
	}
	if aerr := appmanager.UpdateVersionParamConfiguration(r.Context(), appName, versionName, req.Configuration); aerr != nil {
		return nil, aerr
	}
	return &httpx.Response{
		StatusCode: http.StatusOK,
	}, nil
}

func updateVersionTaskConfiguration(r *http.Request) (*httpx.Response, error) {
	appName, versionName, err := versionParams(r)
	if err != nil {
		return nil, err
	}
	req := &configurationRequest{}
	if err := httpx.GetRequestData(r, req); err != nil {
		return nil, err
	}
	if aerr := appmanager.UpdateVersionTaskConfiguration(r.Context(), appName, versionName, req.Configuration); aerr != nil {
		return nil, aerr
	}
	return &httpx.Response{
		StatusCode: http.StatusOK,
	}, nil
}

type whitelistRequest struct {
	IsWhiteListed bool `json:"isWhiteListed"`
}

func whitelistVersion(r *http.Request) (*httpx.Response, error) {
	appName, versionName, err := versionParams(r)
	if err != nil {
		return nil, err
	}
	req := &whitelistRequest{}
	if err := httpx.GetRequestData(r, req); err != nil {
		return nil, err
	}
	if aerr := appmanager.WhitelistVersion(r.Context(), appName, versionName, req.IsWhiteListed); aerr != nil {
		return nil, aerr
	}
	return &httpx.Response{
		StatusCode: http.StatusOK,
	}, nil
}

type deploymentResponse struct {
	DeploymentID int64 `json:"deploymentId"`
}

func deployVersion(r *http.Request) (*httpx.Response, error) {
	appName, versionName, err := versionParams(r)
	if err != nil {
		return nil, err
	}
	deploymentID, aerr := appmanager.DeployVersion(r.Context(), appName, versionName)
	if aerr != nil {
		return nil, aerr
	}
	return &httpx.Response{
		StatusCode: http.StatusCreated,
		Location:   "/applications/" + appName + "/versions/" + versionName + "/deployment",
		Response:   &deploymentResponse{DeploymentID: deploymentID},
	}, nil
}

func undeployVersion(r *http.Request) (*httpx.Response, error) {
	appName, versionName, err := versionParams(r)
	if err != nil {
		return nil, err
	}
	if aerr := appmanager.UndeployVersion(r.Context(), appName, versionName); aerr != nil {
		return nil, aerr
	}
	return &httpx.Response{
		StatusCode: http.StatusNoContent,
	}, nil
}

func recordEvent(r *http.Request) (*httpx.Response, error) {
	appName, versionName, err := versionParams(r)
	if err != nil {
		return nil, err
	}
	req := &appmanager.EventRequest{}
	if err := httpx.GetRequestData(r, req); err != nil {
		return nil, err
	}
	rsp, aerr := appmanager.RecordEvent(r.Context(), appName, versionName, req)
	if aerr != nil {
		return nil, aerr
	}
	return &httpx.Response{
		StatusCode: http.StatusCreated,
		Response:   rsp,
	}, nil
}

func currentEvents(r *http.Request) (*httpx.Response, error) {
	appName, versionName, err := versionParams(r)
	if err != nil {
		return nil, err
	}
	names := r.URL.Query()["name"]
	rsp, aerr := appmanager.CurrentEvents(r.Context(), appName, versionName, names)
	if aerr != nil {
		return nil, aerr
	}
	return &httpx.Response{
		StatusCode: http.StatusOK,
		Response:   rsp,
	}, nil
}

// parseIdParam parses a numeric path parameter.
func parseIdParam(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
