package apis

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/appcloud/appcloud-internal/internal/common/httpx"
)

// platformHandlers serve catalog data shared by all tenants. They do not
// require a tenant header.
var platformHandlers = []httpx.ResponseHandlerParam{
	{
		Method:  http.MethodGet,
		Path:    "/plans",
		Handler: listPlans,
	},
	{
		Method:  http.MethodPost,
		Path:    "/plans",
		Handler: createPlan,
	},
	{
		Method:  http.MethodGet,
		Path:    "/plans/allowedSpecs/{planId}",
		Handler: allowedContainerSpecs,
	},
	{
		Method:  http.MethodGet,
		Path:    "/plans/{planId}",
		Handler: getPlan,
	},
	{
		Method:  http.MethodPut,
		Path:    "/plans/{planId}",
		Handler: updatePlan,
	},
	{
		Method:  http.MethodDelete,
		Path:    "/plans/{planId}",
		Handler: deletePlan,
	},
	{
		Method:  http.MethodGet,
		Path:    "/containerSpecs",
		Handler: listContainerSpecs,
	},
	{
		Method:  http.MethodPost,
		Path:    "/containerSpecs",
		Handler: createContainerSpec,
	},
	{
		Method:  http.MethodGet,
		Path:    "/containerSpecs/allowedruntime/{runtimeId}",
		Handler: containerSpecsForRuntime,
	},
	{
		Method:  http.MethodGet,
		Path:    "/containerSpecs/{containerSpecId}",
		Handler: getContainerSpec,
	},
	{
		Method:  http.MethodPut,
		Path:    "/containerSpecs/{containerSpecId}",
		Handler: updateContainerSpec,
	},
	{
		Method:  http.MethodDelete,
		Path:    "/containerSpecs/{containerSpecId}",
		Handler: deleteContainerSpec,
	},
	{
		Method:  http.MethodGet,
		Path:    "/runtimes/{runtimeId}",
		Handler: getRuntime,
	},
	{
		Method:  http.MethodGet,
		Path:    "/runtimes/{runtimeId}/transports",
		Handler: transportsForRuntime,
	},
	{
		Method:  http.MethodGet,
		Path:    "/appTypes/{appType}/runtimes",
		Handler: runtimesForAppType,
	},
}

// applicationHandlers serve tenant data and require the tenant header.
var applicationHandlers = []httpx.ResponseHandlerParam{
	{
		Method:  http.MethodPost,
		Path:    "/applications",
		Handler: createApplication,
	},
	{
		Method:  http.MethodGet,
		Path:    "/applications",
		Handler: listApplications,
	},
	{
		Method:  http.MethodGet,
		Path:    "/applications/{appName}",
		Handler: getApplication,
	},
	{
		Method:  http.MethodDelete,
		Path:    "/applications/{appName}",
		Handler: deleteApplication,
	},
	{
		Method:  http.MethodPut,
		Path:    "/applications/{appName}/defaultVersion/{versionName}",
		Handler: setDefaultVersion,
	},
	{
		Method:  http.MethodPut,
		Path:    "/applications/{appName}/paramConfiguration",
		Handler: updateApplicationParamConfiguration,
	},
	{
		Method:  http.MethodPut,
		Path:    "/applications/{appName}/taskConfiguration",
		Handler: updateApplicationTaskConfiguration,
	},
	{
		Method:  http.MethodPut,
		Path:    "/applications/{appName}/icon",
		Handler: uploadApplicationIcon,
	},
	{
		Method:  http.MethodPost,
		Path:    "/applications/{appName}/versions",
		Handler: createVersion,
	},
	{
		Method:  http.MethodGet,
		Path:    "/applications/{appName}/versions",
		Handler: listVersions,
	},
	{
		Method:  http.MethodGet,
		Path:    "/applications/{appName}/versions/{versionName}",
		Handler: getVersion,
	},
	{
		Method:  http.MethodDelete,
		Path:    "/applications/{appName}/versions/{versionName}",
		Handler: deleteVersion,
	},
	{
		Method:  http.MethodPut,
		Path:    "/applications/{appName}/versions/{versionName}/status",
		Handler: updateVersionStatus,
	},
	{
		Method:  http.MethodPut,
		Path:    "/applications/{appName}/versions/{versionName}/paramConfiguration",
		Handler: updateVersionParamConfiguration,
	},
	{
		Method:  http.MethodPut,
		Path:    "/applications/{appName}/versions/{versionName}/taskConfiguration",
		Handler: updateVersionTaskConfiguration,
	},
	{
		Method:  http.MethodPut,
		Path:    "/applications/{appName}/versions/{versionName}/whitelist",
		Handler: whitelistVersion,
	},
	{
		Method:  http.MethodPost,
		Path:    "/applications/{appName}/versions/{versionName}/deployment",
		Handler: deployVersion,
	},
	{
		Method:  http.MethodDelete,
		Path:    "/applications/{appName}/versions/{versionName}/deployment",
		Handler: undeployVersion,
	},
	{
		Method:  http.MethodPost,
		Path:    "/applications/{appName}/versions/{versionName}/events",
		Handler: recordEvent,
	},
	{
		Method:  http.MethodGet,
		Path:    "/applications/{appName}/versions/{versionName}/events",
		Handler: currentEvents,
	},
}

func Router(r chi.Router) {
	for _, handler := range platformHandlers {
		r.Method(handler.Method, handler.Path, httpx.WrapHttpRsp(handler.Handler))
	}
	r.Group(func(r chi.Router) {
		r.Use(LoadTenantContext)
		for _, handler := range applicationHandlers {
			r.Method(handler.Method, handler.Path, httpx.WrapHttpRsp(handler.Handler))
		}
	})
}
