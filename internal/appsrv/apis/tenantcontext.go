package apis

import (
	"net/http"

	"github.com/appcloud/appcloud-internal/internal/appsrv/appcommon"
	"github.com/appcloud/appcloud-internal/internal/common/httpx"
	"github.com/appcloud/appcloud-internal/pkg/types"
)

// TenantIdHeader carries the tenant on every tenant-scoped request. The
// gateway in front of this service resolves it from the caller's credentials.
const TenantIdHeader = "X-Tenant-Id"

// LoadTenantContext rejects tenant-scoped requests without a tenant header
// and stores the tenant ID in the request context.
func LoadTenantContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tenantID := r.Header.Get(TenantIdHeader)
		if tenantID == "" {
			httpx.ErrInvalidTenantId().Send(w)
			return
		}
		ctx := appcommon.SetTenantIdInContext(r.Context(), types.TenantId(tenantID))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
