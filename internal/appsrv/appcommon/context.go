// Package appcommon provides context management utilities for the
// application metadata service. All data access is scoped by the tenant ID
// carried in the request context.
package appcommon

import (
	"context"

	"github.com/appcloud/appcloud-internal/pkg/types"
)

// ctxKeyType represents the type for all context keys
type ctxKeyType string

const (
	ctxTenantIdKey    ctxKeyType = "AppCloudTenantId"
	ctxTestContextKey ctxKeyType = "AppCloudTestContext"
)

// DefaultConfigFile is the config file used when none is given on the command line.
const DefaultConfigFile = "/etc/appcloud/appcloudsrv.conf"

// SetTenantIdInContext sets the tenant ID in the provided context.
func SetTenantIdInContext(ctx context.Context, tenantId types.TenantId) context.Context {
	return context.WithValue(ctx, ctxTenantIdKey, tenantId)
}

// TenantIdFromContext retrieves the tenant ID from the provided context.
func TenantIdFromContext(ctx context.Context) types.TenantId {
	if tenantId, ok := ctx.Value(ctxTenantIdKey).(types.TenantId); ok {
		return tenantId
	}
	return ""
}

// SetTestContext sets the test context in the provided context.
func SetTestContext(ctx context.Context, isTest bool) context.Context {
	return context.WithValue(ctx, ctxTestContextKey, isTest)
}

// TestContextFromContext retrieves the test context from the provided context.
func TestContextFromContext(ctx context.Context) bool {
	if testContext, ok := ctx.Value(ctxTestContextKey).(bool); ok {
		return testContext
	}
	return false
}
