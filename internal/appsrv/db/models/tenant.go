package models

import (
	"github.com/appcloud/appcloud-internal/pkg/types"
)

/*
  Table "public.white_listed_tenants"
     Column     |         Type          | Collation | Nullable | Default
----------------+-----------------------+-----------+----------+---------
 tenant_id      | character varying(32) |           | not null |
 max_app_count  | integer               |           | not null |
Indexes:
    "white_listed_tenants_pkey" PRIMARY KEY, btree (tenant_id)
*/

// WhitelistedTenant overrides the default per-tenant application quota.
type WhitelistedTenant struct {
	TenantID    types.TenantId `db:"tenant_id"`
	MaxAppCount int            `db:"max_app_count"`
}
