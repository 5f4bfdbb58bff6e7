package models

import (
	"time"

	"github.com/appcloud/appcloud-internal/pkg/types"
)

/*
  Table "public.applications"
        Column        |           Type           | Collation | Nullable |                 Default
----------------------+--------------------------+-----------+----------+------------------------------------------
 id                   | bigint                   |           | not null | nextval('applications_id_seq'::regclass)
 name                 | character varying(128)   |           | not null |
 hash_id              | character varying(32)    |           | not null |
 description          | character varying(1024)  |           |          |
 tenant_id            | character varying(32)    |           | not null |
 default_version      | character varying(128)   |           |          |
 source_bundle_name   | character varying(256)   |           |          |
 app_type             | character varying(64)    |           | not null |
 param_configuration  | text                     |           |          |
 task_configuration   | text                     |           |          |
 created_at           | timestamp with time zone |           |          | now()
Indexes:
    "applications_pkey" PRIMARY KEY, btree (id)
    "applications_hash_id_key" UNIQUE, btree (hash_id)
    "applications_name_tenant_id_key" UNIQUE, btree (name, tenant_id)
Foreign-key constraints:
    "applications_app_type_fkey" FOREIGN KEY (app_type) REFERENCES app_types(name)
*/

type Application struct {
	ID                 int64          `db:"id"`
	Name               string         `db:"name"`
	HashID             string         `db:"hash_id"`
	Description        string         `db:"description"`
	TenantID           types.TenantId `db:"tenant_id"`
	DefaultVersion     string         `db:"default_version"`
	SourceBundleName   string         `db:"source_bundle_name"`
	AppType            string         `db:"app_type"`
	ParamConfiguration string         `db:"param_configuration"`
	TaskConfiguration  string         `db:"task_configuration"`
	CreatedAt          time.Time      `db:"created_at"`

	// Populated by joins and follow-up queries, not columns of the table.
	Icon      []byte    `db:"-"`
	Buildable bool      `db:"-"`
	Versions  []Version `db:"-"`
}

/*
  Table "public.app_icons"
     Column      |  Type  | Collation | Nullable | Default
-----------------+--------+-----------+----------+---------
 application_id  | bigint |           | not null |
 icon            | bytea  |           |          |
Indexes:
    "app_icons_pkey" PRIMARY KEY, btree (application_id)
Foreign-key constraints:
    "app_icons_application_id_fkey" FOREIGN KEY (application_id) REFERENCES applications(id) ON DELETE CASCADE
*/

type AppIcon struct {
	ApplicationID int64  `db:"application_id"`
	Icon          []byte `db:"icon"`
}
