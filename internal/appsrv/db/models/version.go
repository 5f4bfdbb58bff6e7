package models

import (
	"database/sql"
	"time"

	"github.com/appcloud/appcloud-internal/pkg/types"
)

/*
  Table "public.versions"
        Column        |           Type           | Collation | Nullable |               Default
----------------------+--------------------------+-----------+----------+--------------------------------------
 id                   | bigint                   |           | not null | nextval('versions_id_seq'::regclass)
 name                 | character varying(128)   |           | not null |
 hash_id              | character varying(32)    |           | not null |
 application_id       | bigint                   |           | not null |
 runtime_id           | bigint                   |           | not null |
 tenant_id            | character varying(32)    |           | not null |
 status               | character varying(32)    |           | not null | 'created'
 is_white_listed      | boolean                  |           | not null | false
 deployment_id        | bigint                   |           |          |
 param_configuration  | text                     |           |          |
 task_configuration   | text                     |           |          |
 created_at           | timestamp with time zone |           |          | now()
Indexes:
    "versions_pkey" PRIMARY KEY, btree (id)
    "versions_hash_id_key" UNIQUE, btree (hash_id)
    "versions_name_application_id_key" UNIQUE, btree (name, application_id)
Foreign-key constraints:
    "versions_application_id_fkey" FOREIGN KEY (application_id) REFERENCES applications(id)
    "versions_runtime_id_fkey" FOREIGN KEY (runtime_id) REFERENCES runtimes(id)
*/

type Version struct {
	ID                 int64          `db:"id"`
	Name               string         `db:"name"`
	HashID             string         `db:"hash_id"`
	ApplicationID      int64          `db:"application_id"`
	RuntimeID          int64          `db:"runtime_id"`
	TenantID           types.TenantId `db:"tenant_id"`
	Status             string         `db:"status"`
	IsWhiteListed      bool           `db:"is_white_listed"`
	DeploymentID       sql.NullInt64  `db:"deployment_id"`
	ParamConfiguration string         `db:"param_configuration"`
	TaskConfiguration  string         `db:"task_configuration"`
	CreatedAt          time.Time      `db:"created_at"`

	// Runtime name from the join with runtimes; not a column of the table.
	RuntimeName string `db:"-"`
}

/*
  Table "public.deployments"
   Column    |           Type           | Collation | Nullable |                 Default
-------------+--------------------------+-----------+----------+-----------------------------------------
 id          | bigint                   |           | not null | nextval('deployments_id_seq'::regclass)
 version_id  | bigint                   |           | not null |
 created_at  | timestamp with time zone |           |          | now()
Indexes:
    "deployments_pkey" PRIMARY KEY, btree (id)
Foreign-key constraints:
    "deployments_version_id_fkey" FOREIGN KEY (version_id) REFERENCES versions(id)
*/

type Deployment struct {
	ID        int64     `db:"id"`
	VersionID int64     `db:"version_id"`
	CreatedAt time.Time `db:"created_at"`
}
