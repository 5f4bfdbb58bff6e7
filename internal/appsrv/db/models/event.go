package models

import (
	"time"

	"github.com/appcloud/appcloud-internal/pkg/types"
)

/*
  Table "public.events"
    Column    |           Type           | Collation | Nullable |              Default
--------------+--------------------------+-----------+----------+------------------------------------
 id           | bigint                   |           | not null | nextval('events_id_seq'::regclass)
 name         | character varying(128)   |           | not null |
 status       | character varying(32)    |           | not null |
 version_id   | bigint                   |           | not null |
 tenant_id    | character varying(32)    |           | not null |
 description  | character varying(1024)  |           |          |
 created_at   | timestamp with time zone |           |          | now()
Indexes:
    "events_pkey" PRIMARY KEY, btree (id)
    "events_version_id_name_idx" btree (version_id, name)
Foreign-key constraints:
    "events_version_id_fkey" FOREIGN KEY (version_id) REFERENCES versions(id)
*/

// Event rows are append-only. The current state of a named event type for a
// version is the row with the highest id among rows sharing that name.
type Event struct {
	ID          int64          `db:"id"`
	Name        string         `db:"name"`
	Status      string         `db:"status"`
	VersionID   int64          `db:"version_id"`
	TenantID    types.TenantId `db:"tenant_id"`
	Description string         `db:"description"`
	CreatedAt   time.Time      `db:"created_at"`
}
