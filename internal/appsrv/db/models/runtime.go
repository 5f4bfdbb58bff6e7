package models

/*
  Table "public.runtimes"
    Column    |          Type           | Collation | Nullable |               Default
--------------+-------------------------+-----------+----------+--------------------------------------
 id           | bigint                  |           | not null | nextval('runtimes_id_seq'::regclass)
 name         | character varying(128)  |           | not null |
 image_name   | character varying(256)  |           | not null |
 repo_url     | character varying(256)  |           |          |
 tag          | character varying(64)   |           |          |
 description  | character varying(1024) |           |          |
Indexes:
    "runtimes_pkey" PRIMARY KEY, btree (id)
Referenced by:
    TABLE "runtime_transports" FOREIGN KEY (runtime_id) REFERENCES runtimes(id)
    TABLE "runtime_container_specs" FOREIGN KEY (runtime_id) REFERENCES runtimes(id)
    TABLE "app_type_runtimes" FOREIGN KEY (runtime_id) REFERENCES runtimes(id)
*/

type Runtime struct {
	ID          int64  `db:"id"`
	Name        string `db:"name"`
	ImageName   string `db:"image_name"`
	RepoURL     string `db:"repo_url"`
	Tag         string `db:"tag"`
	Description string `db:"description"`
}

/*
  Table "public.transports"
        Column         |          Type          | Collation | Nullable |                Default
-----------------------+------------------------+-----------+----------+----------------------------------------
 id                    | bigint                 |           | not null | nextval('transports_id_seq'::regclass)
 service_name          | character varying(128) |           | not null |
 service_name_prefix   | character varying(128) |           |          |
 protocol              | character varying(32)  |           | not null |
 port                  | integer                |           | not null |
Indexes:
    "transports_pkey" PRIMARY KEY, btree (id)
Referenced by:
    TABLE "runtime_transports" FOREIGN KEY (transport_id) REFERENCES transports(id)
*/

type Transport struct {
	ID                int64  `db:"id"`
	ServiceName       string `db:"service_name"`
	ServiceNamePrefix string `db:"service_name_prefix"`
	Protocol          string `db:"protocol"`
	Port              int    `db:"port"`
}

/*
  Table "public.app_types"
    Column    |          Type           | Collation | Nullable | Default
--------------+-------------------------+-----------+----------+---------
 name         | character varying(64)   |           | not null |
 description  | character varying(1024) |           |          |
 buildable    | boolean                 |           | not null | false
Indexes:
    "app_types_pkey" PRIMARY KEY, btree (name)
*/

// AppType distinguishes source-buildable application types from pre-built
// image types.
type AppType struct {
	Name        string `db:"name"`
	Description string `db:"description"`
	Buildable   bool   `db:"buildable"`
}
