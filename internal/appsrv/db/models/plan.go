package models

/*
  Table "public.subscription_plans"
      Column       |          Type          | Collation | Nullable |                    Default
-------------------+------------------------+-----------+----------+------------------------------------------------
 id                | bigint                 |           | not null | nextval('subscription_plans_id_seq'::regclass)
 plan_name         | character varying(128) |           | not null |
 max_applications  | integer                |           | not null |
Indexes:
    "subscription_plans_pkey" PRIMARY KEY, btree (id)
    "subscription_plans_plan_name_key" UNIQUE, btree (plan_name)
*/

type Plan struct {
	ID              int64  `db:"id"`
	PlanName        string `db:"plan_name"`
	MaxApplications int    `db:"max_applications"`
}

/*
  Table "public.container_specs"
     Column     |          Type          | Collation | Nullable |                   Default
----------------+------------------------+-----------+----------+---------------------------------------------
 id             | bigint                 |           | not null | nextval('container_specs_id_seq'::regclass)
 name           | character varying(128) |           | not null |
 cpu            | integer                |           | not null |
 memory         | integer                |           | not null |
 cost_per_hour  | integer                |           | not null |
Indexes:
    "container_specs_pkey" PRIMARY KEY, btree (id)
Referenced by:
    TABLE "restricted_plan_container_specs" FOREIGN KEY (container_spec_id) REFERENCES container_specs(id)
    TABLE "runtime_container_specs" FOREIGN KEY (container_spec_id) REFERENCES container_specs(id)
*/

// ContainerSpec is allowed for a plan unless it appears in the
// restricted_plan_container_specs exclusion list for that plan.
type ContainerSpec struct {
	ID          int64  `db:"id"`
	Name        string `db:"name"`
	CPU         int    `db:"cpu"`
	Memory      int    `db:"memory"`
	CostPerHour int    `db:"cost_per_hour"`
}
