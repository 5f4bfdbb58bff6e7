package types

type TenantId string

func (t TenantId) IsNil() bool {
	return t == ""
}

// VersionStatus is the lifecycle state of an application version. Transitions
// are driven by the deployment orchestrator; this layer only validates that
// the value is one of the known states.
type VersionStatus string

const (
	VersionStatusCreated  VersionStatus = "created"
	VersionStatusBuilding VersionStatus = "building"
	VersionStatusRunning  VersionStatus = "running"
	VersionStatusStopped  VersionStatus = "stopped"
	VersionStatusError    VersionStatus = "error"
)

func (s VersionStatus) IsValid() bool {
	switch s {
	case VersionStatusCreated, VersionStatusBuilding, VersionStatusRunning,
		VersionStatusStopped, VersionStatusError:
		return true
	}
	return false
}

func (s VersionStatus) String() string {
	return string(s)
}

// NotWhitelisted is the sentinel returned by the whitelisted-tenant quota
// lookup when the tenant has no override row. It is distinct from a
// legitimate zero quota.
const NotWhitelisted = -1

const (
	VersionV1 = "v1"
)
