package hashid

import (
	"fmt"
	"testing"

	"github.com/appcloud/appcloud-internal/pkg/types"
	"github.com/stretchr/testify/assert"
)

func TestApplicationHashID(t *testing.T) {
	tenantID := types.TenantId("7")

	id := ApplicationHashID("myapp", tenantID)
	assert.NotEmpty(t, id)
	// Deterministic: same inputs, same identifier.
	assert.Equal(t, id, ApplicationHashID("myapp", tenantID))

	// Different names and different tenants produce different identifiers.
	assert.NotEqual(t, id, ApplicationHashID("otherapp", tenantID))
	assert.NotEqual(t, id, ApplicationHashID("myapp", types.TenantId("8")))

	// Empty name yields no identifier.
	assert.Empty(t, ApplicationHashID("", tenantID))
}

func TestVersionHashID(t *testing.T) {
	tenantID := types.TenantId("7")

	id := VersionHashID("myapp", "v1", tenantID)
	assert.NotEmpty(t, id)
	assert.Equal(t, id, VersionHashID("myapp", "v1", tenantID))

	// Distinct version names under the same application differ.
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		v := VersionHashID("myapp", fmt.Sprintf("v%d", i), tenantID)
		assert.False(t, seen[v], "collision for v%d", i)
		seen[v] = true
	}

	// The version identifier differs from the application identifier.
	assert.NotEqual(t, ApplicationHashID("myapp", tenantID), id)

	assert.Empty(t, VersionHashID("", "v1", tenantID))
	assert.Empty(t, VersionHashID("myapp", "", tenantID))
}

func TestHashStringNonNegative(t *testing.T) {
	inputs := []string{"", "a", "myapp", "7myappv1", "tenant-42/app", "ünïcödé"}
	for _, s := range inputs {
		assert.GreaterOrEqual(t, HashString(s), int64(0), "input %q", s)
	}
}

func TestHashVariantsStayDistinct(t *testing.T) {
	// The byte-oriented variant does not sign-normalize, so the two hashes
	// are not interchangeable even for plain ASCII input.
	s := "myapp"
	assert.Equal(t, HashBytes([]byte(s)), HashBytes([]byte(s)))
	assert.Equal(t, HashString(s), HashString(s))
}

func TestRuntimeValidName(t *testing.T) {
	assert.Equal(t, "my-app", RuntimeValidName("my app"))
	assert.Equal(t, "my-app-2", RuntimeValidName("my_app++2"))
	assert.Equal(t, "myapp", RuntimeValidName("myapp"))
	assert.Equal(t, "-", RuntimeValidName("@@@"))
}
