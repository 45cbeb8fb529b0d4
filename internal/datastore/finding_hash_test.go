package datastore

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFindingKey(t *testing.T) {
	k1 := FindingKey("API Endpoints", "/api/users")
	k2 := FindingKey("API Endpoints", "/api/users")

	assert.Equal(t, k1, k2, "key must be deterministic")
	assert.NotEqual(t, k1, FindingKey("API Endpoints", "/api/user"))
	// The separator keeps name/detail boundaries distinct
	assert.NotEqual(t, FindingKey("ab", "c"), FindingKey("a", "bc"))
	assert.GreaterOrEqual(t, k1, int64(0))
}
