package holds

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPathPrefixPolicy(t *testing.T) {
	policy := PathPrefixPolicy("/seats/", "/payment")

	assert.True(t, policy("/seats/r1/b1"))
	assert.True(t, policy("/payment"))
	assert.True(t, policy("/payment/b1"))

	assert.False(t, policy("/movies"))
	assert.False(t, policy("/"))
	assert.False(t, policy(""))
	assert.False(t, policy("/seat"), "prefix match, not substring match")
}

func TestPathPrefixPolicy_EmptyPrefixNeverMatches(t *testing.T) {
	policy := PathPrefixPolicy("")
	assert.False(t, policy("/anything"))
}

func TestNeverRedirect(t *testing.T) {
	assert.False(t, NeverRedirect("/seats/r1/b1"))
}
