package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateRandomString(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 10; i++ {
		s, err := GenerateRandomString(20)
		require.NoError(t, err)
		assert.Len(t, s, 20)
		assert.False(t, seen[s], "tokens must not repeat")
		seen[s] = true
	}
}

func TestHashTokenIsDeterministic(t *testing.T) {
	a := HashToken("reset-token")
	b := HashToken("reset-token")

	assert.Equal(t, a, b)
	assert.Len(t, a, 64)
	assert.NotEqual(t, a, HashToken("other-token"))
}
