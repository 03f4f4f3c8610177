package wager

import (
	"encoding/base64"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var urlSafe = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

func TestNewIdentifier(t *testing.T) {
	seen := make(map[string]bool)

	for i := 0; i < 1000; i++ {
		id, err := NewIdentifier()
		require.NoError(t, err)

		assert.Len(t, id, 22)
		assert.Regexp(t, urlSafe, id)

		raw, err := base64.RawURLEncoding.DecodeString(id)
		require.NoError(t, err)
		assert.Len(t, raw, 16)

		assert.False(t, seen[id], "duplicate identifier %s", id)
		seen[id] = true
	}
}
