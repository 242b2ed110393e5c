package telemetry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", Truncate("  abc  ", 10))
	assert.Equal(t, "ab...", Truncate("abcdef", 2))
	assert.Equal(t, "", Truncate("abc", 0))
	assert.Equal(t, "éé...", Truncate("ééé", 2))
}

func TestNewBuildsBothEncodings(t *testing.T) {
	for _, opts := range []Options{{JSON: true}, {Debug: true}} {
		logger, err := New(opts)
		require.NoError(t, err)
		require.NotNil(t, logger)
	}
}

func TestOrNop(t *testing.T) {
	assert.NotNil(t, OrNop(nil))
}
