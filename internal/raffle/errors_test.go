package raffle

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKind(t *testing.T) {
	assert.Equal(t, "InvalidParameters", Kind(ErrInvalidParameters))
	assert.Equal(t, "OnlyPlatformAuthority", Kind(ErrOnlyPlatformAuthority))
	assert.Equal(t, "TransferFailed", Kind(fmt.Errorf("claim: %w", ErrTransferFailed)))

	assert.Empty(t, Kind(nil))
	assert.Empty(t, Kind(errors.New("disk full")))
	assert.Empty(t, Kind(ErrPlatformNotInitialized))
}

func TestKindsAreDistinct(t *testing.T) {
	seen := make(map[string]bool)
	for _, k := range kinds {
		assert.True(t, IsDomainError(k.err))
		assert.False(t, seen[k.name], k.name)
		seen[k.name] = true
	}
	assert.Len(t, seen, 11)
}
