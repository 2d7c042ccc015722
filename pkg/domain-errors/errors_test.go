package domainerrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodes(t *testing.T) {
	t.Run("wrapped code survives fmt wrapping", func(t *testing.T) {
		base := New(CodeConflict, "email already registered")
		err := fmt.Errorf("create account: %w", base)

		assert.True(t, HasCode(err, CodeConflict))
		assert.False(t, HasCode(err, CodeInternal))
	})

	t.Run("wrap keeps cause reachable", func(t *testing.T) {
		cause := errors.New("connection reset")
		err := Wrap(cause, CodeInternal, "failed to load session")

		require.ErrorIs(t, err, cause)
		assert.Equal(t, "failed to load session: connection reset", err.Error())
	})

	t.Run("plain errors carry no code", func(t *testing.T) {
		_, ok := CodeOf(errors.New("boom"))
		assert.False(t, ok)
	})
}
