package hotkey

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKey(t *testing.T) {
	tests := []struct {
		in   string
		mods uint32
		vk   uint32
	}{
		{"F5", 0, VK_F5},
		{"f9", 0, VK_F9},
		{"F24", 0, VK_F24},
		{"ctrl+F5", MOD_CONTROL, VK_F5},
		{"Ctrl + Shift + F1", MOD_CONTROL | MOD_SHIFT, VK_F1},
		{"alt+X", MOD_ALT, 'X'},
		{"F", 0, 'F'},
		{"shift+f", MOD_SHIFT, 'F'},
		{"7", 0, '7'},
		{"NUMPAD3", 0, VK_NUMPAD0 + 3},
		{"PageUp", 0, VK_PRIOR},
		{"insert", 0, VK_INSERT},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			k, err := ParseKey(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.mods, k.Mods)
			assert.Equal(t, tt.vk, k.VK)
		})
	}
}

func TestParseKey_Errors(t *testing.T) {
	_, err := ParseKey("  ")
	assert.True(t, errors.Is(err, ErrUnbound))

	for _, in := range []string{"F0", "F25", "NUMPAD10", "hyper+F5", "XY", "ctrl+"} {
		_, err := ParseKey(in)
		assert.Error(t, err, in)
		assert.False(t, errors.Is(err, ErrUnbound), in)
	}
}
