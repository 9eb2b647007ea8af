package hotkey

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Modifier keys
const (
	MOD_ALT      = 0x0001
	MOD_CONTROL  = 0x0002
	MOD_SHIFT    = 0x0004
	MOD_WIN      = 0x0008
	MOD_NOREPEAT = 0x4000
)

// Virtual key codes
const (
	VK_F1      = 0x70
	VK_F5      = 0x74
	VK_F9      = 0x78
	VK_F24     = 0x87
	VK_NUMPAD0 = 0x60
	VK_INSERT  = 0x2D
	VK_DELETE  = 0x2E
	VK_HOME    = 0x24
	VK_END     = 0x23
	VK_PRIOR   = 0x21
	VK_NEXT    = 0x22
	VK_PAUSE   = 0x13
	VK_SCROLL  = 0x91
)

// ErrUnbound is returned for an empty key name.
var ErrUnbound = errors.New("no key bound")

var namedKeys = map[string]uint32{
	"INSERT":   VK_INSERT,
	"INS":      VK_INSERT,
	"DELETE":   VK_DELETE,
	"DEL":      VK_DELETE,
	"HOME":     VK_HOME,
	"END":      VK_END,
	"PAGEUP":   VK_PRIOR,
	"PGUP":     VK_PRIOR,
	"PAGEDOWN": VK_NEXT,
	"PGDN":     VK_NEXT,
	"PAUSE":    VK_PAUSE,
	"SCROLL":   VK_SCROLL,
}

var modifierNames = map[string]uint32{
	"CTRL":    MOD_CONTROL,
	"CONTROL": MOD_CONTROL,
	"ALT":     MOD_ALT,
	"SHIFT":   MOD_SHIFT,
	"WIN":     MOD_WIN,
}

// Key is a parsed hotkey: modifiers plus one virtual key.
type Key struct {
	Mods uint32
	VK   uint32
	Name string
}

func (k Key) String() string { return k.Name }

// ParseKey parses names like "F5", "ctrl+shift+F9", "NUMPAD3", "X" or
// "PageUp". Matching is case-insensitive.
func ParseKey(name string) (Key, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Key{}, ErrUnbound
	}

	parts := strings.Split(strings.ToUpper(name), "+")
	var mods uint32
	for _, p := range parts[:len(parts)-1] {
		m, ok := modifierNames[strings.TrimSpace(p)]
		if !ok {
			return Key{}, fmt.Errorf("unknown modifier %q in %q", p, name)
		}
		mods |= m
	}

	vk, err := parseVK(strings.TrimSpace(parts[len(parts)-1]))
	if err != nil {
		return Key{}, fmt.Errorf("hotkey %q: %w", name, err)
	}
	return Key{Mods: mods, VK: vk, Name: name}, nil
}

func parseVK(s string) (uint32, error) {
	if vk, ok := namedKeys[s]; ok {
		return vk, nil
	}
	if len(s) == 1 {
		c := s[0]
		if (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') {
			return uint32(c), nil
		}
	}
	if n, ok := numberAfter(s, "NUMPAD"); ok && n <= 9 {
		return VK_NUMPAD0 + uint32(n), nil
	}
	if n, ok := numberAfter(s, "F"); ok && n >= 1 && n <= 24 {
		return VK_F1 + uint32(n-1), nil
	}
	return 0, fmt.Errorf("unknown key %q", s)
}

func numberAfter(s, prefix string) (int, bool) {
	if !strings.HasPrefix(s, prefix) || len(s) == len(prefix) {
		return 0, false
	}
	n, err := strconv.Atoi(s[len(prefix):])
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}
