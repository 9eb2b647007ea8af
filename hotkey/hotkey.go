//go:build windows

package hotkey

import (
	"context"
	"runtime"
	"time"
	"unsafe"

	"github.com/rs/zerolog"
	"golang.org/x/sys/windows"
)

var (
	user32               = windows.NewLazyDLL("user32.dll")
	procRegisterHotKey   = user32.NewProc("RegisterHotKey")
	procUnregisterHotKey = user32.NewProc("UnregisterHotKey")
	procPeekMessage      = user32.NewProc("PeekMessageW")
)

const (
	WM_HOTKEY = 0x0312
	PM_REMOVE = 0x0001
)

type HotkeyCallback func()

type binding struct {
	id       int
	key      Key
	callback HotkeyCallback
}

// Manager owns a set of global hotkeys. Hotkeys are thread-bound, so they
// are registered, pumped and released on the single OS thread Run locks.
type Manager struct {
	bindings []binding
	log      zerolog.Logger
}

func NewManager(log zerolog.Logger) *Manager {
	return &Manager{log: log.With().Str("component", "hotkey").Logger()}
}

// Bind queues key for registration when Run starts. Must be called before Run.
func (m *Manager) Bind(key Key, callback HotkeyCallback) {
	m.bindings = append(m.bindings, binding{
		id:       len(m.bindings) + 1,
		key:      key,
		callback: callback,
	})
}

// Run registers every bound key and dispatches WM_HOTKEY until ctx is done.
// A key that cannot be registered (e.g. taken by another program) is logged
// and skipped.
func (m *Manager) Run(ctx context.Context) error {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	callbacks := make(map[int]HotkeyCallback, len(m.bindings))
	for _, b := range m.bindings {
		ret, _, err := procRegisterHotKey.Call(
			0, // thread message queue
			uintptr(b.id),
			uintptr(b.key.Mods|MOD_NOREPEAT),
			uintptr(b.key.VK),
		)
		if ret == 0 {
			m.log.Warn().Err(err).Stringer("key", b.key).Msg("falha ao registrar hotkey")
			continue
		}
		callbacks[b.id] = b.callback
		m.log.Debug().Stringer("key", b.key).Int("id", b.id).Msg("hotkey registered")
	}
	defer func() {
		for id := range callbacks {
			procUnregisterHotKey.Call(0, uintptr(id))
		}
	}()

	type MSG struct {
		hwnd    uintptr
		message uint32
		wParam  uintptr
		lParam  uintptr
		time    uint32
		pt      struct{ x, y int32 }
	}
	msg := &MSG{}

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		// PeekMessage non-blocking
		ret, _, _ := procPeekMessage.Call(uintptr(unsafe.Pointer(msg)), 0, 0, 0, PM_REMOVE)
		if ret == 0 {
			// No messages, sleep to avoid 100% CPU
			time.Sleep(10 * time.Millisecond)
			continue
		}
		if msg.message != WM_HOTKEY {
			continue
		}
		if cb, ok := callbacks[int(msg.wParam)]; ok && cb != nil {
			cb()
		}
	}
}
