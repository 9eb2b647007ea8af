//go:build windows

package gui

import (
	"context"
	"fmt"
	"runtime"
	"sync/atomic"
	"syscall"
	"unsafe"

	"github.com/rs/zerolog"
	"golang.org/x/sys/windows"

	"mwoverlay/esp"
)

const (
	// Posted from other threads to destroy the window on its own thread.
	wmAppQuit = WM_APP + 1

	// Checkbox states are re-synced on this timer so hotkey changes show up.
	syncTimerID = 1
	syncEveryMs = 200
)

// SettingsWindow is the "ESP Features" window: one checkbox per display
// toggle. It runs its own message loop on a locked OS thread.
type SettingsWindow struct {
	hwnd     windows.Handle
	controls []Control
	checks   map[int]windows.Handle

	visible atomic.Bool
	ready   chan bool
	done    chan struct{}
	log     zerolog.Logger
}

func NewSettingsWindow(toggles *esp.Toggles, log zerolog.Logger) (*SettingsWindow, error) {
	sw := &SettingsWindow{
		controls: Controls(toggles),
		checks:   make(map[int]windows.Handle),
		ready:    make(chan bool),
		done:     make(chan struct{}),
		log:      log.With().Str("component", "settings").Logger(),
	}

	// Create window in separate goroutine with dedicated OS thread
	go sw.runWindow()

	<-sw.ready

	if sw.hwnd == 0 {
		return nil, fmt.Errorf("failed to create settings window")
	}
	return sw, nil
}

func (sw *SettingsWindow) runWindow() {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	defer close(sw.done)

	className, _ := syscall.UTF16PtrFromString("MWOverlaySettingsClass")
	windowName, _ := syscall.UTF16PtrFromString("ESP Features")

	hInstance, _, _ := procGetModuleHandle.Call(0)

	wc := WNDCLASSEX{
		Size:       uint32(unsafe.Sizeof(WNDCLASSEX{})),
		Style:      0x0003, // CS_HREDRAW | CS_VREDRAW
		WndProc:    syscall.NewCallback(sw.wndProc),
		Instance:   windows.Handle(hInstance),
		Background: COLOR_BTNFACE + 1,
		ClassName:  className,
	}

	atom, _, _ := procRegisterClassEx.Call(uintptr(unsafe.Pointer(&wc)))
	if atom == 0 {
		sw.ready <- true
		return
	}

	height := 50 + 30*len(sw.controls)
	hwnd, _, _ := procCreateWindowExW.Call(
		WS_EX_TOOLWINDOW,
		uintptr(unsafe.Pointer(className)),
		uintptr(unsafe.Pointer(windowName)),
		WS_CAPTION|WS_SYSMENU,
		100, 100, // x, y
		240, uintptr(height),
		0, 0,
		hInstance,
		0,
	)
	sw.hwnd = windows.Handle(hwnd)

	if hwnd != 0 {
		sw.createControls()
		procSetTimer.Call(hwnd, syncTimerID, syncEveryMs, 0)
	}

	sw.ready <- true
	if hwnd == 0 {
		return
	}

	sw.messageLoop()
}

func (sw *SettingsWindow) messageLoop() {
	msg := &MSG{}
	for {
		ret, _, _ := procGetMessage.Call(uintptr(unsafe.Pointer(msg)), 0, 0, 0)
		if ret == 0 || int32(ret) == -1 {
			break
		}

		// TAB navigation between checkboxes
		isDialog, _, _ := procIsDialogMessage.Call(uintptr(sw.hwnd), uintptr(unsafe.Pointer(msg)))
		if isDialog == 0 {
			procTranslateMessage.Call(uintptr(unsafe.Pointer(msg)))
			procDispatchMessage.Call(uintptr(unsafe.Pointer(msg)))
		}
	}
}

func (sw *SettingsWindow) createControls() {
	hInstance, _, _ := procGetModuleHandle.Call(0)
	buttonClass, _ := syscall.UTF16PtrFromString("BUTTON")

	y := 10
	for _, c := range sw.controls {
		label, _ := syscall.UTF16PtrFromString(c.Label)
		hwnd, _, _ := procCreateWindowExW.Call(
			0,
			uintptr(unsafe.Pointer(buttonClass)),
			uintptr(unsafe.Pointer(label)),
			WS_CHILD|WS_VISIBLE|WS_TABSTOP|BS_AUTOCHECKBOX,
			15, uintptr(y), 200, 22,
			uintptr(sw.hwnd), uintptr(c.ID), hInstance, 0,
		)
		sw.checks[c.ID] = windows.Handle(hwnd)
		y += 30
	}
	sw.syncChecks()
}

// syncChecks makes every checkbox reflect its toggle.
func (sw *SettingsWindow) syncChecks() {
	for _, c := range sw.controls {
		state := uintptr(0)
		if c.Checked() {
			state = BST_CHECKED
		}
		procSendMessage.Call(uintptr(sw.checks[c.ID]), BM_SETCHECK, state, 0)
	}
}

func (sw *SettingsWindow) wndProc(hwnd windows.Handle, msg uint32, wParam, lParam uintptr) uintptr {
	switch msg {
	case WM_COMMAND:
		cmdID := int(wParam & 0xFFFF)
		notifyCode := (wParam >> 16) & 0xFFFF

		if notifyCode == BN_CLICKED {
			if c, ok := ControlByID(sw.controls, cmdID); ok {
				on := c.Toggle()
				sw.log.Info().Str("feature", c.Label).Bool("enabled", on).Msg("toggle changed")
				sw.syncChecks()
			}
		}

	case WM_TIMER:
		if wParam == syncTimerID {
			sw.syncChecks()
		}
		return 0

	case WM_CLOSE:
		sw.Hide()
		return 0

	case wmAppQuit:
		procKillTimer.Call(uintptr(hwnd), syncTimerID)
		procDestroyWindow.Call(uintptr(hwnd))
		return 0

	case WM_DESTROY:
		procPostQuitMessage.Call(0)
		return 0
	}

	ret, _, _ := procDefWindowProc.Call(uintptr(hwnd), uintptr(msg), wParam, lParam)
	return ret
}

func (sw *SettingsWindow) Show() {
	sw.visible.Store(true)
	procShowWindow.Call(uintptr(sw.hwnd), SW_SHOW)
	procSetWindowPos.Call(
		uintptr(sw.hwnd),
		HWND_TOPMOST,
		0, 0, 0, 0,
		SWP_NOMOVE|SWP_NOSIZE|SWP_SHOWWINDOW,
	)
}

func (sw *SettingsWindow) Hide() {
	sw.visible.Store(false)
	procShowWindow.Call(uintptr(sw.hwnd), SW_HIDE)
}

func (sw *SettingsWindow) IsVisible() bool {
	return sw.visible.Load()
}

func (sw *SettingsWindow) Toggle() {
	if sw.visible.Load() {
		sw.Hide()
	} else {
		sw.Show()
	}
}

// Run blocks until ctx is done, then closes the window and waits for its
// message loop to exit.
func (sw *SettingsWindow) Run(ctx context.Context) error {
	<-ctx.Done()
	procPostMessage.Call(uintptr(sw.hwnd), wmAppQuit, 0, 0)
	<-sw.done
	return nil
}
