//go:build windows

package gui

import (
	"golang.org/x/sys/windows"
)

var (
	user32   = windows.NewLazyDLL("user32.dll")
	kernel32 = windows.NewLazyDLL("kernel32.dll")

	// Window management
	procCreateWindowExW  = user32.NewProc("CreateWindowExW")
	procDefWindowProc    = user32.NewProc("DefWindowProcW")
	procRegisterClassEx  = user32.NewProc("RegisterClassExW")
	procGetMessage       = user32.NewProc("GetMessageW")
	procTranslateMessage = user32.NewProc("TranslateMessage")
	procDispatchMessage  = user32.NewProc("DispatchMessageW")
	procIsDialogMessage  = user32.NewProc("IsDialogMessageW")
	procPostQuitMessage  = user32.NewProc("PostQuitMessage")
	procPostMessage      = user32.NewProc("PostMessageW")
	procShowWindow       = user32.NewProc("ShowWindow")
	procSendMessage      = user32.NewProc("SendMessageW")
	procSetWindowPos     = user32.NewProc("SetWindowPos")
	procDestroyWindow    = user32.NewProc("DestroyWindow")
	procSetTimer         = user32.NewProc("SetTimer")
	procKillTimer        = user32.NewProc("KillTimer")

	// Kernel
	procGetModuleHandle = kernel32.NewProc("GetModuleHandleW")
)

const (
	// Window styles
	WS_CAPTION = 0x00C00000
	WS_SYSMENU = 0x00080000
	WS_VISIBLE = 0x10000000
	WS_CHILD   = 0x40000000
	WS_TABSTOP = 0x00010000

	// Extended window styles
	WS_EX_TOOLWINDOW = 0x00000080

	// Window positioning
	HWND_TOPMOST   = ^uintptr(0)
	SWP_NOMOVE     = 0x0002
	SWP_NOSIZE     = 0x0001
	SWP_SHOWWINDOW = 0x0040

	// Show window
	SW_SHOW = 5
	SW_HIDE = 0

	// Messages
	WM_DESTROY = 0x0002
	WM_CLOSE   = 0x0010
	WM_COMMAND = 0x0111
	WM_TIMER   = 0x0113
	WM_APP     = 0x8000

	// Button styles
	BS_AUTOCHECKBOX = 0x00000003

	// Button messages
	BM_GETCHECK = 0x00F0
	BM_SETCHECK = 0x00F1
	BST_CHECKED = 1

	// Button notifications
	BN_CLICKED = 0

	COLOR_BTNFACE = 15
)

type WNDCLASSEX struct {
	Size       uint32
	Style      uint32
	WndProc    uintptr
	ClsExtra   int32
	WndExtra   int32
	Instance   windows.Handle
	Icon       windows.Handle
	Cursor     windows.Handle
	Background windows.Handle
	MenuName   *uint16
	ClassName  *uint16
	IconSm     windows.Handle
}

type MSG struct {
	Hwnd    windows.Handle
	Message uint32
	WParam  uintptr
	LParam  uintptr
	Time    uint32
	Pt      struct {
		X int32
		Y int32
	}
}

// MessageBox mostra uma caixa de mensagem bloqueante
func MessageBox(title, text string, flags uint32) {
	t, _ := windows.UTF16PtrFromString(title)
	m, _ := windows.UTF16PtrFromString(text)
	windows.MessageBox(0, m, t, flags)
}
