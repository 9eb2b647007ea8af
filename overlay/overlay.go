//go:build windows

package overlay

import (
	"syscall"
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	user32             = windows.NewLazyDLL("user32.dll")
	procFindWindow     = user32.NewProc("FindWindowW")
	procGetClientRect  = user32.NewProc("GetClientRect")
	procClientToScreen = user32.NewProc("ClientToScreen")
	procIsIconic       = user32.NewProc("IsIconic")
	procMonitorFromWin = user32.NewProc("MonitorFromWindow")
	procGetMonitorInfo = user32.NewProc("GetMonitorInfoW")
)

const MONITOR_DEFAULTTONEAREST = 2

type rect struct {
	Left   int32
	Top    int32
	Right  int32
	Bottom int32
}

type point struct {
	X int32
	Y int32
}

type monitorInfo struct {
	CbSize    uint32
	RcMonitor rect
	RcWork    rect
	DwFlags   uint32
}

// FindGameWindow encontra a janela do jogo
func FindGameWindow(className, windowName string) (uintptr, error) {
	var classNamePtr, windowNamePtr *uint16
	var err error

	if className != "" {
		classNamePtr, err = syscall.UTF16PtrFromString(className)
		if err != nil {
			return 0, err
		}
	}

	if windowName != "" {
		windowNamePtr, err = syscall.UTF16PtrFromString(windowName)
		if err != nil {
			return 0, err
		}
	}

	ret, _, _ := procFindWindow.Call(
		uintptr(unsafe.Pointer(classNamePtr)),
		uintptr(unsafe.Pointer(windowNamePtr)),
	)
	if ret == 0 {
		return 0, &WindowNotFoundError{Title: windowName}
	}
	return ret, nil
}

// GetClientArea returns the client rectangle of the window titled title,
// in screen coordinates. A minimized window yields an empty area.
func GetClientArea(title string) (ClientArea, error) {
	hwnd, err := FindGameWindow("", title)
	if err != nil {
		return ClientArea{}, err
	}
	return clientArea(hwnd)
}

func clientArea(hwnd uintptr) (ClientArea, error) {
	if iconic, _, _ := procIsIconic.Call(hwnd); iconic != 0 {
		return ClientArea{}, nil
	}

	var rc rect
	ret, _, err := procGetClientRect.Call(hwnd, uintptr(unsafe.Pointer(&rc)))
	if ret == 0 {
		return ClientArea{}, err
	}

	// Client origin in screen coordinates.
	var origin point
	ret, _, err = procClientToScreen.Call(hwnd, uintptr(unsafe.Pointer(&origin)))
	if ret == 0 {
		return ClientArea{}, err
	}

	return ClientArea{
		Left:   int(origin.X),
		Top:    int(origin.Y),
		Width:  int(rc.Right - rc.Left),
		Height: int(rc.Bottom - rc.Top),
	}, nil
}

// MonitorOrigin returns the top-left corner, in physical screen pixels, of
// the monitor showing the window titled title. Before that window exists
// it returns the primary monitor's origin, (0, 0).
func MonitorOrigin(title string) (x, y int) {
	hwnd, err := FindGameWindow("", title)
	if err != nil {
		return 0, 0
	}
	hmon, _, _ := procMonitorFromWin.Call(hwnd, MONITOR_DEFAULTTONEAREST)
	if hmon == 0 {
		return 0, 0
	}

	mi := monitorInfo{CbSize: uint32(unsafe.Sizeof(monitorInfo{}))}
	if ret, _, _ := procGetMonitorInfo.Call(hmon, uintptr(unsafe.Pointer(&mi))); ret == 0 {
		return 0, 0
	}
	return int(mi.RcMonitor.Left), int(mi.RcMonitor.Top)
}
