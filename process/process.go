//go:build windows

package process

import (
	"errors"
	"strings"
	"unsafe"

	"golang.org/x/sys/windows"
)

// Read-only access is all the overlay needs.
const readAccess = windows.PROCESS_VM_READ | windows.PROCESS_QUERY_LIMITED_INFORMATION

const stillActive = 259

var errNotFound = errors.New("not found")

// FindProcess encontra um processo pelo nome
func FindProcess(name string) (uint32, error) {
	snap, err := windows.CreateToolhelp32Snapshot(windows.TH32CS_SNAPPROCESS, 0)
	if err != nil {
		return 0, &AttachError{Stage: "find", Name: name, Err: err}
	}
	defer windows.CloseHandle(snap)

	var pe windows.ProcessEntry32
	pe.Size = uint32(unsafe.Sizeof(pe))

	if err := windows.Process32First(snap, &pe); err != nil {
		return 0, &AttachError{Stage: "find", Name: name, Err: err}
	}
	for {
		if strings.EqualFold(windows.UTF16ToString(pe.ExeFile[:]), name) {
			return pe.ProcessID, nil
		}
		if err := windows.Process32Next(snap, &pe); err != nil {
			break
		}
	}
	return 0, &AttachError{Stage: "find", Name: name, Err: errNotFound}
}

// GetModuleBase obtém o endereço base de um módulo
func GetModuleBase(pid uint32, moduleName string) (uintptr, error) {
	snap, err := windows.CreateToolhelp32Snapshot(windows.TH32CS_SNAPMODULE|windows.TH32CS_SNAPMODULE32, pid)
	if err != nil {
		return 0, &AttachError{Stage: "module", Name: moduleName, Err: err}
	}
	defer windows.CloseHandle(snap)

	var me windows.ModuleEntry32
	me.Size = uint32(unsafe.Sizeof(me))

	if err := windows.Module32First(snap, &me); err != nil {
		return 0, &AttachError{Stage: "module", Name: moduleName, Err: err}
	}
	for {
		if strings.EqualFold(windows.UTF16ToString(me.Module[:]), moduleName) {
			return me.ModBaseAddr, nil
		}
		if err := windows.Module32Next(snap, &me); err != nil {
			break
		}
	}
	return 0, &AttachError{Stage: "module", Name: moduleName, Err: errNotFound}
}

// OpenProcess abre um processo somente para leitura
func OpenProcess(pid uint32) (windows.Handle, error) {
	handle, err := windows.OpenProcess(readAccess, false, pid)
	if err != nil {
		return 0, err
	}
	return handle, nil
}

// Target is an attached, read-only view of the game process. It implements
// memory.Reader.
type Target struct {
	Name   string
	PID    uint32
	handle windows.Handle
	base   uintptr
}

// Attach finds processName, resolves the base of moduleName inside it and
// opens a read handle. Every failure is an *AttachError.
func Attach(processName, moduleName string) (*Target, error) {
	pid, err := FindProcess(processName)
	if err != nil {
		return nil, err
	}
	base, err := GetModuleBase(pid, moduleName)
	if err != nil {
		return nil, err
	}
	handle, err := OpenProcess(pid)
	if err != nil {
		return nil, &AttachError{Stage: "open", Name: processName, Err: err}
	}
	return &Target{Name: processName, PID: pid, handle: handle, base: base}, nil
}

func (t *Target) ModuleBase() uintptr {
	return t.base
}

// ReadMemory copies len(buf) bytes at addr. A partial copy returns the
// bytes read together with the error.
func (t *Target) ReadMemory(addr uintptr, buf []byte) (int, error) {
	if len(buf) == 0 {
		return 0, nil
	}
	var n uintptr
	err := windows.ReadProcessMemory(t.handle, addr, &buf[0], uintptr(len(buf)), &n)
	return int(n), err
}

// Alive reports whether the process is still running.
func (t *Target) Alive() bool {
	var code uint32
	if err := windows.GetExitCodeProcess(t.handle, &code); err != nil {
		return false
	}
	return code == stillActive
}

func (t *Target) Close() error {
	return windows.CloseHandle(t.handle)
}
