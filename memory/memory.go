package memory

import (
	"encoding/binary"
	"fmt"
	"math"

	"mwoverlay/geom"
)

// Reader is the remote-process accessor. ReadMemory copies len(buf) bytes
// starting at addr; n < len(buf) with a nil error is a short read.
type Reader interface {
	ReadMemory(addr uintptr, buf []byte) (n int, err error)
}

// Widths of the supported decodes.
const (
	SizeI32    = 4
	SizePtr    = 4 // target is a 32-bit process
	SizeF32    = 4
	SizeVec3   = 3 * SizeF32
	SizeMatrix = 16 * SizeF32
)

// ReadError reports a failed read of Width bytes at Addr.
type ReadError struct {
	Addr  uintptr
	Width int
	Err   error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("read %d bytes at 0x%X: %v", e.Width, e.Addr, e.Err)
}

func (e *ReadError) Unwrap() error { return e.Err }

// DecodeError reports a read that returned fewer bytes than the decode needs.
type DecodeError struct {
	Addr      uintptr
	Want, Got int
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode at 0x%X: want %d bytes, got %d", e.Addr, e.Want, e.Got)
}

func read(r Reader, addr uintptr, buf []byte) error {
	n, err := r.ReadMemory(addr, buf)
	if err != nil {
		return &ReadError{Addr: addr, Width: len(buf), Err: err}
	}
	if n != len(buf) {
		return &DecodeError{Addr: addr, Want: len(buf), Got: n}
	}
	return nil
}

// ReadU32 lê 4 bytes little-endian
func ReadU32(r Reader, addr uintptr) (uint32, error) {
	var buf [SizeI32]byte
	if err := read(r, addr, buf[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(buf[:]), nil
}

// ReadI32 reads a two's-complement int32.
func ReadI32(r Reader, addr uintptr) (int32, error) {
	v, err := ReadU32(r, addr)
	return int32(v), err
}

// ReadPtr reads a 4-byte pointer of the target process.
func ReadPtr(r Reader, addr uintptr) (uintptr, error) {
	v, err := ReadU32(r, addr)
	return uintptr(v), err
}

// ReadF32 reads an IEEE-754 float32.
func ReadF32(r Reader, addr uintptr) (float32, error) {
	v, err := ReadU32(r, addr)
	return math.Float32frombits(v), err
}

// ReadString reads size bytes and returns the prefix up to the first NUL or
// non-printable byte.
func ReadString(r Reader, addr uintptr, size int) (string, error) {
	if size <= 0 {
		return "", nil
	}
	buf := make([]byte, size)
	if err := read(r, addr, buf); err != nil {
		return "", err
	}
	for i, b := range buf {
		if b == 0 || !IsPrintable(b) {
			return string(buf[:i]), nil
		}
	}
	return string(buf), nil
}

// ReadVec3 reads three consecutive float32 values.
func ReadVec3(r Reader, addr uintptr) (geom.Vec3, error) {
	var buf [SizeVec3]byte
	if err := read(r, addr, buf[:]); err != nil {
		return geom.Vec3{}, err
	}
	return geom.Vec3{
		X: f32(buf[0:4]),
		Y: f32(buf[4:8]),
		Z: f32(buf[8:12]),
	}, nil
}

// ReadMatrix reads sixteen float32 values in row-major order.
func ReadMatrix(r Reader, addr uintptr) (geom.Matrix4x4, error) {
	var buf [SizeMatrix]byte
	var m geom.Matrix4x4
	if err := read(r, addr, buf[:]); err != nil {
		return m, err
	}
	for i := range m {
		m[i] = f32(buf[i*4 : i*4+4])
	}
	return m, nil
}

func f32(b []byte) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(b))
}

// IsPrintable reports printable ASCII: 0x20-0x7E plus the ASCII
// whitespace controls.
func IsPrintable(b byte) bool {
	switch {
	case b >= 0x20 && b <= 0x7E:
		return true
	case b == '\t', b == '\n', b == '\r', b == '\v', b == '\f':
		return true
	}
	return false
}

// IsValidPtr verifica se um ponteiro está no espaço de usuário de 32 bits.
// The upper bound admits large-address-aware executables.
func IsValidPtr(ptr uintptr) bool {
	return ptr > 0x10000 && ptr < 0xFFFF0000
}
