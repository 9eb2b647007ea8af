// Package memtest provides an in-memory address space that satisfies
// memory.Reader, for exercising decoders and extractors without a live process.
package memtest

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"sync"

	"mwoverlay/geom"
)

// ErrUnmapped is returned for reads touching an address that was never written.
var ErrUnmapped = errors.New("address not mapped")

// Space is a sparse byte-addressed memory image. Safe for concurrent use.
type Space struct {
	mu    sync.RWMutex
	bytes map[uintptr]byte
	fail  map[uintptr]error
	short map[uintptr]int
	reads int
}

func New() *Space {
	return &Space{
		bytes: make(map[uintptr]byte),
		fail:  make(map[uintptr]error),
		short: make(map[uintptr]int),
	}
}

// ReadMemory implements memory.Reader.
func (s *Space) ReadMemory(addr uintptr, buf []byte) (int, error) {
	s.mu.Lock()
	s.reads++
	s.mu.Unlock()

	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := range buf {
		if err, ok := s.fail[addr+uintptr(i)]; ok {
			return 0, err
		}
	}
	n := len(buf)
	if limit, ok := s.short[addr]; ok && limit < n {
		n = limit
	}
	for i := 0; i < n; i++ {
		b, ok := s.bytes[addr+uintptr(i)]
		if !ok {
			return 0, fmt.Errorf("0x%X: %w", addr+uintptr(i), ErrUnmapped)
		}
		buf[i] = b
	}
	return n, nil
}

// Reads returns how many ReadMemory calls were served.
func (s *Space) Reads() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.reads
}

// Write maps b at addr, overwriting anything already there.
func (s *Space) Write(addr uintptr, b []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, v := range b {
		s.bytes[addr+uintptr(i)] = v
	}
}

// Unmap removes n bytes starting at addr.
func (s *Space) Unmap(addr uintptr, n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := 0; i < n; i++ {
		delete(s.bytes, addr+uintptr(i))
	}
}

// FailAt makes every read covering addr fail with err.
func (s *Space) FailAt(addr uintptr, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fail[addr] = err
}

// ShortAt makes reads starting at addr return at most n bytes without error.
func (s *Space) ShortAt(addr uintptr, n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.short[addr] = n
}

func (s *Space) PutU32(addr uintptr, v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	s.Write(addr, b[:])
}

func (s *Space) PutPtr(addr, ptr uintptr) {
	s.PutU32(addr, uint32(ptr))
}

func (s *Space) PutF32(addr uintptr, v float32) {
	s.PutU32(addr, math.Float32bits(v))
}

// PutString writes str NUL-padded to size bytes (truncated if longer).
func (s *Space) PutString(addr uintptr, str string, size int) {
	b := make([]byte, size)
	copy(b, str)
	s.Write(addr, b)
}

func (s *Space) PutVec3(addr uintptr, v geom.Vec3) {
	s.PutF32(addr, v.X)
	s.PutF32(addr+4, v.Y)
	s.PutF32(addr+8, v.Z)
}

func (s *Space) PutMatrix(addr uintptr, m geom.Matrix4x4) {
	for i, v := range m {
		s.PutF32(addr+uintptr(i*4), v)
	}
}
