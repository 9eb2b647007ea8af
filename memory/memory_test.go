package memory_test

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mwoverlay/geom"
	"mwoverlay/memory"
	"mwoverlay/memory/memtest"
)

func TestReadScalars(t *testing.T) {
	s := memtest.New()
	s.PutU32(0x1000, 0xFFFFFFFE)
	s.PutF32(0x1004, 45.5)
	s.PutPtr(0x1008, 0x00ABCDEF)

	i, err := memory.ReadI32(s, 0x1000)
	require.NoError(t, err)
	assert.Equal(t, int32(-2), i)

	u, err := memory.ReadU32(s, 0x1000)
	require.NoError(t, err)
	assert.Equal(t, uint32(0xFFFFFFFE), u)

	f, err := memory.ReadF32(s, 0x1004)
	require.NoError(t, err)
	assert.Equal(t, float32(45.5), f)

	p, err := memory.ReadPtr(s, 0x1008)
	require.NoError(t, err)
	assert.Equal(t, uintptr(0x00ABCDEF), p)
}

func TestReadVec3AndMatrix(t *testing.T) {
	s := memtest.New()
	s.PutVec3(0x2000, geom.Vec3{X: 10, Y: -0.5, Z: 5})
	m := geom.Matrix4x4{}
	for i := range m {
		m[i] = float32(i) * 1.5
	}
	s.PutMatrix(0x3000, m)

	v, err := memory.ReadVec3(s, 0x2000)
	require.NoError(t, err)
	assert.Equal(t, geom.Vec3{X: 10, Y: -0.5, Z: 5}, v)

	got, err := memory.ReadMatrix(s, 0x3000)
	require.NoError(t, err)
	assert.Equal(t, m, got)
}

func TestReadString(t *testing.T) {
	tests := []struct {
		name string
		raw  []byte
		want string
	}{
		{"nul terminated", []byte("Fargoth\x00garbage"), "Fargoth"},
		{"control byte stops", []byte("Rat\x01\x02xyz"), "Rat"},
		{"high byte stops", []byte("Caius\xC3\xA9"), "Caius"},
		{"tab is printable", []byte("a\tb\x00"), "a\tb"},
		{"fills whole buffer", []byte("ABCDEFGH"), "ABCDEFGH"},
		{"empty", []byte{0, 'x'}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := memtest.New()
			buf := make([]byte, 8)
			copy(buf, tt.raw)
			s.Write(0x4000, buf)

			got, err := memory.ReadString(s, 0x4000, 8)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReadError(t *testing.T) {
	s := memtest.New()
	s.PutU32(0x5000, 1)

	_, err := memory.ReadF32(s, 0x6000)
	var re *memory.ReadError
	require.True(t, errors.As(err, &re))
	assert.Equal(t, uintptr(0x6000), re.Addr)
	assert.Equal(t, memory.SizeF32, re.Width)
	assert.ErrorIs(t, err, memtest.ErrUnmapped)

	_, err = memory.ReadMatrix(s, 0x5000)
	require.True(t, errors.As(err, &re))
	assert.Equal(t, memory.SizeMatrix, re.Width)
}

func TestReadErrorFromAccessor(t *testing.T) {
	closed := errors.New("handle closed")
	s := memtest.New()
	s.PutU32(0x7000, 1)
	s.FailAt(0x7002, closed)

	_, err := memory.ReadU32(s, 0x7000)
	assert.ErrorIs(t, err, closed)
	assert.Contains(t, err.Error(), "0x7000")
}

func TestDecodeErrorOnShortRead(t *testing.T) {
	s := memtest.New()
	s.PutVec3(0x8000, geom.Vec3{X: 1, Y: 2, Z: 3})
	s.ShortAt(0x8000, 8)

	_, err := memory.ReadVec3(s, 0x8000)
	var de *memory.DecodeError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, memory.SizeVec3, de.Want)
	assert.Equal(t, 8, de.Got)
}

func TestIsPrintable(t *testing.T) {
	for b := 0; b < 256; b++ {
		want := (b >= 0x20 && b <= 0x7E) || b == 9 || b == 10 || b == 11 || b == 12 || b == 13
		assert.Equal(t, want, memory.IsPrintable(byte(b)), "byte 0x%02X", b)
	}
}

func TestIsValidPtr(t *testing.T) {
	assert.False(t, memory.IsValidPtr(0))
	assert.False(t, memory.IsValidPtr(0x10000))
	assert.True(t, memory.IsValidPtr(0x00400000))
	assert.True(t, memory.IsValidPtr(0x80001000))
	assert.False(t, memory.IsValidPtr(math.MaxUint32))
}
