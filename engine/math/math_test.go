package math

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClamp(t *testing.T) {
	assert.Equal(t, 0.1, Clamp(0.05, 0.1, 0.5))
	assert.Equal(t, 10, Clamp(42, 1, 10))
	assert.Equal(t, float32(0.3), Clamp(float32(0.3), 0, 1))
}

func TestLerp(t *testing.T) {
	assert.InDelta(t, 5.0, Lerp(0.0, 10.0, 0.5), 1e-9)
}

func TestByteConversion(t *testing.T) {
	assert.Equal(t, uint8(255), ToByte(2))
	assert.Equal(t, uint8(0), ToByte(-1))
	assert.Equal(t, uint8(128), ToByte(FromByte(128)))
}

func TestRectIntersect(t *testing.T) {
	a := NewRect(0, 0, 10, 10)
	assert.Equal(t, NewRect(5, 5, 10, 10), a.Intersect(NewRect(5, 5, 20, 20)))
	assert.True(t, a.Intersect(NewRect(10, 10, 20, 20)).Empty())
}

func TestVec4Saturate(t *testing.T) {
	v := NewVec4Create(2, -1, 0.5, 1).Saturate()
	assert.Equal(t, NewVec4Create(1, 0, 0.5, 1), v)
}
