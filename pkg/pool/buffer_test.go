package pool

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndex(t *testing.T) {
	tests := []struct {
		size int
		want int
	}{
		{0, 0},
		{1, 0},
		{64, 0},
		{65, 1},
		{128, 1},
		{129, 2},
		{1024, 4},
		{1 << 25, 19},
		{1<<25 + 1, 20},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, index(tt.size), "size %d", tt.size)
	}
}

func TestBufferPool_GetReturnsEmptyBuffer(t *testing.T) {
	p := New()

	b := p.Get()
	b.WriteString("payload")
	p.Put(b)

	got := p.Get()
	assert.Zero(t, got.Len())
}

func TestBufferPool_PutNil(t *testing.T) {
	assert.NotPanics(t, func() { New().Put(nil) })
}

func TestBufferPool_Calibrate(t *testing.T) {
	p := New()

	small := bytes.NewBuffer(make([]byte, 0, 1024))
	for i := 0; i < calibrateThreshold; i++ {
		p.Put(small)
	}
	// trips calibration
	p.Put(small)

	assert.Equal(t, uint64(1024), p.DefaultSize())
	assert.Equal(t, uint64(1024), p.MaxSize())

	b := p.Get()
	require.NotNil(t, b)
	assert.GreaterOrEqual(t, b.Cap(), 1024)
}

func TestBufferPool_DropsOversizedAfterCalibration(t *testing.T) {
	p := New()
	p.defaultSize = 1024
	p.maxSize = 1024

	big := bytes.NewBuffer(make([]byte, 0, 1<<20))
	big.WriteString("x")
	p.Put(big)

	// dropped buffers are not reset
	assert.Equal(t, 1, big.Len())
}
