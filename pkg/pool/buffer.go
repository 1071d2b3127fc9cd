// Package pool recycles the byte buffers that bulk request bodies are
// encoded into. Buffers are bucketed by capacity; the pool periodically
// calibrates to the observed body sizes and drops buffers that grew beyond
// the 95th percentile so one oversized batch does not pin memory.
package pool

import (
	"bytes"
	"sort"
	"sync"
	"sync/atomic"
)

const (
	minBitSize = 6  // 64 bytes
	steps      = 20 // 64B to 32MB

	minSize = 1 << minBitSize

	calibrateThreshold = 42000
	maxPercentile      = 0.95
)

// BufferPool is a calibrated pool of *bytes.Buffer.
type BufferPool struct {
	calls       [steps]uint64
	calibrating uint64
	defaultSize uint64
	maxSize     uint64
	buckets     [steps]sync.Pool
}

// New creates an empty BufferPool.
func New() *BufferPool {
	p := &BufferPool{}
	for i := range p.buckets {
		size := minSize << i
		p.buckets[i].New = func() any {
			return bytes.NewBuffer(make([]byte, 0, size))
		}
	}
	return p
}

var defaultPool = New()

// Get returns an empty buffer from the default pool.
func Get() *bytes.Buffer { return defaultPool.Get() }

// Put returns b to the default pool.
func Put(b *bytes.Buffer) { defaultPool.Put(b) }

// Get returns an empty buffer sized for a typical body.
func (p *BufferPool) Get() *bytes.Buffer {
	size := int(atomic.LoadUint64(&p.defaultSize))
	if size == 0 {
		size = minSize
	}
	return p.buckets[index(size)].Get().(*bytes.Buffer)
}

// Put resets b and keeps it unless it outgrew the calibrated maximum.
func (p *BufferPool) Put(b *bytes.Buffer) {
	if b == nil {
		return
	}

	size := b.Cap()
	idx := index(size)
	if idx >= steps {
		return
	}

	if atomic.AddUint64(&p.calls[idx], 1) > calibrateThreshold {
		p.calibrate()
	}

	if max := atomic.LoadUint64(&p.maxSize); max > 0 && uint64(size) > max {
		return
	}

	b.Reset()
	p.buckets[idx].Put(b)
}

// DefaultSize is the capacity new buffers start with after calibration.
func (p *BufferPool) DefaultSize() uint64 {
	return atomic.LoadUint64(&p.defaultSize)
}

// MaxSize is the largest capacity the pool retains; 0 before calibration.
func (p *BufferPool) MaxSize() uint64 {
	return atomic.LoadUint64(&p.maxSize)
}

func (p *BufferPool) calibrate() {
	if !atomic.CompareAndSwapUint64(&p.calibrating, 0, 1) {
		return
	}
	defer atomic.StoreUint64(&p.calibrating, 0)

	usage := make([]bucketUsage, 0, steps)
	var total uint64
	for i := range p.calls {
		calls := atomic.SwapUint64(&p.calls[i], 0)
		total += calls
		usage = append(usage, bucketUsage{calls: calls, size: minSize << i})
	}
	sort.Slice(usage, func(i, j int) bool { return usage[i].calls > usage[j].calls })

	defaultSize := usage[0].size
	maxSize := defaultSize
	threshold := uint64(float64(total) * maxPercentile)

	var sum uint64
	for _, u := range usage {
		if sum > threshold {
			break
		}
		sum += u.calls
		if u.size > maxSize {
			maxSize = u.size
		}
	}

	atomic.StoreUint64(&p.defaultSize, defaultSize)
	atomic.StoreUint64(&p.maxSize, maxSize)
}

type bucketUsage struct {
	calls uint64
	size  uint64
}

// index maps a capacity to its bucket.
func index(n int) int {
	n--
	n >>= minBitSize
	idx := 0
	for n > 0 {
		n >>= 1
		idx++
	}
	return idx
}
