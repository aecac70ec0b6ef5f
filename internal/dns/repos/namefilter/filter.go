// Package namefilter answers "is this zone name possibly taken?" without a
// store scan. A negative answer is exact; a positive one must be confirmed.
package namefilter

import (
	"sync"

	bitsbloom "github.com/bits-and-blooms/bloom/v3"

	"github.com/haukened/zonekeeper/internal/dns/common/utils"
)

// Filter wraps a bits-and-blooms BloomFilter keyed by canonical zone names.
// Reads may run concurrently; Add and Reset are serialized.
type Filter struct {
	mu       sync.RWMutex
	bf       *bitsbloom.BloomFilter
	capacity uint
	fpRate   float64
}

// New returns an empty filter sized for capacity names at the given
// false-positive rate. Invalid parameters fall back to 1024 names at 1%.
func New(capacity uint, fpRate float64) *Filter {
	if capacity == 0 {
		capacity = 1024
	}
	if !(fpRate > 0 && fpRate < 1) {
		fpRate = 0.01
	}
	return &Filter{
		bf:       bitsbloom.NewWithEstimates(capacity, fpRate),
		capacity: capacity,
		fpRate:   fpRate,
	}
}

func key(name string) []byte {
	return []byte(utils.CanonicalDNSName(name))
}

// Add records name as taken.
func (f *Filter) Add(name string) {
	f.mu.Lock()
	f.bf.Add(key(name))
	f.mu.Unlock()
}

// MightContain reports false only when name was never added since the last Reset.
func (f *Filter) MightContain(name string) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.bf.Test(key(name))
}

// Reset replaces the filter contents with names. Bloom filters cannot forget
// single keys, so deleted zones linger as false positives until the next Reset.
func (f *Filter) Reset(names []string) {
	bf := bitsbloom.NewWithEstimates(f.capacity, f.fpRate)
	for _, n := range names {
		bf.Add(key(n))
	}
	f.mu.Lock()
	f.bf = bf
	f.mu.Unlock()
}

// Approx estimates how many distinct names have been added.
func (f *Filter) Approx() uint32 {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.bf.ApproximatedSize()
}
