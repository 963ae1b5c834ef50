package service

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/0zheermao0/inventory/internal/inventory/domain"
)

func TestDocumentNumberGenerator_Prefixes(t *testing.T) {
	fixed := time.Unix(1724900000, 0)
	g := &timestampGenerator{now: func() time.Time { return fixed }}

	assert.Equal(t, "RK1724900000000", g.Next(domain.TypeIn))
	assert.Equal(t, "CK1724900000001", g.Next(domain.TypeOut))
}

func TestDocumentNumberGenerator_SameInstant(t *testing.T) {
	// A frozen clock is the worst case: every call lands in the same second.
	fixed := time.Unix(1724900000, 0)
	g := &timestampGenerator{now: func() time.Time { return fixed }}

	seen := make(map[string]bool)
	for i := 0; i < 1500; i++ {
		num := g.Next(domain.TypeIn)
		assert.False(t, seen[num], "duplicate document number %s", num)
		seen[num] = true
	}
	assert.Len(t, seen, 1500)
}

func TestDocumentNumberGenerator_Concurrent(t *testing.T) {
	g := NewDocumentNumberGenerator()

	const goroutines = 50
	const perGoroutine = 40

	var mu sync.Mutex
	seen := make(map[string]bool)

	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perGoroutine; j++ {
				num := g.Next(domain.TypeOut)
				mu.Lock()
				seen[num] = true
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Len(t, seen, goroutines*perGoroutine)
}

func TestDocumentNumberGenerator_ClockStepBack(t *testing.T) {
	times := []time.Time{
		time.Unix(1724900010, 0),
		time.Unix(1724900005, 0), // clock stepped back
	}
	idx := 0
	g := &timestampGenerator{now: func() time.Time {
		ts := times[idx]
		if idx < len(times)-1 {
			idx++
		}
		return ts
	}}

	first := g.Next(domain.TypeIn)
	second := g.Next(domain.TypeIn)
	assert.NotEqual(t, first, second)
	assert.Equal(t, "RK1724900010000", first)
	assert.Equal(t, "RK1724900010001", second)
}
