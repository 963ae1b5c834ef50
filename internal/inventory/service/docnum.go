package service

import (
	"fmt"
	"sync"
	"time"

	"github.com/0zheermao0/inventory/internal/inventory/domain"
)

// DocumentNumberGenerator produces unique document numbers such as
// "RK1724900000042": prefix, second-resolution timestamp, three-digit
// sequence. The sequence disambiguates calls landing in the same second, so
// the generator is safe under concurrent posting. The database unique
// constraint on document_number remains the backstop across processes.
type DocumentNumberGenerator interface {
	Next(t domain.TransactionType) string
}

type timestampGenerator struct {
	mu       sync.Mutex
	now      func() time.Time
	lastUnix int64
	seq      int
}

func NewDocumentNumberGenerator() DocumentNumberGenerator {
	return &timestampGenerator{now: time.Now}
}

func (g *timestampGenerator) Next(t domain.TransactionType) string {
	g.mu.Lock()
	defer g.mu.Unlock()

	ts := g.now().Unix()
	if ts <= g.lastUnix {
		// Same second as the previous number (or the clock stepped back):
		// keep counting within the last reserved second.
		ts = g.lastUnix
		g.seq++
		if g.seq > 999 {
			ts++
			g.seq = 0
		}
	} else {
		g.seq = 0
	}
	g.lastUnix = ts

	return fmt.Sprintf("%s%d%03d", t.DocumentPrefix(), ts, g.seq)
}
