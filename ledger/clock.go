package ledger

import (
	"sync"
	"time"
)

// Clock fornece os carimbos de tempo de criação e compra.
type Clock interface {
	Now() time.Time
}

// MonotonicClock nunca devolve um instante anterior ao último devolvido,
// mesmo que a fonte recue (ajuste de NTP, relógio de teste).
type MonotonicClock struct {
	mu     sync.Mutex
	source func() time.Time
	last   time.Time
}

// NewMonotonicClock cria um relógio monotônico sobre a fonte informada.
func NewMonotonicClock(source func() time.Time) *MonotonicClock {
	if source == nil {
		source = time.Now
	}
	return &MonotonicClock{source: source}
}

func (c *MonotonicClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.source().UTC()
	if now.Before(c.last) {
		return c.last
	}
	c.last = now
	return now
}
