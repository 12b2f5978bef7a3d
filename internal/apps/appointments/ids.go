package appointments

import (
	"strconv"
	"sync"
	"time"
)

// idGenerator hands out appt_<unix-millis> ids. Two calls within the same
// millisecond get consecutive values so ids never repeat in a process.
type idGenerator struct {
	mu   sync.Mutex
	last int64
	now  func() time.Time
}

func newIDGenerator() *idGenerator {
	return &idGenerator{now: time.Now}
}

func (g *idGenerator) Next() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	ms := g.now().UnixMilli()
	if ms <= g.last {
		ms = g.last + 1
	}
	g.last = ms
	return "appt_" + strconv.FormatInt(ms, 10)
}
