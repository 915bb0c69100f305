package metrics

import (
	"sync"

	"github.com/conschat/conschat-go/internal/provider"
)

// Totals is a point-in-time copy of a Usage counter.
type Totals struct {
	Requests         int
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

type Usage struct {
	mu     sync.Mutex
	totals Totals
}

// Add records one completed request and its reported token usage.
func (u *Usage) Add(usage provider.Usage) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.totals.Requests++
	u.totals.PromptTokens += usage.PromptTokens
	u.totals.CompletionTokens += usage.CompletionTokens
	u.totals.TotalTokens += usage.TotalTokens
}

func (u *Usage) Snapshot() Totals {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.totals
}
