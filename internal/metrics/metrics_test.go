package metrics

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/conschat/conschat-go/internal/provider"
)

func TestUsageAdd(t *testing.T) {
	var u Usage
	u.Add(provider.Usage{PromptTokens: 3, CompletionTokens: 2, TotalTokens: 5})
	u.Add(provider.Usage{PromptTokens: 7, CompletionTokens: 1, TotalTokens: 8})

	assert.Equal(t, Totals{Requests: 2, PromptTokens: 10, CompletionTokens: 3, TotalTokens: 13}, u.Snapshot())
}

func TestUsageConcurrent(t *testing.T) {
	var u Usage
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			u.Add(provider.Usage{TotalTokens: 1})
		}()
	}
	wg.Wait()
	assert.Equal(t, 50, u.Snapshot().TotalTokens)
}
