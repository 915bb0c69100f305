package echo

import (
	"context"

	"github.com/conschat/conschat-go/internal/provider"
)

// Provider responds by echoing the last message.
type Provider struct{}

func New() *Provider { return &Provider{} }

func (p *Provider) Chat(ctx context.Context, req *provider.ChatRequest) (<-chan provider.Message, error) {
	ch := make(chan provider.Message, 1)
	go func() {
		defer close(ch)
		if len(req.Messages) == 0 {
			return
		}
		last := req.Messages[len(req.Messages)-1]
		select {
		case ch <- provider.Message{Role: provider.RoleAssistant, Content: "Echo: " + last.Content}:
		case <-ctx.Done():
		}
	}()
	return ch, nil
}
