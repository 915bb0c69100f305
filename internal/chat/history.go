package chat

import "github.com/conschat/conschat-go/internal/provider"

// History is the ordered list of conversation turns sent as context on every request.
type History struct {
	messages []provider.Message
}

func (h *History) Append(m provider.Message) {
	h.messages = append(h.messages, m)
}

func (h *History) Clear() {
	h.messages = nil
}

// RemoveLast drops the most recent turn. It reports false on an empty History.
func (h *History) RemoveLast() (provider.Message, bool) {
	if len(h.messages) == 0 {
		return provider.Message{}, false
	}
	last := h.messages[len(h.messages)-1]
	h.messages = h.messages[:len(h.messages)-1]
	return last, true
}

func (h *History) Last() (provider.Message, bool) {
	if len(h.messages) == 0 {
		return provider.Message{}, false
	}
	return h.messages[len(h.messages)-1], true
}

func (h *History) Len() int {
	return len(h.messages)
}

// Messages returns a copy safe to hand to a request.
func (h *History) Messages() []provider.Message {
	out := make([]provider.Message, len(h.messages))
	copy(out, h.messages)
	return out
}
