// Package chat runs the interactive conversation loop.
package chat

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/conschat/conschat-go/internal/client"
	"github.com/conschat/conschat-go/internal/metrics"
	"github.com/conschat/conschat-go/internal/provider"
	"github.com/conschat/conschat-go/internal/ui"
)

const (
	msgWelcome = "Welcome to ConsChat. Write your messages, get your answers. Additional commands: " +
		"/system to add system message, /clearctx to clear context (messages history), /regenerate to regenerate answer."
	msgExit           = "Empty message, exiting."
	msgCleared        = "Context cleared."
	msgSystemQueued   = "You have passed a system message. It is sent along with your next regular message. Now enter a regular user message."
	msgSystemEmpty    = "System message is empty, ignored."
	msgNothingToRegen = "Nothing to regenerate, the context is empty."
	msgNoReplyToRegen = "Nothing to regenerate, the last message is not an answer."
	msgNoChoices      = "No choices were returned by the API"
)

// Completer sends one chat completion request.
type Completer interface {
	Complete(ctx context.Context, req *provider.ChatRequest) (*provider.ChatResponse, error)
}

// Greet prints the welcome banner.
func Greet(p *ui.Printer) {
	p.Log(ui.LabelSystem, msgWelcome)
}

// Session owns the History of one conversation. It is not safe for concurrent use;
// Run processes one line and at most one request at a time.
type Session struct {
	model     string
	completer Completer
	in        *bufio.Reader
	out       *ui.Printer
	history   History
	usage     metrics.Usage
	logger    *zap.Logger
}

func NewSession(model string, completer Completer, in io.Reader, out *ui.Printer, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{
		model:     model,
		completer: completer,
		in:        bufio.NewReader(in),
		out:       out,
		logger:    logger.With(zap.String("session", uuid.NewString())),
	}
}

// History returns a copy of the conversation so far.
func (s *Session) History() []provider.Message {
	return s.history.Messages()
}

// Usage returns the token usage reported by the API during this session.
func (s *Session) Usage() metrics.Totals {
	return s.usage.Snapshot()
}

// Run reads lines until an empty one, returning nil. Any failed request ends the
// loop with the error after it has been reported on the console.
func (s *Session) Run(ctx context.Context) error {
	defer func() {
		u := s.usage.Snapshot()
		s.logger.Info("session finished",
			zap.Int("history", s.history.Len()),
			zap.Int("requests", u.Requests),
			zap.Int("prompt_tokens", u.PromptTokens),
			zap.Int("completion_tokens", u.CompletionTokens),
			zap.Int("total_tokens", u.TotalTokens),
		)
	}()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		s.out.Prompt(ui.LabelUser)
		line, err := s.in.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			s.out.Log(ui.LabelSystem, "Failed to read input: "+err.Error())
			return fmt.Errorf("read input: %w", err)
		}

		cmd := ParseCommand(line)
		switch cmd.Kind {
		case CommandExit:
			s.out.Log(ui.LabelSystem, msgExit)
			return nil

		case CommandClear:
			s.history.Clear()
			s.logger.Debug("context cleared")
			s.out.Log(ui.LabelSystem, msgCleared)
			continue

		case CommandSystem:
			if strings.TrimSpace(cmd.Text) == "" {
				s.out.Log(ui.LabelSystem, msgSystemEmpty)
				continue
			}
			s.history.Append(provider.Message{Role: provider.RoleSystem, Content: cmd.Text})
			s.out.Log(ui.LabelSystem, msgSystemQueued)
			continue

		case CommandRegenerate:
			last, ok := s.history.Last()
			if !ok {
				s.out.Log(ui.LabelSystem, msgNothingToRegen)
				continue
			}
			// Only a reply can be replaced, and something must remain to send.
			if last.Role != provider.RoleAssistant || s.history.Len() == 1 {
				s.out.Log(ui.LabelSystem, msgNoReplyToRegen)
				continue
			}
			s.history.RemoveLast()

		case CommandUser:
			s.history.Append(provider.Message{Role: provider.RoleUser, Content: cmd.Text})
		}

		if err := s.send(ctx); err != nil {
			return err
		}
	}
}

func (s *Session) send(ctx context.Context) error {
	req := &provider.ChatRequest{Model: s.model, Messages: s.history.Messages()}
	s.logger.Debug("sending turn", zap.String("model", req.Model), zap.Int("messages", len(req.Messages)))

	resp, err := s.completer.Complete(ctx, req)
	if err != nil {
		var se *client.StatusError
		switch {
		case errors.As(err, &se):
			s.out.Log(ui.LabelSystem, se.Error())
		case errors.Is(err, client.ErrMalformedResponse):
			s.out.Log(ui.LabelSystem, "Could not parse the API response: "+err.Error())
		default:
			s.out.Log(ui.LabelSystem, "Request failed: "+err.Error())
		}
		s.logger.Error("completion failed", zap.Error(err))
		return err
	}
	s.usage.Add(resp.Usage)

	if len(resp.Choices) == 0 {
		s.logger.Warn("no choices returned", zap.String("response_id", resp.ID))
		s.out.Log(ui.LabelSystem, msgNoChoices)
		return nil
	}

	reply := resp.Choices[0].Message
	if reply.Role == "" {
		reply.Role = provider.RoleAssistant
	}
	s.history.Append(reply)
	s.logger.Debug("reply received",
		zap.String("finish_reason", resp.Choices[0].FinishReason),
		zap.Int("history", s.history.Len()),
	)
	s.out.Log(ui.LabelAssistant, strings.TrimSpace(reply.Content))
	return nil
}
