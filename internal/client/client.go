// Package client posts chat completion requests to an OpenAI-compatible endpoint.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/conschat/conschat-go/internal/observability"
	"github.com/conschat/conschat-go/internal/provider"
)

// ErrMalformedResponse is wrapped by errors for response bodies that are not valid JSON.
var ErrMalformedResponse = errors.New("malformed response")

// StatusError is returned for non-2xx responses.
type StatusError struct {
	Code   int
	Status string
	Body   string
}

// Error renders the code and reason phrase, e.g. "401 Unauthorized".
func (e *StatusError) Error() string {
	reason := http.StatusText(e.Code)
	if reason == "" {
		reason = strings.TrimSpace(strings.TrimPrefix(e.Status, fmt.Sprint(e.Code)))
	}
	if reason == "" {
		return fmt.Sprint(e.Code)
	}
	return fmt.Sprintf("%d %s", e.Code, reason)
}

type Config struct {
	Endpoint string
	APIToken string
	// Timeout of zero leaves the transport default (no timeout).
	Timeout time.Duration
}

// Client sends one request per Complete call. It never retries.
type Client struct {
	endpoint   string
	apiToken   string
	httpClient *http.Client
	tracer     trace.Tracer
	logger     *zap.Logger
}

func New(cfg Config, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		endpoint:   cfg.Endpoint,
		apiToken:   cfg.APIToken,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		tracer:     observability.Tracer(),
		logger:     logger,
	}
}

// Complete posts req and decodes the response. A response without choices is not an error.
func (c *Client) Complete(ctx context.Context, req *provider.ChatRequest) (*provider.ChatResponse, error) {
	ctx, span := c.tracer.Start(ctx, "chat.completions", trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("llm.model", req.Model),
			attribute.Int("llm.messages", len(req.Messages)),
		))
	defer span.End()

	resp, err := c.complete(ctx, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(
		attribute.Int("llm.choices", len(resp.Choices)),
		attribute.Int("llm.usage.total_tokens", resp.Usage.TotalTokens),
	)
	return resp, nil
}

func (c *Client) complete(ctx context.Context, req *provider.ChatRequest) (*provider.ChatResponse, error) {
	jsonData, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	requestID := uuid.NewString()
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiToken)
	httpReq.Header.Set("X-Request-Id", requestID)

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	trace.SpanFromContext(ctx).SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	c.logger.Debug("completion response",
		zap.String("request_id", requestID),
		zap.Int("status", resp.StatusCode),
		zap.Int("bytes", len(body)),
		zap.Duration("elapsed", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Code: resp.StatusCode, Status: resp.Status, Body: string(body)}
	}

	var out provider.ChatResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return &out, nil
}
