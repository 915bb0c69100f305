package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/conschat/conschat-go/internal/config"
	"github.com/conschat/conschat-go/internal/guardrails"
	"github.com/conschat/conschat-go/internal/metrics"
	"github.com/conschat/conschat-go/internal/provider"
	"github.com/conschat/conschat-go/internal/provider/echo"
	"github.com/conschat/conschat-go/internal/routing"
)

// Server is a local OpenAI-compatible chat completions endpoint backed by the echo provider.
type Server struct {
	cfg    config.MockConfig
	token  string
	engine *gin.Engine
	router *routing.Router
	guards *guardrails.Guardrails
	usage  *metrics.Usage
	logger *zap.Logger
}

// New builds the server. A non-empty token makes the server require it as a bearer credential.
func New(cfg config.MockConfig, token string, logger *zap.Logger) (*Server, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	rt := routing.New()
	rt.Register("echo", echo.New())
	if cfg.ModelsPath != "" {
		models, err := routing.LoadModels(cfg.ModelsPath)
		if err != nil {
			return nil, err
		}
		rt.RegisterModels(models, echo.New())
	}

	srv := &Server{
		cfg:    cfg,
		token:  token,
		engine: r,
		router: rt,
		guards: guardrails.New(cfg.BannedWords...),
		usage:  &metrics.Usage{},
		logger: logger,
	}
	srv.registerRoutes()
	return srv, nil
}

func (s *Server) registerRoutes() {
	api := s.engine.Group("/v1")
	api.Use(s.authenticate)
	api.POST("/chat/completions", s.chatCompletion)
	api.GET("/models", s.listModels)
}

// Handler exposes the engine, e.g. for httptest.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Usage returns the token usage served so far.
func (s *Server) Usage() metrics.Totals {
	return s.usage.Snapshot()
}

func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Address,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		_ = srv.Shutdown(context.Background())
	}()
	s.logger.Info("mock server listening", zap.String("address", s.cfg.Address))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) authenticate(c *gin.Context) {
	if s.token == "" {
		c.Next()
		return
	}
	if c.GetHeader("Authorization") != "Bearer "+s.token {
		c.AbortWithStatusJSON(http.StatusUnauthorized, errorBody("invalid api token"))
		return
	}
	c.Next()
}

func (s *Server) chatCompletion(c *gin.Context) {
	var req provider.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorBody("invalid request"))
		return
	}
	if len(req.Messages) > 0 {
		last := req.Messages[len(req.Messages)-1]
		if err := s.guards.CheckInput(last.Content); err != nil {
			c.JSON(http.StatusBadRequest, errorBody(err.Error()))
			return
		}
	}
	if req.Model == "" {
		req.Model = s.router.Select().Name
	}
	prov := s.router.ProviderFor(req.Model)
	if prov == nil {
		c.JSON(http.StatusNotFound, errorBody(fmt.Sprintf("model %q not found", req.Model)))
		return
	}
	stream, err := prov.Chat(c.Request.Context(), &req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorBody(err.Error()))
		return
	}

	resp := provider.ChatResponse{
		ID:      "chatcmpl-" + uuid.NewString(),
		Object:  "chat.completion",
		Created: time.Now().Unix(),
		Model:   req.Model,
		Choices: []provider.Choice{},
	}
	for m := range stream {
		resp.Choices = append(resp.Choices, provider.Choice{
			Index:        len(resp.Choices),
			Message:      m,
			FinishReason: "stop",
		})
		resp.Usage.CompletionTokens += countTokens(m.Content)
	}
	for _, m := range req.Messages {
		resp.Usage.PromptTokens += countTokens(m.Content)
	}
	resp.Usage.TotalTokens = resp.Usage.PromptTokens + resp.Usage.CompletionTokens
	s.usage.Add(resp.Usage)

	s.logger.Debug("chat completion served",
		zap.String("model", req.Model),
		zap.Int("messages", len(req.Messages)),
		zap.Int("choices", len(resp.Choices)),
	)
	c.JSON(http.StatusOK, resp)
}

func (s *Server) listModels(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"object": "list", "data": s.router.Models()})
}

// countTokens approximates tokens as whitespace-separated words.
func countTokens(s string) int {
	return len(strings.Fields(s))
}

func errorBody(msg string) gin.H {
	return gin.H{"error": gin.H{"message": msg}}
}
