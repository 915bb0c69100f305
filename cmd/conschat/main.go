package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/conschat/conschat-go/internal/chat"
	"github.com/conschat/conschat-go/internal/client"
	"github.com/conschat/conschat-go/internal/config"
	"github.com/conschat/conschat-go/internal/logging"
	"github.com/conschat/conschat-go/internal/observability"
	"github.com/conschat/conschat-go/internal/server"
	"github.com/conschat/conschat-go/internal/ui"
)

var (
	// Global flags
	cfgFile string
	verbose bool

	mockAddr string
)

// reportedError marks errors already shown to the user in the conversation.
type reportedError struct{ err error }

func (e *reportedError) Error() string { return e.err.Error() }
func (e *reportedError) Unwrap() error { return e.err }

var rootCmd = &cobra.Command{
	Use:   "conschat",
	Short: "Terminal chat client for OpenAI-compatible chat completion APIs",
	Long: `conschat keeps a conversation history and sends it to a chat completions
endpoint on every message, printing the first reply.

Commands inside the chat:
  /system <text>  queue a system message for the next request
  /clearctx       clear the conversation history
  /regenerate     discard the last reply and ask again
An empty line exits.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runChat(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout())
	},
}

var mockServerCmd = &cobra.Command{
	Use:   "mock-server",
	Short: "Serve a local OpenAI-compatible endpoint that echoes the last message",
	Args:  cobra.NoArgs,
	RunE:  runMockServer,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ./config.yaml, ./config/config.yaml or $HOME/.conschat/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	mockServerCmd.Flags().StringVar(&mockAddr, "addr", "", "listen address, overrides mock.address")
	rootCmd.AddCommand(mockServerCmd)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		var reported *reportedError
		if !errors.As(err, &reported) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}

func setup() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, nil, err
	}
	logger, err := logging.New(cfg.Log.Level, cfg.Log.File, verbose)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}

func runChat(ctx context.Context, in io.Reader, out io.Writer) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	printer := ui.NewPrinter(out, cfg.Color)
	chat.Greet(printer)

	if err := cfg.Validate(); err != nil {
		if errors.Is(err, config.ErrMissingToken) {
			printer.Log(ui.LabelSystem, fmt.Sprintf(
				"API token is empty. Obtain it on %s and set CONSCHAT_API_TOKEN (or OPENAI_API_TOKEN), or put api_token in config.yaml.",
				config.TokenHelpURL))
		} else {
			printer.Log(ui.LabelSystem, "Invalid configuration: "+err.Error())
		}
		logger.Error("invalid configuration", zap.Error(err))
		return &reportedError{err}
	}

	tp, err := observability.Setup(ctx, cfg.TelemetryURL)
	if err != nil {
		return fmt.Errorf("tracing setup: %w", err)
	}
	defer func() { _ = observability.Shutdown(context.Background(), tp) }()

	logger.Debug("starting chat", zap.String("endpoint", cfg.Endpoint), zap.String("model", cfg.Model))
	c := client.New(client.Config{
		Endpoint: cfg.Endpoint,
		APIToken: cfg.APIToken,
		Timeout:  cfg.Timeout,
	}, logger)

	session := chat.NewSession(cfg.Model, c, in, printer, logger)
	if err := session.Run(ctx); err != nil {
		return &reportedError{err}
	}
	return nil
}

func runMockServer(cmd *cobra.Command, args []string) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	if mockAddr != "" {
		cfg.Mock.Address = mockAddr
	}
	srv, err := server.New(cfg.Mock, cfg.APIToken, logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(cmd.OutOrStdout(), "Mock chat completions endpoint on %s/v1/chat/completions\n", cfg.Mock.Address)
	return srv.Start(ctx)
}
