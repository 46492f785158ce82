package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/lamdalabs/chetu/internal/chat"
	"github.com/lamdalabs/chetu/internal/cli"
	"github.com/lamdalabs/chetu/internal/config"
	"github.com/lamdalabs/chetu/internal/doctor"
	"github.com/lamdalabs/chetu/internal/logging"
	"github.com/lamdalabs/chetu/internal/server"
	"github.com/lamdalabs/chetu/internal/transcribe"
	"github.com/lamdalabs/chetu/internal/version"
)

type Runner struct {
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger
}

func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	r := Runner{Stdout: stdout, Stderr: stderr}
	return r.Execute(ctx, args)
}

func (r Runner) Execute(ctx context.Context, args []string) int {
	parsed, err := cli.Parse(args)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n\n", err)
		fmt.Fprint(r.Stderr, cli.HelpText("chetud"))
		return 2
	}

	if parsed.ShowHelp {
		fmt.Fprint(r.Stdout, cli.HelpText("chetud"))
		return 0
	}

	if parsed.Command == cli.CommandVersion {
		fmt.Fprintln(r.Stdout, version.String())
		return 0
	}

	cfgLoaded, err := config.Load(parsed.ConfigPath)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}
	for _, w := range cfgLoaded.Warnings {
		fmt.Fprintf(r.Stderr, "warning: %s\n", w.Message)
	}
	if parsed.Addr != "" {
		cfgLoaded.Config.Server.Addr = parsed.Addr
	}

	logRuntime, err := logging.New(cfgLoaded.Config.LogFile)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: setup logging: %v\n", err)
		return 1
	}
	defer func() { _ = logRuntime.Close() }()

	logger := r.Logger
	if logger == nil {
		logger = logRuntime.Logger
	}

	logger.Info("command start",
		"command", parsed.Command,
		"config", cfgLoaded.Path,
		"addr", cfgLoaded.Config.Server.Addr,
	)

	switch parsed.Command {
	case cli.CommandDoctor:
		report := doctor.Run(cfgLoaded)
		fmt.Fprintln(r.Stdout, report.String())
		if report.OK() {
			return 0
		}
		return 1
	case cli.CommandServe:
		return r.commandServe(ctx, cfgLoaded.Config, logger)
	default:
		fmt.Fprintf(r.Stderr, "error: unsupported command %q\n", parsed.Command)
		return 2
	}
}

func (r Runner) commandServe(ctx context.Context, cfg config.Config, logger *slog.Logger) int {
	provider := transcribe.NewClient(transcribe.ClientConfig{
		BaseURL: cfg.Transcribe.BaseURL,
		APIKey:  cfg.Transcribe.APIKey,
		HTTPClient: &http.Client{
			Timeout: cfg.Transcribe.RequestTimeout,
		},
	})
	pipeline := transcribe.NewPipeline(provider, logger)

	relay := chat.NewOpenAIRelay(chat.RelayConfig{
		APIKey:    cfg.Chat.APIKey,
		Model:     cfg.Chat.Model,
		BaseURL:   cfg.Chat.BaseURL,
		MaxTokens: cfg.Chat.MaxTokens,
	})

	srv := server.New(logger, relay, pipeline, server.Options{
		RateLimitPerMinute: cfg.Server.RateLimitPerMinute,
		ExposeErrorDetails: cfg.Debug.ExposeErrorDetails,
	})

	httpServer := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: srv.Routes(),
	}

	serveErrCh := make(chan error, 1)
	go func() {
		serveErrCh <- httpServer.ListenAndServe()
	}()

	logger.Info("server listening", "addr", cfg.Server.Addr)

	select {
	case err := <-serveErrCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			fmt.Fprintf(r.Stderr, "error: %v\n", err)
			logger.Error("server failed", "error", err.Error())
			return 1
		}
		return 0
	case <-ctx.Done():
	}

	logger.Info("shutting down", "grace", cfg.Server.ShutdownGrace.String())

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownGrace)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		fmt.Fprintf(r.Stderr, "error: shutdown: %v\n", err)
		logger.Error("shutdown failed", "error", err.Error())
		return 1
	}

	if err := <-serveErrCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}

	logger.Info("server stopped")
	return 0
}
