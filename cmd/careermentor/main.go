// careermentor runs the career mentor chat assistant.
//
//	careermentor serve [--addr :8000] [--config careermentor.yaml]
//	careermentor chat [--config careermentor.yaml] [--log-file path]
//
// GEMINI_API_KEY must be set in the environment or a .env file.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/boat-builder/careermentor"
	"github.com/boat-builder/careermentor/tui"
	"github.com/boat-builder/careermentor/web"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var err error
	switch os.Args[1] {
	case "serve":
		err = serve(ctx, os.Args[2:])
	case "chat":
		err = chat(ctx, os.Args[2:])
	case "-h", "--help", "help":
		usage()
		return
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", os.Args[1])
		usage()
		os.Exit(1)
	}

	if err != nil {
		if errors.Is(err, careermentor.ErrMissingAPIKey) {
			fmt.Fprintln(os.Stderr, err.Error())
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "Usage: careermentor <serve|chat> [flags]")
}

func serve(ctx context.Context, args []string) error {
	var configPath, addr string
	flagSet := pflag.NewFlagSet("serve", pflag.ContinueOnError)
	flagSet.StringVar(&configPath, "config", "", "path to a YAML config file")
	flagSet.StringVar(&addr, "addr", "", "listen address (default :8000)")
	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	cfg, err := careermentor.LoadConfig(configPath)
	if err != nil {
		return err
	}
	if addr != "" {
		cfg.Addr = addr
	}

	logger := careermentor.NewLogger(cfg.Log, os.Stderr)
	slog.SetDefault(logger)

	pod, closeUsage, err := newPod(cfg, logger)
	if err != nil {
		return err
	}
	defer closeUsage()
	defer pod.Close()

	srv := &http.Server{
		Addr:    cfg.Addr,
		Handler: web.NewServer(ctx, pod, logger),
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Listening", "addr", cfg.Addr, "model", cfg.LLM.Model)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func chat(ctx context.Context, args []string) error {
	var configPath, logFile string
	flagSet := pflag.NewFlagSet("chat", pflag.ContinueOnError)
	flagSet.StringVar(&configPath, "config", "", "path to a YAML config file")
	flagSet.StringVar(&logFile, "log-file", "", "write logs to this file instead of discarding them")
	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	cfg, err := careermentor.LoadConfig(configPath)
	if err != nil {
		return err
	}

	// The terminal belongs to the chat, so logs go to a file or nowhere.
	var logOut io.Writer = io.Discard
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
		logOut = f
	}
	logger := careermentor.NewLogger(cfg.Log, logOut)
	slog.SetDefault(logger)

	pod, closeUsage, err := newPod(cfg, logger)
	if err != nil {
		return err
	}
	defer closeUsage()
	defer pod.Close()

	return tui.Run(ctx, pod.NewSession(ctx))
}

// newPod wires the completion client and the usage ledger.
func newPod(cfg *careermentor.Config, logger *slog.Logger) (*careermentor.Pod, func(), error) {
	llm := careermentor.NewLLM(cfg.LLM)
	llm.SetLogger(logger)

	var recorder careermentor.UsageRecorder
	closeUsage := func() {}
	if cfg.UsageDSN != "" {
		usage, err := careermentor.NewPostgresUsage(cfg.UsageDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("open usage ledger: %w", err)
		}
		recorder = usage
		closeUsage = func() {
			if err := usage.Close(); err != nil {
				logger.Warn("Error closing usage ledger", "error", err)
			}
		}
	}

	pod := careermentor.NewPod(llm, llm.Model(), recorder)
	pod.SetLogger(logger)
	return pod, closeUsage, nil
}
