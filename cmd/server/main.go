package main

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"
	"golang.org/x/net/http2"

	"github.com/coenradina/splitbill/internal/api"
	"github.com/coenradina/splitbill/internal/extract"
	"github.com/coenradina/splitbill/internal/token"
	"github.com/coenradina/splitbill/pkg/logging"
)

func main() {
	if err := run(); err != nil {
		os.Exit(1)
	}
}

// run owns the whole lifecycle so deferred cleanup executes on every
// exit path, including server failure.
func run() error {
	fs := ff.NewFlagSet("splitbill")
	var (
		port          = fs.IntLong("port", 8080, "HTTP server port")
		logLevel      = fs.StringLong("log-level", "info", "Log level: debug, info, warn or error")
		stateSecret   = fs.StringLong("state-secret", "", "Secret signing the workflow state tokens (ephemeral random key when empty)")
		extractorType = fs.StringLong("extractor", "stub", "Bill extractor: 'stub' or 'gemini'")
		geminiKey     = fs.StringLong("gemini-key", "", "Google Gemini API key (or set SPLITBILL_GEMINI_KEY)")
		geminiModel   = fs.StringLong("gemini-model", extract.DefaultGeminiModel, "Google Gemini model name")
		maxUpload     = fs.StringLong("max-upload", "8M", "Request body size limit for bill uploads")
	)

	if err := ff.Parse(fs, os.Args[1:],
		ff.WithEnvVarPrefix("SPLITBILL"),
	); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", ffhelp.Flags(fs))
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return err
	}

	logging.Setup(*logLevel)

	// Workflow state travels through the browser; the process only holds
	// the signing key. Without a configured secret a random key is used,
	// so tokens minted before a restart stop verifying.
	secret := []byte(*stateSecret)
	if len(secret) == 0 {
		secret = make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			slog.Error("Failed to generate ephemeral signing key", "error", err)
			return err
		}
		slog.Warn("No state secret configured; using an ephemeral key, in-flight bills will not survive a restart")
	}
	codec, err := token.NewCodec(secret)
	if err != nil {
		slog.Error("Failed to initialize state token codec", "error", err)
		return err
	}

	var extractor extract.Extractor
	switch *extractorType {
	case "stub":
		extractor = extract.NewStub()
	case "gemini":
		key := *geminiKey
		if key == "" {
			key = os.Getenv("GEMINI_API_KEY")
		}
		if key == "" {
			slog.Error("Gemini API key is required. Set --gemini-key or the SPLITBILL_GEMINI_KEY environment variable")
			return fmt.Errorf("gemini api key is required")
		}
		slog.Info("Initializing Gemini extractor", "model", *geminiModel)
		extractor, err = extract.NewGemini(key, *geminiModel)
		if err != nil {
			slog.Error("Failed to initialize Gemini extractor", "error", err)
			return err
		}
	default:
		slog.Error("Invalid extractor type", "type", *extractorType, "valid", "stub or gemini")
		return fmt.Errorf("invalid extractor type %q", *extractorType)
	}
	defer extractor.Close()

	e, err := api.NewRouter(api.Dependencies{
		Extractor: extractor,
		Codec:     codec,
		BodyLimit: *maxUpload,
	})
	if err != nil {
		slog.Error("Failed to build router", "error", err)
		return err
	}

	addr := fmt.Sprintf(":%d", *port)
	serverErr := make(chan error, 1)
	go func() {
		if err := e.StartH2CServer(addr, &http2.Server{}); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()
	slog.Info("Server started",
		"address", fmt.Sprintf("http://localhost%s", addr),
		"extractor", *extractorType,
	)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		slog.Error("Server failed", "error", err)
		return err
	case <-sigChan:
	}

	slog.Info("Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		slog.Error("Shutdown failed", "error", err)
	}
	return nil
}
