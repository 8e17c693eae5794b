// Command server wires the audit pipeline together and runs it behind
// the configured transport runtime.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/anshuman444/hacknovation2.0/internal/analysis"
	"github.com/anshuman444/hacknovation2.0/internal/attestation"
	"github.com/anshuman444/hacknovation2.0/internal/config"
	"github.com/anshuman444/hacknovation2.0/internal/handler"
	httpadapter "github.com/anshuman444/hacknovation2.0/internal/handler/adapters/http"
	lambdaadapter "github.com/anshuman444/hacknovation2.0/internal/handler/adapters/lambda"
	"github.com/anshuman444/hacknovation2.0/internal/identity"
	"github.com/anshuman444/hacknovation2.0/internal/observability"
	"github.com/anshuman444/hacknovation2.0/internal/observability/logger"
	"github.com/anshuman444/hacknovation2.0/internal/observability/metrics"
	"github.com/anshuman444/hacknovation2.0/internal/scanner"
	"github.com/anshuman444/hacknovation2.0/internal/service"
	"github.com/anshuman444/hacknovation2.0/internal/storage"
	storagefactory "github.com/anshuman444/hacknovation2.0/internal/storage/factory"
	"github.com/anshuman444/hacknovation2.0/internal/store"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	provider := observability.NewProvider(
		&observability.Config{
			ServiceName: cfg.ServiceName,
			Environment: cfg.Environment,
			LogLevel:    cfg.LogLevel,
		},
		os.Stdout,
		func(serviceName, environment, logLevel string, output io.Writer, fields observability.Fields) observability.Logger {
			return logger.New(serviceName, environment, logLevel, output, fields)
		},
		func(prefix string) observability.Metrics {
			return metrics.New(prefix, nil)
		},
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	mainLogger := provider.Logger("main")

	st, err := store.New(ctx, cfg, provider.Logger("store"))
	if err != nil {
		return fmt.Errorf("failed to create store: %w", err)
	}

	var archive storage.ObjectStorage
	if cfg.Pipeline.ArchiveSource {
		archive, err = storagefactory.New(ctx, cfg, provider.Logger("storage"))
		if err != nil {
			return fmt.Errorf("failed to create storage: %w", err)
		}
	}

	pipeline := service.New(
		st,
		scanner.New(),
		identity.New(st, provider.Logger("identity")),
		analysis.FromConfig(&cfg.Analysis, provider.Logger("analysis")),
		attestation.NewStaticAttestor(),
		archive,
		service.Options{AllowRepublish: cfg.Pipeline.AllowRepublish},
		provider.Logger("pipeline"),
		provider.Metrics("pipeline"),
	)

	h := handler.New(pipeline, provider.Logger("handler"), provider.Metrics("handler"))

	var adapter handler.RuntimeAdapter
	switch cfg.Runtime {
	case "http":
		adapter = httpadapter.NewAdapter(h, &cfg.HTTP)
	case "lambda":
		adapter = lambdaadapter.NewAdapter(h, &cfg.HTTP)
	default:
		return fmt.Errorf("unsupported runtime: %s", cfg.Runtime)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- adapter.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-sigCh:
		mainLogger.Info(ctx, "Received shutdown signal", observability.Fields{
			"signal": sig.String(),
		})
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	return adapter.Stop(shutdownCtx)
}
