package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"

	"github.com/RowanDark/cipherkit/internal/analysis"
	"github.com/RowanDark/cipherkit/internal/api"
	"github.com/RowanDark/cipherkit/internal/cipher"
	"github.com/RowanDark/cipherkit/internal/config"
	"github.com/RowanDark/cipherkit/internal/logging"
	"github.com/RowanDark/cipherkit/internal/observability/metrics"
	"github.com/RowanDark/cipherkit/internal/observability/tracing"
	"github.com/RowanDark/cipherkit/internal/rpc"
)

func main() {
	configPath := flag.String("config", "", "configuration file (default: ~/.cipherkit/config.yaml, ./cipherkit.yaml)")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadConfig(path string) (config.Config, error) {
	if path != "" {
		return config.LoadFile(path)
	}
	return config.Load()
}

func run(ctx context.Context, cfg config.Config) error {
	opts := []logging.Option{logging.WithLevel(cfg.LogLevel)}
	if cfg.LogFile != "" {
		opts = append(opts, logging.WithFile(cfg.LogFile))
	}
	logger, err := logging.New(opts...)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer func() {
		_ = logger.Close()
	}()

	shutdownTracing, err := tracing.Setup(ctx, tracing.Config{
		ServiceName: "cipherd",
		SampleRatio: cfg.Tracing.SampleRatio,
		FilePath:    cfg.Tracing.File,
	})
	if err != nil {
		return fmt.Errorf("tracing: %w", err)
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			logger.Warn("flush spans", zap.Error(err))
		}
	}()

	lis, err := net.Listen("tcp", cfg.GRPCAddr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", cfg.GRPCAddr, err)
	}
	defer func() {
		_ = lis.Close()
	}()

	return serve(ctx, cfg, logger.Logger, lis)
}

// serve runs the HTTP API on cfg.HTTPAddr and the gRPC service on lis until
// ctx is cancelled or either server fails.
func serve(ctx context.Context, cfg config.Config, logger *zap.Logger, lis net.Listener) error {
	recipesDir, err := cfg.RecipesPath()
	if err != nil {
		return err
	}
	recipes := cipher.NewRecipeManager(recipesDir)
	if err := recipes.LoadRecipes(); err != nil {
		return err
	}
	metrics.SetRecipeCount(len(recipes.ListRecipes()))

	analyzer := analysis.New(cfg.Analysis.AnalyzerOptions(logger.Named("analysis"))...)
	registry, err := analysis.NewRegistry(analyzer)
	if err != nil {
		return err
	}
	audit := logging.NewAuditLogger("cipherd", logger)

	apiServer, err := api.NewServer(api.Config{
		Addr:     cfg.HTTPAddr,
		Recipes:  recipes,
		Analyzer: analyzer,
		Registry: registry,
		Logger:   logger,
		Audit:    audit.WithComponent("api"),
	})
	if err != nil {
		return err
	}

	rpcServer := rpc.NewServer(rpc.WithAnalyzer(analyzer), rpc.WithRegistry(registry), rpc.WithLogger(logger))
	grpcServer, health := rpc.NewGRPCServer(rpcServer, tracing.UnaryServerInterceptor())

	logger.Info("cipherd starting",
		zap.String("http_addr", cfg.HTTPAddr),
		zap.String("grpc_addr", lis.Addr().String()),
		zap.String("recipes_dir", recipesDir),
		zap.Int("recipes", len(recipes.ListRecipes())))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return apiServer.Run(gctx)
	})
	g.Go(func() error {
		if err := grpcServer.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			return err
		}
		return nil
	})
	// Stop the gRPC server once either server exits or ctx is cancelled.
	g.Go(func() error {
		<-gctx.Done()
		health.Shutdown()

		done := make(chan struct{})
		go func() {
			grpcServer.GracefulStop()
			close(done)
		}()

		select {
		case <-done:
		case <-time.After(2 * time.Second):
			grpcServer.Stop()
		}
		return nil
	})

	err = g.Wait()
	_ = audit.Emit(logging.AuditEvent{EventType: logging.EventServerLifecycle, Reason: "cipherd stopped"})
	return err
}
