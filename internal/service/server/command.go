package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"

	apigrpc "github.com/oshokin/medication-alarm/internal/api/grpc/reminder"
	apihttp "github.com/oshokin/medication-alarm/internal/api/http/reminder"
	"github.com/oshokin/medication-alarm/internal/config"
	"github.com/oshokin/medication-alarm/internal/logger"
	"github.com/oshokin/medication-alarm/internal/observability/metrics"
	"github.com/oshokin/medication-alarm/internal/repository/alarmstore"
	rpcv1 "github.com/oshokin/medication-alarm/internal/rpc/v1"
	"github.com/oshokin/medication-alarm/internal/service/reminder"
	"github.com/oshokin/medication-alarm/internal/service/scheduler"
	"github.com/oshokin/medication-alarm/internal/version"
)

// Options controls the medication-alarm-server process and configuration.
type Options struct {
	// ConfigPath specifies the path to settings YAML file.
	ConfigPath string
	// ListenAddress provides an optional listen address override for the gRPC server.
	ListenAddress string
}

// shutdownTimeout bounds the HTTP server shutdown.
const shutdownTimeout = 10 * time.Second

// ErrNoServerAddress indicates missing server configuration.
var ErrNoServerAddress = errors.New("no server address configured")

// Run starts the servers and the scheduler and blocks until ctx is canceled or
// one of them fails.
func Run(ctx context.Context, opts *Options) error {
	settings, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	logger.Configure(settings.Log.Level, settings.Log.Format)

	return serve(logger.WithName(ctx, "medication-alarm-server"), settings, opts.ListenAddress)
}

// serve runs the process for already validated settings.
func serve(ctx context.Context, settings *config.Config, listenOverride string) error {
	listenAddress, err := resolveListenAddress(settings.ServerAddress, listenOverride)
	if err != nil {
		return fmt.Errorf("resolve listen address: %w", err)
	}

	deps, err := buildDependencies(ctx, settings)
	if err != nil {
		return fmt.Errorf("build dependencies: %w", err)
	}

	defer deps.Close()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	engine, err := newEngine(settings, deps, metrics.NewSweepMetrics(registry))
	if err != nil {
		return err
	}

	lc := net.ListenConfig{}

	lis, err := lc.Listen(ctx, "tcp", listenAddress)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", listenAddress, err)
	}

	grpcServer := grpc.NewServer(grpc.ChainUnaryInterceptor(apigrpc.AuditInterceptor))
	rpcv1.RegisterAlarmServiceServer(grpcServer, apigrpc.NewServer(engine))

	var httpServer *http.Server
	if settings.HTTPAddress != "" {
		httpServer = &http.Server{
			Addr:              settings.HTTPAddress,
			Handler:           apihttp.NewRouter(engine, registry),
			ReadHeaderTimeout: settings.Timeout,
			BaseContext:       func(net.Listener) context.Context { return ctx },
		}
	}

	logger.InfoKV(
		ctx,
		"Medication alarm server listening",
		"version", version.Short(),
		"listen_address", lis.Addr().String(),
		"http_address", settings.HTTPAddress,
		"store", settings.Store,
	)

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		if err := grpcServer.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			return fmt.Errorf("serve gRPC: %w", err)
		}

		return nil
	})

	if httpServer != nil {
		group.Go(func() error {
			if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("serve HTTP: %w", err)
			}

			return nil
		})
	}

	group.Go(func() error {
		scheduler.Run(groupCtx, engine, settings.Sweep.Interval)
		return nil
	})

	group.Go(func() error {
		<-groupCtx.Done()
		logger.Info(ctx, "Shutting down servers")

		grpcServer.GracefulStop()

		if httpServer == nil {
			return nil
		}

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()

		return httpServer.Shutdown(shutdownCtx)
	})

	err = group.Wait()
	logger.Info(ctx, "Medication alarm server stopped")

	return err
}

// newEngine builds the alarm engine with a fresh in-memory store.
func newEngine(settings *config.Config, deps *dependencies, sweepMetrics *metrics.SweepMetrics) (*reminder.Engine, error) {
	location, err := settings.Location()
	if err != nil {
		return nil, err
	}

	engine := reminder.NewEngine(
		alarmstore.NewMemoryStore(),
		deps.directory,
		deps.notifier,
		reminder.WithLocation(location),
		reminder.WithTolerance(settings.Sweep.Tolerance),
		reminder.WithDispatchConcurrency(settings.Sweep.Concurrency),
		reminder.WithDispatchTimeout(settings.Sweep.DispatchTimeout),
		reminder.WithMetrics(sweepMetrics),
	)

	return engine, nil
}

// resolveListenAddress determines the listen address for the gRPC server.
// If override is provided, uses it directly. Otherwise extracts port from configAddr.
// Returns appropriate listen address (e.g., ":8080" for port-only binding).
func resolveListenAddress(configAddr, override string) (string, error) {
	// Use override address if provided (e.g., ":9090", "0.0.0.0:8080").
	if override != "" {
		return override, nil
	}

	if configAddr == "" {
		return "", ErrNoServerAddress
	}

	_, port, err := net.SplitHostPort(configAddr)
	if err != nil {
		return "", fmt.Errorf("invalid server address format %q: %w", configAddr, err)
	}

	// Bind on all interfaces.
	return ":" + port, nil
}
