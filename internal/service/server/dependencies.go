package server

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/oshokin/medication-alarm/internal/config"
	"github.com/oshokin/medication-alarm/internal/logger"
	"github.com/oshokin/medication-alarm/internal/notify"
	"github.com/oshokin/medication-alarm/internal/repository/clinic"
)

// errUnsupportedComponent is returned for a component kind the server cannot build.
var errUnsupportedComponent = errors.New("unsupported component")

// dependencies holds the engine collaborators selected by the settings.
type dependencies struct {
	// directory resolves patients and medications.
	directory clinic.Directory
	// notifier delivers reminders.
	notifier notify.Notifier
	// closers release pools and clients in reverse order.
	closers []func()
}

// Close releases every opened resource.
func (d *dependencies) Close() {
	for i := len(d.closers) - 1; i >= 0; i-- {
		d.closers[i]()
	}

	d.closers = nil
}

// buildDependencies opens the database pool and Redis client when the settings
// need them and builds the directory and notifier.
func buildDependencies(ctx context.Context, settings *config.Config) (_ *dependencies, err error) {
	deps := new(dependencies)

	defer func() {
		if err != nil {
			deps.Close()
		}
	}()

	var pool *pgxpool.Pool

	needsPool := settings.Directory.Kind == config.DirectoryPostgres ||
		settings.Notifier.Kind == config.NotifierPostgres

	if needsPool {
		pool, err = pgxpool.New(ctx, settings.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("open database pool: %w", err)
		}

		deps.closers = append(deps.closers, pool.Close)
	}

	switch settings.Directory.Kind {
	case config.DirectoryPostgres:
		deps.directory = clinic.NewPostgresDirectory(pool)
	case config.DirectoryFile:
		deps.directory, err = clinic.LoadFileDirectory(settings.Directory.FixturePath)
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: directory %q", errUnsupportedComponent, settings.Directory.Kind)
	}

	switch settings.Notifier.Kind {
	case config.NotifierLog:
		deps.notifier = notify.NewLogNotifier()
	case config.NotifierPostgres:
		deps.notifier = notify.NewPostgresNotifier(pool)
	case config.NotifierRedis:
		client := redis.NewClient(&redis.Options{Addr: settings.Notifier.RedisAddress})
		deps.closers = append(deps.closers, func() {
			_ = client.Close()
		})

		// An unreachable Redis is not fatal: dispatches fail and are retried by later sweeps.
		if pingErr := client.Ping(ctx).Err(); pingErr != nil {
			logger.WarnKV(ctx, "Redis is not reachable yet", "redis_addr", settings.Notifier.RedisAddress, "error", pingErr)
		}

		deps.notifier = notify.NewRedisStreamNotifier(client, settings.Notifier.RedisStream, settings.Notifier.RedisMaxLen)
	default:
		return nil, fmt.Errorf("%w: notifier %q", errUnsupportedComponent, settings.Notifier.Kind)
	}

	logger.InfoKV(
		ctx,
		"Dependencies ready",
		"directory", settings.Directory.Kind,
		"notifier", settings.Notifier.Kind,
	)

	return deps, nil
}
