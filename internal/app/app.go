// Package app wires configuration into the concrete stores and services
// shared by the HTTP server and the command line tool.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/crmlite/crm/internal/api"
	"github.com/crmlite/crm/internal/core/idgen"
	"github.com/crmlite/crm/internal/core/ports"
	"github.com/crmlite/crm/internal/core/repository"
	"github.com/crmlite/crm/internal/core/service"
	"github.com/crmlite/crm/internal/core/store"
	"github.com/crmlite/crm/internal/infrastructure/blob"
	"github.com/crmlite/crm/internal/infrastructure/config"
	"github.com/crmlite/crm/internal/infrastructure/db/memory"
	"github.com/crmlite/crm/internal/infrastructure/db/mongo"
	"github.com/crmlite/crm/internal/infrastructure/db/redis"
	"github.com/crmlite/crm/internal/infrastructure/db/sqlite"
	"github.com/crmlite/crm/internal/infrastructure/pdf"
	"github.com/crmlite/crm/internal/infrastructure/queue"
)

const intakeDedupTTL = 24 * time.Hour

// App holds every long-lived component of one process.
type App struct {
	Config *config.Config

	Repos     *repository.Set
	Compose   ports.QuoteService
	Export    ports.ExportService
	Intake    ports.IntakeService
	Repair    ports.RepairService
	Artifacts ports.ArtifactStore

	ready   map[string]ports.Pinger
	closers []func(context.Context) error
	stop    context.CancelFunc
	log     zerolog.Logger
}

// New opens the configured backends and builds the services on top of them.
// The dispatcher runs until Close is called.
func New(ctx context.Context, cfg *config.Config, log zerolog.Logger) (_ *App, err error) {
	a := &App{Config: cfg, ready: map[string]ports.Pinger{}, log: log}
	defer func() {
		if err != nil {
			_ = a.Close(context.Background())
		}
	}()

	backend, rdb, err := a.openStore(ctx)
	if err != nil {
		return nil, err
	}
	if p, ok := backend.(ports.Pinger); ok {
		a.ready["store"] = p
	}

	workerCtx, stop := context.WithCancel(context.Background())
	a.stop = stop
	dispatcher := queue.NewDispatcher(cfg.Workers, log.With().Str("component", "dispatcher").Logger())
	dispatcher.Start(workerCtx)

	ids := idgen.New()
	storeLog := log.With().Str("component", "store").Logger()
	a.Repos = repository.NewSet(repository.Deps{
		Store:      backend,
		Serializer: dispatcher,
		IDs:        ids,
		Log:        storeLog,
	})

	slots := make([]*store.Slot, 0, len(store.AllSlots))
	for _, name := range store.AllSlots {
		slots = append(slots, store.NewSlot(name, backend, dispatcher, storeLog))
	}

	a.Artifacts, err = a.openArtifacts(ctx)
	if err != nil {
		return nil, err
	}

	var dedup ports.SubmissionDedup = memory.NewSubmissionDedup(intakeDedupTTL)
	if rdb != nil {
		dedup = redis.NewSubmissionDedup(rdb)
	}

	svcLog := log.With().Str("component", "service").Logger()
	a.Compose = service.NewQuoteService(a.Repos.Quotes, a.Repos.Clients, a.Repos.Services, ids, cfg.TaxRate, svcLog)
	a.Export = service.NewExportService(a.Repos.Quotes, a.Repos.Clients, pdf.NewQuoteRenderer(), a.Artifacts, cfg.TaxRate, svcLog)
	a.Intake = service.NewIntakeService(a.Repos.Clients, dedup, svcLog)
	a.Repair = service.NewRepairService(slots, ids, svcLog)

	return a, nil
}

func (a *App) openStore(ctx context.Context) (ports.SlotStore, *goredis.Client, error) {
	cfg := a.Config.Store
	switch cfg.Driver {
	case "memory":
		return memory.NewSlotStore(), nil, nil
	case "redis":
		rdb, err := redis.Connect(ctx, redis.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
		if err != nil {
			return nil, nil, err
		}
		a.closers = append(a.closers, func(context.Context) error { return rdb.Close() })
		a.log.Info().Str("addr", cfg.Redis.Addr).Msg("connected to redis")
		return redis.NewSlotStore(rdb), rdb, nil
	case "mongo":
		client, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return nil, nil, err
		}
		a.closers = append(a.closers, client.Disconnect)
		a.log.Info().Str("database", cfg.Mongo.Database).Msg("connected to mongodb")
		return mongo.NewSlotStore(db), nil, nil
	default:
		s, err := sqlite.Open(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		a.closers = append(a.closers, func(context.Context) error { return s.Close() })
		a.log.Info().Str("path", s.Path()).Msg("opened sqlite store")
		return s, nil, nil
	}
}

func (a *App) openArtifacts(ctx context.Context) (ports.ArtifactStore, error) {
	cfg := a.Config.Artifact
	switch cfg.Driver {
	case "memory":
		return blob.NewMemoryStore(), nil
	case "s3":
		s, err := blob.NewS3Store(ctx, blob.S3Config{
			Bucket:          cfg.S3.Bucket,
			Region:          cfg.S3.Region,
			Endpoint:        cfg.S3.Endpoint,
			PathStyle:       cfg.S3.PathStyle,
			AccessKeyID:     cfg.S3.AccessKeyID,
			SecretAccessKey: cfg.S3.SecretAccessKey,
		})
		if err != nil {
			return nil, fmt.Errorf("artifact store: %w", err)
		}
		return s, nil
	default:
		s, err := blob.NewFSStore(cfg.Dir)
		if err != nil {
			return nil, fmt.Errorf("artifact store: %w", err)
		}
		return s, nil
	}
}

// RepairOnStart runs the repair routine once when enabled in configuration.
// Failures are logged and never stop the process.
func (a *App) RepairOnStart(ctx context.Context) {
	if !a.Config.RepairOnStart {
		return
	}
	report, err := a.Repair.Repair(ctx)
	if err != nil {
		a.log.Error().Err(err).Msg("startup repair failed")
		return
	}
	ev := a.log.Info().Strs("skipped", report.Skipped)
	for slot, n := range report.Fixed {
		ev = ev.Int(slot, n)
	}
	ev.Msg("startup repair finished")
}

// RouterDeps exposes the components in the shape the HTTP router expects.
func (a *App) RouterDeps() api.Deps {
	return api.Deps{
		Clients:   a.Repos.Clients,
		Services:  a.Repos.Services,
		Quotes:    a.Repos.Quotes,
		Projects:  a.Repos.Projects,
		Compose:   a.Compose,
		Export:    a.Export,
		Artifacts: a.Artifacts,
		Intake:    a.Intake,
		Repair:    a.Repair,
		Ready:     a.ready,
		Log:       a.log.With().Str("component", "http").Logger(),
	}
}

// Close stops the dispatcher and releases the backends.
func (a *App) Close(ctx context.Context) error {
	if a.stop != nil {
		a.stop()
	}
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
