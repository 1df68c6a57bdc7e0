package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	mongodriver "go.mongodb.org/mongo-driver/mongo"

	"github.com/carevillage/admin-api/internal/api"
	"github.com/carevillage/admin-api/internal/core/domain"
	"github.com/carevillage/admin-api/internal/core/ports"
	"github.com/carevillage/admin-api/internal/core/service"
	"github.com/carevillage/admin-api/internal/infrastructure/config"
	"github.com/carevillage/admin-api/internal/infrastructure/db/memory"
	mongostore "github.com/carevillage/admin-api/internal/infrastructure/db/mongo"
	rediscache "github.com/carevillage/admin-api/internal/infrastructure/db/redis"
	"github.com/carevillage/admin-api/internal/infrastructure/queue"
)

// repositories is the persistence surface shared by both store backends.
type repositories struct {
	accounts    ports.AccountRepository
	counselors  ports.CounselorRepository
	meetings    ports.MeetingRepository
	payouts     ports.PayoutRepository
	interviews  ports.InterviewRepository
	audit       ports.AuditRepository
	credentials ports.CredentialRepository
}

type app struct {
	cfg        *config.Config
	log        zerolog.Logger
	server     *echo.Echo
	dispatcher *queue.Dispatcher
	mongo      *mongodriver.Client
	redis      *goredis.Client
}

func newApp(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*app, error) {
	a := &app{cfg: cfg, log: log}

	repos, db, err := a.openStore(ctx)
	if err != nil {
		return nil, err
	}

	var cache service.PageCache
	if cfg.Redis.Addr != "" {
		a.redis, err = rediscache.Connect(ctx, rediscache.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
		if err != nil {
			a.close(ctx)
			return nil, err
		}
		cache = rediscache.NewPageCache(a.redis, cfg.Redis.CacheTTL)
		log.Info().Str("addr", cfg.Redis.Addr).Dur("ttl", cfg.Redis.CacheTTL).Msg("page cache enabled")
	}

	allowlist := domain.ParseAllowlist(cfg.AdminEmails)
	if allowlist.Len() == 0 {
		a.close(ctx)
		return nil, errors.New("ADMIN_EMAILS holds no valid address")
	}

	a.dispatcher = queue.NewDispatcher(cfg.PayoutWorkers, log)
	payouts := service.NewPayoutService(repos.payouts, repos.counselors, a.dispatcher, repos.audit, cache, log)
	auth := service.NewAuthService(repos.credentials, allowlist, repos.audit, cfg.JWTSecret, cfg.TokenTTL, log)

	created, err := auth.Bootstrap(ctx, cfg.BootstrapPassword)
	if err != nil {
		a.close(ctx)
		return nil, err
	}
	if created > 0 {
		log.Info().Int("count", created).Msg("admin credentials bootstrapped")
	}

	// Workers ignore the signal context; shutdown drains them through Stop.
	a.dispatcher.Start(context.WithoutCancel(ctx), payouts)

	a.server = api.NewRouter(api.Deps{
		Services: api.Services{
			Accounts:   service.NewAccountService(repos.accounts, repos.audit, cache, log),
			Counselors: service.NewCounselorService(repos.counselors, repos.accounts, repos.audit, cache, log),
			Meetings:   service.NewMeetingService(repos.meetings, repos.counselors, repos.accounts, repos.audit, cache, log),
			Payouts:    payouts,
			Interviews: service.NewInterviewService(repos.interviews, repos.counselors, repos.audit, log),
			Calendar:   service.NewCalendarService(repos.meetings, repos.interviews),
			Reports:    service.NewReportService(repos.accounts, repos.counselors, repos.meetings, repos.payouts, log),
			Audit:      service.NewAuditService(repos.audit),
			Auth:       auth,
		},
		JWTSecret: cfg.JWTSecret,
		Allowlist: allowlist,
		RateLimit: cfg.RateLimit,
		Mongo:     db,
		Redis:     a.redis,
		Logger:    log,
	})

	return a, nil
}

// openStore returns the configured repositories. The mongo database handle
// is nil for the memory store.
func (a *app) openStore(ctx context.Context) (repositories, *mongodriver.Database, error) {
	if a.cfg.Store == config.StoreMemory {
		store := memory.NewStore()
		store.Seed()
		a.log.Warn().Msg("using in-memory store with demo data; changes are lost on restart")
		return repositories{
			accounts:    store.Accounts,
			counselors:  store.Counselors,
			meetings:    store.Meetings,
			payouts:     store.Payouts,
			interviews:  store.Interviews,
			audit:       store.Audit,
			credentials: store.Credentials,
		}, nil, nil
	}

	client, db, err := mongostore.Connect(ctx, mongostore.Config{URI: a.cfg.Mongo.URI, Database: a.cfg.Mongo.Database})
	if err != nil {
		return repositories{}, nil, err
	}
	a.mongo = client

	store := mongostore.NewStore(db)
	if err := store.EnsureIndexes(ctx); err != nil {
		a.close(ctx)
		return repositories{}, nil, fmt.Errorf("ensure indexes: %w", err)
	}
	return repositories{
		accounts:    store.Accounts,
		counselors:  store.Counselors,
		meetings:    store.Meetings,
		payouts:     store.Payouts,
		interviews:  store.Interviews,
		audit:       store.Audit,
		credentials: store.Credentials,
	}, db, nil
}

func (a *app) run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		addr := ":" + a.cfg.Port
		a.log.Info().Str("address", addr).Msg("HTTP server starting")
		err := a.server.Start(addr)
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		_ = a.shutdown()
		return err
	case <-ctx.Done():
		a.log.Info().Msg("shutting down HTTP server gracefully")
		return a.shutdown()
	}
}

// shutdown stops accepting requests, drains the payout queue and then
// releases the database clients.
func (a *app) shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	err := a.server.Shutdown(ctx)
	a.dispatcher.Stop()
	a.close(ctx)
	return err
}

func (a *app) close(ctx context.Context) {
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.log.Warn().Err(err).Msg("redis close")
		}
	}
	if a.mongo != nil {
		if err := a.mongo.Disconnect(ctx); err != nil {
			a.log.Warn().Err(err).Msg("mongo disconnect")
		}
	}
}
