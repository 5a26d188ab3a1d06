package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	chainstore "github.com/bnema/usahome-cli/internal/adapters/cache/chain"
	filestore "github.com/bnema/usahome-cli/internal/adapters/cache/file"
	redisstore "github.com/bnema/usahome-cli/internal/adapters/cache/redis"
	sqlitestore "github.com/bnema/usahome-cli/internal/adapters/cache/sqlite"
	"github.com/bnema/usahome-cli/internal/adapters/remote/httpapi"
	ledgerrender "github.com/bnema/usahome-cli/internal/adapters/render/ledger"
	tomlrepo "github.com/bnema/usahome-cli/internal/adapters/repo/toml"
	"github.com/bnema/usahome-cli/internal/application"
	"github.com/bnema/usahome-cli/internal/config"
	"github.com/bnema/usahome-cli/internal/domain"
	"github.com/bnema/usahome-cli/internal/logging"
	"github.com/bnema/usahome-cli/internal/ports"
	"github.com/spf13/viper"
)

type app struct {
	ledger         *application.LedgerService
	fees           *application.FeeService
	sessions       *application.SessionService
	log            logging.Logger
	offline        bool
	ledgerRenderer func(application.Snapshot, ledgerrender.LedgerOptions) (string, error)
	feeRenderer    func(application.FeeReport) (string, error)
	now            func() time.Time
	close          func() error
}

func wireApp() (*app, error) {
	cfg, err := config.Load(viper.New())
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger, err := logging.New(os.Stderr, cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("wire logger: %w", err)
	}

	cache, closeCache, err := newCacheStore(context.Background(), cfg.Cache, logger)
	if err != nil {
		return nil, fmt.Errorf("wire cache store: %w", err)
	}

	sessionRepo, err := tomlrepo.NewSessionRepository(cfg.SessionPath)
	if err != nil {
		_ = closeCache()
		return nil, fmt.Errorf("wire session repository: %w", err)
	}

	var (
		source    ports.AccountSource
		publisher ports.ServicePublisher
		auth      ports.Authenticator
	)
	if !cfg.API.Offline() {
		client := httpapi.NewClient(cfg.API.BaseURL, &http.Client{}, cfg.API.Timeout, cfg.API.CacheTTL)
		source, publisher, auth = client, client, client
	}

	ledger := application.NewLedgerService(source, publisher, cache, sessionRepo, logger, application.LedgerOptions{
		RemoteTimeout: cfg.API.Timeout,
		StrictCatalog: cfg.StrictCatalog,
	})

	fees, err := application.NewFeeService(ledger, cfg.FeeSchedule, cfg.FeeOverrides)
	if err != nil {
		_ = closeCache()
		return nil, fmt.Errorf("wire fee service: %w", err)
	}

	return &app{
		ledger:         ledger,
		fees:           fees,
		sessions:       application.NewSessionService(auth, sessionRepo, ports.SystemClock{}, logger),
		log:            logger,
		offline:        cfg.API.Offline(),
		ledgerRenderer: ledgerrender.RenderLedger,
		feeRenderer:    ledgerrender.RenderFee,
		now:            time.Now,
		close:          closeCache,
	}, nil
}

func newCacheStore(ctx context.Context, cfg config.CacheConfig, logger logging.Logger) (ports.CacheStore, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Backend {
	case config.CacheBackendFile:
		return filestore.NewStore(cfg.FileRoot()), noop, nil
	case config.CacheBackendSQLite:
		store, err := sqlitestore.Open(ctx, cfg.SQLitePath())
		if err != nil {
			return nil, noop, err
		}
		return store, store.Close, nil
	case config.CacheBackendRedis:
		client := redisstore.NewClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		return redisstore.NewStore(client, redisstore.DefaultPrefix), client.Close, nil
	case config.CacheBackendChain:
		store, closeFn, err := chainstore.NewSQLiteFirstWithFileFallback(ctx, cfg.SQLitePath(), cfg.FileRoot())
		if err != nil && store != nil {
			logger.Warn(ctx, "degraded cache backend", "err", err)
			return store, closeFn, nil
		}
		return store, closeFn, err
	default:
		return nil, noop, fmt.Errorf("%w: cache backend %q", domain.ErrPersistence, cfg.Backend)
	}
}
