package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/nurye/shop/internal/cart"
	"github.com/nurye/shop/internal/catalog"
	"github.com/nurye/shop/internal/config"
	"github.com/nurye/shop/internal/localstore"
	"github.com/nurye/shop/internal/logging"
	"github.com/nurye/shop/internal/prefs"
	"github.com/nurye/shop/internal/search"
	"github.com/nurye/shop/internal/state"
	"github.com/nurye/shop/internal/ui"
)

// Options configure the storefront.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/nurye/prefs.toml
	PollEvery  int    // seconds; zero uses catalog_refresh_s
	Verbose    bool
	Logger     *zap.Logger // nil builds a file logger from the config
}

// Env holds the services shared by the TUI and the CLI subcommands.
type Env struct {
	Config  config.Config
	Prefs   prefs.Prefs
	Logger  *zap.Logger
	Storage localstore.Storage
	Cart    *cart.Store
	Catalog catalog.Source
	Fixture *catalog.Fixture // nil when the HTTP backend is used

	cache      *catalog.Cached
	ownsLogger bool
}

// Open loads configuration and builds the shared services. Local storage
// faults are not fatal: the cart falls back to memory.
func Open(opts Options) (*Env, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	userPrefs, _ := prefs.Load(opts.PrefsPath)

	env := &Env{Config: cfg, Prefs: userPrefs, Logger: opts.Logger}
	if env.Logger == nil {
		env.Logger, err = logging.New(cfg.LogFile, opts.Verbose)
		if err != nil {
			return nil, fmt.Errorf("init logger: %w", err)
		}
		env.ownsLogger = true
	}

	kind, err := localstore.ParseKind(cfg.Storage)
	if err != nil {
		_ = env.Close()
		return nil, err
	}
	env.Storage, err = localstore.Open(kind, cfg.DataDir)
	if err != nil {
		env.Logger.Warn("local storage unavailable, keeping cart in memory",
			zap.String("storage", cfg.Storage),
			zap.String("data_dir", cfg.DataDir),
			zap.Error(err),
		)
		env.Storage = localstore.NewMemory()
	}
	env.Cart = cart.New(env.Storage, env.Logger.Named("cart"))

	var src catalog.Source
	if cfg.UsesFixture() {
		f, err := catalog.LoadFixture(cfg.CatalogFile)
		if err != nil {
			_ = env.Close()
			return nil, err
		}
		env.Fixture = f
		src = f
	} else {
		client, err := catalog.NewClient(cfg.APIBase, env.Logger.Named("catalog"))
		if err != nil {
			_ = env.Close()
			return nil, fmt.Errorf("init catalog client: %w", err)
		}
		src = client
	}
	env.cache = catalog.NewCached(src, catalog.CacheTTL)
	env.Catalog = env.cache

	return env, nil
}

// Close releases local storage and flushes the logger.
func (e *Env) Close() error {
	var err error
	if e.Storage != nil {
		err = e.Storage.Close()
	}
	if e.ownsLogger && e.Logger != nil {
		_ = e.Logger.Sync()
	}
	return err
}

// Run boots the storefront TUI until the user quits or ctx is cancelled.
func Run(ctx context.Context, opts Options) error {
	env, err := Open(opts)
	if err != nil {
		return err
	}
	defer func() { _ = env.Close() }()

	cfg := env.Config
	logger := env.Logger
	logger.Info("nurye starting",
		zap.String("catalog", catalogSourceName(env)),
		zap.String("storage", cfg.Storage),
	)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	store := &state.Store{}

	interval := cfg.CatalogRefresh
	if opts.PollEvery > 0 {
		interval = time.Duration(opts.PollEvery) * time.Second
	}

	// Start background poller
	poller := StartPoller(ctx, store, env.Catalog, interval, logger.Named("poller"))

	if env.Fixture != nil {
		watcher, err := catalog.WatchFixture(env.Fixture, logger.Named("fixture"), func() {
			env.cache.Invalidate()
			poller.Trigger()
		})
		if err != nil {
			logger.Warn("catalog fixture will not reload", zap.Error(err))
		} else {
			defer watcher.Stop()
		}
	}

	ctrl := search.NewController(env.Catalog, search.Options{
		Delay:    cfg.SearchDebounce,
		MinChars: cfg.SearchMinChars,
		Logger:   logger.Named("search"),
	})
	defer ctrl.Close()

	err = ui.Run(ui.Options{
		Context:   ctx,
		Catalog:   env.Catalog,
		Store:     store,
		Cart:      env.Cart,
		Search:    ctrl,
		Currency:  cfg.Currency,
		Prefs:     env.Prefs,
		PrefsPath: opts.PrefsPath,
		Logger:    logger.Named("ui"),
	})

	cancel()
	<-poller.Done()
	logger.Info("nurye stopped", zap.Int("cart_items", env.Cart.Count()))
	return err
}

func catalogSourceName(env *Env) string {
	if env.Fixture != nil {
		return env.Fixture.Path()
	}
	return env.Config.APIBase
}
