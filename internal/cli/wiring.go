package cli

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"

	"sheet-quiz/internal/app"
	"sheet-quiz/internal/config"
	"sheet-quiz/internal/domain"
	"sheet-quiz/internal/infra/file"
	"sheet-quiz/internal/infra/memory"
	pgloader "sheet-quiz/internal/infra/postgres"
	redisinfra "sheet-quiz/internal/infra/redis"
	"sheet-quiz/internal/infra/sheets"
	"sheet-quiz/internal/infra/sqlite"
)

const defaultFetchTimeout = 10 * time.Second

// deps holds everything built from one config file.
type deps struct {
	cfg     config.Config
	log     hclog.Logger
	catalog domain.Catalog
	source  app.QuestionSource
	prefs   *app.Preferences
	redis   *redis.Client
	closers []func()
}

func newLogger(cfg config.Config, out io.Writer) hclog.Logger {
	return hclog.New(&hclog.LoggerOptions{
		Name:       "sheet-quiz",
		Level:      hclog.LevelFromString(cfg.Log.Level),
		JSONFormat: cfg.Log.JSON,
		Output:     out,
	})
}

// loadDeps wires config into adapters. withSource is false for commands that only touch preferences.
func loadDeps(ctx context.Context, cfg config.Config, logger hclog.Logger, withSource bool) (*deps, error) {
	d := &deps{cfg: cfg, log: logger}

	if cfg.Redis.Addr != "" {
		d.redis = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		client := d.redis
		d.closers = append(d.closers, func() { _ = client.Close() })
	}

	prefs, err := d.buildPreferences(ctx)
	if err != nil {
		d.Close()
		return nil, err
	}
	d.prefs = prefs

	if !withSource {
		return d, nil
	}

	d.catalog, err = cfg.Catalog()
	if err != nil {
		d.Close()
		return nil, err
	}
	if d.source, err = d.buildSource(ctx); err != nil {
		d.Close()
		return nil, err
	}
	return d, nil
}

func (d *deps) buildSource(ctx context.Context) (app.QuestionSource, error) {
	var loader memory.QuestionLoader
	switch d.cfg.Source.Driver {
	case config.SourceSheets:
		timeout := config.Duration(d.cfg.Source.Timeout, defaultFetchTimeout)
		loader = sheets.NewClient(d.cfg.Source.BaseURL, &http.Client{Timeout: timeout}, d.log.Named("sheets"))
	case config.SourcePostgres:
		pool, err := pgxpool.Connect(ctx, d.cfg.Postgres.URL)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		d.closers = append(d.closers, pool.Close)
		loader = pgloader.NewQuestionLoader(pool)
	case config.SourceStatic:
		bank, err := file.LoadQuestionBank(d.cfg.Source.StaticPath)
		if err != nil {
			return nil, err
		}
		loader = bank
	default:
		return nil, fmt.Errorf("unknown source driver %q", d.cfg.Source.Driver)
	}

	ttl := config.Duration(d.cfg.Source.CacheTTL, 0)
	if d.redis != nil {
		return redisinfra.NewQuestionRepository(d.redis, loader, ttl, d.log.Named("cache")), nil
	}
	return memory.NewQuestionRepository(loader, ttl), nil
}

func (d *deps) buildPreferences(ctx context.Context) (*app.Preferences, error) {
	var store app.PreferenceStore
	switch d.cfg.Preferences.Driver {
	case config.PrefsFile:
		store = file.NewPreferenceStore(d.cfg.Preferences.Path)
	case config.PrefsSQLite:
		s, err := sqlite.NewPreferenceStore(ctx, d.cfg.Preferences.Path)
		if err != nil {
			return nil, err
		}
		d.closers = append(d.closers, func() { _ = s.Close() })
		store = s
	case config.PrefsRedis:
		if d.redis == nil {
			return nil, fmt.Errorf("redis preference driver needs redis.addr")
		}
		store = redisinfra.NewPreferenceStore(d.redis)
	case config.PrefsMemory:
		store = memory.NewPreferenceStore()
	default:
		return nil, fmt.Errorf("unknown preferences driver %q", d.cfg.Preferences.Driver)
	}
	return app.NewPreferences(store, d.cfg.DefaultTheme(), d.log.Named("preferences")), nil
}

func (d *deps) newEngine() *app.Engine {
	return app.NewEngine(d.source, d.catalog, app.Options{
		TimeLimit:    config.Duration(d.cfg.Quiz.TimeLimit, app.DefaultTimeLimit),
		AdvanceDelay: config.Duration(d.cfg.Quiz.AdvanceDelay, app.DefaultAdvanceDelay),
		FetchTimeout: config.Duration(d.cfg.Source.Timeout, defaultFetchTimeout),
		Logger:       d.log.Named("engine"),
	})
}

// Close releases connections in reverse order of creation.
func (d *deps) Close() {
	for i := len(d.closers) - 1; i >= 0; i-- {
		d.closers[i]()
	}
	d.closers = nil
}
