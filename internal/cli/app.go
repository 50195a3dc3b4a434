package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/rushteam/learnrec/config"
	_ "github.com/rushteam/learnrec/config/builders"
	"github.com/rushteam/learnrec/core"
	"github.com/rushteam/learnrec/engine"
	"github.com/rushteam/learnrec/pipeline"
	"github.com/rushteam/learnrec/pkg/metrics"
	"github.com/rushteam/learnrec/store"
)

// app 持有一次命令执行所需的全部依赖。
type app struct {
	settings *config.Settings
	logger   zerolog.Logger
	kv       core.KeyValueStore
	catalog  *store.CatalogStore
	perf     *store.PerformanceStore
	lists    *listKeys
	engine   *engine.Engine
	registry *prometheus.Registry
}

// openApp 加载配置、打开存储、导入 --data 并创建引擎。调用方负责 close。
func openApp(ctx context.Context, opts *rootOptions, logOut io.Writer) (*app, error) {
	settings, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}
	logger := settings.NewLogger(logOut)

	kv, err := store.Open(settings.StoreOptions())
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	a := &app{
		settings: settings,
		logger:   logger,
		kv:       kv,
		catalog:  store.NewCatalogStore(kv, settings.Store.KeyPrefix),
		perf:     store.NewPerformanceStore(kv, settings.Store.KeyPrefix),
		lists:    newListKeys(kv, settings.Store.KeyPrefix),
	}

	if opts.dataPath != "" {
		fx, err := LoadFixture(opts.dataPath)
		if err != nil {
			a.close()
			return nil, err
		}
		if err := fx.Seed(ctx, a.catalog, a.perf, a.lists); err != nil {
			a.close()
			return nil, err
		}
		logger.Debug().
			Str("path", opts.dataPath).
			Int("items", len(fx.Catalog)).
			Int("learners", len(fx.Performances)).
			Msg("fixture loaded")
	}

	engineOpts := []engine.Option{
		engine.WithConfig(settings.EngineConfig()),
		engine.WithLogger(logger),
		engine.WithFilters(a.lists.filters()...),
	}
	now, err := opts.clockTime()
	if err != nil {
		a.close()
		return nil, err
	}
	if !now.IsZero() {
		engineOpts = append(engineOpts, engine.WithClock(core.FixedClock(now)))
	}
	if settings.Metrics.Enabled {
		a.registry = prometheus.NewRegistry()
		engineOpts = append(engineOpts, engine.WithMetrics(metrics.NewCollector(a.registry)))
	}
	if path := settings.Recommend.Pipeline; path != "" {
		p, err := loadWeakPipeline(path)
		if err != nil {
			a.close()
			return nil, err
		}
		engineOpts = append(engineOpts, engine.WithWeakPipeline(p))
	}

	eng, err := engine.New(a.catalog, a.perf, engineOpts...)
	if err != nil {
		a.close()
		return nil, err
	}
	a.engine = eng
	return a, nil
}

// loadWeakPipeline 从配置文件构建薄弱主题子链路。
func loadWeakPipeline(path string) (*pipeline.Pipeline, error) {
	cfg, err := pipeline.LoadConfig(path)
	if err != nil {
		return nil, err
	}
	if err := config.ValidatePipelineConfig(cfg); err != nil {
		return nil, fmt.Errorf("pipeline %s: %w", path, err)
	}
	return cfg.BuildPipeline(config.DefaultFactory())
}

// close 输出已采集的指标摘要并关闭存储。
func (a *app) close() {
	if a.engine != nil {
		if fc := a.engine.FeatureCache(); fc != nil {
			hits, misses, size := fc.Stats()
			a.logger.Debug().
				Uint64("hits", hits).
				Uint64("misses", misses).
				Int("size", size).
				Msg("feature cache")
		}
	}
	if a.registry != nil {
		families, err := a.registry.Gather()
		if err != nil {
			a.logger.Warn().Err(err).Msg("gather metrics failed")
		}
		for _, mf := range families {
			a.logger.Info().
				Str("metric", mf.GetName()).
				Int("series", len(mf.GetMetric())).
				Msg("metric collected")
		}
	}
	if err := a.kv.Close(); err != nil {
		a.logger.Warn().Err(err).Msg("close store failed")
	}
}
