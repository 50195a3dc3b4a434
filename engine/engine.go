// Package engine 是学习内容推荐的门面：组装 Pipeline，对外暴露推荐、薄弱点分析、
// 复习调度、相似度打分、复习记录与测验结果写回。
//
// 推荐链路按优先级回退（recall.Fallback）：
//
//	weak_topic  : 薄弱主题召回 → 过滤（主题/难度带/近期复习/已掌握）→ 难度距离排序 → TopN
//	similarity  : 相似度召回（有历史的学习者）→ 过滤 → TopN
//	cold_start  : 按难度升序 → 过滤 → TopN
//
// Engine 无可变状态，可并发使用。
package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/rushteam/learnrec/analysis"
	"github.com/rushteam/learnrec/core"
	"github.com/rushteam/learnrec/feature"
	"github.com/rushteam/learnrec/filter"
	"github.com/rushteam/learnrec/pipeline"
	"github.com/rushteam/learnrec/pkg/metrics"
	"github.com/rushteam/learnrec/rank"
	"github.com/rushteam/learnrec/recall"
	"github.com/rushteam/learnrec/repetition"
	"github.com/rushteam/learnrec/rerank"
	"github.com/rushteam/learnrec/session"
)

// 推荐路径名称，同时是 recall_path label 的取值。
const (
	PathWeakTopic  = "weak_topic"
	PathSimilarity = "similarity"
	PathColdStart  = "cold_start"
)

// Engine 是推荐引擎。
type Engine struct {
	catalog core.CatalogProvider
	perf    core.PerformanceProvider

	cfg          Config
	logger       zerolog.Logger
	clock        core.Clock
	scorer       recall.Scorer
	weak         *pipeline.Pipeline
	metrics      *metrics.Collector
	extraFilters []filter.Filter
	features     *feature.CachedExtractor

	analyzer  *analysis.Analyzer
	scheduler *repetition.Scheduler
	recommend *pipeline.Pipeline
}

// New 创建推荐引擎。
func New(catalog core.CatalogProvider, perf core.PerformanceProvider, opts ...Option) (*Engine, error) {
	if catalog == nil {
		return nil, core.ErrInvalidInput(core.ModuleEngine, "catalog provider is required")
	}
	if perf == nil {
		return nil, core.ErrInvalidInput(core.ModuleEngine, "performance provider is required")
	}

	e := &Engine{
		catalog: catalog,
		perf:    perf,
		cfg:     DefaultConfig(),
		logger:  zerolog.Nop(),
		clock:   core.SystemClock{},
	}
	for _, opt := range opts {
		opt(e)
	}
	e.cfg = e.cfg.withDefaults()
	e.logger = e.logger.With().Str("component", "engine").Logger()

	if e.scorer == nil {
		scorer, err := recall.ScorerByName(e.cfg.Strategy)
		if err != nil {
			return nil, err
		}
		switch s := scorer.(type) {
		case *recall.HeuristicScorer:
			if e.cfg.HeuristicSpread > 0 {
				s.Spread = e.cfg.HeuristicSpread
			}
		case *recall.CosineScorer:
			if e.cfg.FeatureCacheSize > 0 {
				e.features = feature.NewCachedExtractor(s.Extractor, e.cfg.FeatureCacheSize)
				s.Extractor = e.features
			}
		}
		e.scorer = scorer
	}

	e.analyzer = &analysis.Analyzer{Threshold: e.cfg.WeakThreshold, TopN: e.cfg.WeakTopN}
	e.scheduler = repetition.NewScheduler(
		repetition.WithClock(e.clock),
		repetition.WithEaseFactor(e.cfg.Repetition.EaseFactor),
		repetition.WithIntervals(e.cfg.Repetition.InitialInterval, e.cfg.Repetition.MinInterval, e.cfg.Repetition.MaxInterval),
	)
	e.scheduler.MasteredThreshold = e.cfg.MasteredThreshold

	if err := e.buildPipelines(); err != nil {
		return nil, err
	}

	e.logger.Info().
		Str("strategy", e.scorer.Name()).
		Strs("weak_nodes", e.weak.NodeNames()).
		Msg("engine initialized")
	return e, nil
}

// buildPipelines 组装三条子链路与顶层回退链路。
func (e *Engine) buildPipelines() error {
	common := []filter.Filter{
		filter.NewRecentlyReviewedFilter(e.cfg.ExclusionWindow),
		&filter.MasteredFilter{Threshold: e.cfg.MasteredThreshold},
	}
	if e.cfg.CandidateRule != "" {
		expr, err := filter.NewExprFilter(e.cfg.CandidateRule)
		if err != nil {
			return err
		}
		common = append(common, expr)
	}
	common = append(common, e.extraFilters...)

	if e.weak == nil {
		weakFilters := append([]filter.Filter{
			&filter.WeakTopicFilter{},
			filter.NewDifficultyBandFilter(e.cfg.DifficultyBand),
		}, common...)
		e.weak = pipeline.New(PathWeakTopic,
			&recall.WeakTopicRecall{},
			&filter.FilterNode{Filters: weakFilters},
			&rank.DifficultyNode{},
			&rerank.TopNNode{},
		)
	}
	similarity := pipeline.New(PathSimilarity,
		&recall.SimilarityRecall{Scorer: e.scorer, WarmOnly: true},
		&filter.FilterNode{Filters: common},
		&rerank.TopNNode{},
	)
	coldStart := pipeline.New(PathColdStart,
		&recall.ColdStart{},
		&filter.FilterNode{Filters: common},
		&rerank.TopNNode{},
	)

	observe := e.observeNode
	e.recommend = pipeline.New("recommend", &recall.Fallback{
		Sources: []recall.Source{
			&recall.PipelineSource{SourceName: PathWeakTopic, Pipeline: e.weak.WithObserver(observe)},
			&recall.PipelineSource{SourceName: PathSimilarity, Pipeline: similarity.WithObserver(observe)},
			&recall.PipelineSource{SourceName: PathColdStart, Pipeline: coldStart.WithObserver(observe)},
		},
	})
	return nil
}

func (e *Engine) observeNode(node pipeline.Node, in, out int, elapsed time.Duration, err error) {
	e.metrics.ObserveNode(node.Name(), string(node.Kind()), elapsed)
	e.logger.Trace().
		Str("node", node.Name()).
		Int("in", in).
		Int("out", out).
		Dur("elapsed", elapsed).
		Err(err).
		Msg("node processed")
}

// FeatureCache 返回特征缓存，未开启时为 nil。目录内容变更后应调用其 Invalidate。
func (e *Engine) FeatureCache() *feature.CachedExtractor {
	return e.features
}

// DefaultLimit 返回配置的默认推荐条数，供调用方在未指定 limit 时使用。
func (e *Engine) DefaultLimit() int {
	return e.cfg.DefaultLimit
}

// Config 返回生效的配置（已补全默认值）。
func (e *Engine) Config() Config {
	return e.cfg
}

// GetWeakAreas 返回学习者最弱的主题（平均分最低在前）。
func (e *Engine) GetWeakAreas(ctx context.Context, learnerID string) ([]string, error) {
	if learnerID == "" {
		return nil, core.ErrInvalidInput(core.ModuleEngine, "learner id is required")
	}
	catalog, perfs, err := e.load(ctx, learnerID)
	if err != nil {
		e.metrics.ObserveError("weak_areas")
		return nil, err
	}
	weak, err := e.analyzer.WeakAreas(perfs, analysis.IndexCatalog(catalog))
	if err != nil {
		e.metrics.ObserveError("weak_areas")
		return nil, err
	}
	e.metrics.ObserveWeakTopics(len(weak))
	return weak, nil
}

// ScheduleNextReview 计算记录的下次复习时间与是否到期。
func (e *Engine) ScheduleNextReview(rec *core.PerformanceRecord) (repetition.Schedule, error) {
	s, err := e.scheduler.Schedule(rec)
	if err != nil {
		e.metrics.ObserveError("schedule")
		return repetition.Schedule{}, err
	}
	e.metrics.ObserveSchedule(s.IsDue)
	return s, nil
}

// ScoreContentSimilarity 用当前打分策略对候选打分（排除已读，无已读时返回冷启动顺序）。
func (e *Engine) ScoreContentSimilarity(ctx context.Context, read, candidates []*core.ContentItem) ([]core.Recommendation, error) {
	recs, err := e.scorer.Score(ctx, read, candidates)
	if err != nil {
		e.metrics.ObserveError("similarity")
		return nil, err
	}
	return recs, nil
}

// RecordReview 写回一次复习结果：读取旧记录 → repetition.ApplyReview → UpsertPerformance。
// 同一学习者的并发写回需要调用方串行化。
func (e *Engine) RecordReview(ctx context.Context, learnerID, contentID string, score, timeSpent float64) (*core.PerformanceRecord, error) {
	return e.writeReview(ctx, learnerID, contentID, func(prev *core.PerformanceRecord, now time.Time) (*core.PerformanceRecord, error) {
		return repetition.ApplyReview(prev, contentID, score, timeSpent, now)
	})
}

// CompleteQuiz 结束一次测验并写回学习记录：得分取正确率，耗时取 StartedAt 到当前时间。
func (e *Engine) CompleteQuiz(ctx context.Context, q session.Quiz) (*core.PerformanceRecord, error) {
	if len(q.Answers) == 0 {
		return nil, core.ErrInvalidInput(core.ModuleEngine, "quiz on %q has no answers", q.ContentItemID)
	}
	return e.writeReview(ctx, q.LearnerID, q.ContentItemID, q.Complete)
}

func (e *Engine) writeReview(
	ctx context.Context,
	learnerID, contentID string,
	apply func(prev *core.PerformanceRecord, now time.Time) (*core.PerformanceRecord, error),
) (*core.PerformanceRecord, error) {
	if learnerID == "" {
		return nil, core.ErrInvalidInput(core.ModuleEngine, "learner id is required")
	}
	if _, err := e.catalog.GetItem(ctx, contentID); err != nil {
		e.metrics.ObserveError("record_review")
		return nil, fmt.Errorf("get content %s: %w", contentID, err)
	}
	perfs, err := e.perf.ListPerformances(ctx, learnerID)
	if err != nil {
		e.metrics.ObserveError("record_review")
		return nil, fmt.Errorf("list performances: %w", err)
	}
	prev, _ := core.NewLearnerSnapshot(learnerID, perfs).Record(contentID)

	next, err := apply(prev, e.clock.Now())
	if err != nil {
		e.metrics.ObserveError("record_review")
		return nil, err
	}
	if err := e.perf.UpsertPerformance(ctx, learnerID, next); err != nil {
		e.metrics.ObserveError("record_review")
		return nil, fmt.Errorf("upsert performance: %w", err)
	}

	e.logger.Debug().
		Str("learner_id", learnerID).
		Str("content_id", contentID).
		Int("review_count", next.ReviewCount).
		Float64("score", next.Score).
		Msg("review recorded")
	return next, nil
}

// load 并发读取目录与学习记录，并做输入校验。
func (e *Engine) load(ctx context.Context, learnerID string) ([]*core.ContentItem, []*core.PerformanceRecord, error) {
	var (
		catalog []*core.ContentItem
		perfs   []*core.PerformanceRecord
	)
	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		items, err := e.catalog.ListItems(egCtx)
		if err != nil {
			return fmt.Errorf("list catalog: %w", err)
		}
		catalog = items
		return nil
	})
	eg.Go(func() error {
		recs, err := e.perf.ListPerformances(egCtx, learnerID)
		if err != nil {
			return fmt.Errorf("list performances: %w", err)
		}
		perfs = recs
		return nil
	})
	if err := eg.Wait(); err != nil {
		return nil, nil, err
	}

	if err := core.ValidateCatalog(catalog); err != nil {
		return nil, nil, err
	}
	if err := core.ValidatePerformances(perfs); err != nil {
		return nil, nil, err
	}
	return catalog, perfs, nil
}

func newRequestID() string {
	return uuid.NewString()
}
