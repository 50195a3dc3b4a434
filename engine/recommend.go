package engine

import (
	"context"
	"time"

	"github.com/rushteam/learnrec/analysis"
	"github.com/rushteam/learnrec/core"
	"github.com/rushteam/learnrec/rank"
	"github.com/rushteam/learnrec/recall"
)

// GetRecommendations 返回最多 limit 条推荐。
//   - limit == 0 返回空列表；limit < 0 返回 INVALID_INPUT
//   - 有薄弱主题时走 weak_topic 路径，否则回退到 similarity / cold_start
//   - 24 小时内复习过的内容一律排除；WithDueCheck 时排除已掌握的内容
func (e *Engine) GetRecommendations(ctx context.Context, learnerID string, limit int, opts ...RequestOption) (core.Recommendations, error) {
	if learnerID == "" {
		return nil, core.ErrInvalidInput(core.ModuleEngine, "learner id is required")
	}
	if limit < 0 {
		return nil, core.ErrInvalidInput(core.ModuleEngine, "limit must be >= 0, got %d", limit)
	}
	if limit == 0 {
		return core.Recommendations{}, nil
	}

	req := &request{}
	for _, opt := range opts {
		opt(req)
	}
	if req.mastery != nil && (*req.mastery < 0 || *req.mastery > 1) {
		return nil, core.ErrInvalidInput(core.ModuleEngine, "mastery must be within [0,1], got %v", *req.mastery)
	}

	start := time.Now()
	logger := e.logger.With().
		Str("request_id", newRequestID()).
		Str("learner_id", learnerID).
		Int("limit", limit).
		Logger()

	rctx, err := e.buildContext(ctx, learnerID, limit, req)
	if err != nil {
		e.metrics.ObserveError("recommend")
		logger.Warn().Err(err).Msg("build recommend context failed")
		return nil, err
	}

	items, err := e.recommend.Run(ctx, rctx, nil)
	if err != nil {
		e.metrics.ObserveError("recommend")
		logger.Warn().Err(err).Msg("recommend pipeline failed")
		return nil, err
	}
	if len(items) > limit {
		items = items[:limit]
	}

	path := ""
	if len(items) > 0 {
		if lbl, ok := items[0].Labels[recall.LabelRecallPath]; ok {
			path = lbl.First()
		}
	}
	recs := core.ItemsToRecommendations(items)
	elapsed := time.Since(start)
	e.metrics.ObserveRecommend(path, len(recs), elapsed)

	logger.Debug().
		Str("path", path).
		Strs("weak_topics", rctx.WeakTopics).
		Float64("mastery", rctx.MasteryLevel).
		Float64("target_difficulty", rctx.TargetDifficulty).
		Int("count", len(recs)).
		Dur("duration", elapsed).
		Msg("recommendation complete")
	return recs, nil
}

// buildContext 读取数据并计算薄弱主题、掌握度与目标难度。
func (e *Engine) buildContext(ctx context.Context, learnerID string, limit int, req *request) (*core.RecommendContext, error) {
	catalog, perfs, err := e.load(ctx, learnerID)
	if err != nil {
		return nil, err
	}
	weak, err := e.analyzer.WeakAreas(perfs, analysis.IndexCatalog(catalog))
	if err != nil {
		return nil, err
	}
	e.metrics.ObserveWeakTopics(len(weak))

	learner := core.NewLearnerSnapshot(learnerID, perfs)
	mastery := learner.AverageMastery()
	if req.mastery != nil {
		mastery = *req.mastery
	}

	return &core.RecommendContext{
		LearnerID:        learnerID,
		Scene:            req.scene,
		Now:              e.clock.Now(),
		Learner:          learner,
		Catalog:          catalog,
		MasteryLevel:     mastery,
		TargetDifficulty: rank.TargetDifficulty(mastery, e.cfg.DifficultyStretch),
		WeakTopics:       weak,
		DueCheck:         req.dueCheck,
		Limit:            limit,
		Params:           req.params,
	}, nil
}
