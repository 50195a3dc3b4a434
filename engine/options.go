package engine

import (
	"github.com/rs/zerolog"

	"github.com/rushteam/learnrec/core"
	"github.com/rushteam/learnrec/filter"
	"github.com/rushteam/learnrec/pipeline"
	"github.com/rushteam/learnrec/pkg/metrics"
	"github.com/rushteam/learnrec/recall"
)

// Option 引擎配置选项
type Option func(*Engine)

// WithConfig 设置引擎参数
func WithConfig(cfg Config) Option {
	return func(e *Engine) {
		e.cfg = cfg
	}
}

// WithLogger 设置日志
//
//nolint:gocritic // zerolog.Logger 按值传递
func WithLogger(logger zerolog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithClock 设置时间源
func WithClock(clock core.Clock) Option {
	return func(e *Engine) {
		e.clock = clock
	}
}

// WithScorer 覆盖按 Config.Strategy 选择的相似度打分策略
func WithScorer(s recall.Scorer) Option {
	return func(e *Engine) {
		e.scorer = s
	}
}

// WithWeakPipeline 替换默认的薄弱主题子链路（例如从 YAML 配置构建）
func WithWeakPipeline(p *pipeline.Pipeline) Option {
	return func(e *Engine) {
		e.weak = p
	}
}

// WithMetrics 开启 Prometheus 指标
func WithMetrics(c *metrics.Collector) Option {
	return func(e *Engine) {
		e.metrics = c
	}
}

// WithFilters 追加对所有推荐路径生效的过滤器（例如黑名单、用户屏蔽）
func WithFilters(fs ...filter.Filter) Option {
	return func(e *Engine) {
		e.extraFilters = append(e.extraFilters, fs...)
	}
}

// RequestOption 单次推荐请求的选项
type RequestOption func(*request)

type request struct {
	mastery  *float64
	dueCheck bool
	scene    string
	params   map[string]any
}

// WithMastery 指定当前掌握度 [0,1]；未指定时取学习者全部记录的平均掌握度
func WithMastery(m float64) RequestOption {
	return func(r *request) {
		r.mastery = &m
	}
}

// WithDueCheck 排除已掌握的内容
func WithDueCheck() RequestOption {
	return func(r *request) {
		r.dueCheck = true
	}
}

// WithScene 设置请求场景（透传到 RecommendContext.Scene）
func WithScene(scene string) RequestOption {
	return func(r *request) {
		r.scene = scene
	}
}

// WithParam 设置请求级参数（透传到 RecommendContext.Params）
func WithParam(key string, value any) RequestOption {
	return func(r *request) {
		if r.params == nil {
			r.params = make(map[string]any)
		}
		r.params[key] = value
	}
}
