package engine

import (
	"time"

	"github.com/rushteam/learnrec/core"
	"github.com/rushteam/learnrec/repetition"
)

// Config 是引擎的全部可调参数。零值字段在 New 中回落到默认值。
type Config struct {
	DefaultLimit    int
	ExclusionWindow time.Duration
	DifficultyBand  float64
	// DifficultyStretch 为 0 表示目标难度等于当前掌握度
	DifficultyStretch float64
	WeakThreshold     float64
	WeakTopN          int
	MasteredThreshold float64

	// Strategy 相似度打分策略：cosine / heuristic
	Strategy        string
	HeuristicSpread float64

	// FeatureCacheSize > 0 时 cosine 策略的特征抽取走 LRU 缓存，0 表示不缓存
	FeatureCacheSize int

	// CandidateRule 可选的 CEL 候选规则，结果为 false 的条目被过滤
	CandidateRule string

	Repetition RepetitionConfig
}

// RepetitionConfig 是间隔重复调度参数。
type RepetitionConfig struct {
	InitialInterval time.Duration
	EaseFactor      float64
	MinInterval     time.Duration
	MaxInterval     time.Duration
}

// DefaultConfig 返回默认配置。
func DefaultConfig() Config {
	return ConfigFrom(&core.DefaultRecommendConfig{})
}

// ConfigFrom 用 core.RecommendConfig 的取值构建 Config，其余字段取默认值。
func ConfigFrom(rc core.RecommendConfig) Config {
	return Config{
		DefaultLimit:      rc.DefaultLimit(),
		ExclusionWindow:   rc.ExclusionWindow(),
		DifficultyBand:    rc.DifficultyBand(),
		DifficultyStretch: rc.DifficultyStretch(),
		WeakThreshold:     rc.WeakThreshold(),
		WeakTopN:          rc.WeakTopN(),
		MasteredThreshold: core.MasteredThreshold,
		Strategy:          "cosine",
		Repetition: RepetitionConfig{
			InitialInterval: repetition.DefaultInitialInterval,
			EaseFactor:      repetition.DefaultEaseFactor,
			MinInterval:     repetition.DefaultMinInterval,
			MaxInterval:     repetition.DefaultMaxInterval,
		},
	}
}

// withDefaults 把零值字段补成默认值。
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.DefaultLimit <= 0 {
		c.DefaultLimit = d.DefaultLimit
	}
	if c.ExclusionWindow <= 0 {
		c.ExclusionWindow = d.ExclusionWindow
	}
	if c.DifficultyBand <= 0 {
		c.DifficultyBand = d.DifficultyBand
	}
	if c.DifficultyStretch < 0 {
		c.DifficultyStretch = d.DifficultyStretch
	}
	if c.WeakThreshold <= 0 {
		c.WeakThreshold = d.WeakThreshold
	}
	if c.MasteredThreshold <= 0 {
		c.MasteredThreshold = d.MasteredThreshold
	}
	if c.FeatureCacheSize < 0 {
		c.FeatureCacheSize = 0
	}
	if c.Strategy == "" {
		c.Strategy = d.Strategy
	}
	if c.Repetition.InitialInterval <= 0 {
		c.Repetition.InitialInterval = d.Repetition.InitialInterval
	}
	if c.Repetition.EaseFactor <= 0 {
		c.Repetition.EaseFactor = d.Repetition.EaseFactor
	}
	if c.Repetition.MinInterval <= 0 {
		c.Repetition.MinInterval = d.Repetition.MinInterval
	}
	if c.Repetition.MaxInterval <= 0 {
		c.Repetition.MaxInterval = d.Repetition.MaxInterval
	}
	return c
}
