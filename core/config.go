package core

import "time"

// RecommendConfig 是推荐相关的配置接口，用于提供默认值。
type RecommendConfig interface {
	// DefaultLimit 返回默认推荐条数
	DefaultLimit() int

	// ExclusionWindow 返回近期复习排除窗口
	ExclusionWindow() time.Duration

	// DifficultyBand 返回与目标难度允许的最大距离
	DifficultyBand() float64

	// DifficultyStretch 返回目标难度相对当前掌握度的上浮量
	DifficultyStretch() float64

	// WeakThreshold 返回薄弱主题的平均分阈值（低于即薄弱）
	WeakThreshold() float64

	// WeakTopN 返回最多返回的薄弱主题数
	WeakTopN() int
}

// DefaultRecommendConfig 是默认的推荐配置实现。
type DefaultRecommendConfig struct{}

func (c *DefaultRecommendConfig) DefaultLimit() int {
	return 5
}

func (c *DefaultRecommendConfig) ExclusionWindow() time.Duration {
	return 24 * time.Hour
}

func (c *DefaultRecommendConfig) DifficultyBand() float64 {
	return 0.2
}

func (c *DefaultRecommendConfig) DifficultyStretch() float64 {
	return 0.1
}

func (c *DefaultRecommendConfig) WeakThreshold() float64 {
	return 70
}

func (c *DefaultRecommendConfig) WeakTopN() int {
	return 3
}
