// Package repetition 实现间隔重复调度：根据学习记录计算下次复习时间与是否到期。
//
// 间隔公式：
//
//	interval = clamp(InitialInterval × Ease^reviewCount × score/100, MinInterval, MaxInterval)
//
// 默认参数：InitialInterval = 1 天，Ease = 2.5，区间 [1 天, 365 天]。
package repetition

import (
	"math"
	"time"

	"github.com/rushteam/learnrec/core"
)

const (
	DefaultInitialInterval = 24 * time.Hour
	DefaultEaseFactor      = 2.5
	DefaultMinInterval     = 24 * time.Hour
	DefaultMaxInterval     = 365 * 24 * time.Hour
)

// State 是内容条目在复习周期中的阶段。
type State string

const (
	StateNew       State = "new"       // 没有学习记录
	StateReviewing State = "reviewing" // 复习中
	StateMastered  State = "mastered"  // 已掌握，不再到期
)

// Schedule 是对单条学习记录的调度结果。
type Schedule struct {
	NextReviewDate time.Time     `json:"next_review_date"`
	IsDue          bool          `json:"is_due"`
	Interval       time.Duration `json:"interval"`
	State          State         `json:"state"`
}

// EaseFunc 按记录返回本次使用的 ease 系数，用于替换固定的 EaseFactor。
type EaseFunc func(rec *core.PerformanceRecord) float64

// Scheduler 是间隔重复调度器，无内部可变状态，可并发使用。
type Scheduler struct {
	InitialInterval   time.Duration
	EaseFactor        float64
	MinInterval       time.Duration
	MaxInterval       time.Duration
	MasteredThreshold float64
	Clock             core.Clock

	// EaseFunc 非空时覆盖 EaseFactor
	EaseFunc EaseFunc
}

// Option 调度器配置选项
type Option func(*Scheduler)

// WithClock 设置时间源
func WithClock(c core.Clock) Option {
	return func(s *Scheduler) {
		s.Clock = c
	}
}

// WithEaseFactor 设置固定 ease 系数
func WithEaseFactor(f float64) Option {
	return func(s *Scheduler) {
		s.EaseFactor = f
	}
}

// WithIntervals 设置初始间隔与上下限
func WithIntervals(initial, minInterval, maxInterval time.Duration) Option {
	return func(s *Scheduler) {
		s.InitialInterval = initial
		s.MinInterval = minInterval
		s.MaxInterval = maxInterval
	}
}

// WithEaseFunc 设置按记录计算 ease 的函数（例如 SM2EaseFunc）
func WithEaseFunc(fn EaseFunc) Option {
	return func(s *Scheduler) {
		s.EaseFunc = fn
	}
}

// NewScheduler 创建带默认参数的调度器。
func NewScheduler(opts ...Option) *Scheduler {
	s := &Scheduler{
		InitialInterval:   DefaultInitialInterval,
		EaseFactor:        DefaultEaseFactor,
		MinInterval:       DefaultMinInterval,
		MaxInterval:       DefaultMaxInterval,
		MasteredThreshold: core.MasteredThreshold,
		Clock:             core.SystemClock{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Interval 计算复习间隔，结果总在 [MinInterval, MaxInterval] 内。
// reviewCount 越大、score 越高，间隔越长（单调不减，直到触顶）。
func (s *Scheduler) Interval(rec *core.PerformanceRecord) time.Duration {
	ease := s.EaseFactor
	if s.EaseFunc != nil {
		ease = s.EaseFunc(rec)
	}
	if ease <= 0 {
		ease = DefaultEaseFactor
	}
	initial := s.InitialInterval
	if initial <= 0 {
		initial = DefaultInitialInterval
	}

	raw := float64(initial) * math.Pow(ease, float64(rec.ReviewCount)) * rec.Score / 100
	return s.clamp(raw)
}

// clamp 在 float64 上截断，避免 ease^n 溢出 time.Duration。
func (s *Scheduler) clamp(raw float64) time.Duration {
	lo, hi := s.MinInterval, s.MaxInterval
	if lo <= 0 {
		lo = DefaultMinInterval
	}
	if hi <= 0 {
		hi = DefaultMaxInterval
	}
	if hi < lo {
		hi = lo
	}
	switch {
	case math.IsNaN(raw) || raw < float64(lo):
		return lo
	case raw > float64(hi):
		return hi
	}
	return time.Duration(raw)
}

// NextReviewDate 返回 now + Interval(rec)。
func (s *Scheduler) NextReviewDate(rec *core.PerformanceRecord) time.Time {
	return s.now().Add(s.Interval(rec))
}

// IsDue 判断记录是否到期：距上次复习已满一个间隔，且尚未掌握。
func (s *Scheduler) IsDue(rec *core.PerformanceRecord) bool {
	if s.isMastered(rec) {
		return false
	}
	return !s.now().Before(rec.LastReviewedAt.Add(s.Interval(rec)))
}

// State 返回记录所处阶段，rec 为 nil 时为 StateNew。
func (s *Scheduler) State(rec *core.PerformanceRecord) State {
	switch {
	case rec == nil:
		return StateNew
	case s.isMastered(rec):
		return StateMastered
	default:
		return StateReviewing
	}
}

// Schedule 校验记录后返回完整的调度结果。
func (s *Scheduler) Schedule(rec *core.PerformanceRecord) (Schedule, error) {
	if err := rec.Validate(); err != nil {
		return Schedule{}, core.WrapDomainError(core.ModuleRepetition, core.ErrorCodeInvalidInput, "repetition: invalid performance record", err)
	}
	interval := s.Interval(rec)
	return Schedule{
		NextReviewDate: s.now().Add(interval),
		IsDue:          s.IsDue(rec),
		Interval:       interval,
		State:          s.State(rec),
	}, nil
}

func (s *Scheduler) isMastered(rec *core.PerformanceRecord) bool {
	threshold := s.MasteredThreshold
	if threshold <= 0 {
		threshold = core.MasteredThreshold
	}
	return rec.Mastery() >= threshold
}

func (s *Scheduler) now() time.Time {
	if s.Clock == nil {
		return time.Now()
	}
	return s.Clock.Now()
}
