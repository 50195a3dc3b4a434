package core

import "time"

// MasteredThreshold 是掌握阈值：MasteryLevel 达到该值即视为已掌握。
const MasteredThreshold = 0.9

// PerformanceRecord 是某个学习者在某个内容条目上的历史表现。
//
// 首次完成时创建，之后每次复习原地更新（同一 (learner, contentItemId) 只有一条有效记录）。
// 推荐核心只把它当作输入快照，从不直接修改；写回由外部协作方负责。
type PerformanceRecord struct {
	ContentItemID  string    `json:"content_item_id" yaml:"content_item_id" validate:"required"`
	Score          float64   `json:"score" yaml:"score" validate:"gte=0,lte=100"`       // 0-100 归一化正确率
	TimeSpent      float64   `json:"time_spent" yaml:"time_spent" validate:"gte=0"`     // 秒
	LastReviewedAt time.Time `json:"last_reviewed_at" yaml:"last_reviewed_at"`          // 最近一次复习时间
	ReviewCount    int       `json:"review_count" yaml:"review_count" validate:"gte=1"` // 单调递增

	// MasteryLevel 是派生值，通常为 score/100。
	// 0 视为未设置：Score > 0 时读取方一律用 Mastery() 按 Score/100 推导，
	// 因此"有分数但掌握度为 0"无法表达，需要 0 掌握度时 Score 也应为 0。
	MasteryLevel float64 `json:"mastery_level" yaml:"mastery_level" validate:"gte=0,lte=1"`
}

// Validate 校验记录，失败返回 INVALID_INPUT（不做静默截断）。
func (p *PerformanceRecord) Validate() error {
	if p == nil {
		return ErrInvalidInput(ModulePerformance, "nil performance record")
	}
	if err := validateStruct(ModulePerformance, p); err != nil {
		return err
	}
	if p.LastReviewedAt.IsZero() {
		return ErrInvalidInput(ModulePerformance, "LastReviewedAt is required (content %q)", p.ContentItemID)
	}
	return nil
}

// Mastery 返回掌握度。MasteryLevel 为 0 且 Score > 0 时按 Score/100 推导，
// 显式写入的 0 同样会被替换。
func (p *PerformanceRecord) Mastery() float64 {
	if p.MasteryLevel == 0 && p.Score > 0 {
		return p.Score / 100
	}
	return p.MasteryLevel
}

// IsMastered 检查是否已达到掌握阈值。
func (p *PerformanceRecord) IsMastered() bool {
	return p.Mastery() >= MasteredThreshold
}

// ReviewedWithin 检查记录是否在 now 之前的 window 时间窗口内被复习过。
func (p *PerformanceRecord) ReviewedWithin(now time.Time, window time.Duration) bool {
	if window <= 0 {
		return false
	}
	return now.Sub(p.LastReviewedAt) < window
}

// ValidatePerformances 逐条校验学习记录。
func ValidatePerformances(perfs []*PerformanceRecord) error {
	for _, p := range perfs {
		if err := p.Validate(); err != nil {
			return err
		}
	}
	return nil
}
