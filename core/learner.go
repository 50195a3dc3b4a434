package core

import "time"

// LearnerSnapshot 是学习者画像的只读快照。
//
// 一句话定义：学习者快照 = 推荐 Pipeline 的"历史输入 + 决策信号"
//
// 它不是某一个 Node，而是：
//   - 被所有 Node 共享（过滤已读、近期复习、已掌握）
//   - 驱动 Recall / Rank（已读集合、平均掌握度）
//   - 由调用方在每次请求前获取，核心从不回写
type LearnerSnapshot struct {
	LearnerID    string
	Performances []*PerformanceRecord

	byContent map[string]*PerformanceRecord
}

// NewLearnerSnapshot 创建学习者快照。同一内容出现多条记录时保留最近复习的一条。
func NewLearnerSnapshot(learnerID string, perfs []*PerformanceRecord) *LearnerSnapshot {
	s := &LearnerSnapshot{
		LearnerID:    learnerID,
		Performances: perfs,
		byContent:    make(map[string]*PerformanceRecord, len(perfs)),
	}
	for _, p := range perfs {
		if p == nil {
			continue
		}
		if old, ok := s.byContent[p.ContentItemID]; ok && old.LastReviewedAt.After(p.LastReviewedAt) {
			continue
		}
		s.byContent[p.ContentItemID] = p
	}
	return s
}

// HasHistory 是否有任何历史记录（冷启动判断）。
func (s *LearnerSnapshot) HasHistory() bool {
	return s != nil && len(s.byContent) > 0
}

// Record 获取某个内容的学习记录。
func (s *LearnerSnapshot) Record(contentID string) (*PerformanceRecord, bool) {
	if s == nil {
		return nil, false
	}
	p, ok := s.byContent[contentID]
	return p, ok
}

// HasRead 检查学习者是否已有该内容的记录。
func (s *LearnerSnapshot) HasRead(contentID string) bool {
	_, ok := s.Record(contentID)
	return ok
}

// ReadIDs 返回已有记录的内容 ID 集合。
func (s *LearnerSnapshot) ReadIDs() map[string]struct{} {
	out := make(map[string]struct{})
	if s == nil {
		return out
	}
	for id := range s.byContent {
		out[id] = struct{}{}
	}
	return out
}

// ReviewedWithin 检查内容是否在时间窗口内被复习过。
func (s *LearnerSnapshot) ReviewedWithin(contentID string, now time.Time, window time.Duration) bool {
	p, ok := s.Record(contentID)
	if !ok {
		return false
	}
	return p.ReviewedWithin(now, window)
}

// AverageMastery 返回所有记录的平均掌握度，无记录时为 0。
func (s *LearnerSnapshot) AverageMastery() float64 {
	if !s.HasHistory() {
		return 0
	}
	// 按输入顺序累加，保证浮点结果可复现
	var sum float64
	for _, p := range s.Performances {
		if p != nil && s.byContent[p.ContentItemID] == p {
			sum += p.Mastery()
		}
	}
	return sum / float64(len(s.byContent))
}
