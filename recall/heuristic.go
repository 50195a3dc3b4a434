package recall

import (
	"context"
	"math"

	"github.com/rushteam/learnrec/core"
	"github.com/rushteam/learnrec/feature"
)

// HeuristicScorer 是混合启发式打分策略：
//
//	score = 1 − |d − avgRead| / Spread
//	      + TopicBonus      （候选主题与任一已读内容主题相同）
//	      + Σ overlap / OverlapDivisor （与每个已读内容的词集合交集大小）
//	      + StretchBonus    （候选难度高于已读平均难度）
//
// Spread 是难度的最大期望跨度（XP 单位，默认 30）。
type HeuristicScorer struct {
	Spread         float64
	TopicBonus     float64
	StretchBonus   float64
	OverlapDivisor float64
	MinTokenLength int
}

// NewHeuristicScorer 创建使用默认参数的启发式打分器。
func NewHeuristicScorer() *HeuristicScorer {
	return &HeuristicScorer{
		Spread:         30,
		TopicBonus:     0.5,
		StretchBonus:   0.2,
		OverlapDivisor: 1000,
		MinTokenLength: feature.DefaultMinTokenLength,
	}
}

func (s *HeuristicScorer) Name() string { return "heuristic" }

func (s *HeuristicScorer) Score(
	ctx context.Context,
	read, candidates []*core.ContentItem,
) ([]core.Recommendation, error) {
	if err := validateItems(read); err != nil {
		return nil, err
	}
	if err := validateItems(candidates); err != nil {
		return nil, err
	}
	if !hasRead(read) {
		return ColdStartOrder(candidates), nil
	}

	spread := s.Spread
	if spread <= 0 {
		spread = 30
	}
	divisor := s.OverlapDivisor
	if divisor <= 0 {
		divisor = 1000
	}

	var sumDiff float64
	var n int
	readTopics := make(map[string]struct{})
	readWords := make([]map[string]struct{}, 0, len(read))
	for _, r := range read {
		if r == nil {
			continue
		}
		sumDiff += r.Difficulty
		n++
		readTopics[r.Topic] = struct{}{}
		readWords = append(readWords, s.wordSet(r))
	}
	avg := sumDiff / float64(n)

	pool := unread(read, candidates)
	out := make([]core.Recommendation, 0, len(pool))
	for _, c := range pool {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		score := 1 - math.Abs(c.Difficulty-avg)/spread
		if _, ok := readTopics[c.Topic]; ok {
			score += s.TopicBonus
		}
		words := s.wordSet(c)
		for _, rw := range readWords {
			score += float64(overlap(words, rw)) / divisor
		}
		if c.Difficulty > avg {
			score += s.StretchBonus
		}
		out = append(out, core.Recommendation{
			ContentItemID:  c.ID,
			RelevanceScore: score,
			Reason:         s.Name(),
		})
	}
	return rankDesc(out), nil
}

func (s *HeuristicScorer) wordSet(c *core.ContentItem) map[string]struct{} {
	toks := feature.Tokenize(c.Title+" "+c.Body, s.MinTokenLength)
	set := make(map[string]struct{}, len(toks))
	for _, t := range toks {
		set[t] = struct{}{}
	}
	return set
}

func overlap(a, b map[string]struct{}) int {
	if len(b) < len(a) {
		a, b = b, a
	}
	n := 0
	for k := range a {
		if _, ok := b[k]; ok {
			n++
		}
	}
	return n
}
