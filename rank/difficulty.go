package rank

import (
	"context"
	"math"
	"sort"
	"strconv"

	"github.com/rushteam/learnrec/core"
	"github.com/rushteam/learnrec/pipeline"
	"github.com/rushteam/learnrec/pkg/utils"
)

// DefaultStretch 是目标难度相对当前掌握度的上浮量。
const DefaultStretch = 0.1

// TargetDifficulty 计算目标难度：min(1, mastery + stretch)，结果不小于 0。
func TargetDifficulty(mastery, stretch float64) float64 {
	return math.Max(0, math.Min(1, mastery+stretch))
}

// DifficultyNode 按与目标难度（rctx.TargetDifficulty）的距离升序排序。
// - 写入 item.Score = −|d − target|（距离越小分数越高）
// - 写入 labels：rank_model=difficulty、target_difficulty
// - 稳定排序：距离相同时保持输入（目录）顺序
type DifficultyNode struct{}

func (n *DifficultyNode) Name() string        { return "rank.difficulty" }
func (n *DifficultyNode) Kind() pipeline.Kind { return pipeline.KindRank }

func (n *DifficultyNode) Process(
	_ context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if len(items) == 0 || rctx == nil {
		return items, nil
	}

	target := rctx.TargetDifficulty
	targetLabel := strconv.FormatFloat(target, 'f', -1, 64)
	for _, it := range items {
		if it == nil {
			continue
		}
		it.Score = -math.Abs(it.Difficulty() - target)
		it.PutLabel("rank_model", utils.Label{Value: "difficulty", Source: utils.SourceRank})
		it.PutLabel("target_difficulty", utils.Label{Value: targetLabel, Source: utils.SourceRank})
	}

	sortByScore(items)
	return items, nil
}

// sortByScore 按 Score 降序稳定排序，nil 排在末尾。
func sortByScore(items []*core.Item) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i] == nil {
			return false
		}
		if items[j] == nil {
			return true
		}
		return items[i].Score > items[j].Score
	})
}
