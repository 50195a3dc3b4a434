package rank

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rushteam/learnrec/core"
)

func items(diffs map[string]float64, order ...string) []*core.Item {
	out := make([]*core.Item, 0, len(order))
	for _, id := range order {
		out = append(out, core.NewContentItem(&core.ContentItem{ID: id, Topic: "Calculus", Difficulty: diffs[id]}))
	}
	return out
}

func ids(items []*core.Item) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.ID)
	}
	return out
}

func TestTargetDifficulty(t *testing.T) {
	assert.InDelta(t, 0.6, TargetDifficulty(0.5, DefaultStretch), 1e-9)
	assert.Equal(t, 1.0, TargetDifficulty(0.95, DefaultStretch))
	assert.InDelta(t, 0.1, TargetDifficulty(0, DefaultStretch), 1e-9)
	assert.Equal(t, 0.0, TargetDifficulty(-0.5, 0.1))
}

func TestDifficultyNode_SortsByDistance(t *testing.T) {
	in := items(map[string]float64{"A": 0.9, "B": 0.55, "C": 0.6, "D": 0.3}, "A", "B", "C", "D")
	rctx := &core.RecommendContext{TargetDifficulty: 0.6}

	out, err := (&DifficultyNode{}).Process(context.Background(), rctx, in)
	require.NoError(t, err)
	assert.Equal(t, []string{"C", "B", "A", "D"}, ids(out))
	assert.InDelta(t, 0, out[0].Score, 1e-9)
	assert.InDelta(t, -0.05, out[1].Score, 1e-9)
	assert.Equal(t, "difficulty", out[0].Labels["rank_model"].Value)
	assert.Equal(t, "0.6", out[0].Labels["target_difficulty"].Value)
}

func TestDifficultyNode_StableOnTies(t *testing.T) {
	// B 与 D 距离相同（0.1），保持输入顺序
	in := items(map[string]float64{"B": 0.4, "D": 0.6, "A": 0.5}, "B", "D", "A")
	out, err := (&DifficultyNode{}).Process(context.Background(), &core.RecommendContext{TargetDifficulty: 0.5}, in)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "D"}, ids(out))
}

func TestDifficultyNode_Empty(t *testing.T) {
	out, err := (&DifficultyNode{}).Process(context.Background(), &core.RecommendContext{}, nil)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestSimilarityNode(t *testing.T) {
	read := &core.ContentItem{ID: "R", Topic: "Calculus", Body: "limits derivatives"}
	near := &core.ContentItem{ID: "N", Topic: "Calculus", Body: "limits of functions"}
	far := &core.ContentItem{ID: "F", Topic: "History", Body: "ancient empires"}
	now := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	rctx := &core.RecommendContext{
		Now:     now,
		Catalog: []*core.ContentItem{read, far, near},
		Learner: core.NewLearnerSnapshot("u1", []*core.PerformanceRecord{
			{ContentItemID: "R", Score: 80, LastReviewedAt: now.Add(-48 * time.Hour), ReviewCount: 1},
		}),
	}

	in := []*core.Item{core.NewContentItem(far), core.NewContentItem(near)}
	out, err := (&SimilarityNode{}).Process(context.Background(), rctx, in)
	require.NoError(t, err)
	assert.Equal(t, []string{"N", "F"}, ids(out))
	assert.Greater(t, out[0].Score, 0.0)
	assert.Equal(t, 0.0, out[1].Score)
}

func TestSimilarityNode_NoHistoryKeepsOrder(t *testing.T) {
	in := items(map[string]float64{"A": 0.2, "B": 0.1}, "A", "B")
	out, err := (&SimilarityNode{}).Process(context.Background(), &core.RecommendContext{}, in)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, ids(out))
}
