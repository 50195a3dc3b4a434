package filter

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rushteam/learnrec/core"
	"github.com/rushteam/learnrec/store"
)

var now = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func item(id, topic string, difficulty float64, tags ...string) *core.Item {
	return core.NewContentItem(&core.ContentItem{ID: id, Topic: topic, Difficulty: difficulty, Tags: tags})
}

func learnerCtx() *core.RecommendContext {
	return &core.RecommendContext{
		LearnerID:        "u1",
		Now:              now,
		TargetDifficulty: 0.5,
		WeakTopics:       []string{"Calculus"},
		Learner: core.NewLearnerSnapshot("u1", []*core.PerformanceRecord{
			{ContentItemID: "recent", Score: 40, LastReviewedAt: now.Add(-23 * time.Hour), ReviewCount: 1, MasteryLevel: 0.4},
			{ContentItemID: "old", Score: 40, LastReviewedAt: now.Add(-25 * time.Hour), ReviewCount: 1, MasteryLevel: 0.4},
			{ContentItemID: "mastered", Score: 95, LastReviewedAt: now.Add(-72 * time.Hour), ReviewCount: 3, MasteryLevel: 0.95},
		}),
	}
}

func run(t *testing.T, n *FilterNode, rctx *core.RecommendContext, items ...*core.Item) []string {
	t.Helper()
	out, err := n.Process(context.Background(), rctx, items)
	require.NoError(t, err)
	ids := make([]string, 0, len(out))
	for _, it := range out {
		ids = append(ids, it.ID)
	}
	return ids
}

func TestWeakTopicFilter(t *testing.T) {
	n := &FilterNode{Filters: []Filter{&WeakTopicFilter{}}}
	secondary := core.NewContentItem(&core.ContentItem{ID: "s", Topic: "Physics", Topics: []string{"Calculus"}})
	got := run(t, n, learnerCtx(), item("a", "Calculus", 0.5), item("b", "Algebra", 0.5), secondary)
	assert.Equal(t, []string{"a", "s"}, got)
}

func TestDifficultyBandFilter(t *testing.T) {
	n := &FilterNode{Filters: []Filter{NewDifficultyBandFilter(0.2)}}
	got := run(t, n, learnerCtx(),
		item("edge-low", "Calculus", 0.3),
		item("edge-high", "Calculus", 0.7),
		item("center", "Calculus", 0.5),
		item("far", "Calculus", 0.9),
		item("just-out", "Calculus", 0.71),
	)
	assert.Equal(t, []string{"edge-low", "edge-high", "center"}, got)
}

func TestRecentlyReviewedFilter(t *testing.T) {
	n := &FilterNode{Filters: []Filter{NewRecentlyReviewedFilter(0)}}
	got := run(t, n, learnerCtx(), item("recent", "x", 0), item("old", "x", 0), item("new", "x", 0))
	assert.Equal(t, []string{"old", "new"}, got)

	n = &FilterNode{Filters: []Filter{NewRecentlyReviewedFilter(48 * time.Hour)}}
	got = run(t, n, learnerCtx(), item("recent", "x", 0), item("old", "x", 0))
	assert.Empty(t, got)
}

func TestMasteredFilter(t *testing.T) {
	n := &FilterNode{Filters: []Filter{&MasteredFilter{}}}

	rctx := learnerCtx()
	assert.Equal(t, []string{"mastered", "old"}, run(t, n, rctx, item("mastered", "x", 0), item("old", "x", 0)))

	rctx.DueCheck = true
	assert.Equal(t, []string{"old"}, run(t, n, rctx, item("mastered", "x", 0), item("old", "x", 0)))

	n = &FilterNode{Filters: []Filter{&MasteredFilter{Always: true}}}
	assert.Equal(t, []string{"old"}, run(t, n, learnerCtx(), item("mastered", "x", 0), item("old", "x", 0)))
}

func TestBlacklistAndDismissed(t *testing.T) {
	kv := store.NewMemoryStore()
	defer kv.Close()
	adapter := NewStoreAdapter(kv)
	ctx := context.Background()
	require.NoError(t, adapter.PutList(ctx, "blacklist", []string{"b"}))
	require.NoError(t, adapter.PutList(ctx, "learner:dismissed:u1", []string{"d"}))

	n := &FilterNode{Filters: []Filter{
		NewBlacklistFilter([]string{"a"}, adapter, "blacklist"),
		NewDismissedFilter(adapter, ""),
	}}
	got := run(t, n, learnerCtx(), item("a", "x", 0), item("b", "x", 0), item("c", "x", 0), item("d", "x", 0))
	assert.Equal(t, []string{"c"}, got)

	other := learnerCtx()
	other.LearnerID = "u2"
	got = run(t, n, other, item("c", "x", 0), item("d", "x", 0))
	assert.Equal(t, []string{"c", "d"}, got, "missing dismissed list is empty")
}

func TestExprFilter(t *testing.T) {
	f, err := NewExprFilter(`!("advanced" in item.tags) && item.difficulty <= learner.target_difficulty`)
	require.NoError(t, err)

	n := &FilterNode{Filters: []Filter{f}}
	got := run(t, n, learnerCtx(),
		item("keep", "x", 0.4),
		item("adv", "x", 0.4, "advanced"),
		item("hard", "x", 0.8),
	)
	assert.Equal(t, []string{"keep"}, got)

	_, err = NewExprFilter(`item.difficulty <=`)
	assert.True(t, core.IsInvalidInput(err))
}

func TestFilterNode_Errors(t *testing.T) {
	boom := errors.New("lookup failed")
	failing := FilterFunc{FilterName: "filter.failing", Fn: func(context.Context, *core.RecommendContext, *core.Item) (bool, error) {
		return false, boom
	}}

	n := &FilterNode{Filters: []Filter{failing}}
	_, err := n.Process(context.Background(), learnerCtx(), []*core.Item{item("a", "x", 0)})
	assert.ErrorIs(t, err, boom)

	n.FailOpen = true
	assert.Equal(t, []string{"a"}, run(t, n, learnerCtx(), item("a", "x", 0)))
}

func TestFilterNode_LabelsFiltered(t *testing.T) {
	it := item("recent", "x", 0)
	n := &FilterNode{Filters: []Filter{NewRecentlyReviewedFilter(24 * time.Hour)}}
	assert.Empty(t, run(t, n, learnerCtx(), it))
	assert.Equal(t, "filter.recently_reviewed", it.Labels["filtered"].Source)
}
