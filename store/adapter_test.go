package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rushteam/learnrec/core"
)

func TestCatalogStore(t *testing.T) {
	kv := NewMemoryStore()
	defer kv.Close()
	cat := NewCatalogStore(kv, "test")
	ctx := context.Background()

	require.NoError(t, cat.PutItems(ctx,
		&core.ContentItem{ID: "B", Topic: "Calculus", Difficulty: 0.9},
		&core.ContentItem{ID: "A", Topic: "Calculus", Difficulty: 0.3},
		&core.ContentItem{ID: "C", Topic: "Algebra", Topics: []string{"Calculus"}, Difficulty: 0.2},
	))

	items, err := cat.ListItems(ctx)
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "A", items[0].ID)
	assert.Equal(t, "C", items[2].ID)

	byTopic, err := cat.ListByTopic(ctx, "Calculus")
	require.NoError(t, err)
	assert.Len(t, byTopic, 3)
	algebra, err := cat.ListByTopic(ctx, "Algebra")
	require.NoError(t, err)
	require.Len(t, algebra, 1)
	assert.Equal(t, "C", algebra[0].ID)

	got, err := cat.GetItem(ctx, "B")
	require.NoError(t, err)
	assert.InDelta(t, 0.9, got.Difficulty, 1e-9)

	_, err = cat.GetItem(ctx, "Z")
	assert.True(t, core.IsNotFound(err))

	err = cat.PutItems(ctx, &core.ContentItem{ID: "bad", Difficulty: 0.1})
	assert.True(t, core.IsInvalidInput(err))
}

func TestPerformanceStore_Upsert(t *testing.T) {
	kv, err := NewBadgerStore(BadgerOptions{InMemory: true})
	require.NoError(t, err)
	defer kv.Close()

	perf := NewPerformanceStore(kv, "test")
	ctx := context.Background()
	at := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	first := &core.PerformanceRecord{ContentItemID: "A", Score: 40, LastReviewedAt: at, ReviewCount: 1, MasteryLevel: 0.4}
	second := &core.PerformanceRecord{ContentItemID: "A", Score: 90, LastReviewedAt: at.Add(48 * time.Hour), ReviewCount: 2, MasteryLevel: 0.9}
	require.NoError(t, perf.UpsertPerformance(ctx, "u1", first))
	require.NoError(t, perf.UpsertPerformance(ctx, "u1", second))
	require.NoError(t, perf.UpsertPerformance(ctx, "u2", first))

	recs, err := perf.ListPerformances(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, recs, 1, "one active record per (learner, item)")
	assert.Equal(t, 2, recs[0].ReviewCount)
	assert.True(t, recs[0].LastReviewedAt.Equal(second.LastReviewedAt))

	empty, err := perf.ListPerformances(ctx, "nobody")
	require.NoError(t, err)
	assert.Empty(t, empty)

	err = perf.UpsertPerformance(ctx, "u1", &core.PerformanceRecord{ContentItemID: "A", Score: 101, LastReviewedAt: at, ReviewCount: 1})
	assert.True(t, core.IsInvalidInput(err))

	_, err = perf.ListPerformances(ctx, "")
	assert.True(t, core.IsInvalidInput(err))
}
