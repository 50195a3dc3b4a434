package learnrec_test

import (
	"context"
	"fmt"
	"time"

	"github.com/rushteam/learnrec"
	"github.com/rushteam/learnrec/core"
	"github.com/rushteam/learnrec/engine"
	"github.com/rushteam/learnrec/store"
)

func Example() {
	ctx := context.Background()
	kv := store.NewMemoryStore()
	catalog := store.NewCatalogStore(kv, "demo")
	perf := store.NewPerformanceStore(kv, "demo")

	_ = catalog.PutItems(ctx,
		&core.ContentItem{ID: "alg-101", Topic: "Algebra", Difficulty: 0.2},
		&core.ContentItem{ID: "calc-101", Topic: "Calculus", Difficulty: 0.3},
		&core.ContentItem{ID: "calc-201", Topic: "Calculus", Difficulty: 0.5},
	)
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	_ = perf.UpsertPerformance(ctx, "u1", &core.PerformanceRecord{
		ContentItemID:  "calc-101",
		Score:          40,
		ReviewCount:    1,
		LastReviewedAt: now.Add(-72 * time.Hour),
		MasteryLevel:   0.4,
	})

	eng, err := learnrec.New(catalog, perf, engine.WithClock(core.FixedClock(now)))
	if err != nil {
		fmt.Println(err)
		return
	}
	recs, err := eng.GetRecommendations(ctx, "u1", 3)
	if err != nil {
		fmt.Println(err)
		return
	}
	for _, r := range recs {
		fmt.Println(r.ContentItemID, r.Reason)
	}
	// Output:
	// calc-201 weak_topic
	// calc-101 weak_topic
}
