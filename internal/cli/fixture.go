package cli

import (
	"context"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/rushteam/learnrec/core"
	"github.com/rushteam/learnrec/filter"
	"github.com/rushteam/learnrec/store"
)

// Fixture 是 --data / seed 使用的数据文件格式：
//
//	catalog:
//	  - id: calc-101
//	    topic: Calculus
//	    difficulty: 0.4
//	performances:
//	  learner-1:
//	    - content_item_id: calc-101
//	      score: 55
//	      review_count: 1
//	      last_reviewed_at: 2026-03-01T10:00:00Z
//	blacklist: [calc-999]
//	dismissed:
//	  learner-1: [alg-101]
type Fixture struct {
	Catalog      []*core.ContentItem                  `yaml:"catalog"`
	Performances map[string][]*core.PerformanceRecord `yaml:"performances"`
	Blacklist    []string                             `yaml:"blacklist"`
	Dismissed    map[string][]string                  `yaml:"dismissed"`
}

// LoadFixture 读取并校验数据文件。
func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture: %w", err)
	}
	fx := &Fixture{}
	if err := yaml.Unmarshal(data, fx); err != nil {
		return nil, fmt.Errorf("parse fixture %s: %w", path, err)
	}
	if err := core.ValidateCatalog(fx.Catalog); err != nil {
		return nil, err
	}
	for learner, perfs := range fx.Performances {
		if learner == "" {
			return nil, core.ErrInvalidInput(core.ModulePerformance, "fixture has an empty learner id")
		}
		if err := core.ValidatePerformances(perfs); err != nil {
			return nil, fmt.Errorf("learner %s: %w", learner, err)
		}
	}
	return fx, nil
}

// Learners 返回排序后的学习者 ID。
func (f *Fixture) Learners() []string {
	out := make([]string, 0, len(f.Performances))
	for id := range f.Performances {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Seed 把目录、学习记录、黑名单与隐藏列表写入存储。
func (f *Fixture) Seed(ctx context.Context, catalog *store.CatalogStore, perf *store.PerformanceStore, lists *listKeys) error {
	if len(f.Catalog) > 0 {
		if err := catalog.PutItems(ctx, f.Catalog...); err != nil {
			return fmt.Errorf("seed catalog: %w", err)
		}
	}
	for _, learner := range f.Learners() {
		for _, rec := range f.Performances[learner] {
			if err := perf.UpsertPerformance(ctx, learner, rec); err != nil {
				return fmt.Errorf("seed learner %s: %w", learner, err)
			}
		}
	}
	if len(f.Blacklist) > 0 {
		if err := lists.adapter.PutList(ctx, lists.blacklist, f.Blacklist); err != nil {
			return fmt.Errorf("seed blacklist: %w", err)
		}
	}
	for learner, ids := range f.Dismissed {
		if err := lists.adapter.PutList(ctx, lists.dismissed+":"+learner, ids); err != nil {
			return fmt.Errorf("seed dismissed %s: %w", learner, err)
		}
	}
	return nil
}

// listKeys 是黑名单 / 隐藏列表在存储中的位置。
type listKeys struct {
	adapter   *filter.StoreAdapter
	blacklist string
	dismissed string
}

func newListKeys(kv core.Store, prefix string) *listKeys {
	return &listKeys{
		adapter:   filter.NewStoreAdapter(kv),
		blacklist: prefix + ":blacklist",
		dismissed: prefix + ":dismissed",
	}
}

// filters 返回读取这些列表的过滤器。
func (k *listKeys) filters() []filter.Filter {
	return []filter.Filter{
		filter.NewBlacklistFilter(nil, k.adapter, k.blacklist),
		filter.NewDismissedFilter(k.adapter, k.dismissed),
	}
}
