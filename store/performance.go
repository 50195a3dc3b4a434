package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/rushteam/learnrec/core"
)

// PerformanceStore 把学习记录存放在 KeyValueStore 的 Hash 中：
// key = {prefix}:perf:{learnerID}，field = 内容 ID，value = JSON。
//
// 同一 (learner, contentItemId) 只有一条记录：UpsertPerformance 覆盖写入。
type PerformanceStore struct {
	kv     core.KeyValueStore
	prefix string
}

// NewPerformanceStore 创建学习记录适配器，prefix 为空时使用 "learnrec"。
func NewPerformanceStore(kv core.KeyValueStore, prefix string) *PerformanceStore {
	if prefix == "" {
		prefix = "learnrec"
	}
	return &PerformanceStore{kv: kv, prefix: prefix}
}

func (s *PerformanceStore) key(learnerID string) string {
	return s.prefix + ":perf:" + learnerID
}

// ListPerformances 返回学习者的全部记录，按内容 ID 升序。
func (s *PerformanceStore) ListPerformances(ctx context.Context, learnerID string) ([]*core.PerformanceRecord, error) {
	if learnerID == "" {
		return nil, core.ErrInvalidInput(core.ModulePerformance, "learner id is required")
	}
	raw, err := s.kv.HGetAll(ctx, s.key(learnerID))
	if err != nil {
		return nil, wrapUnavailable(s.kv.Name(), "list performances", err)
	}
	ids := make([]string, 0, len(raw))
	for id := range raw {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	out := make([]*core.PerformanceRecord, 0, len(ids))
	for _, id := range ids {
		var rec core.PerformanceRecord
		if err := json.Unmarshal(raw[id], &rec); err != nil {
			return nil, core.WrapDomainError(core.ModulePerformance, core.ErrorCodeInternalError,
				fmt.Sprintf("performance: decode %s/%s", learnerID, id), err)
		}
		out = append(out, &rec)
	}
	return out, nil
}

// UpsertPerformance 校验并写入记录，覆盖同一内容的旧记录。
func (s *PerformanceStore) UpsertPerformance(ctx context.Context, learnerID string, rec *core.PerformanceRecord) error {
	if learnerID == "" {
		return core.ErrInvalidInput(core.ModulePerformance, "learner id is required")
	}
	if err := rec.Validate(); err != nil {
		return err
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode performance: %w", err)
	}
	if err := s.kv.HSet(ctx, s.key(learnerID), rec.ContentItemID, data); err != nil {
		return wrapUnavailable(s.kv.Name(), "upsert performance", err)
	}
	return nil
}

var _ core.PerformanceProvider = (*PerformanceStore)(nil)
