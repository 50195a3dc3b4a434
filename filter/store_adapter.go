package filter

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rushteam/learnrec/core"
)

// StoreAdapter 将 core.Store 适配为过滤器所需的存储接口。
// 列表以 JSON 字符串数组存储。
type StoreAdapter struct {
	store core.Store
}

// NewStoreAdapter 创建一个 core.Store 适配器。
func NewStoreAdapter(s core.Store) *StoreAdapter {
	return &StoreAdapter{store: s}
}

// GetBlacklist 从 Store 读取黑名单。
func (a *StoreAdapter) GetBlacklist(ctx context.Context, key string) ([]string, error) {
	data, err := a.store.Get(ctx, key)
	if err != nil {
		return nil, err
	}

	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		return nil, fmt.Errorf("filter: decode %s: %w", key, err)
	}
	return ids, nil
}

// GetDismissed 从 Store 读取学习者隐藏列表。
func (a *StoreAdapter) GetDismissed(ctx context.Context, learnerID string, keyPrefix string) ([]string, error) {
	return a.GetBlacklist(ctx, keyPrefix+":"+learnerID)
}

// PutList 把 ID 列表写入 Store（供 CLI seed / 测试使用）。
func (a *StoreAdapter) PutList(ctx context.Context, key string, ids []string) error {
	data, err := json.Marshal(ids)
	if err != nil {
		return err
	}
	return a.store.Set(ctx, key, data)
}
