package filter

import (
	"context"

	"github.com/rushteam/learnrec/core"
)

// BlacklistFilter 是黑名单过滤器，过滤掉下架/隐藏的内容。
type BlacklistFilter struct {
	// ItemIDs 是内存中的黑名单内容 ID 列表
	ItemIDs []string

	// Store 用于从存储中读取黑名单（可选）
	Store BlacklistStore

	// Key 是 Store 中的黑名单 key（可选）
	Key string
}

// BlacklistStore 是黑名单存储接口。
type BlacklistStore interface {
	// GetBlacklist 获取黑名单内容 ID 列表
	GetBlacklist(ctx context.Context, key string) ([]string, error)
}

// NewBlacklistFilter 创建一个黑名单过滤器。
func NewBlacklistFilter(itemIDs []string, storeAdapter *StoreAdapter, key string) *BlacklistFilter {
	var store BlacklistStore
	if storeAdapter != nil {
		store = storeAdapter
	}
	return &BlacklistFilter{
		ItemIDs: itemIDs,
		Store:   store,
		Key:     key,
	}
}

func (f *BlacklistFilter) Name() string {
	return "filter.blacklist"
}

func (f *BlacklistFilter) ShouldFilter(
	ctx context.Context,
	_ *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if item == nil {
		return true, nil
	}

	for _, id := range f.ItemIDs {
		if item.ID == id {
			return true, nil
		}
	}

	if f.Store != nil && f.Key != "" {
		blacklist, err := f.Store.GetBlacklist(ctx, f.Key)
		if err != nil {
			// key 不存在视为空黑名单
			if core.IsStoreNotFound(err) {
				return false, nil
			}
			return false, err
		}
		for _, id := range blacklist {
			if item.ID == id {
				return true, nil
			}
		}
	}

	return false, nil
}

// DismissedFilter 过滤学习者主动隐藏（"不再推荐"）的内容。
type DismissedFilter struct {
	// Store 用于从存储中读取学习者隐藏列表
	Store DismissedStore

	// KeyPrefix 是 Store 中的 key 前缀，实际 key 为 {KeyPrefix}:{LearnerID}
	KeyPrefix string
}

// DismissedStore 是学习者隐藏列表存储接口。
type DismissedStore interface {
	// GetDismissed 获取学习者隐藏的内容 ID 列表
	GetDismissed(ctx context.Context, learnerID string, keyPrefix string) ([]string, error)
}

// NewDismissedFilter 创建学习者隐藏过滤器。
func NewDismissedFilter(storeAdapter *StoreAdapter, keyPrefix string) *DismissedFilter {
	var store DismissedStore
	if storeAdapter != nil {
		store = storeAdapter
	}
	return &DismissedFilter{
		Store:     store,
		KeyPrefix: keyPrefix,
	}
}

func (f *DismissedFilter) Name() string {
	return "filter.dismissed"
}

func (f *DismissedFilter) ShouldFilter(
	ctx context.Context,
	rctx *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if item == nil || rctx == nil || rctx.LearnerID == "" || f.Store == nil {
		return false, nil
	}

	keyPrefix := f.KeyPrefix
	if keyPrefix == "" {
		keyPrefix = "learner:dismissed"
	}

	ids, err := f.Store.GetDismissed(ctx, rctx.LearnerID, keyPrefix)
	if err != nil {
		if core.IsStoreNotFound(err) {
			return false, nil
		}
		return false, err
	}
	for _, id := range ids {
		if item.ID == id {
			return true, nil
		}
	}
	return false, nil
}
