package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/rushteam/learnrec/core"
)

// CatalogStore 把内容目录存放在 KeyValueStore 的 Hash 中：
// key = {prefix}:catalog，field = 内容 ID，value = JSON。
//
// ListItems 按 ID 升序返回，保证"目录顺序"在不同后端之间一致。
type CatalogStore struct {
	kv     core.KeyValueStore
	prefix string
}

// NewCatalogStore 创建目录适配器，prefix 为空时使用 "learnrec"。
func NewCatalogStore(kv core.KeyValueStore, prefix string) *CatalogStore {
	if prefix == "" {
		prefix = "learnrec"
	}
	return &CatalogStore{kv: kv, prefix: prefix}
}

func (s *CatalogStore) key() string { return s.prefix + ":catalog" }

func (s *CatalogStore) ListItems(ctx context.Context) ([]*core.ContentItem, error) {
	raw, err := s.kv.HGetAll(ctx, s.key())
	if err != nil {
		return nil, wrapUnavailable(s.kv.Name(), "list catalog", err)
	}
	ids := make([]string, 0, len(raw))
	for id := range raw {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	out := make([]*core.ContentItem, 0, len(ids))
	for _, id := range ids {
		item, err := decodeItem(id, raw[id])
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}

func (s *CatalogStore) GetItem(ctx context.Context, id string) (*core.ContentItem, error) {
	data, err := s.kv.HGet(ctx, s.key(), id)
	if err != nil {
		if core.IsStoreNotFound(err) {
			return nil, core.NewDomainError(core.ModuleContent, core.ErrorCodeNotFound, fmt.Sprintf("content: item %q not found", id))
		}
		return nil, wrapUnavailable(s.kv.Name(), "get item", err)
	}
	return decodeItem(id, data)
}

func (s *CatalogStore) ListByTopic(ctx context.Context, topic string) ([]*core.ContentItem, error) {
	all, err := s.ListItems(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*core.ContentItem, 0)
	for _, it := range all {
		if it.HasTopic(topic) {
			out = append(out, it)
		}
	}
	return out, nil
}

// PutItems 校验并写入内容条目（同 ID 覆盖）。
func (s *CatalogStore) PutItems(ctx context.Context, items ...*core.ContentItem) error {
	if err := core.ValidateCatalog(items); err != nil {
		return err
	}
	for _, it := range items {
		data, err := json.Marshal(it)
		if err != nil {
			return fmt.Errorf("encode item %s: %w", it.ID, err)
		}
		if err := s.kv.HSet(ctx, s.key(), it.ID, data); err != nil {
			return wrapUnavailable(s.kv.Name(), "put item", err)
		}
	}
	return nil
}

func decodeItem(id string, data []byte) (*core.ContentItem, error) {
	var item core.ContentItem
	if err := json.Unmarshal(data, &item); err != nil {
		return nil, core.WrapDomainError(core.ModuleContent, core.ErrorCodeInternalError, "content: decode "+id, err)
	}
	return &item, nil
}

var _ core.CatalogProvider = (*CatalogStore)(nil)
