// Package store 提供 core.Store / core.KeyValueStore 的实现，以及基于它们的
// 内容目录（CatalogStore）与学习记录（PerformanceStore）适配器。
//
// 注意：接口定义在 core 包，此包只包含实现。
//
// 示例：
//
//	var kv core.KeyValueStore = store.NewMemoryStore()
//	catalog := store.NewCatalogStore(kv, "learnrec")
//	perf := store.NewPerformanceStore(kv, "learnrec")
package store

import (
	"fmt"

	"github.com/rushteam/learnrec/core"
)

const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendBadger = "badger"
)

// Options 是按后端名称打开存储时使用的参数。
type Options struct {
	Backend string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	BadgerPath     string
	BadgerInMemory bool
}

// Open 按 Backend 打开存储，未知后端返回 INVALID_INPUT。
func Open(opts Options) (core.KeyValueStore, error) {
	switch opts.Backend {
	case "", BackendMemory:
		return NewMemoryStore(), nil
	case BackendRedis:
		s, err := NewRedisStore(RedisOptions{Addr: opts.RedisAddr, Password: opts.RedisPassword, DB: opts.RedisDB})
		if err != nil {
			return nil, err
		}
		return s, nil
	case BackendBadger:
		s, err := NewBadgerStore(BadgerOptions{Path: opts.BadgerPath, InMemory: opts.BadgerInMemory})
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, core.ErrInvalidInput(core.ModuleStore, "unknown backend %q (supported: %s, %s, %s)",
			opts.Backend, BackendMemory, BackendRedis, BackendBadger)
	}
}

func wrapUnavailable(backend, op string, err error) error {
	return core.WrapDomainError(core.ModuleStore, core.ErrorCodeUnavailable, fmt.Sprintf("store: %s %s", backend, op), err)
}
