package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/rushteam/learnrec/core"
)

// Key 前缀：普通 KV 与 Hash 字段落在不同的命名空间。
const (
	badgerKVPrefix   = "kv\x00"
	badgerHashPrefix = "hs\x00"
)

// BadgerOptions 是 BadgerStore 的打开参数。
type BadgerOptions struct {
	// Path 数据目录；InMemory 为 true 时忽略
	Path     string
	InMemory bool
}

// BadgerStore 是基于 BadgerDB 的嵌入式 KeyValueStore，适合单机部署与 CLI 本地持久化。
//
// Hash 按前缀展开为独立 key：hs\x00{key}\x00{field} → value
type BadgerStore struct {
	db    *badger.DB
	owned bool
}

// NewBadgerStore 打开 BadgerDB。
func NewBadgerStore(opts BadgerOptions) (*BadgerStore, error) {
	bopts := badger.DefaultOptions(opts.Path).WithLogger(nil)
	if opts.InMemory {
		bopts = badger.DefaultOptions("").WithInMemory(true).WithLogger(nil)
	} else if opts.Path == "" {
		return nil, core.ErrInvalidInput(core.ModuleStore, "badger path is required unless in_memory is set")
	}
	db, err := badger.Open(bopts)
	if err != nil {
		return nil, wrapUnavailable(BackendBadger, "open "+opts.Path, err)
	}
	return &BadgerStore{db: db, owned: true}, nil
}

// NewBadgerStoreFromDB 使用已打开的 DB（生命周期由调用方管理，Close 不会关闭它）。
func NewBadgerStoreFromDB(db *badger.DB) *BadgerStore {
	return &BadgerStore{db: db}
}

func (b *BadgerStore) Name() string { return BackendBadger }

func (b *BadgerStore) Get(_ context.Context, key string) ([]byte, error) {
	return b.get([]byte(badgerKVPrefix + key))
}

func (b *BadgerStore) Set(_ context.Context, key string, value []byte, ttl ...int) error {
	return b.db.Update(func(txn *badger.Txn) error {
		return txn.SetEntry(newEntry(badgerKVPrefix+key, value, ttl))
	})
}

func (b *BadgerStore) Delete(_ context.Context, key string) error {
	return b.db.Update(func(txn *badger.Txn) error {
		if err := txn.Delete([]byte(badgerKVPrefix + key)); err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("delete %s: %w", key, err)
		}
		return deletePrefix(txn, []byte(badgerHashPrefix+key+"\x00"))
	})
}

func (b *BadgerStore) BatchGet(_ context.Context, keys []string) (map[string][]byte, error) {
	result := make(map[string][]byte, len(keys))
	err := b.db.View(func(txn *badger.Txn) error {
		for _, k := range keys {
			item, err := txn.Get([]byte(badgerKVPrefix + k))
			if errors.Is(err, badger.ErrKeyNotFound) {
				continue
			}
			if err != nil {
				return fmt.Errorf("get %s: %w", k, err)
			}
			val, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}
			result[k] = val
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (b *BadgerStore) BatchSet(_ context.Context, kvs map[string][]byte, ttl ...int) error {
	wb := b.db.NewWriteBatch()
	defer wb.Cancel()
	for k, v := range kvs {
		if err := wb.SetEntry(newEntry(badgerKVPrefix+k, v, ttl)); err != nil {
			return fmt.Errorf("batch set %s: %w", k, err)
		}
	}
	return wb.Flush()
}

func (b *BadgerStore) HGet(_ context.Context, key, field string) ([]byte, error) {
	return b.get([]byte(badgerHashPrefix + key + "\x00" + field))
}

func (b *BadgerStore) HSet(_ context.Context, key, field string, value []byte) error {
	return b.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(badgerHashPrefix+key+"\x00"+field), value)
	})
}

func (b *BadgerStore) HGetAll(_ context.Context, key string) (map[string][]byte, error) {
	result := make(map[string][]byte)
	err := b.scan([]byte(badgerHashPrefix+key+"\x00"), func(field string, val []byte) error {
		result[field] = val
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (b *BadgerStore) Close() error {
	if !b.owned {
		return nil
	}
	return b.db.Close()
}

func (b *BadgerStore) get(key []byte) ([]byte, error) {
	var out []byte
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return core.ErrStoreNotFound
		}
		if err != nil {
			return err
		}
		out, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// scan 遍历前缀下的所有 key，fn 收到去掉前缀后的后缀与 value 副本。
func (b *BadgerStore) scan(prefix []byte, fn func(suffix string, val []byte) error) error {
	return b.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			val, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}
			if err := fn(string(item.Key()[len(prefix):]), val); err != nil {
				return err
			}
		}
		return nil
	})
}

func deletePrefix(txn *badger.Txn, prefix []byte) error {
	opts := badger.DefaultIteratorOptions
	opts.Prefix = prefix
	opts.PrefetchValues = false
	it := txn.NewIterator(opts)
	var keys [][]byte
	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		keys = append(keys, it.Item().KeyCopy(nil))
	}
	it.Close()
	for _, k := range keys {
		if err := txn.Delete(k); err != nil {
			return fmt.Errorf("delete %s: %w", k, err)
		}
	}
	return nil
}

func newEntry(key string, value []byte, ttl []int) *badger.Entry {
	e := badger.NewEntry([]byte(key), value)
	if len(ttl) > 0 && ttl[0] > 0 {
		e = e.WithTTL(time.Duration(ttl[0]) * time.Second)
	}
	return e
}

var _ core.KeyValueStore = (*BadgerStore)(nil)
