package store

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rushteam/learnrec/core"
)

func backends(t *testing.T) map[string]core.KeyValueStore {
	t.Helper()

	badgerStore, err := NewBadgerStore(BadgerOptions{InMemory: true})
	require.NoError(t, err)

	out := map[string]core.KeyValueStore{
		"memory": NewMemoryStore(),
		"badger": badgerStore,
	}
	if addr := os.Getenv("LEARNREC_TEST_REDIS_ADDR"); addr != "" {
		redisStore, err := NewRedisStore(RedisOptions{Addr: addr, DB: 15})
		require.NoError(t, err)
		out["redis"] = redisStore
	}
	for _, s := range out {
		t.Cleanup(func() { _ = s.Close() })
	}
	return out
}

func TestKeyValueStore_Contract(t *testing.T) {
	for name, kv := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			prefix := "contract:" + time.Now().Format("150405.000000") + ":"

			_, err := kv.Get(ctx, prefix+"missing")
			assert.True(t, core.IsStoreNotFound(err), "got %v", err)

			require.NoError(t, kv.Set(ctx, prefix+"k", []byte("v1")))
			got, err := kv.Get(ctx, prefix+"k")
			require.NoError(t, err)
			assert.Equal(t, []byte("v1"), got)

			require.NoError(t, kv.BatchSet(ctx, map[string][]byte{prefix + "a": []byte("1"), prefix + "b": []byte("2")}))
			batch, err := kv.BatchGet(ctx, []string{prefix + "a", prefix + "b", prefix + "c"})
			require.NoError(t, err)
			assert.Equal(t, map[string][]byte{prefix + "a": []byte("1"), prefix + "b": []byte("2")}, batch)

			require.NoError(t, kv.Delete(ctx, prefix+"k"))
			_, err = kv.Get(ctx, prefix+"k")
			assert.True(t, core.IsStoreNotFound(err))

			hkey := prefix + "hash"
			require.NoError(t, kv.HSet(ctx, hkey, "A", []byte("old")))
			require.NoError(t, kv.HSet(ctx, hkey, "A", []byte("new")))
			require.NoError(t, kv.HSet(ctx, hkey, "B:x", []byte("b")))
			v, err := kv.HGet(ctx, hkey, "A")
			require.NoError(t, err)
			assert.Equal(t, []byte("new"), v)
			_, err = kv.HGet(ctx, hkey, "Z")
			assert.True(t, core.IsStoreNotFound(err))
			all, err := kv.HGetAll(ctx, hkey)
			require.NoError(t, err)
			assert.Equal(t, map[string][]byte{"A": []byte("new"), "B:x": []byte("b")}, all)

			require.NoError(t, kv.Delete(ctx, hkey))
			all, err = kv.HGetAll(ctx, hkey)
			require.NoError(t, err)
			assert.Empty(t, all, "Delete 同时清理 Hash 字段")
		})
	}
}

func TestMemoryStore_TTL(t *testing.T) {
	ms := NewMemoryStore()
	defer ms.Close()

	base := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	ms.now = func() time.Time { return base }

	ctx := context.Background()
	require.NoError(t, ms.Set(ctx, "k", []byte("v"), 60))
	_, err := ms.Get(ctx, "k")
	require.NoError(t, err)

	ms.now = func() time.Time { return base.Add(61 * time.Second) }
	_, err = ms.Get(ctx, "k")
	assert.True(t, core.IsStoreNotFound(err))
	assert.NoError(t, ms.Close(), "Close is idempotent")
}

func TestMemoryStore_CopiesValues(t *testing.T) {
	ms := NewMemoryStore()
	defer ms.Close()

	ctx := context.Background()
	val := []byte("abc")
	require.NoError(t, ms.Set(ctx, "k", val))
	val[0] = 'x'
	got, err := ms.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), got)
}

func TestOpen(t *testing.T) {
	s, err := Open(Options{})
	require.NoError(t, err)
	assert.Equal(t, BackendMemory, s.Name())
	require.NoError(t, s.Close())

	s, err = Open(Options{Backend: BackendBadger, BadgerInMemory: true})
	require.NoError(t, err)
	assert.Equal(t, BackendBadger, s.Name())
	require.NoError(t, s.Close())

	_, err = Open(Options{Backend: "etcd"})
	assert.True(t, core.IsInvalidInput(err))

	_, err = Open(Options{Backend: BackendBadger})
	assert.True(t, core.IsInvalidInput(err), "path required")
}
