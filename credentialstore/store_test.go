// credentialstore/store_test.go
package credentialstore

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/deploymenttheory/go-api-session-client/logger"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis.Run failed: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func storesUnderTest(t *testing.T) map[string]Store {
	t.Helper()

	fileStore, err := NewFileStore(filepath.Join(t.TempDir(), "session", "token.json"))
	require.NoError(t, err)

	_, rdb := newTestRedis(t)

	return map[string]Store{
		KindMemory: NewMemoryStore(""),
		KindFile:   fileStore,
		KindRedis:  NewRedisStore(rdb, RedisStoreConfig{KeyPrefix: "test"}, logger.NewNopLogger()),
	}
}

func TestStoreContract(t *testing.T) {
	for name, store := range storesUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			_, ok := store.Get()
			assert.False(t, ok, "new store is empty")

			require.NoError(t, store.Set("A"))
			token, ok := store.Get()
			assert.True(t, ok)
			assert.Equal(t, "A", token)

			require.NoError(t, store.Set("B"))
			token, _ = store.Get()
			assert.Equal(t, "B", token)

			require.NoError(t, store.Clear())
			_, ok = store.Get()
			assert.False(t, ok)

			assert.NoError(t, store.Clear(), "clear is idempotent")
		})
	}
}

func TestStoreConcurrentReadersSeeWholeValues(t *testing.T) {
	for name, store := range storesUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, store.Set("old-token"))

			var wg sync.WaitGroup
			for i := 0; i < 8; i++ {
				wg.Add(2)
				go func() {
					defer wg.Done()
					_ = store.Set("new-token")
				}()
				go func() {
					defer wg.Done()
					token, _ := store.Get()
					assert.Contains(t, []string{"old-token", "new-token"}, token)
				}()
			}
			wg.Wait()
		})
	}
}

func TestFileStorePersistsAcrossInstances(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.json")

	first, err := NewFileStore(path)
	require.NoError(t, err)
	require.NoError(t, first.Set("persisted"))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	second, err := NewFileStore(path)
	require.NoError(t, err)
	token, ok := second.Get()
	assert.True(t, ok)
	assert.Equal(t, "persisted", token)

	require.NoError(t, second.Clear())
	assert.NoFileExists(t, path)
}

func TestFileStoreRejectsCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, err := NewFileStore(path)
	assert.Error(t, err)
}

func TestFileStoreRequiresPath(t *testing.T) {
	_, err := NewFileStore("")
	assert.Error(t, err)
}

func TestRedisStoreKeyAndTTL(t *testing.T) {
	mr, rdb := newTestRedis(t)
	store := NewRedisStore(rdb, RedisStoreConfig{KeyPrefix: "acme", TTL: time.Minute}, logger.NewNopLogger())

	require.NoError(t, store.Set("A"))

	assert.Equal(t, "acme:access_token", store.Key())
	got, err := mr.Get("acme:access_token")
	require.NoError(t, err)
	assert.Equal(t, "A", got)
	assert.Equal(t, time.Minute, mr.TTL("acme:access_token"))

	mr.FastForward(2 * time.Minute)
	_, ok := store.Get()
	assert.False(t, ok, "token expires with its TTL")
}

func TestRedisStoreGetTreatsOutageAsAbsent(t *testing.T) {
	mr, rdb := newTestRedis(t)
	store := NewRedisStore(rdb, RedisStoreConfig{OpTimeout: 100 * time.Millisecond}, logger.NewNopLogger())
	require.NoError(t, store.Set("A"))

	mr.Close()

	_, ok := store.Get()
	assert.False(t, ok)
	assert.Error(t, store.Set("B"))
}
