package tokenstore

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// exercise runs the behaviour every backend shares.
func exercise(t *testing.T, s Store) {
	t.Helper()

	_, ok := s.Get()
	assert.False(t, ok, "fresh store should be empty")

	require.NoError(t, s.Set("tok-1"))
	got, ok := s.Get()
	assert.True(t, ok)
	assert.Equal(t, "tok-1", got)

	require.NoError(t, s.Set("tok-2"))
	got, _ = s.Get()
	assert.Equal(t, "tok-2", got, "set replaces the previous token")

	require.NoError(t, s.Clear())
	got, ok = s.Get()
	assert.False(t, ok)
	assert.Empty(t, got)

	require.NoError(t, s.Clear(), "clearing an empty store is not an error")

	require.NoError(t, s.Set(""))
	_, ok = s.Get()
	assert.False(t, ok, "an empty token reads as absent")
}

func TestMemory(t *testing.T) {
	exercise(t, NewMemory())
}

func TestFile(t *testing.T) {
	exercise(t, NewFile(filepath.Join(t.TempDir(), "creds", "credentials.yaml"), nil))
}

func TestFilePermissionsAndLayout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.yaml")
	f := NewFile(path, nil)
	require.NoError(t, f.Set("secret"))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "admin_token: secret\n", string(data))

	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err), "temp file should be renamed away")
}

func TestFileSharedBetweenInstances(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.yaml")
	require.NoError(t, NewFile(path, nil).Set("from-first"))

	got, ok := NewFile(path, nil).Get()
	assert.True(t, ok)
	assert.Equal(t, "from-first", got)
}

func TestFileCorruptReadsAsAbsent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.yaml")
	require.NoError(t, os.WriteFile(path, []byte("admin_token: [unterminated\n"), 0o600))

	got, ok := NewFile(path, nil).Get()
	assert.False(t, ok)
	assert.Empty(t, got)
}

func TestFileEmptyTokenReadsAsAbsent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.yaml")
	require.NoError(t, os.WriteFile(path, []byte("admin_token: \"\"\n"), 0o600))

	_, ok := NewFile(path, nil).Get()
	assert.False(t, ok)
}

func TestFileConcurrentWriters(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.yaml")

	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, NewFile(path, nil).Set("tok-"+string(rune('a'+i))))
		}()
	}
	wg.Wait()

	got, ok := NewFile(path, nil).Get()
	require.True(t, ok)
	assert.Regexp(t, `^tok-[a-h]$`, got)
}

func TestRedis(t *testing.T) {
	addr := os.Getenv("SHOPADMIN_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("SHOPADMIN_TEST_REDIS_ADDR not set")
	}
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = rdb.Close() })
	require.NoError(t, rdb.Ping(context.Background()).Err())
	require.NoError(t, rdb.Del(context.Background(), Key).Err())

	exercise(t, NewRedis(rdb, nil))
}

func TestRedisUnreachableReadsAsAbsent(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", MaxRetries: -1})
	t.Cleanup(func() { _ = rdb.Close() })

	got, ok := NewRedis(rdb, nil).Get()
	assert.False(t, ok)
	assert.Empty(t, got)
	assert.Error(t, NewRedis(rdb, nil).Set("x"))
}
