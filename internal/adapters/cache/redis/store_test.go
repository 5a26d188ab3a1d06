package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bnema/usahome-cli/internal/domain"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClient struct {
	values map[string]string
	err    error
}

func newFakeClient() *fakeClient {
	return &fakeClient{values: map[string]string{}}
}

func (f *fakeClient) Get(_ context.Context, key string) *goredis.StringCmd {
	if f.err != nil {
		return goredis.NewStringResult("", f.err)
	}
	value, ok := f.values[key]
	if !ok {
		return goredis.NewStringResult("", goredis.Nil)
	}
	return goredis.NewStringResult(value, nil)
}

func (f *fakeClient) Set(_ context.Context, key string, value interface{}, _ time.Duration) *goredis.StatusCmd {
	if f.err != nil {
		return goredis.NewStatusResult("", f.err)
	}
	f.values[key] = value.(string)
	return goredis.NewStatusResult("OK", nil)
}

func (f *fakeClient) Del(_ context.Context, keys ...string) *goredis.IntCmd {
	if f.err != nil {
		return goredis.NewIntResult(0, f.err)
	}
	var removed int64
	for _, key := range keys {
		if _, ok := f.values[key]; ok {
			delete(f.values, key)
			removed++
		}
	}
	return goredis.NewIntResult(removed, nil)
}

func TestStorePrefixesKeys(t *testing.T) {
	t.Parallel()

	rdb := newFakeClient()
	store := NewStore(rdb, "")

	require.NoError(t, store.Put(context.Background(), "builder42/professional_services", `["Roofer"]`))
	assert.Equal(t, `["Roofer"]`, rdb.values["usahome:builder42/professional_services"])

	got, err := store.Get(context.Background(), "builder42/professional_services")
	require.NoError(t, err)
	assert.Equal(t, `["Roofer"]`, got)
}

func TestStoreMissingKeyIsNotFound(t *testing.T) {
	t.Parallel()

	store := NewStore(newFakeClient(), "test:")

	_, err := store.Get(context.Background(), "nobody/last_added_service")
	assert.ErrorIs(t, err, domain.ErrKeyNotFound)
}

func TestStoreDelete(t *testing.T) {
	t.Parallel()

	rdb := newFakeClient()
	store := NewStore(rdb, "test:")

	require.NoError(t, store.Put(context.Background(), "a/b", "v"))
	require.NoError(t, store.Delete(context.Background(), "a/b"))
	require.NoError(t, store.Delete(context.Background(), "a/b"))
	assert.Empty(t, rdb.values)
}

func TestStoreWrapsConnectionErrors(t *testing.T) {
	t.Parallel()

	rdb := newFakeClient()
	rdb.err = errors.New("dial tcp 127.0.0.1:6379: connect: connection refused")
	store := NewStore(rdb, "")

	_, err := store.Get(context.Background(), "a/b")
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrKeyNotFound)
	assert.ErrorContains(t, store.Put(context.Background(), "a/b", "v"), "connection refused")
	assert.ErrorContains(t, store.Delete(context.Background(), "a/b"), "connection refused")
}

func TestStoreRejectsEmptyKey(t *testing.T) {
	t.Parallel()

	store := NewStore(newFakeClient(), "")
	assert.ErrorContains(t, store.Put(context.Background(), " ", "v"), "cache key is empty")
}
