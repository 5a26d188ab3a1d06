package application

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/bnema/usahome-cli/internal/domain"
	"github.com/bnema/usahome-cli/internal/ports/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testIdentity = domain.Identity("mitrapasha@gmail.com")

func TestLedgerGetAllTrustsWellFormedRemote(t *testing.T) {
	source := mocks.NewMockAccountSource(t)
	cache := newMemoryCache()
	service := NewLedgerService(source, nil, cache, nil, nil, LedgerOptions{})

	source.EXPECT().FetchAccount(mockAnyContext(), testIdentity, "").Return(domain.Account{
		Identity:          testIdentity,
		ServiceCategories: []string{"Loan Officer", "null", "", "Property Appraiser", "Loan Officer"},
	}, nil)

	snapshot, err := service.GetAll(context.Background(), testIdentity)
	require.NoError(t, err)

	assert.Equal(t, domain.SourceRemoteTrusted, snapshot.Source)
	assert.Equal(t, domain.ServiceList{"Loan Officer", "Property Appraiser"}, snapshot.Services)
	assert.Equal(t, `["Loan Officer","Property Appraiser"]`, cache.value(cacheKey(testIdentity, servicesCacheKey)))
}

func TestLedgerGetAllTrustsEmptyRemoteList(t *testing.T) {
	source := mocks.NewMockAccountSource(t)
	cache := newMemoryCache()
	cache.set(cacheKey(testIdentity, servicesCacheKey), `["Plumber"]`)
	service := NewLedgerService(source, nil, cache, nil, nil, LedgerOptions{})

	source.EXPECT().FetchAccount(mockAnyContext(), testIdentity, "").Return(domain.Account{
		Identity:          testIdentity,
		ServiceCategories: []string{},
	}, nil)

	snapshot, err := service.GetAll(context.Background(), testIdentity)
	require.NoError(t, err)

	assert.Equal(t, domain.SourceRemoteTrusted, snapshot.Source)
	assert.Empty(t, snapshot.Services)
	assert.Equal(t, `[]`, cache.value(cacheKey(testIdentity, servicesCacheKey)))
}

func TestLedgerGetAllFallsBackWhenRemoteFails(t *testing.T) {
	source := mocks.NewMockAccountSource(t)
	cache := newMemoryCache()
	cache.set(cacheKey(testIdentity, servicesCacheKey), `["Architect","Loan Officer"]`)
	service := NewLedgerService(source, nil, cache, nil, nil, LedgerOptions{})

	source.EXPECT().FetchAccount(mockAnyContext(), testIdentity, "").Return(domain.Account{}, errors.New("network unreachable"))

	snapshot, err := service.GetAll(context.Background(), testIdentity)
	require.NoError(t, err)

	assert.Equal(t, domain.SourceLocalFallback, snapshot.Source)
	assert.Equal(t, domain.ServiceList{"Architect", "Loan Officer"}, snapshot.Services)
	assert.Equal(t, 2, snapshot.Count())
}

func TestLedgerGetAllFallsBackOnMalformedRemote(t *testing.T) {
	tests := []struct {
		name    string
		account domain.Account
	}{
		{name: "missing service_categories", account: domain.Account{Identity: testIdentity}},
		{name: "other identity", account: domain.Account{Identity: "someone@example.com", ServiceCategories: []string{"Roofer"}}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			source := mocks.NewMockAccountSource(t)
			cache := newMemoryCache()
			cache.set(cacheKey(testIdentity, servicesCacheKey), `["Painter"]`)
			service := NewLedgerService(source, nil, cache, nil, nil, LedgerOptions{})

			source.EXPECT().FetchAccount(mockAnyContext(), testIdentity, "").Return(tc.account, nil)

			snapshot, err := service.GetAll(context.Background(), testIdentity)
			require.NoError(t, err)
			assert.Equal(t, domain.SourceLocalFallback, snapshot.Source)
			assert.Equal(t, domain.ServiceList{"Painter"}, snapshot.Services)
			assert.Equal(t, `["Painter"]`, cache.value(cacheKey(testIdentity, servicesCacheKey)))
		})
	}
}

func TestLedgerGetAllRecoversToRemoteAfterFallback(t *testing.T) {
	source := mocks.NewMockAccountSource(t)
	cache := newMemoryCache()
	cache.set(cacheKey(testIdentity, servicesCacheKey), `["Painter"]`)
	service := NewLedgerService(source, nil, cache, nil, nil, LedgerOptions{})

	source.EXPECT().FetchAccount(mockAnyContext(), testIdentity, "").Return(domain.Account{}, errors.New("timeout")).Once()
	source.EXPECT().FetchAccount(mockAnyContext(), testIdentity, "").Return(domain.Account{
		Identity:          testIdentity,
		ServiceCategories: []string{"Roofer"},
	}, nil).Once()

	first, err := service.GetAll(context.Background(), testIdentity)
	require.NoError(t, err)
	second, err := service.GetAll(context.Background(), testIdentity)
	require.NoError(t, err)

	assert.Equal(t, domain.SourceLocalFallback, first.Source)
	assert.Equal(t, domain.SourceRemoteTrusted, second.Source)
	assert.Equal(t, domain.ServiceList{"Roofer"}, second.Services)
}

func TestLedgerGetAllIgnoresCorruptCache(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want domain.ServiceList
	}{
		{name: "malformed json", raw: `["Plumber"`, want: domain.ServiceList{}},
		{name: "not an array", raw: `{"service":"Plumber"}`, want: domain.ServiceList{}},
		{name: "json null", raw: `null`, want: domain.ServiceList{}},
		{name: "empty string", raw: ``, want: domain.ServiceList{}},
		{name: "corrupt entries", raw: `["null","","undefined","Plumber",null,7,"Plumber"]`, want: domain.ServiceList{"Plumber"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cache := newMemoryCache()
			cache.set(cacheKey(testIdentity, servicesCacheKey), tc.raw)
			service := NewLedgerService(nil, nil, cache, nil, nil, LedgerOptions{})

			snapshot, err := service.GetAll(context.Background(), testIdentity)
			require.NoError(t, err)
			assert.Equal(t, domain.SourceLocalFallback, snapshot.Source)
			assert.Equal(t, tc.want, snapshot.Services)
		})
	}
}

func TestLedgerGetAllWithoutAnyDataIsEmpty(t *testing.T) {
	service := NewLedgerService(nil, nil, newMemoryCache(), nil, nil, LedgerOptions{})

	snapshot, err := service.GetAll(context.Background(), testIdentity)
	require.NoError(t, err)
	assert.NotNil(t, snapshot.Services)
	assert.Empty(t, snapshot.Services)
	assert.Equal(t, domain.SourceLocalFallback, snapshot.Source)
}

func TestLedgerGetAllRejectsEmptyIdentity(t *testing.T) {
	service := NewLedgerService(nil, nil, newMemoryCache(), nil, nil, LedgerOptions{})

	_, err := service.GetAll(context.Background(), " ")
	assert.ErrorIs(t, err, domain.ErrInvalidIdentity)
}

func TestLedgerGetAllRemoteTimeoutFallsBack(t *testing.T) {
	source := mocks.NewMockAccountSource(t)
	cache := newMemoryCache()
	cache.set(cacheKey(testIdentity, servicesCacheKey), `["Mason","Roofer"]`)
	service := NewLedgerService(source, nil, cache, nil, nil, LedgerOptions{RemoteTimeout: 20 * time.Millisecond})

	source.EXPECT().FetchAccount(mockAnyContext(), testIdentity, "").RunAndReturn(
		func(ctx context.Context, _ domain.Identity, _ string) (domain.Account, error) {
			<-ctx.Done()
			return domain.Account{}, ctx.Err()
		},
	)

	snapshot, err := service.GetAll(context.Background(), testIdentity)
	require.NoError(t, err)
	assert.Equal(t, domain.SourceLocalFallback, snapshot.Source)
	assert.Equal(t, domain.ServiceList{"Mason", "Roofer"}, snapshot.Services)
}

func TestLedgerAddIsIdempotent(t *testing.T) {
	cache := newMemoryCache()
	cache.set(cacheKey(testIdentity, servicesCacheKey), `["Plumber"]`)
	service := NewLedgerService(nil, nil, cache, nil, nil, LedgerOptions{})

	first, err := service.Add(context.Background(), testIdentity, "Electrician")
	require.NoError(t, err)
	assert.True(t, first.Changed)

	second, err := service.Add(context.Background(), testIdentity, "Electrician")
	require.NoError(t, err)
	assert.False(t, second.Changed)
	assert.Equal(t, first.Services, second.Services)
	assert.Equal(t, domain.ServiceList{"Plumber", "Electrician"}, second.Services)
	assert.Equal(t, `["Plumber","Electrician"]`, cache.value(cacheKey(testIdentity, servicesCacheKey)))
}

func TestLedgerAddThenRemoveRoundTrips(t *testing.T) {
	cache := newMemoryCache()
	cache.set(cacheKey(testIdentity, servicesCacheKey), `["Architect","Loan Officer"]`)
	service := NewLedgerService(nil, nil, cache, nil, nil, LedgerOptions{})
	ctx := context.Background()

	before, err := service.GetAll(ctx, testIdentity)
	require.NoError(t, err)

	_, err = service.Add(ctx, testIdentity, "Plumber")
	require.NoError(t, err)
	_, err = service.Remove(ctx, testIdentity, "Plumber")
	require.NoError(t, err)

	after, err := service.GetAll(ctx, testIdentity)
	require.NoError(t, err)
	assert.Equal(t, before.Services, after.Services)
}

func TestLedgerAddRecordsLastAdded(t *testing.T) {
	cache := newMemoryCache()
	service := NewLedgerService(nil, nil, cache, nil, nil, LedgerOptions{})
	ctx := context.Background()

	_, ok := service.LastAdded(ctx, testIdentity)
	assert.False(t, ok)

	_, err := service.Add(ctx, testIdentity, "  Roofer ")
	require.NoError(t, err)

	last, ok := service.LastAdded(ctx, testIdentity)
	require.True(t, ok)
	assert.Equal(t, domain.ServiceName("Roofer"), last)

	_, err = service.Remove(ctx, testIdentity, "Roofer")
	require.NoError(t, err)
	last, ok = service.LastAdded(ctx, testIdentity)
	require.True(t, ok)
	assert.Equal(t, domain.ServiceName("Roofer"), last)
}

func TestLedgerLastAddedIgnoresCorruptValue(t *testing.T) {
	cache := newMemoryCache()
	cache.set(cacheKey(testIdentity, lastAddedCacheKey), "undefined")
	service := NewLedgerService(nil, nil, cache, nil, nil, LedgerOptions{})

	_, ok := service.LastAdded(context.Background(), testIdentity)
	assert.False(t, ok)
}

func TestLedgerRejectsEmptyServiceName(t *testing.T) {
	cache := mocks.NewMockCacheStore(t)
	service := NewLedgerService(nil, nil, cache, nil, nil, LedgerOptions{})

	for _, name := range []string{"", "   ", "null", "undefined"} {
		_, err := service.Add(context.Background(), testIdentity, name)
		assert.ErrorIs(t, err, domain.ErrEmptyServiceName, name)

		_, err = service.Remove(context.Background(), testIdentity, name)
		assert.ErrorIs(t, err, domain.ErrEmptyServiceName, name)
	}
}

func TestLedgerStrictCatalog(t *testing.T) {
	cache := newMemoryCache()
	strict := NewLedgerService(nil, nil, cache, nil, nil, LedgerOptions{StrictCatalog: true})
	lenient := NewLedgerService(nil, nil, cache, nil, nil, LedgerOptions{})

	_, err := strict.Add(context.Background(), testIdentity, "Astronaut")
	assert.ErrorIs(t, err, domain.ErrUnknownService)

	mutation, err := strict.Add(context.Background(), testIdentity, "Electrician")
	require.NoError(t, err)
	assert.True(t, mutation.Changed)

	mutation, err = lenient.Add(context.Background(), testIdentity, "Astronaut")
	require.NoError(t, err)
	assert.Equal(t, domain.ServiceList{"Electrician", "Astronaut"}, mutation.Services)
}

func TestLedgerRemoveMissingNameIsNoop(t *testing.T) {
	cache := mocks.NewMockCacheStore(t)
	service := NewLedgerService(nil, nil, cache, nil, nil, LedgerOptions{})

	cache.EXPECT().Get(mockAnyContext(), cacheKey(testIdentity, servicesCacheKey)).Return(`["Plumber"]`, nil)

	mutation, err := service.Remove(context.Background(), testIdentity, "Roofer")
	require.NoError(t, err)
	assert.False(t, mutation.Changed)
	assert.Equal(t, domain.ServiceList{"Plumber"}, mutation.Services)
}

func TestLedgerAddSurfacesPersistenceFailure(t *testing.T) {
	cache := mocks.NewMockCacheStore(t)
	service := NewLedgerService(nil, nil, cache, nil, nil, LedgerOptions{})

	cache.EXPECT().Get(mockAnyContext(), cacheKey(testIdentity, servicesCacheKey)).Return("", fmt.Errorf("missing: %w", domain.ErrKeyNotFound))
	cache.EXPECT().Put(mockAnyContext(), cacheKey(testIdentity, servicesCacheKey), `["Plumber"]`).Return(errors.New("disk full"))

	mutation, err := service.Add(context.Background(), testIdentity, "Plumber")
	require.ErrorIs(t, err, domain.ErrPersistence)
	assert.Contains(t, err.Error(), "disk full")
	assert.False(t, mutation.Changed)
	assert.Empty(t, mutation.Services)
}

func TestLedgerRemoveSurfacesPersistenceFailure(t *testing.T) {
	cache := mocks.NewMockCacheStore(t)
	service := NewLedgerService(nil, nil, cache, nil, nil, LedgerOptions{})

	cache.EXPECT().Get(mockAnyContext(), cacheKey(testIdentity, servicesCacheKey)).Return(`["Plumber","Roofer"]`, nil)
	cache.EXPECT().Put(mockAnyContext(), cacheKey(testIdentity, servicesCacheKey), `["Roofer"]`).Return(errors.New("read-only filesystem"))

	mutation, err := service.Remove(context.Background(), testIdentity, "Plumber")
	require.ErrorIs(t, err, domain.ErrPersistence)
	assert.Equal(t, domain.ServiceList{"Plumber", "Roofer"}, mutation.Services)
}

func TestLedgerAddPublishesWithSessionToken(t *testing.T) {
	source := mocks.NewMockAccountSource(t)
	publisher := mocks.NewMockServicePublisher(t)
	sessions := mocks.NewMockSessionRepository(t)
	cache := newMemoryCache()
	service := NewLedgerService(source, publisher, cache, sessions, nil, LedgerOptions{RemoteTimeout: time.Second})

	sessions.EXPECT().Current(mockAnyContext()).Return(domain.Session{Identity: testIdentity, Token: "tok-1"}, nil)
	source.EXPECT().FetchAccount(mockAnyContext(), testIdentity, "tok-1").Return(domain.Account{
		Identity:          testIdentity,
		ServiceCategories: []string{"Loan Officer"},
	}, nil)
	publisher.EXPECT().PublishServices(mockAnyContext(), testIdentity, "tok-1", []domain.ServiceName{"Loan Officer", "Tax Advisor"}).Return(nil)

	mutation, err := service.Add(context.Background(), testIdentity, "Tax Advisor")
	require.NoError(t, err)
	assert.True(t, mutation.Changed)
	assert.True(t, mutation.Published)
	assert.Equal(t, `["Loan Officer","Tax Advisor"]`, cache.value(cacheKey(testIdentity, servicesCacheKey)))
}

func TestLedgerSessionForOtherIdentityIsNotUsed(t *testing.T) {
	source := mocks.NewMockAccountSource(t)
	sessions := mocks.NewMockSessionRepository(t)
	service := NewLedgerService(source, nil, newMemoryCache(), sessions, nil, LedgerOptions{})

	sessions.EXPECT().Current(mockAnyContext()).Return(domain.Session{Identity: "other@example.com", Token: "tok-2"}, nil)
	source.EXPECT().FetchAccount(mockAnyContext(), testIdentity, "").Return(domain.Account{
		Identity:          testIdentity,
		ServiceCategories: []string{},
	}, nil)

	_, err := service.GetAll(context.Background(), testIdentity)
	require.NoError(t, err)
}

func TestLedgerPublishFailureKeepsLocalChange(t *testing.T) {
	publisher := mocks.NewMockServicePublisher(t)
	cache := newMemoryCache()
	service := NewLedgerService(nil, publisher, cache, nil, nil, LedgerOptions{})

	publisher.EXPECT().PublishServices(mockAnyContext(), testIdentity, "", mock.Anything).Return(errors.New("503"))

	mutation, err := service.Add(context.Background(), testIdentity, "Plumber")
	require.NoError(t, err)
	assert.True(t, mutation.Changed)
	assert.False(t, mutation.Published)
	assert.Equal(t, `["Plumber"]`, cache.value(cacheKey(testIdentity, servicesCacheKey)))
}

func TestLedgerConcurrentAddsAreSerialized(t *testing.T) {
	cache := newMemoryCache()
	service := NewLedgerService(nil, nil, cache, nil, nil, LedgerOptions{})
	names := domain.ListServices(domain.CategoryBuilding)

	var wg sync.WaitGroup
	for _, name := range names {
		wg.Add(1)
		go func(name domain.ServiceName) {
			defer wg.Done()
			_, err := service.Add(context.Background(), testIdentity, string(name))
			assert.NoError(t, err)
		}(name)
	}
	wg.Wait()

	snapshot, err := service.GetAll(context.Background(), testIdentity)
	require.NoError(t, err)
	assert.ElementsMatch(t, names, []domain.ServiceName(snapshot.Services))
}

func TestLedgerCanceledContext(t *testing.T) {
	service := NewLedgerService(nil, nil, mocks.NewMockCacheStore(t), nil, nil, LedgerOptions{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := service.GetAll(ctx, testIdentity)
	assert.ErrorIs(t, err, context.Canceled)

	_, err = service.Add(ctx, testIdentity, "Plumber")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLedgerRepeatedGetAllIsStable(t *testing.T) {
	tests := []struct {
		name   string
		remote bool
		want   domain.ReconciliationSource
	}{
		{name: "remote trusted", remote: true, want: domain.SourceRemoteTrusted},
		{name: "local fallback", remote: false, want: domain.SourceLocalFallback},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			source := mocks.NewMockAccountSource(t)
			cache := newMemoryCache()
			cache.set(cacheKey(testIdentity, servicesCacheKey), `["Architect","Loan Officer","null","Architect","Roofer"]`)
			service := NewLedgerService(source, nil, cache, nil, nil, LedgerOptions{})

			if tc.remote {
				source.EXPECT().FetchAccount(mockAnyContext(), testIdentity, "").Return(domain.Account{
					Identity:          testIdentity,
					ServiceCategories: []string{"Roofer", "undefined", "Tax Advisor", "Roofer", "Mason"},
				}, nil).Times(3)
			} else {
				source.EXPECT().FetchAccount(mockAnyContext(), testIdentity, "").Return(domain.Account{}, errors.New("connection reset")).Times(3)
			}

			first, err := service.GetAll(context.Background(), testIdentity)
			require.NoError(t, err)
			require.Equal(t, tc.want, first.Source)
			require.NotEmpty(t, first.Services)

			for i := 0; i < 2; i++ {
				again, err := service.GetAll(context.Background(), testIdentity)
				require.NoError(t, err)
				assert.Equal(t, first, again)
			}
		})
	}
}

func TestLedgerMutationsKeepStoredListWhenCacheReadFails(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*LedgerService) (Mutation, error)
		want   string
	}{
		{
			name:   "add",
			mutate: func(s *LedgerService) (Mutation, error) { return s.Add(context.Background(), testIdentity, "Electrician") },
			want:   `["Plumber","Roofer","Mason","Electrician"]`,
		},
		{
			name:   "remove",
			mutate: func(s *LedgerService) (Mutation, error) { return s.Remove(context.Background(), testIdentity, "Roofer") },
			want:   `["Plumber","Mason"]`,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cache := &flakyCache{memoryCache: newMemoryCache(), getFailures: 1, err: errors.New("redis: i/o timeout")}
			cache.set(cacheKey(testIdentity, servicesCacheKey), `["Plumber","Roofer","Mason"]`)
			service := NewLedgerService(nil, nil, cache, nil, nil, LedgerOptions{})

			mutation, err := tc.mutate(service)
			require.ErrorIs(t, err, domain.ErrPersistence)
			assert.Contains(t, err.Error(), "i/o timeout")
			assert.False(t, mutation.Changed)
			assert.Equal(t, `["Plumber","Roofer","Mason"]`, cache.value(cacheKey(testIdentity, servicesCacheKey)))

			mutation, err = tc.mutate(service)
			require.NoError(t, err)
			assert.True(t, mutation.Changed)
			assert.Equal(t, tc.want, cache.value(cacheKey(testIdentity, servicesCacheKey)))
		})
	}
}

func TestLedgerGetAllTreatsFailedCacheReadAsEmpty(t *testing.T) {
	cache := &flakyCache{memoryCache: newMemoryCache(), getFailures: 1, err: errors.New("database is locked")}
	cache.set(cacheKey(testIdentity, servicesCacheKey), `["Plumber"]`)
	service := NewLedgerService(nil, nil, cache, nil, nil, LedgerOptions{})

	snapshot, err := service.GetAll(context.Background(), testIdentity)
	require.NoError(t, err)
	assert.Equal(t, domain.SourceLocalFallback, snapshot.Source)
	assert.Empty(t, snapshot.Services)
	assert.Equal(t, `["Plumber"]`, cache.value(cacheKey(testIdentity, servicesCacheKey)))
}

func TestLedgerGetAllReturnsCancellationDuringRead(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cache := mocks.NewMockCacheStore(t)
	cache.EXPECT().Get(mockAnyContext(), cacheKey(testIdentity, servicesCacheKey)).RunAndReturn(func(ctx context.Context, _ string) (string, error) {
		cancel()
		return "", ctx.Err()
	})
	service := NewLedgerService(nil, nil, cache, nil, nil, LedgerOptions{})

	_, err := service.GetAll(ctx, testIdentity)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLedgerAddPublishesWhenLastAddedWriteFails(t *testing.T) {
	cache := mocks.NewMockCacheStore(t)
	publisher := mocks.NewMockServicePublisher(t)
	service := NewLedgerService(nil, publisher, cache, nil, nil, LedgerOptions{})

	cache.EXPECT().Get(mockAnyContext(), cacheKey(testIdentity, servicesCacheKey)).Return(`["Roofer"]`, nil)
	cache.EXPECT().Put(mockAnyContext(), cacheKey(testIdentity, servicesCacheKey), `["Roofer","Plumber"]`).Return(nil)
	cache.EXPECT().Put(mockAnyContext(), cacheKey(testIdentity, lastAddedCacheKey), "Plumber").Return(errors.New("disk full"))
	publisher.EXPECT().PublishServices(mockAnyContext(), testIdentity, "", []domain.ServiceName{"Roofer", "Plumber"}).Return(nil)

	mutation, err := service.Add(context.Background(), testIdentity, "Plumber")
	require.ErrorIs(t, err, domain.ErrPersistence)
	assert.Contains(t, err.Error(), "services list saved")
	assert.True(t, mutation.Changed)
	assert.True(t, mutation.Published)
	assert.Equal(t, domain.ServiceList{"Roofer", "Plumber"}, mutation.Services)
}

func mockAnyContext() interface{} {
	return mock.Anything
}

type memoryCache struct {
	mu     sync.Mutex
	values map[string]string
}

func newMemoryCache() *memoryCache {
	return &memoryCache{values: map[string]string{}}
}

func (c *memoryCache) Get(_ context.Context, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	value, ok := c.values[key]
	if !ok {
		return "", fmt.Errorf("%s: %w", key, domain.ErrKeyNotFound)
	}
	return value, nil
}

func (c *memoryCache) Put(_ context.Context, key string, value string) error {
	c.set(key, value)
	return nil
}

func (c *memoryCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.values, key)
	return nil
}

func (c *memoryCache) set(key, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.values[key] = value
}

func (c *memoryCache) value(key string) string {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.values[key]
}

// flakyCache fails the next getFailures reads with err.
type flakyCache struct {
	*memoryCache
	mu          sync.Mutex
	getFailures int
	err         error
}

func (c *flakyCache) Get(ctx context.Context, key string) (string, error) {
	c.mu.Lock()
	if c.getFailures > 0 {
		c.getFailures--
		c.mu.Unlock()
		return "", c.err
	}
	c.mu.Unlock()

	return c.memoryCache.Get(ctx, key)
}
