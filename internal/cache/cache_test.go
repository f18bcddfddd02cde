package cache

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchOrCompute_CacheHit(t *testing.T) {
	store := New(10)
	key := Key{Namespace: "balance_sheet", EntityID: "fam-1", Version: "v1"}

	calls := 0
	compute := func() (string, error) {
		calls++
		return "net worth line", nil
	}

	first, err := FetchOrCompute(store, key, time.Minute, compute)
	require.NoError(t, err)
	assert.Equal(t, "net worth line", first)

	second, err := FetchOrCompute(store, key, time.Minute, compute)
	require.NoError(t, err)
	assert.Equal(t, "net worth line", second)

	assert.Equal(t, 1, calls, "second call within TTL must not recompute")
}

func TestFetchOrCompute_VersionChangeMisses(t *testing.T) {
	store := New(10)

	calls := 0
	compute := func() (string, error) {
		calls++
		return "value", nil
	}

	_, err := FetchOrCompute(store, Key{"income_statement", "fam-1", "v1"}, time.Minute, compute)
	require.NoError(t, err)

	// Same namespace and entity, new data-version token: must recompute even
	// though the v1 entry is still within TTL.
	_, err = FetchOrCompute(store, Key{"income_statement", "fam-1", "v2"}, time.Minute, compute)
	require.NoError(t, err)

	assert.Equal(t, 2, calls)
}

func TestFetchOrCompute_TTLExpiry(t *testing.T) {
	store := New(10)
	key := Key{Namespace: "budget", EntityID: "fam-1", Version: "v1"}

	calls := 0
	compute := func() (string, error) {
		calls++
		return "budget line", nil
	}

	_, err := FetchOrCompute(store, key, 10*time.Millisecond, compute)
	require.NoError(t, err)

	time.Sleep(25 * time.Millisecond)

	_, err = FetchOrCompute(store, key, 10*time.Millisecond, compute)
	require.NoError(t, err)

	assert.Equal(t, 2, calls, "entry past TTL must not be returned")
}

func TestFetchOrCompute_ComputeErrorNotCached(t *testing.T) {
	store := New(10)
	key := Key{Namespace: "accounts", EntityID: "fam-1", Version: "v1"}

	calls := 0
	compute := func() (string, error) {
		calls++
		if calls == 1 {
			return "", errors.New("upstream down")
		}
		return "recovered", nil
	}

	_, err := FetchOrCompute(store, key, time.Minute, compute)
	require.Error(t, err)
	assert.Equal(t, 0, store.Size())

	value, err := FetchOrCompute(store, key, time.Minute, compute)
	require.NoError(t, err)
	assert.Equal(t, "recovered", value)
}

func TestStore_EvictsOldestAtCapacity(t *testing.T) {
	store := New(2)

	store.Set(Key{"ns", "a", "v1"}, "a", time.Minute)
	time.Sleep(2 * time.Millisecond)
	store.Set(Key{"ns", "b", "v1"}, "b", time.Minute)
	time.Sleep(2 * time.Millisecond)
	store.Set(Key{"ns", "c", "v1"}, "c", time.Minute)

	_, ok := store.Get(Key{"ns", "a", "v1"})
	assert.False(t, ok, "oldest entry should have been evicted")
	_, ok = store.Get(Key{"ns", "c", "v1"})
	assert.True(t, ok)
	assert.Equal(t, 2, store.Size())
}

func TestStore_DeleteAndClear(t *testing.T) {
	store := New(10)
	key := Key{"ns", "a", "v1"}

	store.Set(key, "a", time.Minute)
	store.Delete(key)
	_, ok := store.Get(key)
	assert.False(t, ok)

	store.Set(key, "a", time.Minute)
	store.Set(Key{"ns", "b", "v1"}, "b", time.Minute)
	store.Clear()
	assert.Equal(t, 0, store.Size())
}
