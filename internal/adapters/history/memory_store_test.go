package history

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spamrun/email-checker/internal/core"
)

func newTestStore(t *testing.T, retention time.Duration) *MemoryStore {
	t.Helper()
	store := NewMemoryStore(zap.NewNop(), retention, time.Hour)
	t.Cleanup(store.Stop)
	return store
}

func testResult(id string, score float64) *core.AnalysisResult {
	result := &core.AnalysisResult{ID: id, SpamScore: score}
	result.Normalize()
	return result
}

func TestMemoryStoreSaveAndGet(t *testing.T) {
	store := newTestStore(t, time.Hour)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, testResult("check_1", 40)))

	got, err := store.Get(ctx, "check_1")
	require.NoError(t, err)
	assert.Equal(t, 40.0, got.SpamScore)
}

func TestMemoryStoreGetMissing(t *testing.T) {
	store := newTestStore(t, time.Hour)

	_, err := store.Get(context.Background(), "check_nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreListNewestFirst(t *testing.T) {
	store := newTestStore(t, time.Hour)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, store.Save(ctx, testResult(fmt.Sprintf("check_%d", i), float64(i))))
	}

	results, err := store.List(ctx, 3)
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, "check_4", results[0].ID)
	assert.Equal(t, "check_3", results[1].ID)
	assert.Equal(t, "check_2", results[2].ID)
}

func TestMemoryStoreExpiry(t *testing.T) {
	store := newTestStore(t, 10*time.Millisecond)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, testResult("check_old", 10)))
	time.Sleep(20 * time.Millisecond)

	_, err := store.Get(ctx, "check_old")
	assert.ErrorIs(t, err, ErrNotFound)

	results, err := store.List(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestMemoryStoreCleanup(t *testing.T) {
	store := newTestStore(t, 10*time.Millisecond)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, testResult("check_old", 10)))
	time.Sleep(20 * time.Millisecond)
	require.NoError(t, store.Save(ctx, testResult("check_new", 20)))

	require.NoError(t, store.Cleanup(ctx))

	_, err := store.Get(ctx, "check_old")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = store.Get(ctx, "check_new")
	assert.NoError(t, err)
}

func TestMemoryStoreSaveOverwrites(t *testing.T) {
	store := newTestStore(t, time.Hour)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, testResult("check_1", 10)))
	require.NoError(t, store.Save(ctx, testResult("check_1", 90)))

	got, err := store.Get(ctx, "check_1")
	require.NoError(t, err)
	assert.Equal(t, 90.0, got.SpamScore)

	results, err := store.List(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, results, 1)
}
