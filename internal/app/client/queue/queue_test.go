package queue

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sitelog/internal/app/client/kv"
	"sitelog/internal/domain/entry"
	"sitelog/internal/utils/logger"
)

func sequentialIDs() func() string {
	var n int
	return func() string {
		n++
		return fmt.Sprintf("e%d", n)
	}
}

func newTestQueue(store kv.Store) *Queue {
	return New(store, logger.Discard(),
		WithIDGenerator(sequentialIDs()),
		WithClock(func() time.Time { return time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC) }),
	)
}

func ids(entries []Entry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.ID)
	}
	return out
}

func TestQueue_EnqueueKeepsOrder(t *testing.T) {
	ctx := context.Background()
	q := newTestQueue(kv.NewMemoryStore())

	payloads := []entry.Payload{
		entry.JCB{GadiNo: "MH12AB1234", Rate: "500"},
		entry.Tipper{GadiNo: "MH14XY0001", Material: "sand"},
		entry.Diesel{GadiNo: "MH12AB1234", DieselLtr: "40"},
		entry.Expense{Amount: "120", Description: "tea"},
	}
	for _, p := range payloads {
		_, err := q.Enqueue(ctx, p)
		require.NoError(t, err)
	}

	got, err := q.DrainAll(ctx)
	require.NoError(t, err)
	require.Len(t, got, len(payloads))

	for i, e := range got {
		assert.Equal(t, payloads[i], e.Payload)
		assert.Equal(t, payloads[i].Kind(), e.Kind())
	}
	assert.Equal(t, []string{"e1", "e2", "e3", "e4"}, ids(got))

	// DrainAll не изменяет очередь
	n, err := q.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
}

func TestQueue_SurvivesRestart(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "data.db")

	store, err := kv.NewSQLiteStore(path)
	require.NoError(t, err)

	p := entry.JCB{GadiNo: "MH12AB1234", Rate: "500", TipCount: "4", EnteredBy: "Ravi"}
	_, err = New(store, logger.Discard()).Enqueue(ctx, p)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	reopened, err := kv.NewSQLiteStore(path)
	require.NoError(t, err)
	defer reopened.Close()

	got, err := New(reopened, logger.Discard()).DrainAll(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, p, got[0].Payload)
	assert.NotEmpty(t, got[0].ID)
}

func TestQueue_ClearAll(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemoryStore()
	q := newTestQueue(store)

	_, err := q.Enqueue(ctx, entry.Expense{Amount: "10"})
	require.NoError(t, err)
	require.NoError(t, q.ClearAll(ctx))

	n, err := q.Len(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	raw, ok, err := store.Get(ctx, kv.KeySyncQueue)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "[]", string(raw))
}

func TestQueue_SettleKeepsEntriesAddedDuringDrain(t *testing.T) {
	ctx := context.Background()
	q := newTestQueue(kv.NewMemoryStore())

	_, err := q.Enqueue(ctx, entry.JCB{GadiNo: "A"})
	require.NoError(t, err)
	_, err = q.Enqueue(ctx, entry.JCB{GadiNo: "B"})
	require.NoError(t, err)

	snapshot, err := q.DrainAll(ctx)
	require.NoError(t, err)

	// форма отправила запись, пока шел проход
	late, err := q.Enqueue(ctx, entry.Tipper{GadiNo: "C"})
	require.NoError(t, err)

	res, err := q.Settle(ctx, snapshot, nil, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"e1", "e2"}, ids(res.Removed))
	assert.Empty(t, res.Dropped)

	left, err := q.DrainAll(ctx)
	require.NoError(t, err)
	require.Len(t, left, 1)
	assert.Equal(t, late.ID, left[0].ID)
	assert.Equal(t, entry.Tipper{GadiNo: "C"}, left[0].Payload)
}

func TestQueue_SettleBoundedRetries(t *testing.T) {
	ctx := context.Background()
	q := newTestQueue(kv.NewMemoryStore())

	_, err := q.Enqueue(ctx, entry.JCB{GadiNo: "ok"})
	require.NoError(t, err)
	bad, err := q.Enqueue(ctx, entry.JCB{GadiNo: "bad"})
	require.NoError(t, err)

	failed := map[string]bool{bad.ID: true}

	// первый проход: попытка 1 из 2, запись остается
	snapshot, err := q.DrainAll(ctx)
	require.NoError(t, err)
	res, err := q.Settle(ctx, snapshot, failed, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"e1"}, ids(res.Removed))
	assert.Equal(t, []string{"e2"}, ids(res.Kept))
	assert.Empty(t, res.Dropped)

	left, err := q.DrainAll(ctx)
	require.NoError(t, err)
	require.Len(t, left, 1)
	assert.Equal(t, 1, left[0].Attempts)

	// второй проход: лимит исчерпан, запись удаляется
	res, err = q.Settle(ctx, left, failed, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"e2"}, ids(res.Dropped))
	assert.Empty(t, res.Kept)

	n, err := q.Len(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestQueue_SettleSingleAttemptDropsFailures(t *testing.T) {
	ctx := context.Background()
	q := newTestQueue(kv.NewMemoryStore())

	bad, err := q.Enqueue(ctx, entry.Diesel{GadiNo: "bad"})
	require.NoError(t, err)

	snapshot, err := q.DrainAll(ctx)
	require.NoError(t, err)

	res, err := q.Settle(ctx, snapshot, map[string]bool{bad.ID: true}, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{bad.ID}, ids(res.Dropped))

	n, err := q.Len(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestQueue_SettleEmptySnapshotDoesNotWrite(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemoryStore()
	q := newTestQueue(store)

	_, err := q.Settle(ctx, nil, nil, 1)
	require.NoError(t, err)

	_, ok, err := store.Get(ctx, kv.KeySyncQueue)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestQueue_ConcurrentEnqueue(t *testing.T) {
	ctx := context.Background()
	q := New(kv.NewMemoryStore(), logger.Discard())

	const n = 50
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := q.Enqueue(ctx, entry.Expense{Amount: fmt.Sprint(i)})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	got, err := q.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, n, got)
}

func TestQueue_SkipsUnreadableEntries(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemoryStore()
	require.NoError(t, store.Set(ctx, kv.KeySyncQueue, []byte(`[
		{"id":"a","kind":"failed","payload":{}},
		{"id":"b","kind":"jcb","payload":{"gadiNo":"X"},"enqueuedAt":"2024-05-01T10:00:00Z"}
	]`)))

	got, err := New(store, logger.Discard()).DrainAll(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "b", got[0].ID)
	assert.Equal(t, entry.JCB{GadiNo: "X"}, got[0].Payload)
}

func TestQueue_CorruptedListStartsOver(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemoryStore()
	require.NoError(t, store.Set(ctx, kv.KeySyncQueue, []byte(`{oops`)))

	q := newTestQueue(store)
	_, err := q.Enqueue(ctx, entry.Expense{Amount: "5"})
	require.NoError(t, err)

	n, err := q.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestQueue_EnqueueNil(t *testing.T) {
	q := newTestQueue(kv.NewMemoryStore())
	_, err := q.Enqueue(context.Background(), nil)
	assert.ErrorIs(t, err, entry.ErrInvalidPayload)
}
