package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"sitelog/internal/app/client/kv"
	"sitelog/internal/app/client/remote"
	"sitelog/internal/app/client/session"
	"sitelog/internal/domain/entry"
	"sitelog/internal/utils/logger"
)

type MockGetter struct {
	mock.Mock
}

func (m *MockGetter) Get(ctx context.Context, action string, params url.Values) (*remote.Response, error) {
	args := m.Called(ctx, action, params)
	if r := args.Get(0); r != nil {
		return r.(*remote.Response), args.Error(1)
	}
	return nil, args.Error(1)
}

func okResponse(t *testing.T, data any) *remote.Response {
	t.Helper()
	raw, err := json.Marshal(data)
	require.NoError(t, err)
	return &remote.Response{Success: true, Data: raw}
}

var errOffline = fmt.Errorf("%w: dial tcp: connection refused", remote.ErrTransport)

func TestReader_FallsBackToLastSnapshot(t *testing.T) {
	ctx := context.Background()
	getter := new(MockGetter)
	r := NewReader(kv.NewMemoryStore(), getter, session.Static{}, logger.Discard())

	getter.On("Get", mock.Anything, "getJCB", mock.Anything).
		Return(okResponse(t, []map[string]any{{"id": 1}}), nil).Once()
	getter.On("Get", mock.Anything, "getJCB", mock.Anything).
		Return(nil, errOffline).Once()

	first := r.JCBEntries(ctx)
	assert.True(t, first.Fresh)

	second := r.JCBEntries(ctx)
	assert.False(t, second.Fresh)
	assert.True(t, second.Cached)
	assert.Equal(t, []entry.Record{{"id": float64(1)}}, second.Data)
	assert.True(t, first.FetchedAt.Equal(second.FetchedAt))

	getter.AssertExpectations(t)
}

func TestReader_SnapshotIsReplacedNotMerged(t *testing.T) {
	ctx := context.Background()
	getter := new(MockGetter)
	r := NewReader(kv.NewMemoryStore(), getter, session.Static{}, logger.Discard())

	getter.On("Get", mock.Anything, "getTipper", mock.Anything).
		Return(okResponse(t, []map[string]any{{"id": 1}, {"id": 2}}), nil).Once()
	getter.On("Get", mock.Anything, "getTipper", mock.Anything).
		Return(okResponse(t, []map[string]any{{"id": 3}}), nil).Once()
	getter.On("Get", mock.Anything, "getTipper", mock.Anything).
		Return(nil, errOffline).Once()

	r.TipperEntries(ctx)
	r.TipperEntries(ctx)
	got := r.TipperEntries(ctx)

	assert.True(t, got.Cached)
	assert.Equal(t, []entry.Record{{"id": float64(3)}}, got.Data)
}

func TestReader_DefaultsWithoutSnapshot(t *testing.T) {
	ctx := context.Background()
	getter := new(MockGetter)
	r := NewReader(kv.NewMemoryStore(), getter, session.Static{}, logger.Discard())

	getter.On("Get", mock.Anything, mock.Anything, mock.Anything).Return(nil, errOffline)

	for _, kind := range entry.Kinds {
		res, err := r.Entries(ctx, kind)
		require.NoError(t, err)
		assert.False(t, res.Fresh)
		assert.False(t, res.Cached)
		assert.NotNil(t, res.Data, kind)
		assert.Empty(t, res.Data, kind)
	}

	stats := r.QuickStats(ctx)
	assert.Equal(t, entry.Stats{}, stats.Data)
	assert.True(t, stats.FetchedAt.IsZero())
}

func TestReader_RejectionUsesCache(t *testing.T) {
	ctx := context.Background()
	getter := new(MockGetter)
	r := NewReader(kv.NewMemoryStore(), getter, session.Static{}, logger.Discard())

	getter.On("Get", mock.Anything, "getStats", mock.Anything).
		Return(okResponse(t, entry.Stats{JCBCount: 4, TipperCount: 2, TotalDue: 1500}), nil).Once()
	getter.On("Get", mock.Anything, "getStats", mock.Anything).
		Return(&remote.Response{Success: false, Error: "sheet missing"}, nil).Once()

	r.QuickStats(ctx)
	got := r.QuickStats(ctx)

	assert.True(t, got.Cached)
	assert.Equal(t, entry.Stats{JCBCount: 4, TipperCount: 2, TotalDue: 1500}, got.Data)
}

func TestReader_SendsSessionIdentity(t *testing.T) {
	ctx := context.Background()
	getter := new(MockGetter)
	sess := session.Static{Role: entry.RoleEmployee, UserName: "Ravi"}
	r := NewReader(kv.NewMemoryStore(), getter, sess, logger.Discard())

	want := url.Values{"userName": {"Ravi"}, "role": {"employee"}}
	getter.On("Get", mock.Anything, "getDiesel", want).
		Return(okResponse(t, []map[string]any{}), nil).Once()

	res := r.DieselEntries(ctx)
	assert.True(t, res.Fresh)
	assert.Empty(t, res.Data)
	getter.AssertExpectations(t)
}

func TestReader_UnknownKind(t *testing.T) {
	r := NewReader(kv.NewMemoryStore(), new(MockGetter), session.Static{}, logger.Discard())

	_, err := r.Entries(context.Background(), entry.Kind("crane"))
	assert.True(t, errors.Is(err, entry.ErrUnknownKind))
}

func TestCache_NeverGoesBackwards(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemoryStore()
	c := New(store, "k", func() []int { return nil }, logger.Discard())

	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	newer := Snapshot[[]int]{Data: []int{2}, FetchedAt: base.Add(time.Minute)}
	require.NoError(t, kv.SetJSON(ctx, store, "k", newer))

	// запрос начался раньше, чем был получен сохраненный снимок
	c.now = func() time.Time { return base }
	res := c.Get(ctx, func(context.Context) ([]int, error) { return []int{1}, nil })

	assert.True(t, res.Fresh)
	assert.Equal(t, []int{1}, res.Data)

	stored, ok := c.Load(ctx)
	require.True(t, ok)
	assert.Equal(t, []int{2}, stored.Data)
	assert.True(t, stored.FetchedAt.Equal(newer.FetchedAt))
}

func TestCache_SurvivesRestart(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemoryStore()

	first := New(store, "k", func() []int { return []int{} }, logger.Discard())
	first.Get(ctx, func(context.Context) ([]int, error) { return []int{7, 8}, nil })

	second := New(store, "k", func() []int { return []int{} }, logger.Discard())
	res := second.Get(ctx, func(context.Context) ([]int, error) { return nil, errOffline })

	assert.True(t, res.Cached)
	assert.Equal(t, []int{7, 8}, res.Data)
	assert.False(t, res.FetchedAt.IsZero())

	raw, ok, err := store.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Contains(t, string(raw), `"data":[7,8]`)
	assert.Contains(t, string(raw), `"fetchedAt":`)
}
