package generate

import (
	"context"
	"fmt"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHistory(t *testing.T) (*HistoryRepository, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewHistoryRepository(client), mr
}

func TestHistoryAppend_NewestFirst(t *testing.T) {
	repo, _ := newTestHistory(t)
	ctx := context.Background()

	require.NoError(t, repo.Append(ctx, "u1", &Record{Prompt: "first", Content: "a"}))
	require.NoError(t, repo.Append(ctx, "u1", &Record{Prompt: "second", Content: "b"}))

	records, err := repo.List(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "second", records[0].Prompt)
	assert.Equal(t, "first", records[1].Prompt)
	assert.NotEmpty(t, records[0].ID)
	assert.False(t, records[0].CreatedAt.IsZero())
}

func TestHistoryAppend_TrimsToCap(t *testing.T) {
	repo, _ := newTestHistory(t)
	ctx := context.Background()

	for i := 0; i < historyMaxLen+5; i++ {
		require.NoError(t, repo.Append(ctx, "u1", &Record{Prompt: fmt.Sprintf("p%d", i)}))
	}

	records, err := repo.List(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, records, historyMaxLen)
	assert.Equal(t, fmt.Sprintf("p%d", historyMaxLen+4), records[0].Prompt, "newest survives the trim")
}

func TestHistoryAppend_SetsTTL(t *testing.T) {
	repo, mr := newTestHistory(t)
	require.NoError(t, repo.Append(context.Background(), "u1", &Record{Prompt: "p"}))
	assert.Equal(t, historyTTL, mr.TTL(historyKeyPrefix+"u1"))
}

func TestHistory_IsolatedPerUser(t *testing.T) {
	repo, _ := newTestHistory(t)
	ctx := context.Background()

	require.NoError(t, repo.Append(ctx, "u1", &Record{Prompt: "mine"}))
	records, err := repo.List(ctx, "u2")
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestHistoryClear(t *testing.T) {
	repo, _ := newTestHistory(t)
	ctx := context.Background()

	require.NoError(t, repo.Append(ctx, "u1", &Record{Prompt: "p"}))
	require.NoError(t, repo.Clear(ctx, "u1"))

	records, err := repo.List(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestHistoryClear_MissingKeyIsNoop(t *testing.T) {
	repo, _ := newTestHistory(t)
	assert.NoError(t, repo.Clear(context.Background(), "nobody"))
}
