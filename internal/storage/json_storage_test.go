package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sspacecoding/unfluencer/internal/core/domain"
)

func newTestStorage(t *testing.T) (*JSONStorage, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "activity.json")
	s, err := NewJSONStorage(path)
	require.NoError(t, err)
	return s, path
}

func TestSaveReply_AssignsSequentialIDs(t *testing.T) {
	s, _ := newTestStorage(t)
	ctx := context.Background()

	require.NoError(t, s.SaveReply(ctx, domain.ReplyRecord{Account: "usuario_teste", Text: "first"}))
	require.NoError(t, s.SaveReply(ctx, domain.ReplyRecord{Account: "usuario_teste", Text: "second"}))

	require.Len(t, s.Data.Replies, 2)
	assert.Equal(t, int64(1), s.Data.Replies[0].ID)
	assert.Equal(t, int64(2), s.Data.Replies[1].ID)
	assert.False(t, s.Data.Replies[0].CreatedAt.IsZero())
}

func TestRecentReplies_NewestFirst(t *testing.T) {
	s, _ := newTestStorage(t)
	ctx := context.Background()

	for _, text := range []string{"first", "second", "third"} {
		require.NoError(t, s.SaveReply(ctx, domain.ReplyRecord{Text: text}))
	}

	got, err := s.RecentReplies(ctx, 2)

	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "third", got[0].Text)
	assert.Equal(t, "second", got[1].Text)
}

func TestRecentReplies_LimitAboveCount(t *testing.T) {
	s, _ := newTestStorage(t)
	ctx := context.Background()

	require.NoError(t, s.SaveReply(ctx, domain.ReplyRecord{Text: "only"}))

	got, err := s.RecentReplies(ctx, 10)

	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestIncrementCommentCount_DateRollover(t *testing.T) {
	s, _ := newTestStorage(t)

	require.NoError(t, s.IncrementCommentCount("usuario_teste", "2026-08-28"))
	require.NoError(t, s.IncrementCommentCount("usuario_teste", "2026-08-28"))

	count, date, err := s.GetCommentStats("usuario_teste")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.Equal(t, "2026-08-28", date)

	// A new day resets the counter.
	require.NoError(t, s.IncrementCommentCount("usuario_teste", "2026-08-29"))

	count, date, err = s.GetCommentStats("usuario_teste")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.Equal(t, "2026-08-29", date)
}

func TestJSONStorage_PersistsAcrossReopen(t *testing.T) {
	s, path := newTestStorage(t)
	ctx := context.Background()

	require.NoError(t, s.SaveReply(ctx, domain.ReplyRecord{
		Account:   "usuario_teste",
		PostID:    "987654321",
		CommentID: "111111",
		Text:      "Obrigado!",
		Mode:      "reply",
		Outcome:   "published",
	}))
	require.NoError(t, s.IncrementCommentCount("usuario_teste", "2026-08-29"))

	reopened, err := NewJSONStorage(path)
	require.NoError(t, err)

	got, err := reopened.RecentReplies(ctx, 1)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Obrigado!", got[0].Text)
	assert.Equal(t, "111111", got[0].CommentID)

	count, _, err := reopened.GetCommentStats("usuario_teste")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
