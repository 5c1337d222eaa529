package ui

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/bilgisen/tumblrfeed/internal/feed"
	"github.com/bilgisen/tumblrfeed/internal/models"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestScreen(t *testing.T, visible int) (*Screen, *fakeFetcher, *fakeImages) {
	t.Helper()
	q := NewMainQueue()
	t.Cleanup(q.Close)
	fetcher := &fakeFetcher{}
	imgs := newFakeImages()
	return NewScreen(context.Background(), q, fetcher, imgs, visible, zerolog.Nop()), fetcher, imgs
}

func snapshotOf(s *Screen) Snapshot {
	snap, _ := s.Snapshot(context.Background())
	return snap
}

func TestScreenInitialLoadSingleTextRow(t *testing.T) {
	s, fetcher, imgs := newTestScreen(t, 10)

	assert.Equal(t, StateIdle, snapshotOf(s).State)

	require.True(t, s.Start())
	require.Eventually(t, func() bool { return snapshotOf(s).State == StateLoading }, waitFor, time.Millisecond)
	assert.False(t, snapshotOf(s).Refreshing, "initial load has no refresh indicator")

	blog, err := feed.DecodeBlogResponse([]byte(`{"response":{"posts":[{"id":1,"summary":"Hello","photos":[]}]}}`))
	require.NoError(t, err)
	fetcher.complete(t, 0, blog.Response.Posts, nil)

	require.Eventually(t, func() bool { return snapshotOf(s).State == StateLoaded }, waitFor, time.Millisecond)
	snap := snapshotOf(s)
	assert.Equal(t, 1, snap.RowCount)
	require.Len(t, snap.Visible, 1)
	assert.Equal(t, "Hello", snap.Visible[0].Title)
	assert.Empty(t, snap.Visible[0].ImageURL)
	assert.False(t, snap.Visible[0].ImageLoaded)
	assert.NotNil(t, snap.UpdatedAt)
	assert.Empty(t, imgs.requests())
}

func TestScreenFailedRefreshKeepsRows(t *testing.T) {
	s, fetcher, _ := newTestScreen(t, 10)

	s.Start()
	fetcher.complete(t, 0, []models.Post{
		photoPost("1", "one", "https://img.example/1.jpg"),
		photoPost("2", "two", "https://img.example/2.jpg"),
	}, nil)
	require.Eventually(t, func() bool { return snapshotOf(s).State == StateLoaded }, waitFor, time.Millisecond)

	require.True(t, s.Refresh())
	require.Eventually(t, func() bool { return snapshotOf(s).State == StateLoading }, waitFor, time.Millisecond)
	snap := snapshotOf(s)
	assert.True(t, snap.Refreshing)
	assert.Equal(t, RefreshTitle, snap.RefreshTitle)
	assert.Equal(t, 2, snap.RowCount, "rows stay visible while refreshing")

	fetcher.complete(t, 1, nil, &feed.HTTPStatusError{StatusCode: http.StatusInternalServerError})
	require.Eventually(t, func() bool { return snapshotOf(s).State == StateFailed }, waitFor, time.Millisecond)

	snap = snapshotOf(s)
	assert.False(t, snap.Refreshing)
	assert.Empty(t, snap.RefreshTitle)
	assert.Contains(t, snap.LastError, "500")
	require.Equal(t, 2, snap.RowCount)
	assert.Equal(t, "one", snap.Rows[0].Title)
	assert.Equal(t, "two", snap.Rows[1].Title)
}

func TestScreenFailedFirstLoadStaysEmpty(t *testing.T) {
	s, fetcher, _ := newTestScreen(t, 10)

	s.Start()
	fetcher.complete(t, 0, nil, feed.ErrEmptyBody)
	require.Eventually(t, func() bool { return snapshotOf(s).State == StateFailed }, waitFor, time.Millisecond)

	snap := snapshotOf(s)
	assert.Zero(t, snap.RowCount)
	assert.Empty(t, snap.Visible)
	assert.Nil(t, snap.UpdatedAt)
}

func TestScreenLastCompletionWins(t *testing.T) {
	s, fetcher, _ := newTestScreen(t, 10)

	s.Refresh()
	s.Refresh()
	require.Eventually(t, func() bool { return fetcher.callCount() == 2 }, waitFor, time.Millisecond)

	fetcher.complete(t, 1, []models.Post{textPost("new", "newer request")}, nil)
	require.Eventually(t, func() bool { return snapshotOf(s).RowCount == 1 }, waitFor, time.Millisecond)

	fetcher.complete(t, 0, []models.Post{textPost("a", "older"), textPost("b", "request")}, nil)
	require.Eventually(t, func() bool { return snapshotOf(s).RowCount == 2 }, waitFor, time.Millisecond)

	snap := snapshotOf(s)
	assert.Equal(t, StateLoaded, snap.State)
	assert.Equal(t, "older", snap.Rows[0].Title)
}

func TestScreenScrollAndRowImage(t *testing.T) {
	s, fetcher, _ := newTestScreen(t, 1)

	s.Start()
	fetcher.complete(t, 0, []models.Post{
		textPost("1", "text"),
		photoPost("2", "photo", "https://img.example/2.jpg"),
	}, nil)
	require.Eventually(t, func() bool { return snapshotOf(s).State == StateLoaded }, waitFor, time.Millisecond)

	ctx := context.Background()

	_, err := s.RowImage(ctx, 0)
	assert.ErrorIs(t, err, ErrNoImage)
	_, err = s.RowImage(ctx, 1)
	assert.ErrorIs(t, err, ErrRowNotVisible)

	snap, err := s.Scroll(ctx, 1, 1)
	require.NoError(t, err)
	require.Len(t, snap.Visible, 1)
	assert.Equal(t, "photo", snap.Visible[0].Title)

	require.Eventually(t, func() bool {
		img, err := s.RowImage(ctx, 1)
		return err == nil && img.URL == "https://img.example/2.jpg"
	}, waitFor, time.Millisecond)
}

func TestStateMarshalText(t *testing.T) {
	for state, want := range map[State]string{
		StateIdle:    "idle",
		StateLoading: "loading",
		StateLoaded:  "loaded",
		StateFailed:  "failed",
		State(42):    "unknown",
	} {
		text, err := state.MarshalText()
		require.NoError(t, err)
		assert.Equal(t, want, string(text))
	}
}
