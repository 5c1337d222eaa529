package ui

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/bilgisen/tumblrfeed/internal/images"
	"github.com/bilgisen/tumblrfeed/internal/models"
	"github.com/stretchr/testify/require"
)

const waitFor = 5 * time.Second

// fakeFetcher records every fetch and lets the test complete them in any order.
type fakeFetcher struct {
	mu    sync.Mutex
	calls []func([]models.Post, error)
}

func (f *fakeFetcher) FetchPostsAsync(ctx context.Context, done func([]models.Post, error)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, done)
}

func (f *fakeFetcher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeFetcher) complete(t *testing.T, i int, posts []models.Post, err error) {
	t.Helper()
	require.Eventually(t, func() bool { return f.callCount() > i }, waitFor, time.Millisecond)
	f.mu.Lock()
	done := f.calls[i]
	f.mu.Unlock()
	go done(posts, err)
}

// fakeImages serves a synthetic image per URL. Gated URLs block until released.
type fakeImages struct {
	mu        sync.Mutex
	gates     map[string]chan struct{}
	failures  map[string]bool
	requested []string
}

func newFakeImages() *fakeImages {
	return &fakeImages{
		gates:    make(map[string]chan struct{}),
		failures: make(map[string]bool),
	}
}

func (f *fakeImages) gate(url string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gates[url] = make(chan struct{})
}

func (f *fakeImages) release(url string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	close(f.gates[url])
}

func (f *fakeImages) fail(url string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures[url] = true
}

func (f *fakeImages) requests() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.requested...)
}

func (f *fakeImages) Load(ctx context.Context, url string) (*images.Image, error) {
	f.mu.Lock()
	f.requested = append(f.requested, url)
	gate := f.gates[url]
	failing := f.failures[url]
	f.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if failing {
		return nil, &images.ImageLoadError{URL: url, Err: errors.New("boom")}
	}
	return &images.Image{URL: url, Data: []byte(url), Format: "png", Width: 1, Height: 1}, nil
}

func photoPost(id, summary, url string) models.Post {
	return models.Post{
		ID:      models.PostID(id),
		Summary: summary,
		Photos:  []models.Photo{{OriginalSize: models.PhotoSize{URL: url}}},
	}
}

func textPost(id, summary string) models.Post {
	return models.Post{ID: models.PostID(id), Summary: summary}
}

// onQueue runs fn on the main queue and waits for it.
func onQueue(t *testing.T, q *MainQueue, fn func()) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), waitFor)
	defer cancel()
	require.NoError(t, q.Sync(ctx, fn))
}
