package ui

import (
	"context"
	"errors"
	"time"

	"github.com/bilgisen/tumblrfeed/internal/feed"
	"github.com/bilgisen/tumblrfeed/internal/images"
	"github.com/bilgisen/tumblrfeed/internal/models"
	"github.com/rs/zerolog"
)

// RefreshTitle is shown next to the refresh indicator.
const RefreshTitle = "Refreshing..."

var (
	// ErrRowNotVisible is returned for rows outside the visible window.
	ErrRowNotVisible = errors.New("row is not visible")
	// ErrNoImage is returned while a row has no image to show.
	ErrNoImage = errors.New("row has no image")
)

// PostFetcher loads the feed in the background and reports through done.
type PostFetcher interface {
	FetchPostsAsync(ctx context.Context, done func([]models.Post, error))
}

// State is the feed-level load state.
type State int

const (
	StateIdle State = iota
	StateLoading
	StateLoaded
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateLoaded:
		return "loaded"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Snapshot is a copy of the screen taken on the main queue.
type Snapshot struct {
	State        State      `json:"state"`
	Refreshing   bool       `json:"refreshing"`
	RefreshTitle string     `json:"refresh_title,omitempty"`
	LastError    string     `json:"last_error,omitempty"`
	UpdatedAt    *time.Time `json:"updated_at,omitempty"`
	RowCount     int        `json:"row_count"`
	Rows         []FeedRow  `json:"rows"`
	FirstVisible int        `json:"first_visible"`
	VisibleCount int        `json:"visible_count"`
	Visible      []RowView  `json:"visible"`
	Stats        Stats      `json:"stats"`
}

// Screen drives the feed: it starts fetches, applies their results on the
// main queue and keeps the refresh indicator in step.
type Screen struct {
	ctx     context.Context
	queue   *MainQueue
	fetcher PostFetcher
	list    *ListView
	log     zerolog.Logger

	state      State
	refreshing bool
	lastErr    error
	updatedAt  time.Time
	attempts   int
}

// NewScreen builds the screen. ctx bounds every fetch the screen starts.
func NewScreen(ctx context.Context, queue *MainQueue, fetcher PostFetcher, source ImageSource, visibleRows int, log zerolog.Logger) *Screen {
	return &Screen{
		ctx:     ctx,
		queue:   queue,
		fetcher: fetcher,
		list:    NewListView(ctx, queue, source, visibleRows, log),
		log:     log,
	}
}

// Start performs the initial load.
func (s *Screen) Start() bool {
	return s.queue.Post(func() {
		s.load("initial")
	})
}

// Refresh is the pull-to-refresh gesture. A fetch already in flight is
// not cancelled; whichever completes last decides the list.
func (s *Screen) Refresh() bool {
	return s.queue.Post(func() {
		s.refreshing = true
		s.load("refresh")
	})
}

func (s *Screen) load(trigger string) {
	s.state = StateLoading
	s.attempts++
	attempt := s.attempts

	s.log.Info().
		Str("trigger", trigger).
		Int("attempt", attempt).
		Msg("Fetching posts")

	start := time.Now()
	s.fetcher.FetchPostsAsync(s.ctx, func(posts []models.Post, err error) {
		s.queue.Post(func() {
			s.finish(attempt, time.Since(start), posts, err)
		})
	})
}

func (s *Screen) finish(attempt int, took time.Duration, posts []models.Post, err error) {
	s.refreshing = false

	if err != nil {
		s.state = StateFailed
		s.lastErr = err
		s.log.Error().
			Err(err).
			Str("error_kind", feed.Kind(err)).
			Int("attempt", attempt).
			Dur("duration", took).
			Int("rows_kept", s.list.NumberOfRows()).
			Msg("Error fetching posts")
		return
	}

	s.list.Reload(posts)
	s.state = StateLoaded
	s.lastErr = nil
	s.updatedAt = time.Now()

	s.log.Info().
		Int("attempt", attempt).
		Int("posts", len(posts)).
		Dur("duration", took).
		Msg("Fetched posts")
}

// Snapshot copies the current screen state.
func (s *Screen) Snapshot(ctx context.Context) (Snapshot, error) {
	var snap Snapshot
	err := s.queue.Sync(ctx, func() {
		snap = s.snapshot()
	})
	return snap, err
}

// Scroll moves the visible window and returns the resulting screen.
func (s *Screen) Scroll(ctx context.Context, first, count int) (Snapshot, error) {
	var snap Snapshot
	err := s.queue.Sync(ctx, func() {
		s.list.SetVisibleRange(first, count)
		snap = s.snapshot()
	})
	return snap, err
}

// RowImage returns the image currently shown by the row at index.
func (s *Screen) RowImage(ctx context.Context, index int) (*images.Image, error) {
	var (
		img    *images.Image
		rowErr error
	)
	err := s.queue.Sync(ctx, func() {
		row, ok := s.list.RowAt(index)
		switch {
		case !ok:
			rowErr = ErrRowNotVisible
		case row.image == nil:
			rowErr = ErrNoImage
		default:
			img = row.image
		}
	})
	if err != nil {
		return nil, err
	}
	return img, rowErr
}

func (s *Screen) snapshot() Snapshot {
	first, count := s.list.VisibleRange()
	snap := Snapshot{
		State:        s.state,
		Refreshing:   s.refreshing,
		RowCount:     s.list.NumberOfRows(),
		Rows:         s.list.Rows(),
		FirstVisible: first,
		VisibleCount: count,
		Visible:      s.list.VisibleRows(),
		Stats:        s.list.Stats(),
	}
	if s.refreshing {
		snap.RefreshTitle = RefreshTitle
	}
	if s.lastErr != nil {
		snap.LastError = s.lastErr.Error()
	}
	if !s.updatedAt.IsZero() {
		t := s.updatedAt
		snap.UpdatedAt = &t
	}
	return snap
}
