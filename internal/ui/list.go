package ui

import (
	"context"

	"github.com/bilgisen/tumblrfeed/internal/images"
	"github.com/bilgisen/tumblrfeed/internal/models"
	"github.com/rs/zerolog"
)

// ImageSource fetches a row image. Load runs off the main queue.
type ImageSource interface {
	Load(ctx context.Context, url string) (*images.Image, error)
}

// Row is a recyclable on-screen row. The generation changes every time
// the row is prepared for reuse or bound to a post, so an image fetch
// started for an earlier binding can be recognised when it completes.
type Row struct {
	id         int
	index      int
	postID     models.PostID
	title      string
	imageURL   string
	image      *images.Image
	generation uint64
}

func (r *Row) prepareForReuse() {
	r.generation++
	r.index = -1
	r.postID = ""
	r.title = ""
	r.imageURL = ""
	r.image = nil
}

// Stats counts image traffic through the list.
type Stats struct {
	RowsCreated          int `json:"rows_created"`
	ImagesRequested      int `json:"images_requested"`
	ImagesApplied        int `json:"images_applied"`
	ImagesFailed         int `json:"images_failed"`
	StaleImagesDiscarded int `json:"stale_images_discarded"`
}

// RowView is the rendered state of a visible row.
type RowView struct {
	Index       int           `json:"index"`
	RowID       int           `json:"row_id"`
	PostID      models.PostID `json:"post_id"`
	Title       string        `json:"title"`
	ImageURL    string        `json:"image_url,omitempty"`
	ImageLoaded bool          `json:"image_loaded"`
	ImageFormat string        `json:"image_format,omitempty"`
	ImageWidth  int           `json:"image_width,omitempty"`
	ImageHeight int           `json:"image_height,omitempty"`
}

// FeedRow describes one entry of the data source.
type FeedRow struct {
	Index    int           `json:"index"`
	PostID   models.PostID `json:"post_id"`
	Title    string        `json:"title"`
	PhotoURL string        `json:"photo_url,omitempty"`
}

// ListView binds a post slice to a window of recycled rows. Every method
// must run on the main queue.
type ListView struct {
	ctx    context.Context
	queue  *MainQueue
	source ImageSource
	log    zerolog.Logger

	posts   []models.Post
	first   int
	count   int
	visible map[int]*Row
	reuse   []*Row
	nextID  int
	stats   Stats
}

func NewListView(ctx context.Context, queue *MainQueue, source ImageSource, visibleRows int, log zerolog.Logger) *ListView {
	return &ListView{
		ctx:     ctx,
		queue:   queue,
		source:  source,
		log:     log,
		count:   visibleRows,
		visible: make(map[int]*Row),
	}
}

// NumberOfRows is the number of posts in the data source.
func (l *ListView) NumberOfRows() int {
	return len(l.posts)
}

// Reload replaces the data source and rebinds every visible row.
func (l *ListView) Reload(posts []models.Post) {
	l.posts = posts
	for index, row := range l.visible {
		l.enqueueReusable(row)
		delete(l.visible, index)
	}
	l.layout()
}

// SetVisibleRange scrolls the window to [first, first+count).
func (l *ListView) SetVisibleRange(first, count int) {
	if first < 0 {
		first = 0
	}
	if count < 0 {
		count = 0
	}
	l.first, l.count = first, count
	l.layout()
}

// VisibleRange returns the requested window.
func (l *ListView) VisibleRange() (first, count int) {
	return l.first, l.count
}

// RowAt returns the row currently showing index.
func (l *ListView) RowAt(index int) (*Row, bool) {
	row, ok := l.visible[index]
	return row, ok
}

// Stats returns the image counters.
func (l *ListView) Stats() Stats {
	return l.stats
}

// Rows lists the data source in display order.
func (l *ListView) Rows() []FeedRow {
	rows := make([]FeedRow, 0, len(l.posts))
	for i, post := range l.posts {
		url, _ := post.FirstPhotoURL()
		rows = append(rows, FeedRow{Index: i, PostID: post.ID, Title: post.Summary, PhotoURL: url})
	}
	return rows
}

// VisibleRows renders the visible window in index order.
func (l *ListView) VisibleRows() []RowView {
	views := make([]RowView, 0, len(l.visible))
	for i := l.first; i < l.first+l.count && i < len(l.posts); i++ {
		row, ok := l.visible[i]
		if !ok {
			continue
		}
		views = append(views, row.view())
	}
	return views
}

func (r *Row) view() RowView {
	v := RowView{
		Index:    r.index,
		RowID:    r.id,
		PostID:   r.postID,
		Title:    r.title,
		ImageURL: r.imageURL,
	}
	if r.image != nil {
		v.ImageLoaded = true
		v.ImageFormat = r.image.Format
		v.ImageWidth = r.image.Width
		v.ImageHeight = r.image.Height
	}
	return v
}

func (l *ListView) inWindow(index int) bool {
	return index >= l.first && index < l.first+l.count && index < len(l.posts)
}

func (l *ListView) layout() {
	for index, row := range l.visible {
		if !l.inWindow(index) {
			l.enqueueReusable(row)
			delete(l.visible, index)
		}
	}
	for index := l.first; l.inWindow(index); index++ {
		if _, ok := l.visible[index]; ok {
			continue
		}
		row := l.dequeueReusable()
		l.configure(row, index)
		l.visible[index] = row
	}
}

func (l *ListView) enqueueReusable(row *Row) {
	row.prepareForReuse()
	l.reuse = append(l.reuse, row)
}

func (l *ListView) dequeueReusable() *Row {
	if n := len(l.reuse); n > 0 {
		row := l.reuse[n-1]
		l.reuse = l.reuse[:n-1]
		return row
	}
	l.nextID++
	l.stats.RowsCreated++
	return &Row{id: l.nextID, index: -1}
}

func (l *ListView) configure(row *Row, index int) {
	post := l.posts[index]

	row.generation++
	row.index = index
	row.postID = post.ID
	row.title = post.Summary
	row.image = nil
	row.imageURL = ""

	url, ok := post.FirstPhotoURL()
	if !ok {
		return
	}
	row.imageURL = url
	l.stats.ImagesRequested++

	generation := row.generation
	go func() {
		img, err := l.source.Load(l.ctx, url)
		l.queue.Post(func() {
			l.applyImage(row, generation, img, err)
		})
	}()
}

func (l *ListView) applyImage(row *Row, generation uint64, img *images.Image, err error) {
	if row.generation != generation {
		l.stats.StaleImagesDiscarded++
		l.log.Debug().
			Int("row_id", row.id).
			Msg("Discarding image for a recycled row")
		return
	}
	if err != nil {
		l.stats.ImagesFailed++
		l.log.Debug().
			Err(err).
			Int("row_id", row.id).
			Int("index", row.index).
			Msg("Row image failed to load")
		return
	}
	row.image = img
	l.stats.ImagesApplied++
}
