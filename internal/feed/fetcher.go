package feed

import (
	"context"
	"errors"
	"net/url"
	"time"

	"github.com/bilgisen/tumblrfeed/internal/logger"
	"github.com/bilgisen/tumblrfeed/internal/models"
	"github.com/go-resty/resty/v2"
)

const postsPath = "/blog/{blog}/posts/photo"

// Source identifies the blog to read. It is fixed for the lifetime of a Fetcher.
type Source struct {
	APIBaseURL     string
	BlogIdentifier string
	APIKey         string
}

type Fetcher struct {
	client *resty.Client
	source Source
}

func NewFetcher(source Source, timeout time.Duration) *Fetcher {
	return &Fetcher{
		client: resty.New().
			SetBaseURL(source.APIBaseURL).
			SetTimeout(timeout).
			SetRetryCount(0).
			SetLogger(logger.NewRestyLogger(logger.Component("feed"))),
		source: source,
	}
}

// Source returns the blog this fetcher reads.
func (f *Fetcher) Source() Source {
	return f.source
}

// FetchPosts retrieves the first page of photo posts in source order.
func (f *Fetcher) FetchPosts(ctx context.Context) ([]models.Post, error) {
	resp, err := f.client.R().
		SetContext(ctx).
		SetPathParam("blog", f.source.BlogIdentifier).
		SetQueryParam("api_key", f.source.APIKey).
		Get(postsPath)
	if err != nil {
		return nil, &NetworkError{Op: "fetch posts", Err: redactURL(err)}
	}

	if code := resp.StatusCode(); code < 200 || code > 299 {
		return nil, &HTTPStatusError{StatusCode: code}
	}

	blog, err := DecodeBlogResponse(resp.Body())
	if err != nil {
		return nil, err
	}

	return blog.Response.Posts, nil
}

// FetchPostsAsync runs FetchPosts on its own goroutine and reports the
// outcome to done from that goroutine.
func (f *Fetcher) FetchPostsAsync(ctx context.Context, done func([]models.Post, error)) {
	go func() {
		posts, err := f.FetchPosts(ctx)
		done(posts, err)
	}()
}

// redactURL drops the request URL (which carries the api key) from transport errors.
func redactURL(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return urlErr.Err
	}
	return err
}
