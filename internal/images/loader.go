package images

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"net/url"
	"time"

	"github.com/bilgisen/tumblrfeed/internal/logger"
	"github.com/go-resty/resty/v2"
	_ "golang.org/x/image/webp"
)

// Image is a fetched and header-checked photo.
type Image struct {
	URL    string
	Data   []byte
	Format string
	Width  int
	Height int
}

// ContentType returns the MIME type matching the decoded format.
func (img *Image) ContentType() string {
	return "image/" + img.Format
}

// ImageLoadError wraps every failure to fetch or recognise a row image.
type ImageLoadError struct {
	URL string
	Err error
}

func (e *ImageLoadError) Error() string {
	return fmt.Sprintf("load image %s: %v", e.URL, e.Err)
}

func (e *ImageLoadError) Unwrap() error { return e.Err }

type Loader struct {
	client   *resty.Client
	maxBytes int64
}

func NewLoader(timeout time.Duration, maxBytes int64) *Loader {
	return &Loader{
		client: resty.New().
			SetTimeout(timeout).
			SetRetryCount(0).
			SetLogger(logger.NewRestyLogger(logger.Component("images"))),
		maxBytes: maxBytes,
	}
}

// Load downloads the image at rawURL and checks that it decodes.
func (l *Loader) Load(ctx context.Context, rawURL string) (*Image, error) {
	u, err := url.Parse(rawURL)
	if err != nil || !u.IsAbs() || u.Host == "" {
		return nil, &ImageLoadError{URL: rawURL, Err: errors.New("invalid url")}
	}

	resp, err := l.client.R().
		SetContext(ctx).
		Get(u.String())
	if err != nil {
		return nil, &ImageLoadError{URL: rawURL, Err: err}
	}

	if code := resp.StatusCode(); code < 200 || code > 299 {
		return nil, &ImageLoadError{URL: rawURL, Err: fmt.Errorf("unexpected status code %d", code)}
	}

	data := resp.Body()
	switch {
	case len(data) == 0:
		return nil, &ImageLoadError{URL: rawURL, Err: errors.New("empty body")}
	case l.maxBytes > 0 && int64(len(data)) > l.maxBytes:
		return nil, &ImageLoadError{URL: rawURL, Err: fmt.Errorf("image exceeds %d bytes", l.maxBytes)}
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, &ImageLoadError{URL: rawURL, Err: fmt.Errorf("decode image: %w", err)}
	}

	return &Image{
		URL:    rawURL,
		Data:   data,
		Format: format,
		Width:  cfg.Width,
		Height: cfg.Height,
	}, nil
}
