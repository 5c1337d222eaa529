package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// PostID is the blog's post identifier. The API sends it either as a
// number or as a string; both are kept as their decimal text.
type PostID string

// UnmarshalJSON accepts a JSON number, a JSON string or null.
func (id *PostID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = PostID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("post id must be a number or string: %w", err)
	}
	*id = PostID(n.String())
	return nil
}

// PhotoSize is one rendition of a photo.
type PhotoSize struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// Photo carries the original-size rendition; alternate sizes are ignored.
type Photo struct {
	OriginalSize PhotoSize `json:"original_size"`
}

// Post represents one photo post of the blog
type Post struct {
	ID        PostID  `json:"id"`
	Type      string  `json:"type,omitempty"`
	PostURL   string  `json:"post_url,omitempty"`
	Timestamp int64   `json:"timestamp,omitempty"`
	Summary   string  `json:"summary"`
	Photos    []Photo `json:"photos"`
}

// FirstPhotoURL returns the original-size URL of the first photo, if any.
func (p Post) FirstPhotoURL() (string, bool) {
	if len(p.Photos) == 0 {
		return "", false
	}
	return p.Photos[0].OriginalSize.URL, true
}
