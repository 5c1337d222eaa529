package models

// Meta is the status envelope the API sends next to every response
type Meta struct {
	Status int    `json:"status"`
	Msg    string `json:"msg"`
}

// BlogBody holds the posts page
type BlogBody struct {
	Posts []Post `json:"posts" validate:"required"`
}

// BlogResponse matches the top-level JSON of the posts endpoint
type BlogResponse struct {
	Meta     *Meta     `json:"meta,omitempty"`
	Response *BlogBody `json:"response" validate:"required"`
}
