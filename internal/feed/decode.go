package feed

import (
	"encoding/json"
	"errors"

	"github.com/bilgisen/tumblrfeed/internal/models"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// DecodeBlogResponse parses a posts payload. A document without
// response.posts is rejected even when it is valid JSON.
func DecodeBlogResponse(body []byte) (*models.BlogResponse, error) {
	if len(body) == 0 {
		return nil, ErrEmptyBody
	}

	var blog models.BlogResponse
	if err := json.Unmarshal(body, &blog); err != nil {
		return nil, &DecodeError{Err: err}
	}

	if err := validate.Struct(&blog); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return nil, &DecodeError{Err: errors.New("missing required field " + verrs[0].Namespace())}
		}
		return nil, &DecodeError{Err: err}
	}

	return &blog, nil
}
