package api

import (
	"context"
	"errors"
	"time"

	"github.com/bilgisen/tumblrfeed/internal/images"
	"github.com/bilgisen/tumblrfeed/internal/middleware"
	"github.com/bilgisen/tumblrfeed/internal/ui"
	"github.com/gofiber/fiber/v2"
)

// FeedScreen is the screen surface the handlers drive.
type FeedScreen interface {
	Refresh() bool
	Snapshot(ctx context.Context) (ui.Snapshot, error)
	Scroll(ctx context.Context, first, count int) (ui.Snapshot, error)
	RowImage(ctx context.Context, index int) (*images.Image, error)
}

// ScrollRequest is the query of POST /api/v1/feed/scroll
type ScrollRequest struct {
	First int `query:"first" validate:"min=0"`
	Count int `query:"count" validate:"required,min=1,max=50"`
}

type Handlers struct {
	screen FeedScreen
	blog   string
}

func NewHandlers(screen FeedScreen, blog string) *Handlers {
	return &Handlers{screen: screen, blog: blog}
}

// HealthCheck handles the /health endpoint
func (h *Handlers) HealthCheck(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "ok",
		"blog":   h.blog,
		"time":   time.Now().Format(time.RFC3339),
	})
}

// GetFeed handles GET /api/v1/feed
func (h *Handlers) GetFeed(c *fiber.Ctx) error {
	snap, err := h.screen.Snapshot(c.UserContext())
	if err != nil {
		return screenError(err)
	}
	return c.JSON(snap)
}

// RefreshFeed handles POST /api/v1/feed/refresh (pull-to-refresh)
func (h *Handlers) RefreshFeed(c *fiber.Ctx) error {
	if !h.screen.Refresh() {
		return fiber.NewError(fiber.StatusServiceUnavailable, "screen is shutting down")
	}
	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"status":  "refreshing",
		"message": ui.RefreshTitle,
	})
}

// ScrollFeed handles POST /api/v1/feed/scroll
func (h *Handlers) ScrollFeed(c *fiber.Ctx) error {
	req, ok := c.Locals(middleware.QueryKey).(*ScrollRequest)
	if !ok {
		return fiber.NewError(fiber.StatusBadRequest, "missing scroll parameters")
	}

	snap, err := h.screen.Scroll(c.UserContext(), req.First, req.Count)
	if err != nil {
		return screenError(err)
	}
	return c.JSON(snap)
}

// GetRowImage handles GET /api/v1/feed/rows/:index/image
func (h *Handlers) GetRowImage(c *fiber.Ctx) error {
	index, err := c.ParamsInt("index")
	if err != nil || index < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Row index must be a non-negative integer",
		})
	}

	img, err := h.screen.RowImage(c.UserContext(), index)
	switch {
	case errors.Is(err, ui.ErrRowNotVisible), errors.Is(err, ui.ErrNoImage):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": err.Error(),
		})
	case err != nil:
		return screenError(err)
	}

	c.Set(fiber.HeaderContentType, img.ContentType())
	c.Set(fiber.HeaderCacheControl, "no-store")
	return c.Send(img.Data)
}

func screenError(err error) error {
	if errors.Is(err, ui.ErrQueueClosed) {
		return fiber.NewError(fiber.StatusServiceUnavailable, "screen is shutting down")
	}
	return err
}
