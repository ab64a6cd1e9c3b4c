package library

import (
	"errors"
	"time"

	"github.com/pombreda/soundforest/core/logger"
	"github.com/pombreda/soundforest/core/store"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for the library.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the library routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	app.Get("/trees", h.HandleListTrees)
	app.Get("/trees/:id/tracks", h.HandleListTracks)
	app.Get("/trees/:id/changes", h.HandleListChanges)
	app.Get("/tracks/:id/tags", h.HandleTrackTags)
}

// HandleListTrees returns all registered trees.
func (h *Handler) HandleListTrees(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	trees, err := h.service.Trees()
	if err != nil {
		l.Error("Tree listing failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(trees)
}

// HandleListTracks returns a tree's tracks. Soft-deleted tracks are
// included when ?removed=true.
func (h *Handler) HandleListTracks(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	treeID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "tree id must be numeric",
		})
	}

	tracks, err := h.service.Tracks(uint(treeID), c.QueryBool("removed"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "tree not found",
			})
		}
		l.Error("Track listing failed", zap.Int("tree", treeID), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(tracks)
}

// HandleListChanges returns a tree's change log entries recorded strictly
// after ?since=<RFC3339>. Without the parameter the whole log is returned.
func (h *Handler) HandleListChanges(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	treeID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "tree id must be numeric",
		})
	}

	var since time.Time
	if raw := c.Query("since"); raw != "" {
		since, err = time.Parse(time.RFC3339, raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "since must be RFC3339",
			})
		}
	}

	changes, err := h.service.ChangesSince(uint(treeID), since)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "tree not found",
			})
		}
		l.Error("Change listing failed", zap.Int("tree", treeID), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(changes)
}

// HandleTrackTags returns a track's tags grouped by source.
func (h *Handler) HandleTrackTags(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	trackID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "track id must be numeric",
		})
	}

	bySource, err := h.service.TrackTags(uint(trackID))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "track not found",
			})
		}
		l.Error("Tag lookup failed", zap.Int("track", trackID), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(bySource)
}
