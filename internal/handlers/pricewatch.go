package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/grocertrack/grocertrack/internal/database"
	"github.com/grocertrack/grocertrack/internal/middleware"
)

// ListPriceWatches returns the user's active price watches.
func (h *Handler) ListPriceWatches(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	watches, err := h.db.ListPriceWatches(c.Context(), userID)
	if err != nil {
		return Error(c, fiber.StatusInternalServerError, "failed to list price watches")
	}

	return Success(c, watches)
}

// DeactivatePriceWatch turns off one watch.
func (h *Handler) DeactivatePriceWatch(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	id, err := c.ParamsInt("id")
	if err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid price watch id")
	}

	if err := h.db.DeactivatePriceWatch(c.Context(), id, userID); err != nil {
		if errors.Is(err, database.ErrPriceWatchNotFound) {
			return Error(c, fiber.StatusNotFound, "price watch not found")
		}
		return Error(c, fiber.StatusInternalServerError, "failed to deactivate price watch")
	}

	return Success(c, fiber.Map{"deactivated": id})
}
