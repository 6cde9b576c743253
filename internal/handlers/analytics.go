package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/grocertrack/grocertrack/internal/middleware"
)

// GetSpendingSummary returns monthly spending totals, defaulting to the
// last 6 months.
func (h *Handler) GetSpendingSummary(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	months := c.QueryInt("months", 6)
	if months < 1 || months > 36 {
		months = 6
	}

	summary, err := h.db.GetSpendingSummary(c.Context(), userID, months)
	if err != nil {
		return Error(c, fiber.StatusInternalServerError, "failed to load spending summary")
	}

	return Success(c, summary)
}

// GetCategoryBreakdown returns spending grouped by item category.
func (h *Handler) GetCategoryBreakdown(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	months := c.QueryInt("months", 6)
	if months < 1 || months > 36 {
		months = 6
	}

	categories, err := h.db.GetCategoryBreakdown(c.Context(), userID, months)
	if err != nil {
		return Error(c, fiber.StatusInternalServerError, "failed to load category breakdown")
	}

	return Success(c, categories)
}

// GetTopStores returns the user's stores ranked by total spend.
func (h *Handler) GetTopStores(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	limit := c.QueryInt("limit", 5)
	if limit < 1 || limit > 50 {
		limit = 5
	}

	stores, err := h.db.GetTopStores(c.Context(), userID, limit)
	if err != nil {
		return Error(c, fiber.StatusInternalServerError, "failed to load top stores")
	}

	return Success(c, stores)
}
