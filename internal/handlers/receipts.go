package handlers

import (
	"errors"
	"log"
	"math"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/grocertrack/grocertrack/internal/database"
	"github.com/grocertrack/grocertrack/internal/middleware"
	"github.com/grocertrack/grocertrack/internal/models"
)

const presignedURLExpiry = 15 * time.Minute

// CreateReceipt saves a reviewed scan draft or a manual entry. Item names
// run through the normalizer and categorizer, totals are re-derived from the
// items, and a price watch is created for every tracked item.
func (h *Handler) CreateReceipt(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	var req models.CreateReceiptRequest
	if err := c.BodyParser(&req); err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid request body")
	}
	if req.StoreName == "" {
		return Error(c, fiber.StatusBadRequest, "store_name is required")
	}
	for _, item := range req.Items {
		if item.Name == "" || item.TotalPrice < 0 {
			return Error(c, fiber.StatusBadRequest, "items need a name and a non-negative price")
		}
	}

	receiptDate := time.Now().UTC()
	if req.ReceiptDate != nil {
		receiptDate = *req.ReceiptDate
	}

	items := h.processItems(req.Items)
	subtotal, total := deriveTotals(items, req.Tax, req.Tip)

	receipt := &models.Receipt{
		UserID:        userID,
		StoreName:     req.StoreName,
		StoreAddress:  req.StoreAddress,
		ReceiptDate:   receiptDate,
		Subtotal:      subtotal,
		Tax:           req.Tax,
		Tip:           req.Tip,
		Total:         total,
		OCRMethod:     req.OCRMethod,
		OCRConfidence: req.OCRConfidence,
		ImageBucket:   req.ImageBucket,
		ImageKey:      req.ImageKey,
	}

	saved, err := h.db.CreateReceipt(c.Context(), receipt, items)
	if err != nil {
		return Error(c, fiber.StatusInternalServerError, "failed to save receipt")
	}

	h.refreshPriceWatches(c, userID, saved)

	return c.Status(fiber.StatusCreated).JSON(APIResponse{Success: true, Data: saved})
}

// ListReceipts returns the user's receipts, filterable by store and date
// range.
func (h *Handler) ListReceipts(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	params := models.ReceiptListParams{
		UserID: userID,
		Limit:  c.QueryInt("limit", 20),
		Offset: c.QueryInt("offset", 0),
	}
	if params.Limit < 1 || params.Limit > 100 {
		params.Limit = 20
	}
	if params.Offset < 0 {
		params.Offset = 0
	}
	if store := c.Query("store"); store != "" {
		params.StoreName = &store
	}
	if from := c.Query("from"); from != "" {
		t, err := time.Parse("2006-01-02", from)
		if err != nil {
			return Error(c, fiber.StatusBadRequest, "from must be YYYY-MM-DD")
		}
		params.From = &t
	}
	if to := c.Query("to"); to != "" {
		t, err := time.Parse("2006-01-02", to)
		if err != nil {
			return Error(c, fiber.StatusBadRequest, "to must be YYYY-MM-DD")
		}
		params.To = &t
	}

	receipts, total, err := h.db.ListReceipts(c.Context(), params)
	if err != nil {
		return Error(c, fiber.StatusInternalServerError, "failed to list receipts")
	}

	return SuccessWithMeta(c, receipts, total, params.Limit, params.Offset)
}

// GetReceipt returns one receipt with items and, when an image is stored, a
// presigned view URL.
func (h *Handler) GetReceipt(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	id, err := c.ParamsInt("id")
	if err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid receipt id")
	}

	receipt, err := h.db.GetReceipt(c.Context(), id, userID)
	if err != nil {
		if errors.Is(err, database.ErrReceiptNotFound) {
			return Error(c, fiber.StatusNotFound, "receipt not found")
		}
		return Error(c, fiber.StatusInternalServerError, "failed to load receipt")
	}

	if receipt.ImageKey != nil && h.storage != nil {
		url, err := h.storage.GetPresignedURL(c.Context(), *receipt.ImageKey, presignedURLExpiry)
		if err != nil {
			log.Printf("failed to presign receipt image %s: %v", *receipt.ImageKey, err)
		} else {
			receipt.ImageURL = &url
		}
	}

	return Success(c, receipt)
}

// UpdateReceipt edits a receipt. When items are submitted they replace the
// existing ones and go through normalization again; totals are always
// re-derived server-side.
func (h *Handler) UpdateReceipt(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	id, err := c.ParamsInt("id")
	if err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid receipt id")
	}

	var req models.UpdateReceiptRequest
	if err := c.BodyParser(&req); err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid request body")
	}

	existing, err := h.db.GetReceipt(c.Context(), id, userID)
	if err != nil {
		if errors.Is(err, database.ErrReceiptNotFound) {
			return Error(c, fiber.StatusNotFound, "receipt not found")
		}
		return Error(c, fiber.StatusInternalServerError, "failed to load receipt")
	}

	receipt := existing.Receipt
	if req.StoreName != nil {
		receipt.StoreName = *req.StoreName
	}
	if req.StoreAddress != nil {
		receipt.StoreAddress = req.StoreAddress
	}
	if req.ReceiptDate != nil {
		receipt.ReceiptDate = *req.ReceiptDate
	}
	if req.Tax != nil {
		receipt.Tax = *req.Tax
	}
	if req.Tip != nil {
		receipt.Tip = *req.Tip
	}

	var items []models.ReceiptItem
	if req.Items != nil {
		items = h.processItems(req.Items)
		receipt.Subtotal, receipt.Total = deriveTotals(items, receipt.Tax, receipt.Tip)
	} else {
		receipt.Subtotal, receipt.Total = deriveTotals(existing.Items, receipt.Tax, receipt.Tip)
	}

	saved, err := h.db.UpdateReceipt(c.Context(), &receipt, items)
	if err != nil {
		if errors.Is(err, database.ErrReceiptNotFound) {
			return Error(c, fiber.StatusNotFound, "receipt not found")
		}
		return Error(c, fiber.StatusInternalServerError, "failed to update receipt")
	}

	h.refreshPriceWatches(c, userID, saved)

	return Success(c, saved)
}

// SetItemPriceTrack toggles price tracking on one line item.
func (h *Handler) SetItemPriceTrack(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	itemID, err := c.ParamsInt("itemId")
	if err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid item id")
	}

	var req struct {
		PriceTrack bool `json:"price_track"`
	}
	if err := c.BodyParser(&req); err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid request body")
	}

	item, err := h.db.SetItemPriceTrack(c.Context(), itemID, userID, req.PriceTrack)
	if err != nil {
		if errors.Is(err, database.ErrReceiptNotFound) {
			return Error(c, fiber.StatusNotFound, "item not found")
		}
		return Error(c, fiber.StatusInternalServerError, "failed to update item")
	}

	if item.PriceTrack {
		receipt, err := h.db.GetReceipt(c.Context(), item.ReceiptID, userID)
		if err == nil {
			if _, err := h.db.UpsertPriceWatch(c.Context(), userID, *item, receipt.StoreName); err != nil {
				log.Printf("failed to upsert price watch for item %d: %v", item.ID, err)
			}
		}
	}

	return Success(c, item)
}

// DeleteReceipt removes a receipt, its items and its stored image.
func (h *Handler) DeleteReceipt(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	id, err := c.ParamsInt("id")
	if err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid receipt id")
	}

	imageKey, err := h.db.DeleteReceipt(c.Context(), id, userID)
	if err != nil {
		if errors.Is(err, database.ErrReceiptNotFound) {
			return Error(c, fiber.StatusNotFound, "receipt not found")
		}
		return Error(c, fiber.StatusInternalServerError, "failed to delete receipt")
	}

	if imageKey != nil && h.storage != nil {
		if err := h.storage.Delete(c.Context(), *imageKey); err != nil {
			log.Printf("failed to delete receipt image %s: %v", *imageKey, err)
		}
	}

	return Success(c, fiber.Map{"deleted": id})
}

// processItems normalizes and categorizes submitted line items.
func (h *Handler) processItems(inputs []models.ReceiptItemInput) []models.ReceiptItem {
	items := make([]models.ReceiptItem, 0, len(inputs))
	for _, input := range inputs {
		quantity := input.Quantity
		if quantity < 1 {
			quantity = 1
		}
		normalized := h.normalizer.Normalize(input.Name)
		match := h.categorizer.Categorize(normalized)
		items = append(items, models.ReceiptItem{
			Name:           input.Name,
			NormalizedName: normalized,
			Category:       match.Category,
			TotalPrice:     roundCents(input.TotalPrice),
			Quantity:       quantity,
			PriceTrack:     input.PriceTrack,
		})
	}
	return items
}

// refreshPriceWatches upserts a watch for every tracked item on the saved
// receipt. Watch failures are logged, never surfaced; the receipt is already
// saved.
func (h *Handler) refreshPriceWatches(c *fiber.Ctx, userID int, receipt *models.ReceiptWithItems) {
	for _, item := range receipt.Items {
		if !item.PriceTrack {
			continue
		}
		if _, err := h.db.UpsertPriceWatch(c.Context(), userID, item, receipt.StoreName); err != nil {
			log.Printf("failed to upsert price watch for item %d: %v", item.ID, err)
		}
	}
}

func deriveTotals(items []models.ReceiptItem, tax, tip float64) (subtotal, total float64) {
	for _, item := range items {
		subtotal += item.TotalPrice
	}
	subtotal = roundCents(subtotal)
	total = roundCents(subtotal + tax + tip)
	return subtotal, total
}

func roundCents(value float64) float64 {
	return math.Round(value*100) / 100
}
