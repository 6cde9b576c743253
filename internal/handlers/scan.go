package handlers

import (
	"bytes"
	"io"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/grocertrack/grocertrack/internal/middleware"
	"github.com/grocertrack/grocertrack/internal/scan"
	"github.com/grocertrack/grocertrack/internal/services"
)

const maxReceiptImageBytes = 10 << 20

// ParseScan turns recognized text blocks from the device recognizer into a
// receipt draft for review. Parsing never fails; an unusable scan comes back
// as the error-sentinel draft and an empty one with zero items, both of
// which the client answers with the manual-entry screen.
func (h *Handler) ParseScan(c *fiber.Ctx) error {
	var req struct {
		Blocks []scan.RecognizedBlock `json:"blocks"`
	}
	if err := c.BodyParser(&req); err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid request body")
	}

	draft := h.parser.Parse(req.Blocks)
	return Success(c, draft)
}

// UploadScan accepts a multipart receipt image, stores it, runs server-side
// OCR and returns the parsed draft together with the image reference so the
// client can attach it when the receipt is saved.
func (h *Handler) UploadScan(c *fiber.Ctx) error {
	if h.storage == nil || h.ocr == nil {
		return Error(c, fiber.StatusServiceUnavailable, "image upload is not available")
	}

	userID := middleware.GetUserID(c)

	fileHeader, err := c.FormFile("image")
	if err != nil {
		return Error(c, fiber.StatusBadRequest, "image file is required")
	}
	if fileHeader.Size > maxReceiptImageBytes {
		return Error(c, fiber.StatusRequestEntityTooLarge, "image exceeds 10MB limit")
	}
	contentType := fileHeader.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		return Error(c, fiber.StatusBadRequest, "file must be an image")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return Error(c, fiber.StatusInternalServerError, "failed to read upload")
	}
	defer file.Close()

	imageBytes, err := io.ReadAll(file)
	if err != nil {
		return Error(c, fiber.StatusInternalServerError, "failed to read upload")
	}

	key := services.ReceiptImageKey(userID, fileHeader.Filename)
	upload, err := h.storage.Upload(c.Context(), key, bytes.NewReader(imageBytes), int64(len(imageBytes)), contentType)
	if err != nil {
		return Error(c, fiber.StatusInternalServerError, "failed to store image")
	}

	// Tesseract output carries no geometry, so the draft always comes
	// from the sequential strategy here.
	blocks, err := h.ocr.RecognizeImage(imageBytes)
	if err != nil {
		return Error(c, fiber.StatusInternalServerError, "failed to read text from image")
	}

	draft := h.parser.Parse(blocks)

	return Success(c, fiber.Map{
		"draft":        draft,
		"image_bucket": upload.Bucket,
		"image_key":    upload.Key,
	})
}
