//go:build !cgo || windows

package services

import (
	"errors"

	"github.com/grocertrack/grocertrack/internal/scan"
)

// OCRService is a stub on Windows; gosseract needs a native tesseract
// install, so the upload path runs in the Docker container instead.
type OCRService struct{}

// NewOCRService creates a new OCR service (not available on Windows)
func NewOCRService() (*OCRService, error) {
	return nil, errors.New("OCR service is not available on Windows - run in Docker container")
}

// RecognizeImage runs OCR on raw image bytes
func (s *OCRService) RecognizeImage(imageBytes []byte) ([]scan.RecognizedBlock, error) {
	return nil, errors.New("OCR service is not available on Windows")
}

// RecognizeImageFromPath runs OCR on an image file
func (s *OCRService) RecognizeImageFromPath(imagePath string) ([]scan.RecognizedBlock, error) {
	return nil, errors.New("OCR service is not available on Windows")
}

// Close releases OCR resources
func (s *OCRService) Close() error {
	return nil
}
