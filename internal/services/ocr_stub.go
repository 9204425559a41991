//go:build windows || !cgo

package services

import (
	"errors"
)

var errOCRUnavailable = errors.New("OCR service is not available on Windows - run in Docker container")

// OCRService handles optical character recognition (stub for Windows)
type OCRService struct{}

// NewOCRService creates a new OCR service (not available on Windows)
func NewOCRService() (*OCRService, error) {
	return nil, errOCRUnavailable
}

// ProcessImage processes an image from bytes and returns extracted text
func (s *OCRService) ProcessImage(imageBytes []byte) (*OCRResult, error) {
	return nil, errOCRUnavailable
}

// Close releases OCR resources
func (s *OCRService) Close() error {
	return nil
}
