package md2pdf

import "errors"

// Sentinel errors for library operations.
var (
	ErrHTMLConversion  = errors.New("HTML conversion failed")
	ErrPDFGeneration   = errors.New("PDF generation failed")
	ErrBrowserConnect  = errors.New("failed to connect to browser")
	ErrPageCreate      = errors.New("failed to create browser page")
	ErrPageLoad        = errors.New("failed to load page")
	ErrBrowserNotFound = errors.New("no Chrome or Chromium browser found")
	ErrInvalidEngine   = errors.New("invalid rendering engine")
	ErrStyleLoad       = errors.New("failed to load stylesheet")
)
