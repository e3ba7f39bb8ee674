package printing

import (
	"context"
	"strings"
	"time"
)

// PaperSize names a supported output page format
type PaperSize string

const (
	PaperSizeA4     PaperSize = "A4"
	PaperSizeA5     PaperSize = "A5"
	PaperSizeLetter PaperSize = "LETTER"
	PaperSizeLegal  PaperSize = "LEGAL"
)

var paperDimensionsMM = map[PaperSize][2]float64{
	PaperSizeA4:     {210, 297},
	PaperSizeA5:     {148, 210},
	PaperSizeLetter: {215.9, 279.4},
	PaperSizeLegal:  {215.9, 355.6},
}

// ParsePaperSize accepts any casing; an empty value means A4.
func ParsePaperSize(s string) (PaperSize, bool) {
	if strings.TrimSpace(s) == "" {
		return PaperSizeA4, true
	}
	p := PaperSize(strings.ToUpper(strings.TrimSpace(s)))
	_, ok := paperDimensionsMM[p]
	return p, ok
}

// IsValid reports whether the paper size is supported
func (p PaperSize) IsValid() bool {
	_, ok := paperDimensionsMM[p]
	return ok
}

// Dimensions returns width and height in millimeters
func (p PaperSize) Dimensions() (width, height float64) {
	d := paperDimensionsMM[p]
	return d[0], d[1]
}

// RenderRequest contains the parameters for rendering HTML to PDF
type RenderRequest struct {
	HTML      string
	Title     string
	PaperSize PaperSize
	// MarginMM is applied on all four sides
	MarginMM float64
	// Timeout overrides the renderer default
	Timeout time.Duration
}

// RenderResult contains the output from PDF rendering
type RenderResult struct {
	PDFData        []byte
	PageCount      int
	RenderDuration time.Duration
}

// PDFRenderer converts HTML documents to PDF
type PDFRenderer interface {
	Render(ctx context.Context, req *RenderRequest) (*RenderResult, error)
	Close() error
}

// RenderError represents an error during document rendering
type RenderError struct {
	Code    string
	Message string
	Cause   error
}

func (e *RenderError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *RenderError) Unwrap() error {
	return e.Cause
}

// Error codes for rendering failures
const (
	ErrCodeRenderTimeout    = "RENDER_TIMEOUT"
	ErrCodeRenderFailed     = "RENDER_FAILED"
	ErrCodeInvalidHTML      = "INVALID_HTML"
	ErrCodeInvalidPaperSize = "INVALID_PAPER_SIZE"
)

// NewRenderError creates a new RenderError
func NewRenderError(code, message string, cause error) *RenderError {
	return &RenderError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// estimatePageCount counts page objects in a PDF byte stream
func estimatePageCount(pdf []byte) int {
	s := string(pdf)
	count := strings.Count(s, "/Type /Page") - strings.Count(s, "/Type /Pages")
	count += strings.Count(s, "/Type/Page") - strings.Count(s, "/Type/Pages")
	if count < 1 {
		return 1
	}
	return count
}
