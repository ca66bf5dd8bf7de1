package extract

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/mineworks/paperminer/internal/config"
)

// Extractor extracts plain text content from PDF files.
type Extractor interface {
	ExtractText(ctx context.Context, pdfPath string) (string, error)
}

// NewExtractor creates an Extractor based on config.
func NewExtractor(cfg config.ExtractConfig) (Extractor, error) {
	switch cfg.Provider {
	case "native", "":
		return NewNative(), nil
	case "pdftotext":
		return NewPdfToText(cfg.PdfToTextPath), nil
	default:
		return nil, eris.Errorf("extract: unknown provider %q", cfg.Provider)
	}
}
