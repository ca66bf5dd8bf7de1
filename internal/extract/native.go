package extract

import (
	"context"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/rotisserie/eris"
)

// Native extracts text in-process with ledongthuc/pdf, concatenating
// per-page text in document order. No external binary required.
type Native struct{}

// NewNative creates a Native extractor.
func NewNative() *Native {
	return &Native{}
}

func (n *Native) ExtractText(ctx context.Context, pdfPath string) (string, error) {
	f, reader, err := pdf.Open(pdfPath)
	if err != nil {
		return "", eris.Wrapf(err, "extract: open %s", pdfPath)
	}
	defer f.Close()

	var b strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		if err := ctx.Err(); err != nil {
			return "", eris.Wrap(err, "extract: canceled")
		}
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return "", eris.Wrapf(err, "extract: page %d of %s", i, pdfPath)
		}
		b.WriteString(text)
	}

	return b.String(), nil
}
