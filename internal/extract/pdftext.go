package extract

import (
	"bytes"
	"context"
	"fmt"

	"github.com/ledongthuc/pdf"
)

// PDFTextExtractor reads embedded text page by page from PDF bytes.
type PDFTextExtractor struct{}

func NewPDFTextExtractor() *PDFTextExtractor {
	return &PDFTextExtractor{}
}

// ExtractPages returns one string per page, in page order. Pages whose text
// extraction fails yield an empty string; a document that cannot be opened at
// all returns an error.
func (e *PDFTextExtractor) ExtractPages(_ context.Context, data []byte) (pages []string, err error) {
	// The pdf package panics on some malformed inputs; fold that into an error.
	defer func() {
		if r := recover(); r != nil {
			pages, err = nil, fmt.Errorf("pdf read panic: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}

	total := reader.NumPage()
	pages = make([]string, 0, total)
	for i := 1; i <= total; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			pages = append(pages, "")
			continue
		}
		text, terr := page.GetPlainText(nil)
		if terr != nil {
			pages = append(pages, "")
			continue
		}
		pages = append(pages, text)
	}
	return pages, nil
}
