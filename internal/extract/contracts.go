package extract

import "context"

// PageExtractor is the structured path: PDF bytes -> per-page text.
// Implementations return an error on malformed or unreadable input.
type PageExtractor interface {
	ExtractPages(ctx context.Context, data []byte) ([]string, error)
}

// OpticalReader is the fallback path: rasterize pages, then recognize each one.
// The capability may be absent at runtime; callers must check Available before
// invoking ExtractPages.
type OpticalReader interface {
	Available() bool
	ExtractPages(ctx context.Context, data []byte) ([]string, error)
}

// Outcome is the result of text acquisition for one document.
type Outcome struct {
	Text        string
	Pages       int
	UsedOptical bool
}
