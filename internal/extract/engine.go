package extract

import (
	"context"
	"log/slog"
	"strings"
)

const pageSeparator = "\n\n"

// Engine acquires document text via structured extraction with a quality-gated
// optical fallback. The optical capability may be nil when not provisioned.
type Engine struct {
	structured PageExtractor
	optical    OpticalReader
	logger     *slog.Logger
}

func NewEngine(structured PageExtractor, optical OpticalReader, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{structured: structured, optical: optical, logger: logger}
}

// AcquireText never returns an error: absence of usable text is signaled by an
// empty Text field. Pages is always >= 1 when nothing better is known.
func (e *Engine) AcquireText(ctx context.Context, data []byte) Outcome {
	pageCount := 0

	pages, err := e.structured.ExtractPages(ctx, data)
	if err == nil {
		pageCount = len(pages)
		text := strings.Join(pages, pageSeparator)
		if IsMeaningful(text) {
			e.logger.Info("extract.structured.ok", "pages", pageCount, "chars", len(text))
			return Outcome{Text: text, Pages: atLeastOne(pageCount), UsedOptical: false}
		}
		e.logger.Info("extract.structured.insufficient", "pages", pageCount, "chars", len(text))
	} else {
		e.logger.Warn("extract.structured.failed", "error", err)
	}

	return e.opticalFallback(ctx, data, pageCount)
}

func (e *Engine) opticalFallback(ctx context.Context, data []byte, knownPages int) Outcome {
	if e.optical == nil || !e.optical.Available() {
		e.logger.Error("extract.optical.unavailable")
		return Outcome{Text: "", Pages: atLeastOne(knownPages), UsedOptical: false}
	}

	pages, err := e.optical.ExtractPages(ctx, data)
	if err != nil {
		e.logger.Error("extract.optical.failed", "error", err)
		return Outcome{Text: "", Pages: atLeastOne(knownPages), UsedOptical: true}
	}

	text := strings.Join(pages, pageSeparator)
	e.logger.Info("extract.optical.ok", "pages", len(pages), "chars", len(text))
	return Outcome{Text: text, Pages: atLeastOne(len(pages)), UsedOptical: true}
}

func atLeastOne(n int) int {
	if n < 1 {
		return 1
	}
	return n
}
