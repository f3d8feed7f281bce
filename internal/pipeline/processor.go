package pipeline

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"github.com/mabeldev/invoice-extractor/internal/extract"
	"github.com/mabeldev/invoice-extractor/internal/llm"
	"github.com/mabeldev/invoice-extractor/internal/product"
)

// minTextLen is the floor below which acquired text is not worth sending to
// the model at all.
const minTextLen = 50

// Processor coordinates text acquisition then LLM extraction and normalization
// for one uploaded document. Stateless; safe for concurrent requests.
type Processor struct {
	Engine    *extract.Engine
	Completer llm.Completer
	Logger    *slog.Logger
}

// Result carries the outcome of one extraction run plus per-stage timings for
// the service boundary's metadata.
type Result struct {
	Products         []product.Record
	Pages            int
	UsedOptical      bool
	TextLength       int
	InsufficientText bool
	ExtractionTime   time.Duration
	LLMTime          time.Duration
}

func NewProcessor(engine *extract.Engine, completer llm.Completer, logger *slog.Logger) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{Engine: engine, Completer: completer, Logger: logger}
}

// Process runs the full pipeline. It never returns an error: every stage
// degrades to smaller or empty output, and the only failure surfaced is the
// absence of usable text, flagged via InsufficientText.
func (p *Processor) Process(ctx context.Context, pdfBytes []byte) Result {
	extractStart := time.Now()
	outcome := p.Engine.AcquireText(ctx, pdfBytes)
	extractionTime := time.Since(extractStart)

	res := Result{
		Pages:          outcome.Pages,
		UsedOptical:    outcome.UsedOptical,
		TextLength:     len(outcome.Text),
		ExtractionTime: extractionTime,
	}

	p.Logger.Info("processor.acquire.done",
		"pages", outcome.Pages,
		"used_optical", outcome.UsedOptical,
		"chars", len(outcome.Text),
		"elapsed_ms", extractionTime.Milliseconds(),
	)

	if len(strings.TrimSpace(outcome.Text)) < minTextLen {
		p.Logger.Warn("processor.acquire.insufficient_text", "chars", res.TextLength)
		res.InsufficientText = true
		res.Products = []product.Record{}
		return res
	}

	llmStart := time.Now()
	raw := p.complete(ctx, outcome.Text)
	res.Products = p.interpret(raw)
	res.LLMTime = time.Since(llmStart)

	p.Logger.Info("processor.parse.done",
		"products", len(res.Products),
		"elapsed_ms", res.LLMTime.Milliseconds(),
	)
	return res
}

// complete invokes the model; transport failure degrades to an empty response.
func (p *Processor) complete(ctx context.Context, text string) string {
	raw, err := p.Completer.Complete(ctx, llm.SystemPrompt, llm.BuildExtractionPrompt(text))
	if err != nil {
		p.Logger.Error("processor.llm.failed", "error", err)
		return ""
	}
	return raw
}

// interpret sanitizes, repairs, and normalizes an untrusted model response.
func (p *Processor) interpret(raw string) []product.Record {
	candidate := llm.SanitizeResponse(raw)
	if candidate == "" {
		p.Logger.Warn("processor.sanitize.no_array", "response_len", len(raw))
		return []product.Record{}
	}

	candidates := llm.ParseCandidates(candidate, p.Logger)
	records := product.Normalize(candidates)

	// Regression guard: the normalizer's hard validation should always satisfy
	// the product schema. Log-only.
	if b, err := json.Marshal(records); err == nil {
		if verr := llm.ValidateJSONAgainstSchema(llm.BuildProductJSONSchema(), b); verr != nil {
			p.Logger.Warn("processor.normalize.schema_mismatch", "error", verr)
		}
	}
	return records
}
