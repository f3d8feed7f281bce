package extract

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
)

// OpticalConfig configures the rasterize-then-recognize fallback.
type OpticalConfig struct {
	Pdftoppm  string // binary name or absolute path; if empty -> "pdftoppm"
	Tesseract string // binary name or absolute path; if empty -> "tesseract"
	Languages string // tesseract -l argument, default "fra+eng"
	DPI       int    // rasterization DPI, default 300
	MaxPages  int    // 0 = no limit
}

// TesseractReader implements OpticalReader with pdftoppm + tesseract.
type TesseractReader struct {
	cfg    OpticalConfig
	runner Runner
	logger *slog.Logger
}

func NewTesseractReader(cfg OpticalConfig, logger *slog.Logger) *TesseractReader {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Pdftoppm == "" {
		cfg.Pdftoppm = "pdftoppm"
	}
	if cfg.Tesseract == "" {
		cfg.Tesseract = "tesseract"
	}
	if cfg.Languages == "" {
		cfg.Languages = "fra+eng"
	}
	if cfg.DPI <= 0 {
		cfg.DPI = 300
	}
	return &TesseractReader{cfg: cfg, runner: execRunner{}, logger: logger}
}

// WithRunner swaps the command runner; used by tests.
func (r *TesseractReader) WithRunner(runner Runner) *TesseractReader {
	r.runner = runner
	return r
}

// Available reports whether both external tools can be resolved.
func (r *TesseractReader) Available() bool {
	if err := r.runner.LookPath(r.cfg.Pdftoppm); err != nil {
		return false
	}
	if err := r.runner.LookPath(r.cfg.Tesseract); err != nil {
		return false
	}
	return true
}

// ExtractPages rasterizes the document and runs recognition per page,
// preserving page order. A page whose recognition fails contributes an empty
// string rather than aborting the document.
func (r *TesseractReader) ExtractPages(ctx context.Context, data []byte) ([]string, error) {
	tmpDir, err := os.MkdirTemp("", "inv-ocr-*")
	if err != nil {
		return nil, err
	}
	defer func(path string) {
		if rerr := os.RemoveAll(path); rerr != nil {
			r.logger.Warn("failed to remove temp dir", "path", path, "error", rerr)
		}
	}(tmpDir)

	in := filepath.Join(tmpDir, "doc.pdf")
	if err := os.WriteFile(in, data, 0o600); err != nil {
		return nil, err
	}

	prefix := filepath.Join(tmpDir, "page")
	// pdftoppm -r 300 -png <in.pdf> <tmp/page>
	_, errb, err := r.runner.Run(ctx, r.cfg.Pdftoppm, "-r", fmt.Sprintf("%d", r.cfg.DPI), "-png", in, prefix)
	if err != nil {
		return nil, fmt.Errorf("pdftoppm: %w (%s)", err, truncate(string(errb), 512))
	}

	// collect generated pngs (prefix-1.png, prefix-2.png, ...)
	matches, _ := filepath.Glob(prefix + "-*.png")
	sort.Strings(matches)
	if r.cfg.MaxPages > 0 && len(matches) > r.cfg.MaxPages {
		matches = matches[:r.cfg.MaxPages]
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("pdftoppm produced no images")
	}

	pages := make([]string, 0, len(matches))
	for i, img := range matches {
		r.logger.Debug("ocr page", "page", i+1, "of", len(matches))
		// tesseract <file> stdout -l <lang>
		out, errb, err := r.runner.Run(ctx, r.cfg.Tesseract, img, "stdout", "-l", r.cfg.Languages)
		if err != nil {
			r.logger.Warn("tesseract failed on page", "page", i+1, "error", err, "stderr", truncate(string(errb), 512))
			pages = append(pages, "")
			continue
		}
		pages = append(pages, string(out))
	}
	return pages, nil
}
