package server

import (
	"io"
	"net/http"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mabeldev/invoice-extractor/constants"
)

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{Status: "healthy", Version: Version})
}

// handleExtract accepts a PDF upload and returns the extracted products.
// Invalid uploads are rejected with 400; pipeline-level failures are reported
// as success=false with diagnostic metadata, never as HTTP errors.
func (s *Server) handleExtract(c *gin.Context) {
	start := time.Now()

	fh, err := c.FormFile("pdf")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "missing 'pdf' file field"})
		return
	}
	if fh.Filename == "" {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "No filename provided"})
		return
	}
	if !constants.IsAllowedExt(filepath.Ext(fh.Filename)) {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "File must be a PDF"})
		return
	}
	if fh.Size == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Empty PDF file"})
		return
	}
	if fh.Size > constants.MaxUploadBytes {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "PDF too large (max 50MB)"})
		return
	}

	s.logger.Info("extract.request", "filename", fh.Filename, "size", fh.Size)

	f, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "failed to read upload"})
		return
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			s.logger.Warn("extract.upload_close_error", "error", cerr)
		}
	}()

	pdfBytes, err := io.ReadAll(io.LimitReader(f, constants.MaxUploadBytes+1))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "failed to read upload"})
		return
	}
	if len(pdfBytes) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Empty PDF file"})
		return
	}
	if len(pdfBytes) > constants.MaxUploadBytes {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "PDF too large (max 50MB)"})
		return
	}

	res := s.proc.Process(c.Request.Context(), pdfBytes)
	totalTime := time.Since(start)

	if res.InsufficientText {
		c.JSON(http.StatusOK, ExtractionResponse{
			Success:  false,
			Products: res.Products,
			Metadata: map[string]any{
				"error":            "Could not extract text from PDF",
				"pages":            res.Pages,
				"usedOcr":          res.UsedOptical,
				"extractionTimeMs": res.ExtractionTime.Milliseconds(),
			},
		})
		return
	}

	s.logger.Info("extract.done",
		"filename", fh.Filename,
		"products", len(res.Products),
		"total_ms", totalTime.Milliseconds(),
	)

	c.JSON(http.StatusOK, ExtractionResponse{
		Success:  true,
		Products: res.Products,
		Metadata: map[string]any{
			"pages":            res.Pages,
			"usedOcr":          res.UsedOptical,
			"productsFound":    len(res.Products),
			"textLength":       res.TextLength,
			"extractionTimeMs": res.ExtractionTime.Milliseconds(),
			"llmTimeMs":        res.LLMTime.Milliseconds(),
			"totalTimeMs":      totalTime.Milliseconds(),
		},
	})
}
