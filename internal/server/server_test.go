package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mabeldev/invoice-extractor/internal/common"
	"github.com/mabeldev/invoice-extractor/internal/extract"
	"github.com/mabeldev/invoice-extractor/internal/pipeline"
)

type stubStructured struct {
	pages []string
	err   error
}

func (s *stubStructured) ExtractPages(_ context.Context, _ []byte) ([]string, error) {
	return s.pages, s.err
}

type stubCompleter struct {
	response string
	err      error
}

func (s *stubCompleter) Complete(_ context.Context, _, _ string) (string, error) {
	return s.response, s.err
}

const invoiceText = "FACTURE 2024-0042 Atelier Dupont " +
	"Chaise de bureau ergonomique noire ref 234964 quantite 2 Total TTC 199,80 EUR " +
	"Bureau reglable 150cm ref 118200 quantite 1 Total TTC 349,00 EUR Merci de votre commande"

func newTestRouter(structured *stubStructured, completer *stubCompleter) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := extract.NewEngine(structured, nil, nil)
	proc := pipeline.NewProcessor(engine, completer, nil)
	return New(proc, nil).Router(common.ServerConfig{FrontendURL: "http://localhost:3000"})
}

func multipartPDF(t *testing.T, field, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func TestHealth(t *testing.T) {
	r := newTestRouter(&stubStructured{}, &stubCompleter{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp.Status)
	assert.Equal(t, Version, resp.Version)
}

func TestExtractRejectsNonPDF(t *testing.T) {
	r := newTestRouter(&stubStructured{}, &stubCompleter{})

	body, ctype := multipartPDF(t, "pdf", "invoice.docx", []byte("not a pdf"))
	req := httptest.NewRequest(http.MethodPost, "/extract", body)
	req.Header.Set("Content-Type", ctype)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "must be a PDF")
}

func TestExtractRejectsMissingField(t *testing.T) {
	r := newTestRouter(&stubStructured{}, &stubCompleter{})

	body, ctype := multipartPDF(t, "document", "invoice.pdf", []byte("%PDF-1.4"))
	req := httptest.NewRequest(http.MethodPost, "/extract", body)
	req.Header.Set("Content-Type", ctype)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestExtractRejectsEmptyBody(t *testing.T) {
	r := newTestRouter(&stubStructured{}, &stubCompleter{})

	body, ctype := multipartPDF(t, "pdf", "invoice.pdf", nil)
	req := httptest.NewRequest(http.MethodPost, "/extract", body)
	req.Header.Set("Content-Type", ctype)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Empty PDF")
}

func TestExtractSuccess(t *testing.T) {
	structured := &stubStructured{pages: []string{invoiceText}}
	completer := &stubCompleter{response: `[{"name":"Chaise de bureau","quantity":2,"totalTTC":199.80,"reference":"234964"}]`}
	r := newTestRouter(structured, completer)

	body, ctype := multipartPDF(t, "pdf", "invoice.pdf", []byte("%PDF-1.4 fake"))
	req := httptest.NewRequest(http.MethodPost, "/extract", body)
	req.Header.Set("Content-Type", ctype)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp ExtractionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	require.Len(t, resp.Products, 1)
	assert.Equal(t, "chaisedebureau", resp.Products[0].ID)
	assert.Equal(t, 2, resp.Products[0].Quantity)
	require.NotNil(t, resp.Products[0].PriceTTC)
	assert.InDelta(t, 99.90, *resp.Products[0].PriceTTC, 0.001)

	assert.EqualValues(t, 1, resp.Metadata["pages"])
	assert.EqualValues(t, 1, resp.Metadata["productsFound"])
	assert.Equal(t, false, resp.Metadata["usedOcr"])
	assert.Contains(t, resp.Metadata, "extractionTimeMs")
	assert.Contains(t, resp.Metadata, "llmTimeMs")
	assert.Contains(t, resp.Metadata, "totalTimeMs")
}

func TestExtractInsufficientTextIsStructuredFailure(t *testing.T) {
	// Structured extraction fails and no optical capability is wired: the
	// service reports a structured failure, not an HTTP error.
	structured := &stubStructured{err: errors.New("no text layer")}
	r := newTestRouter(structured, &stubCompleter{})

	body, ctype := multipartPDF(t, "pdf", "scan.pdf", []byte("scanned image data"))
	req := httptest.NewRequest(http.MethodPost, "/extract", body)
	req.Header.Set("Content-Type", ctype)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp ExtractionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Empty(t, resp.Products)
	assert.Equal(t, "Could not extract text from PDF", resp.Metadata["error"])
	assert.EqualValues(t, 1, resp.Metadata["pages"])
}
