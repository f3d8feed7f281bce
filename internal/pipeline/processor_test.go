package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mabeldev/invoice-extractor/internal/extract"
)

type stubStructured struct {
	pages []string
	err   error
}

func (s *stubStructured) ExtractPages(_ context.Context, _ []byte) ([]string, error) {
	return s.pages, s.err
}

type stubOptical struct {
	pages []string
	err   error
}

func (s *stubOptical) Available() bool { return true }

func (s *stubOptical) ExtractPages(_ context.Context, _ []byte) ([]string, error) {
	return s.pages, s.err
}

type stubCompleter struct {
	response   string
	err        error
	calls      int
	lastSystem string
	lastUser   string
}

func (s *stubCompleter) Complete(_ context.Context, systemPrompt, userPrompt string) (string, error) {
	s.calls++
	s.lastSystem = systemPrompt
	s.lastUser = userPrompt
	return s.response, s.err
}

const invoiceText = "FACTURE 2024-0042 Atelier Dupont " +
	"Chaise de bureau ergonomique noire ref 234964 quantite 2 Total TTC 199,80 EUR " +
	"Bureau reglable 150cm ref 118200 quantite 1 Total TTC 349,00 EUR Merci de votre commande"

func newProcessor(structured *stubStructured, optical *stubOptical, completer *stubCompleter) *Processor {
	var opt extract.OpticalReader
	if optical != nil {
		opt = optical
	}
	engine := extract.NewEngine(structured, opt, nil)
	return NewProcessor(engine, completer, nil)
}

func TestProcessHappyPath(t *testing.T) {
	completer := &stubCompleter{response: "```json\n[" +
		`{"name":"Chaise de bureau","quantity":2,"totalTTC":199.80,"reference":"234964"},` +
		`{"name":"Bureau réglable","quantity":1,"totalTTC":"349,00 €"}` +
		"]\n```"}
	p := newProcessor(&stubStructured{pages: []string{invoiceText}}, nil, completer)

	res := p.Process(context.Background(), []byte("%PDF-1.4"))

	assert.False(t, res.InsufficientText)
	assert.False(t, res.UsedOptical)
	assert.Equal(t, 1, res.Pages)
	require.Len(t, res.Products, 2)

	assert.Equal(t, "chaisedebureau", res.Products[0].ID)
	assert.Equal(t, 2, res.Products[0].Quantity)
	require.NotNil(t, res.Products[0].PriceTTC)
	assert.InDelta(t, 99.90, *res.Products[0].PriceTTC, 0.001)

	require.NotNil(t, res.Products[1].PriceTTC)
	assert.InDelta(t, 349.00, *res.Products[1].PriceTTC, 0.001)

	// Prompt contract: system constrains to a bare array, user carries the text.
	assert.Contains(t, completer.lastSystem, "JSON-only API")
	assert.Contains(t, completer.lastUser, invoiceText)
	assert.Contains(t, completer.lastUser, "TOTAL LINE PRICE")
}

func TestProcessInsufficientTextSkipsLLM(t *testing.T) {
	completer := &stubCompleter{response: `[{"name":"should not matter"}]`}
	p := newProcessor(&stubStructured{pages: []string{"trop court"}}, nil, completer)

	res := p.Process(context.Background(), []byte("%PDF-1.4"))

	assert.True(t, res.InsufficientText)
	assert.Empty(t, res.Products)
	assert.Equal(t, 0, completer.calls, "model must not be called without usable text")
}

func TestProcessCompleterFailureYieldsZeroRecords(t *testing.T) {
	completer := &stubCompleter{err: errors.New("connection refused")}
	p := newProcessor(&stubStructured{pages: []string{invoiceText}}, nil, completer)

	res := p.Process(context.Background(), []byte("%PDF-1.4"))

	assert.False(t, res.InsufficientText)
	assert.NotNil(t, res.Products)
	assert.Empty(t, res.Products)
}

func TestProcessGarbageResponseYieldsZeroRecords(t *testing.T) {
	completer := &stubCompleter{response: "I'm sorry, I can't find any products here."}
	p := newProcessor(&stubStructured{pages: []string{invoiceText}}, nil, completer)

	res := p.Process(context.Background(), []byte("%PDF-1.4"))

	assert.False(t, res.InsufficientText)
	assert.Empty(t, res.Products)
}

func TestProcessRepairsMalformedResponse(t *testing.T) {
	completer := &stubCompleter{response: `[{"name":"Chaise", quantity: 2, "totalTTC": 199.80,}]`}
	p := newProcessor(&stubStructured{pages: []string{invoiceText}}, nil, completer)

	res := p.Process(context.Background(), []byte("%PDF-1.4"))

	require.Len(t, res.Products, 1)
	assert.Equal(t, 2, res.Products[0].Quantity)
	require.NotNil(t, res.Products[0].PriceTTC)
	assert.InDelta(t, 99.90, *res.Products[0].PriceTTC, 0.001)
}

func TestProcessScannedPDFThroughOpticalPath(t *testing.T) {
	// No embedded text at all: structured path errors, optical stub supplies
	// the invoice-like text.
	completer := &stubCompleter{response: `[{"name":"Chaise de bureau","quantity":2,"totalTTC":199.80}]`}
	structured := &stubStructured{err: errors.New("no text layer")}
	optical := &stubOptical{pages: []string{invoiceText}}
	p := newProcessor(structured, optical, completer)

	res := p.Process(context.Background(), []byte("scanned"))

	assert.True(t, res.UsedOptical)
	assert.False(t, res.InsufficientText)
	require.Len(t, res.Products, 1)
	assert.Equal(t, "chaisedebureau", res.Products[0].ID)
	assert.Contains(t, completer.lastUser, invoiceText)
}

func TestProcessEverythingFails(t *testing.T) {
	completer := &stubCompleter{}
	structured := &stubStructured{err: errors.New("unreadable")}
	optical := &stubOptical{err: errors.New("ocr down")}
	p := newProcessor(structured, optical, completer)

	res := p.Process(context.Background(), []byte("garbage"))

	assert.True(t, res.InsufficientText)
	assert.True(t, res.UsedOptical)
	assert.GreaterOrEqual(t, res.Pages, 1)
	assert.Equal(t, 0, completer.calls)
}
