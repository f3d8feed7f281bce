package main

import (
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/mabeldev/invoice-extractor/internal/common"
	"github.com/mabeldev/invoice-extractor/internal/export"
	"github.com/mabeldev/invoice-extractor/internal/extract"
	"github.com/mabeldev/invoice-extractor/internal/llm/openai"
	"github.com/mabeldev/invoice-extractor/internal/pipeline"
)

// runextract extracts products from a local invoice PDF and prints them as
// JSON; -xlsx additionally writes an XLSX workbook.
func main() {
	xlsxOut := flag.String("xlsx", "", "also write products to this XLSX file")
	timeout := flag.Duration("timeout", 5*time.Minute, "overall run timeout")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if flag.NArg() != 1 {
		logger.Error("usage", "cmd", "runextract [-xlsx out.xlsx] <invoice.pdf>")
		os.Exit(2)
	}
	path := flag.Arg(0)

	if err := godotenv.Load(); err != nil {
		logger.Debug("no .env file loaded", "error", err)
	}
	cfg := common.LoadConfig()

	pdfBytes, err := os.ReadFile(path)
	if err != nil {
		logger.Error("read pdf", "path", path, "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	optical := extract.NewTesseractReader(extract.OpticalConfig{
		Pdftoppm:  cfg.OCR.Pdftoppm,
		Tesseract: cfg.OCR.Tesseract,
		Languages: cfg.OCR.Languages,
		DPI:       cfg.OCR.DPI,
		MaxPages:  cfg.OCR.MaxPages,
	}, logger)
	engine := extract.NewEngine(extract.NewPDFTextExtractor(), optical, logger)

	completer := openai.NewClient(openai.Config{
		APIKey:      cfg.LLM.APIKey,
		BaseURL:     cfg.LLM.BaseURL,
		Model:       cfg.LLM.Model,
		Temperature: cfg.LLM.Temperature,
		MaxTokens:   cfg.LLM.MaxTokens,
		Timeout:     cfg.LLM.Timeout,
	}, logger)

	proc := pipeline.NewProcessor(engine, completer, logger)
	res := proc.Process(ctx, pdfBytes)

	if res.InsufficientText {
		logger.Error("insufficient text extracted",
			"pages", res.Pages, "used_optical", res.UsedOptical)
		os.Exit(1)
	}

	out, err := json.MarshalIndent(res.Products, "", "  ")
	if err != nil {
		logger.Error("marshal products", "error", err)
		os.Exit(1)
	}
	if _, err := os.Stdout.Write(append(out, '\n')); err != nil {
		logger.Error("write output", "error", err)
		os.Exit(1)
	}

	if *xlsxOut != "" {
		svc := export.NewService(logger)
		b, err := svc.ProductsXLSX(res.Products)
		if err != nil {
			logger.Error("export xlsx", "error", err)
			os.Exit(1)
		}
		if err := os.WriteFile(*xlsxOut, b, 0o644); err != nil {
			logger.Error("write xlsx", "path", *xlsxOut, "error", err)
			os.Exit(1)
		}
		logger.Info("xlsx written", "path", *xlsxOut, "products", len(res.Products))
	}

	logger.Info("extraction complete",
		"products", len(res.Products),
		"pages", res.Pages,
		"used_optical", res.UsedOptical,
	)
}
