package export

import (
	"bytes"
	"fmt"
	"log/slog"

	"github.com/xuri/excelize/v2"

	"github.com/mabeldev/invoice-extractor/internal/product"
)

// Service produces XLSX bytes for extracted product lists.
type Service struct {
	logger *slog.Logger
}

func NewService(logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{logger: logger}
}

// ProductsXLSX returns an XLSX workbook (as bytes) with one row per product.
// Unit prices are written as numbers; absent prices leave the cell empty.
func (s *Service) ProductsXLSX(records []product.Record) ([]byte, error) {
	f := excelize.NewFile()
	const sheet = "Products"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)
	if defIdx, _ := f.GetSheetIndex("Sheet1"); defIdx != -1 {
		_ = f.DeleteSheet("Sheet1")
	}

	headers := []string{
		"ID",
		"Name",
		"Description",
		"Quantity",
		"Unit Price TTC",
		"Unit Price HT",
		"Reference",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	row := 2
	for _, r := range records {
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(sheet, cell, v)
		}

		write(1, r.ID)
		write(2, r.Name)
		write(3, r.Description)
		write(4, r.Quantity)
		if r.PriceTTC != nil {
			write(5, *r.PriceTTC)
		}
		if r.PriceHT != nil {
			write(6, *r.PriceHT)
		}
		write(7, r.Reference)
		row++
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}

	s.logger.Info("export.products.ok", "rows", len(records))
	return buf.Bytes(), nil
}
