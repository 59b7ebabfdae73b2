package service

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ikkim/storefront/internal/app/model"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const summarySheet = "Order Summary"

// ExportCartSummary renders the cart summary as an xlsx workbook.
func ExportCartSummary(summary model.CartSummary) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), summarySheet); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	rows := [][]interface{}{
		{"Product ID", "Product", "Unit Price", "Quantity", "Subtotal"},
	}
	for _, line := range summary.Lines {
		rows = append(rows, []interface{}{
			line.ID,
			line.Name,
			line.Price.StringFixed(2),
			line.Quantity,
			line.Subtotal().StringFixed(2),
		})
	}
	rows = append(rows,
		[]interface{}{},
		[]interface{}{"", "Items", "", summary.ItemCount, ""},
		[]interface{}{"", "Subtotal", "", "", summary.Subtotal.StringFixed(2)},
		[]interface{}{"", "Shipping", "", "", "Free"},
		[]interface{}{"", "Total", "", "", summary.Total.StringFixed(2)},
	)

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(summarySheet, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}

	if err := f.SetColWidth(summarySheet, "B", "B", 32); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf, nil
}

// ReadCartSheet reads cart lines back from a workbook laid out like
// ExportCartSummary: a header row, then one product per row until the first
// blank row. The first sheet is read.
func ReadCartSheet(r io.Reader) ([]model.CartLine, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, fmt.Errorf("no sheets found in workbook")
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}

	var lines []model.CartLine
	for i, row := range rows {
		if i == 0 {
			continue
		}
		if len(row) == 0 || strings.TrimSpace(row[0]) == "" {
			break
		}
		if len(row) < 4 {
			return nil, fmt.Errorf("row %d: expected 4 columns, got %d", i+1, len(row))
		}

		id, err := strconv.ParseInt(strings.TrimSpace(row[0]), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid product id %q", i+1, row[0])
		}
		price, err := decimal.NewFromString(strings.TrimSpace(row[2]))
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid price %q", i+1, row[2])
		}
		quantity, err := strconv.Atoi(strings.TrimSpace(row[3]))
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid quantity %q", i+1, row[3])
		}

		lines = append(lines, model.CartLine{
			ProductSnapshot: model.ProductSnapshot{
				ID:    id,
				Name:  strings.TrimSpace(row[1]),
				Price: price,
			},
			Quantity: quantity,
		})
	}
	return lines, nil
}
