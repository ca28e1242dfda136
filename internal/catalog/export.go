package catalog

import (
	"fmt"
	"io"

	"github.com/VivanRajath/Neusearch/internal/models"
	"github.com/VivanRajath/Neusearch/internal/upstream"

	"github.com/xuri/excelize/v2"
)

const exportSheet = "Products"

// WriteXLSX writes the snapshot as a spreadsheet, one product per row.
// Images and features are re-joined to the wire encoding.
func WriteXLSX(w io.Writer, products []models.Product) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(exportSheet)
	if err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("failed to drop default sheet: %w", err)
	}

	headers := []interface{}{"ID", "Title", "Price", "Category", "Source", "Images", "Description", "Features", "URL"}
	if err := f.SetSheetRow(exportSheet, "A1", &headers); err != nil {
		return fmt.Errorf("failed to write header row: %w", err)
	}

	for i, p := range products {
		row := []interface{}{
			p.ID,
			p.Title,
			p.Price,
			p.Category,
			p.Source,
			upstream.JoinList(p.Images),
			p.Description,
			upstream.JoinList(p.Features),
			p.URL,
		}
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}
