package excel

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/jinford/prodcat/internal/core/catalog"
)

const sheetName = "Products"

var headers = []string{"ID", "Name", "Description", "Logo", "Date Release", "Date Revision"}

// NewWorkbook はプロダクト一覧からExcelワークブックを組み立てます
func NewWorkbook(products []catalog.Product) (*excelize.File, error) {
	f := excelize.NewFile()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("failed to remove default sheet: %w", err)
	}

	for col, header := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve header cell: %w", err)
		}
		if err := f.SetCellValue(sheetName, cell, header); err != nil {
			return nil, fmt.Errorf("failed to write header: %w", err)
		}
	}

	for row, p := range products {
		values := []string{p.ID, p.Name, p.Description, p.Logo, p.DateRelease, p.DateRevision}
		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row+2)
			if err != nil {
				return nil, fmt.Errorf("failed to resolve cell: %w", err)
			}
			if err := f.SetCellValue(sheetName, cell, value); err != nil {
				return nil, fmt.Errorf("failed to write row: %w", err)
			}
		}
	}

	return f, nil
}

// Export はプロダクト一覧をExcelファイルとして保存します
func Export(products []catalog.Product, path string) error {
	f, err := NewWorkbook(products)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}
