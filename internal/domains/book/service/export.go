package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"bookshelf-backend/internal/domains/book/model"
	"bookshelf-backend/pkg/logger"
)

const (
	exportSheet   = "Books"
	maxExportRows = 5000
)

var exportHeaders = []string{
	"ID",
	"Title",
	"Author",
	"Categories",
	"Description",
	"Price",
	"Publication Date",
	"Format",
	"ISBN",
	"Pages",
	"Language",
	"Publisher",
}

// Export renders the books matching filter as a spreadsheet. Pagination
// in the filter is replaced by the export row limit; a truncated export
// ends with a row naming how many books were left out.
func (s *BookService) Export(ctx context.Context, filter model.BookFilter) (*excelize.File, error) {
	filter.Limit = maxExportRows
	filter.Offset = 0

	books, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list books: %w", err)
	}
	if total > int64(len(books)) {
		logger.Warn("Book export truncated", map[string]interface{}{
			"exported": len(books),
			"total":    total,
		})
	}

	f, err := buildBooksExcelFile(books, total)
	if err != nil {
		return nil, fmt.Errorf("failed to build excel file: %w", err)
	}
	return f, nil
}

func buildBooksExcelFile(books []model.Book, total int64) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return nil, err
	}

	for col, header := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(exportSheet, cell, header); err != nil {
			return nil, err
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err == nil {
		last, _ := excelize.CoordinatesToCellName(len(exportHeaders), 1)
		_ = f.SetCellStyle(exportSheet, "A1", last, headerStyle)
	}

	for i, b := range books {
		row := exportRow(b)
		for col, value := range row {
			cell, _ := excelize.CoordinatesToCellName(col+1, i+2)
			if err := f.SetCellValue(exportSheet, cell, value); err != nil {
				return nil, err
			}
		}
	}

	if total > int64(len(books)) {
		cell, _ := excelize.CoordinatesToCellName(1, len(books)+2)
		note := fmt.Sprintf("Showing the first %d of %d books.", len(books), total)
		if err := f.SetCellValue(exportSheet, cell, note); err != nil {
			return nil, err
		}
	}

	return f, nil
}

func exportRow(b model.Book) []any {
	row := []any{
		b.ID,
		b.Title,
		b.AuthorName(),
		strings.Join(b.CategoryNames, ", "),
		b.Description,
		b.Price.InexactFloat64(),
		b.PublicationDate.Format("2006-01-02"),
		b.Format.Label(),
		nil, nil, nil, nil,
	}
	if d := b.Details; d != nil {
		if d.ISBN != nil {
			row[8] = *d.ISBN
		}
		if d.NumberOfPages != nil {
			row[9] = *d.NumberOfPages
		}
		if d.Language != nil {
			row[10] = *d.Language
		}
		if d.Publisher != nil {
			row[11] = *d.Publisher
		}
	}
	return row
}
