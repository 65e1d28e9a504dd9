// Package sheet turns the event workbook (one sheet per content category)
// into a knowledge-base document.
package sheet

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/academydays/hubby/internal/textnorm"
)

// Workbook is an ordered set of named tables.
type Workbook struct {
	Tables []Table
}

// Table is one sheet; the first row is the header.
type Table struct {
	Name string
	Rows [][]Cell
}

// Cell is a spreadsheet value: always its display text, plus the typed date
// or number behind it when the reader knows one.
type Cell struct {
	Text      string
	Number    float64
	HasNumber bool
	Date      time.Time
	HasDate   bool
}

// TextCell builds a text-only cell.
func TextCell(s string) Cell { return Cell{Text: s} }

// NumberCell builds a numeric cell.
func NumberCell(n float64) Cell {
	return Cell{Text: strconv.FormatFloat(n, 'f', -1, 64), Number: n, HasNumber: true}
}

// DateCell builds a typed date cell.
func DateCell(t time.Time) Cell {
	return Cell{Text: t.Format("2006-01-02"), Date: t, HasDate: true}
}

// Empty reports whether the cell carries nothing.
func (c Cell) Empty() bool {
	return !c.HasDate && !c.HasNumber && strings.TrimSpace(c.Text) == ""
}

// String returns the trimmed display text.
func (c Cell) String() string { return strings.TrimSpace(c.Text) }

// cacheKey identifies the raw value for the day registry cache.
func (c Cell) cacheKey() string {
	switch {
	case c.HasDate:
		return "d:" + c.Date.Format("2006-01-02")
	case c.HasNumber:
		return "n:" + strconv.FormatFloat(c.Number, 'f', -1, 64)
	default:
		return "t:" + textnorm.Key(c.Text)
	}
}

// ReadWorkbook parses an xlsx stream with excelize.
func ReadWorkbook(r io.Reader) (*Workbook, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	defer f.Close()

	wb := &Workbook{}
	for _, name := range f.GetSheetList() {
		formatted, err := f.GetRows(name)
		if err != nil {
			return nil, fmt.Errorf("reading sheet %q: %w", name, err)
		}
		raw, err := f.GetRows(name, excelize.Options{RawCellValue: true})
		if err != nil {
			return nil, fmt.Errorf("reading raw sheet %q: %w", name, err)
		}

		table := Table{Name: name}
		for i, row := range formatted {
			cells := make([]Cell, len(row))
			for j, text := range row {
				cells[j] = Cell{Text: text}
				rawValue := text
				if i < len(raw) && j < len(raw[i]) {
					rawValue = raw[i][j]
				}
				typeCell(f, name, i, j, rawValue, &cells[j])
			}
			table.Rows = append(table.Rows, cells)
		}
		wb.Tables = append(wb.Tables, table)
	}
	return wb, nil
}

// typeCell fills the typed value of a cell from its raw content.
func typeCell(f *excelize.File, sheet string, row, col int, rawValue string, cell *Cell) {
	rawValue = strings.TrimSpace(rawValue)
	if rawValue == "" {
		return
	}
	ref, err := excelize.CoordinatesToCellName(col+1, row+1)
	if err != nil {
		return
	}
	typ, err := f.GetCellType(sheet, ref)
	if err != nil {
		return
	}

	switch typ {
	case excelize.CellTypeDate:
		for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
			if t, err := time.Parse(layout, rawValue); err == nil {
				cell.Date, cell.HasDate = t, true
				return
			}
		}
	case excelize.CellTypeNumber, excelize.CellTypeUnset:
		if n, err := strconv.ParseFloat(rawValue, 64); err == nil {
			cell.Number, cell.HasNumber = n, true
		}
	}
}
