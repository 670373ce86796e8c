package storage

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Row is one data row normalized to schema order. Number is the 1-based sheet row.
type Row struct {
	Number int
	Cells  []string
}

// Cell returns cell i or "" when out of range.
func (r Row) Cell(i int) string {
	if i < 0 || i >= len(r.Cells) {
		return ""
	}
	return r.Cells[i]
}

// ReadSheet loads every non-blank data row of the schema's sheet. A missing file or
// an empty sheet yields no rows; a header that does not satisfy the schema is an error.
func ReadSheet(path string, s Schema) ([]Row, error) {
	f, err := excelize.OpenFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	sheet := s.Sheet
	if idx, _ := f.GetSheetIndex(sheet); idx < 0 {
		sheet = f.GetSheetName(0)
	}
	raw, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheet, err)
	}
	if len(raw) == 0 || blank(raw[0]) {
		return nil, nil
	}
	idx, err := s.Index(raw[0])
	if err != nil {
		return nil, err
	}

	rows := make([]Row, 0, len(raw)-1)
	for n, cells := range raw[1:] {
		if blank(cells) {
			continue
		}
		row := Row{Number: n + 2, Cells: make([]string, len(idx))}
		for i, col := range idx {
			if col >= 0 && col < len(cells) {
				row.Cells[i] = strings.TrimSpace(cells[col])
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// WriteSheet rebuilds the workbook at path with the schema header followed by rows,
// replacing the previous file atomically.
func WriteSheet(path string, s Schema, rows [][]interface{}) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(0), s.Sheet); err != nil {
		return err
	}
	header := make([]interface{}, 0, s.Width())
	for _, h := range s.Header() {
		header = append(header, h)
	}
	if err := f.SetSheetRow(s.Sheet, "A1", &header); err != nil {
		return err
	}
	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		r := r
		if err := f.SetSheetRow(s.Sheet, cell, &r); err != nil {
			return err
		}
	}
	return ReplaceFile(path, func(w io.Writer) error {
		_, err := f.WriteTo(w)
		return err
	})
}

// EnsureSheet creates path with only the schema header when it does not exist yet.
func EnsureSheet(path string, s Schema) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return WriteSheet(path, s, nil)
}

func blank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
