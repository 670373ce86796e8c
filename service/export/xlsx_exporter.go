package export

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"ppe.GO/core/datemath"
	"ppe.GO/model/entity"
	"ppe.GO/model/storage"
)

const (
	defaultSheet = "Kortelė"
	tableAnchor  = "Išduota"
	signature    = "__"
)

var tableHeader = []interface{}{"Išduota", "Kodas", "Pavadinimas", "Susidėvėjimas (mėn.)", "Pakeisti iki", "Parašas"}

// XLSXExporter fills an xlsx template with card data. Without a template a plain
// workbook with the same layout is produced.
type XLSXExporter struct {
	TemplatePath string
	OutputDir    string
}

func NewXLSXExporter(templatePath, outputDir string) *XLSXExporter {
	return &XLSXExporter{TemplatePath: templatePath, OutputDir: outputDir}
}

func (x *XLSXExporter) Export(ctx context.Context, card Card) (string, error) {
	if len(card.Items) > entity.MaxBatchItems {
		return "", fmt.Errorf("export: %d items exceed the card limit of %d", len(card.Items), entity.MaxBatchItems)
	}
	f, err := x.open()
	if err != nil {
		return "", err
	}
	defer func() { _ = f.Close() }()

	if err := fillPlaceholders(f, card.Employee); err != nil {
		return "", err
	}
	sheet, col, row, err := locateTable(f)
	if err != nil {
		return "", err
	}
	for i, it := range card.Items {
		cell, err := excelize.CoordinatesToCellName(col, row+1+i)
		if err != nil {
			return "", err
		}
		values := []interface{}{
			datemath.Format(it.IssuedOn),
			it.Code,
			it.DisplayName,
			monthsCell(it.WearMonths),
			datemath.Format(it.WearOutDate),
			signature,
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return "", err
		}
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	path := filepath.Join(x.OutputDir, CardFileName(card.DocumentNo, card.Employee.FullName))
	err = storage.ReplaceFile(path, func(w io.Writer) error {
		_, err := f.WriteTo(w)
		return err
	})
	if err != nil {
		return "", err
	}
	return path, nil
}

func (x *XLSXExporter) open() (*excelize.File, error) {
	if x.TemplatePath != "" {
		f, err := excelize.OpenFile(x.TemplatePath)
		if err == nil {
			return f, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("open template: %w", err)
		}
	}
	return defaultWorkbook()
}

func defaultWorkbook() (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName(f.GetSheetName(0), defaultSheet); err != nil {
		return nil, err
	}
	lines := [][]interface{}{
		{"Asmeninių apsaugos priemonių kortelė"},
		{"Darbuotojas", "{Employee}"},
		{"Padalinys", "{Department}"},
		{"Pareigos", "{Position}"},
		{},
		tableHeader,
	}
	for i, line := range lines {
		line := line
		if err := f.SetSheetRow(defaultSheet, fmt.Sprintf("A%d", i+1), &line); err != nil {
			return nil, err
		}
	}
	return f, nil
}

// fillPlaceholders substitutes employee fields in every text cell of every sheet.
// Both spellings of the legacy template placeholders are accepted.
func fillPlaceholders(f *excelize.File, e entity.Employee) error {
	r := strings.NewReplacer(
		"{Employee}", e.FullName,
		"{Emploee}", e.FullName,
		"{Department}", e.Department,
		"{Departament}", e.Department,
		"{Position}", e.Position,
	)
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return err
		}
		for ri, cells := range rows {
			for ci, v := range cells {
				if !strings.Contains(v, "{") {
					continue
				}
				out := r.Replace(v)
				if out == v {
					continue
				}
				cell, err := excelize.CoordinatesToCellName(ci+1, ri+1)
				if err != nil {
					return err
				}
				if err := f.SetCellValue(sheet, cell, out); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// locateTable finds the cell holding the table anchor. When no sheet has one, a
// Kortelė sheet is added with the header in row 1.
func locateTable(f *excelize.File) (sheet string, col, row int, err error) {
	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name)
		if err != nil {
			return "", 0, 0, err
		}
		for ri, cells := range rows {
			for ci, v := range cells {
				if strings.TrimSpace(v) == tableAnchor {
					return name, ci + 1, ri + 1, nil
				}
			}
		}
	}
	if idx, _ := f.GetSheetIndex(defaultSheet); idx < 0 {
		if _, err := f.NewSheet(defaultSheet); err != nil {
			return "", 0, 0, err
		}
	}
	header := append([]interface{}(nil), tableHeader...)
	if err := f.SetSheetRow(defaultSheet, "A1", &header); err != nil {
		return "", 0, 0, err
	}
	return defaultSheet, 1, 1, nil
}

func monthsCell(m int) interface{} {
	if m <= 0 {
		return ""
	}
	return m
}

