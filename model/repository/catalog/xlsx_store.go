package catalog

import (
	"context"
	"sync"

	"ppe.GO/model/entity"
	"ppe.GO/model/storage"
)

const (
	colCode = iota
	colName
	colWear
)

// XLSXStore keeps the catalog in the Aprangos kodai workbook. New codes go to the bottom.
type XLSXStore struct {
	path string
	mu   sync.Mutex
}

func NewXLSXStore(path string) *XLSXStore {
	return &XLSXStore{path: path}
}

func (s *XLSXStore) Load(ctx context.Context) ([]entity.CatalogEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	rows, err := storage.ReadSheet(s.path, storage.CatalogSchema)
	if err != nil {
		return nil, err
	}
	out := make([]entity.CatalogEntry, 0, len(rows))
	for _, row := range rows {
		// rows without a name cannot label an issued item
		if row.Cell(colCode) == "" || row.Cell(colName) == "" {
			continue
		}
		e := entity.CatalogEntry{Code: row.Cell(colCode), DisplayName: row.Cell(colName)}
		if m, ok := storage.ParseInt(row.Cell(colWear)); ok {
			e.DefaultWearMonths = m
		}
		out = append(out, e)
	}
	return out, nil
}

func (s *XLSXStore) Put(ctx context.Context, entry entity.CatalogEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rows, err := storage.ReadSheet(s.path, storage.CatalogSchema)
	if err != nil {
		return err
	}
	return s.write(ctx, rows, entry)
}

// Add appends entry unless a named row with the same code exists. A nameless
// row for the code is filled in.
func (s *XLSXStore) Add(ctx context.Context, entry entity.CatalogEntry) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rows, err := storage.ReadSheet(s.path, storage.CatalogSchema)
	if err != nil {
		return false, err
	}
	for _, row := range rows {
		if row.Cell(colCode) == entry.Code && row.Cell(colName) != "" {
			return false, nil
		}
	}
	if err := s.write(ctx, rows, entry); err != nil {
		return false, err
	}
	return true, nil
}

func (s *XLSXStore) write(ctx context.Context, rows []storage.Row, entry entity.CatalogEntry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	replaced := false
	out := make([][]interface{}, 0, len(rows)+1)
	for _, row := range rows {
		if !replaced && row.Cell(colCode) == entry.Code {
			out = append(out, encode(entry))
			replaced = true
			continue
		}
		out = append(out, []interface{}{row.Cell(colCode), row.Cell(colName), storage.IntOrRaw(row.Cell(colWear))})
	}
	if !replaced {
		out = append(out, encode(entry))
	}
	return storage.WriteSheet(s.path, storage.CatalogSchema, out)
}

func encode(e entity.CatalogEntry) []interface{} {
	var wear interface{} = ""
	if e.DefaultWearMonths > 0 {
		wear = e.DefaultWearMonths
	}
	return []interface{}{e.Code, e.DisplayName, wear}
}
