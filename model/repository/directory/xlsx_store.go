package directory

import (
	"context"
	"sync"

	"ppe.GO/model/entity"
	"ppe.GO/model/storage"
)

const (
	colFirst = iota
	colLast
	colTabNr
	colPosition
	colDepartment
	colGender
)

// XLSXStore keeps the directory in the Darbuotojai workbook.
type XLSXStore struct {
	path string
	mu   sync.Mutex
}

func NewXLSXStore(path string) *XLSXStore {
	return &XLSXStore{path: path}
}

func (s *XLSXStore) Load(ctx context.Context) ([]entity.Employee, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	rows, err := storage.ReadSheet(s.path, storage.DirectorySchema)
	if err != nil {
		return nil, err
	}
	out := make([]entity.Employee, 0, len(rows))
	for _, row := range rows {
		if row.Cell(colTabNr) == "" {
			continue
		}
		out = append(out, entity.Employee{
			ID:         row.Cell(colTabNr),
			FullName:   entity.JoinName(row.Cell(colFirst), row.Cell(colLast)),
			Department: row.Cell(colDepartment),
			Position:   row.Cell(colPosition),
			Gender:     row.Cell(colGender),
		}.Normalize())
	}
	return out, nil
}

func (s *XLSXStore) Save(ctx context.Context, e entity.Employee) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rows, err := storage.ReadSheet(s.path, storage.DirectorySchema)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	updated := false
	out := make([][]interface{}, 0, len(rows)+1)
	for _, row := range rows {
		if !updated && row.Cell(colTabNr) == e.ID {
			out = append(out, encode(e))
			updated = true
			continue
		}
		cells := make([]interface{}, len(row.Cells))
		for i, c := range row.Cells {
			cells[i] = c
		}
		out = append(out, cells)
	}
	if !updated {
		out = append([][]interface{}{encode(e)}, out...)
	}
	return storage.WriteSheet(s.path, storage.DirectorySchema, out)
}

func encode(e entity.Employee) []interface{} {
	first, last := e.SplitName()
	return []interface{}{first, last, e.ID, e.Position, e.Department, e.Gender}
}
