package ledger

import (
	"context"
	"sync"

	"ppe.GO/core/datemath"
	"ppe.GO/model/entity"
	"ppe.GO/model/storage"
)

// Ledger column positions in storage.LedgerSchema.
const (
	colNumber = iota
	colName
	colTabNr
	colDepartment
	colPosition
	colGender
	colCode
	colItem
	colIssued
	colWear
)

// XLSXStore keeps the ledger in a single workbook. The newest rows sit directly
// under the header; older rows are carried over cell for cell on every write.
type XLSXStore struct {
	path string
	mu   sync.Mutex
}

func NewXLSXStore(path string) *XLSXStore {
	return &XLSXStore{path: path}
}

func (s *XLSXStore) Path() string { return s.path }

func (s *XLSXStore) Load(ctx context.Context) ([]entity.LedgerRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	rows, err := storage.ReadSheet(s.path, storage.LedgerSchema)
	if err != nil {
		return nil, err
	}
	out := make([]entity.LedgerRecord, 0, len(rows))
	for _, row := range rows {
		out = append(out, decodeRow(row))
	}
	return out, nil
}

func (s *XLSXStore) Append(ctx context.Context, records []entity.LedgerRecord) error {
	if len(records) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, err := storage.ReadSheet(s.path, storage.LedgerSchema)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	out := make([][]interface{}, 0, len(records)+len(existing))
	for _, rec := range records {
		out = append(out, encodeRecord(rec))
	}
	for _, row := range existing {
		out = append(out, preserveRow(row))
	}
	return storage.WriteSheet(s.path, storage.LedgerSchema, out)
}

// decodeRow leaves DocumentNo, IssuedOn or WearMonths at their zero value when the
// stored cell is blank or unparsable.
func decodeRow(row storage.Row) entity.LedgerRecord {
	rec := entity.LedgerRecord{
		EmployeeName:    row.Cell(colName),
		EmployeeID:      row.Cell(colTabNr),
		Department:      row.Cell(colDepartment),
		Position:        row.Cell(colPosition),
		Gender:          row.Cell(colGender),
		ItemCode:        row.Cell(colCode),
		ItemDisplayName: row.Cell(colItem),
	}
	if n, ok := storage.ParseInt(row.Cell(colNumber)); ok {
		rec.DocumentNo = n
	}
	if d, ok := storage.ParseDate(row.Cell(colIssued)); ok {
		rec.IssuedOn = d
	}
	if m, ok := storage.ParseInt(row.Cell(colWear)); ok {
		rec.WearMonths = m
	}
	return rec
}

func encodeRecord(rec entity.LedgerRecord) []interface{} {
	var wear interface{} = rec.WearMonths
	if rec.IsContextMarker() {
		wear = ""
	}
	return []interface{}{
		rec.DocumentNo,
		rec.EmployeeName,
		rec.EmployeeID,
		rec.Department,
		rec.Position,
		rec.Gender,
		rec.ItemCode,
		rec.ItemDisplayName,
		datemath.Format(rec.IssuedOn),
		wear,
	}
}

func preserveRow(row storage.Row) []interface{} {
	out := make([]interface{}, len(row.Cells))
	for i, c := range row.Cells {
		out[i] = c
	}
	out[colNumber] = storage.IntOrRaw(row.Cell(colNumber))
	out[colIssued] = storage.DateOrRaw(row.Cell(colIssued))
	out[colWear] = storage.IntOrRaw(row.Cell(colWear))
	return out
}
