package ledger

import (
	"context"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"ppe.GO/core/datemath"
	"ppe.GO/model/entity"
)

type ledgerRow struct {
	ID           uint           `gorm:"primaryKey;autoIncrement"`
	DocumentNo   int            `gorm:"column:document_no;index"`
	EmployeeName string         `gorm:"column:employee_name;size:255"`
	EmployeeID   string         `gorm:"column:tab_nr;size:64;index"`
	Department   string         `gorm:"column:department;size:255"`
	Position     string         `gorm:"column:position;size:255"`
	Gender       string         `gorm:"column:gender;size:32"`
	ItemCode     string         `gorm:"column:item_code;size:64"`
	ItemName     string         `gorm:"column:item_name;size:255"`
	IssuedOn     datatypes.Date `gorm:"column:issued_on"`
	WearMonths   int            `gorm:"column:wear_months"`
}

func (ledgerRow) TableName() string { return "ppe_ledger" }

// SQLStore keeps the ledger in the ppe_ledger table. Row order is insertion order.
type SQLStore struct {
	db *gorm.DB
}

// NewSQLStore migrates ppe_ledger and returns a store over db.
func NewSQLStore(db *gorm.DB) (*SQLStore, error) {
	if err := db.AutoMigrate(&ledgerRow{}); err != nil {
		return nil, err
	}
	return &SQLStore{db: db}, nil
}

func (s *SQLStore) Load(ctx context.Context) ([]entity.LedgerRecord, error) {
	var rows []ledgerRow
	if err := s.db.WithContext(ctx).Order("id").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]entity.LedgerRecord, 0, len(rows))
	for _, r := range rows {
		out = append(out, entity.LedgerRecord{
			DocumentNo:      r.DocumentNo,
			EmployeeID:      r.EmployeeID,
			EmployeeName:    r.EmployeeName,
			Department:      r.Department,
			Position:        r.Position,
			Gender:          r.Gender,
			ItemCode:        r.ItemCode,
			ItemDisplayName: r.ItemName,
			IssuedOn:        fromSQLDate(r.IssuedOn),
			WearMonths:      r.WearMonths,
		})
	}
	return out, nil
}

func (s *SQLStore) Append(ctx context.Context, records []entity.LedgerRecord) error {
	if len(records) == 0 {
		return nil
	}
	rows := make([]ledgerRow, 0, len(records))
	for _, rec := range records {
		rows = append(rows, ledgerRow{
			DocumentNo:   rec.DocumentNo,
			EmployeeName: rec.EmployeeName,
			EmployeeID:   rec.EmployeeID,
			Department:   rec.Department,
			Position:     rec.Position,
			Gender:       rec.Gender,
			ItemCode:     rec.ItemCode,
			ItemName:     rec.ItemDisplayName,
			IssuedOn:     datatypes.Date(rec.IssuedOn),
			WearMonths:   rec.WearMonths,
		})
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&rows).Error
	})
}

func fromSQLDate(d datatypes.Date) time.Time {
	t := time.Time(d)
	if t.IsZero() || t.Year() <= 1 {
		return time.Time{}
	}
	return datemath.Truncate(t)
}
