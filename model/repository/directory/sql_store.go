package directory

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"ppe.GO/model/entity"
)

type employeeRow struct {
	TabNr      string `gorm:"column:tab_nr;primaryKey;size:64"`
	FirstName  string `gorm:"column:first_name;size:128"`
	LastName   string `gorm:"column:last_name;size:128"`
	Position   string `gorm:"column:position;size:255"`
	Department string `gorm:"column:department;size:255;index"`
	Gender     string `gorm:"column:gender;size:32"`
}

func (employeeRow) TableName() string { return "ppe_employees" }

// SQLStore keeps the directory in ppe_employees, one row per personnel number.
type SQLStore struct {
	db *gorm.DB
}

func NewSQLStore(db *gorm.DB) (*SQLStore, error) {
	if err := db.AutoMigrate(&employeeRow{}); err != nil {
		return nil, err
	}
	return &SQLStore{db: db}, nil
}

func (s *SQLStore) Load(ctx context.Context) ([]entity.Employee, error) {
	var rows []employeeRow
	if err := s.db.WithContext(ctx).Order("tab_nr").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]entity.Employee, 0, len(rows))
	for _, r := range rows {
		out = append(out, entity.Employee{
			ID:         r.TabNr,
			FullName:   entity.JoinName(r.FirstName, r.LastName),
			Department: r.Department,
			Position:   r.Position,
			Gender:     r.Gender,
		}.Normalize())
	}
	return out, nil
}

func (s *SQLStore) Save(ctx context.Context, e entity.Employee) error {
	first, last := e.SplitName()
	row := employeeRow{
		TabNr:      e.ID,
		FirstName:  first,
		LastName:   last,
		Position:   e.Position,
		Department: e.Department,
		Gender:     e.Gender,
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "tab_nr"}},
		UpdateAll: true,
	}).Create(&row).Error
}
