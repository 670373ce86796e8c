package catalog

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"ppe.GO/model/entity"
)

type catalogRow struct {
	Code       string `gorm:"column:code;primaryKey;size:64"`
	Name       string `gorm:"column:name;size:255"`
	WearMonths int    `gorm:"column:wear_months"`
}

func (catalogRow) TableName() string { return "ppe_catalog" }

type SQLStore struct {
	db *gorm.DB
}

func NewSQLStore(db *gorm.DB) (*SQLStore, error) {
	if err := db.AutoMigrate(&catalogRow{}); err != nil {
		return nil, err
	}
	return &SQLStore{db: db}, nil
}

func (s *SQLStore) Load(ctx context.Context) ([]entity.CatalogEntry, error) {
	var rows []catalogRow
	if err := s.db.WithContext(ctx).Order("code").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]entity.CatalogEntry, 0, len(rows))
	for _, r := range rows {
		out = append(out, entity.CatalogEntry{Code: r.Code, DisplayName: r.Name, DefaultWearMonths: r.WearMonths})
	}
	return out, nil
}

func (s *SQLStore) Add(ctx context.Context, entry entity.CatalogEntry) (bool, error) {
	row := catalogRow{Code: entry.Code, Name: entry.DisplayName, WearMonths: entry.DefaultWearMonths}
	res := s.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&row)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (s *SQLStore) Put(ctx context.Context, entry entity.CatalogEntry) error {
	row := catalogRow{Code: entry.Code, Name: entry.DisplayName, WearMonths: entry.DefaultWearMonths}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "code"}},
		UpdateAll: true,
	}).Create(&row).Error
}
