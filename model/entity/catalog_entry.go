package entity

// CatalogEntry maps a base item code to its display name.
type CatalogEntry struct {
	Code              string `json:"code"`
	DisplayName       string `json:"name"`
	DefaultWearMonths int    `json:"wear_months,omitempty"`
}
