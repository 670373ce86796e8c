package entity

import "time"

// MaxBatchItems is the most rows a single issuance transaction may write.
const MaxBatchItems = 14

// LedgerRecord is one immutable ledger row.
// DocumentNo 0 means the stored number was blank or unparsable; a zero IssuedOn likewise.
type LedgerRecord struct {
	DocumentNo      int       `json:"document_no"`
	EmployeeID      string    `json:"employee_id"`
	EmployeeName    string    `json:"employee_name"`
	Department      string    `json:"department"`
	Position        string    `json:"position"`
	Gender          string    `json:"gender"`
	ItemCode        string    `json:"item_code"`
	ItemDisplayName string    `json:"item_display_name"`
	IssuedOn        time.Time `json:"issued_on"`
	WearMonths      int       `json:"wear_months"`
}

// IsContextMarker reports whether the row records a department/position change rather than an item.
func (r LedgerRecord) IsContextMarker() bool {
	return r.ItemCode == "" && r.ItemDisplayName == ""
}

// IssueItem is one resolved line of an issuance batch.
type IssueItem struct {
	Code        string `json:"code"`
	DisplayName string `json:"name"`
	WearMonths  int    `json:"wear_months"`
}

// NewLedgerRecord snapshots employee into a row for item.
func NewLedgerRecord(e Employee, item IssueItem, documentNo int, issuedOn time.Time) LedgerRecord {
	return LedgerRecord{
		DocumentNo:      documentNo,
		EmployeeID:      e.ID,
		EmployeeName:    e.FullName,
		Department:      e.Department,
		Position:        e.Position,
		Gender:          e.Gender,
		ItemCode:        item.Code,
		ItemDisplayName: item.DisplayName,
		IssuedOn:        issuedOn,
		WearMonths:      item.WearMonths,
	}
}
