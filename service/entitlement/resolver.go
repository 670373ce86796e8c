// Package entitlement derives what an employee currently holds from the ledger.
package entitlement

import (
	"sort"
	"time"

	"ppe.GO/core/apperror"
	"ppe.GO/core/datemath"
	"ppe.GO/model/entity"
)

// DueWithinDays flags a holding for replacement when fewer days than this remain.
const DueWithinDays = 7

// Holding is the latest issuance of one base item under the employee's current context.
type Holding struct {
	BaseName    string    `json:"base_name"`
	DisplayName string    `json:"display_name"`
	ItemCode    string    `json:"item_code"`
	DocumentNo  int       `json:"document_no"`
	IssuedOn    time.Time `json:"issued_on"`
	WearMonths  int       `json:"wear_months"`
	// WearOutDate is zero for items that never wear out (WearMonths <= 0).
	WearOutDate   time.Time `json:"wear_out_date,omitempty"`
	RemainingDays int       `json:"remaining_days"`
	Due           bool      `json:"due"`
}

// HasWearOut reports whether the holding has a replacement date.
func (h Holding) HasWearOut() bool { return !h.WearOutDate.IsZero() }

// Resolve computes the current holdings of employee from history as of today.
//
// Only rows matching the employee's id and exact current department and position
// count. Rows are grouped by base item name; the latest IssuedOn wins, ties go to
// the higher DocumentNo and then to the row seen last. Rows without a usable issue
// date are skipped and returned as malformed. Results are ordered by remaining
// days with undated items last.
func Resolve(employee entity.Employee, history []entity.LedgerRecord, today time.Time) ([]Holding, []*apperror.MalformedRecordError) {
	today = datemath.Truncate(today)
	latest := make(map[string]entity.LedgerRecord)
	var malformed []*apperror.MalformedRecordError

	for i, rec := range history {
		if rec.EmployeeID != employee.ID || !employee.SameContext(rec.Department, rec.Position) {
			continue
		}
		if rec.ItemDisplayName == "" {
			continue
		}
		if rec.IssuedOn.IsZero() {
			malformed = append(malformed, &apperror.MalformedRecordError{Row: i + 1, Field: "Išduota", Value: rec.ItemDisplayName})
			continue
		}
		key := entity.BaseItemName(rec.ItemDisplayName)
		cur, ok := latest[key]
		if !ok || newer(rec, cur) {
			latest[key] = rec
		}
	}

	out := make([]Holding, 0, len(latest))
	for base, rec := range latest {
		h := Holding{
			BaseName:    base,
			DisplayName: rec.ItemDisplayName,
			ItemCode:    rec.ItemCode,
			DocumentNo:  rec.DocumentNo,
			IssuedOn:    rec.IssuedOn,
			WearMonths:  rec.WearMonths,
		}
		if rec.WearMonths > 0 {
			h.WearOutDate = datemath.AddMonths(rec.IssuedOn, rec.WearMonths)
			h.RemainingDays = datemath.DaysBetween(today, h.WearOutDate)
			h.Due = h.RemainingDays < DueWithinDays
		}
		out = append(out, h)
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.HasWearOut() != b.HasWearOut() {
			return a.HasWearOut()
		}
		if a.HasWearOut() && a.RemainingDays != b.RemainingDays {
			return a.RemainingDays < b.RemainingDays
		}
		return a.BaseName < b.BaseName
	})
	return out, malformed
}

// newer reports whether rec replaces cur; equal keys favour rec since it was seen later.
func newer(rec, cur entity.LedgerRecord) bool {
	if !rec.IssuedOn.Equal(cur.IssuedOn) {
		return rec.IssuedOn.After(cur.IssuedOn)
	}
	return rec.DocumentNo >= cur.DocumentNo
}
