package ledger

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"ppe.GO/core/apperror"
	"ppe.GO/core/datemath"
	"ppe.GO/model/entity"
)

const storeName = "ledger"

var ErrNoRecords = errors.New("ledger: no records to append")

// LedgerRepository is the append-only issuance ledger.
type LedgerRepository struct {
	store Store

	mu sync.Mutex
	// highest document number handed out by this process
	issued int
}

func NewLedgerRepository(store Store) *LedgerRepository {
	return &LedgerRepository{store: store}
}

// NextDocumentNumber returns one more than the highest stored document number,
// or 1 for an empty ledger. Rows with a blank or unparsable number are ignored.
// A number is never handed out twice by the same repository.
func (r *LedgerRepository) NextDocumentNumber(ctx context.Context) (int, error) {
	records, err := r.store.Load(ctx)
	if err != nil {
		return 0, apperror.Unavailable(storeName, "load", err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	next := maxDocumentNo(records)
	if r.issued > next {
		next = r.issued
	}
	next++
	r.issued = next
	return next, nil
}

// PeekDocumentNumber reports the number NextDocumentNumber would return without reserving it.
func (r *LedgerRepository) PeekDocumentNumber(ctx context.Context) (int, error) {
	records, err := r.store.Load(ctx)
	if err != nil {
		return 0, apperror.Unavailable(storeName, "load", err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	next := maxDocumentNo(records)
	if r.issued > next {
		next = r.issued
	}
	return next + 1, nil
}

func maxDocumentNo(records []entity.LedgerRecord) int {
	max := 0
	for _, rec := range records {
		if rec.DocumentNo > max {
			max = rec.DocumentNo
		}
	}
	return max
}

// AppendIssuance writes one row per item, each carrying a snapshot of employee's
// current context, documentNo and issuedOn.
func (r *LedgerRepository) AppendIssuance(ctx context.Context, employee entity.Employee, items []entity.IssueItem, documentNo int, issuedOn time.Time) error {
	if len(items) == 0 {
		return ErrNoRecords
	}
	day := datemath.Truncate(issuedOn)
	records := make([]entity.LedgerRecord, 0, len(items))
	for _, item := range items {
		records = append(records, entity.NewLedgerRecord(employee, item, documentNo, day))
	}
	return r.append(ctx, records, "append")
}

// AppendContextChange writes a marker row recording employee's new department and position.
func (r *LedgerRepository) AppendContextChange(ctx context.Context, employee entity.Employee, documentNo int, on time.Time) error {
	rec := entity.NewLedgerRecord(employee, entity.IssueItem{}, documentNo, datemath.Truncate(on))
	return r.append(ctx, []entity.LedgerRecord{rec}, "append context change")
}

func (r *LedgerRepository) append(ctx context.Context, records []entity.LedgerRecord, op string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := r.store.Append(ctx, records); err != nil {
		return apperror.Unavailable(storeName, op, err)
	}
	return nil
}

// RecordsFor returns every row for employeeID in store order.
func (r *LedgerRepository) RecordsFor(ctx context.Context, employeeID string) ([]entity.LedgerRecord, error) {
	all, err := r.All(ctx)
	if err != nil {
		return nil, err
	}
	id := strings.TrimSpace(employeeID)
	var out []entity.LedgerRecord
	for _, rec := range all {
		if strings.TrimSpace(rec.EmployeeID) == id {
			out = append(out, rec)
		}
	}
	return out, nil
}

// All returns the whole ledger in store order.
func (r *LedgerRepository) All(ctx context.Context) ([]entity.LedgerRecord, error) {
	records, err := r.store.Load(ctx)
	if err != nil {
		return nil, apperror.Unavailable(storeName, "load", err)
	}
	return records, nil
}
