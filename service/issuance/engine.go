package issuance

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"ppe.GO/config"
	"ppe.GO/core/apperror"
	"ppe.GO/core/datemath"
	"ppe.GO/core/metrics"
	"ppe.GO/model/entity"
	"ppe.GO/service/export"
)

var (
	ErrNoItems      = errors.New("issuance: no items to issue")
	ErrTooManyItems = fmt.Errorf("issuance: more than %d items in one batch", entity.MaxBatchItems)
)

type Catalog interface {
	Resolve(ctx context.Context, code string) (entity.CatalogEntry, error)
	Register(ctx context.Context, code, displayName string) (bool, error)
}

type Ledger interface {
	NextDocumentNumber(ctx context.Context) (int, error)
	AppendIssuance(ctx context.Context, employee entity.Employee, items []entity.IssueItem, documentNo int, issuedOn time.Time) error
	AppendContextChange(ctx context.Context, employee entity.Employee, documentNo int, on time.Time) error
}

type Directory interface {
	Upsert(ctx context.Context, e entity.Employee) error
}

// CardQueue receives finished issuances for export.
type CardQueue interface {
	Submit(card export.Card) *export.Job
	Wait()
}

// Result describes a committed transaction.
type Result struct {
	DocumentNo int                `json:"document_no"`
	IssuedOn   time.Time          `json:"issued_on"`
	Employee   entity.Employee    `json:"employee"`
	Items      []entity.IssueItem `json:"items"`
	Dropped    []string           `json:"dropped,omitempty"`
	Warnings   []string           `json:"warnings,omitempty"`
	Export     *export.Job        `json:"-"`
}

// Engine serializes every ledger mutation. A mutation waits for the previous
// card export to finish before it starts.
type Engine struct {
	catalog   Catalog
	ledger    Ledger
	directory Directory
	cards     CardQueue
	validate  *validator.Validate
	log       *logrus.Logger
	now       func() time.Time

	mu sync.Mutex
}

// NewEngine wires an engine. cards may be nil to skip export.
func NewEngine(catalog Catalog, ledger Ledger, directory Directory, cards CardQueue, log *logrus.Logger) *Engine {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Engine{
		catalog:   catalog,
		ledger:    ledger,
		directory: directory,
		cards:     cards,
		validate:  validator.New(),
		log:       log,
		now:       time.Now,
	}
}

// WithClock replaces the clock that supplies today's date.
func (e *Engine) WithClock(now func() time.Time) *Engine {
	e.now = now
	return e
}

func (e *Engine) lock() func() {
	e.mu.Lock()
	if e.cards != nil {
		e.cards.Wait()
	}
	return e.mu.Unlock
}

// Issue resolves lines against the catalog and appends them to the ledger under
// one new document number. Unknown codes are put to prompter; a declined prompt
// drops the line. Nothing is written when validation fails or no line survives.
func (e *Engine) Issue(ctx context.Context, s Session, lines []Line, prompter NamePrompter) (*Result, error) {
	defer e.lock()()

	employee, err := e.checkEmployee(s.Employee)
	if err != nil {
		return nil, err
	}
	if n := countLines(lines); n == 0 {
		return nil, ErrNoItems
	} else if n > entity.MaxBatchItems {
		return nil, ErrTooManyItems
	}

	issuedOn := datemath.Truncate(e.now())
	if s.Mode == ModeNewEmployee && !s.IssuedOn.IsZero() {
		issuedOn = datemath.Truncate(s.IssuedOn)
	}

	res := &Result{IssuedOn: issuedOn, Employee: employee}
	log := e.log.WithFields(logrus.Fields{"module": "issuance", "employee_id": employee.ID})
	for _, line := range lines {
		if base, _ := entity.SplitCode(line.Code); base == "" {
			continue
		}
		item, ok, err := e.resolveLine(ctx, line, prompter)
		if err != nil {
			return nil, err
		}
		if !ok {
			code := strings.TrimSpace(line.Code)
			res.Dropped = append(res.Dropped, code)
			res.Warnings = append(res.Warnings, fmt.Sprintf("code %q has no name, line dropped", code))
			metrics.DroppedLines.Inc()
			log.WithField("code", code).Warn("unresolved item code dropped from batch")
			continue
		}
		res.Items = append(res.Items, item)
	}
	if len(res.Items) == 0 {
		return nil, ErrNoItems
	}

	docNo, err := e.ledger.NextDocumentNumber(ctx)
	if err != nil {
		return nil, err
	}
	if err := e.ledger.AppendIssuance(ctx, employee, res.Items, docNo, issuedOn); err != nil {
		config.LogError(e.log, "issuance", "Issue", "append issuance", logrus.Fields{"employee_id": employee.ID, "document_no": docNo}, err)
		return nil, err
	}
	res.DocumentNo = docNo
	metrics.IssuedItems.Add(float64(len(res.Items)))
	metrics.Documents.WithLabelValues("issuance").Inc()
	log.WithFields(logrus.Fields{"document_no": docNo, "items": len(res.Items), "mode": s.Mode.String()}).Info("issuance recorded")

	if e.cards != nil {
		res.Export = e.cards.Submit(export.NewCard(employee, res.Items, docNo, issuedOn))
	}
	return res, nil
}

func (e *Engine) resolveLine(ctx context.Context, line Line, prompter NamePrompter) (entity.IssueItem, bool, error) {
	base, size := entity.SplitCode(line.Code)
	if base == "" {
		return entity.IssueItem{}, false, nil
	}
	entry, err := e.catalog.Resolve(ctx, base)
	var unresolved *apperror.UnresolvedCodeError
	switch {
	case errors.As(err, &unresolved):
		name := strings.TrimSpace(line.Name)
		if entity.StripSizeSuffix(name) == "" && prompter != nil {
			if name, err = prompter.PromptName(ctx, base); err != nil {
				return entity.IssueItem{}, false, err
			}
		}
		// a bare "(XL)" answer names nothing
		if entity.StripSizeSuffix(name) == "" {
			return entity.IssueItem{}, false, nil
		}
		if _, err := e.catalog.Register(ctx, base, name); err != nil {
			return entity.IssueItem{}, false, err
		}
		// read back: another session may have registered the code first
		if entry, err = e.catalog.Resolve(ctx, base); err != nil {
			return entity.IssueItem{}, false, err
		}
	case err != nil:
		return entity.IssueItem{}, false, err
	}

	months := line.WearMonths
	if months <= 0 {
		months = entry.DefaultWearMonths
	}
	return entity.IssueItem{
		Code:        base,
		DisplayName: entity.EnsureSizeSuffix(entry.DisplayName, size),
		WearMonths:  months,
	}, true, nil
}

// ChangeContext stores the employee's new department and position and records
// the change in the ledger as a marker row under a fresh document number.
func (e *Engine) ChangeContext(ctx context.Context, employee entity.Employee) (*Result, error) {
	defer e.lock()()

	employee, err := e.checkEmployee(employee)
	if err != nil {
		return nil, err
	}
	if err := e.directory.Upsert(ctx, employee); err != nil {
		return nil, err
	}
	docNo, err := e.ledger.NextDocumentNumber(ctx)
	if err != nil {
		return nil, err
	}
	on := datemath.Truncate(e.now())
	if err := e.ledger.AppendContextChange(ctx, employee, docNo, on); err != nil {
		return nil, err
	}
	metrics.Documents.WithLabelValues("context_change").Inc()
	e.log.WithFields(logrus.Fields{
		"module":      "issuance",
		"employee_id": employee.ID,
		"document_no": docNo,
		"department":  employee.Department,
		"position":    employee.Position,
	}).Info("organizational context changed")
	return &Result{DocumentNo: docNo, IssuedOn: on, Employee: employee}, nil
}

// RegisterEmployee validates and stores a new or updated employee.
func (e *Engine) RegisterEmployee(ctx context.Context, employee entity.Employee) (entity.Employee, error) {
	defer e.lock()()

	employee, err := e.checkEmployee(employee)
	if err != nil {
		return entity.Employee{}, err
	}
	if err := e.directory.Upsert(ctx, employee); err != nil {
		return entity.Employee{}, err
	}
	return employee, nil
}

// checkEmployee normalizes employee and rejects it when a required field is blank.
func (e *Engine) checkEmployee(employee entity.Employee) (entity.Employee, error) {
	employee = employee.Normalize()
	err := e.validate.Struct(employee)
	if err == nil {
		return employee, nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return entity.Employee{}, err
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fieldName(fe.Field()))
	}
	return entity.Employee{}, &apperror.MissingInputError{Fields: fields}
}

var fieldNames = map[string]string{
	"ID":         "id",
	"FullName":   "full_name",
	"Department": "department",
	"Position":   "position",
}

func fieldName(f string) string {
	if n, ok := fieldNames[f]; ok {
		return n
	}
	return strings.ToLower(f)
}

func countLines(lines []Line) int {
	n := 0
	for _, l := range lines {
		if base, _ := entity.SplitCode(l.Code); base != "" {
			n++
		}
	}
	return n
}
