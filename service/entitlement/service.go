package entitlement

import (
	"context"
	"sort"
	"time"

	"github.com/sirupsen/logrus"

	"ppe.GO/core/apperror"
	"ppe.GO/core/datemath"
	"ppe.GO/model/entity"
)

// LedgerReader is the read side of the issuance ledger.
type LedgerReader interface {
	RecordsFor(ctx context.Context, employeeID string) ([]entity.LedgerRecord, error)
	All(ctx context.Context) ([]entity.LedgerRecord, error)
}

// Directory supplies employees' current context.
type Directory interface {
	CurrentContext(ctx context.Context, id string) (entity.Employee, error)
	List(ctx context.Context) ([]entity.Employee, error)
}

// Service answers current-gear and replacement-due queries. It never writes.
type Service struct {
	ledger    LedgerReader
	directory Directory
	log       *logrus.Logger
	now       func() time.Time
}

func NewService(ledger LedgerReader, directory Directory, log *logrus.Logger) *Service {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Service{ledger: ledger, directory: directory, log: log, now: time.Now}
}

// WithClock replaces the clock used for "today"; tests pin it.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Today is the service's current calendar date.
func (s *Service) Today() time.Time { return datemath.Truncate(s.now()) }

// CurrentGear resolves the holdings of employeeID. When the employee is not in the
// directory the context of their latest ledger row is used instead.
func (s *Service) CurrentGear(ctx context.Context, employeeID string) (entity.Employee, []Holding, error) {
	history, err := s.ledger.RecordsFor(ctx, employeeID)
	if err != nil {
		return entity.Employee{}, nil, err
	}
	employee, err := s.directory.CurrentContext(ctx, employeeID)
	if apperror.IsNotFound(err) {
		fallback, ok := latestContext(history)
		if !ok {
			return entity.Employee{}, nil, err
		}
		s.log.WithFields(logrus.Fields{"module": "entitlement", "employee_id": employeeID}).
			Info("employee not in directory, using context of latest ledger row")
		employee = fallback
	} else if err != nil {
		return entity.Employee{}, nil, err
	}
	return employee, s.resolve(employee, history), nil
}

// DueEntry is one holding due for replacement.
type DueEntry struct {
	Employee entity.Employee `json:"employee"`
	Holding  Holding         `json:"holding"`
}

// DueReport lists every due holding of every directory employee, most urgent first.
func (s *Service) DueReport(ctx context.Context) ([]DueEntry, error) {
	employees, err := s.directory.List(ctx)
	if err != nil {
		return nil, err
	}
	history, err := s.ledger.All(ctx)
	if err != nil {
		return nil, err
	}
	byEmployee := make(map[string][]entity.LedgerRecord)
	for _, rec := range history {
		byEmployee[rec.EmployeeID] = append(byEmployee[rec.EmployeeID], rec)
	}
	var out []DueEntry
	for _, e := range employees {
		for _, h := range s.resolve(e, byEmployee[e.ID]) {
			if h.Due {
				out = append(out, DueEntry{Employee: e, Holding: h})
			}
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Holding.RemainingDays != out[j].Holding.RemainingDays {
			return out[i].Holding.RemainingDays < out[j].Holding.RemainingDays
		}
		return out[i].Employee.ID < out[j].Employee.ID
	})
	return out, nil
}

func (s *Service) resolve(employee entity.Employee, history []entity.LedgerRecord) []Holding {
	holdings, malformed := Resolve(employee, history, s.Today())
	for _, m := range malformed {
		s.log.WithFields(logrus.Fields{
			"module":      "entitlement",
			"employee_id": employee.ID,
		}).Warn(m.Error())
	}
	return holdings
}

// latestContext returns the employee context recorded on the newest row.
func latestContext(history []entity.LedgerRecord) (entity.Employee, bool) {
	var best entity.LedgerRecord
	found := false
	for _, rec := range history {
		if !found || newer(rec, best) {
			best, found = rec, true
		}
	}
	if !found {
		return entity.Employee{}, false
	}
	return entity.Employee{
		ID:         best.EmployeeID,
		FullName:   best.EmployeeName,
		Department: best.Department,
		Position:   best.Position,
		Gender:     best.Gender,
	}, true
}
