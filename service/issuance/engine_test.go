package issuance

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"

	"ppe.GO/core/apperror"
	"ppe.GO/core/cache"
	"ppe.GO/core/datemath"
	"ppe.GO/model/entity"
	"ppe.GO/model/repository/catalog"
	"ppe.GO/model/repository/directory"
	"ppe.GO/model/repository/ledger"
	"ppe.GO/service/entitlement"
	"ppe.GO/service/export"
)

var e1 = entity.Employee{ID: "E1", FullName: "Jonas Jonaitis", Department: "D1", Position: "P1"}

type fixture struct {
	engine     *Engine
	catalog    *catalog.MemoryStore
	ledger     *ledger.MemoryStore
	directory  *directory.MemoryStore
	ledgerRepo *ledger.LedgerRepository
	dirRepo    *directory.DirectoryRepository
}

func newFixture(t *testing.T, today time.Time, cards CardQueue) *fixture {
	t.Helper()
	logger, _ := test.NewNullLogger()
	f := &fixture{
		catalog:   catalog.NewMemoryStore(),
		ledger:    ledger.NewMemoryStore(),
		directory: directory.NewMemoryStore(),
	}
	f.ledgerRepo = ledger.NewLedgerRepository(f.ledger)
	f.dirRepo = directory.NewDirectoryRepository(f.directory)
	f.engine = NewEngine(
		catalog.NewCatalogRepository(f.catalog, cache.NewCache()),
		f.ledgerRepo,
		f.dirRepo,
		cards,
		logger,
	).WithClock(func() time.Time { return today })
	return f
}

func answer(name string) NamePrompter {
	return PromptFunc(func(context.Context, string) (string, error) { return name, nil })
}

func TestIssue_EndToEnd(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, datemath.Date(2024, 7, 1), nil)
	if _, err := f.engine.RegisterEmployee(ctx, e1); err != nil {
		t.Fatalf("RegisterEmployee: %v", err)
	}
	s := Session{Employee: e1, Mode: ModeNewEmployee, IssuedOn: datemath.Date(2024, 6, 30)}
	res, err := f.engine.Issue(ctx, s, []Line{{Code: "05-32", WearMonths: 6}}, answer("Glove"))
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if res.DocumentNo != 1 || datemath.Format(res.IssuedOn) != "2024-06-30" {
		t.Errorf("result = %+v", res)
	}

	entries, _ := f.catalog.Load(ctx)
	if len(entries) != 1 || entries[0].Code != "05" || entries[0].DisplayName != "Glove" {
		t.Errorf("catalog = %+v", entries)
	}
	rows, _ := f.ledger.Load(ctx)
	if len(rows) != 1 || rows[0].ItemCode != "05" || rows[0].ItemDisplayName != "Glove (32 dydis)" {
		t.Fatalf("ledger = %+v", rows)
	}

	logger, _ := test.NewNullLogger()
	svc := entitlement.NewService(f.ledgerRepo, f.dirRepo, logger).
		WithClock(func() time.Time { return datemath.Date(2024, 12, 25) })
	_, gear, err := svc.CurrentGear(ctx, "E1")
	if err != nil || len(gear) != 1 {
		t.Fatalf("CurrentGear = %+v, %v", gear, err)
	}
	if gear[0].RemainingDays != 5 || !gear[0].Due {
		t.Errorf("holding = %+v, want due with 5 days left", gear[0])
	}
}

func TestIssue_DeclinedUnknownCode(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, datemath.Date(2024, 7, 1), nil)
	_ = f.catalog.Put(ctx, entity.CatalogEntry{Code: "07", DisplayName: "Hat"})

	res, err := f.engine.Issue(ctx, Session{Employee: e1}, []Line{{Code: "99", WearMonths: 6}, {Code: "07", WearMonths: 12}}, answer(""))
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if len(res.Items) != 1 || res.Items[0].Code != "07" || len(res.Dropped) != 1 || res.Dropped[0] != "99" {
		t.Errorf("result = %+v", res)
	}
	entries, _ := f.catalog.Load(ctx)
	if len(entries) != 1 {
		t.Errorf("catalog gained an entry: %+v", entries)
	}
	rows, _ := f.ledger.Load(ctx)
	if len(rows) != 1 || rows[0].ItemCode != "07" {
		t.Errorf("ledger = %+v", rows)
	}

	if _, err := f.engine.Issue(ctx, Session{Employee: e1}, []Line{{Code: "98"}}, nil); !errors.Is(err, ErrNoItems) {
		t.Errorf("all lines dropped err = %v", err)
	}
}

func TestIssue_MissingInputWritesNothing(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, datemath.Date(2024, 7, 1), nil)
	_, err := f.engine.Issue(ctx, Session{Employee: entity.Employee{ID: "E1", FullName: "Jonas"}}, []Line{{Code: "05", WearMonths: 1}}, answer("Glove"))
	var mi *apperror.MissingInputError
	if !errors.As(err, &mi) {
		t.Fatalf("err = %v, want MissingInputError", err)
	}
	if len(mi.Fields) != 2 || mi.Fields[0] != "department" || mi.Fields[1] != "position" {
		t.Errorf("fields = %v", mi.Fields)
	}
	if rows, _ := f.ledger.Load(ctx); len(rows) != 0 {
		t.Errorf("ledger written: %+v", rows)
	}
	if entries, _ := f.catalog.Load(ctx); len(entries) != 0 {
		t.Errorf("catalog written: %+v", entries)
	}
}

func TestIssue_BatchLimits(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, datemath.Date(2024, 7, 1), nil)
	lines := make([]Line, entity.MaxBatchItems+1)
	for i := range lines {
		lines[i] = Line{Code: "05"}
	}
	if _, err := f.engine.Issue(ctx, Session{Employee: e1}, lines, answer("Glove")); !errors.Is(err, ErrTooManyItems) {
		t.Errorf("15 lines err = %v", err)
	}
	if _, err := f.engine.Issue(ctx, Session{Employee: e1}, []Line{{Code: "  "}}, nil); !errors.Is(err, ErrNoItems) {
		t.Errorf("blank lines err = %v", err)
	}
}

func TestIssue_DateOnlyChosenForNewEmployee(t *testing.T) {
	ctx := context.Background()
	today := datemath.Date(2024, 7, 1)
	f := newFixture(t, today, nil)
	_ = f.catalog.Put(ctx, entity.CatalogEntry{Code: "05", DisplayName: "Glove", DefaultWearMonths: 6})
	res, err := f.engine.Issue(ctx, Session{Employee: e1, Mode: ModeExisting, IssuedOn: datemath.Date(2020, 1, 1)}, []Line{{Code: "05"}}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !res.IssuedOn.Equal(today) {
		t.Errorf("IssuedOn = %v, want today", res.IssuedOn)
	}
	if res.Items[0].WearMonths != 6 {
		t.Errorf("catalog default wear months not applied: %+v", res.Items[0])
	}
}

func TestChangeContext(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, datemath.Date(2024, 7, 1), nil)
	_ = f.catalog.Put(ctx, entity.CatalogEntry{Code: "05", DisplayName: "Glove"})
	if _, err := f.engine.Issue(ctx, Session{Employee: e1}, []Line{{Code: "05", WearMonths: 6}}, nil); err != nil {
		t.Fatal(err)
	}
	moved := e1
	moved.Department = "D2"
	res, err := f.engine.ChangeContext(ctx, moved)
	if err != nil {
		t.Fatalf("ChangeContext: %v", err)
	}
	if res.DocumentNo != 2 {
		t.Errorf("DocumentNo = %d, want 2", res.DocumentNo)
	}
	cur, _ := f.dirRepo.CurrentContext(ctx, "E1")
	if cur.Department != "D2" {
		t.Errorf("directory = %+v", cur)
	}
	rows, _ := f.ledger.Load(ctx)
	if len(rows) != 2 || !rows[1].IsContextMarker() || rows[1].Department != "D2" {
		t.Errorf("ledger = %+v", rows)
	}
	if rows[0].Department != "D1" {
		t.Errorf("history changed: %+v", rows[0])
	}
}

type queue struct {
	cards []export.Card
	waits int
}

func (q *queue) Submit(card export.Card) *export.Job {
	q.cards = append(q.cards, card)
	return nil
}

func (q *queue) Wait() { q.waits++ }

func TestIssue_HandsCardToExport(t *testing.T) {
	ctx := context.Background()
	q := &queue{}
	f := newFixture(t, datemath.Date(2024, 7, 1), q)
	_ = f.catalog.Put(ctx, entity.CatalogEntry{Code: "05", DisplayName: "Glove"})
	res, err := f.engine.Issue(ctx, Session{Employee: e1}, []Line{{Code: "05-M", WearMonths: 6}}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if q.waits != 1 || len(q.cards) != 1 {
		t.Fatalf("queue = %+v", q)
	}
	card := q.cards[0]
	if card.DocumentNo != res.DocumentNo || card.Items[0].DisplayName != "Glove (M dydis)" || datemath.Format(card.Items[0].WearOutDate) != "2025-01-01" {
		t.Errorf("card = %+v", card)
	}
}

func TestIssue_InlineNameRegistersWithoutPrompt(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, datemath.Date(2024, 7, 1), nil)
	prompted := false
	p := PromptFunc(func(context.Context, string) (string, error) { prompted = true; return "", nil })
	res, err := f.engine.Issue(ctx, Session{Employee: e1}, []Line{{Code: "11-44", WearMonths: 24, Name: "Boots (40 dydis)"}}, p)
	if err != nil {
		t.Fatal(err)
	}
	if prompted {
		t.Error("prompt should not run when the line carries a name")
	}
	if res.Items[0].DisplayName != "Boots (44 dydis)" {
		t.Errorf("item = %+v", res.Items[0])
	}
	if entries, _ := f.catalog.Load(ctx); entries[0].DisplayName != "Boots" {
		t.Errorf("catalog = %+v", entries)
	}
}

func TestIssue_NamelessCatalogRowIsAMiss(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, datemath.Date(2024, 7, 1), nil)
	_ = f.catalog.Put(ctx, entity.CatalogEntry{Code: "05", DefaultWearMonths: 6})

	if _, err := f.engine.Issue(ctx, Session{Employee: e1}, []Line{{Code: "05"}}, nil); !errors.Is(err, ErrNoItems) {
		t.Fatalf("Issue without a name = %v, want ErrNoItems", err)
	}
	if rows, _ := f.ledger.Load(ctx); len(rows) != 0 {
		t.Fatalf("ledger = %+v, want empty", rows)
	}

	res, err := f.engine.Issue(ctx, Session{Employee: e1}, []Line{{Code: "05-32"}}, answer("Glove"))
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if res.Items[0].DisplayName != "Glove (32 dydis)" || res.Items[0].WearMonths != 6 {
		t.Errorf("item = %+v", res.Items[0])
	}
	entries, _ := f.catalog.Load(ctx)
	if len(entries) != 1 || entries[0].DisplayName != "Glove" || entries[0].DefaultWearMonths != 6 {
		t.Errorf("catalog = %+v", entries)
	}
}

func TestIssue_SizeOnlyAnswerDropsLine(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, datemath.Date(2024, 7, 1), nil)
	_ = f.catalog.Put(ctx, entity.CatalogEntry{Code: "07", DisplayName: "Hat"})

	res, err := f.engine.Issue(ctx, Session{Employee: e1}, []Line{{Code: "77"}, {Code: "07"}}, answer("(XL)"))
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if len(res.Items) != 1 || res.Items[0].Code != "07" || len(res.Dropped) != 1 || res.Dropped[0] != "77" {
		t.Errorf("result = %+v", res)
	}
	rows, _ := f.ledger.Load(ctx)
	for _, r := range rows {
		if r.ItemDisplayName == "" {
			t.Errorf("nameless ledger row %+v", r)
		}
	}
	if entries, _ := f.catalog.Load(ctx); len(entries) != 1 {
		t.Errorf("catalog = %+v", entries)
	}
}

func TestIssue_BlankBaseCodesSkippedQuietly(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, datemath.Date(2024, 7, 1), nil)
	_ = f.catalog.Put(ctx, entity.CatalogEntry{Code: "07", DisplayName: "Hat"})

	res, err := f.engine.Issue(ctx, Session{Employee: e1}, []Line{{Code: "-32"}, {Code: " "}, {Code: "07"}}, answer("Ghost"))
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if len(res.Items) != 1 || len(res.Dropped) != 0 || len(res.Warnings) != 0 {
		t.Errorf("result = %+v", res)
	}
	if _, err := f.engine.Issue(ctx, Session{Employee: e1}, []Line{{Code: "-32"}}, nil); !errors.Is(err, ErrNoItems) {
		t.Errorf("size-only batch = %v, want ErrNoItems", err)
	}
}

func TestParseMode(t *testing.T) {
	for in, want := range map[string]Mode{"new": ModeNewEmployee, "CHANGE": ModeContextChange, "": ModeExisting, "other": ModeExisting} {
		if got := ParseMode(in); got != want {
			t.Errorf("ParseMode(%q) = %v, want %v", in, got, want)
		}
	}
}
