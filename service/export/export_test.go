package export

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/xuri/excelize/v2"

	"ppe.GO/core/datemath"
	"ppe.GO/model/entity"
)

var jonas = entity.Employee{ID: "E1", FullName: "Jonas Jonaitis", Department: "D1", Position: "P1", Gender: "Vyras"}

func TestCardFileName(t *testing.T) {
	if got := CardFileName(12, "Jonas  Jonaitis"); got != "AAP 12 Jonas Jonaitis.xlsx" {
		t.Errorf("CardFileName = %q", got)
	}
	if got := CardFileName(3, "A/B"); got != "AAP 3 A_B.xlsx" {
		t.Errorf("CardFileName sanitizes = %q", got)
	}
}

func TestNewCard_WearOut(t *testing.T) {
	items := []entity.IssueItem{{Code: "05", DisplayName: "Glove (32 dydis)", WearMonths: 6}, {Code: "01", DisplayName: "Apron"}}
	card := NewCard(jonas, items, 1, datemath.Date(2024, 6, 30))
	if datemath.Format(card.Items[0].WearOutDate) != "2024-12-30" {
		t.Errorf("wear out = %v", card.Items[0].WearOutDate)
	}
	if !card.Items[1].WearOutDate.IsZero() {
		t.Errorf("apron should never wear out")
	}
}

func TestXLSXExporter_DefaultWorkbook(t *testing.T) {
	out := t.TempDir()
	x := NewXLSXExporter(filepath.Join(out, "missing-template.xlsx"), out)
	items := []entity.IssueItem{{Code: "05", DisplayName: "Glove (32 dydis)", WearMonths: 6}, {Code: "01", DisplayName: "Apron"}}
	path, err := x.Export(context.Background(), NewCard(jonas, items, 7, datemath.Date(2024, 6, 30)))
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if filepath.Base(path) != "AAP 7 Jonas Jonaitis.xlsx" {
		t.Errorf("path = %q", path)
	}
	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if v, _ := f.GetCellValue(defaultSheet, "B2"); v != "Jonas Jonaitis" {
		t.Errorf("employee cell = %q", v)
	}
	rows, _ := f.GetRows(defaultSheet)
	first := rows[6]
	if first[0] != "2024-06-30" || first[1] != "05" || first[2] != "Glove (32 dydis)" || first[3] != "6" || first[4] != "2024-12-30" || first[5] != "__" {
		t.Errorf("first item row = %v", first)
	}
	second := rows[7]
	if second[3] != "" || second[4] != "" {
		t.Errorf("apron row = %v", second)
	}
}

func TestXLSXExporter_Template(t *testing.T) {
	dir := t.TempDir()
	tpl := filepath.Join(dir, "template.xlsx")
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	_ = f.SetCellValue(sheet, "A1", "Darbuotojas: {Emploee}")
	_ = f.SetCellValue(sheet, "A2", "{Departament} / {Position}")
	_ = f.SetCellValue(sheet, "B5", "Išduota")
	if err := f.SaveAs(tpl); err != nil {
		t.Fatal(err)
	}
	_ = f.Close()

	x := NewXLSXExporter(tpl, filepath.Join(dir, "out"))
	path, err := x.Export(context.Background(), NewCard(jonas, []entity.IssueItem{{Code: "07", DisplayName: "Hat", WearMonths: 12}}, 2, datemath.Date(2024, 1, 15)))
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	got, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatal(err)
	}
	defer got.Close()
	if v, _ := got.GetCellValue(sheet, "A1"); v != "Darbuotojas: Jonas Jonaitis" {
		t.Errorf("A1 = %q", v)
	}
	if v, _ := got.GetCellValue(sheet, "A2"); v != "D1 / P1" {
		t.Errorf("A2 = %q", v)
	}
	if v, _ := got.GetCellValue(sheet, "C6"); v != "07" {
		t.Errorf("code cell C6 = %q", v)
	}
	if v, _ := got.GetCellValue(sheet, "F6"); v != "2025-01-15" {
		t.Errorf("wear-out cell F6 = %q", v)
	}
}

type recordingExporter struct {
	mu    sync.Mutex
	docs  []int
	fail  bool
	block chan struct{}
}

func (r *recordingExporter) Export(_ context.Context, card Card) (string, error) {
	if r.block != nil {
		<-r.block
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.docs = append(r.docs, card.DocumentNo)
	if r.fail {
		return "", errors.New("disk full")
	}
	return CardFileName(card.DocumentNo, card.Employee.FullName), nil
}

func TestWorker_RunsInOrderAndWaits(t *testing.T) {
	logger, hook := test.NewNullLogger()
	rec := &recordingExporter{block: make(chan struct{})}
	w := NewWorker(rec, logger)
	defer w.Close()

	a := w.Submit(Card{DocumentNo: 1, Employee: jonas})
	b := w.Submit(Card{DocumentNo: 2, Employee: jonas})
	close(rec.block)
	w.Wait()

	if path, err := a.Wait(); err != nil || path != "AAP 1 Jonas Jonaitis.xlsx" {
		t.Errorf("job a = %q, %v", path, err)
	}
	if _, err := b.Wait(); err != nil {
		t.Errorf("job b: %v", err)
	}
	if len(rec.docs) != 2 || rec.docs[0] != 1 || rec.docs[1] != 2 {
		t.Errorf("order = %v", rec.docs)
	}
	if len(hook.Entries) != 2 {
		t.Errorf("log entries = %d, want 2", len(hook.Entries))
	}
}

func TestWorker_FailureAndClose(t *testing.T) {
	logger, _ := test.NewNullLogger()
	w := NewWorker(&recordingExporter{fail: true}, logger)
	if _, err := w.Submit(Card{DocumentNo: 1}).Wait(); err == nil {
		t.Error("want export error")
	}
	w.Close()
	w.Close()
	if _, err := w.Submit(Card{DocumentNo: 2}).Wait(); !errors.Is(err, ErrWorkerClosed) {
		t.Errorf("after close err = %v", err)
	}
}
