package custom

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"

	"ppe.GO/bootstrap"
	"ppe.GO/core/datemath"
	"ppe.GO/model/entity"
	"ppe.GO/model/repository/ledger"
)

func TestCheck(t *testing.T) {
	day := datemath.Date(2024, 6, 30)
	records := []entity.LedgerRecord{
		{DocumentNo: 1, EmployeeID: "100", ItemCode: "01", ItemDisplayName: "Pirštinės", IssuedOn: day},
		{DocumentNo: 1, EmployeeID: "100", ItemCode: "02", ItemDisplayName: "Šalmas", IssuedOn: day},
		{DocumentNo: 1, EmployeeID: "200", ItemCode: "01", ItemDisplayName: "Pirštinės", IssuedOn: day},
		{DocumentNo: 2, EmployeeID: "100", ItemCode: "03", ItemDisplayName: "Batai"},
		{DocumentNo: 0, EmployeeID: "", ItemCode: "04", IssuedOn: day},
		{DocumentNo: 3, EmployeeID: "100"},
	}
	got := Check(records)

	want := map[int][]string{
		3: {"Numeris"},
		4: {"Išduota"},
		5: {"TabNr", "Numeris", "Pavadinimas"},
	}
	byRow := map[int][]string{}
	for _, f := range got {
		byRow[f.Row] = append(byRow[f.Row], f.Field)
	}
	if len(byRow) != len(want) {
		t.Fatalf("findings = %v, want rows %v", byRow, want)
	}
	for row, fields := range want {
		if strings.Join(byRow[row], ",") != strings.Join(fields, ",") {
			t.Errorf("row %d fields = %v, want %v", row, byRow[row], fields)
		}
	}
}

func TestRunCheck_PrintsOK(t *testing.T) {
	logger, _ := test.NewNullLogger()
	led := ledger.NewLedgerRepository(ledger.NewMemoryStore())
	emp := entity.Employee{ID: "100", FullName: "Jonas Jonaitis", Department: "Gamyba", Position: "Operatorius"}
	if err := led.AppendIssuance(context.Background(), emp, []entity.IssueItem{{Code: "01", DisplayName: "Pirštinės", WearMonths: 6}}, 1, datemath.Date(2024, 6, 30)); err != nil {
		t.Fatal(err)
	}
	findings, err := runCheck(context.Background(), &bootstrap.App{Log: logger, Ledger: led})
	if err != nil {
		t.Fatal(err)
	}
	out := &bytes.Buffer{}
	printFindings(out, findings)
	if out.String() != "Ledger OK\n" {
		t.Errorf("output = %q", out.String())
	}
}
