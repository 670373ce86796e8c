package directory

import (
	"context"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"ppe.GO/core/apperror"
	"ppe.GO/model/entity"
	"ppe.GO/model/storage"
)

func seedEmployees() []entity.Employee {
	return []entity.Employee{
		{ID: "E2", FullName: "Ona Onaite", Department: "Sandėlis", Position: "Krovėja", Gender: "Moteris"},
		{ID: "E1", FullName: "Jonas Jonaitis", Department: "Gamyba", Position: "Operatorius", Gender: "Vyras"},
		{ID: "E3", FullName: "Petras Petraitis", Department: "Gamyba", Position: "Meistras", Gender: "Vyras"},
	}
}

func exerciseRepository(t *testing.T, repo *DirectoryRepository) {
	t.Helper()
	ctx := context.Background()
	for _, e := range seedEmployees() {
		if err := repo.Upsert(ctx, e); err != nil {
			t.Fatalf("Upsert(%s): %v", e.ID, err)
		}
	}

	got, err := repo.CurrentContext(ctx, "E1")
	if err != nil || got.Department != "Gamyba" || got.FullName != "Jonas Jonaitis" {
		t.Fatalf("CurrentContext = %+v, %v", got, err)
	}
	if _, err := repo.CurrentContext(ctx, "missing"); !apperror.IsNotFound(err) {
		t.Errorf("missing err = %v, want ErrNotFound", err)
	}

	moved := got
	moved.Department = "Sandėlis"
	moved.Position = "Krovėjas"
	if err := repo.Upsert(ctx, moved); err != nil {
		t.Fatalf("Upsert move: %v", err)
	}
	if err := repo.Upsert(ctx, moved); err != nil {
		t.Fatalf("Upsert repeat: %v", err)
	}
	list, err := repo.List(ctx)
	if err != nil || len(list) != 3 {
		t.Fatalf("List = %d, %v; want 3", len(list), err)
	}
	if list[0].ID != "E1" || list[0].Department != "Sandėlis" {
		t.Errorf("List[0] = %+v", list[0])
	}

	deps, _ := repo.Departments(ctx)
	if !reflect.DeepEqual(deps, []string{"Gamyba", "Sandėlis"}) {
		t.Errorf("Departments = %v", deps)
	}
	pos, _ := repo.PositionsFor(ctx, "Sandėlis")
	if !reflect.DeepEqual(pos, []string{"Krovėja", "Krovėjas"}) {
		t.Errorf("PositionsFor = %v", pos)
	}
}

func TestDirectoryRepository_Memory(t *testing.T) {
	exerciseRepository(t, NewDirectoryRepository(NewMemoryStore()))
}

func TestDirectoryRepository_XLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Darbuotojai.xlsx")
	exerciseRepository(t, NewDirectoryRepository(NewXLSXStore(path)))

	rows, err := storage.ReadSheet(path, storage.DirectorySchema)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(rows))
	}
	// E3 was inserted last so it sits directly under the header.
	if rows[0].Cell(colTabNr) != "E3" || rows[0].Cell(colFirst) != "Petras" || rows[0].Cell(colLast) != "Petraitis" {
		t.Errorf("first row = %v", rows[0].Cells)
	}
}

func TestDirectoryRepository_SQL(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "ppe.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatal(err)
	}
	store, err := NewSQLStore(db)
	if err != nil {
		t.Fatalf("NewSQLStore: %v", err)
	}
	exerciseRepository(t, NewDirectoryRepository(store))
}

func TestUpsert_MissingInput(t *testing.T) {
	repo := NewDirectoryRepository(NewMemoryStore())
	err := repo.Upsert(context.Background(), entity.Employee{FullName: "  "})
	if !apperror.IsMissingInput(err) {
		t.Fatalf("err = %v, want MissingInputError", err)
	}
	all, _ := repo.List(context.Background())
	if len(all) != 0 {
		t.Errorf("nothing should be written, got %d", len(all))
	}
}

func TestUpsert_DefaultsGender(t *testing.T) {
	repo := NewDirectoryRepository(NewMemoryStore())
	ctx := context.Background()
	if err := repo.Upsert(ctx, entity.Employee{ID: "E7", FullName: "Antanas Antanaitis", Department: "D", Position: "P"}); err != nil {
		t.Fatal(err)
	}
	e, _ := repo.CurrentContext(ctx, "E7")
	if e.Gender != entity.DefaultGender {
		t.Errorf("Gender = %q", e.Gender)
	}
}
