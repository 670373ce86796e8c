package storage

import (
	"fmt"
	"strings"
)

// Schema is a fixed, versioned column layout for one spreadsheet-backed store.
// Columns are required; Optional columns may be absent from older files.
type Schema struct {
	Name     string
	Version  int
	Sheet    string
	Columns  []string
	Optional []string
}

// Header returns the full header row written for this schema.
func (s Schema) Header() []string {
	out := make([]string, 0, len(s.Columns)+len(s.Optional))
	out = append(out, s.Columns...)
	return append(out, s.Optional...)
}

// Width is the number of cells in a normalized row.
func (s Schema) Width() int { return len(s.Columns) + len(s.Optional) }

// Index maps a header row onto schema positions: result[i] is the file column of
// schema column i, or -1 when an optional column is missing.
func (s Schema) Index(header []string) ([]int, error) {
	pos := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimSpace(h)
		if _, dup := pos[h]; !dup && h != "" {
			pos[h] = i
		}
	}
	idx := make([]int, 0, s.Width())
	var missing []string
	for _, col := range s.Columns {
		i, ok := pos[col]
		if !ok {
			missing = append(missing, col)
			continue
		}
		idx = append(idx, i)
	}
	if len(missing) > 0 {
		return nil, &SchemaError{Schema: s.Name, Version: s.Version, Missing: missing}
	}
	for _, col := range s.Optional {
		if i, ok := pos[col]; ok {
			idx = append(idx, i)
		} else {
			idx = append(idx, -1)
		}
	}
	return idx, nil
}

// SchemaError reports a stored header that does not match the schema.
type SchemaError struct {
	Schema  string
	Version int
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%s schema v%d: missing columns %s", e.Schema, e.Version, strings.Join(e.Missing, ", "))
}

// Stored layouts. Column names are the on-disk contract shared with existing workbooks.
var (
	LedgerSchema = Schema{
		Name:    "ledger",
		Version: 1,
		Sheet:   "AAP DB",
		Columns: []string{"Numeris", "Vardas Pavardė", "Tab. Nr", "Padalinys", "Pareigos", "Lytis", "Aprangos kodas", "Apranga", "Išduota", "Susidėvėjimas"},
	}
	DirectorySchema = Schema{
		Name:    "directory",
		Version: 1,
		Sheet:   "Darbuotojai",
		Columns: []string{"Vardas", "Pavardė", "TabNr", "Pareigos", "Padalinys", "Lytis"},
	}
	CatalogSchema = Schema{
		Name:     "catalog",
		Version:  2,
		Sheet:    "Aprangos kodai",
		Columns:  []string{"Prekės Nr.", "Prekės pavadinimas"},
		Optional: []string{"Susidėvėjimas"},
	}
)
