package directory

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"ppe.GO/core/apperror"
	"ppe.GO/model/entity"
)

const storeName = "directory"

// DirectoryRepository answers questions about employees' current organizational context.
type DirectoryRepository struct {
	store Store
}

func NewDirectoryRepository(store Store) *DirectoryRepository {
	return &DirectoryRepository{store: store}
}

// CurrentContext returns the employee with personnel number id. The first match wins.
func (r *DirectoryRepository) CurrentContext(ctx context.Context, id string) (entity.Employee, error) {
	all, err := r.load(ctx)
	if err != nil {
		return entity.Employee{}, err
	}
	id = strings.TrimSpace(id)
	for _, e := range all {
		if e.ID == id {
			return e, nil
		}
	}
	return entity.Employee{}, fmt.Errorf("employee %q: %w", id, apperror.ErrNotFound)
}

// Upsert stores e, replacing any employee with the same ID.
func (r *DirectoryRepository) Upsert(ctx context.Context, e entity.Employee) error {
	e = e.Normalize()
	var missing []string
	if e.ID == "" {
		missing = append(missing, "id")
	}
	if e.FullName == "" {
		missing = append(missing, "full_name")
	}
	if len(missing) > 0 {
		return &apperror.MissingInputError{Fields: missing}
	}
	if err := r.store.Save(ctx, e); err != nil {
		return apperror.Unavailable(storeName, "save", err)
	}
	return nil
}

// List returns every employee sorted by ID.
func (r *DirectoryRepository) List(ctx context.Context) ([]entity.Employee, error) {
	all, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	return all, nil
}

// Departments returns the distinct non-empty departments, sorted.
func (r *DirectoryRepository) Departments(ctx context.Context) ([]string, error) {
	all, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	return distinct(all, func(e entity.Employee) (string, bool) { return e.Department, true }), nil
}

// PositionsFor returns the distinct positions held in department, sorted.
func (r *DirectoryRepository) PositionsFor(ctx context.Context, department string) ([]string, error) {
	all, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	department = strings.TrimSpace(department)
	return distinct(all, func(e entity.Employee) (string, bool) {
		return e.Position, e.Department == department
	}), nil
}

func (r *DirectoryRepository) load(ctx context.Context) ([]entity.Employee, error) {
	all, err := r.store.Load(ctx)
	if err != nil {
		return nil, apperror.Unavailable(storeName, "load", err)
	}
	return all, nil
}

func distinct(all []entity.Employee, pick func(entity.Employee) (string, bool)) []string {
	seen := make(map[string]struct{})
	out := []string{}
	for _, e := range all {
		v, ok := pick(e)
		if !ok || v == "" {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
