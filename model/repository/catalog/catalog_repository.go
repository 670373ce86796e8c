package catalog

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"ppe.GO/core/apperror"
	"ppe.GO/core/cache"
	"ppe.GO/core/metrics"
	"ppe.GO/model/entity"
)

const (
	storeName = "catalog"
	cacheTag  = "catalog"
	cacheTTL  = time.Minute
)

// CatalogRepository resolves item codes to display names. Hits are cached;
// misses always go to the store so entries registered elsewhere become visible.
type CatalogRepository struct {
	store Store
	cache *cache.Cache
}

func NewCatalogRepository(store Store, c *cache.Cache) *CatalogRepository {
	if c == nil {
		c = cache.NewCache()
	}
	return &CatalogRepository{store: store, cache: c}
}

func cacheKey(code string) string { return "catalog:" + code }

// Resolve looks up code exactly. A miss returns *apperror.UnresolvedCodeError.
func (r *CatalogRepository) Resolve(ctx context.Context, code string) (entity.CatalogEntry, error) {
	code = strings.TrimSpace(code)
	if v, ok := r.cache.Get(cacheKey(code)); ok {
		return v.(entity.CatalogEntry), nil
	}
	entries, err := r.load(ctx)
	if err != nil {
		return entity.CatalogEntry{}, err
	}
	if e, ok := find(entries, code); ok {
		r.cache.Set(cacheKey(code), e, cacheTTL, []string{cacheTag})
		return e, nil
	}
	return entity.CatalogEntry{}, &apperror.UnresolvedCodeError{Code: code}
}

// Register stores code with displayName (size suffix stripped) unless the code is
// already known. Blank input is ignored. It reports whether an entry was created.
func (r *CatalogRepository) Register(ctx context.Context, code, displayName string) (bool, error) {
	code = strings.TrimSpace(code)
	name := entity.StripSizeSuffix(displayName)
	if code == "" || name == "" {
		return false, nil
	}
	entries, err := r.load(ctx)
	if err != nil {
		return false, err
	}
	entry := entity.CatalogEntry{Code: code, DisplayName: name}
	if existing, ok := lookup(entries, code); ok {
		if strings.TrimSpace(existing.DisplayName) != "" {
			return false, nil
		}
		// a nameless entry is filled in rather than left to shadow the code
		entry.DefaultWearMonths = existing.DefaultWearMonths
		if err := r.put(ctx, entry); err != nil {
			return false, err
		}
	} else {
		created, err := r.store.Add(ctx, entry)
		if err != nil {
			return false, apperror.Unavailable(storeName, "add", err)
		}
		if !created {
			return false, nil
		}
		r.cache.DeleteByTag(cacheTag)
	}
	metrics.CatalogRegistrations.Inc()
	return true, nil
}

// Put inserts or replaces entry.
func (r *CatalogRepository) Put(ctx context.Context, entry entity.CatalogEntry) error {
	entry.Code = strings.TrimSpace(entry.Code)
	entry.DisplayName = entity.StripSizeSuffix(entry.DisplayName)
	var missing []string
	if entry.Code == "" {
		missing = append(missing, "code")
	}
	if entry.DisplayName == "" {
		missing = append(missing, "name")
	}
	if len(missing) > 0 {
		return &apperror.MissingInputError{Fields: missing}
	}
	if entry.DefaultWearMonths < 0 {
		return fmt.Errorf("catalog: negative wear months for %q", entry.Code)
	}
	return r.put(ctx, entry)
}

// List returns every entry sorted by code.
func (r *CatalogRepository) List(ctx context.Context) ([]entity.CatalogEntry, error) {
	entries, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].Code < entries[j].Code })
	return entries, nil
}

func (r *CatalogRepository) put(ctx context.Context, entry entity.CatalogEntry) error {
	if err := r.store.Put(ctx, entry); err != nil {
		return apperror.Unavailable(storeName, "put", err)
	}
	r.cache.DeleteByTag(cacheTag)
	return nil
}

func (r *CatalogRepository) load(ctx context.Context) ([]entity.CatalogEntry, error) {
	entries, err := r.store.Load(ctx)
	if err != nil {
		return nil, apperror.Unavailable(storeName, "load", err)
	}
	return entries, nil
}

// find returns the entry for code when it carries a display name.
func find(entries []entity.CatalogEntry, code string) (entity.CatalogEntry, bool) {
	e, ok := lookup(entries, code)
	if !ok || strings.TrimSpace(e.DisplayName) == "" {
		return entity.CatalogEntry{}, false
	}
	return e, true
}

func lookup(entries []entity.CatalogEntry, code string) (entity.CatalogEntry, bool) {
	for _, e := range entries {
		if strings.TrimSpace(e.Code) == code {
			return e, true
		}
	}
	return entity.CatalogEntry{}, false
}
