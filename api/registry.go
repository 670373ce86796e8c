package api

import (
	"sync"

	"github.com/labstack/echo/v4"

	"ppe.GO/bootstrap"
	"ppe.GO/core/registry"
)

var mu sync.Mutex

// --- /api group modules (authenticated) ---

// ModuleFunc registers routes on the /api group.
type ModuleFunc func(g *echo.Group, app *bootstrap.App)

func getModules() []ModuleFunc {
	if v, ok := registry.GlobalRegistry.GetGlobal(registry.KeyRegistryAPI); ok && v != nil {
		return v.([]ModuleFunc)
	}
	return nil
}

// RegisterModule registers an API module. Call from init() in API packages.
func RegisterModule(fn ModuleFunc) {
	mu.Lock()
	defer mu.Unlock()
	if registry.GlobalRegistry.IsLocked(registry.KeyRegistryAPI) {
		panic("api/registry: API modules locked (register only during init)")
	}
	registry.GlobalRegistry.SetGlobal(registry.KeyRegistryAPI, append(getModules(), fn))
}

// ApplyModules calls all registered /api modules. Locks the registry.
func ApplyModules(g *echo.Group, app *bootstrap.App) {
	for _, fn := range getModules() {
		fn(g, app)
	}
	registry.GlobalRegistry.Lock(registry.KeyRegistryAPI)
}

// --- Root-level routes (public: health, metrics) ---

// RouteFunc registers routes on the root Echo instance.
type RouteFunc func(e *echo.Echo, app *bootstrap.App)

func getRoutes() []RouteFunc {
	if v, ok := registry.GlobalRegistry.GetGlobal(registry.KeyRegistryRoutes); ok && v != nil {
		return v.([]RouteFunc)
	}
	return nil
}

// RegisterRoute registers a root-level route module. Call from init().
func RegisterRoute(fn RouteFunc) {
	mu.Lock()
	defer mu.Unlock()
	if registry.GlobalRegistry.IsLocked(registry.KeyRegistryRoutes) {
		panic("api/registry: routes locked (register only during init)")
	}
	registry.GlobalRegistry.SetGlobal(registry.KeyRegistryRoutes, append(getRoutes(), fn))
}

// RegisterGET is shorthand for registering a simple GET route on root.
func RegisterGET(path string, handler echo.HandlerFunc) {
	RegisterRoute(func(e *echo.Echo, _ *bootstrap.App) {
		e.GET(path, handler)
	})
}

// ApplyRoutes calls all registered root-level routes. Locks the registry.
func ApplyRoutes(e *echo.Echo, app *bootstrap.App) {
	for _, fn := range getRoutes() {
		fn(e, app)
	}
	registry.GlobalRegistry.Lock(registry.KeyRegistryRoutes)
}
