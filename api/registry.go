package api

import (
	"net/http"
	"sync"

	"github.com/labstack/echo/v4"

	"grocery.GO/app"
	"grocery.GO/core/registry"
)

var mu sync.Mutex

// ModuleFunc mounts a feature on the session-aware /api group.
type ModuleFunc func(g *echo.Group, a *app.App)

// RouteFunc mounts handlers on the root instance, outside the session group.
type RouteFunc func(e *echo.Echo, a *app.App)

func load[T any](key string) []T {
	if v, ok := registry.GlobalRegistry.GetGlobal(key); ok && v != nil {
		return v.([]T)
	}
	return nil
}

func add[T any](key string, fn T) {
	mu.Lock()
	defer mu.Unlock()
	if registry.GlobalRegistry.IsLocked(key) {
		panic("api/registry: " + key + " locked, register from init()")
	}
	registry.GlobalRegistry.SetGlobal(key, append(load[T](key), fn))
}

// RegisterModule adds a /api feature. Call from init() in API packages.
func RegisterModule(fn ModuleFunc) { add(registry.KeyRegistryAPI, fn) }

// RegisterRoute adds a root-level route set (admin, health, custom endpoints).
func RegisterRoute(fn RouteFunc) { add(registry.KeyRegistryRoutes, fn) }

// Handle registers one public handler on the root instance.
func Handle(method, path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) {
	RegisterRoute(func(e *echo.Echo, _ *app.App) {
		e.Add(method, path, h, m...)
	})
}

func RegisterGET(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) {
	Handle(http.MethodGet, path, h, m...)
}

func RegisterPOST(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) {
	Handle(http.MethodPost, path, h, m...)
}

// ApplyModules mounts every registered module on g and locks the module registry.
func ApplyModules(g *echo.Group, a *app.App) {
	for _, fn := range load[ModuleFunc](registry.KeyRegistryAPI) {
		fn(g, a)
	}
	registry.GlobalRegistry.Lock(registry.KeyRegistryAPI)
}

// ApplyRoutes mounts every registered root route set on e and locks the route registry.
func ApplyRoutes(e *echo.Echo, a *app.App) {
	for _, fn := range load[RouteFunc](registry.KeyRegistryRoutes) {
		fn(e, a)
	}
	registry.GlobalRegistry.Lock(registry.KeyRegistryRoutes)
}
