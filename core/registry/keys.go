package registry

// Keys for GlobalRegistry.
const (
	// Extension registries (cmd, cron, api routes), stored in GlobalRegistry
	KeyRegistryCmd    = "registry:cmd"
	KeyRegistryCron   = "registry:cron"
	KeyRegistryAPI    = "registry:api"
	KeyRegistryRoutes = "registry:routes"
)
