package config

// GetAuthSkipperPaths returns a list of paths to skip authentication for
func GetAuthSkipperPaths() []string {
	return []string{"/health", "/metrics"}
}
