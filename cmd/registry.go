package cmd

import (
	"github.com/spf13/cobra"

	"ppe.GO/core/registry"
)

// Register adds an extension command. Call it from init(); it panics after Apply.
func Register(c *cobra.Command) {
	if registry.GlobalRegistry.IsLocked(registry.KeyRegistryCmd) {
		panic("cmd/registry: locked (register only during init before Apply)")
	}
	registry.GlobalRegistry.SetGlobal(registry.KeyRegistryCmd, append(registered(), c))
}

func registered() []*cobra.Command {
	if v, ok := registry.GlobalRegistry.GetGlobal(registry.KeyRegistryCmd); ok && v != nil {
		return v.([]*cobra.Command)
	}
	return nil
}

// Apply attaches every registered command to the root command once and locks the registry.
func Apply() {
	if registry.GlobalRegistry.IsLocked(registry.KeyRegistryCmd) {
		return
	}
	for _, c := range registered() {
		rootCmd.AddCommand(c)
	}
	registry.GlobalRegistry.Lock(registry.KeyRegistryCmd)
}
