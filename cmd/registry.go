package cmd

import (
	"github.com/spf13/cobra"

	"grocery.GO/core/registry"
)

const customGroup = "custom"

func registered() []*cobra.Command {
	if v, ok := registry.GlobalRegistry.GetGlobal(registry.KeyRegistryCmd); ok && v != nil {
		return v.([]*cobra.Command)
	}
	return nil
}

// Register adds a command from a custom package's init. It panics when the name is taken by a
// built-in or an earlier registration, or once Apply has run.
func Register(c *cobra.Command) {
	if registry.GlobalRegistry.IsLocked(registry.KeyRegistryCmd) {
		panic("cmd/registry: locked, register commands from init()")
	}
	list := registered()
	for _, existing := range append(rootCmd.Commands(), list...) {
		if existing.Name() == c.Name() {
			panic("cmd/registry: command " + c.Name() + " already exists")
		}
	}
	c.GroupID = customGroup
	registry.GlobalRegistry.SetGlobal(registry.KeyRegistryCmd, append(list, c))
}

// Apply attaches the registered commands to the root under their own help group and locks the
// registry.
func Apply() {
	if !rootCmd.ContainsGroup(customGroup) {
		rootCmd.AddGroup(&cobra.Group{ID: customGroup, Title: "Custom Commands:"})
	}
	for _, c := range registered() {
		if !c.HasParent() {
			rootCmd.AddCommand(c)
		}
	}
	registry.GlobalRegistry.Lock(registry.KeyRegistryCmd)
}
