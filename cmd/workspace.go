package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"gitscope/internal/config"
	"gitscope/internal/registry"
)

var workspaceCmd = &cobra.Command{
	Use:   "workspace",
	Short: "Manage workspaces",
	Long: `Workspaces scope bulk operations to a set of directory roots. While a
workspace is active, 'repo add' only accepts repositories under its
roots and 'review end-all' only ends reviews there.`,
}

var workspaceAddCmd = &cobra.Command{
	Use:   "add <name> <root>...",
	Short: "Create a workspace and make it active",
	RunE:  runWorkspaceAdd,
	Args:  cobra.MinimumNArgs(2),
}

var workspaceUseCmd = &cobra.Command{
	Use:   "use [name]",
	Short: "Switch the active workspace (no argument clears it)",
	RunE:  runWorkspaceUse,
	Args:  cobra.MaximumNArgs(1),
}

var workspaceRemoveCmd = &cobra.Command{
	Use:   "remove <name>",
	Short: "Delete a workspace",
	RunE:  runWorkspaceRemove,
	Args:  cobra.ExactArgs(1),
}

var workspaceListCmd = &cobra.Command{
	Use:   "list",
	Short: "List workspaces",
	RunE:  runWorkspaceList,
	Args:  cobra.NoArgs,
}

func init() {
	workspaceCmd.AddCommand(workspaceAddCmd)
	workspaceCmd.AddCommand(workspaceUseCmd)
	workspaceCmd.AddCommand(workspaceRemoveCmd)
	workspaceCmd.AddCommand(workspaceListCmd)
	rootCmd.AddCommand(workspaceCmd)
}

func findWorkspace(cfg *config.Config, name string) (config.Workspace, bool) {
	for _, ws := range cfg.Workspaces {
		if ws.Name == name {
			return ws, true
		}
	}
	return config.Workspace{}, false
}

func runWorkspaceAdd(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	name := args[0]
	roots := make([]string, len(args)-1)
	for i, root := range args[1:] {
		roots[i] = registry.Canonicalize(root)
	}

	ws := config.NewWorkspace(name, roots)
	if !cfg.AddWorkspace(ws) {
		return fmt.Errorf("workspace %q already exists", name)
	}
	cfg.SetActiveWorkspaceID(ws.ID)
	if err := cfg.Save(); err != nil {
		return fmt.Errorf("error saving config: %w", err)
	}

	fmt.Printf("Created workspace %q with %d root(s).\n", name, len(roots))
	return nil
}

func runWorkspaceUse(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	if len(args) == 0 {
		cfg.SetActiveWorkspaceID("")
		if err := cfg.Save(); err != nil {
			return fmt.Errorf("error saving config: %w", err)
		}
		fmt.Println("Cleared active workspace.")
		return nil
	}

	ws, ok := findWorkspace(cfg, args[0])
	if !ok {
		return fmt.Errorf("no workspace named %q", args[0])
	}
	cfg.SetActiveWorkspaceID(ws.ID)
	if err := cfg.Save(); err != nil {
		return fmt.Errorf("error saving config: %w", err)
	}

	fmt.Printf("Active workspace: %s\n", ws.Name)
	return nil
}

func runWorkspaceRemove(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	ws, ok := findWorkspace(cfg, args[0])
	if !ok {
		return fmt.Errorf("no workspace named %q", args[0])
	}
	cfg.RemoveWorkspace(ws.ID)
	if err := cfg.Save(); err != nil {
		return fmt.Errorf("error saving config: %w", err)
	}

	fmt.Printf("Removed workspace %q.\n", ws.Name)
	return nil
}

func runWorkspaceList(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	if len(cfg.Workspaces) == 0 {
		fmt.Println("No workspaces.")
		return nil
	}
	for _, ws := range cfg.Workspaces {
		marker := "  "
		if ws.ID == cfg.ActiveWorkspaceID {
			marker = "* "
		}
		fmt.Printf("%s%s", marker, ws.Name)
		for _, root := range ws.Roots {
			fmt.Printf("  %s", root)
		}
		fmt.Println()
	}
	return nil
}
