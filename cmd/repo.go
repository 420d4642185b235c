package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"gitscope/internal/config"
	"gitscope/internal/git"
	"gitscope/internal/registry"
)

var repoCmd = &cobra.Command{
	Use:   "repo",
	Short: "Manage registered repositories",
}

var repoAddCmd = &cobra.Command{
	Use:   "add [path]",
	Short: "Register a repository",
	Long: `Registers the git repository containing the given path (or the current
directory). When a workspace is active, the repository must fall under
one of its roots.`,
	RunE: runRepoAdd,
	Args: cobra.MaximumNArgs(1),
}

var repoRemoveCmd = &cobra.Command{
	Use:   "remove [path]",
	Short: "Remove a repository from the registry",
	Long: `Stops listing a repository. Without a path argument a picker offers the
registered repositories. Removed repositories are remembered so viewing
a path inside them does not silently re-register them.`,
	RunE: runRepoRemove,
	Args: cobra.MaximumNArgs(1),
}

var repoListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered repositories",
	RunE:  runRepoList,
	Args:  cobra.NoArgs,
}

func init() {
	repoCmd.AddCommand(repoAddCmd)
	repoCmd.AddCommand(repoRemoveCmd)
	repoCmd.AddCommand(repoListCmd)
	rootCmd.AddCommand(repoCmd)
}

func loadRegistry() (*registry.Registry, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("error loading config: %w", err)
	}
	return registry.New(cfg, git.NewDefaultService()), nil
}

func runRepoAdd(cmd *cobra.Command, args []string) error {
	reg, err := loadRegistry()
	if err != nil {
		return err
	}

	path := "."
	if len(args) > 0 {
		path = args[0]
	}

	root, err := reg.Register(cmd.Context(), path, config.RepoSourceUser)
	if err != nil {
		return err
	}
	fmt.Printf("Registered %s\n", root)
	return nil
}

func runRepoRemove(cmd *cobra.Command, args []string) error {
	reg, err := loadRegistry()
	if err != nil {
		return err
	}

	var path string
	if len(args) > 0 {
		path = registry.Canonicalize(args[0])
	} else {
		path, err = pickKnownRepo(reg, "Remove which repository?")
		if cancelled(err) {
			return nil
		}
		if err != nil {
			return err
		}
	}

	if err := reg.Ignore(path); err != nil {
		return err
	}
	fmt.Printf("Removed %s\n", path)
	return nil
}

func runRepoList(cmd *cobra.Command, args []string) error {
	reg, err := loadRegistry()
	if err != nil {
		return err
	}

	known := reg.Known()
	if len(known) == 0 {
		fmt.Println("No repositories registered.")
		return nil
	}
	for _, repo := range known {
		if repo.Source == config.RepoSourceDiscovered {
			fmt.Fprintf(os.Stdout, "%s  (discovered)\n", repo.Path)
		} else {
			fmt.Println(repo.Path)
		}
	}
	return nil
}
