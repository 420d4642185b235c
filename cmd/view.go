package cmd

import (
	stderrors "errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"gitscope/internal/config"
	"gitscope/internal/errors"
	"gitscope/internal/git"
	"gitscope/internal/logger"
	"gitscope/internal/picker"
	"gitscope/internal/registry"
	"gitscope/internal/review"
	"gitscope/internal/view"
)

// activeFileEnv names the file the user's editor currently has open.
// Editor integrations export it so `gitscope` with no argument can open
// the right repository.
const activeFileEnv = "GITSCOPE_ACTIVE_FILE"

var viewCmd = &cobra.Command{
	Use:   "view [path]",
	Short: "Browse a repository's commit history",
	Long: `Opens the commit view. With a path argument the enclosing repository
is used (and registered if new). Without one, the repository containing
the editor's active file is used when that fallback is enabled;
otherwise a picker lists the known repositories.`,
	RunE: runView,
	Args: cobra.MaximumNArgs(1),
}

func init() {
	rootCmd.AddCommand(viewCmd)
}

func runView(cmd *cobra.Command, args []string) error {
	defer logger.Close()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	gitSvc := git.NewDefaultService()
	if err := gitSvc.Available(); err != nil {
		return fmt.Errorf("git is required: %w", err)
	}

	inv := registry.Invocation{ActiveFile: os.Getenv(activeFileEnv)}
	if len(args) > 0 {
		inv.RootPath = args[0]
	}

	reg := registry.New(cfg, gitSvc)
	repoPath, ok, err := reg.ResolveViewTarget(cmd.Context(), inv)
	if err != nil {
		return err
	}
	if !ok {
		repoPath, err = pickKnownRepo(reg, "Open which repository?")
		if cancelled(err) {
			return nil
		}
		if err != nil {
			return err
		}
	}

	store, err := review.OpenStore()
	if err != nil {
		return fmt.Errorf("error loading review state: %w", err)
	}

	return view.Run(view.New(repoPath, gitSvc, store))
}

// pickKnownRepo prompts for one of the registered repositories.
func pickKnownRepo(reg *registry.Registry, title string) (string, error) {
	known := reg.Known()
	if len(known) == 0 {
		return "", errors.NoReposKnown()
	}
	paths := make([]string, len(known))
	for i, repo := range known {
		paths[i] = repo.Path
	}
	return picker.Repo(title, paths)
}

// cancelled reports a dismissed picker, which commands treat as a quiet
// no-op rather than an error.
func cancelled(err error) bool {
	return stderrors.Is(err, picker.ErrCancelled)
}
