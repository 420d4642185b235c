package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"gitscope/internal/config"
	"gitscope/internal/errors"
	"gitscope/internal/git"
	"gitscope/internal/logger"
	"gitscope/internal/notification"
	"gitscope/internal/picker"
	"gitscope/internal/registry"
	"gitscope/internal/review"
	"gitscope/internal/view"
)

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Manage code reviews",
}

var reviewResumeCmd = &cobra.Command{
	Use:   "resume",
	Short: "Resume a code review",
	Long: `Lists the open reviews across all repositories, most recently active
first, and reopens the selected one in the commit view.`,
	RunE: runReviewResume,
	Args: cobra.NoArgs,
}

var reviewEndCmd = &cobra.Command{
	Use:   "end",
	Short: "End a code review",
	RunE:  runReviewEnd,
	Args:  cobra.NoArgs,
}

var endAllRepo string

var reviewEndAllCmd = &cobra.Command{
	Use:   "end-all",
	Short: "End every code review in the active workspace",
	RunE:  runReviewEndAll,
	Args:  cobra.NoArgs,
}

func init() {
	reviewEndAllCmd.Flags().StringVar(&endAllRepo, "repo", "", "Only end reviews of this repository")
	reviewCmd.AddCommand(reviewResumeCmd)
	reviewCmd.AddCommand(reviewEndCmd)
	reviewCmd.AddCommand(reviewEndAllCmd)
	rootCmd.AddCommand(reviewCmd)
}

// pickReview enriches the current review state and prompts for one
// entry. Returns errors.NoReviews when there is nothing to pick.
func pickReview(cmd *cobra.Command, store *review.Store, gitSvc *git.Service, title string) (review.Entry, error) {
	entries, err := review.Enrich(cmd.Context(), store.Snapshot(), gitSvc)
	if err != nil {
		return review.Entry{}, err
	}
	if len(entries) == 0 {
		return review.Entry{}, errors.NoReviews()
	}
	return picker.Review(title, entries)
}

func runReviewResume(cmd *cobra.Command, args []string) error {
	defer logger.Close()

	gitSvc := git.NewDefaultService()
	store, err := review.OpenStore()
	if err != nil {
		return fmt.Errorf("error loading review state: %w", err)
	}

	entry, err := pickReview(cmd, store, gitSvc, "Resume which review?")
	if cancelled(err) {
		return nil
	}
	if err != nil {
		return err
	}

	return view.Run(view.NewWithReview(entry.RepoPath, entry.Pair, gitSvc, store))
}

func runReviewEnd(cmd *cobra.Command, args []string) error {
	defer logger.Close()

	gitSvc := git.NewDefaultService()
	store, err := review.OpenStore()
	if err != nil {
		return fmt.Errorf("error loading review state: %w", err)
	}

	entry, err := pickReview(cmd, store, gitSvc, "End which review?")
	if cancelled(err) {
		return nil
	}
	if err != nil {
		return err
	}

	if err := store.End(entry.RepoPath, entry.ID); err != nil {
		if errors.Is(err, errors.KindNotFound) {
			return fmt.Errorf("review %s already ended: %w", entry.ID, err)
		}
		return err
	}
	fmt.Printf("Ended %s\n", entry.Label)
	return nil
}

func runReviewEndAll(cmd *cobra.Command, args []string) error {
	defer logger.Close()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}
	store, err := review.OpenStore()
	if err != nil {
		return fmt.Errorf("error loading review state: %w", err)
	}

	var count int
	if endAllRepo != "" {
		count, err = store.EndAllForRepo(registry.Canonicalize(endAllRepo))
	} else {
		reg := registry.New(cfg, git.NewDefaultService())
		count, err = store.EndAll(reg.WorkspaceRoots())
	}
	if err != nil {
		return err
	}
	if count == 0 {
		fmt.Println("No open reviews.")
		return nil
	}

	fmt.Printf("Ended %d review(s).\n", count)
	if cfg.GetNotificationsEnabled() {
		if err := notification.ReviewsEnded(count); err != nil {
			logger.Warn("Cmd: Notification failed: %v", err)
		}
	}
	return nil
}
