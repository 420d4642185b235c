package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"gitscope/internal/avatar"
)

var avatarsCmd = &cobra.Command{
	Use:   "avatars",
	Short: "Manage the commit author avatar cache",
}

var avatarsClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all cached avatars",
	RunE:  runAvatarsClear,
	Args:  cobra.NoArgs,
}

func init() {
	avatarsCmd.AddCommand(avatarsClearCmd)
	rootCmd.AddCommand(avatarsCmd)
}

func runAvatarsClear(cmd *cobra.Command, args []string) error {
	count, err := avatar.Clear()
	if err != nil {
		return fmt.Errorf("error clearing avatar cache: %w", err)
	}
	if count == 0 {
		fmt.Println("Avatar cache already empty.")
		return nil
	}
	fmt.Printf("Removed %d cached avatar(s).\n", count)
	return nil
}
