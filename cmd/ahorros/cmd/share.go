package cmd

import (
	"github.com/spf13/cobra"
)

func shareCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "share",
		Short: "Share goals with other people",
	}

	var canEdit bool
	grant := &cobra.Command{
		Use:   "grant <goal-id> <email>",
		Short: "Let someone see a goal, or edit it with --edit",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			err := e.session.ShareGoal(cmd.Context(), args[0], args[1], canEdit)
			if err != nil {
				return err
			}
			access := "view"
			if canEdit {
				access = "edit"
			}
			printDone(cmd.OutOrStdout(), "%s can now %s %s", args[1], access, args[0])
			return nil
		},
	}
	grant.Flags().BoolVar(&canEdit, "edit", false, "Allow editing")
	cmd.AddCommand(grant)

	cmd.AddCommand(&cobra.Command{
		Use:   "revoke <goal-id> <email>",
		Short: "Stop sharing a goal",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			err := e.session.RevokeShare(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			printDone(cmd.OutOrStdout(), "%s no longer has access to %s", args[1], args[0])
			return nil
		},
	})

	return cmd
}
