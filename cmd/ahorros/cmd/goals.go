package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/templui/ahorros/internal/model"
)

func goalsCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "goals",
		Aliases: []string{"goal"},
		Short:   "Manage savings goals",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runGoalsList(cmd, e)
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List owned and shared goals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runGoalsList(cmd, e)
		},
	})

	var target float64
	add := &cobra.Command{
		Use:   "add <name>",
		Short: "Create a goal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			goal, err := e.session.CreateGoal(cmd.Context(), args[0], target)
			if err != nil {
				return err
			}
			printDone(cmd.OutOrStdout(), "Created %q (%s)", goal.Name, goal.ID)
			return nil
		},
	}
	add.Flags().Float64VarP(&target, "target", "t", 0, "Target amount")
	_ = add.MarkFlagRequired("target")
	cmd.AddCommand(add)

	var name string
	var newTarget float64
	edit := &cobra.Command{
		Use:   "edit <goal-id>",
		Short: "Rename a goal or change its target",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var patch model.GoalPatch
			if cmd.Flags().Changed("name") {
				patch.Name = &name
			}
			if cmd.Flags().Changed("target") {
				patch.Target = &newTarget
			}
			err := e.session.UpdateGoal(cmd.Context(), args[0], patch)
			if err != nil {
				return err
			}
			printDone(cmd.OutOrStdout(), "Updated %s", args[0])
			return nil
		},
	}
	edit.Flags().StringVarP(&name, "name", "n", "", "New name")
	edit.Flags().Float64VarP(&newTarget, "target", "t", 0, "New target amount")
	cmd.AddCommand(edit)

	cmd.AddCommand(&cobra.Command{
		Use:     "rm <goal-id>",
		Aliases: []string{"delete"},
		Short:   "Delete an owned goal",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			err := e.session.DeleteGoal(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printDone(cmd.OutOrStdout(), "Deleted %s", args[0])
			return nil
		},
	})

	return cmd
}

func runGoalsList(cmd *cobra.Command, e *env) error {
	goals, err := e.session.ListGoals(cmd.Context())
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if len(goals) == 0 {
		printEmpty(w, "No goals yet. Create one with: ahorros goals add <name> --target <amount>")
		return nil
	}

	f := e.formatter()
	rows := make([][]string, 0, len(goals))
	for _, g := range goals {
		owner := "me"
		if g.SharedWithMe {
			owner = g.OwnerEmail
		}
		rows = append(rows, []string{g.Name, f.Currency(g.Target), owner, string(g.Capability), g.ID})
	}
	fmt.Fprintln(w, renderTable([]string{"Goal", "Target", "Owner", "Access", "ID"}, rows))
	return nil
}
