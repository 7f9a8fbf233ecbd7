package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/templui/ahorros/internal/model"
)

func contribCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "contrib",
		Aliases: []string{"contributions"},
		Short:   "Manage contributions",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runContribList(cmd, e)
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List contributions, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runContribList(cmd, e)
		},
	})

	var date, note string
	add := &cobra.Command{
		Use:   "add <amount>",
		Short: "Record a contribution",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := parseAmount(args[0])
			if err != nil {
				return err
			}
			c, err := e.session.AddContribution(cmd.Context(), date, amount, note)
			if err != nil {
				return err
			}
			f := e.formatter()
			printDone(cmd.OutOrStdout(), "Added %s on %s (%s)", f.Currency(c.Amount), f.Date(c.Date), c.ID)
			return nil
		},
	}
	add.Flags().StringVarP(&date, "date", "d", "", "Date as YYYY-MM-DD (default today)")
	add.Flags().StringVar(&note, "note", "", "Note (default \""+model.DefaultContributionNote+"\")")
	cmd.AddCommand(add)

	var newDate, newNote string
	var newAmount float64
	edit := &cobra.Command{
		Use:   "edit <contribution-id>",
		Short: "Change a contribution",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var patch model.ContributionPatch
			if cmd.Flags().Changed("date") {
				patch.Date = &newDate
			}
			if cmd.Flags().Changed("amount") {
				patch.Amount = &newAmount
			}
			if cmd.Flags().Changed("note") {
				patch.Note = &newNote
			}
			err := e.session.UpdateContribution(cmd.Context(), args[0], patch)
			if err != nil {
				return err
			}
			printDone(cmd.OutOrStdout(), "Updated %s", args[0])
			return nil
		},
	}
	edit.Flags().StringVarP(&newDate, "date", "d", "", "New date as YYYY-MM-DD")
	edit.Flags().Float64VarP(&newAmount, "amount", "a", 0, "New amount")
	edit.Flags().StringVar(&newNote, "note", "", "New note")
	cmd.AddCommand(edit)

	cmd.AddCommand(&cobra.Command{
		Use:     "rm <contribution-id>",
		Aliases: []string{"delete"},
		Short:   "Delete a contribution",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			err := e.session.DeleteContribution(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printDone(cmd.OutOrStdout(), "Deleted %s", args[0])
			return nil
		},
	})

	return cmd
}

func runContribList(cmd *cobra.Command, e *env) error {
	contributions, err := e.session.ListContributions(cmd.Context())
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if len(contributions) == 0 {
		printEmpty(w, "No contributions yet. Record one with: ahorros contrib add <amount>")
		return nil
	}

	f := e.formatter()
	rows := make([][]string, 0, len(contributions))
	for _, c := range contributions {
		rows = append(rows, []string{f.Date(c.Date), f.Currency(c.Amount), c.Note, c.ID})
	}
	fmt.Fprintln(w, renderTable([]string{"Date", "Amount", "Note", "ID"}, rows))
	return nil
}
