package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/templui/ahorros/internal/service"
)

func summaryCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Show savings progress and projections",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSummary(cmd, e)
		},
	}
}

func runSummary(cmd *cobra.Command, e *env) error {
	summary, err := e.session.CurrentSummary(cmd.Context())
	if err != nil {
		return err
	}
	printSummary(cmd.OutOrStdout(), summary)
	return nil
}

func watchCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Print the summary again on every change until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			sub, err := e.session.Summary()
			if err != nil {
				return err
			}
			defer sub.Close()

			ctx, cancel := context.WithCancel(ctx)
			defer cancel()
			g, ctx := errgroup.WithContext(ctx)

			// Writes from other ahorros processes reach this one through Run.
			g.Go(func() error {
				return e.app.Run(ctx)
			})

			g.Go(func() error {
				defer cancel()
				w := cmd.OutOrStdout()
				for {
					select {
					case <-ctx.Done():
						return nil
					case summary, ok := <-sub.C():
						if !ok {
							return nil
						}
						printSummary(w, summary)
						fmt.Fprintln(w)
					}
				}
			})

			return g.Wait()
		},
	}
}

func printSummary(w io.Writer, s *service.Summary) {
	printTitle(w, "Ahorros")

	printField(w, "Total saved", s.Display.TotalSaved)
	printField(w, "Monthly average", s.Display.AverageMonthly)
	printField(w, "Conservative pace", s.Display.ConservativeMonthly)
	printField(w, "Ambitious pace", s.Display.AmbitiousMonthly)
	if s.History.ActiveMonths == 0 {
		fmt.Fprintln(w, warnStyle.Render("No contributions yet, paces come from settings."))
	}

	printSection(w, "Goals")
	if len(s.Goals) == 0 {
		printEmpty(w, "No goals yet.")
		return
	}

	rows := make([][]string, 0, len(s.Goals))
	for _, g := range s.Goals {
		name := g.Goal.Name
		if g.Goal.SharedWithMe {
			name += " (" + g.Goal.OwnerEmail + ")"
		}
		rows = append(rows, []string{
			name,
			g.Display.Target,
			g.Display.Percent,
			g.Display.Remaining,
			g.Display.Conservative,
			g.Display.Ambitious,
		})
	}
	fmt.Fprintln(w, renderTable([]string{"Goal", "Target", "Progress", "Remaining", "Conservative", "Ambitious"}, rows))
}
