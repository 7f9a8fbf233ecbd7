package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/templui/ahorros/internal/model"
)

func settingsCmd(e *env) *cobra.Command {
	var conservative, ambitious float64
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change the fallback monthly rates",
		Long:  "Show the fallback monthly rates used before any contribution exists. Pass --conservative or --ambitious to change them.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var patch model.SettingsPatch
			if cmd.Flags().Changed("conservative") {
				patch.ConservativeMonthly = &conservative
			}
			if cmd.Flags().Changed("ambitious") {
				patch.AmbitiousMonthly = &ambitious
			}

			var (
				settings model.Settings
				err      error
			)
			if patch.ConservativeMonthly == nil && patch.AmbitiousMonthly == nil {
				settings, err = e.session.Settings(cmd.Context())
			} else {
				settings, err = e.session.UpdateSettings(cmd.Context(), patch)
			}
			if err != nil {
				return err
			}

			f := e.formatter()
			w := cmd.OutOrStdout()
			printField(w, "Conservative monthly", f.Monthly(settings.ConservativeMonthly))
			printField(w, "Ambitious monthly", f.Monthly(settings.AmbitiousMonthly))
			return nil
		},
	}
	cmd.Flags().Float64Var(&conservative, "conservative", 0, "Conservative monthly rate")
	cmd.Flags().Float64Var(&ambitious, "ambitious", 0, "Ambitious monthly rate")
	return cmd
}

// parseAmount accepts plain numbers with an optional currency prefix and
// thousands separators, e.g. "US$ 1,250.50".
func parseAmount(s string) (float64, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimLeft(s, "US$€ ")
	s = strings.ReplaceAll(s, ",", "")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q", s)
	}
	return v, nil
}
