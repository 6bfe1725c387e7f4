package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mpavlovic/racuni/internal/config"
	"github.com/mpavlovic/racuni/internal/workday"
)

func newGateCmd() *cobra.Command {
	var day int

	cmd := &cobra.Command{
		Use:   "gate",
		Short: "Check whether today is the configured working day of the month",
		Long: `Report which working day of the month today is. Exits zero when it matches
the gate day (--day, or gate_day from the config), non-zero otherwise, so the
command can guard other jobs in a shell pipeline.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			gateDay := day
			if gateDay == 0 {
				cfg, err := config.Load()
				if err != nil {
					return fmt.Errorf("invalid configuration: %w", err)
				}
				gateDay = cfg.GateDay
			}

			now := time.Now()
			fmt.Fprintf(cmd.OutOrStdout(), "Today is working day %d of the month (gate day: %d)\n",
				workday.OfMonth(now), gateDay)

			if !workday.IsNth(now, gateDay) {
				return fmt.Errorf("gate closed: today is not working day %d", gateDay)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&day, "day", 0, "Working day of the month to gate on (default: gate_day from config)")
	return cmd
}
