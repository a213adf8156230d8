package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/m04kA/SMC-LessonBookingService/internal/domain"
	"github.com/m04kA/SMC-LessonBookingService/internal/service/pricing"
)

func newQuoteCommand(ctx *commandContext) *cobra.Command {
	var (
		duration int
		rate     int
	)

	cmd := &cobra.Command{
		Use:   "quote",
		Short: "Calculate the price of a lesson",
		RunE: func(cmd *cobra.Command, args []string) error {
			if duration < domain.MinSlotDurationMinutes || duration > domain.MaxSlotDurationMinutes {
				return fmt.Errorf("duration must be between %d and %d minutes",
					domain.MinSlotDurationMinutes, domain.MaxSlotDurationMinutes)
			}

			if rate <= 0 {
				cfg, err := ctx.config()
				if err != nil {
					return err
				}
				rate = cfg.Booking.DefaultHourlyRate
			}

			price := pricing.NewCalculator(rate).Price(duration, nil)
			fmt.Fprintf(cmd.OutOrStdout(), "%d min at %d/h = %d\n", duration, rate, price)
			return nil
		},
	}

	cmd.Flags().IntVarP(&duration, "duration", "d", domain.DefaultSlotDurationMinutes, "Lesson duration in minutes")
	cmd.Flags().IntVarP(&rate, "rate", "r", 0, "Hourly rate (default from config)")

	return cmd
}
