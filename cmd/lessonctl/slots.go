package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/m04kA/SMC-LessonBookingService/internal/domain"
	availabilityRepo "github.com/m04kA/SMC-LessonBookingService/internal/infra/storage/availability"
	bookingRepo "github.com/m04kA/SMC-LessonBookingService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-LessonBookingService/internal/service/availability"
	"github.com/m04kA/SMC-LessonBookingService/internal/service/slots"
	getAvailableSlotsUC "github.com/m04kA/SMC-LessonBookingService/internal/usecase/get_available_slots"
	"github.com/m04kA/SMC-LessonBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-LessonBookingService/pkg/keylock"
	"github.com/m04kA/SMC-LessonBookingService/pkg/logger"
	"github.com/m04kA/SMC-LessonBookingService/pkg/sqlbuilder"
	"github.com/m04kA/SMC-LessonBookingService/pkg/txmanager"
)

func newSlotsCommand(ctx *commandContext) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "slots [teacher-id]",
		Short: "Show bookable slots of a teacher, or of every teacher with a schedule",
		Args: func(cmd *cobra.Command, args []string) error {
			if all {
				return cobra.NoArgs(cmd, args)
			}
			return cobra.ExactArgs(1)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			var teacherIDs []int64
			if !all {
				teacherID, err := strconv.ParseInt(args[0], 10, 64)
				if err != nil || teacherID <= 0 {
					return fmt.Errorf("invalid teacher id %q", args[0])
				}
				teacherIDs = []int64{teacherID}
			}

			cfg, err := ctx.config()
			if err != nil {
				return err
			}
			location, err := cfg.Booking.Location()
			if err != nil {
				return err
			}
			tolerance, err := cfg.Booking.DisplayToleranceDuration()
			if err != nil {
				return err
			}

			sqlDB, opts, err := ctx.openDB(cmd.Context())
			if err != nil {
				return err
			}
			defer sqlDB.Close()

			db := dbmetrics.Wrap(sqlDB, nil)
			sb := sqlbuilder.New(opts.Dialect)
			log := logger.NewNop()

			templates := availabilityRepo.NewRepository(db, sb)

			if all {
				teacherIDs, err = templates.ListTeacherIDs(cmd.Context())
				if err != nil {
					return err
				}
				if len(teacherIDs) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "no teachers with availability")
					return nil
				}
			}

			availabilitySvc := availability.NewService(
				templates,
				txmanager.NewTransactionManager(db, opts.Dialect),
				keylock.New(),
				&availability.RealTimeProvider{},
				log,
			)
			useCase := getAvailableSlotsUC.NewUseCase(
				bookingRepo.NewRepository(db, sb),
				availabilitySvc,
				slots.NewFilter(cfg.Booking.Policy(), tolerance),
				getAvailableSlotsUC.Options{
					Location:    location,
					HorizonDays: cfg.Booking.HorizonDays,
					Tolerance:   tolerance,
				},
				log,
			)

			for _, teacherID := range teacherIDs {
				resp, err := useCase.Execute(cmd.Context(), &getAvailableSlotsUC.Request{TeacherID: teacherID})
				if err != nil {
					return err
				}
				printSlots(cmd.OutOrStdout(), resp)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "list every teacher that has saved availability")
	return cmd
}

func printSlots(out io.Writer, resp *getAvailableSlotsUC.Response) {
	fmt.Fprintf(out, "teacher %d, %s .. %s (%s)\n", resp.TeacherID,
		resp.From.Format(domain.DateFormat), resp.To.Format(domain.DateFormat), resp.Timezone)
	if len(resp.Slots) == 0 {
		fmt.Fprintln(out, "no bookable slots")
		return
	}

	rows := make([][]string, 0, len(resp.Slots))
	for _, s := range resp.Slots {
		rows = append(rows, []string{
			s.Date.Format(domain.DateFormat),
			domain.WeekdayOf(s.Date).String(),
			s.StartTime.String(),
			strconv.Itoa(s.DurationMinutes),
			s.StartsAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
		})
	}

	fmt.Fprintln(out, renderTable(
		[]string{"Date", "Day", "Start", "Minutes", "Starts at (UTC)"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignLeft},
	))
}
