package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"strings"

	"github.com/spf13/cobra"

	"github.com/teemow/slotkeeper/internal/coaching"
	"github.com/teemow/slotkeeper/internal/config"
	"github.com/teemow/slotkeeper/internal/host"
)

func newHostCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "host",
		Short: "Inspect the host schedule",
	}
	cmd.AddCommand(newHostListCmd())
	return cmd
}

func newHostListCmd() *cobra.Command {
	var seedFile string

	cmd := &cobra.Command{
		Use:   "list <date>",
		Short: "Print the host availability for a date (YYYY-MM-DD)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Defaults()
			cfg.SeedFile = seedFile

			store, err := newHostStore(cfg, slog.New(slog.DiscardHandler))
			if err != nil {
				return err
			}
			availability, err := store.ListAvailability(args[0])
			if err != nil {
				return err
			}
			printAvailability(cmd.OutOrStdout(), availability)
			return nil
		},
	}

	cmd.Flags().StringVar(&seedFile, config.KeySeedFile, "", "YAML file with the host schedule (default: built-in week)")

	return cmd
}

func printAvailability(w io.Writer, a *host.Availability) {
	fmt.Fprintln(w, a.Message())
	if !a.Scheduled {
		return
	}

	available := "none"
	if len(a.AvailableSlots) > 0 {
		available = strings.Join(a.AvailableSlots, ", ")
	}
	fmt.Fprintf(w, "Available: %s\n", available)

	if a.BookedSlots.Len() == 0 {
		return
	}
	fmt.Fprintln(w, "Booked:")
	for pair := a.BookedSlots.Oldest(); pair != nil; pair = pair.Next() {
		fmt.Fprintf(w, "  %s  %s\n", pair.Key, pair.Value)
	}
}

func newCoachingCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "coaching",
		Short: "Inspect the coaching calendar",
	}
	cmd.AddCommand(newCoachingAvailabilityCmd())
	return cmd
}

func newCoachingAvailabilityCmd() *cobra.Command {
	var (
		days int
		seed uint64
	)

	cmd := &cobra.Command{
		Use:   "availability <start-date> <end-date>",
		Short: "Print open coaching slots from start-date to end-date inclusive",
		Long: `Generate a coaching calendar starting today and print the open slots for
every day in the range. The calendar is random unless --seed is set.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := coaching.Options{Days: days}
			if seed != 0 {
				opts.Rand = rand.New(rand.NewPCG(seed, seed))
			}

			calendar, err := coaching.Generate(opts)
			if err != nil {
				return fmt.Errorf("failed to generate coaching calendar: %w", err)
			}
			text, err := calendar.Availability(args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), text)
			return nil
		},
	}

	cmd.Flags().IntVar(&days, config.KeyCoachingDays, coaching.DefaultDays, "Number of days covered by the coaching calendar")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "Seed for the slot generator (0 picks a random seed)")

	return cmd
}
