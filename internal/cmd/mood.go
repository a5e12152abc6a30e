package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mindhaven/go-companion-core/internal/domain"
)

var (
	moodNote     string
	moodPage     int
	moodPageSize int
)

var moodCmd = &cobra.Command{
	Use:   "mood",
	Short: "Record and browse daily mood check-ins",
}

var moodAddCmd = &cobra.Command{
	Use:   "add <1-5>",
	Short: "Record today's mood (1 = very sad, 5 = very happy)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		value, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("mood must be a number between 1 and 5")
		}

		svc, closer, err := openProgress(cmd.Context())
		if err != nil {
			return err
		}
		defer closer()

		entry, err := svc.AddMoodEntry(cmd.Context(), value, moodNote)
		if err != nil {
			return err
		}

		fmt.Printf("Recorded %s for %s.\n", entry.Label, entry.CalendarDate)
		streak, err := svc.MoodStreak(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("Check-in streak: %d day(s).\n", streak)
		return nil
	},
}

var moodListCmd = &cobra.Command{
	Use:   "list",
	Short: "List mood check-ins, most recent first",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, closer, err := openProgress(cmd.Context())
		if err != nil {
			return err
		}
		defer closer()

		entries, total, err := svc.ListMoodPage(cmd.Context(), moodPage, moodPageSize)
		if err != nil {
			return err
		}
		if total == 0 {
			fmt.Println("No check-ins yet. Start with: companion mood add <1-5>")
			return nil
		}

		fmt.Printf("%d check-in(s), page %d:\n", total, moodPage)
		for _, e := range entries {
			line := fmt.Sprintf("  %s  %d/%d  %s", e.CalendarDate, e.Value, domain.MoodVeryHappy, e.Label)
			if e.Note != "" {
				line += "  " + e.Note
			}
			fmt.Println(line)
		}
		return nil
	},
}

var moodDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a mood check-in by ID",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, closer, err := openProgress(cmd.Context())
		if err != nil {
			return err
		}
		defer closer()

		if err := svc.DeleteMoodEntry(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Println("Check-in deleted. Streaks already earned are kept.")
		return nil
	},
}

func init() {
	moodAddCmd.Flags().StringVar(&moodNote, "note", "", "optional note for today's check-in")
	moodListCmd.Flags().IntVar(&moodPage, "page", 1, "page number")
	moodListCmd.Flags().IntVar(&moodPageSize, "size", 20, "check-ins per page")

	moodCmd.AddCommand(moodAddCmd, moodListCmd, moodDeleteCmd)
	rootCmd.AddCommand(moodCmd)
}
