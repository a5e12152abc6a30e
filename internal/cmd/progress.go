package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var streakCmd = &cobra.Command{
	Use:   "streak",
	Short: "Show current journal and mood streaks",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, closer, err := openProgress(cmd.Context())
		if err != nil {
			return err
		}
		defer closer()

		journal, last, err := svc.JournalStreak(cmd.Context())
		if err != nil {
			return err
		}
		mood, err := svc.MoodStreak(cmd.Context())
		if err != nil {
			return err
		}

		if last == "" {
			fmt.Println("Journal streak: not started yet")
		} else {
			fmt.Printf("Journal streak: %d day(s), last entry %s\n", journal, last)
		}
		fmt.Printf("Mood check-in streak: %d day(s)\n", mood)
		return nil
	},
}

var badgesCmd = &cobra.Command{
	Use:   "badges",
	Short: "Show earned and upcoming badges",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, closer, err := openProgress(cmd.Context())
		if err != nil {
			return err
		}
		defer closer()

		badges, err := svc.Badges(cmd.Context())
		if err != nil {
			return err
		}
		for _, b := range badges {
			mark := " "
			if b.Earned {
				mark = "x"
			}
			fmt.Printf("  [%s] %s: %s\n", mark, b.Name, b.Description)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(streakCmd, badgesCmd)
}
