package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var (
	journalPage     int
	journalPageSize int
)

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Write and browse journal entries",
}

var journalAddCmd = &cobra.Command{
	Use:   "add <text>...",
	Short: "Write a journal entry for today",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, closer, err := openProgress(cmd.Context())
		if err != nil {
			return err
		}
		defer closer()

		entry, streak, err := svc.AddJournalEntry(cmd.Context(), strings.Join(args, " "))
		if err != nil {
			return err
		}

		fmt.Printf("Saved entry %s for %s.\n", entry.ID, entry.CalendarDate)
		fmt.Printf("Current streak: %d day(s).\n", streak)

		badges, err := svc.Badges(cmd.Context())
		if err != nil {
			return err
		}
		for _, b := range badges {
			if b.Earned {
				fmt.Printf("  earned: %s\n", b.Name)
			}
		}
		return nil
	},
}

var journalListCmd = &cobra.Command{
	Use:   "list",
	Short: "List journal entries, most recent first",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, closer, err := openProgress(cmd.Context())
		if err != nil {
			return err
		}
		defer closer()

		entries, total, err := svc.ListJournalPage(cmd.Context(), journalPage, journalPageSize)
		if err != nil {
			return err
		}
		if total == 0 {
			fmt.Println("No entries yet. Start with: companion journal add <text>")
			return nil
		}

		fmt.Printf("%d entrie(s), page %d:\n", total, journalPage)
		for _, e := range entries {
			title := svc.EntryTitle(e.Content)
			if title == "" {
				title = "(untitled)"
			}
			fmt.Printf("  %s  %s  %s\n", e.CalendarDate, e.ID, title)
		}
		return nil
	},
}

var journalSearchLimit int

var journalSearchCmd = &cobra.Command{
	Use:   "search <query>...",
	Short: "Search past journal entries",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, closer, err := openProgress(cmd.Context())
		if err != nil {
			return err
		}
		defer closer()

		results, err := svc.SearchJournal(cmd.Context(), strings.Join(args, " "), journalSearchLimit)
		if err != nil {
			return err
		}
		if len(results) == 0 {
			fmt.Println("No matching entries.")
			return nil
		}
		for _, r := range results {
			fmt.Printf("  %s  %s  %s\n", r.Entry.Date, r.Entry.ID, svc.EntryTitle(r.Entry.Content))
		}
		return nil
	},
}

var journalDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a journal entry by ID",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, closer, err := openProgress(cmd.Context())
		if err != nil {
			return err
		}
		defer closer()

		if err := svc.DeleteJournalEntry(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Println("Entry deleted. Streaks already earned are kept.")
		return nil
	},
}

func init() {
	journalListCmd.Flags().IntVar(&journalPage, "page", 1, "page number")
	journalListCmd.Flags().IntVar(&journalPageSize, "size", 20, "entries per page")

	journalSearchCmd.Flags().IntVar(&journalSearchLimit, "limit", 5, "maximum results")

	journalCmd.AddCommand(journalAddCmd, journalListCmd, journalSearchCmd, journalDeleteCmd)
	rootCmd.AddCommand(journalCmd)
}
