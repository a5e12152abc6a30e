package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mindhaven/go-companion-core/internal/identity"
)

var profileCmd = &cobra.Command{
	Use:   "profile <email>",
	Short: "Look up a hosted profile by email",
	Long: `Fetches the user's profile from the configured Supabase project.
Requires SUPABASE_URL and SUPABASE_ANON_KEY to be set; all journal and
mood data stays local regardless.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.Identity.SupabaseURL == "" {
			return fmt.Errorf("identity backend not configured (set SUPABASE_URL)")
		}

		client, err := identity.New(identity.Config{
			URL:    cfg.Identity.SupabaseURL,
			APIKey: cfg.Identity.SupabaseKey,
		})
		if err != nil {
			return err
		}

		profile, err := client.ProfileByEmail(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		fmt.Printf("Profile %s\n", profile.ID)
		fmt.Printf("  name:     %s\n", profile.DisplayName)
		fmt.Printf("  email:    %s\n", profile.Email)
		if profile.Timezone != "" {
			fmt.Printf("  timezone: %s\n", profile.Timezone)
		}
		fmt.Printf("  check-in reminder: %v\n", profile.CheckInReminder)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(profileCmd)
}
