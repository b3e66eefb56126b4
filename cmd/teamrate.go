package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/i-pranav/TLE-ACodeDaily/internal/codeforces"
	"github.com/i-pranav/TLE-ACodeDaily/internal/database/memstore"
	"github.com/i-pranav/TLE-ACodeDaily/internal/service/rating_service"
	"github.com/i-pranav/TLE-ACodeDaily/internal/service/user_service"
	"github.com/spf13/cobra"
)

var teamrateCmd = &cobra.Command{
	Use:   "teamrate handle[*n]...",
	Short: "Print the combined rating of a team",
	Long: "Composes the codeforces ratings of the handles into one team rating.\n" +
		"A handle written as tourist*3 counts three times.",
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		peak, _ := cmd.Flags().GetBool("peak")

		judge, err := codeforces.NewClient(os.Getenv(KeyCFApiURL))
		if err != nil {
			return err
		}
		rs := &rating_service.RatingService{
			Users: &user_service.UserService{DB: memstore.New(), Judge: judge},
		}
		team, err := rs.TeamRate(cmd.Context(), 0, rating_service.TeamRateRequest{
			Handles: args,
			Peak:    peak,
		})
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%s: %d\n", team.Label, team.Rating)
		if len(team.Unrated) > 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "ignored unrated: %s\n", strings.Join(team.Unrated, ", "))
		}
		return nil
	},
}

func init() {
	teamrateCmd.Flags().Bool("peak", false, "use max ratings instead of current ones")
}
