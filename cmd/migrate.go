package main

import (
	"errors"

	"github.com/i-pranav/TLE-ACodeDaily/internal/database"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:       "migrate [up|down]",
	Short:     "Apply or roll back the database schema",
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"up", "down"},
	RunE: func(cmd *cobra.Command, args []string) error {
		dbURL := resolveDBURL(cmd)
		if dbURL == "" {
			return errors.New("dbURL not found")
		}
		if args[0] == "down" {
			if err := database.MigrateDown(dbURL); err != nil {
				return err
			}
			log.Info("schema rolled back")
			return nil
		}
		if err := database.Migrate(dbURL); err != nil {
			return err
		}
		log.Info("schema is up to date")
		return nil
	},
}
