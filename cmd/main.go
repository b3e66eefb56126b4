package main

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const (
	KeyDBURL                 = "DB_URL"
	KeyPort                  = "PORT"
	KeyApiURL                = "API_URL"
	KeyCFApiURL              = "CF_API_URL"
	KeyLadderFile            = "LADDER_FILE"
	KeyContestWritersFile    = "CONTEST_WRITERS_FILE"
	KeyCatalogRefreshMinutes = "CATALOG_REFRESH_MINUTES"
	KeyMorePointsStart       = "GITGUD_MORE_POINTS_START"
	KeyLogLevel              = "LOG_LEVEL"
)

var rootCmd = &cobra.Command{
	Use:   "tle",
	Short: "Problem recommendations and challenges for competitive programmers",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupLogging()
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().String("db-url", "", "postgres url (overrides DB_URL)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(teamrateCmd)
}

func main() {
	// a missing .env is fine, the environment may be set already
	if err := godotenv.Load(); err != nil {
		log.Debugf("no .env loaded, %v", err)
	}
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func setupLogging() {
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	level, err := log.ParseLevel(envOr(KeyLogLevel, "info"))
	if err != nil {
		log.Warnf("unknown log level, using info: %v", err)
		level = log.InfoLevel
	}
	log.SetLevel(level)
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Warnf("%s is not an integer, using %d", key, def)
		return def
	}
	return n
}

// resolveDBURL prefers the --db-url flag over DB_URL.
func resolveDBURL(cmd *cobra.Command) string {
	if u, _ := cmd.Flags().GetString("db-url"); u != "" {
		return u
	}
	return os.Getenv(KeyDBURL)
}
