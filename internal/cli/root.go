// Package cli implements the placekeeper command tree. Commands are thin
// consumers of the store: they parse input, call one store or metrics
// operation, and present the result.
package cli

import (
	"database/sql"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/anzeb/placekeeper/internal/db"
)

var dbPath string

// Root builds the placekeeper command tree.
func Root() *cobra.Command {
	root := &cobra.Command{
		Use:           "placekeeper",
		Short:         "Track belongings, where they end up, and when they need care",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&dbPath, "db", "placekeeper.sqlite3", "path to the SQLite database file")

	root.AddCommand(
		ItemCmd(),
		ZoneCmd(),
		PlaceCmd(),
		NeighborsCmd(),
		AttentionCmd(),
		PatternsCmd(),
		RoutinesCmd(),
		ForecastCmd(),
		ExportCmd(),
		ImportCmd(),
		ServeCmd(),
		ScanCmd(),
	)
	return root
}

// openDB opens the database and ensures the schema exists.
func openDB() (*sql.DB, error) {
	database, err := db.Open(dbPath)
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(database); err != nil {
		database.Close()
		return nil, err
	}
	return database, nil
}

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid item id %q", arg)
	}
	return id, nil
}

// intFlag returns the flag value as a pointer, or nil when the flag was not
// given. The store treats nil as "not provided".
func intFlag(cmd *cobra.Command, name string) *int {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, _ := cmd.Flags().GetInt(name)
	return &v
}

func strFlag(cmd *cobra.Command, name string) *string {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, _ := cmd.Flags().GetString(name)
	return &v
}

func dateFlag(cmd *cobra.Command, name string) (*time.Time, error) {
	if !cmd.Flags().Changed(name) {
		return nil, nil
	}
	raw, _ := cmd.Flags().GetString(name)
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q (expected YYYY-MM-DD)", raw)
	}
	return &t, nil
}
