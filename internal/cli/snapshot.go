package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/anzeb/placekeeper/internal/store"
)

// ExportCmd writes the snapshot document to a file or stdout.
func ExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export [file]",
		Short: "Export a point-in-time snapshot as JSON",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			database, err := openDB()
			if err != nil {
				return err
			}
			defer database.Close()

			snap, err := store.ExportSnapshot(cmd.Context(), database, time.Now())
			if err != nil {
				return err
			}

			data, err := json.MarshalIndent(snap, "", "  ")
			if err != nil {
				return fmt.Errorf("encoding snapshot: %w", err)
			}

			if len(args) == 0 {
				fmt.Println(string(data))
				return nil
			}

			if err := os.WriteFile(args[0], data, 0644); err != nil {
				return fmt.Errorf("writing snapshot: %w", err)
			}
			fmt.Printf("%s Exported %d items, %d placements, %d zones to %s\n",
				color.GreenString("✓"), len(snap.Items), len(snap.Placements), len(snap.Zones), args[0])
			return nil
		},
	}
}

// ImportCmd replaces the store contents with a snapshot document.
func ImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Replace the store contents with a snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading snapshot: %w", err)
			}

			snap, err := store.ParseSnapshot(data)
			if err != nil {
				return err
			}

			database, err := openDB()
			if err != nil {
				return err
			}
			defer database.Close()

			if err := store.ImportSnapshot(cmd.Context(), database, snap); err != nil {
				return err
			}
			fmt.Printf("%s Imported %d items, %d placements, %d zones\n",
				color.GreenString("✓"), len(snap.Items), len(snap.Placements), len(snap.Zones))
			return nil
		},
	}
}
