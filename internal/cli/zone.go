package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/anzeb/placekeeper/internal/store"
)

// ZoneCmd manages zones.
func ZoneCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "zone",
		Short: "Manage zones",
	}
	cmd.AddCommand(zoneAddCmd(), zoneListCmd(), zoneItemsCmd())
	return cmd
}

func zoneAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Register a new zone",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			description, _ := cmd.Flags().GetString("description")

			database, err := openDB()
			if err != nil {
				return err
			}
			defer database.Close()

			zone, err := store.CreateZone(cmd.Context(), database, args[0], description)
			if err != nil {
				return err
			}
			fmt.Printf("%s Added zone %d: %s\n", color.GreenString("✓"), zone.ID, zone.Name)
			return nil
		},
	}
	cmd.Flags().String("description", "", "zone description")
	return cmd
}

func zoneListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all zones",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			database, err := openDB()
			if err != nil {
				return err
			}
			defer database.Close()

			zones, err := store.ListZones(cmd.Context(), database)
			if err != nil {
				return err
			}
			if len(zones) == 0 {
				fmt.Println("No zones registered.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tDESCRIPTION")
			for _, z := range zones {
				fmt.Fprintf(w, "%d\t%s\t%s\n", z.ID, z.Name, z.Description)
			}
			return w.Flush()
		},
	}
}

func zoneItemsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "items <name>",
		Short: "List items whose latest placement landed in a zone",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			database, err := openDB()
			if err != nil {
				return err
			}
			defer database.Close()

			items, err := store.ItemsInZone(cmd.Context(), database, args[0])
			if err != nil {
				return err
			}
			if len(items) == 0 {
				fmt.Printf("No items currently in %s.\n", args[0])
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tCATEGORY\tTYPE\tSINCE")
			for _, zi := range items {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n",
					zi.ItemID, zi.Name, zi.Category, zi.Distribution,
					zi.PlacedAt.Local().Format("2006-01-02 15:04"))
			}
			return w.Flush()
		},
	}
}
