package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/anzeb/placekeeper/internal/model"
	"github.com/anzeb/placekeeper/internal/store"
)

// PlaceCmd records a placement.
func PlaceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "place <item-id> <zone>",
		Short: "Record where an item was put",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			distribution, _ := cmd.Flags().GetString("type")
			routine, _ := cmd.Flags().GetString("routine")
			motive, _ := cmd.Flags().GetString("motive")
			seenWith, _ := cmd.Flags().GetInt64Slice("with")

			database, err := openDB()
			if err != nil {
				return err
			}
			defer database.Close()

			placement, err := store.RecordPlacement(cmd.Context(), database, store.NewPlacement{
				ItemID:       id,
				Zone:         args[1],
				Distribution: distribution,
				Routine:      routine,
				Motive:       motive,
				SeenWith:     seenWith,
			})
			if err != nil {
				return err
			}

			fmt.Printf("%s Placed item %d in %s (%s)\n",
				color.GreenString("✓"), placement.ItemID, placement.Zone, placement.Distribution)
			if len(placement.SeenWith) > 0 {
				fmt.Printf("  Seen with: %v\n", placement.SeenWith)
			}
			return nil
		},
	}

	cmd.Flags().String("type", model.DistributionPlaced,
		"distribution type: placed, stack, spread, lose or discard")
	cmd.Flags().String("routine", "", "routine context, e.g. \"night routine\"")
	cmd.Flags().String("motive", "", "why the item moved, e.g. \"reachability\"")
	cmd.Flags().Int64Slice("with", nil, "ids of items present at the same time")
	return cmd
}

// NeighborsCmd lists the items most often seen with an item.
func NeighborsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "neighbors <item-id>",
		Short: "List items observed together with an item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			database, err := openDB()
			if err != nil {
				return err
			}
			defer database.Close()

			neighbors, err := store.Neighbors(cmd.Context(), database, id)
			if err != nil {
				return err
			}
			if len(neighbors) == 0 {
				fmt.Println("No co-presence observations yet.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tTIMES SEEN\tLAST SEEN")
			for _, n := range neighbors {
				fmt.Fprintf(w, "%d\t%s\t%d\t%s\n",
					n.ItemID, n.Name, n.Frequency,
					n.LastSeen.Local().Format("2006-01-02 15:04"))
			}
			return w.Flush()
		},
	}
}
