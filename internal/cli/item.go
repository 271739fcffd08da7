package cli

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/anzeb/placekeeper/internal/imaging"
	"github.com/anzeb/placekeeper/internal/metrics"
	"github.com/anzeb/placekeeper/internal/model"
	"github.com/anzeb/placekeeper/internal/store"
	"github.com/anzeb/placekeeper/internal/tagreader"
)

// ItemCmd manages tracked items.
func ItemCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "item",
		Short: "Manage tracked items",
	}
	cmd.AddCommand(
		itemRegisterCmd(),
		itemListCmd(),
		itemStatusCmd(),
		itemUpdateCmd(),
		itemDeleteCmd(),
		itemHistoryCmd(),
		itemPhotoCmd(),
	)
	return cmd
}

func itemRegisterCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "register <name>",
		Short: "Register a new item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			category, _ := cmd.Flags().GetString("category")
			tag, _ := cmd.Flags().GetString("tag")
			scan, _ := cmd.Flags().GetBool("scan")
			unit, _ := cmd.Flags().GetString("unit")

			if scan {
				scanned, err := scanTag(cmd)
				if err != nil {
					return err
				}
				tag = scanned
			}

			purchaseDate, err := dateFlag(cmd, "purchase-date")
			if err != nil {
				return err
			}

			database, err := openDB()
			if err != nil {
				return err
			}
			defer database.Close()

			item, err := store.CreateItem(cmd.Context(), database, store.NewItem{
				TagID:           tag,
				Name:            args[0],
				Category:        category,
				PurchaseDate:    purchaseDate,
				LifespanDays:    intFlag(cmd, "lifespan-days"),
				Quantity:        intFlag(cmd, "quantity"),
				RefillThreshold: intFlag(cmd, "threshold"),
				Unit:            unit,
			})
			if err != nil {
				return err
			}

			fmt.Printf("%s Registered item %d: %s (%s)\n",
				color.GreenString("✓"), item.ID, item.Name, item.Category)
			if item.TagID != "" {
				fmt.Printf("  Tag: %s\n", item.TagID)
			}
			return nil
		},
	}

	cmd.Flags().String("category", "", "item category: good_stuff, refillable or disposable")
	cmd.Flags().String("tag", "", "external tag identifier")
	cmd.Flags().Bool("scan", false, "read the tag identifier from the tag reader")
	cmd.Flags().String("purchase-date", "", "purchase date, YYYY-MM-DD (good_stuff)")
	cmd.Flags().Int("lifespan-days", 0, "expected lifespan in days (good_stuff)")
	cmd.Flags().Int("quantity", 0, "current quantity (refillable)")
	cmd.Flags().Int("threshold", 0, "refill threshold (refillable)")
	cmd.Flags().String("unit", "", "unit label (refillable)")
	cmd.MarkFlagRequired("category")
	return cmd
}

func itemListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all items",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			database, err := openDB()
			if err != nil {
				return err
			}
			defer database.Close()

			items, err := store.ListItems(cmd.Context(), database)
			if err != nil {
				return err
			}
			if len(items) == 0 {
				fmt.Println("No items registered.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tCATEGORY\tTAG")
			for _, item := range items {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", item.ID, item.Name, item.Category, item.TagID)
			}
			return w.Flush()
		},
	}
}

func itemStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status <id>",
		Short: "Show an item's lifecycle status and latest placement",
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

			item, err := store.GetItem(cmd.Context(), database, id)
			if err != nil {
				return err
			}

			fmt.Printf("%s (%s)\n", item.Name, item.Category)
			if item.TagID != "" {
				fmt.Printf("  Tag: %s\n", item.TagID)
			}

			now := time.Now()
			switch item.Category {
			case model.CategoryGoodStuff:
				health := metrics.Health(*item.PurchaseDate, *item.LifespanDays, now)
				fmt.Printf("  Purchased: %s, expected lifespan %d days\n",
					item.PurchaseDate.Format("2006-01-02"), *item.LifespanDays)
				fmt.Printf("  Health: %s\n", colorHealth(health))
			case model.CategoryRefillable:
				fmt.Printf("  Quantity: %d %s (refill at %d)\n",
					*item.Quantity, item.Unit, *item.RefillThreshold)
				if metrics.RefillNeeded(*item.Quantity, *item.RefillThreshold) {
					fmt.Printf("  %s refill needed\n", color.RedString("!"))
				}
			}

			history, err := store.GetPlacementHistory(cmd.Context(), database, id)
			if err != nil {
				return err
			}
			if len(history) > 0 {
				latest := history[0]
				fmt.Printf("  Last seen: %s (%s) at %s\n",
					latest.Zone, latest.Distribution, latest.PlacedAt.Local().Format("2006-01-02 15:04"))
			}
			return nil
		},
	}
}

func itemUpdateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update an item's fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			purchaseDate, err := dateFlag(cmd, "purchase-date")
			if err != nil {
				return err
			}

			database, err := openDB()
			if err != nil {
				return err
			}
			defer database.Close()

			item, err := store.UpdateItem(cmd.Context(), database, id, store.ItemUpdate{
				TagID:           strFlag(cmd, "tag"),
				Name:            strFlag(cmd, "name"),
				Category:        strFlag(cmd, "category"),
				PurchaseDate:    purchaseDate,
				LifespanDays:    intFlag(cmd, "lifespan-days"),
				Quantity:        intFlag(cmd, "quantity"),
				RefillThreshold: intFlag(cmd, "threshold"),
				Unit:            strFlag(cmd, "unit"),
			})
			if err != nil {
				return err
			}

			fmt.Printf("%s Updated item %d: %s (%s)\n",
				color.GreenString("✓"), item.ID, item.Name, item.Category)
			return nil
		},
	}

	cmd.Flags().String("name", "", "item name")
	cmd.Flags().String("tag", "", "external tag identifier")
	cmd.Flags().String("category", "", "item category")
	cmd.Flags().String("purchase-date", "", "purchase date, YYYY-MM-DD (good_stuff)")
	cmd.Flags().Int("lifespan-days", 0, "expected lifespan in days (good_stuff)")
	cmd.Flags().Int("quantity", 0, "current quantity (refillable)")
	cmd.Flags().Int("threshold", 0, "refill threshold (refillable)")
	cmd.Flags().String("unit", "", "unit label (refillable)")
	return cmd
}

func itemDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an item and its placement history",
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

			if err := store.DeleteItem(cmd.Context(), database, id); err != nil {
				return err
			}
			fmt.Printf("%s Deleted item %d\n", color.GreenString("✓"), id)
			return nil
		},
	}
}

func itemHistoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history <id>",
		Short: "Show an item's placements, newest first",
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

			history, err := store.GetPlacementHistory(cmd.Context(), database, id)
			if err != nil {
				return err
			}
			if len(history) == 0 {
				fmt.Println("No placements recorded.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "WHEN\tZONE\tTYPE\tROUTINE\tMOTIVE")
			for _, p := range history {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
					p.PlacedAt.Local().Format("2006-01-02 15:04"),
					p.Zone, p.Distribution, p.Routine, p.Motive)
			}
			return w.Flush()
		},
	}
}

func itemPhotoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "photo <id> <file>",
		Short: "Attach a photo to an item",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			data, err := os.ReadFile(args[1])
			if err != nil {
				return fmt.Errorf("reading photo: %w", err)
			}

			processed, mime, err := imaging.Process(data)
			if err != nil {
				return err
			}

			database, err := openDB()
			if err != nil {
				return err
			}
			defer database.Close()

			if err := store.SetItemPhoto(cmd.Context(), database, id, processed, mime); err != nil {
				return err
			}
			fmt.Printf("%s Photo attached to item %d (%d KiB)\n",
				color.GreenString("✓"), id, len(processed)/1024)
			return nil
		},
	}
}

// scanTag reads a tag identifier from the attached reader.
func scanTag(cmd *cobra.Command) (string, error) {
	var reader tagreader.Reader = tagreader.None{}
	if !reader.Available() {
		return "", fmt.Errorf("no tag reader connected")
	}
	tag, err := reader.Scan(cmd.Context())
	if err != nil {
		return "", fmt.Errorf("scanning tag: %w", err)
	}
	return tag, nil
}

func colorHealth(health float64) string {
	text := fmt.Sprintf("%.0f%%", health)
	switch {
	case health < metrics.AttentionHealth:
		return color.RedString(text)
	case health < 50:
		return color.YellowString(text)
	default:
		return color.GreenString(text)
	}
}
