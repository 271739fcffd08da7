package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/anzeb/placekeeper/internal/metrics"
	"github.com/anzeb/placekeeper/internal/model"
	"github.com/anzeb/placekeeper/internal/store"
)

// AttentionCmd lists items that need refill or replacement soon.
func AttentionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "attention",
		Short: "Show items needing refill or replacement",
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

			flagged := metrics.NeedsAttention(items, time.Now())
			if len(flagged) == 0 {
				fmt.Printf("%s All items in good shape.\n", color.GreenString("✓"))
				return nil
			}

			for _, f := range flagged {
				switch f.Reason {
				case metrics.ReasonRefillNeeded:
					fmt.Printf("%s %s: %d %s left (refill at %d)\n",
						color.RedString("!"), f.Item.Name,
						*f.Item.Quantity, f.Item.Unit, *f.Item.RefillThreshold)
				case metrics.ReasonReplaceSoon:
					health := metrics.Health(*f.Item.PurchaseDate, *f.Item.LifespanDays, time.Now())
					fmt.Printf("%s %s: %.0f%% life remaining\n",
						color.YellowString("!"), f.Item.Name, health)
				}
			}
			return nil
		},
	}
}

// PatternsCmd shows placement counts by distribution type and zone.
func PatternsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "patterns",
		Short: "Show distribution patterns",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			database, err := openDB()
			if err != nil {
				return err
			}
			defer database.Close()

			placements, err := store.ListPlacements(cmd.Context(), database)
			if err != nil {
				return err
			}

			report := metrics.DistributionPatterns(placements)

			fmt.Println("By type:")
			for _, t := range model.DistributionTypes {
				fmt.Printf("  %-8s %d\n", t, report.ByType[t])
			}

			if len(report.ByZone) > 0 {
				fmt.Println("By zone:")
				zones, err := store.ListZones(cmd.Context(), database)
				if err != nil {
					return err
				}
				printed := make(map[string]bool)
				for _, z := range zones {
					if count, ok := report.ByZone[z.Name]; ok {
						fmt.Printf("  %-20s %d\n", z.Name, count)
						printed[z.Name] = true
					}
				}
				// Placements can name zones that were never registered.
				for zone, count := range report.ByZone {
					if !printed[zone] {
						fmt.Printf("  %-20s %d\n", zone, count)
					}
				}
			}
			return nil
		},
	}
}

// RoutinesCmd shows the placements grouped by routine.
func RoutinesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "routines",
		Short: "Show routine insights",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			database, err := openDB()
			if err != nil {
				return err
			}
			defer database.Close()

			placements, err := store.ListPlacements(cmd.Context(), database)
			if err != nil {
				return err
			}

			insights := metrics.RoutineInsights(placements)
			if len(insights) == 0 {
				fmt.Println("No placements recorded.")
				return nil
			}

			for _, insight := range insights {
				fmt.Printf("%s (%d placements)\n", insight.Routine, insight.Count)
				fmt.Printf("  zones: %s\n", strings.Join(insight.Zones, ", "))
				if len(insight.Motives) > 0 {
					fmt.Printf("  motives: %s\n", strings.Join(insight.Motives, ", "))
				}
				fmt.Printf("  items: %v\n", insight.ItemIDs)
			}
			return nil
		},
	}
}

// ForecastCmd estimates usage rate and days until refill from quantity
// observations supplied on the command line.
func ForecastCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "forecast <item-id>",
		Short: "Estimate days until an item needs a refill",
		Long: `Estimate an item's usage rate from quantity observations and project
when it will hit its refill threshold. Observations are DATE=QUANTITY
pairs, e.g. --obs 2026-08-01=40 --obs 2026-08-15=26.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			rawObs, _ := cmd.Flags().GetStringArray("obs")

			observations := make([]metrics.Observation, 0, len(rawObs))
			for _, raw := range rawObs {
				obs, err := parseObservation(raw)
				if err != nil {
					return err
				}
				observations = append(observations, obs)
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
			if item.Category != model.CategoryRefillable {
				return fmt.Errorf("item %d (%s) is not refillable", item.ID, item.Name)
			}

			rate := metrics.UsageRate(observations)
			fmt.Printf("Usage rate: %.2f %s/day\n", rate, item.Unit)

			days, ok := metrics.DaysUntilRefill(*item.Quantity, *item.RefillThreshold, rate)
			if !ok {
				fmt.Println("Refill estimate: unknown (no usage signal)")
				return nil
			}
			fmt.Printf("Refill needed in about %.1f days (%d %s left, refill at %d)\n",
				days, *item.Quantity, item.Unit, *item.RefillThreshold)
			return nil
		},
	}
	cmd.Flags().StringArray("obs", nil, "quantity observation as DATE=QUANTITY")
	return cmd
}

func parseObservation(raw string) (metrics.Observation, error) {
	date, qty, ok := strings.Cut(raw, "=")
	if !ok {
		return metrics.Observation{}, fmt.Errorf("invalid observation %q (expected DATE=QUANTITY)", raw)
	}
	at, err := time.Parse("2006-01-02", date)
	if err != nil {
		return metrics.Observation{}, fmt.Errorf("invalid observation date %q (expected YYYY-MM-DD)", date)
	}
	var quantity int
	if _, err := fmt.Sscanf(qty, "%d", &quantity); err != nil {
		return metrics.Observation{}, fmt.Errorf("invalid observation quantity %q", qty)
	}
	return metrics.Observation{At: at, Quantity: quantity}, nil
}
