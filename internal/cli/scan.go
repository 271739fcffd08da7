package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/anzeb/placekeeper/internal/store"
	"github.com/anzeb/placekeeper/internal/tagreader"
)

// ScanCmd reads a tag and looks up the item it identifies.
func ScanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scan",
		Short: "Scan a tag and look up the matching item",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var reader tagreader.Reader = tagreader.None{}
			if !reader.Available() {
				return fmt.Errorf("no tag reader connected")
			}

			tag, err := reader.Scan(cmd.Context())
			if err != nil {
				return fmt.Errorf("scanning tag: %w", err)
			}

			database, err := openDB()
			if err != nil {
				return err
			}
			defer database.Close()

			item, err := store.GetItemByTag(cmd.Context(), database, tag)
			if errors.Is(err, store.ErrNotFound) {
				return fmt.Errorf("tag %s is not registered to any item", tag)
			}
			if err != nil {
				return err
			}

			fmt.Printf("%s: %s (%s)\n", tag, item.Name, item.Category)
			return nil
		},
	}
}
