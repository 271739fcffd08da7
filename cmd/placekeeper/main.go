package main

import (
	"fmt"
	"os"

	"github.com/anzeb/placekeeper/internal/cli"
)

func main() {
	if err := cli.Root().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
