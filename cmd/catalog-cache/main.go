package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "catalog-cache",
		Short: "Product catalog with a read-through query cache",
		Long:  "Serve the product catalog API with bounded TTL/LRU caching of search and filter results",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(configCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
