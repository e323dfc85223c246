package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/localdrop/localdrop/internal/format"
)

var sizeOpts struct {
	decimals int
}

var sizeCmd = &cobra.Command{
	Use:   "size <bytes>...",
	Short: "Format byte counts as human-readable sizes",
	Long: `Format byte counts with decimal units (1 KB = 1000 bytes).

Examples:
  localdrop size 1536          # 1.5 KB
  localdrop size 0             # 0 B
  localdrop size -d 0 1048576  # 1 MB`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, arg := range args {
			n, err := strconv.ParseInt(arg, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid byte count %q: %w", arg, err)
			}
			fmt.Println(format.Size(n, sizeOpts.decimals))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sizeCmd)

	sizeCmd.Flags().IntVarP(&sizeOpts.decimals, "decimals", "d", format.DefaultDecimals,
		"Decimal places (negative values are treated as 0)")
}
