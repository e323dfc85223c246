package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/localdrop/localdrop/internal/sysinfo"
)

var sysinfoOpts struct {
	format string
}

var sysinfoCmd = &cobra.Command{
	Use:   "sysinfo",
	Short: "Show how this device identifies itself to peers",
	RunE: func(cmd *cobra.Command, args []string) error {
		info := sysinfo.Collect()

		switch sysinfoOpts.format {
		case "json", "yaml":
			return encode(os.Stdout, sysinfoOpts.format, info)
		default:
			fmt.Printf("Hostname: %s\n", info.Hostname)
			fmt.Printf("OS:       %s\n", info.OS)
			fmt.Printf("Arch:     %s\n", info.Arch)
			fmt.Printf("ID:       %s\n", info.ID)
			return nil
		}
	},
}

func init() {
	rootCmd.AddCommand(sysinfoCmd)

	sysinfoCmd.Flags().StringVarP(&sysinfoOpts.format, "format", "f", "plain",
		"Output format (plain, json, yaml)")
}
