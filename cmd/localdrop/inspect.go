package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/localdrop/localdrop/internal/files"
	"github.com/localdrop/localdrop/internal/format"
)

var inspectOpts struct {
	format   string
	previews bool
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <path>...",
	Short: "Describe files as they would be offered to a peer",
	Long: `Describe files the way they are added to the selection: a fresh file
UUID, name, size and MIME type, plus a base64 thumbnail for images with
--previews.

Examples:
  localdrop inspect ~/Pictures/cat.png
  localdrop inspect --previews -f json *.jpg`,
	Args: cobra.MinimumNArgs(1),
	RunE: runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)

	inspectCmd.Flags().StringVarP(&inspectOpts.format, "format", "f", "plain",
		"Output format (plain, json, yaml)")
	inspectCmd.Flags().BoolVar(&inspectOpts.previews, "previews", false,
		"Generate image thumbnails")
}

func runInspect(cmd *cobra.Command, args []string) error {
	inspector := files.NewInspector(inspectOpts.previews, logger)
	selected, err := inspector.InspectAll(args)

	switch inspectOpts.format {
	case "json", "yaml":
		if encErr := encode(os.Stdout, inspectOpts.format, selected); encErr != nil {
			return encErr
		}
	default:
		for _, f := range selected {
			preview := ""
			if f.HasPreview() {
				preview = " [preview]"
			}
			fmt.Printf("%s  %s  %s  %s%s\n", f.FileUUID, format.SizeDefault(f.Size), f.MimeType, f.FilePath, preview)
		}
	}
	return err
}
