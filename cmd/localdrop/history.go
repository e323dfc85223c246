package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/localdrop/localdrop/internal/adapter/output"
	"github.com/localdrop/localdrop/internal/core"
	"github.com/localdrop/localdrop/internal/history"
	"github.com/localdrop/localdrop/internal/model"
)

var historyOpts struct {
	// Filter options
	since     string
	direction string
	outcome   string
	peer      string
	filter    string
	search    string
	limit     int

	// Sort options
	sortBy    string
	sortOrder string

	// Output options
	format   string
	template string

	// Trim options
	keep   int
	dryRun bool
}

var historyCmd = &cobra.Command{
	Use:   "history [index|id]",
	Short: "Query the transfer history",
	Long: `Query finished transfers and output them in various formats.

With an index (1-based, after filtering and sorting) or record ID,
outputs that single record as JSON.

Filter expressions combine conditions with commas (AND):
  outcome=failed                 failed transfers
  direction=in,size>10MB         large incoming transfers
  peer~desk                      peer name contains "desk"
  file~.jpg                      any file name contains ".jpg"
  timestamp<24h                  from the last day

Examples:
  localdrop history --since 1d
  localdrop history --filter "outcome=failed" -f json
  localdrop history | fuzzel -d | localdrop history`,
	Args: cobra.MaximumNArgs(1),
	RunE: runHistory,
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every history record",
	RunE: func(cmd *cobra.Command, args []string) error {
		log, err := history.Open(historyPath())
		if err != nil {
			return err
		}
		defer func() { _ = log.Close() }()
		return log.Clear()
	},
}

var historyTrimCmd = &cobra.Command{
	Use:   "trim",
	Short: "Keep only the newest records",
	Long: `Keep only the newest --keep records (default: history.max_entries).

Examples:
  localdrop history trim --keep 100
  localdrop history trim --keep 10 --dry-run`,
	RunE: runHistoryTrim,
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.AddCommand(historyClearCmd, historyTrimCmd)

	historyCmd.Flags().StringVar(&historyOpts.since, "since", "",
		"Show transfers from the last duration (e.g., 1h, 7d, 1w)")
	historyCmd.Flags().StringVar(&historyOpts.direction, "direction", "",
		"Filter by direction (incoming, outgoing)")
	historyCmd.Flags().StringVar(&historyOpts.outcome, "outcome", "",
		"Filter by outcome (complete, failed, rejected, cancelled)")
	historyCmd.Flags().StringVar(&historyOpts.peer, "peer", "",
		"Filter by peer name (case-insensitive)")
	historyCmd.Flags().StringVar(&historyOpts.filter, "filter", "",
		"Filter expression (see above)")
	historyCmd.Flags().StringVarP(&historyOpts.search, "search", "s", "",
		"Search peer, file names and errors")
	historyCmd.Flags().IntVarP(&historyOpts.limit, "limit", "n", 0,
		"Maximum number of records to show (0=unlimited)")

	historyCmd.Flags().StringVar(&historyOpts.sortBy, "sort", "timestamp",
		"Sort by field (timestamp, peer, size)")
	historyCmd.Flags().StringVar(&historyOpts.sortOrder, "order", "desc",
		"Sort order (asc, desc)")

	historyCmd.Flags().StringVarP(&historyOpts.format, "format", "f", "dmenu",
		"Output format (dmenu, plain, json, yaml, ids)")
	historyCmd.Flags().StringVar(&historyOpts.template, "template", "",
		"Custom Go template for output formatting")

	historyTrimCmd.Flags().IntVar(&historyOpts.keep, "keep", 0,
		"Number of records to keep (0 = history.max_entries)")
	historyTrimCmd.Flags().BoolVar(&historyOpts.dryRun, "dry-run", false,
		"Show what would be removed without removing it")
}

func loadHistory() ([]model.TransferRecord, error) {
	log, err := history.Open(historyPath())
	if err != nil {
		return nil, err
	}
	defer func() { _ = log.Close() }()
	return log.Load()
}

func runHistory(cmd *cobra.Command, args []string) error {
	records, err := loadHistory()
	if err != nil {
		return err
	}

	if err := applyHistorySort(records); err != nil {
		return err
	}
	records, err = applyHistoryFilters(records)
	if err != nil {
		return err
	}

	if len(args) > 0 {
		return handleHistoryLookup(records, args[0])
	}

	ft, err := parseFormat(historyOpts.format)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		logger.Debug("no history records to output")
		return nil
	}
	return createHistoryFormatter(ft).FormatHistory(os.Stdout, records)
}

// applyHistoryFilters applies the filter flags.
func applyHistoryFilters(records []model.TransferRecord) ([]model.TransferRecord, error) {
	opts := core.FilterOptions{
		Peer:  historyOpts.peer,
		Limit: historyOpts.limit,
	}

	if historyOpts.since != "" {
		d, err := core.ParseDuration(historyOpts.since)
		if err != nil {
			return nil, fmt.Errorf("invalid --since: %w", err)
		}
		opts.Since = d
	}
	if historyOpts.direction != "" {
		d, err := core.ParseDirection(historyOpts.direction)
		if err != nil {
			return nil, err
		}
		opts.Direction = d
	}
	if historyOpts.outcome != "" {
		o, err := core.ParseOutcome(historyOpts.outcome)
		if err != nil {
			return nil, err
		}
		opts.Outcome = o
	}

	if historyOpts.filter != "" {
		expr, err := core.ParseFilter(historyOpts.filter)
		if err != nil {
			return nil, err
		}
		records = core.FilterWithExpr(records, expr)
	}
	if historyOpts.search != "" {
		records = core.Search(records, historyOpts.search)
	}

	// Limit applies last so it counts matching records in sorted order.
	return core.Filter(records, opts), nil
}

func applyHistorySort(records []model.TransferRecord) error {
	field, err := core.ParseSortField(historyOpts.sortBy)
	if err != nil {
		return err
	}
	order, err := core.ParseSortOrder(historyOpts.sortOrder)
	if err != nil {
		return err
	}
	core.Sort(records, core.SortOptions{Field: field, Order: order})
	return nil
}

// handleHistoryLookup outputs a single record chosen by index, ID or a
// line previously printed in dmenu format.
func handleHistoryLookup(records []model.TransferRecord, arg string) error {
	sel := parseDmenuSelection(arg)

	var r *model.TransferRecord
	if idx, err := strconv.Atoi(sel); err == nil && idx > 0 {
		r = core.LookupByIndex(records, idx)
	} else {
		r = core.LookupByID(records, sel)
	}
	if r == nil {
		return fmt.Errorf("no history record matches %q", arg)
	}

	ft := output.FormatJSON
	if historyOpts.format != "dmenu" {
		var err error
		if ft, err = parseFormat(historyOpts.format); err != nil {
			return err
		}
	}
	return createHistoryFormatter(ft).FormatHistory(os.Stdout, []model.TransferRecord{*r})
}

// parseDmenuSelection extracts the index from a dmenu line such as
// "3 | 5m | incoming complete | laptop | 2 files (1.5 KB)". Anything else is
// returned trimmed.
func parseDmenuSelection(selection string) string {
	selection = strings.TrimSpace(selection)
	if !strings.Contains(selection, "|") {
		return selection
	}

	first, _, _ := strings.Cut(selection, "|")
	first = strings.TrimSpace(first)
	if idx, err := strconv.Atoi(first); err == nil && idx > 0 {
		return first
	}
	return selection
}

func createHistoryFormatter(ft output.FormatType) output.Formatter {
	opts := output.DefaultFormatterOptions()
	opts.Template = historyOpts.template
	return output.NewFormatter(ft, opts)
}

func runHistoryTrim(cmd *cobra.Command, args []string) error {
	keep := historyOpts.keep
	if keep == 0 {
		keep = cfg.History.MaxEntries
	}
	if keep <= 0 {
		return fmt.Errorf("specify --keep or set history.max_entries")
	}

	log, err := history.Open(historyPath())
	if err != nil {
		return err
	}
	defer func() { _ = log.Close() }()

	if historyOpts.dryRun {
		records, err := log.Load()
		if err != nil {
			return err
		}
		fmt.Printf("Would remove %d of %d records\n", max(len(records)-keep, 0), len(records))
		return nil
	}

	n, err := log.Trim(keep)
	if err != nil {
		return err
	}
	fmt.Printf("Removed %d records\n", n)
	return nil
}
