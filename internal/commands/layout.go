package commands

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ytget/toolboard/internal/store"
)

func addLayout(topLevel *cobra.Command, e *env) {
	cmd := &cobra.Command{
		Use:   "layout",
		Short: "Inspect or reset the saved dashboard layout.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	addLayoutShow(cmd, e)
	addLayoutExport(cmd, e)
	addLayoutReset(cmd, e)

	topLevel.AddCommand(cmd)
}

func addLayoutShow(parent *cobra.Command, e *env) {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the card order, sizes and layout settings.",
		Example: `
toolboardctl layout show
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			s, err := e.openStore()
			if err != nil {
				return err
			}
			printLayout(cmd, s.Snapshot())
			return nil
		},
	}

	parent.AddCommand(cmd)
}

func addLayoutExport(parent *cobra.Command, e *env) {
	format := "yaml"
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the saved layout as YAML or JSON.",
		Example: `
toolboardctl layout export
toolboardctl layout export --format json > layout.json
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			s, err := e.openStore()
			if err != nil {
				return err
			}
			return writeSnapshot(cmd, s.Snapshot(), format)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "yaml", "Output format. One of 'yaml' or 'json'.")

	parent.AddCommand(cmd)
}

func addLayoutReset(parent *cobra.Command, e *env) {
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Forget every saved size, the order, hidden tools and settings.",
		Example: `
toolboardctl layout reset
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			s, err := e.openStore()
			if err != nil {
				return err
			}
			s.Reset()
			fmt.Fprintln(cmd.OutOrStdout(), "layout reset")
			return nil
		},
	}

	parent.AddCommand(cmd)
}

func writeSnapshot(cmd *cobra.Command, snap store.Snapshot, format string) error {
	out := cmd.OutOrStdout()
	switch format {
	case "yaml", "yml":
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(snap); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(snap)
	default:
		return fmt.Errorf("unknown format %q, expected yaml or json", format)
	}
}

// layoutIDs lists the ordered ids first, then every other sized card by id
func layoutIDs(snap store.Snapshot) []string {
	seen := make(map[string]bool, len(snap.Order))
	ids := make([]string, 0, len(snap.Order)+len(snap.Layout))
	for _, id := range snap.Order {
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	var rest []string
	for id := range snap.Layout {
		if !seen[id] {
			rest = append(rest, id)
		}
	}
	sort.Strings(rest)
	return append(ids, rest...)
}

func printLayout(cmd *cobra.Command, snap store.Snapshot) {
	out := cmd.OutOrStdout()
	bold := color.New(color.Bold)
	faint := color.New(color.Faint)

	hidden := make(map[string]bool, len(snap.Hidden))
	for _, id := range snap.Hidden {
		hidden[id] = true
	}

	ids := layoutIDs(snap)
	if len(ids) == 0 {
		fmt.Fprintln(out, faint.Sprint("no saved cards"))
	} else {
		tbl := uitable.New()
		tbl.Separator = "  "
		tbl.AddRow(bold.Sprint("ID"), bold.Sprint("HEIGHT"), bold.Sprint("COLUMNS"), bold.Sprint("HIDDEN"))
		for _, id := range ids {
			entry := snap.Layout[id]
			height, span := "-", "-"
			if entry.HasHeight() {
				height = strconv.FormatFloat(entry.Height, 'f', -1, 64)
			}
			if entry.HasColSpan() {
				span = strconv.Itoa(entry.ColSpan)
			}
			tbl.AddRow(id, height, span, yesNo(hidden[id]))
		}
		fmt.Fprintln(out, tbl)
	}

	st := snap.Settings
	fmt.Fprintln(out)
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold.Sprint("SETTING"), bold.Sprint("VALUE"))
	tbl.AddRow("min widget height", st.MinWidgetHeight)
	tbl.AddRow("max widget height", st.MaxWidgetHeightPx)
	tbl.AddRow("min card width", st.MinCardWidthPx)
	tbl.AddRow("auto-scroll edge", st.DragAutoScrollEdgePx)
	tbl.AddRow("auto-scroll step", st.DragAutoScrollStepPx)
	tbl.AddRow("activity collapsed", yesNo(snap.ActivityCollapsed))
	fmt.Fprintln(out, tbl)
}
