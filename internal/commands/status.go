package commands

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"

	"github.com/ytget/toolboard/internal/model"
)

// statusRow is one line of the status report
type statusRow struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Category  string `json:"category"`
	Status    string `json:"status"`
	PID       int    `json:"pid,omitempty"`
	AutoStart bool   `json:"autoStart"`
	Hidden    bool   `json:"hidden"`
}

func addStatus(topLevel *cobra.Command, e *env) {
	asJSON := false
	cmd := &cobra.Command{
		Use:   "status",
		Short: "List every tool with its live state.",
		Example: `
toolboardctl status
toolboardctl status --json
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			ctl, err := e.controller()
			if err != nil {
				return err
			}
			tools, err := ctl.ListTools(cmd.Context())
			if err != nil {
				return fmt.Errorf("list tools: %w", err)
			}
			live, err := ctl.StatusAll(cmd.Context())
			if err != nil {
				// the listed status still stands
				e.logger.Warn("status poll failed", "err", err)
			}

			hidden := map[string]bool{}
			if s, err := e.openStore(); err == nil {
				for _, id := range s.Hidden() {
					hidden[id] = true
				}
			}

			rows := statusRows(tools, live, hidden)
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(rows)
			}
			printStatus(cmd, rows)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON.")

	topLevel.AddCommand(cmd)
}

// statusRows merges the tool list with the liveness report
func statusRows(tools []model.ToolView, live []model.Liveness, hidden map[string]bool) []statusRow {
	byID := make(map[string]model.Liveness, len(live))
	for _, l := range live {
		byID[l.ID] = l
	}
	rows := make([]statusRow, 0, len(tools))
	for _, t := range tools {
		row := statusRow{
			ID:        t.ID,
			Title:     t.Title,
			Category:  string(t.Category),
			Status:    t.Status.String(),
			AutoStart: t.AutoStart,
			Hidden:    hidden[t.ID],
		}
		if l, ok := byID[t.ID]; ok {
			row.Status = model.StatusFromAlive(l.Alive).String()
			if l.Alive {
				row.PID = l.PID
			}
		}
		rows = append(rows, row)
	}
	return rows
}

func statusColor(status string) *color.Color {
	switch model.ToolStatus(status) {
	case model.ToolStatusRunning:
		return color.New(color.FgGreen)
	case model.ToolStatusStopped:
		return color.New(color.FgRed)
	default:
		return color.New(color.FgYellow)
	}
}

func printStatus(cmd *cobra.Command, rows []statusRow) {
	bold := color.New(color.Bold)
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold.Sprint("ID"), bold.Sprint("TITLE"), bold.Sprint("CATEGORY"),
		bold.Sprint("STATUS"), bold.Sprint("PID"), bold.Sprint("AUTOSTART"), bold.Sprint("HIDDEN"))
	for _, r := range rows {
		pid := "-"
		if r.PID > 0 {
			pid = strconv.Itoa(r.PID)
		}
		tbl.AddRow(r.ID, r.Title, r.Category, statusColor(r.Status).Sprint(r.Status), pid,
			yesNo(r.AutoStart), yesNo(r.Hidden))
	}
	fmt.Fprintln(cmd.OutOrStdout(), tbl)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
