package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/vanderheijden86/sitebook/pkg/metrics"
	"github.com/vanderheijden86/sitebook/pkg/model"
	"github.com/vanderheijden86/sitebook/pkg/ui"
)

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print the client list as plain text",
		Long: `Print clients grouped into Building, Deposit and Built sections,
without colour, for scripting.

Examples:
  sb list
  sb list --status deposit
  sb list --collapse building,built`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			collapse, _ := cmd.Flags().GetStringSlice("collapse")
			collapsed, err := parseCollapse(collapse)
			if err != nil {
				return err
			}

			a, err := loadApp(cmd)
			if err != nil {
				return err
			}
			filter, err := statusFlag(cmd, a.cfg.Filter())
			if err != nil {
				return err
			}

			fmt.Fprint(cmd.OutOrStdout(), ui.RenderPlain(a.clients, filter, collapsed))

			if timing, _ := cmd.Flags().GetBool("timing"); timing {
				return writeTiming(cmd.ErrOrStderr())
			}
			return nil
		},
	}
	cmd.Flags().StringSlice("collapse", nil, "sections to print collapsed (building, deposit, built)")
	cmd.Flags().Bool("timing", false, "print load and render timings as JSON to stderr")
	return cmd
}

// writeTiming prints the collected timings as indented JSON.
func writeTiming(w io.Writer) error {
	data, err := json.MarshalIndent(metrics.AllTimingStats(), "", "  ")
	if err != nil {
		return fmt.Errorf("encoding timings: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// parseCollapse validates --collapse values.
func parseCollapse(values []string) ([]model.Status, error) {
	var out []model.Status
	for _, v := range values {
		s := model.Status(v).Normalize()
		if !s.IsCanonical() {
			return nil, fmt.Errorf("unknown section %q (want %s)", v, joinStatuses(model.CanonicalStatuses))
		}
		out = append(out, s)
	}
	return out, nil
}

func joinStatuses(ss []model.Status) string {
	parts := make([]string, len(ss))
	for i, s := range ss {
		parts[i] = string(s)
	}
	return strings.Join(parts, ", ")
}
