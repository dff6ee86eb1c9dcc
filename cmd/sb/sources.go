package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vanderheijden86/sitebook/internal/datasource"
	"github.com/vanderheijden86/sitebook/pkg/config"
	"github.com/vanderheijden86/sitebook/pkg/loader"
)

func newSourcesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sources",
		Short: "Show discovered data sources and which one is used",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dataDir, err := sourcesDataDir(cmd)
			if err != nil {
				return err
			}

			sources, err := datasource.DiscoverSources(datasource.DiscoveryOptions{
				DataDir:                dataDir,
				ValidateAfterDiscovery: true,
				IncludeInvalid:         true,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Data directory: %s\n", dataDir)
			if len(sources) == 0 {
				fmt.Fprintln(out, "No sources found.")
				return nil
			}

			best, bestErr := datasource.SelectBestSource(sources)
			for _, s := range sources {
				marker := " "
				if bestErr == nil && s.Path == best.Path {
					marker = "*"
				}
				fmt.Fprintf(out, "%s %s\n", marker, s.String())
			}
			if bestErr != nil {
				fmt.Fprintf(out, "No usable source: %v\n", bestErr)
			}

			if diff, _ := cmd.Flags().GetBool("diff"); diff {
				diffs, err := datasource.CheckAllSourcesConsistent(sources, datasource.DefaultDiffOptions())
				if err != nil {
					return err
				}
				if len(diffs) == 0 {
					fmt.Fprintln(out, "\nAll valid sources agree.")
				}
				for _, d := range diffs {
					fmt.Fprintf(out, "\n%s", d.Summary())
				}
			}
			return nil
		},
	}
	cmd.Flags().Bool("diff", false, "compare valid sources for missing clients and status mismatches")
	return cmd
}

func sourcesDataDir(cmd *cobra.Command) (string, error) {
	if dir, _ := cmd.Flags().GetString("dir"); dir != "" {
		return resolveDataDir(dir), nil
	}
	cfg, err := config.Load()
	if err == nil {
		if dir := cfg.ResolveDataDir(); dir != "" {
			return dir, nil
		}
	}
	return loader.GetDataDir("")
}
