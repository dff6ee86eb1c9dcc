package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime/pprof"
	"strconv"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/vanderheijden86/sitebook/pkg/model"
	"github.com/vanderheijden86/sitebook/pkg/ui"
	"github.com/vanderheijden86/sitebook/pkg/version"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "sb",
		Short:         "Terminal client roster grouped by construction status",
		Long:          "sb shows clients in Building, Deposit and Built sections.\nRun without a subcommand to open the interactive list.",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE:          runTUI,
	}

	cmd.Version = version.Version
	cmd.SetVersionTemplate("sb {{.Version}}\n")

	cmd.PersistentFlags().String("dir", "", "data directory or project root (overrides config and SITEBOOK_DIR)")
	cmd.PersistentFlags().String("status", "", "status filter: all, building, deposit or built")

	cmd.Flags().Bool("no-mouse", false, "disable mouse reporting")
	cmd.Flags().Bool("no-watch", false, "do not reload when the data file changes")
	cmd.Flags().String("cpu-profile", "", "write CPU profile to file")

	cmd.AddCommand(
		newListCmd(),
		newInitCmd(),
		newSourcesCmd(),
		newVersionCmd(),
	)
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the sb version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "sb %s\n", version.Version)
		},
	}
}

// statusFlag resolves --status, falling back to the config default.
func statusFlag(cmd *cobra.Command, fallback model.Filter) (model.Filter, error) {
	raw, _ := cmd.Flags().GetString("status")
	if raw == "" {
		return fallback, nil
	}
	return model.ParseFilter(raw)
}

func runTUI(cmd *cobra.Command, args []string) error {
	if path, _ := cmd.Flags().GetString("cpu-profile"); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("could not create CPU profile: %w", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			return fmt.Errorf("could not start CPU profile: %w", err)
		}
		defer pprof.StopCPUProfile()
	}

	app, err := loadApp(cmd)
	if err != nil {
		return err
	}

	filter, err := statusFlag(cmd, app.cfg.Filter())
	if err != nil {
		return err
	}

	noWatch, _ := cmd.Flags().GetBool("no-watch")
	opts := ui.Options{
		Filter:      filter,
		ShowDetail:  app.cfg.UI.ShowDetail,
		SourceLabel: app.label,
		Reload:      app.reload,
	}
	if !noWatch && app.cfg.LiveReloadEnabled() {
		opts.Watchers = app.startWatchers(cmd.Context())
	}

	m := ui.NewModel(app.clients, opts)
	defer m.Stop()

	noMouse, _ := cmd.Flags().GetBool("no-mouse")
	return runTUIProgram(m, app.cfg.UI.Mouse && !noMouse)
}

func runTUIProgram(m ui.Model, mouse bool) error {
	progOpts := []tea.ProgramOption{
		tea.WithAltScreen(),
		tea.WithoutSignalHandler(),
	}
	if mouse {
		progOpts = append(progOpts, tea.WithMouseCellMotion())
	}
	p := tea.NewProgram(m, progOpts...)

	runDone := make(chan struct{})
	defer close(runDone)

	// Graceful shutdown on SIGINT/SIGTERM.
	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-runDone:
			return
		case <-sigCh:
		}

		p.Quit()

		select {
		case <-runDone:
			return
		case <-sigCh:
		case <-time.After(5 * time.Second):
		}

		p.Kill()
	}()

	// Optional auto-quit for automated tests: set SB_TUI_AUTOCLOSE_MS.
	if v := os.Getenv("SB_TUI_AUTOCLOSE_MS"); v != "" {
		if ms, err := strconv.Atoi(v); err == nil && ms > 0 {
			go func() {
				timer := time.NewTimer(time.Duration(ms) * time.Millisecond)
				defer timer.Stop()

				select {
				case <-runDone:
					return
				case <-timer.C:
				}

				p.Quit()

				select {
				case <-runDone:
					return
				case <-time.After(2 * time.Second):
				}

				p.Kill()
			}()
		}
	}

	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) || errors.Is(err, tea.ErrInterrupted) {
		return nil
	}
	return err
}
