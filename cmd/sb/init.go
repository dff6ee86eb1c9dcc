package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vanderheijden86/sitebook/pkg/config"
	"github.com/vanderheijden86/sitebook/pkg/model"
)

// isTerminal is replaced in tests.
var isTerminal = func() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// initAnswers holds what the wizard asks for.
type initAnswers struct {
	DataDir    string
	Filter     string
	Mouse      bool
	ShowDetail bool
	LiveReload bool
}

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the sb config file interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !isTerminal() {
				return errors.New("sb init needs an interactive terminal")
			}

			path := config.ConfigPath()
			cfg, err := config.LoadFrom(path)
			if err != nil {
				cfg = config.DefaultConfig()
			}

			ans := answersFromConfig(cfg)
			if err := runInitForm(&ans); err != nil {
				return err
			}

			cfg = applyAnswers(cfg, ans)
			if err := config.SaveTo(cfg, path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return nil
		},
	}
}

func answersFromConfig(cfg config.Config) initAnswers {
	return initAnswers{
		DataDir:    cfg.DataDir,
		Filter:     string(cfg.Filter()),
		Mouse:      cfg.UI.Mouse,
		ShowDetail: cfg.UI.ShowDetail,
		LiveReload: cfg.LiveReloadEnabled(),
	}
}

func applyAnswers(cfg config.Config, ans initAnswers) config.Config {
	cfg.DataDir = strings.TrimSpace(ans.DataDir)
	cfg.UI.DefaultFilter = ans.Filter
	cfg.UI.Mouse = ans.Mouse
	cfg.UI.ShowDetail = ans.ShowDetail
	live := ans.LiveReload
	cfg.Experimental.LiveReload = &live
	return cfg
}

func validateDataDir(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if strings.HasPrefix(s, "~") {
		return nil
	}
	info, err := os.Stat(s)
	if err != nil {
		return fmt.Errorf("cannot use %s: %w", s, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", s)
	}
	return nil
}

func runInitForm(ans *initAnswers) error {
	filterOpts := make([]huh.Option[string], 0, len(model.Filters))
	for _, f := range model.Filters {
		filterOpts = append(filterOpts, huh.NewOption(f.Label(), string(f)))
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Data directory").
				Description("Folder holding clients.jsonl or clients.db. Leave empty to use ./.sitebook").
				Value(&ans.DataDir).
				Validate(validateDataDir),
			huh.NewSelect[string]().
				Title("Default filter").
				Options(filterOpts...).
				Value(&ans.Filter),
		),
		huh.NewGroup(
			huh.NewConfirm().
				Title("Enable mouse?").
				Value(&ans.Mouse),
			huh.NewConfirm().
				Title("Open a detail pane when a client is clicked?").
				Value(&ans.ShowDetail),
			huh.NewConfirm().
				Title("Reload when the data file changes?").
				Value(&ans.LiveReload),
		),
	).WithTheme(huh.ThemeDracula())

	return form.Run()
}
