package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/vanderheijden86/sitebook/internal/datasource"
	"github.com/vanderheijden86/sitebook/pkg/config"
	"github.com/vanderheijden86/sitebook/pkg/debug"
	"github.com/vanderheijden86/sitebook/pkg/loader"
	"github.com/vanderheijden86/sitebook/pkg/model"
	"github.com/vanderheijden86/sitebook/pkg/watcher"
	"github.com/vanderheijden86/sitebook/pkg/workspace"
)

// app is the loaded state shared by the TUI and the list command.
type app struct {
	cfg     config.Config
	clients []model.Client
	label   string
	// paths are the source files to watch, one per loaded office.
	paths  []string
	reload func() ([]model.Client, error)
}

// resolveDataDir turns --dir into a data directory. A project root that
// contains .sitebook is accepted as well as the data directory itself.
func resolveDataDir(dir string) string {
	if filepath.Base(dir) == loader.DataDirName {
		return dir
	}
	candidate := filepath.Join(dir, loader.DataDirName)
	if info, err := os.Stat(candidate); err == nil && info.IsDir() {
		return candidate
	}
	return dir
}

func loadApp(cmd *cobra.Command) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		// Non-fatal: continue without config
		fmt.Fprintf(os.Stderr, "Warning: %v (using defaults)\n", err)
		cfg = config.DefaultConfig()
	}

	a := &app{cfg: cfg}

	dir, _ := cmd.Flags().GetString("dir")
	switch {
	case dir != "":
		err = a.loadDir(resolveDataDir(dir))
	case cfg.ResolveDataDir() != "":
		err = a.loadDir(cfg.ResolveDataDir())
	case len(cfg.EnabledOffices()) > 0:
		err = a.loadWorkspace(cmd.Context(), cfg.EnabledOffices())
	default:
		var dataDir string
		dataDir, err = loader.GetDataDir("")
		if err == nil {
			err = a.loadDir(dataDir)
		}
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (a *app) loadDir(dataDir string) error {
	clients, src, err := datasource.LoadClientsFromDir(dataDir)
	if err != nil {
		return fmt.Errorf("loading clients from %s: %w\nRun 'sb init' to configure a data directory", dataDir, err)
	}
	debug.Log("sb: loaded %d clients from %s", len(clients), src.Path)

	a.clients = clients
	a.label = src.Path
	a.paths = []string{src.Path}
	a.reload = func() ([]model.Client, error) {
		clients, _, err := datasource.LoadClientsFromDir(dataDir)
		return clients, err
	}
	return nil
}

func (a *app) loadWorkspace(ctx context.Context, offices []config.Office) error {
	agg := workspace.NewAggregateLoader(offices)
	if debug.Enabled() {
		agg.SetLogger(log.New(os.Stderr, "[SB_DEBUG] ", log.Ltime|log.Lmicroseconds))
	}

	start := time.Now()
	clients, results, err := agg.LoadAll(ctx)
	debug.LogTiming("sb: workspace load", time.Since(start))
	if err != nil {
		return err
	}
	summary := workspace.Summarize(results)
	if summary.SuccessfulOffices == 0 {
		return fmt.Errorf("no office could be loaded (%s)", strings.Join(summary.FailedOfficeNames, ", "))
	}
	if summary.FailedOffices > 0 {
		fmt.Fprintf(os.Stderr, "Warning: skipped offices: %s\n", strings.Join(summary.FailedOfficeNames, ", "))
	}

	a.clients = clients
	a.label = fmt.Sprintf("%d offices", summary.SuccessfulOffices)
	for _, r := range results {
		if r.Error == nil && r.Source.Path != "" {
			a.paths = append(a.paths, r.Source.Path)
		}
	}
	a.reload = func() ([]model.Client, error) {
		clients, _, err := agg.LoadAll(context.Background())
		return clients, err
	}
	return nil
}

// startWatchers starts one watcher per source file. Failures are logged and
// the file is simply not watched.
func (a *app) startWatchers(ctx context.Context) []*watcher.Watcher {
	var out []*watcher.Watcher
	for _, path := range a.paths {
		opts := []watcher.WatcherOption{}
		if filepath.Base(path) == datasource.SQLiteFileName {
			opts = append(opts, watcher.WithSiblings(watcher.SQLiteSiblings...))
		}
		w, err := watcher.NewWatcher(path, opts...)
		if err != nil {
			debug.Log("sb: cannot watch %s: %v", path, err)
			continue
		}
		if err := w.Start(ctx); err != nil {
			debug.Log("sb: cannot watch %s: %v", path, err)
			continue
		}
		out = append(out, w)
	}
	return out
}
