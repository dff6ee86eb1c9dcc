package workspace

import (
	"context"
	"fmt"
	"io"
	"log"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/vanderheijden86/sitebook/internal/datasource"
	"github.com/vanderheijden86/sitebook/pkg/config"
	"github.com/vanderheijden86/sitebook/pkg/loader"
	"github.com/vanderheijden86/sitebook/pkg/metrics"
	"github.com/vanderheijden86/sitebook/pkg/model"
)

// LoadResult contains the result of loading a single office
type LoadResult struct {
	OfficeName string
	// Prefix is the namespace prefix used for IDs
	Prefix  string
	Clients []model.Client
	// Source is the data source the clients came from
	Source datasource.DataSource
	Error  error
}

// AggregateLoader loads clients from every enabled office in a config
type AggregateLoader struct {
	offices []config.Office
	logger  *log.Logger
}

// NewAggregateLoader creates a loader for the given offices
func NewAggregateLoader(offices []config.Office) *AggregateLoader {
	return &AggregateLoader{
		offices: offices,
		// Silent by default so the TUI keeps stderr clean. Callers opt in via SetLogger.
		logger: log.New(io.Discard, "", 0),
	}
}

// SetLogger sets a custom logger for error reporting
func (l *AggregateLoader) SetLogger(logger *log.Logger) {
	l.logger = logger
}

// LoadAll loads clients from all enabled offices concurrently and merges
// them in config order. Failed offices are logged and skipped.
func (l *AggregateLoader) LoadAll(ctx context.Context) ([]model.Client, []LoadResult, error) {
	defer metrics.Timer(metrics.WorkspaceLoad)()

	var enabled []config.Office
	for _, o := range l.offices {
		if o.IsEnabled() {
			enabled = append(enabled, o)
		}
	}
	if len(enabled) == 0 {
		return nil, nil, fmt.Errorf("no enabled offices in workspace")
	}

	results, err := l.loadOfficesParallel(ctx, enabled)
	if err != nil {
		return nil, results, fmt.Errorf("fatal error during parallel loading: %w", err)
	}

	var all []model.Client
	for _, result := range results {
		if result.Error != nil {
			l.logger.Printf("WARNING: Failed to load office %q: %v", result.OfficeName, result.Error)
			continue
		}
		all = append(all, result.Clients...)
	}

	return all, results, nil
}

func (l *AggregateLoader) loadOfficesParallel(ctx context.Context, offices []config.Office) ([]LoadResult, error) {
	results := make([]LoadResult, len(offices))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(32)

	for i, office := range offices {
		g.Go(func() error {
			results[i] = LoadResult{
				OfficeName: office.Name,
				Prefix:     NormalizePrefix(office.GetPrefix()),
			}
			if err := ctx.Err(); err != nil {
				results[i].Error = err
				return nil
			}

			clients, src, err := loadOffice(office)
			results[i].Clients = clients
			results[i].Source = src
			results[i].Error = err
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}

	l.logger.Printf("Finished parallel loading of %d offices", len(offices))
	return results, nil
}

// OfficeDataDir resolves the data directory of an office. A path that already
// names a .sitebook directory is used as is.
func OfficeDataDir(office config.Office) string {
	if filepath.Base(office.Path) == loader.DataDirName {
		return office.Path
	}
	return filepath.Join(office.Path, loader.DataDirName)
}

func loadOffice(office config.Office) ([]model.Client, datasource.DataSource, error) {
	clients, src, err := datasource.LoadClientsFromDir(OfficeDataDir(office))
	if err != nil {
		return nil, src, fmt.Errorf("failed to load clients from %s: %w", office.Name, err)
	}

	prefix := office.GetPrefix()
	for i := range clients {
		clients[i].ID = QualifyID(clients[i].ID, prefix)
		clients[i].Source = office.Name
	}
	return clients, src, nil
}

// LoadSummary summarizes a workspace load
type LoadSummary struct {
	TotalOffices      int
	SuccessfulOffices int
	FailedOffices     int
	TotalClients      int
	FailedOfficeNames []string
}

// Summarize returns a summary of the load results
func Summarize(results []LoadResult) LoadSummary {
	summary := LoadSummary{TotalOffices: len(results)}
	for _, result := range results {
		if result.Error != nil {
			summary.FailedOffices++
			summary.FailedOfficeNames = append(summary.FailedOfficeNames, result.OfficeName)
			continue
		}
		summary.SuccessfulOffices++
		summary.TotalClients += len(result.Clients)
	}
	return summary
}
