package datasource

import (
	"fmt"

	"github.com/vanderheijden86/sitebook/pkg/debug"
	"github.com/vanderheijden86/sitebook/pkg/loader"
	"github.com/vanderheijden86/sitebook/pkg/metrics"
	"github.com/vanderheijden86/sitebook/pkg/model"
)

// LoadClients performs multi-source detection under root and loads clients
// from the freshest valid source. Falls back to plain JSONL loading via
// loader.LoadClients when detection finds nothing valid.
func LoadClients(root string) ([]model.Client, error) {
	dataDir, err := loader.GetDataDir(root)
	if err != nil {
		return nil, err
	}

	clients, _, smartErr := loadSmart(dataDir, root)
	if smartErr == nil {
		return clients, nil
	}
	debug.Log("datasource: smart load failed (%v), falling back to JSONL", smartErr)

	return loader.LoadClients(root)
}

// LoadClientsFromDir performs source detection within a known data directory
// and returns the clients together with the source they came from.
func LoadClientsFromDir(dataDir string) ([]model.Client, DataSource, error) {
	defer metrics.Timer(metrics.ClientLoad)()

	clients, source, smartErr := loadSmart(dataDir, "")
	if smartErr == nil {
		return clients, source, nil
	}
	debug.Log("datasource: smart load in %s failed (%v), falling back to JSONL", dataDir, smartErr)

	jsonlPath, err := loader.FindJSONLPath(dataDir)
	if err != nil {
		return nil, DataSource{}, err
	}
	clients, err = loader.LoadClientsFromFile(jsonlPath)
	if err != nil {
		return nil, DataSource{}, err
	}
	return clients, DataSource{Type: SourceTypeJSONL, Path: jsonlPath, Priority: PriorityJSONL}, nil
}

func loadSmart(dataDir, root string) ([]model.Client, DataSource, error) {
	sources, err := DiscoverSources(DiscoveryOptions{
		DataDir:                dataDir,
		Root:                   root,
		ValidateAfterDiscovery: true,
		Verbose:                debug.Enabled(),
		Logger:                 func(msg string) { debug.Log("%s", msg) },
	})
	if err != nil {
		return nil, DataSource{}, err
	}

	best, err := SelectBestSource(sources)
	if err != nil {
		return nil, DataSource{}, err
	}

	clients, err := LoadFromSource(best)
	if err != nil {
		return nil, DataSource{}, err
	}
	return clients, best, nil
}

// LoadFromSource loads clients from a specific DataSource, dispatching to the
// appropriate reader based on source type.
func LoadFromSource(source DataSource) ([]model.Client, error) {
	switch source.Type {
	case SourceTypeSQLite:
		reader, err := NewSQLiteReader(source)
		if err != nil {
			return nil, fmt.Errorf("failed to open SQLite source %s: %w", source.Path, err)
		}
		defer reader.Close()
		return reader.LoadClients()

	case SourceTypeJSONL:
		return loadJSONL(source.Path)

	default:
		return nil, fmt.Errorf("unknown source type: %s", source.Type)
	}
}

func loadJSONL(path string) ([]model.Client, error) {
	return loader.LoadClientsFromFileWithOptions(path, loader.ParseOptions{
		WarningHandler: func(msg string) { debug.Log("datasource: %s: %s", path, msg) },
	})
}
