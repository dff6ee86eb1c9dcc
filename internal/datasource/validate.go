package datasource

import (
	"fmt"
)

// ValidateSource checks that a source can be opened and read, recording the
// outcome and client count on the source itself.
func ValidateSource(source *DataSource) error {
	count, err := countClients(*source)
	if err != nil {
		source.Valid = false
		source.ValidationError = err.Error()
		return err
	}
	source.Valid = true
	source.ValidationError = ""
	source.ClientCount = count
	return nil
}

func countClients(source DataSource) (int, error) {
	switch source.Type {
	case SourceTypeSQLite:
		reader, err := NewSQLiteReader(source)
		if err != nil {
			return 0, err
		}
		defer reader.Close()
		return reader.CountClients()

	case SourceTypeJSONL:
		if source.Size == 0 {
			return 0, fmt.Errorf("empty file")
		}
		clients, err := loadJSONL(source.Path)
		if err != nil {
			return 0, err
		}
		return len(clients), nil

	default:
		return 0, fmt.Errorf("unknown source type: %s", source.Type)
	}
}

// SelectBestSource returns the freshest valid source, ties broken by priority.
func SelectBestSource(sources []DataSource) (DataSource, error) {
	var valid []DataSource
	for _, s := range sources {
		if s.Valid {
			valid = append(valid, s)
		}
	}
	if len(valid) == 0 {
		return DataSource{}, ErrNoSources
	}
	sortSources(valid)
	return valid[0], nil
}
