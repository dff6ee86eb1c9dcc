// Package loader reads client records from JSONL files.
package loader

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"

	"github.com/vanderheijden86/sitebook/pkg/model"
)

// DataDirEnvVar is the name of the environment variable for a custom data directory.
const DataDirEnvVar = "SITEBOOK_DIR"

// DataDirName is the directory looked up under the project root.
const DataDirName = ".sitebook"

// PreferredJSONLNames defines the priority order for looking up client data files.
var PreferredJSONLNames = []string{"clients.jsonl", "clients.base.jsonl"}

// GetDataDir returns the data directory path, respecting SITEBOOK_DIR.
// If SITEBOOK_DIR is set, it is used directly.
// Otherwise, falls back to .sitebook in the given root (or cwd if empty).
func GetDataDir(root string) (string, error) {
	if envDir := os.Getenv(DataDirEnvVar); envDir != "" {
		return envDir, nil
	}

	if root == "" {
		var err error
		root, err = os.Getwd()
		if err != nil {
			return "", fmt.Errorf("failed to get current working directory: %w", err)
		}
	}

	return filepath.Join(root, DataDirName), nil
}

// IsArtifactName reports whether a JSONL file name is a backup or a sync
// conflict copy that must never be loaded.
func IsArtifactName(name string) bool {
	return strings.Contains(name, ".backup") ||
		strings.Contains(name, ".orig") ||
		strings.Contains(name, ".merge") ||
		strings.Contains(name, ".conflict")
}

// FindJSONLPath locates the client JSONL file in the given directory.
// Prefers clients.jsonl, skipping backups and conflict copies.
func FindJSONLPath(dataDir string) (string, error) {
	return FindJSONLPathWithWarnings(dataDir, nil)
}

// FindJSONLPathWithWarnings is like FindJSONLPath but reports skipped
// conflict copies via the provided callback.
func FindJSONLPathWithWarnings(dataDir string, warnFunc func(msg string)) (string, error) {
	entries, err := os.ReadDir(dataDir)
	if err != nil {
		return "", fmt.Errorf("failed to read data directory: %w", err)
	}

	var candidates []string
	var conflicts []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if !strings.HasSuffix(name, ".jsonl") {
			continue
		}
		if IsArtifactName(name) {
			if strings.Contains(name, ".conflict") {
				conflicts = append(conflicts, name)
			}
			continue
		}
		candidates = append(candidates, name)
	}

	if len(conflicts) > 0 && warnFunc != nil {
		warnFunc(fmt.Sprintf("Sync conflict files detected: %s. Merge them into clients.jsonl.",
			strings.Join(conflicts, ", ")))
	}

	if len(candidates) == 0 {
		return "", fmt.Errorf("no client JSONL file found in %s", dataDir)
	}

	for _, preferred := range PreferredJSONLNames {
		for _, name := range candidates {
			if name != preferred {
				continue
			}
			path := filepath.Join(dataDir, name)
			if info, err := os.Stat(path); err == nil && info.Size() > 0 {
				return path, nil
			}
		}
	}

	// Fall back to first non-empty candidate
	for _, name := range candidates {
		path := filepath.Join(dataDir, name)
		if info, err := os.Stat(path); err == nil && info.Size() > 0 {
			return path, nil
		}
	}

	return filepath.Join(dataDir, candidates[0]), nil
}

// LoadClients reads clients from the data directory under root.
func LoadClients(root string) ([]model.Client, error) {
	dataDir, err := GetDataDir(root)
	if err != nil {
		return nil, err
	}

	jsonlPath, err := FindJSONLPath(dataDir)
	if err != nil {
		return nil, err
	}

	return LoadClientsFromFile(jsonlPath)
}

// DefaultMaxBufferSize is the default buffer size for the reader (10MB).
const DefaultMaxBufferSize = 1024 * 1024 * 10

// ParseOptions configures the behavior of ParseClients.
type ParseOptions struct {
	// WarningHandler is called with warning messages (e.g., malformed JSON).
	// If nil, warnings are printed to os.Stderr.
	WarningHandler func(string)

	// BufferSize sets the maximum line size (in bytes).
	// Longer lines are skipped with a warning. 0 means DefaultMaxBufferSize.
	BufferSize int

	// ClientFilter optionally filters parsed clients. Return true to include.
	ClientFilter func(*model.Client) bool
}

// LoadClientsFromFile reads clients directly from a specific JSONL file path.
func LoadClientsFromFile(path string) ([]model.Client, error) {
	return LoadClientsFromFileWithOptions(path, ParseOptions{})
}

// LoadClientsFromFileWithOptions reads clients from a file with custom options.
func LoadClientsFromFileWithOptions(path string, opts ParseOptions) ([]model.Client, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("no client file found at %s", path)
		}
		return nil, fmt.Errorf("failed to open clients file: %w", err)
	}
	defer file.Close()

	return ParseClientsWithOptions(file, opts)
}

// ParseClients parses JSONL content from a reader into clients.
func ParseClients(r io.Reader) ([]model.Client, error) {
	return ParseClientsWithOptions(r, ParseOptions{})
}

// ParseClientsWithOptions parses JSONL content with custom options.
// Input order is preserved; it is the order the client list shows.
func ParseClientsWithOptions(r io.Reader, opts ParseOptions) ([]model.Client, error) {
	maxCapacity := opts.BufferSize
	if maxCapacity <= 0 {
		maxCapacity = DefaultMaxBufferSize
	}
	reader := bufio.NewReaderSize(r, maxCapacity)

	warn := opts.WarningHandler
	if warn == nil {
		warn = func(msg string) {
			fmt.Fprintf(os.Stderr, "Warning: %s\n", msg)
		}
	}

	var clients []model.Client
	lineNum := 0
	for {
		lineNum++
		line, isPrefix, err := reader.ReadLine()
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, fmt.Errorf("error reading clients stream at line %d: %w", lineNum, err)
		}

		if isPrefix {
			warn(fmt.Sprintf("skipping line %d: line too long (exceeds %d bytes)", lineNum, maxCapacity))
			for isPrefix {
				_, isPrefix, err = reader.ReadLine()
				if err == io.EOF {
					break
				}
				if err != nil {
					return nil, fmt.Errorf("error skipping long line at line %d: %w", lineNum, err)
				}
			}
			continue
		}

		if lineNum == 1 {
			line = stripBOM(line)
		}
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}

		var client model.Client
		if err := json.Unmarshal(line, &client); err != nil {
			warn(fmt.Sprintf("skipping malformed JSON on line %d: %v", lineNum, err))
			continue
		}

		client.Status = client.Status.Normalize()

		if err := client.Validate(); err != nil {
			warn(fmt.Sprintf("skipping invalid client on line %d: %v", lineNum, err))
			continue
		}

		if opts.ClientFilter != nil && !opts.ClientFilter(&client) {
			continue
		}

		clients = append(clients, client)
	}

	return clients, nil
}

// stripBOM removes the UTF-8 Byte Order Mark if present
func stripBOM(b []byte) []byte {
	if bytes.HasPrefix(b, []byte{0xEF, 0xBB, 0xBF}) {
		return b[3:]
	}
	return b
}
