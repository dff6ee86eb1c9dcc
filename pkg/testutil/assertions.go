package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vanderheijden86/sitebook/pkg/model"
)

// AssertClientCount verifies the expected number of clients.
func AssertClientCount(t *testing.T, clients []model.Client, expected int) {
	t.Helper()
	if len(clients) != expected {
		t.Errorf("expected %d clients, got %d", expected, len(clients))
	}
}

// AssertNoDuplicateIDs verifies all client IDs are unique.
func AssertNoDuplicateIDs(t *testing.T, clients []model.Client) {
	t.Helper()
	seen := make(map[string]bool)
	for _, c := range clients {
		if seen[c.ID] {
			t.Errorf("duplicate client ID: %s", c.ID)
		}
		seen[c.ID] = true
	}
}

// AssertAllValid verifies all clients pass validation.
func AssertAllValid(t *testing.T, clients []model.Client) {
	t.Helper()
	for i := range clients {
		if err := clients[i].Validate(); err != nil {
			t.Errorf("client %d (%s) invalid: %v", i, clients[i].ID, err)
		}
	}
}

// AssertIDs verifies clients carry exactly the given IDs in order.
func AssertIDs(t *testing.T, clients []model.Client, want ...string) {
	t.Helper()
	got := GetIDs(clients)
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("IDs = %v, want %v", got, want)
	}
}

// IsSubsequence reports whether sub appears in full in the same relative
// order, compared by ID.
func IsSubsequence(sub, full []model.Client) bool {
	j := 0
	for i := 0; i < len(full) && j < len(sub); i++ {
		if full[i].ID == sub[j].ID {
			j++
		}
	}
	return j == len(sub)
}

// AssertStatusCounts verifies the number of clients in each canonical status.
func AssertStatusCounts(t *testing.T, clients []model.Client, building, deposit, built int) {
	t.Helper()
	counts := CountByStatus(clients)
	if counts[model.StatusBuilding] != building {
		t.Errorf("expected %d building, got %d", building, counts[model.StatusBuilding])
	}
	if counts[model.StatusDeposit] != deposit {
		t.Errorf("expected %d deposit, got %d", deposit, counts[model.StatusDeposit])
	}
	if counts[model.StatusBuilt] != built {
		t.Errorf("expected %d built, got %d", built, counts[model.StatusBuilt])
	}
}

// GoldenFile handles golden file comparisons.
type GoldenFile struct {
	t      *testing.T
	dir    string
	name   string
	update bool
}

// NewGoldenFile creates a golden file helper.
// If GENERATE_GOLDEN env var is set, golden files will be updated.
func NewGoldenFile(t *testing.T, dir, name string) *GoldenFile {
	t.Helper()
	return &GoldenFile{
		t:      t,
		dir:    dir,
		name:   name,
		update: os.Getenv("GENERATE_GOLDEN") != "",
	}
}

// Path returns the full path to the golden file.
func (g *GoldenFile) Path() string {
	return filepath.Join(g.dir, g.name)
}

// Assert compares actual content against the golden file, or rewrites it
// when GENERATE_GOLDEN is set.
func (g *GoldenFile) Assert(actual string) {
	g.t.Helper()

	path := g.Path()
	if g.update {
		if err := os.MkdirAll(g.dir, 0o755); err != nil {
			g.t.Fatalf("failed to create golden dir: %v", err)
		}
		if err := os.WriteFile(path, []byte(actual), 0o644); err != nil {
			g.t.Fatalf("failed to write golden file: %v", err)
		}
		g.t.Logf("updated golden file: %s", path)
		return
	}

	expected, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			g.t.Fatalf("golden file does not exist: %s\nRun with GENERATE_GOLDEN=1 to create it", path)
		}
		g.t.Fatalf("failed to read golden file: %v", err)
	}
	if string(expected) == actual {
		return
	}

	expLines := strings.Split(string(expected), "\n")
	actLines := strings.Split(actual, "\n")
	for i := 0; i < len(expLines) || i < len(actLines); i++ {
		var exp, act string
		if i < len(expLines) {
			exp = expLines[i]
		}
		if i < len(actLines) {
			act = actLines[i]
		}
		if exp != act {
			g.t.Errorf("golden file mismatch at line %d:\nexpected: %s\nactual:   %s", i+1, exp, act)
			return
		}
	}
}

// TempDataDir creates a temporary project root with an empty .sitebook
// directory and returns the root.
func TempDataDir(t *testing.T) string {
	t.Helper()

	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, ".sitebook"), 0o755); err != nil {
		t.Fatalf("failed to create .sitebook dir: %v", err)
	}
	return root
}

// WriteClientsFile writes clients to <root>/.sitebook/clients.jsonl and
// returns the file path.
func WriteClientsFile(t *testing.T, root string, clients []model.Client) string {
	t.Helper()

	path := filepath.Join(root, ".sitebook", "clients.jsonl")
	WriteJSONLFile(t, path, clients)
	return path
}

// WriteJSONLFile writes clients to a custom path, creating parent directories.
func WriteJSONLFile(t *testing.T, path string, clients []model.Client) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("failed to create directory: %v", err)
	}
	if err := os.WriteFile(path, []byte(ToJSONL(clients)), 0o644); err != nil {
		t.Fatalf("failed to write clients file: %v", err)
	}
}

// FindClient returns the client with the given ID, or nil if not found.
func FindClient(clients []model.Client, id string) *model.Client {
	for i := range clients {
		if clients[i].ID == id {
			return &clients[i]
		}
	}
	return nil
}

// CountByStatus returns a map of status -> count.
func CountByStatus(clients []model.Client) map[model.Status]int {
	counts := make(map[model.Status]int)
	for _, c := range clients {
		counts[c.Status]++
	}
	return counts
}

// GetIDs returns a slice of all client IDs.
func GetIDs(clients []model.Client) []string {
	ids := make([]string, len(clients))
	for i, c := range clients {
		ids[i] = c.ID
	}
	return ids
}

// ClientID generates a standard test client ID with the given index.
func ClientID(index int) string {
	return fmt.Sprintf("test-%d", index)
}
