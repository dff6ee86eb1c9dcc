package datasource

import (
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/vanderheijden86/sitebook/pkg/model"
)

func writeJSONL(t *testing.T, path string, lines ...string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
}

func createClientsDB(t *testing.T, path, schema string, rows [][]any) {
	t.Helper()
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()

	if _, err := db.Exec(schema); err != nil {
		t.Fatalf("schema: %v", err)
	}
	for _, row := range rows {
		placeholders := strings.TrimSuffix(strings.Repeat("?,", len(row)), ",")
		if _, err := db.Exec("INSERT INTO clients VALUES ("+placeholders+")", row...); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}
}

const fullSchema = `CREATE TABLE clients (
	id TEXT PRIMARY KEY,
	last_name TEXT,
	first_name TEXT,
	client_number TEXT,
	phone TEXT,
	construction_address TEXT,
	status TEXT NOT NULL,
	notes TEXT,
	created_at TEXT,
	updated_at TEXT
)`

func setMTime(t *testing.T, path string, mt time.Time) {
	t.Helper()
	if err := os.Chtimes(path, mt, mt); err != nil {
		t.Fatal(err)
	}
}

func TestSQLiteReader_LoadClientsInRowidOrder(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, SQLiteFileName)
	createClientsDB(t, dbPath, fullSchema, [][]any{
		{"z", "Ivanov", "Petr", "C-1", "+7 1", "Lenina 1", "building", "", "2024-01-02T10:00:00Z", nil},
		{"a", "Sidorov", "Ivan", "C-2", "+7 2", "Mira 5", "Built", "gate code 12", nil, nil},
		{"m", "Orlova", "Anna", "C-3", "", "", "deposit", nil, "2024-03-01 09:30:00", nil},
	})

	r, err := NewSQLiteReader(DataSource{Type: SourceTypeSQLite, Path: dbPath})
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	clients, err := r.LoadClients()
	if err != nil {
		t.Fatalf("LoadClients: %v", err)
	}
	if len(clients) != 3 {
		t.Fatalf("expected 3 clients, got %d", len(clients))
	}
	for i, want := range []string{"z", "a", "m"} {
		if clients[i].ID != want {
			t.Errorf("clients[%d].ID = %q, want %q", i, clients[i].ID, want)
		}
	}
	if clients[1].Status != model.StatusBuilt {
		t.Errorf("status not normalized: %q", clients[1].Status)
	}
	if clients[1].Notes != "gate code 12" {
		t.Errorf("notes = %q", clients[1].Notes)
	}
	if clients[0].CreatedAt.IsZero() || clients[2].CreatedAt.IsZero() {
		t.Errorf("timestamps not parsed: %v / %v", clients[0].CreatedAt, clients[2].CreatedAt)
	}

	n, err := r.CountClients()
	if err != nil || n != 3 {
		t.Errorf("CountClients = %d, %v", n, err)
	}

	c, err := r.GetClientByID("m")
	if err != nil || c.LastName != "Orlova" {
		t.Errorf("GetClientByID = %+v, %v", c, err)
	}
	if _, err := r.GetClientByID("missing"); err == nil {
		t.Error("expected error for missing client")
	}
}

func TestSQLiteReader_ToleratesMissingColumns(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, SQLiteFileName)
	createClientsDB(t, dbPath, `CREATE TABLE clients (id TEXT, status TEXT, last_name TEXT)`, [][]any{
		{"1", "building", "Kuznetsov"},
	})

	r, err := NewSQLiteReader(DataSource{Type: SourceTypeSQLite, Path: dbPath})
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	clients, err := r.LoadClients()
	if err != nil {
		t.Fatalf("LoadClients: %v", err)
	}
	if len(clients) != 1 || clients[0].LastName != "Kuznetsov" || clients[0].Phone != "" {
		t.Fatalf("unexpected %+v", clients)
	}
}

func TestSQLiteReader_RequiresStatusColumn(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, SQLiteFileName)
	createClientsDB(t, dbPath, `CREATE TABLE clients (id TEXT, last_name TEXT)`, nil)

	r, err := NewSQLiteReader(DataSource{Type: SourceTypeSQLite, Path: dbPath})
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	if _, err := r.LoadClients(); err == nil || !strings.Contains(err.Error(), "status") {
		t.Fatalf("expected missing status column error, got %v", err)
	}
}

func TestNewSQLiteReader_RejectsJSONL(t *testing.T) {
	if _, err := NewSQLiteReader(DataSource{Type: SourceTypeJSONL, Path: "x.jsonl"}); err == nil {
		t.Fatal("expected error for non-SQLite source")
	}
}

func TestDiscoverSources_OrdersByFreshnessThenPriority(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, SQLiteFileName)
	jsonlPath := filepath.Join(dir, "clients.jsonl")
	createClientsDB(t, dbPath, fullSchema, [][]any{
		{"1", "A", "", "", "", "", "built", nil, nil, nil},
	})
	writeJSONL(t, jsonlPath, `{"id":"1","status":"built"}`)
	writeJSONL(t, filepath.Join(dir, "clients.backup.jsonl"), `{"id":"old","status":"built"}`)

	same := time.Now().Add(-time.Hour).Truncate(time.Second)
	setMTime(t, dbPath, same)
	setMTime(t, jsonlPath, same)

	sources, err := DiscoverSources(DiscoveryOptions{DataDir: dir, ValidateAfterDiscovery: true})
	if err != nil {
		t.Fatal(err)
	}
	if len(sources) != 2 {
		t.Fatalf("expected 2 sources (backup skipped), got %d: %v", len(sources), sources)
	}
	if sources[0].Type != SourceTypeSQLite {
		t.Errorf("equal mtimes should prefer SQLite, got %s", sources[0].Type)
	}
	if sources[0].ClientCount != 1 || !sources[0].Valid {
		t.Errorf("unexpected validation result %+v", sources[0])
	}

	setMTime(t, jsonlPath, same.Add(time.Minute))
	sources, err = DiscoverSources(DiscoveryOptions{DataDir: dir, ValidateAfterDiscovery: true})
	if err != nil {
		t.Fatal(err)
	}
	best, err := SelectBestSource(sources)
	if err != nil {
		t.Fatal(err)
	}
	if best.Type != SourceTypeJSONL {
		t.Errorf("newer JSONL should win, got %s", best.Type)
	}
}

func TestDiscoverSources_ExcludesInvalid(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, SQLiteFileName), []byte("not a database"), 0o644); err != nil {
		t.Fatal(err)
	}
	writeJSONL(t, filepath.Join(dir, "clients.jsonl"), `{"id":"1","status":"deposit"}`)

	sources, err := DiscoverSources(DiscoveryOptions{DataDir: dir, ValidateAfterDiscovery: true})
	if err != nil {
		t.Fatal(err)
	}
	if len(sources) != 1 || sources[0].Type != SourceTypeJSONL {
		t.Fatalf("expected only the JSONL source, got %v", sources)
	}

	all, err := DiscoverSources(DiscoveryOptions{DataDir: dir, ValidateAfterDiscovery: true, IncludeInvalid: true})
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 2 {
		t.Fatalf("expected invalid source kept, got %v", all)
	}
}

func TestSelectBestSource_NoValid(t *testing.T) {
	_, err := SelectBestSource([]DataSource{{Path: "x", Valid: false}})
	if err != ErrNoSources {
		t.Fatalf("expected ErrNoSources, got %v", err)
	}
}

func TestLoadClientsFromDir_FallsBackToJSONL(t *testing.T) {
	dir := t.TempDir()
	writeJSONL(t, filepath.Join(dir, "clients.jsonl"),
		`{"id":"1","status":"building"}`,
		`{"id":"2","status":"built"}`,
	)

	clients, src, err := LoadClientsFromDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(clients) != 2 || clients[0].ID != "1" {
		t.Fatalf("unexpected clients %+v", clients)
	}
	if src.Type != SourceTypeJSONL || filepath.Base(src.Path) != "clients.jsonl" {
		t.Errorf("unexpected source %+v", src)
	}
}

func TestLoadClients_FromRoot(t *testing.T) {
	t.Setenv("SITEBOOK_DIR", "")
	root := t.TempDir()
	dataDir := filepath.Join(root, ".sitebook")
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		t.Fatal(err)
	}
	createClientsDB(t, filepath.Join(dataDir, SQLiteFileName), fullSchema, [][]any{
		{"db-1", "Petrov", "", "", "", "", "deposit", nil, nil, nil},
	})

	clients, err := LoadClients(root)
	if err != nil {
		t.Fatal(err)
	}
	if len(clients) != 1 || clients[0].ID != "db-1" {
		t.Fatalf("unexpected clients %+v", clients)
	}
}

func TestDetectInconsistencies(t *testing.T) {
	a := []model.Client{
		{ID: "1", Status: model.StatusBuilding},
		{ID: "2", Status: model.StatusDeposit},
		{ID: "3", Status: model.StatusBuilt},
	}
	b := []model.Client{
		{ID: "1", Status: model.StatusBuilt},
		{ID: "3", Status: model.StatusBuilt},
		{ID: "4", Status: model.StatusBuilding},
	}

	d := DetectInconsistencies(a, b, "a", "b", DefaultDiffOptions())
	if !d.HasInconsistencies() {
		t.Fatal("expected inconsistencies")
	}
	if len(d.MissingInB) != 1 || d.MissingInB[0] != "2" {
		t.Errorf("MissingInB = %v", d.MissingInB)
	}
	if len(d.MissingInA) != 1 || d.MissingInA[0] != "4" {
		t.Errorf("MissingInA = %v", d.MissingInA)
	}
	if len(d.StatusMismatch) != 1 || d.StatusMismatch[0].ID != "1" {
		t.Errorf("StatusMismatch = %v", d.StatusMismatch)
	}
	if s := d.Summary(); !strings.Contains(s, "1 clients with different status") {
		t.Errorf("summary missing mismatch line:\n%s", s)
	}

	same := DetectInconsistencies(a, a, "a", "a", DiffOptions{})
	if same.HasInconsistencies() {
		t.Error("identical inputs should match")
	}
	if same.Summary() != "Sources match (3 clients each)" {
		t.Errorf("summary = %q", same.Summary())
	}
}

func TestCheckAllSourcesConsistent(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, SQLiteFileName)
	jsonlPath := filepath.Join(dir, "clients.jsonl")
	createClientsDB(t, dbPath, fullSchema, [][]any{
		{"1", "", "", "", "", "", "built", nil, nil, nil},
	})
	writeJSONL(t, jsonlPath, `{"id":"1","status":"building"}`)

	sources, err := DiscoverSources(DiscoveryOptions{DataDir: dir, ValidateAfterDiscovery: true})
	if err != nil {
		t.Fatal(err)
	}
	diffs, err := CheckAllSourcesConsistent(sources, DefaultDiffOptions())
	if err != nil {
		t.Fatal(err)
	}
	if len(diffs) != 1 || len(diffs[0].StatusMismatch) != 1 {
		t.Fatalf("expected one status mismatch, got %+v", diffs)
	}
}
