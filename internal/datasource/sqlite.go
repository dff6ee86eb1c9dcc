package datasource

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/vanderheijden86/sitebook/pkg/debug"
	"github.com/vanderheijden86/sitebook/pkg/model"
)

// clientColumns lists the columns read from the clients table, in scan order.
// Only id and status are required; the rest are read when present.
var clientColumns = []string{
	"id", "status", "last_name", "first_name", "client_number",
	"phone", "construction_address", "notes", "created_at", "updated_at",
}

var requiredColumns = map[string]bool{"id": true, "status": true}

// SQLiteReader provides read access to a clients SQLite database
type SQLiteReader struct {
	db   *sql.DB
	path string
}

// NewSQLiteReader opens a SQLite database for reading
func NewSQLiteReader(source DataSource) (*SQLiteReader, error) {
	if source.Type != SourceTypeSQLite {
		return nil, fmt.Errorf("source is not SQLite: %s", source.Type)
	}

	dsn := fmt.Sprintf("file:%s?mode=ro", source.Path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("cannot open database: %w", err)
	}

	pragmas := []string{
		"PRAGMA busy_timeout = 5000",
		"PRAGMA cache_size = -16000",
		"PRAGMA temp_store = MEMORY",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			debug.Log("datasource: %s: %s failed: %v", source.Path, pragma, err)
		}
	}

	return &SQLiteReader{
		db:   db,
		path: source.Path,
	}, nil
}

// Close closes the database connection
func (r *SQLiteReader) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// LoadClients reads all clients in insertion (rowid) order.
func (r *SQLiteReader) LoadClients() ([]model.Client, error) {
	return r.LoadClientsFiltered(nil)
}

// LoadClientsFiltered reads clients matching the filter function, in
// insertion order.
func (r *SQLiteReader) LoadClientsFiltered(filter func(*model.Client) bool) ([]model.Client, error) {
	present, err := r.tableColumns("clients")
	if err != nil {
		return nil, err
	}
	for col := range requiredColumns {
		if !present[col] {
			return nil, fmt.Errorf("clients table has no %s column", col)
		}
	}

	var cols []string
	for _, c := range clientColumns {
		if present[c] {
			cols = append(cols, c)
		}
	}

	query := fmt.Sprintf("SELECT %s FROM clients ORDER BY rowid", strings.Join(cols, ", "))
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	var clients []model.Client
	for rows.Next() {
		values := make([]sql.NullString, len(cols))
		dest := make([]any, len(cols))
		for i := range values {
			dest[i] = &values[i]
		}
		if err := rows.Scan(dest...); err != nil {
			debug.Log("datasource: %s: skipping row: %v", r.path, err)
			continue
		}

		var client model.Client
		for i, col := range cols {
			if values[i].Valid {
				assignColumn(&client, col, values[i].String)
			}
		}
		client.Status = client.Status.Normalize()
		if err := client.Validate(); err != nil {
			continue
		}

		if filter != nil && !filter(&client) {
			continue
		}
		clients = append(clients, client)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating clients: %w", err)
	}

	return clients, nil
}

func assignColumn(c *model.Client, col, v string) {
	switch col {
	case "id":
		c.ID = v
	case "status":
		c.Status = model.Status(v)
	case "last_name":
		c.LastName = v
	case "first_name":
		c.FirstName = v
	case "client_number":
		c.ClientNumber = v
	case "phone":
		c.Phone = v
	case "construction_address":
		c.ConstructionAddress = v
	case "notes":
		c.Notes = v
	case "created_at":
		c.CreatedAt = parseTimestamp(v)
	case "updated_at":
		c.UpdatedAt = parseTimestamp(v)
	}
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// parseTimestamp accepts the layouts SQLite commonly stores; unparseable
// values yield the zero time.
func parseTimestamp(s string) time.Time {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

func (r *SQLiteReader) tableColumns(table string) (map[string]bool, error) {
	rows, err := r.db.Query(fmt.Sprintf("PRAGMA table_info(%s)", table))
	if err != nil {
		return nil, fmt.Errorf("reading %s schema: %w", table, err)
	}
	defer rows.Close()

	cols := make(map[string]bool)
	for rows.Next() {
		var (
			cid       int
			name      string
			ctype     string
			notNull   int
			dfltValue sql.NullString
			pk        int
		)
		if err := rows.Scan(&cid, &name, &ctype, &notNull, &dfltValue, &pk); err != nil {
			return nil, fmt.Errorf("reading %s schema: %w", table, err)
		}
		cols[strings.ToLower(name)] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading %s schema: %w", table, err)
	}
	if len(cols) == 0 {
		return nil, fmt.Errorf("no %s table in %s", table, r.path)
	}
	return cols, nil
}

// CountClients returns the number of rows in the clients table
func (r *SQLiteReader) CountClients() (int, error) {
	var count int
	if err := r.db.QueryRow("SELECT COUNT(*) FROM clients").Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// GetClientByID retrieves a single client by ID
func (r *SQLiteReader) GetClientByID(id string) (*model.Client, error) {
	clients, err := r.LoadClientsFiltered(func(c *model.Client) bool {
		return c.ID == id
	})
	if err != nil {
		return nil, err
	}
	if len(clients) == 0 {
		return nil, fmt.Errorf("client not found: %s", id)
	}
	return &clients[0], nil
}
