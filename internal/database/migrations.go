package database

import (
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"log"
	"path"
	"sort"
	"strconv"
	"strings"
)

//go:embed migrations/*.sql
var embedded embed.FS

// SchemaMigrations returns the built-in schema migrations
func SchemaMigrations() fs.FS {
	sub, err := fs.Sub(embedded, "migrations")
	if err != nil {
		panic(fmt.Sprintf("embedded migrations missing: %v", err))
	}
	return sub
}

// Migration is one versioned schema step, loaded from NNN_name.sql
type Migration struct {
	Version int
	Name    string
	SQL     string
}

// MigrationManager applies pending migrations and records them in the migrations table
type MigrationManager struct {
	db     *sql.DB
	source fs.FS
}

// NewMigrationManager creates a migration manager reading .sql files from source
func NewMigrationManager(db *sql.DB, source fs.FS) *MigrationManager {
	return &MigrationManager{db: db, source: source}
}

const migrationsTable = `
	CREATE TABLE IF NOT EXISTS migrations (
		version INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`

// Applied returns the versions already recorded
func (m *MigrationManager) Applied() (map[int]bool, error) {
	if _, err := m.db.Exec(migrationsTable); err != nil {
		return nil, fmt.Errorf("failed to create migrations table: %w", err)
	}

	rows, err := m.db.Query("SELECT version FROM migrations")
	if err != nil {
		return nil, fmt.Errorf("failed to query migrations: %w", err)
	}
	defer rows.Close()

	applied := make(map[int]bool)
	for rows.Next() {
		var version int
		if err := rows.Scan(&version); err != nil {
			return nil, fmt.Errorf("failed to scan migration version: %w", err)
		}
		applied[version] = true
	}
	return applied, rows.Err()
}

// Load reads every migration file, sorted by version. Files whose name does not
// start with a numeric version are skipped; duplicate versions are an error.
func (m *MigrationManager) Load() ([]Migration, error) {
	entries, err := fs.ReadDir(m.source, ".")
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations: %w", err)
	}

	seen := make(map[int]string)
	var out []Migration
	for _, entry := range entries {
		if entry.IsDir() || path.Ext(entry.Name()) != ".sql" {
			continue
		}
		name := strings.TrimSuffix(entry.Name(), ".sql")
		prefix, _, _ := strings.Cut(name, "_")
		version, err := strconv.Atoi(prefix)
		if err != nil {
			log.Printf("[database] skipping migration with invalid name: %s", entry.Name())
			continue
		}
		if prev, dup := seen[version]; dup {
			return nil, fmt.Errorf("duplicate migration version %d: %s and %s", version, prev, name)
		}
		seen[version] = name

		body, err := fs.ReadFile(m.source, entry.Name())
		if err != nil {
			return nil, fmt.Errorf("failed to read migration %s: %w", entry.Name(), err)
		}
		out = append(out, Migration{Version: version, Name: name, SQL: string(body)})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Version < out[j].Version })
	return out, nil
}

// Apply runs one migration and records it in the same transaction
func (m *MigrationManager) Apply(mig Migration) error {
	err := Transaction(m.db, func(tx *sql.Tx) error {
		if _, err := tx.Exec(mig.SQL); err != nil {
			return fmt.Errorf("failed to execute migration %d: %w", mig.Version, err)
		}
		if _, err := tx.Exec("INSERT INTO migrations (version, name) VALUES (?, ?)", mig.Version, mig.Name); err != nil {
			return fmt.Errorf("failed to record migration %d: %w", mig.Version, err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	log.Printf("[database] applied migration %d: %s", mig.Version, mig.Name)
	return nil
}

// Run applies every pending migration in version order
func (m *MigrationManager) Run() error {
	applied, err := m.Applied()
	if err != nil {
		return err
	}
	migrations, err := m.Load()
	if err != nil {
		return err
	}

	pending := 0
	for _, mig := range migrations {
		if applied[mig.Version] {
			continue
		}
		if err := m.Apply(mig); err != nil {
			return err
		}
		pending++
	}

	if pending > 0 {
		log.Printf("[database] schema at version %d (%d applied)", migrations[len(migrations)-1].Version, pending)
	}
	return nil
}

// Migrate applies the built-in schema migrations to conn
func Migrate(conn *sql.DB) error {
	return NewMigrationManager(conn, SchemaMigrations()).Run()
}
