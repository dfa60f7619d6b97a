package store

import (
	"database/sql"
	_ "embed"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// pragma is a connection setting applied on Open. Want is the value
// SQLite reports back once the setting is active.
type pragma struct {
	Name  string
	Value string
	Want  string
}

// pragmas keep the run log readable by `frbgen runs` and `frbgen show`
// while a `parse --watch` process keeps appending to it.
var pragmas = []pragma{
	{Name: "journal_mode", Value: "WAL", Want: "wal"},
	{Name: "synchronous", Value: "NORMAL", Want: "1"},
	{Name: "busy_timeout", Value: "5000", Want: "5000"},
	{Name: "foreign_keys", Value: "ON", Want: "1"},
}

// migration upgrades the run store by one user_version step.
type migration struct {
	Version int
	Name    string
	Stmt    string
}

// migrations run in order against any database whose user_version is
// lower than the migration's Version.
var migrations = []migration{
	{
		Version: 1,
		Name:    "source hash cache index",
		Stmt: `CREATE INDEX IF NOT EXISTS idx_runs_source_hash
			ON runs(source_hash, ir_version, seq)`,
	},
}

// currentSchemaVersion is the user_version of a fully migrated store.
var currentSchemaVersion = migrations[len(migrations)-1].Version

// Store is the run log and parse cache behind `frbgen parse --db`.
type Store struct {
	db *sql.DB
}

// Open creates or opens the run store at path. ":memory:" gives a private
// store that disappears on Close, which the conformance harness uses per
// scenario.
//
// Opening is idempotent: the runs table is created if missing and pending
// migrations are applied.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// One connection: SQLite has a single writer, and an in-memory store
	// exists only on the connection that created it.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply pragmas: %w", err)
	}
	if err := applySchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// DB exposes the connection for ad-hoc queries in tests and tooling.
func (s *Store) DB() *sql.DB {
	return s.db
}

func applyPragmas(db *sql.DB) error {
	for _, p := range pragmas {
		stmt := fmt.Sprintf("PRAGMA %s = %s", p.Name, p.Value)
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to execute %q: %w", stmt, err)
		}
	}
	return nil
}

// applySchema creates the runs table and brings user_version up to date.
func applySchema(db *sql.DB) error {
	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}
	if err := runMigrations(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// runMigrations applies each pending migration in its own transaction,
// bumping user_version alongside it.
func runMigrations(db *sql.DB) error {
	version, err := schemaVersion(db)
	if err != nil {
		return err
	}

	for _, m := range migrations {
		if m.Version <= version {
			continue
		}
		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("migrate to v%d: %w", m.Version, err)
		}
		if _, err := tx.Exec(m.Stmt); err != nil {
			tx.Rollback()
			return fmt.Errorf("migrate to v%d (%s): %w", m.Version, m.Name, err)
		}
		if _, err := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", m.Version)); err != nil {
			tx.Rollback()
			return fmt.Errorf("set user_version %d: %w", m.Version, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("migrate to v%d: %w", m.Version, err)
		}
	}
	return nil
}

func schemaVersion(db *sql.DB) (int, error) {
	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return 0, fmt.Errorf("get user_version: %w", err)
	}
	return version, nil
}

// pragmaValue reads back the current value of a pragma.
func (s *Store) pragmaValue(name string) (string, error) {
	var value string
	if err := s.db.QueryRow("PRAGMA " + name).Scan(&value); err != nil {
		return "", fmt.Errorf("failed to query %s: %w", name, err)
	}
	return value, nil
}
