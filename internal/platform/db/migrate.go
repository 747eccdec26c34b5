package db

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	// ErrMigrationDrift means an applied migration file was edited after it
	// ran. The schema no longer matches what the binary expects.
	ErrMigrationDrift = errors.New("applied migration changed on disk")
	// ErrPendingMigrations is returned by RequireCurrent when the schema is
	// behind the embedded migrations.
	ErrPendingMigrations = errors.New("schema has pending migrations")
)

// Migration is one numbered SQL file, e.g. "001_risk_assessment.sql".
type Migration struct {
	Version  int
	Name     string
	SQL      string
	Checksum string
}

// MigrationStatus reports one migration against the ledger of a schema.
type MigrationStatus struct {
	Version   int
	Name      string
	Applied   bool
	AppliedAt *time.Time
	Drifted   bool
}

// applied is one row of the _migrations ledger.
type applied struct {
	checksum string
	at       time.Time
}

// Migrator applies SQL migration files from a filesystem, usually the
// embedded migrations package, against a PostgreSQL schema.
type Migrator struct {
	pool *pgxpool.Pool
	fsys fs.FS
}

// NewMigrator creates a Migrator that reads *.sql files from the root of fsys.
func NewMigrator(pool *pgxpool.Pool, fsys fs.FS) *Migrator {
	return &Migrator{pool: pool, fsys: fsys}
}

// EnsureMigrationsTable creates the schema and its _migrations ledger if they
// do not already exist.
func (m *Migrator) EnsureMigrationsTable(ctx context.Context, schema string) error {
	if err := ValidateSchema(schema); err != nil {
		return err
	}
	query := fmt.Sprintf(`CREATE SCHEMA IF NOT EXISTS %[1]s;
CREATE TABLE IF NOT EXISTS %[1]s._migrations (
    version INTEGER PRIMARY KEY,
    name VARCHAR(255) NOT NULL,
    checksum CHAR(64) NOT NULL,
    applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`, schema)
	if _, err := m.pool.Exec(ctx, query); err != nil {
		return fmt.Errorf("create _migrations table in %s: %w", schema, err)
	}
	return nil
}

// LoadMigrations reads the numbered .sql files from the filesystem root in
// version order. Other files are skipped; two files with the same version
// are an error.
func (m *Migrator) LoadMigrations() ([]Migration, error) {
	entries, err := fs.ReadDir(m.fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("read migrations: %w", err)
	}

	var out []Migration
	seen := make(map[int]string)
	for _, entry := range entries {
		version, ok := parseVersion(entry)
		if !ok {
			continue
		}
		if prev, dup := seen[version]; dup {
			return nil, fmt.Errorf("migrations %s and %s share version %d", prev, entry.Name(), version)
		}
		seen[version] = entry.Name()

		content, err := fs.ReadFile(m.fsys, entry.Name())
		if err != nil {
			return nil, fmt.Errorf("read migration file %s: %w", entry.Name(), err)
		}
		sum := sha256.Sum256(content)
		out = append(out, Migration{
			Version:  version,
			Name:     entry.Name(),
			SQL:      string(content),
			Checksum: hex.EncodeToString(sum[:]),
		})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Version < out[j].Version })
	return out, nil
}

func parseVersion(entry fs.DirEntry) (int, bool) {
	if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sql") {
		return 0, false
	}
	prefix, _, ok := strings.Cut(entry.Name(), "_")
	if !ok {
		return 0, false
	}
	v, err := strconv.Atoi(prefix)
	return v, err == nil
}

// Up applies every pending migration. See UpTo.
func (m *Migrator) Up(ctx context.Context, schema string) (int, error) {
	return m.UpTo(ctx, schema, 0)
}

// UpTo applies pending migrations up to and including target (0 means all),
// each in its own transaction, and returns how many ran. Nothing is applied
// while an already-applied file has drifted.
func (m *Migrator) UpTo(ctx context.Context, schema string, target int) (int, error) {
	migrations, ledger, err := m.load(ctx, schema)
	if err != nil {
		return 0, err
	}
	if err := checkDrift(migrations, ledger); err != nil {
		return 0, err
	}

	count := 0
	for _, mig := range pending(migrations, ledger, target) {
		if err := m.apply(ctx, schema, mig); err != nil {
			return count, fmt.Errorf("apply migration %d (%s): %w", mig.Version, mig.Name, err)
		}
		count++
	}
	return count, nil
}

// Status lists every known migration with its ledger state.
func (m *Migrator) Status(ctx context.Context, schema string) ([]MigrationStatus, error) {
	migrations, ledger, err := m.load(ctx, schema)
	if err != nil {
		return nil, err
	}
	return statuses(migrations, ledger), nil
}

// RequireCurrent fails unless every embedded migration has been applied
// unchanged. The server calls it before accepting assessments so it never
// writes to a schema older than its code.
func (m *Migrator) RequireCurrent(ctx context.Context, schema string) error {
	migrations, ledger, err := m.load(ctx, schema)
	if err != nil {
		return err
	}
	if err := checkDrift(migrations, ledger); err != nil {
		return err
	}
	if p := pending(migrations, ledger, 0); len(p) > 0 {
		return fmt.Errorf("%w: %d behind, next is %s", ErrPendingMigrations, len(p), p[0].Name)
	}
	return nil
}

func (m *Migrator) load(ctx context.Context, schema string) ([]Migration, map[int]applied, error) {
	if err := m.EnsureMigrationsTable(ctx, schema); err != nil {
		return nil, nil, err
	}
	migrations, err := m.LoadMigrations()
	if err != nil {
		return nil, nil, err
	}

	rows, err := m.pool.Query(ctx, fmt.Sprintf(`SELECT version, checksum, applied_at FROM %s._migrations`, schema))
	if err != nil {
		return nil, nil, fmt.Errorf("query applied migrations in %s: %w", schema, err)
	}
	defer rows.Close()

	ledger := make(map[int]applied)
	for rows.Next() {
		var v int
		var a applied
		if err := rows.Scan(&v, &a.checksum, &a.at); err != nil {
			return nil, nil, fmt.Errorf("scan migration ledger: %w", err)
		}
		ledger[v] = a
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("iterate migration ledger: %w", err)
	}
	return migrations, ledger, nil
}

func (m *Migrator) apply(ctx context.Context, schema string, mig Migration) error {
	tx, err := m.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, fmt.Sprintf("SET LOCAL search_path TO %s, public", schema)); err != nil {
		return fmt.Errorf("set search_path: %w", err)
	}
	if _, err := tx.Exec(ctx, mig.SQL); err != nil {
		return fmt.Errorf("execute SQL: %w", err)
	}
	if _, err := tx.Exec(ctx,
		"INSERT INTO _migrations (version, name, checksum) VALUES ($1, $2, $3)",
		mig.Version, mig.Name, mig.Checksum,
	); err != nil {
		return fmt.Errorf("record migration: %w", err)
	}
	return tx.Commit(ctx)
}

func pending(migrations []Migration, ledger map[int]applied, target int) []Migration {
	var out []Migration
	for _, mig := range migrations {
		if target > 0 && mig.Version > target {
			break
		}
		if _, ok := ledger[mig.Version]; !ok {
			out = append(out, mig)
		}
	}
	return out
}

func checkDrift(migrations []Migration, ledger map[int]applied) error {
	for _, mig := range migrations {
		if a, ok := ledger[mig.Version]; ok && a.checksum != mig.Checksum {
			return fmt.Errorf("%w: %s", ErrMigrationDrift, mig.Name)
		}
	}
	return nil
}

func statuses(migrations []Migration, ledger map[int]applied) []MigrationStatus {
	out := make([]MigrationStatus, 0, len(migrations))
	for _, mig := range migrations {
		s := MigrationStatus{Version: mig.Version, Name: mig.Name}
		if a, ok := ledger[mig.Version]; ok {
			at := a.at
			s.Applied = true
			s.AppliedAt = &at
			s.Drifted = a.checksum != mig.Checksum
		}
		out = append(out, s)
	}
	return out
}
