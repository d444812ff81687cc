package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"conceptgraph/internal/domain"
	"conceptgraph/internal/repository"

	_ "modernc.org/sqlite"
)

const metaImportedAt = "imported_at"

// Repository implements repository.Repository using SQLite
type Repository struct {
	db *sql.DB
}

var _ repository.Repository = (*Repository)(nil)

// New creates a new SQLite repository
func New(dbPath string) (*Repository, error) {
	dsn := dbPath
	if dbPath != ":memory:" {
		dsn = "file:" + dbPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if dbPath == ":memory:" {
		// every pooled connection would otherwise get its own empty database
		db.SetMaxOpenConns(1)
	}

	repo := &Repository{db: db}
	if err := repo.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return repo, nil
}

func (r *Repository) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS nodes (
		ordinal INTEGER PRIMARY KEY,
		id TEXT NOT NULL,
		name TEXT NOT NULL DEFAULT '',
		type TEXT NOT NULL DEFAULT '',
		category TEXT NOT NULL DEFAULT '',
		level INTEGER NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS edges (
		ordinal INTEGER PRIMARY KEY,
		source TEXT NOT NULL,
		target TEXT NOT NULL,
		type TEXT NOT NULL DEFAULT '',
		strength REAL NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS metadata (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_nodes_id ON nodes(id);
	CREATE INDEX IF NOT EXISTS idx_edges_source ON edges(source);
	CREATE INDEX IF NOT EXISTS idx_edges_target ON edges(target);
	`

	if _, err := r.db.Exec(schema); err != nil {
		return err
	}

	// Descriptions were added after the first schema
	if err := r.addColumnIfNotExists("nodes", "description", "TEXT"); err != nil {
		return err
	}
	return r.addColumnIfNotExists("edges", "description", "TEXT")
}

// addColumnIfNotExists adds a column to a table if it doesn't already exist
func (r *Repository) addColumnIfNotExists(table, column, colType string) error {
	rows, err := r.db.Query(fmt.Sprintf("PRAGMA table_info(%s)", table))
	if err != nil {
		return fmt.Errorf("inspect %s: %w", table, err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			cid        int
			name, typ  string
			notNull    int
			defaultVal sql.NullString
			pk         int
		)
		if err := rows.Scan(&cid, &name, &typ, &notNull, &defaultVal, &pk); err != nil {
			return fmt.Errorf("scan %s column info: %w", table, err)
		}
		if strings.EqualFold(name, column) {
			return nil
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}
	rows.Close()

	_, err = r.db.Exec(fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s", table, column, colType))
	if err != nil {
		return fmt.Errorf("add column %s.%s: %w", table, column, err)
	}
	return nil
}

// LoadSnapshot loads the stored snapshot, preserving insertion order
func (r *Repository) LoadSnapshot(ctx context.Context) (*domain.GraphFragment, error) {
	fragment := domain.NewGraphFragment()

	if err := r.loadNodes(ctx, fragment); err != nil {
		return nil, err
	}
	if err := r.loadEdges(ctx, fragment); err != nil {
		return nil, err
	}

	return fragment, nil
}

func (r *Repository) loadNodes(ctx context.Context, fragment *domain.GraphFragment) error {
	rows, err := r.db.QueryContext(ctx, `SELECT `+nodeColumns+` FROM nodes ORDER BY ordinal`)
	if err != nil {
		return fmt.Errorf("failed to query nodes: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var row nodeRow
		if err := rows.Scan(row.scanArgs()...); err != nil {
			return fmt.Errorf("failed to scan node: %w", err)
		}
		fragment.AddNode(row.toDomain())
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating nodes: %w", err)
	}
	return nil
}

func (r *Repository) loadEdges(ctx context.Context, fragment *domain.GraphFragment) error {
	rows, err := r.db.QueryContext(ctx, `SELECT `+edgeColumns+` FROM edges ORDER BY ordinal`)
	if err != nil {
		return fmt.Errorf("failed to query edges: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var row edgeRow
		if err := rows.Scan(row.scanArgs()...); err != nil {
			return fmt.Errorf("failed to scan edge: %w", err)
		}
		fragment.AddEdge(row.toDomain())
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating edges: %w", err)
	}
	return nil
}

// ReplaceSnapshot replaces the stored snapshot in a single transaction
func (r *Repository) ReplaceSnapshot(ctx context.Context, fragment *domain.GraphFragment) error {
	if fragment == nil {
		return fmt.Errorf("%w: nil fragment", domain.ErrInvalidArgument)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM edges"); err != nil {
		return fmt.Errorf("failed to clear edges: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM nodes"); err != nil {
		return fmt.Errorf("failed to clear nodes: %w", err)
	}

	nodeStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO nodes (ordinal, `+nodeColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare node insert: %w", err)
	}
	defer nodeStmt.Close()

	for i, node := range fragment.Nodes {
		if _, err := nodeStmt.ExecContext(ctx, nodeInsertArgs(i, node)...); err != nil {
			return fmt.Errorf("failed to insert node %s: %w", node.ID, err)
		}
	}

	edgeStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO edges (ordinal, `+edgeColumns+`) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare edge insert: %w", err)
	}
	defer edgeStmt.Close()

	for i, edge := range fragment.Edges {
		if _, err := edgeStmt.ExecContext(ctx, edgeInsertArgs(i, edge)...); err != nil {
			return fmt.Errorf("failed to insert edge %s-%s: %w", edge.Source, edge.Target, err)
		}
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO metadata (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP
	`, metaImportedAt, time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("failed to record import time: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// Stats counts the stored nodes and edges
func (r *Repository) Stats(ctx context.Context) (repository.Stats, error) {
	var stats repository.Stats

	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM nodes").Scan(&stats.Nodes); err != nil {
		return stats, fmt.Errorf("failed to count nodes: %w", err)
	}
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM edges").Scan(&stats.Edges); err != nil {
		return stats, fmt.Errorf("failed to count edges: %w", err)
	}

	var value string
	err := r.db.QueryRowContext(ctx, "SELECT value FROM metadata WHERE key = ?", metaImportedAt).Scan(&value)
	switch {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		return stats, fmt.Errorf("failed to read import time: %w", err)
	default:
		ts, err := time.Parse(time.RFC3339Nano, value)
		if err != nil {
			return stats, fmt.Errorf("failed to parse import time %q: %w", value, err)
		}
		stats.ImportedAt = &ts
	}

	return stats, nil
}

// Close closes the database connection
func (r *Repository) Close() error {
	return r.db.Close()
}
