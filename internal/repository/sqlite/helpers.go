package sqlite

import (
	"database/sql"

	"conceptgraph/internal/domain"
)

// ============================================================================
// Null Type Conversion Helpers
// ============================================================================

// nullToString safely converts sql.NullString to string
func nullToString(ns sql.NullString) string {
	if ns.Valid {
		return ns.String
	}
	return ""
}

// stringToNull safely converts string to sql.NullString
func stringToNull(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// ============================================================================
// Schema Evolution Guide
// ============================================================================
//
// To add a column to the nodes table:
// 1. Add field to nodeRow struct (below)
// 2. Update scanArgs() - APPEND to end to match column order
// 3. Update nodeColumns constant - APPEND to end
// 4. Update toDomain() and nodeInsertArgs()
// 5. Add migration in sqlite.go migrate() using addColumnIfNotExists()
//
// CRITICAL: Column order must match between nodeColumns, scanArgs() and
// nodeInsertArgs(). Same pattern applies to edges.

// ============================================================================
// Node Row Scanner
// ============================================================================

// nodeRow holds all columns from a node query for scanning
type nodeRow struct {
	ID          string
	Name        string
	Type        string
	Category    string
	Level       int
	Description sql.NullString
}

// scanArgs returns pointers to all fields for sql.Scan()
// MUST match nodeColumns order exactly:
// id, name, type, category, level, description
func (r *nodeRow) scanArgs() []interface{} {
	return []interface{}{
		&r.ID,          // 1
		&r.Name,        // 2
		&r.Type,        // 3
		&r.Category,    // 4
		&r.Level,       // 5
		&r.Description, // 6
	}
}

// toDomain converts the scanned row to a domain.Node
func (r *nodeRow) toDomain() domain.Node {
	return domain.Node{
		ID:          r.ID,
		Name:        r.Name,
		Type:        domain.NodeType(r.Type),
		Category:    r.Category,
		Level:       r.Level,
		Description: nullToString(r.Description),
	}
}

// nodeColumns returns the SELECT column list for node queries
const nodeColumns = `id, name, type, category, level, description`

// nodeInsertArgs returns the values for an INSERT, ordinal first
func nodeInsertArgs(ordinal int, n domain.Node) []interface{} {
	return []interface{}{
		ordinal, n.ID, n.Name, string(n.Type), n.Category, n.Level, stringToNull(n.Description),
	}
}

// ============================================================================
// Edge Row Scanner
// ============================================================================

// edgeRow holds all columns from an edge query for scanning
type edgeRow struct {
	Source      string
	Target      string
	Type        string
	Strength    float64
	Description sql.NullString
}

// scanArgs returns pointers to all fields for sql.Scan()
// MUST match edgeColumns order exactly:
// source, target, type, strength, description
func (r *edgeRow) scanArgs() []interface{} {
	return []interface{}{
		&r.Source,      // 1
		&r.Target,      // 2
		&r.Type,        // 3
		&r.Strength,    // 4
		&r.Description, // 5
	}
}

// toDomain converts the scanned row to a domain.Edge
func (r *edgeRow) toDomain() domain.Edge {
	return domain.Edge{
		Source:      r.Source,
		Target:      r.Target,
		Type:        domain.EdgeType(r.Type),
		Strength:    r.Strength,
		Description: nullToString(r.Description),
	}
}

// edgeColumns returns the SELECT column list for edge queries
const edgeColumns = `source, target, type, strength, description`

// edgeInsertArgs returns the values for an INSERT, ordinal first
func edgeInsertArgs(ordinal int, e domain.Edge) []interface{} {
	return []interface{}{
		ordinal, e.Source, e.Target, string(e.Type), e.Strength, stringToNull(e.Description),
	}
}
