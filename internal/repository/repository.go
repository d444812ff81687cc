package repository

import (
	"context"
	"time"

	"conceptgraph/internal/domain"
)

// Repository defines the interface for snapshot persistence
type Repository interface {
	// LoadSnapshot returns the stored snapshot in insertion order
	LoadSnapshot(ctx context.Context) (*domain.GraphFragment, error)

	// ReplaceSnapshot atomically replaces the stored snapshot
	ReplaceSnapshot(ctx context.Context, fragment *domain.GraphFragment) error

	// Stats summarizes the stored snapshot
	Stats(ctx context.Context) (Stats, error)

	// Close releases resources
	Close() error
}

// Stats describes the stored snapshot
type Stats struct {
	Nodes      int        `json:"nodes"`
	Edges      int        `json:"edges"`
	ImportedAt *time.Time `json:"imported_at,omitempty"`
}
