package loader

import (
	"context"
	"fmt"

	"conceptgraph/internal/config"
	"conceptgraph/internal/domain"
	"conceptgraph/internal/repository"
)

// Source produces graph snapshots
type Source interface {
	Load(ctx context.Context) (*domain.GraphFragment, error)
	Name() string
}

// BuiltinSource serves the embedded dataset
type BuiltinSource struct{}

// Load returns the embedded dataset
func (BuiltinSource) Load(ctx context.Context) (*domain.GraphFragment, error) {
	return Builtin(), nil
}

// Name identifies the source in logs and snapshot info
func (BuiltinSource) Name() string { return "builtin" }

// FileSource reads a JSON or YAML file on every Load
type FileSource struct {
	Path string
}

// Load reads and parses the file
func (s FileSource) Load(ctx context.Context) (*domain.GraphFragment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return LoadFile(s.Path)
}

// Name identifies the source in logs and snapshot info
func (s FileSource) Name() string { return "file:" + s.Path }

// SQLiteSource reads the snapshot stored in the repository
type SQLiteSource struct {
	Repo repository.Repository
}

// Load reads the stored snapshot
func (s SQLiteSource) Load(ctx context.Context) (*domain.GraphFragment, error) {
	return s.Repo.LoadSnapshot(ctx)
}

// Name identifies the source in logs and snapshot info
func (s SQLiteSource) Name() string { return "sqlite" }

// NewSource picks the source named by the snapshot config. repo is only
// required for the sqlite source.
func NewSource(cfg config.SnapshotConfig, repo repository.Repository) (Source, error) {
	switch cfg.Source {
	case config.SourceBuiltin, "":
		return BuiltinSource{}, nil
	case config.SourceFile:
		if cfg.Path == "" {
			return nil, fmt.Errorf("file source requires snapshot.path")
		}
		return FileSource{Path: cfg.Path}, nil
	case config.SourceSQLite:
		if repo == nil {
			return nil, fmt.Errorf("sqlite source requires a repository")
		}
		return SQLiteSource{Repo: repo}, nil
	default:
		return nil, fmt.Errorf("unknown snapshot source %q", cfg.Source)
	}
}
