package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"conceptgraph/internal/codec"
	"conceptgraph/internal/config"
	"conceptgraph/internal/domain"
	"conceptgraph/internal/graph"
	"conceptgraph/internal/loader"
	"conceptgraph/internal/repository"
	"conceptgraph/internal/telemetry"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// ErrNoSnapshot is returned by queries issued before the first successful load
var ErrNoSnapshot = errors.New("no snapshot loaded")

// MaxQueryLength bounds search text, in characters
const MaxQueryLength = 100

// DefaultDescription is shown for concepts without a description
const DefaultDescription = "这是一个重要的中医概念，详细信息正在完善中。"

// Reference is a bibliographic source attached to concept details
type Reference struct {
	Title  string `json:"title"`
	Author string `json:"author,omitempty"`
	Type   string `json:"type"`
}

// DefaultReferences are cited for every concept
var DefaultReferences = []Reference{
	{Title: "中医基础理论", Author: "印会河", Type: "教材"},
	{Title: "黄帝内经", Type: "经典"},
	{Title: "中医诊断学", Author: "朱文锋", Type: "教材"},
}

// KnowledgeQuery selects a subgraph. Empty fields match everything; a zero
// Limit returns all matching nodes.
type KnowledgeQuery struct {
	Category string
	Type     string
	Limit    int
}

// KnowledgeGraph is a filtered subgraph in the shape graph clients expect
type KnowledgeGraph struct {
	Nodes []domain.Node `json:"nodes"`
	Links []domain.Edge `json:"links"`
}

// SearchResult is the outcome of a text search
type SearchResult struct {
	Query   string        `json:"query"`
	Results []domain.Node `json:"results"`
	Total   int           `json:"total"`
}

// RelatedResult is the outcome of a related-concepts expansion
type RelatedResult struct {
	ConceptID       string                  `json:"conceptId"`
	Depth           int                     `json:"depth"`
	Related         []domain.RelatedConcept `json:"related"`
	Total           int                     `json:"total"`
	Truncated       bool                    `json:"truncated"`
	BudgetExhausted bool                    `json:"budgetExhausted,omitempty"`
}

// ConceptDetail is a concept with its neighbourhood and references
type ConceptDetail struct {
	domain.Node
	RelatedConcepts []domain.RelatedConcept `json:"relatedConcepts"`
	Sources         []Reference             `json:"sources"`
}

// Option configures a GraphService
type Option func(*GraphService)

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(s *GraphService) { s.logger = logger }
}

// WithMetrics sets the Prometheus collectors
func WithMetrics(m *telemetry.Metrics) Option {
	return func(s *GraphService) { s.metrics = m }
}

// WithTracer sets the tracer used for operation spans
func WithTracer(t trace.Tracer) Option {
	return func(s *GraphService) { s.tracer = t }
}

// WithRepository persists imported fragments to repo
func WithRepository(repo repository.Repository) Option {
	return func(s *GraphService) { s.repo = repo }
}

// GraphService provides business logic for graph operations
type GraphService struct {
	store    *graph.Store
	source   loader.Source
	query    config.QueryConfig
	eventBus *EventBus
	repo     repository.Repository
	logger   *zap.Logger
	metrics  *telemetry.Metrics
	tracer   trace.Tracer

	// reloadMu serializes load-and-publish; infoMu guards info
	reloadMu sync.Mutex
	infoMu   sync.RWMutex
	info     domain.SnapshotInfo
}

// NewGraphService creates a new graph service. Nothing is loaded until
// Reload or ImportFragment is called.
func NewGraphService(source loader.Source, query config.QueryConfig, eventBus *EventBus, opts ...Option) *GraphService {
	s := &GraphService{
		store:    graph.NewStore(),
		source:   source,
		query:    query,
		eventBus: eventBus,
		logger:   zap.NewNop(),
		tracer:   otel.Tracer("conceptgraph/service"),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.eventBus == nil {
		s.eventBus = NewEventBus()
	}
	return s
}

// ============================================================================
// Snapshot lifecycle
// ============================================================================

// Reload reads the configured source and publishes it. On failure the current
// snapshot is kept and snapshot_rejected is published.
func (s *GraphService) Reload(ctx context.Context) (info domain.SnapshotInfo, err error) {
	ctx, finish := s.start(ctx, "reload", attribute.String("source", s.source.Name()))
	defer func() { finish(err) }()

	// Held from read to publish so a slow reload cannot overwrite a newer import
	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()

	fragment, err := s.source.Load(ctx)
	if err == nil && fragment == nil {
		err = errors.New("source returned no snapshot")
	}
	if err != nil {
		err = fmt.Errorf("load %s: %w", s.source.Name(), err)
		s.reject(s.source.Name(), err)
		return domain.SnapshotInfo{}, err
	}

	h, report, err := graph.Load(fragment.Nodes, fragment.Edges)
	if err != nil {
		s.reject(s.source.Name(), err)
		return domain.SnapshotInfo{}, err
	}

	return s.publish(h, report, s.source.Name()), nil
}

// ImportFragment validates an uploaded fragment and publishes it. When a
// repository is configured the fragment is stored before it is published.
func (s *GraphService) ImportFragment(ctx context.Context, fragment *domain.GraphFragment, origin string) (info domain.SnapshotInfo, err error) {
	ctx, finish := s.start(ctx, "import", attribute.String("source", origin))
	defer func() { finish(err) }()

	if fragment == nil {
		return domain.SnapshotInfo{}, fmt.Errorf("%w: empty upload", domain.ErrInvalidArgument)
	}

	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()

	// Validate before touching the repository
	h, report, err := graph.Load(fragment.Nodes, fragment.Edges)
	if err != nil {
		s.reject(origin, err)
		return domain.SnapshotInfo{}, err
	}

	if s.repo != nil {
		if err := s.repo.ReplaceSnapshot(ctx, fragment); err != nil {
			return domain.SnapshotInfo{}, fmt.Errorf("persist snapshot: %w", err)
		}
	}

	return s.publish(h, report, origin), nil
}

// publish installs h and announces it. Callers hold reloadMu.
func (s *GraphService) publish(h *graph.Handle, report *graph.LoadReport, source string) domain.SnapshotInfo {
	s.store.Publish(h)

	if report.HasWarnings() {
		for _, d := range report.Dropped {
			s.logger.Warn("dropped edge",
				zap.String("source", source),
				zap.Int("index", d.Index),
				zap.String("from", d.Edge.Source),
				zap.String("to", d.Edge.Target),
				zap.String("reason", d.Reason),
			)
		}
	}

	info := domain.SnapshotInfo{
		Version:  h.Version(),
		LoadedAt: h.LoadedAt().UTC().Format(time.RFC3339),
		Source:   source,
		Nodes:    h.NodeCount(),
		Edges:    h.EdgeCount(),
		Dropped:  report.Dropped,
	}

	s.infoMu.Lock()
	s.info = info
	s.infoMu.Unlock()

	s.metrics.ObserveReload(true)
	s.metrics.SetSnapshot(h.NodeCount(), h.EdgeCount(), len(report.Dropped))

	s.logger.Info("snapshot published",
		zap.String("version", info.Version),
		zap.String("source", source),
		zap.Int("nodes", info.Nodes),
		zap.Int("edges", info.Edges),
		zap.Int("dropped", len(info.Dropped)),
	)

	s.eventBus.Publish(Event{
		Type: EventSnapshotReloaded,
		Payload: SnapshotReloadedPayload{
			Version: info.Version,
			Source:  source,
			Nodes:   info.Nodes,
			Edges:   info.Edges,
			Dropped: len(info.Dropped),
		},
	})

	return info
}

func (s *GraphService) reject(source string, err error) {
	s.metrics.ObserveReload(false)
	s.logger.Error("snapshot rejected", zap.String("source", source), zap.Error(err))
	s.eventBus.Publish(Event{
		Type:    EventSnapshotRejected,
		Payload: SnapshotRejectedPayload{Source: source, Error: err.Error()},
	})
}

// Snapshot describes the published snapshot
func (s *GraphService) Snapshot() (domain.SnapshotInfo, error) {
	if s.store.Current() == nil {
		return domain.SnapshotInfo{}, ErrNoSnapshot
	}
	s.infoMu.RLock()
	defer s.infoMu.RUnlock()
	return s.info, nil
}

// SourceName names the configured snapshot source
func (s *GraphService) SourceName() string {
	return s.source.Name()
}

// ============================================================================
// Queries
// ============================================================================

// Knowledge returns the nodes matching q with the edges among them
func (s *GraphService) Knowledge(ctx context.Context, q KnowledgeQuery) (result *KnowledgeGraph, err error) {
	_, finish := s.start(ctx, "knowledge",
		attribute.String("category", q.Category),
		attribute.String("type", q.Type),
		attribute.Int("limit", q.Limit),
	)
	defer func() { finish(err) }()

	if q.Limit < 0 || q.Limit > s.query.MaxNodeLimit {
		return nil, fmt.Errorf("%w: limit must be in [1, %d], got %d", domain.ErrInvalidArgument, s.query.MaxNodeLimit, q.Limit)
	}

	h, err := s.current()
	if err != nil {
		return nil, err
	}

	sub, err := h.Subgraph(graph.NodeFilter{Category: q.Category, Type: q.Type, Limit: q.Limit})
	if err != nil {
		return nil, err
	}
	return &KnowledgeGraph{Nodes: sub.Nodes, Links: sub.Edges}, nil
}

// Search finds concepts whose name, category or type contains text. A zero
// limit uses the configured default.
func (s *GraphService) Search(ctx context.Context, text string, limit int) (result *SearchResult, err error) {
	_, finish := s.start(ctx, "search", attribute.String("query", text), attribute.Int("limit", limit))
	defer func() { finish(err) }()

	if n := len([]rune(text)); n < 1 || n > MaxQueryLength {
		return nil, fmt.Errorf("%w: query must be 1 to %d characters", domain.ErrInvalidArgument, MaxQueryLength)
	}
	if limit == 0 {
		limit = s.query.SearchLimit
	}
	if limit < 1 || limit > s.query.MaxSearchLimit {
		return nil, fmt.Errorf("%w: limit must be in [1, %d], got %d", domain.ErrInvalidArgument, s.query.MaxSearchLimit, limit)
	}

	h, err := s.current()
	if err != nil {
		return nil, err
	}

	nodes, err := h.Search(text, limit, s.query.CaseInsensitiveSearch)
	if err != nil {
		return nil, err
	}
	return &SearchResult{Query: text, Results: nodes, Total: len(nodes)}, nil
}

// Concept returns a concept with its related concepts at the default depth
func (s *GraphService) Concept(ctx context.Context, id string) (detail *ConceptDetail, err error) {
	_, finish := s.start(ctx, "concept", attribute.String("id", id))
	defer func() { finish(err) }()

	h, err := s.current()
	if err != nil {
		return nil, err
	}

	node, ok := h.Node(id)
	if !ok {
		return nil, fmt.Errorf("concept %q: %w", id, domain.ErrNotFound)
	}
	if node.Description == "" {
		node.Description = DefaultDescription
	}

	res, err := h.ExpandWithOptions(id, graph.ExpandOptions{
		MaxDepth:   s.query.DefaultDepth,
		ResultCap:  s.query.ResultCap,
		StepBudget: s.query.StepBudget,
	})
	if err != nil {
		return nil, err
	}

	sources := make([]Reference, len(DefaultReferences))
	copy(sources, DefaultReferences)

	return &ConceptDetail{
		Node:            node,
		RelatedConcepts: res.Related,
		Sources:         sources,
	}, nil
}

// Related expands the neighbourhood of id. A zero depth uses the configured
// default. An unknown id yields an empty result.
func (s *GraphService) Related(ctx context.Context, id string, depth int) (result *RelatedResult, err error) {
	_, finish := s.start(ctx, "related", attribute.String("id", id), attribute.Int("depth", depth))
	defer func() { finish(err) }()

	if depth == 0 {
		depth = s.query.DefaultDepth
	}
	if depth < 1 || depth > s.query.MaxDepth {
		return nil, fmt.Errorf("%w: depth must be in [1, %d], got %d", domain.ErrInvalidArgument, s.query.MaxDepth, depth)
	}

	h, err := s.current()
	if err != nil {
		return nil, err
	}

	res, err := h.ExpandWithOptions(id, graph.ExpandOptions{
		MaxDepth:   depth,
		ResultCap:  s.query.ResultCap,
		StepBudget: s.query.StepBudget,
	})
	if err != nil {
		return nil, err
	}

	return &RelatedResult{
		ConceptID:       id,
		Depth:           depth,
		Related:         res.Related,
		Total:           res.Total,
		Truncated:       res.Truncated,
		BudgetExhausted: res.BudgetExhausted,
	}, nil
}

// Path finds a shortest path between two concepts. Hops is -1 when they are
// not connected or either is unknown.
func (s *GraphService) Path(ctx context.Context, sourceID, targetID string) (result *domain.PathResult, err error) {
	_, finish := s.start(ctx, "path", attribute.String("source", sourceID), attribute.String("target", targetID))
	defer func() { finish(err) }()

	if sourceID == "" || targetID == "" {
		return nil, fmt.Errorf("%w: source and target are required", domain.ErrInvalidArgument)
	}

	h, err := s.current()
	if err != nil {
		return nil, err
	}

	if s.query.StepBudget == 0 {
		res := h.FindPath(sourceID, targetID)
		return &res, nil
	}

	path, err := h.ShortestPathWithBudget(sourceID, targetID, s.query.StepBudget)
	if err != nil {
		return nil, err
	}
	res := domain.PathResult{Source: sourceID, Target: targetID, Path: []string{}, Hops: -1}
	if path != nil {
		res.Path = path
		res.Hops = len(path) - 1
	}
	return &res, nil
}

// Export writes the current snapshot in the given format and returns the
// exporter that was used
func (s *GraphService) Export(ctx context.Context, format string, w io.Writer) (exporter codec.Exporter, err error) {
	_, finish := s.start(ctx, "export", attribute.String("format", format))
	defer func() { finish(err) }()

	c, err := codec.ForFormat(format)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidArgument, err)
	}

	h, err := s.current()
	if err != nil {
		return nil, err
	}

	if err := c.Export(h.Fragment(), w); err != nil {
		return nil, err
	}
	return c, nil
}

// StorageStats summarizes the snapshot held in the repository. It returns nil
// when no repository is configured.
func (s *GraphService) StorageStats(ctx context.Context) (*repository.Stats, error) {
	if s.repo == nil {
		return nil, nil
	}
	stats, err := s.repo.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("storage stats: %w", err)
	}
	return &stats, nil
}

func (s *GraphService) current() (*graph.Handle, error) {
	h := s.store.Current()
	if h == nil {
		return nil, ErrNoSnapshot
	}
	return h, nil
}

// start opens a span for operation and returns a function that ends it and
// records the outcome.
func (s *GraphService) start(ctx context.Context, operation string, attrs ...attribute.KeyValue) (context.Context, func(error)) {
	ctx, span := s.tracer.Start(ctx, "graph."+operation, trace.WithAttributes(attrs...))
	began := time.Now()

	return ctx, func(err error) {
		outcome := Outcome(err)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.SetAttributes(attribute.String("outcome", outcome))
		span.End()
		s.metrics.ObserveQuery(operation, outcome, time.Since(began))
	}
}

// Outcome classifies err for metrics and spans
func Outcome(err error) string {
	switch {
	case err == nil:
		return telemetry.OutcomeOK
	case errors.Is(err, domain.ErrNotFound):
		return telemetry.OutcomeNotFound
	case errors.Is(err, domain.ErrInvalidArgument), errors.Is(err, domain.ErrInvalidGraph):
		return telemetry.OutcomeInvalid
	default:
		return telemetry.OutcomeError
	}
}
