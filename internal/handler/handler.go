package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"conceptgraph/internal/codec"
	"conceptgraph/internal/config"
	"conceptgraph/internal/domain"
	"conceptgraph/internal/repository"
	"conceptgraph/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// maxUploadBytes bounds snapshot uploads
const maxUploadBytes = 16 << 20

var validate = validator.New()

// PathRequest is the body of POST /path
type PathRequest struct {
	Source string `json:"source" validate:"required,max=200"`
	Target string `json:"target" validate:"required,max=200"`
}

// GraphHandler handles graph API requests
type GraphHandler struct {
	svc    *service.GraphService
	query  config.QueryConfig
	logger *zap.Logger
}

// NewGraphHandler creates a new graph handler
func NewGraphHandler(svc *service.GraphService, query config.QueryConfig, logger *zap.Logger) *GraphHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GraphHandler{svc: svc, query: query, logger: logger}
}

// intParam reads an optional integer query parameter and checks it against
// rules. A missing parameter yields 0.
func intParam(r *http.Request, name, rules string) (int, *FieldError) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &FieldError{Field: name, Rule: "int"}
	}
	if err := validate.Var(v, rules); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return 0, &FieldError{Field: name, Rule: verrs[0].Tag(), Param: verrs[0].Param()}
		}
		return 0, &FieldError{Field: name, Rule: rules}
	}
	return v, nil
}

// stringParam reads a query parameter and checks it against rules
func stringParam(r *http.Request, name, rules string) (string, *FieldError) {
	v := r.URL.Query().Get(name)
	if err := validate.Var(v, rules); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return "", &FieldError{Field: name, Rule: verrs[0].Tag(), Param: verrs[0].Param()}
		}
		return "", &FieldError{Field: name, Rule: rules}
	}
	return v, nil
}

func collect(errs ...*FieldError) []FieldError {
	var out []FieldError
	for _, e := range errs {
		if e != nil {
			out = append(out, *e)
		}
	}
	return out
}

// Knowledge returns a filtered subgraph
func (h *GraphHandler) Knowledge(w http.ResponseWriter, r *http.Request) {
	category, catErr := stringParam(r, "category", "max=100")
	nodeType, typeErr := stringParam(r, "type", "max=100")
	limit, limitErr := intParam(r, "limit", fmt.Sprintf("min=1,max=%d", h.query.MaxNodeLimit))
	if details := collect(catErr, typeErr, limitErr); len(details) > 0 {
		h.writeError(w, http.StatusBadRequest, "validation failed", details)
		return
	}

	g, err := h.svc.Knowledge(r.Context(), service.KnowledgeQuery{
		Category: category,
		Type:     nodeType,
		Limit:    limit,
	})
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	h.writeData(w, g)
}

// Search finds concepts by name, category or type
func (h *GraphHandler) Search(w http.ResponseWriter, r *http.Request) {
	query, queryErr := stringParam(r, "query", fmt.Sprintf("min=1,max=%d", service.MaxQueryLength))
	limit, limitErr := intParam(r, "limit", fmt.Sprintf("min=1,max=%d", h.query.MaxSearchLimit))
	if details := collect(queryErr, limitErr); len(details) > 0 {
		h.writeError(w, http.StatusBadRequest, "validation failed", details)
		return
	}

	res, err := h.svc.Search(r.Context(), query, limit)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	h.writeData(w, res)
}

// Concept returns concept details
func (h *GraphHandler) Concept(w http.ResponseWriter, r *http.Request) {
	detail, err := h.svc.Concept(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	h.writeData(w, detail)
}

// Related returns the concepts near a concept
func (h *GraphHandler) Related(w http.ResponseWriter, r *http.Request) {
	depth, depthErr := intParam(r, "depth", fmt.Sprintf("min=1,max=%d", h.query.MaxDepth))
	if depthErr != nil {
		h.writeError(w, http.StatusBadRequest, "validation failed", []FieldError{*depthErr})
		return
	}

	res, err := h.svc.Related(r.Context(), chi.URLParam(r, "id"), depth)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	h.writeData(w, res)
}

// Path finds the shortest path between two concepts
func (h *GraphHandler) Path(w http.ResponseWriter, r *http.Request) {
	var req PathRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if err := validate.Struct(req); err != nil {
		h.writeValidationError(w, err)
		return
	}

	res, err := h.svc.Path(r.Context(), req.Source, req.Target)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	h.writeData(w, res)
}

// SnapshotResponse is the published snapshot plus, for the sqlite source,
// what the database holds
type SnapshotResponse struct {
	domain.SnapshotInfo
	Storage *repository.Stats `json:"storage,omitempty"`
}

// Snapshot describes the published snapshot
func (h *GraphHandler) Snapshot(w http.ResponseWriter, r *http.Request) {
	info, err := h.svc.Snapshot()
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	storage, err := h.svc.StorageStats(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	h.writeData(w, SnapshotResponse{SnapshotInfo: info, Storage: storage})
}

// ImportSnapshot replaces the snapshot with an uploaded JSON or YAML document
func (h *GraphHandler) ImportSnapshot(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxUploadBytes))
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "failed to read request body", err.Error())
		return
	}

	c := codec.ForContentType(r.Header.Get("Content-Type"))
	fragment, err := c.Parse(bytes.NewReader(body))
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid snapshot", err.Error())
		return
	}

	info, err := h.svc.ImportFragment(r.Context(), fragment, "upload:"+c.Format())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	h.writeData(w, info)
}

// ReloadSnapshot re-reads the configured source
func (h *GraphHandler) ReloadSnapshot(w http.ResponseWriter, r *http.Request) {
	info, err := h.svc.Reload(r.Context())
	if err != nil {
		if errors.Is(err, domain.ErrInvalidGraph) {
			h.writeServiceError(w, r, err)
			return
		}
		h.logger.Error("reload failed", zap.Error(err))
		h.writeError(w, http.StatusBadGateway, "failed to read snapshot source", err.Error())
		return
	}
	h.writeData(w, info)
}

// Export writes the current snapshot as a downloadable file
func (h *GraphHandler) Export(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	exporter, err := h.svc.Export(r.Context(), chi.URLParam(r, "format"), &buf)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", exporter.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=conceptgraph.%s", exporter.Format()))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		h.logger.Warn("export write failed", zap.Error(err))
	}
}

// Health reports whether a snapshot is being served
func (h *GraphHandler) Health(w http.ResponseWriter, r *http.Request) {
	info, err := h.svc.Snapshot()
	if err != nil {
		writeJSON(w, h.logger, http.StatusServiceUnavailable, map[string]string{"status": "loading"})
		return
	}
	writeJSON(w, h.logger, http.StatusOK, map[string]interface{}{
		"status":   "ok",
		"snapshot": info.Version,
		"nodes":    info.Nodes,
		"edges":    info.Edges,
	})
}
