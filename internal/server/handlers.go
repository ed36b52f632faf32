package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/storefront/internal/sqlite"
	"github.com/mesh-intelligence/storefront/pkg/types"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

// errBadBody reports an unreadable or non-object JSON request body.
var errBadBody = errors.New("request body must be a JSON object")

// CreateProduct handles POST /products. Any id in the body is ignored.
func (s *Server) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var p types.Product
	if err := decodeBody(r, &p); err != nil {
		s.writeError(w, err)
		return
	}
	p.ID = 0

	if _, err := s.table.Set("", &p); err != nil {
		s.writeError(w, err)
		return
	}
	s.logger.Info("product created", zap.Int64("id", p.ID), zap.String("name", p.Name))
	writeJSON(w, http.StatusCreated, &p)
}

// ListProducts handles GET /products. The optional query parameters name
// and in_stock narrow the result.
func (s *Server) ListProducts(w http.ResponseWriter, r *http.Request) {
	filter := map[string]any{}
	q := r.URL.Query()
	if name := q.Get("name"); name != "" {
		filter[sqlite.FilterName] = name
	}
	if raw := q.Get("in_stock"); raw != "" {
		inStock, err := strconv.ParseBool(raw)
		if err != nil {
			s.writeError(w, fmt.Errorf("in_stock: %w", types.ErrInvalidFilter))
			return
		}
		filter[sqlite.FilterInStock] = inStock
	}

	entities, err := s.table.Fetch(filter)
	if err != nil {
		s.writeError(w, err)
		return
	}
	products := make([]*types.Product, 0, len(entities))
	for _, e := range entities {
		if p, ok := e.(*types.Product); ok {
			products = append(products, p)
		}
	}
	writeJSON(w, http.StatusOK, products)
}

// GetProduct handles GET /products/{id}.
func (s *Server) GetProduct(w http.ResponseWriter, r *http.Request) {
	p, err := s.lookup(mux.Vars(r)["id"])
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// UpdateProduct handles PUT /products/{id}. The body is a partial JSON object
// merged onto the stored product; its id field is ignored.
func (s *Server) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	current, err := s.lookup(id)
	if err != nil {
		s.writeError(w, err)
		return
	}

	var patch map[string]json.RawMessage
	if err := decodeBody(r, &patch); err != nil {
		s.writeError(w, err)
		return
	}
	delete(patch, "id")
	delete(patch, "created_at")

	updated, err := mergeProduct(current, patch)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if _, err := s.table.Set(id, updated); err != nil {
		s.writeError(w, err)
		return
	}
	s.logger.Info("product updated", zap.Int64("id", updated.ID))
	writeJSON(w, http.StatusOK, updated)
}

// DeleteProduct handles DELETE /products/{id} and echoes the removed product.
func (s *Server) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	p, err := s.lookup(id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if err := s.table.Delete(id); err != nil {
		s.writeError(w, err)
		return
	}
	s.logger.Info("product deleted", zap.Int64("id", p.ID))
	writeJSON(w, http.StatusOK, p)
}

// Health handles GET /healthz.
func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) lookup(id string) (*types.Product, error) {
	entity, err := s.table.Get(id)
	if err != nil {
		return nil, err
	}
	p, ok := entity.(*types.Product)
	if !ok {
		return nil, fmt.Errorf("table returned %T", entity)
	}
	return p, nil
}

// mergeProduct overlays the fields of patch onto a copy of current.
func mergeProduct(current *types.Product, patch map[string]json.RawMessage) (*types.Product, error) {
	raw, err := json.Marshal(current)
	if err != nil {
		return nil, err
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, err
	}
	for k, v := range patch {
		fields[k] = v
	}
	merged, err := json.Marshal(fields)
	if err != nil {
		return nil, err
	}
	var out types.Product
	if err := json.Unmarshal(merged, &out); err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrInvalidData, err)
	}
	out.ID = current.ID
	out.CreatedAt = current.CreatedAt
	return &out, nil
}

func decodeBody(r *http.Request, v any) error {
	data, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("%w: %v", errBadBody, err)
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '{' {
		return errBadBody
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: %v", errBadBody, err)
	}
	return nil
}

// statusFor maps table and decoding errors onto HTTP statuses.
func statusFor(err error) int {
	switch {
	case errors.Is(err, types.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, types.ErrInvalidID),
		errors.Is(err, types.ErrInvalidName),
		errors.Is(err, types.ErrInvalidData),
		errors.Is(err, types.ErrInvalidFilter),
		errors.Is(err, errBadBody):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", zap.Error(err))
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
