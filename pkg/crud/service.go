// Package crud provides a generic REST client that maps create, read,
// update, and delete onto single HTTP round trips and reports every outcome
// through a types.Response envelope with a stable code.
package crud

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mesh-intelligence/storefront/pkg/types"
)

// Doer issues a single HTTP request. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Defaults applied by NewService.
const (
	DefaultTimeout = 30 * time.Second
	DefaultIDField = "id"
)

// HeaderRequestID carries the per-call identifier sent with every request.
const HeaderRequestID = "X-Request-ID"

// errEmptyBody is returned when a 2xx response has no usable body.
var errEmptyBody = errors.New("empty response body")

// StatusError describes a non-2xx response.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("unexpected status %d", e.StatusCode)
	}
	return fmt.Sprintf("unexpected status %d: %s", e.StatusCode, e.Body)
}

// Service implements types.CrudConsumer against a base endpoint such as
// http://host/api/products. Methods are safe for concurrent use; calls are
// independent and unordered with respect to each other.
type Service[E types.Entity[ID], ID comparable] struct {
	endpoint string
	entity   string
	client   Doer
	logger   Logger
	idField  string
	headers  http.Header
}

var _ types.CrudConsumer[types.Product, int64] = (*Service[types.Product, int64])(nil)

// NewService creates a Service for endpoint. entity is the display name
// interpolated into envelope messages (e.g. "Product").
func NewService[E types.Entity[ID], ID comparable](endpoint, entity string, opts ...Option) *Service[E, ID] {
	cfg := settings{
		client:  &http.Client{Timeout: DefaultTimeout},
		idField: DefaultIDField,
		headers: make(http.Header),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Service[E, ID]{
		endpoint: strings.TrimRight(endpoint, "/"),
		entity:   entity,
		client:   cfg.client,
		logger:   cfg.logger,
		idField:  cfg.idField,
		headers:  cfg.headers,
	}
}

// Endpoint returns the base endpoint with any trailing slash removed.
func (s *Service[E, ID]) Endpoint() string {
	return s.endpoint
}

// Create POSTs data, minus its identifier field, to the base endpoint.
func (s *Service[E, ID]) Create(ctx context.Context, data E) types.Response[*E] {
	body, err := s.encodeWithoutID(data)
	if err != nil {
		return s.failOne(OpCreate, err)
	}
	raw, err := s.roundTrip(ctx, http.MethodPost, s.endpoint, body)
	if err != nil {
		return s.failOne(OpCreate, err)
	}
	created, err := decodeOne[E](raw)
	if err != nil {
		return s.failOne(OpCreate, err)
	}
	msg := MessageFor(OpCreate, Success, s.entity)
	return types.Succeed(msg.Code, msg.Text, created)
}

// ReadAll GETs the base endpoint and returns the collection. A JSON null
// body is reported as an empty collection.
func (s *Service[E, ID]) ReadAll(ctx context.Context) types.Response[[]E] {
	fail := func(err error) types.Response[[]E] {
		msg := MessageFor(OpRead, Failure, s.entity)
		s.logf("%s: %v", msg.Text, err)
		return types.Fail[[]E](msg.Code, msg.Text)
	}

	raw, err := s.roundTrip(ctx, http.MethodGet, s.endpoint, nil)
	if err != nil {
		return fail(err)
	}
	if len(raw) == 0 {
		return fail(errEmptyBody)
	}
	var items []E
	if err := json.Unmarshal(raw, &items); err != nil {
		return fail(fmt.Errorf("decode collection: %w", err))
	}
	if items == nil {
		items = []E{}
	}
	msg := MessageFor(OpRead, Success, s.entity)
	return types.Succeed(msg.Code, msg.Text, items)
}

// ReadOne GETs endpoint/id. Every id value is a real target, so ReadOne(0)
// requests endpoint/0 and ReadOne("") requests endpoint/.
func (s *Service[E, ID]) ReadOne(ctx context.Context, id ID) types.Response[*E] {
	raw, err := s.roundTrip(ctx, http.MethodGet, s.entityURL(id), nil)
	if err != nil {
		return s.failOne(OpRead, err, id)
	}
	item, err := decodeOne[E](raw)
	if err != nil {
		return s.failOne(OpRead, err, id)
	}
	msg := MessageFor(OpRead, Success, s.entity, id)
	return types.Succeed(msg.Code, msg.Text, item)
}

// Update PUTs changes to endpoint/target.EntityID(). changes may be a struct
// or a map; its identifier field is removed before sending. When the backend
// answers with an empty body the payload is target with changes overlaid.
func (s *Service[E, ID]) Update(ctx context.Context, target E, changes any) types.Response[*E] {
	id := target.EntityID()
	body, err := s.encodeWithoutID(changes)
	if err != nil {
		return s.failOne(OpUpdate, err, id)
	}
	raw, err := s.roundTrip(ctx, http.MethodPut, s.entityURL(id), body)
	if err != nil {
		return s.failOne(OpUpdate, err, id)
	}
	updated, err := decodeOne[E](raw)
	if errors.Is(err, errEmptyBody) {
		updated, err = overlay(target, body)
	}
	if err != nil {
		return s.failOne(OpUpdate, err, id)
	}
	msg := MessageFor(OpUpdate, Success, s.entity, id)
	return types.Succeed(msg.Code, msg.Text, updated)
}

// Delete sends DELETE to endpoint/target.EntityID(). The backend is expected
// to echo the removed entity; an empty body echoes target instead.
func (s *Service[E, ID]) Delete(ctx context.Context, target E) types.Response[*E] {
	id := target.EntityID()
	raw, err := s.roundTrip(ctx, http.MethodDelete, s.entityURL(id), nil)
	if err != nil {
		return s.failOne(OpDelete, err, id)
	}
	deleted, err := decodeOne[E](raw)
	if errors.Is(err, errEmptyBody) {
		echo := target
		deleted, err = &echo, nil
	}
	if err != nil {
		return s.failOne(OpDelete, err, id)
	}
	msg := MessageFor(OpDelete, Success, s.entity, id)
	return types.Succeed(msg.Code, msg.Text, deleted)
}

func (s *Service[E, ID]) entityURL(id ID) string {
	return s.endpoint + "/" + url.PathEscape(fmt.Sprint(id))
}

// failOne logs err and returns the error envelope for a single-entity op.
func (s *Service[E, ID]) failOne(op Operation, err error, id ...any) types.Response[*E] {
	msg := MessageFor(op, Failure, s.entity, id...)
	s.logf("%s: %v", msg.Text, err)
	return types.Fail[*E](msg.Code, msg.Text)
}

func (s *Service[E, ID]) logf(format string, args ...any) {
	if s.logger == nil {
		return
	}
	s.logger.Log(fmt.Sprintf(format, args...))
}

// roundTrip performs one request and returns the trimmed response body.
// Non-2xx statuses are returned as *StatusError.
func (s *Service[E, ID]) roundTrip(ctx context.Context, method, target string, body []byte) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	for k, vs := range s.headers {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	requestID := newRequestID()
	req.Header.Set(HeaderRequestID, requestID)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s (request %s): %w", method, target, requestID, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response (request %s): %w", requestID, err)
	}
	data = bytes.TrimSpace(data)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: string(data)}
	}
	s.logf("%s %s (request %s): %d", method, target, requestID, resp.StatusCode)
	return data, nil
}

// encodeWithoutID marshals v as a JSON object and drops the identifier field.
func (s *Service[E, ID]) encodeWithoutID(v any) ([]byte, error) {
	fields, err := toObject(v)
	if err != nil {
		return nil, err
	}
	delete(fields, s.idField)
	out, err := json.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("encode body: %w", err)
	}
	return out, nil
}

// toObject converts v to a generic JSON object, preserving number precision.
func toObject(v any) (map[string]any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode body: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var fields map[string]any
	if err := dec.Decode(&fields); err != nil {
		return nil, fmt.Errorf("body must be a JSON object: %w", err)
	}
	if fields == nil {
		return nil, fmt.Errorf("body must be a JSON object, got null")
	}
	return fields, nil
}

// decodeOne decodes a single entity. An empty or null body yields errEmptyBody.
func decodeOne[E any](raw []byte) (*E, error) {
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, errEmptyBody
	}
	item := new(E)
	if err := json.Unmarshal(raw, item); err != nil {
		return nil, fmt.Errorf("decode entity: %w", err)
	}
	return item, nil
}

// overlay returns target with the fields of patch (a JSON object) applied.
func overlay[E any](target E, patch []byte) (*E, error) {
	base, err := toObject(target)
	if err != nil {
		return nil, err
	}
	var changes map[string]any
	dec := json.NewDecoder(bytes.NewReader(patch))
	dec.UseNumber()
	if err := dec.Decode(&changes); err != nil {
		return nil, fmt.Errorf("decode patch: %w", err)
	}
	for k, v := range changes {
		base[k] = v
	}
	merged, err := json.Marshal(base)
	if err != nil {
		return nil, fmt.Errorf("encode merged entity: %w", err)
	}
	return decodeOne[E](merged)
}

// newRequestID returns a UUID v7, falling back to v4.
func newRequestID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}
