package sqlite

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/mesh-intelligence/storefront/pkg/types"
)

// Compile-time interface check.
var _ types.Table = (*productsTable)(nil)

// productsTable implements types.Table for products. Each write rewrites
// products.jsonl atomically before returning.
type productsTable struct {
	backend *Backend
}

// Recognised Fetch filter keys.
const (
	FilterName    = "name"     // string: exact name match
	FilterInStock = "in_stock" // bool: stock > 0 when true, stock = 0 when false
)

// Get returns the product with the given decimal id as *types.Product.
func (pt *productsTable) Get(id string) (any, error) {
	key, err := parseProductID(id)
	if err != nil {
		return nil, err
	}

	pt.backend.mu.RLock()
	defer pt.backend.mu.RUnlock()
	if !pt.backend.attached {
		return nil, types.ErrCupboardDetached
	}

	row := pt.backend.db.QueryRow("SELECT "+productColumns+" FROM products WHERE product_id = ?", key)
	p, err := hydrateProduct(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, types.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting product %d: %w", key, err)
	}
	return p, nil
}

// Set creates the product when id is empty and otherwise writes it under id,
// inserting if absent. data must be a *types.Product or types.Product.
// CreatedAt is preserved on update; UpdatedAt is refreshed. The stored id
// and timestamps are written back into a *types.Product argument.
func (pt *productsTable) Set(id string, data any) (string, error) {
	var p *types.Product
	switch v := data.(type) {
	case *types.Product:
		if v == nil {
			return "", types.ErrInvalidData
		}
		p = v
	case types.Product:
		p = &v
	default:
		return "", types.ErrInvalidData
	}
	if err := p.Validate(); err != nil {
		return "", err
	}

	var key int64
	if id != "" {
		var err error
		if key, err = parseProductID(id); err != nil {
			return "", err
		}
	}

	pt.backend.mu.Lock()
	defer pt.backend.mu.Unlock()
	if !pt.backend.attached {
		return "", types.ErrCupboardDetached
	}

	db := pt.backend.db
	now := time.Now().UTC()

	tx, err := db.Begin()
	if err != nil {
		return "", fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if id == "" {
		p.CreatedAt, p.UpdatedAt = now, now
		res, err := tx.Exec(
			"INSERT INTO products (name, description, price, stock, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)",
			p.Name, p.Description, p.Price, p.Stock, formatTime(p.CreatedAt), formatTime(p.UpdatedAt))
		if err != nil {
			return "", fmt.Errorf("inserting product: %w", err)
		}
		if key, err = res.LastInsertId(); err != nil {
			return "", fmt.Errorf("reading product id: %w", err)
		}
	} else {
		var createdAt string
		err := tx.QueryRow("SELECT created_at FROM products WHERE product_id = ?", key).Scan(&createdAt)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			if p.CreatedAt.IsZero() {
				p.CreatedAt = now
			}
			p.UpdatedAt = now
			p.ID = key
			if _, err := tx.Exec(
				"INSERT INTO products ("+productColumns+") VALUES (?, ?, ?, ?, ?, ?, ?)",
				productArgs(p)...); err != nil {
				return "", fmt.Errorf("inserting product %d: %w", key, err)
			}
		case err != nil:
			return "", fmt.Errorf("checking product %d: %w", key, err)
		default:
			if p.CreatedAt, err = parseTime(createdAt); err != nil {
				return "", fmt.Errorf("parsing product created_at: %w", err)
			}
			p.UpdatedAt = now
			if _, err := tx.Exec(
				"UPDATE products SET name = ?, description = ?, price = ?, stock = ?, updated_at = ? WHERE product_id = ?",
				p.Name, p.Description, p.Price, p.Stock, formatTime(p.UpdatedAt), key); err != nil {
				return "", fmt.Errorf("updating product %d: %w", key, err)
			}
		}
	}
	p.ID = key

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("committing product: %w", err)
	}
	if err := pt.persistLocked(); err != nil {
		return "", err
	}
	return strconv.FormatInt(key, 10), nil
}

// Delete removes the product with the given id.
func (pt *productsTable) Delete(id string) error {
	key, err := parseProductID(id)
	if err != nil {
		return err
	}

	pt.backend.mu.Lock()
	defer pt.backend.mu.Unlock()
	if !pt.backend.attached {
		return types.ErrCupboardDetached
	}

	res, err := pt.backend.db.Exec("DELETE FROM products WHERE product_id = ?", key)
	if err != nil {
		return fmt.Errorf("deleting product %d: %w", key, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting product %d: %w", key, err)
	}
	if n == 0 {
		return types.ErrNotFound
	}
	return pt.persistLocked()
}

// Fetch returns products ordered by id, as []any of *types.Product.
// Unknown filter keys are ignored; a recognised key with the wrong value
// type returns ErrInvalidFilter.
func (pt *productsTable) Fetch(filter map[string]any) ([]any, error) {
	var (
		clauses []string
		args    []any
	)
	if v, ok := filter[FilterName]; ok {
		name, ok := v.(string)
		if !ok {
			return nil, types.ErrInvalidFilter
		}
		clauses = append(clauses, "name = ?")
		args = append(args, name)
	}
	if v, ok := filter[FilterInStock]; ok {
		inStock, ok := v.(bool)
		if !ok {
			return nil, types.ErrInvalidFilter
		}
		if inStock {
			clauses = append(clauses, "stock > 0")
		} else {
			clauses = append(clauses, "stock = 0")
		}
	}

	query := "SELECT " + productColumns + " FROM products"
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY product_id"

	pt.backend.mu.RLock()
	defer pt.backend.mu.RUnlock()
	if !pt.backend.attached {
		return nil, types.ErrCupboardDetached
	}

	products, err := pt.queryLocked(query, args...)
	if err != nil {
		return nil, err
	}
	out := make([]any, len(products))
	for i, p := range products {
		out[i] = p
	}
	return out, nil
}

func (pt *productsTable) queryLocked(query string, args ...any) ([]*types.Product, error) {
	rows, err := pt.backend.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying products: %w", err)
	}
	defer rows.Close()

	var products []*types.Product
	for rows.Next() {
		p, err := hydrateProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

// persistLocked rewrites products.jsonl from the database.
// The caller must hold the backend write lock.
func (pt *productsTable) persistLocked() error {
	products, err := pt.queryLocked("SELECT " + productColumns + " FROM products ORDER BY product_id")
	if err != nil {
		return err
	}
	records := make([]json.RawMessage, 0, len(products))
	for _, p := range products {
		rec, err := json.Marshal(p)
		if err != nil {
			return fmt.Errorf("encoding product %d: %w", p.ID, err)
		}
		records = append(records, rec)
	}
	path := filepath.Join(pt.backend.config.DataDir, productsJSONL)
	if err := writeJSONL(path, records); err != nil {
		return fmt.Errorf("persisting %s: %w", productsJSONL, err)
	}
	return nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func hydrateProduct(row rowScanner) (*types.Product, error) {
	var (
		p                    types.Product
		createdAt, updatedAt string
	)
	if err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Stock, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	var err error
	if p.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("parsing product created_at: %w", err)
	}
	if p.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, fmt.Errorf("parsing product updated_at: %w", err)
	}
	return &p, nil
}

// productArgs returns the column values in productColumns order.
func productArgs(p *types.Product) []any {
	return []any{p.ID, p.Name, p.Description, p.Price, p.Stock, formatTime(p.CreatedAt), formatTime(p.UpdatedAt)}
}

func parseProductID(id string) (int64, error) {
	key, err := strconv.ParseInt(id, 10, 64)
	if err != nil || key <= 0 {
		return 0, types.ErrInvalidID
	}
	return key, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}
