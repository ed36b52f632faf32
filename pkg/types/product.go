package types

import (
	"strings"
	"time"
)

// Product is a catalog entry served at the products endpoint.
type Product struct {
	ID          int64     `json:"id"`          // Assigned by the backend on creation.
	Name        string    `json:"name"`        // Human-readable name (required, non-empty).
	Description string    `json:"description"` // Optional free text.
	Price       float64   `json:"price"`       // Unit price; never negative.
	Stock       int       `json:"stock"`       // Units on hand; never negative.
	CreatedAt   time.Time `json:"created_at"`  // Set by the backend on creation.
	UpdatedAt   time.Time `json:"updated_at"`  // Refreshed by the backend on every write.
}

// EntityID returns the product identifier.
func (p Product) EntityID() int64 {
	return p.ID
}

// Validate checks the fields a backend must reject.
// Returns ErrInvalidName or ErrInvalidData.
func (p *Product) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return ErrInvalidName
	}
	if p.Price < 0 || p.Stock < 0 {
		return ErrInvalidData
	}
	return nil
}

// Restock adds delta units to the stock, refusing to go below zero.
// Returns ErrInvalidData when the result would be negative.
func (p *Product) Restock(delta int) error {
	if p.Stock+delta < 0 {
		return ErrInvalidData
	}
	p.Stock += delta
	p.UpdatedAt = time.Now()
	return nil
}
