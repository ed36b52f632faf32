package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/mesh-intelligence/storefront/pkg/types"
)

// loadAllJSONL reads products.jsonl into the products table inside one
// transaction: either every valid record loads or the table stays empty.
// Malformed lines, records that fail validation, and duplicate ids are
// skipped. Unknown JSON fields are ignored.
func loadAllJSONL(db *sql.DB, dataDir string) error {
	records, err := readJSONL(filepath.Join(dataDir, productsJSONL))
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return nil
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("beginning load transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(
		"INSERT INTO products (" + productColumns + ") VALUES (?, ?, ?, ?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("preparing product insert: %w", err)
	}
	defer stmt.Close()

	for _, rec := range records {
		var p types.Product
		if err := json.Unmarshal(rec, &p); err != nil {
			continue
		}
		if p.ID <= 0 || p.Validate() != nil {
			continue
		}
		if _, err := stmt.Exec(productArgs(&p)...); err != nil {
			// Constraint violations (duplicate ids) are skipped.
			continue
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing load transaction: %w", err)
	}
	return nil
}
