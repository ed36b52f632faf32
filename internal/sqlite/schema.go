package sqlite

// Schema DDL. The database is rebuilt from JSONL on every Attach, so the
// schema is created fresh and never migrated.
const (
	createProducts = `CREATE TABLE products (
    product_id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    price REAL NOT NULL DEFAULT 0,
    stock INTEGER NOT NULL DEFAULT 0,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
);`

	idxProductsName = `CREATE INDEX idx_products_name ON products(name);`
)

// schemaDDL lists all CREATE statements in dependency order.
var schemaDDL = []string{
	createProducts,
	idxProductsName,
}

// productColumns is the column list shared by SELECTs and hydration.
const productColumns = "product_id, name, description, price, stock, created_at, updated_at"
