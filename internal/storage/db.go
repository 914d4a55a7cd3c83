// Package storage persists one run's canonical records and reports in
// sqlite so they can be re-queried and exported without reprocessing
// the source files.
package storage

import (
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"zapintel/internal"
)

type DB struct {
	conn *sql.DB
}

func Open(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	if _, err := conn.Exec(`PRAGMA journal_mode = WAL;`); err != nil {
		_ = conn.Close()
		return nil, err
	}

	db := &DB{conn: conn}
	if err := db.init(); err != nil {
		_ = conn.Close()
		return nil, err
	}

	return db, nil
}

func (d *DB) Close() error {
	return d.conn.Close()
}

func (d *DB) init() error {
	schema := `
CREATE TABLE IF NOT EXISTS contacts (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  name TEXT,
  rawPhone TEXT,
  phone TEXT NOT NULL,
  marketingOptIn INTEGER NOT NULL DEFAULT 0,
  createdAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_contacts_phone ON contacts(phone);

CREATE TABLE IF NOT EXISTS customers (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  phone TEXT NOT NULL,
  name TEXT,
  firstName TEXT,
  neighborhood TEXT,
  orderCount TEXT,
  rawJson TEXT NOT NULL,
  createdAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_customers_phone ON customers(phone);

CREATE TABLE IF NOT EXISTS orders (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  phone TEXT NOT NULL,
  code TEXT,
  customer TEXT,
  neighborhood TEXT,
  closedAt TEXT,
  total REAL NOT NULL DEFAULT 0,
  origin TEXT,
  createdAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_orders_phone ON orders(phone);
CREATE INDEX IF NOT EXISTS idx_orders_code ON orders(code);

CREATE TABLE IF NOT EXISTS order_items (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  orderCode TEXT,
  product TEXT,
  category TEXT,
  quantity REAL NOT NULL DEFAULT 1,
  total REAL NOT NULL DEFAULT 0,
  closedAt TEXT,
  createdAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_order_items_code ON order_items(orderCode);

CREATE TABLE IF NOT EXISTS leads (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  name TEXT NOT NULL,
  phone TEXT NOT NULL UNIQUE,
  createdAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS runs (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  traceId TEXT NOT NULL,
  countsJson TEXT NOT NULL,
  createdAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

	_, err := d.conn.Exec(schema)
	return err
}

// ReplaceRun swaps the stored canonical sets for the ones of a fresh
// run. Each run re-derives everything from the sources, so the old
// rows carry no information worth merging.
func (d *DB) ReplaceRun(contacts []internal.Contact, customers []internal.Customer, orders []internal.Order, items []internal.OrderItem) error {
	tx, err := d.conn.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, table := range []string{"contacts", "customers", "orders", "order_items"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			return err
		}
	}

	contactStmt, err := tx.Prepare(`INSERT INTO contacts (name, rawPhone, phone, marketingOptIn) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer contactStmt.Close()
	for _, c := range contacts {
		optIn := 0
		if c.MarketingOptIn {
			optIn = 1
		}
		if _, err := contactStmt.Exec(c.Name, c.RawPhone, c.Phone, optIn); err != nil {
			return err
		}
	}

	customerStmt, err := tx.Prepare(`INSERT INTO customers (phone, name, firstName, neighborhood, orderCount, rawJson) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer customerStmt.Close()
	for _, c := range customers {
		rawJSON, _ := json.Marshal(c.Raw)
		if _, err := customerStmt.Exec(c.Phone, c.Name, c.FirstName, c.Neighborhood, c.OrderCount, string(rawJSON)); err != nil {
			return err
		}
	}

	orderStmt, err := tx.Prepare(`INSERT INTO orders (phone, code, customer, neighborhood, closedAt, total, origin) VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer orderStmt.Close()
	for _, o := range orders {
		if _, err := orderStmt.Exec(o.Phone, o.Code, o.Customer, o.Neighborhood, timeOrNil(o.ClosedAt), o.Total, o.Origin); err != nil {
			return err
		}
	}

	itemStmt, err := tx.Prepare(`INSERT INTO order_items (orderCode, product, category, quantity, total, closedAt) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer itemStmt.Close()
	for _, it := range items {
		if _, err := itemStmt.Exec(it.OrderCode, it.Product, it.Category, it.Quantity, it.Total, timeOrNil(it.ClosedAt)); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// SaveLeads records generated leads, keeping a phone that was already
// exported once from being exported again.
func (d *DB) SaveLeads(leads []internal.Lead) (int, error) {
	tx, err := d.conn.Begin()
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.Prepare(`INSERT INTO leads (name, phone) VALUES (?, ?) ON CONFLICT(phone) DO NOTHING`)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	inserted := 0
	for _, lead := range leads {
		res, err := stmt.Exec(lead.Name, lead.Phone)
		if err != nil {
			return 0, err
		}
		if n, err := res.RowsAffected(); err == nil {
			inserted += int(n)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return inserted, nil
}

func (d *DB) InsertRun(traceID string, counts map[string]int) error {
	countsJSON, _ := json.Marshal(counts)
	_, err := d.conn.Exec(`INSERT INTO runs (traceId, countsJson) VALUES (?, ?)`, traceID, string(countsJSON))
	return err
}

// ListOrders reloads the stored orders, most useful for re-running the
// aggregations without the source files at hand.
func (d *DB) ListOrders() ([]internal.Order, error) {
	rows, err := d.conn.Query(`SELECT phone, code, customer, neighborhood, closedAt, total, origin FROM orders ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []internal.Order
	for rows.Next() {
		var o internal.Order
		var closedAt sql.NullString
		if err := rows.Scan(&o.Phone, &o.Code, &o.Customer, &o.Neighborhood, &closedAt, &o.Total, &o.Origin); err != nil {
			return nil, err
		}
		if closedAt.Valid {
			if parsed, err := time.Parse(time.RFC3339, closedAt.String); err == nil {
				o.ClosedAt = &parsed
			}
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

// ListCustomers reloads the stored customers.
func (d *DB) ListCustomers() ([]internal.Customer, error) {
	rows, err := d.conn.Query(`SELECT phone, name, firstName, neighborhood, orderCount, rawJson FROM customers ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []internal.Customer
	for rows.Next() {
		var c internal.Customer
		var rawJSON string
		if err := rows.Scan(&c.Phone, &c.Name, &c.FirstName, &c.Neighborhood, &c.OrderCount, &rawJSON); err != nil {
			return nil, err
		}
		_ = json.Unmarshal([]byte(rawJSON), &c.Raw)
		out = append(out, c)
	}
	return out, rows.Err()
}

// ListOrderItems reloads the stored item history.
func (d *DB) ListOrderItems() ([]internal.OrderItem, error) {
	rows, err := d.conn.Query(`SELECT orderCode, product, category, quantity, total, closedAt FROM order_items ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []internal.OrderItem
	for rows.Next() {
		var it internal.OrderItem
		var closedAt sql.NullString
		if err := rows.Scan(&it.OrderCode, &it.Product, &it.Category, &it.Quantity, &it.Total, &closedAt); err != nil {
			return nil, err
		}
		if closedAt.Valid {
			if parsed, err := time.Parse(time.RFC3339, closedAt.String); err == nil {
				it.ClosedAt = &parsed
			}
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

func timeOrNil(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.Format(time.RFC3339)
}
