package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"umzug/internal"
	"umzug/internal/catalog"
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
CREATE TABLE IF NOT EXISTS services (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  name TEXT NOT NULL UNIQUE,
  price TEXT,
  lastSeenAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS items (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  name TEXT NOT NULL UNIQUE,
  category TEXT,
  lastSeenAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS categories (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  name TEXT NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS submissions (
  id TEXT PRIMARY KEY,
  formId TEXT NOT NULL,
  createdAt TEXT,
  email TEXT,
  orderId TEXT,
  name TEXT,
  answersJson TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'fetched',
  updatedAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS orders (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  submissionId TEXT NOT NULL,
  orderJson TEXT NOT NULL,
  volume TEXT,
  status TEXT NOT NULL DEFAULT 'generated',
  createdAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
  FOREIGN KEY(submissionId) REFERENCES submissions(id)
);
CREATE INDEX IF NOT EXISTS idx_orders_submission ON orders(submissionId);

CREATE TABLE IF NOT EXISTS order_warnings (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  orderId INTEGER NOT NULL,
  kind TEXT NOT NULL,
  answer TEXT,
  message TEXT NOT NULL,
  FOREIGN KEY(orderId) REFERENCES orders(id)
);

CREATE TABLE IF NOT EXISTS emails (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  provider TEXT NOT NULL,
  messageId TEXT NOT NULL,
  subject TEXT,
  sender TEXT,
  receivedAt TEXT,
  hash TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'fetched',
  rawRef TEXT NOT NULL,
  createdAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
  updatedAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
  UNIQUE(provider, messageId)
);

CREATE TABLE IF NOT EXISTS runs (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  traceId TEXT NOT NULL,
  submissionId TEXT,
  timingsJson TEXT NOT NULL,
  countsJson TEXT NOT NULL,
  createdAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS metadata (
  key TEXT PRIMARY KEY,
  value TEXT NOT NULL,
  updatedAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

	_, err := d.conn.Exec(schema)
	return err
}

// ReplaceCatalogs upserts a full catalog bundle. Entries disappearing
// from the bundle stay around; the generator only ever resolves by
// name, stale rows are harmless.
func (d *DB) ReplaceCatalogs(cats catalog.Catalogs) error {
	tx, err := d.conn.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, s := range cats.Services {
		if _, err := tx.Exec(`
INSERT INTO services (name, price, lastSeenAt) VALUES (?, ?, CURRENT_TIMESTAMP)
ON CONFLICT(name) DO UPDATE SET price=excluded.price, lastSeenAt=CURRENT_TIMESTAMP
`, s.Name, s.Price); err != nil {
			return err
		}
	}
	for _, i := range cats.Items {
		if _, err := tx.Exec(`
INSERT INTO items (name, category, lastSeenAt) VALUES (?, ?, CURRENT_TIMESTAMP)
ON CONFLICT(name) DO UPDATE SET category=excluded.category, lastSeenAt=CURRENT_TIMESTAMP
`, i.Name, i.SelectedCategory); err != nil {
			return err
		}
	}
	for _, c := range cats.Categories {
		if _, err := tx.Exec(`
INSERT INTO categories (name) VALUES (?) ON CONFLICT(name) DO NOTHING
`, c.Name); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// LoadCatalogs reads the stored catalog bundle for an order run.
func (d *DB) LoadCatalogs() (catalog.Catalogs, error) {
	var cats catalog.Catalogs

	rows, err := d.conn.Query(`SELECT id, name, COALESCE(price, '') FROM services ORDER BY id`)
	if err != nil {
		return cats, err
	}
	for rows.Next() {
		var s internal.OrderService
		if err := rows.Scan(&s.ID, &s.Name, &s.Price); err != nil {
			_ = rows.Close()
			return cats, err
		}
		cats.Services = append(cats.Services, s)
	}
	if err := closeRows(rows); err != nil {
		return cats, err
	}

	rows, err = d.conn.Query(`SELECT name, COALESCE(category, '') FROM items ORDER BY id`)
	if err != nil {
		return cats, err
	}
	for rows.Next() {
		var i internal.Furniture
		if err := rows.Scan(&i.Name, &i.SelectedCategory); err != nil {
			_ = rows.Close()
			return cats, err
		}
		cats.Items = append(cats.Items, i)
	}
	if err := closeRows(rows); err != nil {
		return cats, err
	}

	rows, err = d.conn.Query(`SELECT id, name FROM categories ORDER BY id`)
	if err != nil {
		return cats, err
	}
	for rows.Next() {
		var c internal.Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			_ = rows.Close()
			return cats, err
		}
		cats.Categories = append(cats.Categories, c)
	}
	return cats, closeRows(rows)
}

func closeRows(rows *sql.Rows) error {
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return err
	}
	return rows.Close()
}

func (d *DB) UpsertSubmission(row internal.SubmissionRow) error {
	_, err := d.conn.Exec(`
INSERT INTO submissions (id, formId, createdAt, email, orderId, name, answersJson, status)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
  formId=excluded.formId,
  createdAt=excluded.createdAt,
  email=excluded.email,
  orderId=excluded.orderId,
  name=excluded.name,
  answersJson=excluded.answersJson,
  updatedAt=CURRENT_TIMESTAMP
`, row.ID, row.FormID, row.CreatedAt, row.Email, row.OrderID, row.Name, row.AnswersJSON, row.Status)
	return err
}

func (d *DB) GetSubmission(id string) (*internal.SubmissionRow, error) {
	var row internal.SubmissionRow
	err := d.conn.QueryRow(`
SELECT id, formId, createdAt, email, orderId, name, answersJson, status
FROM submissions WHERE id = ?
`, id).Scan(&row.ID, &row.FormID, &row.CreatedAt, &row.Email, &row.OrderID, &row.Name, &row.AnswersJSON, &row.Status)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (d *DB) MustSubmission(id string) (internal.SubmissionRow, error) {
	row, err := d.GetSubmission(id)
	if err != nil {
		return internal.SubmissionRow{}, err
	}
	if row == nil {
		return internal.SubmissionRow{}, fmt.Errorf("submission not found: %s", id)
	}
	return *row, nil
}

func (d *DB) ListSubmissionsByStatus(status string, limit int) ([]internal.SubmissionRow, error) {
	rows, err := d.conn.Query(`
SELECT id, formId, createdAt, email, orderId, name, answersJson, status
FROM submissions WHERE status = ? ORDER BY createdAt ASC LIMIT ?
`, status, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []internal.SubmissionRow
	for rows.Next() {
		var row internal.SubmissionRow
		if err := rows.Scan(&row.ID, &row.FormID, &row.CreatedAt, &row.Email, &row.OrderID, &row.Name, &row.AnswersJSON, &row.Status); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func (d *DB) UpdateSubmissionStatus(id, status string) error {
	_, err := d.conn.Exec(`UPDATE submissions SET status = ?, updatedAt = CURRENT_TIMESTAMP WHERE id = ?`, status, id)
	return err
}

// ClearSubmissionOrders removes earlier generation results so a
// submission can be reprocessed cleanly.
func (d *DB) ClearSubmissionOrders(submissionID string) error {
	tx, err := d.conn.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`
DELETE FROM order_warnings WHERE orderId IN (SELECT id FROM orders WHERE submissionId = ?)
`, submissionID); err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM orders WHERE submissionId = ?`, submissionID); err != nil {
		return err
	}
	return tx.Commit()
}

func (d *DB) InsertOrder(submissionID string, ord internal.Order, warnings []internal.Warning) (int64, error) {
	blob, err := json.Marshal(ord)
	if err != nil {
		return 0, err
	}

	tx, err := d.conn.Begin()
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	result, err := tx.Exec(`
INSERT INTO orders (submissionId, orderJson, volume) VALUES (?, ?, ?)
`, submissionID, string(blob), ord.Volume)
	if err != nil {
		return 0, err
	}
	orderID, err := result.LastInsertId()
	if err != nil {
		return 0, err
	}

	for _, w := range warnings {
		if _, err := tx.Exec(`
INSERT INTO order_warnings (orderId, kind, answer, message) VALUES (?, ?, ?, ?)
`, orderID, string(w.Kind), w.Answer, w.Message); err != nil {
			return 0, err
		}
	}

	return orderID, tx.Commit()
}

func (d *DB) GetOrder(id int) (*internal.OrderRow, error) {
	var row internal.OrderRow
	err := d.conn.QueryRow(`
SELECT id, submissionId, orderJson, COALESCE(volume, ''), status, createdAt
FROM orders WHERE id = ?
`, id).Scan(&row.ID, &row.SubmissionID, &row.OrderJSON, &row.Volume, &row.Status, &row.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (d *DB) ListOrdersByStatus(status string, limit int) ([]internal.OrderRow, error) {
	rows, err := d.conn.Query(`
SELECT id, submissionId, orderJson, COALESCE(volume, ''), status, createdAt
FROM orders WHERE status = ? ORDER BY createdAt ASC LIMIT ?
`, status, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []internal.OrderRow
	for rows.Next() {
		var row internal.OrderRow
		if err := rows.Scan(&row.ID, &row.SubmissionID, &row.OrderJSON, &row.Volume, &row.Status, &row.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func (d *DB) UpdateOrderStatus(orderID int, status string) error {
	_, err := d.conn.Exec(`UPDATE orders SET status = ? WHERE id = ?`, status, orderID)
	return err
}

func (d *DB) ListOrderWarnings(orderID int) ([]internal.Warning, error) {
	rows, err := d.conn.Query(`
SELECT kind, COALESCE(answer, ''), message FROM order_warnings WHERE orderId = ? ORDER BY id
`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []internal.Warning
	for rows.Next() {
		var w internal.Warning
		var kind string
		if err := rows.Scan(&kind, &w.Answer, &w.Message); err != nil {
			return nil, err
		}
		w.Kind = internal.WarningKind(kind)
		out = append(out, w)
	}
	return out, rows.Err()
}

func (d *DB) UpsertEmail(provider, messageID, subject, sender, receivedAt, hash, rawRef, status string) (internal.EmailRow, error) {
	_, err := d.conn.Exec(`
INSERT INTO emails (provider, messageId, subject, sender, receivedAt, hash, status, rawRef)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(provider, messageId) DO UPDATE SET
  subject=excluded.subject,
  sender=excluded.sender,
  receivedAt=excluded.receivedAt,
  hash=excluded.hash,
  rawRef=excluded.rawRef,
  updatedAt=CURRENT_TIMESTAMP
`, provider, messageID, subject, sender, receivedAt, hash, status, rawRef)
	if err != nil {
		return internal.EmailRow{}, err
	}

	row, err := d.GetEmailByProviderMessageID(provider, messageID)
	if err != nil {
		return internal.EmailRow{}, err
	}
	if row == nil {
		return internal.EmailRow{}, errors.New("failed to upsert email")
	}
	return *row, nil
}

func (d *DB) GetEmailByProviderMessageID(provider, messageID string) (*internal.EmailRow, error) {
	var row internal.EmailRow
	err := d.conn.QueryRow(`
SELECT id, provider, messageId, subject, sender, receivedAt, hash, status, rawRef
FROM emails WHERE provider = ? AND messageId = ?
`, provider, messageID).Scan(
		&row.ID, &row.Provider, &row.MessageID, &row.Subject, &row.Sender, &row.ReceivedAt, &row.Hash, &row.Status, &row.RawRef,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (d *DB) ListEmailsByStatus(status string, limit int) ([]internal.EmailRow, error) {
	rows, err := d.conn.Query(`
SELECT id, provider, messageId, subject, sender, receivedAt, hash, status, rawRef
FROM emails WHERE status = ? ORDER BY receivedAt ASC LIMIT ?
`, status, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []internal.EmailRow
	for rows.Next() {
		var row internal.EmailRow
		if err := rows.Scan(&row.ID, &row.Provider, &row.MessageID, &row.Subject, &row.Sender, &row.ReceivedAt, &row.Hash, &row.Status, &row.RawRef); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func (d *DB) UpdateEmailStatus(emailID int, status string) error {
	_, err := d.conn.Exec(`UPDATE emails SET status = ?, updatedAt = CURRENT_TIMESTAMP WHERE id = ?`, status, emailID)
	return err
}

func (d *DB) InsertRun(traceID, submissionID string, timings map[string]float64, counts map[string]int) error {
	timingsJSON, _ := json.Marshal(timings)
	countsJSON, _ := json.Marshal(counts)
	_, err := d.conn.Exec(`
INSERT INTO runs (traceId, submissionId, timingsJson, countsJson) VALUES (?, ?, ?, ?)
`, traceID, submissionID, string(timingsJSON), string(countsJSON))
	return err
}

func (d *DB) SetMetadata(key, value string) error {
	_, err := d.conn.Exec(`
INSERT INTO metadata (key, value) VALUES (?, ?)
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updatedAt = CURRENT_TIMESTAMP
`, key, value)
	return err
}

func (d *DB) GetMetadata(key string) (*string, error) {
	var value string
	err := d.conn.QueryRow(`SELECT value FROM metadata WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &value, nil
}
