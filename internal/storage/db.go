package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	_ "modernc.org/sqlite"

	"cabquote/internal"
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
CREATE TABLE IF NOT EXISTS manufacturers (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL UNIQUE,
  basePricingMultiplier REAL NOT NULL DEFAULT 1,
  seriesJson TEXT NOT NULL DEFAULT '[]',
  updatedAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS tiers (
  manufacturerId TEXT NOT NULL,
  tierId TEXT NOT NULL,
  name TEXT NOT NULL,
  multiplier REAL NOT NULL DEFAULT 1,
  PRIMARY KEY(manufacturerId, tierId),
  FOREIGN KEY(manufacturerId) REFERENCES manufacturers(id)
);

CREATE TABLE IF NOT EXISTS options (
  manufacturerId TEXT NOT NULL,
  optionId TEXT NOT NULL,
  name TEXT NOT NULL,
  category TEXT NOT NULL,
  section TEXT,
  pricingType TEXT NOT NULL,
  price REAL NOT NULL DEFAULT 0,
  description TEXT,
  position INTEGER NOT NULL DEFAULT 0,
  PRIMARY KEY(manufacturerId, optionId),
  FOREIGN KEY(manufacturerId) REFERENCES manufacturers(id)
);

CREATE TABLE IF NOT EXISTS catalog_entries (
  manufacturerId TEXT NOT NULL,
  sku TEXT NOT NULL,
  tierName TEXT NOT NULL,
  price REAL NOT NULL,
  PRIMARY KEY(manufacturerId, sku, tierName),
  FOREIGN KEY(manufacturerId) REFERENCES manufacturers(id)
);
CREATE INDEX IF NOT EXISTS idx_catalog_sku ON catalog_entries(sku);

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

CREATE TABLE IF NOT EXISTS quotes (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  traceId TEXT NOT NULL,
  emailId INTEGER,
  manufacturerId TEXT NOT NULL,
  tierName TEXT NOT NULL,
  status TEXT NOT NULL,
  createdAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
  FOREIGN KEY(emailId) REFERENCES emails(id)
);

CREATE TABLE IF NOT EXISTS line_items (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  quoteId INTEGER NOT NULL,
  lineNo INTEGER NOT NULL,
  room TEXT,
  originalCode TEXT NOT NULL,
  normalizedCode TEXT NOT NULL,
  cabinetType TEXT NOT NULL,
  description TEXT,
  width REAL,
  height REAL,
  depth REAL,
  qty INTEGER NOT NULL,
  basePrice REAL NOT NULL,
  optionsPrice REAL NOT NULL,
  unitCost REAL NOT NULL,
  finalUnitPrice REAL NOT NULL,
  totalPrice REAL NOT NULL,
  tierName TEXT,
  source TEXT NOT NULL,
  appliedOptionsJson TEXT NOT NULL DEFAULT '[]',
  UNIQUE(quoteId, lineNo),
  FOREIGN KEY(quoteId) REFERENCES quotes(id)
);

CREATE TABLE IF NOT EXISTS runs (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  traceId TEXT NOT NULL,
  emailId INTEGER,
  timingsJson TEXT NOT NULL,
  countsJson TEXT NOT NULL,
  createdAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
  FOREIGN KEY(emailId) REFERENCES emails(id)
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

// UpsertManufacturer replaces the manufacturer's tiers, options and catalog
// wholesale. Price books are imported as a unit, so partial merges would
// only leave stale rows behind.
func (d *DB) UpsertManufacturer(m internal.Manufacturer) error {
	tx, err := d.conn.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	seriesJSON, _ := json.Marshal(m.Series)
	if _, err := tx.Exec(`
INSERT INTO manufacturers (id, name, basePricingMultiplier, seriesJson)
VALUES (?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
  name=excluded.name,
  basePricingMultiplier=excluded.basePricingMultiplier,
  seriesJson=excluded.seriesJson,
  updatedAt=CURRENT_TIMESTAMP
`, m.ID, m.Name, m.BasePricingMultiplier, string(seriesJSON)); err != nil {
		return err
	}

	for _, table := range []string{"tiers", "options", "catalog_entries"} {
		if _, err := tx.Exec(`DELETE FROM `+table+` WHERE manufacturerId = ?`, m.ID); err != nil {
			return err
		}
	}

	for _, t := range m.Tiers {
		if _, err := tx.Exec(`
INSERT INTO tiers (manufacturerId, tierId, name, multiplier) VALUES (?, ?, ?, ?)
`, m.ID, t.ID, t.Name, t.Multiplier); err != nil {
			return err
		}
	}

	for i, opt := range m.Options {
		if _, err := tx.Exec(`
INSERT INTO options (manufacturerId, optionId, name, category, section, pricingType, price, description, position)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
`, m.ID, opt.ID, opt.Name, string(opt.Category), opt.Section, string(opt.PricingType), opt.Price, opt.Description, i); err != nil {
			return err
		}
	}

	stmt, err := tx.Prepare(`
INSERT INTO catalog_entries (manufacturerId, sku, tierName, price) VALUES (?, ?, ?, ?)
`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	skus := make([]string, 0, len(m.Catalog))
	for sku := range m.Catalog {
		skus = append(skus, sku)
	}
	sort.Strings(skus)
	for _, sku := range skus {
		tiers := m.Catalog[sku]
		names := make([]string, 0, len(tiers))
		for name := range tiers {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			if _, err := stmt.Exec(m.ID, sku, name, tiers[name]); err != nil {
				return err
			}
		}
	}

	return tx.Commit()
}

func (d *DB) GetManufacturerByName(name string) (*internal.Manufacturer, error) {
	var m internal.Manufacturer
	var seriesJSON string
	err := d.conn.QueryRow(`
SELECT id, name, basePricingMultiplier, seriesJson
FROM manufacturers WHERE name = ? OR id = ?
`, name, name).Scan(&m.ID, &m.Name, &m.BasePricingMultiplier, &seriesJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	_ = json.Unmarshal([]byte(seriesJSON), &m.Series)

	if err := d.loadTiers(&m); err != nil {
		return nil, err
	}
	if err := d.loadOptions(&m); err != nil {
		return nil, err
	}
	if err := d.loadCatalog(&m); err != nil {
		return nil, err
	}
	m.SKUCount = len(m.Catalog)
	return &m, nil
}

func (d *DB) ListManufacturers() ([]string, error) {
	rows, err := d.conn.Query(`SELECT name FROM manufacturers ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		out = append(out, name)
	}
	return out, rows.Err()
}

func (d *DB) loadTiers(m *internal.Manufacturer) error {
	rows, err := d.conn.Query(`
SELECT tierId, name, multiplier FROM tiers WHERE manufacturerId = ? ORDER BY tierId
`, m.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var t internal.PricingTier
		if err := rows.Scan(&t.ID, &t.Name, &t.Multiplier); err != nil {
			return err
		}
		m.Tiers = append(m.Tiers, t)
	}
	return rows.Err()
}

func (d *DB) loadOptions(m *internal.Manufacturer) error {
	rows, err := d.conn.Query(`
SELECT optionId, name, category, section, pricingType, price, description
FROM options WHERE manufacturerId = ? ORDER BY position
`, m.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var opt internal.ManufacturerOption
		var category, pricingType string
		var section, description sql.NullString
		if err := rows.Scan(&opt.ID, &opt.Name, &category, &section, &pricingType, &opt.Price, &description); err != nil {
			return err
		}
		opt.Category = internal.ParseOptionCategory(category)
		opt.PricingType = internal.OptionPricingType(pricingType)
		opt.Section = section.String
		opt.Description = description.String
		m.Options = append(m.Options, opt)
	}
	return rows.Err()
}

func (d *DB) loadCatalog(m *internal.Manufacturer) error {
	rows, err := d.conn.Query(`
SELECT sku, tierName, price FROM catalog_entries WHERE manufacturerId = ?
`, m.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	m.Catalog = internal.Catalog{}
	for rows.Next() {
		var sku, tierName string
		var price float64
		if err := rows.Scan(&sku, &tierName, &price); err != nil {
			return err
		}
		tiers, ok := m.Catalog[sku]
		if !ok {
			tiers = internal.TierPrices{}
			m.Catalog[sku] = tiers
		}
		tiers[tierName] = price
	}
	return rows.Err()
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

func (d *DB) GetEmailByID(id int) (*internal.EmailRow, error) {
	var row internal.EmailRow
	err := d.conn.QueryRow(`
SELECT id, provider, messageId, subject, sender, receivedAt, hash, status, rawRef
FROM emails WHERE id = ?
`, id).Scan(
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

// ClearEmailQuotes drops previous pricing runs for an email before a
// reprocess writes fresh ones.
func (d *DB) ClearEmailQuotes(emailID int) error {
	tx, err := d.conn.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	rows, err := tx.Query(`SELECT id FROM quotes WHERE emailId = ?`, emailID)
	if err != nil {
		return err
	}
	var quoteIDs []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			_ = rows.Close()
			return err
		}
		quoteIDs = append(quoteIDs, id)
	}
	_ = rows.Close()

	for _, id := range quoteIDs {
		if _, err := tx.Exec(`DELETE FROM line_items WHERE quoteId = ?`, id); err != nil {
			return err
		}
		if _, err := tx.Exec(`DELETE FROM quotes WHERE id = ?`, id); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (d *DB) InsertQuote(traceID string, emailID *int, manufacturerID, tierName, status string) (int64, error) {
	result, err := d.conn.Exec(`
INSERT INTO quotes (traceId, emailId, manufacturerId, tierName, status)
VALUES (?, ?, ?, ?, ?)
`, traceID, emailID, manufacturerID, tierName, status)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

func (d *DB) UpdateQuoteStatus(quoteID int64, status string) error {
	_, err := d.conn.Exec(`UPDATE quotes SET status = ? WHERE id = ?`, status, quoteID)
	return err
}

func (d *DB) InsertLineItems(quoteID int64, lines []internal.PricingLineItem) error {
	tx, err := d.conn.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.Prepare(`
INSERT INTO line_items (
  quoteId, lineNo, room, originalCode, normalizedCode, cabinetType, description,
  width, height, depth, qty,
  basePrice, optionsPrice, unitCost, finalUnitPrice, totalPrice,
  tierName, source, appliedOptionsJson
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, line := range lines {
		optionsJSON, _ := json.Marshal(line.AppliedOptions)
		if _, err := stmt.Exec(
			quoteID, i+1, line.Room, line.OriginalCode, line.NormalizedCode, string(line.Type), line.Description,
			line.Width, line.Height, line.Depth, line.Quantity,
			line.BasePrice, line.OptionsPrice, line.UnitCost, line.FinalUnitPrice, line.TotalPrice,
			line.TierName, line.Source, string(optionsJSON),
		); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (d *DB) GetQuoteLineItems(quoteID int64) ([]internal.PricingLineItem, error) {
	rows, err := d.conn.Query(`
SELECT room, originalCode, normalizedCode, cabinetType, description,
       width, height, depth, qty,
       basePrice, optionsPrice, unitCost, finalUnitPrice, totalPrice,
       tierName, source, appliedOptionsJson
FROM line_items WHERE quoteId = ? ORDER BY lineNo ASC
`, quoteID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []internal.PricingLineItem
	for rows.Next() {
		var line internal.PricingLineItem
		var cabinetType, optionsJSON string
		var room, description, tierName sql.NullString
		if err := rows.Scan(
			&room, &line.OriginalCode, &line.NormalizedCode, &cabinetType, &description,
			&line.Width, &line.Height, &line.Depth, &line.Quantity,
			&line.BasePrice, &line.OptionsPrice, &line.UnitCost, &line.FinalUnitPrice, &line.TotalPrice,
			&tierName, &line.Source, &optionsJSON,
		); err != nil {
			return nil, err
		}
		line.Room = room.String
		line.Description = description.String
		line.TierName = tierName.String
		line.Type = internal.ParseCabinetType(cabinetType)
		_ = json.Unmarshal([]byte(optionsJSON), &line.AppliedOptions)
		out = append(out, line)
	}

	return out, rows.Err()
}

func (d *DB) GetLatestQuoteForEmail(emailID int) (*internal.QuoteRow, error) {
	var row internal.QuoteRow
	err := d.conn.QueryRow(`
SELECT id, traceId, emailId, manufacturerId, tierName, status, createdAt
FROM quotes WHERE emailId = ? ORDER BY id DESC LIMIT 1
`, emailID).Scan(&row.ID, &row.TraceID, &row.EmailID, &row.ManufacturerID, &row.TierName, &row.Status, &row.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (d *DB) InsertRun(traceID string, emailID int, timings map[string]float64, counts map[string]int) error {
	timingsJSON, _ := json.Marshal(timings)
	countsJSON, _ := json.Marshal(counts)
	_, err := d.conn.Exec(`INSERT INTO runs (traceId, emailId, timingsJson, countsJson) VALUES (?, ?, ?, ?)`, traceID, emailID, string(timingsJSON), string(countsJSON))
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

func (d *DB) MustEmailByProviderMessageID(provider, messageID string) (internal.EmailRow, error) {
	row, err := d.GetEmailByProviderMessageID(provider, messageID)
	if err != nil {
		return internal.EmailRow{}, err
	}
	if row == nil {
		return internal.EmailRow{}, fmt.Errorf("email not found: provider=%s messageId=%s", provider, messageID)
	}
	return *row, nil
}
