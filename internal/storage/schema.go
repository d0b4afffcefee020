// ABOUTME: SQLite schema definition and initialization.
// ABOUTME: Defines tables for categories and consumptions.
package storage

// timeLayout is fixed-width UTC so text comparison matches chronological order.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// initSchema creates or updates the database schema.
// consumptions.category_id has no foreign key: records outlive their category
// and carry a name/icon snapshot instead.
func (d *DB) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS categories (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		icon TEXT NOT NULL DEFAULT '',
		is_default INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS consumptions (
		id TEXT PRIMARY KEY,
		category_id TEXT NOT NULL,
		category_name TEXT NOT NULL,
		category_icon TEXT NOT NULL DEFAULT '',
		calories INTEGER NOT NULL DEFAULT 0,
		water_amount REAL,
		consumed_at TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE UNIQUE INDEX IF NOT EXISTS idx_categories_name ON categories(name COLLATE NOCASE);
	CREATE INDEX IF NOT EXISTS idx_consumptions_consumed ON consumptions(consumed_at DESC);
	CREATE INDEX IF NOT EXISTS idx_consumptions_category ON consumptions(category_id);
	`

	_, err := d.db.Exec(schema)
	return err
}
