package db

const schema = `
PRAGMA journal_mode = WAL;
PRAGMA synchronous = NORMAL;
PRAGMA foreign_keys = ON;
PRAGMA temp_store = MEMORY;

-- Datasets: one row per imported category snapshot
CREATE TABLE IF NOT EXISTS datasets (
    dataset_id TEXT PRIMARY KEY,          -- uuid
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    source TEXT NOT NULL,                 -- file path or API base URL
    fingerprint TEXT NOT NULL UNIQUE,     -- sha256 over the normalized records
    record_count INTEGER NOT NULL,
    with_aspects INTEGER DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_datasets_created ON datasets(created_at DESC);

-- Categories: rows of a dataset, in load order
CREATE TABLE IF NOT EXISTS categories (
    row_id INTEGER PRIMARY KEY AUTOINCREMENT,
    dataset_id TEXT NOT NULL,
    position INTEGER NOT NULL,
    category_id TEXT,
    name TEXT NOT NULL,
    aspects_count INTEGER NOT NULL,
    aspects_raw TEXT,                     -- NULL when the field was absent
    aspects_parsed TEXT NOT NULL,         -- JSON array of strings
    FOREIGN KEY (dataset_id) REFERENCES datasets(dataset_id) ON DELETE CASCADE,
    UNIQUE(dataset_id, position)
);

CREATE INDEX IF NOT EXISTS idx_categories_dataset ON categories(dataset_id);
CREATE INDEX IF NOT EXISTS idx_categories_name ON categories(name);
`
