package ledger

const schemaSQL = `
CREATE TABLE IF NOT EXISTS transactions (
    id                   INTEGER PRIMARY KEY AUTOINCREMENT,
    occurred_at          TEXT NOT NULL,
    category             TEXT NOT NULL,
    amount               TEXT NOT NULL,
    source_file          TEXT NOT NULL REFERENCES file_tracker(file_path) ON DELETE CASCADE,
    line                 INTEGER NOT NULL,
    imported_at          TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS file_tracker (
    file_path            TEXT PRIMARY KEY,
    mtime_ns             INTEGER NOT NULL,
    size_bytes           INTEGER NOT NULL,
    row_count            INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_transactions_occurred ON transactions(occurred_at);
CREATE INDEX IF NOT EXISTS idx_transactions_category ON transactions(category);
`
