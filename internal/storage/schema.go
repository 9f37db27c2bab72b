package storage

const schema = `
CREATE TABLE IF NOT EXISTS uploads (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    upload_uuid TEXT UNIQUE NOT NULL,
    success BOOLEAN DEFAULT FALSE,
    exit_code INTEGER NOT NULL,
    upload_id TEXT DEFAULT '',
    build_id TEXT DEFAULT '',
    app_id TEXT NOT NULL,
    depot_id TEXT NOT NULL,
    build_path TEXT DEFAULT '',
    uploaded_at DATETIME NOT NULL,
    log_output TEXT DEFAULT '',
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_uploads_uploaded_at ON uploads(uploaded_at DESC);
CREATE INDEX IF NOT EXISTS idx_uploads_upload_uuid ON uploads(upload_uuid);
`
