package history

const schema = `
-- Performance and reliability settings
PRAGMA journal_mode = WAL;
PRAGMA synchronous = NORMAL;
PRAGMA foreign_keys = ON;

-- Classifications: one row per completed analysis cycle
CREATE TABLE IF NOT EXISTS classifications (
    classification_id INTEGER PRIMARY KEY AUTOINCREMENT,
    url TEXT NOT NULL,
    hostname TEXT NOT NULL,
    sentiment TEXT NOT NULL,            -- positive, negative, neutral
    content_type TEXT NOT NULL,         -- news, entertainment, video, short, ...
    doom_score REAL NOT NULL,           -- 0.0-1.0, two decimals
    language TEXT,                      -- ISO 639-1, empty when undetected
    model_version TEXT NOT NULL,
    extraction_method TEXT,             -- adapter, generic-card, visible-text, none
    classified_at TIMESTAMP NOT NULL,

    -- Raw text and structured data are only present when the user opted in
    text TEXT,
    structured_data TEXT                -- JSON blob
);

CREATE INDEX IF NOT EXISTS idx_classifications_hostname ON classifications(hostname);
CREATE INDEX IF NOT EXISTS idx_classifications_time ON classifications(classified_at DESC);
CREATE INDEX IF NOT EXISTS idx_classifications_content_type ON classifications(content_type);
`
