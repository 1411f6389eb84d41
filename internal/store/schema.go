package store

// Six tables, all keyed by user_id: the append-only message log plus one
// table per category. Labels collate NOCASE so the UNIQUE(user_id, label)
// constraints close the upsert race case-insensitively in the schema rather
// than in application code; the stored label keeps its original casing.
const schema = `
CREATE TABLE IF NOT EXISTS user_messages (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id TEXT NOT NULL,
	content TEXT NOT NULL,
	category TEXT NOT NULL,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_messages_user_created ON user_messages(user_id, created_at);

CREATE TABLE IF NOT EXISTS user_credentials (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id TEXT NOT NULL,
	label TEXT NOT NULL COLLATE NOCASE,
	username TEXT NOT NULL,
	password TEXT NOT NULL,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	UNIQUE(user_id, label)
);

CREATE TABLE IF NOT EXISTS user_passwords (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id TEXT NOT NULL,
	label TEXT NOT NULL COLLATE NOCASE,
	password TEXT NOT NULL,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	UNIQUE(user_id, label)
);

CREATE TABLE IF NOT EXISTS user_notes (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id TEXT NOT NULL,
	note TEXT NOT NULL,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_notes_user ON user_notes(user_id);

CREATE TABLE IF NOT EXISTS user_emails (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id TEXT NOT NULL,
	email TEXT NOT NULL,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_emails_user ON user_emails(user_id);

CREATE TABLE IF NOT EXISTS user_links (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id TEXT NOT NULL,
	url TEXT NOT NULL,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_links_user ON user_links(user_id);
`
