package db

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            BIGSERIAL PRIMARY KEY,
		username      TEXT UNIQUE NOT NULL,
		password_hash TEXT NOT NULL,
		display_name  TEXT NOT NULL DEFAULT '',
		created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		last_login    TIMESTAMPTZ
	)`,
	`CREATE TABLE IF NOT EXISTS places (
		id         BIGSERIAL PRIMARY KEY,
		lat        DOUBLE PRECISION NOT NULL,
		lng        DOUBLE PRECISION NOT NULL,
		type       TEXT NOT NULL CHECK (type IN ('heart', 'paw')),
		name       TEXT NOT NULL DEFAULT '',
		note       TEXT NOT NULL DEFAULT '',
		rating     INTEGER NOT NULL DEFAULT 0,
		category   TEXT NOT NULL DEFAULT 'other',
		photo_url  TEXT NOT NULL DEFAULT '',
		created_by TEXT NOT NULL DEFAULT '',
		user_id    BIGINT NOT NULL REFERENCES users (id),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		visited_at TIMESTAMPTZ
	)`,
	`CREATE INDEX IF NOT EXISTS places_user_created_idx ON places (user_id, created_at DESC)`,
	`CREATE TABLE IF NOT EXISTS messages (
		id         BIGSERIAL PRIMARY KEY,
		place_id   BIGINT NOT NULL REFERENCES places (id) ON DELETE CASCADE,
		author     TEXT NOT NULL,
		content    TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS messages_place_created_idx ON messages (place_id, created_at DESC)`,
}
