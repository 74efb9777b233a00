package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/covergram/covergram/internal/logger"
	_ "github.com/lib/pq"
)

type DB struct {
	conn *sql.DB
}

// NewDB creates a new database connection
func NewDB(dsn string) (*DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("no database DSN provided")
	}

	conn, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	// Test the connection
	if err := conn.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db := &DB{conn: conn}

	// Initialize tables if they don't exist
	if err := db.initTables(); err != nil {
		return nil, fmt.Errorf("failed to initialize tables: %w", err)
	}

	logger.InfoMsg("Database connection established successfully")
	return db, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	if db != nil && db.conn != nil {
		return db.conn.Close()
	}
	return nil
}

// initTables creates the covers, usage and registry tables if they don't exist
func (db *DB) initTables() error {
	query := `
	CREATE TABLE IF NOT EXISTS user_covers (
		id SERIAL PRIMARY KEY,
		uid BIGINT NOT NULL,
		name VARCHAR(64) NOT NULL,
		file_id VARCHAR(255) NOT NULL,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		UNIQUE (uid, name)
	);

	CREATE INDEX IF NOT EXISTS idx_user_covers_uid ON user_covers(uid);

	CREATE TABLE IF NOT EXISTS user_usage (
		id SERIAL PRIMARY KEY,
		uid BIGINT UNIQUE NOT NULL,
		video_cnt BIGINT NOT NULL DEFAULT 0,
		cover_cnt BIGINT NOT NULL DEFAULT 0,
		update_time TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	);

	CREATE INDEX IF NOT EXISTS idx_user_usage_uid ON user_usage(uid);

	CREATE TABLE IF NOT EXISTS bot_users (
		id SERIAL PRIMARY KEY,
		uid BIGINT UNIQUE NOT NULL,
		username VARCHAR(255) NOT NULL DEFAULT '',
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	);

	CREATE INDEX IF NOT EXISTS idx_bot_users_uid ON bot_users(uid);
	`

	if _, err := db.conn.Exec(query); err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}

	return nil
}

// GetCovers returns all covers saved by a user, ordered by name. An empty
// slice means the user has no saved covers.
func (db *DB) GetCovers(uid int64) ([]Cover, error) {
	if db == nil {
		return nil, fmt.Errorf("database not configured")
	}

	query := `
	SELECT id, uid, name, file_id, created_at, updated_at
	FROM user_covers WHERE uid = $1 ORDER BY name`

	rows, err := db.conn.Query(query, uid)
	if err != nil {
		return nil, fmt.Errorf("failed to query covers: %w", err)
	}
	defer rows.Close()

	var covers []Cover
	for rows.Next() {
		var c Cover
		if err := rows.Scan(&c.ID, &c.UID, &c.Name, &c.FileID, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan cover: %w", err)
		}
		covers = append(covers, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate covers: %w", err)
	}

	return covers, nil
}

// GetCover returns a single named cover, or nil if the user has no cover
// under that name.
func (db *DB) GetCover(uid int64, name string) (*Cover, error) {
	if db == nil {
		return nil, fmt.Errorf("database not configured")
	}

	query := `
	SELECT id, uid, name, file_id, created_at, updated_at
	FROM user_covers WHERE uid = $1 AND name = $2`

	var c Cover
	err := db.conn.QueryRow(query, uid, name).Scan(&c.ID, &c.UID, &c.Name, &c.FileID, &c.CreatedAt, &c.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get cover: %w", err)
	}

	return &c, nil
}

// SaveCover creates or overwrites the cover under the given name. Names are
// unique per user, so a second save to the same name replaces the file id.
func (db *DB) SaveCover(uid int64, name, fileID string) error {
	if db == nil {
		return fmt.Errorf("database not configured")
	}

	query := `
	INSERT INTO user_covers (uid, name, file_id, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $4)
	ON CONFLICT (uid, name) DO UPDATE SET
		file_id = $3,
		updated_at = $4
	`

	_, err := db.conn.Exec(query, uid, name, fileID, time.Now())
	if err != nil {
		return fmt.Errorf("failed to save cover: %w", err)
	}

	return nil
}

// DeleteCover removes the named cover. The boolean reports whether a row was
// actually deleted, so callers can distinguish "gone already" from success.
func (db *DB) DeleteCover(uid int64, name string) (bool, error) {
	if db == nil {
		return false, fmt.Errorf("database not configured")
	}

	result, err := db.conn.Exec(`DELETE FROM user_covers WHERE uid = $1 AND name = $2`, uid, name)
	if err != nil {
		return false, fmt.Errorf("failed to delete cover: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to check deleted rows: %w", err)
	}

	return affected > 0, nil
}

// GetUserUsage returns the usage counters for a user. A user without a row
// has zero usage; this is not an error.
func (db *DB) GetUserUsage(uid int64) (*UserUsage, error) {
	if db == nil {
		return nil, fmt.Errorf("database not configured")
	}

	query := `
	SELECT id, uid, video_cnt, cover_cnt, update_time
	FROM user_usage WHERE uid = $1`

	var usage UserUsage
	err := db.conn.QueryRow(query, uid).Scan(&usage.ID, &usage.UID, &usage.VideoCnt, &usage.CoverCnt, &usage.UpdateTime)
	if err == sql.ErrNoRows {
		return &UserUsage{UID: uid}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user usage: %w", err)
	}

	return &usage, nil
}

// IncrementVideoCount increments the processed-videos counter for a user.
// The upsert is a single statement so concurrent handlers cannot lose updates.
func (db *DB) IncrementVideoCount(uid int64) error {
	if db == nil {
		return fmt.Errorf("database not configured")
	}

	query := `
	INSERT INTO user_usage (uid, video_cnt, update_time)
	VALUES ($1, 1, $2)
	ON CONFLICT (uid) DO UPDATE SET
		video_cnt = user_usage.video_cnt + 1,
		update_time = $2
	`

	_, err := db.conn.Exec(query, uid, time.Now())
	if err != nil {
		return fmt.Errorf("failed to increment video count: %w", err)
	}

	return nil
}

// IncrementCoverCount increments the covers-changed counter for a user.
func (db *DB) IncrementCoverCount(uid int64) error {
	if db == nil {
		return fmt.Errorf("database not configured")
	}

	query := `
	INSERT INTO user_usage (uid, cover_cnt, update_time)
	VALUES ($1, 1, $2)
	ON CONFLICT (uid) DO UPDATE SET
		cover_cnt = user_usage.cover_cnt + 1,
		update_time = $2
	`

	_, err := db.conn.Exec(query, uid, time.Now())
	if err != nil {
		return fmt.Errorf("failed to increment cover count: %w", err)
	}

	return nil
}

// RegisterUser records a user in the unique-user registry. Registration is
// idempotent; repeating it never changes the tally.
func (db *DB) RegisterUser(uid int64, username string) error {
	if db == nil {
		return fmt.Errorf("database not configured")
	}

	query := `
	INSERT INTO bot_users (uid, username)
	VALUES ($1, $2)
	ON CONFLICT (uid) DO NOTHING
	`

	_, err := db.conn.Exec(query, uid, username)
	if err != nil {
		return fmt.Errorf("failed to register user: %w", err)
	}

	return nil
}

// CountUsers returns the number of distinct users ever registered.
func (db *DB) CountUsers() (int64, error) {
	if db == nil {
		return 0, fmt.Errorf("database not configured")
	}

	var count int64
	if err := db.conn.QueryRow(`SELECT COUNT(*) FROM bot_users`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}

	return count, nil
}
