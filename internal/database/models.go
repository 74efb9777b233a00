package database

import "time"

// Cover is one saved cover image owned by a user: a name mapped to the
// Telegram file id of the photo.
type Cover struct {
	ID        int       `db:"id" json:"id"`
	UID       int64     `db:"uid" json:"uid"`
	Name      string    `db:"name" json:"name"`
	FileID    string    `db:"file_id" json:"file_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// UserUsage tracks per-user monotonic counters. Records are created lazily;
// a user without a row has zero usage.
type UserUsage struct {
	ID         int       `db:"id" json:"id"`
	UID        int64     `db:"uid" json:"uid"`
	VideoCnt   int64     `db:"video_cnt" json:"video_cnt"`
	CoverCnt   int64     `db:"cover_cnt" json:"cover_cnt"`
	UpdateTime time.Time `db:"update_time" json:"update_time"`
}

// BotUser is one row in the unique-user registry.
type BotUser struct {
	ID        int       `db:"id" json:"id"`
	UID       int64     `db:"uid" json:"uid"`
	Username  string    `db:"username" json:"username"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
