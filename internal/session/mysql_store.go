package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	intdb "rentalweb/internal/db"
)

const mysqlTable = "web_sessions"

// MySQLStore persists sessions in the web_sessions table.
type MySQLStore struct {
	DB *sql.DB
}

// EnsureTable creates web_sessions when it is missing.
func (s MySQLStore) EnsureTable(ctx context.Context) error {
	if s.DB == nil {
		return fmt.Errorf("session db not available")
	}
	if intdb.HasTable(ctx, s.DB, mysqlTable) {
		return nil
	}
	ddl := `
CREATE TABLE IF NOT EXISTS web_sessions (
	id VARCHAR(64) NOT NULL PRIMARY KEY,
	user_id VARCHAR(64) NULL,
	data MEDIUMTEXT NOT NULL,
	expires_at DATETIME NOT NULL,
	updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
	KEY idx_expires (expires_at)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;
`
	_, err := s.DB.ExecContext(ctx, ddl)
	return err
}

func (s MySQLStore) Get(ctx context.Context, id string) (*Session, error) {
	var (
		raw     string
		expires time.Time
	)
	err := s.DB.QueryRowContext(ctx,
		`SELECT data, expires_at FROM web_sessions WHERE id=? LIMIT 1`, id,
	).Scan(&raw, &expires)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if !time.Now().Before(expires) {
		return nil, ErrNotFound
	}
	return decode(id, []byte(raw))
}

func (s MySQLStore) Save(ctx context.Context, sess *Session) error {
	raw, err := encode(sess)
	if err != nil {
		return err
	}
	_, err = s.DB.ExecContext(ctx, `
		INSERT INTO web_sessions (id, user_id, data, expires_at) VALUES (?,?,?,?)
		ON DUPLICATE KEY UPDATE user_id=VALUES(user_id), data=VALUES(data), expires_at=VALUES(expires_at)`,
		sess.ID, intdb.NullIfEmpty(sess.UserID), string(raw), sess.ExpiresAt.UTC(),
	)
	return err
}

func (s MySQLStore) Delete(ctx context.Context, id string) error {
	_, err := s.DB.ExecContext(ctx, `DELETE FROM web_sessions WHERE id=?`, id)
	return err
}

func (s MySQLStore) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := s.DB.ExecContext(ctx, `DELETE FROM web_sessions WHERE expires_at <= ?`, now.UTC())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
