// Package profile reads user language preferences from the user database.
package profile

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// SQLiteStore implements ports.ProfileStore over the profiles table of the
// user database. The engine only ever reads from it.
type SQLiteStore struct {
	db      *sql.DB
	timeout time.Duration
}

// NewSQLiteStore opens the database at path. A non-positive timeout uses 2s.
func NewSQLiteStore(path string, timeout time.Duration) (*SQLiteStore, error) {
	if path == "" {
		return nil, errors.New("profile database path is empty")
	}
	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connecting to database: %w", err)
	}
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &SQLiteStore{db: db, timeout: timeout}, nil
}

// LanguagePreference returns the stored language of the profile belonging
// to userID. A missing profile or an empty language is "no preference".
func (s *SQLiteStore) LanguagePreference(ctx context.Context, userID string) (string, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var lang sql.NullString
	err := s.db.QueryRowContext(ctx,
		`SELECT language FROM profiles WHERE user_id = ?`, userID,
	).Scan(&lang)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("querying profile: %w", err)
	}
	if !lang.Valid || strings.TrimSpace(lang.String) == "" {
		return "", false, nil
	}
	return lang.String, true, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
