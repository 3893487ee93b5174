package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(dataSourceName string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err = db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err = store.initSchema(); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return store, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) initSchema() error {
	schema := `
    CREATE TABLE IF NOT EXISTS users (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        external_user_id TEXT UNIQUE NOT NULL,
        password_hash TEXT NOT NULL,
        created_at DATETIME DEFAULT CURRENT_TIMESTAMP
    );

    CREATE TABLE IF NOT EXISTS chat_history (
        id TEXT PRIMARY KEY, -- UUID
        user_id INTEGER NOT NULL,
        message TEXT NOT NULL,
        response TEXT NOT NULL,
        timestamp DATETIME DEFAULT CURRENT_TIMESTAMP,
        FOREIGN KEY (user_id) REFERENCES users (id)
    );

    CREATE INDEX IF NOT EXISTS idx_chat_history_user ON chat_history (user_id, timestamp);
    `
	_, err := s.db.Exec(schema)
	return err
}

// User methods
func (s *SQLiteStore) GetUserByExternalID(externalUserID string) (*User, error) {
	var user User
	err := s.db.QueryRow("SELECT id, external_user_id, password_hash, created_at FROM users WHERE external_user_id = ?", externalUserID).Scan(&user.ID, &user.ExternalUserID, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // User not found
		}
		return nil, fmt.Errorf("failed to query user: %w", err)
	}
	return &user, nil
}

func (s *SQLiteStore) CreateUser(externalUserID, passwordHash string) (*User, error) {
	res, err := s.db.Exec("INSERT INTO users (external_user_id, password_hash) VALUES (?, ?)", externalUserID, passwordHash)
	if err != nil {
		return nil, fmt.Errorf("failed to insert user: %w", err)
	}
	id, _ := res.LastInsertId()
	return s.getUserByID(id)
}

func (s *SQLiteStore) getUserByID(id int64) (*User, error) {
	var user User
	err := s.db.QueryRow("SELECT id, external_user_id, password_hash, created_at FROM users WHERE id = ?", id).Scan(&user.ID, &user.ExternalUserID, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}
	return &user, nil
}

// Chat history methods

// RecordExchange appends one message/response pair to the user's history.
func (s *SQLiteStore) RecordExchange(ctx context.Context, userID int64, message, response string) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO chat_history (id, user_id, message, response, timestamp) VALUES (?, ?, ?, ?, ?)",
		uuid.NewString(), userID, message, response, time.Now())
	if err != nil {
		return fmt.Errorf("failed to insert chat history row: %w", err)
	}
	return nil
}

// EnsureWelcomeMessage seeds the greeting row for a user exactly once.
func (s *SQLiteStore) EnsureWelcomeMessage(ctx context.Context, userID int64, greeting string) error {
	var count int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM chat_history WHERE user_id = ? AND message = ?",
		userID, WelcomeSentinel).Scan(&count)
	if err != nil {
		return fmt.Errorf("failed to check for welcome row: %w", err)
	}
	if count > 0 {
		return nil
	}
	_, err = s.db.ExecContext(ctx,
		"INSERT INTO chat_history (id, user_id, message, response, timestamp) VALUES (?, ?, ?, ?, ?)",
		uuid.NewString(), userID, WelcomeSentinel, greeting, time.Now())
	if err != nil {
		return fmt.Errorf("failed to insert welcome row: %w", err)
	}
	return nil
}

func (s *SQLiteStore) GetHistoryByUserID(ctx context.Context, userID int64) ([]ChatHistoryRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, user_id, message, response, timestamp FROM chat_history WHERE user_id = ? ORDER BY timestamp ASC",
		userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query chat history: %w", err)
	}
	defer rows.Close()

	var records []ChatHistoryRecord
	for rows.Next() {
		var rec ChatHistoryRecord
		if err := rows.Scan(&rec.ID, &rec.UserID, &rec.Message, &rec.Response, &rec.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan chat history row: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
