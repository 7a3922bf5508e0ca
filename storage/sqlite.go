package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/hupe1980/dialogkit/core"
	"github.com/hupe1980/dialogkit/logging"
)

// Compile-time check that SQLStore satisfies core.ConversationStore.
var _ core.ConversationStore = (*SQLStore)(nil)

// SQLOptions configures SQLStore.
type SQLOptions struct {
	// Logger receives schema and query debug output.
	Logger logging.Logger
}

// SQLStore is a core.ConversationStore backed by SQLite. The driver is
// pure Go, so the store works without cgo.
type SQLStore struct {
	db     *sql.DB
	logger logging.Logger
}

// Open opens (or creates) the SQLite database at path and ensures the
// schema exists. Use ":memory:" for an ephemeral database.
func Open(path string, optFns ...func(o *SQLOptions)) (*SQLStore, error) {
	opts := SQLOptions{
		Logger: logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// Every pooled connection to ":memory:" would get its own empty
	// database, so pin the pool to a single connection.
	if path == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	s := &SQLStore{db: db, logger: opts.Logger}

	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	s.logger.Debug("conversation store opened", "path", path)

	return s, nil
}

func (s *SQLStore) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS conversations (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT NOT NULL,
			user_id TEXT NOT NULL,
			message TEXT,
			intent TEXT,
			confidence REAL,
			response TEXT,
			timestamp DATETIME NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_conversations_session ON conversations(session_id)`,
		`CREATE INDEX IF NOT EXISTS idx_conversations_user ON conversations(user_id)`,
	}

	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("exec schema: %w", err)
		}
	}

	return nil
}

// Save persists one processed turn. A zero timestamp is stamped with
// the current time.
func (s *SQLStore) Save(ctx context.Context, rec core.Record) error {
	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `INSERT INTO conversations
		(session_id, user_id, message, intent, confidence, response, timestamp)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.SessionID, rec.UserID, rec.Message, rec.Intent, rec.Confidence, rec.Response, rec.Timestamp)
	if err != nil {
		return fmt.Errorf("save conversation: %w", err)
	}

	return nil
}

// UserHistory returns up to limit of the user's most recent turns,
// newest first. limit <= 0 means no limit.
func (s *SQLStore) UserHistory(ctx context.Context, userID string, limit int) ([]core.Record, error) {
	query := `SELECT id, session_id, user_id, message, intent, confidence, response, timestamp
		FROM conversations WHERE user_id = ? ORDER BY timestamp DESC, id DESC`
	args := []any{userID}

	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query user history: %w", err)
	}
	defer rows.Close()

	return scanRecords(rows)
}

// SessionHistory returns the session's turns, oldest first.
func (s *SQLStore) SessionHistory(ctx context.Context, sessionID string) ([]core.Record, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, session_id, user_id, message, intent, confidence, response, timestamp
		FROM conversations WHERE session_id = ? ORDER BY timestamp ASC, id ASC`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("query session history: %w", err)
	}
	defer rows.Close()

	return scanRecords(rows)
}

// Close closes the underlying database.
func (s *SQLStore) Close() error {
	return s.db.Close()
}

func scanRecords(rows *sql.Rows) ([]core.Record, error) {
	records := []core.Record{}

	for rows.Next() {
		var rec core.Record
		if err := rows.Scan(&rec.ID, &rec.SessionID, &rec.UserID, &rec.Message,
			&rec.Intent, &rec.Confidence, &rec.Response, &rec.Timestamp); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate records: %w", err)
	}

	return records, nil
}
