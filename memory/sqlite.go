package memory

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	_ "github.com/mattn/go-sqlite3"
	"github.com/openai/openai-go/v2"
)

// SQLiteSaver stores checkpoints in a SQLite database so conversation state
// survives process restarts. Messages are stored one row per message, in
// order, as serialized chat-completions params.
type SQLiteSaver struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteSaver opens (creating if needed) the database at path.
func NewSQLiteSaver(ctx context.Context, path string) (_ *SQLiteSaver, err error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	s := &SQLiteSaver{db: db}
	defer func() {
		if err != nil {
			if e := s.Close(); e != nil {
				err = errors.Join(err, e)
			}
		}
	}()

	if _, err = db.ExecContext(ctx, `PRAGMA journal_mode=WAL`); err != nil {
		return nil, fmt.Errorf("set journal mode: %w", err)
	}
	if err = s.initDB(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *SQLiteSaver) initDB(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS threads (
			thread_id TEXT PRIMARY KEY,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);
		CREATE TABLE IF NOT EXISTS messages (
			thread_id TEXT NOT NULL,
			seq INTEGER NOT NULL,
			message_data TEXT NOT NULL,
			PRIMARY KEY (thread_id, seq),
			FOREIGN KEY (thread_id) REFERENCES threads(thread_id)
		);
	`)
	if err != nil {
		return fmt.Errorf("init schema: %w", err)
	}
	return nil
}

func (s *SQLiteSaver) Get(ctx context.Context, threadID string) (_ []openai.ChatCompletionMessageParamUnion, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT message_data FROM messages
		WHERE thread_id = ?
		ORDER BY seq ASC
	`, threadID)
	if err != nil {
		return nil, fmt.Errorf("query checkpoint: %w", err)
	}
	defer func() {
		if e := rows.Close(); e != nil {
			err = errors.Join(err, e)
		}
	}()

	var msgs []openai.ChatCompletionMessageParamUnion
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("scan checkpoint row: %w", err)
		}
		var m openai.ChatCompletionMessageParamUnion
		if err := json.Unmarshal([]byte(data), &m); err != nil {
			return nil, fmt.Errorf("decode checkpointed message: %w", err)
		}
		msgs = append(msgs, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate checkpoint rows: %w", err)
	}
	return msgs, nil
}

func (s *SQLiteSaver) Put(ctx context.Context, threadID string, msgs []openai.ChatCompletionMessageParamUnion) (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin checkpoint tx: %w", err)
	}
	defer func() {
		if err != nil {
			if e := tx.Rollback(); e != nil && !errors.Is(e, sql.ErrTxDone) {
				err = errors.Join(err, e)
			}
		}
	}()

	if _, err = tx.ExecContext(ctx, `INSERT OR IGNORE INTO threads (thread_id) VALUES (?)`, threadID); err != nil {
		return fmt.Errorf("ensure thread row: %w", err)
	}
	// Put replaces the whole checkpoint; simpler than diffing against the
	// previous state and checkpoints are small.
	if _, err = tx.ExecContext(ctx, `DELETE FROM messages WHERE thread_id = ?`, threadID); err != nil {
		return fmt.Errorf("clear old checkpoint: %w", err)
	}
	for i, m := range msgs {
		data, err := json.Marshal(m)
		if err != nil {
			return fmt.Errorf("encode message %d: %w", i, err)
		}
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO messages (thread_id, seq, message_data) VALUES (?, ?, ?)`,
			threadID, i, string(data),
		); err != nil {
			return fmt.Errorf("insert message %d: %w", i, err)
		}
	}
	return tx.Commit()
}

func (s *SQLiteSaver) Threads(ctx context.Context) (_ []string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.QueryContext(ctx, `SELECT thread_id FROM threads ORDER BY thread_id ASC`)
	if err != nil {
		return nil, fmt.Errorf("query threads: %w", err)
	}
	defer func() {
		if e := rows.Close(); e != nil {
			err = errors.Join(err, e)
		}
	}()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan thread row: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Close releases the underlying database handle.
func (s *SQLiteSaver) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}
