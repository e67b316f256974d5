package data

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/mobilemsg/push-js-bridge/internal/biz/domain"
	"github.com/mobilemsg/push-js-bridge/internal/biz/repo"

	_ "modernc.org/sqlite"
)

// defaultMessageStore is the built-in on-device message store, backed by
// sqlite. It is only active when the configuration sets
// defaultMessageStorage.
type defaultMessageStore struct {
	dbPath string

	mu sync.Mutex
	db *sql.DB
}

// NewDefaultMessageStore creates the built-in store. The database is not
// opened until Start.
func NewDefaultMessageStore(dbPath string) repo.MessageStore {
	return &defaultMessageStore{dbPath: dbPath}
}

func (s *defaultMessageStore) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db != nil {
		return nil
	}

	dir := filepath.Dir(s.dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", s.dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS messages (
			message_id TEXT PRIMARY KEY,
			record TEXT NOT NULL,
			received_at INTEGER NOT NULL DEFAULT 0
		)
	`)
	if err != nil {
		db.Close()
		return fmt.Errorf("failed to create table: %w", err)
	}

	_, err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_messages_received_at ON messages(received_at)
	`)
	if err != nil {
		db.Close()
		return fmt.Errorf("failed to create index: %w", err)
	}

	s.db = db
	return nil
}

func (s *defaultMessageStore) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func (s *defaultMessageStore) Save(ctx context.Context, messages []*domain.MessageRecord) error {
	db, err := s.handle()
	if err != nil {
		return err
	}

	for _, record := range messages {
		if record == nil || record.MessageID == "" {
			continue
		}
		encoded, err := json.Marshal(record)
		if err != nil {
			return fmt.Errorf("failed to encode message %s: %w", record.MessageID, err)
		}
		_, err = db.ExecContext(ctx, `
			INSERT OR REPLACE INTO messages (message_id, record, received_at)
			VALUES (?, ?, ?)
		`, record.MessageID, string(encoded), record.ReceivedTimestamp)
		if err != nil {
			return fmt.Errorf("failed to save message %s: %w", record.MessageID, err)
		}
	}
	return nil
}

func (s *defaultMessageStore) Find(ctx context.Context, messageID string) (*domain.MessageRecord, error) {
	db, err := s.handle()
	if err != nil {
		return nil, err
	}

	row := db.QueryRowContext(ctx, `SELECT record FROM messages WHERE message_id = ?`, messageID)

	var encoded string
	err = row.Scan(&encoded)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query message: %w", err)
	}

	var record domain.MessageRecord
	if err := json.Unmarshal([]byte(encoded), &record); err != nil {
		return nil, fmt.Errorf("failed to decode message: %w", err)
	}
	return &record, nil
}

func (s *defaultMessageStore) FindAll(ctx context.Context) ([]*domain.MessageRecord, error) {
	db, err := s.handle()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, `SELECT record FROM messages ORDER BY received_at`)
	if err != nil {
		return nil, fmt.Errorf("failed to query messages: %w", err)
	}
	defer rows.Close()

	var records []*domain.MessageRecord
	for rows.Next() {
		var encoded string
		if err := rows.Scan(&encoded); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		var record domain.MessageRecord
		if err := json.Unmarshal([]byte(encoded), &record); err != nil {
			fmt.Printf("[Storage] Skipping undecodable message record: %v\n", err)
			continue
		}
		records = append(records, &record)
	}
	return records, rows.Err()
}

func (s *defaultMessageStore) handle() (*sql.DB, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil, fmt.Errorf("message store is not started")
	}
	return s.db, nil
}
