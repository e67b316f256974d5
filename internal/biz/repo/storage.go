package repo

import (
	"context"

	"github.com/mobilemsg/push-js-bridge/internal/biz/domain"
)

// MessageStore is the message storage contract. Both the built-in sqlite
// store and the JS custom store adapter implement it.
type MessageStore interface {
	// Start prepares the store for use. Called once during initialization.
	Start() error

	// Stop releases the store's resources.
	Stop() error

	// Save upserts the given message records.
	Save(ctx context.Context, messages []*domain.MessageRecord) error

	// Find returns the record with the given message ID, or nil when the
	// store holds no such message.
	Find(ctx context.Context, messageID string) (*domain.MessageRecord, error)

	// FindAll returns every stored record.
	FindAll(ctx context.Context) ([]*domain.MessageRecord, error)
}
