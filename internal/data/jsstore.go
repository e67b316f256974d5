package data

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mobilemsg/push-js-bridge/internal/biz/domain"
	"github.com/mobilemsg/push-js-bridge/internal/biz/repo"
)

// StoreBoundary is the slice of the runtime channel the JS store adapter
// needs: lifecycle events out, query results back in. Query results return
// on a dedicated channel keyed by request ID, not on the normal event
// stream.
type StoreBoundary interface {
	EmitStoreEvent(event string, payload interface{}) error
	AwaitStoreResult(ctx context.Context, requestID string) ([]map[string]interface{}, error)
}

const storeResultTimeout = 10 * time.Second

// jsMessageStore adapts a JS-side custom message store to the
// repo.MessageStore contract by forwarding lifecycle calls as
// messageStorage.* events over the runtime boundary.
type jsMessageStore struct {
	boundary StoreBoundary
}

// NewJSMessageStore creates the adapter for a JS custom store.
func NewJSMessageStore(boundary StoreBoundary) repo.MessageStore {
	return &jsMessageStore{boundary: boundary}
}

func (s *jsMessageStore) Start() error {
	return s.boundary.EmitStoreEvent(domain.EventMessageStorageStart, nil)
}

func (s *jsMessageStore) Stop() error {
	return s.boundary.EmitStoreEvent(domain.EventMessageStorageStop, nil)
}

func (s *jsMessageStore) Save(ctx context.Context, messages []*domain.MessageRecord) error {
	return s.boundary.EmitStoreEvent(domain.EventMessageStorageSave, messages)
}

func (s *jsMessageStore) Find(ctx context.Context, messageID string) (*domain.MessageRecord, error) {
	results, err := s.query(ctx, domain.EventMessageStorageFind, map[string]interface{}{
		"messageId": messageID,
	})
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return decodeRecord(results[0])
}

func (s *jsMessageStore) FindAll(ctx context.Context) ([]*domain.MessageRecord, error) {
	results, err := s.query(ctx, domain.EventMessageStorageFindAll, nil)
	if err != nil {
		return nil, err
	}

	records := make([]*domain.MessageRecord, 0, len(results))
	for _, raw := range results {
		record, err := decodeRecord(raw)
		if err != nil {
			fmt.Printf("[Storage] Skipping undecodable store result: %v\n", err)
			continue
		}
		records = append(records, record)
	}
	return records, nil
}

func (s *jsMessageStore) query(ctx context.Context, event string, extra map[string]interface{}) ([]map[string]interface{}, error) {
	requestID := uuid.NewString()

	payload := map[string]interface{}{"requestId": requestID}
	for k, v := range extra {
		payload[k] = v
	}

	ctx, cancel := context.WithTimeout(ctx, storeResultTimeout)
	defer cancel()

	if err := s.boundary.EmitStoreEvent(event, payload); err != nil {
		return nil, err
	}
	return s.boundary.AwaitStoreResult(ctx, requestID)
}

func decodeRecord(raw map[string]interface{}) (*domain.MessageRecord, error) {
	data, err := json.Marshal(raw)
	if err != nil {
		return nil, err
	}
	var record domain.MessageRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, err
	}
	return &record, nil
}
