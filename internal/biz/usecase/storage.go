package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/mobilemsg/push-js-bridge/internal/biz/domain"
	"github.com/mobilemsg/push-js-bridge/internal/biz/repo"
	"github.com/mobilemsg/push-js-bridge/internal/conf"
)

// ErrNoMessageStore is returned by store lookups when initialization
// configured no store.
var ErrNoMessageStore = errors.New("no message storage configured")

// StorageUsecase selects and drives the active message store: the JS custom
// store when one is configured, the built-in store when
// defaultMessageStorage is set, none otherwise.
type StorageUsecase struct {
	defaultStore repo.MessageStore
	customStore  repo.MessageStore

	mu     sync.Mutex
	active repo.MessageStore
}

// NewStorageUsecase creates the storage selector. Either store may be nil
// when the deployment does not provide it.
func NewStorageUsecase(defaultStore, customStore repo.MessageStore) *StorageUsecase {
	return &StorageUsecase{
		defaultStore: defaultStore,
		customStore:  customStore,
	}
}

// Configure starts the store selected by the configuration. The
// configuration has already passed validation, so a present MessageStorage
// descriptor is known to be complete.
func (uc *StorageUsecase) Configure(cfg *conf.Config) error {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	var selected repo.MessageStore
	switch {
	case cfg.MessageStorage != nil:
		if uc.customStore == nil {
			return fmt.Errorf("messageStorage configured but no custom store is connected")
		}
		selected = uc.customStore
	case cfg.DefaultMessageStorage:
		if uc.defaultStore == nil {
			return fmt.Errorf("defaultMessageStorage configured but no built-in store is available")
		}
		selected = uc.defaultStore
	default:
		uc.active = nil
		return nil
	}

	if err := selected.Start(); err != nil {
		return fmt.Errorf("start message storage: %w", err)
	}
	uc.active = selected
	return nil
}

// Shutdown stops the active store, if any.
func (uc *StorageUsecase) Shutdown() {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	if uc.active == nil {
		return
	}
	if err := uc.active.Stop(); err != nil {
		fmt.Printf("[Storage] Failed to stop message store: %v\n", err)
	}
	uc.active = nil
}

// StoreMessages saves incoming message records into the active store. A
// no-op when no store is configured.
func (uc *StorageUsecase) StoreMessages(ctx context.Context, records []*domain.MessageRecord) {
	store := uc.activeStore()
	if store == nil || len(records) == 0 {
		return
	}
	if err := store.Save(ctx, records); err != nil {
		fmt.Printf("[Storage] Failed to save %d message(s): %v\n", len(records), err)
	}
}

// Find looks up one message in the active store.
func (uc *StorageUsecase) Find(ctx context.Context, messageID string) (*domain.MessageRecord, error) {
	store := uc.activeStore()
	if store == nil {
		return nil, ErrNoMessageStore
	}
	return store.Find(ctx, messageID)
}

// FindAll returns every message in the active store.
func (uc *StorageUsecase) FindAll(ctx context.Context) ([]*domain.MessageRecord, error) {
	store := uc.activeStore()
	if store == nil {
		return nil, ErrNoMessageStore
	}
	return store.FindAll(ctx)
}

func (uc *StorageUsecase) activeStore() repo.MessageStore {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	return uc.active
}
