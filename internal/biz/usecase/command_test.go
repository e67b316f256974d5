package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/mobilemsg/push-js-bridge/internal/biz/domain"
	"github.com/mobilemsg/push-js-bridge/internal/biz/mapper"
	"github.com/mobilemsg/push-js-bridge/internal/conf"
	"github.com/mobilemsg/push-js-bridge/sdk"
)

// Mock implementations

type mockNativeAPI struct {
	initCalls        int
	initCfg          *conf.Config
	eventualEvents   []sdk.CustomEvent
	immediateEvents  []sdk.CustomEvent
	immediateErr     error
	seenIDs          []string
	personalizeCalls int
	err              error
}

func (m *mockNativeAPI) Init(ctx context.Context, cfg *conf.Config) error {
	m.initCalls++
	m.initCfg = cfg
	return m.err
}

func (m *mockNativeAPI) SaveUser(ctx context.Context, user domain.UserRecord) (domain.UserRecord, error) {
	return user, m.err
}

func (m *mockNativeAPI) FetchUser(ctx context.Context) (domain.UserRecord, error) {
	return domain.UserRecord{"firstName": "Ana"}, m.err
}

func (m *mockNativeAPI) SaveInstallation(ctx context.Context, installation domain.InstallationRecord) (domain.InstallationRecord, error) {
	return installation, m.err
}

func (m *mockNativeAPI) FetchInstallation(ctx context.Context) (domain.InstallationRecord, error) {
	return domain.InstallationRecord{"pushRegistrationId": "r-1"}, m.err
}

func (m *mockNativeAPI) SubmitEvent(event sdk.CustomEvent) {
	m.eventualEvents = append(m.eventualEvents, event)
}

func (m *mockNativeAPI) SubmitEventImmediately(ctx context.Context, event sdk.CustomEvent) error {
	m.immediateEvents = append(m.immediateEvents, event)
	return m.immediateErr
}

func (m *mockNativeAPI) MarkSeen(ctx context.Context, messageIDs []string) error {
	m.seenIDs = messageIDs
	return m.err
}

func (m *mockNativeAPI) Personalize(ctx context.Context, payload map[string]interface{}) (domain.UserRecord, error) {
	m.personalizeCalls++
	return domain.UserRecord(payload), m.err
}

func (m *mockNativeAPI) Depersonalize(ctx context.Context) error {
	return m.err
}

func (m *mockNativeAPI) ShowChat(ctx context.Context, settings map[string]interface{}) error {
	return m.err
}

type mockPermission struct {
	granted bool
	calls   int
}

func (m *mockPermission) RequestLocationPermission(ctx context.Context) bool {
	m.calls++
	return m.granted
}

type mockStore struct {
	started  bool
	stopped  bool
	startErr error
	messages map[string]*domain.MessageRecord
}

func newMockStore() *mockStore {
	return &mockStore{messages: make(map[string]*domain.MessageRecord)}
}

func (m *mockStore) Start() error {
	m.started = true
	return m.startErr
}

func (m *mockStore) Stop() error {
	m.stopped = true
	return nil
}

func (m *mockStore) Save(ctx context.Context, messages []*domain.MessageRecord) error {
	for _, r := range messages {
		m.messages[r.MessageID] = r
	}
	return nil
}

func (m *mockStore) Find(ctx context.Context, messageID string) (*domain.MessageRecord, error) {
	return m.messages[messageID], nil
}

func (m *mockStore) FindAll(ctx context.Context) ([]*domain.MessageRecord, error) {
	var all []*domain.MessageRecord
	for _, r := range m.messages {
		all = append(all, r)
	}
	return all, nil
}

type callbackRecorder struct {
	successes []interface{}
	errors    []error
}

func (c *callbackRecorder) onSuccess(v interface{}) { c.successes = append(c.successes, v) }
func (c *callbackRecorder) onError(err error)       { c.errors = append(c.errors, err) }

func newCommandFixture(native *mockNativeAPI, perm *mockPermission) (*CommandUsecase, *mockStore) {
	store := newMockStore()
	storage := NewStorageUsecase(store, nil)
	return NewCommandUsecase(native, perm, storage), store
}

func TestInitMissingApplicationCode(t *testing.T) {
	native := &mockNativeAPI{}
	uc, _ := newCommandFixture(native, &mockPermission{granted: true})
	cb := &callbackRecorder{}

	uc.Init(context.Background(), map[string]interface{}{}, cb.onSuccess, cb.onError)

	if len(cb.errors) != 1 {
		t.Fatalf("got %d errors, want 1", len(cb.errors))
	}
	if native.initCalls != 0 {
		t.Error("provider must not be called with an invalid configuration")
	}
}

func TestInitIncompleteMessageStorage(t *testing.T) {
	native := &mockNativeAPI{}
	uc, _ := newCommandFixture(native, &mockPermission{granted: true})
	cb := &callbackRecorder{}

	uc.Init(context.Background(), map[string]interface{}{
		"applicationCode": "app-1",
		"messageStorage": map[string]interface{}{
			"operations": []interface{}{"start", "stop", "save"},
		},
	}, cb.onSuccess, cb.onError)

	if len(cb.errors) != 1 {
		t.Fatalf("got %d errors, want 1", len(cb.errors))
	}
	if native.initCalls != 0 {
		t.Error("provider must not be called with a malformed store descriptor")
	}
}

func TestInitGeofencingPermissionDenied(t *testing.T) {
	native := &mockNativeAPI{}
	perm := &mockPermission{granted: false}
	uc, _ := newCommandFixture(native, perm)
	cb := &callbackRecorder{}

	uc.Init(context.Background(), map[string]interface{}{
		"applicationCode":   "app-1",
		"geofencingEnabled": true,
	}, cb.onSuccess, cb.onError)

	if len(cb.errors) != 1 || !errors.Is(cb.errors[0], ErrPermissionDenied) {
		t.Fatalf("errors = %v, want ErrPermissionDenied", cb.errors)
	}
	if native.initCalls != 0 {
		t.Error("provider must not be called when the permission is denied")
	}
	if perm.calls != 1 {
		t.Errorf("permission checked %d times, want 1", perm.calls)
	}
}

func TestInitSuccess(t *testing.T) {
	native := &mockNativeAPI{}
	perm := &mockPermission{granted: true}
	uc, store := newCommandFixture(native, perm)
	cb := &callbackRecorder{}

	uc.Init(context.Background(), map[string]interface{}{
		"applicationCode":       "app-1",
		"geofencingEnabled":     true,
		"defaultMessageStorage": true,
	}, cb.onSuccess, cb.onError)

	if len(cb.errors) != 0 {
		t.Fatalf("unexpected errors: %v", cb.errors)
	}
	if len(cb.successes) != 1 {
		t.Fatalf("got %d successes, want 1", len(cb.successes))
	}
	if native.initCalls != 1 {
		t.Errorf("initCalls = %d, want 1", native.initCalls)
	}
	if native.initCfg.ApplicationCode != "app-1" {
		t.Errorf("ApplicationCode = %q", native.initCfg.ApplicationCode)
	}
	if !store.started {
		t.Error("default store should be started")
	}
}

func TestInitWithoutGeofencingSkipsPermission(t *testing.T) {
	perm := &mockPermission{granted: false}
	uc, _ := newCommandFixture(&mockNativeAPI{}, perm)
	cb := &callbackRecorder{}

	uc.Init(context.Background(), map[string]interface{}{"applicationCode": "app-1"}, cb.onSuccess, cb.onError)

	if len(cb.errors) != 0 {
		t.Fatalf("unexpected errors: %v", cb.errors)
	}
	if perm.calls != 0 {
		t.Error("permission must not be checked when geofencing is disabled")
	}
}

func TestSubmitEventPathsAreDistinct(t *testing.T) {
	native := &mockNativeAPI{immediateErr: errors.New("provider unavailable")}
	uc, _ := newCommandFixture(native, &mockPermission{})
	event := sdk.CustomEvent{DefinitionID: "purchase", Properties: map[string]interface{}{"amount": 10}}

	// Eventual path: handed off once, never fails at this layer.
	cb := &callbackRecorder{}
	uc.SubmitEvent(event, cb.onSuccess, cb.onError)
	if len(native.eventualEvents) != 1 {
		t.Fatalf("eventual dispatched %d times, want 1", len(native.eventualEvents))
	}
	if native.eventualEvents[0].DefinitionID != "purchase" {
		t.Errorf("dispatched event = %+v", native.eventualEvents[0])
	}
	if len(cb.errors) != 0 || len(cb.successes) != 1 {
		t.Errorf("eventual path: successes=%d errors=%d, want 1/0", len(cb.successes), len(cb.errors))
	}

	// Immediate path: error callback fires on first failure, one attempt.
	cb = &callbackRecorder{}
	uc.SubmitEventImmediately(context.Background(), event, cb.onSuccess, cb.onError)
	if len(native.immediateEvents) != 1 {
		t.Fatalf("immediate dispatched %d times, want 1", len(native.immediateEvents))
	}
	if len(cb.errors) != 1 {
		t.Errorf("immediate path: got %d errors, want 1", len(cb.errors))
	}
}

func TestMarkMessagesSeen(t *testing.T) {
	native := &mockNativeAPI{}
	uc, _ := newCommandFixture(native, &mockPermission{})
	cb := &callbackRecorder{}

	uc.MarkMessagesSeen(context.Background(), []interface{}{
		map[string]interface{}{"messageId": "m-1"},
		"malformed",
		map[string]interface{}{"messageId": "m-2"},
	}, cb.onSuccess, cb.onError)

	if len(cb.errors) != 0 {
		t.Fatalf("unexpected errors: %v", cb.errors)
	}
	if len(native.seenIDs) != 2 {
		t.Fatalf("seenIDs = %v, want 2 ids", native.seenIDs)
	}
}

func TestMarkMessagesSeenInvalidArguments(t *testing.T) {
	uc, _ := newCommandFixture(&mockNativeAPI{}, &mockPermission{})
	cb := &callbackRecorder{}

	uc.MarkMessagesSeen(context.Background(), nil, cb.onSuccess, cb.onError)

	if len(cb.errors) != 1 || !errors.Is(cb.errors[0], mapper.ErrInvalidArguments) {
		t.Errorf("errors = %v, want ErrInvalidArguments", cb.errors)
	}
}

func TestFindMessageWithoutStore(t *testing.T) {
	uc, _ := newCommandFixture(&mockNativeAPI{}, &mockPermission{})
	cb := &callbackRecorder{}

	uc.FindMessage(context.Background(), "m-1", cb.onSuccess, cb.onError)

	if len(cb.errors) != 1 || !errors.Is(cb.errors[0], ErrNoMessageStore) {
		t.Errorf("errors = %v, want ErrNoMessageStore", cb.errors)
	}
}

func TestCommandErrorsSurfaceThroughErrorCallback(t *testing.T) {
	native := &mockNativeAPI{err: errors.New("backend down")}
	uc, _ := newCommandFixture(native, &mockPermission{})
	cb := &callbackRecorder{}

	uc.SaveUser(context.Background(), domain.UserRecord{"firstName": "Ana"}, cb.onSuccess, cb.onError)
	uc.FetchUser(context.Background(), cb.onSuccess, cb.onError)
	uc.Depersonalize(context.Background(), cb.onSuccess, cb.onError)

	if len(cb.errors) != 3 {
		t.Errorf("got %d errors, want 3", len(cb.errors))
	}
	if len(cb.successes) != 0 {
		t.Errorf("got %d successes, want 0", len(cb.successes))
	}
}

func TestPersonalizePassThrough(t *testing.T) {
	native := &mockNativeAPI{}
	uc, _ := newCommandFixture(native, &mockPermission{})
	cb := &callbackRecorder{}

	uc.Personalize(context.Background(), map[string]interface{}{
		"userIdentity": map[string]interface{}{"externalUserId": "u-1"},
	}, cb.onSuccess, cb.onError)

	if native.personalizeCalls != 1 {
		t.Errorf("personalizeCalls = %d, want 1", native.personalizeCalls)
	}
	if len(cb.successes) != 1 {
		t.Errorf("got %d successes, want 1", len(cb.successes))
	}
}
