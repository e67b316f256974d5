package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/mobilemsg/push-js-bridge/internal/biz/domain"
	"github.com/mobilemsg/push-js-bridge/internal/biz/mapper"
	"github.com/mobilemsg/push-js-bridge/internal/biz/repo"
	"github.com/mobilemsg/push-js-bridge/internal/conf"
	"github.com/mobilemsg/push-js-bridge/sdk"
)

// Continuations derived from a command Result at the runtime boundary.
type (
	SuccessFn func(interface{})
	ErrorFn   func(error)
)

// ErrPermissionDenied is reported when geofencing is requested but the
// location permission is not granted. The provider is never called in that
// state.
var ErrPermissionDenied = errors.New("location permission denied")

// CommandUsecase is the command facade: validate minimal input, delegate to
// the provider, report the outcome through exactly one of the two
// continuations. No retry, ordering or timeout logic lives here.
type CommandUsecase struct {
	native     repo.NativeAPI
	permission repo.PermissionChecker
	storage    *StorageUsecase
}

// NewCommandUsecase creates the command facade.
func NewCommandUsecase(native repo.NativeAPI, permission repo.PermissionChecker, storage *StorageUsecase) *CommandUsecase {
	return &CommandUsecase{
		native:     native,
		permission: permission,
		storage:    storage,
	}
}

// Init validates the configuration object and registers with the provider.
// Validation failures and a denied location permission short-circuit before
// any provider call.
func (uc *CommandUsecase) Init(ctx context.Context, raw map[string]interface{}, onSuccess SuccessFn, onError ErrorFn) {
	cfg, err := conf.FromMap(raw)
	if err != nil {
		domain.Fail(err).Deliver(onSuccess, onError)
		return
	}
	if err := cfg.Validate(); err != nil {
		domain.Fail(err).Deliver(onSuccess, onError)
		return
	}

	if cfg.GeofencingEnabled && !uc.permission.RequestLocationPermission(ctx) {
		domain.Fail(ErrPermissionDenied).Deliver(onSuccess, onError)
		return
	}

	if err := uc.storage.Configure(cfg); err != nil {
		domain.Fail(err).Deliver(onSuccess, onError)
		return
	}

	if err := uc.native.Init(ctx, cfg); err != nil {
		uc.storage.Shutdown()
		domain.Fail(fmt.Errorf("initialization failed: %w", err)).Deliver(onSuccess, onError)
		return
	}

	fmt.Println("[Command] Initialized")
	domain.OK(nil).Deliver(onSuccess, onError)
}

// SaveUser pushes user attributes to the provider.
func (uc *CommandUsecase) SaveUser(ctx context.Context, user domain.UserRecord, onSuccess SuccessFn, onError ErrorFn) {
	saved, err := uc.native.SaveUser(ctx, user)
	domain.ResultOf(saved, err).Deliver(onSuccess, onError)
}

// FetchUser fetches the current user attributes.
func (uc *CommandUsecase) FetchUser(ctx context.Context, onSuccess SuccessFn, onError ErrorFn) {
	user, err := uc.native.FetchUser(ctx)
	domain.ResultOf(user, err).Deliver(onSuccess, onError)
}

// SaveInstallation pushes installation attributes to the provider.
func (uc *CommandUsecase) SaveInstallation(ctx context.Context, installation domain.InstallationRecord, onSuccess SuccessFn, onError ErrorFn) {
	saved, err := uc.native.SaveInstallation(ctx, installation)
	domain.ResultOf(saved, err).Deliver(onSuccess, onError)
}

// FetchInstallation fetches the current installation.
func (uc *CommandUsecase) FetchInstallation(ctx context.Context, onSuccess SuccessFn, onError ErrorFn) {
	installation, err := uc.native.FetchInstallation(ctx)
	domain.ResultOf(installation, err).Deliver(onSuccess, onError)
}

// SubmitEvent submits a custom event for eventual delivery. The SDK owns
// retries; the success continuation only confirms the hand-off.
func (uc *CommandUsecase) SubmitEvent(event sdk.CustomEvent, onSuccess SuccessFn, onError ErrorFn) {
	uc.native.SubmitEvent(event)
	domain.OK(nil).Deliver(onSuccess, onError)
}

// SubmitEventImmediately submits a custom event with a single delivery
// attempt. The error continuation fires on the first failure; no retry is
// attempted.
func (uc *CommandUsecase) SubmitEventImmediately(ctx context.Context, event sdk.CustomEvent, onSuccess SuccessFn, onError ErrorFn) {
	err := uc.native.SubmitEventImmediately(ctx, event)
	domain.ResultOf(nil, err).Deliver(onSuccess, onError)
}

// MarkMessagesSeen resolves the raw argument list into messages and reports
// them as seen.
func (uc *CommandUsecase) MarkMessagesSeen(ctx context.Context, args []interface{}, onSuccess SuccessFn, onError ErrorFn) {
	messages, err := mapper.ResolveMessages(args)
	if err != nil {
		domain.Fail(err).Deliver(onSuccess, onError)
		return
	}

	ids := make([]string, 0, len(messages))
	for _, m := range messages {
		if m.MessageID != "" {
			ids = append(ids, m.MessageID)
		}
	}

	if err := uc.native.MarkSeen(ctx, ids); err != nil {
		domain.Fail(err).Deliver(onSuccess, onError)
		return
	}
	domain.OK(ids).Deliver(onSuccess, onError)
}

// Personalize associates a user identity with the current installation.
func (uc *CommandUsecase) Personalize(ctx context.Context, payload map[string]interface{}, onSuccess SuccessFn, onError ErrorFn) {
	user, err := uc.native.Personalize(ctx, payload)
	domain.ResultOf(user, err).Deliver(onSuccess, onError)
}

// Depersonalize detaches the user identity from the current installation.
func (uc *CommandUsecase) Depersonalize(ctx context.Context, onSuccess SuccessFn, onError ErrorFn) {
	err := uc.native.Depersonalize(ctx)
	domain.ResultOf(nil, err).Deliver(onSuccess, onError)
}

// ShowChat forwards the chat settings object to the natively rendered chat
// view.
func (uc *CommandUsecase) ShowChat(ctx context.Context, settings map[string]interface{}, onSuccess SuccessFn, onError ErrorFn) {
	err := uc.native.ShowChat(ctx, settings)
	domain.ResultOf(nil, err).Deliver(onSuccess, onError)
}

// FindMessage looks a message up in the active store.
func (uc *CommandUsecase) FindMessage(ctx context.Context, messageID string, onSuccess SuccessFn, onError ErrorFn) {
	record, err := uc.storage.Find(ctx, messageID)
	domain.ResultOf(record, err).Deliver(onSuccess, onError)
}

// FindAllMessages returns every message in the active store.
func (uc *CommandUsecase) FindAllMessages(ctx context.Context, onSuccess SuccessFn, onError ErrorFn) {
	records, err := uc.storage.FindAll(ctx)
	domain.ResultOf(records, err).Deliver(onSuccess, onError)
}
