package repo

import (
	"context"

	"github.com/mobilemsg/push-js-bridge/internal/biz/domain"
	"github.com/mobilemsg/push-js-bridge/internal/conf"
	"github.com/mobilemsg/push-js-bridge/sdk"
)

// NativeAPI is the command surface of the wrapped push SDK. Every operation
// is a one-shot request; retries, ordering and persistence are owned by the
// SDK, not by callers of this interface.
type NativeAPI interface {
	// Init registers the application with the provider. The configuration
	// has already been validated when this is called.
	Init(ctx context.Context, cfg *conf.Config) error

	SaveUser(ctx context.Context, user domain.UserRecord) (domain.UserRecord, error)
	FetchUser(ctx context.Context) (domain.UserRecord, error)

	SaveInstallation(ctx context.Context, installation domain.InstallationRecord) (domain.InstallationRecord, error)
	FetchInstallation(ctx context.Context) (domain.InstallationRecord, error)

	// SubmitEvent hands the event to the SDK for eventual delivery with
	// SDK-owned retry. It never reports delivery failures.
	SubmitEvent(event sdk.CustomEvent)

	// SubmitEventImmediately performs a single delivery attempt; the first
	// failure is the caller's to handle. The two submission paths are
	// intentionally not interchangeable.
	SubmitEventImmediately(ctx context.Context, event sdk.CustomEvent) error

	MarkSeen(ctx context.Context, messageIDs []string) error

	Personalize(ctx context.Context, payload map[string]interface{}) (domain.UserRecord, error)
	Depersonalize(ctx context.Context) error

	// ShowChat forwards the chat view settings object; the chat UI itself
	// is rendered natively.
	ShowChat(ctx context.Context, settings map[string]interface{}) error
}
