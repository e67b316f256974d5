package data

import (
	"context"

	"github.com/mobilemsg/push-js-bridge/internal/biz/domain"
	"github.com/mobilemsg/push-js-bridge/internal/biz/repo"
	"github.com/mobilemsg/push-js-bridge/internal/conf"
	"github.com/mobilemsg/push-js-bridge/sdk"
)

// nativeAPI implements the provider command surface over the SDK client.
type nativeAPI struct {
	client *sdk.Client
}

// NewNativeAPI wraps the SDK client as a repo.NativeAPI.
func NewNativeAPI(client *sdk.Client) repo.NativeAPI {
	return &nativeAPI{client: client}
}

func (n *nativeAPI) Init(ctx context.Context, cfg *conf.Config) error {
	return n.client.Register(ctx, cfg.ApplicationCode)
}

func (n *nativeAPI) SaveUser(ctx context.Context, user domain.UserRecord) (domain.UserRecord, error) {
	saved, err := n.client.SaveUser(ctx, user)
	if err != nil {
		return nil, err
	}
	return domain.UserRecord(saved), nil
}

func (n *nativeAPI) FetchUser(ctx context.Context) (domain.UserRecord, error) {
	user, err := n.client.FetchUser(ctx)
	if err != nil {
		return nil, err
	}
	return domain.UserRecord(user), nil
}

func (n *nativeAPI) SaveInstallation(ctx context.Context, installation domain.InstallationRecord) (domain.InstallationRecord, error) {
	saved, err := n.client.SaveInstallation(ctx, installation)
	if err != nil {
		return nil, err
	}
	return domain.InstallationRecord(saved), nil
}

func (n *nativeAPI) FetchInstallation(ctx context.Context) (domain.InstallationRecord, error) {
	installation, err := n.client.FetchInstallation(ctx)
	if err != nil {
		return nil, err
	}
	return domain.InstallationRecord(installation), nil
}

func (n *nativeAPI) SubmitEvent(event sdk.CustomEvent) {
	n.client.SubmitEvent(event)
}

func (n *nativeAPI) SubmitEventImmediately(ctx context.Context, event sdk.CustomEvent) error {
	return n.client.SubmitEventImmediately(ctx, event)
}

func (n *nativeAPI) MarkSeen(ctx context.Context, messageIDs []string) error {
	return n.client.MarkSeen(ctx, messageIDs)
}

func (n *nativeAPI) Personalize(ctx context.Context, payload map[string]interface{}) (domain.UserRecord, error) {
	user, err := n.client.Personalize(ctx, payload)
	if err != nil {
		return nil, err
	}
	return domain.UserRecord(user), nil
}

func (n *nativeAPI) Depersonalize(ctx context.Context) error {
	return n.client.Depersonalize(ctx)
}

func (n *nativeAPI) ShowChat(ctx context.Context, settings map[string]interface{}) error {
	return n.client.SetChatSettings(ctx, settings)
}
