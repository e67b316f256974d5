// Package bridge wires the SDK client, the translation layer and the
// runtime boundary into one process-level facade.
package bridge

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/mobilemsg/push-js-bridge/internal/biz/domain"
	"github.com/mobilemsg/push-js-bridge/internal/biz/usecase"
	"github.com/mobilemsg/push-js-bridge/internal/conf"
	"github.com/mobilemsg/push-js-bridge/internal/data"
	"github.com/mobilemsg/push-js-bridge/internal/service"
	"github.com/mobilemsg/push-js-bridge/ipc"
	"github.com/mobilemsg/push-js-bridge/sdk"
)

// Config is the host-process configuration. The initialization object from
// the JS side arrives separately, over the runtime boundary or from
// ConfigPath.
type Config struct {
	// APIBaseURL is the provider API endpoint.
	APIBaseURL string

	// APIKey authenticates provider calls.
	APIKey string

	// BaseDir holds the IPC channel files and the default message store.
	BaseDir string

	// ConfigPath optionally points at a YAML initialization file. When set,
	// the bridge initializes itself at startup instead of waiting for an
	// init command.
	ConfigPath string

	Debug bool
}

// Bridge is the running translation layer.
type Bridge struct {
	config     Config
	client     *sdk.Client
	handler    *ipc.Handler
	dispatcher *usecase.Dispatcher
	storage    *usecase.StorageUsecase
	commands   *usecase.CommandUsecase
}

// New creates a bridge from the host configuration.
func New(config Config) (*Bridge, error) {
	if config.APIBaseURL == "" {
		return nil, fmt.Errorf("APIBaseURL is required")
	}
	if config.APIKey == "" {
		return nil, fmt.Errorf("APIKey is required")
	}
	if config.BaseDir == "" {
		config.BaseDir = "."
	}

	b := &Bridge{config: config}

	handler, err := ipc.NewHandler(config.BaseDir, b.handleCommand)
	if err != nil {
		return nil, err
	}
	b.handler = handler

	b.client = sdk.NewClient(config.APIBaseURL, config.APIKey)

	defaultStore := data.NewDefaultMessageStore(filepath.Join(config.BaseDir, "messages.db"))
	customStore := data.NewJSMessageStore(handler)
	b.storage = usecase.NewStorageUsecase(defaultStore, customStore)

	b.commands = usecase.NewCommandUsecase(
		data.NewNativeAPI(b.client),
		data.NewPermissionChecker(handler),
		b.storage,
	)

	b.dispatcher = usecase.NewDispatcher()
	service.NewEventService(b.dispatcher, b.storage, handler.EmitEvent)
	b.client.OnNotification(b.dispatcher.HandleNotification)

	return b, nil
}

// Start starts the runtime channel and the SDK client. When ConfigPath is
// set, the bridge also initializes from that file.
func (b *Bridge) Start(ctx context.Context) error {
	b.handler.Start(ctx)
	b.client.Start()

	if b.config.ConfigPath != "" {
		if err := b.initFromFile(ctx, b.config.ConfigPath); err != nil {
			b.Stop()
			return err
		}
	}

	fmt.Printf("[Bridge] Started, channel at %s\n", b.handler.GetIPCDir())
	return nil
}

// Stop shuts everything down.
func (b *Bridge) Stop() {
	b.client.Stop()
	b.handler.Stop()
	b.storage.Shutdown()
}

// GetEnvVars exposes the channel locations for spawning a JS host.
func (b *Bridge) GetEnvVars() map[string]string {
	return b.handler.GetEnvVars()
}

func (b *Bridge) initFromFile(ctx context.Context, path string) error {
	cfg, err := conf.LoadFile(path)
	if err != nil {
		return err
	}

	// The facade consumes the raw form of the initialization object.
	encoded, err := json.Marshal(cfg)
	if err != nil {
		return err
	}
	var raw map[string]interface{}
	if err := json.Unmarshal(encoded, &raw); err != nil {
		return err
	}

	var initErr error
	b.commands.Init(ctx, raw, nil, func(err error) { initErr = err })
	return initErr
}

// handleCommand routes one JS command to the facade. The callback pair is
// folded back into the (data, error) shape of the channel response.
func (b *Bridge) handleCommand(req ipc.CommandRequest) (interface{}, error) {
	ctx := context.Background()

	var value interface{}
	var cmdErr error
	onSuccess := func(v interface{}) { value = v }
	onError := func(err error) { cmdErr = err }

	if b.config.Debug {
		fmt.Printf("[Bridge] Command %s\n", req.Action)
	}

	switch req.Action {
	case "init":
		b.commands.Init(ctx, req.Payload, onSuccess, onError)

	case "startObserving":
		b.dispatcher.StartObserving()

	case "stopObserving":
		b.dispatcher.StopObserving()

	case "saveUser":
		b.commands.SaveUser(ctx, domain.UserRecord(req.Payload), onSuccess, onError)

	case "fetchUser":
		b.commands.FetchUser(ctx, onSuccess, onError)

	case "saveInstallation":
		b.commands.SaveInstallation(ctx, domain.InstallationRecord(req.Payload), onSuccess, onError)

	case "fetchInstallation":
		b.commands.FetchInstallation(ctx, onSuccess, onError)

	case "submitEvent":
		b.commands.SubmitEvent(customEventFrom(req.Payload), onSuccess, onError)

	case "submitEventImmediately":
		b.commands.SubmitEventImmediately(ctx, customEventFrom(req.Payload), onSuccess, onError)

	case "markMessagesSeen":
		b.commands.MarkMessagesSeen(ctx, req.Args, onSuccess, onError)

	case "personalize":
		b.commands.Personalize(ctx, req.Payload, onSuccess, onError)

	case "depersonalize":
		b.commands.Depersonalize(ctx, onSuccess, onError)

	case "showChat":
		b.commands.ShowChat(ctx, req.Payload, onSuccess, onError)

	case "findMessage":
		messageID, _ := req.Payload["messageId"].(string)
		b.commands.FindMessage(ctx, messageID, onSuccess, onError)

	case "findAllMessages":
		b.commands.FindAllMessages(ctx, onSuccess, onError)

	default:
		return nil, fmt.Errorf("unknown action: %s", req.Action)
	}

	return value, cmdErr
}

func customEventFrom(payload map[string]interface{}) sdk.CustomEvent {
	event := sdk.CustomEvent{}
	if payload == nil {
		return event
	}
	event.DefinitionID, _ = payload["definitionId"].(string)
	event.Properties, _ = payload["properties"].(map[string]interface{})
	return event
}
