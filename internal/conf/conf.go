// Package conf holds the bridge configuration: the initialization object
// handed over by the JS side plus host-process settings. Every recognized
// key is enumerated here and validated eagerly, before any provider call.
package conf

import (
	"encoding/json"
	"fmt"
	"os"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gopkg.in/yaml.v3"
)

// Operations a custom message store must expose. A descriptor missing any of
// them is a configuration error and aborts initialization.
var RequiredStoreOperations = []string{"start", "stop", "save", "find", "findAll"}

// Config is the initialization object. Unknown keys are ignored; recognized
// keys have the documented defaults (zero values unless noted).
type Config struct {
	// ApplicationCode identifies the application at the provider. Required;
	// no provider call is issued without it.
	ApplicationCode string `json:"applicationCode" yaml:"applicationCode"`

	// GeofencingEnabled requests geofencing-capable initialization. Requires
	// the location permission to be granted. Default false.
	GeofencingEnabled bool `json:"geofencingEnabled" yaml:"geofencingEnabled"`

	// MessageStorage describes a custom JS-side message store. Nil means no
	// custom store.
	MessageStorage *MessageStorageConfig `json:"messageStorage,omitempty" yaml:"messageStorage,omitempty"`

	// DefaultMessageStorage enables the built-in sqlite store. Default false.
	DefaultMessageStorage bool `json:"defaultMessageStorage" yaml:"defaultMessageStorage"`

	// Platform-specific sub-objects, passed through to the provider.
	Android *AndroidConfig `json:"android,omitempty" yaml:"android,omitempty"`
	IOS     *IOSConfig     `json:"ios,omitempty" yaml:"ios,omitempty"`

	PrivacySettings *PrivacySettings `json:"privacySettings,omitempty" yaml:"privacySettings,omitempty"`

	NotificationCategories []NotificationCategory `json:"notificationCategories,omitempty" yaml:"notificationCategories,omitempty"`
}

// MessageStorageConfig declares the operations a JS custom store implements.
type MessageStorageConfig struct {
	Operations []string `json:"operations" yaml:"operations"`
}

// AndroidConfig holds Android pass-through settings.
type AndroidConfig struct {
	NotificationIcon      string `json:"notificationIcon,omitempty" yaml:"notificationIcon,omitempty"`
	MultipleNotifications bool   `json:"multipleNotifications" yaml:"multipleNotifications"`
	NotificationChannelID string `json:"notificationChannelId,omitempty" yaml:"notificationChannelId,omitempty"`
}

// IOSConfig holds iOS pass-through settings.
type IOSConfig struct {
	NotificationTypes      []string `json:"notificationTypes,omitempty" yaml:"notificationTypes,omitempty"`
	ForegroundAlertEnabled bool     `json:"foregroundAlertEnabled" yaml:"foregroundAlertEnabled"`
	LogsEnabled            bool     `json:"logging" yaml:"logging"`
}

// PrivacySettings controls what the SDK reports to the provider.
type PrivacySettings struct {
	CarrierInfoSendingDisabled bool `json:"carrierInfoSendingDisabled" yaml:"carrierInfoSendingDisabled"`
	SystemInfoSendingDisabled  bool `json:"systemInfoSendingDisabled" yaml:"systemInfoSendingDisabled"`
	UserDataPersistingDisabled bool `json:"userDataPersistingDisabled" yaml:"userDataPersistingDisabled"`
}

// NotificationCategory defines an interactive notification category with its
// nested actions.
type NotificationCategory struct {
	Identifier string               `json:"identifier" yaml:"identifier"`
	Actions    []NotificationAction `json:"actions,omitempty" yaml:"actions,omitempty"`
}

// NotificationAction defines one tappable action inside a category.
type NotificationAction struct {
	Identifier           string `json:"identifier" yaml:"identifier"`
	Title                string `json:"title" yaml:"title"`
	Foreground           bool   `json:"foreground" yaml:"foreground"`
	TextInputPlaceholder string `json:"textInputPlaceholder,omitempty" yaml:"textInputPlaceholder,omitempty"`
	MORequired           bool   `json:"moRequired" yaml:"moRequired"`
}

// Validate checks the configuration before any provider call.
func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.ApplicationCode, validation.Required.Error("applicationCode is required")),
		validation.Field(&c.MessageStorage),
		validation.Field(&c.NotificationCategories),
	)
}

// Validate checks that the custom store declares the complete contract.
func (m MessageStorageConfig) Validate() error {
	declared := make(map[string]bool, len(m.Operations))
	for _, op := range m.Operations {
		declared[op] = true
	}
	for _, required := range RequiredStoreOperations {
		if !declared[required] {
			return fmt.Errorf("message storage does not implement %q", required)
		}
	}
	return nil
}

// Validate checks a notification category definition.
func (c NotificationCategory) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Identifier, validation.Required.Error("category identifier is required")),
		validation.Field(&c.Actions),
	)
}

// Validate checks a notification action definition.
func (a NotificationAction) Validate() error {
	return validation.ValidateStruct(&a,
		validation.Field(&a.Identifier, validation.Required.Error("action identifier is required")),
		validation.Field(&a.Title, validation.Required.Error("action title is required")),
	)
}

// FromMap builds a Config from the raw initialization object received over
// the runtime boundary. Unknown keys are dropped silently; validation is the
// caller's next step.
func FromMap(raw map[string]interface{}) (*Config, error) {
	data, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("encode configuration: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("decode configuration: %w", err)
	}
	return &cfg, nil
}

// LoadFile loads a Config from a YAML file. Used by hosts that configure the
// bridge from disk instead of over the runtime boundary.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}
	return &cfg, nil
}
