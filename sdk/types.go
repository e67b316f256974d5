package sdk

import "encoding/json"

// Notification type identifiers emitted by the SDK. The bridge maps these
// onto the public JavaScript event names; the SDK itself only knows about
// these internal identifiers.
const (
	NotificationMessageReceived    = "MESSAGE_RECEIVED"
	NotificationTapped             = "NOTIFICATION_TAPPED"
	NotificationTokenReceived      = "TOKEN_RECEIVED"
	NotificationRegistrationOK     = "REGISTRATION_CREATED"
	NotificationGeofenceEntered    = "GEOFENCE_AREA_ENTERED"
	NotificationActionTapped       = "NOTIFICATION_ACTION_TAPPED"
	NotificationInstallationSynced = "INSTALLATION_SYNCED"
	NotificationUserSynced         = "USER_SYNCED"
	NotificationPersonalized       = "PERSONALIZED"
	NotificationDepersonalized     = "DEPERSONALIZED"
	NotificationChatAvailability   = "IN_APP_CHAT_AVAILABILITY_UPDATED"
)

// Message is the SDK's native message representation.
// InternalData carries the raw provider payload as an opaque JSON string;
// geo campaign data lives inside it under a "geo" array.
type Message struct {
	MessageID         string
	Title             string
	Body              string
	Sound             string
	Vibrate           bool
	Icon              string
	Silent            bool
	Category          string
	From              string
	ReceivedTimestamp int64
	SeenTimestamp     int64
	CustomPayload     map[string]interface{}
	ContentURL        string
	InternalData      string
	Chat              bool
}

// Area is a circular geofence region.
type Area struct {
	ID        string  `json:"id"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Radius    int     `json:"radiusInMeters"`
	Title     string  `json:"title"`
}

// Geo is the geofencing payload attached to a message.
type Geo struct {
	Areas []Area `json:"areasList"`
}

// GeoFrom extracts the geo payload from a message's internal data.
// Returns nil when the message carries no parseable geo payload.
//
// NOTE: the "geo" key inside internalData is a provider-internal contract,
// not a stable public field. Confirm against the SDK version in use.
func GeoFrom(m *Message) *Geo {
	if m == nil || m.InternalData == "" {
		return nil
	}

	var internal struct {
		Geo []Area `json:"geo"`
	}
	if err := json.Unmarshal([]byte(m.InternalData), &internal); err != nil {
		return nil
	}
	if len(internal.Geo) == 0 {
		return nil
	}

	return &Geo{Areas: internal.Geo}
}

// Notification is a single event delivered by the SDK to the host
// application. Exactly the fields relevant for the notification's type are
// populated; the rest stay zero.
type Notification struct {
	Type          string
	Message       *Message
	Token         string
	Registration  string
	Installation  map[string]interface{}
	User          map[string]interface{}
	ActionID      string
	ActionInput   string
	ChatAvailable bool
}

// CustomEvent is an application-defined event submitted to the provider.
type CustomEvent struct {
	DefinitionID string                 `json:"definitionId"`
	Properties   map[string]interface{} `json:"properties,omitempty"`
}
