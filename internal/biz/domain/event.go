package domain

// Public event names delivered to the JavaScript side. The set is fixed; the
// dispatcher never emits anything outside it.
const (
	EventMessageReceived     = "messageReceived"
	EventNotificationTapped  = "notificationTapped"
	EventTokenReceived       = "tokenReceived"
	EventRegistrationUpdated = "registrationUpdated"
	EventGeofenceEntered     = "geofenceEntered"
	EventActionTapped        = "actionTapped"
	EventInstallationUpdated = "installationUpdated"
	EventUserUpdated         = "userUpdated"
	EventPersonalized        = "personalized"
	EventDepersonalized      = "depersonalized"

	EventChatAvailabilityUpdated = "inAppChat.availabilityUpdated"

	// Message-storage lifecycle events, used only when a custom store is
	// configured on the JS side.
	EventMessageStorageStart   = "messageStorage.start"
	EventMessageStorageStop    = "messageStorage.stop"
	EventMessageStorageSave    = "messageStorage.save"
	EventMessageStorageFind    = "messageStorage.find"
	EventMessageStorageFindAll = "messageStorage.findAll"
)

// Event pairs a public event name with its event-specific payload.
type Event struct {
	Name    string      `json:"event"`
	Payload interface{} `json:"payload,omitempty"`
}
