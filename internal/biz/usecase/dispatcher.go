package usecase

import (
	"sync"

	"github.com/mobilemsg/push-js-bridge/internal/biz/domain"
	"github.com/mobilemsg/push-js-bridge/internal/biz/mapper"
	"github.com/mobilemsg/push-js-bridge/sdk"
)

// Listener receives a public event name and its payload.
type Listener func(event string, payload interface{})

// marker for the two synced notifications whose public name depends on
// which payload key is populated at delivery time
const eventSynced = ""

// eventNames maps SDK notification identifiers to public event names.
// Immutable after construction.
var eventNames = map[string]string{
	sdk.NotificationMessageReceived:  domain.EventMessageReceived,
	sdk.NotificationTapped:           domain.EventNotificationTapped,
	sdk.NotificationTokenReceived:    domain.EventTokenReceived,
	sdk.NotificationRegistrationOK:   domain.EventRegistrationUpdated,
	sdk.NotificationGeofenceEntered:  domain.EventGeofenceEntered,
	sdk.NotificationActionTapped:     domain.EventActionTapped,
	sdk.NotificationPersonalized:     domain.EventPersonalized,
	sdk.NotificationDepersonalized:   domain.EventDepersonalized,
	sdk.NotificationChatAvailability: domain.EventChatAvailabilityUpdated,

	// The SDK fires these two interchangeably depending on account-linking
	// mode, so the public name is resolved per delivery, not statically.
	sdk.NotificationInstallationSynced: eventSynced,
	sdk.NotificationUserSynced:         eventSynced,
}

// Dispatcher multiplexes SDK notifications onto the public event names and
// fans them out to listeners. It has two states: observing (events are
// delivered) and idle (notifications are received but dropped). The idle
// gate models JS-side listener presence and is decoupled from the SDK
// subscription lifecycle, which stays registered throughout.
type Dispatcher struct {
	mu        sync.RWMutex
	observing bool
	listeners []Listener
}

// NewDispatcher creates an idle dispatcher with no listeners.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{}
}

// Subscribe registers a listener. Listeners are invoked in registration
// order, synchronously, on the goroutine delivering the notification.
func (d *Dispatcher) Subscribe(l Listener) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.listeners = append(d.listeners, l)
}

// StartObserving activates event delivery.
func (d *Dispatcher) StartObserving() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.observing = true
}

// StopObserving suppresses event delivery without unregistering anything.
func (d *Dispatcher) StopObserving() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.observing = false
}

// Observing reports the current state.
func (d *Dispatcher) Observing() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.observing
}

// HandleNotification translates one SDK notification and emits the
// resulting events. While idle, notifications are dropped with no side
// effects. Unrecognized identifiers are ignored silently.
func (d *Dispatcher) HandleNotification(n *sdk.Notification) {
	if n == nil {
		return
	}

	d.mu.RLock()
	observing := d.observing
	listeners := d.listeners
	d.mu.RUnlock()

	if !observing {
		return
	}

	for _, event := range eventsFor(n) {
		for _, l := range listeners {
			l(event.Name, event.Payload)
		}
	}
}

// eventsFor maps a notification to zero or more public events. A geofence
// notification carrying several areas yields one event per area; anything
// that fails payload extraction yields none.
func eventsFor(n *sdk.Notification) []domain.Event {
	name, ok := eventNames[n.Type]
	if !ok {
		return nil
	}
	if name == eventSynced {
		name = resolveSynced(n)
		if name == "" {
			return nil
		}
	}

	switch name {
	case domain.EventMessageReceived, domain.EventNotificationTapped:
		record := mapper.ToRecord(n.Message)
		if record == nil {
			return nil
		}
		return []domain.Event{{Name: name, Payload: record}}

	case domain.EventActionTapped:
		record := mapper.ToRecord(n.Message)
		if record == nil {
			return nil
		}
		payload := []interface{}{record, n.ActionID}
		if n.ActionInput != "" {
			payload = append(payload, n.ActionInput)
		}
		return []domain.Event{{Name: name, Payload: payload}}

	case domain.EventTokenReceived:
		return []domain.Event{{Name: name, Payload: n.Token}}

	case domain.EventRegistrationUpdated:
		return []domain.Event{{Name: name, Payload: n.Registration}}

	case domain.EventGeofenceEntered:
		var events []domain.Event
		for _, record := range mapper.GeoRecordsFrom(n) {
			events = append(events, domain.Event{Name: name, Payload: record})
		}
		return events

	case domain.EventInstallationUpdated:
		return []domain.Event{{Name: name, Payload: n.Installation}}

	case domain.EventUserUpdated:
		return []domain.Event{{Name: name, Payload: n.User}}

	case domain.EventPersonalized, domain.EventDepersonalized:
		return []domain.Event{{Name: name}}

	case domain.EventChatAvailabilityUpdated:
		return []domain.Event{{Name: name, Payload: n.ChatAvailable}}
	}

	return nil
}

// resolveSynced picks installationUpdated or userUpdated by whichever
// payload key the SDK populated. Empty when neither is present.
func resolveSynced(n *sdk.Notification) string {
	if n.User != nil {
		return domain.EventUserUpdated
	}
	if n.Installation != nil {
		return domain.EventInstallationUpdated
	}
	return ""
}
