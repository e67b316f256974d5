package domain

// MessageRecord is the flat JSON form of a native message crossing the
// runtime boundary. Optional string fields are omitted when absent rather
// than serialized as null; the boolean and timestamp fields always appear.
type MessageRecord struct {
	MessageID         string                 `json:"messageId,omitempty"`
	Title             string                 `json:"title,omitempty"`
	Body              string                 `json:"body,omitempty"`
	Sound             string                 `json:"sound,omitempty"`
	Vibrate           bool                   `json:"vibrate"`
	Icon              string                 `json:"icon,omitempty"`
	Silent            bool                   `json:"silent"`
	Category          string                 `json:"category,omitempty"`
	From              string                 `json:"from,omitempty"`
	ReceivedTimestamp int64                  `json:"receivedTimestamp"`
	CustomPayload     map[string]interface{} `json:"customPayload,omitempty"`
	ContentURL        string                 `json:"contentUrl,omitempty"`
	Seen              bool                   `json:"seen"`
	SeenDate          int64                  `json:"seenDate"`
	Geo               bool                   `json:"geo"`
	Chat              bool                   `json:"chat"`
}

// Defaults applied when the JS side omits fields on the reverse mapping.
const (
	DefaultVibrate           = true
	DefaultSilent            = false
	DefaultReceivedTimestamp = int64(0)
)
