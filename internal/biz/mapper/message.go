// Package mapper converts between the SDK's native message types and the
// flat records crossing the JS runtime boundary. Mapping failures are logged
// and absorbed here; a malformed item never aborts the batch it arrived in.
package mapper

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mobilemsg/push-js-bridge/internal/biz/domain"
	"github.com/mobilemsg/push-js-bridge/sdk"
)

// ErrInvalidArguments is returned by ResolveMessages when the argument list
// itself is unusable (absent, empty, or with an unusable first element).
var ErrInvalidArguments = errors.New("cannot resolve messages from arguments")

// ToRecord converts a native message to its serialized record. Returns nil
// when the message is absent or cannot be serialized; such failures are
// logged and the caller skips the item.
func ToRecord(m *sdk.Message) *domain.MessageRecord {
	if m == nil {
		return nil
	}

	// The custom payload comes straight from the provider push and may hold
	// values that do not survive JSON serialization.
	if m.CustomPayload != nil {
		if _, err := json.Marshal(m.CustomPayload); err != nil {
			fmt.Printf("[Mapper] Cannot convert message to record: %v\n", err)
			return nil
		}
	}

	return &domain.MessageRecord{
		MessageID:         m.MessageID,
		Title:             m.Title,
		Body:              m.Body,
		Sound:             m.Sound,
		Vibrate:           m.Vibrate,
		Icon:              m.Icon,
		Silent:            m.Silent,
		Category:          m.Category,
		From:              m.From,
		ReceivedTimestamp: m.ReceivedTimestamp,
		CustomPayload:     m.CustomPayload,
		ContentURL:        m.ContentURL,
		Seen:              m.SeenTimestamp != 0,
		SeenDate:          m.SeenTimestamp,
		Geo:               hasGeo(m),
		Chat:              m.Chat,
	}
}

// ToRecordArray maps each message independently. Messages that fail mapping
// are dropped; survivors keep their relative order.
func ToRecordArray(messages []*sdk.Message) []*domain.MessageRecord {
	records := make([]*domain.MessageRecord, 0, len(messages))
	for _, m := range messages {
		record := ToRecord(m)
		if record == nil {
			continue
		}
		records = append(records, record)
	}
	return records
}

// FromRecord builds a native message from a JS-side record. Parsing is
// tolerant: every field has a default and unknown keys are ignored. Returns
// nil only when the record itself is absent.
func FromRecord(raw map[string]interface{}) *sdk.Message {
	if raw == nil {
		return nil
	}

	return &sdk.Message{
		MessageID:         optString(raw, "messageId", ""),
		Title:             optString(raw, "title", ""),
		Body:              optString(raw, "body", ""),
		Sound:             optString(raw, "sound", ""),
		Vibrate:           optBool(raw, "vibrate", domain.DefaultVibrate),
		Icon:              optString(raw, "icon", ""),
		Silent:            optBool(raw, "silent", domain.DefaultSilent),
		Category:          optString(raw, "category", ""),
		From:              optString(raw, "from", ""),
		ReceivedTimestamp: optInt64(raw, "receivedTimestamp", domain.DefaultReceivedTimestamp),
		CustomPayload:     optMap(raw, "customPayload"),
	}
}

// ResolveMessages resolves the raw argument list of a JS call into native
// messages. The list being absent, empty, or starting with an unusable
// element is an invalid-argument condition; individual elements that fail to
// parse are dropped.
func ResolveMessages(args []interface{}) ([]*sdk.Message, error) {
	if len(args) == 0 || args[0] == nil {
		return nil, ErrInvalidArguments
	}

	messages := make([]*sdk.Message, 0, len(args))
	for _, arg := range args {
		m := FromRecord(asMap(arg))
		if m == nil {
			continue
		}
		messages = append(messages, m)
	}
	return messages, nil
}

// GeoRecordsFrom extracts one geo record per area carried by the
// notification's message. The result is never nil: no geo payload, no
// message, or an empty area list all yield an empty slice. A single area
// failing to serialize is logged and skipped without affecting its siblings.
func GeoRecordsFrom(n *sdk.Notification) []domain.GeoRecord {
	records := []domain.GeoRecord{}
	if n == nil {
		return records
	}

	geo := sdk.GeoFrom(n.Message)
	message := ToRecord(n.Message)
	if geo == nil || len(geo.Areas) == 0 || message == nil {
		return records
	}

	for _, area := range geo.Areas {
		record := domain.GeoRecord{
			Area: domain.AreaRecord{
				ID: area.ID,
				Center: domain.CoordRecord{
					Lat: area.Latitude,
					Lon: area.Longitude,
				},
				Radius: area.Radius,
				Title:  area.Title,
			},
		}
		if _, err := json.Marshal(record); err != nil {
			fmt.Printf("[Mapper] Cannot convert geo area to record: %v\n", err)
			continue
		}
		records = append(records, record)
	}

	return records
}

func hasGeo(m *sdk.Message) bool {
	return sdk.GeoFrom(m) != nil
}

func asMap(v interface{}) map[string]interface{} {
	m, _ := v.(map[string]interface{})
	return m
}

func optString(raw map[string]interface{}, key, def string) string {
	if s, ok := raw[key].(string); ok {
		return s
	}
	return def
}

func optBool(raw map[string]interface{}, key string, def bool) bool {
	if b, ok := raw[key].(bool); ok {
		return b
	}
	return def
}

func optInt64(raw map[string]interface{}, key string, def int64) int64 {
	switch v := raw[key].(type) {
	case int64:
		return v
	case int:
		return int64(v)
	case float64:
		return int64(v)
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return n
		}
	}
	return def
}

func optMap(raw map[string]interface{}, key string) map[string]interface{} {
	m, _ := raw[key].(map[string]interface{})
	return m
}
