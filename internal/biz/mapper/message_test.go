package mapper

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/mobilemsg/push-js-bridge/internal/biz/domain"
	"github.com/mobilemsg/push-js-bridge/sdk"
)

func TestToRecordOmitsAbsentOptionalFields(t *testing.T) {
	record := ToRecord(&sdk.Message{
		MessageID: "m-1",
		Vibrate:   true,
	})
	if record == nil {
		t.Fatal("expected a record")
	}

	data, err := json.Marshal(record)
	if err != nil {
		t.Fatalf("Failed to marshal: %v", err)
	}

	var raw map[string]interface{}
	json.Unmarshal(data, &raw)

	for _, key := range []string{"title", "body", "sound", "icon", "category", "from", "customPayload", "contentUrl"} {
		if _, ok := raw[key]; ok {
			t.Errorf("Key %q should be omitted when absent", key)
		}
	}
	// Booleans and timestamps always appear.
	for _, key := range []string{"vibrate", "silent", "seen", "geo", "chat", "receivedTimestamp", "seenDate"} {
		if _, ok := raw[key]; !ok {
			t.Errorf("Key %q should always be present", key)
		}
	}
	if raw["vibrate"] != true {
		t.Errorf("vibrate = %v, want true", raw["vibrate"])
	}
	if raw["silent"] != false {
		t.Errorf("silent = %v, want false", raw["silent"])
	}
}

func TestToRecordSeenDerivedFromTimestamp(t *testing.T) {
	record := ToRecord(&sdk.Message{MessageID: "m-1", SeenTimestamp: 1700000000000})
	if !record.Seen {
		t.Error("Seen should be true when seenTimestamp != 0")
	}
	if record.SeenDate != 1700000000000 {
		t.Errorf("SeenDate = %d, want 1700000000000", record.SeenDate)
	}

	record = ToRecord(&sdk.Message{MessageID: "m-2"})
	if record.Seen {
		t.Error("Seen should be false when seenTimestamp == 0")
	}
}

func TestToRecordGeoFlag(t *testing.T) {
	tests := []struct {
		name         string
		internalData string
		want         bool
	}{
		{"no internal data", "", false},
		{"malformed internal data", "{not json", false},
		{"no geo key", `{"other":1}`, false},
		{"empty geo array", `{"geo":[]}`, false},
		{"one area", `{"geo":[{"id":"a1","latitude":44.8,"longitude":20.4,"radiusInMeters":200,"title":"Office"}]}`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record := ToRecord(&sdk.Message{MessageID: "m", InternalData: tt.internalData})
			if record.Geo != tt.want {
				t.Errorf("Geo = %v, want %v", record.Geo, tt.want)
			}
		})
	}
}

func TestToRecordNilMessage(t *testing.T) {
	if ToRecord(nil) != nil {
		t.Error("ToRecord(nil) should return nil")
	}
}

func TestToRecordUnserializablePayload(t *testing.T) {
	record := ToRecord(&sdk.Message{
		MessageID:     "m-1",
		CustomPayload: map[string]interface{}{"bad": make(chan int)},
	})
	if record != nil {
		t.Error("A message with an unserializable payload should be dropped")
	}
}

func TestToRecordArrayDropsFailures(t *testing.T) {
	messages := []*sdk.Message{
		{MessageID: "m-1"},
		nil,
		{MessageID: "m-2"},
		{MessageID: "m-3", CustomPayload: map[string]interface{}{"bad": make(chan int)}},
		{MessageID: "m-4"},
	}

	records := ToRecordArray(messages)
	if len(records) != 3 {
		t.Fatalf("got %d records, want 3", len(records))
	}
	for i, want := range []string{"m-1", "m-2", "m-4"} {
		if records[i].MessageID != want {
			t.Errorf("records[%d].MessageID = %q, want %q", i, records[i].MessageID, want)
		}
	}
}

func TestFromRecordDefaults(t *testing.T) {
	m := FromRecord(map[string]interface{}{"messageId": "m-1"})
	if m == nil {
		t.Fatal("expected a message")
	}
	if !m.Vibrate {
		t.Error("vibrate should default to true")
	}
	if m.Silent {
		t.Error("silent should default to false")
	}
	if m.ReceivedTimestamp != 0 {
		t.Errorf("receivedTimestamp = %d, want 0", m.ReceivedTimestamp)
	}
}

func TestFromRecordFields(t *testing.T) {
	m := FromRecord(map[string]interface{}{
		"messageId":         "m-1",
		"title":             "Hi",
		"body":              "there",
		"vibrate":           false,
		"silent":            true,
		"receivedTimestamp": float64(1700000000000), // JSON numbers decode as float64
		"customPayload":     map[string]interface{}{"k": "v"},
		"unknownKey":        "ignored",
	})

	if m.MessageID != "m-1" || m.Title != "Hi" || m.Body != "there" {
		t.Errorf("unexpected fields: %+v", m)
	}
	if m.Vibrate {
		t.Error("vibrate should be false")
	}
	if !m.Silent {
		t.Error("silent should be true")
	}
	if m.ReceivedTimestamp != 1700000000000 {
		t.Errorf("receivedTimestamp = %d, want 1700000000000", m.ReceivedTimestamp)
	}
	if m.CustomPayload["k"] != "v" {
		t.Errorf("customPayload = %v", m.CustomPayload)
	}
}

func TestFromRecordNil(t *testing.T) {
	if FromRecord(nil) != nil {
		t.Error("FromRecord(nil) should return nil")
	}
}

func TestResolveMessagesInvalidArguments(t *testing.T) {
	tests := []struct {
		name string
		args []interface{}
	}{
		{"nil list", nil},
		{"empty list", []interface{}{}},
		{"nil first element", []interface{}{nil, map[string]interface{}{"messageId": "m"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ResolveMessages(tt.args)
			if !errors.Is(err, ErrInvalidArguments) {
				t.Errorf("err = %v, want ErrInvalidArguments", err)
			}
		})
	}
}

func TestResolveMessagesDropsMalformedElements(t *testing.T) {
	args := []interface{}{
		map[string]interface{}{"messageId": "m-1"},
		"not an object",
		map[string]interface{}{"messageId": "m-2"},
	}

	messages, err := ResolveMessages(args)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(messages) != 2 {
		t.Fatalf("got %d messages, want 2", len(messages))
	}
	if messages[0].MessageID != "m-1" || messages[1].MessageID != "m-2" {
		t.Errorf("unexpected messages: %v, %v", messages[0].MessageID, messages[1].MessageID)
	}
}

func TestGeoRecordsFromEmptyInputs(t *testing.T) {
	tests := []struct {
		name         string
		notification *sdk.Notification
	}{
		{"nil notification", nil},
		{"absent message", &sdk.Notification{Type: sdk.NotificationGeofenceEntered}},
		{"no geo payload", &sdk.Notification{Message: &sdk.Message{MessageID: "m"}}},
		{"empty area list", &sdk.Notification{Message: &sdk.Message{MessageID: "m", InternalData: `{"geo":[]}`}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records := GeoRecordsFrom(tt.notification)
			if records == nil {
				t.Fatal("result must never be nil")
			}
			if len(records) != 0 {
				t.Errorf("got %d records, want 0", len(records))
			}
		})
	}
}

func TestGeoRecordsFromAreas(t *testing.T) {
	internal := `{"geo":[
		{"id":"a1","latitude":44.8,"longitude":20.4,"radiusInMeters":200,"title":"Office"},
		{"id":"a2","latitude":45.2,"longitude":19.8,"radiusInMeters":500,"title":"Warehouse"}
	]}`
	n := &sdk.Notification{
		Type:    sdk.NotificationGeofenceEntered,
		Message: &sdk.Message{MessageID: "m-1", InternalData: internal},
	}

	records := GeoRecordsFrom(n)
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}

	want := domain.GeoRecord{
		Area: domain.AreaRecord{
			ID:     "a1",
			Center: domain.CoordRecord{Lat: 44.8, Lon: 20.4},
			Radius: 200,
			Title:  "Office",
		},
	}
	if records[0] != want {
		t.Errorf("records[0] = %+v, want %+v", records[0], want)
	}

	// The area must serialize nested under an "area" key.
	data, _ := json.Marshal(records[0])
	var raw map[string]interface{}
	json.Unmarshal(data, &raw)
	if _, ok := raw["area"]; !ok {
		t.Error(`geo record must nest the area under an "area" key`)
	}
}
