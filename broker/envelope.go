package broker

import "encoding/json"

// Channel names shared by every backend instance.
const (
	ChannelNewOrder          = "new_order"
	ChannelOrderStatusUpdate = "order_status_update"
	ChannelNotifications     = "notifications"
)

// envelope tags every message with the id of the publishing process. A
// subscriber drops its own messages: the originating instance has already
// delivered to its local connections, the tag keeps remote instances from
// double-delivering or re-publishing in a loop.
type envelope struct {
	Origin string          `json:"origin"`
	Data   json.RawMessage `json:"data"`
}

func encodeEnvelope(origin string, v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return json.Marshal(envelope{Origin: origin, Data: data})
}

// decodeEnvelope returns the inner payload and false when the message was
// published by origin itself.
func decodeEnvelope(origin string, raw []byte) ([]byte, bool, error) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, false, err
	}
	if env.Origin == origin {
		return nil, false, nil
	}
	return env.Data, true, nil
}
