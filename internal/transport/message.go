package transport

import (
	"encoding/json"
	"fmt"

	"github.com/livp123/vrcpresence/internal/logengine"
)

// Message types on the wire.
// 传输中使用的消息类型。
const (
	TypeSync   = "vrc.sync"
	TypeEvent  = "vrc.event"
	TypeInit   = "daemon.init"
	TypeResync = "vrc.resync"
)

// Message is the JSON envelope shared by every transport.
// Message 是所有传输方式共用的 JSON 信封。
type Message struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// SyncData carries a full snapshot.
// SyncData 携带完整快照。
type SyncData struct {
	Users logengine.Snapshot `json:"users"`
}

// EventData carries one event and the snapshot right after it was applied.
// EventData 携带单个事件以及应用该事件后的快照。
type EventData struct {
	Event logengine.Event    `json:"event"`
	Users logengine.Snapshot `json:"users"`
}

// EncodeSync builds a vrc.sync message.
func EncodeSync(snapshot logengine.Snapshot) ([]byte, error) {
	return encode(TypeSync, SyncData{Users: nonNil(snapshot)})
}

// EncodeEvent builds a vrc.event message.
func EncodeEvent(event logengine.Event, snapshot logengine.Snapshot) ([]byte, error) {
	return encode(TypeEvent, EventData{Event: event, Users: nonNil(snapshot)})
}

// EncodeInit builds the hello sent when a websocket connection opens.
func EncodeInit() []byte {
	return []byte(`{"type":"` + TypeInit + `"}`)
}

// Decode parses an envelope. Data is left raw.
// Decode 解析信封，Data 保持原始形式。
func Decode(raw []byte) (Message, error) {
	var msg Message
	if err := json.Unmarshal(raw, &msg); err != nil {
		return Message{}, fmt.Errorf("failed to decode message: %w", err)
	}
	if msg.Type == "" {
		return Message{}, fmt.Errorf("failed to decode message: missing type")
	}
	return msg, nil
}

func encode(kind string, data interface{}) ([]byte, error) {
	payload, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s: %w", kind, err)
	}
	return json.Marshal(Message{Type: kind, Data: payload})
}

// nonNil keeps empty snapshots as [] instead of null on the wire.
func nonNil(s logengine.Snapshot) logengine.Snapshot {
	if s == nil {
		return logengine.Snapshot{}
	}
	return s
}
