package transport

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/livp123/vrcpresence/internal/logengine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var at = time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

// TestEncodeSync tests the sync envelope
// TestEncodeSync 测试同步信封
func TestEncodeSync(t *testing.T) {
	data, err := EncodeSync(logengine.Snapshot{{Identifier: "Alice", PresentSince: at}})
	require.NoError(t, err)
	assert.JSONEq(t,
		`{"type":"vrc.sync","data":{"users":[{"identifier":"Alice","presentSince":"2024-01-02T03:04:05Z"}]}}`,
		string(data))

	empty, err := EncodeSync(nil)
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"vrc.sync","data":{"users":[]}}`, string(empty))
}

// TestEncodeEvent tests the event envelope
// TestEncodeEvent 测试事件信封
func TestEncodeEvent(t *testing.T) {
	ev := logengine.Event{Kind: logengine.EventDisconnect, Identifier: "Bob", Timestamp: at}
	data, err := EncodeEvent(ev, nil)
	require.NoError(t, err)
	assert.JSONEq(t,
		`{"type":"vrc.event","data":{"event":{"kind":"disconnect","identifier":"Bob","timestamp":"2024-01-02T03:04:05Z"},"users":[]}}`,
		string(data))

	msg, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, TypeEvent, msg.Type)

	var payload EventData
	require.NoError(t, json.Unmarshal(msg.Data, &payload))
	assert.Equal(t, ev, payload.Event)
}

// TestDecode tests inbound parsing
// TestDecode 测试入站消息解析
func TestDecode(t *testing.T) {
	msg, err := Decode([]byte(`{"type":"vrc.resync"}`))
	require.NoError(t, err)
	assert.Equal(t, TypeResync, msg.Type)
	assert.Empty(t, msg.Data)

	_, err = Decode([]byte(`not json`))
	assert.Error(t, err)

	_, err = Decode([]byte(`{"data":{}}`))
	assert.Error(t, err)

	assert.JSONEq(t, `{"type":"daemon.init"}`, string(EncodeInit()))
}
