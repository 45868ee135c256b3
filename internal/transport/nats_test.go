package transport

import (
	"context"
	"testing"

	"github.com/livp123/vrcpresence/internal/logengine"
	apperrors "github.com/livp123/vrcpresence/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// TestNATS_Subjects tests subject naming and defaults
// TestNATS_Subjects 测试主题命名与默认值
func TestNATS_Subjects(t *testing.T) {
	c := NewNATSClient(NATSOptions{URL: "nats://127.0.0.1:4222", Logger: zap.NewNop().Sugar()})
	assert.Equal(t, "vrc.sync", c.Subject("sync"))
	assert.Equal(t, "nats", c.Name())

	custom := NewNATSClient(NATSOptions{SubjectPrefix: "lobby.presence", Logger: zap.NewNop().Sugar()})
	assert.Equal(t, "lobby.presence.resync", custom.Subject("resync"))
}

// TestNATS_Unreachable tests that an unreachable server does not block startup and drops signals
// TestNATS_Unreachable 测试服务器不可达时不阻塞启动且信号被丢弃
func TestNATS_Unreachable(t *testing.T) {
	c := NewNATSClient(NATSOptions{URL: "nats://127.0.0.1:1", Logger: zap.NewNop().Sugar()})

	fired := false
	c.OnReady(func(logengine.Ready) { fired = true })

	assert.ErrorIs(t, c.Publish("sync", []byte(`{}`)), apperrors.ErrNotConnected)

	require.NoError(t, c.Start(context.Background()))
	assert.ErrorIs(t, c.Start(context.Background()), apperrors.ErrAlreadyStarted)
	assert.ErrorIs(t, c.Publish("sync", []byte(`{}`)), apperrors.ErrNotConnected)
	c.EmitSync(nil)
	assert.False(t, fired)

	assert.NoError(t, c.Close())
	assert.NoError(t, c.Close())
}
