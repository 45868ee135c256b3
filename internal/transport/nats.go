package transport

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/livp123/vrcpresence/internal/logengine"
	"github.com/livp123/vrcpresence/internal/metrics"
	"github.com/livp123/vrcpresence/internal/utils/logger"
	apperrors "github.com/livp123/vrcpresence/pkg/errors"
	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

const natsName = "nats"

// NATSOptions configures a NATSClient.
// NATSOptions 配置 NATS 客户端。
type NATSOptions struct {
	URL           string
	SubjectPrefix string
	Name          string
	Logger        *zap.SugaredLogger
}

// NATSClient publishes signals to <prefix>.sync and <prefix>.event. The first
// connect, every reconnect and every message on <prefix>.resync are ready signals.
// NATSClient 将信号发布到 <prefix>.sync 和 <prefix>.event。
// 首次连接、每次重连以及 <prefix>.resync 上的每条消息都视为就绪信号。
type NATSClient struct {
	readyHub
	opts NATSOptions
	log  *zap.SugaredLogger

	mu      sync.Mutex
	nc      *nats.Conn
	sub     *nats.Subscription
	initial sync.Once
	started atomic.Bool
}

// NewNATSClient creates a new client. Call Start to connect.
// NewNATSClient 创建客户端，调用 Start 开始连接。
func NewNATSClient(opts NATSOptions) *NATSClient {
	if opts.SubjectPrefix == "" {
		opts.SubjectPrefix = "vrc"
	}
	if opts.Name == "" {
		opts.Name = "vrcpresence"
	}
	log := opts.Logger
	if log == nil {
		log = logger.Named(nil, natsName)
	}
	return &NATSClient{
		readyHub: readyHub{name: natsName},
		opts:     opts,
		log:      log,
	}
}

// Name implements Transport.
func (c *NATSClient) Name() string { return natsName }

// Subject returns the full subject for a suffix such as "sync".
func (c *NATSClient) Subject(suffix string) string {
	return c.opts.SubjectPrefix + "." + suffix
}

// Start connects in the background, retrying forever. It only fails on bad options.
// Start 在后台连接并无限重试，仅在选项错误时失败。
func (c *NATSClient) Start(_ context.Context) error {
	if !c.started.CompareAndSwap(false, true) {
		return apperrors.ErrAlreadyStarted
	}

	nc, err := nats.Connect(c.opts.URL,
		nats.Name(c.opts.Name),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(time.Second),
		nats.ConnectHandler(func(nc *nats.Conn) {
			c.setConn(nc)
			c.connectedUp("Connected")
			c.initial.Do(c.fireConnected)
		}),
		nats.ReconnectHandler(func(_ *nats.Conn) {
			c.connectedUp("Reconnected")
			c.fire(logengine.ReadyConnected)
		}),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			metrics.TransportConnected.WithLabelValues(natsName).Set(0)
			c.log.Warnf("🔌 Disconnected from NATS: %v", err)
		}),
	)
	if err != nil {
		return fmt.Errorf("failed to connect to NATS: %w", err)
	}

	sub, err := nc.Subscribe(c.Subject("resync"), func(_ *nats.Msg) {
		c.log.Infof("🔁 Resync requested by subscriber")
		c.fire(logengine.ReadyRequested)
	})
	if err != nil {
		nc.Close()
		return fmt.Errorf("failed to subscribe to %s: %w", c.Subject("resync"), err)
	}

	c.setConn(nc)
	c.mu.Lock()
	c.sub = sub
	c.mu.Unlock()

	if nc.IsConnected() {
		c.connectedUp("Connected")
		c.initial.Do(c.fireConnected)
	}
	return nil
}

// Close drops the subscription and the connection.
// Close 取消订阅并关闭连接。
func (c *NATSClient) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sub != nil {
		_ = c.sub.Unsubscribe()
		c.sub = nil
	}
	if c.nc != nil {
		c.nc.Close()
		c.nc = nil
	}
	metrics.TransportConnected.WithLabelValues(natsName).Set(0)
	return nil
}

// EmitSync implements logengine.Sink.
func (c *NATSClient) EmitSync(snapshot logengine.Snapshot) {
	data, err := EncodeSync(snapshot)
	if err != nil {
		metrics.SignalsTotal.WithLabelValues(natsName, TypeSync, resultError).Inc()
		c.log.Errorf("❌ %v", err)
		return
	}
	err = c.Publish("sync", data)
	countSignal(natsName, TypeSync, err)
	if err != nil {
		c.log.Debugf("Sync not published: %v", err)
	}
}

// EmitDelta implements logengine.Sink.
func (c *NATSClient) EmitDelta(event logengine.Event, snapshot logengine.Snapshot) {
	data, err := EncodeEvent(event, snapshot)
	if err != nil {
		metrics.SignalsTotal.WithLabelValues(natsName, TypeEvent, resultError).Inc()
		c.log.Errorf("❌ %v", err)
		return
	}
	err = c.Publish("event", data)
	countSignal(natsName, TypeEvent, err)
	if err != nil {
		c.log.Debugf("Event not published: %v", err)
	}
}

// Publish sends data on <prefix>.<suffix>. Messages are not buffered across outages.
// Publish 在 <prefix>.<suffix> 上发送数据，断线期间不缓存消息。
func (c *NATSClient) Publish(suffix string, data []byte) error {
	c.mu.Lock()
	nc := c.nc
	c.mu.Unlock()

	if nc == nil || !nc.IsConnected() {
		return apperrors.ErrNotConnected
	}
	if err := nc.Publish(c.Subject(suffix), data); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", c.Subject(suffix), err)
	}
	return nil
}

// setConn publishes the connection to emitters; the connect handler may run before Connect returns.
func (c *NATSClient) setConn(nc *nats.Conn) {
	c.mu.Lock()
	c.nc = nc
	c.mu.Unlock()
}

func (c *NATSClient) connectedUp(verb string) {
	metrics.TransportConnected.WithLabelValues(natsName).Set(1)
	c.log.Infof("✅ %s to NATS %s", verb, c.opts.URL)
}

func (c *NATSClient) fireConnected() {
	c.fire(logengine.ReadyConnected)
}
