package transport

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/gorilla/websocket"
	"github.com/livp123/vrcpresence/internal/logengine"
	"github.com/livp123/vrcpresence/internal/metrics"
	"github.com/livp123/vrcpresence/internal/utils/logger"
	apperrors "github.com/livp123/vrcpresence/pkg/errors"
	"go.uber.org/zap"
)

const websocketName = "websocket"

// WebSocketOptions configures a WebSocketClient.
// WebSocketOptions 配置 WebSocket 客户端。
type WebSocketOptions struct {
	URL          string
	MinBackoff   time.Duration
	MaxBackoff   time.Duration
	WriteTimeout time.Duration
	QueueSize    int
	Dialer       *websocket.Dialer
	Logger       *zap.SugaredLogger
}

// WebSocketClient keeps one outbound websocket connection alive, reconnecting
// with exponential backoff. Every successful connection counts as a ready
// signal, as does an inbound vrc.resync message. Signals emitted while
// disconnected are dropped and the next connection always resyncs the subscriber.
// WebSocketClient 维持一个出站 WebSocket 连接，并以指数退避重连。
// 每次连接成功以及收到 vrc.resync 消息都视为就绪信号。
// 断开期间发出的信号会被丢弃，下一次连接会重新同步订阅者。
type WebSocketClient struct {
	readyHub
	opts  WebSocketOptions
	log   *zap.SugaredLogger
	queue chan []byte

	connected atomic.Bool
	started   atomic.Bool
	cancel    context.CancelFunc
	wg        sync.WaitGroup
}

// NewWebSocketClient creates a new client. Call Start to connect.
// NewWebSocketClient 创建客户端，调用 Start 开始连接。
func NewWebSocketClient(opts WebSocketOptions) *WebSocketClient {
	if opts.QueueSize <= 0 {
		opts.QueueSize = 256
	}
	if opts.MinBackoff <= 0 {
		opts.MinBackoff = time.Second
	}
	if opts.MaxBackoff < opts.MinBackoff {
		opts.MaxBackoff = opts.MinBackoff
	}
	if opts.WriteTimeout <= 0 {
		opts.WriteTimeout = 10 * time.Second
	}
	if opts.Dialer == nil {
		opts.Dialer = websocket.DefaultDialer
	}
	log := opts.Logger
	if log == nil {
		log = logger.Named(nil, websocketName)
	}
	return &WebSocketClient{
		readyHub: readyHub{name: websocketName},
		opts:     opts,
		log:      log,
		queue:    make(chan []byte, opts.QueueSize),
	}
}

// Name implements Transport.
func (c *WebSocketClient) Name() string { return websocketName }

// Connected reports whether a connection is currently open.
func (c *WebSocketClient) Connected() bool { return c.connected.Load() }

// Start launches the connection loop. It does not block.
// Start 启动连接循环，不会阻塞。
func (c *WebSocketClient) Start(ctx context.Context) error {
	if !c.started.CompareAndSwap(false, true) {
		return apperrors.ErrAlreadyStarted
	}
	runCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.wg.Add(1)
	go c.run(runCtx)
	return nil
}

// Close stops the connection loop and waits for it to exit.
// Close 停止连接循环并等待其退出。
func (c *WebSocketClient) Close() error {
	if c.cancel != nil {
		c.cancel()
	}
	c.wg.Wait()
	return nil
}

// EmitSync implements logengine.Sink.
func (c *WebSocketClient) EmitSync(snapshot logengine.Snapshot) {
	data, err := EncodeSync(snapshot)
	if err != nil {
		metrics.SignalsTotal.WithLabelValues(websocketName, TypeSync, resultError).Inc()
		c.log.Errorf("❌ %v", err)
		return
	}
	err = c.Send(data)
	countSignal(websocketName, TypeSync, err)
	if err != nil {
		c.log.Debugf("Sync not sent: %v", err)
	}
}

// EmitDelta implements logengine.Sink.
func (c *WebSocketClient) EmitDelta(event logengine.Event, snapshot logengine.Snapshot) {
	data, err := EncodeEvent(event, snapshot)
	if err != nil {
		metrics.SignalsTotal.WithLabelValues(websocketName, TypeEvent, resultError).Inc()
		c.log.Errorf("❌ %v", err)
		return
	}
	err = c.Send(data)
	countSignal(websocketName, TypeEvent, err)
	if err != nil {
		c.log.Debugf("Event not sent: %v", err)
	}
}

// Send queues a raw message for the writer. It never blocks.
// Send 将原始消息放入写队列，永不阻塞。
func (c *WebSocketClient) Send(data []byte) error {
	if !c.connected.Load() {
		return apperrors.ErrNotConnected
	}
	select {
	case c.queue <- data:
		return nil
	default:
		return apperrors.ErrQueueFull
	}
}

func (c *WebSocketClient) run(ctx context.Context) {
	defer c.wg.Done()

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.opts.MinBackoff
	b.MaxInterval = c.opts.MaxBackoff

	for {
		conn, _, err := c.opts.Dialer.DialContext(ctx, c.opts.URL, nil)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			wait := b.NextBackOff()
			c.log.Warnf("⚠️  Failed to connect to %s: %v (retry in %v)", c.opts.URL, err, wait)
			if !sleep(ctx, wait) {
				return
			}
			continue
		}

		b.Reset()
		err = c.serve(ctx, conn)
		if ctx.Err() != nil {
			return
		}
		c.log.Warnf("🔌 Disconnected from %s: %v", c.opts.URL, err)
		if !sleep(ctx, b.NextBackOff()) {
			return
		}
	}
}

// serve owns conn until it fails or ctx ends.
func (c *WebSocketClient) serve(ctx context.Context, conn *websocket.Conn) error {
	defer conn.Close()

	// Stale messages from the previous connection are superseded by the resync below
	c.drain()

	if err := c.write(conn, EncodeInit()); err != nil {
		return fmt.Errorf("failed to send %s: %w", TypeInit, err)
	}

	c.connected.Store(true)
	metrics.TransportConnected.WithLabelValues(websocketName).Set(1)
	defer func() {
		c.connected.Store(false)
		metrics.TransportConnected.WithLabelValues(websocketName).Set(0)
	}()
	c.log.Infof("✅ Connected to %s", c.opts.URL)

	readErr := make(chan error, 1)
	go c.read(conn, readErr)

	c.fire(logengine.ReadyConnected)

	for {
		select {
		case <-ctx.Done():
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(time.Second))
			return ctx.Err()
		case err := <-readErr:
			return err
		case data := <-c.queue:
			if err := c.write(conn, data); err != nil {
				return err
			}
		}
	}
}

// read dispatches inbound messages until the connection fails.
func (c *WebSocketClient) read(conn *websocket.Conn, errc chan<- error) {
	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			errc <- err
			return
		}
		msg, err := Decode(raw)
		if err != nil {
			c.log.Debugf("Ignored inbound message: %v", err)
			continue
		}
		if msg.Type == TypeResync {
			c.log.Infof("🔁 Resync requested by subscriber")
			c.fire(logengine.ReadyRequested)
		}
	}
}

func (c *WebSocketClient) write(conn *websocket.Conn, data []byte) error {
	if err := conn.SetWriteDeadline(time.Now().Add(c.opts.WriteTimeout)); err != nil {
		return err
	}
	err := conn.WriteMessage(websocket.TextMessage, data)
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: %v", apperrors.ErrTimeout, err)
	}
	return err
}

func (c *WebSocketClient) drain() {
	for {
		select {
		case <-c.queue:
		default:
			return
		}
	}
}

func sleep(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
