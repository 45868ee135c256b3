// Package transport delivers engine signals to remote subscribers and reports
// when they are ready for a full snapshot.
// Package transport 将引擎信号发送给远程订阅者，并在其准备好接收完整快照时发出通知。
package transport

import (
	"context"
	"sync"

	"github.com/livp123/vrcpresence/internal/logengine"
	"github.com/livp123/vrcpresence/internal/metrics"
)

const (
	resultSent    = "sent"
	resultDropped = "dropped"
	resultError   = "error"
)

// Transport is one subscriber connection.
// Transport 是一个订阅者连接。
type Transport interface {
	logengine.Sink
	logengine.Source
	Name() string
	Start(ctx context.Context) error
	Close() error
}

// readyHub stores ready callbacks and fires them in registration order.
type readyHub struct {
	name      string
	mu        sync.Mutex
	callbacks []func(logengine.Ready)
}

func (h *readyHub) OnReady(callback func(logengine.Ready)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.callbacks = append(h.callbacks, callback)
}

func (h *readyHub) fire(reason logengine.Ready) {
	metrics.ResyncRequestsTotal.WithLabelValues(h.name).Inc()

	h.mu.Lock()
	callbacks := append([]func(logengine.Ready){}, h.callbacks...)
	h.mu.Unlock()
	for _, cb := range callbacks {
		cb(reason)
	}
}

func countSignal(name, kind string, err error) {
	result := resultSent
	if err != nil {
		result = resultDropped
	}
	metrics.SignalsTotal.WithLabelValues(name, kind, result).Inc()
}
