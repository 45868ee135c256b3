package transport

import (
	"context"
	"errors"
	"fmt"

	"github.com/livp123/vrcpresence/internal/logengine"
)

// Fanout presents several transports to the engine as one Sink and Source.
// With no transports it reports ready at once so the engine never waits.
// Fanout 将多个传输方式合并为一个 Sink 和 Source 提供给引擎。
// 没有任何传输方式时立即报告就绪，使引擎无需等待。
type Fanout struct {
	members []Transport
}

// NewFanout creates a new Fanout.
func NewFanout(members ...Transport) *Fanout {
	return &Fanout{members: members}
}

// Len returns the number of transports.
func (f *Fanout) Len() int { return len(f.members) }

// Names lists the transports in order.
func (f *Fanout) Names() []string {
	names := make([]string, len(f.members))
	for i, m := range f.members {
		names[i] = m.Name()
	}
	return names
}

// OnReady implements logengine.Source. Any member's ready signal triggers callback.
// OnReady 实现 logengine.Source，任一成员的就绪信号都会触发 callback。
func (f *Fanout) OnReady(callback func(logengine.Ready)) {
	if len(f.members) == 0 {
		callback(logengine.ReadyConnected)
		return
	}
	for _, m := range f.members {
		m.OnReady(callback)
	}
}

// EmitSync implements logengine.Sink.
func (f *Fanout) EmitSync(snapshot logengine.Snapshot) {
	for _, m := range f.members {
		m.EmitSync(snapshot)
	}
}

// EmitDelta implements logengine.Sink.
func (f *Fanout) EmitDelta(event logengine.Event, snapshot logengine.Snapshot) {
	for _, m := range f.members {
		m.EmitDelta(event, snapshot)
	}
}

// Start starts every member, closing the ones already started on failure.
// Start 启动所有成员，失败时关闭已启动的成员。
func (f *Fanout) Start(ctx context.Context) error {
	for i, m := range f.members {
		if err := m.Start(ctx); err != nil {
			for _, started := range f.members[:i] {
				_ = started.Close()
			}
			return fmt.Errorf("failed to start %s transport: %w", m.Name(), err)
		}
	}
	return nil
}

// Close closes every member and joins their errors.
func (f *Fanout) Close() error {
	var errs []error
	for _, m := range f.members {
		if err := m.Close(); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", m.Name(), err))
		}
	}
	return errors.Join(errs...)
}
