package logengine

import (
	"context"
	"errors"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/livp123/vrcpresence/internal/metrics"
	"github.com/livp123/vrcpresence/internal/utils/logger"
	apperrors "github.com/livp123/vrcpresence/pkg/errors"
	"go.uber.org/zap"
)

const (
	phaseReplay = "replay"
	phaseTail   = "tail"
)

// Sink receives the engine's outbound signals. Implementations must not block.
// Sink 接收引擎发出的信号。实现不得阻塞。
type Sink interface {
	EmitSync(snapshot Snapshot)
	EmitDelta(event Event, snapshot Snapshot)
}

// Ready tells the engine why the subscriber is ready.
// Ready 表示订阅者就绪的原因。
type Ready int

const (
	// ReadyRequested is an explicit resync request over a live connection.
	ReadyRequested Ready = iota
	// ReadyConnected is a new or restored connection. Signals may have been
	// dropped while it was down, so the snapshot is always sent.
	ReadyConnected
)

// Source reports when the remote subscriber is ready, any number of times.
// Source 报告远程订阅者何时就绪，可多次触发。
type Source interface {
	OnReady(callback func(reason Ready))
}

// Options configures an Engine.
// Options 配置引擎。
type Options struct {
	Locator Locator
	Parser  *Parser
	Filter  *Filter
	Sink    Sink
	Source  Source
	// ReadyTimeout bounds the wait for the first ready signal before tailing; zero waits forever.
	// ReadyTimeout 限制开始跟踪前等待首次就绪信号的时间；为零表示一直等待。
	ReadyTimeout time.Duration
	// AlwaysResync emits a sync on a resync request even when nobody is present.
	// AlwaysResync 即使无人在线也在收到重新同步请求时发送同步。
	AlwaysResync bool
	Poll         bool
	Logger       *zap.SugaredLogger
}

// Engine replays the log, then tails it, keeping the store and the sink in step.
// Engine 先回放日志再实时跟踪，使存储与 Sink 保持一致。
type Engine struct {
	opts   Options
	log    *zap.SugaredLogger
	store  *Store
	parser *Parser

	state    atomic.Int32
	replayed atomic.Bool
	started  atomic.Bool
	filter   atomic.Pointer[Filter]

	ready     chan struct{}
	readyOnce sync.Once

	// emitMu orders store mutation plus emission against resync emission.
	emitMu sync.Mutex

	mu            sync.RWMutex
	source        string
	replayedLines int
	tailer        *Tailer

	cancel context.CancelFunc
	wg     sync.WaitGroup
	done   chan struct{}
	errMu  sync.Mutex
	err    error
}

// New creates a new Engine and subscribes it to opts.Source.
// New 创建引擎并订阅 opts.Source。
func New(opts Options) *Engine {
	if opts.Parser == nil {
		opts.Parser = NewParser(nil)
	}
	log := opts.Logger
	if log == nil {
		log = logger.Named(nil, "engine")
	}

	e := &Engine{
		opts:   opts,
		log:    log,
		store:  NewStore(),
		parser: opts.Parser,
		ready:  make(chan struct{}),
		done:   make(chan struct{}),
	}
	e.filter.Store(opts.Filter)
	if opts.Source != nil {
		opts.Source.OnReady(e.OnSubscriberReady)
	}
	return e
}

// SetFilter replaces the event filter for lines read from now on. Nil accepts
// everything. Disconnects of present identifiers always pass.
// SetFilter 替换之后读取的行所使用的事件过滤器，nil 表示全部接受。
// 已在线标识符的离开事件总是通过。
func (e *Engine) SetFilter(f *Filter) {
	e.filter.Store(f)
	e.log.Infof("🔧 Event filter set to %q", f.String())
}

// Start resolves the log source and replays it synchronously, emitting one
// sync when done. It then waits for the subscriber in the background and
// tails the file from where replay stopped. Only a missing log source or an
// unreadable file is returned as an error.
// Start 解析日志源并同步回放，完成后发送一次同步；随后在后台等待订阅者，
// 并从回放结束的位置继续跟踪文件。只有日志源缺失或文件不可读才会返回错误。
func (e *Engine) Start(ctx context.Context) error {
	if !e.started.CompareAndSwap(false, true) {
		return apperrors.ErrAlreadyStarted
	}
	if e.opts.Locator == nil {
		return apperrors.ErrNoLogSource
	}

	path, err := e.opts.Locator.Locate()
	if err != nil {
		return err
	}
	runCtx, cancel := context.WithCancel(ctx)
	e.mu.Lock()
	e.source = path
	e.cancel = cancel
	e.wg.Add(1)
	e.mu.Unlock()
	e.log.Infof("📄 Selected log file: %s", path)

	e.setState(StateReplaying)
	res, err := e.replay(runCtx, path)
	if err != nil {
		cancel()
		e.wg.Done()
		return err
	}
	e.log.Infof("📖 Read %d lines", res.Lines)
	e.log.Infof("👥 Collected %d connected users", e.store.Size())

	e.emitMu.Lock()
	e.replayed.Store(true)
	e.emit(func(sink Sink) { sink.EmitSync(e.store.Snapshot()) })
	e.emitMu.Unlock()

	go e.run(runCtx, path, res.Offset)
	return nil
}

// Stop cancels tailing and waits for it to finish.
// Stop 取消跟踪并等待其结束。
func (e *Engine) Stop() {
	e.mu.RLock()
	cancel := e.cancel
	e.mu.RUnlock()
	if cancel == nil {
		return
	}
	cancel()
	e.wg.Wait()
}

// Done is closed once tailing has ended for any reason.
// Done 在跟踪因任何原因结束后关闭。
func (e *Engine) Done() <-chan struct{} {
	return e.done
}

// Err returns the error that ended tailing, if any.
func (e *Engine) Err() error {
	e.errMu.Lock()
	defer e.errMu.Unlock()
	return e.err
}

// OnSubscriberReady re-emits the current snapshot. It is a no-op until
// replay has finished. A resync request with an empty store is skipped unless
// AlwaysResync is set; a connection always gets the snapshot.
// OnSubscriberReady 重新发送当前快照。回放完成前不做任何操作；
// 存储为空时的重新同步请求除非设置 AlwaysResync 否则跳过，新连接总会收到快照。
func (e *Engine) OnSubscriberReady(reason Ready) {
	e.readyOnce.Do(func() { close(e.ready) })

	if !e.replayed.Load() {
		e.log.Debugf("Subscriber ready during replay, snapshot will follow replay")
		return
	}

	e.emitMu.Lock()
	defer e.emitMu.Unlock()
	if reason == ReadyRequested && e.store.Size() == 0 && !e.opts.AlwaysResync {
		return
	}
	e.log.Infof("🔁 Subscriber ready, sending sync (%d users)", e.store.Size())
	e.emit(func(sink Sink) { sink.EmitSync(e.store.Snapshot()) })
}

// State returns the current phase.
func (e *Engine) State() State {
	return State(e.state.Load())
}

// Snapshot returns a copy of the current membership.
func (e *Engine) Snapshot() Snapshot {
	return e.store.Snapshot()
}

// Lookup returns the record for one present identifier.
func (e *Engine) Lookup(identifier string) (Record, bool) {
	return e.store.Get(identifier)
}

// Status returns diagnostics for the status API.
// Status 返回状态 API 使用的诊断信息。
func (e *Engine) Status() Status {
	e.mu.RLock()
	defer e.mu.RUnlock()

	var offset int64
	if e.tailer != nil {
		offset = e.tailer.Offset()
	}
	return Status{
		State:         e.State().String(),
		Source:        e.source,
		ReplayedLines: e.replayedLines,
		Offset:        offset,
		Users:         e.store.Size(),
	}
}

func (e *Engine) replay(ctx context.Context, path string) (ReplayResult, error) {
	e.log.Infof("Init read log file")
	f, err := os.Open(path) // #nosec G304 // path comes from the configured locator
	if err != nil {
		return ReplayResult{}, apperrors.NewFileError(path, err)
	}
	defer f.Close()

	res, err := Replay(ctx, f, func(line string) {
		metrics.LinesTotal.WithLabelValues(phaseReplay).Inc()
		ev, ok := e.parse(line)
		if !ok {
			return
		}
		e.store.Apply(ev)
		metrics.EventsTotal.WithLabelValues(phaseReplay, string(ev.Kind)).Inc()
	})
	if err != nil {
		return res, err
	}
	metrics.PresentUsers.Set(float64(e.store.Size()))

	e.mu.Lock()
	e.replayedLines = res.Lines
	e.mu.Unlock()
	return res, nil
}

func (e *Engine) run(ctx context.Context, path string, offset int64) {
	defer e.wg.Done()
	defer close(e.done)

	if !e.awaitReady(ctx) {
		return
	}

	tailer := NewTailer(path, e.opts.Poll, e.log)
	e.mu.Lock()
	e.tailer = tailer
	e.mu.Unlock()

	e.setState(StateTailing)
	e.log.Infof("👀 Connect to log file, tailing from offset %d", offset)

	err := tailer.Run(ctx, offset, e.handleTailLine)
	if err != nil && !errors.Is(err, context.Canceled) {
		e.log.Errorf("❌ Tailing stopped: %v", err)
		e.errMu.Lock()
		e.err = err
		e.errMu.Unlock()
	}
}

// awaitReady blocks until the subscriber is ready, the timeout elapses, or ctx ends.
func (e *Engine) awaitReady(ctx context.Context) bool {
	if e.opts.Source == nil {
		return true
	}

	var timeout <-chan time.Time
	if e.opts.ReadyTimeout > 0 {
		timer := time.NewTimer(e.opts.ReadyTimeout)
		defer timer.Stop()
		timeout = timer.C
	}

	select {
	case <-e.ready:
		return true
	case <-timeout:
		e.log.Warnf("⚠️  No subscriber after %v, tailing anyway", e.opts.ReadyTimeout)
		return true
	case <-ctx.Done():
		return false
	}
}

func (e *Engine) handleTailLine(line string) {
	metrics.LinesTotal.WithLabelValues(phaseTail).Inc()
	ev, ok := e.parse(line)
	if !ok {
		return
	}

	e.log.Infof("Handled %s event user: %s (%s)", ev.Kind, ev.Identifier, ev.Timestamp.Format(time.RFC3339))

	e.emitMu.Lock()
	e.store.Apply(ev)
	snap := e.store.Snapshot()
	e.emit(func(sink Sink) { sink.EmitDelta(ev, snap) })
	e.emitMu.Unlock()

	metrics.EventsTotal.WithLabelValues(phaseTail, string(ev.Kind)).Inc()
	metrics.PresentUsers.Set(float64(len(snap)))
}

// parse folds parser and filter failures into "no event".
func (e *Engine) parse(line string) (Event, bool) {
	ev, err := e.parser.ParseLine(line)
	if err != nil {
		reason := "malformed"
		if errors.Is(err, apperrors.ErrInvalidTimestamp) {
			reason = "timestamp"
		}
		metrics.DroppedLinesTotal.WithLabelValues(reason).Inc()
		e.log.Debugf("Dropped line: %v", err)
		return Event{}, false
	}
	if ev == nil {
		return Event{}, false
	}

	if ev.Kind == EventDisconnect {
		if _, present := e.store.Get(ev.Identifier); present {
			return *ev, true
		}
	}

	matched, err := e.filter.Load().Match(*ev)
	if err != nil {
		e.log.Warnf("⚠️  Filter evaluation failed, keeping event: %v", err)
	}
	if !matched {
		metrics.DroppedLinesTotal.WithLabelValues("filtered").Inc()
		return Event{}, false
	}
	return *ev, true
}

func (e *Engine) emit(fn func(Sink)) {
	if e.opts.Sink != nil {
		fn(e.opts.Sink)
	}
}

func (e *Engine) setState(s State) {
	e.state.Store(int32(s))
	metrics.EngineState.Set(float64(s))
}
