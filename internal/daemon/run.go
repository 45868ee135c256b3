package daemon

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/livp123/vrcpresence/internal/api"
	"github.com/livp123/vrcpresence/internal/config"
	"github.com/livp123/vrcpresence/internal/logengine"
	"github.com/livp123/vrcpresence/internal/transport"
	"github.com/livp123/vrcpresence/internal/utils/logger"
	apperrors "github.com/livp123/vrcpresence/pkg/errors"
)

const shutdownTimeout = 5 * time.Second

// Run wires the engine to its transports and the status API, then blocks
// until a signal arrives, ctx ends or tailing stops. A missing log source is
// returned before any connection is opened. SIGHUP reloads the event filter.
// Run 将引擎与传输方式及状态 API 连接起来，然后阻塞直到收到信号、ctx 结束
// 或跟踪停止。日志源缺失会在建立任何连接之前返回。SIGHUP 会重新加载事件过滤器。
func Run(ctx context.Context, mgr *config.Manager) error {
	log := logger.Get(ctx)
	cfg := mgr.Get()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	fanout := transport.NewFanout(Transports(ctx, cfg)...)
	engine, err := NewEngine(ctx, cfg, fanout)
	if err != nil {
		return err
	}

	if err := engine.Start(ctx); err != nil {
		return err
	}
	defer engine.Stop()

	if err := fanout.Start(ctx); err != nil {
		return err
	}
	defer func() {
		if err := fanout.Close(); err != nil {
			log.Warnf("⚠️  Failed to close transports: %v", err)
		}
	}()
	if fanout.Len() == 0 {
		log.Warn("⚠️  No transport enabled, running local only")
	} else {
		log.Infof("📡 Transports: %v", fanout.Names())
	}

	if cfg.Web.Enabled {
		srv := api.NewServer(engine, cfg.Web.Port, logger.Named(ctx, "api"))
		go func() {
			if err := srv.Start(); err != nil {
				log.Errorf("❌ %v", err)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)

	for {
		select {
		case <-ctx.Done():
			log.Info("👋 Shutting down...")
			return nil
		case <-hup:
			log.Info("🔄 Received SIGHUP, reloading configuration...")
			reload(ctx, mgr, engine)
		case <-engine.Done():
			if err := engine.Err(); err != nil {
				return fmt.Errorf("tailing stopped: %w", err)
			}
			if ctx.Err() != nil {
				return nil
			}
			return errors.New("tailing stopped unexpectedly")
		}
	}
}

// reload applies the settings that can change at runtime. Failures keep the
// running configuration.
// reload 应用可在运行时更改的设置，失败时保留当前配置。
func reload(ctx context.Context, mgr *config.Manager, engine *logengine.Engine) {
	log := logger.Get(ctx)

	cfg, err := mgr.Reload()
	if err != nil {
		log.Errorf("❌ Failed to reload config: %v", err)
		return
	}
	filter, err := logengine.NewFilter(cfg.Watcher.Filter)
	if err != nil {
		log.Errorf("❌ Failed to reload filter: %v", err)
		return
	}
	engine.SetFilter(filter)
	log.Info("✅ Configuration reloaded")
}

// NewEngine builds an engine from the watcher section, using sink as both
// signal sink and ready source.
// NewEngine 根据 watcher 配置构建引擎，sink 同时作为信号接收方和就绪来源。
func NewEngine(ctx context.Context, cfg *config.Config, sink *transport.Fanout) (*logengine.Engine, error) {
	loc, err := cfg.Watcher.Location()
	if err != nil {
		return nil, apperrors.NewConfigError("timezone", cfg.Watcher.Timezone)
	}
	filter, err := logengine.NewFilter(cfg.Watcher.Filter)
	if err != nil {
		return nil, err
	}

	opts := logengine.Options{
		Locator:      logengine.NewLocator(cfg.Watcher.LogDir, cfg.Watcher.LogFile, cfg.Watcher.Pattern),
		Parser:       logengine.NewParser(loc),
		Filter:       filter,
		ReadyTimeout: cfg.Watcher.ReadyTimeoutDuration(),
		AlwaysResync: cfg.Watcher.AlwaysResync,
		Poll:         cfg.Watcher.Poll,
		Logger:       logger.Named(ctx, "engine"),
	}
	if sink != nil {
		opts.Sink = sink
		opts.Source = sink
	}
	return logengine.New(opts), nil
}

// Transports returns the enabled transports in a fixed order.
// Transports 按固定顺序返回已启用的传输方式。
func Transports(ctx context.Context, cfg *config.Config) []transport.Transport {
	var out []transport.Transport
	if cfg.WebSocket.Enabled {
		out = append(out, transport.NewWebSocketClient(transport.WebSocketOptions{
			URL:          cfg.WebSocket.URL,
			MinBackoff:   cfg.WebSocket.MinBackoffDuration(),
			MaxBackoff:   cfg.WebSocket.MaxBackoffDuration(),
			WriteTimeout: cfg.WebSocket.WriteTimeoutDuration(),
			QueueSize:    cfg.WebSocket.QueueSize,
			Logger:       logger.Named(ctx, "websocket"),
		}))
	}
	if cfg.NATS.Enabled {
		out = append(out, transport.NewNATSClient(transport.NATSOptions{
			URL:           cfg.NATS.URL,
			SubjectPrefix: cfg.NATS.SubjectPrefix,
			Name:          cfg.NATS.Name,
			Logger:        logger.Named(ctx, "nats"),
		}))
	}
	return out
}
