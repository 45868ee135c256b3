package config

import (
	"fmt"
	"net/url"
	"time"

	apperrors "github.com/livp123/vrcpresence/pkg/errors"
)

// Validate checks every section of the configuration.
// Validate 检查配置的每个部分。
func (c *Config) Validate() error {
	if err := c.Watcher.Validate(); err != nil {
		return fmt.Errorf("watcher config error: %w", err)
	}
	if err := c.WebSocket.Validate(); err != nil {
		return fmt.Errorf("websocket config error: %w", err)
	}
	if err := c.NATS.Validate(); err != nil {
		return fmt.Errorf("nats config error: %w", err)
	}
	if err := c.Web.Validate(); err != nil {
		return fmt.Errorf("web config error: %w", err)
	}
	return nil
}

func (w *WatcherConfig) Validate() error {
	if w.LogFile == "" && w.LogDir == "" {
		return apperrors.NewConfigError("log_dir", w.LogDir)
	}
	if _, err := w.Location(); err != nil {
		return apperrors.NewConfigError("timezone", w.Timezone)
	}
	if err := validateDuration("ready_timeout", w.ReadyTimeout); err != nil {
		return err
	}
	return nil
}

func (w *WebSocketConfig) Validate() error {
	if !w.Enabled {
		return nil
	}
	u, err := url.Parse(w.URL)
	if err != nil || (u.Scheme != "ws" && u.Scheme != "wss") || u.Host == "" {
		return apperrors.NewConfigError("url", w.URL)
	}
	if w.QueueSize <= 0 {
		return apperrors.NewConfigError("queue_size", w.QueueSize)
	}
	for field, value := range map[string]string{
		"min_backoff":   w.MinBackoff,
		"max_backoff":   w.MaxBackoff,
		"write_timeout": w.WriteTimeout,
	} {
		if err := validateDuration(field, value); err != nil {
			return err
		}
	}
	if w.MinBackoffDuration() > w.MaxBackoffDuration() {
		return apperrors.NewConfigError("min_backoff", w.MinBackoff)
	}
	return nil
}

func (n *NATSConfig) Validate() error {
	if !n.Enabled {
		return nil
	}
	if n.URL == "" {
		return apperrors.NewConfigError("url", n.URL)
	}
	if n.SubjectPrefix == "" {
		return apperrors.NewConfigError("subject_prefix", n.SubjectPrefix)
	}
	return nil
}

func (w *WebConfig) Validate() error {
	if !w.Enabled {
		return nil
	}
	if w.Port <= 0 || w.Port > 65535 {
		return apperrors.NewConfigError("port", w.Port)
	}
	return nil
}

func validateDuration(field, value string) error {
	if value == "" {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil || d < 0 {
		return apperrors.NewConfigError(field, value)
	}
	return nil
}
