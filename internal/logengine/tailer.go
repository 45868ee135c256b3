package logengine

import (
	"context"
	"fmt"
	"io"
	"sync/atomic"

	"github.com/nxadm/tail"
	"go.uber.org/zap"
)

// Tailer follows one file from a fixed byte offset and streams its lines.
// Tailer 从固定字节偏移开始跟踪单个文件并输出其行。
type Tailer struct {
	path   string
	poll   bool
	log    *zap.SugaredLogger
	offset atomic.Int64
}

// NewTailer creates a new Tailer.
func NewTailer(path string, poll bool, log *zap.SugaredLogger) *Tailer {
	return &Tailer{path: path, poll: poll, log: log}
}

// Offset returns the last reported read position.
func (t *Tailer) Offset() int64 {
	return t.offset.Load()
}

// Run tails the file starting at offset and calls handle for each line until
// ctx is cancelled or the tail stops. It blocks.
// Run 从 offset 开始跟踪文件，对每一行调用 handle，直到 ctx 取消或跟踪停止。该方法会阻塞。
func (t *Tailer) Run(ctx context.Context, offset int64, handle func(line string)) error {
	config := tail.Config{
		Location:  &tail.SeekInfo{Offset: offset, Whence: io.SeekStart},
		Follow:    true,
		ReOpen:    false, // Rotation is not followed
		MustExist: true,
		Poll:      t.poll,
		Logger:    tail.DiscardingLogger,
	}

	tailer, err := tail.TailFile(t.path, config)
	if err != nil {
		return fmt.Errorf("failed to tail file %s: %w", t.path, err)
	}
	defer tailer.Cleanup()
	t.offset.Store(offset)

	for {
		select {
		case <-ctx.Done():
			_ = tailer.Stop()
			return nil
		case line, ok := <-tailer.Lines:
			if !ok {
				return tailer.Err()
			}
			if line.Err != nil {
				t.log.Warnf("Error reading %s: %v", t.path, line.Err)
				continue
			}
			handle(line.Text)

			if pos, err := tailer.Tell(); err == nil {
				t.offset.Store(pos)
			}
		}
	}
}
