package logengine

import (
	"bufio"
	"context"
	"errors"
	"io"
)

// ReplayResult describes one replay pass.
// ReplayResult 描述一次回放。
type ReplayResult struct {
	// Offset is the byte offset just past the last complete line.
	// Offset 是最后一个完整行之后的字节偏移。
	Offset int64
	Lines  int
}

// Replay feeds every complete line of r to handle, in order. A trailing
// line without a newline is left unread so the tail phase picks it up
// once it is complete.
// Replay 按顺序将 r 的每个完整行交给 handle。没有换行符的末尾行不会被读取，
// 由实时跟踪阶段在其写完后处理。
func Replay(ctx context.Context, r io.Reader, handle func(line string)) (ReplayResult, error) {
	var res ReplayResult
	reader := bufio.NewReaderSize(r, 64*1024)

	for {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		line, err := reader.ReadString('\n')
		if err != nil {
			if errors.Is(err, io.EOF) {
				return res, nil
			}
			return res, err
		}

		res.Offset += int64(len(line))
		res.Lines++
		handle(line[:len(line)-1])
	}
}
