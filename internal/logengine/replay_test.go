package logengine

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestReplay_CompleteLines tests line order and the end offset
// TestReplay_CompleteLines 测试行顺序与结束偏移
func TestReplay_CompleteLines(t *testing.T) {
	content := "first\nsecond\n\nfourth\n"
	var got []string

	res, err := Replay(context.Background(), strings.NewReader(content), func(line string) {
		got = append(got, line)
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second", "", "fourth"}, got)
	assert.Equal(t, 4, res.Lines)
	assert.Equal(t, int64(len(content)), res.Offset)
}

// TestReplay_PartialLastLine tests that an unterminated final line is left for tailing
// TestReplay_PartialLastLine 测试未结束的末尾行留给实时跟踪
func TestReplay_PartialLastLine(t *testing.T) {
	content := "first\nhalf-writt"
	var got []string

	res, err := Replay(context.Background(), strings.NewReader(content), func(line string) {
		got = append(got, line)
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"first"}, got)
	assert.Equal(t, int64(len("first\n")), res.Offset)
}

// TestReplay_Empty tests an empty file
// TestReplay_Empty 测试空文件
func TestReplay_Empty(t *testing.T) {
	res, err := Replay(context.Background(), strings.NewReader(""), func(string) {
		t.Fatal("unexpected line")
	})
	require.NoError(t, err)
	assert.Equal(t, ReplayResult{}, res)
}

// TestReplay_Cancelled tests that a cancelled context stops replay
// TestReplay_Cancelled 测试取消的上下文会停止回放
func TestReplay_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Replay(ctx, strings.NewReader("a\nb\n"), func(string) {})
	assert.ErrorIs(t, err, context.Canceled)
}
