package logengine

import (
	"regexp"
	"strings"
	"time"

	apperrors "github.com/livp123/vrcpresence/pkg/errors"
)

const (
	JoinMarker  = "OnPlayerJoined"
	LeaveMarker = "OnPlayerLeft"

	// TimestampLayout is the leading datetime field of a client log line (YYYY.MM.DD HH:mm:ss).
	// TimestampLayout 是客户端日志行开头的时间字段格式。
	TimestampLayout = "2006.01.02 15:04:05"
)

// linePattern captures the datetime, the marker and the identifier.
var linePattern = regexp.MustCompile(`^\s*(\S+ \S+)\s+Log\b.*\[Behaviour\] (OnPlayerJoined|OnPlayerLeft)(?:\s+(.*))?$`)

// Parser turns raw log lines into events. It holds no mutable state.
// Parser 将原始日志行转换为事件，不持有可变状态。
type Parser struct {
	loc *time.Location
}

// NewParser creates a parser that reads timestamps in loc (time.Local when nil).
// NewParser 创建在 loc 时区解析时间戳的解析器（nil 时为本地时区）。
func NewParser(loc *time.Location) *Parser {
	if loc == nil {
		loc = time.Local
	}
	return &Parser{loc: loc}
}

// ParseLine returns nil, nil for lines that carry no join or leave marker,
// ErrMalformedLine when a marker is present but the line has the wrong shape,
// and ErrInvalidTimestamp when the datetime field does not parse.
// ParseLine 对不含标记的行返回 nil, nil；标记存在但格式错误时返回 ErrMalformedLine；
// 时间字段无法解析时返回 ErrInvalidTimestamp。
func (p *Parser) ParseLine(line string) (*Event, error) {
	if !strings.Contains(line, JoinMarker) && !strings.Contains(line, LeaveMarker) {
		return nil, nil
	}

	line = strings.TrimRight(line, "\r\n")
	m := linePattern.FindStringSubmatch(line)
	if m == nil {
		return nil, apperrors.NewMalformedLineError(line)
	}

	identifier := strings.TrimSpace(m[3])
	if identifier == "" {
		return nil, apperrors.NewMalformedLineError(line)
	}

	ts, err := time.ParseInLocation(TimestampLayout, m[1], p.loc)
	if err != nil {
		return nil, apperrors.NewTimestampError(m[1], err)
	}

	kind := EventConnect
	if m[2] == LeaveMarker {
		kind = EventDisconnect
	}
	return &Event{Kind: kind, Identifier: identifier, Timestamp: ts}, nil
}

// Parse is ParseLine with every failure folded into "no event".
// Parse 是将所有失败都视为“无事件”的 ParseLine。
func (p *Parser) Parse(line string) (Event, bool) {
	ev, err := p.ParseLine(line)
	if err != nil || ev == nil {
		return Event{}, false
	}
	return *ev, true
}
