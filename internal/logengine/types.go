package logengine

import "time"

// EventKind is the kind of a presence event.
// EventKind 是在线状态事件的类型。
type EventKind string

const (
	EventConnect    EventKind = "connect"
	EventDisconnect EventKind = "disconnect"
	// EventAvatarChange is part of the wire vocabulary but no parser rule produces it.
	// EventAvatarChange 属于传输词汇，但没有解析规则会产生它。
	EventAvatarChange EventKind = "avatar_change"
)

// Event is a typed join or leave parsed from one log line.
// Event 是从一行日志解析出的加入或离开事件。
type Event struct {
	Kind       EventKind `json:"kind"`
	Identifier string    `json:"identifier"`
	Timestamp  time.Time `json:"timestamp"`
}

// Record is one present player.
// Record 表示一个在线玩家。
type Record struct {
	Identifier   string    `json:"identifier"`
	PresentSince time.Time `json:"presentSince"`
}

// Snapshot is an independent copy of the membership at one instant, sorted by identifier.
// Snapshot 是某一时刻成员集合的独立副本，按标识符排序。
type Snapshot []Record

// Identifiers returns the identifiers in snapshot order.
func (s Snapshot) Identifiers() []string {
	ids := make([]string, len(s))
	for i, r := range s {
		ids[i] = r.Identifier
	}
	return ids
}

// State is the engine lifecycle phase.
// State 是引擎的生命周期阶段。
type State int32

const (
	StateUninitialized State = iota
	StateReplaying
	StateTailing
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateReplaying:
		return "replaying"
	case StateTailing:
		return "tailing"
	default:
		return "unknown"
	}
}

// Status is a point-in-time view of the engine for diagnostics.
// Status 是用于诊断的引擎状态视图。
type Status struct {
	State         string `json:"state"`
	Source        string `json:"source"`
	ReplayedLines int    `json:"replayedLines"`
	Offset        int64  `json:"offset"`
	Users         int    `json:"users"`
}
