package logengine

import (
	"sort"
	"sync"
)

// Store holds the players currently present, keyed by identifier.
// The engine is its only writer; the lock lets resync and the status API read concurrently.
// Store 保存当前在线的玩家。引擎是唯一的写入者；读锁允许重新同步和状态 API 并发读取。
type Store struct {
	mu      sync.RWMutex
	records map[string]Record
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{records: make(map[string]Record)}
}

// Apply mutates the store with one event. Connect inserts or refreshes,
// disconnect removes if present, every other kind is ignored.
// Apply 用一个事件修改存储：connect 插入或刷新，disconnect 删除（若存在），其他类型忽略。
func (s *Store) Apply(ev Event) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch ev.Kind {
	case EventConnect:
		s.records[ev.Identifier] = Record{Identifier: ev.Identifier, PresentSince: ev.Timestamp}
	case EventDisconnect:
		delete(s.records, ev.Identifier)
	}
}

// Snapshot returns a sorted copy of all records.
// Snapshot 返回所有记录的有序副本。
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	snap := make(Snapshot, 0, len(s.records))
	for _, r := range s.records {
		snap = append(snap, r)
	}
	s.mu.RUnlock()

	sort.Slice(snap, func(i, j int) bool { return snap[i].Identifier < snap[j].Identifier })
	return snap
}

// Size returns the number of present players.
func (s *Store) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Get returns the record for identifier, if present.
func (s *Store) Get(identifier string) (Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.records[identifier]
	return r, ok
}
