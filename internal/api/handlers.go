package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// handleHealth reports liveness.
// handleHealth 报告存活状态。
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"state":  s.presence.Status().State,
	})
}

// handleStatus returns engine diagnostics.
// handleStatus 返回引擎诊断信息。
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.presence.Status())
}

// handleUsers returns the current snapshot.
// handleUsers 返回当前快照。
func (s *Server) handleUsers(w http.ResponseWriter, r *http.Request) {
	users := s.presence.Snapshot()
	writeJSON(w, http.StatusOK, map[string]any{
		"users": users,
		"total": len(users),
	})
}

// handleUser returns one present player.
// handleUser 返回单个在线玩家。
func (s *Server) handleUser(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "identifier")
	record, ok := s.presence.Lookup(id)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]any{"error": "user not present"})
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
