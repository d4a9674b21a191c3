package server

import (
	"net/http"

	"clawtown-server/internal/domain"
	"clawtown-server/internal/engine"
	"clawtown-server/pkg/api"
)

// DebugHandler - ручки для e2e-тестов. Регистрируются только при CT_TEST=1.
type DebugHandler struct {
	Service *engine.GameService
}

func NewDebugHandler(s *engine.GameService) *DebugHandler {
	return &DebugHandler{Service: s}
}

// RegisterRoutes регистрирует debug-эндпоинты
func (h *DebugHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/debug/reset", h.handleReset)
	mux.HandleFunc("POST /api/debug/persist-flush", h.handleFlush)

	mux.HandleFunc("POST /api/debug/teleport", h.command(domain.ActionDebugTeleport))
	mux.HandleFunc("POST /api/debug/spawn-monster", h.command(domain.ActionDebugSpawnMonster))
	mux.HandleFunc("POST /api/debug/grant-item", h.command(domain.ActionDebugGrantItem))
	mux.HandleFunc("POST /api/debug/set-job", h.command(domain.ActionDebugSetJob))
	mux.HandleFunc("POST /api/debug/kill-monster", h.command(domain.ActionDebugKillMonster))
}

// /api/debug/reset - мир, коды, токены и сохранения в исходное состояние
func (h *DebugHandler) handleReset(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.Reset(r.Context()); err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, api.OKResponse{OK: true})
}

// /api/debug/persist-flush - синхронно сохранить всех игроков
func (h *DebugHandler) handleFlush(w http.ResponseWriter, r *http.Request) {
	n, err := h.Service.Flush()
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, map[string]any{"ok": true, "saved": n})
}

func (h *DebugHandler) command(action domain.ActionType) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, err := readBody(w, r)
		if err != nil {
			writeError(w, err)
			return
		}
		body, err := h.Service.Debug(action, payload)
		if err != nil {
			writeError(w, err)
			return
		}
		writeOK(w, body)
	}
}
