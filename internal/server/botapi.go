package server

import (
	"errors"
	"net/http"
	"strings"

	"clawtown-server/internal/domain"
	"clawtown-server/internal/engine"
	"clawtown-server/internal/engine/handlers"
	"clawtown-server/internal/gateway"
	"clawtown-server/pkg/api"

	"github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
)

// handleJoinCode выдает одноразовый код привязки бота к существующему игроку.
func (s *Server) handleJoinCode(w http.ResponseWriter, r *http.Request) {
	req, err := decodeBody[api.JoinCodeRequest](w, r)
	if err != nil {
		writeError(w, err)
		return
	}
	if !s.Engine.HasPlayer(req.PlayerID) {
		writeError(w, domain.NewError(domain.ErrNotFound, "unknown playerId"))
		return
	}

	jc := s.Engine.Gateway.IssueJoinCode(req.PlayerID)
	base := s.Config.BaseURL()
	writeOK(w, api.JoinCodeResponse{
		OK:        true,
		JoinCode:  jc.Code,
		JoinToken: gateway.JoinToken(base, jc.Code),
		ExpiresAt: jc.ExpiresAt.UnixMilli(),
		BaseURL:   base,
	})
}

// handleLink меняет код (или joinToken целиком) на токен бота.
func (s *Server) handleLink(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r)
	if err != nil {
		writeError(w, err)
		return
	}
	if !gjson.ValidBytes(body) {
		writeError(w, domain.Invalid("invalid json"))
		return
	}

	var code string
	for _, res := range gjson.GetManyBytes(body, "joinToken", "joinCode", "code") {
		if v := strings.TrimSpace(res.String()); v != "" {
			code = v
			break
		}
	}
	if code == "" {
		writeError(w, domain.Invalid("joinCode or joinToken is required"))
		return
	}

	// Код гасится только после привязки в мире: при ошибке его можно повторить.
	jc, err := s.Engine.Gateway.Peek(code)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := s.Engine.LinkBot(jc.PlayerID); err != nil {
		writeError(w, err)
		return
	}
	link, err := s.Engine.Gateway.Exchange(code)
	if err != nil {
		writeError(w, err)
		return
	}

	s.log.WithField("player_id", link.PlayerID).Info("Bot linked.")
	writeOK(w, api.LinkResponse{
		OK:         true,
		BotToken:   link.Token,
		PlayerID:   link.PlayerID,
		APIBaseURL: s.Config.BaseURL() + "/api",
		WsURL:      s.Config.WsURL(),
	})
}

// BotHandler - маршруты /api/bot/* под Bearer-токеном.
type BotHandler struct {
	server *Server
	engine *engine.GameService
}

func NewBotHandler(s *Server) *BotHandler {
	return &BotHandler{server: s, engine: s.Engine}
}

type botHandlerFunc func(w http.ResponseWriter, r *http.Request, playerID string)

func (h *BotHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/bot/me", h.auth(h.query(engine.BotViewMe)))
	mux.HandleFunc("GET /api/bot/status", h.auth(h.query(engine.BotViewStatus)))
	mux.HandleFunc("GET /api/bot/world", h.auth(h.query(engine.BotViewWorld)))

	mux.HandleFunc("POST /api/bot/mode", h.auth(h.command(domain.ActionSetMode, gateway.KindMode)))
	mux.HandleFunc("POST /api/bot/goal", h.auth(h.command(domain.ActionSetGoal, gateway.KindGoal)))
	mux.HandleFunc("POST /api/bot/cast", h.auth(h.command(domain.ActionCast, gateway.KindCast)))
	mux.HandleFunc("POST /api/bot/intent", h.auth(h.command(domain.ActionSetIntent, gateway.KindIntent)))
	mux.HandleFunc("POST /api/bot/chat", h.auth(h.command(domain.ActionChat, gateway.KindChat)))
	mux.HandleFunc("POST /api/bot/interrupt", h.auth(h.command(domain.ActionSetInterrupt, gateway.KindInterrupt)))

	mux.HandleFunc("POST /api/bot/party/create", h.auth(h.command(domain.ActionPartyCreate, gateway.KindParty)))
	mux.HandleFunc("POST /api/bot/party/code", h.auth(h.command(domain.ActionPartyCode, gateway.KindParty)))
	mux.HandleFunc("POST /api/bot/party/join", h.auth(h.command(domain.ActionPartyJoin, gateway.KindParty)))
	mux.HandleFunc("POST /api/bot/party/leave", h.auth(h.command(domain.ActionPartyLeave, gateway.KindParty)))
	mux.HandleFunc("POST /api/bot/party/summon", h.auth(h.command(domain.ActionPartySummon, gateway.KindParty)))
}

// auth проверяет "Authorization: Bearer <token>".
func (h *BotHandler) auth(next botHandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok {
			writeError(w, gateway.ErrUnauthorized)
			return
		}
		playerID, err := h.engine.Gateway.Authorize(token)
		if err != nil {
			writeError(w, err)
			return
		}
		next(w, r, playerID)
	}
}

func (h *BotHandler) query(view engine.BotView) botHandlerFunc {
	return func(w http.ResponseWriter, r *http.Request, playerID string) {
		body, err := h.engine.BotQuery(playerID, view)
		if err != nil {
			writeError(w, err)
			return
		}
		writeOK(w, body)
	}
}

// command - действие бота: сначала окно частоты шлюза, потом актор мира.
// Отклоненная миром команда окно не тратит. По таймауту актора окно остается:
// команда могла выполниться.
func (h *BotHandler) command(action domain.ActionType, kind gateway.ActionKind) botHandlerFunc {
	return func(w http.ResponseWriter, r *http.Request, playerID string) {
		payload, err := readBody(w, r)
		if err != nil {
			writeError(w, err)
			return
		}
		release, err := h.engine.Gateway.Allow(playerID, kind)
		if err != nil {
			writeError(w, err)
			return
		}

		body, err := h.engine.Command(playerID, action, payload, handlers.SourceBot)
		if err != nil {
			if !errors.Is(err, engine.ErrUnavailable) {
				release()
			}
			h.server.log.WithFields(logrus.Fields{
				"player_id": playerID,
				"action":    action.String(),
			}).WithError(err).Debug("Bot command rejected.")
			writeError(w, err)
			return
		}
		writeOK(w, body)
	}
}
