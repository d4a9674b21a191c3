package handlers

import (
	"encoding/json"

	"clawtown-server/internal/domain"
	"clawtown-server/pkg/api"
)

// Source - откуда пришла команда.
type Source string

const (
	SourceSocket Source = "ws"
	SourceBot    Source = "bot"
	SourceDebug  Source = "debug"
)

// Context передает хендлеру мир и игрока, от имени которого пришла команда.
// Хендлер вызывается только внутри актора мира и может мутировать World.
type Context struct {
	World  *domain.World
	Actor  *domain.Player // nil у debug-команд без игрока
	Source Source

	// Reply отправляет личный фрейм в сокеты игрока (party_code, party_error).
	Reply func(frame api.ServerFrame)
}

// Result - данные ответа. Хендлер не пишет ответ сам, он возвращает его.
type Result struct {
	Data any // тело ответа HTTP, для сокета игнорируется

	// WithPlayer - ответить карточкой игрока ({ok, player}).
	WithPlayer bool
}

// HandlerFunc - контракт для любой команды (move, cast, chat...).
type HandlerFunc func(ctx Context, payload json.RawMessage) (Result, error)

// EmptyResult - пустой успешный ответ.
func EmptyResult() Result {
	return Result{}
}

// CastSource - метка источника в payload эффектов.
func (ctx Context) CastSource() string {
	switch ctx.Source {
	case SourceBot:
		return "bot"
	case SourceDebug:
		return "debug"
	}
	return "manual"
}

// ReplyTo безопасно зовет ctx.Reply.
func (ctx Context) ReplyTo(frame api.ServerFrame) {
	if ctx.Reply != nil {
		ctx.Reply(frame)
	}
}
