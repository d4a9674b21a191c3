package engine

import (
	"encoding/json"

	"clawtown-server/internal/domain"
	"clawtown-server/internal/engine/handlers"
)

// Сообщения актора мира. Все, что меняет или читает World, приходит сюда.

type tickMsg struct{}

type sweepMsg struct{}

// persistMsg собирает прогресс для сохранения. All - всех игроков, а не только измененных.
type persistMsg struct {
	All bool
}

type resetMsg struct{}

type commandMsg struct {
	PlayerID string
	Action   domain.ActionType
	Payload  json.RawMessage
	Source   handlers.Source
}

// Saved - прогресс, загруженный вне актора; nil, если записи нет.
type ensurePlayerMsg struct {
	PlayerID string
	Name     string
	Saved    *domain.Progress
}

// connectMsg - новый сокет: игрок создается, подписка регистрируется, hello уходит первым.
type connectMsg struct {
	PlayerID string
	Name     string
	Saved    *domain.Progress
}

type hasPlayerMsg struct {
	PlayerID string
}

type linkBotMsg struct {
	PlayerID string
}

// BotView - что бот хочет прочитать.
type BotView uint8

const (
	BotViewMe BotView = iota
	BotViewStatus
	BotViewWorld
)

type botQueryMsg struct {
	PlayerID string
	View     BotView
}

// reply - универсальный ответ актора на RequestFuture.
type reply struct {
	Value any
	Err   error
}
