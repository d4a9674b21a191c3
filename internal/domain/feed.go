package domain

import (
	"strings"
	"time"
)

// ChatKind - обычное сообщение или системное.
type ChatKind string

const (
	ChatKindChat   ChatKind = "chat"
	ChatKindSystem ChatKind = "system"
)

// ChatMessage - запись чата. ToPlayerID не пустой у личных сообщений.
type ChatMessage struct {
	ID         string
	CreatedAt  time.Time
	Kind       ChatKind
	From       Author
	Text       string
	ToPlayerID string
}

// BoardPost - запись на доске объявлений.
type BoardPost struct {
	ID        string
	CreatedAt time.Time
	Author    Author
	Content   string
}

// Feed - журналы чата и доски. Только дописываются, старые записи вытесняются по лимиту.
type Feed struct {
	chats []ChatMessage
	board []BoardPost
}

func (f *Feed) appendChat(msg ChatMessage) {
	f.chats = append(f.chats, msg)
	if over := len(f.chats) - ChatLogCap; over > 0 {
		f.chats = append(f.chats[:0], f.chats[over:]...)
	}
}

func (f *Feed) appendPost(post BoardPost) {
	f.board = append(f.board, post)
	if over := len(f.board) - BoardCap; over > 0 {
		f.board = append(f.board[:0], f.board[over:]...)
	}
}

// Chats - последние n сообщений (0 - все).
func (f *Feed) Chats(n int) []ChatMessage { return tail(f.chats, n) }

// Board - последние n записей доски (0 - все).
func (f *Feed) Board(n int) []BoardPost { return tail(f.board, n) }

func (f *Feed) reset() {
	f.chats = nil
	f.board = nil
}

// --- Запись в ленту ---

// pushChat обрезает текст и пишет сообщение. Пустой текст игнорируется.
func (w *World) pushChat(kind ChatKind, from Author, text, toPlayerID string) (ChatMessage, bool) {
	text = SafeText(text, MaxChatLen)
	if text == "" {
		return ChatMessage{}, false
	}
	now := w.Now()
	msg := ChatMessage{
		ID:         w.ids.ULID(now),
		CreatedAt:  now,
		Kind:       kind,
		From:       from,
		Text:       text,
		ToPlayerID: toPlayerID,
	}
	w.Feed.appendChat(msg)
	return msg, true
}

// SystemChat - сообщение от города всем.
func (w *World) SystemChat(text string) {
	w.pushChat(ChatKindSystem, System, text, "")
}

// SystemChatTo - системное сообщение одному игроку.
func (w *World) SystemChatTo(playerID, text string) {
	w.pushChat(ChatKindSystem, System, text, playerID)
}

// Say - реплика игрока без ограничений частоты (автопилот, эмоции).
func (w *World) Say(p *Player, text string) bool {
	_, ok := w.pushChat(ChatKindChat, Author{ID: p.ID, Name: p.Name}, text, "")
	return ok
}

// Chat - сообщение игрока: не чаще раза в ChatMinInterval, +1 опыта.
func (w *World) Chat(p *Player, text string) (ChatMessage, error) {
	if SafeText(text, MaxChatLen) == "" {
		return ChatMessage{}, Invalid("text required")
	}
	if err := Throttle(&p.LastChatAt, ChatMinInterval, w.Now(), "chat"); err != nil {
		return ChatMessage{}, err
	}
	msg, _ := w.pushChat(ChatKindChat, Author{ID: p.ID, Name: p.Name}, text, "")
	w.GrantXP(p, ChatXP)
	return msg, nil
}

// PostBoard - запись на доске.
func (w *World) PostBoard(p *Player, content string) (BoardPost, error) {
	content = SafeText(content, MaxChatLen)
	if content == "" {
		return BoardPost{}, Invalid("content required")
	}
	now := w.Now()
	post := BoardPost{
		ID:        w.ids.ULID(now),
		CreatedAt: now,
		Author:    Author{ID: p.ID, Name: p.Name},
		Content:   content,
	}
	w.Feed.appendPost(post)
	return post, nil
}

// --- Фильтр прерываний ---

// ChatsFor - сообщения, которые видит бот игрока p, с учетом уровня прерываний.
// Личные сообщения другим игрокам скрыты всегда.
func (w *World) ChatsFor(p *Player, n int) []ChatMessage {
	nearby := float64(NearbyTiles * TileSize)
	name := strings.ToLower(p.Name)

	out := make([]ChatMessage, 0, len(w.Feed.chats))
	for _, c := range w.Feed.chats {
		if c.ToPlayerID != "" && c.ToPlayerID != p.ID {
			continue
		}
		if w.interruptAllows(p, c, name, nearby) {
			out = append(out, c)
		}
	}
	return tail(out, n)
}

func (w *World) interruptAllows(p *Player, c ChatMessage, lowerName string, nearby float64) bool {
	switch p.Interrupt {
	case InterruptOff:
		return c.Kind == ChatKindSystem
	case InterruptMentions:
		return c.Kind == ChatKindSystem || strings.Contains(strings.ToLower(c.Text), lowerName)
	case InterruptNearby:
		from, ok := w.players[c.From.ID]
		if !ok {
			return c.Kind == ChatKindSystem
		}
		return from.Pos.Within(p.Pos, nearby)
	default:
		return true
	}
}
