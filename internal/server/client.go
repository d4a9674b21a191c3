package server

import (
	"net/http"
	"strings"
	"time"

	"clawtown-server/internal/domain"
	"clawtown-server/internal/engine"
	"clawtown-server/internal/network"
	"clawtown-server/pkg/logger"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
)

// Настройки WebSocket
const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Client - посредник между сокетом и GameService. Пишет из личного канала
// подписчика в хабе, читает фреймы и отправляет их актору без ожидания.
type Client struct {
	Game *engine.GameService
	Conn *websocket.Conn
	Sub  *network.Subscriber

	log *logrus.Entry
}

func NewClient(game *engine.GameService, conn *websocket.Conn, sub *network.Subscriber) *Client {
	return &Client{
		Game: game,
		Conn: conn,
		Sub:  sub,
		log:  logger.Component("ws").WithField("player_id", sub.PlayerID),
	}
}

// handleWS: /ws?playerId=&name=. Игрок создается до апгрейда,
// поэтому ошибки валидации уходят обычным HTTP-ответом.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	playerID := strings.TrimSpace(q.Get("playerId"))
	if playerID == "" {
		writeError(w, domain.Invalid("missing playerId"))
		return
	}

	sub, err := s.Engine.Connect(playerID, q.Get("name"))
	if err != nil {
		writeError(w, err)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.Engine.Disconnect(sub)
		s.log.WithError(err).Warn("Upgrade error.")
		return
	}

	client := NewClient(s.Engine, conn, sub)
	client.log.Info("Client connected.")

	// Запускаем пампы
	go client.writePump()
	go client.readPump()
}

// readPump читает фреймы клиента до ошибки или закрытия.
func (c *Client) readPump() {
	defer func() {
		// Канал подписчика закрывается, writePump завершится сам
		c.Game.Disconnect(c.Sub)
		if err := c.Conn.Close(); err != nil {
			c.log.WithError(err).Debug("failed to close websocket connection")
		}
		c.log.Info("Client disconnected.")
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	if err := c.Conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		c.log.WithError(err).Warn("failed to set read deadline")
	}
	c.Conn.SetPongHandler(func(string) error {
		return c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.log.WithError(err).Warn("WS read error.")
			}
			return
		}
		c.handleFrame(data)
	}
}

// handleFrame смотрит только поле type, весь фрейм уходит хендлеру как payload.
// Битые и неизвестные фреймы отбрасываются.
func (c *Client) handleFrame(data []byte) {
	if !gjson.ValidBytes(data) {
		c.log.Debug("Dropped malformed frame.")
		return
	}
	typ := gjson.GetBytes(data, "type").String()
	action := domain.ParseAction(typ)
	if action == domain.ActionUnknown {
		c.log.WithField("type", typ).Debug("Dropped unknown frame.")
		return
	}
	c.Game.Submit(c.Sub.PlayerID, action, data)
}

// writePump отправляет данные клиенту + Ping
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		if err := c.Conn.Close(); err != nil {
			c.log.WithError(err).Debug("failed to close websocket connection in writePump")
		}
	}()

	for {
		select {
		case message, ok := <-c.Sub.Send:
			if err := c.Conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				c.log.WithError(err).Warn("failed to set write deadline")
			}
			if !ok {
				if err := c.Conn.WriteMessage(websocket.CloseMessage, []byte{}); err != nil {
					c.log.WithError(err).Debug("write close message failed")
				}
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				c.log.WithError(err).Debug("write message failed")
				// Отписка освобождает хаб, readPump выйдет на закрытом соединении
				c.Game.Disconnect(c.Sub)
				return
			}

		case <-ticker.C:
			if err := c.Conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				c.log.WithError(err).Warn("failed to set ping write deadline")
			}
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.log.WithError(err).Debug("ping failed")
				c.Game.Disconnect(c.Sub)
				return
			}
		}
	}
}
