package network

import (
	"encoding/json"
	"sync/atomic"

	"clawtown-server/pkg/api"
	"clawtown-server/pkg/logger"

	"github.com/sasha-s/go-deadlock"
	"github.com/sirupsen/logrus"
)

// DefaultBuffer - размер личного канала подписчика во фреймах.
const DefaultBuffer = 64

// Subscriber - один живой сокет. У игрока их может быть несколько.
type Subscriber struct {
	PlayerID string
	Send     chan []byte
}

// Hub занимается только рассылкой готовых фреймов подписчикам.
// Отправка неблокирующая: если буфер полон, фрейм для этого подписчика теряется.
type Hub struct {
	mu       deadlock.RWMutex
	buffer   int
	byPlayer map[string]map[*Subscriber]struct{}

	dropped atomic.Uint64
	log     *logrus.Entry
}

func NewHub(buffer int) *Hub {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	return &Hub{
		buffer:   buffer,
		byPlayer: make(map[string]map[*Subscriber]struct{}),
		log:      logger.Log.WithField("component", "broadcast_hub"),
	}
}

// Register создает личный канал для нового сокета игрока.
func (h *Hub) Register(playerID string) *Subscriber {
	sub := &Subscriber{PlayerID: playerID, Send: make(chan []byte, h.buffer)}

	h.mu.Lock()
	defer h.mu.Unlock()

	set, ok := h.byPlayer[playerID]
	if !ok {
		set = make(map[*Subscriber]struct{})
		h.byPlayer[playerID] = set
	}
	set[sub] = struct{}{}
	return sub
}

// Unregister удаляет подписчика и закрывает его канал. Повторный вызов безопасен.
func (h *Hub) Unregister(sub *Subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()

	set, ok := h.byPlayer[sub.PlayerID]
	if !ok {
		return
	}
	if _, ok := set[sub]; !ok {
		return
	}
	delete(set, sub)
	close(sub.Send)
	if len(set) == 0 {
		delete(h.byPlayer, sub.PlayerID)
	}
}

// PushState сериализует снимок один раз и раздает всем.
func (h *Hub) PushState(snap api.Snapshot) {
	h.Broadcast(api.ServerFrame{Type: api.FrameState, State: &snap})
}

// PushEffect рассылает эффект сразу, не дожидаясь тика.
func (h *Hub) PushEffect(fx api.FxView) {
	h.Broadcast(api.ServerFrame{Type: api.FrameFx, Fx: &fx})
}

// Broadcast отправляет фрейм всем сокетам. Возвращает число доставленных.
func (h *Hub) Broadcast(frame api.ServerFrame) int {
	data, err := json.Marshal(frame)
	if err != nil {
		h.log.WithError(err).WithField("type", frame.Type).Error("Failed to marshal frame.")
		return 0
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	sent := 0
	for _, set := range h.byPlayer {
		for sub := range set {
			if h.offer(sub, data) {
				sent++
			}
		}
	}
	return sent
}

// SendTo отправляет фрейм во все сокеты одного игрока (Unicast).
func (h *Hub) SendTo(playerID string, frame api.ServerFrame) int {
	data, err := json.Marshal(frame)
	if err != nil {
		h.log.WithError(err).WithField("type", frame.Type).Error("Failed to marshal frame.")
		return 0
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	sent := 0
	for sub := range h.byPlayer[playerID] {
		if h.offer(sub, data) {
			sent++
		}
	}
	return sent
}

// Deliver кладет готовый фрейм одному подписчику (hello).
func (h *Hub) Deliver(sub *Subscriber, frame api.ServerFrame) bool {
	data, err := json.Marshal(frame)
	if err != nil {
		h.log.WithError(err).WithField("type", frame.Type).Error("Failed to marshal frame.")
		return false
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	if _, ok := h.byPlayer[sub.PlayerID][sub]; !ok {
		return false
	}
	return h.offer(sub, data)
}

// offer вызывается под RLock: Unregister закрывает канал только под Lock.
func (h *Hub) offer(sub *Subscriber, data []byte) bool {
	select {
	case sub.Send <- data:
		return true
	default:
		if n := h.dropped.Add(1); n%100 == 1 {
			h.log.WithFields(logrus.Fields{
				"player_id": sub.PlayerID,
				"dropped":   n,
			}).Warn("Subscriber buffer full, dropping frames.")
		}
		return false
	}
}

// HasSubscriber - есть ли у игрока открытый сокет.
func (h *Hub) HasSubscriber(playerID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.byPlayer[playerID]) > 0
}

// SubscriberCount возвращает количество активных сокетов.
func (h *Hub) SubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	n := 0
	for _, set := range h.byPlayer {
		n += len(set)
	}
	return n
}

// Dropped - сколько фреймов потеряно из-за полных буферов.
func (h *Hub) Dropped() uint64 { return h.dropped.Load() }
