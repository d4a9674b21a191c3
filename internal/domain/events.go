package domain

import "time"

// Типы эффектов, кроме эффектов подписи (spark/blink/mark/echo/guard).
const (
	FxCrit   = "crit"
	FxFlurry = "flurry"
	FxArrow  = "arrow"
	FxCleave = "cleave"
)

// EffectEvent - визуальное событие (fx). Рассылается сразу, не дожидаясь тика.
type EffectEvent struct {
	ID         string
	CreatedAt  time.Time
	Type       string
	Pos        Point
	ByPlayerID string
	Payload    map[string]any
}

// fxRing - кольцо последних эффектов для hello.
type fxRing struct {
	items []EffectEvent
	limit int
}

func newFxRing(limit int) *fxRing {
	return &fxRing{items: make([]EffectEvent, 0, limit), limit: limit}
}

func (r *fxRing) push(fx EffectEvent) {
	r.items = append(r.items, fx)
	if over := len(r.items) - r.limit; over > 0 {
		r.items = append(r.items[:0], r.items[over:]...)
	}
}

// last возвращает копию последних n событий в порядке создания.
func (r *fxRing) last(n int) []EffectEvent {
	return tail(r.items, n)
}

// tail - копия последних n элементов.
func tail[T any](items []T, n int) []T {
	if n <= 0 || n > len(items) {
		n = len(items)
	}
	out := make([]T, n)
	copy(out, items[len(items)-n:])
	return out
}

// PushFx добавляет эффект в кольцо и отдает его подписчику OnEffect.
func (w *World) PushFx(typ string, pos Point, byPlayerID string, payload map[string]any) EffectEvent {
	if payload == nil {
		payload = map[string]any{}
	}
	now := w.Now()
	fx := EffectEvent{
		ID:         w.ids.ULID(now),
		CreatedAt:  now,
		Type:       typ,
		Pos:        pos,
		ByPlayerID: byPlayerID,
		Payload:    payload,
	}
	w.fx.push(fx)
	if w.OnEffect != nil {
		w.OnEffect(fx)
	}
	return fx
}

// RecentFx - последние n эффектов.
func (w *World) RecentFx(n int) []EffectEvent {
	return w.fx.last(n)
}
