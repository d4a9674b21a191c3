package domain

import (
	"container/heap"
	"time"
)

// RespawnItem - запись очереди респауна.
type RespawnItem struct {
	Monster *Monster  // Сам монстр
	At      time.Time // Когда вернуть. Чем раньше, тем ближе к вершине.
	Index   int       // Индекс в куче (нужен для Update)
}

// RespawnQueue реализует heap.Interface и хранит RespawnItem
type RespawnQueue []*RespawnItem

func (q RespawnQueue) Len() int { return len(q) }

func (q RespawnQueue) Less(i, j int) bool {
	// MinHeap по времени респауна
	return q[i].At.Before(q[j].At)
}

func (q RespawnQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].Index = i
	q[j].Index = j
}

func (q *RespawnQueue) Push(x interface{}) {
	item := x.(*RespawnItem)
	item.Index = len(*q)
	*q = append(*q, item)
}

func (q *RespawnQueue) Pop() interface{} {
	old := *q
	n := len(old)
	item := old[n-1]
	old[n-1] = nil  // избегаем утечки памяти
	item.Index = -1 // для безопасности
	*q = old[0 : n-1]
	return item
}

// Update меняет время респауна элемента
func (q *RespawnQueue) Update(item *RespawnItem, at time.Time) {
	item.At = at
	heap.Fix(q, item.Index)
}

// PopDue снимает с вершины все элементы, чье время наступило.
func (q *RespawnQueue) PopDue(now time.Time) []*RespawnItem {
	var due []*RespawnItem
	for q.Len() > 0 && !(*q)[0].At.After(now) {
		due = append(due, heap.Pop(q).(*RespawnItem))
	}
	return due
}

// schedule ставит монстра в очередь или переносит уже стоящего.
func (w *World) scheduleRespawn(m *Monster, at time.Time) {
	if item, ok := w.respawnIndex[m.ID]; ok && item.Index >= 0 {
		w.respawns.Update(item, at)
		return
	}
	item := &RespawnItem{Monster: m, At: at}
	heap.Push(&w.respawns, item)
	w.respawnIndex[m.ID] = item
}
