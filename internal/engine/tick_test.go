package engine

import (
	"testing"
	"time"

	"clawtown-server/internal/domain"
)

func TestStep(t *testing.T) {
	clock := &lockedClock{t: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
	w := domain.NewWorld(domain.Options{Now: clock.Now, Seed: 1, EmptyRoster: true})

	p, err := w.EnsurePlayer("p1", "Alice")
	if err != nil {
		t.Fatal(err)
	}
	goal := p.Pos.Shift(12, 0)
	if err := w.SetGoal(p, goal.X, goal.Y); err != nil {
		t.Fatal(err)
	}
	m := w.SpawnMonster(domain.MonsterSpec{ID: "m1", Pos: domain.Point{X: 100, Y: 100}, MaxHP: 5, HP: 1})
	if _, ok := w.DamageMonster(p, m, 1); !ok {
		t.Fatal("monster did not take damage")
	}

	t.Run("snapshot belongs to the same tick", func(t *testing.T) {
		snap := Step(w)
		if snap.Tick != 1 || w.Tick != 1 {
			t.Fatalf("tick = %d (world %d), want 1", snap.Tick, w.Tick)
		}
		if snap.Players[0].X != int(goal.X)-6 {
			t.Errorf("player x = %d, want one step toward the goal", snap.Players[0].X)
		}
	})

	t.Run("arrival clears the goal", func(t *testing.T) {
		xp := p.XP
		snap := Step(w)
		if snap.Players[0].Goal != nil || p.Goal != nil {
			t.Errorf("goal still set after arrival: %+v", snap.Players[0].Goal)
		}
		if p.XP <= xp {
			t.Error("arrival must award xp")
		}
	})

	t.Run("dead monster returns after the delay", func(t *testing.T) {
		if snap := Step(w); snap.Monsters[0].Alive {
			t.Fatal("monster respawned too early")
		}
		clock.Advance(domain.RespawnDelay + time.Millisecond)
		snap := Step(w)
		if !snap.Monsters[0].Alive || snap.Monsters[0].HP != 5 {
			t.Errorf("monster after respawn = %+v", snap.Monsters[0])
		}
	})

	t.Run("drops expire", func(t *testing.T) {
		clock.Advance(domain.DropTTL + time.Second)
		if snap := Step(w); len(snap.Drops) != 0 {
			t.Errorf("drops = %d after TTL", len(snap.Drops))
		}
	})
}
