package systems

import (
	"strings"
	"testing"
	"time"

	"clawtown-server/internal/domain"
)

func linkedAgent(t *testing.T, w *domain.World) *domain.Player {
	t.Helper()
	p := addPlayer(t, w, "bot")
	p.LinkedBot = true
	w.SetMode(p, domain.ModeAgent)
	return p
}

func TestCanAutopilot(t *testing.T) {
	w, clock := createTestWorld(t)
	p := linkedAgent(t, w)

	if !CanAutopilot(w, p) {
		t.Error("never-seen bot must allow autopilot")
	}
	w.TouchBot(p, false)
	if CanAutopilot(w, p) {
		t.Error("recently seen bot must block autopilot")
	}
	clock.Advance(domain.AutopilotIdleAfter + time.Millisecond)
	if !CanAutopilot(w, p) {
		t.Error("silent bot must allow autopilot")
	}
	w.SetMode(p, domain.ModeManual)
	if CanAutopilot(w, p) {
		t.Error("manual mode must block autopilot")
	}
}

func TestAutopilot_HitsNearbyMonster(t *testing.T) {
	w, _ := createTestWorld(t)
	p := linkedAgent(t, w)
	m := addMonster(w, "m1", p.Pos.Shift(100, 0), 10)

	Autopilot(w, p)

	if m.HP != 10-p.Damage() {
		t.Errorf("hp = %d", m.HP)
	}
	if p.Autopilot.State != "hit:m1" {
		t.Errorf("state = %q", p.Autopilot.State)
	}
	last := w.Feed.Chats(1)[0]
	if !strings.HasPrefix(last.Text, "[BOT] Attacking") || last.From.ID != p.ID {
		t.Errorf("chat = %+v", last)
	}
}

func TestAutopilot_HuntsThenPatrols(t *testing.T) {
	w, clock := createTestWorld(t)
	p := linkedAgent(t, w)
	m := addMonster(w, "m1", p.Pos.Shift(300, 0), 10)

	Autopilot(w, p)
	if p.Goal == nil || *p.Goal != m.Pos {
		t.Fatalf("goal = %v, want monster position", p.Goal)
	}

	// монстр исчез, цель достигнута: патруль вокруг площади
	w.DamageMonster(p, m, 10)
	w.ClearGoal(p)
	Autopilot(w, p)
	if p.Goal != nil {
		t.Fatal("autopilot must respect its interval")
	}

	clock.Advance(domain.AutopilotInterval)
	Autopilot(w, p)
	want := domain.Point{X: plaza.X - patrolJitter/2, Y: plaza.Y - patrolJitter/2}
	if p.Goal == nil || *p.Goal != want {
		t.Errorf("patrol goal = %v, want %+v", p.Goal, want)
	}
	if p.Autopilot.State != "wander" {
		t.Errorf("state = %q", p.Autopilot.State)
	}
}
