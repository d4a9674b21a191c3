package network

import (
	"encoding/json"
	"os"
	"testing"

	"clawtown-server/pkg/api"
	"clawtown-server/pkg/logger"
)

func TestMain(m *testing.M) {
	logger.Init()
	os.Exit(m.Run())
}

func decode(t *testing.T, data []byte) api.ServerFrame {
	t.Helper()
	var f api.ServerFrame
	if err := json.Unmarshal(data, &f); err != nil {
		t.Fatalf("bad frame: %v", err)
	}
	return f
}

func TestPushStateReachesAll(t *testing.T) {
	h := NewHub(4)
	a := h.Register("p1")
	b := h.Register("p2")
	c := h.Register("p1") // второй сокет того же игрока

	if n := h.SubscriberCount(); n != 3 {
		t.Fatalf("SubscriberCount = %d, want 3", n)
	}

	h.PushState(api.Snapshot{Tick: 7})

	for _, sub := range []*Subscriber{a, b, c} {
		select {
		case data := <-sub.Send:
			f := decode(t, data)
			if f.Type != api.FrameState || f.State == nil || f.State.Tick != 7 {
				t.Errorf("unexpected frame %+v", f)
			}
		default:
			t.Errorf("subscriber %s got nothing", sub.PlayerID)
		}
	}
}

func TestSendToIsUnicast(t *testing.T) {
	h := NewHub(4)
	a := h.Register("p1")
	b := h.Register("p2")

	if n := h.SendTo("p1", api.ServerFrame{Type: api.FramePartyCode, JoinCode: "ABC123"}); n != 1 {
		t.Fatalf("SendTo delivered %d, want 1", n)
	}
	if f := decode(t, <-a.Send); f.JoinCode != "ABC123" {
		t.Errorf("unexpected frame %+v", f)
	}
	select {
	case <-b.Send:
		t.Error("p2 must not receive p1's frame")
	default:
	}
}

func TestFullBufferDropsWithoutBlocking(t *testing.T) {
	h := NewHub(1)
	slow := h.Register("slow")
	fast := h.Register("fast")

	h.PushEffect(api.FxView{ID: "1", Type: "spark"})
	<-fast.Send
	h.PushEffect(api.FxView{ID: "2", Type: "spark"})

	if h.Dropped() != 1 {
		t.Errorf("Dropped = %d, want 1", h.Dropped())
	}
	if f := decode(t, <-slow.Send); f.Fx == nil || f.Fx.ID != "1" {
		t.Errorf("slow subscriber must keep the first frame, got %+v", f)
	}
	if f := decode(t, <-fast.Send); f.Fx == nil || f.Fx.ID != "2" {
		t.Errorf("fast subscriber must get the second frame, got %+v", f)
	}
}

func TestUnregister(t *testing.T) {
	h := NewHub(1)
	sub := h.Register("p1")

	h.Unregister(sub)
	h.Unregister(sub)

	if _, ok := <-sub.Send; ok {
		t.Error("channel must be closed")
	}
	if h.HasSubscriber("p1") {
		t.Error("p1 still subscribed")
	}
	if h.Deliver(sub, api.ServerFrame{Type: api.FrameHello}) {
		t.Error("Deliver to a removed subscriber must fail")
	}
	// После отписки рассылка не паникует
	h.PushState(api.Snapshot{})
}
