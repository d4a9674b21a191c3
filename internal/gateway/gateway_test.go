package gateway

import (
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"clawtown-server/internal/domain"
	"clawtown-server/pkg/logger"
)

func TestMain(m *testing.M) {
	logger.Init()
	os.Exit(m.Run())
}

type testClock struct{ t time.Time }

func (c *testClock) Now() time.Time          { return c.t }
func (c *testClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestGateway() (*Gateway, *testClock) {
	clock := &testClock{t: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
	return New(Options{Now: clock.Now}), clock
}

func TestExchangeRoundTrip(t *testing.T) {
	g, _ := newTestGateway()

	jc := g.IssueJoinCode("p1")
	if len(jc.Code) != CodeLength {
		t.Fatalf("code length = %d, want %d", len(jc.Code), CodeLength)
	}

	link, err := g.Exchange(jc.Code)
	if err != nil {
		t.Fatalf("Exchange failed: %v", err)
	}
	if link.PlayerID != "p1" || !strings.HasPrefix(link.Token, TokenPrefix+"_") {
		t.Errorf("unexpected link %+v", link)
	}

	id, err := g.Authorize(link.Token)
	if err != nil || id != "p1" {
		t.Errorf("Authorize = (%q, %v), want p1", id, err)
	}

	// Код одноразовый
	if _, err := g.Exchange(jc.Code); !errors.Is(err, ErrInvalidCode) {
		t.Errorf("second exchange: got %v, want ErrInvalidCode", err)
	}
}

func TestExchangeAcceptsJoinTokenAndLowercase(t *testing.T) {
	tests := []struct {
		name  string
		input func(code string) string
	}{
		{"join token", func(code string) string { return JoinToken("http://localhost:8080/", code) }},
		{"lowercase", func(code string) string { return "  " + strings.ToLower(code) + " " }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, _ := newTestGateway()
			jc := g.IssueJoinCode("p1")
			if _, err := g.Exchange(tt.input(jc.Code)); err != nil {
				t.Fatalf("Exchange(%q) failed: %v", tt.input(jc.Code), err)
			}
		})
	}
}

func TestJoinTokenFormat(t *testing.T) {
	if got := JoinToken("http://h:1/", "ABC123"); got != "CT1|http://h:1|ABC123" {
		t.Errorf("JoinToken = %q", got)
	}
	if got := NormalizeCode("ct1|http://h:1|abc123"); got != "ABC123" {
		t.Errorf("NormalizeCode = %q", got)
	}
}

func TestExpiredCode(t *testing.T) {
	g, clock := newTestGateway()
	jc := g.IssueJoinCode("p1")

	clock.Advance(DefaultCodeTTL + time.Second)
	_, err := g.Exchange(jc.Code)
	if !errors.Is(err, ErrExpiredCode) || !errors.Is(err, domain.ErrExpired) {
		t.Fatalf("got %v, want ErrExpiredCode", err)
	}
	if g.PendingCodes() != 0 {
		t.Error("expired code must be removed on exchange")
	}
	if _, err := g.Exchange(jc.Code); !errors.Is(err, ErrInvalidCode) {
		t.Errorf("got %v, want ErrInvalidCode after removal", err)
	}
}

func TestReissueRevokesPreviousCode(t *testing.T) {
	g, _ := newTestGateway()
	first := g.IssueJoinCode("p1")
	second := g.IssueJoinCode("p1")

	if g.PendingCodes() != 1 {
		t.Fatalf("pending = %d, want 1", g.PendingCodes())
	}
	if first.Code != second.Code {
		if _, err := g.Exchange(first.Code); !errors.Is(err, ErrInvalidCode) {
			t.Errorf("old code still valid: %v", err)
		}
	}
	if _, err := g.Exchange(second.Code); err != nil {
		t.Errorf("new code rejected: %v", err)
	}
}

func TestRelinkRotatesToken(t *testing.T) {
	g, _ := newTestGateway()

	first, err := g.Exchange(g.IssueJoinCode("p1").Code)
	if err != nil {
		t.Fatal(err)
	}
	second, err := g.Exchange(g.IssueJoinCode("p1").Code)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := g.Authorize(first.Token); !errors.Is(err, domain.ErrUnauthorized) {
		t.Errorf("old token: got %v, want unauthorized", err)
	}
	if id, err := g.Authorize(second.Token); err != nil || id != "p1" {
		t.Errorf("new token: (%q, %v)", id, err)
	}
}

func TestAuthorizeRejectsUnknown(t *testing.T) {
	g, _ := newTestGateway()
	for _, token := range []string{"", "   ", "ctbot_nope"} {
		if _, err := g.Authorize(token); !errors.Is(err, ErrUnauthorized) {
			t.Errorf("Authorize(%q) = %v, want ErrUnauthorized", token, err)
		}
	}
}

func TestPeekDoesNotConsume(t *testing.T) {
	g, clock := newTestGateway()
	jc := g.IssueJoinCode("p1")

	for i := 0; i < 2; i++ {
		got, err := g.Peek(strings.ToLower(jc.Code))
		if err != nil || got.PlayerID != "p1" {
			t.Fatalf("Peek #%d = %+v, %v", i, got, err)
		}
	}
	if _, err := g.Exchange(jc.Code); err != nil {
		t.Fatalf("Exchange after Peek: %v", err)
	}
	if _, err := g.Peek(jc.Code); !errors.Is(err, ErrInvalidCode) {
		t.Errorf("Peek after Exchange = %v, want ErrInvalidCode", err)
	}

	expired := g.IssueJoinCode("p2")
	clock.Advance(DefaultCodeTTL + time.Second)
	if _, err := g.Peek(expired.Code); !errors.Is(err, ErrExpiredCode) {
		t.Errorf("Peek expired = %v, want ErrExpiredCode", err)
	}
	if g.PendingCodes() != 0 {
		t.Errorf("expired code kept after Peek: %d pending", g.PendingCodes())
	}
}

func TestAllow(t *testing.T) {
	g, clock := newTestGateway()

	if _, err := g.Allow("p1", KindChat); err != nil {
		t.Fatalf("first chat rejected: %v", err)
	}

	clock.Advance(500 * time.Millisecond)
	_, err := g.Allow("p1", KindChat)
	var rl *domain.RateLimitError
	if !errors.As(err, &rl) {
		t.Fatalf("got %v, want RateLimitError", err)
	}
	if rl.RetryIn != 700*time.Millisecond {
		t.Errorf("RetryIn = %v, want 700ms", rl.RetryIn)
	}

	// Окна независимы по видам и игрокам
	if _, err := g.Allow("p1", KindCast); err != nil {
		t.Errorf("cast limited by chat window: %v", err)
	}
	if _, err := g.Allow("p2", KindChat); err != nil {
		t.Errorf("p2 limited by p1 window: %v", err)
	}

	clock.Advance(700 * time.Millisecond)
	if _, err := g.Allow("p1", KindChat); err != nil {
		t.Errorf("chat after window rejected: %v", err)
	}
}

func TestAllowRelease(t *testing.T) {
	g, clock := newTestGateway()

	release, err := g.Allow("p1", KindChat)
	if err != nil {
		t.Fatalf("first chat rejected: %v", err)
	}
	release()
	if _, err := g.Allow("p1", KindChat); err != nil {
		t.Fatalf("window not returned after release: %v", err)
	}

	// Откат возвращает прежнее окно, а не обнуляет его
	clock.Advance(DefaultLimits[KindChat])
	release, err = g.Allow("p1", KindChat)
	if err != nil {
		t.Fatalf("chat after window rejected: %v", err)
	}
	release()
	clock.Advance(100 * time.Millisecond)
	if _, err := g.Allow("p1", KindChat); err != nil {
		t.Errorf("released window still blocks: %v", err)
	}

	// Чужое окно откат не трогает
	clock.Advance(DefaultLimits[KindChat])
	stale, err := g.Allow("p1", KindChat)
	if err != nil {
		t.Fatalf("chat rejected: %v", err)
	}
	g.Reset()
	clock.Advance(time.Millisecond)
	if _, err := g.Allow("p1", KindChat); err != nil {
		t.Fatalf("chat after reset rejected: %v", err)
	}
	stale()
	if _, err := g.Allow("p1", KindChat); !errors.Is(err, domain.ErrRateLimited) {
		t.Errorf("stale release freed a newer window: %v", err)
	}
}

func TestSweep(t *testing.T) {
	g, clock := newTestGateway()
	g.IssueJoinCode("p1")
	clock.Advance(time.Minute)
	g.IssueJoinCode("p2")

	clock.Advance(DefaultCodeTTL - 30*time.Second)
	if n := g.Sweep(); n != 1 {
		t.Errorf("Sweep removed %d, want 1", n)
	}
	if g.PendingCodes() != 1 {
		t.Errorf("pending = %d, want 1", g.PendingCodes())
	}
}

func TestReset(t *testing.T) {
	g, _ := newTestGateway()
	link, _ := g.Exchange(g.IssueJoinCode("p1").Code)
	g.IssueJoinCode("p2")

	g.Reset()

	if g.PendingCodes() != 0 {
		t.Error("codes survived reset")
	}
	if _, err := g.Authorize(link.Token); err == nil {
		t.Error("token survived reset")
	}
}
