package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"clawtown-server/internal/config"
	"clawtown-server/internal/domain"
	"clawtown-server/internal/engine"
	"clawtown-server/internal/gateway"
	"clawtown-server/internal/network"
	"clawtown-server/pkg/api"
	"clawtown-server/pkg/logger"

	"github.com/gorilla/websocket"
)

func TestMain(m *testing.M) {
	logger.Init()
	os.Exit(m.Run())
}

type lockedClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *lockedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *lockedClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

type testServer struct {
	*httptest.Server
	svc   *engine.GameService
	clock *lockedClock
}

func newTestServer(t *testing.T, testMode bool) *testServer {
	t.Helper()
	clock := &lockedClock{t: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}

	svc := engine.NewService(
		engine.Config{Seed: 1, EmptyRoster: true, Now: clock.Now},
		network.NewHub(64),
		gateway.New(gateway.Options{Now: clock.Now}),
		nil,
	)
	if err := svc.Start(true); err != nil {
		t.Fatal(err)
	}

	cfg := config.Default()
	cfg.Server.TestMode = testMode
	cfg.Server.PublicBaseURL = "http://town.test"

	srv := httptest.NewServer(New(svc, cfg).Handler())
	t.Cleanup(func() {
		srv.Close()
		svc.Stop()
	})
	return &testServer{Server: srv, svc: svc, clock: clock}
}

// call делает запрос и разбирает JSON-ответ в out (если out не nil).
func (ts *testServer) call(t *testing.T, method, path, token string, body any, out any) *http.Response {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, ts.URL+path, reader)
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("%s %s: bad body: %v", method, path, err)
		}
	}
	return resp
}

// linkBot проходит весь путь: игрок, код, привязка. Возвращает токен бота.
func (ts *testServer) linkBot(t *testing.T, playerID string) string {
	t.Helper()
	if resp := ts.call(t, "POST", "/api/players/ensure", "", api.EnsurePlayerRequest{PlayerID: playerID, Name: playerID}, nil); resp.StatusCode != 200 {
		t.Fatalf("ensure: %d", resp.StatusCode)
	}
	var code api.JoinCodeResponse
	if resp := ts.call(t, "POST", "/api/join-codes", "", api.JoinCodeRequest{PlayerID: playerID}, &code); resp.StatusCode != 200 {
		t.Fatalf("join-codes: %d", resp.StatusCode)
	}
	var link api.LinkResponse
	if resp := ts.call(t, "POST", "/api/bot/link", "", api.LinkRequest{JoinToken: code.JoinToken}, &link); resp.StatusCode != 200 {
		t.Fatalf("link: %d", resp.StatusCode)
	}
	return link.BotToken
}

func TestPublicRoutes(t *testing.T) {
	ts := newTestServer(t, false)
	for _, path := range []string{"/api/health", "/api/version", "/api/schema/frames"} {
		t.Run(path, func(t *testing.T) {
			if resp := ts.call(t, "GET", path, "", nil, nil); resp.StatusCode != http.StatusOK {
				t.Errorf("status = %d", resp.StatusCode)
			}
		})
	}

	t.Run("schema lists client frames", func(t *testing.T) {
		var schemas map[string]json.RawMessage
		ts.call(t, "GET", "/api/schema/frames", "", nil, &schemas)
		var client map[string]json.RawMessage
		if err := json.Unmarshal(schemas["client"], &client); err != nil {
			t.Fatal(err)
		}
		if _, ok := client["cast"]; !ok || len(client) != len(domain.ClientActions()) {
			t.Errorf("client schemas = %d entries", len(client))
		}
	})

	t.Run("preflight", func(t *testing.T) {
		resp := ts.call(t, "OPTIONS", "/api/bot/me", "", nil, nil)
		if resp.StatusCode != http.StatusNoContent || resp.Header.Get("Access-Control-Allow-Origin") != "*" {
			t.Errorf("status = %d, headers = %v", resp.StatusCode, resp.Header)
		}
	})
}

func TestBotLinkFlow(t *testing.T) {
	ts := newTestServer(t, false)
	ts.call(t, "POST", "/api/players/ensure", "", api.EnsurePlayerRequest{PlayerID: "p1", Name: "Alice"}, nil)

	var code api.JoinCodeResponse
	ts.call(t, "POST", "/api/join-codes", "", api.JoinCodeRequest{PlayerID: "p1"}, &code)
	if len(code.JoinCode) != gateway.CodeLength || code.JoinToken != "CT1|http://town.test|"+code.JoinCode {
		t.Fatalf("join code = %+v", code)
	}

	var link api.LinkResponse
	resp := ts.call(t, "POST", "/api/bot/link", "", map[string]string{"joinCode": strings.ToLower(code.JoinCode)}, &link)
	if resp.StatusCode != http.StatusOK || link.PlayerID != "p1" || link.BotToken == "" {
		t.Fatalf("link = %d %+v", resp.StatusCode, link)
	}
	if link.APIBaseURL != "http://town.test/api" || link.WsURL != "ws://town.test/ws" {
		t.Errorf("urls = %q %q", link.APIBaseURL, link.WsURL)
	}

	var me api.PlayerResponse
	if resp := ts.call(t, "GET", "/api/bot/me", link.BotToken, nil, &me); resp.StatusCode != http.StatusOK {
		t.Fatalf("me: %d", resp.StatusCode)
	}
	if !me.Player.LinkedBot || me.Player.Bot.LastSeenAt == nil {
		t.Errorf("me = %+v", me.Player)
	}

	// Код одноразовый
	if resp := ts.call(t, "POST", "/api/bot/link", "", api.LinkRequest{JoinCode: code.JoinCode}, nil); resp.StatusCode != http.StatusNotFound {
		t.Errorf("reused code: status %d, want 404", resp.StatusCode)
	}
}

func TestBotLinkErrors(t *testing.T) {
	ts := newTestServer(t, false)

	if resp := ts.call(t, "POST", "/api/join-codes", "", api.JoinCodeRequest{PlayerID: "ghost"}, nil); resp.StatusCode != http.StatusNotFound {
		t.Errorf("join code for unknown player: %d, want 404", resp.StatusCode)
	}
	if resp := ts.call(t, "POST", "/api/bot/link", "", map[string]string{}, nil); resp.StatusCode != http.StatusBadRequest {
		t.Errorf("empty link: %d, want 400", resp.StatusCode)
	}

	ts.call(t, "POST", "/api/players/ensure", "", api.EnsurePlayerRequest{PlayerID: "p1"}, nil)
	var code api.JoinCodeResponse
	ts.call(t, "POST", "/api/join-codes", "", api.JoinCodeRequest{PlayerID: "p1"}, &code)
	ts.clock.Advance(gateway.DefaultCodeTTL + time.Second)

	var body api.ErrorResponse
	resp := ts.call(t, "POST", "/api/bot/link", "", api.LinkRequest{JoinCode: code.JoinCode}, &body)
	if resp.StatusCode != http.StatusGone || body.OK || body.Error == "" {
		t.Errorf("expired link: %d %+v, want 410", resp.StatusCode, body)
	}

	// Код без игрока в мире не гасится, его можно использовать после EnsurePlayer
	orphan := ts.svc.Gateway.IssueJoinCode("late")
	if resp := ts.call(t, "POST", "/api/bot/link", "", api.LinkRequest{JoinCode: orphan.Code}, nil); resp.StatusCode != http.StatusNotFound {
		t.Errorf("link for missing player: %d, want 404", resp.StatusCode)
	}
	ts.call(t, "POST", "/api/players/ensure", "", api.EnsurePlayerRequest{PlayerID: "late"}, nil)
	if resp := ts.call(t, "POST", "/api/bot/link", "", api.LinkRequest{JoinCode: orphan.Code}, nil); resp.StatusCode != http.StatusOK {
		t.Errorf("retry link after failed attempt: %d, want 200", resp.StatusCode)
	}

	for _, token := range []string{"", "ctbot_nope"} {
		if resp := ts.call(t, "GET", "/api/bot/status", token, nil, nil); resp.StatusCode != http.StatusUnauthorized {
			t.Errorf("token %q: %d, want 401", token, resp.StatusCode)
		}
	}
}

func TestBotCommands(t *testing.T) {
	ts := newTestServer(t, true)
	token := ts.linkBot(t, "p1")

	t.Run("mode responds with player", func(t *testing.T) {
		var out api.PlayerResponse
		resp := ts.call(t, "POST", "/api/bot/mode", token, api.ModePayload{Mode: "agent"}, &out)
		if resp.StatusCode != http.StatusOK || out.Player.Mode != "agent" {
			t.Errorf("mode: %d %+v", resp.StatusCode, out.Player.Mode)
		}
	})

	t.Run("cast hits a spawned monster", func(t *testing.T) {
		var me api.PlayerResponse
		ts.call(t, "GET", "/api/bot/me", token, nil, &me)
		spawn := api.SpawnMonsterPayload{ID: "m1", X: float64(me.Player.X + 10), Y: float64(me.Player.Y), MaxHP: 10}
		if resp := ts.call(t, "POST", "/api/debug/spawn-monster", "", spawn, nil); resp.StatusCode != 200 {
			t.Fatalf("spawn: %d", resp.StatusCode)
		}

		var out api.CastResponse
		resp := ts.call(t, "POST", "/api/bot/cast", token, api.CastPayload{Spell: "attack"}, &out)
		if resp.StatusCode != http.StatusOK || !out.Result.OK || len(out.Result.Hits) != 1 {
			t.Errorf("cast: %d %+v", resp.StatusCode, out.Result)
		}
	})

	t.Run("chat is rate limited", func(t *testing.T) {
		if resp := ts.call(t, "POST", "/api/bot/chat", token, api.TextPayload{Text: "hello"}, nil); resp.StatusCode != 200 {
			t.Fatalf("first chat: %d", resp.StatusCode)
		}
		resp := ts.call(t, "POST", "/api/bot/chat", token, api.TextPayload{Text: "again"}, nil)
		if resp.StatusCode != http.StatusTooManyRequests || resp.Header.Get("Retry-After") == "" {
			t.Errorf("second chat: %d, Retry-After %q", resp.StatusCode, resp.Header.Get("Retry-After"))
		}
		ts.clock.Advance(domain.ChatMinInterval)
		if resp := ts.call(t, "POST", "/api/bot/chat", token, api.TextPayload{Text: "later"}, nil); resp.StatusCode != 200 {
			t.Errorf("chat after window: %d", resp.StatusCode)
		}
	})

	t.Run("party flow", func(t *testing.T) {
		var created api.PartyResponse
		ts.call(t, "POST", "/api/bot/party/create", token, nil, &created)
		if !created.OK || created.PartyID == "" {
			t.Fatalf("create = %+v", created)
		}
		ts.clock.Advance(time.Second)

		var code api.PartyResponse
		ts.call(t, "POST", "/api/bot/party/code", token, nil, &code)
		if code.JoinCode == "" || code.ExpiresAt == 0 {
			t.Fatalf("code = %+v", code)
		}

		other := ts.linkBot(t, "p2")
		var joined api.PartyResponse
		resp := ts.call(t, "POST", "/api/bot/party/join", other, api.PartyJoinPayload{JoinCode: code.JoinCode}, &joined)
		if resp.StatusCode != 200 || joined.PartyID != created.PartyID {
			t.Errorf("join: %d %+v", resp.StatusCode, joined)
		}

		// Код выдает только лидер
		ts.clock.Advance(time.Second)
		if resp := ts.call(t, "POST", "/api/bot/party/code", other, nil, nil); resp.StatusCode != http.StatusForbidden {
			t.Errorf("code from member: %d, want 403", resp.StatusCode)
		}
	})

	t.Run("world view", func(t *testing.T) {
		var out api.WorldResponse
		ts.call(t, "GET", "/api/bot/world", token, nil, &out)
		if !out.OK || out.Snapshot.You.ID != "p1" || len(out.Snapshot.Players) != 2 {
			t.Errorf("world = %+v", out)
		}
	})
}

func TestBotRejectedCommandKeepsWindow(t *testing.T) {
	ts := newTestServer(t, false)
	token := ts.linkBot(t, "p1")

	tests := []struct {
		name    string
		path    string
		invalid any
		valid   any
	}{
		{"empty chat", "/api/bot/chat", api.TextPayload{Text: "   "}, api.TextPayload{Text: "hello"}},
		{"unknown mode", "/api/bot/mode", api.ModePayload{Mode: "flying"}, api.ModePayload{Mode: "agent"}},
		{"goal without y", "/api/bot/goal", map[string]any{"x": 10}, map[string]any{"x": 10, "y": 10}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if resp := ts.call(t, "POST", tt.path, token, tt.invalid, nil); resp.StatusCode != http.StatusBadRequest {
				t.Fatalf("invalid body: %d, want 400", resp.StatusCode)
			}
			if resp := ts.call(t, "POST", tt.path, token, tt.valid, nil); resp.StatusCode != http.StatusOK {
				t.Errorf("valid body right after a rejected one: %d, want 200", resp.StatusCode)
			}
		})
	}
}

func TestDebugRoutesRequireTestMode(t *testing.T) {
	ts := newTestServer(t, false)
	resp := ts.call(t, "POST", "/api/debug/reset", "", nil, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("debug reset without CT_TEST: %d, want 404", resp.StatusCode)
	}
}

func TestDebugReset(t *testing.T) {
	ts := newTestServer(t, true)
	token := ts.linkBot(t, "p1")

	var flushed map[string]any
	ts.call(t, "POST", "/api/debug/persist-flush", "", nil, &flushed)
	if flushed["saved"] != float64(1) {
		t.Errorf("flush = %v", flushed)
	}

	if resp := ts.call(t, "POST", "/api/debug/reset", "", nil, nil); resp.StatusCode != 200 {
		t.Fatalf("reset: %d", resp.StatusCode)
	}
	if resp := ts.call(t, "GET", "/api/bot/me", token, nil, nil); resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("token survived reset: %d", resp.StatusCode)
	}
	if ts.svc.HasPlayer("p1") {
		t.Error("player survived reset")
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{domain.Invalid("bad"), http.StatusBadRequest},
		{gateway.ErrUnauthorized, http.StatusUnauthorized},
		{domain.NewError(domain.ErrForbidden, "leader only"), http.StatusForbidden},
		{gateway.ErrInvalidCode, http.StatusNotFound},
		{domain.Conflict("busy"), http.StatusConflict},
		{gateway.ErrExpiredCode, http.StatusGone},
		{&domain.RateLimitError{Action: "chat", RetryIn: time.Second}, http.StatusTooManyRequests},
		{fmt.Errorf("wrapped: %w", engine.ErrUnavailable), http.StatusServiceUnavailable},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			if got := statusFor(tt.err); got != tt.want {
				t.Errorf("statusFor = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestWebSocket(t *testing.T) {
	ts := newTestServer(t, false)
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws?playerId=p1&name=Alice"

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()

	read := func() api.ServerFrame {
		t.Helper()
		if err := conn.SetReadDeadline(time.Now().Add(2 * time.Second)); err != nil {
			t.Fatal(err)
		}
		var f api.ServerFrame
		if err := conn.ReadJSON(&f); err != nil {
			t.Fatalf("read: %v", err)
		}
		return f
	}

	hello := read()
	if hello.Type != api.FrameHello || hello.You == nil || hello.You.Name != "Alice" {
		t.Fatalf("hello = %+v", hello)
	}
	startX := hello.You.X

	for _, frame := range []string{
		`{"type":"nonsense"}`,
		`not json`,
		`{"type":"move","dx":1,"dy":0}`,
	} {
		if err := conn.WriteMessage(websocket.TextMessage, []byte(frame)); err != nil {
			t.Fatal(err)
		}
	}

	// Сокет не ждет ответа, поэтому ждем, пока шаг дойдет до мира
	deadline := time.Now().Add(2 * time.Second)
	for {
		if err := ts.svc.Step(); err != nil {
			t.Fatal(err)
		}
		f := read()
		for f.Type != api.FrameState {
			f = read()
		}
		if f.State.Players[0].X == startX+8 {
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("move never applied, x = %d", f.State.Players[0].X)
		}
	}
}

func TestWebSocketRequiresPlayerID(t *testing.T) {
	ts := newTestServer(t, false)
	if resp := ts.call(t, "GET", "/ws", "", nil, nil); resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}
