// Package gateway выдает коды привязки ботов, меняет их на токены
// и ограничивает частоту действий ботов.
package gateway

import (
	"strings"
	"time"

	"clawtown-server/internal/domain"
	"clawtown-server/pkg/logger"
	"clawtown-server/pkg/utils"

	"github.com/sasha-s/go-deadlock"
	"github.com/sirupsen/logrus"
)

const (
	CodeLength     = 6
	TokenPrefix    = "ctbot"
	JoinPrefix     = "CT1"
	DefaultCodeTTL = 5 * time.Minute
)

var (
	ErrInvalidCode  = domain.NewError(domain.ErrNotFound, "invalid join code")
	ErrExpiredCode  = domain.NewError(domain.ErrExpired, "join code expired")
	ErrUnauthorized = domain.NewError(domain.ErrUnauthorized, "unauthorized")
)

// ActionKind - класс действия бота для ограничения частоты.
type ActionKind string

const (
	KindChat      ActionKind = "chat"
	KindCast      ActionKind = "cast"
	KindGoal      ActionKind = "goal"
	KindMode      ActionKind = "mode"
	KindIntent    ActionKind = "intent"
	KindInterrupt ActionKind = "interrupt"
	KindParty     ActionKind = "party"
)

// DefaultLimits - минимальный интервал между действиями одного вида.
var DefaultLimits = map[ActionKind]time.Duration{
	KindChat:      domain.ChatMinInterval,
	KindCast:      100 * time.Millisecond,
	KindGoal:      100 * time.Millisecond,
	KindMode:      100 * time.Millisecond,
	KindIntent:    100 * time.Millisecond,
	KindInterrupt: 100 * time.Millisecond,
	KindParty:     100 * time.Millisecond,
}

// JoinCode - одноразовый код привязки бота.
type JoinCode struct {
	Code      string
	PlayerID  string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Link - результат обмена кода на токен.
type Link struct {
	Token    string
	PlayerID string
}

type Options struct {
	CodeTTL time.Duration
	Now     func() time.Time
	Limits  map[ActionKind]time.Duration
}

// Gateway хранит коды, токены и окна частоты под своим мьютексом.
// В актор мира не ходит.
type Gateway struct {
	mu deadlock.RWMutex

	codes         map[string]JoinCode // code -> запись
	codeByPlayer  map[string]string   // playerID -> code
	tokens        map[string]string   // token -> playerID
	tokenByPlayer map[string]string   // playerID -> token
	lastAction    map[string]map[ActionKind]time.Time

	ttl    time.Duration
	now    func() time.Time
	limits map[ActionKind]time.Duration
	log    *logrus.Entry
}

func New(opts Options) *Gateway {
	if opts.CodeTTL <= 0 {
		opts.CodeTTL = DefaultCodeTTL
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Limits == nil {
		opts.Limits = DefaultLimits
	}
	g := &Gateway{
		ttl:    opts.CodeTTL,
		now:    opts.Now,
		limits: opts.Limits,
		log:    logger.Log.WithField("component", "bot_gateway"),
	}
	g.Reset()
	return g
}

// Reset забывает все коды, токены и окна (debug/reset).
func (g *Gateway) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.codes = make(map[string]JoinCode)
	g.codeByPlayer = make(map[string]string)
	g.tokens = make(map[string]string)
	g.tokenByPlayer = make(map[string]string)
	g.lastAction = make(map[string]map[ActionKind]time.Time)
}

// IssueJoinCode выдает новый код. Прежний код игрока отзывается.
func (g *Gateway) IssueJoinCode(playerID string) JoinCode {
	now := g.now()

	g.mu.Lock()
	defer g.mu.Unlock()

	if old, ok := g.codeByPlayer[playerID]; ok {
		delete(g.codes, old)
	}
	code := utils.RandomCode(CodeLength)
	for g.codes[code].Code != "" {
		code = utils.RandomCode(CodeLength)
	}
	jc := JoinCode{Code: code, PlayerID: playerID, CreatedAt: now, ExpiresAt: now.Add(g.ttl)}
	g.codes[code] = jc
	g.codeByPlayer[playerID] = code

	g.log.WithField("player_id", playerID).Debug("Join code issued.")
	return jc
}

// Peek проверяет код, не погашая его. Просроченный код удаляется.
func (g *Gateway) Peek(codeOrToken string) (JoinCode, error) {
	code := NormalizeCode(codeOrToken)
	if code == "" {
		return JoinCode{}, ErrInvalidCode
	}
	now := g.now()

	g.mu.Lock()
	defer g.mu.Unlock()

	jc, ok := g.codes[code]
	if !ok {
		return JoinCode{}, ErrInvalidCode
	}
	if now.After(jc.ExpiresAt) {
		g.dropCode(jc)
		return JoinCode{}, ErrExpiredCode
	}
	return jc, nil
}

// Exchange меняет код (или токен CT1|base|code) на токен бота.
// Код одноразовый, прежний токен игрока перестает действовать.
func (g *Gateway) Exchange(codeOrToken string) (Link, error) {
	code := NormalizeCode(codeOrToken)
	if code == "" {
		return Link{}, ErrInvalidCode
	}
	now := g.now()

	g.mu.Lock()
	defer g.mu.Unlock()

	jc, ok := g.codes[code]
	if !ok {
		return Link{}, ErrInvalidCode
	}
	g.dropCode(jc)
	if now.After(jc.ExpiresAt) {
		return Link{}, ErrExpiredCode
	}

	if old, ok := g.tokenByPlayer[jc.PlayerID]; ok {
		delete(g.tokens, old)
	}
	token := utils.RandomToken(TokenPrefix)
	g.tokens[token] = jc.PlayerID
	g.tokenByPlayer[jc.PlayerID] = token

	g.log.WithField("player_id", jc.PlayerID).Info("Bot linked.")
	return Link{Token: token, PlayerID: jc.PlayerID}, nil
}

func (g *Gateway) dropCode(jc JoinCode) {
	delete(g.codes, jc.Code)
	if g.codeByPlayer[jc.PlayerID] == jc.Code {
		delete(g.codeByPlayer, jc.PlayerID)
	}
}

// Authorize возвращает игрока по токену.
func (g *Gateway) Authorize(token string) (string, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return "", ErrUnauthorized
	}
	g.mu.RLock()
	defer g.mu.RUnlock()
	playerID, ok := g.tokens[token]
	if !ok {
		return "", ErrUnauthorized
	}
	return playerID, nil
}

// Allow - окно в одно действие на вид для каждого игрока.
// Окно занимается сразу. release возвращает его, если мир отклонил команду:
// отвергнутый запрос не должен отнимать следующую попытку.
func (g *Gateway) Allow(playerID string, kind ActionKind) (release func(), err error) {
	limit, ok := g.limits[kind]
	if !ok {
		return func() {}, nil
	}
	now := g.now()

	g.mu.Lock()
	defer g.mu.Unlock()

	byKind, ok := g.lastAction[playerID]
	if !ok {
		byKind = make(map[ActionKind]time.Time)
		g.lastAction[playerID] = byKind
	}
	prev := byKind[kind]
	last := prev
	if err := domain.Throttle(&last, limit, now, string(kind)); err != nil {
		return func() {}, err
	}
	byKind[kind] = last
	return func() { g.release(playerID, kind, last, prev) }, nil
}

// release откатывает окно, только если его не занял запрос после нас.
func (g *Gateway) release(playerID string, kind ActionKind, taken, prev time.Time) {
	g.mu.Lock()
	defer g.mu.Unlock()
	byKind, ok := g.lastAction[playerID]
	if !ok || !byKind[kind].Equal(taken) {
		return
	}
	if prev.IsZero() {
		delete(byKind, kind)
		return
	}
	byKind[kind] = prev
}

// Sweep удаляет просроченные коды. Возвращает число удаленных.
func (g *Gateway) Sweep() int {
	now := g.now()

	g.mu.Lock()
	defer g.mu.Unlock()

	n := 0
	for _, jc := range g.codes {
		if now.After(jc.ExpiresAt) {
			g.dropCode(jc)
			n++
		}
	}
	return n
}

// PendingCodes - число активных кодов (для метрик и тестов).
func (g *Gateway) PendingCodes() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.codes)
}

// NormalizeCode достает код из "CT1|base|code" и приводит к верхнему регистру.
func NormalizeCode(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(strings.ToUpper(s), JoinPrefix+"|") {
		parts := strings.Split(s, "|")
		s = parts[len(parts)-1]
	}
	return strings.ToUpper(strings.TrimSpace(s))
}

// JoinToken собирает токен для вставки в бота: CT1|<base>|<code>.
func JoinToken(baseURL, code string) string {
	return JoinPrefix + "|" + strings.TrimRight(baseURL, "/") + "|" + code
}
