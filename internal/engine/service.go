package engine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"clawtown-server/internal/domain"
	"clawtown-server/internal/engine/handlers"
	"clawtown-server/internal/engine/handlers/actions"
	"clawtown-server/internal/engine/handlers/admin"
	"clawtown-server/internal/gateway"
	"clawtown-server/internal/infrastructure/storage"
	"clawtown-server/internal/network"
	"clawtown-server/pkg/api"
	"clawtown-server/pkg/logger"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/sirupsen/logrus"
)

// ErrUnavailable - актор мира не ответил вовремя.
var ErrUnavailable = errors.New("world unavailable")

// GameService - фасад над актором мира. Все методы безопасны для
// конкурентного вызова: они только шлют сообщения.
type GameService struct {
	cfg Config

	system *actor.ActorSystem
	pid    *actor.PID
	state  *worldState

	Hub       *network.Hub
	Gateway   *gateway.Gateway
	persister *Persister

	cancel context.CancelFunc
	wg     sync.WaitGroup
	log    *logrus.Entry
}

// NewService собирает мир и его зависимости. Актор запускает Start.
func NewService(cfg Config, hub *network.Hub, gw *gateway.Gateway, store storage.ProgressStore) *GameService {
	cfg = cfg.withDefaults()
	if store == nil {
		store = storage.NewMemoryStore()
	}

	s := &GameService{
		cfg:       cfg,
		Hub:       hub,
		Gateway:   gw,
		persister: NewPersister(store, cfg.LoadTimeout),
		log:       logger.Component("game_service"),
	}

	world := domain.NewWorld(domain.Options{
		Now:         cfg.Now,
		Seed:        cfg.Seed,
		EmptyRoster: cfg.EmptyRoster,
	})
	world.OnEffect = func(e domain.EffectEvent) { hub.PushEffect(ToFxView(e)) }

	s.state = &worldState{
		world:     world,
		handlers:  make(map[domain.ActionType]handlers.HandlerFunc),
		hub:       hub,
		persister: s.persister,
		log:       logger.Component("world_actor"),
	}
	s.registerHandlers()
	return s
}

func (s *GameService) registerHandlers() {
	h := s.state.handlers

	h[domain.ActionSetName] = handlers.RequireActor(handlers.WithPayload(actions.HandleSetName))
	h[domain.ActionSetMode] = handlers.RequireActor(handlers.WithPayload(actions.HandleSetMode))
	h[domain.ActionSetIntent] = handlers.RequireActor(handlers.WithPayload(actions.HandleSetIntent))
	h[domain.ActionSetInterrupt] = handlers.RequireActor(handlers.WithPayload(actions.HandleSetInterrupt))
	h[domain.ActionSetSignature] = handlers.RequireActor(handlers.WithPayload(actions.HandleSetSignature))
	h[domain.ActionSetJobSkill] = handlers.RequireActor(handlers.WithPayload(actions.HandleSetJobSkill))
	h[domain.ActionEquip] = handlers.RequireActor(handlers.WithPayload(actions.HandleEquip))
	h[domain.ActionAllocStat] = handlers.RequireActor(handlers.WithPayload(actions.HandleAllocStat))
	h[domain.ActionCraft] = handlers.RequireActor(handlers.WithPayload(actions.HandleCraft))
	h[domain.ActionMove] = handlers.RequireActor(handlers.WithPayload(actions.HandleMove))
	h[domain.ActionSetGoal] = handlers.RequireActor(handlers.WithPayload(actions.HandleSetGoal))
	h[domain.ActionCast] = handlers.RequireActor(handlers.WithPayload(actions.HandleCast))
	h[domain.ActionChat] = handlers.RequireActor(handlers.WithPayload(actions.HandleChat))
	h[domain.ActionEmote] = handlers.RequireActor(handlers.WithPayload(actions.HandleEmote))
	h[domain.ActionPing] = handlers.RequireActor(handlers.WithEmptyPayload(actions.HandlePing))
	h[domain.ActionBoardPost] = handlers.RequireActor(handlers.WithPayload(actions.HandleBoardPost))
	h[domain.ActionPartyCreate] = handlers.RequireActor(handlers.WithEmptyPayload(actions.HandlePartyCreate))
	h[domain.ActionPartyLeave] = handlers.RequireActor(handlers.WithEmptyPayload(actions.HandlePartyLeave))
	h[domain.ActionPartyCode] = handlers.RequireActor(handlers.WithEmptyPayload(actions.HandlePartyCode))
	h[domain.ActionPartyJoin] = handlers.RequireActor(handlers.WithPayload(actions.HandlePartyJoin))
	h[domain.ActionPartySummon] = handlers.RequireActor(handlers.WithEmptyPayload(actions.HandlePartySummon))

	// Debug: игрок указан в payload
	h[domain.ActionDebugTeleport] = handlers.WithPayload(admin.HandleTeleport)
	h[domain.ActionDebugGrantItem] = handlers.WithPayload(admin.HandleGrantItem)
	h[domain.ActionDebugSetJob] = handlers.WithPayload(admin.HandleSetJob)
	h[domain.ActionDebugSpawnMonster] = handlers.WithPayload(admin.HandleSpawnMonster)
	h[domain.ActionDebugKillMonster] = handlers.WithPayload(admin.HandleKill)
}

// Start поднимает актор мира, планировщик и фоновое сохранение.
// manualTick=true оставляет тики вызывающему (Step), это нужно тестам.
func (s *GameService) Start(manualTick bool) error {
	s.system = actor.NewActorSystem()
	pid, err := s.system.Root.SpawnNamed(propsForWorld(s.state), "world")
	if err != nil {
		return fmt.Errorf("spawn world actor: %w", err)
	}
	s.pid = pid

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.persister.Run(ctx)
	}()

	if !manualTick {
		sched := NewScheduler(s.system.Root, pid, s.Gateway, s.cfg)
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			sched.Run(ctx)
		}()
	}

	s.log.WithFields(logrus.Fields{
		"seed": s.cfg.Seed,
		"tick": s.cfg.TickInterval.String(),
	}).Info("Game service started.")
	return nil
}

// Stop останавливает тики, сохраняет всех игроков и гасит актор.
func (s *GameService) Stop() {
	if s.system == nil {
		return
	}
	if n, err := s.Flush(); err != nil {
		s.log.WithError(err).Warn("Final flush failed.")
	} else {
		s.log.WithField("players", n).Info("Progress flushed.")
	}

	s.cancel()
	s.wg.Wait()

	if err := s.system.Root.StopFuture(s.pid).Wait(); err != nil {
		s.log.WithError(err).Warn("World actor did not stop cleanly.")
	}
	s.system.Shutdown()
	s.system = nil
	s.log.Info("Game service stopped.")
}

func (s *GameService) request(msg any) (any, error) {
	res, err := s.system.Root.RequestFuture(s.pid, msg, s.cfg.RequestTimeout).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	r, ok := res.(*reply)
	if !ok {
		return nil, fmt.Errorf("%w: unexpected reply %T", ErrUnavailable, res)
	}
	return r.Value, r.Err
}

// preload читает сохранение нового игрока до запроса к актору,
// чтобы I/O хранилища не держал тики. Для живого игрока ничего не читает.
func (s *GameService) preload(playerID string) *domain.Progress {
	playerID = strings.TrimSpace(playerID)
	if playerID == "" || s.HasPlayer(playerID) {
		return nil
	}
	pr, ok := s.persister.Load(playerID)
	if !ok {
		return nil
	}
	return &pr
}

// Step - синхронный тик (тесты, manualTick).
func (s *GameService) Step() error {
	_, err := s.request(&tickMsg{})
	return err
}

// EnsurePlayer - идемпотентное создание игрока.
func (s *GameService) EnsurePlayer(playerID, name string) (api.PlayerView, error) {
	v, err := s.request(&ensurePlayerMsg{PlayerID: playerID, Name: name, Saved: s.preload(playerID)})
	if err != nil {
		return api.PlayerView{}, err
	}
	return v.(api.PlayerView), nil
}

func (s *GameService) HasPlayer(playerID string) bool {
	v, err := s.request(&hasPlayerMsg{PlayerID: playerID})
	if err != nil {
		return false
	}
	return v.(bool)
}

// Connect регистрирует сокет. Первым в канале подписчика лежит hello.
func (s *GameService) Connect(playerID, name string) (*network.Subscriber, error) {
	v, err := s.request(&connectMsg{PlayerID: playerID, Name: name, Saved: s.preload(playerID)})
	if err != nil {
		return nil, err
	}
	return v.(*network.Subscriber), nil
}

// Disconnect не трогает актор: игрок остается в мире.
func (s *GameService) Disconnect(sub *network.Subscriber) {
	s.Hub.Unregister(sub)
}

// Submit - команда из сокета. Ответа нет, ошибки логирует актор.
func (s *GameService) Submit(playerID string, action domain.ActionType, payload json.RawMessage) {
	s.system.Root.Send(s.pid, &commandMsg{
		PlayerID: playerID,
		Action:   action,
		Payload:  payload,
		Source:   handlers.SourceSocket,
	})
}

// Command выполняет команду и ждет готовое тело ответа.
func (s *GameService) Command(playerID string, action domain.ActionType, payload json.RawMessage, source handlers.Source) (any, error) {
	return s.request(&commandMsg{PlayerID: playerID, Action: action, Payload: payload, Source: source})
}

// Debug - служебная команда, игрок указан в payload.
func (s *GameService) Debug(action domain.ActionType, payload json.RawMessage) (any, error) {
	return s.Command("", action, payload, handlers.SourceDebug)
}

// BotQuery читает карточку, статус или мир от имени бота.
func (s *GameService) BotQuery(playerID string, view BotView) (any, error) {
	return s.request(&botQueryMsg{PlayerID: playerID, View: view})
}

func (s *GameService) LinkBot(playerID string) error {
	_, err := s.request(&linkBotMsg{PlayerID: playerID})
	return err
}

// Flush синхронно сохраняет прогресс всех игроков.
func (s *GameService) Flush() (int, error) {
	v, err := s.request(&persistMsg{All: true})
	if err != nil {
		return 0, err
	}
	return s.persister.Save(v.([]SavedProgress)), nil
}

// Reset возвращает мир, шлюз и хранилище в исходное состояние.
func (s *GameService) Reset(ctx context.Context) error {
	if _, err := s.request(&resetMsg{}); err != nil {
		return err
	}
	s.Gateway.Reset()

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := s.persister.Clear(ctx); err != nil {
		return fmt.Errorf("clear progress: %w", err)
	}
	return nil
}
