package engine

import (
	"clawtown-server/internal/domain"
	"clawtown-server/internal/engine/handlers"
	"clawtown-server/internal/engine/handlers/actions"
	"clawtown-server/internal/network"
	"clawtown-server/pkg/api"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/sirupsen/logrus"
)

// worldState живет дольше актора: при перезапуске после паники
// новый WorldActor получает тот же указатель и мир не теряется.
type worldState struct {
	world     *domain.World
	handlers  map[domain.ActionType]handlers.HandlerFunc
	hub       *network.Hub
	persister *Persister
	log       *logrus.Entry
}

// WorldActor - единственный писатель World.
type WorldActor struct {
	state *worldState
}

func propsForWorld(state *worldState) *actor.Props {
	return actor.PropsFromProducer(func() actor.Actor { return &WorldActor{state: state} })
}

func (a *WorldActor) Receive(ctx actor.Context) {
	s := a.state
	switch msg := ctx.Message().(type) {
	case *actor.Started:
		s.log.WithField("pid", ctx.Self().Id).Info("World actor started.")

	case *actor.Restarting:
		s.log.WithField("pid", ctx.Self().Id).Warn("World actor restarting after a failure.")

	case *actor.Stopping:
		s.log.Info("World actor stopping.")

	case *actor.Stopped:
		s.log.Info("World actor stopped.")

	case *tickMsg:
		s.hub.PushState(Step(s.world))
		respond(ctx, nil, nil)

	case *sweepMsg:
		s.world.SweepPartyCodes()

	case *persistMsg:
		batch := a.collect(msg.All)
		if ctx.Sender() != nil {
			ctx.Respond(&reply{Value: batch})
			return
		}
		if len(batch) > 0 {
			s.persister.Enqueue(batch)
		}

	case *resetMsg:
		s.world.Reset()
		s.log.Warn("World reset.")
		respond(ctx, nil, nil)

	case *commandMsg:
		value, err := a.command(msg)
		if ctx.Sender() == nil && err != nil {
			s.log.WithFields(logrus.Fields{
				"player_id": msg.PlayerID,
				"action":    msg.Action.String(),
			}).WithError(err).Debug("Command dropped.")
		}
		respond(ctx, value, err)

	case *ensurePlayerMsg:
		p, err := s.world.EnsurePlayerFrom(msg.PlayerID, msg.Name, msg.Saved)
		if err != nil {
			respond(ctx, nil, err)
			return
		}
		respond(ctx, toPlayerView(p), nil)

	case *connectMsg:
		p, err := s.world.EnsurePlayerFrom(msg.PlayerID, msg.Name, msg.Saved)
		if err != nil {
			respond(ctx, nil, err)
			return
		}
		// hello кладется в канал раньше, чем любой state или fx этого сокета
		sub := s.hub.Register(p.ID)
		s.hub.Deliver(sub, BuildHello(s.world, p))
		respond(ctx, sub, nil)

	case *hasPlayerMsg:
		_, ok := s.world.Player(msg.PlayerID)
		respond(ctx, ok, nil)

	case *linkBotMsg:
		p, ok := s.world.Player(msg.PlayerID)
		if !ok {
			respond(ctx, nil, domain.NewError(domain.ErrNotFound, "unknown playerId"))
			return
		}
		s.world.LinkBot(p)
		respond(ctx, nil, nil)

	case *botQueryMsg:
		value, err := a.botQuery(msg)
		respond(ctx, value, err)

	default:
		s.log.WithField("message", msg).Debug("Unknown message.")
	}
}

// respond отвечает только тем, кто ждет ответа (RequestFuture).
func respond(ctx actor.Context, value any, err error) {
	if ctx.Sender() == nil {
		return
	}
	ctx.Respond(&reply{Value: value, Err: err})
}

func (a *WorldActor) command(msg *commandMsg) (any, error) {
	s := a.state
	handler, ok := s.handlers[msg.Action]
	if !ok {
		return nil, domain.Invalid("unknown action %q", msg.Action.String())
	}

	var player *domain.Player
	if msg.PlayerID != "" {
		player, _ = s.world.Player(msg.PlayerID)
	}

	ctx := handlers.Context{World: s.world, Actor: player, Source: msg.Source}
	if msg.Source == handlers.SourceSocket && player != nil {
		id := player.ID
		ctx.Reply = func(frame api.ServerFrame) { s.hub.SendTo(id, frame) }
	}

	res, err := handler(ctx, msg.Payload)
	if err != nil {
		return nil, err
	}
	if player != nil && msg.Source == handlers.SourceBot {
		s.world.TouchBot(player, true)
	}
	return responseBody(player, res), nil
}

// responseBody собирает тело HTTP-ответа из результата хендлера.
func responseBody(p *domain.Player, res handlers.Result) any {
	if res.WithPlayer && p != nil {
		return api.PlayerResponse{OK: true, Player: toPlayerView(p)}
	}
	switch data := res.Data.(type) {
	case nil:
		return api.OKResponse{OK: true}
	case actions.CastOutcome:
		return api.CastResponse{OK: true, Result: ToCastResultView(data.Result)}
	}
	return res.Data
}

func (a *WorldActor) botQuery(msg *botQueryMsg) (any, error) {
	w := a.state.world
	p, ok := w.Player(msg.PlayerID)
	if !ok {
		return nil, domain.NewError(domain.ErrNotFound, "unknown player")
	}
	w.TouchBot(p, false)

	switch msg.View {
	case BotViewStatus:
		return BuildStatus(w, p), nil
	case BotViewWorld:
		return api.WorldResponse{OK: true, Snapshot: BuildBotWorld(w, p)}, nil
	}
	return api.PlayerResponse{OK: true, Player: toPlayerView(p)}, nil
}

// collect снимает копии прогресса. Флаг dirty снимается в любом случае.
func (a *WorldActor) collect(all bool) []SavedProgress {
	w := a.state.world
	players := w.DirtyPlayers()
	if all {
		players = w.Players()
	}
	batch := make([]SavedProgress, 0, len(players))
	for _, p := range players {
		batch = append(batch, SavedProgress{PlayerID: p.ID, Progress: p.Progress()})
	}
	return batch
}
