package systems

import (
	"errors"
	"time"

	"clawtown-server/internal/domain"
	"clawtown-server/pkg/logger"

	"github.com/sirupsen/logrus"
)

// Причины отказа каста.
const (
	ReasonCooldown     = "cooldown"
	ReasonNoTarget     = "no-target"
	ReasonUnknownSpell = "unknown-spell"
)

// Урон заклинаний.
const (
	FireballDamage = 5
	HailDamage     = 4
	ArrowMinDamage = 2
	CleaveDamage   = 4
	FlurryStrikes  = 3
	FlurryDamage   = 2
	FlurryCritRate = 0.28
	FlurryCritMult = 2
)

// CastContext - входные данные одного каста.
type CastContext struct {
	World  *domain.World
	Player *domain.Player
	Spell  domain.SpellKind
	Target *domain.Point // точка для AoE, по умолчанию позиция кастера
	Source string        // manual, bot, autopilot
}

// CastResult - итог каста.
type CastResult struct {
	OK       bool
	Spell    domain.SpellKind
	Reason   string
	RetryIn  time.Duration
	TargetID string
	Hits     []domain.HitOutcome
}

type resolver func(ctx CastContext) CastResult

var resolvers = map[domain.SpellKind]resolver{
	domain.SpellSignature: castSignature,
	domain.SpellFireball:  castArea(FireballRadius, FireballDamage),
	domain.SpellHail:      castArea(HailRadius, HailDamage),
	domain.SpellArrow:     castArrow,
	domain.SpellCleave:    castCleave,
	domain.SpellFlurry:    castFlurry,
}

// CastByName раскрывает "job" в навык профессии и разбирает имя заклинания.
// Неизвестное заклинание не тратит кулдаун.
func CastByName(w *domain.World, p *domain.Player, name string, target *domain.Point, source string) CastResult {
	kind := domain.ParseSpell(domain.ResolveSpellName(p, name))
	return Cast(CastContext{World: w, Player: p, Spell: kind, Target: target, Source: source})
}

// Cast проверяет кулдаун и вызывает резолвер заклинания.
// Кулдаун тратится любым принятым кастом, в том числе промахом.
func Cast(ctx CastContext) CastResult {
	combatLogger := logger.Log.WithFields(logrus.Fields{
		"component": "combat_system",
		"player_id": ctx.Player.ID,
		"spell":     ctx.Spell.String(),
		"source":    ctx.Source,
	})

	resolve, ok := resolvers[ctx.Spell]
	if !ok {
		combatLogger.Debug("Cast rejected: unknown spell.")
		return CastResult{Spell: ctx.Spell, Reason: ReasonUnknownSpell}
	}

	err := domain.Throttle(&ctx.Player.LastCastAt, ctx.Spell.Cooldown(), ctx.World.Now(), "cast")
	var rl *domain.RateLimitError
	if errors.As(err, &rl) {
		combatLogger.WithField("retry_ms", rl.RetryIn.Milliseconds()).Debug("Cast rejected: cooldown.")
		return CastResult{Spell: ctx.Spell, Reason: ReasonCooldown, RetryIn: rl.RetryIn}
	}

	res := resolve(ctx)
	res.Spell = ctx.Spell

	killed := 0
	for _, h := range res.Hits {
		if h.Killed {
			killed++
		}
	}
	combatLogger.WithFields(logrus.Fields{
		"ok":     res.OK,
		"reason": res.Reason,
		"hits":   len(res.Hits),
		"killed": killed,
	}).Debug("Cast resolved.")
	return res
}

// --- Резолверы ---

func castSignature(ctx CastContext) CastResult {
	w, p := ctx.World, ctx.Player
	m, ok := w.NearestAliveMonster(p.Pos, MeleeRange)
	if !ok {
		return miss(ctx)
	}
	dmg := p.Damage()
	hit, _ := w.DamageMonster(p, m, dmg)
	w.PushFx(string(p.Signature.Effect), m.Pos, p.ID, map[string]any{
		"target": m.ID,
		"dmg":    dmg,
		"source": ctx.Source,
	})
	return CastResult{OK: true, TargetID: m.ID, Hits: []domain.HitOutcome{hit}}
}

// castArea - огненный шар и град: урон всем живым в радиусе точки. Всегда успешен.
func castArea(radius float64, dmg int) resolver {
	return func(ctx CastContext) CastResult {
		w, p := ctx.World, ctx.Player
		center := p.Pos
		if ctx.Target != nil {
			center = *ctx.Target
		}

		var hits []domain.HitOutcome
		for _, m := range w.AliveMonstersWithin(center, radius) {
			if hit, ok := w.DamageMonster(p, m, dmg); ok {
				hits = append(hits, hit)
			}
		}
		w.PushFx(ctx.Spell.String(), center, p.ID, map[string]any{
			"radius": radius,
			"hits":   hitsPayload(hits),
			"source": ctx.Source,
		})
		return CastResult{OK: true, Hits: hits}
	}
}

func castArrow(ctx CastContext) CastResult {
	w, p := ctx.World, ctx.Player
	m, ok := ArrowTarget(w, p.Pos, p.Facing)
	if !ok {
		end := ArrowEnd(p.Pos, p.Facing)
		w.PushFx(domain.FxArrow, end, p.ID, map[string]any{
			"miss":   true,
			"fromX":  p.Pos.X,
			"fromY":  p.Pos.Y,
			"toX":    end.X,
			"toY":    end.Y,
			"facing": p.Facing,
			"source": ctx.Source,
		})
		return CastResult{Reason: ReasonNoTarget}
	}

	dmg := max(ArrowMinDamage, p.Stats().Atk)
	hit, _ := w.DamageMonster(p, m, dmg)
	w.PushFx(domain.FxArrow, m.Pos, p.ID, map[string]any{
		"target": m.ID,
		"dmg":    dmg,
		"fromX":  p.Pos.X,
		"fromY":  p.Pos.Y,
		"toX":    m.Pos.X,
		"toY":    m.Pos.Y,
		"facing": p.Facing,
		"source": ctx.Source,
	})
	return CastResult{OK: true, TargetID: m.ID, Hits: []domain.HitOutcome{hit}}
}

func castCleave(ctx CastContext) CastResult {
	w, p := ctx.World, ctx.Player
	var hits []domain.HitOutcome
	for _, m := range NearestAlive(w, p.Pos, CleaveRadius, CleaveMaxHits) {
		if hit, ok := w.DamageMonster(p, m, CleaveDamage); ok {
			hits = append(hits, hit)
		}
	}
	if len(hits) == 0 {
		return miss(ctx)
	}
	w.PushFx(domain.FxCleave, p.Pos, p.ID, map[string]any{
		"radius": CleaveRadius,
		"hits":   hitsPayload(hits),
		"source": ctx.Source,
	})
	return CastResult{OK: true, Hits: hits}
}

func castFlurry(ctx CastContext) CastResult {
	w, p := ctx.World, ctx.Player
	m, ok := w.NearestAliveMonster(p.Pos, FlurryRange)
	if !ok {
		return miss(ctx)
	}

	var hits []domain.HitOutcome
	for i := 0; i < FlurryStrikes && m.Alive; i++ {
		crit := w.Rng.Float64() < FlurryCritRate
		dmg := FlurryDamage
		if crit {
			dmg *= FlurryCritMult
		}
		hit, ok := w.DamageMonster(p, m, dmg)
		if !ok {
			break
		}
		hit.Crit = crit
		hits = append(hits, hit)
		if crit {
			w.PushFx(domain.FxCrit, m.Pos, p.ID, map[string]any{
				"target": m.ID,
				"dmg":    dmg,
				"source": ctx.Source,
			})
		}
	}
	w.PushFx(domain.FxFlurry, m.Pos, p.ID, map[string]any{
		"target": m.ID,
		"hits":   hitsPayload(hits),
		"fromX":  p.Pos.X,
		"fromY":  p.Pos.Y,
		"source": ctx.Source,
	})
	return CastResult{OK: true, TargetID: m.ID, Hits: hits}
}

// miss - промах без цели: искра на месте кастера.
func miss(ctx CastContext) CastResult {
	p := ctx.Player
	ctx.World.PushFx(string(domain.EffectSpark), p.Pos, p.ID, map[string]any{
		"miss":   true,
		"reason": ReasonNoTarget,
		"source": ctx.Source,
	})
	return CastResult{Reason: ReasonNoTarget}
}

func hitsPayload(hits []domain.HitOutcome) []map[string]any {
	out := make([]map[string]any, 0, len(hits))
	for _, h := range hits {
		out = append(out, map[string]any{
			"id":     h.MonsterID,
			"dmg":    h.Damage,
			"hp":     h.HPAfter,
			"alive":  h.Alive,
			"killed": h.Killed,
			"crit":   h.Crit,
		})
	}
	return out
}
