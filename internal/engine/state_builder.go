package engine

import (
	"math"
	"time"

	"clawtown-server/internal/domain"
	"clawtown-server/internal/systems"
	"clawtown-server/pkg/api"
)

// isoTime - формат createdAt во всех фреймах (UTC, миллисекунды).
const isoTime = "2006-01-02T15:04:05.000Z07:00"

func isoString(t time.Time) string { return t.UTC().Format(isoTime) }

func round(v float64) int { return int(math.Round(v)) }

func optString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func optMillis(t time.Time) *int64 {
	if t.IsZero() {
		return nil
	}
	ms := t.UnixMilli()
	return &ms
}

// BuildSnapshot - общая проекция мира на текущий тик.
// Только читает World, поэтому вызывается внутри актора.
func BuildSnapshot(w *domain.World) api.Snapshot {
	snap := api.Snapshot{
		Tick: w.Tick,
		World: api.WorldInfo{
			Width:    domain.WorldWidth,
			Height:   domain.WorldHeight,
			TileSize: domain.TileSize,
		},
		Players:  make([]api.PlayerView, 0, len(w.Players())),
		Monsters: make([]api.MonsterView, 0, len(w.Monsters())),
		Drops:    make([]api.DropView, 0, len(w.Drops())),
		Parties:  make([]api.PartyView, 0, len(w.Parties())),
	}

	for _, p := range w.Players() {
		snap.Players = append(snap.Players, toPlayerView(p))
	}
	for _, m := range w.Monsters() {
		snap.Monsters = append(snap.Monsters, toMonsterView(m))
	}
	for _, d := range w.Drops() {
		snap.Drops = append(snap.Drops, toDropView(d))
	}
	for _, party := range w.Parties() {
		snap.Parties = append(snap.Parties, toPartyView(w, party))
	}

	board := w.Feed.Board(domain.SnapshotBoard)
	snap.Board = make([]api.BoardView, 0, len(board))
	for _, post := range board {
		snap.Board = append(snap.Board, toBoardView(post))
	}
	snap.Chats = toChatViews(w.Feed.Chats(domain.SnapshotChats))
	return snap
}

// BuildBotWorld - снимок для бота: чат отфильтрован по его interrupt.
func BuildBotWorld(w *domain.World, p *domain.Player) api.BotWorldView {
	snap := BuildSnapshot(w)
	snap.Chats = toChatViews(w.ChatsFor(p, domain.BotWorldChats))
	return api.BotWorldView{Snapshot: snap, You: toPlayerView(p)}
}

// BuildStatus - карточка игрока и счетчики в радиусе NearbyTiles.
func BuildStatus(w *domain.World, p *domain.Player) api.StatusResponse {
	r := float64(domain.NearbyTiles * domain.TileSize)
	nearby := api.NearbyView{RadiusTiles: domain.NearbyTiles}
	for _, other := range w.Players() {
		if other.ID != p.ID && p.Pos.Within(other.Pos, r) {
			nearby.Players++
		}
	}
	nearby.Monsters = len(w.AliveMonstersWithin(p.Pos, r))
	for _, d := range w.Drops() {
		if p.Pos.Within(d.Pos, r) {
			nearby.Drops++
		}
	}
	return api.StatusResponse{
		OK:     true,
		Time:   isoString(w.Now()),
		You:    toPlayerView(p),
		Nearby: nearby,
	}
}

// BuildHello - первый фрейм нового сокета.
func BuildHello(w *domain.World, p *domain.Player) api.ServerFrame {
	you := toPlayerView(p)
	snap := BuildSnapshot(w)
	recent := w.RecentFx(domain.HelloFxWindow)
	fx := make([]api.FxView, 0, len(recent))
	for _, e := range recent {
		fx = append(fx, ToFxView(e))
	}
	return api.ServerFrame{Type: api.FrameHello, You: &you, State: &snap, RecentFx: fx}
}

// PlayerView - публичная карточка одного игрока.
func PlayerView(p *domain.Player) api.PlayerView { return toPlayerView(p) }

func toPlayerView(p *domain.Player) api.PlayerView {
	stats := p.Stats()
	view := api.PlayerView{
		ID:         p.ID,
		Name:       p.Name,
		X:          round(p.Pos.X),
		Y:          round(p.Pos.Y),
		Facing:     string(p.Facing),
		Mode:       string(p.Mode),
		Intent:     p.Intent,
		Interrupt:  string(p.Interrupt),
		HP:         p.HP,
		MaxHP:      p.MaxHP,
		Level:      p.Level,
		XP:         p.XP,
		XPToNext:   p.XPToNext(),
		StatPoints: p.StatPoints,
		BaseStats: api.BaseStatsView{
			Str: p.Base.Str, Agi: p.Base.Agi, Vit: p.Base.Vit,
			Int: p.Base.Int, Dex: p.Base.Dex, Luk: p.Base.Luk,
		},
		Stats: api.DerivedStatsView{Atk: stats.Atk, Def: stats.Def, Crit: stats.Crit, Aspd: stats.Aspd},
		Zenny: p.Zenny,
		Meta:  api.MetaView{Kills: p.Meta.Kills, Crafts: p.Meta.Crafts, Pickups: p.Meta.Pickups},
		Job:   string(p.Job),
		Equipment: api.EquipmentView{
			Weapon:    optString(p.Equipment.Weapon),
			Armor:     optString(p.Equipment.Armor),
			Accessory: optString(p.Equipment.Accessory),
		},
		JobSkill: api.JobSkillView{Name: p.JobSkill.Name, Spell: p.JobSkill.Spell},
		SignatureSpell: api.SignatureView{
			Name:    p.Signature.Name,
			Tagline: p.Signature.Tagline,
			Effect:  string(p.Signature.Effect),
		},
		LinkedBot: p.LinkedBot,
		Bot: api.BotActivityView{
			LastSeenAt:   optMillis(p.BotLastSeenAt),
			LastActionAt: optMillis(p.BotLastActionAt),
		},
		PartyID: optString(p.PartyID),
	}
	if p.Goal != nil {
		view.Goal = &api.PointView{X: p.Goal.X, Y: p.Goal.Y}
	}

	stacks := p.Inventory.Stacks()
	view.Inventory = make([]api.InventoryItemView, 0, len(stacks))
	for _, s := range stacks {
		view.Inventory = append(view.Inventory, api.InventoryItemView{
			ItemID: s.Def.ID,
			Name:   s.Def.Name,
			Slot:   string(s.Def.Slot),
			Rarity: s.Def.Rarity,
			Qty:    s.Qty,
			Stats: api.ItemStatsView{
				Atk: s.Def.Stats.Atk, Def: s.Def.Stats.Def,
				Crit: s.Def.Stats.Crit, Aspd: s.Def.Stats.Aspd,
			},
		})
	}
	return view
}

func toMonsterView(m *domain.Monster) api.MonsterView {
	return api.MonsterView{
		ID:    m.ID,
		Kind:  string(m.Kind),
		Name:  m.Name,
		X:     round(m.Pos.X),
		Y:     round(m.Pos.Y),
		HP:    m.HP,
		MaxHP: m.MaxHP,
		Alive: m.Alive,
		Color: m.Color,
	}
}

func toDropView(d *domain.Drop) api.DropView {
	view := api.DropView{
		ID:        d.ID,
		ItemID:    d.ItemID,
		Name:      domain.ItemName(d.ItemID),
		Rarity:    "common",
		X:         round(d.Pos.X),
		Y:         round(d.Pos.Y),
		Qty:       d.Qty,
		ExpiresAt: d.ExpiresAt.UnixMilli(),
	}
	if def, ok := domain.LookupItem(d.ItemID); ok {
		view.Rarity = def.Rarity
	}
	return view
}

func toPartyView(w *domain.World, party *domain.Party) api.PartyView {
	view := api.PartyView{
		ID:       party.ID,
		LeaderID: party.LeaderID,
		Members:  make([]api.PartyMemberView, 0, len(party.Members)),
	}
	for _, id := range party.Members {
		p, ok := w.Player(id)
		if !ok {
			continue
		}
		view.Members = append(view.Members, api.PartyMemberView{
			ID:    p.ID,
			Name:  p.Name,
			Level: p.Level,
			Job:   string(p.Job),
			HP:    p.HP,
			MaxHP: p.MaxHP,
			Mode:  string(p.Mode),
		})
	}
	return view
}

func toChatViews(msgs []domain.ChatMessage) []api.ChatView {
	out := make([]api.ChatView, 0, len(msgs))
	for _, c := range msgs {
		out = append(out, api.ChatView{
			ID:         c.ID,
			CreatedAt:  isoString(c.CreatedAt),
			Kind:       string(c.Kind),
			From:       api.AuthorView{ID: c.From.ID, Name: c.From.Name},
			Text:       c.Text,
			ToPlayerID: optString(c.ToPlayerID),
		})
	}
	return out
}

func toBoardView(post domain.BoardPost) api.BoardView {
	return api.BoardView{
		ID:        post.ID,
		CreatedAt: isoString(post.CreatedAt),
		Author:    api.AuthorView{ID: post.Author.ID, Name: post.Author.Name},
		Content:   post.Content,
	}
}

// ToFxView переводит эффект в формат фрейма fx.
func ToFxView(e domain.EffectEvent) api.FxView {
	payload := e.Payload
	if payload == nil {
		payload = map[string]any{}
	}
	return api.FxView{
		ID:         e.ID,
		CreatedAt:  isoString(e.CreatedAt),
		Type:       e.Type,
		X:          round(e.Pos.X),
		Y:          round(e.Pos.Y),
		ByPlayerID: optString(e.ByPlayerID),
		Payload:    payload,
	}
}

// ToCastResultView - ответ на каст, одинаковый для сокета и бота.
func ToCastResultView(res systems.CastResult) api.CastResultView {
	view := api.CastResultView{
		OK:        res.OK,
		Spell:     res.Spell.String(),
		Reason:    res.Reason,
		RetryInMs: res.RetryIn.Milliseconds(),
		Target:    res.TargetID,
		Hits:      make([]api.HitView, 0, len(res.Hits)),
	}
	for _, h := range res.Hits {
		view.Hits = append(view.Hits, api.HitView{
			ID:     h.MonsterID,
			Damage: h.Damage,
			HP:     h.HPAfter,
			Alive:  h.Alive,
			Killed: h.Killed,
			Crit:   h.Crit,
		})
	}
	return view
}
