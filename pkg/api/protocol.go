package api

// --- СЕРВЕР -> КЛИЕНТ ---

// Типы серверных фреймов.
const (
	FrameHello      = "hello"
	FrameState      = "state"
	FrameFx         = "fx"
	FramePartyCode  = "party_code"
	FramePartyError = "party_error"
)

// ServerFrame - корневой объект всего, что уходит в сокет.
// Заполнены только поля, относящиеся к Type.
type ServerFrame struct {
	Type string `json:"type"`

	// You - публичная карточка игрока, которому принадлежит сокет (только в hello).
	You *PlayerView `json:"you,omitempty"`

	// State - полный снимок мира (hello, state).
	State *Snapshot `json:"state,omitempty"`

	// RecentFx - хвост недавних эффектов для тех, кто подключился посреди боя.
	RecentFx []FxView `json:"recentFx,omitempty"`

	Fx *FxView `json:"fx,omitempty"`

	JoinCode string `json:"joinCode,omitempty"`
	Error    string `json:"error,omitempty"`
}

// WorldInfo - размеры мира в тайлах.
type WorldInfo struct {
	Width    int `json:"width"`
	Height   int `json:"height"`
	TileSize int `json:"tileSize"`
}

// Snapshot - проекция состояния мира на один тик.
type Snapshot struct {
	Tick     uint64        `json:"tick"`
	World    WorldInfo     `json:"world"`
	Players  []PlayerView  `json:"players"`
	Monsters []MonsterView `json:"monsters"`
	Drops    []DropView    `json:"drops"`
	Parties  []PartyView   `json:"parties"`
	Board    []BoardView   `json:"board"`
	Chats    []ChatView    `json:"chats"`
}

// BotWorldView - снимок для бота: свой игрок плюс отфильтрованный чат.
type BotWorldView struct {
	Snapshot
	You PlayerView `json:"you"`
}

type BaseStatsView struct {
	Str int `json:"str"`
	Agi int `json:"agi"`
	Vit int `json:"vit"`
	Int int `json:"int"`
	Dex int `json:"dex"`
	Luk int `json:"luk"`
}

type DerivedStatsView struct {
	Atk  int     `json:"atk"`
	Def  int     `json:"def"`
	Crit float64 `json:"crit"`
	Aspd float64 `json:"aspd"`
}

type ItemStatsView struct {
	Atk  int     `json:"atk,omitempty"`
	Def  int     `json:"def,omitempty"`
	Crit float64 `json:"crit,omitempty"`
	Aspd float64 `json:"aspd,omitempty"`
}

type InventoryItemView struct {
	ItemID string        `json:"itemId"`
	Name   string        `json:"name"`
	Slot   string        `json:"slot"`
	Rarity string        `json:"rarity"`
	Qty    int           `json:"qty"`
	Stats  ItemStatsView `json:"stats"`
}

// EquipmentView - nil в слоте сериализуется как null (слот пуст).
type EquipmentView struct {
	Weapon    *string `json:"weapon"`
	Armor     *string `json:"armor"`
	Accessory *string `json:"accessory"`
}

type JobSkillView struct {
	Name  string `json:"name"`
	Spell string `json:"spell"`
}

type SignatureView struct {
	Name    string `json:"name"`
	Tagline string `json:"tagline"`
	Effect  string `json:"effect"`
}

type MetaView struct {
	Kills   int `json:"kills"`
	Crafts  int `json:"crafts"`
	Pickups int `json:"pickups"`
}

type BotActivityView struct {
	LastSeenAt   *int64 `json:"lastSeenAt"`
	LastActionAt *int64 `json:"lastActionAt"`
}

type PointView struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// PlayerView - публичная карточка игрока.
type PlayerView struct {
	ID             string              `json:"id"`
	Name           string              `json:"name"`
	X              int                 `json:"x"`
	Y              int                 `json:"y"`
	Facing         string              `json:"facing"`
	Mode           string              `json:"mode"`
	Goal           *PointView          `json:"goal"`
	Intent         string              `json:"intent"`
	Interrupt      string              `json:"interrupt"`
	HP             int                 `json:"hp"`
	MaxHP          int                 `json:"maxHp"`
	Level          int                 `json:"level"`
	XP             int                 `json:"xp"`
	XPToNext       int                 `json:"xpToNext"`
	StatPoints     int                 `json:"statPoints"`
	BaseStats      BaseStatsView       `json:"baseStats"`
	Stats          DerivedStatsView    `json:"stats"`
	Zenny          int                 `json:"zenny"`
	Meta           MetaView            `json:"meta"`
	PartyID        *string             `json:"partyId"`
	Job            string              `json:"job"`
	Equipment      EquipmentView       `json:"equipment"`
	Inventory      []InventoryItemView `json:"inventory"`
	JobSkill       JobSkillView        `json:"jobSkill"`
	SignatureSpell SignatureView       `json:"signatureSpell"`
	LinkedBot      bool                `json:"linkedBot"`
	Bot            BotActivityView     `json:"bot"`
}

type MonsterView struct {
	ID    string `json:"id"`
	Kind  string `json:"kind"`
	Name  string `json:"name"`
	X     int    `json:"x"`
	Y     int    `json:"y"`
	HP    int    `json:"hp"`
	MaxHP int    `json:"maxHp"`
	Alive bool   `json:"alive"`
	Color string `json:"color,omitempty"`
}

type DropView struct {
	ID        string `json:"id"`
	ItemID    string `json:"itemId"`
	Name      string `json:"name"`
	Rarity    string `json:"rarity"`
	X         int    `json:"x"`
	Y         int    `json:"y"`
	Qty       int    `json:"qty"`
	ExpiresAt int64  `json:"expiresAt"`
}

type PartyMemberView struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Level int    `json:"level"`
	Job   string `json:"job"`
	HP    int    `json:"hp"`
	MaxHP int    `json:"maxHp"`
	Mode  string `json:"mode"`
}

type PartyView struct {
	ID       string            `json:"id"`
	LeaderID string            `json:"leaderId"`
	Members  []PartyMemberView `json:"members"`
}

type AuthorView struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type ChatView struct {
	ID         string     `json:"id"`
	CreatedAt  string     `json:"createdAt"`
	Kind       string     `json:"kind"`
	From       AuthorView `json:"from"`
	Text       string     `json:"text"`
	ToPlayerID *string    `json:"toPlayerId"`
}

type BoardView struct {
	ID        string     `json:"id"`
	CreatedAt string     `json:"createdAt"`
	Author    AuthorView `json:"author"`
	Content   string     `json:"content"`
}

// FxView - эфемерное событие эффекта. Payload произвольный: геометрия, список попаданий, miss.
type FxView struct {
	ID         string         `json:"id"`
	CreatedAt  string         `json:"createdAt"`
	Type       string         `json:"type"`
	X          int            `json:"x"`
	Y          int            `json:"y"`
	ByPlayerID *string        `json:"byPlayerId"`
	Payload    map[string]any `json:"payload"`
}

// HitView - итог по одному монстру после каста.
type HitView struct {
	ID     string `json:"id"`
	Damage int    `json:"dmg"`
	HP     int    `json:"hp"`
	Alive  bool   `json:"alive"`
	Killed bool   `json:"killed"`
	Crit   bool   `json:"crit,omitempty"`
}

// CastResultView - единый ответ на каст для всех видов заклинаний.
type CastResultView struct {
	OK        bool      `json:"ok"`
	Spell     string    `json:"spell,omitempty"`
	Reason    string    `json:"reason,omitempty"`
	RetryInMs int64     `json:"retryInMs,omitempty"`
	Target    string    `json:"target,omitempty"`
	Hits      []HitView `json:"hits"`
}

// --- HTTP ---

// ErrorResponse - тело любой ошибки HTTP API.
type ErrorResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}

type PlayerResponse struct {
	OK     bool       `json:"ok"`
	Player PlayerView `json:"player"`
}

type JoinCodeResponse struct {
	OK        bool   `json:"ok"`
	JoinCode  string `json:"joinCode"`
	JoinToken string `json:"joinToken"`
	ExpiresAt int64  `json:"expiresAt"`
	BaseURL   string `json:"baseUrl"`
}

type LinkResponse struct {
	OK         bool   `json:"ok"`
	BotToken   string `json:"botToken"`
	PlayerID   string `json:"playerId"`
	APIBaseURL string `json:"apiBaseUrl"`
	WsURL      string `json:"wsUrl"`
}

type NearbyView struct {
	Players     int `json:"players"`
	Monsters    int `json:"monsters"`
	Drops       int `json:"drops"`
	RadiusTiles int `json:"radiusTiles"`
}

type StatusResponse struct {
	OK     bool       `json:"ok"`
	Time   string     `json:"time"`
	You    PlayerView `json:"you"`
	Nearby NearbyView `json:"nearby"`
}

type WorldResponse struct {
	OK       bool         `json:"ok"`
	Snapshot BotWorldView `json:"snapshot"`
}

type CastResponse struct {
	OK     bool           `json:"ok"`
	Result CastResultView `json:"result"`
}

type PartyResponse struct {
	OK        bool   `json:"ok"`
	PartyID   string `json:"partyId,omitempty"`
	JoinCode  string `json:"joinCode,omitempty"`
	ExpiresAt int64  `json:"expiresAt,omitempty"`
}

type OKResponse struct {
	OK bool `json:"ok"`
}
