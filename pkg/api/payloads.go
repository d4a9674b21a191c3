package api

// --- КЛИЕНТ -> СЕРВЕР ---
//
// Фреймы сокета плоские: {"type":"move","dx":1,"dy":0}.
// Поле type разбирается отдельно, а весь фрейм целиком
// разворачивается в одну из структур ниже. HTTP API бота
// присылает те же структуры телом запроса.

// FrameType - общая часть всех клиентских фреймов.
type FrameType struct {
	Type string `json:"type" jsonschema:"required,description=Frame kind, e.g. move or cast"`
}

type NamePayload struct {
	Name string `json:"name"`
}

type ModePayload struct {
	Mode string `json:"mode" jsonschema:"enum=manual,enum=agent"`
}

// TextPayload используется чатом и намерением (intent).
type TextPayload struct {
	Text string `json:"text"`
}

type SignaturePayload struct {
	Name   string `json:"name"`
	Effect string `json:"effect" jsonschema:"enum=spark,enum=blink,enum=mark,enum=echo,enum=guard"`
}

type JobSkillPayload struct {
	Name  string `json:"name"`
	Spell string `json:"spell"`
}

type ItemPayload struct {
	ItemID string `json:"itemId"`
}

type AllocStatPayload struct {
	Stat string `json:"stat" jsonschema:"enum=str,enum=agi,enum=vit,enum=int,enum=dex,enum=luk"`
	N    int    `json:"n,omitempty"`
}

type CraftPayload struct {
	Recipe string `json:"recipe"`
}

// MovePayload - шаг в ручном режиме. Компоненты обрезаются до [-1, 1].
type MovePayload struct {
	Dx float64 `json:"dx"`
	Dy float64 `json:"dy"`
}

// GoalPayload - точка назначения. Указатели, чтобы отличить 0 от отсутствия.
type GoalPayload struct {
	X *float64 `json:"x"`
	Y *float64 `json:"y"`
}

// CastPayload - каст. Spell "job" означает навык профессии игрока.
type CastPayload struct {
	Spell string   `json:"spell"`
	X     *float64 `json:"x,omitempty"`
	Y     *float64 `json:"y,omitempty"`
}

type EmotePayload struct {
	Emote string `json:"emote"`
}

type BoardPayload struct {
	Content string `json:"content"`
}

type PartyJoinPayload struct {
	JoinCode string `json:"joinCode"`
}

type InterruptPayload struct {
	Level string `json:"level" jsonschema:"enum=off,enum=mentions,enum=nearby,enum=all"`
}

// --- HTTP ---

type EnsurePlayerRequest struct {
	PlayerID string `json:"playerId"`
	Name     string `json:"name"`
}

type JoinCodeRequest struct {
	PlayerID string `json:"playerId"`
}

// LinkRequest принимает либо сам код, либо joinToken вида CT1|<baseUrl>|<code>.
type LinkRequest struct {
	JoinCode  string `json:"joinCode,omitempty"`
	JoinToken string `json:"joinToken,omitempty"`
}

// --- DEBUG (только CT_TEST=1) ---

type TeleportPayload struct {
	PlayerID string  `json:"playerId"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
}

type SpawnMonsterPayload struct {
	ID    string  `json:"id,omitempty"`
	Kind  string  `json:"kind,omitempty"`
	Name  string  `json:"name,omitempty"`
	Color string  `json:"color,omitempty"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	MaxHP int     `json:"maxHp,omitempty"`
	HP    int     `json:"hp,omitempty"`
}

type GrantItemPayload struct {
	PlayerID string `json:"playerId"`
	ItemID   string `json:"itemId"`
	Qty      int    `json:"qty,omitempty"`
}

type KillMonsterPayload struct {
	PlayerID  string `json:"playerId"`
	MonsterID string `json:"monsterId"`
}

type SetJobPayload struct {
	PlayerID string `json:"playerId"`
	Job      string `json:"job"`
}
