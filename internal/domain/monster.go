package domain

import "time"

// MonsterKind - вид монстра.
type MonsterKind string

const (
	KindSlime MonsterKind = "slime"
	KindElite MonsterKind = "elite"
)

func ParseMonsterKind(s string) MonsterKind {
	if MonsterKind(s) == KindElite {
		return KindElite
	}
	return KindSlime
}

// Monster - враждебная сущность. Инвариант: HP > 0 тогда и только тогда, когда Alive.
// Мертвый монстр заморожен до респауна.
type Monster struct {
	ID    string
	Kind  MonsterKind
	Name  string
	Color string
	Pos   Point
	HP    int
	MaxHP int
	Alive bool

	// Блуждание: направление по осям, -1 или 1.
	VX           float64
	VY           float64
	NextWanderAt time.Time

	// RespawnAt задан только у мертвых монстров.
	RespawnAt time.Time
}

// KillXP - опыт за убийство.
func (m *Monster) KillXP() int {
	if m.Kind == KindElite {
		return EliteKillXP
	}
	return KillXP
}

// Wanders - элиты стоят на месте.
func (m *Monster) Wanders() bool {
	return m.Kind != KindElite
}

// rosterEntry - стартовый монстр.
type rosterEntry struct {
	id, name, color string
	pos             Point
	maxHP           int
}

func tile(tx, ty int, ox, oy float64) Point {
	return Point{X: float64(tx*TileSize) + ox, Y: float64(ty*TileSize) + oy}
}

// Пять слаймов у площади.
var startingRoster = []rosterEntry{
	{id: "m_slime_1", name: "Poring", color: "rgba(251, 182, 206, 0.9)", pos: tile(13, 9, 28, 18), maxHP: 18},
	{id: "m_slime_2", name: "Drops", color: "rgba(125, 211, 252, 0.9)", pos: tile(17, 9, 18, 6), maxHP: 14},
	{id: "m_slime_3", name: "Poporing", color: "rgba(134, 239, 172, 0.9)", pos: tile(15, 11, 70, 18), maxHP: 20},
	{id: "m_slime_4", name: "Marin", color: "rgba(94, 234, 212, 0.9)", pos: tile(12, 11, 18, 26), maxHP: 16},
	{id: "m_slime_5", name: "Metaling", color: "rgba(252, 211, 77, 0.92)", pos: tile(18, 7, 22, 18), maxHP: 22},
}

// SpawnPoints - куда возвращаются монстры после смерти.
var SpawnPoints = []Point{
	tile(13, 9, 24, 18),
	tile(17, 9, 18, 6),
	tile(15, 11, 70, 18),
	tile(12, 11, 18, 26),
	tile(18, 7, 22, 18),
}

// WanderBounds - прямоугольник, в котором блуждают слаймы.
func WanderBounds() (lo, hi Point) {
	return Point{X: TileSize, Y: TileSize},
		Point{X: float64((WorldWidth - 2) * TileSize), Y: float64((WorldHeight - 2) * TileSize)}
}

// EliteName - имя элиты, вызванной группой.
const EliteName = "King Poring"
