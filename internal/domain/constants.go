package domain

import "time"

// Размеры мира
const (
	WorldWidth  = 30 // тайлов
	WorldHeight = 18 // тайлов
	TileSize    = 32 // пикселей
)

// Такт симуляции
const TickInterval = 100 * time.Millisecond

// Игрок
const (
	MaxLevel        = 50
	StartHP         = 30
	StartStatPoints = 5
	MaxBaseStat     = 99
	MaxNameLen      = 24
	MaxIntentLen    = 200
	MaxChatLen      = 280

	ManualSpeed     = 8.0 // px за одну команду move
	AgentSpeed      = 6.0 // px за тик по каждой оси
	MoveMinInterval = 60 * time.Millisecond
	ChatMinInterval = 1200 * time.Millisecond

	ArrivalXP = 1
	ChatXP    = 1
	PickupXP  = 1
)

// Монстры
const (
	MonsterSpeed        = 1.4
	RespawnDelay        = 6 * time.Second
	KillXP              = 8
	EliteKillXP         = 30
	PartyShareTiles     = 8
	EliteSummonCost     = 10
	EliteSummonCooldown = 30 * time.Second
	EliteMaxHP          = 80
)

// Лут и соц. часть
const (
	DropTTL       = 45 * time.Second
	PickupRadius  = 22.0
	PartyCodeTTL  = 5 * time.Minute
	NearbyTiles   = 6
	ChatLogCap    = 100
	BoardCap      = 50
	FxRingCap     = 50
	HelloFxWindow = 10
	SnapshotChats = 35
	SnapshotBoard = 20
	BotWorldChats = 25
)

// Автопилот
const (
	AutopilotIdleAfter = 8 * time.Second
	AutopilotInterval  = 900 * time.Millisecond
	AutopilotSayGap    = 2500 * time.Millisecond
	AutopilotHuntRange = 520.0
	AutopilotHitRange  = 140.0
)

// System - отправитель системных сообщений.
var System = Author{ID: "system", Name: "Town"}
