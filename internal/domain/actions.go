package domain

import "strings"

// ActionType - Внутренний числовой идентификатор команды
type ActionType uint8

const (
	ActionUnknown ActionType = iota
	ActionSetName
	ActionSetMode
	ActionSetIntent
	ActionSetInterrupt
	ActionSetSignature
	ActionSetJobSkill
	ActionEquip
	ActionAllocStat
	ActionCraft
	ActionMove
	ActionSetGoal
	ActionCast
	ActionChat
	ActionEmote
	ActionPing
	ActionBoardPost
	ActionPartyCreate
	ActionPartyLeave
	ActionPartyCode
	ActionPartyJoin
	ActionPartySummon

	// Служебные, клиент их прислать не может
	ActionDebugTeleport
	ActionDebugGrantItem
	ActionDebugSetJob
	ActionDebugSpawnMonster
	ActionDebugKillMonster
)

// Маппинг для конвертации фрейма -> Domain. Только то, что можно прислать в сокет.
var actionStringToCmd = map[string]ActionType{
	"set_name":      ActionSetName,
	"set_mode":      ActionSetMode,
	"set_intent":    ActionSetIntent,
	"set_interrupt": ActionSetInterrupt,
	"set_signature": ActionSetSignature,
	"set_job_skill": ActionSetJobSkill,
	"equip":         ActionEquip,
	"alloc_stat":    ActionAllocStat,
	"craft":         ActionCraft,
	"move":          ActionMove,
	"set_goal":      ActionSetGoal,
	"cast":          ActionCast,
	"chat":          ActionChat,
	"emote":         ActionEmote,
	"ping":          ActionPing,
	"board_post":    ActionBoardPost,
	"party_create":  ActionPartyCreate,
	"party_leave":   ActionPartyLeave,
	"party_code":    ActionPartyCode,
	"party_join":    ActionPartyJoin,
	"party_summon":  ActionPartySummon,
}

// Маппинг для логов Domain -> String
var actionCmdToString = map[ActionType]string{
	ActionDebugTeleport:     "debug_teleport",
	ActionDebugGrantItem:    "debug_grant_item",
	ActionDebugSetJob:       "debug_set_job",
	ActionDebugSpawnMonster: "debug_spawn_monster",
	ActionDebugKillMonster:  "debug_kill_monster",
}

func init() {
	for s, a := range actionStringToCmd {
		actionCmdToString[a] = s
	}
}

// ParseAction конвертирует поле type из фрейма в ActionType
func ParseAction(s string) ActionType {
	if val, ok := actionStringToCmd[strings.ToLower(strings.TrimSpace(s))]; ok {
		return val
	}
	return ActionUnknown
}

// String реализует интерфейс Stringer (для логов)
func (a ActionType) String() string {
	if val, ok := actionCmdToString[a]; ok {
		return val
	}
	return "unknown"
}

// ClientActions возвращает имена всех фреймов, которые понимает сервер.
func ClientActions() []string {
	out := make([]string, 0, len(actionStringToCmd))
	for s := range actionStringToCmd {
		out = append(out, s)
	}
	return out
}
