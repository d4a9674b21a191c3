package api

import (
	"errors"
	"math"
	"strings"
)

// Validator - интерфейс, который могут реализовать DTO
type Validator interface {
	Validate() error
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func (p MovePayload) Validate() error {
	if !finite(p.Dx) || !finite(p.Dy) {
		return errors.New("movement vector must be finite")
	}
	return nil
}

func (p GoalPayload) Validate() error {
	if p.X == nil || p.Y == nil {
		return errors.New("x and y are required")
	}
	if !finite(*p.X) || !finite(*p.Y) {
		return errors.New("invalid coords")
	}
	return nil
}

func (p CastPayload) Validate() error {
	if (p.X != nil && !finite(*p.X)) || (p.Y != nil && !finite(*p.Y)) {
		return errors.New("invalid coords")
	}
	return nil
}

func (p ModePayload) Validate() error {
	if strings.TrimSpace(p.Mode) == "" {
		return errors.New("mode is required")
	}
	return nil
}

func (p ItemPayload) Validate() error {
	if strings.TrimSpace(p.ItemID) == "" {
		return errors.New("itemId is required")
	}
	return nil
}

func (p AllocStatPayload) Validate() error {
	if strings.TrimSpace(p.Stat) == "" {
		return errors.New("stat is required")
	}
	if p.N < 0 || p.N > 99 {
		return errors.New("n out of range")
	}
	return nil
}

func (p PartyJoinPayload) Validate() error {
	if strings.TrimSpace(p.JoinCode) == "" {
		return errors.New("joinCode is required")
	}
	return nil
}

func (p InterruptPayload) Validate() error {
	if strings.TrimSpace(p.Level) == "" {
		return errors.New("level is required")
	}
	return nil
}

func (r EnsurePlayerRequest) Validate() error {
	if strings.TrimSpace(r.PlayerID) == "" {
		return errors.New("missing playerId")
	}
	return nil
}

func (r JoinCodeRequest) Validate() error {
	if strings.TrimSpace(r.PlayerID) == "" {
		return errors.New("missing playerId")
	}
	return nil
}

func (r LinkRequest) Validate() error {
	if strings.TrimSpace(r.JoinCode) == "" && strings.TrimSpace(r.JoinToken) == "" {
		return errors.New("missing joinCode")
	}
	return nil
}

func (p TeleportPayload) Validate() error {
	if strings.TrimSpace(p.PlayerID) == "" {
		return errors.New("missing playerId")
	}
	if !finite(p.X) || !finite(p.Y) {
		return errors.New("invalid coords")
	}
	return nil
}

func (p SpawnMonsterPayload) Validate() error {
	if !finite(p.X) || !finite(p.Y) {
		return errors.New("invalid coords")
	}
	if p.MaxHP < 0 || p.HP < 0 {
		return errors.New("hp must not be negative")
	}
	return nil
}

func (p GrantItemPayload) Validate() error {
	if strings.TrimSpace(p.PlayerID) == "" || strings.TrimSpace(p.ItemID) == "" {
		return errors.New("playerId and itemId are required")
	}
	return nil
}

func (p SetJobPayload) Validate() error {
	if strings.TrimSpace(p.PlayerID) == "" || strings.TrimSpace(p.Job) == "" {
		return errors.New("playerId and job are required")
	}
	return nil
}

func (p KillMonsterPayload) Validate() error {
	if strings.TrimSpace(p.PlayerID) == "" || strings.TrimSpace(p.MonsterID) == "" {
		return errors.New("playerId and monsterId are required")
	}
	return nil
}
