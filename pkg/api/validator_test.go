package api

import (
	"math"
	"testing"
)

func ptr(v float64) *float64 { return &v }

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		payload Validator
		wantErr bool
	}{
		{"move ok", MovePayload{Dx: 1, Dy: -1}, false},
		{"move nan", MovePayload{Dx: math.NaN()}, true},
		{"move inf", MovePayload{Dy: math.Inf(1)}, true},
		{"goal ok", GoalPayload{X: ptr(0), Y: ptr(10)}, false},
		{"goal missing y", GoalPayload{X: ptr(1)}, true},
		{"goal nan", GoalPayload{X: ptr(math.NaN()), Y: ptr(1)}, true},
		{"cast no coords", CastPayload{Spell: "signature"}, false},
		{"cast coords", CastPayload{Spell: "fireball", X: ptr(5), Y: ptr(5)}, false},
		{"cast one axis", CastPayload{Spell: "fireball", X: ptr(5)}, false},
		{"cast inf", CastPayload{Spell: "fireball", Y: ptr(math.Inf(1))}, true},
		{"mode blank", ModePayload{Mode: "  "}, true},
		{"mode ok", ModePayload{Mode: "agent"}, false},
		{"item blank", ItemPayload{}, true},
		{"alloc ok", AllocStatPayload{Stat: "str", N: 3}, false},
		{"alloc no stat", AllocStatPayload{N: 1}, true},
		{"alloc negative", AllocStatPayload{Stat: "dex", N: -1}, true},
		{"alloc too many", AllocStatPayload{Stat: "dex", N: 100}, true},
		{"party join blank", PartyJoinPayload{}, true},
		{"interrupt blank", InterruptPayload{}, true},
		{"ensure blank", EnsurePlayerRequest{}, true},
		{"ensure ok", EnsurePlayerRequest{PlayerID: "p1"}, false},
		{"join code blank", JoinCodeRequest{PlayerID: " "}, true},
		{"link empty", LinkRequest{}, true},
		{"link by token", LinkRequest{JoinToken: "CT1|http://x|ABC"}, false},
		{"link by code", LinkRequest{JoinCode: "ABC123"}, false},
		{"teleport no player", TeleportPayload{X: 1, Y: 1}, true},
		{"teleport inf", TeleportPayload{PlayerID: "p1", X: math.Inf(-1)}, true},
		{"spawn negative hp", SpawnMonsterPayload{HP: -1}, true},
		{"spawn ok", SpawnMonsterPayload{X: 10, Y: 10, MaxHP: 5}, false},
		{"grant no item", GrantItemPayload{PlayerID: "p1"}, true},
		{"set job no job", SetJobPayload{PlayerID: "p1"}, true},
		{"kill ok", KillMonsterPayload{PlayerID: "p1", MonsterID: "m1"}, false},
		{"kill no monster", KillMonsterPayload{PlayerID: "p1"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.payload.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
