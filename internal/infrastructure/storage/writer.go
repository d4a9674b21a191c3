package storage

import (
	"encoding/json"
	"fmt"
	"time"

	"clawtown-server/internal/domain"
)

const (
	// Magic отличает наши записи от чужих ключей в общем Redis/БД.
	Magic    string = "CTPG"
	Version1 uint32 = 1
)

// record - конверт сохраненного прогресса.
type record struct {
	Magic    string          `json:"magic"`
	Version  uint32          `json:"version"`
	PlayerID string          `json:"playerId"`
	SavedAt  int64           `json:"savedAt"`
	Progress domain.Progress `json:"progress"`
}

// Encode упаковывает прогресс игрока в JSON-конверт.
func Encode(playerID string, pr domain.Progress, savedAt time.Time) ([]byte, error) {
	data, err := json.Marshal(record{
		Magic:    Magic,
		Version:  Version1,
		PlayerID: playerID,
		SavedAt:  savedAt.UnixMilli(),
		Progress: pr,
	})
	if err != nil {
		return nil, fmt.Errorf("encode progress %s: %w", playerID, err)
	}
	return data, nil
}
