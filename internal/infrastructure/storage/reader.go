package storage

import (
	"encoding/json"
	"errors"
	"fmt"

	"clawtown-server/internal/domain"
)

var ErrCorrupt = errors.New("corrupt progress record")

// Decode разбирает конверт и проверяет заголовок.
func Decode(data []byte) (string, domain.Progress, error) {
	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		return "", domain.Progress{}, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}

	if rec.Magic != Magic {
		return "", domain.Progress{}, fmt.Errorf("%w: invalid magic %q", ErrCorrupt, rec.Magic)
	}
	if rec.Version != Version1 {
		return "", domain.Progress{}, fmt.Errorf("%w: unsupported version %d (expected %d)", ErrCorrupt, rec.Version, Version1)
	}
	return rec.PlayerID, rec.Progress, nil
}
