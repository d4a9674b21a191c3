package domain

import (
	"io"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

// IDGen выдает монотонные ULID для эффектов и ленты.
// Не потокобезопасен: им владеет один World.
type IDGen struct {
	entropy io.Reader
}

func NewIDGen(seed int64) *IDGen {
	return &IDGen{entropy: ulid.Monotonic(rand.New(rand.NewSource(seed)), 0)}
}

// ULID - идентификатор, упорядоченный по времени создания.
func (g *IDGen) ULID(now time.Time) string {
	return ulid.MustNew(ulid.Timestamp(now), g.entropy).String()
}

// NewID - случайный идентификатор с префиксом (группы, дропы, элиты).
func NewID(prefix string) string {
	return prefix + "_" + uuid.NewString()
}
