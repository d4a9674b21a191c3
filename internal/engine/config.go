package engine

import (
	"time"

	"clawtown-server/internal/domain"
)

// Config хранит параметры запуска движка
type Config struct {
	// Seed - мастер-зерно мира. 0 - от времени.
	Seed int64

	TickInterval    time.Duration
	SweepInterval   time.Duration
	PersistInterval time.Duration

	// RequestTimeout - сколько HTTP и сокет ждут ответа актора.
	RequestTimeout time.Duration
	// LoadTimeout ограничивает чтение прогресса при появлении игрока.
	LoadTimeout time.Duration

	// Для тестов
	Now         func() time.Time
	EmptyRoster bool
}

// NewConfig создает конфиг по умолчанию (случайный сид)
func NewConfig() Config {
	return Config{
		Seed:            time.Now().UnixNano(),
		TickInterval:    domain.TickInterval,
		SweepInterval:   2 * time.Second,
		PersistInterval: 5 * time.Second,
		RequestTimeout:  2 * time.Second,
		LoadTimeout:     500 * time.Millisecond,
	}
}

func (c Config) withDefaults() Config {
	def := NewConfig()
	if c.TickInterval <= 0 {
		c.TickInterval = def.TickInterval
	}
	if c.SweepInterval <= 0 {
		c.SweepInterval = def.SweepInterval
	}
	if c.PersistInterval <= 0 {
		c.PersistInterval = def.PersistInterval
	}
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = def.RequestTimeout
	}
	if c.LoadTimeout <= 0 {
		c.LoadTimeout = def.LoadTimeout
	}
	return c
}
