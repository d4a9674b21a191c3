package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config - параметры сервера. Читается из окружения CT_*, флаги main переопределяют часть.
type Config struct {
	Server struct {
		Host          string
		Port          int
		PublicBaseURL string // адрес, который видят боты; пусто - http://host:port
		TestMode      bool   // CT_TEST=1 открывает /api/debug
	}
	World struct {
		Seed            int64
		TickInterval    time.Duration
		PersistInterval time.Duration
		JoinCodeTTL     time.Duration
	}
	Database struct {
		URL string
	}
	Redis struct {
		Addr     string
		Password string
		DB       int
		CacheTTL time.Duration
	}
}

// Default - значения по умолчанию.
func Default() Config {
	var c Config
	c.Server.Host = "0.0.0.0"
	c.Server.Port = 8787
	c.World.TickInterval = 100 * time.Millisecond
	c.World.PersistInterval = 5 * time.Second
	c.World.JoinCodeTTL = 5 * time.Minute
	c.Redis.CacheTTL = 10 * time.Minute
	return c
}

// Load читает окружение поверх Default и проверяет результат.
func Load() (Config, error) {
	return FromEnv(os.LookupEnv)
}

// FromEnv - то же, что Load, но с произвольным источником переменных (тесты).
func FromEnv(lookup func(string) (string, bool)) (Config, error) {
	c := Default()
	var errs []error

	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}
	num := func(key string, dst *int) {
		v, ok := lookup(key)
		if !ok || strings.TrimSpace(v) == "" {
			return
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", key, err))
			return
		}
		*dst = n
	}
	millis := func(key string, dst *time.Duration) {
		var n int
		num(key, &n)
		if n != 0 {
			*dst = time.Duration(n) * time.Millisecond
		}
	}
	dur := func(key string, dst *time.Duration) {
		v, ok := lookup(key)
		if !ok || strings.TrimSpace(v) == "" {
			return
		}
		d, err := time.ParseDuration(strings.TrimSpace(v))
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", key, err))
			return
		}
		*dst = d
	}

	str("CT_HOST", &c.Server.Host)
	num("CT_PORT", &c.Server.Port)
	str("CT_PUBLIC_BASE_URL", &c.Server.PublicBaseURL)
	if v, ok := lookup("CT_TEST"); ok {
		c.Server.TestMode = strings.TrimSpace(v) == "1" || strings.EqualFold(strings.TrimSpace(v), "true")
	}

	if v, ok := lookup("CT_SEED"); ok && strings.TrimSpace(v) != "" {
		seed, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("CT_SEED: %w", err))
		}
		c.World.Seed = seed
	}
	millis("CT_TICK_MS", &c.World.TickInterval)
	dur("CT_PERSIST_INTERVAL", &c.World.PersistInterval)
	dur("CT_JOIN_CODE_TTL", &c.World.JoinCodeTTL)

	str("CT_DATABASE_URL", &c.Database.URL)
	str("CT_REDIS_ADDR", &c.Redis.Addr)
	str("CT_REDIS_PASSWORD", &c.Redis.Password)
	num("CT_REDIS_DB", &c.Redis.DB)
	dur("CT_REDIS_CACHE_TTL", &c.Redis.CacheTTL)

	if err := errors.Join(errs...); err != nil {
		return c, err
	}
	return c, c.Validate()
}

// Validate возвращает ошибку с именем первого неверного поля.
func (c Config) Validate() error {
	switch {
	case c.Server.Port <= 0 || c.Server.Port > 65535:
		return fmt.Errorf("invalid port %d", c.Server.Port)
	case c.World.TickInterval < 10*time.Millisecond:
		return fmt.Errorf("tick interval %v is too short", c.World.TickInterval)
	case c.World.PersistInterval <= 0:
		return errors.New("persist interval must be positive")
	case c.World.JoinCodeTTL <= 0:
		return errors.New("join code ttl must be positive")
	case c.Redis.DB < 0:
		return fmt.Errorf("invalid redis db %d", c.Redis.DB)
	}
	if c.Server.PublicBaseURL != "" {
		u, err := url.Parse(c.Server.PublicBaseURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("invalid public base url %q", c.Server.PublicBaseURL)
		}
	}
	return nil
}

// Addr - адрес для http.Server.
func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// SetAddr разбирает host:port из флага -addr.
func (c *Config) SetAddr(addr string) error {
	i := strings.LastIndex(addr, ":")
	if i < 0 {
		return fmt.Errorf("invalid addr %q", addr)
	}
	port, err := strconv.Atoi(addr[i+1:])
	if err != nil {
		return fmt.Errorf("invalid addr %q: %w", addr, err)
	}
	c.Server.Host = addr[:i]
	c.Server.Port = port
	return c.Validate()
}

// BaseURL - публичный адрес без завершающего слеша.
func (c Config) BaseURL() string {
	if c.Server.PublicBaseURL != "" {
		return strings.TrimRight(c.Server.PublicBaseURL, "/")
	}
	host := c.Server.Host
	if host == "" || host == "0.0.0.0" {
		host = "localhost"
	}
	return fmt.Sprintf("http://%s:%d", host, c.Server.Port)
}

// WsURL - адрес сокета для того же публичного хоста.
func (c Config) WsURL() string {
	base := c.BaseURL()
	switch {
	case strings.HasPrefix(base, "https://"):
		return "wss://" + strings.TrimPrefix(base, "https://") + "/ws"
	case strings.HasPrefix(base, "http://"):
		return "ws://" + strings.TrimPrefix(base, "http://") + "/ws"
	}
	return base + "/ws"
}
