package logger

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Log - глобальный логгер сервера. До вызова Init равен nil,
// поэтому тесты пакетов вызывают Init в TestMain.
var Log *logrus.Logger

// Init настраивает глобальный логгер из окружения:
//
//	LOG_LEVEL  - trace|debug|info|warn|error (по умолчанию info)
//	LOG_FORMAT - json для продакшена, всё остальное даёт цветной текст
func Init() {
	InitWithOutput(os.Stdout)
}

// InitWithOutput то же самое, но пишет в заданный writer (удобно в тестах).
func InitWithOutput(w io.Writer) {
	Log = logrus.New()

	level, err := logrus.ParseLevel(envOr("LOG_LEVEL", "info"))
	if err != nil {
		level = logrus.InfoLevel
	}
	Log.SetLevel(level)

	if strings.ToLower(os.Getenv("LOG_FORMAT")) == "json" {
		Log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		Log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
			ForceColors:   true,
		})
	}

	Log.SetOutput(w)
}

// Component возвращает запись с полем component, как принято во всех системах.
func Component(name string) *logrus.Entry {
	return Log.WithField("component", name)
}

func envOr(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}
