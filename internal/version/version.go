// Package version - номер сборки сервера для /api/version и лога старта.
//
//	go build -ldflags "-X clawtown-server/internal/version.BuildDate=2026-03-01 -X clawtown-server/internal/version.BuildCommit=$(git rev-parse --short HEAD)"
//
// Без ldflags коммит берется из VCS-данных, которые go build кладет в бинарник.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"time"
)

var (
	BuildDate   string // YYYY-MM-DD (UTC)
	BuildCommit string
)

// epoch - день открытия города, сборка N собрана через N дней после него.
var epoch = time.Date(2026, time.January, 5, 0, 0, 0, 0, time.UTC)

// Build - то, что отдает /api/version.
type Build struct {
	Number    int    `json:"build"`
	Date      string `json:"date,omitempty"`
	Commit    string `json:"commit"`
	Modified  bool   `json:"modified,omitempty"`
	GoVersion string `json:"goVersion"`
	Problem   string `json:"problem,omitempty"` // почему номер не посчитан
}

// Number - дней от epoch до даты сборки.
func Number(date string) (int, error) {
	if date == "" {
		return 0, fmt.Errorf("build date not set")
	}
	day, err := time.ParseInLocation(time.DateOnly, date, time.UTC)
	if err != nil {
		return 0, fmt.Errorf("bad build date %q: %w", date, err)
	}
	if day.Before(epoch) {
		return 0, fmt.Errorf("build date %s precedes %s", date, epoch.Format(time.DateOnly))
	}
	return int(day.Sub(epoch) / (24 * time.Hour)), nil
}

// Current собирает данные сборки. Ошибка даты не фатальна: номер будет 0.
func Current() Build {
	b := Build{
		Date:      BuildDate,
		Commit:    BuildCommit,
		GoVersion: runtime.Version(),
	}
	if n, err := Number(BuildDate); err != nil {
		b.Problem = err.Error()
	} else {
		b.Number = n
	}
	if b.Commit == "" {
		b.Commit, b.Modified = vcsRevision()
	}
	if b.Commit == "" {
		b.Commit = "dev"
	}
	return b
}

func vcsRevision() (rev string, modified bool) {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "", false
	}
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			rev = s.Value
			if len(rev) > 12 {
				rev = rev[:12]
			}
		case "vcs.modified":
			modified = s.Value == "true"
		}
	}
	return rev, modified
}

func (b Build) String() string {
	suffix := ""
	if b.Modified {
		suffix = "+dirty"
	}
	if b.Problem != "" {
		return fmt.Sprintf("clawtown dev build (%s), commit %s%s, %s", b.Problem, b.Commit, suffix, b.GoVersion)
	}
	return fmt.Sprintf("clawtown build %d (%s), commit %s%s, %s", b.Number, b.Date, b.Commit, suffix, b.GoVersion)
}
