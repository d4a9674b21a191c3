package domain

import "strings"

// Mode - кто управляет позицией игрока.
type Mode string

const (
	ModeManual Mode = "manual"
	ModeAgent  Mode = "agent"
)

func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeManual:
		return ModeManual, nil
	case ModeAgent:
		return ModeAgent, nil
	}
	return "", Invalid("invalid mode")
}

// InterruptLevel - какие сообщения чата бот хочет видеть.
type InterruptLevel string

const (
	InterruptOff      InterruptLevel = "off"
	InterruptMentions InterruptLevel = "mentions"
	InterruptNearby   InterruptLevel = "nearby"
	InterruptAll      InterruptLevel = "all"
)

func ParseInterrupt(s string) (InterruptLevel, error) {
	switch l := InterruptLevel(strings.ToLower(strings.TrimSpace(s))); l {
	case InterruptOff, InterruptMentions, InterruptNearby, InterruptAll:
		return l, nil
	}
	return "", Invalid("invalid level")
}

// Job - профессия. Назначается снаружи, CombatResolver только читает её.
type Job string

const (
	JobNovice   Job = "novice"
	JobKnight   Job = "knight"
	JobMage     Job = "mage"
	JobArcher   Job = "archer"
	JobBard     Job = "bard"
	JobAssassin Job = "assassin"
)

func ParseJob(s string) (Job, error) {
	switch j := Job(strings.ToLower(strings.TrimSpace(s))); j {
	case JobNovice, JobKnight, JobMage, JobArcher, JobBard, JobAssassin:
		return j, nil
	}
	return "", Invalid("invalid job")
}

// AtkBase - базовая атака профессии.
func (j Job) AtkBase() int {
	switch j {
	case JobKnight:
		return 4
	case JobMage, JobArcher, JobAssassin:
		return 3
	default:
		return 2
	}
}

// DefaultSkill - навык, который выдается при смене профессии.
func (j Job) DefaultSkill() JobSkill {
	switch j {
	case JobMage:
		return JobSkill{Name: "Fire Rain", Spell: "fireball"}
	case JobArcher:
		return JobSkill{Name: "Long Shot", Spell: "arrow"}
	case JobKnight:
		return JobSkill{Name: "Sweep", Spell: "cleave"}
	case JobAssassin:
		return JobSkill{Name: "Quick Stab", Spell: "flurry"}
	case JobBard:
		return JobSkill{Name: "Echo Shot", Spell: "signature"}
	default:
		return JobSkill{Name: "Practice Slash", Spell: "signature"}
	}
}

// SignatureEffect - косметика обычной атаки.
type SignatureEffect string

const (
	EffectSpark SignatureEffect = "spark"
	EffectBlink SignatureEffect = "blink"
	EffectMark  SignatureEffect = "mark"
	EffectEcho  SignatureEffect = "echo"
	EffectGuard SignatureEffect = "guard"
)

// ParseEffect возвращает spark для всего незнакомого.
func ParseEffect(s string) SignatureEffect {
	switch e := SignatureEffect(strings.ToLower(strings.TrimSpace(s))); e {
	case EffectSpark, EffectBlink, EffectMark, EffectEcho, EffectGuard:
		return e
	}
	return EffectSpark
}

type JobSkill struct {
	Name  string `json:"name"`
	Spell string `json:"spell"`
}

type Signature struct {
	Name    string          `json:"name"`
	Tagline string          `json:"tagline"`
	Effect  SignatureEffect `json:"effect"`
}

// Author - отправитель сообщения в ленте.
type Author struct {
	ID   string
	Name string
}

// SafeText убирает переводы строк и обрезает до maxLen рун.
func SafeText(s string, maxLen int) string {
	s = strings.Join(strings.FieldsFunc(s, func(r rune) bool {
		return r == '\r' || r == '\n' || r == '\t'
	}), " ")
	s = strings.TrimSpace(s)
	if r := []rune(s); len(r) > maxLen {
		s = string(r[:maxLen])
	}
	return s
}

// NormalizeName - пустое имя превращается в Anonymous.
func NormalizeName(s string) string {
	name := SafeText(s, MaxNameLen)
	if name == "" {
		return "Anonymous"
	}
	return name
}
