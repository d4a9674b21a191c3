package server

import (
	"net/http"
	"reflect"
	"sync"

	"clawtown-server/pkg/api"

	"github.com/invopop/jsonschema"
)

// clientFrames - тело каждого фрейма, который понимает сокет (поле type отдельно).
var clientFrames = map[string]any{
	"set_name":      api.NamePayload{},
	"set_mode":      api.ModePayload{},
	"set_intent":    api.TextPayload{},
	"set_interrupt": api.InterruptPayload{},
	"set_signature": api.SignaturePayload{},
	"set_job_skill": api.JobSkillPayload{},
	"equip":         api.ItemPayload{},
	"alloc_stat":    api.AllocStatPayload{},
	"craft":         api.CraftPayload{},
	"move":          api.MovePayload{},
	"set_goal":      api.GoalPayload{},
	"cast":          api.CastPayload{},
	"chat":          api.TextPayload{},
	"emote":         api.EmotePayload{},
	"ping":          struct{}{},
	"board_post":    api.BoardPayload{},
	"party_create":  struct{}{},
	"party_leave":   struct{}{},
	"party_code":    struct{}{},
	"party_join":    api.PartyJoinPayload{},
	"party_summon":  struct{}{},
}

// FrameSchemas - JSON Schema протокола сокета для авторов клиентов и ботов.
type FrameSchemas struct {
	Server *jsonschema.Schema            `json:"server"`
	Client map[string]*jsonschema.Schema `json:"client"`
}

var (
	schemaOnce sync.Once
	schemas    FrameSchemas
)

func buildFrameSchemas() FrameSchemas {
	reflector := jsonschema.Reflector{
		DoNotReference: true,
	}
	out := FrameSchemas{
		Server: reflector.ReflectFromType(reflect.TypeOf(api.ServerFrame{})),
		Client: make(map[string]*jsonschema.Schema, len(clientFrames)),
	}
	out.Server.Title = "server frame"
	for name, payload := range clientFrames {
		s := reflector.ReflectFromType(reflect.TypeOf(payload))
		s.Title = name
		out.Client[name] = s
	}
	return out
}

func (s *Server) handleSchema(w http.ResponseWriter, r *http.Request) {
	schemaOnce.Do(func() { schemas = buildFrameSchemas() })
	writeOK(w, schemas)
}
