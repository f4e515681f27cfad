package console

import (
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/pixil98/go-arena/internal/arena"
)

const statusTemplate = `Mode: {{ .Mode.String | title }}
{{- with .LocalPlayer }}
Player: {{ .Name }} ({{ .ID | trunc 8 }})
{{- if .Alive }}
Health: {{ .Health }}/{{ .MaxHealth }}  Streak: {{ .KillStreak }}
{{- else }}
Health: dead, waiting to respawn
{{- end }}
Position: {{ printf "%.1f, %.1f, %.1f" .Position.X .Position.Y .Position.Z }}
{{- else }}
Player: none
{{- end }}
Rocks in flight: {{ len .Projectiles }}
{{- if .RemotePlayers }}
Others: {{ join ", " (names .RemotePlayers) }}
{{- end }}
Settings: health {{ .Settings.MaxHealth }}, damage {{ .Settings.RockDamage }}, respawn {{ .Settings.RespawnTimeMs }}ms, speed {{ .Settings.MovementSpeed }}, throw {{ .Settings.ThrowForce }}`

func templateFuncs() template.FuncMap {
	funcs := sprig.TxtFuncMap()
	funcs["names"] = func(players []arena.Player) []string {
		names := make([]string, len(players))
		for i, p := range players {
			names[i] = p.Name
		}
		return names
	}
	return funcs
}

func renderStatus(tmpl *template.Template, snap arena.Snapshot) (string, error) {
	var sb strings.Builder
	if err := tmpl.Execute(&sb, snap); err != nil {
		return "", err
	}
	return sb.String(), nil
}
