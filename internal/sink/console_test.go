package sink

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"

	"github.com/casalab/casahub/internal/event"
)

func newEvent(t event.Type, payload map[string]any) event.Event {
	return event.New(t, time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC), payload)
}

func TestConsole(t *testing.T) {
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = false })

	tests := []struct {
		name    string
		verbose bool
		evt     event.Event
		want    string // substring of output; empty means no output at all
	}{
		{
			name: "executed command",
			evt: newEvent(event.TypeCommandExecuted, map[string]any{
				"id": "luz_sala", "comando": "ligar", "antes": "DESLIGADA", "depois": "LIGADA", "bloqueado": false,
			}),
			want: "[comando] luz_sala: ligar (DESLIGADA -> LIGADA)",
		},
		{
			name: "blocked command",
			evt: newEvent(event.TypeCommandExecuted, map[string]any{
				"id": "luz_sala", "comando": "ligar", "antes": "LIGADA", "depois": "LIGADA",
				"bloqueado": true, "motivo": "transicao_redundante",
			}),
			want: "[bloqueado] luz_sala: ligar (LIGADA) motivo=transicao_redundante",
		},
		{
			name: "state transition",
			evt: newEvent(event.TypeStateTransition, map[string]any{
				"id": "porta", "tipo": "PORTA", "evento": "abrir", "antes": "DESTRANCADA", "depois": "ABERTA",
			}),
			want: "[estado] porta: DESTRANCADA -> ABERTA (abrir)",
		},
		{
			name: "error",
			evt:  newEvent(event.TypeError, map[string]any{"erro": "dispositivo não encontrado"}),
			want: "[erro] dispositivo não encontrado",
		},
		{
			name: "attribute change suppressed when quiet",
			evt: newEvent(event.TypeAttributeChanged, map[string]any{
				"id": "luz_sala", "atributo": "brilho", "antes": 20, "depois": 90,
			}),
			want: "",
		},
		{
			name:    "attribute change in verbose mode",
			verbose: true,
			evt: newEvent(event.TypeAttributeChanged, map[string]any{
				"id": "luz_sala", "atributo": "brilho", "antes": 20, "depois": 90,
			}),
			want: "[atributo] luz_sala: brilho = 90 (antes 20)",
		},
		{
			name:    "routine summary in verbose mode",
			verbose: true,
			evt: newEvent(event.TypeRoutineExecuted, map[string]any{
				"rotina": "boa_noite", "total": 3, "sucesso": 2, "falhas": 1,
			}),
			want: "[rotina] boa_noite: 2/3 ok, 1 falhas",
		},
		{
			name: "device added",
			evt:  newEvent(event.TypeDeviceAdded, map[string]any{"id": "persiana", "tipo": "PERSIANA", "nome": "Persiana"}),
			want: "[dispositivo] + persiana (PERSIANA)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			c := NewConsole(&buf, tt.verbose)
			if err := c.Notify(tt.evt); err != nil {
				t.Fatalf("Notify: %v", err)
			}
			out := buf.String()
			if tt.want == "" {
				if out != "" {
					t.Errorf("expected no output, got %q", out)
				}
				return
			}
			if !strings.Contains(out, tt.want) {
				t.Errorf("output %q does not contain %q", out, tt.want)
			}
		})
	}
}
