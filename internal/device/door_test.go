package device

import (
	"testing"

	"github.com/casalab/casahub/internal/event"
)

func TestDoorLifecycle(t *testing.T) {
	d := NewDoor("porta_entrada", "Porta da Entrada")
	if d.State() != DoorLocked {
		t.Fatalf("initial state = %q, want %q", d.State(), DoorLocked)
	}

	steps := []struct {
		command string
		want    string
	}{
		{"destrancar", DoorUnlocked},
		{"abrir", DoorOpen},
		{"fechar", DoorUnlocked},
		{"trancar", DoorLocked},
	}
	for _, step := range steps {
		out, err := d.Execute(step.command, nil)
		if err != nil {
			t.Fatalf("%s error = %v", step.command, err)
		}
		if out.Blocked {
			t.Fatalf("%s blocked: %+v", step.command, out)
		}
		if d.State() != step.want {
			t.Fatalf("state after %s = %q, want %q", step.command, d.State(), step.want)
		}
	}
}

func TestDoorLockWhileOpenCountsInvalidAttempt(t *testing.T) {
	d := NewDoor("porta", "Porta")
	mustExecute(t, d, "destrancar", nil)
	mustExecute(t, d, "abrir", nil)

	out, err := d.Execute("trancar", nil)
	if err != nil {
		t.Fatalf("trancar error = %v", err)
	}
	if !out.Blocked {
		t.Fatal("trancar while ABERTA was not blocked")
	}
	if out.Reason != ReasonInvalidCommand {
		t.Errorf("reason = %q, want %q", out.Reason, ReasonInvalidCommand)
	}
	if d.State() != DoorOpen {
		t.Errorf("state = %q, want unchanged %q", d.State(), DoorOpen)
	}
	if got := d.Attributes()["tentativas_invalidas"]; got != 1 {
		t.Errorf("tentativas_invalidas = %v, want 1", got)
	}

	// The blocked event carries the counter.
	if len(out.Events) != 1 || out.Events[0].Type != event.TypeCommandExecuted {
		t.Fatalf("events = %+v, want single COMANDO_EXECUTADO", out.Events)
	}
	if got := out.Events[0].Payload["tentativas_invalidas"]; got != 1 {
		t.Errorf("event tentativas_invalidas = %v, want 1", got)
	}

	// Counting repeats on every attempt.
	mustExecute(t, d, "trancar", nil)
	if got := d.Attributes()["tentativas_invalidas"]; got != 2 {
		t.Errorf("tentativas_invalidas = %v, want 2", got)
	}
}

func TestDoorInvalidPairsAreBlocked(t *testing.T) {
	tests := []struct {
		state   string
		command string
	}{
		{DoorLocked, "abrir"},
		{DoorLocked, "fechar"},
		{DoorLocked, "trancar"},
		{DoorUnlocked, "destrancar"},
		{DoorUnlocked, "fechar"},
		{DoorOpen, "abrir"},
		{DoorOpen, "destrancar"},
	}

	for _, tt := range tests {
		t.Run(tt.state+"/"+tt.command, func(t *testing.T) {
			d := NewDoor("porta", "Porta")
			forceDoorState(t, d, tt.state)

			out, err := d.Execute(tt.command, nil)
			if err != nil {
				t.Fatalf("%s error = %v", tt.command, err)
			}
			if !out.Blocked {
				t.Errorf("%s in %s was not blocked", tt.command, tt.state)
			}
			if d.State() != tt.state {
				t.Errorf("state = %q, want unchanged %q", d.State(), tt.state)
			}
		})
	}
}

// forceDoorState walks the door to the requested state through real commands.
func forceDoorState(t *testing.T, d *Door, state string) {
	t.Helper()
	switch state {
	case DoorLocked:
	case DoorUnlocked:
		mustExecute(t, d, "destrancar", nil)
	case DoorOpen:
		mustExecute(t, d, "destrancar", nil)
		mustExecute(t, d, "abrir", nil)
	default:
		t.Fatalf("unknown door state %q", state)
	}
}

func mustExecute(t *testing.T, d Device, command string, args Args) Outcome {
	t.Helper()
	out, err := d.Execute(command, args)
	if err != nil {
		t.Fatalf("%s error = %v", command, err)
	}
	return out
}
