package device

import (
	"testing"

	"github.com/casalab/casahub/internal/event"
)

func TestCoffeeMachinePrepareAndFinish(t *testing.T) {
	c := NewCoffeeMachine("cafeteira", "Cafeteira da Cozinha")
	if c.State() != CoffeeOff {
		t.Fatalf("initial state = %q, want %q", c.State(), CoffeeOff)
	}

	mustExecute(t, c, "ligar", nil)
	if c.State() != CoffeeReady {
		t.Fatalf("state after ligar = %q, want %q", c.State(), CoffeeReady)
	}

	out := mustExecute(t, c, "preparar_bebida", nil)
	if out.Blocked || out.To != CoffeeBrewing {
		t.Fatalf("preparar_bebida outcome = %+v, want transition to %q", out, CoffeeBrewing)
	}

	// Resources are consumed on finalizar_preparo, not before.
	attrs := c.Attributes()
	if attrs["agua_ml"] != MaxWaterML || attrs["capsulas"] != MaxCapsules {
		t.Errorf("resources consumed during preparo: %v", attrs)
	}

	out = mustExecute(t, c, "finalizar_preparo", nil)
	if out.To != CoffeeReady {
		t.Fatalf("finalizar_preparo landed in %q, want %q", out.To, CoffeeReady)
	}
	attrs = c.Attributes()
	if attrs["agua_ml"] != MaxWaterML-WaterPerDrinkML {
		t.Errorf("agua_ml = %v, want %d", attrs["agua_ml"], MaxWaterML-WaterPerDrinkML)
	}
	if attrs["capsulas"] != MaxCapsules-1 {
		t.Errorf("capsulas = %v, want %d", attrs["capsulas"], MaxCapsules-1)
	}
	if attrs["total_bebidas"] != 1 {
		t.Errorf("total_bebidas = %v, want 1", attrs["total_bebidas"])
	}
}

func TestCoffeeMachineRunsOutOfResources(t *testing.T) {
	c := NewCoffeeMachine("cafeteira", "Cafeteira")
	mustExecute(t, c, "ligar", nil)

	if err := c.SetAttribute("agua_ml", 50); err != nil {
		t.Fatalf("SetAttribute(agua_ml) error = %v", err)
	}
	if err := c.SetAttribute("capsulas", 0); err != nil {
		t.Fatalf("SetAttribute(capsulas) error = %v", err)
	}

	out := mustExecute(t, c, "preparar_bebida", nil)
	if out.Blocked {
		t.Fatalf("resource shortfall must be a real transition, got blocked outcome")
	}
	if out.To != CoffeeNoResources {
		t.Fatalf("preparar_bebida landed in %q, want %q", out.To, CoffeeNoResources)
	}
	if out.Reason != ReasonNoResources {
		t.Errorf("reason = %q, want %q", out.Reason, ReasonNoResources)
	}

	// COMANDO_EXECUTADO carries motivo and the current resource levels,
	// and the state change also emits TRANSICAO_ESTADO.
	var cmd, trans bool
	for _, evt := range out.Events {
		switch evt.Type {
		case event.TypeCommandExecuted:
			cmd = true
			if evt.Payload["motivo"] != ReasonNoResources {
				t.Errorf("motivo = %v, want %q", evt.Payload["motivo"], ReasonNoResources)
			}
			if evt.Payload["agua_ml"] != 50 || evt.Payload["capsulas"] != 0 {
				t.Errorf("resource payload = %v", evt.Payload)
			}
		case event.TypeStateTransition:
			trans = true
		}
	}
	if !cmd || !trans {
		t.Errorf("events = %+v, want COMANDO_EXECUTADO and TRANSICAO_ESTADO", out.Events)
	}

	out = mustExecute(t, c, "reabastecer_maquina", nil)
	if out.To != CoffeeReady {
		t.Fatalf("reabastecer_maquina landed in %q, want %q", out.To, CoffeeReady)
	}
	attrs := c.Attributes()
	if attrs["agua_ml"] != MaxWaterML || attrs["capsulas"] != MaxCapsules {
		t.Errorf("refill left %v", attrs)
	}
}

// Refilling works preventively while the machine is off: state stays
// DESLIGADA, no TRANSICAO_ESTADO, resources back at maximum.
func TestCoffeeMachinePreventiveRefillWhileOff(t *testing.T) {
	c := NewCoffeeMachine("cafeteira", "Cafeteira")
	if err := c.SetAttribute("agua_ml", 200); err != nil {
		t.Fatalf("SetAttribute(agua_ml) error = %v", err)
	}
	if err := c.SetAttribute("capsulas", 2); err != nil {
		t.Fatalf("SetAttribute(capsulas) error = %v", err)
	}

	out := mustExecute(t, c, "reabastecer_maquina", nil)
	if out.Blocked {
		t.Fatalf("reabastecer while DESLIGADA was blocked: %+v", out)
	}
	if out.From != CoffeeOff || out.To != CoffeeOff {
		t.Errorf("outcome = %q -> %q, want self-loop in %q", out.From, out.To, CoffeeOff)
	}
	for _, evt := range out.Events {
		if evt.Type == event.TypeStateTransition {
			t.Errorf("self-loop emitted TRANSICAO_ESTADO: %+v", evt)
		}
	}

	attrs := c.Attributes()
	if attrs["agua_ml"] != MaxWaterML || attrs["capsulas"] != MaxCapsules {
		t.Errorf("refill left %v", attrs)
	}
	if c.State() != CoffeeOff {
		t.Errorf("state = %q, want %q", c.State(), CoffeeOff)
	}
}

func TestCoffeeMachineBlockedCommands(t *testing.T) {
	c := NewCoffeeMachine("cafeteira", "Cafeteira")

	mustExecute(t, c, "ligar", nil)
	mustExecute(t, c, "preparar_bebida", nil)

	// Never interrupt a brew in flight.
	out := mustExecute(t, c, "desligar", nil)
	if !out.Blocked {
		t.Errorf("desligar while PREPARANDO was not blocked")
	}

	out = mustExecute(t, c, "reabastecer_maquina", nil)
	if !out.Blocked || out.Reason != ReasonInvalidCommand {
		t.Errorf("reabastecer_maquina while PREPARANDO outcome = %+v", out)
	}
	if c.State() != CoffeeBrewing {
		t.Errorf("state = %q, want %q", c.State(), CoffeeBrewing)
	}

	// finalizar without a brew in flight.
	mustExecute(t, c, "finalizar_preparo", nil)
	out = mustExecute(t, c, "finalizar_preparo", nil)
	if !out.Blocked || out.Reason != ReasonInvalidCommand {
		t.Errorf("finalizar_preparo while PRONTA outcome = %+v", out)
	}
}
