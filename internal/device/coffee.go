package device

import "fmt"

// CoffeeMachine states.
const (
	CoffeeOff         = "DESLIGADA"
	CoffeeReady       = "PRONTA"
	CoffeeBrewing     = "PREPARANDO"
	CoffeeNoResources = "SEM_RECURSOS"
)

// Resource limits per machine, and the amount one drink consumes.
const (
	MaxWaterML      = 1000
	MaxCapsules     = 10
	WaterPerDrinkML = 100
)

// CoffeeMachine is a capsule coffee machine. preparar_bebida only reaches
// PREPARANDO when there is water for one drink and at least one capsule;
// otherwise the same trigger lands in SEM_RECURSOS. Resources are consumed
// on finalizar_preparo, not on preparar_bebida.
type CoffeeMachine struct {
	machine
	waterML     int
	capsules    int
	totalDrinks int
}

// NewCoffeeMachine builds a fully stocked machine, initially DESLIGADA.
func NewCoffeeMachine(id, name string) *CoffeeMachine {
	c := &CoffeeMachine{
		machine:  newMachine(KindCoffee, id, name, CoffeeOff),
		waterML:  MaxWaterML,
		capsules: MaxCapsules,
	}

	c.cmds = map[string]string{
		"ligar":               "DESLIGADA → PRONTA",
		"desligar":            "PRONTA|SEM_RECURSOS → DESLIGADA (bloqueado se PREPARANDO)",
		"preparar_bebida":     "PRONTA → PREPARANDO (ou SEM_RECURSOS se faltar recurso)",
		"finalizar_preparo":   "PREPARANDO → PRONTA (consome 100ml e 1 cápsula)",
		"reabastecer_maquina": "Reabastece água e cápsulas ao máximo (bloqueado se PREPARANDO)",
	}
	c.rules = []rule{
		{source: CoffeeOff, trigger: "ligar", dest: CoffeeReady},
		{source: CoffeeReady, trigger: "ligar", dest: CoffeeReady, blocked: true, reason: ReasonRedundant},
		{source: CoffeeReady, trigger: "desligar", dest: CoffeeOff},
		{source: CoffeeNoResources, trigger: "desligar", dest: CoffeeOff},
		{source: CoffeeOff, trigger: "desligar", dest: CoffeeOff, blocked: true, reason: ReasonRedundant},
		// Never interrupt a brew in flight.
		{source: CoffeeBrewing, trigger: "desligar", dest: CoffeeBrewing, blocked: true, reason: ReasonInvalidCommand},

		// Same trigger, two destinations: the guard decides.
		{source: CoffeeReady, trigger: "preparar_bebida", guard: c.hasResources, dest: CoffeeBrewing},
		{source: CoffeeReady, trigger: "preparar_bebida", dest: CoffeeNoResources, reason: ReasonNoResources, extra: c.resourcesExtra},

		{source: CoffeeBrewing, trigger: "finalizar_preparo", dest: CoffeeReady, before: c.consume, extra: c.drinkExtra},

		// Refill works preventively too: PRONTA and DESLIGADA keep
		// their state, only a brew in flight rejects it.
		{source: CoffeeNoResources, trigger: "reabastecer_maquina", dest: CoffeeReady, before: c.refill},
		{source: CoffeeReady, trigger: "reabastecer_maquina", dest: CoffeeReady, before: c.refill},
		{source: CoffeeOff, trigger: "reabastecer_maquina", dest: CoffeeOff, before: c.refill},
	}
	return c
}

func (c *CoffeeMachine) hasResources(Args) (bool, error) {
	return c.waterML >= WaterPerDrinkML && c.capsules >= 1, nil
}

func (c *CoffeeMachine) consume(Args) error {
	c.waterML -= WaterPerDrinkML
	c.capsules--
	c.totalDrinks++
	return nil
}

func (c *CoffeeMachine) refill(Args) error {
	c.waterML = MaxWaterML
	c.capsules = MaxCapsules
	return nil
}

func (c *CoffeeMachine) resourcesExtra() map[string]any {
	return map[string]any{
		"agua_ml":  c.waterML,
		"capsulas": c.capsules,
	}
}

func (c *CoffeeMachine) drinkExtra() map[string]any {
	return map[string]any{
		"volume_ml":          WaterPerDrinkML,
		"agua_restante_ml":   c.waterML,
		"capsulas_restantes": c.capsules,
	}
}

// SetAttribute mutates agua_ml or capsulas. The state is never changed
// here; the next preparar_bebida re-evaluates resource availability.
func (c *CoffeeMachine) SetAttribute(key string, value any) error {
	if err := c.checkReservedAttr(key); err != nil {
		return err
	}
	switch key {
	case "agua_ml":
		n, err := attrInt(key, value, 0, MaxWaterML)
		if err != nil {
			return err
		}
		c.waterML = n
		return nil
	case "capsulas":
		n, err := attrInt(key, value, 0, MaxCapsules)
		if err != nil {
			return err
		}
		c.capsules = n
		return nil
	default:
		return fmt.Errorf("%w: %q não é mutável em %s", ErrInvalidAttribute, key, c.kind)
	}
}

// Attributes implements Device.
func (c *CoffeeMachine) Attributes() map[string]any {
	return map[string]any{
		"agua_ml":       c.waterML,
		"capsulas":      c.capsules,
		"total_bebidas": c.totalDrinks,
		"estado_nome":   c.state,
	}
}
