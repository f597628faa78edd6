package device

// Validation sets for quick membership checks. Built once at package
// initialisation; callers must not mutate the returned slices.
var (
	statesByKind   map[Kind][]string
	commandsByKind map[Kind][]string
)

func init() {
	statesByKind = map[Kind][]string{
		KindDoor:   {DoorLocked, DoorUnlocked, DoorOpen},
		KindLight:  {LightOff, LightOn},
		KindSocket: {SocketOff, SocketOn},
		KindCoffee: {CoffeeOff, CoffeeReady, CoffeeBrewing, CoffeeNoResources},
		KindRadio:  {RadioOff, RadioOn},
		KindBlind:  {BlindClosed, BlindPartial, BlindOpen},
	}

	commandsByKind = map[Kind][]string{
		KindDoor:   {"destrancar", "trancar", "abrir", "fechar"},
		KindLight:  {"ligar", "desligar", "definir_brilho", "definir_cor"},
		KindSocket: {"ligar", "desligar"},
		KindCoffee: {"ligar", "desligar", "preparar_bebida", "finalizar_preparo", "reabastecer_maquina"},
		KindRadio:  {"ligar", "desligar", "definir_volume", "definir_estacao"},
		KindBlind:  {"abrir", "fechar", "ajustar"},
	}
}

// StatesFor returns the declared state enumeration for a kind.
func StatesFor(kind Kind) []string {
	return statesByKind[kind]
}

// CommandsFor returns the declared command set for a kind.
func CommandsFor(kind Kind) []string {
	return commandsByKind[kind]
}

// ValidState reports whether state belongs to the kind's enumeration.
func ValidState(kind Kind, state string) bool {
	for _, s := range statesByKind[kind] {
		if s == state {
			return true
		}
	}
	return false
}

// ValidCommand reports whether the kind knows the command.
func ValidCommand(kind Kind, command string) bool {
	for _, c := range commandsByKind[kind] {
		if c == command {
			return true
		}
	}
	return false
}
