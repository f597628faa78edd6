package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/casalab/casahub/internal/device"
	"github.com/casalab/casahub/internal/hub"
)

func newDemoCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Run a scripted scenario exercising every device kind",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			// The demo builds its own device set and must not clobber
			// the user's snapshot.
			cfg.Persistence.LoadOnStart = false
			cfg.Persistence.SaveOnExit = false
			cfg.Sinks.Console.Enabled = true
			cfg.Sinks.Console.Verbose = true

			a, err := newApp(cfg, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer func() {
				if closeErr := a.Close(); closeErr != nil {
					a.log.Error("shutdown error", "error", closeErr)
				}
			}()

			return runDemo(a.hub, cmd.OutOrStdout())
		},
	}
}

// runDemo walks one command script through each device kind, then a
// routine whose middle step targets a missing device to show per-step
// failure isolation.
func runDemo(h *hub.Hub, out io.Writer) error {
	if err := seedDefaults(h); err != nil {
		return err
	}

	script := []struct {
		id      string
		command string
		args    device.Args
	}{
		// Door: locking while open is rejected by the guard.
		{"porta_entrada", "destrancar", nil},
		{"porta_entrada", "abrir", nil},
		{"porta_entrada", "trancar", nil},
		{"porta_entrada", "fechar", nil},
		{"porta_entrada", "trancar", nil},

		// Light: brightness and colour require the light to be on.
		{"luz_sala", "definir_brilho", device.Args{"valor": 50}},
		{"luz_sala", "ligar", nil},
		{"luz_sala", "definir_brilho", device.Args{"valor": 70}},
		{"luz_sala", "definir_cor", device.Args{"cor": "FRIA"}},
		{"luz_sala", "desligar", nil},

		// Socket: switch-off attaches the accumulated consumption.
		{"tomada_bancada", "ligar", nil},
		{"tomada_bancada", "desligar", nil},

		// Coffee machine: one full brew cycle.
		{"cafeteira", "ligar", nil},
		{"cafeteira", "preparar_bebida", nil},
		{"cafeteira", "finalizar_preparo", nil},
		{"cafeteira", "desligar", nil},

		// Radio.
		{"radio_sala", "ligar", nil},
		{"radio_sala", "definir_volume", device.Args{"valor": 30}},
		{"radio_sala", "definir_estacao", device.Args{"estacao": "JAZZ"}},
		{"radio_sala", "desligar", nil},

		// Blind: ajustar picks the target state from the percentage.
		{"persiana_sala", "abrir", nil},
		{"persiana_sala", "ajustar", device.Args{"percentual": 40}},
		{"persiana_sala", "fechar", nil},
	}

	for _, step := range script {
		if _, err := h.ExecuteCommand(step.id, step.command, step.args); err != nil {
			// Lookup or validation failures already emitted an ERRO
			// event; the demo keeps going.
			continue
		}
	}

	// Routine with a broken middle step: the hub records the failure
	// and still runs the remaining steps.
	err := h.DefineRoutine("boa_noite", []hub.Step{
		{DeviceID: "luz_sala", Command: "desligar"},
		{DeviceID: "luz_corredor", Command: "desligar"},
		{DeviceID: "persiana_sala", Command: "fechar"},
	})
	if err != nil {
		return err
	}
	result, err := h.ExecuteRoutine("boa_noite")
	if err != nil {
		return err
	}

	fmt.Fprintln(out)
	printRoutineResult(out, result)
	return nil
}
