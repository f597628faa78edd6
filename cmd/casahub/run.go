package main

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/casalab/casahub/internal/device"
	"github.com/casalab/casahub/internal/hub"
	"github.com/casalab/casahub/internal/persist"
)

func newRunCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Start the interactive hub menu",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			a, err := newApp(cfg, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer func() {
				if closeErr := a.Close(); closeErr != nil {
					a.log.Error("shutdown error", "error", closeErr)
				}
			}()

			if err := a.restoreState(); err != nil {
				return err
			}

			m := &menu{
				app: a,
				in:  bufio.NewScanner(cmd.InOrStdin()),
				out: cmd.OutOrStdout(),
			}
			return m.loop(cmd)
		},
	}
}

// menu drives the interactive session. All reads come from in; a
// closed input (EOF) or a cancelled context ends the loop cleanly.
type menu struct {
	app *app
	in  *bufio.Scanner
	out io.Writer
}

var (
	titleStyle  = color.New(color.FgCyan, color.Bold)
	okStyle     = color.New(color.FgGreen, color.Bold)
	failStyle   = color.New(color.FgRed)
	noticeStyle = color.New(color.FgYellow)
)

func (m *menu) loop(cmd *cobra.Command) error {
	titleStyle.Fprintf(m.out, "=== %s ===\n", m.app.hub.Name())

	for {
		if cmd.Context().Err() != nil {
			return nil
		}
		m.printMenu()
		choice, ok := m.prompt("opção")
		if !ok {
			return nil
		}

		switch strings.TrimSpace(choice) {
		case "1":
			m.listDevices()
		case "2":
			m.showDevice()
		case "3":
			m.execCommand()
		case "4":
			m.setAttribute()
		case "5":
			m.runRoutine()
		case "6":
			m.defineRoutine()
		case "7":
			m.showHistory(cmd)
		case "8":
			m.save()
		case "9":
			m.addDevice()
		case "10":
			m.removeDevice()
		case "11", "q", "sair":
			okStyle.Fprintln(m.out, "Encerrando hub.")
			return nil
		default:
			noticeStyle.Fprintln(m.out, "Opção inválida.")
		}
	}
}

func (m *menu) printMenu() {
	fmt.Fprintln(m.out)
	titleStyle.Fprintln(m.out, "MENU")
	items := []string{
		"1  Listar dispositivos",
		"2  Mostrar dispositivo",
		"3  Executar comando",
		"4  Alterar atributo",
		"5  Executar rotina",
		"6  Definir rotina",
		"7  Histórico de eventos",
		"8  Salvar configuração",
		"9  Adicionar dispositivo",
		"10 Remover dispositivo",
		"11 Sair",
	}
	for _, it := range items {
		fmt.Fprintf(m.out, "  %s\n", it)
	}
}

// prompt reads one line, returning ok=false on EOF.
func (m *menu) prompt(label string) (string, bool) {
	fmt.Fprintf(m.out, "%s> ", label)
	if !m.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(m.in.Text()), true
}

func (m *menu) listDevices() {
	devices := m.app.hub.ListDevices()
	if len(devices) == 0 {
		noticeStyle.Fprintln(m.out, "Nenhum dispositivo registrado.")
		return
	}
	fmt.Fprintf(m.out, "%-20s %-25s %-12s %s\n", "ID", "NOME", "TIPO", "ESTADO")
	for _, d := range devices {
		fmt.Fprintf(m.out, "%-20s %-25s %-12s %s\n", d.ID(), d.Name(), string(d.Kind()), d.State())
	}
}

// pickDevice lists devices and prompts for an ID.
func (m *menu) pickDevice() (device.Device, bool) {
	m.listDevices()
	id, ok := m.prompt("id")
	if !ok || id == "" {
		return nil, false
	}
	d, found := m.app.hub.Device(id)
	if !found {
		failStyle.Fprintf(m.out, "Dispositivo %q não encontrado.\n", id)
		return nil, false
	}
	return d, true
}

func (m *menu) showDevice() {
	d, ok := m.pickDevice()
	if !ok {
		return
	}
	titleStyle.Fprintf(m.out, "Atributos de %s\n", d.Name())
	attrs := d.Attributes()
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(m.out, "  %-22s %v\n", k, attrs[k])
	}
}

func (m *menu) execCommand() {
	d, ok := m.pickDevice()
	if !ok {
		return
	}

	titleStyle.Fprintf(m.out, "Comandos de %s\n", d.Name())
	cmds := d.Commands()
	names := make([]string, 0, len(cmds))
	for name := range cmds {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(m.out, "  %-20s %s\n", name, cmds[name])
	}

	command, ok := m.prompt("comando")
	if !ok || command == "" {
		return
	}
	args, ok := m.readArgs()
	if !ok {
		return
	}

	out, err := m.app.hub.ExecuteCommand(d.ID(), command, args)
	if err != nil {
		failStyle.Fprintf(m.out, "Erro: %v\n", err)
		return
	}
	if out.Blocked {
		noticeStyle.Fprintf(m.out, "Bloqueado (%s): estado %s\n", out.Reason, out.To)
		return
	}
	okStyle.Fprintf(m.out, "OK: %s -> %s\n", out.From, out.To)
}

func (m *menu) setAttribute() {
	d, ok := m.pickDevice()
	if !ok {
		return
	}
	key, ok := m.prompt("atributo")
	if !ok || key == "" {
		return
	}
	raw, ok := m.prompt("novo valor")
	if !ok {
		return
	}

	if err := m.app.hub.SetAttribute(d.ID(), key, parseScalar(raw)); err != nil {
		failStyle.Fprintf(m.out, "Erro: %v\n", err)
		return
	}
	okStyle.Fprintln(m.out, "Atributo alterado.")
}

func (m *menu) runRoutine() {
	routines := m.app.hub.Routines()
	if len(routines) == 0 {
		noticeStyle.Fprintln(m.out, "Nenhuma rotina configurada.")
		return
	}
	titleStyle.Fprintln(m.out, "Rotinas disponíveis")
	for _, r := range routines {
		fmt.Fprintf(m.out, "  %-20s %d passos\n", r.Name, len(r.Steps))
	}

	name, ok := m.prompt("rotina")
	if !ok || name == "" {
		return
	}
	result, err := m.app.hub.ExecuteRoutine(name)
	if err != nil {
		failStyle.Fprintf(m.out, "Erro: %v\n", err)
		return
	}
	printRoutineResult(m.out, result)
}

// defineRoutine reads steps as "id comando [chave=valor ...]" lines
// until a blank line, then registers the routine.
func (m *menu) defineRoutine() {
	name, ok := m.prompt("nome da rotina")
	if !ok || name == "" {
		return
	}

	var steps []hub.Step
	fmt.Fprintln(m.out, "Passos no formato: id comando [chave=valor ...] (linha vazia encerra)")
	for {
		line, ok := m.prompt("passo")
		if !ok || line == "" {
			break
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			noticeStyle.Fprintln(m.out, "Informe ao menos id e comando.")
			continue
		}
		step := hub.Step{DeviceID: fields[0], Command: fields[1], Args: device.Args{}}
		for _, f := range fields[2:] {
			key, value, found := strings.Cut(f, "=")
			if !found {
				noticeStyle.Fprintf(m.out, "Parâmetro %q ignorado (use chave=valor).\n", f)
				continue
			}
			step.Args[key] = parseScalar(value)
		}
		steps = append(steps, step)
	}

	if err := m.app.hub.DefineRoutine(name, steps); err != nil {
		failStyle.Fprintf(m.out, "Erro: %v\n", err)
		return
	}
	okStyle.Fprintf(m.out, "Rotina %q registrada com %d passos.\n", name, len(steps))
}

func printRoutineResult(out io.Writer, result hub.RoutineResult) {
	titleStyle.Fprintf(out, "Resultado de %q\n", result.Name)
	for _, step := range result.Steps {
		status := okStyle.Sprint("ok")
		detail := fmt.Sprintf("%s -> %s", step.From, step.To)
		if step.Err != nil {
			status = failStyle.Sprint("falha")
			detail = step.Err.Error()
		} else if step.Blocked {
			status = noticeStyle.Sprint("bloqueado")
		}
		fmt.Fprintf(out, "  #%d %-18s %-20s [%s] %s\n", step.Index, step.DeviceID, step.Command, status, detail)
	}
	fmt.Fprintf(out, "Total: %d  Sucesso: %d  Falhas: %d\n", result.Total, result.Succeeded, result.Failed)
}

func (m *menu) showHistory(cmd *cobra.Command) {
	if m.app.history == nil {
		noticeStyle.Fprintln(m.out, "Histórico desabilitado (sink SQLite desligado).")
		return
	}
	records, err := m.app.history.Recent(cmd.Context(), 20)
	if err != nil {
		failStyle.Fprintf(m.out, "Erro: %v\n", err)
		return
	}
	for _, r := range records {
		fmt.Fprintf(m.out, "  %s %-22s %-18s %s\n", r.At.Format("15:04:05"), r.Type, r.DeviceID, r.Payload)
	}
}

func (m *menu) save() {
	if err := persist.Save(m.app.cfg.Persistence.Path, m.app.hub); err != nil {
		failStyle.Fprintf(m.out, "Erro salvando: %v\n", err)
		return
	}
	okStyle.Fprintf(m.out, "Configuração salva em %s\n", m.app.cfg.Persistence.Path)
}

func (m *menu) addDevice() {
	kinds := make([]string, 0)
	for _, k := range device.AllKinds() {
		kinds = append(kinds, string(k))
	}
	fmt.Fprintf(m.out, "Tipos suportados: %s\n", strings.Join(kinds, ", "))

	rawKind, ok := m.prompt("tipo")
	if !ok {
		return
	}
	kind, err := device.ParseKind(rawKind)
	if err != nil {
		failStyle.Fprintf(m.out, "Erro: %v\n", err)
		return
	}
	id, ok := m.prompt("id")
	if !ok || id == "" {
		return
	}
	name, ok := m.prompt("nome")
	if !ok {
		return
	}
	fmt.Fprintln(m.out, "Atributos iniciais (chave=valor, linha vazia encerra):")
	attrs, ok := m.readArgs()
	if !ok {
		return
	}

	if _, err := m.app.hub.AddDevice(kind, id, name, attrs); err != nil {
		failStyle.Fprintf(m.out, "Erro: %v\n", err)
		return
	}
	okStyle.Fprintf(m.out, "Dispositivo %s adicionado.\n", id)
}

func (m *menu) removeDevice() {
	d, ok := m.pickDevice()
	if !ok {
		return
	}
	if err := m.app.hub.RemoveDevice(d.ID()); err != nil {
		failStyle.Fprintf(m.out, "Erro: %v\n", err)
		return
	}
	noticeStyle.Fprintf(m.out, "Removido %s.\n", d.ID())
}

// readArgs collects chave=valor lines until a blank line, coercing
// integer values. ok=false means the input hit EOF.
func (m *menu) readArgs() (device.Args, bool) {
	args := device.Args{}
	for {
		line, ok := m.prompt("param")
		if !ok {
			return args, false
		}
		if line == "" {
			return args, true
		}
		key, value, found := strings.Cut(line, "=")
		if !found {
			noticeStyle.Fprintln(m.out, "Use o formato chave=valor.")
			continue
		}
		args[strings.TrimSpace(key)] = parseScalar(strings.TrimSpace(value))
	}
}

// parseScalar coerces a raw prompt value: integers become int,
// everything else stays a string. Enum coercion (cor, estacao) is the
// device layer's job and is case-insensitive there.
func parseScalar(s string) any {
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	return s
}
