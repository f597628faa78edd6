package main

import (
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/casalab/casahub/internal/report"
)

// reportInputs bundles the loaded CSV streams and the device index
// shared by every report subcommand.
type reportInputs struct {
	transitions []report.Transition
	events      []report.EventRow
	index       report.DeviceIndex
	period      report.Period
}

func newReportCmd(flags *rootFlags) *cobra.Command {
	var (
		dir  string
		from string
		to   string
		topN int
	)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Analytics over the CSV event streams",
	}
	cmd.PersistentFlags().StringVar(&dir, "dir", "", "CSV log directory (default: sinks.csv.dir)")
	cmd.PersistentFlags().StringVar(&from, "from", "", "period start (RFC3339)")
	cmd.PersistentFlags().StringVar(&to, "to", "", "period end (RFC3339)")

	load := func() (*reportInputs, error) {
		cfg, err := loadConfig(flags)
		if err != nil {
			return nil, err
		}
		if dir == "" {
			dir = cfg.Sinks.CSV.Dir
		}

		period, err := parsePeriod(from, to)
		if err != nil {
			return nil, err
		}

		transitions, err := report.LoadTransitions(filepath.Join(dir, "transitions.csv"))
		if err != nil {
			return nil, fmt.Errorf("loading transitions: %w", err)
		}
		events, err := report.LoadEvents(filepath.Join(dir, "events.csv"))
		if err != nil {
			return nil, fmt.Errorf("loading events: %w", err)
		}
		index := report.LoadDeviceIndex(cfg.Persistence.Path)

		return &reportInputs{
			transitions: transitions,
			events:      events,
			index:       index,
			period:      period,
		}, nil
	}

	tomadas := &cobra.Command{
		Use:   "tomadas",
		Short: "Energy consumption per socket (Wh)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			in, err := load()
			if err != nil {
				return err
			}
			rows := report.SocketConsumption(in.transitions, in.index, in.period, true)
			printSockets(cmd.OutOrStdout(), rows)
			return nil
		},
	}

	luzes := &cobra.Command{
		Use:   "luzes",
		Short: "Time each light stayed on",
		RunE: func(cmd *cobra.Command, _ []string) error {
			in, err := load()
			if err != nil {
				return err
			}
			rows := report.LightOnTime(in.transitions, in.index, in.period)
			printLights(cmd.OutOrStdout(), rows)
			return nil
		},
	}

	cafes := &cobra.Command{
		Use:   "cafes",
		Short: "Coffees prepared per day",
		RunE: func(cmd *cobra.Command, _ []string) error {
			in, err := load()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, d := range report.CoffeesPerDay(in.transitions, in.period) {
				fmt.Fprintf(out, "%s  %d\n", d.Date, d.Count)
			}
			fmt.Fprintf(out, "Total: %d\n", report.CoffeesPrepared(in.transitions, in.period))
			return nil
		},
	}

	usados := &cobra.Command{
		Use:   "usados",
		Short: "Most used devices",
		RunE: func(cmd *cobra.Command, _ []string) error {
			in, err := load()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, d := range report.MostUsedDevices(in.transitions, in.events, topN, in.period) {
				fmt.Fprintf(out, "%-22s %d\n", d.DeviceID, d.Count)
			}
			return nil
		},
	}
	usados.Flags().IntVar(&topN, "top", 10, "number of devices to show (0 = all)")

	comandos := &cobra.Command{
		Use:   "comandos",
		Short: "Command distribution per device kind",
		RunE: func(cmd *cobra.Command, _ []string) error {
			in, err := load()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, k := range report.CommandsByKind(in.events, in.index, in.period) {
				fmt.Fprintf(out, "%-14s %d\n", k.Kind, k.Count)
			}
			return nil
		},
	}

	resumo := &cobra.Command{
		Use:   "resumo",
		Short: "All reports in one pass",
		RunE: func(cmd *cobra.Command, _ []string) error {
			in, err := load()
			if err != nil {
				return err
			}
			s := report.BuildSummary(in.transitions, in.events, in.index, in.period)
			printSummary(cmd.OutOrStdout(), s)
			return nil
		},
	}

	cmd.AddCommand(tomadas, luzes, cafes, usados, comandos, resumo)
	return cmd
}

func parsePeriod(from, to string) (report.Period, error) {
	var p report.Period
	if from != "" {
		t, err := time.Parse(time.RFC3339, from)
		if err != nil {
			return p, fmt.Errorf("invalid --from: %w", err)
		}
		p.Start = t
	}
	if to != "" {
		t, err := time.Parse(time.RFC3339, to)
		if err != nil {
			return p, fmt.Errorf("invalid --to: %w", err)
		}
		p.End = t
	}
	return p, nil
}

func printSockets(out io.Writer, rows []report.SocketUsage) {
	if len(rows) == 0 {
		fmt.Fprintln(out, "Sem dados de tomadas.")
		return
	}
	fmt.Fprintf(out, "%-22s %10s %10s %12s\n", "TOMADA", "POTÊNCIA", "HORAS", "CONSUMO Wh")
	for _, r := range rows {
		fmt.Fprintf(out, "%-22s %10.0f %10.2f %12.2f\n", r.DeviceID, r.PowerW, r.HoursOn, r.TotalWh)
	}
}

func printLights(out io.Writer, rows []report.LightUsage) {
	if len(rows) == 0 {
		fmt.Fprintln(out, "Sem dados de luzes.")
		return
	}
	fmt.Fprintf(out, "%-22s %10s\n", "LUZ", "LIGADA")
	for _, r := range rows {
		fmt.Fprintf(out, "%-22s %10s\n", r.DeviceID, r.HHMMSS)
	}
}

func printSummary(out io.Writer, s report.Summary) {
	titleStyle.Fprintln(out, "Consumo por tomada")
	printSockets(out, s.Sockets)

	titleStyle.Fprintln(out, "\nTempo de luz ligada")
	printLights(out, s.Lights)

	titleStyle.Fprintln(out, "\nDispositivos mais usados")
	for _, d := range s.TopUsed {
		fmt.Fprintf(out, "%-22s %d\n", d.DeviceID, d.Count)
	}

	titleStyle.Fprintln(out, "\nCafés preparados")
	for _, d := range s.PerDay {
		fmt.Fprintf(out, "%s  %d\n", d.Date, d.Count)
	}
	fmt.Fprintf(out, "Total: %d\n", s.Coffees)

	titleStyle.Fprintln(out, "\nComandos por tipo")
	for _, k := range s.ByKind {
		fmt.Fprintf(out, "%-14s %d\n", k.Kind, k.Count)
	}
}
