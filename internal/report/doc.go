// Package report computes usage reports from the CSV logs the hub's
// sinks produce.
//
// Inputs are the files written by the CSV sink (transitions.csv and
// events.csv) plus the JSON snapshot, which supplies each device's
// kind and configuration (e.g. a socket's potencia_w). Loading is
// tolerant: rows with missing or unparseable timestamps are skipped,
// and absent files yield empty reports instead of errors.
//
// Available reports:
//   - SocketConsumption: Wh per socket from on/off intervals
//   - LightOnTime: total time each light spent on
//   - MostUsedDevices: devices ranked by event count
//   - CoffeesPrepared / CoffeesPerDay: completed brew counts
//   - CommandsByKind: command distribution across device kinds
//
// All reports accept a Period to restrict the analysis window and
// return deterministically ordered slices.
package report
