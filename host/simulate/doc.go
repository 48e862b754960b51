// Package simulate runs a scenario of periodic tasks on the simulated
// hardware and reports how late each wake-up was.
package simulate
