// Package sim is a cycle-stepped model of the GBA timers, display interrupt
// and halt state. It lets the time driver and executor run unchanged on the
// host, with simulated CPU cycles in place of wall time.
package sim
