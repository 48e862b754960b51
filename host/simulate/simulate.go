package simulate

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap/zapcore"

	"gbatime/core"
	"gbatime/host/config"
	"gbatime/host/logger"
	"gbatime/host/sim"
)

// Options controls a simulate run.
type Options struct {
	// ScenarioPath specifies the path to the scenario YAML file.
	ScenarioPath string
	// Duration overrides the scenario's simulated run time when non-zero.
	Duration time.Duration
}

// TaskReport summarizes the wake-ups of one task.
type TaskReport struct {
	Name         string
	Wakes        int
	MaxLateness  time.Duration
	MeanLateness time.Duration
}

// Report summarizes a finished run.
type Report struct {
	Elapsed    time.Duration
	Resolution time.Duration
	Machine    sim.Stats
	Executor   core.ExecutorStats
	Alarms     core.AlarmStats
	Tasks      []TaskReport
}

// Run loads the scenario, simulates it and logs the report.
func Run(ctx context.Context, opts *Options) error {
	ctx = logger.WithName(ctx, "simulate")

	scenario, err := config.Load(opts.ScenarioPath)
	if err != nil {
		return fmt.Errorf("load scenario: %w", err)
	}

	if opts.Duration > 0 {
		scenario.Duration = opts.Duration
	}

	report, err := Simulate(ctx, scenario)
	if err != nil {
		return err
	}

	logReport(ctx, report)

	return nil
}

// Simulate runs a validated scenario to completion.
// It owns core's interrupt model for the duration of the run.
func Simulate(ctx context.Context, scenario *config.Scenario) (*Report, error) {
	core.ResetInterrupts()
	core.ClearTimingRing()
	defer core.ResetInterrupts()

	debug := logger.Level() <= zapcore.DebugLevel
	core.SetDebugWriter(logger.DebugWriter(ctx))
	core.SetDebugEnabled(debug)

	options := []sim.Option{sim.WithLimit(sim.CyclesFor(scenario.Duration))}
	if scenario.VBlank {
		options = append(options, sim.WithVBlank())
	}

	machine := sim.New(options...)

	cfg := scenario.TimerConfig()

	driver, err := core.NewTimeDriver(machine.Timer(cfg.Timer), cfg)
	if err != nil {
		return nil, fmt.Errorf("create time driver: %w", err)
	}

	machine.Attach(driver)

	executor := core.NewExecutor(driver, machine)
	driver.Start()

	trackers := make([]*tracker, 0, len(scenario.Tasks))
	for _, task := range scenario.Tasks {
		tr := newTracker(driver, task)
		trackers = append(trackers, tr)
		executor.Spawn(tr)
	}

	for !machine.Done() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		executor.Step()

		if debug {
			core.DrainTiming(func(evt core.TimingEvent) {
				logger.DebugKV(ctx, core.EventName(evt.EventType),
					"clock", evt.Clock, "value", evt.Value, "aux", evt.Aux)
			})
		}
	}

	if err := machine.Err(); err != nil {
		return nil, fmt.Errorf("simulation stalled: %w", err)
	}

	report := &Report{
		Elapsed:    machine.Elapsed(),
		Resolution: time.Duration(cfg.Resolution()) * time.Microsecond,
		Machine:    machine.Stats(),
		Executor:   executor.Stats(),
		Alarms:     driver.Alarms().Stats(),
		Tasks:      make([]TaskReport, 0, len(trackers)),
	}
	for _, tr := range trackers {
		report.Tasks = append(report.Tasks, tr.report())
	}

	return report, nil
}

func logReport(ctx context.Context, r *Report) {
	logger.InfoKV(ctx, "Simulation finished",
		"elapsed", r.Elapsed,
		"resolution", r.Resolution,
		"halts", r.Machine.Halts,
		"halted", haltedShare(r.Machine),
		"interrupts", r.Machine.Interrupts,
		"checks", r.Alarms.Checks,
		"retries", r.Alarms.Retries,
		"polls", r.Executor.Polls)

	for _, task := range r.Tasks {
		logger.InfoKV(ctx, "Task wake-ups",
			"task", task.Name,
			"wakes", task.Wakes,
			"max_lateness", task.MaxLateness,
			"mean_lateness", task.MeanLateness)
	}
}

// haltedShare formats the fraction of cycles spent halted
func haltedShare(s sim.Stats) string {
	if s.Cycles == 0 {
		return "0%"
	}
	return fmt.Sprintf("%.1f%%", float64(s.HaltCycles)*100/float64(s.Cycles))
}
