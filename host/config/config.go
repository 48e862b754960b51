package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"gbatime/core"
)

// Scenario describes one simulated run of the time driver.
type Scenario struct {
	// Timer is the hardware timer index (0-3) driving the clock.
	Timer *int `yaml:"timer"`
	// OverflowAmount is the number of counter increments per overflow interrupt.
	OverflowAmount uint16 `yaml:"overflow_amount"`
	// Duration is the simulated run time.
	Duration time.Duration `yaml:"duration"`
	// VBlank enables the ~59.73Hz display interrupt as a second wake source.
	VBlank bool `yaml:"vblank"`
	// Tasks are the periodic tasks spawned on the executor.
	Tasks []Task `yaml:"tasks"`
}

// Task is a task sleeping for a fixed period between iterations.
type Task struct {
	// Name identifies the task in the report.
	Name string `yaml:"name"`
	// Period is the time between wake-ups.
	Period time.Duration `yaml:"period"`
	// Iterations stops the task after this many wakes (0 = run until the end).
	Iterations int `yaml:"iterations"`
}

const (
	// DefaultScenarioFilename is the default scenario path.
	DefaultScenarioFilename = "gbatime-scenario.yaml"

	// DefaultDuration is the simulated run time when none is given.
	DefaultDuration = time.Second

	// DefaultFilePermissions is the permission of saved scenario files.
	DefaultFilePermissions = 0o600

	// MinTaskPeriod is one logical clock tick; shorter periods round to no wait at all.
	MinTaskPeriod = time.Second / core.TickHz
)

var (
	// errScenarioIsNotSet is returned when a nil scenario is provided.
	errScenarioIsNotSet = errors.New("scenario is not set")
	// errTaskPeriod is returned for a task without a positive period.
	errTaskPeriod = errors.New("task period must be positive")
	// errTaskPeriodTooShort is returned for a task period below one clock tick.
	errTaskPeriodTooShort = errors.New("task period is shorter than one clock tick")
	// errTaskName is returned for a task without a name.
	errTaskName = errors.New("task name must be provided")
	// errDuplicateTask is returned when two tasks share a name.
	errDuplicateTask = errors.New("task names must be unique")
)

// Default returns a scenario with one 16ms task on the default timer.
func Default() *Scenario {
	timer := core.DefaultTimerConfig().Timer.Index()
	return &Scenario{
		Timer:          &timer,
		OverflowAmount: core.DefaultOverflowAmount,
		Duration:       DefaultDuration,
		VBlank:         true,
		Tasks:          []Task{{Name: "frame", Period: 16 * time.Millisecond}},
	}
}

// Load reads a scenario from path and validates it.
func Load(path string) (*Scenario, error) {
	if path == "" {
		path = DefaultScenarioFilename
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}

	var s Scenario
	if err := yaml.Unmarshal(contents, &s); err != nil {
		return nil, fmt.Errorf("unmarshal scenario: %w", err)
	}

	if err := Validate(&s); err != nil {
		return nil, err
	}

	return &s, nil
}

// Save writes a scenario to path.
func Save(path string, s *Scenario) error {
	if s == nil {
		return errScenarioIsNotSet
	}

	if path == "" {
		path = DefaultScenarioFilename
	}

	if err := Validate(s); err != nil {
		return err
	}

	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal scenario: %w", err)
	}

	if err := os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write scenario: %w", err)
	}

	return nil
}

// Validate checks a scenario and fills in defaults.
func Validate(s *Scenario) error {
	if s == nil {
		return errScenarioIsNotSet
	}

	if s.Timer == nil {
		timer := core.DefaultTimerConfig().Timer.Index()
		s.Timer = &timer
	}

	if s.OverflowAmount == 0 {
		s.OverflowAmount = core.DefaultOverflowAmount
	}

	if err := s.TimerConfig().Validate(); err != nil {
		return fmt.Errorf("invalid timer settings: %w", err)
	}

	if s.Duration <= 0 {
		s.Duration = DefaultDuration
	}

	seen := make(map[string]struct{}, len(s.Tasks))
	for i, task := range s.Tasks {
		if task.Name == "" {
			return fmt.Errorf("task %d: %w", i, errTaskName)
		}
		if task.Period <= 0 {
			return fmt.Errorf("task %q: %w", task.Name, errTaskPeriod)
		}
		if task.Period < MinTaskPeriod {
			return fmt.Errorf("task %q: %v is below %v: %w", task.Name, task.Period, MinTaskPeriod, errTaskPeriodTooShort)
		}
		if _, ok := seen[task.Name]; ok {
			return fmt.Errorf("task %q: %w", task.Name, errDuplicateTask)
		}
		seen[task.Name] = struct{}{}
	}

	return nil
}

// TimerConfig converts the timer settings into the driver's configuration.
func (s *Scenario) TimerConfig() core.TimerConfig {
	timer := core.TimerNone
	if s.Timer != nil {
		timer = core.TimerFromIndex(*s.Timer)
	}
	return core.TimerConfig{Timer: timer, OverflowAmount: s.OverflowAmount}
}
