package core

import (
	"errors"
	"testing"
)

func TestDefaultTimerConfig(t *testing.T) {
	cfg := DefaultTimerConfig()
	if cfg.Timer != Timer2 {
		t.Errorf("Expected Timer2 by default, got %s", cfg.Timer)
	}
	if cfg.OverflowAmount != 64 {
		t.Errorf("Expected overflow amount 64, got %d", cfg.OverflowAmount)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default config failed validation: %v", err)
	}
}

func TestTimerConfigValidate(t *testing.T) {
	testCases := []struct {
		cfg      TimerConfig
		expected error
	}{
		{TimerConfig{Timer: TimerNone, OverflowAmount: 64}, ErrTimerNotSelected},
		{TimerConfig{Timer: 9, OverflowAmount: 64}, ErrInvalidTimer},
		{TimerConfig{Timer: Timer0, OverflowAmount: 0}, ErrOverflowAmount},
		{TimerConfig{Timer: Timer3, OverflowAmount: 1024}, nil},
	}

	for i, tc := range testCases {
		if err := tc.cfg.Validate(); !errors.Is(err, tc.expected) {
			t.Errorf("Test case %d: expected %v, got %v", i, tc.expected, err)
		}
	}
}

func TestTimerNumberMapping(t *testing.T) {
	for index := 0; index < 4; index++ {
		timer := TimerFromIndex(index)
		if timer.Index() != index {
			t.Errorf("Index %d round-tripped to %d", index, timer.Index())
		}
		if timer.IRQ() != IRQTimer0+IRQ(index) {
			t.Errorf("Timer %d mapped to IRQ %s", index, timer.IRQ())
		}
	}
	for _, index := range []int{4, 7, -1} {
		cfg := TimerConfig{Timer: TimerFromIndex(index), OverflowAmount: DefaultOverflowAmount}
		if err := cfg.Validate(); !errors.Is(err, ErrInvalidTimer) {
			t.Errorf("Expected ErrInvalidTimer for index %d, got %v", index, err)
		}
	}
	if Timer2.String() != "timer2" {
		t.Errorf("Expected timer2, got %s", Timer2.String())
	}
}

func TestTimerConfigResolution(t *testing.T) {
	testCases := []struct {
		overflow uint16
		expected uint32
	}{
		{4, 61},
		{16, 244},
		{64, 976},
		{256, 3906},
		{1024, 15625},
	}

	for _, tc := range testCases {
		cfg := TimerConfig{Timer: Timer2, OverflowAmount: tc.overflow}
		if got := cfg.Resolution(); got != tc.expected {
			t.Errorf("Overflow %d: expected %dus, got %dus", tc.overflow, tc.expected, got)
		}
	}
}
