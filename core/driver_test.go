package core

import (
	"errors"
	"testing"
)

func TestNewTimeDriverRejectsBadConfig(t *testing.T) {
	port := &fakePort{}

	if _, err := NewTimeDriver(port, TimerConfig{OverflowAmount: 64}); !errors.Is(err, ErrTimerNotSelected) {
		t.Errorf("Expected ErrTimerNotSelected, got %v", err)
	}
	if _, err := NewTimeDriver(port, TimerConfig{Timer: Timer3 + 1, OverflowAmount: 64}); !errors.Is(err, ErrInvalidTimer) {
		t.Errorf("Expected ErrInvalidTimer, got %v", err)
	}
	if _, err := NewTimeDriver(port, TimerConfig{Timer: Timer2}); !errors.Is(err, ErrOverflowAmount) {
		t.Errorf("Expected ErrOverflowAmount, got %v", err)
	}
}

func TestTimeDriverStart(t *testing.T) {
	driver, port := newTestDriver(t, 64)

	if !driver.Started() {
		t.Error("Expected driver to report started")
	}
	if port.divider != Divider256 {
		t.Errorf("Expected Divider256, got %d", port.divider)
	}
	if port.reload != 65472 {
		t.Errorf("Expected reload 65472, got %d", port.reload)
	}
	if !port.irq || !port.running {
		t.Error("Expected overflow interrupt enabled and timer running")
	}
	if driver.Clock().initialCounter != 65472 {
		t.Errorf("Expected initial counter 65472, got %d", driver.Clock().initialCounter)
	}

	// A second Start must not recapture the start value
	port.tick(10)
	driver.Start()
	if driver.Clock().initialCounter != 65472 {
		t.Errorf("Expected Start to be idempotent, initial counter is %d", driver.Clock().initialCounter)
	}
}

func TestTimeDriverWakeFiresAtNextCheck(t *testing.T) {
	driver, port := newTestDriver(t, 64)
	w := &Waker{}

	// 40 logical ticks = 80 hardware ticks, between the first and second overflow
	driver.RequestWake(40, w)
	if driver.NextDeadline() != 40 {
		t.Errorf("Expected next deadline 40, got %d", driver.NextDeadline())
	}

	port.tick(64)
	if w.Ready() {
		t.Fatal("Woken before the deadline")
	}

	port.tick(16)
	if driver.Now() != 40 {
		t.Fatalf("Expected to be at the deadline, now=%d", driver.Now())
	}
	if w.Ready() {
		t.Fatal("Woken between periodic checks")
	}

	port.tick(48)
	if !w.Ready() {
		t.Error("Expected wake at the first check after the deadline")
	}
	if late := driver.Now() - 40; late > 32 {
		t.Errorf("Expected lateness within one overflow period, got %d ticks", late)
	}
	if driver.NextDeadline() != Infinite {
		t.Errorf("Expected Infinite, got %d", driver.NextDeadline())
	}
}

func TestTimeDriverOverflowHeldOffByCriticalSection(t *testing.T) {
	driver, port := newTestDriver(t, 64)

	port.tick(63)
	CriticalSection(func() {
		port.tick(1)
		if driver.Clock().Period() != 0 {
			t.Error("Overflow handler ran inside a critical section")
		}
		if !InterruptPending() {
			t.Error("Expected the overflow to be left pending")
		}
	})

	if driver.Clock().Period() != 1 {
		t.Errorf("Expected the pending overflow to run on exit, period=%d", driver.Clock().Period())
	}
	if InterruptPending() {
		t.Error("Expected nothing pending after the critical section")
	}
}

func TestTimeDriverCriticalSectionRestoresOnPanic(t *testing.T) {
	newTestDriver(t, 64)

	func() {
		defer func() { _ = recover() }()
		CriticalSection(func() {
			panic("boom")
		})
	}()

	if InterruptsMasked() {
		t.Error("Expected interrupts unmasked after a panic out of a critical section")
	}
}

func TestTimeDriverDelayAndTicker(t *testing.T) {
	driver, port := newTestDriver(t, 64)
	w := &Waker{}

	delay := driver.After(100)
	if delay.Elapsed(w) {
		t.Fatal("Delay elapsed immediately")
	}
	port.tick(64 * 7)
	if !w.Ready() {
		t.Fatal("Expected the delay to wake its task")
	}
	if !delay.Elapsed(w) {
		t.Errorf("Expected delay elapsed at now=%d", driver.Now())
	}

	ticker := driver.Every(64)
	start := driver.Now()
	fired := 0
	for i := 0; i < 64*20; i++ {
		port.tick(1)
		if ticker.Next(w) {
			fired++
		}
	}
	elapsed := driver.Now() - start
	if uint64(fired) != elapsed/64 {
		t.Errorf("Expected %d ticks over %d logical ticks, got %d", elapsed/64, elapsed, fired)
	}
}

func TestTimeDriverRecordsTiming(t *testing.T) {
	driver, _ := newTestDriver(t, 64)
	driver.RequestWake(1000, &Waker{})

	var types []uint8
	DrainTiming(func(evt TimingEvent) {
		types = append(types, evt.EventType)
	})

	expected := []uint8{EvtDriverStart, EvtWakeRequest, EvtAlarmSet}
	if len(types) != len(expected) {
		t.Fatalf("Expected %d events, got %v", len(expected), types)
	}
	for i := range expected {
		if types[i] != expected[i] {
			t.Errorf("Event %d: expected %s, got %s", i, EventName(expected[i]), EventName(types[i]))
		}
	}
}
