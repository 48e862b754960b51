package core

// Divider selects how many CPU cycles make up one hardware timer increment.
type Divider uint8

const (
	Divider1    Divider = 0 // 16.78MHz
	Divider64   Divider = 1 // 262.21kHz
	Divider256  Divider = 2 // 65.536kHz
	Divider1024 Divider = 3 // 16.384kHz
)

// Cycles returns the number of CPU cycles per counter increment
func (d Divider) Cycles() uint32 {
	switch d {
	case Divider64:
		return 64
	case Divider256:
		return 256
	case Divider1024:
		return 1024
	default:
		return 1
	}
}

// TimerPort is the abstract hardware timer interface the clock is built on.
// Platform-specific implementations handle the actual registers.
type TimerPort interface {
	// Configure sets the prescaler and the number of counter increments
	// between overflows. The counter reloads to CounterModulus-overflowAmount.
	Configure(divider Divider, overflowAmount uint16)

	// EnableOverflowInterrupt turns the overflow interrupt request on or off
	EnableOverflowInterrupt(enable bool)

	// Start starts or stops the counter
	Start(enable bool)

	// ReadCounter returns the live counter value
	ReadCounter() uint16
}

// Halter suspends the processor until the next interrupt is recognized.
// Implementations must return immediately if an interrupt is already pending.
type Halter interface {
	Halt()
}

// HalterFunc adapts a plain function to the Halter interface
type HalterFunc func()

// Halt calls f()
func (f HalterFunc) Halt() {
	f()
}

// IRQ identifies an interrupt request line
type IRQ uint8

// Interrupt lines, numbered after the IE/IF bit positions
const (
	IRQVBlank IRQ = 0
	IRQHBlank IRQ = 1
	IRQVCount IRQ = 2
	IRQTimer0 IRQ = 3
	IRQTimer1 IRQ = 4
	IRQTimer2 IRQ = 5
	IRQTimer3 IRQ = 6
	IRQSerial IRQ = 7

	irqCount = 8
)

func (irq IRQ) String() string {
	switch irq {
	case IRQVBlank:
		return "vblank"
	case IRQHBlank:
		return "hblank"
	case IRQVCount:
		return "vcount"
	case IRQTimer0:
		return "timer0"
	case IRQTimer1:
		return "timer1"
	case IRQTimer2:
		return "timer2"
	case IRQTimer3:
		return "timer3"
	case IRQSerial:
		return "serial"
	}
	return "unknown"
}
