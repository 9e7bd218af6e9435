// Package machine wires the bus fabric, soft-switch controllers, slot
// manager, and scheduler into a runnable Apple IIe-family machine, and
// defines the Go interfaces external collaborators (a CPU core, slot
// peripherals, disk images) implement to drive it.
package machine

import (
	"github.com/beevik/a2core/internal/iopage"
	"github.com/beevik/a2core/internal/scheduler"
	"github.com/beevik/a2core/internal/switches"
)

// RunState is what a CPU's Step reports back to the outer loop.
type RunState int

const (
	RunStateRunning RunState = iota
	RunStateHalted
	RunStateStopped
)

// CPU is the external collaborator that drives the bus. The core never
// implements it; cmd/a2run wires a real 6502 core (github.com/beevik/
// go6502) against Machine's bus adapter.
type CPU interface {
	Step() (cyclesConsumed int, state RunState)
	Halted() bool
	StopRequested() bool
}

// SwitchState is re-exported from internal/switches so callers of the
// introspection contract don't need to import that package directly.
type SwitchState = switches.SwitchState

// PeripheralKind distinguishes a motherboard-resident controller from
// a card plugged into a numbered slot.
type PeripheralKind int

const (
	Motherboard PeripheralKind = iota
	SlotCard
)

// Peripheral is implemented by every component, built-in or
// slot-installed, that registers onto the I/O-page dispatcher and
// participates in reset.
type Peripheral interface {
	Name() string
	Kind() PeripheralKind
	SlotNumber() (slot int, ok bool)
	RegisterHandlers(d *iopage.Dispatcher) error
	Initialize(s *scheduler.Scheduler) error
	Reset()
}

// Introspectable is an optional capability a Peripheral may implement
// to expose its soft-switch state to a debugger.
type Introspectable interface {
	SoftSwitchStates() []SwitchState
}

// BlockError is the small error-code vocabulary the block-device
// contract returns instead of a Go error, matching the host hardware's
// own status codes.
type BlockError int

const (
	NoError BlockError = iota
	WriteProtected
	VolumeTooLarge
	IOError
)

func (e BlockError) String() string {
	switch e {
	case NoError:
		return "no error"
	case WriteProtected:
		return "write protected"
	case VolumeTooLarge:
		return "volume too large"
	case IOError:
		return "I/O error"
	default:
		return "unknown block error"
	}
}

// BlockDevice is the contract for disk/SmartPort peripherals that
// expose fixed-size block storage rather than Disk II's bitstream
// interface.
type BlockDevice interface {
	BlockCount() int
	BlockSize() int
	IsReadOnly() bool
	ReadBlock(n int, buf []byte) BlockError
	WriteBlock(n int, buf []byte) BlockError
}

// DiskII is the contract for an analog floppy peripheral driving the
// bus fabric's scheduler for bit-cell timing. The core never
// implements data separation or sector decode; this interface only
// describes how such a peripheral plugs into the dispatcher and the
// scheduler.
type DiskII interface {
	Peripheral
	SetPhase(phase int, on bool)
	SetMotor(on bool)
	SelectDrive(drive int)
	ReadDataLatch() byte
	WriteDataLatch(v byte)
}
