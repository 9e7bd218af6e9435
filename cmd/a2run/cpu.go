package main

import (
	"github.com/beevik/a2core/internal/machine"
	"github.com/beevik/go6502"
)

// cpuAdapter satisfies machine.CPU by wrapping a real go6502.CPU,
// selecting the NMOS variant (an Apple IIe carries a plain 6502, not
// the 65C02).
type cpuAdapter struct {
	cpu  *go6502.CPU
	stop bool
}

// newCPUAdapter constructs a go6502 CPU directly against m.Bus, which
// implements go6502's Memory interface (internal/bus/memory.go).
// go6502.NewCPU resets the CPU against mem as part of construction, so
// the reset vector is read only after the bus's ROM mapping is fully
// wired.
func newCPUAdapter(m *machine.Machine) *cpuAdapter {
	return &cpuAdapter{cpu: go6502.NewCPU(go6502.NMOS, m.Bus)}
}

func (a *cpuAdapter) Step() (int, machine.RunState) {
	cycles := a.cpu.Step()
	if a.stop {
		return cycles, machine.RunStateStopped
	}
	return cycles, machine.RunStateRunning
}

func (a *cpuAdapter) Halted() bool        { return false }
func (a *cpuAdapter) StopRequested() bool { return a.stop }

// RequestStop is called from the presentation loop on a quit event.
func (a *cpuAdapter) RequestStop() { a.stop = true }
