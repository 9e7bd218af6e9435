package switches

import (
	"github.com/beevik/a2core/internal/bus"
	"github.com/beevik/a2core/internal/iopage"
)

// Aux80Col implements the nine-switch 80-column/auxiliary-memory
// controller: $C000-$C00F (write-triggered toggles) and the status
// reads at $C013-$C018 and $C01F. It owns the PageZeroRouter that actually
// performs the $0000-$BFFF routing.
type Aux80Col struct {
	router *PageZeroRouter

	store80    bool
	ramrd      bool
	ramwrt     bool
	intcxrom   bool
	altzp      bool
	slotc3rom  bool
	col80      bool
	page2      bool // mirrored from the video controller
	hires      bool // mirrored from the video controller

	floating byte
}

// NewAux80Col creates the controller and its router, wired to the
// given main/aux RAM backing slices. The router itself is installed
// into the bus's base mapping by internal/machine, which owns the
// handler-id bookkeeping.
func NewAux80Col(main, aux []byte, floating byte) *Aux80Col {
	c := &Aux80Col{router: newPageZeroRouter(main, aux), floating: floating}
	c.router.update(c.altzp, c.store80, c.page2, c.hires, c.ramrd, c.ramwrt)
	return c
}

// Router returns the PageZeroRouter for installation as a bus.Handler.
func (c *Aux80Col) Router() *PageZeroRouter { return c.router }

// RegisterHandlers attaches the write-triggered toggles and the
// status reads to the dispatcher.
func (c *Aux80Col) RegisterHandlers(d *iopage.Dispatcher) error {
	pairs := []struct {
		off byte
		set func(bool)
	}{
		{0x00, func(v bool) { c.store80 = v }},
		{0x02, func(v bool) { c.ramrd = v }},
		{0x04, func(v bool) { c.ramwrt = v }},
		{0x06, func(v bool) { c.intcxrom = v }},
		{0x08, func(v bool) { c.altzp = v }},
		{0x0A, func(v bool) { c.slotc3rom = v }},
		{0x0C, func(v bool) { c.col80 = v }},
	}
	for _, p := range pairs {
		p := p
		if err := d.RegisterWrite(p.off, "aux80col", func(addr uint16, v byte, ctx bus.AccessContext) {
			if ctx.NoSideEffects {
				return
			}
			p.set(false)
			c.onChange()
		}); err != nil {
			return err
		}
		if err := d.RegisterWrite(p.off+1, "aux80col", func(addr uint16, v byte, ctx bus.AccessContext) {
			if ctx.NoSideEffects {
				return
			}
			p.set(true)
			c.onChange()
		}); err != nil {
			return err
		}
	}

	status := []struct {
		addr byte
		get  func() bool
	}{
		{0x13, func() bool { return c.ramrd }},
		{0x14, func() bool { return c.ramwrt }},
		{0x15, func() bool { return c.intcxrom }},
		{0x16, func() bool { return c.altzp }},
		{0x17, func() bool { return c.slotc3rom }},
		{0x18, func() bool { return c.store80 }},
		{0x1F, func() bool { return c.col80 }},
	}
	for _, s := range status {
		s := s
		if err := d.RegisterRead(s.addr, "aux80col", func(addr uint16, ctx bus.AccessContext) byte {
			if s.get() {
				return 0x80
			}
			return 0x00
		}); err != nil {
			return err
		}
	}

	// $C000 is also registered for a read by the keyboard controller;
	// aux80col only needs the write side there, so no conflict.
	return nil
}

func (c *Aux80Col) onChange() {
	c.router.update(c.altzp, c.store80, c.page2, c.hires, c.ramrd, c.ramwrt)
}

// SetPage2 and SetHiRes are the direct callbacks the video controller
// uses to mirror PAGE2/HIRES into this controller's routing, per
// spec.md §4.4's video-mode-controller description.
func (c *Aux80Col) SetPage2(v bool) {
	c.page2 = v
	c.onChange()
}

func (c *Aux80Col) SetHiRes(v bool) {
	c.hires = v
	c.onChange()
}

// Accessors for composite-I/O routing (internal/slots) and tests.
func (c *Aux80Col) Store80() bool   { return c.store80 }
func (c *Aux80Col) RAMRD() bool     { return c.ramrd }
func (c *Aux80Col) RAMWRT() bool    { return c.ramwrt }
func (c *Aux80Col) IntCXROM() bool  { return c.intcxrom }
func (c *Aux80Col) AltZP() bool     { return c.altzp }
func (c *Aux80Col) SlotC3ROM() bool { return c.slotc3rom }
func (c *Aux80Col) Col80() bool     { return c.col80 }

// Reset returns every switch to its power-on value (all false) and
// recomputes the router.
func (c *Aux80Col) Reset() {
	c.store80, c.ramrd, c.ramwrt, c.intcxrom = false, false, false, false
	c.altzp, c.slotc3rom, c.col80, c.page2, c.hires = false, false, false, false, false
	c.onChange()
}

// SoftSwitchStates implements the introspection contract.
func (c *Aux80Col) SoftSwitchStates() []SwitchState {
	return []SwitchState{
		{Name: "80STORE", Address: 0xC000, Value: c.store80},
		{Name: "RAMRD", Address: 0xC002, Value: c.ramrd},
		{Name: "RAMWRT", Address: 0xC004, Value: c.ramwrt},
		{Name: "INTCXROM", Address: 0xC006, Value: c.intcxrom},
		{Name: "ALTZP", Address: 0xC008, Value: c.altzp},
		{Name: "SLOTC3ROM", Address: 0xC00A, Value: c.slotc3rom},
		{Name: "80COL", Address: 0xC00C, Value: c.col80},
		{Name: "PAGE2", Address: 0xC054, Value: c.page2},
		{Name: "HIRES", Address: 0xC056, Value: c.hires},
	}
}
