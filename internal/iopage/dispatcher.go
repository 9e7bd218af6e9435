// Package iopage implements the 256-slot read/write handler table that
// services $C000-$C0FF, the Apple IIe's soft-switch I/O page.
package iopage

import (
	"fmt"

	"github.com/beevik/a2core/internal/bus"
)

// ReadFunc services a read of one I/O-page byte. It must honor
// ctx.NoSideEffects: when set, it must not mutate any switch, latch,
// or event state.
type ReadFunc func(addr uint16, ctx bus.AccessContext) byte

// WriteFunc services a write of one I/O-page byte.
type WriteFunc func(addr uint16, value byte, ctx bus.AccessContext)

// ConfigurationError reports a double-registration of an I/O slot by
// two distinct owners.
type ConfigurationError struct {
	Addr  uint16
	Owner string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("iopage: address $%04X already registered by %q", e.Addr, e.Owner)
}

// Dispatcher is the $C000-$C0FF handler table. It implements
// bus.Handler so it can be installed as a single Handler-kind Target
// covering the whole page.
type Dispatcher struct {
	readers      [256]ReadFunc
	writers      [256]WriteFunc
	readOwners   [256]string
	writeOwners  [256]string
	floatingBus  byte
}

// New creates an empty dispatcher. floatingBus is returned for
// unhandled read slots.
func New(floatingBus byte) *Dispatcher {
	return &Dispatcher{floatingBus: floatingBus}
}

// RegisterRead installs fn as the reader for low-byte offset addr
// (0x00-0xFF), owned by owner. Re-registering the same owner at the
// same address is idempotent; a different owner is a configuration
// error.
func (d *Dispatcher) RegisterRead(addr uint8, owner string, fn ReadFunc) error {
	if d.readers[addr] != nil && d.readOwners[addr] != owner {
		return &ConfigurationError{Addr: uint16(addr), Owner: d.readOwners[addr]}
	}
	d.readers[addr] = fn
	d.readOwners[addr] = owner
	return nil
}

// RegisterWrite installs fn as the writer for low-byte offset addr.
func (d *Dispatcher) RegisterWrite(addr uint8, owner string, fn WriteFunc) error {
	if d.writers[addr] != nil && d.writeOwners[addr] != owner {
		return &ConfigurationError{Addr: uint16(addr), Owner: d.writeOwners[addr]}
	}
	d.writers[addr] = fn
	d.writeOwners[addr] = owner
	return nil
}

// RegisterRange registers the same owner/reader/writer pair across
// [lo, hi] inclusive, a convenience used by controllers that alias a
// whole nibble range onto one handler (e.g. the language card's
// $C080-$C08F).
func (d *Dispatcher) RegisterRange(lo, hi uint8, owner string, rf ReadFunc, wf WriteFunc) error {
	for a := int(lo); a <= int(hi); a++ {
		if rf != nil {
			if err := d.RegisterRead(uint8(a), owner, rf); err != nil {
				return err
			}
		}
		if wf != nil {
			if err := d.RegisterWrite(uint8(a), owner, wf); err != nil {
				return err
			}
		}
	}
	return nil
}

// ReadHandler implements bus.Handler. offset is relative to $C000.
func (d *Dispatcher) ReadHandler(offset uint16, ctx bus.AccessContext) byte {
	slot := offset & 0xFF
	fn := d.readers[slot]
	if fn == nil {
		return d.floatingBus
	}
	return fn(uint16(slot), ctx)
}

// WriteHandler implements bus.Handler.
func (d *Dispatcher) WriteHandler(offset uint16, value byte, ctx bus.AccessContext) {
	slot := offset & 0xFF
	fn := d.writers[slot]
	if fn == nil {
		return
	}
	fn(uint16(slot), value, ctx)
}

var _ bus.Handler = (*Dispatcher)(nil)
