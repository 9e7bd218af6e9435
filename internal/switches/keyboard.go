package switches

import (
	"github.com/beevik/a2core/internal/bus"
	"github.com/beevik/a2core/internal/iopage"
)

// Keyboard implements $C000 (read: latest keycode with bit 7 as the
// strobe flag) and $C010 (read or write: clear the strobe; a read also
// returns the "key still down" bit in bit 7). Key delivery itself is
// an external collaborator's job (spec.md scopes input generation out);
// this controller only holds the latch and exposes it to the bus.
type Keyboard struct {
	keyCode byte // ASCII code of the last key, high bit excluded
	strobed bool
	down    bool
}

// NewKeyboard creates the controller.
func NewKeyboard() *Keyboard { return &Keyboard{} }

// RegisterHandlers attaches $C000 and $C010 to the dispatcher.
func (k *Keyboard) RegisterHandlers(d *iopage.Dispatcher) error {
	if err := d.RegisterRead(0x00, "keyboard", func(addr uint16, ctx bus.AccessContext) byte {
		return k.latchByte()
	}); err != nil {
		return err
	}
	if err := d.RegisterRead(0x10, "keyboard", func(addr uint16, ctx bus.AccessContext) byte {
		v := k.downByte()
		if !ctx.NoSideEffects {
			k.strobed = false
		}
		return v
	}); err != nil {
		return err
	}
	if err := d.RegisterWrite(0x10, "keyboard", func(addr uint16, v byte, ctx bus.AccessContext) {
		if !ctx.NoSideEffects {
			k.strobed = false
		}
	}); err != nil {
		return err
	}
	return nil
}

func (k *Keyboard) latchByte() byte {
	v := k.keyCode & 0x7F
	if k.strobed {
		v |= 0x80
	}
	return v
}

func (k *Keyboard) downByte() byte {
	v := k.keyCode & 0x7F
	if k.down {
		v |= 0x80
	}
	return v
}

// PostKey is the external collaborator's entry point for delivering a
// keypress: it latches the code, raises the strobe, and marks the key
// down. ReleaseKey clears the down bit without touching the strobe.
func (k *Keyboard) PostKey(asciiCode byte) {
	k.keyCode = asciiCode & 0x7F
	k.strobed = true
	k.down = true
}

func (k *Keyboard) ReleaseKey() { k.down = false }

// Strobed and KeyCode expose latch state for introspection and tests.
func (k *Keyboard) Strobed() bool  { return k.strobed }
func (k *Keyboard) KeyCode() byte  { return k.keyCode }
func (k *Keyboard) KeyDown() bool  { return k.down }

// Reset clears the latch, as at power-on.
func (k *Keyboard) Reset() {
	k.keyCode = 0
	k.strobed = false
	k.down = false
}

// SoftSwitchStates implements the introspection contract.
func (k *Keyboard) SoftSwitchStates() []SwitchState {
	return []SwitchState{
		{Name: "KBD", Address: 0xC000, Value: k.strobed},
	}
}
