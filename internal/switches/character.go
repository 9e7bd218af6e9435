package switches

import (
	"github.com/beevik/a2core/internal/bus"
	"github.com/beevik/a2core/internal/iopage"
)

// Character implements the $C060-$C06B glyph-bank/flash-suppression
// switches, $C00E/$C00F (ALTCHAR), and the $C01E status read. It has
// no bus-layer effect: the overlays it tracks are consulted by the
// video peripheral at scanline-fetch time, outside this core's scope.
type Character struct {
	altChar   bool
	glyphBank int
	flashOff  bool
}

// NewCharacter creates the controller.
func NewCharacter() *Character { return &Character{} }

// RegisterHandlers attaches ALTCHAR and the glyph-bank switches.
func (c *Character) RegisterHandlers(d *iopage.Dispatcher) error {
	if err := d.RegisterWrite(0x0E, "character", func(addr uint16, v byte, ctx bus.AccessContext) {
		if !ctx.NoSideEffects {
			c.altChar = false
		}
	}); err != nil {
		return err
	}
	if err := d.RegisterWrite(0x0F, "character", func(addr uint16, v byte, ctx bus.AccessContext) {
		if !ctx.NoSideEffects {
			c.altChar = true
		}
	}); err != nil {
		return err
	}
	if err := d.RegisterRead(0x1E, "character", func(addr uint16, ctx bus.AccessContext) byte {
		if c.altChar {
			return 0x80
		}
		return 0x00
	}); err != nil {
		return err
	}

	for i := byte(0x60); i <= 0x6B; i++ {
		i := i
		if err := d.RegisterRead(i, "character", func(addr uint16, ctx bus.AccessContext) byte {
			if !ctx.NoSideEffects {
				c.onGlyphAccess(addr)
			}
			return 0x00
		}); err != nil {
			return err
		}
	}
	return nil
}

func (c *Character) onGlyphAccess(addr uint16) {
	switch {
	case addr >= 0x60 && addr <= 0x67:
		c.glyphBank = int(addr-0x60) % 2
	case addr >= 0x68 && addr <= 0x6B:
		c.flashOff = addr%2 == 1
	}
}

// AltChar, GlyphBank, and FlashSuppressed expose state for the video
// peripheral's scanline fetch and for introspection.
func (c *Character) AltChar() bool       { return c.altChar }
func (c *Character) GlyphBank() int      { return c.glyphBank }
func (c *Character) FlashSuppressed() bool { return c.flashOff }

// Reset clears all character-set overlays.
func (c *Character) Reset() {
	c.altChar = false
	c.glyphBank = 0
	c.flashOff = false
}

// SoftSwitchStates implements the introspection contract.
func (c *Character) SoftSwitchStates() []SwitchState {
	return []SwitchState{
		{Name: "ALTCHAR", Address: 0xC00E, Value: c.altChar},
	}
}
