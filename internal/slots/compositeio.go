package slots

import (
	"fmt"

	"github.com/beevik/a2core/internal/bus"
	"github.com/beevik/a2core/internal/iopage"
)

const (
	internalROMSize      = 0x0700 // $C100-$C7FF
	defaultExpansionSize = 0x0800 // $C800-$CFFF
	ioPageSize           = 0x0100
	slotROMRegionStart   = 0x0100 // offset of $C100 within the composite target
	expansionRegionStart = 0x0800 // offset of $C800 within the composite target
)

// cxromSource is the subset of the 80-column controller the composite
// I/O target needs to decide internal-ROM-vs-slot-ROM routing. Declared
// here rather than imported from internal/switches so this package
// depends only on the interface it actually uses.
type cxromSource interface {
	IntCXROM() bool
	SlotC3ROM() bool
}

// CompositeIO is the $C000-$CFFF bus.Handler from spec §4.5: it
// delegates $C000-$C0FF to the I/O-page dispatcher, routes $C100-$C7FF
// between the internal ROM overlay and slot ROMs (with the $C300-$C3FF
// special case), and serves $C800-$CFFF from whichever expansion ROM
// the slot manager's latch currently selects.
type CompositeIO struct {
	mgr        *Manager
	dispatcher *iopage.Dispatcher
	cxrom      cxromSource

	internalROM      []byte
	defaultExpansion []byte

	floating byte
}

// NewCompositeIO validates the fixed-size internal ROM images and
// builds the composite target.
func NewCompositeIO(mgr *Manager, dispatcher *iopage.Dispatcher, cxrom cxromSource, internalROM, defaultExpansion []byte, floating byte) (*CompositeIO, error) {
	if len(internalROM) != internalROMSize {
		return nil, &ConfigurationError{Reason: fmt.Sprintf("internal ROM must be %d bytes, got %d", internalROMSize, len(internalROM))}
	}
	if len(defaultExpansion) != defaultExpansionSize {
		return nil, &ConfigurationError{Reason: fmt.Sprintf("default expansion ROM must be %d bytes, got %d", defaultExpansionSize, len(defaultExpansion))}
	}
	return &CompositeIO{
		mgr: mgr, dispatcher: dispatcher, cxrom: cxrom,
		internalROM: internalROM, defaultExpansion: defaultExpansion,
		floating: floating,
	}, nil
}

// ReadHandler implements bus.Handler. offset is relative to $C000.
func (c *CompositeIO) ReadHandler(offset uint16, ctx bus.AccessContext) byte {
	switch {
	case offset < ioPageSize:
		return c.dispatcher.ReadHandler(offset, ctx)
	case offset < expansionRegionStart:
		return c.readSlotROMRegion(offset, ctx)
	default:
		return c.readExpansionRegion(offset, ctx)
	}
}

// WriteHandler implements bus.Handler. Only $C000-$C0FF accepts
// writes; slot ROM and expansion ROM are read-only, though accesses to
// them still observe the latch-transition rule.
func (c *CompositeIO) WriteHandler(offset uint16, value byte, ctx bus.AccessContext) {
	switch {
	case offset < ioPageSize:
		c.dispatcher.WriteHandler(offset, value, ctx)
	case offset < expansionRegionStart:
		if !ctx.NoSideEffects {
			c.mgr.observe(0xC000 + offset)
		}
	default:
		if !ctx.NoSideEffects {
			c.mgr.observe(0xC000 + offset)
		}
	}
}

func (c *CompositeIO) readSlotROMRegion(offset uint16, ctx bus.AccessContext) byte {
	addr := 0xC000 + offset
	if !ctx.NoSideEffects {
		c.mgr.observe(addr)
	}

	slot := int(offset>>8) & 0x0F
	special3 := addr >= 0xC300 && addr <= 0xC3FF
	useInternal := c.cxrom.IntCXROM() || (special3 && !c.cxrom.SlotC3ROM())

	if useInternal {
		return c.internalROM[offset-slotROMRegionStart]
	}
	card := c.mgr.Card(slot)
	if card == nil {
		return c.floating
	}
	return card.ROM[addr&0xFF]
}

func (c *CompositeIO) readExpansionRegion(offset uint16, ctx bus.AccessContext) byte {
	addr := 0xC000 + offset
	if !ctx.NoSideEffects {
		c.mgr.observe(addr)
	}

	idx := offset - expansionRegionStart
	latch := c.mgr.Latch()
	if latch != 0 {
		if card := c.mgr.Card(latch); card != nil && card.ExpansionROM != nil {
			return card.ExpansionROM[idx]
		}
	}
	return c.defaultExpansion[idx]
}

var _ bus.Handler = (*CompositeIO)(nil)
