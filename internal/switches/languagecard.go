package switches

import (
	"github.com/beevik/a2core/internal/bus"
	"github.com/beevik/a2core/internal/iopage"
)

// Language-card RAM block layout within its 16 KiB block: the two
// interchangeable 4 KiB banks mapped at $D000-$DFFF share the same
// $E000-$FFFF high RAM, per spec.md §3/§5 ("the bank select changes
// which sub-slice is exposed, not whether the data is shared").
const (
	lcBank1Offset = 0x0000
	lcBank2Offset = 0x1000
	lcHighOffset  = 0x2000
	lcBankSize    = 0x1000
	lcHighSize    = 0x2000

	lcBank1Layer = "lc-bank1"
	lcBank2Layer = "lc-bank2"
	lcHighLayer  = "lc-high"
)

// LanguageCard implements the $C080-$C08F controller: the R×2 write-
// enable protocol and the bank-1/bank-2/high-RAM bus layers it drives.
type LanguageCard struct {
	b   *bus.Bus
	lc  []byte // the 16 KiB language-card RAM window
	ram bool   // ram_read
	wrt bool   // ram_write
	bank2 bool

	pendingOdd bool
	pendingKey uint16

	floating byte
}

// NewLanguageCard creates the controller and its three bus layers
// (not yet activated: Reset does that so power-on state is explicit).
func NewLanguageCard(b *bus.Bus, lcRAM []byte, floating byte) (*LanguageCard, error) {
	lc := &LanguageCard{b: b, lc: lcRAM, floating: floating}

	b1, err := b.CreateLayer(lcBank1Layer, 50, bus.PermReadWrite)
	if err != nil {
		return nil, err
	}
	if err := b.AddLayeredMapping(b1, bus.Mapping{
		VirtualBase: 0xD000, Size: 0x1000,
		Target: bus.RAMTarget(lcRAM[lcBank1Offset : lcBank1Offset+lcBankSize]),
		RegionTag: "language-card-bank1",
	}); err != nil {
		return nil, err
	}

	b2, err := b.CreateLayer(lcBank2Layer, 50, bus.PermReadWrite)
	if err != nil {
		return nil, err
	}
	if err := b.AddLayeredMapping(b2, bus.Mapping{
		VirtualBase: 0xD000, Size: 0x1000,
		Target: bus.RAMTarget(lcRAM[lcBank2Offset : lcBank2Offset+lcBankSize]),
		RegionTag: "language-card-bank2",
	}); err != nil {
		return nil, err
	}

	high, err := b.CreateLayer(lcHighLayer, 50, bus.PermReadWrite)
	if err != nil {
		return nil, err
	}
	if err := b.AddLayeredMapping(high, bus.Mapping{
		VirtualBase: 0xE000, Size: 0x2000,
		Target: bus.RAMTarget(lcRAM[lcHighOffset : lcHighOffset+lcHighSize]),
		RegionTag: "language-card-high",
	}); err != nil {
		return nil, err
	}

	return lc, nil
}

// RegisterHandlers attaches the controller to $C080-$C08F. All reads
// mutate state (subject to NoSideEffects); writes are ignored per
// spec.md §4.4.
func (lc *LanguageCard) RegisterHandlers(d *iopage.Dispatcher) error {
	return d.RegisterRange(0x80, 0x8F, "language-card", lc.read, lc.write)
}

func (lc *LanguageCard) read(addr uint16, ctx bus.AccessContext) byte {
	if !ctx.NoSideEffects {
		lc.onAccess(addr)
	}
	return lc.floating
}

func (lc *LanguageCard) write(addr uint16, value byte, ctx bus.AccessContext) {
	// Writes to $C08x have no effect, per spec.md §4.4.
}

// onAccess implements the offset -> effect table and the R×2 write-
// enable protocol, using addr&0x0B as the "same odd address" identity
// so that the $C084-$C087/$C08C-$C08F aliases behave as exact
// duplicates of $C080-$C083/$C088-$C08B (spec.md §9's resolved open
// question).
func (lc *LanguageCard) onAccess(addr uint16) {
	off := addr & 0x0F
	bits01 := off & 0x03
	key := addr & 0x0B

	switch bits01 {
	case 0x00:
		lc.ram = true
		lc.clearLatch()
	case 0x01:
		lc.ram = false
		lc.stepRxTwo(key)
	case 0x02:
		lc.ram = false
		lc.clearLatch()
	case 0x03:
		lc.ram = true
		lc.stepRxTwo(key)
	}
	lc.bank2 = off&0x08 == 0
	lc.applyLayers()
}

func (lc *LanguageCard) stepRxTwo(key uint16) {
	if lc.pendingOdd && lc.pendingKey == key {
		lc.wrt = true
	} else {
		lc.wrt = false
	}
	lc.pendingOdd = true
	lc.pendingKey = key
}

func (lc *LanguageCard) clearLatch() {
	lc.wrt = false
	lc.pendingOdd = false
}

// applyLayers selects the active $D000-$DFFF bank layer and sets every
// language-card layer's permission mask from the current ram/wrt
// state. When neither read nor write is enabled the mask is empty, so
// bus resolution falls through to the base ROM mapping for both
// directions, equivalent to the card being entirely out of the
// picture, without needing a separate activate/deactivate step.
func (lc *LanguageCard) applyLayers() {
	if lc.bank2 {
		_ = lc.b.DeactivateLayer(lcBank1Layer)
		_ = lc.b.ActivateLayer(lcBank2Layer)
	} else {
		_ = lc.b.DeactivateLayer(lcBank2Layer)
		_ = lc.b.ActivateLayer(lcBank1Layer)
	}

	var perms bus.Perms
	if lc.ram {
		perms |= bus.PermRead
	}
	if lc.wrt {
		perms |= bus.PermWrite
	}
	bankLayer := lcBank1Layer
	if lc.bank2 {
		bankLayer = lcBank2Layer
	}
	_ = lc.b.SetLayerPermissions(bankLayer, perms)
	_ = lc.b.SetLayerPermissions(lcHighLayer, perms)
}

// Reset restores power-on state: ROM visible, write disabled, bank 1
// selected, R×2 latch clear.
func (lc *LanguageCard) Reset() {
	lc.ram = false
	lc.wrt = false
	lc.bank2 = false
	lc.pendingOdd = false
	_ = lc.b.DeactivateLayer(lcBank2Layer)
	_ = lc.b.ActivateLayer(lcBank1Layer)
	_ = lc.b.ActivateLayer(lcHighLayer)
	_ = lc.b.SetLayerPermissions(lcBank1Layer, 0)
	_ = lc.b.SetLayerPermissions(lcHighLayer, 0)
}

// RAMRead, RAMWrite, and Bank2 expose the language-card state booleans
// from spec.md §3, for introspection and tests.
func (lc *LanguageCard) RAMRead() bool  { return lc.ram }
func (lc *LanguageCard) RAMWrite() bool { return lc.wrt }
func (lc *LanguageCard) Bank2() bool    { return lc.bank2 }

// SoftSwitchStates implements the introspection contract.
func (lc *LanguageCard) SoftSwitchStates() []SwitchState {
	return []SwitchState{
		{Name: "LCRAMRD", Address: 0xC080, Value: lc.ram},
		{Name: "LCRAMWRT", Address: 0xC080, Value: lc.wrt},
		{Name: "LCBANK2", Address: 0xC080, Value: lc.bank2},
	}
}
