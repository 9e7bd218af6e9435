// Package bus implements the memory bus fabric: the base mapping table,
// the priority-ordered overlay-layer stack, and the resolution
// algorithm that decides which target services a given CPU access.
package bus

import "fmt"

// Perms is a capability/permission bit set shared by Target
// capabilities and per-mapping permission overrides.
type Perms uint8

const (
	PermRead Perms = 1 << iota
	PermWrite
	PermExec
	// PermSideEffectFree marks a target whose reads never mutate state,
	// independent of whether the caller requested a side-effect-free
	// access. Most RAM/ROM targets set it; handler targets backed by
	// soft switches generally do not.
	PermSideEffectFree

	PermReadWrite = PermRead | PermWrite
)

// Intent records why the CPU (or DMA) is touching the bus.
type Intent uint8

const (
	IntentDataRead Intent = iota
	IntentDataWrite
	IntentInstructionFetch
	IntentDebugRead
)

// Source distinguishes the CPU from a DMA-capable peripheral (slot
// card doing a block transfer, for instance).
type Source uint8

const (
	SourceCPU Source = iota
	SourceDMA
)

// AccessContext accompanies every bus access. NoSideEffects must be
// honored by every handler and soft-switch controller: a debugger
// window reading memory must never perturb machine state.
type AccessContext struct {
	Address       uint16
	Intent        Intent
	Source        Source
	Cycle         uint64
	NoSideEffects bool
}

// DebugRead builds an AccessContext suitable for a side-effect-free
// debugger peek at addr.
func DebugRead(addr uint16) AccessContext {
	return AccessContext{Address: addr, Intent: IntentDebugRead, NoSideEffects: true}
}

// Handler is the callback interface a Handler-kind Target dispatches
// through: I/O page slots, the slot-manager's composite I/O target,
// and the page-0 composite router all implement it.
type Handler interface {
	ReadHandler(offset uint16, ctx AccessContext) byte
	WriteHandler(offset uint16, value byte, ctx AccessContext)
}

// TargetKind is the tag of the Target union.
type TargetKind uint8

const (
	TargetRAM TargetKind = iota
	TargetROM
	TargetHandler
)

// Target is the small closed tagged union the bus dispatches through.
// RAM and ROM targets window a []byte owned by an internal/memory
// Block; a Handler target carries an index into the Bus's handler
// table rather than an interface value, so the hot dispatch path in
// Bus.Read8/Write8 is a single switch, not a virtual call.
type Target struct {
	kind TargetKind
	mem  []byte // RAM/ROM: the windowed bytes
	hid  int    // Handler: index into Bus.handlers
	caps Perms  // intrinsic capabilities (independent of mapping perms)
}

// RAMTarget wraps a window into a memory.Block as a read/write target.
func RAMTarget(mem []byte) Target {
	return Target{kind: TargetRAM, mem: mem, caps: PermRead | PermWrite | PermSideEffectFree}
}

// ROMTarget wraps a window as a read-only target; writes are
// silently discarded.
func ROMTarget(mem []byte) Target {
	return Target{kind: TargetROM, mem: mem, caps: PermRead | PermExec | PermSideEffectFree}
}

// HandlerTarget references a registered Handler by id.
func HandlerTarget(hid int) Target {
	return Target{kind: TargetHandler, hid: hid, caps: PermRead | PermWrite}
}

// Capabilities returns the target's intrinsic capability set.
func (t Target) Capabilities() Perms { return t.caps }

// Kind returns the tag of the target union.
func (t Target) Kind() TargetKind { return t.kind }

func (t Target) read(offset uint16, b *Bus, ctx AccessContext) byte {
	switch t.kind {
	case TargetRAM, TargetROM:
		if int(offset) >= len(t.mem) {
			return b.floatingBus
		}
		return t.mem[offset]
	case TargetHandler:
		h := b.handlers[t.hid]
		return h.ReadHandler(offset, ctx)
	}
	return b.floatingBus
}

func (t Target) write(offset uint16, v byte, b *Bus, ctx AccessContext) {
	switch t.kind {
	case TargetRAM:
		if int(offset) < len(t.mem) {
			t.mem[offset] = v
		}
	case TargetROM:
		// discarded
	case TargetHandler:
		h := b.handlers[t.hid]
		h.WriteHandler(offset, v, ctx)
	}
}

func (t TargetKind) String() string {
	switch t {
	case TargetRAM:
		return "RAM"
	case TargetROM:
		return "ROM"
	case TargetHandler:
		return "Handler"
	default:
		return fmt.Sprintf("TargetKind(%d)", t)
	}
}
