package switches

import "github.com/beevik/a2core/internal/bus"

// liveCtx builds a normal, side-effecting access context for a given
// low-byte I/O-page offset, as a CPU data access would produce.
func liveCtx(offset byte) bus.AccessContext {
	return bus.AccessContext{Address: 0xC000 + uint16(offset), Intent: bus.IntentDataRead}
}

// noSideEffectCtx builds a debugger-style peek context for the same
// offset, used to verify controllers honor NoSideEffects.
func noSideEffectCtx(offset byte) bus.AccessContext {
	return bus.DebugRead(0xC000 + uint16(offset))
}
