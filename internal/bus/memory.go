package bus

// cpuAccess is the access context every LoadByte/StoreByte call uses:
// a plain CPU fetch/store, side-effecting, with no originating address
// of its own (Read8/Write8 fill Address in from the addr argument).
var cpuAccess = AccessContext{Intent: IntentDataRead}
var cpuWriteAccess = AccessContext{Intent: IntentDataWrite}

// LoadByte, LoadBytes, LoadAddress, StoreByte, StoreBytes, and
// StoreAddress implement the github.com/beevik/go6502 Memory
// interface directly on Bus, so a real go6502.CPU can drive a Bus
// without an adapter type. The CPU core itself stays an external
// collaborator (spec.md §6); only these thin methods acknowledge its
// calling convention.
func (b *Bus) LoadByte(addr uint16) byte {
	return b.Read8(addr, cpuAccess)
}

func (b *Bus) LoadBytes(addr uint16, v []byte) {
	for i := range v {
		v[i] = b.Read8(addr+uint16(i), cpuAccess)
	}
}

func (b *Bus) LoadAddress(addr uint16) uint16 {
	return b.Read16(addr, cpuAccess)
}

func (b *Bus) StoreByte(addr uint16, v byte) {
	b.Write8(addr, v, cpuWriteAccess)
}

func (b *Bus) StoreBytes(addr uint16, v []byte) {
	for i, c := range v {
		b.Write8(addr+uint16(i), c, cpuWriteAccess)
	}
}

func (b *Bus) StoreAddress(addr uint16, v uint16) {
	b.Write8(addr, byte(v), cpuWriteAccess)
	b.Write8(addr+1, byte(v>>8), cpuWriteAccess)
}
