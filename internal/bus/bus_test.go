package bus_test

import (
	"testing"

	"github.com/beevik/a2core/internal/bus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBus(t *testing.T) (*bus.Bus, []byte, []byte) {
	t.Helper()
	b := bus.New(0xFF)
	main := make([]byte, 0x10000)
	aux := make([]byte, 0x10000)

	require.NoError(t, b.SetBaseMapping(bus.Mapping{
		VirtualBase: 0x0000, Size: 0x10000, Target: bus.RAMTarget(main), PhysBase: 0,
	}))
	return b, main, aux
}

func TestBaseMappingReadWrite(t *testing.T) {
	b, main, _ := newTestBus(t)
	main[0x1234] = 0x42
	assert.Equal(t, byte(0x42), b.Read8(0x1234, bus.AccessContext{}))

	b.Write8(0x1235, 0x99, bus.AccessContext{})
	assert.Equal(t, byte(0x99), main[0x1235])
}

func TestFloatingBusOnUnmapped(t *testing.T) {
	b := bus.New(0xFF)
	assert.Equal(t, byte(0xFF), b.Read8(0x6000, bus.AccessContext{}))
	// write is silently discarded, no panic
	b.Write8(0x6000, 0x11, bus.AccessContext{})
}

func TestLayerOverridesBaseByPriority(t *testing.T) {
	b, main, aux := newTestBus(t)
	main[0x6000] = 0x11
	aux[0x6000] = 0x22

	layer, err := b.CreateLayer("aux", 10, bus.PermReadWrite)
	require.NoError(t, err)
	require.NoError(t, b.AddLayeredMapping(layer, bus.Mapping{
		VirtualBase: 0x6000, Size: 0x1000, Target: bus.RAMTarget(aux[0x6000:0x7000]), PhysBase: 0,
	}))

	// Inactive layer: base wins.
	assert.Equal(t, byte(0x11), b.Read8(0x6000, bus.AccessContext{}))

	require.NoError(t, b.ActivateLayer("aux"))
	assert.Equal(t, byte(0x22), b.Read8(0x6000, bus.AccessContext{}))

	require.NoError(t, b.DeactivateLayer("aux"))
	assert.Equal(t, byte(0x11), b.Read8(0x6000, bus.AccessContext{}))
}

func TestPermissionFallThrough(t *testing.T) {
	b, main, aux := newTestBus(t)
	main[0x6000] = 0x11
	aux[0x6000] = 0x22

	layer, err := b.CreateLayer("aux-read-only", 10, bus.PermRead)
	require.NoError(t, err)
	require.NoError(t, b.AddLayeredMapping(layer, bus.Mapping{
		VirtualBase: 0x6000, Size: 0x1000, Target: bus.RAMTarget(aux[0x6000:0x7000]), PhysBase: 0,
	}))
	require.NoError(t, b.ActivateLayer("aux-read-only"))

	// Reads come from aux (the higher-priority layer permits reads).
	assert.Equal(t, byte(0x22), b.Read8(0x6000, bus.AccessContext{}))

	// Writes fall through to main, since the aux layer denies writes.
	b.Write8(0x6000, 0x99, bus.AccessContext{})
	assert.Equal(t, byte(0x99), main[0x6000])
	assert.Equal(t, byte(0x22), aux[0x6000], "aux must be untouched by the fallen-through write")
}

func TestSetLayerPermissionsLive(t *testing.T) {
	b, main, aux := newTestBus(t)
	aux[0x6000] = 0x22
	_ = main

	layer, err := b.CreateLayer("aux", 10, bus.PermReadWrite)
	require.NoError(t, err)
	require.NoError(t, b.AddLayeredMapping(layer, bus.Mapping{
		VirtualBase: 0x6000, Size: 0x1000, Target: bus.RAMTarget(aux[0x6000:0x7000]), PhysBase: 0,
	}))
	require.NoError(t, b.ActivateLayer("aux"))

	require.NoError(t, b.SetLayerPermissions("aux", bus.PermRead))
	b.Write8(0x6000, 0x55, bus.AccessContext{})
	assert.Equal(t, byte(0x22), aux[0x6000], "write must not land once permissions drop to read-only")
}

func TestEqualPriorityConflictRejected(t *testing.T) {
	b, _, aux := newTestBus(t)

	l1, err := b.CreateLayer("l1", 10, bus.PermReadWrite)
	require.NoError(t, err)
	l2, err := b.CreateLayer("l2", 10, bus.PermReadWrite)
	require.NoError(t, err)

	require.NoError(t, b.AddLayeredMapping(l1, bus.Mapping{
		VirtualBase: 0x6000, Size: 0x1000, Target: bus.RAMTarget(aux[0x6000:0x7000]),
	}))
	require.NoError(t, b.AddLayeredMapping(l2, bus.Mapping{
		VirtualBase: 0x6000, Size: 0x1000, Target: bus.RAMTarget(aux[0x6000:0x7000]),
	}))

	require.NoError(t, b.ActivateLayer("l1"))
	err = b.ActivateLayer("l2")
	require.Error(t, err)
	assert.False(t, b.IsLayerActive("l2"))
}

func TestEqualPriorityConflictDetectedBehindHigherPriorityLayer(t *testing.T) {
	b, _, aux := newTestBus(t)

	high, err := b.CreateLayer("high", 50, bus.PermReadWrite)
	require.NoError(t, err)
	tie1, err := b.CreateLayer("tie1", 30, bus.PermReadWrite)
	require.NoError(t, err)
	tie2, err := b.CreateLayer("tie2", 30, bus.PermReadWrite)
	require.NoError(t, err)

	for _, l := range []*bus.Layer{high, tie1, tie2} {
		require.NoError(t, b.AddLayeredMapping(l, bus.Mapping{
			VirtualBase: 0x6000, Size: 0x1000, Target: bus.RAMTarget(aux[0x6000:0x7000]),
		}))
	}

	// high is created (and so scanned) first, but the conflict is
	// between tie1 and tie2; it must still be caught.
	require.NoError(t, b.ActivateLayer("high"))
	require.NoError(t, b.ActivateLayer("tie1"))
	err = b.ActivateLayer("tie2")
	require.Error(t, err)
	assert.False(t, b.IsLayerActive("tie2"))
}

func TestSingleLayerTwoMappingsOnSamePageNotAConflict(t *testing.T) {
	b, _, aux := newTestBus(t)

	layer, err := b.CreateLayer("split", 10, bus.PermReadWrite)
	require.NoError(t, err)
	require.NoError(t, b.AddLayeredMapping(layer, bus.Mapping{
		VirtualBase: 0x6000, Size: 0x1000, Target: bus.RAMTarget(aux[0x6000:0x7000]),
	}))
	require.NoError(t, b.AddLayeredMapping(layer, bus.Mapping{
		VirtualBase: 0x6000, Size: 0x1000, Target: bus.RAMTarget(aux[0x6000:0x7000]),
	}))

	require.NoError(t, b.ActivateLayer("split"))
	assert.True(t, b.IsLayerActive("split"))
}

func TestRead16ZeroPageWrap(t *testing.T) {
	b, main, _ := newTestBus(t)
	main[0x00FF] = 0x34
	main[0x0000] = 0x12
	main[0x0100] = 0x99 // must NOT be used

	got := b.Read16(0x00FF, bus.AccessContext{})
	assert.Equal(t, uint16(0x1234), got)
}

func TestRead16IndirectJMPBug(t *testing.T) {
	b, main, _ := newTestBus(t)
	main[0x30FF] = 0x34
	main[0x3000] = 0x12
	main[0x3100] = 0x99 // must NOT be used by the buggy form

	got := b.Read16Indirect(0x30FF, bus.AccessContext{})
	assert.Equal(t, uint16(0x1234), got)

	// The "correct" form does cross the page boundary.
	got2 := b.Read16(0x30FF, bus.AccessContext{})
	assert.Equal(t, uint16(0x9934), got2)
}

func TestHandlerTarget(t *testing.T) {
	b := bus.New(0xFF)
	h := &recordingHandler{}
	hid := b.RegisterHandler(h)
	require.NoError(t, b.SetBaseMapping(bus.Mapping{
		VirtualBase: 0xC000, Size: 0x1000, Target: bus.HandlerTarget(hid),
	}))

	got := b.Read8(0xC010, bus.AccessContext{})
	assert.Equal(t, byte(0xAB), got)
	assert.Equal(t, uint16(0x0010), h.lastReadOffset)

	b.Write8(0xC011, 0x7, bus.AccessContext{})
	assert.Equal(t, uint16(0x0011), h.lastWriteOffset)
	assert.Equal(t, byte(0x7), h.lastWriteValue)
}

type recordingHandler struct {
	lastReadOffset  uint16
	lastWriteOffset uint16
	lastWriteValue  byte
}

func (h *recordingHandler) ReadHandler(offset uint16, ctx bus.AccessContext) byte {
	h.lastReadOffset = offset
	return 0xAB
}

func (h *recordingHandler) WriteHandler(offset uint16, value byte, ctx bus.AccessContext) {
	h.lastWriteOffset = offset
	h.lastWriteValue = value
}
