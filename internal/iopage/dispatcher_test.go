package iopage_test

import (
	"testing"

	"github.com/beevik/a2core/internal/bus"
	"github.com/beevik/a2core/internal/iopage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnhandledSlotReturnsFloatingBus(t *testing.T) {
	d := iopage.New(0xFF)
	assert.Equal(t, byte(0xFF), d.ReadHandler(0x10, bus.AccessContext{}))
}

func TestRegisterAndDispatch(t *testing.T) {
	d := iopage.New(0xFF)
	var sideEffects int
	require.NoError(t, d.RegisterRead(0x10, "kbd", func(addr uint16, ctx bus.AccessContext) byte {
		if !ctx.NoSideEffects {
			sideEffects++
		}
		return 0x42
	}))

	assert.Equal(t, byte(0x42), d.ReadHandler(0x10, bus.AccessContext{}))
	assert.Equal(t, 1, sideEffects)

	assert.Equal(t, byte(0x42), d.ReadHandler(0x10, bus.AccessContext{NoSideEffects: true}))
	assert.Equal(t, 1, sideEffects, "debug read must not trigger side effects")
}

func TestIdempotentSameOwnerRereg(t *testing.T) {
	d := iopage.New(0xFF)
	fn := func(addr uint16, ctx bus.AccessContext) byte { return 1 }
	require.NoError(t, d.RegisterRead(0x20, "kbd", fn))
	require.NoError(t, d.RegisterRead(0x20, "kbd", fn))
}

func TestCrossOwnerDoubleRegistrationRejected(t *testing.T) {
	d := iopage.New(0xFF)
	fn := func(addr uint16, ctx bus.AccessContext) byte { return 1 }
	require.NoError(t, d.RegisterRead(0x30, "kbd", fn))
	err := d.RegisterRead(0x30, "video", fn)
	require.Error(t, err)
	var cfgErr *iopage.ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
}

func TestUnhandledWriteIsNoOp(t *testing.T) {
	d := iopage.New(0xFF)
	d.WriteHandler(0x40, 0x99, bus.AccessContext{}) // must not panic
}
