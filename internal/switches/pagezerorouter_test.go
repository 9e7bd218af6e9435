package switches

import (
	"testing"

	"github.com/beevik/a2core/internal/bus"
	"github.com/beevik/a2core/internal/iopage"
	"github.com/stretchr/testify/require"
)

// TestScenarioTwo80StorePage2TextRouting reproduces spec.md §8
// scenario 2 end to end: 80STORE + PAGE2 together override RAMRD/RAMWRT
// for the text-page-1 region, independent of the 80-column controller's
// own RAMRD/RAMWRT switches.
func TestScenarioTwo80StorePage2TextRouting(t *testing.T) {
	main := make([]byte, 0x10000)
	aux := make([]byte, 0x10000)
	c := NewAux80Col(main, aux, 0xEE)
	v := NewVideo(c, 0xEE)
	d := iopage.New(0xEE)
	require.NoError(t, c.RegisterHandlers(d))
	require.NoError(t, v.RegisterHandlers(d))

	router := c.Router()

	write := func(addr byte, val byte) { d.WriteHandler(uint16(addr), val, liveCtx(addr)) }
	read := func(addr byte) byte { return d.ReadHandler(uint16(addr), liveCtx(addr)) }

	write(0x01, 0) // 80STORE on
	require.True(t, c.Store80())

	read(0x55) // PAGE2 on
	require.True(t, v.Page2())

	router.WriteHandler(0x0400, 0x41, bus.AccessContext{})
	require.Equal(t, byte(0x41), aux[0x0400])
	require.Equal(t, byte(0x41), router.ReadHandler(0x0400, bus.AccessContext{}))

	read(0x54) // PAGE2 off
	require.False(t, v.Page2())

	router.WriteHandler(0x0400, 0x42, bus.AccessContext{})
	require.Equal(t, byte(0x42), main[0x0400])
	require.Equal(t, byte(0x42), router.ReadHandler(0x0400, bus.AccessContext{}))

	read(0x55) // PAGE2 on again
	require.Equal(t, byte(0x41), router.ReadHandler(0x0400, bus.AccessContext{}))
}

func TestPageZeroRouterZeroPageFollowsALTZP(t *testing.T) {
	main := make([]byte, 0x10000)
	aux := make([]byte, 0x10000)
	r := newPageZeroRouter(main, aux)

	r.update(false, false, false, false, false, false)
	r.WriteHandler(0x0080, 0x11, bus.AccessContext{})
	require.Equal(t, byte(0x11), main[0x0080])
	require.Equal(t, byte(0x00), aux[0x0080])

	r.update(true, false, false, false, false, false)
	r.WriteHandler(0x0080, 0x22, bus.AccessContext{})
	require.Equal(t, byte(0x22), aux[0x0080])
	require.Equal(t, byte(0x11), main[0x0080])
}

func TestPageZeroRouterOtherRAMFollowsRAMRDRAMWRTIndependently(t *testing.T) {
	main := make([]byte, 0x10000)
	aux := make([]byte, 0x10000)
	r := newPageZeroRouter(main, aux)

	r.update(false, false, false, false, true, false) // RAMRD=aux, RAMWRT=main
	r.WriteHandler(0x4000, 0x55, bus.AccessContext{})
	require.Equal(t, byte(0x55), main[0x4000])
	require.Equal(t, byte(0x00), aux[0x4000])

	aux[0x4000] = 0x99
	require.Equal(t, byte(0x99), r.ReadHandler(0x4000, bus.AccessContext{}))
}
