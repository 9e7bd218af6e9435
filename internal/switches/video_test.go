package switches

import (
	"testing"

	"github.com/beevik/a2core/internal/iopage"
	"github.com/stretchr/testify/require"
)

func newVideoHarness(t *testing.T) (*Video, *Aux80Col, *iopage.Dispatcher) {
	main := make([]byte, 0x10000)
	aux := make([]byte, 0x10000)
	c := NewAux80Col(main, aux, 0xEE)
	v := NewVideo(c, 0xEE)
	d := iopage.New(0xEE)
	require.NoError(t, c.RegisterHandlers(d))
	require.NoError(t, v.RegisterHandlers(d))
	return v, c, d
}

func TestVideoTogglesTriggerOnReadOrWrite(t *testing.T) {
	v, _, d := newVideoHarness(t)

	require.False(t, v.Text())
	d.ReadHandler(0x51, liveCtx(0x51))
	require.True(t, v.Text())

	d.WriteHandler(0x50, 0, liveCtx(0x50))
	require.False(t, v.Text())
}

func TestVideoPage2MirrorsIntoAux80Col(t *testing.T) {
	v, c, d := newVideoHarness(t)
	d.ReadHandler(0x55, liveCtx(0x55))
	require.True(t, v.Page2())
	require.True(t, c.page2)
}

func TestVideoVBLStatusInverted(t *testing.T) {
	v, _, d := newVideoHarness(t)
	require.Equal(t, byte(0x80), d.ReadHandler(0x19, liveCtx(0x19))) // not in VBL -> bit7 set
	v.SetVBL(true)
	require.Equal(t, byte(0x00), d.ReadHandler(0x19, liveCtx(0x19)))
}

func TestVideoNoSideEffectsSuppressesMutation(t *testing.T) {
	v, _, d := newVideoHarness(t)
	d.ReadHandler(0x51, noSideEffectCtx(0x51))
	require.False(t, v.Text())
}

func TestVideoFrameBufferIsPresizedAndReplaceable(t *testing.T) {
	v, _, _ := newVideoHarness(t)
	require.Len(t, v.FrameBuffer(), FrameBufferWidth*FrameBufferHeight*3)

	custom := make([]byte, 9)
	v.SetFrameBuffer(custom)
	require.Same(t, &custom[0], &v.FrameBuffer()[0])
}

func TestVideoResetRestoresPowerOnState(t *testing.T) {
	v, _, d := newVideoHarness(t)
	d.ReadHandler(0x51, liveCtx(0x51))
	d.ReadHandler(0x53, liveCtx(0x53))
	v.SetVBL(true)
	v.Reset()
	require.True(t, v.Text())
	require.False(t, v.Mixed())
	require.False(t, v.Page2())
	require.False(t, v.HiRes())
	require.False(t, v.InVBL())
}
