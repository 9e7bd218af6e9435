package switches

import (
	"github.com/beevik/a2core/internal/bus"
	"github.com/beevik/a2core/internal/iopage"
)

// FrameBufferWidth and FrameBufferHeight size the RGB24 buffer
// presentation layers blit from. Pixel generation itself is out of
// scope for this controller; SetFrameBuffer is the seam an external
// video-generation collaborator writes through.
const (
	FrameBufferWidth  = 280
	FrameBufferHeight = 192
)

// Video implements the $C050-$C05F mode-toggle switches and the
// $C019-$C01D status reads. Changes to TEXT/MIXED/annunciators are
// video-only (no bus-layer effect); PAGE2 and HIRES are mirrored into
// the 80-column controller, since those two feed memory routing.
type Video struct {
	aux *Aux80Col

	text, mixed, page2, hires bool
	annunciator               [4]bool

	inVBL bool

	floating byte

	frameBuffer []byte
}

// NewVideo creates the controller. aux receives the PAGE2/HIRES
// mirror callbacks.
func NewVideo(aux *Aux80Col, floating byte) *Video {
	return &Video{
		aux:         aux,
		floating:    floating,
		frameBuffer: make([]byte, FrameBufferWidth*FrameBufferHeight*3),
	}
}

// FrameBuffer returns the RGB24 pixel buffer a presentation layer
// blits to screen. The controller only owns the buffer's storage and
// mode flags; populating it from character/hi-res RAM is the
// documented pixel-generation non-goal, left to an external
// collaborator via SetFrameBuffer.
func (v *Video) FrameBuffer() []byte { return v.frameBuffer }

// SetFrameBuffer lets an external pixel-generation collaborator
// replace the buffer Video exposes to presentation layers. The slice
// must be FrameBufferWidth*FrameBufferHeight*3 bytes.
func (v *Video) SetFrameBuffer(buf []byte) { v.frameBuffer = buf }

// RegisterHandlers attaches the mode toggles (which trigger on either
// a read or a write, per spec.md §4.4) and the status reads.
func (v *Video) RegisterHandlers(d *iopage.Dispatcher) error {
	toggles := []struct {
		off byte
		set func(bool)
	}{
		{0x50, func(b bool) { v.text = b }},
		{0x52, func(b bool) { v.mixed = b }},
		{0x54, func(b bool) { v.page2 = b; v.aux.SetPage2(b) }},
		{0x56, func(b bool) { v.hires = b; v.aux.SetHiRes(b) }},
		{0x58, func(b bool) { v.annunciator[0] = b }},
		{0x5A, func(b bool) { v.annunciator[1] = b }},
		{0x5C, func(b bool) { v.annunciator[2] = b }},
		{0x5E, func(b bool) { v.annunciator[3] = b }},
	}
	for _, t := range toggles {
		off, on := t.off, t.off+1
		set := t.set
		access := func(v bool) func(addr uint16, ctx bus.AccessContext) byte {
			return func(addr uint16, ctx bus.AccessContext) byte {
				if !ctx.NoSideEffects {
					set(v)
				}
				return 0xFF
			}
		}
		if err := d.RegisterRead(off, "video", access(false)); err != nil {
			return err
		}
		if err := d.RegisterRead(on, "video", access(true)); err != nil {
			return err
		}
		if err := d.RegisterWrite(off, "video", func(addr uint16, val byte, ctx bus.AccessContext) {
			if !ctx.NoSideEffects {
				set(false)
			}
		}); err != nil {
			return err
		}
		if err := d.RegisterWrite(on, "video", func(addr uint16, val byte, ctx bus.AccessContext) {
			if !ctx.NoSideEffects {
				set(true)
			}
		}); err != nil {
			return err
		}
	}

	status := []struct {
		addr byte
		get  func() bool
		invert bool
	}{
		{0x19, func() bool { return v.inVBL }, true}, // bit7=1 means NOT in VBL
		{0x1A, func() bool { return v.text }, false},
		{0x1B, func() bool { return v.mixed }, false},
		{0x1C, func() bool { return v.page2 }, false},
		{0x1D, func() bool { return v.hires }, false},
	}
	for _, s := range status {
		s := s
		if err := d.RegisterRead(s.addr, "video", func(addr uint16, ctx bus.AccessContext) byte {
			val := s.get()
			if s.invert {
				val = !val
			}
			if val {
				return 0x80
			}
			return 0x00
		}); err != nil {
			return err
		}
	}
	return nil
}

// SetVBL is invoked by the scheduler's VideoBlank consumer to raise or
// clear the VBL status bit observed at $C019.
func (v *Video) SetVBL(active bool) { v.inVBL = active }

// InVBL reports the current VBL state, for tests/introspection.
func (v *Video) InVBL() bool { return v.inVBL }
func (v *Video) Page2() bool { return v.page2 }
func (v *Video) HiRes() bool { return v.hires }
func (v *Video) Text() bool  { return v.text }
func (v *Video) Mixed() bool { return v.mixed }

// Reset returns every video switch to its power-on value: text mode,
// not mixed, page 1, lo-res, out of VBL.
func (v *Video) Reset() {
	v.text, v.mixed, v.page2, v.hires, v.inVBL = true, false, false, false, false
	v.annunciator = [4]bool{}
	v.aux.SetPage2(false)
	v.aux.SetHiRes(false)
}

// SoftSwitchStates implements the introspection contract.
func (v *Video) SoftSwitchStates() []SwitchState {
	return []SwitchState{
		{Name: "TEXT", Address: 0xC050, Value: v.text},
		{Name: "MIXED", Address: 0xC052, Value: v.mixed},
		{Name: "PAGE2", Address: 0xC054, Value: v.page2},
		{Name: "HIRES", Address: 0xC056, Value: v.hires},
		{Name: "VBL", Address: 0xC019, Value: v.inVBL},
	}
}
