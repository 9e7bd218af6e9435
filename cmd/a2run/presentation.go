package main

import (
	"fmt"
	"unsafe"

	"github.com/beevik/a2core/internal/switches"
	"github.com/veandco/go-sdl2/sdl"
)

// windowScale matches the scale factor the NES-emulator frontend in
// the retrieval pack uses for its own SDL window.
const windowScale = 3

// presentation owns the SDL window/renderer/texture and blits the
// video controller's RGB24 framebuffer every frame. It never generates
// pixels itself; that is the documented non-goal this layer only
// displays the result of.
type presentation struct {
	window   *sdl.Window
	renderer *sdl.Renderer
	texture  *sdl.Texture
}

func newPresentation(title string) (*presentation, error) {
	if err := sdl.Init(sdl.INIT_VIDEO); err != nil {
		return nil, fmt.Errorf("sdl init: %w", err)
	}

	w := switches.FrameBufferWidth
	h := switches.FrameBufferHeight

	window, err := sdl.CreateWindow(
		title,
		sdl.WINDOWPOS_UNDEFINED, sdl.WINDOWPOS_UNDEFINED,
		int32(w*windowScale), int32(h*windowScale),
		sdl.WINDOW_SHOWN,
	)
	if err != nil {
		sdl.Quit()
		return nil, fmt.Errorf("sdl create window: %w", err)
	}

	renderer, err := sdl.CreateRenderer(window, -1, sdl.RENDERER_ACCELERATED)
	if err != nil {
		window.Destroy()
		sdl.Quit()
		return nil, fmt.Errorf("sdl create renderer: %w", err)
	}

	texture, err := renderer.CreateTexture(sdl.PIXELFORMAT_RGB24, sdl.TEXTUREACCESS_STREAMING, int32(w), int32(h))
	if err != nil {
		renderer.Destroy()
		window.Destroy()
		sdl.Quit()
		return nil, fmt.Errorf("sdl create texture: %w", err)
	}

	return &presentation{window: window, renderer: renderer, texture: texture}, nil
}

// pollEvents drains the SDL event queue, forwarding key presses into
// keyboard and requesting a stop on a window-close event.
func (p *presentation) pollEvents(keyboard keyPoster, cpu *cpuAdapter) {
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch e := event.(type) {
		case *sdl.QuitEvent:
			cpu.RequestStop()
		case *sdl.KeyboardEvent:
			if e.Type == sdl.KEYDOWN {
				if ascii := sdlKeyToASCII(e.Keysym); ascii != 0 {
					keyboard.PostKey(ascii)
				}
			} else if e.Type == sdl.KEYUP {
				keyboard.ReleaseKey()
			}
		}
	}
}

// keyPoster is the subset of *switches.Keyboard the presentation layer
// drives.
type keyPoster interface {
	PostKey(asciiCode byte)
	ReleaseKey()
}

// sdlKeyToASCII maps the printable range of SDL keycodes onto ASCII.
// Non-printable keys (arrows, function keys) are left for a fuller
// keymap; the core's keyboard controller only cares about the 7-bit
// ASCII byte it latches.
func sdlKeyToASCII(k sdl.Keysym) byte {
	if k.Sym >= sdl.K_SPACE && k.Sym <= sdl.K_z {
		if k.Mod&sdl.KMOD_SHIFT != 0 && k.Sym >= sdl.K_a && k.Sym <= sdl.K_z {
			return byte(k.Sym) - ('a' - 'A')
		}
		return byte(k.Sym)
	}
	if k.Sym == sdl.K_RETURN {
		return '\r'
	}
	return 0
}

// present blits buf (RGB24, FrameBufferWidth*FrameBufferHeight*3
// bytes) to the window.
func (p *presentation) present(buf []byte) {
	if len(buf) == 0 {
		return
	}
	p.texture.Update(nil, unsafe.Pointer(&buf[0]), switches.FrameBufferWidth*3)
	p.renderer.Clear()
	p.renderer.Copy(p.texture, nil, nil)
	p.renderer.Present()
}

func (p *presentation) close() {
	p.texture.Destroy()
	p.renderer.Destroy()
	p.window.Destroy()
	sdl.Quit()
}
