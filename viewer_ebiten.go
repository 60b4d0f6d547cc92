//go:build !headless

// viewer_ebiten.go - optional framebuffer viewer, gated behind --display
//
// No rasterizer lives here: this is a development aid that blits the GPU
// controller's writable VRAM-adjacent bytes as a flat 8bpp-indexed image,
// upscaled with golang.org/x/image/draw into a window. Grounded on
// video_backend_ebiten.go's Game/Draw/Layout shape, trimmed to the one
// thing this core actually has to show: the GP0/GP1 bytes.
//
// (c) 2024 - 2026 Zayn Otley
// https://github.com/IntuitionAmiga/IntuitionEngine
// License: GPLv3 or later

package main

import (
	"fmt"
	"image"
	"image/color"
	"os"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"golang.org/x/image/draw"
)

const (
	viewerWindowW = 256
	viewerWindowH = 256
)

type framebufferViewer struct {
	ctrl *GPUController

	mu      sync.Mutex
	running bool
	dst     *image.RGBA
}

func newFramebufferViewer(ctrl *GPUController) *framebufferViewer {
	return &framebufferViewer{ctrl: ctrl, dst: image.NewRGBA(image.Rect(0, 0, viewerWindowW, viewerWindowH))}
}

func (v *framebufferViewer) start() {
	v.mu.Lock()
	if v.running {
		v.mu.Unlock()
		return
	}
	v.running = true
	v.mu.Unlock()

	ebiten.SetWindowSize(viewerWindowW, viewerWindowH)
	ebiten.SetWindowTitle("psxcore GPU controller viewer")
	ebiten.SetWindowResizable(true)
	ebiten.SetRunnableOnUnfocused(true)

	go func() {
		if err := ebiten.RunGame(v); err != nil {
			fmt.Fprintf(os.Stderr, "viewer: %v\n", err)
		}
	}()
}

func (v *framebufferViewer) stop() {
	v.mu.Lock()
	v.running = false
	v.mu.Unlock()
}

// Update satisfies ebiten.Game; closing the window never stops the core,
// it only ends the viewer's game loop.
func (v *framebufferViewer) Update() error {
	v.mu.Lock()
	running := v.running
	v.mu.Unlock()
	if !running || ebiten.IsWindowBeingClosed() {
		return ebiten.Termination
	}
	return nil
}

func (v *framebufferViewer) Draw(screen *ebiten.Image) {
	src := v.indexedSource()
	draw.NearestNeighbor.Scale(v.dst, v.dst.Bounds(), src, src.Bounds(), draw.Over, nil)

	img := ebiten.NewImageFromImage(v.dst)
	screen.DrawImage(img, nil)
}

func (v *framebufferViewer) Layout(_, _ int) (int, int) {
	return viewerWindowW, viewerWindowH
}

// indexedSource renders the controller's writable memory (GP0/GP1, 8
// bytes) as a one-row paletted image: a grayscale ramp over the raw byte
// values, as an 8bpp-indexed blit.
func (v *framebufferViewer) indexedSource() *image.Paletted {
	mem := v.ctrl.WritableMemory()
	pal := make(color.Palette, 256)
	for i := range pal {
		pal[i] = color.Gray{Y: uint8(i)}
	}
	img := image.NewPaletted(image.Rect(0, 0, len(mem), 1), pal)
	copy(img.Pix, mem)
	return img
}
