//go:build headless

// viewer_headless.go - no-op framebuffer viewer for headless builds (testing)
//
// (c) 2024 - 2026 Zayn Otley
// https://github.com/IntuitionAmiga/IntuitionEngine
// License: GPLv3 or later

package main

type framebufferViewer struct{}

func newFramebufferViewer(ctrl *GPUController) *framebufferViewer { return &framebufferViewer{} }

func (v *framebufferViewer) start() {}
func (v *framebufferViewer) stop()  {}
