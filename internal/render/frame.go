// internal/render/frame.go
package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"
	"strings"

	"github.com/wcharczuk/go-chart/v2/drawing"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/xkilldash9x/openfield/internal/walk"
)

// MaxFrameSize bounds the frame edge in pixels. A 4096 px RGBA frame is 64 MiB.
const MaxFrameSize = 4096

// FrameSize returns the edge length in pixels of frames for arena at scale.
func FrameSize(arena walk.ArenaConfig, scale float64) (int, error) {
	if !(scale > 0) || math.IsInf(scale, 0) {
		return 0, fmt.Errorf("render: scale factor must be positive and finite, got %v", scale)
	}
	px := arena.Size * scale
	if px < 1 {
		return 0, fmt.Errorf("render: frame size %v px is too small", px)
	}
	if px >= MaxFrameSize+1 {
		return 0, fmt.Errorf("render: frame size %.0f px exceeds the %d px limit", px, MaxFrameSize)
	}
	return int(px), nil
}

// FrameOptions controls how one simulation tick is rasterized.
type FrameOptions struct {
	// ScaleFactor converts centimeters to pixels.
	ScaleFactor float64
	Background  color.Color
	Agent       color.Color
	Border      color.Color
	BorderWidth int
	// Label prints the step index and simulated time in the top-left corner.
	Label bool
}

// DefaultFrameOptions draws a green agent on black with a white border, 10 px per cm.
func DefaultFrameOptions() FrameOptions {
	return FrameOptions{
		ScaleFactor: 10,
		Background:  color.RGBA{A: 255},
		Agent:       color.RGBA{G: 255, A: 255},
		Border:      color.RGBA{R: 255, G: 255, B: 255, A: 255},
		BorderWidth: 2,
		Label:       true,
	}
}

// ParseColor accepts "#rrggbb" or "rrggbb".
func ParseColor(hex string) (color.Color, error) {
	h := strings.TrimPrefix(strings.TrimSpace(hex), "#")
	if len(h) != 6 {
		return nil, fmt.Errorf("render: invalid color %q (want #rrggbb)", hex)
	}
	for _, c := range h {
		if !strings.ContainsRune("0123456789abcdefABCDEF", c) {
			return nil, fmt.Errorf("render: invalid color %q (want #rrggbb)", hex)
		}
	}
	return drawing.ColorFromHex(h), nil
}

// FrameRenderer rasterizes agent positions into fixed-size frames.
type FrameRenderer struct {
	arena walk.ArenaConfig
	opts  FrameOptions
	size  int
}

// NewFrameRenderer sizes frames to arena.Size * opts.ScaleFactor pixels per side.
func NewFrameRenderer(arena walk.ArenaConfig, opts FrameOptions) (*FrameRenderer, error) {
	size, err := FrameSize(arena, opts.ScaleFactor)
	if err != nil {
		return nil, err
	}
	if opts.Background == nil || opts.Agent == nil || opts.Border == nil {
		defaults := DefaultFrameOptions()
		if opts.Background == nil {
			opts.Background = defaults.Background
		}
		if opts.Agent == nil {
			opts.Agent = defaults.Agent
		}
		if opts.Border == nil {
			opts.Border = defaults.Border
		}
	}
	return &FrameRenderer{arena: arena, opts: opts, size: size}, nil
}

// Size returns the frame edge length in pixels.
func (r *FrameRenderer) Size() int {
	return r.size
}

// AgentRect returns the pixel rectangle covered by the agent centered at pos.
// Both corners are inclusive, so Max is one past the bottom-right pixel.
func (r *FrameRenderer) AgentRect(pos walk.Position) image.Rectangle {
	half := r.arena.HalfAgentSize()
	s := r.opts.ScaleFactor
	x0 := int(math.Floor((pos.X - half) * s))
	y0 := int(math.Floor((pos.Y - half) * s))
	x1 := int(math.Floor((pos.X + half) * s))
	y1 := int(math.Floor((pos.Y + half) * s))
	return image.Rect(x0, y0, x1+1, y1+1)
}

// Render draws one frame: background, agent, border, then the optional label.
func (r *FrameRenderer) Render(pos walk.Position, step int, elapsed float64) *image.RGBA {
	frame := image.NewRGBA(image.Rect(0, 0, r.size, r.size))
	draw.Draw(frame, frame.Bounds(), image.NewUniform(r.opts.Background), image.Point{}, draw.Src)

	// draw.Draw clips to the frame, so an agent touching the edge is cut, not wrapped.
	draw.Draw(frame, r.AgentRect(pos), image.NewUniform(r.opts.Agent), image.Point{}, draw.Src)

	r.drawBorder(frame)

	if r.opts.Label {
		r.drawLabel(frame, fmt.Sprintf("step %d  t=%.2fs", step, elapsed))
	}
	return frame
}

func (r *FrameRenderer) drawBorder(frame *image.RGBA) {
	w := r.opts.BorderWidth
	if w <= 0 {
		return
	}
	src := image.NewUniform(r.opts.Border)
	n := r.size
	for _, rect := range []image.Rectangle{
		image.Rect(0, 0, n, w),
		image.Rect(0, n-w, n, n),
		image.Rect(0, 0, w, n),
		image.Rect(n-w, 0, n, n),
	} {
		draw.Draw(frame, rect, src, image.Point{}, draw.Src)
	}
}

func (r *FrameRenderer) drawLabel(frame *image.RGBA, text string) {
	d := &font.Drawer{
		Dst:  frame,
		Src:  image.NewUniform(r.opts.Border),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(6+r.opts.BorderWidth, 14+r.opts.BorderWidth),
	}
	d.DrawString(text)
}
