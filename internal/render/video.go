package render

import (
	"bytes"
	"context"
	"fmt"
	"image/jpeg"

	"github.com/icza/mjpeg"
	"go.uber.org/zap"

	"github.com/xkilldash9x/openfield/internal/walk"
)

// VideoSink receives JPEG frames in tick order. mjpeg.AviWriter satisfies it.
type VideoSink interface {
	AddFrame(jpegData []byte) error
	Close() error
}

// NewAVISink creates an MJPEG AVI file with square frames of frameSize pixels.
func NewAVISink(path string, frameSize, fps int) (VideoSink, error) {
	if fps <= 0 {
		return nil, fmt.Errorf("render: fps must be positive, got %d", fps)
	}
	if frameSize < 1 || frameSize > MaxFrameSize {
		return nil, fmt.Errorf("render: frame size must be within [1, %d], got %d", MaxFrameSize, frameSize)
	}
	w, err := mjpeg.New(path, int32(frameSize), int32(frameSize), int32(fps))
	if err != nil {
		return nil, fmt.Errorf("render: failed to create AVI writer at %s: %w", path, err)
	}
	return w, nil
}

// VideoEncoder turns a finished run into a frame sequence.
type VideoEncoder struct {
	renderer *FrameRenderer
	quality  int
	logger   *zap.Logger
}

// NewVideoEncoder creates an encoder; quality is the JPEG quality in [1, 100].
func NewVideoEncoder(renderer *FrameRenderer, quality int, logger *zap.Logger) *VideoEncoder {
	if quality < 1 || quality > 100 {
		quality = jpeg.DefaultQuality
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &VideoEncoder{renderer: renderer, quality: quality, logger: logger}
}

// Encode writes one frame per tick of res to sink and returns the number of
// frames written. The sink is not closed; the caller owns it.
func (v *VideoEncoder) Encode(ctx context.Context, sink VideoSink, res *walk.Result) (int, error) {
	var buf bytes.Buffer
	opts := &jpeg.Options{Quality: v.quality}
	elapsed := 0.0

	for i, rec := range res.Records {
		if err := ctx.Err(); err != nil {
			return i, err
		}
		if rec.Moved {
			elapsed += rec.Duration
		}

		frame := v.renderer.Render(rec.Position, rec.Step, elapsed)
		buf.Reset()
		if err := jpeg.Encode(&buf, frame, opts); err != nil {
			return i, fmt.Errorf("render: failed to encode frame %d: %w", rec.Step, err)
		}
		if err := sink.AddFrame(buf.Bytes()); err != nil {
			return i, fmt.Errorf("render: failed to add frame %d: %w", rec.Step, err)
		}
	}

	v.logger.Debug("Video frames written", zap.Int("frames", len(res.Records)), zap.Int("frame_size", v.renderer.Size()))
	return len(res.Records), nil
}
