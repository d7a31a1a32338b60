package component

import (
	"image"
	"time"
)

// Animation cycles through source rectangles of a single sprite sheet on a
// wall-clock timer. The sheet itself lives in the texture arena and is
// referenced by TextureIndex.
type Animation struct {
	Frames        []image.Rectangle
	FrameDuration time.Duration
	TextureIndex  int

	current        int
	lastTransition time.Time
}

// NewAnimation creates an Animation positioned on its first frame whose timer
// starts at `start`.
func NewAnimation(frames []image.Rectangle, frameDuration time.Duration, textureIndex int, start time.Time) *Animation {
	return &Animation{
		Frames:         frames,
		FrameDuration:  frameDuration,
		TextureIndex:   textureIndex,
		lastTransition: start,
	}
}

// NewVerticalAnimation slices a single-column sheet where frame i occupies
// the row starting at y = frameH*i.
func NewVerticalAnimation(textureIndex, frameW, frameH, frameCount int, frameDuration time.Duration, start time.Time) *Animation {
	if frameCount < 0 {
		frameCount = 0
	}
	frames := make([]image.Rectangle, frameCount)
	for i := 0; i < frameCount; i++ {
		y := frameH * i
		frames[i] = image.Rect(0, y, frameW, y+frameH)
	}
	return NewAnimation(frames, frameDuration, textureIndex, start)
}

// Advance moves to the next frame once FrameDuration has elapsed since the
// last transition, wrapping at the end of the sheet.
func (a *Animation) Advance(now time.Time) {
	if a == nil || len(a.Frames) == 0 {
		return
	}
	if now.Sub(a.lastTransition) < a.FrameDuration {
		return
	}
	a.current = (a.current + 1) % len(a.Frames)
	a.lastTransition = now
}

// CurrentFrameRect returns the source rectangle of the current frame.
func (a *Animation) CurrentFrameRect() image.Rectangle {
	if a == nil || len(a.Frames) == 0 {
		return image.Rectangle{}
	}
	return a.Frames[a.current]
}

// CurrentFrame returns the index of the current frame.
func (a *Animation) CurrentFrame() int {
	if a == nil {
		return 0
	}
	return a.current
}

// Reset rewinds to the first frame and restarts the timer.
func (a *Animation) Reset(now time.Time) {
	if a == nil {
		return
	}
	a.current = 0
	a.lastTransition = now
}

// Size returns the frame width/height of the current frame.
func (a *Animation) Size() (int, int) {
	r := a.CurrentFrameRect()
	return r.Dx(), r.Dy()
}
