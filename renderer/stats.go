package renderer

import "time"

type FrameStats struct {
	// Smoothed render time for the last frame.
	FrameTime time.Duration

	// Smoothed frames per second.
	FPS float64

	// Total frames presented.
	Frames uint64
}
