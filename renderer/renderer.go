package renderer

type Renderer interface {
	// Run the render loop until the window closes.
	Render() error

	// Shutdown renderer and release GPU resources.
	Close()

	// Get render statistics.
	Stats() FrameStats
}
