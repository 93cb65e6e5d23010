package renderer

type Options struct {
	// Frame dims.
	FrameW uint32
	FrameH uint32

	// Vertical field of view in degrees.
	FOV float32

	// Optional equirectangular HDR environment map.
	EnvMapPath string

	// Window title.
	Title string
}
