package renderer

import (
	"fmt"
	"runtime"
	"time"

	"github.com/go-gl/gl/v4.5-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/prism-engine/prism/log"
	"github.com/prism-engine/prism/scene"
	"github.com/prism-engine/prism/tracer/opengl"
)

const (
	// Coefficient for converting delta cursor movements to yaw/pitch
	// camera angles, in degrees per pixel.
	mouseSensitivity float32 = 0.1

	// Camera movement speed in world units per frame.
	cameraMoveSpeed float32 = 0.25

	// Title refresh interval for the FPS readout.
	titleUpdateInterval = 500 * time.Millisecond

	// EWMA smoothing weight for frame-time stats.
	statsSmoothing = 0.95
)

// An interactive renderer presenting the pipeline's output in a
// window. Keyboard moves the camera, dragging with the left mouse
// button orbits it.
type interactiveRenderer struct {
	logger log.Logger

	window   *glfw.Window
	pipeline *opengl.Pipeline
	camera   *scene.Camera
	opts     Options

	// FBO wrapping the render target for the presentation blit.
	blitFbo uint32

	// input state
	lastCursor mgl32.Vec2
	dragging   bool
	focused    bool
	hovered    bool

	stats           FrameStats
	lastTitleUpdate time.Time
}

// NewInteractive creates a window, uploads the model and returns a
// renderer ready to run its loop. Must be called from the program's
// main goroutine.
func NewInteractive(model *scene.Model, opts Options) (Renderer, error) {
	if model == nil {
		return nil, ErrSceneNotDefined
	}
	if opts.FrameW == 0 || opts.FrameH == 0 {
		return nil, ErrInvalidFrameDims
	}

	r := &interactiveRenderer{
		logger: log.New("renderer"),
		camera: scene.NewCamera(opts.FOV),
		opts:   opts,
	}

	if err := r.initGL(opts); err != nil {
		r.Close()
		return nil, err
	}

	pipeline, err := opengl.NewPipeline(model, opengl.Config{
		Width:           int32(opts.FrameW),
		Height:          int32(opts.FrameH),
		EnvironmentPath: opts.EnvMapPath,
	})
	if err != nil {
		r.Close()
		return nil, err
	}
	r.pipeline = pipeline

	gl.GenFramebuffers(1, &r.blitFbo)
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, r.blitFbo)
	gl.FramebufferTexture2D(gl.READ_FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, pipeline.Target().Handle(), 0)
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, 0)

	return r, nil
}

func (r *interactiveRenderer) initGL(opts Options) error {
	// The GL context is bound to this thread for the renderer's
	// lifetime.
	runtime.LockOSThread()

	if err := glfw.Init(); err != nil {
		return fmt.Errorf("renderer: failed to initialize glfw: %s", err.Error())
	}

	glfw.WindowHint(glfw.Resizable, glfw.False)
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 5)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)

	var err error
	r.window, err = glfw.CreateWindow(int(opts.FrameW), int(opts.FrameH), opts.Title, nil, nil)
	if err != nil {
		return fmt.Errorf("renderer: could not create opengl window: %s", err.Error())
	}
	r.window.MakeContextCurrent()

	if err = gl.Init(); err != nil {
		return fmt.Errorf("renderer: could not init opengl: %s", err.Error())
	}
	r.logger.Noticef("using device: %s", gl.GoStr(gl.GetString(gl.RENDERER)))

	r.window.SetInputMode(glfw.CursorMode, glfw.CursorNormal)
	r.window.SetKeyCallback(r.onKeyEvent)
	r.window.SetMouseButtonCallback(r.onMouseEvent)
	r.window.SetCursorPosCallback(r.onCursorPosEvent)

	return nil
}

// Render runs the frame loop until the window closes.
func (r *interactiveRenderer) Render() error {
	for !r.window.ShouldClose() {
		frameStart := time.Now()

		r.updateViewportState()
		r.applyMovementInput()

		fbW, fbH := r.window.GetFramebufferSize()
		r.camera.Aperture.Aspect = float32(fbW) / float32(fbH)

		r.pipeline.RenderFrame(r.camera)
		r.present(int32(fbW), int32(fbH))

		r.window.SwapBuffers()
		glfw.PollEvents()

		r.accumulateStats(time.Since(frameStart))
	}
	return nil
}

func (r *interactiveRenderer) updateViewportState() {
	r.focused = r.window.GetAttrib(glfw.Focused) == glfw.True

	cx, cy := r.window.GetCursorPos()
	w, h := r.window.GetSize()
	r.hovered = cx >= 0 && cy >= 0 && cx < float64(w) && cy < float64(h)
}

// applyMovementInput translates the camera along its local axes based
// on held movement keys. Input is ignored while the window is
// unfocused.
func (r *interactiveRenderer) applyMovementInput() {
	if !r.focused {
		return
	}

	var delta mgl32.Vec3
	if r.window.GetKey(glfw.KeyW) == glfw.Press {
		delta = delta.Add(mgl32.Vec3{0, 0, -cameraMoveSpeed})
	}
	if r.window.GetKey(glfw.KeyS) == glfw.Press {
		delta = delta.Add(mgl32.Vec3{0, 0, cameraMoveSpeed})
	}
	if r.window.GetKey(glfw.KeyA) == glfw.Press {
		delta = delta.Add(mgl32.Vec3{-cameraMoveSpeed, 0, 0})
	}
	if r.window.GetKey(glfw.KeyD) == glfw.Press {
		delta = delta.Add(mgl32.Vec3{cameraMoveSpeed, 0, 0})
	}
	if r.window.GetKey(glfw.KeyE) == glfw.Press {
		delta = delta.Add(mgl32.Vec3{0, cameraMoveSpeed, 0})
	}
	if r.window.GetKey(glfw.KeyQ) == glfw.Press {
		delta = delta.Add(mgl32.Vec3{0, -cameraMoveSpeed, 0})
	}

	if delta.Len() > 0 {
		r.camera.Translate(delta)
	}
}

// present blits the render target to the default framebuffer. The
// barrier orders the compute image writes before the read.
func (r *interactiveRenderer) present(fbW, fbH int32) {
	gl.MemoryBarrier(gl.FRAMEBUFFER_BARRIER_BIT)

	gl.BindFramebuffer(gl.DRAW_FRAMEBUFFER, 0)
	gl.ClearColor(0, 0, 0, 1)
	gl.Clear(gl.COLOR_BUFFER_BIT)

	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, r.blitFbo)
	gl.BlitFramebuffer(
		0, 0, int32(r.opts.FrameW), int32(r.opts.FrameH),
		0, 0, fbW, fbH,
		gl.COLOR_BUFFER_BIT, gl.NEAREST,
	)
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, 0)
}

func (r *interactiveRenderer) accumulateStats(frameTime time.Duration) {
	r.stats.Frames++
	if r.stats.FrameTime == 0 {
		r.stats.FrameTime = frameTime
	} else {
		r.stats.FrameTime = time.Duration(
			statsSmoothing*float64(r.stats.FrameTime) + (1-statsSmoothing)*float64(frameTime),
		)
	}
	if r.stats.FrameTime > 0 {
		r.stats.FPS = float64(time.Second) / float64(r.stats.FrameTime)
	}

	now := time.Now()
	if now.Sub(r.lastTitleUpdate) >= titleUpdateInterval {
		r.lastTitleUpdate = now
		r.window.SetTitle(fmt.Sprintf("%s | %.1f fps", r.opts.Title, r.stats.FPS))
	}
}

func (r *interactiveRenderer) onKeyEvent(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
	if key == glfw.KeyEscape && action == glfw.Press {
		w.SetShouldClose(true)
	}
}

func (r *interactiveRenderer) onMouseEvent(w *glfw.Window, button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
	if button != glfw.MouseButtonLeft {
		return
	}

	switch action {
	case glfw.Press:
		if !r.hovered {
			return
		}
		cx, cy := w.GetCursorPos()
		r.lastCursor = mgl32.Vec2{float32(cx), float32(cy)}
		r.dragging = true
		w.SetInputMode(glfw.CursorMode, glfw.CursorDisabled)
	case glfw.Release:
		r.dragging = false
		w.SetInputMode(glfw.CursorMode, glfw.CursorNormal)
	}
}

func (r *interactiveRenderer) onCursorPosEvent(w *glfw.Window, xpos, ypos float64) {
	if !r.dragging {
		return
	}

	newPos := mgl32.Vec2{float32(xpos), float32(ypos)}
	delta := r.lastCursor.Sub(newPos)
	r.lastCursor = newPos

	r.camera.Orbit(delta.X()*mouseSensitivity, delta.Y()*mouseSensitivity)
}

func (r *interactiveRenderer) Close() {
	if r.pipeline != nil {
		r.pipeline.Release()
		r.pipeline = nil
	}
	if r.blitFbo != 0 {
		gl.DeleteFramebuffers(1, &r.blitFbo)
		r.blitFbo = 0
	}
	if r.window != nil {
		r.window.Destroy()
		r.window = nil
	}
	glfw.Terminate()
}

func (r *interactiveRenderer) Stats() FrameStats {
	return r.stats
}
