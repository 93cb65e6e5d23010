package envmap

import (
	"image"
	"path/filepath"
	"testing"
	"time"

	"github.com/mrjoshuak/go-openexr/exr"
)

func TestLoadDecodesImage(t *testing.T) {
	const width, height = 4, 2

	img := exr.NewRGBAImage(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			// Values exactly representable in half floats survive the
			// encode/decode round trip bit-for-bit.
			img.SetRGBA(x, y, 0.25, 0.5, 1.0, 1.0)
		}
	}

	path := filepath.Join(t.TempDir(), "env.exr")
	if err := exr.EncodeFile(path, img); err != nil {
		t.Fatal(err)
	}

	res := waitResolve(t, Load(path))
	if res.Failed() {
		t.Fatal("expected a successful decode")
	}
	if res.Width != width || res.Height != height {
		t.Fatalf("expected %d x %d image; got %d x %d", width, height, res.Width, res.Height)
	}
	if len(res.Pix) != width*height*4 {
		t.Fatalf("expected %d pixel components; got %d", width*height*4, len(res.Pix))
	}

	if r, g, b := res.Pix[0], res.Pix[1], res.Pix[2]; r != 0.25 || g != 0.5 || b != 1.0 {
		t.Fatalf("expected first texel (0.25, 0.5, 1.0); got (%f, %f, %f)", r, g, b)
	}
}

func TestLoadFailureResolvesWithSentinel(t *testing.T) {
	loader := Load(filepath.Join(t.TempDir(), "does-not-exist.exr"))

	res := waitResolve(t, loader)
	if !res.Failed() {
		t.Fatal("expected the failure sentinel")
	}
	if res.Width != 0 || res.Height != 0 {
		t.Fatalf("expected zero dims on failure; got %d x %d", res.Width, res.Height)
	}
}

func TestPollConsumesAtMostOnce(t *testing.T) {
	loader := Load(filepath.Join(t.TempDir(), "does-not-exist.exr"))
	waitResolve(t, loader)

	// The handle is exhausted after the first delivery.
	for i := 0; i < 3; i++ {
		if _, ok := loader.Poll(); ok {
			t.Fatalf("[poll %d] expected exhausted handle to report not ready", i)
		}
	}
}

// waitResolve polls the loader until its result is delivered.
func waitResolve(t *testing.T, loader *Loader) Result {
	t.Helper()

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if res, ok := loader.Poll(); ok {
			return res
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("timed out waiting for the loader to resolve")
	return Result{}
}
