package imaging

import (
	"errors"
	"image"
	"image/color"
	"testing"
)

func TestToIntensity_Gray(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 3, 2))
	for i := range img.Pix {
		img.Pix[i] = uint8(i * 10)
	}

	in := ToIntensity(img)
	if in.Width != 3 || in.Height != 2 || in.Channels != 1 {
		t.Fatalf("shape: got %dx%dx%d, want 3x2x1", in.Width, in.Height, in.Channels)
	}
	for i, v := range in.Pix {
		if v != i*10 {
			t.Errorf("Pix[%d]: got %d, want %d", i, v, i*10)
		}
	}
}

func TestToIntensity_ColorUsesLuminance(t *testing.T) {
	img := solidImage(2, 2, color.RGBA{255, 255, 255, 255})
	img.Set(1, 1, color.RGBA{0, 0, 0, 255})

	in := ToIntensity(img)
	if got := in.At(0, 0); got != 255 {
		t.Errorf("white: got %d, want 255", got)
	}
	if got := in.At(1, 1); got != 0 {
		t.Errorf("black: got %d, want 0", got)
	}
}

func TestToIntensity_OffsetBounds(t *testing.T) {
	img := image.NewGray(image.Rect(5, 5, 7, 6))
	img.SetGray(6, 5, color.Gray{Y: 77})

	in := ToIntensity(img)
	if in.Width != 2 || in.Height != 1 {
		t.Fatalf("shape: got %dx%d, want 2x1", in.Width, in.Height)
	}
	if got := in.At(1, 0); got != 77 {
		t.Errorf("At(1,0): got %d, want 77", got)
	}
}

func TestPreprocess_ResizePreservesAspect(t *testing.T) {
	img := solidImage(400, 200, color.RGBA{90, 90, 90, 255})

	in, prepared, err := Preprocess(img, PreprocessOptions{ResizeWidth: 100})
	if err != nil {
		t.Fatalf("Preprocess failed: %v", err)
	}
	if in.Width != 100 || in.Height != 50 {
		t.Errorf("intensity: got %dx%d, want 100x50", in.Width, in.Height)
	}
	if prepared.Bounds().Dx() != 100 || prepared.Bounds().Dy() != 50 {
		t.Errorf("prepared: got %v", prepared.Bounds())
	}
	if err := in.Validate(); err != nil {
		t.Errorf("buffer invalid: %v", err)
	}
}

func TestPreprocess_BlurKeepsUniformImage(t *testing.T) {
	img := solidImage(20, 20, color.RGBA{120, 120, 120, 255})

	in, _, err := Preprocess(img, PreprocessOptions{BlurRadius: DefaultBlurRadius})
	if err != nil {
		t.Fatalf("Preprocess failed: %v", err)
	}
	for y := 2; y < 18; y++ {
		for x := 2; x < 18; x++ {
			if v := in.At(x, y); v < 118 || v > 122 {
				t.Fatalf("At(%d,%d): got %d, want ~120", x, y, v)
			}
		}
	}
}

func TestPreprocess_BlurSoftensStep(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 20, 5))
	for y := 0; y < 5; y++ {
		for x := 10; x < 20; x++ {
			img.SetGray(x, y, color.Gray{Y: 200})
		}
	}

	sharp, _, err := Preprocess(img, PreprocessOptions{})
	if err != nil {
		t.Fatalf("Preprocess failed: %v", err)
	}
	soft, _, err := Preprocess(img, PreprocessOptions{BlurRadius: 2})
	if err != nil {
		t.Fatalf("Preprocess failed: %v", err)
	}

	sharpStep := sharp.At(10, 2) - sharp.At(9, 2)
	softStep := soft.At(10, 2) - soft.At(9, 2)
	if softStep >= sharpStep {
		t.Errorf("blur did not soften the step: sharp %d, blurred %d", sharpStep, softStep)
	}
}

func TestPreprocess_Region(t *testing.T) {
	img := quadrantImage(40, 40)
	region := Region{20, 20, 40, 40}

	in, _, err := Preprocess(img, PreprocessOptions{Region: &region})
	if err != nil {
		t.Fatalf("Preprocess failed: %v", err)
	}
	if in.Width != 20 || in.Height != 20 {
		t.Errorf("got %dx%d, want 20x20", in.Width, in.Height)
	}
	// Bottom-right quadrant is white.
	if v := in.At(5, 5); v != 255 {
		t.Errorf("At(5,5): got %d, want 255", v)
	}

	bad := Region{30, 30, 50, 50}
	if _, _, err := Preprocess(img, PreprocessOptions{Region: &bad}); err == nil {
		t.Error("out-of-bounds region should fail")
	}
}

func TestPreprocess_UnusableImage(t *testing.T) {
	if _, _, err := Preprocess(nil, PreprocessOptions{}); !errors.Is(err, ErrNilImage) {
		t.Errorf("nil image: got %v, want ErrNilImage", err)
	}
	empty := image.NewGray(image.Rect(0, 0, 0, 0))
	if _, _, err := Preprocess(empty, PreprocessOptions{}); !errors.Is(err, ErrEmptyImage) {
		t.Errorf("empty image: got %v, want ErrEmptyImage", err)
	}
}
