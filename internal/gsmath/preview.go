package gsmath

import (
	"fmt"
	"image"
	"image/png"
	"math"
	"os"
)

// SavePreviewPNG writes a debug scatter of the projected primitives:
// one pixel per visible primitive at its uv position, colored by its
// evaluated SH color (clamped to [0,1], optional gamma). This is a
// diagnostic aid, not a renderer; there is no blending or compositing.
func SavePreviewPNG(path string, cam Camera, uv, depth, colors []Real, gamma Real) error {
	w, h := cam.Width, cam.Height
	if w <= 0 || h <= 0 {
		return fmt.Errorf("preview: bad image size %dx%d", w, h)
	}

	toByte := func(v Real) uint8 {
		if v <= 0 {
			return 0
		}
		n := float64(v)
		if n > 1 {
			n = 1
		}
		if gamma != 1 {
			n = math.Pow(n, 1.0/float64(gamma))
		}
		return uint8(math.Round(n * 255))
	}

	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := range depth {
		pt := Vec2{uv[i*2], uv[i*2+1]}
		if depth[i] == 0 || !isFinite(pt.X) || !isFinite(pt.Y) {
			continue
		}
		x := int(pt.X + 0.5)
		y := int(pt.Y + 0.5)
		if x < 0 || x >= w || y < 0 || y >= h {
			continue
		}
		c := rgbAt(colors, i*3).clamp01()
		p := img.PixOffset(x, y)
		img.Pix[p+0] = toByte(c.R)
		img.Pix[p+1] = toByte(c.G)
		img.Pix[p+2] = toByte(c.B)
		img.Pix[p+3] = 255
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, img)
}
