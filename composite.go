package ink

import (
	"image"
	"image/draw"

	"github.com/gogpu/gg"
	xdraw "golang.org/x/image/draw"
)

// rgbaView wraps the live pixmap bytes as an image.RGBA without copying.
// Writes through the view mutate the pixmap directly.
func rgbaView(pm *gg.Pixmap) *image.RGBA {
	return &image.RGBA{
		Pix:    pm.Data(),
		Stride: pm.Width() * 4,
		Rect:   image.Rect(0, 0, pm.Width(), pm.Height()),
	}
}

// scaleRGBA replaces dst with src rescaled bilinearly to cover dst's
// bounds. Every destination pixel is written, so dst needs no prior clear.
func scaleRGBA(dst *image.RGBA, src image.Image) {
	xdraw.BiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Src, nil)
}

// overRGBA composites src over dst, rescaling bilinearly when the bounds
// differ.
func overRGBA(dst *image.RGBA, src image.Image) {
	if dst.Bounds().Size() == src.Bounds().Size() {
		draw.Draw(dst, dst.Bounds(), src, src.Bounds().Min, draw.Over)
		return
	}
	xdraw.BiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Over, nil)
}

// fillWhite paints dst fully opaque white.
func fillWhite(dst *image.RGBA) {
	draw.Draw(dst, dst.Bounds(), image.White, image.Point{}, draw.Src)
}

// destinationOut knocks pixels out of dst by the mask's alpha coverage:
// D' = D * (1 - Ma). Both surfaces hold premultiplied RGBA. The mask's
// top-left corner maps to (ox, oy) in dst, which must have zero-origin
// bounds. Only the alpha channel of the mask is read.
func destinationOut(dst *image.RGBA, mask *image.RGBA, ox, oy int) {
	mb := mask.Bounds()
	for my := mb.Min.Y; my < mb.Max.Y; my++ {
		dy := oy + my - mb.Min.Y
		if dy < 0 || dy >= dst.Rect.Max.Y {
			continue
		}
		for mx := mb.Min.X; mx < mb.Max.X; mx++ {
			dx := ox + mx - mb.Min.X
			if dx < 0 || dx >= dst.Rect.Max.X {
				continue
			}
			ma := mask.Pix[mask.PixOffset(mx, my)+3]
			if ma == 0 {
				continue
			}
			inv := 255 - ma
			di := dst.PixOffset(dx, dy)
			dst.Pix[di+0] = mulDiv255(dst.Pix[di+0], inv)
			dst.Pix[di+1] = mulDiv255(dst.Pix[di+1], inv)
			dst.Pix[di+2] = mulDiv255(dst.Pix[di+2], inv)
			dst.Pix[di+3] = mulDiv255(dst.Pix[di+3], inv)
		}
	}
}

// mulDiv255 multiplies two 0-255 values with rounding.
func mulDiv255(a, b byte) byte {
	return byte((uint16(a)*uint16(b) + 127) / 255)
}
