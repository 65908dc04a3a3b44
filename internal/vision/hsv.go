package vision

import (
	"image"
)

// hsvImage stores per-pixel HSV values in OpenCV convention: hue 0-180,
// saturation and value 0-255.
type hsvImage struct {
	w, h int
	pix  []uint8 // 3 bytes per pixel: H, S, V
}

func (m *hsvImage) at(x, y int) (hue, sat, val int) {
	i := (y*m.w + x) * 3
	return int(m.pix[i]), int(m.pix[i+1]), int(m.pix[i+2])
}

// toHSV converts an image to HSV, iterating the source once.
func toHSV(img image.Image) *hsvImage {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	out := &hsvImage{w: w, h: h, pix: make([]uint8, w*h*3)}

	i := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r16, g16, b16, _ := img.At(x, y).RGBA()
			hue, sat, val := rgbToHSV(uint8(r16>>8), uint8(g16>>8), uint8(b16>>8))
			out.pix[i] = hue
			out.pix[i+1] = sat
			out.pix[i+2] = val
			i += 3
		}
	}
	return out
}

// rgbToHSV converts one pixel to OpenCV-style HSV (H in 0-180).
func rgbToHSV(r, g, b uint8) (hue, sat, val uint8) {
	maxC := r
	if g > maxC {
		maxC = g
	}
	if b > maxC {
		maxC = b
	}
	minC := r
	if g < minC {
		minC = g
	}
	if b < minC {
		minC = b
	}

	val = maxC
	delta := int(maxC) - int(minC)
	if maxC == 0 || delta == 0 {
		return 0, 0, val
	}
	sat = uint8(delta * 255 / int(maxC))

	var hDeg int
	switch maxC {
	case r:
		hDeg = (60*(int(g)-int(b)))/delta + 360
		hDeg %= 360
	case g:
		hDeg = 60*(int(b)-int(r))/delta + 120
	default:
		hDeg = 60*(int(r)-int(g))/delta + 240
	}
	if hDeg < 0 {
		hDeg += 360
	}
	return uint8(hDeg / 2), sat, val
}

// inRange builds a binary mask selecting pixels inside any of the given
// HSV ranges.
func (m *hsvImage) inRange(ranges []hsvRange) *binaryMask {
	mask := newBinaryMask(m.w, m.h)
	for y := 0; y < m.h; y++ {
		for x := 0; x < m.w; x++ {
			hue, sat, val := m.at(x, y)
			for _, r := range ranges {
				if hue >= r.loH && hue <= r.hiH &&
					sat >= r.loS && sat <= r.hiS &&
					val >= r.loV && val <= r.hiV {
					mask.set(x, y)
					break
				}
			}
		}
	}
	return mask
}

// meanInside returns the mean HSV value over the contour's filled region.
func (m *hsvImage) meanInside(c contour) (hue, sat, val int) {
	fill := c.fillMask(m.w, m.h)
	var sh, ss, sv, n int
	for y := 0; y < m.h; y++ {
		for x := 0; x < m.w; x++ {
			if !fill.get(x, y) {
				continue
			}
			ph, ps, pv := m.at(x, y)
			sh += ph
			ss += ps
			sv += pv
			n++
		}
	}
	if n == 0 {
		return 0, 0, 0
	}
	return sh / n, ss / n, sv / n
}
