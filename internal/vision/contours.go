package vision

import (
	"image"
	"math"
)

// contour is one external connected region of a binary mask. Holes inside a
// region do not split it.
type contour struct {
	pixels []image.Point
	// edgeCount is the number of 4-neighbor transitions between the
	// region and background, a stable digital perimeter estimate.
	edgeCount int
}

// findExternalContours labels 8-connected foreground components.
func findExternalContours(m *binaryMask) []contour {
	visited := make([]bool, m.w*m.h)
	var contours []contour

	var neighbors = [8][2]int{
		{-1, -1}, {0, -1}, {1, -1},
		{-1, 0}, {1, 0},
		{-1, 1}, {0, 1}, {1, 1},
	}

	for sy := 0; sy < m.h; sy++ {
		for sx := 0; sx < m.w; sx++ {
			idx := sy*m.w + sx
			if !m.pix[idx] || visited[idx] {
				continue
			}

			// Flood fill one component.
			var c contour
			queue := []image.Point{{X: sx, Y: sy}}
			visited[idx] = true
			for len(queue) > 0 {
				p := queue[len(queue)-1]
				queue = queue[:len(queue)-1]
				c.pixels = append(c.pixels, p)

				// 4-neighbor background transitions count toward
				// the perimeter.
				for _, d := range [4][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}} {
					if !m.get(p.X+d[0], p.Y+d[1]) {
						c.edgeCount++
					}
				}

				for _, d := range neighbors {
					nx, ny := p.X+d[0], p.Y+d[1]
					if nx < 0 || ny < 0 || nx >= m.w || ny >= m.h {
						continue
					}
					nidx := ny*m.w + nx
					if m.pix[nidx] && !visited[nidx] {
						visited[nidx] = true
						queue = append(queue, image.Point{X: nx, Y: ny})
					}
				}
			}
			contours = append(contours, c)
		}
	}
	return contours
}

func (c contour) area() float64 {
	return float64(len(c.pixels))
}

func (c contour) perimeter() float64 {
	return float64(c.edgeCount)
}

// minEnclosingCircle approximates the enclosing circle as the centroid plus
// the farthest member pixel, which is accurate for the near-circular blobs
// that survive the circularity filter.
func (c contour) minEnclosingCircle() (cx, cy, radius float64) {
	if len(c.pixels) == 0 {
		return 0, 0, 0
	}
	var sx, sy int
	for _, p := range c.pixels {
		sx += p.X
		sy += p.Y
	}
	cx = float64(sx) / float64(len(c.pixels))
	cy = float64(sy) / float64(len(c.pixels))

	var maxDist float64
	for _, p := range c.pixels {
		d := math.Hypot(float64(p.X)-cx, float64(p.Y)-cy)
		if d > maxDist {
			maxDist = d
		}
	}
	return cx, cy, maxDist
}

// fillMask renders the contour's pixels into a mask for mean-color
// sampling.
func (c contour) fillMask(w, h int) *binaryMask {
	m := newBinaryMask(w, h)
	for _, p := range c.pixels {
		m.set(p.X, p.Y)
	}
	return m
}
