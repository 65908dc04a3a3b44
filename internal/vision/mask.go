package vision

// binaryMask is a dense 0/1 image used for color masks and morphology.
type binaryMask struct {
	w, h int
	pix  []bool
}

func newBinaryMask(w, h int) *binaryMask {
	return &binaryMask{w: w, h: h, pix: make([]bool, w*h)}
}

func (m *binaryMask) get(x, y int) bool {
	if x < 0 || y < 0 || x >= m.w || y >= m.h {
		return false
	}
	return m.pix[y*m.w+x]
}

func (m *binaryMask) set(x, y int) {
	m.pix[y*m.w+x] = true
}

// ellipseKernel returns offsets of an elliptical structuring element of the
// given odd size, matching the shape used for mask cleanup.
func ellipseKernel(size int) [][2]int {
	r := size / 2
	var offsets [][2]int
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			// Inclusive ellipse test at half-pixel tolerance.
			fx := float64(dx) / (float64(r) + 0.5)
			fy := float64(dy) / (float64(r) + 0.5)
			if fx*fx+fy*fy <= 1.0 {
				offsets = append(offsets, [2]int{dx, dy})
			}
		}
	}
	return offsets
}

func dilate(m *binaryMask, kernel [][2]int) *binaryMask {
	out := newBinaryMask(m.w, m.h)
	for y := 0; y < m.h; y++ {
		for x := 0; x < m.w; x++ {
			if !m.pix[y*m.w+x] {
				continue
			}
			for _, off := range kernel {
				nx, ny := x+off[0], y+off[1]
				if nx >= 0 && ny >= 0 && nx < m.w && ny < m.h {
					out.pix[ny*m.w+nx] = true
				}
			}
		}
	}
	return out
}

func erode(m *binaryMask, kernel [][2]int) *binaryMask {
	out := newBinaryMask(m.w, m.h)
	for y := 0; y < m.h; y++ {
	pixel:
		for x := 0; x < m.w; x++ {
			for _, off := range kernel {
				if !m.get(x+off[0], y+off[1]) {
					continue pixel
				}
			}
			out.pix[y*m.w+x] = true
		}
	}
	return out
}

// morphClose fills small holes: dilate then erode.
func morphClose(m *binaryMask, kernel [][2]int) *binaryMask {
	return erode(dilate(m, kernel), kernel)
}

// morphOpen removes small noise: erode then dilate.
func morphOpen(m *binaryMask, kernel [][2]int) *binaryMask {
	return dilate(erode(m, kernel), kernel)
}
