package vision

import (
	"image"
	"math"
)

// Line detection constants, matching the behavior of a probabilistic Hough
// transform with vote threshold 50, minimum segment length 50, and maximum
// in-segment gap 10 over a Sobel edge map.
const (
	edgeThreshold  = 100 // Sobel gradient magnitude
	houghThreshold = 50
	minSegmentLen  = 50.0
	maxSegmentGap  = 10.0
	shortLineLen   = 30.0 // segments below this are ignored entirely
	angleStepDeg   = 2
)

type lineSegment struct {
	x1, y1, x2, y2 float64
}

func (s lineSegment) length() float64 {
	return math.Hypot(s.x2-s.x1, s.y2-s.y1)
}

func (s lineSegment) angleDeg() float64 {
	return math.Abs(math.Atan2(s.y2-s.y1, s.x2-s.x1) * 180 / math.Pi)
}

func (s lineSegment) midY() float64 {
	return (s.y1 + s.y2) / 2
}

// detectPitchView finds straight-line structure and classifies it into a
// pitch-view estimate. It returns whether enough line structure exists at
// all, and "half_pitch", "penalty_area", or "" as the estimate.
func detectPitchView(img image.Image) (bool, string) {
	edges := sobelEdges(img)
	segments := houghSegments(edges)
	if len(segments) < 3 {
		return false, ""
	}

	bounds := img.Bounds()
	w := float64(bounds.Dx())
	h := float64(bounds.Dy())

	var horizontal, vertical []lineSegment
	for _, s := range segments {
		if s.length() < shortLineLen {
			continue
		}
		angle := s.angleDeg()
		switch {
		case angle < 15 || angle > 165:
			horizontal = append(horizontal, s)
		case angle > 75 && angle < 105:
			vertical = append(vertical, s)
		}
	}

	hasLines := len(horizontal)+len(vertical) > 3
	if !hasLines {
		return false, ""
	}

	view := ""

	// A long near-horizontal line across the middle of the image reads as
	// the halfway line.
	for _, s := range horizontal {
		if s.midY() > 0.35*h && s.midY() < 0.65*h && math.Abs(s.x2-s.x1) > 0.4*w {
			view = "half_pitch"
			break
		}
	}

	// A box pattern confined to the top of the image reads as the penalty
	// area, which takes precedence.
	var upperH, upperV int
	for _, s := range horizontal {
		if s.midY() < 0.35*h {
			upperH++
		}
	}
	for _, s := range vertical {
		if s.midY() < 0.35*h {
			upperV++
		}
	}
	if upperH >= 2 && upperV >= 2 {
		view = "penalty_area"
	}

	return true, view
}

// sobelEdges computes a binary edge map from gradient magnitude over the
// grayscale image.
func sobelEdges(img image.Image) *binaryMask {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	gray := make([]int, w*h)
	i := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			// Standard luma weights.
			gray[i] = int((299*(r>>8) + 587*(g>>8) + 114*(b>>8)) / 1000)
			i++
		}
	}

	edges := newBinaryMask(w, h)
	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			gx := gray[(y-1)*w+x+1] + 2*gray[y*w+x+1] + gray[(y+1)*w+x+1] -
				gray[(y-1)*w+x-1] - 2*gray[y*w+x-1] - gray[(y+1)*w+x-1]
			gy := gray[(y+1)*w+x-1] + 2*gray[(y+1)*w+x] + gray[(y+1)*w+x+1] -
				gray[(y-1)*w+x-1] - 2*gray[(y-1)*w+x] - gray[(y-1)*w+x+1]
			if gx*gx+gy*gy > edgeThreshold*edgeThreshold {
				edges.set(x, y)
			}
		}
	}
	return edges
}

// houghSegments runs a Hough accumulator over the edge map and converts
// vote peaks back into concrete segments by projecting nearby edge pixels
// onto the peak line and splitting on gaps.
func houghSegments(edges *binaryMask) []lineSegment {
	w, h := edges.w, edges.h
	diag := int(math.Hypot(float64(w), float64(h)))
	nAngles := 180 / angleStepDeg
	nRho := 2 * diag

	sins := make([]float64, nAngles)
	coss := make([]float64, nAngles)
	for a := 0; a < nAngles; a++ {
		theta := float64(a*angleStepDeg) * math.Pi / 180
		sins[a] = math.Sin(theta)
		coss[a] = math.Cos(theta)
	}

	var edgePoints []image.Point
	acc := make([]int, nAngles*nRho)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if !edges.pix[y*w+x] {
				continue
			}
			edgePoints = append(edgePoints, image.Point{X: x, Y: y})
			for a := 0; a < nAngles; a++ {
				rho := int(float64(x)*coss[a]+float64(y)*sins[a]) + diag
				if rho >= 0 && rho < nRho {
					acc[a*nRho+rho]++
				}
			}
		}
	}

	var segments []lineSegment
	for a := 0; a < nAngles; a++ {
		for rho := 1; rho < nRho-1; rho++ {
			votes := acc[a*nRho+rho]
			if votes < houghThreshold {
				continue
			}
			// Local maximum along rho to suppress neighboring bins of the
			// same physical line.
			if votes < acc[a*nRho+rho-1] || votes <= acc[a*nRho+rho+1] {
				continue
			}
			segments = append(segments,
				traceSegments(edgePoints, coss[a], sins[a], float64(rho-diag))...)
		}
	}
	return segments
}

// traceSegments projects edge pixels lying within 2px of the line
// (cosT, sinT, rho) onto the line direction and emits maximal runs whose
// internal gaps never exceed maxSegmentGap and whose span reaches
// minSegmentLen.
func traceSegments(points []image.Point, cosT, sinT, rho float64) []lineSegment {
	type proj struct {
		t    float64
		x, y float64
	}
	var projs []proj
	for _, p := range points {
		fx, fy := float64(p.X), float64(p.Y)
		if math.Abs(fx*cosT+fy*sinT-rho) > 2 {
			continue
		}
		// Position along the line direction (-sinT, cosT).
		projs = append(projs, proj{t: -fx*sinT + fy*cosT, x: fx, y: fy})
	}
	if len(projs) == 0 {
		return nil
	}

	// Insertion sort by t; candidate sets are small.
	for i := 1; i < len(projs); i++ {
		for j := i; j > 0 && projs[j].t < projs[j-1].t; j-- {
			projs[j], projs[j-1] = projs[j-1], projs[j]
		}
	}

	var segments []lineSegment
	runStart := 0
	flush := func(start, end int) {
		s := lineSegment{
			x1: projs[start].x, y1: projs[start].y,
			x2: projs[end].x, y2: projs[end].y,
		}
		if s.length() >= minSegmentLen {
			segments = append(segments, s)
		}
	}
	for i := 1; i < len(projs); i++ {
		if projs[i].t-projs[i-1].t > maxSegmentGap {
			flush(runStart, i-1)
			runStart = i
		}
	}
	flush(runStart, len(projs)-1)
	return segments
}
