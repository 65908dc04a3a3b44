// Package vision implements deterministic computer-vision analysis of
// coaching diagram images: colored circular marker detection, background
// estimation, and pitch-line pattern classification. It is a pure function
// of pixels with no network calls; its output seeds the vision-language
// extraction prompts and the cross-validation pass.
package vision

import (
	"fmt"
	"image"
	"math"
	"sort"
	"strings"

	xdraw "golang.org/x/image/draw"
)

// DetectedCircle is one colored circular marker found in a diagram.
// Coordinates are normalized to 0-100 (x left to right, y top to bottom in
// raw image orientation).
type DetectedCircle struct {
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	ColorName string  `json:"color"`
	HSV       [3]int  `json:"-"`
	RadiusPx  int     `json:"-"`
}

// MarkerAnalysis aggregates all detected circles for one image plus
// background and pitch-line findings. It is created once per image and
// never mutated afterwards.
type MarkerAnalysis struct {
	Circles            []DetectedCircle
	CirclesByColor     map[string]int
	HasPitchLines      bool
	EstimatedPitchView string // "half_pitch", "penalty_area", or ""
	ImageWidth         int
	ImageHeight        int
	DominantBackground string // "green", "white", or "grey"
}

// Detection thresholds, tuned for player markers of roughly 11-80px
// diameter at a 1000px normalized image width.
const (
	normalizedWidth = 1000
	minCircleArea   = 100
	maxCircleArea   = 5000
	minCircularity  = 0.4
	dedupPct        = 1.5
)

// hsvRange is a half-open range in OpenCV-style HSV space (H 0-180,
// S 0-255, V 0-255).
type hsvRange struct {
	loH, loS, loV int
	hiH, hiS, hiV int
}

type colorDef struct {
	name   string
	ranges []hsvRange
}

// Red wraps around hue 0/180 and needs two sub-ranges. Grey is low
// saturation at medium value.
var colorDefs = []colorDef{
	{"red", []hsvRange{
		{0, 80, 80, 10, 255, 255},
		{170, 80, 80, 180, 255, 255},
	}},
	{"green", []hsvRange{{35, 80, 80, 85, 255, 255}}},
	{"blue", []hsvRange{{100, 80, 80, 130, 255, 255}}},
	{"yellow", []hsvRange{{20, 80, 80, 35, 255, 255}}},
	{"grey", []hsvRange{{0, 0, 80, 180, 40, 180}}},
}

// Analyze runs marker detection on a diagram image. It is deterministic and
// safe to call concurrently.
func Analyze(img image.Image) MarkerAnalysis {
	img = normalizeSize(img)
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	hsv := toHSV(img)

	var all []DetectedCircle
	for _, def := range colorDefs {
		all = append(all, detectColorCircles(hsv, def)...)
	}

	deduped := dedupCircles(all, dedupPct)

	byColor := make(map[string]int)
	for _, c := range deduped {
		byColor[c.ColorName]++
	}

	hasLines, view := detectPitchView(img)

	return MarkerAnalysis{
		Circles:            deduped,
		CirclesByColor:     byColor,
		HasPitchLines:      hasLines,
		EstimatedPitchView: view,
		ImageWidth:         w,
		ImageHeight:        h,
		DominantBackground: detectBackground(hsv),
	}
}

// normalizeSize scales the image down to the normalized analysis width so
// the area thresholds stay stable across input resolutions.
func normalizeSize(img image.Image) image.Image {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= normalizedWidth {
		return img
	}
	scale := float64(normalizedWidth) / float64(w)
	dst := image.NewRGBA(image.Rect(0, 0, normalizedWidth, int(float64(h)*scale)))
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, bounds, xdraw.Over, nil)
	return dst
}

// detectColorCircles masks one named color, cleans the mask, traces
// external contours, and keeps those that look like player markers.
func detectColorCircles(hsv *hsvImage, def colorDef) []DetectedCircle {
	mask := hsv.inRange(def.ranges)

	kernel := ellipseKernel(5)
	mask = morphClose(mask, kernel)
	mask = morphOpen(mask, kernel)

	var circles []DetectedCircle
	for _, cnt := range findExternalContours(mask) {
		area := cnt.area()
		if area < minCircleArea || area > maxCircleArea {
			continue
		}
		perimeter := cnt.perimeter()
		if perimeter == 0 {
			continue
		}
		circularity := 4 * math.Pi * area / (perimeter * perimeter)
		if circularity < minCircularity {
			continue
		}

		cx, cy, radius := cnt.minEnclosingCircle()
		mh, ms, mv := hsv.meanInside(cnt)

		circles = append(circles, DetectedCircle{
			X:         round1(cx / float64(hsv.w) * 100),
			Y:         round1(cy / float64(hsv.h) * 100),
			ColorName: def.name,
			HSV:       [3]int{mh, ms, mv},
			RadiusPx:  int(radius),
		})
	}
	return circles
}

// dedupCircles removes circles within thresholdPct of an earlier one in
// normalized coordinates. The same physical marker often fires on two color
// channels (red plus a reddish yellow); the first detection wins.
func dedupCircles(circles []DetectedCircle, thresholdPct float64) []DetectedCircle {
	var result []DetectedCircle
	for _, c := range circles {
		dup := false
		for _, existing := range result {
			dx := c.X - existing.X
			dy := c.Y - existing.Y
			if math.Hypot(dx, dy) < thresholdPct {
				dup = true
				break
			}
		}
		if !dup {
			result = append(result, c)
		}
	}
	return result
}

// detectBackground samples the four corners and center and reports the
// dominant background color.
func detectBackground(hsv *hsvImage) string {
	points := [][2]int{
		{10, 10},
		{hsv.w - 10, 10},
		{10, hsv.h - 10},
		{hsv.w - 10, hsv.h - 10},
		{hsv.w / 2, hsv.h / 2},
	}

	greens := 0
	valSum := 0
	for _, p := range points {
		x := clampInt(p[0], 0, hsv.w-1)
		y := clampInt(p[1], 0, hsv.h-1)
		hue, sat, val := hsv.at(x, y)
		if hue >= 35 && hue <= 85 && sat > 50 {
			greens++
		}
		valSum += val
	}
	if greens >= 3 {
		return "green"
	}
	if valSum/len(points) > 180 {
		return "white"
	}
	return "grey"
}

// ContextString renders the analysis as a short natural-language summary
// for injection into extraction prompts.
func (a MarkerAnalysis) ContextString() string {
	if len(a.Circles) == 0 {
		return "Computer vision detected no colored circular markers in this diagram."
	}

	colors := make([]string, 0, len(a.CirclesByColor))
	for color := range a.CirclesByColor {
		colors = append(colors, color)
	}
	sort.Strings(colors)

	var b strings.Builder
	b.WriteString("Computer vision detected these colored circles in the diagram:\n")
	for _, color := range colors {
		var positions []string
		for _, c := range a.Circles {
			if c.ColorName == color {
				positions = append(positions, fmt.Sprintf("(%.0f, %.0f)", c.X, c.Y))
			}
		}
		fmt.Fprintf(&b, "- %d %s circle(s) at approximately %s\n",
			a.CirclesByColor[color], color, strings.Join(positions, ", "))
	}
	fmt.Fprintf(&b, "\nTotal: %d colored markers detected.", len(a.Circles))

	if a.EstimatedPitchView != "" {
		fmt.Fprintf(&b, "\nPitch line analysis suggests: %s", a.EstimatedPitchView)
	}
	return b.String()
}

// PitchContextString renders the line-pattern finding for the pitch-view
// classification prompt.
func (a MarkerAnalysis) PitchContextString() string {
	if a.EstimatedPitchView != "" {
		return fmt.Sprintf("Pitch line analysis suggests this may be: %s", a.EstimatedPitchView)
	}
	return "No strong pitch line pattern detected by computer vision."
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
