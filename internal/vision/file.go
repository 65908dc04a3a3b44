package vision

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
)

// AnalyzeFile decodes an image file and runs Analyze on it.
func AnalyzeFile(path string) (MarkerAnalysis, error) {
	f, err := os.Open(path)
	if err != nil {
		return MarkerAnalysis{}, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return MarkerAnalysis{}, fmt.Errorf("failed to decode image %s: %w", path, err)
	}
	return Analyze(img), nil
}
