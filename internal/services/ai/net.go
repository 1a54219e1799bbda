package ai

import (
	"fmt"
	"image"
	"image/color"
	"os"

	"gocv.io/x/gocv"
)

var (
	boxColor  = color.RGBA{R: 255, G: 0, B: 0, A: 0}
	textColor = color.RGBA{R: 0, G: 255, B: 0, A: 0}
	alertRed  = color.RGBA{R: 255, G: 0, B: 0, A: 0}
)

// detection is one parsed row of a detection net's output.
type detection struct {
	classID    int
	confidence float64
	rect       image.Rectangle
}

// loadNet reads a DNN from disk and targets the CPU. configPath may be empty
// for self-contained formats such as ONNX.
func loadNet(modelPath, configPath string) (gocv.Net, error) {
	if _, err := os.Stat(modelPath); os.IsNotExist(err) {
		return gocv.Net{}, fmt.Errorf("model file not found: %s", modelPath)
	}
	if configPath != "" {
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			return gocv.Net{}, fmt.Errorf("config file not found: %s", configPath)
		}
	}

	net := gocv.ReadNet(modelPath, configPath)
	if net.Empty() {
		return gocv.Net{}, fmt.Errorf("failed to load network from %s", modelPath)
	}

	if err := net.SetPreferableBackend(gocv.NetBackendDefault); err != nil {
		return gocv.Net{}, fmt.Errorf("failed to set backend: %w", err)
	}
	if err := net.SetPreferableTarget(gocv.NetTargetCPU); err != nil {
		return gocv.Net{}, fmt.Errorf("failed to set target: %w", err)
	}

	return net, nil
}

// decodeFrame turns a JPEG byte slice into a Mat. The caller owns the Mat.
func decodeFrame(frameJPEG []byte) (gocv.Mat, error) {
	mat, err := gocv.IMDecode(frameJPEG, gocv.IMReadColor)
	if err != nil {
		return gocv.Mat{}, fmt.Errorf("failed to decode frame: %w", err)
	}
	if mat.Empty() {
		mat.Close()
		return gocv.Mat{}, fmt.Errorf("decoded frame is empty")
	}
	return mat, nil
}

// encodeFrame turns an annotated Mat back into a standalone JPEG byte slice.
func encodeFrame(mat gocv.Mat, quality int) ([]byte, error) {
	buf, err := gocv.IMEncodeWithParams(gocv.JPEGFileExt, mat, []int{gocv.IMWriteJpegQuality, quality})
	if err != nil {
		return nil, fmt.Errorf("failed to encode frame: %w", err)
	}
	defer buf.Close()

	out := make([]byte, len(buf.GetBytes()))
	copy(out, buf.GetBytes())
	return out, nil
}

// runDetectionNet feeds a frame through a detection net and parses rows of
// the standard 7-column detection output: [_, classID, confidence, x1, y1,
// x2, y2] with coordinates normalized to the frame size.
func runDetectionNet(net *gocv.Net, mat gocv.Mat, minConfidence float64) []detection {
	blob := gocv.BlobFromImage(mat, 1.0/127.5, image.Pt(300, 300), gocv.NewScalar(127.5, 127.5, 127.5, 0), true, false)
	defer blob.Close()

	net.SetInput(blob, "")
	output := net.Forward("")
	defer output.Close()

	reshaped := output.Reshape(1, output.Total()/7)
	defer reshaped.Close()

	var results []detection
	for i := 0; i < reshaped.Rows(); i++ {
		confidence := float64(reshaped.GetFloatAt(i, 2))
		if confidence < minConfidence {
			continue
		}
		classID := int(reshaped.GetFloatAt(i, 1))
		x1 := int(reshaped.GetFloatAt(i, 3) * float32(mat.Cols()))
		y1 := int(reshaped.GetFloatAt(i, 4) * float32(mat.Rows()))
		x2 := int(reshaped.GetFloatAt(i, 5) * float32(mat.Cols()))
		y2 := int(reshaped.GetFloatAt(i, 6) * float32(mat.Rows()))

		results = append(results, detection{
			classID:    classID,
			confidence: confidence,
			rect:       image.Rect(x1, y1, x2, y2),
		})
	}
	return results
}

// drawDetection draws one labeled box on the frame.
func drawDetection(mat *gocv.Mat, det detection, label string) {
	gocv.Rectangle(mat, det.rect, boxColor, 2)
	text := fmt.Sprintf("%s (%.2f)", label, det.confidence)
	gocv.PutText(mat, text, image.Pt(det.rect.Min.X, det.rect.Min.Y-5), gocv.FontHersheySimplex, 0.5, boxColor, 1)
}
