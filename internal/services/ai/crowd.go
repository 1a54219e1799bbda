package ai

import (
	"fmt"
	"image"
	"sync"

	"gocv.io/x/gocv"

	"visionserver/internal/models"
)

const (
	personClassID  = 1
	crowdModelConf = 0.5
)

// PersonCounter counts people in a frame with a DNN detection model and
// draws the boxes plus a running count onto the frame. Calls are serialized;
// the underlying net is not documented thread-safe.
type PersonCounter struct {
	mu      sync.Mutex
	net     gocv.Net
	quality int
}

// NewPersonCounter loads the crowd model.
func NewPersonCounter(modelPath, configPath string, quality int) (*PersonCounter, error) {
	net, err := loadNet(modelPath, configPath)
	if err != nil {
		return nil, fmt.Errorf("crowd model: %w", err)
	}
	return &PersonCounter{net: net, quality: quality}, nil
}

// Count implements detect.PersonCounter.
func (c *PersonCounter) Count(frameJPEG []byte) (models.CrowdResult, []byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	mat, err := decodeFrame(frameJPEG)
	if err != nil {
		return models.CrowdResult{}, nil, err
	}
	defer mat.Close()

	detections := runDetectionNet(&c.net, mat, crowdModelConf)

	count := 0
	for _, det := range detections {
		if det.classID != personClassID {
			continue
		}
		count++
		drawDetection(&mat, det, "person")
	}

	gocv.PutText(&mat, fmt.Sprintf("Current Count: %d", count), image.Pt(10, 30), gocv.FontHersheySimplex, 1, textColor, 2)

	annotated, err := encodeFrame(mat, c.quality)
	if err != nil {
		return models.CrowdResult{}, nil, err
	}

	return models.CrowdResult{PeopleCount: count}, annotated, nil
}

// Close releases the model.
func (c *PersonCounter) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.net.Close()
}
