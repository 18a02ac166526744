package nn

import (
	"encoding/json"
	"os"

	"github.com/bmharper/cimg/v2"
)

// Package nn is the object detection interface layer.
// The concrete detector (CoreML, NCNN, whatever the platform provides) lives
// outside this repo. We only consume its per-frame output: axis-aligned boxes
// with a class index and a confidence.

const DefaultProbabilityThreshold = 0.5

// ObjectDetection is an object that the detector has found in an image
type ObjectDetection struct {
	Class      int     `json:"class"`
	Confidence float32 `json:"confidence"`
	Box        Rect    `json:"box"`
}

// Object detection parameters
type DetectionParams struct {
	ProbabilityThreshold float32 // Value between 0 and 1. Lower values will find more objects. Zero value will use the default.
}

// Create a default DetectionParams object
func NewDetectionParams() *DetectionParams {
	return &DetectionParams{
		ProbabilityThreshold: DefaultProbabilityThreshold,
	}
}

// ObjectDetector is given an image, and returns zero or more detected objects
type ObjectDetector interface {
	// Close the detector and release its resources
	Close()

	// DetectObjects returns a list of objects detected in the image.
	// A failed detection yields a nil list and an error; the caller treats
	// that frame as "nothing detected".
	DetectObjects(img *cimg.Image, params *DetectionParams) ([]ObjectDetection, error)

	// Model config. Callers assume this remains constant for the lifetime
	// of the detector.
	Config() *ModelConfig
}

// ModelConfig is saved in a JSON file along with the weights of the model
type ModelConfig struct {
	Architecture string   `json:"architecture"` // eg "yolov8"
	Width        int      `json:"width"`        // eg 320
	Height       int      `json:"height"`       // eg 256
	Classes      []string `json:"classes"`      // eg ["goal leg", "red ball", "blue ball"]
}

// Load model config from a JSON file
func LoadModelConfig(filename string) (*ModelConfig, error) {
	b, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	config := &ModelConfig{}
	err = json.Unmarshal(b, config)
	if err != nil {
		return nil, err
	}
	return config, nil
}

// ClassIndex returns the index of the named class in the model config,
// or -1 if the model does not know it.
func (c *ModelConfig) ClassIndex(name string) int {
	for i, cls := range c.Classes {
		if cls == name {
			return i
		}
	}
	return -1
}
