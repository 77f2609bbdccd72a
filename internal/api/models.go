package api

import (
	"github.com/ironsheep/target-vision/internal/detection"
	"github.com/ironsheep/target-vision/internal/imaging"
)

// ErrorResponse is returned with every non-2xx status.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

// DetectData is the payload of a successful detect call.
type DetectData struct {
	*detection.Detection
	Overlay *imaging.EncodedImage `json:"overlay,omitempty"`
}

// DetectResponse wraps DetectData.
type DetectResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    *DetectData `json:"data,omitempty"`
}

// ScoreRequest is the JSON body of a score call.
type ScoreRequest struct {
	Left     detection.OrientedBox `json:"left"`
	Right    detection.OrientedBox `json:"right"`
	MidPoint float64               `json:"mid_point"`
}

// ScoreResponse carries the pair score for a ScoreRequest.
type ScoreResponse struct {
	Success  bool    `json:"success"`
	Score    float64 `json:"score"`
	MidPoint float64 `json:"mid_point"`
}
