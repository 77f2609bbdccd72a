package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"

	"go.uber.org/zap"

	"github.com/ironsheep/target-vision/internal/detection"
	"github.com/ironsheep/target-vision/internal/imaging"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "target_load", "target_detect").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, codeInvalidParams, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		s.logger.Warn("tool failed", zap.String("tool", params.Name), zap.Error(err))
		return s.errorResponse(req.ID, codeToolFailed, "Tool execution failed", err.Error())
	}

	return s.result(req.ID, map[string]interface{}{
		"content": []map[string]interface{}{
			{"type": "text", "text": mustMarshalJSON(result)},
		},
	})
}

// executeTool dispatches tool execution to the appropriate handler function.
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	case "target_load":
		return s.handleTargetLoad(args)
	case "target_mask":
		return s.handleTargetMask(args)
	case "target_detect":
		return s.handleTargetDetect(args)
	case "target_score_pair":
		return s.handleTargetScorePair(args)
	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message string, data interface{}) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// On marshal failure it returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// loadFrame loads an image from the cache and scales it to the configured
// working resolution.
func (s *Server) loadFrame(path string) (image.Image, error) {
	if path == "" {
		return nil, errors.New("path is required")
	}
	img, err := s.cache.Load(path)
	if err != nil {
		return nil, err
	}
	return imaging.Resize(img, s.cfg.Image.ResizeWidth, s.cfg.Image.ResizeHeight)
}

// thresholdWith returns the configured threshold stage with any range
// overrides from the call applied.
func (s *Server) thresholdWith(lo, hi *detection.HSV) detection.ThresholdConfig {
	t := s.cfg.Detection.Threshold
	if lo != nil {
		t.Min = *lo
	}
	if hi != nil {
		t.Max = *hi
	}
	return t
}

type targetLoadArgs struct {
	Path   string `json:"path"`
	Reload bool   `json:"reload"`
}

// LoadResult is returned by the target_load tool.
type LoadResult struct {
	*imaging.ImageInfo
	CachedFrames int `json:"cached_frames"`
}

func (s *Server) handleTargetLoad(args json.RawMessage) (interface{}, error) {
	var a targetLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Path == "" {
		return nil, errors.New("path is required")
	}

	// A camera that rewrites the same file needs the stale frame dropped.
	if a.Reload {
		s.cache.Evict(a.Path)
	}

	info, err := imaging.LoadImageInfo(s.cache, a.Path)
	if err != nil {
		return nil, err
	}
	return &LoadResult{ImageInfo: info, CachedFrames: s.cache.Len()}, nil
}

type targetMaskArgs struct {
	Path    string         `json:"path"`
	Min     *detection.HSV `json:"hsv_min"`
	Max     *detection.HSV `json:"hsv_max"`
	Preview bool           `json:"preview"`
}

// MaskResult is returned by the target_mask tool.
type MaskResult struct {
	Min        detection.HSV         `json:"hsv_min"`
	Max        detection.HSV         `json:"hsv_max"`
	Foreground int                   `json:"foreground_pixels"`
	Mask       *imaging.EncodedImage `json:"mask"`
	Preview    *imaging.EncodedImage `json:"preview,omitempty"`
}

func (s *Server) handleTargetMask(args json.RawMessage) (interface{}, error) {
	var a targetMaskArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}

	t := s.thresholdWith(a.Min, a.Max)
	cfg := s.cfg.Detection
	cfg.Threshold = t
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	img, err := s.loadFrame(a.Path)
	if err != nil {
		return nil, err
	}

	mask := detection.PrepareMask(img, t)
	encoded, err := imaging.EncodePNGBase64(mask)
	if err != nil {
		return nil, err
	}

	result := &MaskResult{
		Min:        t.Min,
		Max:        t.Max,
		Foreground: detection.ForegroundCount(mask),
		Mask:       encoded,
	}
	if a.Preview {
		result.Preview, err = imaging.EncodePNGBase64(detection.ApplyMask(img, mask))
		if err != nil {
			return nil, err
		}
	}
	return result, nil
}

type targetDetectArgs struct {
	Path    string         `json:"path"`
	Min     *detection.HSV `json:"hsv_min"`
	Max     *detection.HSV `json:"hsv_max"`
	Overlay bool           `json:"overlay"`
}

// DetectResult is returned by the target_detect tool.
type DetectResult struct {
	*detection.Detection
	Overlay *imaging.EncodedImage `json:"overlay,omitempty"`
}

func (s *Server) handleTargetDetect(args json.RawMessage) (interface{}, error) {
	var a targetDetectArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}

	img, err := s.loadFrame(a.Path)
	if err != nil {
		return nil, err
	}

	cfg := s.cfg.Detection
	cfg.Threshold = s.thresholdWith(a.Min, a.Max)
	det, err := detection.NewDetector(&cfg, s.logger).Detect(context.Background(), img)
	if err != nil {
		return nil, err
	}

	result := &DetectResult{Detection: det}
	if a.Overlay {
		result.Overlay, err = imaging.EncodePNGBase64(detection.RenderOverlay(img, det))
		if err != nil {
			return nil, err
		}
	}
	return result, nil
}

type targetScorePairArgs struct {
	Left     detection.OrientedBox `json:"left"`
	Right    detection.OrientedBox `json:"right"`
	MidPoint float64               `json:"mid_point"`
}

// ScoreResult is returned by the target_score_pair tool.
type ScoreResult struct {
	Score    float64 `json:"score"`
	MidPoint float64 `json:"mid_point"`
}

func (s *Server) handleTargetScorePair(args json.RawMessage) (interface{}, error) {
	var a targetScorePairArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.MidPoint <= 0 {
		return nil, fmt.Errorf("mid_point must be positive, got %g", a.MidPoint)
	}

	scorer := detection.NewPairScorer(s.cfg.Detection.Pairing, a.MidPoint)
	return &ScoreResult{
		Score:    scorer.Score(a.Left, a.Right),
		MidPoint: a.MidPoint,
	}, nil
}
