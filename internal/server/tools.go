package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// hsvSchema describes an 8-bit HSV color argument.
func hsvSchema(description string) map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"h": map[string]interface{}{"type": "integer", "minimum": 0, "maximum": 179},
			"s": map[string]interface{}{"type": "integer", "minimum": 0, "maximum": 255},
			"v": map[string]interface{}{"type": "integer", "minimum": 0, "maximum": 255},
		},
		"required":    []string{"h", "s", "v"},
		"description": description,
	}
}

// boxSchema describes an oriented box argument.
func boxSchema(description string) map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"center": map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"x": map[string]interface{}{"type": "number"},
					"y": map[string]interface{}{"type": "number"},
				},
			},
			"size": map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"width":  map[string]interface{}{"type": "number"},
					"height": map[string]interface{}{"type": "number"},
				},
			},
			"angle": map[string]interface{}{
				"type":        "number",
				"description": "Tilt of the long axis from vertical, degrees",
			},
		},
		"required":    []string{"center", "size", "angle"},
		"description": description,
	}
}

func pathProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Absolute path to the image file",
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		{
			Name:        "target_load",
			Description: "Load an image file and return its dimensions and format. The decoded frame is cached for later calls.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"reload": map[string]interface{}{
						"type":        "boolean",
						"description": "Drop any cached copy and decode the file again, for frames rewritten in place (default: false)",
						"default":     false,
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "target_mask",
			Description: "Threshold an image by HSV range and return the binary mask as base64 PNG. Use this to tune the color range for a target.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":    pathProperty(),
					"hsv_min": hsvSchema("Lower HSV bound (inclusive). Defaults to the configured range."),
					"hsv_max": hsvSchema("Upper HSV bound (inclusive). Defaults to the configured range."),
					"preview": map[string]interface{}{
						"type":        "boolean",
						"description": "Also return the source image with unselected pixels blacked out",
						"default":     false,
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "target_detect",
			Description: "Detect the two-strip vision target in an image: returns every qualifying oriented box and the best-scoring left/right pair.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":    pathProperty(),
					"hsv_min": hsvSchema("Lower HSV bound (inclusive). Defaults to the configured range."),
					"hsv_max": hsvSchema("Upper HSV bound (inclusive). Defaults to the configured range."),
					"overlay": map[string]interface{}{
						"type":        "boolean",
						"description": "Also return the image with boxes and the pair drawn on it",
						"default":     false,
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "target_score_pair",
			Description: "Score two oriented boxes as the left and right strips of a target. Lower is better; 0 is ideal.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"left":  boxSchema("Box taken as the left strip"),
					"right": boxSchema("Box taken as the right strip"),
					"mid_point": map[string]interface{}{
						"type":        "number",
						"description": "Aim reference, normally half the frame height",
					},
				},
				"required": []string{"left", "right", "mid_point"},
			},
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return s.result(req.ID, map[string]interface{}{
		"tools": GetToolDefinitions(),
	})
}
