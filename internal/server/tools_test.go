package server

import (
	"testing"
)

func toolsByName() map[string]Tool {
	toolMap := make(map[string]Tool)
	for _, tool := range GetToolDefinitions() {
		toolMap[tool.Name] = tool
	}
	return toolMap
}

func requiredFields(t *testing.T, tool Tool) []string {
	t.Helper()
	required, ok := tool.InputSchema["required"]
	if !ok {
		t.Fatalf("%s: InputSchema missing 'required' field", tool.Name)
	}
	requiredList, ok := required.([]string)
	if !ok {
		t.Fatalf("%s: 'required' should be a string slice", tool.Name)
	}
	return requiredList
}

func TestGetToolDefinitions(t *testing.T) {
	tools := GetToolDefinitions()

	expectedTools := []string{
		"target_load",
		"target_mask",
		"target_detect",
		"target_score_pair",
	}

	if len(tools) != len(expectedTools) {
		t.Errorf("Tool count: got %d, want %d", len(tools), len(expectedTools))
	}

	toolMap := toolsByName()
	for _, name := range expectedTools {
		if _, ok := toolMap[name]; !ok {
			t.Errorf("Expected tool %s not found", name)
		}
	}
}

func TestToolDefinitions_Structure(t *testing.T) {
	for _, tool := range GetToolDefinitions() {
		t.Run(tool.Name, func(t *testing.T) {
			if tool.Name == "" {
				t.Error("Tool name is empty")
			}
			if tool.Description == "" {
				t.Error("Tool description is empty")
			}
			if tool.InputSchema == nil {
				t.Fatal("Tool InputSchema is nil")
			}

			if schemaType := tool.InputSchema["type"]; schemaType != "object" {
				t.Errorf("InputSchema type: got %v, want 'object'", schemaType)
			}
			if props, ok := tool.InputSchema["properties"]; !ok || props == nil {
				t.Error("InputSchema missing 'properties' field")
			}
		})
	}
}

func TestToolDefinitions_Required(t *testing.T) {
	tests := []struct {
		tool string
		want []string
	}{
		{"target_load", []string{"path"}},
		{"target_mask", []string{"path"}},
		{"target_detect", []string{"path"}},
		{"target_score_pair", []string{"left", "right", "mid_point"}},
	}

	toolMap := toolsByName()
	for _, tt := range tests {
		t.Run(tt.tool, func(t *testing.T) {
			tool, ok := toolMap[tt.tool]
			if !ok {
				t.Fatalf("tool %s not defined", tt.tool)
			}
			got := requiredFields(t, tool)
			if len(got) != len(tt.want) {
				t.Fatalf("required: got %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("required[%d]: got %s, want %s", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestToolDefinitions_HSVOverrides(t *testing.T) {
	toolMap := toolsByName()

	for _, name := range []string{"target_mask", "target_detect"} {
		t.Run(name, func(t *testing.T) {
			props := toolMap[name].InputSchema["properties"].(map[string]interface{})
			for _, key := range []string{"hsv_min", "hsv_max"} {
				prop, ok := props[key].(map[string]interface{})
				if !ok {
					t.Fatalf("missing %s property", key)
				}
				channels := prop["properties"].(map[string]interface{})
				hue := channels["h"].(map[string]interface{})
				if hue["maximum"] != 179 {
					t.Errorf("%s.h maximum: got %v, want 179", key, hue["maximum"])
				}
			}
		})
	}
}

func TestToolDefinitions_OptionalDefaults(t *testing.T) {
	tests := []struct {
		tool  string
		param string
	}{
		{"target_load", "reload"},
		{"target_mask", "preview"},
		{"target_detect", "overlay"},
	}

	toolMap := toolsByName()
	for _, tt := range tests {
		t.Run(tt.tool+"/"+tt.param, func(t *testing.T) {
			props := toolMap[tt.tool].InputSchema["properties"].(map[string]interface{})
			param, ok := props[tt.param].(map[string]interface{})
			if !ok {
				t.Fatalf("missing %s property", tt.param)
			}
			if param["default"] != false {
				t.Errorf("default: got %v, want false", param["default"])
			}
		})
	}
}

func TestHandleToolsList(t *testing.T) {
	s := New(nil, nil)
	req := &MCPRequest{
		JSONRPC: "2.0",
		ID:      1,
	}

	resp := s.handleToolsList(req)

	if resp == nil {
		t.Fatal("handleToolsList returned nil")
	}
	if resp.Error != nil {
		t.Fatalf("Unexpected error: %v", resp.Error)
	}

	result, ok := resp.Result.(map[string]interface{})
	if !ok {
		t.Fatal("Result should be a map")
	}

	toolsList, ok := result["tools"].([]Tool)
	if !ok {
		t.Fatal("tools should be a slice of Tool")
	}

	expected := GetToolDefinitions()
	if len(toolsList) != len(expected) {
		t.Errorf("Tool count: got %d, want %d", len(toolsList), len(expected))
	}
}
