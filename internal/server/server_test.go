package server

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/ironsheep/target-vision/internal/config"
)

func TestNew(t *testing.T) {
	s := New(nil, nil)
	if s.cache == nil || s.logger == nil {
		t.Fatal("New(nil, nil) left the cache or logger unset")
	}
	if s.cfg != *config.Default() {
		t.Errorf("nil config should use defaults, got %+v", s.cfg)
	}
	if s.version != "dev" {
		t.Errorf("version: got %q, want dev", s.version)
	}
}

func TestNew_UsesGivenConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Image.ResizeWidth = 64
	s := New(cfg, nil)

	if s.cfg.Image.ResizeWidth != 64 {
		t.Errorf("ResizeWidth: got %d, want 64", s.cfg.Image.ResizeWidth)
	}

	// The server keeps its own copy.
	cfg.Image.ResizeWidth = 128
	if s.cfg.Image.ResizeWidth != 64 {
		t.Error("server config changed with the caller's")
	}
}

func TestHandleRequest(t *testing.T) {
	tests := []struct {
		name     string
		req      MCPRequest
		wantNil  bool
		wantCode int
	}{
		{"initialize", MCPRequest{ID: 1, Method: "initialize"}, false, 0},
		{"ping", MCPRequest{ID: "ping-1", Method: "ping"}, false, 0},
		{"tools list", MCPRequest{ID: 2, Method: "tools/list"}, false, 0},
		{"initialized notification", MCPRequest{Method: "notifications/initialized"}, true, 0},
		{"cancelled notification", MCPRequest{Method: "notifications/cancelled"}, true, 0},
		{"unknown method", MCPRequest{ID: 3, Method: "resources/list"}, false, codeMethodNotFound},
		{"tools call without params", MCPRequest{ID: 4, Method: "tools/call"}, false, codeInvalidParams},
	}

	s := New(nil, nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.req.JSONRPC = "2.0"
			resp := s.handleRequest(&tt.req)

			if tt.wantNil {
				if resp != nil {
					t.Errorf("expected no response, got %+v", resp)
				}
				return
			}
			if resp == nil {
				t.Fatal("handleRequest returned nil")
			}
			if resp.ID != tt.req.ID || resp.JSONRPC != "2.0" {
				t.Errorf("envelope: got id %v jsonrpc %q", resp.ID, resp.JSONRPC)
			}

			switch {
			case tt.wantCode == 0 && resp.Error != nil:
				t.Errorf("unexpected error: %+v", resp.Error)
			case tt.wantCode != 0 && (resp.Error == nil || resp.Error.Code != tt.wantCode):
				t.Errorf("error: got %+v, want code %d", resp.Error, tt.wantCode)
			}
		})
	}
}

func TestHandleInitialize(t *testing.T) {
	s := New(nil, nil)
	s.SetVersion("1.4.0")

	resp := s.handleInitialize(&MCPRequest{JSONRPC: "2.0", ID: "init-1"})

	result, ok := resp.Result.(map[string]interface{})
	if !ok {
		t.Fatalf("Result should be a map, got %T", resp.Result)
	}
	if result["protocolVersion"] != protocolVersion {
		t.Errorf("protocolVersion: got %v", result["protocolVersion"])
	}

	info, ok := result["serverInfo"].(map[string]interface{})
	if !ok {
		t.Fatal("serverInfo should be a map")
	}
	if info["name"] != "target-vision" || info["version"] != "1.4.0" {
		t.Errorf("serverInfo: got %v", info)
	}
}

// serve runs Serve over the given lines and decodes every reply.
func serve(t *testing.T, s *Server, lines ...string) []MCPResponse {
	t.Helper()

	var out bytes.Buffer
	if err := s.Serve(strings.NewReader(strings.Join(lines, "\n")), &out); err != nil {
		t.Fatalf("Serve failed: %v", err)
	}

	var responses []MCPResponse
	dec := json.NewDecoder(&out)
	for dec.More() {
		var resp MCPResponse
		if err := dec.Decode(&resp); err != nil {
			t.Fatalf("invalid response line: %v", err)
		}
		responses = append(responses, resp)
	}
	return responses
}

func TestServe(t *testing.T) {
	responses := serve(t, New(nil, nil),
		`{"jsonrpc":"2.0","id":1,"method":"initialize"}`,
		`{"jsonrpc":"2.0","method":"notifications/initialized"}`,
		``,
		`   `,
		`not json`,
		`{"jsonrpc":"2.0","id":2,"method":"ping"}`,
		`{"jsonrpc":"2.0","id":3,"method":"bogus"}`,
	)

	// The notification and blank lines produce nothing.
	if len(responses) != 4 {
		t.Fatalf("got %d responses, want 4", len(responses))
	}

	wantIDs := []interface{}{float64(1), nil, float64(2), float64(3)}
	for i, resp := range responses {
		if resp.ID != wantIDs[i] {
			t.Errorf("response %d: ID got %v, want %v", i, resp.ID, wantIDs[i])
		}
	}
	if responses[1].Error == nil || responses[1].Error.Code != codeParseError {
		t.Errorf("malformed line should yield %d, got %+v", codeParseError, responses[1].Error)
	}
	if responses[3].Error == nil || responses[3].Error.Code != codeMethodNotFound {
		t.Errorf("unknown method should yield %d, got %+v", codeMethodNotFound, responses[3].Error)
	}
}

func TestServe_ToolCall(t *testing.T) {
	responses := serve(t, New(nil, nil),
		`{"jsonrpc":"2.0","id":"s","method":"tools/call","params":{"name":"target_score_pair","arguments":{`+
			`"left":{"center":{"x":10,"y":50},"size":{"width":20,"height":60},"angle":14.5},`+
			`"right":{"center":{"x":110,"y":50},"size":{"width":20,"height":60},"angle":-14.5},`+
			`"mid_point":100}}}`,
	)

	if len(responses) != 1 {
		t.Fatalf("got %d responses, want 1", len(responses))
	}
	if responses[0].Error != nil {
		t.Fatalf("unexpected error: %+v", responses[0].Error)
	}

	var result struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	}
	raw, _ := json.Marshal(responses[0].Result)
	if err := json.Unmarshal(raw, &result); err != nil {
		t.Fatalf("failed to decode result: %v", err)
	}
	if len(result.Content) != 1 || result.Content[0].Type != "text" {
		t.Fatalf("unexpected content: %+v", result.Content)
	}

	var score ScoreResult
	if err := json.Unmarshal([]byte(result.Content[0].Text), &score); err != nil {
		t.Fatalf("failed to decode score: %v", err)
	}
	if diff := score.Score - 0.16; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("Score: got %g, want 0.16", score.Score)
	}
}

func TestServe_LogsParseErrors(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	serve(t, New(nil, zap.New(core)), `{"jsonrpc":`)

	if n := logs.FilterMessage("unparseable request").Len(); n != 1 {
		t.Errorf("got %d parse warnings, want 1", n)
	}
}
