// Package tools provides the MCP tool handlers for the detection
// suite.
//
// Each handler follows one pattern:
// - A struct with dependencies injected via constructor
// - Definition() returns the mcp.Tool schema
// - Handle() processes the request and returns a result
//
// Handlers translate loosely-typed tool arguments into typed detection
// requests; all governance decisions stay in internal/validate.
package tools

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/mark3labs/mcp-go/mcp"
)

// floatArg extracts a float argument, returning defaultVal if the key
// is absent or not a number.
func floatArg(req mcp.CallToolRequest, key string, defaultVal float64) float64 {
	v, ok := req.GetArguments()[key].(float64)
	if !ok {
		return defaultVal
	}
	return v
}

// boolArg extracts a boolean argument from a tool request.
func boolArg(req mcp.CallToolRequest, key string, defaultVal bool) bool {
	v, ok := req.GetArguments()[key].(bool)
	if !ok {
		return defaultVal
	}
	return v
}

// intArg extracts an integer argument (JSON numbers are float64).
func intArg(req mcp.CallToolRequest, key string, defaultVal int) int {
	v, ok := req.GetArguments()[key].(float64)
	if !ok {
		return defaultVal
	}
	return int(v)
}

// floatSliceArg extracts a numeric array argument. Null entries map to
// NaN, which the validator treats as a missing value. Returns nil when
// the key is absent.
func floatSliceArg(req mcp.CallToolRequest, key string) ([]float64, error) {
	raw, present := req.GetArguments()[key]
	if !present || raw == nil {
		return nil, nil
	}
	list, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("'%s' must be an array of numbers", key)
	}
	out := make([]float64, len(list))
	for i, item := range list {
		switch v := item.(type) {
		case float64:
			out[i] = v
		case nil:
			out[i] = math.NaN()
		default:
			return nil, fmt.Errorf("'%s[%d]' must be a number or null", key, i)
		}
	}
	return out, nil
}

// floatMapArg extracts a string-to-number object argument. Returns nil
// when the key is absent.
func floatMapArg(req mcp.CallToolRequest, key string) (map[string]float64, error) {
	raw, present := req.GetArguments()[key]
	if !present || raw == nil {
		return nil, nil
	}
	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("'%s' must be an object of numbers", key)
	}
	out := make(map[string]float64, len(obj))
	for k, item := range obj {
		v, ok := item.(float64)
		if !ok {
			return nil, fmt.Errorf("'%s.%s' must be a number", key, k)
		}
		out[k] = v
	}
	return out, nil
}

// stringMapArg extracts a string-to-string object argument.
func stringMapArg(req mcp.CallToolRequest, key string) (map[string]string, error) {
	raw, present := req.GetArguments()[key]
	if !present || raw == nil {
		return nil, nil
	}
	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("'%s' must be an object of strings", key)
	}
	out := make(map[string]string, len(obj))
	for k, item := range obj {
		v, ok := item.(string)
		if !ok {
			return nil, fmt.Errorf("'%s.%s' must be a string", key, k)
		}
		out[k] = v
	}
	return out, nil
}

// objectArg extracts a raw object argument.
func objectArg(req mcp.CallToolRequest, key string) (map[string]any, error) {
	raw, present := req.GetArguments()[key]
	if !present || raw == nil {
		return nil, nil
	}
	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("'%s' must be an object", key)
	}
	return obj, nil
}

// jsonResult marshals v as indented JSON into a text result.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding result: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}
