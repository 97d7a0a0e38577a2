package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

func idObject(required ...string) map[string]any {
	return map[string]any{
		"type":     "object",
		"required": append([]any{"id"}, toAny(required)...),
		"properties": map[string]any{
			"id": map[string]any{"type": "integer"},
		},
	}
}

func listOf(item map[string]any) map[string]any {
	return map[string]any{"type": "array", "items": item}
}

func toAny(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}

var messageObject = map[string]any{
	"type":     "object",
	"required": []any{"message"},
	"properties": map[string]any{
		"message": map[string]any{"type": "string"},
		"correct": map[string]any{"type": "boolean"},
	},
}

// responseSchemas describes the expected body per operation.
var responseSchemas = map[string]map[string]any{
	OpMyClassrooms:      listOf(idObject("name")),
	OpTestsByClassroom:  listOf(idObject("name")),
	OpQuestionsByTest:   listOf(idObject("name")),
	OpOptionsByQuestion: listOf(idObject("name", "is_correct")),
	OpUsersByClassroom:  listOf(idObject("username")),
	OpSessions:          listOf(idObject()),
	OpSessionDetail: {
		"type":     "object",
		"required": []any{"test_records"},
		"properties": map[string]any{
			"test_records": listOf(idObject()),
		},
	},
	OpSubmitAnswer:      messageObject,
	OpRecordScore:       messageObject,
	OpDeleteSubmissions: {"type": "object"},
}

// schemaCache caches compiled JSON schemas by operation.
var schemaCache sync.Map // map[string]*jsonschema.Schema

// validateResponse checks raw against the schema registered for op.
// Operations without a schema pass. Returns *InvalidResponseError on
// failure.
func validateResponse(op string, raw []byte) error {
	def, ok := responseSchemas[op]
	if !ok {
		return nil
	}

	parsed, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return &InvalidResponseError{Op: op, Body: raw, Err: fmt.Errorf("invalid JSON: %w", err)}
	}

	compiled, err := getCompiledSchema(op, def)
	if err != nil {
		return &InvalidResponseError{Op: op, Body: raw, Err: fmt.Errorf("compile schema %q: %w", op, err)}
	}

	if err := compiled.Validate(parsed); err != nil {
		return &InvalidResponseError{Op: op, Body: raw, Err: fmt.Errorf("schema validation failed: %w", err)}
	}
	return nil
}

// getCompiledSchema returns a cached compiled schema or compiles and caches it.
func getCompiledSchema(name string, def map[string]any) (*jsonschema.Schema, error) {
	if cached, ok := schemaCache.Load(name); ok {
		return cached.(*jsonschema.Schema), nil
	}

	// The jsonschema library expects a parsed JSON value, so round-trip
	// through encoding/json to normalize the Go literal.
	defBytes, err := json.Marshal(def)
	if err != nil {
		return nil, fmt.Errorf("marshal schema definition: %w", err)
	}
	var defParsed any
	if err := json.Unmarshal(defBytes, &defParsed); err != nil {
		return nil, fmt.Errorf("parse schema definition: %w", err)
	}

	c := jsonschema.NewCompiler()
	schemaURL := fmt.Sprintf("schema://%s.json", name)
	if err := c.AddResource(schemaURL, defParsed); err != nil {
		return nil, fmt.Errorf("add resource: %w", err)
	}

	compiled, err := c.Compile(schemaURL)
	if err != nil {
		return nil, fmt.Errorf("compile: %w", err)
	}

	schemaCache.Store(name, compiled)
	return compiled, nil
}
