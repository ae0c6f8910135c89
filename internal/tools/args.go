// Package tools defines the query tools exposed through the registry: each
// file binds one resolution engine to its source adapter, cache-clearer
// groups, and input schema.
package tools

import (
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"

	"condameta/internal/domain"
)

// Arguments arrive as decoded JSON objects, so numbers are float64 and every
// value is optional until a tool says otherwise.

func stringArg(args map[string]any, key string, required bool) (string, error) {
	raw, ok := args[key]
	if !ok || raw == nil {
		if required {
			return "", domain.E(domain.CodeInvalidArgument, key, "argument is required", nil)
		}
		return "", nil
	}
	value, ok := raw.(string)
	if !ok {
		return "", domain.E(domain.CodeInvalidArgument, key, fmt.Sprintf("expected string, got %T", raw), nil)
	}
	return value, nil
}

func intArg(args map[string]any, key string, fallback int) (int, error) {
	raw, ok := args[key]
	if !ok || raw == nil {
		return fallback, nil
	}
	switch v := raw.(type) {
	case float64:
		if v != float64(int(v)) {
			return 0, domain.E(domain.CodeInvalidArgument, key, "expected integer", nil)
		}
		return int(v), nil
	case int:
		return v, nil
	default:
		return 0, domain.E(domain.CodeInvalidArgument, key, fmt.Sprintf("expected integer, got %T", raw), nil)
	}
}

func pageArgs(args map[string]any, defaultLimit int) (limit, offset int, err error) {
	limit, err = intArg(args, "limit", defaultLimit)
	if err != nil {
		return 0, 0, err
	}
	offset, err = intArg(args, "offset", 0)
	if err != nil {
		return 0, 0, err
	}
	if limit < 0 || offset < 0 {
		return 0, 0, domain.E(domain.CodeInvalidArgument, "limit/offset", "must be non-negative", nil)
	}
	return limit, offset, nil
}

func objectSchema(properties map[string]*jsonschema.Schema, required ...string) *jsonschema.Schema {
	return &jsonschema.Schema{
		Type:       "object",
		Properties: properties,
		Required:   required,
	}
}

func stringSchema(description string) *jsonschema.Schema {
	return &jsonschema.Schema{Type: "string", Description: description}
}

func intSchema(description string) *jsonschema.Schema {
	return &jsonschema.Schema{Type: "integer", Description: description}
}
