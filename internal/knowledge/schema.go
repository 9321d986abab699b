package knowledge

import "github.com/abhisek/jurusan/internal/schema"

const documentSchemaName = "knowledge-base"

// DocumentSchema is the structural JSON Schema for knowledge-base documents.
var DocumentSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"version": map[string]any{"type": "string"},
		"symptoms": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"code":  map[string]any{"type": "integer", "minimum": 1},
					"info":  map[string]any{"type": "string", "minLength": 1},
					"image": map[string]any{"type": "string"},
				},
				"required":             []any{"code", "info"},
				"additionalProperties": false,
			},
		},
		"majors": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"code":        map[string]any{"type": "integer", "minimum": 1},
					"name":        map[string]any{"type": "string", "minLength": 1},
					"description": map[string]any{"type": "string"},
					"solution":    map[string]any{"type": "string"},
					"notes":       map[string]any{"type": "string"},
					"image":       map[string]any{"type": "string"},
					"rules": map[string]any{
						"type": "array",
						"items": map[string]any{
							"type": "object",
							"properties": map[string]any{
								"symptom":   map[string]any{"type": "integer"},
								"expert_cf": map[string]any{"type": "number", "minimum": -1.0, "maximum": 1.0},
							},
							"required":             []any{"symptom", "expert_cf"},
							"additionalProperties": false,
						},
					},
				},
				"required":             []any{"code", "name", "rules"},
				"additionalProperties": false,
			},
		},
	},
	"required":             []any{"version", "symptoms", "majors"},
	"additionalProperties": false,
}

// EvidenceSchema describes an answers document: symptom code -> confidence
// number or answer label.
var EvidenceSchema = map[string]any{
	"type": "object",
	"patternProperties": map[string]any{
		"^[0-9]+$": map[string]any{
			"type": []any{"number", "string"},
		},
	},
	"additionalProperties": false,
}

// ErrSchema indicates input that does not match its JSON Schema.
type ErrSchema = schema.Error
