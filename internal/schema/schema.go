// Package schema compiles and caches JSON Schemas expressed as Go maps and
// validates raw JSON documents against them.
package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// cache holds compiled schemas by name.
var cache sync.Map // map[string]*jsonschema.Schema

// Error indicates a document that does not match its JSON Schema.
type Error struct {
	Name string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s document does not match schema: %v", e.Name, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Validate checks raw JSON against the schema def registered under name.
// A mismatch, including malformed JSON, is reported as *Error.
func Validate(name string, def map[string]any, raw []byte) error {
	compiled, err := Compile(name, def)
	if err != nil {
		return fmt.Errorf("compile %s schema: %w", name, err)
	}

	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return &Error{Name: name, Err: fmt.Errorf("invalid JSON: %w", err)}
	}

	if err := compiled.Validate(inst); err != nil {
		return &Error{Name: name, Err: err}
	}
	return nil
}

// Compile returns the compiled schema for name, compiling def on first use.
// Names must be unique per definition.
func Compile(name string, def map[string]any) (*jsonschema.Schema, error) {
	if cached, ok := cache.Load(name); ok {
		return cached.(*jsonschema.Schema), nil
	}

	// The compiler wants a value shaped like json.Unmarshal output.
	defBytes, err := json.Marshal(def)
	if err != nil {
		return nil, fmt.Errorf("marshal schema definition: %w", err)
	}
	defParsed, err := jsonschema.UnmarshalJSON(bytes.NewReader(defBytes))
	if err != nil {
		return nil, fmt.Errorf("parse schema definition: %w", err)
	}

	c := jsonschema.NewCompiler()
	url := fmt.Sprintf("schema://%s.json", name)
	if err := c.AddResource(url, defParsed); err != nil {
		return nil, fmt.Errorf("add resource: %w", err)
	}
	compiled, err := c.Compile(url)
	if err != nil {
		return nil, err
	}

	cache.Store(name, compiled)
	return compiled, nil
}
