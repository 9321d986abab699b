package knowledge

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/abhisek/jurusan/internal/inference"
	"github.com/abhisek/jurusan/internal/schema"
	"gopkg.in/yaml.v3"
)

// Document is the portable form of a knowledge base, used by `kb import`
// and `kb export`.
type Document struct {
	Version  string            `json:"version" yaml:"version"`
	Symptoms []SymptomDocument `json:"symptoms" yaml:"symptoms"`
	Majors   []MajorDocument   `json:"majors" yaml:"majors"`
}

// SymptomDocument describes one diagnostic question.
type SymptomDocument struct {
	Code  int    `json:"code" yaml:"code"`
	Info  string `json:"info" yaml:"info"`
	Image string `json:"image,omitempty" yaml:"image,omitempty"`
}

// MajorDocument describes one major and its rules in evaluation order.
type MajorDocument struct {
	Code        int            `json:"code" yaml:"code"`
	Name        string         `json:"name" yaml:"name"`
	Description string         `json:"description,omitempty" yaml:"description,omitempty"`
	Solution    string         `json:"solution,omitempty" yaml:"solution,omitempty"`
	Notes       string         `json:"notes,omitempty" yaml:"notes,omitempty"`
	Image       string         `json:"image,omitempty" yaml:"image,omitempty"`
	Rules       []RuleDocument `json:"rules" yaml:"rules"`
}

// RuleDocument links a major to a symptom with the expert's confidence.
type RuleDocument struct {
	Symptom  int     `json:"symptom" yaml:"symptom"`
	ExpertCF float64 `json:"expert_cf" yaml:"expert_cf"`
}

// Format is a document encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// FormatFromPath picks a Format from a file extension. Unknown extensions
// are treated as YAML.
func FormatFromPath(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return FormatJSON
	}
	return FormatYAML
}

// ParseFormat maps a flag value to a Format.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(s)) {
	case FormatYAML, "yml":
		return FormatYAML, nil
	case FormatJSON:
		return FormatJSON, nil
	}
	return "", fmt.Errorf("unknown format: %q", s)
}

// Decode reads a document, checks it against DocumentSchema, and decodes it.
// Semantic checks are left to Validate.
func Decode(r io.Reader, format Format) (*Document, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}

	jsonRaw, err := toJSON(raw, format)
	if err != nil {
		return nil, err
	}

	if err := schema.Validate(documentSchemaName, DocumentSchema, jsonRaw); err != nil {
		return nil, err
	}

	var doc Document
	dec := json.NewDecoder(bytes.NewReader(jsonRaw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	return &doc, nil
}

// Encode writes the document in the given format.
func Encode(w io.Writer, doc *Document, format Format) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	default:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return err
		}
		return enc.Close()
	}
}

// toJSON normalizes YAML or JSON input to JSON bytes.
func toJSON(raw []byte, format Format) ([]byte, error) {
	if format == FormatJSON {
		if !json.Valid(raw) {
			return nil, fmt.Errorf("decode document: invalid JSON")
		}
		return raw, nil
	}

	var v any
	if err := yaml.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("decode YAML: %w", err)
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("convert YAML to JSON: %w", err)
	}
	return b, nil
}

// KnowledgeBase converts the document into engine types, keeping order.
func (d *Document) KnowledgeBase() inference.KnowledgeBase {
	kb := inference.KnowledgeBase{
		Symptoms: make([]inference.Symptom, len(d.Symptoms)),
		Majors:   make([]inference.Major, len(d.Majors)),
	}
	for i, s := range d.Symptoms {
		kb.Symptoms[i] = inference.Symptom{
			Code:     inference.SymptomCode(s.Code),
			Info:     s.Info,
			ImageURL: s.Image,
		}
	}
	for i, m := range d.Majors {
		rules := make([]inference.Rule, len(m.Rules))
		for j, r := range m.Rules {
			rules[j] = inference.Rule{Symptom: inference.SymptomCode(r.Symptom), ExpertCF: r.ExpertCF}
		}
		kb.Majors[i] = inference.Major{
			Code:        inference.MajorCode(m.Code),
			Name:        m.Name,
			Description: m.Description,
			Solution:    m.Solution,
			Notes:       m.Notes,
			ImageURL:    m.Image,
			Rules:       rules,
		}
	}
	return kb
}

// FromKnowledgeBase builds a document at CurrentVersion from engine types.
func FromKnowledgeBase(kb inference.KnowledgeBase) *Document {
	doc := &Document{
		Version:  CurrentVersion,
		Symptoms: make([]SymptomDocument, len(kb.Symptoms)),
		Majors:   make([]MajorDocument, len(kb.Majors)),
	}
	for i, s := range kb.Symptoms {
		doc.Symptoms[i] = SymptomDocument{Code: int(s.Code), Info: s.Info, Image: s.ImageURL}
	}
	for i, m := range kb.Majors {
		rules := make([]RuleDocument, len(m.Rules))
		for j, r := range m.Rules {
			rules[j] = RuleDocument{Symptom: int(r.Symptom), ExpertCF: r.ExpertCF}
		}
		doc.Majors[i] = MajorDocument{
			Code:        int(m.Code),
			Name:        m.Name,
			Description: m.Description,
			Solution:    m.Solution,
			Notes:       m.Notes,
			Image:       m.ImageURL,
			Rules:       rules,
		}
	}
	return doc
}
