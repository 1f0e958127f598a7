package genai

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
)

// FieldType enumerates the JSON types a Schema can declare.
type FieldType string

const (
	TypeString  FieldType = "string"
	TypeInteger FieldType = "integer"
	TypeArray   FieldType = "array"
	TypeObject  FieldType = "object"
)

// Schema is a declarative output-shape descriptor: field names, types, enum
// constraints and required-ness. It is rendered into the prompt and used to
// validate the model's reply.
type Schema struct {
	Type   FieldType
	Enum   []string // only for TypeString
	Items  *Schema  // only for TypeArray
	Fields []Field  // only for TypeObject, ordered
}

// Field is one named member of an object schema.
type Field struct {
	Name     string
	Required bool
	Schema   Schema
}

// Instruction renders the schema as a compact shape the model is told to
// match. Rendering is deterministic: fields appear in declaration order.
func (s Schema) Instruction() string {
	var b strings.Builder
	s.render(&b)
	return b.String()
}

func (s Schema) render(b *strings.Builder) {
	switch s.Type {
	case TypeObject:
		b.WriteString("{")
		for i, f := range s.Fields {
			if i > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(b, "%q: ", f.Name)
			f.Schema.render(b)
		}
		b.WriteString("}")
	case TypeArray:
		b.WriteString("[")
		if s.Items != nil {
			s.Items.render(b)
		}
		b.WriteString(", ...]")
	case TypeInteger:
		b.WriteString("integer")
	default:
		if len(s.Enum) > 0 {
			for i, v := range s.Enum {
				if i > 0 {
					b.WriteString(" | ")
				}
				fmt.Fprintf(b, "%q", v)
			}
			return
		}
		b.WriteString("string")
	}
}

// Validate checks a raw JSON document against the schema.
func (s Schema) Validate(raw json.RawMessage) error {
	var doc interface{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	return s.validate(doc, "$")
}

func (s Schema) validate(doc interface{}, path string) error {
	switch s.Type {
	case TypeObject:
		obj, ok := doc.(map[string]interface{})
		if !ok {
			return fmt.Errorf("%s: expected object", path)
		}
		for _, f := range s.Fields {
			value, present := obj[f.Name]
			if !present || value == nil {
				if f.Required {
					return fmt.Errorf("%s: missing required field %q", path, f.Name)
				}
				continue
			}
			if err := f.Schema.validate(value, path+"."+f.Name); err != nil {
				return err
			}
		}
		return nil
	case TypeArray:
		arr, ok := doc.([]interface{})
		if !ok {
			return fmt.Errorf("%s: expected array", path)
		}
		if s.Items == nil {
			return nil
		}
		for i, item := range arr {
			if err := s.Items.validate(item, fmt.Sprintf("%s[%d]", path, i)); err != nil {
				return err
			}
		}
		return nil
	case TypeInteger:
		n, ok := doc.(float64)
		if !ok || n != math.Trunc(n) {
			return fmt.Errorf("%s: expected integer", path)
		}
		return nil
	default:
		str, ok := doc.(string)
		if !ok {
			return fmt.Errorf("%s: expected string", path)
		}
		if len(s.Enum) == 0 {
			return nil
		}
		for _, v := range s.Enum {
			if strings.EqualFold(strings.TrimSpace(str), v) {
				return nil
			}
		}
		return fmt.Errorf("%s: %q is not one of %v", path, str, s.Enum)
	}
}
