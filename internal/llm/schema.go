// Package llm - schema.go describes structured output and tool parameter shapes
// independently of any provider SDK.
package llm

import (
	"encoding/json"
	"fmt"

	"github.com/google/generative-ai-go/genai"
)

// SchemaType is the JSON type of a schema node
type SchemaType string

// Schema types understood by both Gemini and JSON Schema
const (
	TypeString  SchemaType = "string"
	TypeNumber  SchemaType = "number"
	TypeInteger SchemaType = "integer"
	TypeBoolean SchemaType = "boolean"
	TypeArray   SchemaType = "array"
	TypeObject  SchemaType = "object"
)

// Schema is a provider-neutral description of a JSON value.
type Schema struct {
	Type        SchemaType
	Description string
	Items       *Schema            // element schema when Type is TypeArray
	Properties  map[string]*Schema // field schemas when Type is TypeObject
	Required    []string           // required property names when Type is TypeObject
}

// StringSchema returns a string schema with a description.
func StringSchema(description string) *Schema {
	return &Schema{Type: TypeString, Description: description}
}

// ArraySchema returns an array schema whose elements match items.
func ArraySchema(description string, items *Schema) *Schema {
	return &Schema{Type: TypeArray, Description: description, Items: items}
}

// ObjectSchema returns an object schema. Every property listed in required must exist in properties.
func ObjectSchema(description string, properties map[string]*Schema, required ...string) *Schema {
	return &Schema{Type: TypeObject, Description: description, Properties: properties, Required: required}
}

// Check reports the first structural inconsistency in the schema tree.
func (s *Schema) Check() error {
	return s.check("(root)")
}

func (s *Schema) check(path string) error {
	if s == nil {
		return fmt.Errorf("schema %s is nil", path)
	}
	switch s.Type {
	case TypeString, TypeNumber, TypeInteger, TypeBoolean:
		return nil
	case TypeArray:
		if s.Items == nil {
			return fmt.Errorf("schema %s: array without items", path)
		}
		return s.Items.check(path + "[]")
	case TypeObject:
		for _, name := range s.Required {
			if _, ok := s.Properties[name]; !ok {
				return fmt.Errorf("schema %s: required property %q is not declared", path, name)
			}
		}
		for name, prop := range s.Properties {
			if err := prop.check(path + "." + name); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("schema %s: unsupported type %q", path, s.Type)
	}
}

// ToGenai converts the schema into the Gemini SDK representation.
func (s *Schema) ToGenai() *genai.Schema {
	if s == nil {
		return nil
	}

	out := &genai.Schema{
		Type:        genaiType(s.Type),
		Description: s.Description,
		Items:       s.Items.ToGenai(),
	}
	if len(s.Properties) > 0 {
		out.Properties = make(map[string]*genai.Schema, len(s.Properties))
		for name, prop := range s.Properties {
			out.Properties[name] = prop.ToGenai()
		}
	}
	if len(s.Required) > 0 {
		out.Required = append([]string(nil), s.Required...)
	}
	return out
}

func genaiType(t SchemaType) genai.Type {
	switch t {
	case TypeString:
		return genai.TypeString
	case TypeNumber:
		return genai.TypeNumber
	case TypeInteger:
		return genai.TypeInteger
	case TypeBoolean:
		return genai.TypeBoolean
	case TypeArray:
		return genai.TypeArray
	case TypeObject:
		return genai.TypeObject
	default:
		return genai.TypeUnspecified
	}
}

// JSONSchema renders the schema as a JSON Schema (draft-07) object.
func (s *Schema) JSONSchema() map[string]any {
	if s == nil {
		return nil
	}

	out := map[string]any{"type": string(s.Type)}
	if s.Description != "" {
		out["description"] = s.Description
	}
	if s.Items != nil {
		out["items"] = s.Items.JSONSchema()
	}
	if len(s.Properties) > 0 {
		props := make(map[string]any, len(s.Properties))
		for name, prop := range s.Properties {
			props[name] = prop.JSONSchema()
		}
		out["properties"] = props
	}
	if len(s.Required) > 0 {
		out["required"] = append([]string(nil), s.Required...)
	}
	return out
}

// JSONSchemaDocument renders a standalone JSON Schema document with a title.
func (s *Schema) JSONSchemaDocument(title string) (string, error) {
	doc := s.JSONSchema()
	if doc == nil {
		return "", fmt.Errorf("schema is nil")
	}
	doc["$schema"] = "http://json-schema.org/draft-07/schema#"
	if title != "" {
		doc["title"] = title
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal JSON schema: %w", err)
	}
	return string(data), nil
}
