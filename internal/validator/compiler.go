// Package validator provides interfaces and types for JSON Schema validation.
package validator

import "io"

// A JSONDocument is a parsed JSON document, in the shape produced by UnmarshalJSON.
type JSONDocument interface{}

// Validator represents something which can be used to validate a JSON document.
type Validator interface {
	// Validate validates a JSON document.
	Validate(v JSONDocument) error
}

// Compiler defines a JSON Schema compiler. Schemas are registered by ID first and
// compiled afterwards so that $ref between registered schemas can be resolved.
type Compiler interface {
	// AddSchema registers a JSON Schema document read from r under id.
	AddSchema(id string, r io.Reader) error

	// Compile creates a Validator from the schema previously added with the given ID.
	Compile(id string) (Validator, error)
}

// UnmarshalJSON decodes r into the document shape expected by Validator.Validate.
type UnmarshalJSON func(r io.Reader) (JSONDocument, error)
