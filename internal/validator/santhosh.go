package validator

import (
	"io"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// NewSanthoshCompiler returns a concrete implementation of Compiler
// using the santhosh-tekuri/jsonschema/v6 package. Schemas without a
// $schema keyword are treated as draft 2020-12.
func NewSanthoshCompiler() Compiler {
	c := jsonschema.NewCompiler()
	c.DefaultDraft(jsonschema.Draft2020)
	return &santhoshCompiler{c: c}
}

// Decode reads a JSON document from r in the form santhosh validators expect
// (numbers are kept as json.Number).
func Decode(r io.Reader) (JSONDocument, error) {
	return jsonschema.UnmarshalJSON(r)
}

var _ UnmarshalJSON = Decode

// santhoshValidator wraps jsonschema.Schema to implement Validator.
type santhoshValidator struct {
	v *jsonschema.Schema
}

func (sv *santhoshValidator) Validate(doc JSONDocument) error {
	return sv.v.Validate(doc)
}

// santhoshCompiler wraps jsonschema.Compiler to implement Compiler.
type santhoshCompiler struct {
	mu sync.Mutex
	c  *jsonschema.Compiler
}

func (s *santhoshCompiler) AddSchema(id string, r io.Reader) error {
	doc, err := jsonschema.UnmarshalJSON(r)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.c.AddResource(id, doc)
}

func (s *santhoshCompiler) Compile(id string) (Validator, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, err := s.c.Compile(id)
	if err != nil {
		return nil, err
	}
	return &santhoshValidator{v: v}, nil
}
