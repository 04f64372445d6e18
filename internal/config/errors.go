package config

import (
	"fmt"
)

type MissingConfigError struct {
	Path string
}

func (e *MissingConfigError) Error() string {
	return fmt.Sprintf("config file %s does not exist", e.Path)
}

type InvalidYAMLError struct {
	Path    string
	Wrapped error
}

func (e *InvalidYAMLError) Error() string {
	return fmt.Sprintf("%s is not a valid yaml document: %v", e.Path, e.Wrapped)
}

func (e *InvalidYAMLError) Unwrap() error {
	return e.Wrapped
}

type SchemaViolationError struct {
	Path    string
	Wrapped error
}

func (e *SchemaViolationError) Error() string {
	return fmt.Sprintf("%s is not a valid configuration: %v", e.Path, e.Wrapped)
}

func (e *SchemaViolationError) Unwrap() error {
	return e.Wrapped
}

type InvalidFilterError struct {
	Property string
	Value    string
	Wrapped  error
}

func (e *InvalidFilterError) Error() string {
	return fmt.Sprintf("property %s has invalid regular expression '%s': %v", e.Property, e.Value, e.Wrapped)
}

type InvalidVersionError struct {
	Property string
	Value    string
}

func (e *InvalidVersionError) Error() string {
	return fmt.Sprintf("property %s has invalid version '%s'", e.Property, e.Value)
}
