package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for fatal conditions - use with errors.Is()
var (
	ErrValidation   = errors.New("validation failed")
	ErrNotFound     = errors.New("not found")
	ErrNotDirectory = errors.New("bundle is not a directory")
	ErrNoManifest   = errors.New("project manifest not found")
	ErrXMLParse     = errors.New("project XML could not be parsed")
	ErrEncoding     = errors.New("string not encodable")
)

// XMLParseError carries parser position detail for a fatal manifest failure.
// A broken manifest invalidates the whole import, so this is never downgraded
// to a per-item warning.
type XMLParseError struct {
	Detail string
}

func (e *XMLParseError) Error() string {
	return fmt.Sprintf("project XML could not be parsed: %s", e.Detail)
}

// Is allows errors.Is() to match against ErrXMLParse
func (e *XMLParseError) Is(target error) bool {
	return target == ErrXMLParse
}

// EncodingError reports a path or text field that cannot be represented in
// the target encoding. Archive assembly is the only producer.
type EncodingError struct {
	Value string
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("string not encodable: %q", e.Value)
}

// Is allows errors.Is() to match against ErrEncoding
func (e *EncodingError) Is(target error) bool {
	return target == ErrEncoding
}

// ValidationError indicates invalid input to a pipeline or exporter
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Is allows errors.Is() to match against ErrValidation
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// NotFoundError indicates a missing file or resource inside a bundle
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string {
	return e.Message
}

// Is allows errors.Is() to match against ErrNotFound
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}
